package view

import (
	"context"
	"time"

	"github.com/PauloHFS/goth-blog/internal/contextkeys"
)

// CSRFToken returns the nosurf token injected into the context
func CSRFToken(ctx context.Context) string {
	if token, ok := ctx.Value(contextkeys.CSRFTokenKey).(string); ok {
		return token
	}
	return ""
}

func FormatDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

func InputDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}
