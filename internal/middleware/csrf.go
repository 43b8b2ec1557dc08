package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/PauloHFS/goth-blog/internal/contextkeys"
	"github.com/PauloHFS/goth-blog/internal/logging"
	"github.com/justinas/nosurf"
)

// CSRF wraps next with nosurf and exposes the token to templates through the
// request context.
func CSRF(secure bool, next http.Handler) http.Handler {
	h := nosurf.New(InjectCSRF(next))
	h.SetBaseCookie(http.Cookie{
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	h.SetFailureHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logging.AddToEvent(r.Context(), slog.String("csrf_failure", nosurf.Reason(r).Error()))
		http.Error(w, "Forbidden", http.StatusForbidden)
	}))
	h.ExemptGlob("/api/*")
	return h
}

func InjectCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), contextkeys.CSRFTokenKey, nosurf.Token(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
