package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/PauloHFS/goth-blog/internal/contextkeys"
	"github.com/PauloHFS/goth-blog/internal/i18n"
)

// Locale picks the UI language: ?lang= first (remembered in a cookie), then
// the lang cookie, then Accept-Language.
func Locale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		locale := i18n.DefaultLocale

		if q := r.URL.Query().Get("lang"); i18n.Supported(q) {
			locale = q
			http.SetCookie(w, &http.Cookie{
				Name:     "lang",
				Value:    q,
				Path:     "/",
				MaxAge:   365 * 24 * 60 * 60,
				SameSite: http.SameSiteLaxMode,
			})
		} else if cookie, err := r.Cookie("lang"); err == nil && i18n.Supported(cookie.Value) {
			locale = cookie.Value
		} else if strings.HasPrefix(r.Header.Get("Accept-Language"), "en") {
			locale = "en"
		}

		ctx := context.WithValue(r.Context(), contextkeys.LocaleKey, locale)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
