package web

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/PauloHFS/goth-blog/internal/i18n"
	"github.com/PauloHFS/goth-blog/internal/logging"
	"github.com/PauloHFS/goth-blog/internal/metrics"
	"github.com/PauloHFS/goth-blog/internal/middleware"
	"github.com/PauloHFS/goth-blog/internal/routes"
	"github.com/PauloHFS/goth-blog/internal/validator"
	"github.com/PauloHFS/goth-blog/internal/view/pages"
	"golang.org/x/crypto/bcrypt"
)

func handleLoginPage(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	if middleware.GetRequester(r.Context()).IsAuthenticated {
		http.Redirect(w, r, routes.Posts, http.StatusSeeOther)
		return nil
	}
	next := safeNext(r.URL.Query().Get("next"))
	render(w, r, http.StatusOK, pages.Login(chrome(deps, r, i18n.Get(r.Context()).Login), "", next, ""))
	return nil
}

func handleLogin(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	next := safeNext(r.FormValue("next"))

	emailDomain := ""
	if idx := strings.Index(email, "@"); idx > 0 {
		emailDomain = email[idx+1:]
	}
	logging.AddToEvent(r.Context(),
		slog.String("operation", "login"),
		slog.String("email_domain", emailDomain),
	)

	fail := func(reason string) error {
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		logging.AddToEvent(r.Context(),
			slog.String("outcome", "error"),
			slog.String("error_reason", reason),
		)
		t := i18n.Get(r.Context())
		render(w, r, http.StatusUnauthorized, pages.Login(chrome(deps, r, t.Login), email, next, t.InvalidLogin))
		return nil
	}

	if !validator.ValidateCredentials(email, password).Valid {
		return fail("invalid_credentials_format")
	}

	user, err := deps.Queries.GetUserByEmail(r.Context(), email)
	if errors.Is(err, sql.ErrNoRows) {
		return fail("user_not_found")
	}
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return fail("invalid_password")
	}

	if err := deps.SessionManager.RenewToken(r.Context()); err != nil {
		return fmt.Errorf("failed to renew session token: %w", err)
	}
	deps.SessionManager.Put(r.Context(), middleware.SessionUserKey, user.ID)

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	logging.AddToEvent(r.Context(),
		slog.String("outcome", "success"),
		slog.Int64("user_id", user.ID),
	)
	http.Redirect(w, r, next, http.StatusSeeOther)
	return nil
}

func handleLogout(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	if err := deps.SessionManager.Destroy(r.Context()); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	http.Redirect(w, r, routes.Login, http.StatusSeeOther)
	return nil
}

// safeNext only allows local paths as post-login targets.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return routes.Posts
	}
	return next
}
