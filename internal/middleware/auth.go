package middleware

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/PauloHFS/goth-blog/internal/contextkeys"
	"github.com/PauloHFS/goth-blog/internal/db"
	"github.com/PauloHFS/goth-blog/internal/logging"
	"github.com/PauloHFS/goth-blog/internal/policies"
	"github.com/alexedwards/scs/v2"
)

// SessionUserKey is the session key holding the logged-in user's id.
const SessionUserKey = "user_id"

type UserLookup interface {
	GetUserByID(ctx context.Context, id int64) (db.User, error)
}

// LoadRequester resolves the session into a policies.Requester and stores it
// in the request context. Requests without a valid session continue as
// anonymous; nothing here redirects.
func LoadRequester(sm *scs.SessionManager, users UserLookup, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requester := policies.Requester{}

		if userID := sm.GetInt64(r.Context(), SessionUserKey); userID != 0 {
			user, err := users.GetUserByID(r.Context(), userID)
			switch {
			case err == nil:
				requester = policies.FromUser(user)
			case errors.Is(err, sql.ErrNoRows):
				// user deleted since login
				sm.Remove(r.Context(), SessionUserKey)
			default:
				logging.Get().Warn("failed to load session user",
					slog.Int64("user_id", userID),
					slog.Any("error", err),
				)
			}
		}

		logging.AddToEvent(r.Context(),
			slog.Bool("authenticated", requester.IsAuthenticated),
			slog.Bool("elevated", requester.IsElevated()),
		)

		ctx := context.WithValue(r.Context(), contextkeys.RequesterKey, requester)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequester returns the requester stored by LoadRequester, or an anonymous
// one.
func GetRequester(ctx context.Context) policies.Requester {
	requester, _ := ctx.Value(contextkeys.RequesterKey).(policies.Requester)
	return requester
}
