package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/PauloHFS/goth-blog/internal/db"
	"github.com/PauloHFS/goth-blog/internal/policies"
	"github.com/alexedwards/scs/v2"
)

type fakeUsers map[int64]db.User

func (f fakeUsers) GetUserByID(_ context.Context, id int64) (db.User, error) {
	u, ok := f[id]
	if !ok {
		return db.User{}, sql.ErrNoRows
	}
	return u, nil
}

func TestLoadRequester(t *testing.T) {
	users := fakeUsers{1: {ID: 1, FirstName: "Ana", IsStaff: true, IsSuperuser: true}}

	tests := []struct {
		name     string
		userID   int64
		wantAuth bool
		wantElev bool
	}{
		{"Anonymous", 0, false, false},
		{"Known admin", 1, true, true},
		{"Deleted user", 99, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm := scs.New()
			var got policies.Requester

			inner := LoadRequester(sm, users, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = GetRequester(r.Context())
			}))
			handler := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.userID != 0 {
					sm.Put(r.Context(), SessionUserKey, tt.userID)
				}
				inner.ServeHTTP(w, r)
			}))

			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/posts/", nil))

			if got.IsAuthenticated != tt.wantAuth {
				t.Errorf("IsAuthenticated = %v, want %v", got.IsAuthenticated, tt.wantAuth)
			}
			if got.IsElevated() != tt.wantElev {
				t.Errorf("IsElevated = %v, want %v", got.IsElevated(), tt.wantElev)
			}
		})
	}
}

func TestGetRequester_Empty(t *testing.T) {
	if r := GetRequester(context.Background()); r.IsAuthenticated {
		t.Error("empty context must yield an anonymous requester")
	}
}
