package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCORS(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		origins    []string
		origin     string
		method     string
		wantAllow  string
		wantStatus int
	}{
		{"No origin header", nil, "", "GET", "", http.StatusOK},
		{"Open policy", nil, "https://a.example", "GET", "*", http.StatusOK},
		{"Exact match", []string{"https://a.example"}, "https://a.example", "GET", "https://a.example", http.StatusOK},
		{"Subdomain wildcard", []string{"*.example.com"}, "https://blog.example.com", "GET", "https://blog.example.com", http.StatusOK},
		{"Rejected origin", []string{"https://a.example"}, "https://evil.example", "GET", "", http.StatusOK},
		{"Preflight", []string{"https://a.example"}, "https://a.example", "OPTIONS", "https://a.example", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/posts", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.method == "OPTIONS" {
				req.Header.Set("Access-Control-Request-Method", "GET")
			}
			rec := httptest.NewRecorder()

			CORS(APICORSConfig(tt.origins))(ok).ServeHTTP(rec, req)

			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantAllow {
				t.Errorf("Allow-Origin = %q, want %q", got, tt.wantAllow)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}
