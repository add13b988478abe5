// README: Router wiring tests: health endpoint and auth gating.
package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"fleetops/internal/auth"
	httptransport "fleetops/internal/http"
)

// Services stay nil: every request here is rejected by the auth
// middleware before any handler touches them.
func buildRouter() http.Handler {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return httptransport.NewRouter(httptransport.RouterDeps{
		Tokens: auth.NewTokenService("test-secret", time.Hour),
		Log:    log,
	})
}

func TestHealth(t *testing.T) {
	r := buildRouter()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := buildRouter()
	paths := []struct {
		method, path string
	}{
		{http.MethodGet, "/api/v1/trips"},
		{http.MethodPost, "/api/v1/trips"},
		{http.MethodGet, "/api/v1/vehicles"},
		{http.MethodGet, "/api/v1/drivers/expiring-licenses"},
		{http.MethodGet, "/api/v1/maintenance"},
		{http.MethodGet, "/api/v1/auth/me"},
	}
	for _, tc := range paths {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401, got %d", tc.method, tc.path, w.Code)
		}
	}
}

func TestGarbageTokenRejected(t *testing.T) {
	r := buildRouter()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/trips", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}
