package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dealboard/dealboard-backend/pkg/config"
	"github.com/dealboard/dealboard-backend/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "dev", Port: "5000"},
		JWT: config.JWTConfig{
			Secret:            "test-secret",
			Issuer:            "dealboard-test",
			ExpirationMinutes: 30,
		},
		Uploads: config.UploadsConfig{PublicDir: "public"},
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test"})
	return NewRouter(testConfig(), logg, nil, nil, prometheus.NewRegistry(), Services{})
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if rec.Header().Get("X-Dealboard-Env") != "dev" {
		t.Fatalf("expected env header, got %q", rec.Header().Get("X-Dealboard-Env"))
	}
}

func TestMetricsExposed(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}

func TestMutationsRequireToken(t *testing.T) {
	router := newTestRouter(t)

	targets := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/upload-profiles"},
		{http.MethodPost, "/api/v1/sellers"},
		{http.MethodPost, "/api/v1/users"},
		{http.MethodGet, "/api/v1/auth/me"},
	}

	for _, target := range targets {
		req := httptest.NewRequest(target.method, target.path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401 got %d", target.method, target.path, rec.Code)
		}
	}
}
