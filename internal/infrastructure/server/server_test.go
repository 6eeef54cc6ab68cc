package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quiverhq/quiver/backend/internal/infrastructure/config"
	"github.com/quiverhq/quiver/backend/internal/infrastructure/logging"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	cfg := config.Default()
	cfg.Storage.Path = filepath.Join(t.TempDir(), "test.db")
	cfg.RateLimit.Enabled = false

	srv, err := New(cfg, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { srv.Shutdown(context.Background()) })
	return srv
}

func TestServerRoutes(t *testing.T) {
	srv := testServer(t)
	handler := srv.httpSrv.Handler

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{"root banner", "GET", "/", http.StatusOK},
		{"health", "GET", "/health", http.StatusOK},
		{"metrics", "GET", "/metrics", http.StatusOK},
		{"proxy rejects GET", "GET", "/api/proxy", http.StatusMethodNotAllowed},
		{"collections need auth", "GET", "/api/collections", http.StatusUnauthorized},
		{"history needs auth", "GET", "/api/history", http.StatusUnauthorized},
		{"unknown route", "GET", "/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestServerProxyAllowHeader(t *testing.T) {
	srv := testServer(t)

	w := httptest.NewRecorder()
	srv.httpSrv.Handler.ServeHTTP(w, httptest.NewRequest("DELETE", "/api/proxy", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "POST", w.Header().Get("Allow"))
}

func TestServerMetricsExposition(t *testing.T) {
	srv := testServer(t)

	w := httptest.NewRecorder()
	srv.httpSrv.Handler.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "quiver_uptime_seconds")
}
