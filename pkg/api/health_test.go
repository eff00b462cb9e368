package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fakekoji/otool/pkg/manager"
	"github.com/fakekoji/otool/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHealthEndpointsMethodValidation tests that only GET is accepted
func TestHealthEndpointsMethodValidation(t *testing.T) {
	hs := NewHealthServer(nil)

	tests := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
	}{
		{"live GET", http.MethodGet, "/live", http.StatusOK},
		{"live POST", http.MethodPost, "/live", http.StatusMethodNotAllowed},
		{"health PUT", http.MethodPut, "/health", http.StatusMethodNotAllowed},
		{"ready DELETE", http.MethodDelete, "/ready", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()

			hs.GetHandler().ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

// TestRoutes tests that every endpoint is registered
func TestRoutes(t *testing.T) {
	hs := NewHealthServer(nil)

	assert.NotNil(t, hs.mux)
	assert.Nil(t, hs.manager)

	tests := []struct {
		path           string
		expectedStatus int
	}{
		{path: "/live", expectedStatus: http.StatusOK},
		{path: "/metrics", expectedStatus: http.StatusOK},
		{path: "/nonexistent", expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()

			hs.mux.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code, "Path: %s", tt.path)
		})
	}
}

// TestReadyWithManager tests that a bootstrapped store reports ready
func TestReadyWithManager(t *testing.T) {
	mgr, err := manager.NewManager(&manager.Config{DataDir: t.TempDir()})
	require.NoError(t, err)
	require.NoError(t, mgr.Bootstrap())
	defer mgr.Shutdown()

	hs := NewHealthServer(mgr)

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	w := httptest.NewRecorder()
	hs.GetHandler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var response metrics.HealthStatus
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "ready", response.Status)
	assert.Equal(t, "ready", response.Components[metrics.ComponentRaft])
	assert.Equal(t, "ready", response.Components[metrics.ComponentStore])

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	w = httptest.NewRecorder()
	hs.GetHandler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
