package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fakekoji/otool/pkg/log"
	"github.com/fakekoji/otool/pkg/manager"
	"github.com/fakekoji/otool/pkg/metrics"
	"github.com/fakekoji/otool/pkg/types"
)

// HealthServer serves metrics and health endpoints over HTTP
type HealthServer struct {
	manager *manager.Manager
	mux     *http.ServeMux
	server  *http.Server
}

// NewHealthServer creates a new health check HTTP server. mgr may be nil,
// in which case readiness reports only the registered components.
func NewHealthServer(mgr *manager.Manager) *HealthServer {
	mux := http.NewServeMux()
	hs := &HealthServer{
		manager: mgr,
		mux:     mux,
	}

	mux.HandleFunc("/health", getOnly(metrics.HealthHandler()))
	mux.HandleFunc("/ready", getOnly(hs.readyHandler))
	mux.HandleFunc("/live", getOnly(metrics.LivenessHandler()))
	mux.Handle("/metrics", metrics.Handler())

	return hs
}

// Start serves on addr until Shutdown is called
func (hs *HealthServer) Start(addr string) error {
	hs.server = &http.Server{
		Addr:         addr,
		Handler:      hs.mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger := log.WithComponent("api")
	logger.Info().Str("addr", addr).Msg("serving health and metrics")
	if err := hs.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server
func (hs *HealthServer) Shutdown(ctx context.Context) error {
	if hs.server == nil {
		return nil
	}
	return hs.server.Shutdown(ctx)
}

// GetHandler returns the HTTP handler for embedding in other servers
func (hs *HealthServer) GetHandler() http.Handler {
	return hs.mux
}

// readyHandler refreshes the raft and store components from the manager
// before reporting readiness
func (hs *HealthServer) readyHandler(w http.ResponseWriter, r *http.Request) {
	if hs.manager != nil {
		if hs.manager.IsLeader() {
			metrics.RegisterComponent(metrics.ComponentRaft, true, "")
		} else {
			metrics.RegisterComponent(metrics.ComponentRaft, false, "no leader elected")
		}

		if _, err := hs.manager.List(types.KindProduct); err != nil {
			metrics.RegisterComponent(metrics.ComponentStore, false, err.Error())
		} else {
			metrics.RegisterComponent(metrics.ComponentStore, true, "")
		}
	}

	metrics.ReadyHandler()(w, r)
}

func getOnly(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	}
}
