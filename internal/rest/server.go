// Package rest exposes the CompText compiler and codex over HTTP.
// Responses are JSON; errors use a {"detail": ...} body.
package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/comptext/comptext-mcp/internal/codex"
	"github.com/comptext/comptext-mcp/internal/compiler"
)

// Server is the REST API. It reads from the same codex source and
// registry provider as the MCP server.
type Server struct {
	source     codex.Source
	provider   *compiler.Provider
	maxResults int
	version    string
	metrics    *metrics
}

// New creates a REST server over the given backends.
func New(source codex.Source, provider *compiler.Provider, maxResults int, version string) *Server {
	return &Server{
		source:     source,
		provider:   provider,
		maxResults: maxResults,
		version:    version,
		metrics:    newMetrics(),
	}
}

// Handler returns the fully routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.instrument("/", s.handleIndex))
	mux.HandleFunc("GET /health", s.instrument("/health", s.handleHealth))
	mux.HandleFunc("GET /api/modules", s.instrument("/api/modules", s.handleModules))
	mux.HandleFunc("GET /api/modules/{module}", s.instrument("/api/modules/{module}", s.handleModule))
	mux.HandleFunc("GET /api/search", s.instrument("/api/search", s.handleSearch))
	mux.HandleFunc("GET /api/command/{id}", s.instrument("/api/command/{id}", s.handleCommand))
	mux.HandleFunc("GET /api/tags/{tag}", s.instrument("/api/tags/{tag}", s.handleByTag))
	mux.HandleFunc("GET /api/types/{type}", s.instrument("/api/types/{type}", s.handleByType))
	mux.HandleFunc("GET /api/statistics", s.instrument("/api/statistics", s.handleStatistics))
	mux.HandleFunc("POST /api/compile", s.instrument("/api/compile", s.handleCompile))
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))

	return mux
}

// Run serves the API on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("REST API listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("WARNING: encoding response: %v", err)
	}
}

// writeError writes a JSON error body, FastAPI-style.
func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
