// Package server exposes scan reports over HTTP and streams scan progress
// to rendering clients over websockets.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/sprawl-dev/sprawl/core"
	"github.com/sprawl-dev/sprawl/core/scan"
	"github.com/sprawl-dev/sprawl/internal/apiclient"
	"github.com/sprawl-dev/sprawl/internal/contract"
)

// Server serves the HTTP surface of a sprawl instance.
type Server struct {
	cfg *contract.Config
	cl  core.Clients
	mux *http.ServeMux
}

// New creates a server backed by the given clients.
func New(cfg *contract.Config, cl core.Clients) *Server {
	s := &Server{cfg: cfg, cl: cl, mux: http.NewServeMux()}
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("GET /repositories", s.handleRepositories)
	s.mux.HandleFunc("GET /scans/{id}/report", s.handleReport)
	s.mux.HandleFunc("GET /scans/{id}/watch", s.handleWatch)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe serves on the configured address until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	fmt.Printf("🌐 Serving on %s (scanner at %s)\n", s.cfg.ListenAddr, s.cfg.APIURL)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return nil
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRepositories(w http.ResponseWriter, r *http.Request) {
	repos, err := s.cl.Repos.ListRepositories(r.Context())
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, repos)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	scanID, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	cfg, err := s.configFor(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	report, err := core.GetScanReport(r.Context(), cfg, s.cl, scanID)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// configFor clones the server config and applies the optional limit query parameter.
func (s *Server) configFor(r *http.Request) (*contract.Config, error) {
	cfg := s.cfg.Clone()
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return cfg, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 || limit > contract.MaxTreeLimit {
		return nil, fmt.Errorf("limit must be between 1 and %d (received %q)", contract.MaxTreeLimit, raw)
	}
	cfg.TreeLimit = limit
	return cfg, nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

// statusFor maps a lifecycle or client error onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, scan.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apiclient.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, scan.ErrNotCompleted):
		return http.StatusConflict
	case errors.Is(err, scan.ErrScanFailed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		contract.LogWarn("failed to encode response", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
