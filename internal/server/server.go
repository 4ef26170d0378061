// Package server exposes the journal over a small JSON HTTP API. The API
// mirrors the CLI workflows one-to-one: entry writes trigger emotion
// derivation, weekly reads aggregate observations, and an explicit analyze
// endpoint re-derives a whole week.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/blackwell-systems/daymark/internal/journal"
	"github.com/blackwell-systems/daymark/internal/logger"
)

// Server serves the journal API on one address.
type Server struct {
	service     *journal.Service
	obs         journal.ObservationStore
	deriver     *journal.Deriver
	defaultUser string
	httpServer  *http.Server
}

// Config carries the server wiring.
type Config struct {
	Addr        string
	Service     *journal.Service
	Obs         journal.ObservationStore
	Deriver     *journal.Deriver
	DefaultUser string
}

// New builds the server and its route table.
func New(cfg Config) *Server {
	s := &Server{
		service:     cfg.Service,
		obs:         cfg.Obs,
		deriver:     cfg.Deriver,
		defaultUser: cfg.DefaultUser,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /api/entries", s.handleSaveEntry)
	mux.HandleFunc("GET /api/entries", s.handleListEntries)
	mux.HandleFunc("GET /api/entries/{id}", s.handleGetEntry)
	mux.HandleFunc("PUT /api/entries/{id}", s.handleUpdateEntry)
	mux.HandleFunc("DELETE /api/entries/{id}", s.handleDeleteEntry)
	mux.HandleFunc("GET /api/days/{date}", s.handleDay)
	mux.HandleFunc("GET /api/weeks/{date}", s.handleWeek)
	mux.HandleFunc("POST /api/weeks/{date}/analyze", s.handleAnalyzeWeek)

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           logRequests(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Run serves until ctx is canceled, then drains connections for up to ten
// seconds before returning.
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("api server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// userID resolves the acting user: the X-User-ID header when present,
// otherwise the server's configured default identity.
func (s *Server) userID(r *http.Request) string {
	if id := r.Header.Get("X-User-ID"); id != "" {
		return id
	}
	return s.defaultUser
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// logRequests wraps the mux with one log line per request.
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "took", time.Since(start))
	})
}
