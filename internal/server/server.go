// Package server provides the HTTP REST API for the cocktail advisor.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonathan/cocktail-advisor/internal/advisor"
	"github.com/jonathan/cocktail-advisor/internal/config"
	"github.com/jonathan/cocktail-advisor/internal/logging"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Server represents the HTTP server
type Server struct {
	httpServer      *http.Server
	adv             *advisor.Advisor
	validate        *validator.Validate
	shutdownTimeout time.Duration
}

// New creates a new server instance over a built advisor. The advisor stays
// owned by the caller.
func New(adv *advisor.Advisor) *Server {
	cfg := adv.Config
	s := &Server{
		adv:             adv,
		validate:        validator.New(),
		shutdownTimeout: cfg.Server.ShutdownTimeout,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      s.routes(cfg),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) routes(cfg *config.Config) http.Handler {
	r := chi.NewRouter()
	r.Use(withRequestID)
	r.Use(withLogging)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         86400,
	}))

	r.Get("/health", s.handleHealth)
	if cfg.Metrics.Enabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/v1", func(r chi.Router) {
		if cfg.Server.RateLimit > 0 {
			r.Use(httprate.LimitByIP(cfg.Server.RateLimit, time.Minute))
		}
		r.Get("/taste-blocks", s.handleTasteBlocks)
		r.Get("/stats", s.handleStats)
		r.Get("/profiler/stats", s.handleProfilerStats)
		r.Post("/relevance", s.handleRelevance)
		r.Post("/score", s.handleScore)
		r.Post("/recipes", s.handleRecipe)
		r.Post("/ingredients/profile", s.handleIngredientProfile)
		r.Post("/ingredients/profiles", s.handleIngredientProfiles)
		r.Post("/cocktails/profile", s.handleCocktailProfile)
	})

	return r
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening for requests and blocks until ctx is cancelled or
// SIGINT/SIGTERM arrives, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", s.httpServer.Addr).Msg("Server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logging.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logging.Info().Msg("Server stopped")
	return nil
}

// decode reads a JSON body into dst and runs struct validation.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return &ErrBadRequest{Cause: err}
	}
	if err := s.validate.Struct(dst); err != nil {
		return validationError(err)
	}
	return nil
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Error encoding JSON response")
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	msg := err.Error()
	switch status {
	case http.StatusInternalServerError:
		logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		msg = "internal error"
	case http.StatusServiceUnavailable:
		logging.Ctx(r.Context()).Warn().Err(err).Str("path", r.URL.Path).Msg("Embedding backend unavailable")
		msg = "embedding backend unavailable"
	}
	s.jsonResponse(w, r, status, map[string]string{"error": msg})
}
