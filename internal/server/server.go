// Package server exposes selector-filtered table reads over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/datatap/datatap/filter"
	"github.com/datatap/datatap/internal/config"
	"github.com/datatap/datatap/schema"
)

// Store is the database access the server needs. *database.Client
// implements it.
type Store interface {
	Ping(ctx context.Context) error
	Tables(ctx context.Context) ([]string, error)
	Columns(ctx context.Context, table string) ([]string, error)
	SelectWhere(ctx context.Context, table string, compiled *filter.CompiledFilter) ([]map[string]any, error)
}

// Server wires the filter compiler, schema guard and store behind the
// HTTP API.
type Server struct {
	addr         string
	apiKey       string
	queryTimeout time.Duration
	store        Store
	guard        *schema.Guard
	compiler     *filter.Compiler
	logger       zerolog.Logger
}

// New creates a Server. The store doubles as the schema catalog backing
// the guard.
func New(cfg *config.Config, store Store, logger zerolog.Logger) *Server {
	if cfg.Server.QueryTimeout <= 0 {
		cfg.Server.QueryTimeout = 30
	}
	return &Server{
		addr:         cfg.Server.Addr,
		apiKey:       cfg.Auth.APIKey,
		queryTimeout: time.Duration(cfg.Server.QueryTimeout) * time.Second,
		store:        store,
		guard:        schema.NewGuard(store),
		compiler:     filter.NewCompiler(filter.WithLogger(logger)),
		logger:       logger,
	}
}

// Router builds the HTTP handler. Health is open; everything under /v1
// requires the API key.
func (s *Server) Router() http.Handler {
	router := mux.NewRouter()
	router.Use(s.requestIDMiddleware, s.loggingMiddleware)

	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	v1 := router.PathPrefix("/v1").Subrouter()
	v1.Use(s.requireAPIKey)
	v1.HandleFunc("/tables", s.handleTables).Methods(http.MethodGet)
	v1.HandleFunc("/tables/{table}/columns", s.handleColumns).Methods(http.MethodGet)
	v1.HandleFunc("/tables/{table}/query", s.handleQuery).Methods(http.MethodPost)

	return router
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()
	s.logger.Info().Str("addr", s.addr).Msg("server started")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		err := <-errCh
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
