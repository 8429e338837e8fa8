// Package server implements the scrapbook HTTP API.
//
// The API exposes ad-hoc grid packing plus CRUD for boards, with reorder
// intents applied server-side. All responses are JSON except rendered
// artifacts; errors use the shape
//
//	{"error": {"code": "INVALID_COLUMNS", "message": "...", "request_id": "..."}}
//
// # Routes
//
//	GET    /healthz
//	GET    /metrics
//	POST   /api/v1/layout
//	GET    /api/v1/boards
//	POST   /api/v1/boards
//	GET    /api/v1/boards/{id}
//	PUT    /api/v1/boards/{id}
//	DELETE /api/v1/boards/{id}
//	PATCH  /api/v1/boards/{id}/settings
//	POST   /api/v1/boards/{id}/items
//	DELETE /api/v1/boards/{id}/items/{itemID}
//	POST   /api/v1/boards/{id}/reorder
//	GET    /api/v1/boards/{id}/layout
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/scrapbook/internal/config"
	"github.com/matzehuels/scrapbook/pkg/board"
	"github.com/matzehuels/scrapbook/pkg/pipeline"
)

// Server serves the API over a pipeline runner and a board store.
type Server struct {
	cfg    config.ServerConfig
	grid   config.GridConfig
	runner *pipeline.Runner
	store  board.Store
	logger *log.Logger

	// mu serializes read-modify-write cycles on boards.
	mu sync.Mutex

	router chi.Router
}

// New builds the server and its routes. A nil logger discards output.
func New(cfg *config.Config, runner *pipeline.Runner, store board.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Server{
		cfg:    cfg.Server,
		grid:   cfg.Grid,
		runner: runner,
		store:  store,
		logger: logger,
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(instrument(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", headerRequestID},
		ExposedHeaders: []string{headerRequestID, headerCache},
		MaxAge:         86400,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rateLimit(s.cfg.RateLimit))

		r.Post("/layout", s.handleLayout)

		r.Route("/boards", func(r chi.Router) {
			r.Get("/", s.handleListBoards)
			r.Post("/", s.handleCreateBoard)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetBoard)
				r.Put("/", s.handlePutBoard)
				r.Delete("/", s.handleDeleteBoard)
				r.Patch("/settings", s.handleSettings)
				r.Post("/items", s.handleAddItem)
				r.Delete("/items/{itemID}", s.handleRemoveItem)
				r.Post("/reorder", s.handleReorder)
				r.Get("/layout", s.handleBoardLayout)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, errNotFound(r.URL.Path))
	})
	return r
}

// ListenAndServe serves on the configured address until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return ctx.Err()
}
