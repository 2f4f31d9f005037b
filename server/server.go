// Package server wires the router, middleware and routes of the HTTP API
// and runs the http.Server with graceful shutdown.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/giygas/knowyourdrug/config"
	"github.com/giygas/knowyourdrug/data"
	"github.com/giygas/knowyourdrug/handlers"
	"github.com/giygas/knowyourdrug/health"
	"github.com/giygas/knowyourdrug/logging"
	"github.com/giygas/knowyourdrug/metrics"
	"github.com/giygas/knowyourdrug/validation"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server represents the HTTP server
type Server struct {
	server        *http.Server
	router        chi.Router
	dataContainer *data.DataContainer
	config        *config.Config
	handler       *handlers.HTTPHandlerImpl
	rateLimiter   *RateLimiter
}

// NewServer creates a new server instance serving the registry held by dataContainer
func NewServer(cfg *config.Config, dataContainer *data.DataContainer) *Server {
	if dataContainer == nil {
		dataContainer = data.NewDataContainer()
	}

	router := chi.NewRouter()
	healthChecker := health.NewHealthChecker(dataContainer, cfg.InteractionsSource, cfg.ReloadTimeList())

	s := &Server{
		server: &http.Server{
			Handler:           router,
			Addr:              cfg.Address + ":" + cfg.Port,
			ReadTimeout:       15 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
			MaxHeaderBytes:    int(cfg.MaxHeaderSize),
		},
		router:        router,
		dataContainer: dataContainer,
		config:        cfg,
		handler:       handlers.NewHTTPHandler(dataContainer, validation.NewDataValidator(), healthChecker, cfg.MaxSelection),
		rateLimiter:   NewRateLimiter(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Router exposes the configured router, mainly for tests
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	if s.config.Env == config.EnvProduction {
		// Must run before RealIPMiddleware rewrites RemoteAddr
		s.router.Use(BlockDirectAccessMiddleware)
	}
	s.router.Use(RealIPMiddleware)
	s.router.Use(TracingMiddleware)
	s.router.Use(logging.RequestLogger(logging.Logger()))
	s.router.Use(middleware.RedirectSlashes)
	s.router.Use(middleware.Recoverer)
	s.router.Use(metrics.Metrics)
	s.router.Use(RequestSizeMiddleware(s.config))
	s.router.Use(s.rateLimiter.Middleware)
}

func (s *Server) setupRoutes() {
	s.router.Route("/v1", func(r chi.Router) {
		r.Get("/drugs", s.handler.ListDrugs)
		r.Get("/severities", s.handler.ListSeverities)
		r.Get("/interactions", s.handler.CheckInteractions)
		r.Post("/interactions", s.handler.CheckInteractionsJSON)
		r.Get("/interactions/{drugA}/{drugB}", s.handler.LookupPair)
	})

	s.router.Get("/health", s.handler.HealthCheck)
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondWithError(w, http.StatusNotFound, "Route not found")
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
}

// Start records the start time and serves until Shutdown.
// http.ErrServerClosed is not reported as an error.
func (s *Server) Start() error {
	s.dataContainer.SetServerStartTime(time.Now())

	logging.Info("Starting server", "address", s.server.Addr, "env", s.config.Env.String())
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server, forcing connections closed if ctx expires
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")
	defer s.rateLimiter.Close()

	if err := s.server.Shutdown(ctx); err != nil {
		logging.Error("Server forced to shutdown", "error", err)
		if err := s.server.Close(); err != nil {
			logging.Error("Server close error", "error", err)
			return err
		}
	}

	logging.Info("Server shutdown complete")
	return nil
}
