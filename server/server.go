// Package server provides HTTP server management and lifecycle handling for the
// medivoice API. It includes server setup, middleware configuration, route
// management, and graceful shutdown capabilities with proper error handling and
// logging.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/medivoice/medivoice-api/config"
	"github.com/medivoice/medivoice-api/diagnosis"
	"github.com/medivoice/medivoice-api/handlers"
	"github.com/medivoice/medivoice-api/interfaces"
	"github.com/medivoice/medivoice-api/logging"
	"github.com/medivoice/medivoice-api/metrics"
	"github.com/medivoice/medivoice-api/vitals"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps bundles the services the HTTP surface depends on
type Deps struct {
	Store     interfaces.CatalogStore
	Scheduler interfaces.Scheduler
	Health    interfaces.HealthChecker
	Vitals    *vitals.Service
	Diagnosis *diagnosis.Service
}

// Server represents the HTTP server
type Server struct {
	server *http.Server
	router chi.Router
	deps   Deps
	config *config.Config
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, deps Deps) *Server {
	router := chi.NewRouter()

	server := &Server{
		server: &http.Server{
			Handler:      router,
			Addr:         cfg.Address + ":" + cfg.Port,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 90 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		router: router,
		deps:   deps,
		config: cfg,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures all middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(RealIPMiddleware)
	s.router.Use(logging.LoggingMiddleware(logging.Default()))
	s.router.Use(middleware.RedirectSlashes)
	s.router.Use(middleware.Recoverer)

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	s.router.Use(RequestSizeMiddleware(s.config))
	s.router.Use(RateLimitHandler)
	s.router.Use(metrics.Metrics)
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	// API routes
	s.router.Post("/extract-vitals", handlers.ExtractVitals(s.deps.Vitals))
	s.router.Post("/diagnose", handlers.Diagnose(s.deps.Diagnosis))
	s.router.Post("/confirm-diagnosis", handlers.ConfirmDiagnosis(s.deps.Diagnosis))
	s.router.Get("/prescriptions/{diagnosis}", handlers.SuggestPrescriptions(s.deps.Store))
	s.router.Get("/drugs/{id}", handlers.FindDrugByID(s.deps.Store))
	s.router.Post("/catalog/reload", handlers.ReloadCatalog(s.deps.Scheduler, s.deps.Store))
	s.router.Get("/health", handlers.HealthCheck(s.deps.Health))

	// Prometheus metrics
	s.router.Handle("/metrics", promhttp.Handler())
}

// Start starts the server
func (s *Server) Start() error {
	// Start profiling server if in development mode
	if s.config.Env == "dev" {
		s.startProfilingServer()
	}

	logging.Info(fmt.Sprintf("Starting server at: %s:%s", s.config.Address, s.config.Port))
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	if err := s.server.Shutdown(ctx); err != nil {
		logging.Error("Server forced to shutdown", "error", err)
		// If graceful shutdown fails, force close
		if err := s.server.Close(); err != nil {
			logging.Error("Server close error", "error", err)
			return err
		}
	}

	// Wait a bit for any ongoing requests to complete
	logging.Info("Waiting for ongoing requests to complete...")
	time.Sleep(2 * time.Second)

	logging.Info("Server shutdown complete")
	return nil
}

// startProfilingServer starts the pprof profiling server in development mode
func (s *Server) startProfilingServer() {
	go func() {
		fmt.Println("Profiling server started at http://localhost:6060/debug/pprof/")
		if err := http.ListenAndServe("localhost:6060", nil); err != nil {
			fmt.Println("Profiling server failed: ", err)
		}
	}()
}
