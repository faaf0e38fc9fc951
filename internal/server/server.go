// Package server provides the HTTP server and routing for Finwell.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/aristath/finwell/internal/di"
	analysishandlers "github.com/aristath/finwell/internal/modules/analysis/handlers"
	fundamentalshandlers "github.com/aristath/finwell/internal/modules/fundamentals/handlers"
	marketdatahandlers "github.com/aristath/finwell/internal/modules/marketdata/handlers"
	recommendationhandlers "github.com/aristath/finwell/internal/modules/recommendation/handlers"
	reportshandlers "github.com/aristath/finwell/internal/modules/reports/handlers"
	riskhandlers "github.com/aristath/finwell/internal/modules/risk/handlers"
	technicalhandlers "github.com/aristath/finwell/internal/modules/technical/handlers"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// Config holds server configuration
type Config struct {
	Log       zerolog.Logger
	Port      int
	DevMode   bool
	DataDir   string
	Container *di.Container // DI container with all services
	Jobs      *di.JobInstances
}

// Server represents the HTTP server
type Server struct {
	router         *chi.Mux
	server         *http.Server
	log            zerolog.Logger
	port           int
	container      *di.Container
	systemHandlers *SystemHandlers
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	systemHandlers := NewSystemHandlers(cfg.Log, cfg.DataDir, cfg.Container.Databases()...)
	if cfg.Jobs != nil {
		systemHandlers.RegisterJob(cfg.Jobs.ReportRetention)
		systemHandlers.RegisterJob(cfg.Jobs.CheckDatabases)
	}

	s := &Server{
		router:         chi.NewRouter(),
		log:            cfg.Log.With().Str("component", "server").Logger(),
		port:           cfg.Port,
		container:      cfg.Container,
		systemHandlers: systemHandlers,
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second, // analysis requests run longer than simple reads
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware(devMode bool) {
	// Recovery from panics
	s.router.Use(middleware.Recoverer)

	// Request ID
	s.router.Use(middleware.RequestID)

	// Real IP
	s.router.Use(middleware.RealIP)

	// Logging
	s.router.Use(s.loggingMiddleware)

	// Timeout
	s.router.Use(middleware.Timeout(60 * time.Second))

	// CORS
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Compress responses
	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.systemHandlers.HandleHealth)

	c := s.container

	s.router.Route("/api", func(r chi.Router) {
		// System monitoring and manual job triggers
		r.Get("/system/status", s.systemHandlers.HandleSystemStatus)
		r.Post("/jobs/{name}", s.systemHandlers.HandleTriggerJob)

		// Full pipeline and quick analysis
		analysishandlers.NewHandler(c.Orchestrator, c.ReportRepo, s.log).RegisterRoutes(r)

		// Direct module contracts with inline data
		technicalhandlers.NewHandler(c.TechnicalEngine, s.log).RegisterRoutes(r)
		fundamentalshandlers.NewHandler(c.FundamentalScorer, s.log).RegisterRoutes(r)
		riskhandlers.NewHandler(c.RiskEngine, s.log).RegisterRoutes(r)
		recommendationhandlers.NewHandler(c.Synthesizer, s.log).RegisterRoutes(r)

		// Ingestion of pre-fetched data
		marketdatahandlers.NewHandler(c.MarketDataRepo, s.log).RegisterRoutes(r)

		// Stored reports
		reportshandlers.NewHandler(c.ReportRepo, s.log).RegisterRoutes(r)
	})
}

// Start starts the HTTP server. It returns http.ErrServerClosed after
// Shutdown.
func (s *Server) Start() error {
	s.log.Info().Int("port", s.port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
