// Package server exposes the catalog, validator and engine over HTTP.
package server

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/semaphore"

	"github.com/rocketship-ai/scriptrunner/internal/catalog"
	"github.com/rocketship-ai/scriptrunner/internal/runner"
)

// Options tunes the HTTP surface.
type Options struct {
	Version string
	// MaxConcurrent bounds simultaneous executions; zero means unbounded.
	MaxConcurrent int
	Logger        *slog.Logger
	// Registry receives the server's metrics; a fresh registry is used when nil.
	Registry *prometheus.Registry
}

// Server routes HTTP requests to the script components. It holds no mutable
// state shared between executions.
type Server struct {
	catalog   *catalog.Catalog
	validator *runner.Validator
	engine    *runner.Engine
	version   string
	logger    *slog.Logger
	metrics   *Metrics
	registry  *prometheus.Registry
	slots     *semaphore.Weighted
	router    *mux.Router
	handler   http.Handler
}

// New constructs a server around the given components.
func New(cat *catalog.Catalog, validator *runner.Validator, engine *runner.Engine, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}

	s := &Server{
		catalog:   cat,
		validator: validator,
		engine:    engine,
		version:   opts.Version,
		logger:    opts.Logger,
		metrics:   NewMetrics(opts.Registry),
		registry:  opts.Registry,
		router:    mux.NewRouter(),
	}
	if opts.MaxConcurrent > 0 {
		s.slots = semaphore.NewWeighted(int64(opts.MaxConcurrent))
	}

	s.routes()
	s.handler = s.loggingMiddleware(s.router)
	return s
}

func (s *Server) routes() {
	s.router.Use(s.metricsMiddleware, s.recoverMiddleware)

	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/scripts", s.handleListScripts).Methods(http.MethodGet)
	s.router.HandleFunc("/execute/{name}", s.handleExecute).Methods(http.MethodPost)
	s.router.HandleFunc("/validate/{name}", s.handleValidate).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
}

// ServeHTTP satisfies http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}
