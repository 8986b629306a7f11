// Package http serves catalog planning sessions over a chi router.
package http

import (
	_ "embed"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/waypoint/internal/logging"
	"github.com/aretw0/waypoint/internal/runtime"
	"github.com/aretw0/waypoint/pkg/catalog"
	"github.com/aretw0/waypoint/pkg/session"
)

//go:embed openapi.yaml
var openAPISpec []byte

// OpenAPISpec returns the embedded API description.
func OpenAPISpec() []byte {
	return openAPISpec
}

// Server exposes one catalog and its sessions.
type Server struct {
	catalog  atomic.Pointer[catalog.Catalog]
	sessions *session.Manager
	planner  []runtime.Option
	streams  *StreamManager
	gatherer prometheus.Gatherer
	version  string
	logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithPlannerOptions applies planner options (budget, hooks, step limit) to
// every planner the server builds.
func WithPlannerOptions(opts ...runtime.Option) Option {
	return func(s *Server) {
		s.planner = append(s.planner, opts...)
	}
}

// WithMetrics exposes the gatherer on GET /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithVersion sets the version reported by GET /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a server for the catalog backed by the session manager.
func NewServer(c *catalog.Catalog, sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		sessions: sessions,
		streams:  NewStreamManager(),
		version:  "dev",
		logger:   logging.NewNop(),
	}
	s.catalog.Store(c)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Catalog returns the catalog currently served.
func (s *Server) Catalog() *catalog.Catalog {
	return s.catalog.Load()
}

// SetCatalog swaps the served catalog and notifies global event subscribers.
func (s *Server) SetCatalog(c *catalog.Catalog) {
	s.catalog.Store(c)
	s.streams.Broadcast(globalTopic, "reload")
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(openAPISpec)
	})
	r.Get("/health", s.getHealth)
	r.Get("/info", s.getInfo)
	r.Get("/catalog", s.getCatalog)
	r.Get("/sessions", s.listSessions)
	r.Get("/possibles/{session}", s.showPossibles)
	r.Post("/plan/{session}", s.planRoute)
	r.Post("/step/{session}", s.stepGoal)
	r.Post("/run/{session}", s.runGoal)
	r.Get("/journal/{session}", s.getJournal)
	r.Delete("/journal/{session}", s.deleteJournal)
	r.Get("/events", s.subscribeEvents)

	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "err", err)
	}
}
