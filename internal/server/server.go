package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"

	v1 "github.com/gosuda/aicrm/internal/api/v1"
	"github.com/gosuda/aicrm/internal/api/ws"
	"github.com/gosuda/aicrm/internal/config"
	"github.com/gosuda/aicrm/internal/server/middleware"
	"github.com/gosuda/aicrm/internal/store"
)

// Deps are the collaborators the routes are wired to.
type Deps struct {
	Store      store.Backend
	Feed       ws.Subscriber // nil disables /ws
	Planner    v1.Planner
	Extractor  v1.Extractor
	Dispatcher v1.Dispatcher
}

// Server is the HTTP server that wires all application routes and middleware.
type Server struct {
	router     chi.Router
	httpServer *http.Server
	store      store.Backend
}

// New creates a Server with all routes wired. ctx bounds background work
// owned by the middleware stack.
func New(ctx context.Context, cfg *config.Config, deps Deps) *Server {
	router := chi.NewRouter()

	// Global middleware stack.
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(middleware.RequestLogger(log.Logger))
	router.Use(chimw.Recoverer)
	router.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)

	hub := ws.NewHub(deps.Feed)

	s := &Server{
		router: router,
		store:  deps.Store,
		httpServer: &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           router,
			ReadTimeout:       cfg.Server.ReadTimeout,
			ReadHeaderTimeout: cfg.Server.ReadTimeout,
			WriteTimeout:      cfg.Server.WriteTimeout,
		},
	}

	// Mount API routes on /api/v1 with two sub-groups:
	// 1. Record CRUD, which also serves the OpenAPI document and docs.
	// 2. Agent endpoints, rate limited per client since each one calls the LLM.
	router.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			apiConfig := huma.DefaultConfig("aicrm API", "1.0.0")
			apiConfig.Servers = []*huma.Server{
				{URL: "/api/v1"},
			}
			api := humachi.New(r, apiConfig)
			registerAPIRoutes(api, deps.Store)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimitByIP(ctx, cfg.Agent.RateLimitRPS, cfg.Agent.RateLimitBurst))

			agentConfig := huma.DefaultConfig("aicrm Agent API", "1.0.0")
			agentConfig.Servers = []*huma.Server{
				{URL: "/api/v1"},
			}
			// Docs are served by the main API above.
			agentConfig.OpenAPIPath = ""
			agentConfig.DocsPath = ""
			agentConfig.SchemasPath = ""
			agentConfig.CreateHooks = nil
			agentAPI := humachi.New(r, agentConfig)
			registerAgentRoutes(agentAPI, deps)
		})
	})

	router.Route("/ws", func(r chi.Router) {
		registerWSRoutes(r, hub)
	})

	router.Get("/healthz", s.healthz)
	router.Handle("/metrics", promhttp.Handler())

	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	w.Header().Set("Content-Type", "application/json")
	if err := s.store.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("healthz: store ping failed")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status":"unavailable"}`))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	log.Info().Str("addr", s.httpServer.Addr).Msg("http server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.Start: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}
