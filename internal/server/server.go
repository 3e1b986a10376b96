// internal/server/server.go

package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"partypulse/internal/config"
	"partypulse/internal/domain/event"
	"partypulse/internal/domain/party"
	"partypulse/internal/logger"
	"partypulse/internal/server/handlers"
)

// Dependencies holds everything the routes are served from
type Dependencies struct {
	Dashboard *handlers.DashboardHandler
	Platforms *handlers.PlatformHandler
	Events    event.Subscriber
	WebSocket handlers.WebSocketConfig
	Log       logger.Logger
}

// Server represents the HTTP server
type Server struct {
	server *http.Server
	router *chi.Mux
}

// NewServer creates a new HTTP server
func NewServer(cfg config.ServerConfig, deps Dependencies) *Server {
	router := NewRouter(cfg, deps)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{
		server: httpServer,
		router: router,
	}
}

// NewRouter wires middleware and routes
func NewRouter(cfg config.ServerConfig, deps Dependencies) *chi.Mux {
	router := chi.NewRouter()

	log := deps.Log
	if log == nil {
		log = logger.NewNop()
	}

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(handlers.Recoverer(log))

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	dash := deps.Dashboard
	platforms := deps.Platforms

	// Routes
	router.Route("/api", func(r chi.Router) {
		// The live feed is mounted outside this group so it never times out
		if cfg.RequestTimeout > 0 {
			r.Use(handlers.Timeout(cfg.RequestTimeout, log))
		}

		r.Get("/health", dash.Health)
		r.Get("/dashboard", dash.Dashboard)
		r.Post("/refresh", dash.Refresh)
		r.Get("/alerts", dash.Alerts)
		r.Get("/hashtags", dash.Hashtags)
		r.Get("/influencers", platforms.Influencers)

		r.Route("/stats", func(r chi.Router) {
			r.Get("/overall", dash.Overall)
			r.Get("/platforms", dash.Platforms)
			r.Get("/battle", dash.Battle)
			r.Get("/comparison", dash.Comparison)
			r.Get("/history", dash.History)
		})

		r.Route("/trends", func(r chi.Router) {
			r.Get("/google", dash.GoogleTrends)
			r.Get("/regional", dash.RegionalTrends)
			r.Get("/queries", dash.RelatedQueries)
		})

		r.Route("/news", func(r chi.Router) {
			r.Get("/", dash.News)
			r.Get("/stats", dash.NewsStats)
		})

		r.Route("/sentiment", func(r chi.Router) {
			r.Get("/", dash.Sentiment)
			r.Post("/analyze", dash.AnalyzeSentiment)
		})

		r.Route("/twitter", func(r chi.Router) {
			r.Get("/trending", platforms.TwitterTrending)
			r.Get("/search", platforms.TwitterSearch)
			r.Get("/topics", platforms.TwitterTopics)
			r.Get("/stats", platforms.TwitterStats)
			r.Get("/user/{username}", platforms.TwitterUser)
		})

		r.Route("/instagram", func(r chi.Router) {
			r.Get("/trending", platforms.InstagramTrending)
			r.Get("/stats", platforms.InstagramStats)
			r.Get("/user/{username}", platforms.InstagramUser)
		})

		r.Route("/facebook", func(r chi.Router) {
			r.Get("/trending", platforms.FacebookTrending)
			r.Get("/stats", platforms.FacebookStats)
			r.Get("/page/{pageID}", platforms.FacebookPage)
		})

		r.Route("/youtube", func(r chi.Router) {
			r.Get("/trending", platforms.YouTubeTrending)
			r.Get("/ysrcp", platforms.YouTubeParty(party.YSRCP))
			r.Get("/tdp", platforms.YouTubeParty(party.TDP))
		})
	})

	router.Handle("/metrics", promhttp.Handler())

	// WebSocket endpoint for the live dashboard feed
	if deps.Events != nil {
		router.Get("/ws/dashboard", handlers.DashboardWebSocketHandler(deps.Events, deps.WebSocket, log))
	}

	return router
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
