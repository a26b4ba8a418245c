package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/amaumene/mediashelf/internal/api/handlers"
	"github.com/amaumene/mediashelf/internal/api/middleware"
	"github.com/amaumene/mediashelf/internal/auth"
	"github.com/amaumene/mediashelf/internal/config"
	"github.com/amaumene/mediashelf/internal/controllers"
	"github.com/amaumene/mediashelf/internal/models"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Controllers groups everything the routes dispatch to
type Controllers struct {
	Search     *controllers.SearchController
	Detail     *controllers.DetailController
	Collection *controllers.CollectionController
	Home       *controllers.HomeController
	Activity   *controllers.ActivityController
	Social     *controllers.SocialController
	Profile    *controllers.ProfileController
}

// Server represents the HTTP server
type Server struct {
	server *http.Server
	db     *models.Database
	logger *logrus.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, db *models.Database, ctrls Controllers, tokens *auth.TokenService, logger *logrus.Logger) *Server {
	s := &Server{
		db:     db,
		logger: logger,
	}

	s.server = &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      s.routes(cfg, ctrls, tokens),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the root handler, for tests
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// routes configures all HTTP routes
func (s *Server) routes(cfg *config.Config, ctrls Controllers, tokens *auth.TokenService) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(s.logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))
	if cfg.RateLimit > 0 {
		r.Use(httprate.LimitByIP(cfg.RateLimit, time.Minute))
	}

	// Health check
	r.Method(http.MethodGet, "/health", handlers.NewHealthHandler(s.db, s.logger))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	catalogHandler := handlers.NewCatalogHandler(ctrls.Search, ctrls.Detail, s.logger)
	collectionHandler := handlers.NewCollectionHandler(ctrls.Collection, s.logger)
	homeHandler := handlers.NewHomeHandler(ctrls.Home, s.logger)
	activityHandler := handlers.NewActivityHandler(ctrls.Activity, s.logger)
	socialHandler := handlers.NewSocialHandler(ctrls.Social, s.logger)
	profileHandler := handlers.NewProfileHandler(ctrls.Profile, s.logger)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(tokens, s.logger))

		r.Get("/search", catalogHandler.Search)
		r.Get("/items/{category}/{externalID}", catalogHandler.Detail)

		r.Get("/collection/{userID}", collectionHandler.Collection)
		r.Post("/user-items", collectionHandler.AddItem)
		r.Put("/user-items/{id}", collectionHandler.UpdateItem)
		r.Delete("/user-items/{id}", collectionHandler.DeleteItem)
		r.Post("/status", collectionHandler.SetStatus)

		r.Route("/home", func(r chi.Router) {
			r.Get("/trending", homeHandler.Trending)
			r.Get("/current", homeHandler.Current)
			r.Get("/watchlist", homeHandler.Watchlist)
		})

		r.Route("/activity", func(r chi.Router) {
			r.Get("/", activityHandler.Feed)
			r.Get("/network", activityHandler.Network)
			r.Get("/{userID}", activityHandler.UserFeed)
		})

		r.Route("/social", func(r chi.Router) {
			r.Get("/followers/{userID}", socialHandler.Followers)
			r.Get("/following/{userID}", socialHandler.Following)
			r.Post("/follow/{userID}", socialHandler.ToggleFollow)
			r.Delete("/follow/{userID}", socialHandler.Unfollow)
			r.Post("/friends", socialHandler.AddFriend)
			r.Get("/shared/{userID}", socialHandler.Shared)
		})

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", profileHandler.Me)
			r.Put("/", profileHandler.Update)
			r.Put("/avatar", profileHandler.UpdateAvatar)
			r.Get("/{userID}", profileHandler.Get)
		})
		r.Get("/users/search", profileHandler.SearchUsers)
	})

	return r
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithField("port", s.server.Addr).Info("Starting HTTP server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
