package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/amaumene/mediashelf/internal/api"
	"github.com/amaumene/mediashelf/internal/auth"
	"github.com/amaumene/mediashelf/internal/config"
	"github.com/amaumene/mediashelf/internal/controllers"
	"github.com/amaumene/mediashelf/internal/models"
	"github.com/amaumene/mediashelf/internal/scheduler"
	"github.com/amaumene/mediashelf/internal/services/catalog"
	"github.com/amaumene/mediashelf/internal/services/googlebooks"
	"github.com/amaumene/mediashelf/internal/services/rawg"
	"github.com/amaumene/mediashelf/internal/services/tmdb"
	"github.com/amaumene/mediashelf/internal/services/wikipedia"
	"github.com/amaumene/mediashelf/internal/utils"
	"github.com/sirupsen/logrus"
)

const retryInterval = 500 * time.Millisecond

func run() error {
	// 1. Load configuration
	cfg, err := config.Load(true)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Setup logger
	logger := utils.NewLogger(cfg.LogLevel, cfg.LogFormat)
	logger.Info("Starting mediashelf")
	logger.WithFields(logrus.Fields{
		"config_dir":   filepath.Dir(cfg.DatabaseFile),
		"social_graph": cfg.SocialGraph,
	}).Info("Configuration loaded")
	for _, w := range cfg.Warnings() {
		logger.Warn(w)
	}

	// 3. Initialize database
	db, err := openDatabase(cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("Database initialized")

	// 4. Initialize catalog services
	registry, tmdbClient := newCatalog(cfg, logger)
	logger.Info("Catalog adapters initialized")

	// 5. Initialize controllers
	resolver := controllers.NewResolver(registry, cfg.EnrichConcurrency, logger)
	collection := controllers.NewCollectionController(db, resolver, logger)
	ctrls := api.Controllers{
		Search:     controllers.NewSearchController(db, registry, logger),
		Detail:     controllers.NewDetailController(db, registry, logger),
		Collection: collection,
		Home:       controllers.NewHomeController(db, resolver, collection, logger),
		Activity:   controllers.NewActivityController(db, resolver, logger),
		Social:     controllers.NewSocialController(db, resolver, logger),
		Profile:    controllers.NewProfileController(db, logger),
	}
	logger.Info("Controllers initialized")

	// 6. Initialize scheduler
	sched := scheduler.NewScheduler(tmdbClient, cfg.GenreRefresh, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	// 7. Initialize HTTP server
	server := api.NewServer(cfg, db, ctrls, auth.NewTokenService(cfg.JWTSecret), logger)

	// Start server in goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverErrChan := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil {
			serverErrChan <- err
		}
	}()

	// 8. Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("mediashelf is running")

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		logger.WithField("signal", sig).Info("Received shutdown signal")
		cancel()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.WithError(err).Error("Error during server shutdown")
		}
	}

	logger.Info("mediashelf stopped")
	return nil
}

func openDatabase(cfg *config.Config, logger *logrus.Logger) (*models.Database, error) {
	mode, err := models.ParseGraphMode(cfg.SocialGraph)
	if err != nil {
		return nil, err
	}
	db, err := models.NewDatabase(cfg.DatabaseFile, mode, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return db, nil
}

// newCatalog builds one fetcher per provider so each carries its own breaker
func newCatalog(cfg *config.Config, logger *logrus.Logger) (*catalog.Registry, *tmdb.Client) {
	fetcher := func(provider string) *catalog.Fetcher {
		return catalog.NewFetcher(provider,
			catalog.WithTimeout(cfg.UpstreamTimeout),
			catalog.WithRetries(cfg.UpstreamRetries, retryInterval),
			catalog.WithLogger(logger),
		)
	}

	translations, err := utils.LoadTranslations(cfg.TranslationsFile, utils.DefaultGenreTranslations())
	if err != nil {
		logger.WithError(err).Warn("Failed to load translations, using defaults")
		translations = utils.NewTranslations(utils.DefaultGenreTranslations())
	} else {
		logger.WithField("terms", translations.Len()).Info("Translations loaded")
	}

	tmdbClient := tmdb.NewClient(cfg.TMDBToken, fetcher("tmdb"), logger,
		tmdb.WithLanguage(cfg.TMDBLanguage),
	)
	books := googlebooks.NewClient(cfg.GoogleBooksKey, fetcher("googlebooks"), logger,
		googlebooks.WithLanguage(cfg.GoogleBooksLanguage),
		googlebooks.WithTranslations(translations),
	)
	wiki := wikipedia.NewClient(cfg.WikipediaLanguage, fetcher("wikipedia"))
	games := rawg.NewClient(cfg.RAWGKey, fetcher("rawg"), wiki, logger,
		rawg.WithConcurrency(cfg.EnrichConcurrency),
	)

	return catalog.NewRegistry(tmdbClient.Movies(), tmdbClient.Series(), books, games), tmdbClient
}
