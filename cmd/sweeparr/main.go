package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sweeparr/sweeparr/internal/api"
	"github.com/sweeparr/sweeparr/internal/cache"
	"github.com/sweeparr/sweeparr/internal/config"
	"github.com/sweeparr/sweeparr/internal/controllers"
	"github.com/sweeparr/sweeparr/internal/logging"
	"github.com/sweeparr/sweeparr/internal/scheduler"
	"github.com/sweeparr/sweeparr/internal/services/plex"
	"github.com/sweeparr/sweeparr/internal/services/radarr"
	"github.com/sweeparr/sweeparr/internal/services/sonarr"
	"github.com/sweeparr/sweeparr/internal/services/tmdb"
	"github.com/sweeparr/sweeparr/internal/settings"
	"github.com/sweeparr/sweeparr/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Setup logger
	logger := logging.NewLogger(cfg.LogLevel, cfg.LogFile)
	logger.Info("Starting Sweeparr")
	logger.WithField("data_dir", cfg.DataDir).Info("Configuration loaded")

	// 3. Initialize cache and settings
	store := cache.NewStore()
	resolver := settings.NewResolver(cfg, logger)

	// 4. Initialize upstream clients
	plexClient := plex.NewClient(cfg.PlexURL, cfg.PlexToken, logger)
	sonarrClient := sonarr.NewClient(cfg.SonarrURL, cfg.SonarrAPIKey, logger)
	radarrClient := radarr.NewClient(cfg.RadarrURL, cfg.RadarrAPIKey, logger)
	tmdbClient := tmdb.NewClient(cfg.TMDBAPIKey, logger)
	logger.Info("Upstream clients initialized")

	// 5. Initialize storage monitor
	monitor := storage.NewMonitor(cfg.MountPoints, cfg.ArchiveDrive, logger)

	// 6. Initialize controllers
	builder := controllers.NewSnapshotBuilder(plexClient, sonarrClient, radarrClient, tmdbClient, resolver, logger)
	syncCtrl := controllers.NewSyncController(store, builder, sonarrClient, radarrClient, monitor, resolver, logger)
	cleanupCtrl := controllers.NewCleanupController(builder, plexClient, sonarrClient, radarrClient, resolver, logger)
	actionCtrl := controllers.NewActionController(store, plexClient, sonarrClient, radarrClient, resolver, logger)
	logger.Info("Controllers initialized")

	// 7. Initialize scheduler
	sched := scheduler.NewScheduler(syncCtrl, cleanupCtrl, logger)
	if err := sched.Start(cfg.DataUpdateInterval); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	// 8. Initialize HTTP server
	server := api.NewServer(cfg, api.Deps{
		Store:    store,
		Plex:     plexClient,
		Sonarr:   sonarrClient,
		Radarr:   radarrClient,
		Builder:  builder,
		Settings: resolver,
		Sync:     syncCtrl,
		Cleanup:  cleanupCtrl,
		Actions:  actionCtrl,
	}, logger)

	// Start server in goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverErrChan := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil {
			serverErrChan <- err
		}
	}()

	// 9. Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("Sweeparr is running")

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

	logger.Info("Sweeparr stopped")
	return nil
}
