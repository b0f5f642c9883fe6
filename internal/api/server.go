package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sweeparr/sweeparr/internal/api/handlers"
	"github.com/sweeparr/sweeparr/internal/api/middleware"
	"github.com/sweeparr/sweeparr/internal/cache"
	"github.com/sweeparr/sweeparr/internal/config"
	"github.com/sweeparr/sweeparr/internal/controllers"
)

// Deps bundles everything the HTTP layer serves from.
type Deps struct {
	Store    *cache.Store
	Plex     controllers.MediaServer
	Sonarr   controllers.SeriesManager
	Radarr   controllers.MovieManager
	Builder  *controllers.SnapshotBuilder
	Settings controllers.SettingsSource
	Sync     *controllers.SyncController
	Cleanup  *controllers.CleanupController
	Actions  *controllers.ActionController
}

// Server represents the HTTP server
type Server struct {
	server *http.Server
	deps   Deps
	logger *logrus.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, deps Deps, logger *logrus.Logger) *Server {
	s := &Server{
		deps:   deps,
		logger: logger,
	}

	mux := http.NewServeMux()
	s.setupRoutes(mux, cfg)

	s.server = &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      middleware.Logging(mux, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(mux *http.ServeMux, cfg *config.Config) {
	// Health check
	healthHandler := handlers.NewHealthHandler(s.logger)
	mux.HandleFunc("/health", healthHandler.ServeHTTP)

	// Upstream connection status
	statusHandler := handlers.NewStatusHandler(s.deps.Plex, s.deps.Settings, s.logger)
	mux.HandleFunc("/api/status", statusHandler.ServeHTTP)

	// Cache-backed dashboard aggregate
	dashboardHandler := handlers.NewDashboardHandler(s.deps.Store, s.logger)
	mux.HandleFunc("/api/dashboard", dashboardHandler.ServeHTTP)

	// Full classified content list
	contentHandler := handlers.NewContentHandler(s.deps.Builder, s.deps.Settings, s.logger)
	mux.HandleFunc("/api/content", contentHandler.ServeHTTP)

	// Settings read/write
	settingsHandler := handlers.NewSettingsHandler(s.deps.Settings, cfg, s.logger)
	mux.HandleFunc("/api/settings", settingsHandler.ServeHTTP)

	// Archive and delete actions
	actionHandler := handlers.NewActionHandler(s.deps.Actions, s.logger)
	mux.HandleFunc("/api/content/{id}/action", actionHandler.ServeHTTP)

	// Manual triggers
	syncHandler := handlers.NewSyncHandler(s.deps.Sync, s.logger)
	mux.HandleFunc("/api/sync/trigger", syncHandler.ServeHTTP)

	cleanupHandler := handlers.NewCleanupHandler(s.deps.Cleanup, s.logger)
	mux.HandleFunc("/api/cleanup/trigger", cleanupHandler.ServeHTTP)

	// Root folder lists for the archive dialog and settings page
	rootFoldersHandler := handlers.NewRootFoldersHandler(s.deps.Store, s.deps.Sonarr, s.deps.Radarr, s.logger)
	mux.HandleFunc("/api/root-folders", rootFoldersHandler.ServeHTTP)
	mux.HandleFunc("/api/root-folders/all", rootFoldersHandler.ServeAll)

	// Log viewer
	logsHandler := handlers.NewLogsHandler(cfg.LogFile, s.logger)
	mux.HandleFunc("/api/logs", logsHandler.ServeHTTP)
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
