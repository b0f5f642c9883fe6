package controllers

import (
	"context"

	"github.com/sweeparr/sweeparr/internal/models"
	"github.com/sweeparr/sweeparr/internal/services/plex"
	"github.com/sweeparr/sweeparr/internal/services/radarr"
	"github.com/sweeparr/sweeparr/internal/services/sonarr"
	"github.com/sweeparr/sweeparr/internal/settings"
)

// MediaServer is the media-server surface the controllers depend on.
type MediaServer interface {
	Ping(ctx context.Context) error
	Library(ctx context.Context) ([]plex.Item, error)
	DeleteItem(ctx context.Context, id string) error
}

// SeriesManager is the tv library-manager surface (Sonarr).
type SeriesManager interface {
	Series(ctx context.Context) ([]sonarr.Series, error)
	RootFolders(ctx context.Context) ([]sonarr.RootFolder, error)
	LibrarySummary(ctx context.Context) (sonarr.Summary, error)
	MoveSeries(ctx context.Context, seriesID int, destRoot string) error
}

// MovieManager is the movie library-manager surface (Radarr).
type MovieManager interface {
	Movies(ctx context.Context) ([]radarr.Movie, error)
	RootFolders(ctx context.Context) ([]radarr.RootFolder, error)
	LibrarySummary(ctx context.Context) (radarr.Summary, error)
	MoveMovie(ctx context.Context, movieID int, destRoot string) error
}

// StreamingLookup answers which providers currently carry a title.
type StreamingLookup interface {
	Configured() bool
	Providers(ctx context.Context, mediaType models.MediaType, title string) ([]string, error)
}

// SettingsSource resolves and persists the application settings.
type SettingsSource interface {
	Load() settings.Settings
	Save(settings.Settings) error
}

// StorageMonitor reports disk usage for the library and archive filesystems.
type StorageMonitor interface {
	Combined() models.StorageInfo
	Archive() models.StorageInfo
}
