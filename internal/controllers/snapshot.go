package controllers

import (
	"context"
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sweeparr/sweeparr/internal/models"
	"github.com/sweeparr/sweeparr/internal/services/plex"
	"github.com/sweeparr/sweeparr/internal/services/radarr"
	"github.com/sweeparr/sweeparr/internal/services/sonarr"
	"github.com/sweeparr/sweeparr/internal/settings"
)

const bytesPerGB = 1024 * 1024 * 1024

// Streaming lookups cost two network calls per title, so they are gated to
// the items large enough to be worth reclaiming.
const (
	movieStreamingGateGB = 15.0
	showStreamingGateGB  = 10.0
)

// SnapshotBuilder queries the media server and both library managers and
// normalizes their entries into a uniform media list. Every pass starts from
// scratch; the external systems stay the source of truth.
type SnapshotBuilder struct {
	plex      MediaServer
	sonarr    SeriesManager
	radarr    MovieManager
	streaming StreamingLookup
	settings  SettingsSource
	logger    *logrus.Logger
}

// NewSnapshotBuilder creates a snapshot builder over the injected upstreams.
func NewSnapshotBuilder(
	mediaServer MediaServer,
	seriesManager SeriesManager,
	movieManager MovieManager,
	streaming StreamingLookup,
	settingsSource SettingsSource,
	logger *logrus.Logger,
) *SnapshotBuilder {
	return &SnapshotBuilder{
		plex:      mediaServer,
		sonarr:    seriesManager,
		radarr:    movieManager,
		streaming: streaming,
		settings:  settingsSource,
		logger:    logger,
	}
}

// Build produces the normalized media list plus the streaming highlight
// cards. An unreachable media server yields two empty lists, not an error:
// callers must treat empty as "possibly not available yet".
func (b *SnapshotBuilder) Build(ctx context.Context) ([]models.MediaItem, []models.StreamingCard) {
	s := b.settings.Load()

	library, err := b.plex.Library(ctx)
	if err != nil {
		b.logger.WithError(err).Warn("Media server unavailable, returning empty snapshot")
		return []models.MediaItem{}, []models.StreamingCard{}
	}

	seriesByID, seriesIndex := b.indexSeries(ctx)
	moviesByID, movieIndex := b.indexMovies(ctx)

	items := make([]models.MediaItem, 0, len(library))
	cards := make([]models.StreamingCard, 0)

	for _, entry := range library {
		var item models.MediaItem
		switch entry.Type {
		case "show":
			item = b.buildShow(entry, seriesIndex, seriesByID)
		case "movie":
			item = b.buildMovie(entry, movieIndex, moviesByID)
		default:
			continue
		}

		b.applyStreaming(ctx, &item, s, &cards)

		// Content already under an archive folder must not become a fresh
		// candidate again.
		if item.RootFolderPath != "" && containsString(s.ArchiveFoldersFor(item.Type), item.RootFolderPath) {
			item.Status = models.StatusArchived
		}

		items = append(items, item)
	}

	b.logger.WithFields(logrus.Fields{
		"items":           len(items),
		"streaming_cards": len(cards),
	}).Info("Library snapshot built")
	return items, cards
}

func (b *SnapshotBuilder) baseItem(entry plex.Item, mediaType models.MediaType) models.MediaItem {
	item := models.MediaItem{
		ID:                entry.RatingKey,
		Title:             entry.Title,
		Type:              mediaType,
		WatchCount:        entry.ViewCount,
		Status:            models.StatusActive,
		Rule:              models.RuleAutoManage,
		StreamingServices: []string{},
	}
	if entry.LastViewedAt > 0 {
		item.LastWatched = time.Unix(entry.LastViewedAt, 0).Format(dateLayout)
	}
	if len(entry.Media) > 0 && len(entry.Media[0].Parts) > 0 {
		item.FilePath = entry.Media[0].Parts[0].File
	}
	return item
}

func (b *SnapshotBuilder) buildShow(entry plex.Item, index *TitleIndex, byID map[int]sonarr.Series) models.MediaItem {
	item := b.baseItem(entry, models.MediaTypeTV)
	item.Seasons = entry.ChildCount
	item.Episodes = entry.LeafCount

	if id, ok := index.Resolve(entry.Title); ok {
		series := byID[id]
		item.SonarrID = series.ID
		item.RootFolderPath = series.RootFolderPath
		item.Size = roundGB(series.Statistics.SizeOnDisk)
		if series.Status != "" {
			item.Status = models.Status(series.Status)
		}
		return item
	}

	// Unmonitored: fall back to the media server's own size metadata.
	item.Size = roundGB(plexSize(entry))
	return item
}

func (b *SnapshotBuilder) buildMovie(entry plex.Item, index *TitleIndex, byID map[int]radarr.Movie) models.MediaItem {
	item := b.baseItem(entry, models.MediaTypeMovie)
	item.Year = entry.Year

	if id, ok := index.Resolve(entry.Title); ok {
		movie := byID[id]
		item.RadarrID = movie.ID
		item.RootFolderPath = movie.RootFolderPath
		item.Size = roundGB(movie.SizeOnDisk)
		return item
	}

	item.Size = roundGB(plexSize(entry))
	return item
}

// applyStreaming performs the gated availability lookup, filling the item's
// preferred-provider list and accumulating a highlight card when any provider
// carries the title at all.
func (b *SnapshotBuilder) applyStreaming(ctx context.Context, item *models.MediaItem, s settings.Settings, cards *[]models.StreamingCard) {
	if !s.CheckStreamingAvailability || !b.streaming.Configured() {
		return
	}
	if item.Type == models.MediaTypeMovie && item.Size <= movieStreamingGateGB {
		return
	}
	if item.Type == models.MediaTypeTV && item.Size < showStreamingGateGB {
		return
	}

	providers, err := b.streaming.Providers(ctx, item.Type, item.Title)
	if err != nil {
		b.logger.WithError(err).WithField("title", item.Title).Warn("Streaming availability lookup failed")
		return
	}
	if len(providers) == 0 {
		return
	}

	*cards = append(*cards, models.StreamingCard{
		ID:        item.ID,
		Title:     item.Title,
		Type:      item.Type,
		Size:      item.Size,
		Providers: providers,
	})

	for _, preferred := range s.Preferred() {
		if containsString(providers, preferred) {
			item.StreamingServices = append(item.StreamingServices, preferred)
		}
	}
}

func (b *SnapshotBuilder) indexSeries(ctx context.Context) (map[int]sonarr.Series, *TitleIndex) {
	byID := make(map[int]sonarr.Series)
	ids := make(map[string]int)

	series, err := b.sonarr.Series(ctx)
	if err != nil {
		b.logger.WithError(err).Warn("Sonarr unavailable, shows will be unmonitored")
	}
	for _, s := range series {
		byID[s.ID] = s
		ids[s.Title] = s.ID
	}
	return byID, NewTitleIndex("sonarr", ids, b.logger)
}

func (b *SnapshotBuilder) indexMovies(ctx context.Context) (map[int]radarr.Movie, *TitleIndex) {
	byID := make(map[int]radarr.Movie)
	ids := make(map[string]int)

	movies, err := b.radarr.Movies(ctx)
	if err != nil {
		b.logger.WithError(err).Warn("Radarr unavailable, movies will be unmonitored")
	}
	for _, m := range movies {
		byID[m.ID] = m
		ids[m.Title] = m.ID
	}
	return byID, NewTitleIndex("radarr", ids, b.logger)
}

func plexSize(entry plex.Item) int64 {
	if len(entry.Media) > 0 && len(entry.Media[0].Parts) > 0 {
		return entry.Media[0].Parts[0].Size
	}
	return 0
}

func roundGB(bytes int64) float64 {
	return math.Round(float64(bytes)/bytesPerGB*100) / 100
}

func containsString(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
