package controllers

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sweeparr/sweeparr/internal/cache"
	"github.com/sweeparr/sweeparr/internal/models"
	"github.com/sweeparr/sweeparr/internal/services/radarr"
	"github.com/sweeparr/sweeparr/internal/services/sonarr"
)

// endedShowFloorGB keeps trivially small ended shows off the recommendation
// list.
const endedShowFloorGB = 55.0

// SyncController coordinates a full sync pass: fetch the slow upstream data,
// classify it, and publish everything to the shared cache so dashboard reads
// never block on upstream I/O.
type SyncController struct {
	store    *cache.Store
	builder  *SnapshotBuilder
	sonarr   SeriesManager
	radarr   MovieManager
	storage  StorageMonitor
	settings SettingsSource
	logger   *logrus.Logger
}

// NewSyncController creates a new sync controller
func NewSyncController(
	store *cache.Store,
	builder *SnapshotBuilder,
	seriesManager SeriesManager,
	movieManager MovieManager,
	storage StorageMonitor,
	settingsSource SettingsSource,
	logger *logrus.Logger,
) *SyncController {
	return &SyncController{
		store:    store,
		builder:  builder,
		sonarr:   seriesManager,
		radarr:   movieManager,
		storage:  storage,
		settings: settingsSource,
		logger:   logger,
	}
}

// TriggerAsync starts a guarded sync in the background. It returns false
// without queueing when a sync is already in flight. The guard is released on
// every exit path, including panics, and its TTL bounds a crashed holder.
func (c *SyncController) TriggerAsync() bool {
	if !c.store.AcquireGuard(cache.KeySyncGuard, cache.GuardTTL) {
		c.logger.Warn("Sync request denied: a sync is already in progress")
		return false
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				c.logger.WithField("panic", r).Error("Sync panicked")
			}
			c.store.ReleaseGuard(cache.KeySyncGuard)
			c.logger.Debug("Sync guard cleared")
		}()
		c.RunFullSync(context.Background())
	}()
	return true
}

// RunFullSync executes every sync stage in order. Each stage failure is
// logged and leaves the previously cached value authoritative; a failed stage
// never aborts the pass or crashes the scheduler.
func (c *SyncController) RunFullSync(ctx context.Context) {
	started := time.Now()
	c.logger.Info("Starting full library sync")

	s := c.settings.Load()

	sonarrSummary := c.syncSonarrSummary(ctx)
	radarrSummary := c.syncRadarrSummary(ctx)
	c.syncRootFolders(ctx)

	items, streamingCards := c.builder.Build(ctx)
	c.store.Set(cache.KeySnapshot, items, cache.RawTTL)
	c.store.Set(cache.KeyStreamingCards, streamingCards, cache.RawTTL)

	classified := Classify(items, s, time.Now())
	c.store.Set(cache.KeyClassified, classified, cache.RawTTL)

	storageInfo := c.storage.Combined()
	c.store.Set(cache.KeyStorage, storageInfo, cache.RawTTL)
	archiveInfo := c.storage.Archive()
	c.store.Set(cache.KeyArchiveStorage, archiveInfo, cache.RawTTL)

	dashboard := buildDashboard(classified, streamingCards, sonarrSummary, radarrSummary, storageInfo, archiveInfo)
	// The dashboard gets a shorter TTL than its inputs so it expires on its
	// own schedule.
	c.store.Set(cache.KeyDashboard, dashboard, cache.DashboardTTL)

	c.logger.WithFields(logrus.Fields{
		"items":       len(classified),
		"candidates":  len(dashboard.Candidates),
		"duration_ms": time.Since(started).Milliseconds(),
	}).Info("Full sync completed, dashboard cached")
}

func (c *SyncController) syncSonarrSummary(ctx context.Context) sonarr.Summary {
	summary, err := c.sonarr.LibrarySummary(ctx)
	if err != nil {
		c.logger.WithError(err).Error("Sonarr summary stage failed, previous cached value stays authoritative")
		if prev, ok := c.store.Get(cache.KeySonarrSummary); ok {
			return prev.(sonarr.Summary)
		}
		return sonarr.Summary{}
	}
	c.store.Set(cache.KeySonarrSummary, summary, cache.RawTTL)
	return summary
}

func (c *SyncController) syncRadarrSummary(ctx context.Context) radarr.Summary {
	summary, err := c.radarr.LibrarySummary(ctx)
	if err != nil {
		c.logger.WithError(err).Error("Radarr summary stage failed, previous cached value stays authoritative")
		if prev, ok := c.store.Get(cache.KeyRadarrSummary); ok {
			return prev.(radarr.Summary)
		}
		return radarr.Summary{}
	}
	c.store.Set(cache.KeyRadarrSummary, summary, cache.RawTTL)
	return summary
}

func (c *SyncController) syncRootFolders(ctx context.Context) {
	if folders, err := c.sonarr.RootFolders(ctx); err != nil {
		c.logger.WithError(err).Error("Sonarr root-folder stage failed")
	} else {
		c.store.Set(cache.KeySonarrRootFolders, folders, cache.RawTTL)
	}

	if folders, err := c.radarr.RootFolders(ctx); err != nil {
		c.logger.WithError(err).Error("Radarr root-folder stage failed")
	} else {
		c.store.Set(cache.KeyRadarrRootFolders, folders, cache.RawTTL)
	}
}

// buildDashboard derives the pre-computed aggregate the dashboard endpoint
// serves.
func buildDashboard(
	items []models.MediaItem,
	streamingCards []models.StreamingCard,
	sonarrSummary sonarr.Summary,
	radarrSummary radarr.Summary,
	storageInfo, archiveInfo models.StorageInfo,
) models.Dashboard {
	candidates := make([]models.MediaItem, 0)
	var potentialSavings float64
	onStreaming := 0

	var largeMovies, endedShows, streamingMovies []models.MediaItem

	for _, item := range items {
		if item.Status.IsCandidate() {
			candidates = append(candidates, item)
			potentialSavings += item.Size
		}
		if len(item.StreamingServices) > 0 {
			onStreaming++
		}

		switch item.Type {
		case models.MediaTypeMovie:
			if item.Status != models.StatusArchived {
				largeMovies = append(largeMovies, item)
			}
			if len(item.StreamingServices) > 0 {
				streamingMovies = append(streamingMovies, item)
			}
		case models.MediaTypeTV:
			if item.Status.IsEnded() && item.Size >= endedShowFloorGB {
				endedShows = append(endedShows, item)
			}
		}
	}

	highlights := make([]models.StreamingCard, len(streamingCards))
	copy(highlights, streamingCards)
	sort.Slice(highlights, func(i, j int) bool { return highlights[i].Size > highlights[j].Size })

	return models.Dashboard{
		StorageData:         storageInfo,
		ArchiveData:         archiveInfo,
		PotentialSavings:    round2(potentialSavings),
		Candidates:          candidates,
		LargeMovies:         topBySize(largeMovies, 10),
		StreamingHighlights: highlights,
		LibraryStats: models.LibraryStats{
			TV:          sonarrSummary.TotalSeries,
			TVSize:      round1(sonarrSummary.TotalGB),
			TVEpisodes:  sonarrSummary.TotalEpisodes,
			Movies:      radarrSummary.TotalMovies,
			MoviesSize:  round1(radarrSummary.TotalGB),
			OnStreaming: onStreaming,
		},
		RecommendedActions: models.RecommendedActions{
			EndedShows:      topBySize(endedShows, 5),
			StreamingMovies: topBySize(streamingMovies, 5),
		},
	}
}

// topBySize returns up to n items sorted by size descending.
func topBySize(items []models.MediaItem, n int) []models.MediaItem {
	sorted := make([]models.MediaItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Size > sorted[j].Size })
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round2(v float64) float64 { return math.Round(v*100) / 100 }
