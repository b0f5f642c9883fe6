package controllers

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sweeparr/sweeparr/internal/models"
	"github.com/sweeparr/sweeparr/internal/settings"
)

// CleanupController runs the scheduled housekeeping pass: it re-classifies
// the library from fresh upstream data and archives or deletes the candidates
// according to the configured archive mappings.
type CleanupController struct {
	builder  *SnapshotBuilder
	plex     MediaServer
	sonarr   SeriesManager
	radarr   MovieManager
	settings SettingsSource
	logger   *logrus.Logger
}

// NewCleanupController creates a new cleanup controller
func NewCleanupController(
	builder *SnapshotBuilder,
	plex MediaServer,
	seriesManager SeriesManager,
	movieManager MovieManager,
	settingsSource SettingsSource,
	logger *logrus.Logger,
) *CleanupController {
	return &CleanupController{
		builder:  builder,
		plex:     plex,
		sonarr:   seriesManager,
		radarr:   movieManager,
		settings: settingsSource,
		logger:   logger,
	}
}

// Run executes one cleanup pass and returns the human-readable action log.
// A dry run always reports what would happen; a live run additionally
// requires enableAutoActions and mutates the upstream library.
func (c *CleanupController) Run(ctx context.Context, dryRun bool) []string {
	s := c.settings.Load()

	if !dryRun && !s.EnableAutoActions {
		c.logger.Info("Cleanup pass skipped: automatic actions are disabled")
		return []string{"[SKIP] Automatic actions are disabled in settings."}
	}

	mode := "live"
	if dryRun {
		mode = "dry-run"
	}
	c.logger.WithField("mode", mode).Info("Starting cleanup pass")

	// Cleanup always classifies from fresh upstream data rather than the
	// cached snapshot, so a stale cache can never drive a destructive action.
	items, _ := c.builder.Build(ctx)
	classified := Classify(items, s, time.Now())

	mappings, ambiguous := indexMappings(s.ArchiveMappings)

	results := make([]string, 0)
	for _, item := range classified {
		switch item.Status {
		case models.StatusCandidateArchive:
			results = append(results, c.archiveCandidate(ctx, item, mappings, ambiguous, dryRun)...)
		case models.StatusCandidateDelete:
			results = append(results, c.deleteCandidate(ctx, item, dryRun)...)
		}
	}

	if len(results) == 0 {
		results = append(results, "No candidates found. Nothing to do.")
	}

	c.logger.WithFields(logrus.Fields{
		"mode":    mode,
		"actions": len(results),
	}).Info("Cleanup pass finished")
	return results
}

func (c *CleanupController) archiveCandidate(
	ctx context.Context,
	item models.MediaItem,
	mappings map[string]string,
	ambiguous map[string]bool,
	dryRun bool,
) []string {
	dest, msg := resolveDestination(item, mappings, ambiguous)
	if dest == "" {
		return []string{msg}
	}

	if dryRun {
		return []string{fmt.Sprintf("[ARCHIVE] Proposing move of '%s' (%.1f GB) to %s", item.Title, item.Size, dest)}
	}

	var err error
	switch item.Type {
	case models.MediaTypeTV:
		err = c.sonarr.MoveSeries(ctx, item.SonarrID, dest)
	case models.MediaTypeMovie:
		err = c.radarr.MoveMovie(ctx, item.RadarrID, dest)
	}
	if err != nil {
		c.logger.WithError(err).WithField("title", item.Title).Error("Cleanup archive failed")
		return []string{fmt.Sprintf("[ERROR] Failed to archive '%s': %v", item.Title, err)}
	}
	return []string{fmt.Sprintf("[ARCHIVE] Moved '%s' (%.1f GB) to %s", item.Title, item.Size, dest)}
}

func (c *CleanupController) deleteCandidate(ctx context.Context, item models.MediaItem, dryRun bool) []string {
	if dryRun {
		return []string{fmt.Sprintf("[DELETE] Proposing deletion of '%s' (%.1f GB): %s", item.Title, item.Size, item.Reason)}
	}

	if err := c.plex.DeleteItem(ctx, item.ID); err != nil {
		c.logger.WithError(err).WithField("title", item.Title).Error("Cleanup delete failed")
		return []string{fmt.Sprintf("[ERROR] Failed to delete '%s': %v", item.Title, err)}
	}
	return []string{fmt.Sprintf("[DELETE] Deleted '%s' (%.1f GB)", item.Title, item.Size)}
}

// indexMappings builds a destination lookup keyed by media type and cleaned
// source folder. Sources that map to more than one destination are marked
// ambiguous and are skipped instead of guessed at.
func indexMappings(mappings []settings.ArchiveMapping) (map[string]string, map[string]bool) {
	index := make(map[string]string)
	ambiguous := make(map[string]bool)
	for _, m := range mappings {
		if m.Source == "" || m.Destination == "" {
			continue
		}
		key := mappingKey(m.Type, m.Source)
		if existing, ok := index[key]; ok && existing != m.Destination {
			ambiguous[key] = true
			continue
		}
		index[key] = m.Destination
	}
	return index, ambiguous
}

// resolveDestination finds the archive destination for an item's root folder,
// trying the full cleaned path first and then its top-level segment.
func resolveDestination(item models.MediaItem, mappings map[string]string, ambiguous map[string]bool) (string, string) {
	if item.RootFolderPath == "" {
		return "", fmt.Sprintf("[SKIP] '%s' has no root folder, cannot archive.", item.Title)
	}

	candidates := []string{filepath.Clean(item.RootFolderPath)}
	if top := topSegment(item.RootFolderPath); top != candidates[0] {
		candidates = append(candidates, top)
	}

	for _, source := range candidates {
		key := mappingKey(string(item.Type), source)
		if ambiguous[key] {
			return "", fmt.Sprintf("[SKIP] '%s': archive mapping for %s is ambiguous.", item.Title, source)
		}
		if dest, ok := mappings[key]; ok {
			return dest, ""
		}
	}
	return "", fmt.Sprintf("[SKIP] '%s': no archive mapping covers %s.", item.Title, item.RootFolderPath)
}

func mappingKey(mediaType, source string) string {
	return mediaType + "|" + filepath.Clean(source)
}

// topSegment reduces a path like /tv/Show to /tv.
func topSegment(path string) string {
	cleaned := filepath.Clean(path)
	trimmed := strings.TrimPrefix(cleaned, "/")
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		return "/" + trimmed[:i]
	}
	return cleaned
}
