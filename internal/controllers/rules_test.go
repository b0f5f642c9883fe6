package controllers

import (
	"testing"
	"time"

	"github.com/sweeparr/sweeparr/internal/models"
	"github.com/sweeparr/sweeparr/internal/settings"
)

func testSettings() settings.Settings {
	s := settings.Defaults()
	s.AutoDeleteAfterDays = 30
	s.ArchiveAfterMonths = 6
	return s
}

var classifyNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func classifySingle(t *testing.T, item models.MediaItem) models.MediaItem {
	t.Helper()
	out := Classify([]models.MediaItem{item}, testSettings(), classifyNow)
	if len(out) != 1 {
		t.Fatalf("Expected 1 classified item, got %d", len(out))
	}
	return out[0]
}

func TestClassifyKeepForeverProtects(t *testing.T) {
	item := models.MediaItem{
		Title:          "Some Show",
		Type:           models.MediaTypeTV,
		Size:           120.0,
		Status:         "ended",
		Rule:           models.RuleKeepForever,
		RootFolderPath: "/tv",
	}

	got := classifySingle(t, item)
	if got.Status != models.StatusProtected {
		t.Errorf("Expected protected, got %s", got.Status)
	}
}

func TestClassifyUnmonitoredNeverCandidate(t *testing.T) {
	// Even an item matching a delete rule must not become a candidate when
	// no library manager tracks it.
	item := models.MediaItem{
		Title:             "Orphan Movie",
		Type:              models.MediaTypeMovie,
		Size:              40.0,
		Status:            models.StatusActive,
		Rule:              models.RuleDeleteIfStreaming,
		StreamingServices: []string{"Netflix"},
		RootFolderPath:    "",
	}

	got := classifySingle(t, item)
	if got.Status != models.StatusNotMonitored {
		t.Errorf("Expected not-monitored, got %s", got.Status)
	}
}

func TestClassifyLargeEndedShow(t *testing.T) {
	item := models.MediaItem{
		Title:          "Finished Show",
		Type:           models.MediaTypeTV,
		Size:           9.0,
		Status:         "ended",
		Rule:           models.RuleAutoManage,
		RootFolderPath: "/tv",
	}

	got := classifySingle(t, item)
	if got.Status != models.StatusCandidateArchive {
		t.Errorf("Expected candidate-archive, got %s", got.Status)
	}
}

func TestClassifySmallEndedShowUnchanged(t *testing.T) {
	item := models.MediaItem{
		Title:          "Tiny Show",
		Type:           models.MediaTypeTV,
		Size:           5.0,
		Status:         "ended",
		Rule:           models.RuleAutoManage,
		RootFolderPath: "/tv",
	}

	got := classifySingle(t, item)
	if got.Status != "ended" {
		t.Errorf("Expected source status to stand, got %s", got.Status)
	}
}

func TestClassifyDeleteIfStreaming(t *testing.T) {
	item := models.MediaItem{
		Title:             "Streaming Movie",
		Type:              models.MediaTypeMovie,
		Size:              20.0,
		Status:            models.StatusActive,
		Rule:              models.RuleDeleteIfStreaming,
		StreamingServices: []string{"Netflix"},
		RootFolderPath:    "/movies",
	}

	got := classifySingle(t, item)
	if got.Status != models.StatusCandidateDelete {
		t.Errorf("Expected candidate-delete, got %s", got.Status)
	}
}

func TestClassifyDeleteIfStreamingWithoutProviders(t *testing.T) {
	item := models.MediaItem{
		Title:          "Offline Movie",
		Type:           models.MediaTypeMovie,
		Size:           20.0,
		Status:         models.StatusActive,
		Rule:           models.RuleDeleteIfStreaming,
		RootFolderPath: "/movies",
	}

	got := classifySingle(t, item)
	if got.Status != models.StatusActive {
		t.Errorf("Expected active, got %s", got.Status)
	}
}

func TestClassifyArchiveWindow(t *testing.T) {
	item := models.MediaItem{
		Title:          "Stale Movie",
		Type:           models.MediaTypeMovie,
		Size:           12.0,
		Status:         models.StatusActive,
		Rule:           models.RuleArchiveAfterMonths,
		LastWatched:    "2025-01-01",
		WatchCount:     2,
		RootFolderPath: "/movies",
	}

	got := classifySingle(t, item)
	if got.Status != models.StatusCandidateArchive {
		t.Errorf("Expected candidate-archive, got %s", got.Status)
	}

	// Watched inside the window stays as-is.
	item.LastWatched = "2026-06-01"
	got = classifySingle(t, item)
	if got.Status != models.StatusActive {
		t.Errorf("Expected active, got %s", got.Status)
	}
}

func TestClassifyDeleteWindowRequiresWatch(t *testing.T) {
	item := models.MediaItem{
		Title:          "Watched Movie",
		Type:           models.MediaTypeMovie,
		Size:           12.0,
		Status:         models.StatusActive,
		Rule:           models.RuleDeleteAfterWatched,
		LastWatched:    "2026-01-01",
		WatchCount:     3,
		RootFolderPath: "/movies",
	}

	got := classifySingle(t, item)
	if got.Status != models.StatusCandidateDelete {
		t.Errorf("Expected candidate-delete, got %s", got.Status)
	}

	// An unwatched item never hits the delete window.
	item.WatchCount = 0
	item.LastWatched = ""
	got = classifySingle(t, item)
	if got.Status != models.StatusActive {
		t.Errorf("Expected active, got %s", got.Status)
	}
}

func TestClassifyMalformedDateCountsAsNeverWatched(t *testing.T) {
	item := models.MediaItem{
		Title:          "Bad Date Movie",
		Type:           models.MediaTypeMovie,
		Size:           12.0,
		Status:         models.StatusActive,
		Rule:           models.RuleAutoManage,
		LastWatched:    "not-a-date",
		WatchCount:     1,
		RootFolderPath: "/movies",
	}

	got := classifySingle(t, item)
	if got.Status != models.StatusActive {
		t.Errorf("Expected active, got %s", got.Status)
	}
}

func TestClassifyDoesNotMutateInput(t *testing.T) {
	items := []models.MediaItem{
		{
			Title:          "Finished Show",
			Type:           models.MediaTypeTV,
			Size:           9.0,
			Status:         "ended",
			Rule:           models.RuleAutoManage,
			RootFolderPath: "/tv",
		},
	}

	first := Classify(items, testSettings(), classifyNow)
	if items[0].Status != "ended" {
		t.Errorf("Input was mutated: %s", items[0].Status)
	}

	// Re-classifying the output must be stable.
	second := Classify(first, testSettings(), classifyNow)
	if second[0].Status != first[0].Status {
		t.Errorf("Classification is not idempotent: %s vs %s", first[0].Status, second[0].Status)
	}
}
