package controllers

import (
	"context"
	"strings"
	"testing"

	"github.com/sweeparr/sweeparr/internal/models"
	"github.com/sweeparr/sweeparr/internal/services/plex"
	"github.com/sweeparr/sweeparr/internal/services/sonarr"
	"github.com/sweeparr/sweeparr/internal/settings"
)

func cleanupSettings() settings.Settings {
	s := settings.Defaults()
	s.EnableAutoActions = true
	s.ArchiveMappings = []settings.ArchiveMapping{
		{Type: "tv", Source: "/tv", Destination: "/archive/tv"},
	}
	return s
}

func endedShowFixture() (*fakePlex, *fakeSonarr) {
	p := &fakePlex{items: []plex.Item{
		{RatingKey: "1", Title: "Finished Show", Type: "show"},
	}}
	series := sonarr.Series{
		ID:             5,
		Title:          "Finished Show",
		Status:         "ended",
		RootFolderPath: "/tv",
	}
	series.Statistics.SizeOnDisk = 9 * gb
	return p, &fakeSonarr{series: []sonarr.Series{series}}
}

func newTestCleanup(p *fakePlex, s *fakeSonarr, r *fakeRadarr, set settings.Settings) *CleanupController {
	source := &fakeSettings{s: set}
	builder := NewSnapshotBuilder(p, s, r, &fakeStreaming{}, source, newTestLogger())
	return NewCleanupController(builder, p, s, r, source, newTestLogger())
}

func hasPrefixResult(results []string, prefix string) bool {
	for _, r := range results {
		if strings.HasPrefix(r, prefix) {
			return true
		}
	}
	return false
}

func TestCleanupDryRunProposesWithoutExecuting(t *testing.T) {
	p, s := endedShowFixture()
	ctrl := newTestCleanup(p, s, &fakeRadarr{}, cleanupSettings())

	results := ctrl.Run(context.Background(), true)

	if !hasPrefixResult(results, "[ARCHIVE] Proposing") {
		t.Errorf("Expected an archive proposal, got %v", results)
	}
	if len(s.moves) != 0 {
		t.Errorf("Dry run must not move anything: %v", s.moves)
	}
}

func TestCleanupLiveRunExecutesMoves(t *testing.T) {
	p, s := endedShowFixture()
	ctrl := newTestCleanup(p, s, &fakeRadarr{}, cleanupSettings())

	results := ctrl.Run(context.Background(), false)

	if len(s.moves) != 1 || s.moves[0].id != 5 || s.moves[0].dest != "/archive/tv" {
		t.Fatalf("Expected one move to /archive/tv, got %v", s.moves)
	}
	if !hasPrefixResult(results, "[ARCHIVE] Moved") {
		t.Errorf("Expected a move confirmation, got %v", results)
	}
}

func TestCleanupLiveRunBlockedWhenAutoActionsDisabled(t *testing.T) {
	set := cleanupSettings()
	set.EnableAutoActions = false

	p, s := endedShowFixture()
	ctrl := newTestCleanup(p, s, &fakeRadarr{}, set)

	results := ctrl.Run(context.Background(), false)

	if len(s.moves) != 0 {
		t.Errorf("Disabled auto actions must block moves: %v", s.moves)
	}
	if !hasPrefixResult(results, "[SKIP]") {
		t.Errorf("Expected a skip message, got %v", results)
	}
}

func TestCleanupDryRunExemptFromAutoActionsGate(t *testing.T) {
	set := cleanupSettings()
	set.EnableAutoActions = false

	p, s := endedShowFixture()
	ctrl := newTestCleanup(p, s, &fakeRadarr{}, set)

	results := ctrl.Run(context.Background(), true)
	if !hasPrefixResult(results, "[ARCHIVE] Proposing") {
		t.Errorf("Dry run must still report proposals, got %v", results)
	}
}

func TestCleanupSkipsUnmappedSource(t *testing.T) {
	set := cleanupSettings()
	set.ArchiveMappings = []settings.ArchiveMapping{
		{Type: "tv", Source: "/anime", Destination: "/archive/anime"},
	}

	p, s := endedShowFixture()
	ctrl := newTestCleanup(p, s, &fakeRadarr{}, set)

	results := ctrl.Run(context.Background(), false)
	if len(s.moves) != 0 {
		t.Errorf("Unmapped source must not move: %v", s.moves)
	}
	if !hasPrefixResult(results, "[SKIP]") {
		t.Errorf("Expected a skip message, got %v", results)
	}
}

func TestIndexMappingsDetectsAmbiguity(t *testing.T) {
	index, ambiguous := indexMappings([]settings.ArchiveMapping{
		{Type: "tv", Source: "/tv", Destination: "/archive/a"},
		{Type: "tv", Source: "/tv", Destination: "/archive/b"},
	})

	key := mappingKey("tv", "/tv")
	if !ambiguous[key] {
		t.Error("Conflicting destinations must flag the source ambiguous")
	}
	if _, ok := index[key]; !ok {
		// The first mapping stays indexed; the ambiguity flag wins at
		// resolve time.
		t.Error("First mapping should remain in the index")
	}
}

func TestResolveDestinationFallsBackToTopSegment(t *testing.T) {
	index, ambiguous := indexMappings([]settings.ArchiveMapping{
		{Type: "tv", Source: "/tv", Destination: "/archive/tv"},
	})

	item := models.MediaItem{
		Title:          "Nested Show",
		Type:           models.MediaTypeTV,
		RootFolderPath: "/tv/kids",
	}
	dest, msg := resolveDestination(item, index, ambiguous)
	if dest != "/archive/tv" {
		t.Errorf("Expected top-segment fallback, got dest=%q msg=%q", dest, msg)
	}
}

func TestResolveDestinationRefusesAmbiguous(t *testing.T) {
	index, ambiguous := indexMappings([]settings.ArchiveMapping{
		{Type: "tv", Source: "/tv", Destination: "/archive/a"},
		{Type: "tv", Source: "/tv", Destination: "/archive/b"},
	})

	item := models.MediaItem{
		Title:          "Some Show",
		Type:           models.MediaTypeTV,
		RootFolderPath: "/tv",
	}
	dest, msg := resolveDestination(item, index, ambiguous)
	if dest != "" {
		t.Errorf("Ambiguous mapping must not resolve, got %q", dest)
	}
	if !strings.HasPrefix(msg, "[SKIP]") {
		t.Errorf("Expected a skip message, got %q", msg)
	}
}
