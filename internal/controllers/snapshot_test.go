package controllers

import (
	"context"
	"errors"
	"testing"

	"github.com/sweeparr/sweeparr/internal/models"
	"github.com/sweeparr/sweeparr/internal/services/plex"
	"github.com/sweeparr/sweeparr/internal/services/radarr"
	"github.com/sweeparr/sweeparr/internal/services/sonarr"
	"github.com/sweeparr/sweeparr/internal/settings"
)

const gb = int64(1024 * 1024 * 1024)

func snapshotSettings() settings.Settings {
	s := settings.Defaults()
	s.CheckStreamingAvailability = true
	s.StreamingProviders = []string{"Netflix"}
	s.MovieArchiveFolders = []string{"/archive/movies"}
	s.TVArchiveFolders = []string{"/archive/tv"}
	return s
}

func newTestBuilder(p *fakePlex, s *fakeSonarr, r *fakeRadarr, st *fakeStreaming, set settings.Settings) *SnapshotBuilder {
	return NewSnapshotBuilder(p, s, r, st, &fakeSettings{s: set}, newTestLogger())
}

func TestBuildReturnsEmptyWhenMediaServerUnavailable(t *testing.T) {
	builder := newTestBuilder(
		&fakePlex{libraryErr: errors.New("connection refused")},
		&fakeSonarr{}, &fakeRadarr{}, &fakeStreaming{},
		snapshotSettings(),
	)

	items, cards := builder.Build(context.Background())
	if len(items) != 0 || len(cards) != 0 {
		t.Errorf("Expected empty snapshot, got %d items, %d cards", len(items), len(cards))
	}
}

func TestBuildShowResolvedAgainstSonarr(t *testing.T) {
	p := &fakePlex{items: []plex.Item{
		{RatingKey: "101", Title: "Finished Show", Type: "show", ViewCount: 4, ChildCount: 3, LeafCount: 30},
	}}
	series := sonarr.Series{
		ID:             7,
		Title:          "Finished Show",
		Status:         "ended",
		RootFolderPath: "/tv",
	}
	series.Statistics.SizeOnDisk = 9 * gb
	s := &fakeSonarr{series: []sonarr.Series{series}}

	builder := newTestBuilder(p, s, &fakeRadarr{}, &fakeStreaming{}, snapshotSettings())
	items, _ := builder.Build(context.Background())

	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(items))
	}
	item := items[0]
	if item.SonarrID != 7 {
		t.Errorf("Expected SonarrID 7, got %d", item.SonarrID)
	}
	if item.RootFolderPath != "/tv" {
		t.Errorf("Expected root folder /tv, got %s", item.RootFolderPath)
	}
	if item.Size != 9.0 {
		t.Errorf("Expected 9.0 GB, got %f", item.Size)
	}
	if item.Status != "ended" {
		t.Errorf("Expected source status ended, got %s", item.Status)
	}
	if item.Seasons != 3 || item.Episodes != 30 {
		t.Errorf("Season/episode counts lost: %d/%d", item.Seasons, item.Episodes)
	}
}

func TestBuildUnmatchedMovieFallsBackToServerSize(t *testing.T) {
	p := &fakePlex{items: []plex.Item{
		{
			RatingKey: "201",
			Title:     "Home Video",
			Type:      "movie",
			Media: []plex.Media{
				{Parts: []plex.Part{{File: "/movies/home.mkv", Size: 2 * gb}}},
			},
		},
	}}

	builder := newTestBuilder(p, &fakeSonarr{}, &fakeRadarr{}, &fakeStreaming{}, snapshotSettings())
	items, _ := builder.Build(context.Background())

	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(items))
	}
	item := items[0]
	if item.RootFolderPath != "" {
		t.Errorf("Unmatched item must have empty root folder, got %s", item.RootFolderPath)
	}
	if item.Size != 2.0 {
		t.Errorf("Expected fallback size 2.0 GB, got %f", item.Size)
	}
	if item.FilePath != "/movies/home.mkv" {
		t.Errorf("File path lost: %s", item.FilePath)
	}
}

func TestBuildMarksArchivedContent(t *testing.T) {
	p := &fakePlex{items: []plex.Item{
		{RatingKey: "301", Title: "Old Movie", Type: "movie"},
	}}
	r := &fakeRadarr{movies: []radarr.Movie{
		{ID: 3, Title: "Old Movie", RootFolderPath: "/archive/movies", SizeOnDisk: 5 * gb},
	}}

	builder := newTestBuilder(p, &fakeSonarr{}, r, &fakeStreaming{}, snapshotSettings())
	items, _ := builder.Build(context.Background())

	if items[0].Status != models.StatusArchived {
		t.Errorf("Expected archived, got %s", items[0].Status)
	}
}

func TestBuildStreamingGate(t *testing.T) {
	p := &fakePlex{items: []plex.Item{
		{RatingKey: "401", Title: "Big Movie", Type: "movie"},
		{RatingKey: "402", Title: "Small Movie", Type: "movie"},
	}}
	r := &fakeRadarr{movies: []radarr.Movie{
		{ID: 1, Title: "Big Movie", RootFolderPath: "/movies", SizeOnDisk: 16 * gb},
		{ID: 2, Title: "Small Movie", RootFolderPath: "/movies", SizeOnDisk: 10 * gb},
	}}
	streaming := &fakeStreaming{
		configured: true,
		providers:  map[string][]string{"Big Movie": {"Netflix", "Hulu"}},
	}

	builder := newTestBuilder(p, &fakeSonarr{}, r, streaming, snapshotSettings())
	items, cards := builder.Build(context.Background())

	if len(streaming.lookups) != 1 || streaming.lookups[0] != "Big Movie" {
		t.Errorf("Expected a single lookup for Big Movie, got %v", streaming.lookups)
	}
	if len(cards) != 1 || cards[0].Title != "Big Movie" {
		t.Fatalf("Expected one card for Big Movie, got %v", cards)
	}
	if len(cards[0].Providers) != 2 {
		t.Errorf("Card must list all providers, got %v", cards[0].Providers)
	}

	// Only preferred providers end up on the item itself.
	var big models.MediaItem
	for _, item := range items {
		if item.Title == "Big Movie" {
			big = item
		}
	}
	if len(big.StreamingServices) != 1 || big.StreamingServices[0] != "Netflix" {
		t.Errorf("Expected preferred providers only, got %v", big.StreamingServices)
	}
}

func TestBuildStreamingDisabledSkipsLookups(t *testing.T) {
	set := snapshotSettings()
	set.CheckStreamingAvailability = false

	p := &fakePlex{items: []plex.Item{
		{RatingKey: "501", Title: "Big Movie", Type: "movie"},
	}}
	r := &fakeRadarr{movies: []radarr.Movie{
		{ID: 1, Title: "Big Movie", RootFolderPath: "/movies", SizeOnDisk: 20 * gb},
	}}
	streaming := &fakeStreaming{configured: true}

	builder := newTestBuilder(p, &fakeSonarr{}, r, streaming, set)
	builder.Build(context.Background())

	if len(streaming.lookups) != 0 {
		t.Errorf("Expected no lookups, got %v", streaming.lookups)
	}
}
