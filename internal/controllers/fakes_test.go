package controllers

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/sweeparr/sweeparr/internal/models"
	"github.com/sweeparr/sweeparr/internal/services/plex"
	"github.com/sweeparr/sweeparr/internal/services/radarr"
	"github.com/sweeparr/sweeparr/internal/services/sonarr"
	"github.com/sweeparr/sweeparr/internal/settings"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type fakePlex struct {
	items      []plex.Item
	libraryErr error
	pingErr    error
	deleteErr  error
	deleted    []string
}

func (f *fakePlex) Ping(ctx context.Context) error { return f.pingErr }

func (f *fakePlex) Library(ctx context.Context) ([]plex.Item, error) {
	return f.items, f.libraryErr
}

func (f *fakePlex) DeleteItem(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type seriesMove struct {
	id   int
	dest string
}

type fakeSonarr struct {
	series     []sonarr.Series
	seriesErr  error
	folders    []sonarr.RootFolder
	foldersErr error
	summary    sonarr.Summary
	summaryErr error
	moveErr    error
	moves      []seriesMove
}

func (f *fakeSonarr) Series(ctx context.Context) ([]sonarr.Series, error) {
	return f.series, f.seriesErr
}

func (f *fakeSonarr) RootFolders(ctx context.Context) ([]sonarr.RootFolder, error) {
	return f.folders, f.foldersErr
}

func (f *fakeSonarr) LibrarySummary(ctx context.Context) (sonarr.Summary, error) {
	return f.summary, f.summaryErr
}

func (f *fakeSonarr) MoveSeries(ctx context.Context, seriesID int, destRoot string) error {
	if f.moveErr != nil {
		return f.moveErr
	}
	f.moves = append(f.moves, seriesMove{id: seriesID, dest: destRoot})
	return nil
}

type fakeRadarr struct {
	movies     []radarr.Movie
	moviesErr  error
	folders    []radarr.RootFolder
	foldersErr error
	summary    radarr.Summary
	summaryErr error
	moveErr    error
	moves      []seriesMove
}

func (f *fakeRadarr) Movies(ctx context.Context) ([]radarr.Movie, error) {
	return f.movies, f.moviesErr
}

func (f *fakeRadarr) RootFolders(ctx context.Context) ([]radarr.RootFolder, error) {
	return f.folders, f.foldersErr
}

func (f *fakeRadarr) LibrarySummary(ctx context.Context) (radarr.Summary, error) {
	return f.summary, f.summaryErr
}

func (f *fakeRadarr) MoveMovie(ctx context.Context, movieID int, destRoot string) error {
	if f.moveErr != nil {
		return f.moveErr
	}
	f.moves = append(f.moves, seriesMove{id: movieID, dest: destRoot})
	return nil
}

type fakeStreaming struct {
	configured bool
	providers  map[string][]string
	err        error
	lookups    []string
}

func (f *fakeStreaming) Configured() bool { return f.configured }

func (f *fakeStreaming) Providers(ctx context.Context, mediaType models.MediaType, title string) ([]string, error) {
	f.lookups = append(f.lookups, title)
	if f.err != nil {
		return nil, f.err
	}
	return f.providers[title], nil
}

type fakeSettings struct {
	s       settings.Settings
	saveErr error
	saved   []settings.Settings
}

func (f *fakeSettings) Load() settings.Settings { return f.s }

func (f *fakeSettings) Save(s settings.Settings) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, s)
	return nil
}

type fakeStorage struct {
	combined models.StorageInfo
	archive  models.StorageInfo
}

func (f *fakeStorage) Combined() models.StorageInfo { return f.combined }

func (f *fakeStorage) Archive() models.StorageInfo { return f.archive }
