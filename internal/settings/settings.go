package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/sweeparr/sweeparr/internal/config"
	"github.com/sweeparr/sweeparr/internal/models"
)

// ArchiveMapping maps a source library folder to an archive destination for
// one media type.
type ArchiveMapping struct {
	Type        string `json:"type"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
}

// Settings is the fully resolved settings object: rule parameters, folder
// allow-lists, and the environment-sourced connection values. The mixed-case
// JSON keys mirror the persisted settings.json format.
type Settings struct {
	AutoDeleteAfterDays        int              `json:"autoDeleteAfterDays"`
	ArchiveAfterMonths         int              `json:"archiveAfterMonths"`
	KeepFreeSpace              int              `json:"keepFreeSpace"`
	EnableAutoActions          bool             `json:"enableAutoActions"`
	CheckStreamingAvailability bool             `json:"checkStreamingAvailability"`
	PreferredStreamingServices []string         `json:"preferredStreamingServices"`
	ArchiveMappings            []ArchiveMapping `json:"archiveMappings"`

	PlexURL      string `json:"PLEX_URL"`
	PlexToken    string `json:"PLEX_TOKEN"`
	SonarrURL    string `json:"SONARR_URL"`
	SonarrAPIKey string `json:"SONARR_API_KEY"`
	RadarrURL    string `json:"RADARR_URL"`
	RadarrAPIKey string `json:"RADARR_API_KEY"`
	TMDBAPIKey   string `json:"TMDB_API_KEY"`

	MountPoints                 []string `json:"MOUNT_POINTS"`
	ArchiveDrive                string   `json:"ARCHIVE_DRIVE"`
	TVArchiveFolders            []string `json:"TV_ARCHIVE_FOLDERS"`
	MovieArchiveFolders         []string `json:"MOVIE_ARCHIVE_FOLDERS"`
	StreamingProviders          []string `json:"STREAMING_PROVIDERS"`
	AvailableStreamingProviders []string `json:"AVAILABLE_STREAMING_PROVIDERS"`
	DataUpdateInterval          string   `json:"DATA_UPDATE_INTERVAL"`
}

// Preferred returns the user's preferred streaming provider list, falling
// back to the environment-sourced allow-list.
func (s Settings) Preferred() []string {
	if len(s.PreferredStreamingServices) > 0 {
		return s.PreferredStreamingServices
	}
	return s.StreamingProviders
}

// ArchiveFoldersFor returns the archive destination allow-list for a media type.
func (s Settings) ArchiveFoldersFor(t models.MediaType) []string {
	if t == models.MediaTypeTV {
		return s.TVArchiveFolders
	}
	return s.MovieArchiveFolders
}

// Defaults returns the hardcoded base settings.
func Defaults() Settings {
	return Settings{
		AutoDeleteAfterDays:         30,
		ArchiveAfterMonths:          6,
		KeepFreeSpace:               500,
		EnableAutoActions:           false,
		CheckStreamingAvailability:  true,
		PreferredStreamingServices:  []string{},
		ArchiveMappings:             []ArchiveMapping{},
		MountPoints:                 []string{},
		TVArchiveFolders:            []string{},
		MovieArchiveFolders:         []string{},
		StreamingProviders:          []string{},
		AvailableStreamingProviders: []string{},
	}
}

// overlay is the persisted user-settings file. Scalar fields are pointers so
// an absent key never clobbers a lower layer while an explicit false does
// override it; strings and lists count as absent when empty.
type overlay struct {
	AutoDeleteAfterDays        *int             `json:"autoDeleteAfterDays"`
	ArchiveAfterMonths         *int             `json:"archiveAfterMonths"`
	KeepFreeSpace              *int             `json:"keepFreeSpace"`
	EnableAutoActions          *bool            `json:"enableAutoActions"`
	CheckStreamingAvailability *bool            `json:"checkStreamingAvailability"`
	PreferredStreamingServices []string         `json:"preferredStreamingServices"`
	ArchiveMappings            []ArchiveMapping `json:"archiveMappings"`

	PlexURL      string `json:"PLEX_URL"`
	PlexToken    string `json:"PLEX_TOKEN"`
	SonarrURL    string `json:"SONARR_URL"`
	SonarrAPIKey string `json:"SONARR_API_KEY"`
	RadarrURL    string `json:"RADARR_URL"`
	RadarrAPIKey string `json:"RADARR_API_KEY"`
	TMDBAPIKey   string `json:"TMDB_API_KEY"`

	MountPoints                 []string `json:"MOUNT_POINTS"`
	ArchiveDrive                string   `json:"ARCHIVE_DRIVE"`
	TVArchiveFolders            []string `json:"TV_ARCHIVE_FOLDERS"`
	MovieArchiveFolders         []string `json:"MOVIE_ARCHIVE_FOLDERS"`
	StreamingProviders          []string `json:"STREAMING_PROVIDERS"`
	AvailableStreamingProviders []string `json:"AVAILABLE_STREAMING_PROVIDERS"`
	DataUpdateInterval          string   `json:"DATA_UPDATE_INTERVAL"`
}

// Resolver merges hardcoded defaults, environment-derived values, and the
// persisted user-settings file, lowest to highest precedence.
type Resolver struct {
	path   string
	cfg    *config.Config
	logger *logrus.Logger
}

// NewResolver creates a settings resolver backed by the configured settings file.
func NewResolver(cfg *config.Config, logger *logrus.Logger) *Resolver {
	return &Resolver{
		path:   cfg.SettingsFile,
		cfg:    cfg,
		logger: logger,
	}
}

// Load resolves settings from all three layers. A missing or malformed
// settings file falls back to env/defaults; on first run the merged result is
// written out once so the file exists for the UI to edit.
func (r *Resolver) Load() Settings {
	merged := applyEnv(Defaults(), r.cfg)

	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		r.logger.WithField("path", r.path).Info("Settings file not found, bootstrapping from merged config")
		if saveErr := r.Save(merged); saveErr != nil {
			r.logger.WithError(saveErr).Warn("Failed to bootstrap settings file")
		}
		return merged
	}
	if err != nil {
		r.logger.WithError(err).Warn("Failed to read settings file, using env/default values")
		return merged
	}

	var user overlay
	if err := json.Unmarshal(data, &user); err != nil {
		r.logger.WithError(err).Warn("Settings file is malformed, using env/default values")
		return merged
	}

	return applyOverlay(merged, user)
}

// Save persists the full settings object verbatim. The write goes through a
// temp file and rename so concurrent readers never observe a partial file.
func (r *Resolver) Save(s Settings) error {
	data, err := json.MarshalIndent(s, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("failed to replace settings file: %w", err)
	}

	r.logger.WithField("path", r.path).Info("Settings saved")
	return nil
}

// applyEnv layers non-empty environment values over the defaults.
func applyEnv(s Settings, cfg *config.Config) Settings {
	setString(&s.PlexURL, cfg.PlexURL)
	setString(&s.PlexToken, cfg.PlexToken)
	setString(&s.SonarrURL, cfg.SonarrURL)
	setString(&s.SonarrAPIKey, cfg.SonarrAPIKey)
	setString(&s.RadarrURL, cfg.RadarrURL)
	setString(&s.RadarrAPIKey, cfg.RadarrAPIKey)
	setString(&s.TMDBAPIKey, cfg.TMDBAPIKey)
	setString(&s.ArchiveDrive, cfg.ArchiveDrive)

	setList(&s.MountPoints, cfg.MountPoints)
	setList(&s.TVArchiveFolders, cfg.TVArchiveFolders)
	setList(&s.MovieArchiveFolders, cfg.MovieArchiveFolders)
	setList(&s.StreamingProviders, cfg.StreamingProviders)
	setList(&s.AvailableStreamingProviders, cfg.AvailableStreamingProviders)

	if cfg.DataUpdateInterval > 0 {
		s.DataUpdateInterval = strconv.Itoa(cfg.DataUpdateInterval)
	}
	return s
}

// applyOverlay layers non-empty user-file values over the env/default merge.
func applyOverlay(s Settings, o overlay) Settings {
	setInt(&s.AutoDeleteAfterDays, o.AutoDeleteAfterDays)
	setInt(&s.ArchiveAfterMonths, o.ArchiveAfterMonths)
	setInt(&s.KeepFreeSpace, o.KeepFreeSpace)
	setBool(&s.EnableAutoActions, o.EnableAutoActions)
	setBool(&s.CheckStreamingAvailability, o.CheckStreamingAvailability)

	setList(&s.PreferredStreamingServices, o.PreferredStreamingServices)
	if len(o.ArchiveMappings) > 0 {
		s.ArchiveMappings = o.ArchiveMappings
	}

	setString(&s.PlexURL, o.PlexURL)
	setString(&s.PlexToken, o.PlexToken)
	setString(&s.SonarrURL, o.SonarrURL)
	setString(&s.SonarrAPIKey, o.SonarrAPIKey)
	setString(&s.RadarrURL, o.RadarrURL)
	setString(&s.RadarrAPIKey, o.RadarrAPIKey)
	setString(&s.TMDBAPIKey, o.TMDBAPIKey)
	setString(&s.ArchiveDrive, o.ArchiveDrive)
	setString(&s.DataUpdateInterval, o.DataUpdateInterval)

	setList(&s.MountPoints, o.MountPoints)
	setList(&s.TVArchiveFolders, o.TVArchiveFolders)
	setList(&s.MovieArchiveFolders, o.MovieArchiveFolders)
	setList(&s.StreamingProviders, o.StreamingProviders)
	setList(&s.AvailableStreamingProviders, o.AvailableStreamingProviders)
	return s
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setList(dst *[]string, v []string) {
	if len(v) > 0 {
		*dst = v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
