package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// splitList parses a comma-separated environment value into trimmed entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Config holds all process-environment configuration
type Config struct {
	// Plex media server
	PlexURL   string
	PlexToken string

	// Library managers
	SonarrURL    string
	SonarrAPIKey string
	RadarrURL    string
	RadarrAPIKey string

	// Streaming availability lookups
	TMDBAPIKey string

	// Storage
	MountPoints  []string
	ArchiveDrive string

	// Archive destination allow-lists
	TVArchiveFolders    []string
	MovieArchiveFolders []string

	// Streaming providers
	StreamingProviders          []string
	AvailableStreamingProviders []string

	// DataUpdateInterval is the background sync cadence in minutes (default: 30)
	DataUpdateInterval int

	// Server
	ServerPort string

	// Paths
	DataDir      string
	SettingsFile string // $DATA_DIR/settings.json
	LogFile      string // $DATA_DIR/sweeparr.log

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Setup viper FIRST to load .env file
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Load .env file if it exists (ignore if not found)
	_ = viper.ReadInConfig()

	// Set defaults
	viper.SetDefault("DATA_UPDATE_INTERVAL", 30)
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")

	// NOW read DATA_DIR from viper (which has loaded the .env file)
	dataDir := viper.GetString("DATA_DIR")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dataDir = filepath.Join(homeDir, ".config", "sweeparr")
	} else {
		// Convert relative path to absolute path
		absPath, err := filepath.Abs(dataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for DATA_DIR: %w", err)
		}
		dataDir = absPath
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	config := &Config{
		// Plex
		PlexURL:   viper.GetString("PLEX_URL"),
		PlexToken: viper.GetString("PLEX_TOKEN"),

		// Library managers
		SonarrURL:    viper.GetString("SONARR_URL"),
		SonarrAPIKey: viper.GetString("SONARR_API_KEY"),
		RadarrURL:    viper.GetString("RADARR_URL"),
		RadarrAPIKey: viper.GetString("RADARR_API_KEY"),

		// TMDB
		TMDBAPIKey: viper.GetString("TMDB_API_KEY"),

		// Storage
		MountPoints:  splitList(viper.GetString("MOUNT_POINTS")),
		ArchiveDrive: viper.GetString("ARCHIVE_DRIVE"),

		// Archive folders
		TVArchiveFolders:    splitList(viper.GetString("TV_ARCHIVE_FOLDERS")),
		MovieArchiveFolders: splitList(viper.GetString("MOVIE_ARCHIVE_FOLDERS")),

		// Streaming providers
		StreamingProviders:          splitList(viper.GetString("STREAMING_PROVIDERS")),
		AvailableStreamingProviders: splitList(viper.GetString("AVAILABLE_STREAMING_PROVIDERS")),

		// Sync
		DataUpdateInterval: viper.GetInt("DATA_UPDATE_INTERVAL"),

		// Server
		ServerPort: viper.GetString("SERVER_PORT"),

		// Paths
		DataDir:      dataDir,
		SettingsFile: filepath.Join(dataDir, "settings.json"),
		LogFile:      filepath.Join(dataDir, "sweeparr.log"),

		// Logging
		LogLevel: viper.GetString("LOG_LEVEL"),
	}

	// Upstream systems are optional: an unconfigured system degrades to empty
	// results rather than refusing to start.
	return config, nil
}
