package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/sweeparr/sweeparr/internal/controllers"
)

// StatusHandler reports upstream connection status for the settings page.
type StatusHandler struct {
	plex     controllers.MediaServer
	settings controllers.SettingsSource
	logger   *logrus.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(plex controllers.MediaServer, settings controllers.SettingsSource, logger *logrus.Logger) *StatusHandler {
	return &StatusHandler{
		plex:     plex,
		settings: settings,
		logger:   logger,
	}
}

// ServeHTTP handles the status endpoint
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.logger.Debug("Connection status requested")
	s := h.settings.Load()

	plexStatus := "Connected"
	if err := h.plex.Ping(r.Context()); err != nil {
		h.logger.WithError(err).Warn("Plex connection check failed")
		plexStatus = "Error"
	}

	response := map[string]string{
		"plex":   plexStatus,
		"sonarr": configuredStatus(s.SonarrAPIKey),
		"radarr": configuredStatus(s.RadarrAPIKey),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func configuredStatus(apiKey string) string {
	if apiKey != "" {
		return "Connected"
	}
	return "Not Configured"
}
