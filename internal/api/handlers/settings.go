package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/sweeparr/sweeparr/internal/config"
	"github.com/sweeparr/sweeparr/internal/controllers"
	"github.com/sweeparr/sweeparr/internal/settings"
)

// SettingsHandler reads and writes the persisted user settings.
type SettingsHandler struct {
	resolver controllers.SettingsSource
	cfg      *config.Config
	logger   *logrus.Logger
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(resolver controllers.SettingsSource, cfg *config.Config, logger *logrus.Logger) *SettingsHandler {
	return &SettingsHandler{
		resolver: resolver,
		cfg:      cfg,
		logger:   logger,
	}
}

// ServeHTTP handles GET and POST for the settings endpoint
func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w)
	case http.MethodPost:
		h.post(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *SettingsHandler) get(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.resolver.Load())
}

func (h *SettingsHandler) post(w http.ResponseWriter, r *http.Request) {
	var incoming settings.Settings
	if err := json.NewDecoder(r.Body).Decode(&incoming); err != nil {
		http.Error(w, "Invalid request body. Expected JSON.", http.StatusBadRequest)
		return
	}

	h.logger.Info("Saving settings")

	// The provider allow-list is environment owned, not user editable.
	incoming.AvailableStreamingProviders = h.cfg.AvailableStreamingProviders

	if err := h.resolver.Save(incoming); err != nil {
		h.logger.WithError(err).Error("Failed to save settings")
		http.Error(w, "Failed to save settings", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(incoming)
}
