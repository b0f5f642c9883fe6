package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sweeparr/sweeparr/internal/controllers"
)

// ContentHandler serves the full classified content list. Unlike the
// dashboard it builds a fresh snapshot per request so the detail view always
// reflects current upstream state.
type ContentHandler struct {
	builder  *controllers.SnapshotBuilder
	settings controllers.SettingsSource
	logger   *logrus.Logger
}

// NewContentHandler creates a new content handler
func NewContentHandler(builder *controllers.SnapshotBuilder, settings controllers.SettingsSource, logger *logrus.Logger) *ContentHandler {
	return &ContentHandler{
		builder:  builder,
		settings: settings,
		logger:   logger,
	}
}

// ServeHTTP handles the content list endpoint
func (h *ContentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.logger.Info("Full content list requested")

	items, _ := h.builder.Build(r.Context())
	classified := controllers.Classify(items, h.settings.Load(), time.Now())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(classified)
}
