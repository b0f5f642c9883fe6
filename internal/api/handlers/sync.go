package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/sweeparr/sweeparr/internal/controllers"
)

// SyncHandler triggers a manual background sync.
type SyncHandler struct {
	sync   *controllers.SyncController
	logger *logrus.Logger
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(sync *controllers.SyncController, logger *logrus.Logger) *SyncHandler {
	return &SyncHandler{
		sync:   sync,
		logger: logger,
	}
}

// ServeHTTP handles the manual sync trigger endpoint
func (h *SyncHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.logger.Info("Manual sync triggered by user")
	w.Header().Set("Content-Type", "application/json")

	if !h.sync.TriggerAsync() {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]string{
			"message": "A sync is already in progress. Please wait.",
		})
		return
	}

	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Sync started in the background. Dashboard will update shortly.",
	})
}
