package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/sweeparr/sweeparr/internal/controllers"
)

// CleanupHandler triggers a manual cleanup pass. Dry runs execute inline and
// return their findings; live runs go to a background goroutine.
type CleanupHandler struct {
	cleanup *controllers.CleanupController
	logger  *logrus.Logger
}

// NewCleanupHandler creates a new cleanup handler
func NewCleanupHandler(cleanup *controllers.CleanupController, logger *logrus.Logger) *CleanupHandler {
	return &CleanupHandler{
		cleanup: cleanup,
		logger:  logger,
	}
}

type cleanupRequest struct {
	DryRun bool `json:"dryRun"`
}

// ServeHTTP handles the manual cleanup trigger endpoint
func (h *CleanupHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req cleanupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body. Expected JSON.", http.StatusBadRequest)
		return
	}

	mode := "live"
	if req.DryRun {
		mode = "dry-run"
	}
	h.logger.WithField("mode", mode).Info("Manual cleanup triggered by user")

	w.Header().Set("Content-Type", "application/json")

	if req.DryRun {
		results := h.cleanup.Run(r.Context(), true)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message": "Dry run complete. See results below.",
			"results": results,
		})
		return
	}

	go h.cleanup.Run(context.Background(), false)

	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Cleanup task started in the background. Check logs for progress.",
	})
}
