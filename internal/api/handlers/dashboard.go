package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/sweeparr/sweeparr/internal/cache"
)

// DashboardHandler serves the pre-computed dashboard aggregate. It only reads
// from the cache so a dashboard request never blocks on upstream calls.
type DashboardHandler struct {
	store  *cache.Store
	logger *logrus.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(store *cache.Store, logger *logrus.Logger) *DashboardHandler {
	return &DashboardHandler{
		store:  store,
		logger: logger,
	}
}

// ServeHTTP handles the dashboard endpoint
func (h *DashboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if data, ok := h.store.Get(cache.KeyDashboard); ok {
		h.logger.Debug("Returning pre-computed dashboard data from cache")
		json.NewEncoder(w).Encode(data)
		return
	}

	h.logger.Warn("Dashboard data not yet available in cache, the initial sync might be running")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Data is being gathered in the background. Please try again in a moment.",
	})
}
