package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/sweeparr/sweeparr/internal/cache"
	"github.com/sweeparr/sweeparr/internal/controllers"
)

// RootFoldersHandler serves the Sonarr and Radarr root-folder lists used by
// the archive dialog and the settings page. Lists cached by the sync pass are
// served directly; a cache miss falls through to a live fetch.
type RootFoldersHandler struct {
	store  *cache.Store
	sonarr controllers.SeriesManager
	radarr controllers.MovieManager
	logger *logrus.Logger
}

// NewRootFoldersHandler creates a new root-folders handler
func NewRootFoldersHandler(store *cache.Store, sonarr controllers.SeriesManager, radarr controllers.MovieManager, logger *logrus.Logger) *RootFoldersHandler {
	return &RootFoldersHandler{
		store:  store,
		sonarr: sonarr,
		radarr: radarr,
		logger: logger,
	}
}

// ServeHTTP handles the per-type root folder endpoint
func (h *RootFoldersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	folderType := r.URL.Query().Get("type")
	if folderType != "sonarr" && folderType != "radarr" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"message": "A 'type' query parameter of 'sonarr' or 'radarr' is required.",
		})
		return
	}

	folders, err := h.foldersFor(r, folderType)
	if err != nil {
		h.logger.WithError(err).WithField("type", folderType).Error("Failed to fetch root folders")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{
			"message": "Failed to retrieve " + folderType + " root folders.",
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"folders": folders})
}

// ServeAll handles the combined root folder endpoint used by the settings
// page's initial load. Fetch errors degrade to empty lists.
func (h *RootFoldersHandler) ServeAll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sonarrFolders, err := h.foldersFor(r, "sonarr")
	if err != nil {
		h.logger.WithError(err).Warn("Failed to fetch Sonarr root folders")
	}
	radarrFolders, err := h.foldersFor(r, "radarr")
	if err != nil {
		h.logger.WithError(err).Warn("Failed to fetch Radarr root folders")
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"sonarr": sonarrFolders,
		"radarr": radarrFolders,
	})
}

func (h *RootFoldersHandler) foldersFor(r *http.Request, folderType string) (interface{}, error) {
	cacheKey := cache.KeySonarrRootFolders
	if folderType == "radarr" {
		cacheKey = cache.KeyRadarrRootFolders
	}
	if cached, ok := h.store.Get(cacheKey); ok {
		return cached, nil
	}

	if folderType == "sonarr" {
		folders, err := h.sonarr.RootFolders(r.Context())
		if err != nil {
			return nil, err
		}
		h.store.Set(cacheKey, folders, cache.RawTTL)
		return folders, nil
	}

	folders, err := h.radarr.RootFolders(r.Context())
	if err != nil {
		return nil, err
	}
	h.store.Set(cacheKey, folders, cache.RawTTL)
	return folders, nil
}
