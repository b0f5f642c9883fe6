package controllers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/sweeparr/sweeparr/internal/cache"
	"github.com/sweeparr/sweeparr/internal/models"
)

// ActionRequest is the payload for a content action. Item carries the caller's
// view of the media record, including the manager IDs and file path the
// executor validates against.
type ActionRequest struct {
	Action      string           `json:"action"`
	ArchivePath string           `json:"archivePath"`
	Item        models.MediaItem `json:"item"`
}

// ActionResult reports the outcome of an action with the HTTP status the
// handler should relay.
type ActionResult struct {
	OK      bool
	Code    int
	Message string
}

// ActionController executes archive and delete actions against the upstream
// managers and invalidates the derived caches on success.
type ActionController struct {
	store    *cache.Store
	plex     MediaServer
	sonarr   SeriesManager
	radarr   MovieManager
	settings SettingsSource
	logger   *logrus.Logger
}

// NewActionController creates a new action controller
func NewActionController(
	store *cache.Store,
	plex MediaServer,
	seriesManager SeriesManager,
	movieManager MovieManager,
	settingsSource SettingsSource,
	logger *logrus.Logger,
) *ActionController {
	return &ActionController{
		store:    store,
		plex:     plex,
		sonarr:   seriesManager,
		radarr:   movieManager,
		settings: settingsSource,
		logger:   logger,
	}
}

// Execute runs the requested action for the given media ID. Validation is
// fail-closed: every precondition is checked before any upstream mutation, so
// a rejected request leaves the library and the cache untouched.
func (c *ActionController) Execute(ctx context.Context, id string, req ActionRequest) ActionResult {
	log := c.logger.WithFields(logrus.Fields{
		"id":     id,
		"title":  req.Item.Title,
		"action": req.Action,
	})

	switch req.Action {
	case "delete":
		return c.executeDelete(ctx, id, log)
	case "archive":
		return c.executeArchive(ctx, req, log)
	default:
		return ActionResult{Code: http.StatusBadRequest, Message: fmt.Sprintf("Unknown action: %s", req.Action)}
	}
}

func (c *ActionController) executeDelete(ctx context.Context, id string, log *logrus.Entry) ActionResult {
	if err := c.plex.DeleteItem(ctx, id); err != nil {
		log.WithError(err).Error("Delete action failed")
		return ActionResult{Code: http.StatusInternalServerError, Message: fmt.Sprintf("Failed to delete item: %v", err)}
	}

	c.invalidateDerived()
	log.Info("Item deleted from library")
	return ActionResult{OK: true, Code: http.StatusOK, Message: "Item deleted successfully."}
}

func (c *ActionController) executeArchive(ctx context.Context, req ActionRequest, log *logrus.Entry) ActionResult {
	item := req.Item

	if req.ArchivePath == "" {
		return ActionResult{Code: http.StatusBadRequest, Message: "No archive folder was selected in the request."}
	}

	allowed := c.settings.Load().ArchiveFoldersFor(item.Type)
	if len(allowed) == 0 {
		return ActionResult{Code: http.StatusBadRequest, Message: fmt.Sprintf("No archive folders are configured for type %s.", item.Type)}
	}
	if !containsString(allowed, req.ArchivePath) {
		log.WithField("archivePath", req.ArchivePath).Warn("Archive destination not in the configured allow-list")
		return ActionResult{Code: http.StatusBadRequest, Message: "The selected archive folder is not an allowed destination."}
	}
	if item.FilePath == "" {
		return ActionResult{Code: http.StatusNotFound, Message: "The item has no file on disk to archive."}
	}

	var err error
	switch item.Type {
	case models.MediaTypeTV:
		if item.SonarrID == 0 {
			return ActionResult{Code: http.StatusNotFound, Message: "The item is not tracked by Sonarr."}
		}
		err = c.sonarr.MoveSeries(ctx, item.SonarrID, req.ArchivePath)
	case models.MediaTypeMovie:
		if item.RadarrID == 0 {
			return ActionResult{Code: http.StatusNotFound, Message: "The item is not tracked by Radarr."}
		}
		err = c.radarr.MoveMovie(ctx, item.RadarrID, req.ArchivePath)
	default:
		return ActionResult{Code: http.StatusBadRequest, Message: fmt.Sprintf("Unknown media type: %s", item.Type)}
	}

	if err != nil {
		log.WithError(err).Error("Archive action failed")
		return ActionResult{Code: http.StatusInternalServerError, Message: fmt.Sprintf("Failed to archive item: %v", err)}
	}

	c.invalidateDerived()
	log.WithField("destination", req.ArchivePath).Info("Item archive started")
	return ActionResult{OK: true, Code: http.StatusOK, Message: "Archive move started successfully."}
}

// invalidateDerived drops every cached view derived from the library snapshot
// so the next sync or read rebuilds from fresh upstream state.
func (c *ActionController) invalidateDerived() {
	c.store.Delete(cache.KeyDashboard)
	c.store.Delete(cache.KeySnapshot)
	c.store.Delete(cache.KeyClassified)
	c.store.Delete(cache.KeyStreamingCards)
}
