package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/sweeparr/sweeparr/internal/controllers"
)

// ActionHandler handles archive and delete requests for a single media item.
type ActionHandler struct {
	actions *controllers.ActionController
	logger  *logrus.Logger
}

// NewActionHandler creates a new action handler
func NewActionHandler(actions *controllers.ActionController, logger *logrus.Logger) *ActionHandler {
	return &ActionHandler{
		actions: actions,
		logger:  logger,
	}
}

// ServeHTTP handles the content action endpoint
func (h *ActionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "A media ID is required.", http.StatusBadRequest)
		return
	}

	var req controllers.ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body. Expected JSON.", http.StatusBadRequest)
		return
	}

	result := h.actions.Execute(r.Context(), id, req)

	status := "error"
	if result.OK {
		status = "success"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(result.Code)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  status,
		"message": result.Message,
	})
}
