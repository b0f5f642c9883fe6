package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// logTailLines caps how much of the log file the UI receives.
const logTailLines = 200

// LogsHandler serves the tail of the application log file for the UI's log
// viewer.
type LogsHandler struct {
	logFile string
	logger  *logrus.Logger
}

// NewLogsHandler creates a new logs handler
func NewLogsHandler(logFile string, logger *logrus.Logger) *LogsHandler {
	return &LogsHandler{
		logFile: logFile,
		logger:  logger,
	}
}

// ServeHTTP handles the log viewer endpoint
func (h *LogsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.logger.Debug("Log data requested from UI")
	w.Header().Set("Content-Type", "application/json")

	data, err := os.ReadFile(h.logFile)
	if os.IsNotExist(err) {
		h.logger.WithField("path", h.logFile).Warn("Log file not found")
		json.NewEncoder(w).Encode("Log file not found.")
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Error reading log file")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode("An error occurred while reading logs: " + err.Error())
		return
	}

	json.NewEncoder(w).Encode(tail(string(data), logTailLines))
}

// tail returns the last n lines of text, preserving trailing newlines the way
// the log file carries them.
func tail(text string, n int) string {
	lines := strings.SplitAfter(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "")
}
