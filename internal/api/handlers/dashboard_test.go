package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sweeparr/sweeparr/internal/cache"
	"github.com/sweeparr/sweeparr/internal/models"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestDashboardServedFromCache(t *testing.T) {
	store := cache.NewStore()
	store.Set(cache.KeyDashboard, models.Dashboard{PotentialSavings: 42.5}, cache.DashboardTTL)

	handler := NewDashboardHandler(store, newTestLogger())
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var dashboard models.Dashboard
	if err := json.NewDecoder(rec.Body).Decode(&dashboard); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if dashboard.PotentialSavings != 42.5 {
		t.Errorf("Expected savings 42.5, got %f", dashboard.PotentialSavings)
	}
}

func TestDashboardColdCacheReturnsAccepted(t *testing.T) {
	handler := NewDashboardHandler(cache.NewStore(), newTestLogger())
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("Expected 202, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if body["message"] == "" {
		t.Error("Expected a gathering message")
	}
}

func TestDashboardRejectsPost(t *testing.T) {
	handler := NewDashboardHandler(cache.NewStore(), newTestLogger())
	req := httptest.NewRequest(http.MethodPost, "/api/dashboard", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", rec.Code)
	}
}
