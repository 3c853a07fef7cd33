package api

import (
	"net/http"
	"time"

	"github.com/momo-assistant/backend/internal/inbox"
	"github.com/momo-assistant/backend/internal/models"
)

// StatusHandler reports the Gmail connection state and inbox counts.
type StatusHandler struct {
	inbox *inbox.Service
}

// NewStatusHandler creates a new StatusHandler instance.
func NewStatusHandler(inboxService *inbox.Service) *StatusHandler {
	return &StatusHandler{inbox: inboxService}
}

// GetStatus returns the connection state and the size of the current
// classified snapshot.
func (h *StatusHandler) GetStatus(w http.ResponseWriter, _ *http.Request) {
	messages, _ := h.inbox.Snapshot()

	response := models.StatusResponse{
		Connected:  h.inbox.Connected(),
		EmailCount: len(messages),
	}
	if last := h.inbox.LastFetch(); !last.IsZero() {
		response.LastFetch = last.Format(time.RFC3339)
	}

	writeJSON(w, http.StatusOK, response)
}

// GetHealth is a liveness probe.
func (h *StatusHandler) GetHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
