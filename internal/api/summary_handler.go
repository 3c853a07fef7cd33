package api

import (
	"net/http"

	"github.com/momo-assistant/backend/internal/inbox"
	"github.com/momo-assistant/backend/internal/models"
	"github.com/momo-assistant/backend/internal/summary"
)

// SummaryHandler serves per-message and inbox-wide summaries.
type SummaryHandler struct {
	inbox      *inbox.Service
	summarizer *summary.Summarizer
}

// NewSummaryHandler creates a new SummaryHandler instance.
func NewSummaryHandler(inboxService *inbox.Service, summarizer *summary.Summarizer) *SummaryHandler {
	return &SummaryHandler{inbox: inboxService, summarizer: summarizer}
}

// GetEmailSummary returns the summary for one message. Summarize never
// fails; a collaborator problem silently selects the fallback.
func (h *SummaryHandler) GetEmailSummary(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "/email/summary/")
	if id == "" {
		http.Error(w, "message id is required", http.StatusBadRequest)
		return
	}

	msg, ok := h.inbox.Message(id)
	if !ok {
		http.Error(w, "Email not found", http.StatusNotFound)
		return
	}

	text := h.summarizer.Summarize(r.Context(), msg)
	writeJSON(w, http.StatusOK, models.SummaryResponse{ID: id, Summary: text})
}

// GetOverallSummary returns the executive brief over the classified list.
func (h *SummaryHandler) GetOverallSummary(w http.ResponseWriter, r *http.Request) {
	messages, _ := h.inbox.Snapshot()
	text := h.summarizer.Digest(r.Context(), messages)
	writeJSON(w, http.StatusOK, models.SummaryResponse{Summary: text})
}

// ClearCache empties the summary cache.
func (h *SummaryHandler) ClearCache(w http.ResponseWriter, _ *http.Request) {
	h.summarizer.Clear()
	writeJSON(w, http.StatusOK, map[string]string{"status": "cache cleared"})
}
