package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/momo-assistant/backend/internal/inbox"
	"github.com/momo-assistant/backend/internal/models"
	"github.com/momo-assistant/backend/internal/store"
)

const importantEmailsLimit = 20

// EmailsHandler serves the classified snapshot and the history store.
type EmailsHandler struct {
	inbox   *inbox.Service
	history *store.Store
}

// NewEmailsHandler creates a new EmailsHandler instance. history may be nil.
func NewEmailsHandler(inboxService *inbox.Service, history *store.Store) *EmailsHandler {
	return &EmailsHandler{inbox: inboxService, history: history}
}

// GetEmails returns the current classified snapshot.
func (h *EmailsHandler) GetEmails(w http.ResponseWriter, _ *http.Request) {
	messages, errCount := h.inbox.Snapshot()
	writeJSON(w, http.StatusOK, models.EmailsResponse{
		Emails:     messages,
		Total:      len(messages),
		ErrorCount: errCount,
	})
}

// RefreshEmails runs a fetch cycle and returns the new snapshot.
func (h *EmailsHandler) RefreshEmails(w http.ResponseWriter, r *http.Request) {
	if err := h.inbox.Refresh(r.Context()); err != nil {
		if errors.Is(err, inbox.ErrNotConnected) {
			http.Error(w, "Gmail is not connected", http.StatusConflict)
			return
		}
		log.Printf("EmailsHandler: refresh failed: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.GetEmails(w, r)
}

// GetImportantEmails returns recorded important emails from the history
// store, highest priority first.
func (h *EmailsHandler) GetImportantEmails(w http.ResponseWriter, _ *http.Request) {
	if h.history == nil {
		http.Error(w, "History store is not configured", http.StatusServiceUnavailable)
		return
	}

	records, err := h.history.ImportantEmails(importantEmailsLimit)
	if err != nil {
		log.Printf("EmailsHandler: failed to query important emails: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"important_emails": records})
}
