package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/momo-assistant/backend/internal/calendar"
	"github.com/momo-assistant/backend/internal/inbox"
	"github.com/momo-assistant/backend/internal/models"
	"github.com/momo-assistant/backend/internal/store"
)

// CalendarHandler creates calendar events from classified messages and
// suggests meeting slots.
type CalendarHandler struct {
	inbox    *inbox.Service
	history  *store.Store
	timezone string

	mu       sync.RWMutex
	inserter calendar.EventInserter
}

// NewCalendarHandler creates a new CalendarHandler instance. history may be
// nil; the inserter is attached after OAuth completes.
func NewCalendarHandler(inboxService *inbox.Service, history *store.Store, timezone string) *CalendarHandler {
	return &CalendarHandler{inbox: inboxService, history: history, timezone: timezone}
}

// SetInserter attaches the calendar-write collaborator.
func (h *CalendarHandler) SetInserter(inserter calendar.EventInserter) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.inserter = inserter
}

// AddToCalendar creates a next-day one-hour event from the message and
// records it. Calendar-write failures are surfaced to the caller.
func (h *CalendarHandler) AddToCalendar(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "/calendar/add/")
	if id == "" {
		http.Error(w, "message id is required", http.StatusBadRequest)
		return
	}

	msg, ok := h.inbox.Message(id)
	if !ok {
		http.Error(w, "Email not found", http.StatusNotFound)
		return
	}

	h.mu.RLock()
	inserter := h.inserter
	h.mu.RUnlock()
	if inserter == nil {
		http.Error(w, "Calendar is not connected", http.StatusServiceUnavailable)
		return
	}

	now := time.Now()
	event := calendar.BuildEvent(msg, h.timezone, now)
	if err := inserter.InsertEvent(r.Context(), event); err != nil {
		log.Printf("CalendarHandler: failed to insert event: %v", err)
		http.Error(w, "Failed to create calendar event", http.StatusBadGateway)
		return
	}

	if h.history != nil {
		start := now.Add(24 * time.Hour)
		if _, err := h.history.RecordMeeting(event.Summary, start, start.Add(time.Hour), h.timezone, msg.Sender); err != nil {
			log.Printf("CalendarHandler: failed to record meeting: %v", err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "added",
		"title":  event.Summary,
	})
}

// SuggestMeetings proposes meeting start times for the requested meeting.
func (h *CalendarHandler) SuggestMeetings(w http.ResponseWriter, r *http.Request) {
	var req models.MeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	suggestions := calendar.SuggestMeetingTimes(time.Now())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"meeting_title":    req.Title,
		"duration_minutes": req.DurationMinutes,
		"suggested_times":  suggestions,
		"message":          fmt.Sprintf("Here are %d available time slots for your %d-minute meeting", len(suggestions), req.DurationMinutes),
	})
}
