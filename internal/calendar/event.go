package calendar

import (
	"context"
	"fmt"
	"net/http"
	"time"

	calendarapi "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/momo-assistant/backend/internal/models"
)

const (
	primaryCalendar    = "primary"
	descriptionExcerpt = 500
)

// EventInserter is the calendar-write collaborator.
type EventInserter interface {
	InsertEvent(ctx context.Context, event *calendarapi.Event) error
}

// Writer is the Google Calendar implementation of EventInserter.
type Writer struct {
	srv *calendarapi.Service
}

// NewWriter builds a calendar writer from an authenticated HTTP client.
func NewWriter(ctx context.Context, httpClient *http.Client) (*Writer, error) {
	srv, err := calendarapi.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create Calendar service: %w", err)
	}
	return &Writer{srv: srv}, nil
}

// InsertEvent creates the event on the primary calendar.
func (w *Writer) InsertEvent(ctx context.Context, event *calendarapi.Event) error {
	if _, err := w.srv.Events.Insert(primaryCalendar, event).Context(ctx).Do(); err != nil {
		return fmt.Errorf("inserting calendar event: %w", err)
	}
	return nil
}

// BuildEvent derives a well-formed calendar event from a classified message:
// the subject becomes the title, the sender plus a body excerpt the
// description, and the slot is a fixed one-hour block this time tomorrow.
func BuildEvent(msg models.ClassifiedMessage, timezone string, now time.Time) *calendarapi.Event {
	start := now.Add(24 * time.Hour)
	end := start.Add(time.Hour)

	return &calendarapi.Event{
		Summary:     "Task: " + msg.Subject,
		Description: fmt.Sprintf("From: %s\n\n%s", msg.Sender, excerpt(msg.Body, descriptionExcerpt)),
		Start: &calendarapi.EventDateTime{
			DateTime: start.Format(time.RFC3339),
			TimeZone: timezone,
		},
		End: &calendarapi.EventDateTime{
			DateTime: end.Format(time.RFC3339),
			TimeZone: timezone,
		},
	}
}

// excerpt caps s at n characters without splitting a rune.
func excerpt(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
