package models

import (
	"time"

	gmailapi "google.golang.org/api/gmail/v1"
)

// RawMessage is a single Gmail message as assembled by the fetcher.
// It is discarded once it has been decoded into a ClassifiedMessage;
// only the provider-assigned ID survives across fetch cycles.
type RawMessage struct {
	ID      string
	Sender  string
	Subject string
	Date    string
	Payload *gmailapi.MessagePart
}

// ClassifiedMessage is a RawMessage augmented with the decoded body and the
// classification results. The full set is replaced wholesale on every fetch.
type ClassifiedMessage struct {
	ID            string   `json:"id"`
	Sender        string   `json:"sender"`
	Subject       string   `json:"subject"`
	Date          string   `json:"date"`
	Body          string   `json:"body"`
	PriorityScore float64  `json:"priority_score"`
	Labels        []string `json:"labels"`
	IsImportant   bool     `json:"is_important"`
	HasTasks      bool     `json:"has_tasks"`
}

// Classification is the result of scoring a single message.
type Classification struct {
	PriorityScore float64
	Labels        []string
	IsImportant   bool
}

// EmailRecord is a classified message as persisted in the history store.
type EmailRecord struct {
	ID            int64     `db:"id" json:"id"`
	Sender        string    `db:"sender" json:"sender"`
	Subject       string    `db:"subject" json:"subject"`
	Content       string    `db:"content" json:"content"`
	PriorityScore float64   `db:"priority_score" json:"priority_score"`
	Labels        string    `db:"labels" json:"labels"`
	IsImportant   bool      `db:"is_important" json:"is_important"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// Meeting is a calendar event recorded by the scheduling surface.
type Meeting struct {
	ID        string    `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	StartTime time.Time `db:"start_time" json:"start_time"`
	EndTime   time.Time `db:"end_time" json:"end_time"`
	Timezone  string    `db:"timezone" json:"timezone"`
	Attendees string    `db:"attendees" json:"attendees"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// MeetingRequest is the request payload for meeting time suggestions.
type MeetingRequest struct {
	Title           string   `json:"title"`
	DurationMinutes int      `json:"duration_minutes"`
	AttendeeEmail   string   `json:"attendee_email"`
	PreferredTimes  []string `json:"preferred_times"`
}

// StatusResponse reports the Gmail connection state and inbox counts.
type StatusResponse struct {
	Connected  bool   `json:"connected"`
	EmailCount int    `json:"email_count"`
	LastFetch  string `json:"last_fetch,omitempty"`
}

// EmailsResponse is the classified snapshot returned by the emails endpoint.
type EmailsResponse struct {
	Emails     []ClassifiedMessage `json:"emails"`
	Total      int                 `json:"total"`
	ErrorCount int                 `json:"error_count"`
}

// SummaryResponse wraps a generated summary.
type SummaryResponse struct {
	ID      string `json:"id,omitempty"`
	Summary string `json:"summary"`
}
