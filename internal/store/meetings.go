package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/momo-assistant/backend/internal/models"
)

// RecordMeeting stores a calendar event created by the scheduling surface
// and returns its generated ID.
func (s *Store) RecordMeeting(title string, start, end time.Time, timezone, attendees string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(`
		INSERT INTO meetings (id, title, start_time, end_time, timezone, attendees)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id, title, start, end, timezone, attendees,
	)
	if err != nil {
		return "", fmt.Errorf("inserting meeting record: %w", err)
	}
	return id, nil
}

// Meetings returns all recorded meetings, most recent first.
func (s *Store) Meetings() ([]models.Meeting, error) {
	var meetings []models.Meeting
	err := s.db.Select(&meetings, `
		SELECT id, title, start_time, end_time, timezone, attendees, created_at
		FROM meetings
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying meetings: %w", err)
	}
	return meetings, nil
}
