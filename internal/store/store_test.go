package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momo-assistant/backend/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen(t *testing.T) {
	t.Run("creates the schema", func(t *testing.T) {
		s := newTestStore(t)

		var version int
		err := s.db.Get(&version, "SELECT MAX(version) FROM schema_version")
		require.NoError(t, err)
		assert.Equal(t, 1, version)
	})

	t.Run("reopening does not re-run migrations", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.db")

		s, err := Open(path)
		require.NoError(t, err)
		require.NoError(t, s.Close())

		s, err = Open(path)
		require.NoError(t, err)
		defer s.Close()

		var count int
		err = s.db.Get(&count, "SELECT COUNT(*) FROM schema_version")
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

func TestRecordEmail(t *testing.T) {
	s := newTestStore(t)

	id, err := s.RecordEmail(models.ClassifiedMessage{
		Sender:        "boss@corp.com",
		Subject:       "Contract",
		Body:          "Sign today.",
		PriorityScore: 0.9,
		Labels:        []string{"high-priority", "business"},
		IsImportant:   true,
	})
	require.NoError(t, err)
	assert.Positive(t, id)

	var rec models.EmailRecord
	err = s.db.Get(&rec, "SELECT id, sender, subject, content, priority_score, labels, is_important, created_at FROM emails WHERE id = ?", id)
	require.NoError(t, err)
	assert.Equal(t, "boss@corp.com", rec.Sender)
	assert.Equal(t, "Sign today.", rec.Content)
	assert.Equal(t, "high-priority,business", rec.Labels)
	assert.True(t, rec.IsImportant)
}

func TestImportantEmails(t *testing.T) {
	s := newTestStore(t)

	msgs := []models.ClassifiedMessage{
		{Sender: "a@x.com", Subject: "low", PriorityScore: 0.65, IsImportant: true},
		{Sender: "b@x.com", Subject: "top", PriorityScore: 0.95, IsImportant: true},
		{Sender: "c@x.com", Subject: "skip", PriorityScore: 0.4},
		{Sender: "d@x.com", Subject: "mid", PriorityScore: 0.8, IsImportant: true},
	}
	require.NoError(t, s.RecordBatch(msgs))

	t.Run("filters and orders by score", func(t *testing.T) {
		got, err := s.ImportantEmails(20)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "top", got[0].Subject)
		assert.Equal(t, "mid", got[1].Subject)
		assert.Equal(t, "low", got[2].Subject)
	})

	t.Run("respects the limit", func(t *testing.T) {
		got, err := s.ImportantEmails(2)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("non-positive limit uses the default", func(t *testing.T) {
		got, err := s.ImportantEmails(0)
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})
}

func TestMeetings(t *testing.T) {
	s := newTestStore(t)

	start := time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC)
	id, err := s.RecordMeeting("Task: Budget review", start, start.Add(time.Hour), "America/New_York", "jane@corp.com")
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	got, err := s.Meetings()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, id, got[0].ID)
	assert.Equal(t, "Task: Budget review", got[0].Title)
	assert.Equal(t, "America/New_York", got[0].Timezone)
	assert.Equal(t, "jane@corp.com", got[0].Attendees)
	assert.True(t, got[0].StartTime.Equal(start))
}
