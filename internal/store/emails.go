package store

import (
	"fmt"
	"strings"

	"github.com/momo-assistant/backend/internal/models"
)

// RecordEmail appends a classified message to the history log and returns
// the record ID.
func (s *Store) RecordEmail(msg models.ClassifiedMessage) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO emails (sender, subject, content, priority_score, labels, is_important)
		VALUES (?, ?, ?, ?, ?, ?)`,
		msg.Sender, msg.Subject, msg.Body, msg.PriorityScore,
		strings.Join(msg.Labels, ","), msg.IsImportant,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting email record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading inserted email id: %w", err)
	}
	return id, nil
}

// RecordBatch appends a whole classified set to the history log. Individual
// insert failures abort the batch.
func (s *Store) RecordBatch(msgs []models.ClassifiedMessage) error {
	for _, msg := range msgs {
		if _, err := s.RecordEmail(msg); err != nil {
			return err
		}
	}
	return nil
}

// ImportantEmails returns recorded emails flagged important, highest score
// first, capped at limit.
func (s *Store) ImportantEmails(limit int) ([]models.EmailRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	var records []models.EmailRecord
	err := s.db.Select(&records, `
		SELECT id, sender, subject, content, priority_score, labels, is_important, created_at
		FROM emails
		WHERE is_important = 1
		ORDER BY priority_score DESC, created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying important emails: %w", err)
	}
	return records, nil
}
