package summary

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momo-assistant/backend/internal/models"
)

func digestFixture() []models.ClassifiedMessage {
	return []models.ClassifiedMessage{
		{
			ID: "1", Sender: "Boss <boss@corp.com>", Subject: "Contract deadline",
			Body: "Sign the contract today.", PriorityScore: 0.9,
			Labels: []string{"high-priority", "business"}, IsImportant: true, HasTasks: true,
		},
		{
			ID: "2", Sender: "Client <client@acme.com>", Subject: "Proposal feedback",
			Body: "Some thoughts on the proposal.", PriorityScore: 0.75,
			Labels: []string{"high-priority", "business"}, IsImportant: true,
		},
		{
			ID: "3", Sender: "news@shop.com", Subject: "Weekly deals",
			Body: "Discounts inside.", PriorityScore: 0.1,
		},
	}
}

func TestDigest(t *testing.T) {
	ctx := context.Background()

	t.Run("empty inbox", func(t *testing.T) {
		s := New(nil)
		assert.Equal(t, "No emails to summarize.", s.Digest(ctx, nil))
	})

	t.Run("generator path returns the collaborator text", func(t *testing.T) {
		gen := &fakeGenerator{respond: func(string) (string, error) {
			return "the executive brief", nil
		}}
		s := New(gen)
		withFakeClock(s)

		assert.Equal(t, "the executive brief", s.Digest(ctx, digestFixture()))
	})

	t.Run("digest prompt names every section and the email data", func(t *testing.T) {
		gen := &fakeGenerator{}
		s := New(gen)
		withFakeClock(s)

		s.Digest(ctx, digestFixture())

		require.Len(t, gen.calls, 1)
		prompt := gen.calls[0]
		for _, heading := range digestSections {
			assert.Contains(t, prompt, heading)
		}
		assert.Contains(t, prompt, "Analyze these 3 emails")
		assert.Contains(t, prompt, "Contract deadline")
		assert.Contains(t, prompt, "sender: Boss")

		require.Len(t, gen.opts, 1)
		assert.Equal(t, GenerateOptions{Temperature: 0.3, MaxOutputTokens: 250, TopP: 0.8, TopK: 40}, gen.opts[0])
	})

	t.Run("only the top ten messages enter the prompt", func(t *testing.T) {
		var msgs []models.ClassifiedMessage
		for i := 0; i < 14; i++ {
			msgs = append(msgs, models.ClassifiedMessage{
				ID:      fmt.Sprintf("%d", i),
				Sender:  "s@example.com",
				Subject: fmt.Sprintf("subject-%d", i),
			})
		}
		gen := &fakeGenerator{}
		s := New(gen)
		withFakeClock(s)

		s.Digest(ctx, msgs)

		require.Len(t, gen.calls, 1)
		assert.Contains(t, gen.calls[0], "Analyze these 14 emails")
		assert.Contains(t, gen.calls[0], "subject-9")
		assert.NotContains(t, gen.calls[0], "subject-10")
	})

	t.Run("generator failure falls back to the counted digest", func(t *testing.T) {
		gen := &fakeGenerator{respond: func(string) (string, error) {
			return "", errors.New("quota exceeded")
		}}
		s := New(gen)
		withFakeClock(s)

		got := s.Digest(ctx, digestFixture())
		for _, heading := range digestSections {
			assert.Contains(t, got, "**"+heading+"**")
		}
	})

	t.Run("fallback digest reports the counts", func(t *testing.T) {
		s := New(nil)

		got := s.Digest(ctx, digestFixture())

		assert.Contains(t, got, "You have 3 emails today with 2 high-priority items")
		assert.Contains(t, got, "2 high-priority emails need immediate review")
		assert.Contains(t, got, "1 emails contain tasks or meeting requests")
		assert.Contains(t, got, "2 emails marked as important")
		assert.Contains(t, got, "high-priority (2)")
		assert.Contains(t, got, "business (2)")
		assert.Contains(t, got, "Boss (1)")
		assert.Contains(t, got, "urgent: Contract deadline")
	})

	t.Run("fallback digest without labels or urgent items", func(t *testing.T) {
		s := New(nil)
		msgs := []models.ClassifiedMessage{
			{ID: "1", Sender: "a@example.com", Subject: "Hello", PriorityScore: 0.5},
		}

		got := s.Digest(ctx, msgs)
		assert.Contains(t, got, "General correspondence")
		assert.Contains(t, got, "no urgent items")
		assert.Contains(t, got, "a (1)")
	})
}

func TestTopCounts(t *testing.T) {
	t.Run("highest count first, ties alphabetical", func(t *testing.T) {
		got := topCounts(map[string]int{"zed": 2, "alice": 2, "bob": 5, "carol": 1}, 3)
		assert.Equal(t, []string{"bob (5)", "alice (2)", "zed (2)"}, got)
	})

	t.Run("empty map", func(t *testing.T) {
		assert.Empty(t, topCounts(map[string]int{}, 3))
	})
}
