package summary

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momo-assistant/backend/internal/models"
)

type fakeGenerator struct {
	calls   []string
	opts    []GenerateOptions
	respond func(prompt string) (string, error)
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string, opts GenerateOptions) (string, error) {
	f.calls = append(f.calls, prompt)
	f.opts = append(f.opts, opts)
	if f.respond != nil {
		return f.respond(prompt)
	}
	return "generated summary", nil
}

// withFakeClock replaces the summarizer's clock with one that advances only
// when sleep is called, and records every sleep.
func withFakeClock(s *Summarizer) *[]time.Duration {
	now := time.Unix(0, 0)
	sleeps := &[]time.Duration{}
	s.now = func() time.Time { return now }
	s.sleep = func(d time.Duration) {
		*sleeps = append(*sleeps, d)
		now = now.Add(d)
	}
	return sleeps
}

func testMessage(id string) models.ClassifiedMessage {
	return models.ClassifiedMessage{
		ID:      id,
		Sender:  "Jane Doe <jane@corp.com>",
		Subject: "Project Update",
		Body:    "The milestones are on track and there is nothing to do right now.",
	}
}

func TestSummarize(t *testing.T) {
	ctx := context.Background()

	t.Run("uses the generator and caches the result", func(t *testing.T) {
		gen := &fakeGenerator{}
		s := New(gen)
		withFakeClock(s)

		first := s.Summarize(ctx, testMessage("m1"))
		second := s.Summarize(ctx, testMessage("m1"))

		assert.Equal(t, "generated summary", first)
		assert.Equal(t, first, second)
		assert.Len(t, gen.calls, 1, "cache hit must not call the generator again")
		assert.Equal(t, 1, s.CacheSize())
	})

	t.Run("prompt carries subject, sender, and body", func(t *testing.T) {
		gen := &fakeGenerator{}
		s := New(gen)
		withFakeClock(s)

		s.Summarize(ctx, testMessage("m1"))

		require.Len(t, gen.calls, 1)
		assert.Contains(t, gen.calls[0], "Subject: Project Update")
		assert.Contains(t, gen.calls[0], "From: Jane Doe <jane@corp.com>")
		assert.Contains(t, gen.calls[0], "The milestones are on track")

		require.Len(t, gen.opts, 1)
		assert.Equal(t, GenerateOptions{Temperature: 0.3, MaxOutputTokens: 200, TopP: 0.8, TopK: 40}, gen.opts[0])
	})

	t.Run("nil generator produces the informational fallback", func(t *testing.T) {
		s := New(nil)

		got := s.Summarize(ctx, testMessage("m1"))

		assert.Equal(t,
			"This is an informational email from Jane Doe regarding project update. "+
				"The message covers The milestones are on track and there is nothing to do right now.",
			got)
	})

	t.Run("action vocabulary selects the action fallback", func(t *testing.T) {
		s := New(nil)
		msg := testMessage("m1")
		msg.Body = "Please review the attached contract by Friday."

		got := s.Summarize(ctx, msg)

		assert.Contains(t, got, "appears to require some action or response")
		assert.Contains(t, got, "Jane Doe")
		assert.Contains(t, got, "project update")
	})

	t.Run("long bodies get an ellipsed excerpt", func(t *testing.T) {
		s := New(nil)
		msg := testMessage("m1")
		body := ""
		for i := 0; i < 30; i++ {
			body += "informative "
		}
		msg.Body = body

		got := s.Summarize(ctx, msg)
		assert.Contains(t, got, "...")
	})

	t.Run("generator failure falls back and the fallback is cached", func(t *testing.T) {
		gen := &fakeGenerator{respond: func(string) (string, error) {
			return "", errors.New("upstream exploded")
		}}
		s := New(gen)
		withFakeClock(s)

		first := s.Summarize(ctx, testMessage("m1"))
		second := s.Summarize(ctx, testMessage("m1"))

		assert.Contains(t, first, "This is an informational email from Jane Doe")
		assert.Equal(t, first, second)
		assert.Len(t, gen.calls, 1)
	})

	t.Run("rate-limit responses fall back the same way", func(t *testing.T) {
		gen := &fakeGenerator{respond: func(string) (string, error) {
			return "", errors.New("429: Too Many Requests, quota exceeded")
		}}
		s := New(gen)
		withFakeClock(s)

		got := s.Summarize(ctx, testMessage("m1"))
		assert.Contains(t, got, "informational email")
	})

	t.Run("consecutive generator calls are spaced by the minimum interval", func(t *testing.T) {
		gen := &fakeGenerator{}
		s := New(gen)
		sleeps := withFakeClock(s)

		s.Summarize(ctx, testMessage("m1"))
		s.Summarize(ctx, testMessage("m2"))

		require.Len(t, gen.calls, 2)
		// The second call finds zero elapsed time on the fake clock and waits
		// the full interval.
		assert.Contains(t, *sleeps, time.Second)
	})

	t.Run("SetMinInterval changes the spacing", func(t *testing.T) {
		gen := &fakeGenerator{}
		s := New(gen)
		sleeps := withFakeClock(s)
		s.SetMinInterval(250 * time.Millisecond)

		s.Summarize(ctx, testMessage("m1"))
		s.Summarize(ctx, testMessage("m2"))

		assert.Contains(t, *sleeps, 250*time.Millisecond)
		assert.NotContains(t, *sleeps, time.Second)
	})

	t.Run("Clear empties the cache and forces regeneration", func(t *testing.T) {
		gen := &fakeGenerator{}
		s := New(gen)
		withFakeClock(s)

		s.Summarize(ctx, testMessage("m1"))
		require.Equal(t, 1, s.CacheSize())

		s.Clear()
		assert.Zero(t, s.CacheSize())

		s.Summarize(ctx, testMessage("m1"))
		assert.Len(t, gen.calls, 2)
	})

	t.Run("generator output is trimmed", func(t *testing.T) {
		gen := &fakeGenerator{respond: func(string) (string, error) {
			return "  trimmed summary \n", nil
		}}
		s := New(gen)
		withFakeClock(s)

		assert.Equal(t, "trimmed summary", s.Summarize(ctx, testMessage("m1")))
	})
}

func TestIsRateLimited(t *testing.T) {
	assert.True(t, isRateLimited(errors.New("Rate limit exceeded")))
	assert.True(t, isRateLimited(errors.New("HTTP 429 Too Many Requests")))
	assert.True(t, isRateLimited(errors.New("daily quota reached")))
	assert.False(t, isRateLimited(errors.New("connection refused")))
	assert.False(t, isRateLimited(nil))
}

func TestSenderName(t *testing.T) {
	assert.Equal(t, "Jane Doe", senderName("Jane Doe <jane@corp.com>"))
	assert.Equal(t, "jane", senderName("jane@corp.com"))
	assert.Equal(t, "Unknown", senderName("Unknown"))
}
