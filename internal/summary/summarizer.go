package summary

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/momo-assistant/backend/internal/models"
)

const defaultMinInterval = time.Second

// GenerateOptions are the sampling parameters passed to the generative-text
// collaborator.
type GenerateOptions struct {
	Temperature     float64
	MaxOutputTokens int
	TopP            float64
	TopK            int
}

// Generator is the generative-text collaborator. A nil Generator selects the
// deterministic fallback path; that is a configuration, not an error.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}

// Summarizer produces per-message and inbox-wide summaries. Generated
// summaries are cached by message ID for the lifetime of the process, and
// calls to the collaborator are spaced by a minimum interval shared across
// all requests.
type Summarizer struct {
	gen Generator

	mu    sync.Mutex
	cache map[string]string

	// limiterMu serializes collaborator calls so concurrent requests all
	// observe the same last-call timestamp.
	limiterMu   sync.Mutex
	lastCall    time.Time
	minInterval time.Duration

	now   func() time.Time
	sleep func(time.Duration)
}

// New creates a Summarizer. gen may be nil; every summary then uses the
// deterministic fallback.
func New(gen Generator) *Summarizer {
	return &Summarizer{
		gen:         gen,
		cache:       make(map[string]string),
		minInterval: defaultMinInterval,
		now:         time.Now,
		sleep:       time.Sleep,
	}
}

// SetMinInterval overrides the minimum spacing between collaborator calls.
func (s *Summarizer) SetMinInterval(d time.Duration) {
	s.limiterMu.Lock()
	defer s.limiterMu.Unlock()
	s.minInterval = d
}

// Clear empties the summary cache.
func (s *Summarizer) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]string)
}

// CacheSize returns the number of cached summaries.
func (s *Summarizer) CacheSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cache)
}

// Summarize returns a short prose summary of the message.
//
// A cached summary is returned as-is, without regeneration or staleness
// checks. Otherwise the collaborator is asked, rate limited; on any failure
// (including rate-limit/quota responses) the deterministic fallback is used.
// Both paths store their result under the message ID, so Summarize never
// fails.
func (s *Summarizer) Summarize(ctx context.Context, msg models.ClassifiedMessage) string {
	s.mu.Lock()
	if cached, ok := s.cache[msg.ID]; ok {
		s.mu.Unlock()
		log.Printf("Summarizer: using cached summary for %s", msg.ID)
		return cached
	}
	s.mu.Unlock()

	text, err := s.generateMessageSummary(ctx, msg)
	if err != nil {
		if isRateLimited(err) {
			log.Printf("Summarizer: rate limit hit for %s, using fallback: %v", msg.ID, err)
		} else if s.gen != nil {
			log.Printf("Summarizer: generation failed for %s, using fallback: %v", msg.ID, err)
		}
		text = fallbackSummary(msg)
	}

	s.mu.Lock()
	s.cache[msg.ID] = text
	s.mu.Unlock()
	return text
}

func (s *Summarizer) generateMessageSummary(ctx context.Context, msg models.ClassifiedMessage) (string, error) {
	if s.gen == nil {
		return "", errNoGenerator
	}

	prompt := fmt.Sprintf(`Please write a simple, natural summary of this email in under 150 words.
Just explain what the email is about in plain English, like you're telling a colleague.

Subject: %s
From: %s
Content: %s

Write a clear, conversational summary without using structured formats, bullet points, or labels like "Main Topic" or "Action Required". Just describe what the email says and what needs to be done (if anything).`,
		msg.Subject, msg.Sender, truncateRunes(msg.Body, 1000))

	text, err := s.generate(ctx, prompt, GenerateOptions{
		Temperature:     0.3,
		MaxOutputTokens: 200,
		TopP:            0.8,
		TopK:            40,
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

// generate issues one collaborator call, enforcing the minimum interval
// since the previous call. The limiter mutex is held for the duration so
// concurrent requests serialize against the shared timestamp.
func (s *Summarizer) generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	s.limiterMu.Lock()
	defer s.limiterMu.Unlock()

	if wait := s.minInterval - s.now().Sub(s.lastCall); wait > 0 {
		log.Printf("Summarizer: rate limiting, waiting %s", wait)
		s.sleep(wait)
	}

	text, err := s.gen.Generate(ctx, prompt, opts)
	s.lastCall = s.now()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// isRateLimited reports whether the collaborator signalled a rate-limit or
// quota condition. Detection is textual; the Gemini API does not expose a
// stable error type for this.
func isRateLimited(err error) bool {
	if err == nil {
		return false
	}
	text := strings.ToLower(err.Error())
	return strings.Contains(text, "rate limit") ||
		strings.Contains(text, "too many requests") ||
		strings.Contains(text, "quota")
}

// truncateRunes caps s at n characters without splitting a rune.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
