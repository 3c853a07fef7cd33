package gmail

import (
	"context"
	"fmt"
	"log"
	"time"

	gmailapi "google.golang.org/api/gmail/v1"

	"github.com/momo-assistant/backend/internal/models"
)

const (
	defaultMaxResults  = 20
	defaultWindowDays  = 3
	defaultFallbackMax = 10
	defaultProcessMax  = 15
	maxGetAttempts     = 3
	interFetchDelay    = 100 * time.Millisecond
)

// MessageAPI is the mail-listing/get collaborator. The production
// implementation is Client; tests substitute their own.
type MessageAPI interface {
	// ListMessages returns up to maxResults message IDs matching the query.
	// An empty query lists without a filter.
	ListMessages(ctx context.Context, maxResults int64, query string) ([]string, error)
	// GetMessage fetches the full message for the given ID.
	GetMessage(ctx context.Context, id string) (*gmailapi.Message, error)
}

// FetchResult is the outcome of one fetch cycle. Per-message failures are
// counted, not propagated.
type FetchResult struct {
	Messages []models.RawMessage
	Errors   int
}

// Fetcher assembles raw messages from the mail collaborator, tolerating
// partial failures. Message detail calls are issued sequentially so backoff
// and the inter-fetch delay keep us under the provider's rate limits.
type Fetcher struct {
	api MessageAPI

	maxResults  int64
	windowDays  int
	fallbackMax int64
	processMax  int

	// backoffUnit scales the exponential retry delay; sleep is swapped out
	// in tests.
	backoffUnit time.Duration
	fetchDelay  time.Duration
	sleep       func(time.Duration)
}

// NewFetcher creates a Fetcher with the default fetch limits.
func NewFetcher(api MessageAPI) *Fetcher {
	return &Fetcher{
		api:         api,
		maxResults:  defaultMaxResults,
		windowDays:  defaultWindowDays,
		fallbackMax: defaultFallbackMax,
		processMax:  defaultProcessMax,
		backoffUnit: time.Second,
		fetchDelay:  interFetchDelay,
		sleep:       time.Sleep,
	}
}

// SetLimits overrides the listing and processing caps.
func (f *Fetcher) SetLimits(maxResults int64, windowDays int, fallbackMax int64, processMax int) {
	if maxResults > 0 {
		f.maxResults = maxResults
	}
	if windowDays > 0 {
		f.windowDays = windowDays
	}
	if fallbackMax > 0 {
		f.fallbackMax = fallbackMax
	}
	if processMax > 0 {
		f.processMax = processMax
	}
}

// Fetch lists recent messages and retrieves their details.
//
// The listing uses a recency filter first and retries once without any filter
// (at a smaller cap) when nothing matches. A failed listing yields an empty
// result, not an error. Each detail fetch gets up to three attempts with
// exponential backoff; a message that still fails is skipped and counted.
func (f *Fetcher) Fetch(ctx context.Context) (*FetchResult, error) {
	result := &FetchResult{}

	query := fmt.Sprintf("newer_than:%dd", f.windowDays)
	ids, err := f.api.ListMessages(ctx, f.maxResults, query)
	if err != nil {
		log.Printf("Fetcher: failed to list messages: %v", err)
		return result, nil
	}
	log.Printf("Fetcher: found %d messages in last %d days", len(ids), f.windowDays)

	if len(ids) == 0 {
		ids, err = f.api.ListMessages(ctx, f.fallbackMax, "")
		if err != nil {
			log.Printf("Fetcher: failed to list messages without filter: %v", err)
			return result, nil
		}
		log.Printf("Fetcher: found %d messages without filter", len(ids))
	}

	if len(ids) > f.processMax {
		ids = ids[:f.processMax]
	}

	for i, id := range ids {
		msg := f.getWithRetry(ctx, id)
		if msg == nil {
			result.Errors++
			continue
		}

		var headers []*gmailapi.MessagePartHeader
		if msg.Payload != nil {
			headers = msg.Payload.Headers
		}
		result.Messages = append(result.Messages, models.RawMessage{
			ID:      id,
			Sender:  headerValue(headers, "From", "Unknown"),
			Subject: headerValue(headers, "Subject", "No Subject"),
			Date:    headerValue(headers, "Date", ""),
			Payload: msg.Payload,
		})
		log.Printf("Fetcher: processed message %d/%d", i+1, len(ids))

		f.sleep(f.fetchDelay)
	}

	log.Printf("Fetcher: fetch complete: %d processed, %d errors", len(result.Messages), result.Errors)
	return result, nil
}

// getWithRetry fetches one message, waiting 2^attempt backoff units between
// attempts. Returns nil once all attempts are exhausted.
func (f *Fetcher) getWithRetry(ctx context.Context, id string) *gmailapi.Message {
	for attempt := 0; attempt < maxGetAttempts; attempt++ {
		msg, err := f.api.GetMessage(ctx, id)
		if err == nil {
			return msg
		}
		if attempt < maxGetAttempts-1 {
			wait := f.backoffUnit * (1 << attempt)
			log.Printf("Fetcher: error fetching %s, retrying in %s (%d/%d): %v", id, wait, attempt+1, maxGetAttempts, err)
			f.sleep(wait)
			continue
		}
		log.Printf("Fetcher: failed to fetch %s after %d attempts: %v", id, maxGetAttempts, err)
	}
	return nil
}

// headerValue returns the value of the first header with the given name.
func headerValue(headers []*gmailapi.MessagePartHeader, name, fallback string) string {
	for _, h := range headers {
		if h != nil && h.Name == name {
			return h.Value
		}
	}
	return fallback
}
