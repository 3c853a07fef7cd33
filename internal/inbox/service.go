package inbox

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/momo-assistant/backend/internal/classify"
	"github.com/momo-assistant/backend/internal/gmail"
	"github.com/momo-assistant/backend/internal/models"
	"github.com/momo-assistant/backend/internal/store"
	ws "github.com/momo-assistant/backend/internal/websocket"
)

// ErrNotConnected is returned when a refresh is requested before Gmail
// authentication has completed.
var ErrNotConnected = errors.New("gmail is not connected")

// Fetcher produces raw messages for one fetch cycle.
type Fetcher interface {
	Fetch(ctx context.Context) (*gmail.FetchResult, error)
}

// Service owns the classified-message snapshot. A fetch cycle runs at most
// once at a time; readers always observe a complete snapshot because the
// list is replaced wholesale at the end of a cycle.
type Service struct {
	refreshMu sync.Mutex // serializes fetch cycles

	mu         sync.RWMutex
	fetcher    Fetcher
	messages   []models.ClassifiedMessage
	lastErrors int
	lastFetch  time.Time

	history *store.Store
	hub     *ws.Hub
}

// NewService creates the inbox service. history and hub may be nil.
func NewService(history *store.Store, hub *ws.Hub) *Service {
	return &Service{history: history, hub: hub}
}

// SetFetcher attaches the Gmail fetcher once authentication has completed.
func (s *Service) SetFetcher(f Fetcher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetcher = f
}

// Connected reports whether a fetcher is attached.
func (s *Service) Connected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fetcher != nil
}

// Snapshot returns a copy of the current classified list and the error count
// of the cycle that produced it.
func (s *Service) Snapshot() ([]models.ClassifiedMessage, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ClassifiedMessage, len(s.messages))
	copy(out, s.messages)
	return out, s.lastErrors
}

// Message looks up a classified message by provider ID in the current
// snapshot.
func (s *Service) Message(id string) (models.ClassifiedMessage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.messages {
		if m.ID == id {
			return m, true
		}
	}
	return models.ClassifiedMessage{}, false
}

// LastFetch returns when the current snapshot was produced.
func (s *Service) LastFetch() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastFetch
}

// Refresh runs one fetch cycle: fetch, decode, classify, rank, then replace
// the snapshot atomically. History recording and the websocket notification
// are best effort.
func (s *Service) Refresh(ctx context.Context) error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	s.mu.RLock()
	fetcher := s.fetcher
	s.mu.RUnlock()
	if fetcher == nil {
		return ErrNotConnected
	}

	result, err := fetcher.Fetch(ctx)
	if err != nil {
		return err
	}

	classified := classify.Rank(result.Messages)

	s.mu.Lock()
	s.messages = classified
	s.lastErrors = result.Errors
	s.lastFetch = time.Now()
	s.mu.Unlock()

	log.Printf("Inbox: refreshed snapshot: %d messages, %d errors", len(classified), result.Errors)

	if s.history != nil {
		if err := s.history.RecordBatch(classified); err != nil {
			log.Printf("Inbox: failed to record history: %v", err)
		}
	}

	if s.hub != nil {
		payload, err := json.Marshal(map[string]interface{}{
			"type":        "inbox_refreshed",
			"total":       len(classified),
			"error_count": result.Errors,
		})
		if err == nil {
			s.hub.Broadcast(payload)
		}
	}

	return nil
}

// Run refreshes the inbox on the given interval until the context is
// cancelled. Refresh failures are logged, not fatal.
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Inbox: stopping background refresh")
			return
		case <-ticker.C:
			if err := s.Refresh(ctx); err != nil && !errors.Is(err, ErrNotConnected) {
				log.Printf("Inbox: background refresh failed: %v", err)
			}
		}
	}
}
