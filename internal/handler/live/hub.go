// Package live pushes freshly scored sentiment records to websocket subscribers.
package live

import (
	"sync"

	"go.uber.org/zap"

	sentimentmodel "github.com/manamitra/companion/backend/internal/model/sentiment"
)

// subscriberBuffer is how many undelivered records a slow subscriber may hold
// before further records are dropped for it.
const subscriberBuffer = 8

type subscriber struct {
	ch chan sentimentmodel.Record
}

// Hub fans records out to the subscribers of each user.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]map[*subscriber]struct{}
	logger *zap.Logger
}

// NewHub returns an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{subs: make(map[string]map[*subscriber]struct{}), logger: logger}
}

// Subscribe registers interest in userID's records. The returned cancel func
// must be called to release the subscription.
func (h *Hub) Subscribe(userID string) (<-chan sentimentmodel.Record, func()) {
	sub := &subscriber{ch: make(chan sentimentmodel.Record, subscriberBuffer)}

	h.mu.Lock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[*subscriber]struct{})
	}
	h.subs[userID][sub] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[userID], sub)
			if len(h.subs[userID]) == 0 {
				delete(h.subs, userID)
			}
			h.mu.Unlock()
			close(sub.ch)
		})
	}
	return sub.ch, cancel
}

// Publish delivers record to the user's subscribers without blocking.
func (h *Hub) Publish(record sentimentmodel.Record) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs[record.UserID] {
		select {
		case sub.ch <- record:
		default:
			h.logger.Warn("dropping sentiment update for slow subscriber", zap.String("user_id", record.UserID))
		}
	}
}

// Subscribers reports how many subscriptions userID has.
func (h *Hub) Subscribers(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[userID])
}
