package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/manamitra/companion/backend/internal/model/conversation"
	"github.com/manamitra/companion/backend/internal/model/sentiment"
	"github.com/manamitra/companion/backend/internal/store"
)

// Store keeps both logs in process memory. Suitable for tests and local runs.
type Store struct {
	mu         sync.RWMutex
	turns      map[string][]conversation.Turn
	sentiments map[string][]sentiment.Record
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{
		turns:      make(map[string][]conversation.Turn),
		sentiments: make(map[string][]sentiment.Record),
	}
}

// AppendTurn stores a turn, assigning ID and timestamp when missing.
func (s *Store) AppendTurn(_ context.Context, turn conversation.Turn) (conversation.Turn, error) {
	if turn.UserID == "" {
		return conversation.Turn{}, store.ErrUserRequired
	}
	if turn.ID == "" {
		turn.ID = uuid.NewString()
	}
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	s.turns[turn.UserID] = append(s.turns[turn.UserID], turn)
	s.mu.Unlock()

	return turn, nil
}

// ListTurns returns a copy of the user's turns in insertion order.
func (s *Store) ListTurns(_ context.Context, userID string) ([]conversation.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	turns := s.turns[userID]
	copied := make([]conversation.Turn, len(turns))
	copy(copied, turns)
	return copied, nil
}

// AppendRecord stores a sentiment record, assigning ID and timestamp when missing.
func (s *Store) AppendRecord(_ context.Context, record sentiment.Record) (sentiment.Record, error) {
	if record.UserID == "" {
		return sentiment.Record{}, store.ErrUserRequired
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	s.sentiments[record.UserID] = append(s.sentiments[record.UserID], record)
	s.mu.Unlock()

	return record, nil
}

// LatestRecord returns the most recently appended record for the user.
func (s *Store) LatestRecord(_ context.Context, userID string) (sentiment.Record, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.sentiments[userID]
	if len(records) == 0 {
		return sentiment.Record{}, false, nil
	}
	return records[len(records)-1], true, nil
}

// ListRecords returns a copy of the user's records in insertion order.
func (s *Store) ListRecords(_ context.Context, userID string) ([]sentiment.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.sentiments[userID]
	copied := make([]sentiment.Record, len(records))
	copy(copied, records)
	return copied, nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }
