// Package store defines the persistence contracts for conversation turns and
// sentiment records. Both stores are append-only and keyed by user ID; listings
// come back in insertion order, which is chronological order.
package store

import (
	"context"
	"errors"

	"github.com/manamitra/companion/backend/internal/model/conversation"
	"github.com/manamitra/companion/backend/internal/model/sentiment"
)

// ErrUserRequired is returned when an entry has no user ID.
var ErrUserRequired = errors.New("user id is required")

// ConversationStore is the append-only log of chat turns.
type ConversationStore interface {
	AppendTurn(ctx context.Context, turn conversation.Turn) (conversation.Turn, error)
	ListTurns(ctx context.Context, userID string) ([]conversation.Turn, error)
}

// SentimentStore is the append-only log of sentiment evaluations.
type SentimentStore interface {
	AppendRecord(ctx context.Context, record sentiment.Record) (sentiment.Record, error)
	LatestRecord(ctx context.Context, userID string) (sentiment.Record, bool, error)
	ListRecords(ctx context.Context, userID string) ([]sentiment.Record, error)
}

// Store bundles both logs behind one backend.
type Store interface {
	ConversationStore
	SentimentStore
	Close() error
}
