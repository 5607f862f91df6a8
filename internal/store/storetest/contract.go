// Package storetest holds the behaviour every store.Store implementation must share.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manamitra/companion/backend/internal/model/conversation"
	"github.com/manamitra/companion/backend/internal/model/sentiment"
	"github.com/manamitra/companion/backend/internal/store"
)

// Run exercises s against the append-only, insertion-ordered contract.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	t.Run("turns keep insertion order per user", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		for _, msg := range []string{"first", "second", "third"} {
			_, err := s.AppendTurn(ctx, conversation.Turn{UserID: "u1", Message: msg, Response: "ok", Intent: conversation.IntentNeutral})
			require.NoError(t, err)
		}
		_, err := s.AppendTurn(ctx, conversation.Turn{UserID: "u2", Message: "other", Response: "ok"})
		require.NoError(t, err)

		turns, err := s.ListTurns(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, turns, 3)
		assert.Equal(t, "first", turns[0].Message)
		assert.Equal(t, "third", turns[2].Message)
		assert.Equal(t, conversation.IntentNeutral, turns[0].Intent)
		assert.NotEmpty(t, turns[0].ID)
		assert.False(t, turns[0].CreatedAt.IsZero())

		empty, err := s.ListTurns(ctx, "nobody")
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("latest record is the last appended", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, ok, err := s.LatestRecord(ctx, "u1")
		require.NoError(t, err)
		assert.False(t, ok)

		stamp := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
		_, err = s.AppendRecord(ctx, sentiment.Record{UserID: "u1", SourceText: "a", Score: "35", Level: "Low", CreatedAt: stamp})
		require.NoError(t, err)
		_, err = s.AppendRecord(ctx, sentiment.Record{UserID: "u1", SourceText: "b", Score: "N/A", Level: "unknown", Methodology: "raw", Degraded: true, CreatedAt: stamp})
		require.NoError(t, err)

		latest, ok, err := s.LatestRecord(ctx, "u1")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "b", latest.SourceText)
		assert.Equal(t, sentiment.Score("N/A"), latest.Score)
		assert.True(t, latest.Degraded)
		assert.True(t, latest.CreatedAt.Equal(stamp))

		records, err := s.ListRecords(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, sentiment.Score("35"), records[0].Score)
		assert.Equal(t, "Low", records[0].Level)
	})

	t.Run("user id is required", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.AppendTurn(ctx, conversation.Turn{Message: "x"})
		assert.True(t, errors.Is(err, store.ErrUserRequired))
		_, err = s.AppendRecord(ctx, sentiment.Record{SourceText: "x"})
		assert.True(t, errors.Is(err, store.ErrUserRequired))
	})
}
