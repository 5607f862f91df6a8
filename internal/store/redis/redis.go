package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/manamitra/companion/backend/internal/model/conversation"
	"github.com/manamitra/companion/backend/internal/model/sentiment"
	"github.com/manamitra/companion/backend/internal/store"
)

// Store keeps each user's logs as Redis lists of JSON documents. RPUSH gives
// insertion order; the tail element is the latest entry.
type Store struct {
	client *goredis.Client
	prefix string
}

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// New connects to Redis and verifies the connection with PING.
func New(ctx context.Context, opts Options) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}
	return NewWithClient(client, opts.Prefix), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *goredis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = "manamitra"
	}
	return &Store{client: client, prefix: prefix}
}

// Close closes the Redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) turnsKey(userID string) string {
	return fmt.Sprintf("%s:conversations:%s", s.prefix, userID)
}

func (s *Store) sentimentsKey(userID string) string {
	return fmt.Sprintf("%s:sentiments:%s", s.prefix, userID)
}

// AppendTurn pushes a turn onto the user's conversation list.
func (s *Store) AppendTurn(ctx context.Context, turn conversation.Turn) (conversation.Turn, error) {
	if turn.UserID == "" {
		return conversation.Turn{}, store.ErrUserRequired
	}
	if turn.ID == "" {
		turn.ID = uuid.NewString()
	}
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(turn)
	if err != nil {
		return conversation.Turn{}, fmt.Errorf("marshal turn: %w", err)
	}
	if err := s.client.RPush(ctx, s.turnsKey(turn.UserID), data).Err(); err != nil {
		return conversation.Turn{}, fmt.Errorf("push turn: %w", err)
	}
	return turn, nil
}

// ListTurns returns the user's turns in insertion order.
func (s *Store) ListTurns(ctx context.Context, userID string) ([]conversation.Turn, error) {
	items, err := s.client.LRange(ctx, s.turnsKey(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load turns: %w", err)
	}

	turns := make([]conversation.Turn, 0, len(items))
	for _, item := range items {
		var turn conversation.Turn
		if err := json.Unmarshal([]byte(item), &turn); err != nil {
			return nil, fmt.Errorf("decode turn: %w", err)
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

// AppendRecord pushes a sentiment record onto the user's sentiment list.
func (s *Store) AppendRecord(ctx context.Context, record sentiment.Record) (sentiment.Record, error) {
	if record.UserID == "" {
		return sentiment.Record{}, store.ErrUserRequired
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(encodeRecord(record))
	if err != nil {
		return sentiment.Record{}, fmt.Errorf("marshal sentiment: %w", err)
	}
	if err := s.client.RPush(ctx, s.sentimentsKey(record.UserID), data).Err(); err != nil {
		return sentiment.Record{}, fmt.Errorf("push sentiment: %w", err)
	}
	return record, nil
}

// LatestRecord reads the tail of the user's sentiment list.
func (s *Store) LatestRecord(ctx context.Context, userID string) (sentiment.Record, bool, error) {
	item, err := s.client.LIndex(ctx, s.sentimentsKey(userID), -1).Result()
	if errors.Is(err, goredis.Nil) {
		return sentiment.Record{}, false, nil
	}
	if err != nil {
		return sentiment.Record{}, false, fmt.Errorf("load latest sentiment: %w", err)
	}

	record, err := decodeRecord(item)
	if err != nil {
		return sentiment.Record{}, false, err
	}
	return record, true, nil
}

// ListRecords returns the user's records in insertion order.
func (s *Store) ListRecords(ctx context.Context, userID string) ([]sentiment.Record, error) {
	items, err := s.client.LRange(ctx, s.sentimentsKey(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load sentiments: %w", err)
	}

	records := make([]sentiment.Record, 0, len(items))
	for _, item := range items {
		record, err := decodeRecord(item)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// redisRecord keeps the score as raw text so the stored value is exactly what
// the scorer returned, independent of Score's JSON encoding.
type redisRecord struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	SourceText  string    `json:"sourceText"`
	Score       string    `json:"score"`
	Level       string    `json:"level"`
	Methodology string    `json:"methodology"`
	Degraded    bool      `json:"degraded,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func encodeRecord(r sentiment.Record) redisRecord {
	return redisRecord{
		ID:          r.ID,
		UserID:      r.UserID,
		SourceText:  r.SourceText,
		Score:       string(r.Score),
		Level:       r.Level,
		Methodology: r.Methodology,
		Degraded:    r.Degraded,
		CreatedAt:   r.CreatedAt,
	}
}

func decodeRecord(item string) (sentiment.Record, error) {
	var raw redisRecord
	if err := json.Unmarshal([]byte(item), &raw); err != nil {
		return sentiment.Record{}, fmt.Errorf("decode sentiment: %w", err)
	}
	return sentiment.Record{
		ID:          raw.ID,
		UserID:      raw.UserID,
		SourceText:  raw.SourceText,
		Score:       sentiment.Score(raw.Score),
		Level:       raw.Level,
		Methodology: raw.Methodology,
		Degraded:    raw.Degraded,
		CreatedAt:   raw.CreatedAt,
	}, nil
}
