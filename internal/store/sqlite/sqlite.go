package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/manamitra/companion/backend/internal/model/conversation"
	"github.com/manamitra/companion/backend/internal/model/sentiment"
	"github.com/manamitra/companion/backend/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS conversations (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    user_id TEXT NOT NULL,
    message TEXT NOT NULL,
    response TEXT NOT NULL,
    intent TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS conversations_user_idx ON conversations(user_id, seq);

CREATE TABLE IF NOT EXISTS sentiments (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    user_id TEXT NOT NULL,
    source_text TEXT NOT NULL,
    score TEXT NOT NULL,
    level TEXT NOT NULL,
    methodology TEXT NOT NULL,
    degraded INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS sentiments_user_idx ON sentiments(user_id, seq);`

// Database persists both logs in a single SQLite file. Ordering uses the
// autoincrement sequence, never the timestamp, so equal timestamps stay stable.
type Database struct {
	db *sql.DB
}

// Open creates or opens the SQLite database at path and applies the schema.
func Open(path string) (*Database, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// sqlite serialises writers; one connection avoids SQLITE_BUSY under load.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}

	return &Database{db: db}, nil
}

// Close releases the underlying database handle.
func (d *Database) Close() error {
	return d.db.Close()
}

// AppendTurn inserts a conversation turn.
func (d *Database) AppendTurn(ctx context.Context, turn conversation.Turn) (conversation.Turn, error) {
	if turn.UserID == "" {
		return conversation.Turn{}, store.ErrUserRequired
	}
	if turn.ID == "" {
		turn.ID = uuid.NewString()
	}
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now().UTC()
	}

	const query = `
        INSERT INTO conversations (id, user_id, message, response, intent, created_at)
        VALUES (?, ?, ?, ?, ?, ?)`

	if _, err := d.db.ExecContext(ctx, query, turn.ID, turn.UserID, turn.Message, turn.Response, string(turn.Intent), turn.CreatedAt); err != nil {
		return conversation.Turn{}, fmt.Errorf("insert conversation: %w", err)
	}
	return turn, nil
}

// ListTurns returns the user's turns in insertion order.
func (d *Database) ListTurns(ctx context.Context, userID string) ([]conversation.Turn, error) {
	const query = `
        SELECT id, user_id, message, response, intent, created_at
        FROM conversations
        WHERE user_id = ?
        ORDER BY seq ASC`

	rows, err := d.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query conversations: %w", err)
	}
	defer rows.Close()

	turns := make([]conversation.Turn, 0)
	for rows.Next() {
		var turn conversation.Turn
		var intent string
		if err := rows.Scan(&turn.ID, &turn.UserID, &turn.Message, &turn.Response, &intent, &turn.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		turn.Intent = conversation.Intent(intent)
		turns = append(turns, turn)
	}
	return turns, rows.Err()
}

// ListUsers returns every user ID that has at least one stored turn.
func (d *Database) ListUsers(ctx context.Context) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT user_id FROM conversations GROUP BY user_id ORDER BY MIN(seq)`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, id)
	}
	return users, rows.Err()
}

// AppendRecord inserts a sentiment record.
func (d *Database) AppendRecord(ctx context.Context, record sentiment.Record) (sentiment.Record, error) {
	if record.UserID == "" {
		return sentiment.Record{}, store.ErrUserRequired
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	const query = `
        INSERT INTO sentiments (id, user_id, source_text, score, level, methodology, degraded, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := d.db.ExecContext(ctx, query,
		record.ID, record.UserID, record.SourceText, string(record.Score),
		record.Level, record.Methodology, record.Degraded, record.CreatedAt)
	if err != nil {
		return sentiment.Record{}, fmt.Errorf("insert sentiment: %w", err)
	}
	return record, nil
}

// LatestRecord returns the most recently inserted record for the user.
func (d *Database) LatestRecord(ctx context.Context, userID string) (sentiment.Record, bool, error) {
	const query = `
        SELECT id, user_id, source_text, score, level, methodology, degraded, created_at
        FROM sentiments
        WHERE user_id = ?
        ORDER BY seq DESC
        LIMIT 1`

	record, err := scanRecord(d.db.QueryRowContext(ctx, query, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return sentiment.Record{}, false, nil
	}
	if err != nil {
		return sentiment.Record{}, false, fmt.Errorf("query latest sentiment: %w", err)
	}
	return record, true, nil
}

// ListRecords returns the user's records in insertion order.
func (d *Database) ListRecords(ctx context.Context, userID string) ([]sentiment.Record, error) {
	const query = `
        SELECT id, user_id, source_text, score, level, methodology, degraded, created_at
        FROM sentiments
        WHERE user_id = ?
        ORDER BY seq ASC`

	rows, err := d.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query sentiments: %w", err)
	}
	defer rows.Close()

	records := make([]sentiment.Record, 0)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sentiment: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (sentiment.Record, error) {
	var record sentiment.Record
	var score string
	err := row.Scan(&record.ID, &record.UserID, &record.SourceText, &score,
		&record.Level, &record.Methodology, &record.Degraded, &record.CreatedAt)
	if err != nil {
		return sentiment.Record{}, err
	}
	record.Score = sentiment.Score(score)
	return record, nil
}
