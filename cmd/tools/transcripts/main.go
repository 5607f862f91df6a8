// Command transcripts prints stored conversations from the SQLite store.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/manamitra/companion/backend/internal/config"
	"github.com/manamitra/companion/backend/internal/model/conversation"
	"github.com/manamitra/companion/backend/internal/store/sqlite"
)

type transcriptSource interface {
	ListUsers(ctx context.Context) ([]string, error)
	ListTurns(ctx context.Context, userID string) ([]conversation.Turn, error)
}

func main() {
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file loaded", zap.Error(err))
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	dbPath := flag.String("db", cfg.Storage.SQLitePath, "path to the SQLite database")
	userID := flag.String("user", "", "only print this user's conversation")
	asJSON := flag.Bool("json", false, "print turns as JSON lines")
	timeout := flag.Duration("timeout", 30*time.Second, "overall timeout")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	db, err := sqlite.Open(*dbPath)
	if err != nil {
		logger.Fatal("failed to open database", zap.String("path", *dbPath), zap.Error(err))
	}
	defer db.Close()

	if err := dump(ctx, os.Stdout, db, *userID, *asJSON); err != nil {
		logger.Fatal("failed to dump transcripts", zap.Error(err))
	}
}

func dump(ctx context.Context, w io.Writer, src transcriptSource, userID string, asJSON bool) error {
	users := []string{userID}
	if userID == "" {
		var err error
		if users, err = src.ListUsers(ctx); err != nil {
			return fmt.Errorf("list users: %w", err)
		}
	}

	enc := json.NewEncoder(w)
	for _, user := range users {
		turns, err := src.ListTurns(ctx, user)
		if err != nil {
			return fmt.Errorf("list turns for %s: %w", user, err)
		}

		if asJSON {
			for _, turn := range turns {
				if err := enc.Encode(turn); err != nil {
					return err
				}
			}
			continue
		}

		fmt.Fprintf(w, "=== %s (%d turns) ===\n", user, len(turns))
		for _, turn := range turns {
			fmt.Fprintf(w, "[%s] (%s)\nYou: %s\nAssistant: %s\n\n",
				turn.CreatedAt.Format(time.RFC3339), turn.Intent, turn.Message, turn.Response)
		}
	}
	return nil
}
