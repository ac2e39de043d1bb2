// Package sqlite provides the durable local attempt cache: a single-file
// database keyed by quiz id, playing the role browser localStorage plays for
// the web client. All reads are best effort.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"quiz-taker/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS attempts (
	quiz_id      TEXT PRIMARY KEY,
	data         TEXT NOT NULL,
	completed_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS state (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`

const activeQuizKey = "active_quiz"

// AttemptStore persists completed attempts in a local SQLite file.
type AttemptStore struct {
	db *sql.DB
}

// Open creates or opens the attempt database at path.
func Open(path string) (*AttemptStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open attempt store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init attempt store: %w", err)
	}
	return &AttemptStore{db: db}, nil
}

func (s *AttemptStore) Close() error {
	return s.db.Close()
}

func (s *AttemptStore) Result(ctx context.Context, quizID string) (domain.CompletedAttempt, bool) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM attempts WHERE quiz_id = ?`, quizID).Scan(&raw)
	if err != nil {
		return domain.CompletedAttempt{}, false
	}
	var att domain.CompletedAttempt
	if err := json.Unmarshal([]byte(raw), &att); err != nil {
		return domain.CompletedAttempt{}, false
	}
	return att, true
}

func (s *AttemptStore) SaveResult(ctx context.Context, att domain.CompletedAttempt) error {
	data, err := json.Marshal(att)
	if err != nil {
		return fmt.Errorf("encode attempt: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO attempts (quiz_id, data, completed_at) VALUES (?, ?, ?)
		 ON CONFLICT(quiz_id) DO UPDATE SET data = excluded.data, completed_at = excluded.completed_at`,
		att.QuizID, string(data), att.CompletedAt.UTC().Format("2006-01-02T15:04:05Z07:00"))
	if err != nil {
		return fmt.Errorf("save attempt: %w", err)
	}
	return nil
}

func (s *AttemptStore) ActiveQuiz(ctx context.Context) (string, bool) {
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM state WHERE key = ?`, activeQuizKey).Scan(&id)
	if err != nil || id == "" {
		return "", false
	}
	return id, true
}

func (s *AttemptStore) SetActiveQuiz(ctx context.Context, quizID string) {
	// Best-effort marker, same contract as the other stores.
	_, _ = s.db.ExecContext(ctx,
		`INSERT INTO state (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		activeQuizKey, quizID)
}
