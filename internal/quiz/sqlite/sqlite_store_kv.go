package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"pores-quiz/internal/quiz"
)

func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(
		ctx,
		`SELECT value FROM kv_store WHERE key = ?`,
		key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, quiz.ErrKeyNotFound
		}
		return nil, err
	}
	return []byte(value), nil
}

// Put replaces the whole value in one statement, so readers never see a
// partially written leaderboard.
func (s *SQLiteStore) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO kv_store (key, value, updated_at_unix)
		 VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at_unix = excluded.updated_at_unix`,
		key,
		string(value),
		time.Now().UTC().UnixNano(),
	)
	return err
}
