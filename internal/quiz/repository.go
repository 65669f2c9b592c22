package quiz

import (
	"context"
	"errors"
)

var (
	ErrInvalidUsername    = errors.New("invalid username")
	ErrInvalidLabel       = errors.New("invalid statement label")
	ErrWrongScreen        = errors.New("operation not allowed on current screen")
	ErrAnswerLocked       = errors.New("answer already locked")
	ErrNotLocked          = errors.New("question has not been answered")
	ErrInvalidQuestionSet = errors.New("invalid question set")
	ErrKeyNotFound        = errors.New("key not found")
)

// KeyValueStore is the durable storage behind the leaderboard. Get returns
// ErrKeyNotFound when the key has never been written.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// ResultRecorder receives finished session results.
type ResultRecorder interface {
	Submit(ctx context.Context, entry LeaderboardEntry) ([]LeaderboardEntry, error)
}
