package redisstore

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"pores-quiz/internal/quiz"
)

// Store is a quiz.KeyValueStore on top of plain Redis strings.
type Store struct {
	client *redis.Client
}

func New(addr string) *Store {
	return NewWithClient(redis.NewClient(&redis.Options{
		Addr: addr,
	}))
}

func NewWithClient(client *redis.Client) *Store {
	return &Store{client: client}
}

// Ping verifies the server is reachable before the first session starts.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, quiz.ErrKeyNotFound
		}
		return nil, err
	}
	return value, nil
}

// Put stores value without expiry; the leaderboard lives until overwritten.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, key, value, 0).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}
