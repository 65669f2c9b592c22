package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"pores-quiz/internal/cli"
	"pores-quiz/internal/config"
	"pores-quiz/internal/logging"
	"pores-quiz/internal/quiz"
	"pores-quiz/internal/quiz/redisstore"
	"pores-quiz/internal/quiz/sqlite"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	envErr := godotenv.Load()

	cfg, err := config.Load(os.Args[1:], os.LookupEnv, os.Stderr)
	if err != nil {
		return err
	}

	logger := logging.New(os.Stderr, cfg.LogLevel)
	slog.SetDefault(logger)
	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		logger.Warn("failed to read .env file", "error", envErr)
	}

	ctx := context.Background()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("failed to close leaderboard store", "error", err)
		}
	}()

	board := quiz.NewLeaderboard(store, cfg.LeaderboardKey, logger)
	entries, err := board.Load(ctx)
	if err != nil {
		return err
	}
	logger.Debug("leaderboard ready", "backend", cfg.Backend, "entries", len(entries))

	questions, err := loadQuestions(cfg.QuestionsPath)
	if err != nil {
		return err
	}

	controller, err := quiz.NewController(quiz.ControllerConfig{
		Questions:    questions,
		Recorder:     board,
		TickInterval: cfg.TickInterval,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	return cli.Run(ctx, os.Stdin, os.Stdout, controller, cli.Options{Username: cfg.Username})
}

func openStore(ctx context.Context, cfg config.Config) (quiz.KeyValueStore, func() error, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		store, err := sqlite.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return store, store.Close, nil
	case config.BackendRedis:
		store := redisstore.New(cfg.RedisAddr)
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := store.Ping(pingCtx); err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		return store, store.Close, nil
	case config.BackendMemory:
		return quiz.NewMemoryStore(), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// loadQuestions returns nil for an empty path so the controller uses the
// built-in set.
func loadQuestions(path string) ([]quiz.Question, error) {
	if path == "" {
		return nil, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open questions: %w", err)
	}
	defer file.Close()

	return quiz.LoadQuestions(file)
}
