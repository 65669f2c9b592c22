package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-playground/validator/v10"

	"pores-quiz/internal/quiz"
)

const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type Config struct {
	Username       string
	Backend        string        `validate:"oneof=sqlite redis memory"`
	SQLitePath     string        `validate:"required_if=Backend sqlite"`
	RedisAddr      string        `validate:"required_if=Backend redis"`
	LeaderboardKey string        `validate:"required"`
	QuestionsPath  string
	LogLevel       string        `validate:"oneof=debug info warn error"`
	TickInterval   time.Duration `validate:"gt=0"`
}

var configValidator = validator.New()

// Load parses args (without the program name). Flag defaults come from the
// environment; lookup is os.LookupEnv outside tests.
func Load(args []string, lookup func(string) (string, bool), output io.Writer) (Config, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	env := func(key, fallback string) string {
		if value, ok := lookup(key); ok && value != "" {
			return value
		}
		return fallback
	}

	defaultTick := time.Second
	if raw := env("QUIZ_TICK", ""); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid QUIZ_TICK %q: %w", raw, err)
		}
		defaultTick = parsed
	}

	var cfg Config
	fs := flag.NewFlagSet("pores-quiz", flag.ContinueOnError)
	if output != nil {
		fs.SetOutput(output)
	}
	fs.StringVar(&cfg.Username, "username", env("QUIZ_USERNAME", ""), "log in with this name instead of prompting")
	fs.StringVar(&cfg.Backend, "backend", env("QUIZ_BACKEND", BackendSQLite), "leaderboard storage: sqlite, redis or memory")
	fs.StringVar(&cfg.SQLitePath, "db", env("QUIZ_DB_PATH", "quiz.db"), "SQLite database file")
	fs.StringVar(&cfg.RedisAddr, "redis-addr", env("REDIS_ADDR", "127.0.0.1:6379"), "Redis address")
	fs.StringVar(&cfg.LeaderboardKey, "leaderboard-key", env("QUIZ_LEADERBOARD_KEY", quiz.DefaultLeaderboardKey), "storage key holding the leaderboard")
	fs.StringVar(&cfg.QuestionsPath, "questions", env("QUIZ_QUESTIONS", ""), "JSON question set (default: built-in)")
	fs.StringVar(&cfg.LogLevel, "log-level", env("LOG_LEVEL", "info"), "debug, info, warn or error")
	fs.DurationVar(&cfg.TickInterval, "tick", defaultTick, "clock resolution for elapsed time")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := configValidator.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
