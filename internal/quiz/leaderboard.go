package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
)

const (
	DefaultLeaderboardKey = "blunt_coach_leaderboard"
	LeaderboardLimit      = 10
)

type LeaderboardEntry struct {
	Username string `json:"username"`
	Score    int    `json:"score"`
	Time     int    `json:"time"`
	Date     string `json:"date"`
}

// Leaderboard keeps the top results in memory and writes the whole list back
// to its KeyValueStore after every change.
type Leaderboard struct {
	mu      sync.Mutex
	store   KeyValueStore
	key     string
	entries []LeaderboardEntry
	logger  *slog.Logger
}

func NewLeaderboard(store KeyValueStore, key string, logger *slog.Logger) *Leaderboard {
	if strings.TrimSpace(key) == "" {
		key = DefaultLeaderboardKey
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Leaderboard{
		store:  store,
		key:    key,
		logger: logger,
	}
}

// Load replaces the in-memory list with the persisted one. A missing key or a
// payload that does not decode leaves the board empty; only storage failures
// are returned.
func (l *Leaderboard) Load(ctx context.Context) ([]LeaderboardEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = nil

	payload, err := l.store.Get(ctx, l.key)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return l.snapshot(), nil
		}
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}

	var entries []LeaderboardEntry
	if err := json.Unmarshal(payload, &entries); err != nil {
		l.logger.Warn("failed to parse leaderboard, starting empty", "key", l.key, "error", err)
		return l.snapshot(), nil
	}

	l.entries = rankEntries(entries)
	l.logger.Debug("leaderboard loaded", "key", l.key, "entries", len(l.entries))
	return l.snapshot(), nil
}

// Submit merges entry into the board and persists the result. The returned
// list reflects the merge even when persisting fails.
func (l *Leaderboard) Submit(ctx context.Context, entry LeaderboardEntry) ([]LeaderboardEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	merged := make([]LeaderboardEntry, 0, len(l.entries)+1)
	merged = append(merged, l.entries...)
	merged = append(merged, entry)
	l.entries = rankEntries(merged)

	payload, err := json.Marshal(l.entries)
	if err != nil {
		return l.snapshot(), fmt.Errorf("encode leaderboard: %w", err)
	}
	if err := l.store.Put(ctx, l.key, payload); err != nil {
		return l.snapshot(), fmt.Errorf("write leaderboard: %w", err)
	}

	l.logger.Info("leaderboard updated",
		"username", entry.Username,
		"score", entry.Score,
		"entries", len(l.entries),
	)
	return l.snapshot(), nil
}

// Entries returns a copy of the current list.
func (l *Leaderboard) Entries() []LeaderboardEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshot()
}

func (l *Leaderboard) snapshot() []LeaderboardEntry {
	out := make([]LeaderboardEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// rankEntries orders by score, highest first. Equal scores keep their
// insertion order.
func rankEntries(entries []LeaderboardEntry) []LeaderboardEntry {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	return applyLeaderboardLimit(entries, LeaderboardLimit)
}

func applyLeaderboardLimit(entries []LeaderboardEntry, limit int) []LeaderboardEntry {
	if limit <= 0 || limit >= len(entries) {
		return entries
	}
	return entries[:limit]
}
