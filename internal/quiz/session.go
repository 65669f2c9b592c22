package quiz

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DateLayout matches the short numeric date a browser shows by default.
const DateLayout = "1/2/2006"

type Screen int

const (
	ScreenLogin Screen = iota
	ScreenLanding
	ScreenPlaying
	ScreenFinished
)

func (s Screen) String() string {
	switch s {
	case ScreenLogin:
		return "login"
	case ScreenLanding:
		return "landing"
	case ScreenPlaying:
		return "playing"
	case ScreenFinished:
		return "finished"
	default:
		return fmt.Sprintf("screen(%d)", int(s))
	}
}

type ControllerConfig struct {
	Questions    []Question
	Recorder     ResultRecorder
	Scheduler    Scheduler
	TickInterval time.Duration
	Now          func() time.Time
	Logger       *slog.Logger
}

// Result describes a finished session. SaveErr is set when the leaderboard
// could not be persisted; Leaderboard still holds the merged list.
type Result struct {
	Entry       LeaderboardEntry
	Correct     int
	Total       int
	Verdict     string
	Leaderboard []LeaderboardEntry
	SaveErr     error
}

// State is a read-only copy of the controller for rendering.
type State struct {
	Screen    Screen
	Username  string
	SessionID string
	Index     int
	Total     int
	Question  Question
	Selected  Label
	Locked    bool
	Correct   int
	Elapsed   int
	StartedAt time.Time
	Result    *Result
}

// AnsweredCorrectly reports whether the locked answer is the false statement.
func (s State) AnsweredCorrectly() bool {
	return s.Locked && s.Selected == s.Question.FalseLabel
}

// IsLastQuestion reports whether advancing will finish the session.
func (s State) IsLastQuestion() bool {
	return s.Index == s.Total-1
}

// Controller drives one player through login, repeated sessions and results.
// All methods are safe to call while the tick task is running.
type Controller struct {
	mu        sync.Mutex
	questions []Question
	recorder  ResultRecorder
	scheduler Scheduler
	interval  time.Duration
	now       func() time.Time
	logger    *slog.Logger
	log       *slog.Logger

	screen    Screen
	username  string
	sessionID string
	index     int
	selected  Label
	locked    bool
	correct   int
	elapsed   int
	startedAt time.Time
	result    *Result

	cancelTick func()
	tickGen    uint64
}

func NewController(cfg ControllerConfig) (*Controller, error) {
	if cfg.Recorder == nil {
		return nil, errors.New("result recorder is required")
	}

	questions := cfg.Questions
	if questions == nil {
		questions = DefaultQuestions()
	} else if err := ValidateQuestions(questions); err != nil {
		return nil, err
	}

	scheduler := cfg.Scheduler
	if scheduler == nil {
		scheduler = TickerScheduler{}
	}
	interval := cfg.TickInterval
	if interval <= 0 {
		interval = time.Second
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Controller{
		questions: questions,
		recorder:  cfg.Recorder,
		scheduler: scheduler,
		interval:  interval,
		now:       now,
		logger:    logger,
		log:       logger,
		screen:    ScreenLogin,
	}, nil
}

// Login stores the player name and moves to the landing screen.
func (c *Controller) Login(username string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.screen != ScreenLogin {
		return ErrWrongScreen
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrInvalidUsername
	}

	c.username = username
	c.screen = ScreenLanding
	c.logger.Info("player logged in", "username", username)
	return nil
}

// StartSession resets all per-session state and starts the clock on the
// first question. Valid from the landing and finished screens.
func (c *Controller) StartSession() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.screen != ScreenLanding && c.screen != ScreenFinished {
		return ErrWrongScreen
	}

	c.sessionID = uuid.NewString()
	c.log = c.logger.With("session_id", c.sessionID)
	c.index = 0
	c.correct = 0
	c.selected = ""
	c.locked = false
	c.elapsed = 0
	c.result = nil
	c.startedAt = c.now()
	c.screen = ScreenPlaying
	c.syncTimer()

	c.log.Info("session started", "username", c.username, "questions", len(c.questions))
	return nil
}

// SelectAnswer locks in label for the current question. Only the first
// selection on a question counts.
func (c *Controller) SelectAnswer(label Label) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.screen != ScreenPlaying {
		return ErrWrongScreen
	}
	if c.locked {
		return ErrAnswerLocked
	}
	label, err := ParseLabel(string(label))
	if err != nil {
		return err
	}

	question := c.questions[c.index]
	c.selected = label
	c.locked = true
	if label == question.FalseLabel {
		c.correct++
	}
	c.syncTimer()

	c.log.Debug("answer locked",
		"question_id", question.ID,
		"selected", string(label),
		"correct", label == question.FalseLabel,
		"elapsed", c.elapsed,
	)
	return nil
}

// Advance moves past an answered question, finishing the session after the
// last one.
func (c *Controller) Advance(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.screen != ScreenPlaying {
		return ErrWrongScreen
	}
	if !c.locked {
		return ErrNotLocked
	}

	if c.index < len(c.questions)-1 {
		c.index++
		c.selected = ""
		c.locked = false
		c.syncTimer()
		return nil
	}

	c.finish(ctx)
	return nil
}

// Close stops the tick task. The controller stays readable.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopTimer()
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	state := State{
		Screen:    c.screen,
		Username:  c.username,
		SessionID: c.sessionID,
		Index:     c.index,
		Total:     len(c.questions),
		Selected:  c.selected,
		Locked:    c.locked,
		Correct:   c.correct,
		Elapsed:   c.elapsed,
		StartedAt: c.startedAt,
	}
	if c.screen == ScreenPlaying {
		state.Question = c.questions[c.index]
	}
	if c.result != nil {
		result := *c.result
		result.Leaderboard = append([]LeaderboardEntry(nil), c.result.Leaderboard...)
		state.Result = &result
	}
	return state
}

func (c *Controller) finish(ctx context.Context) {
	c.stopTimer()

	score := Score(c.correct, c.elapsed)
	entry := LeaderboardEntry{
		Username: c.username,
		Score:    score,
		Time:     c.elapsed,
		Date:     c.now().Format(DateLayout),
	}

	board, err := c.recorder.Submit(ctx, entry)
	if err != nil {
		c.log.Error("failed to save leaderboard", "error", err)
	}

	c.result = &Result{
		Entry:       entry,
		Correct:     c.correct,
		Total:       len(c.questions),
		Verdict:     Verdict(c.correct),
		Leaderboard: board,
		SaveErr:     err,
	}
	c.screen = ScreenFinished

	c.log.Info("session finished",
		"score", score,
		"correct", c.correct,
		"elapsed", c.elapsed,
	)
}

// syncTimer keeps exactly one tick task alive while a question is open.
func (c *Controller) syncTimer() {
	running := c.screen == ScreenPlaying && !c.locked
	if !running {
		c.stopTimer()
		return
	}
	if c.cancelTick != nil {
		return
	}

	c.tickGen++
	gen := c.tickGen
	c.cancelTick = c.scheduler.Every(c.interval, func() {
		c.onTick(gen)
	})
}

func (c *Controller) stopTimer() {
	if c.cancelTick == nil {
		return
	}
	c.cancelTick()
	c.cancelTick = nil
	c.tickGen++
}

func (c *Controller) onTick(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Ticks from a cancelled task can still be in flight.
	if gen != c.tickGen || c.screen != ScreenPlaying || c.locked {
		return
	}
	c.elapsed++
}
