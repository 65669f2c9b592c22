package cli

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"pores-quiz/internal/quiz"
)

// answerKey lists the false statement of each built-in question.
var answerKey = []string{"B", "A", "B", "A", "C", "B", "C", "B", "A", "B"}

type stoppedScheduler struct{}

func (stoppedScheduler) Every(time.Duration, func()) func() { return func() {} }

func newTestController(t *testing.T, board *quiz.Leaderboard) *quiz.Controller {
	t.Helper()

	controller, err := quiz.NewController(quiz.ControllerConfig{
		Recorder:  board,
		Scheduler: stoppedScheduler{},
		Now:       func() time.Time { return time.Date(2026, time.October, 16, 8, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("NewController failed: %v", err)
	}
	return controller
}

func sessionInput(answers []string) string {
	var builder strings.Builder
	builder.WriteString("\n") // start session
	for _, answer := range answers {
		builder.WriteString(answer + "\n")
		builder.WriteString("\n")
	}
	return builder.String()
}

func TestRunPerfectSession(t *testing.T) {
	board := quiz.NewLeaderboard(quiz.NewMemoryStore(), "", nil)
	controller := newTestController(t, board)

	input := "\nAda\n" + sessionInput(append([]string{"x", "b"}, answerKey[1:]...)) + "no\n"
	var out bytes.Buffer
	if err := Run(context.Background(), strings.NewReader(input), &out, controller, Options{}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	text := out.String()
	for _, want := range []string{
		"A username is required.",
		"Welcome back, Ada",
		"Round 1 of 10",
		"Pressure Regimes",
		"Invalid input. Please enter a letter A-C.",
		"Well done! You spotted the lie.",
		"Technical Briefing",
		"Press Enter for Final Results.",
		"Score: 150",
		"Correct Lies Spotted: 10/10",
		"Total Time Taken: 0s",
		"\"Strong intuition\"",
		"10/16/2026",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "The lie was actually") {
		t.Fatalf("unexpected wrong-answer feedback:\n%s", text)
	}

	entries := board.Entries()
	if len(entries) != 1 || entries[0].Username != "Ada" || entries[0].Score != 150 {
		t.Fatalf("unexpected leaderboard: %+v", entries)
	}
	if state := controller.State(); state.Screen != quiz.ScreenFinished {
		t.Fatalf("expected finished screen, got %s", state.Screen)
	}
}

func TestRunWrongAnswersShowTheLie(t *testing.T) {
	board := quiz.NewLeaderboard(quiz.NewMemoryStore(), "", nil)
	controller := newTestController(t, board)

	answers := make([]string, len(answerKey))
	for idx := range answers {
		answers[idx] = "A"
	}
	input := sessionInput(answers) + "n\n"

	var out bytes.Buffer
	if err := Run(context.Background(), strings.NewReader(input), &out, controller, Options{Username: "Grace"}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	text := out.String()
	if strings.Contains(text, "Engineer ID / Username") {
		t.Fatalf("preset username should skip the prompt:\n%s", text)
	}
	if !strings.Contains(text, "The lie was actually Statement B.") {
		t.Fatalf("expected lie reveal:\n%s", text)
	}
	if !strings.Contains(text, "Correct Lies Spotted: 3/10") || !strings.Contains(text, "\"Revisit fundamentals\"") {
		t.Fatalf("unexpected summary:\n%s", text)
	}
	if entries := board.Entries(); len(entries) != 1 || entries[0].Score != quiz.Score(3, 0) {
		t.Fatalf("unexpected leaderboard: %+v", entries)
	}
}

func TestRunAnotherSessionAddsSecondEntry(t *testing.T) {
	board := quiz.NewLeaderboard(quiz.NewMemoryStore(), "", nil)
	controller := newTestController(t, board)

	wrong := make([]string, len(answerKey))
	for idx := range wrong {
		wrong[idx] = "C"
	}
	// Second session: "Enter" is not needed, StartSession happens on "yes".
	second := strings.TrimPrefix(sessionInput(answerKey), "\n")
	input := sessionInput(wrong) + "maybe\nyes\n" + second + "no\n"

	var out bytes.Buffer
	if err := Run(context.Background(), strings.NewReader(input), &out, controller, Options{Username: "Ada"}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !strings.Contains(out.String(), "Please answer yes or no.") {
		t.Fatalf("expected yes/no retry hint:\n%s", out.String())
	}

	entries := board.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected two leaderboard entries, got %+v", entries)
	}
	if entries[0].Score != 150 || entries[1].Score != quiz.Score(2, 0) {
		t.Fatalf("unexpected ordering: %+v", entries)
	}
}

func TestRunStopsCleanlyOnEOF(t *testing.T) {
	board := quiz.NewLeaderboard(quiz.NewMemoryStore(), "", nil)
	controller := newTestController(t, board)

	var out bytes.Buffer
	input := "Ada\n\nB\n"
	if err := Run(context.Background(), strings.NewReader(input), &out, controller, Options{}); err != nil {
		t.Fatalf("Run returned error on EOF: %v", err)
	}

	state := controller.State()
	if state.Screen != quiz.ScreenPlaying || !state.Locked || state.Correct != 1 {
		t.Fatalf("unexpected state after EOF: %+v", state)
	}
	if len(board.Entries()) != 0 {
		t.Fatalf("no result should be recorded for an abandoned session")
	}
}

func TestPromptYesNoRetriesUntilValid(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("maybe\nyes\n"))
	var out bytes.Buffer

	ok, err := promptYesNo(reader, &out, "continue? ")
	if err != nil {
		t.Fatalf("promptYesNo returned error: %v", err)
	}
	if !ok {
		t.Fatalf("expected yes result")
	}
	if !strings.Contains(out.String(), "Please answer yes or no.") {
		t.Fatalf("expected retry hint in output, got: %s", out.String())
	}
}

func TestReadLineDeliversFinalUnterminatedLine(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader(" last "))

	line, err := readLine(reader)
	if err != nil || line != "last" {
		t.Fatalf("readLine = (%q, %v), want (last, nil)", line, err)
	}
	if _, err := readLine(reader); err == nil {
		t.Fatalf("expected EOF after final line")
	}
}

func TestPrintLeaderboardEmpty(t *testing.T) {
	var out bytes.Buffer
	printLeaderboard(&out, nil)

	if !strings.Contains(out.String(), "No results yet.") {
		t.Fatalf("unexpected output: %s", out.String())
	}
}
