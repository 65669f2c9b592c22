package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"pores-quiz/internal/quiz"
)

const (
	title    = "Thinking in Pores"
	subtitle = "Subsurface Engineering Academy"
)

type Options struct {
	// Username logs in without prompting when set.
	Username string
}

// Run drives controller from line-based input until the player declines
// another session or input ends.
func Run(ctx context.Context, in io.Reader, out io.Writer, controller *quiz.Controller, opts Options) error {
	defer controller.Close()

	reader := bufio.NewReader(in)
	presetUsername := strings.TrimSpace(opts.Username)

	for {
		state := controller.State()

		var err error
		switch state.Screen {
		case quiz.ScreenLogin:
			err = runLogin(reader, out, controller, presetUsername)
			presetUsername = ""
		case quiz.ScreenLanding:
			err = runLanding(reader, out, controller, state)
		case quiz.ScreenPlaying:
			err = runQuestion(ctx, reader, out, controller, state)
		case quiz.ScreenFinished:
			var again bool
			again, err = runResults(reader, out, state)
			if err == nil && !again {
				return nil
			}
			if err == nil {
				err = controller.StartSession()
			}
		default:
			return fmt.Errorf("unexpected screen %s", state.Screen)
		}

		if errors.Is(err, io.EOF) {
			fmt.Fprintln(out)
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func runLogin(reader *bufio.Reader, out io.Writer, controller *quiz.Controller, preset string) error {
	fmt.Fprintf(out, "%s\n%s\n\n", title, subtitle)

	if preset != "" {
		if err := controller.Login(preset); err == nil {
			return nil
		}
	}

	for {
		fmt.Fprint(out, "Engineer ID / Username: ")
		line, err := readLine(reader)
		if err != nil {
			return err
		}

		err = controller.Login(line)
		if errors.Is(err, quiz.ErrInvalidUsername) {
			fmt.Fprintln(out, "A username is required.")
			continue
		}
		return err
	}
}

func runLanding(reader *bufio.Reader, out io.Writer, controller *quiz.Controller, state quiz.State) error {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Welcome back, %s\n", state.Username)
	fmt.Fprintf(out, "%s - Two Truths and a Lie\n\n", title)
	fmt.Fprintln(out, "Test your intuition on subsurface flow. Each round contains two correct")
	fmt.Fprintln(out, "statements and one subtle misconception.")
	fmt.Fprintln(out, "Timer starts upon launching Question 1.")
	fmt.Fprintln(out)
	fmt.Fprint(out, "Press Enter to start the learning session. ")

	if _, err := readLine(reader); err != nil {
		return err
	}
	return controller.StartSession()
}

func runQuestion(ctx context.Context, reader *bufio.Reader, out io.Writer, controller *quiz.Controller, state quiz.State) error {
	printQuestion(out, state)

	for {
		fmt.Fprint(out, "Identify the fallacy (A-C): ")
		line, err := readLine(reader)
		if err != nil {
			return err
		}

		label, err := quiz.ParseLabel(line)
		if err != nil {
			fmt.Fprintln(out, "Invalid input. Please enter a letter A-C.")
			continue
		}
		if err := controller.SelectAnswer(label); err != nil {
			return err
		}
		break
	}

	answered := controller.State()
	printFeedback(out, answered)

	next := "Next Challenge"
	if answered.IsLastQuestion() {
		next = "Final Results"
	}
	fmt.Fprintf(out, "Press Enter for %s. ", next)
	if _, err := readLine(reader); err != nil {
		return err
	}
	return controller.Advance(ctx)
}

func runResults(reader *bufio.Reader, out io.Writer, state quiz.State) (bool, error) {
	result := state.Result
	if result == nil {
		return false, errors.New("finished session has no result")
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Analysis Complete")
	fmt.Fprintln(out, "Misconception Detection Report")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Score: %d\n", result.Entry.Score)
	fmt.Fprintf(out, "Correct Lies Spotted: %d/%d\n", result.Correct, result.Total)
	fmt.Fprintf(out, "Total Time Taken: %ds\n", result.Entry.Time)
	fmt.Fprintf(out, "\"%s\"\n", result.Verdict)
	if result.SaveErr != nil {
		fmt.Fprintf(out, "warning: leaderboard could not be saved: %v\n", result.SaveErr)
	}
	fmt.Fprintln(out)
	printLeaderboard(out, result.Leaderboard)
	fmt.Fprintln(out)

	return promptYesNo(reader, out, "Run another session? (yes/no): ")
}

func printQuestion(out io.Writer, state quiz.State) {
	question := state.Question

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Round %d of %d | %ds elapsed | %s %s\n",
		state.Index+1,
		state.Total,
		state.Elapsed,
		question.Icon,
		question.Difficulty,
	)
	fmt.Fprintf(out, "%s\n\n", question.Topic)
	for _, label := range quiz.Labels {
		fmt.Fprintf(out, "%s. %s\n", label, question.Statement(label))
	}
	fmt.Fprintln(out)
}

func printFeedback(out io.Writer, state quiz.State) {
	fmt.Fprintln(out)
	if state.AnsweredCorrectly() {
		fmt.Fprintln(out, "Well done! You spotted the lie.")
	} else {
		fmt.Fprintf(out, "The lie was actually Statement %s.\n", state.Question.FalseLabel)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Technical Briefing")
	fmt.Fprintln(out, state.Question.Explanation)
	fmt.Fprintln(out)
}

func printLeaderboard(out io.Writer, entries []quiz.LeaderboardEntry) {
	fmt.Fprintln(out, "Leaderboard")
	if len(entries) == 0 {
		fmt.Fprintln(out, "No results yet.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tPlayer\tScore\tTime\tDate")
	for idx, entry := range entries {
		fmt.Fprintf(w, "%d\t%s\t%d\t%ds\t%s\n", idx+1, entry.Username, entry.Score, entry.Time, entry.Date)
	}
	_ = w.Flush()
}

func promptYesNo(reader *bufio.Reader, out io.Writer, prompt string) (bool, error) {
	for {
		fmt.Fprint(out, prompt)
		line, err := readLine(reader)
		if err != nil {
			return false, err
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		switch answer {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		default:
			fmt.Fprintln(out, "Please answer yes or no.")
		}
	}
}

// readLine returns io.EOF only once no input is left; a final line without a
// trailing newline is still delivered.
func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}
