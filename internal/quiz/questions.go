package quiz

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
)

// StandardQuestionCount is the length of every playable question set.
const StandardQuestionCount = 10

// Label identifies one of the three statements of a question.
type Label string

const (
	LabelA Label = "A"
	LabelB Label = "B"
	LabelC Label = "C"
)

// Labels lists statement labels in display order.
var Labels = []Label{LabelA, LabelB, LabelC}

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
)

type Statements struct {
	A string `json:"A" validate:"required"`
	B string `json:"B" validate:"required"`
	C string `json:"C" validate:"required"`
}

// Question is one "two truths and a lie" round. FalseLabel names the
// statement the player has to spot.
type Question struct {
	ID          int        `json:"id" validate:"required,gt=0"`
	Topic       string     `json:"topic" validate:"required"`
	Difficulty  Difficulty `json:"difficultyLabel" validate:"oneof=Beginner Intermediate Advanced"`
	Icon        string     `json:"difficultyIcon"`
	Statements  Statements `json:"statements"`
	FalseLabel  Label      `json:"incorrect" validate:"oneof=A B C"`
	Explanation string     `json:"explanation" validate:"required"`
}

// Statement returns the text behind label, or "" for an unknown label.
func (q Question) Statement(label Label) string {
	switch label {
	case LabelA:
		return q.Statements.A
	case LabelB:
		return q.Statements.B
	case LabelC:
		return q.Statements.C
	default:
		return ""
	}
}

//go:embed questions.json
var defaultQuestionsJSON []byte

var questionValidator = validator.New()

// DefaultQuestions returns the built-in question set.
func DefaultQuestions() []Question {
	questions, err := LoadQuestions(bytes.NewReader(defaultQuestionsJSON))
	if err != nil {
		panic(fmt.Sprintf("embedded question set is invalid: %v", err))
	}
	return questions
}

// LoadQuestions decodes a JSON question set and validates it.
func LoadQuestions(r io.Reader) ([]Question, error) {
	var questions []Question
	if err := json.NewDecoder(r).Decode(&questions); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	if err := ValidateQuestions(questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func ValidateQuestions(questions []Question) error {
	if len(questions) != StandardQuestionCount {
		return fmt.Errorf("%w: expected %d questions, got %d", ErrInvalidQuestionSet, StandardQuestionCount, len(questions))
	}

	seen := make(map[int]struct{}, len(questions))
	for idx, question := range questions {
		if err := questionValidator.Struct(question); err != nil {
			return fmt.Errorf("%w: question %d: %v", ErrInvalidQuestionSet, idx+1, err)
		}
		if _, dup := seen[question.ID]; dup {
			return fmt.Errorf("%w: duplicate question id %d", ErrInvalidQuestionSet, question.ID)
		}
		seen[question.ID] = struct{}{}
	}
	return nil
}

// ParseLabel accepts a single letter in either case, surrounding space allowed.
func ParseLabel(input string) (Label, error) {
	letter := Label(strings.ToUpper(strings.TrimSpace(input)))
	for _, label := range Labels {
		if letter == label {
			return label, nil
		}
	}
	return "", ErrInvalidLabel
}
