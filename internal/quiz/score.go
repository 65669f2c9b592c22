package quiz

import "github.com/shopspring/decimal"

var (
	pointsPerCorrect = decimal.NewFromInt(10)
	timeBudget       = decimal.NewFromInt(100)
	timeDivisor      = decimal.NewFromInt(2)
)

// Score computes max(0, round(10*correct + (100-elapsed)/2)). Half points
// round away from zero.
func Score(correct, elapsedSeconds int) int {
	raw := pointsPerCorrect.Mul(decimal.NewFromInt(int64(correct))).
		Add(timeBudget.Sub(decimal.NewFromInt(int64(elapsedSeconds))).Div(timeDivisor))

	rounded := raw.Round(0)
	if rounded.IsNegative() {
		return 0
	}
	return int(rounded.IntPart())
}

// Verdict is the one-line summary shown with the final score.
func Verdict(correct int) string {
	switch {
	case correct >= 8:
		return "Strong intuition"
	case correct >= 5:
		return "Good foundation, some traps remain"
	default:
		return "Revisit fundamentals"
	}
}
