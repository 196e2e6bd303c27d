package pipeline

import (
	"fmt"
	"math"

	"demandcast/forecast"
)

// Training quality labels derived from the final validation loss.
const (
	EvalGood         = "good"
	EvalMedium       = "medium"
	EvalPoor         = "poor"
	EvalInsufficient = "insufficient data"
)

// LastLosses holds the last epoch of each loss curve. Pointers keep the
// "never observed" case distinguishable from an observed zero in JSON.
type LastLosses struct {
	Loss    *float64 `json:"loss"`
	ValLoss *float64 `json:"val_loss"`
}

// ArchSummary is the human-readable training verdict for one architecture.
type ArchSummary struct {
	Last  LastLosses `json:"last"`
	Desc1 string     `json:"desc_1"`
	Desc2 string     `json:"desc_2"`
	Eval  string     `json:"eval"`
}

// round4 rounds to four decimal places for display.
func round4(x float64) float64 {
	return math.Round(x*1e4) / 1e4
}

func lastOf(xs []float64) *float64 {
	if len(xs) == 0 {
		return nil
	}
	v := round4(xs[len(xs)-1])
	return &v
}

// rateValLoss maps a final validation loss on standardized targets to a
// quality label.
func rateValLoss(v, goodMax, mediumMax float64) string {
	switch {
	case v < goodMax:
		return EvalGood
	case v < mediumMax:
		return EvalMedium
	default:
		return EvalPoor
	}
}

// summarizeHistory rates one training history. A history without a
// validation curve cannot be rated and is reported as such rather than
// guessed at.
func summarizeHistory(h forecast.TrainingHistory, goodMax, mediumMax float64) ArchSummary {
	out := ArchSummary{Last: LastLosses{Loss: lastOf(h.Loss), ValLoss: lastOf(h.ValLoss)}}
	if out.Last.ValLoss == nil {
		out.Eval = EvalInsufficient
		out.Desc1 = "No validation loss was recorded."
		out.Desc2 = "Not enough data to evaluate training quality."
		return out
	}
	loss := math.NaN()
	if out.Last.Loss != nil {
		loss = *out.Last.Loss
	}
	out.Eval = rateValLoss(*out.Last.ValLoss, goodMax, mediumMax)
	out.Desc1 = fmt.Sprintf("loss=%.4f, val_loss=%.4f", loss, *out.Last.ValLoss)
	out.Desc2 = fmt.Sprintf("Training quality is %s based on the final validation loss.", out.Eval)
	return out
}
