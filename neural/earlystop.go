package neural

import "math"

// earlyStopping tracks validation loss across epochs and decides when
// training should stop: after `rounds` consecutive epochs without
// improvement, keeping the best-seen epoch so its weights can be restored.
type earlyStopping struct {
	rounds          int
	bestScore       float64
	bestEpoch       int
	roundsNoImprove int
	enabled         bool
}

func newEarlyStopping(rounds int) *earlyStopping {
	if rounds <= 0 {
		return &earlyStopping{enabled: false, bestScore: math.Inf(1), bestEpoch: -1}
	}
	return &earlyStopping{
		rounds:    rounds,
		bestScore: math.Inf(1),
		bestEpoch: -1,
		enabled:   true,
	}
}

// update records the validation loss of an epoch and reports two things:
// whether the epoch improved on the best seen, and whether training should
// stop now.
func (es *earlyStopping) update(epoch int, score float64) (improved, stop bool) {
	improved = score < es.bestScore
	if improved {
		es.bestScore = score
		es.bestEpoch = epoch
		es.roundsNoImprove = 0
	} else {
		es.roundsNoImprove++
	}
	if !es.enabled {
		return improved, false
	}
	return improved, es.roundsNoImprove >= es.rounds
}
