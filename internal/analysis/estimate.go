// internal/analysis/estimate.go
//
// Post-game metrics derived from the consistent set. Each metric replays the
// history itself; only the set's size is needed, so it is never materialized.
//   - WinProbability:     share of the range already eliminated.
//   - MinAdditionalTries: worst-case binary-search comparisons still needed.
//   - Analyze:            both metrics plus a coarse Outcome tag.

package analysis

import (
	"math"
	"math/bits"
)

// Outcome classifies the consistent set.
type Outcome string

const (
	OutcomeInProgress    Outcome = "in_progress"   // more than one candidate left
	OutcomeDetermined    Outcome = "determined"    // exactly one candidate left
	OutcomeContradictory Outcome = "contradictory" // feedback excluded everything
)

// Estimate is what the game layer renders after a game.
type Estimate struct {
	WinProbability     float64 `json:"winProbability"`
	MinAdditionalTries int     `json:"minAdditionalTries"`
	Remaining          int     `json:"remaining"`
	RangeSize          int     `json:"rangeSize"`
	Outcome            Outcome `json:"outcome"`
}

// WinProbability returns 1 - |ConsistentSet| / (upper - lower + 1), clamped
// to [0, 1]. An empty history yields exactly 0.
func WinProbability(history []int, secret, lower, upper int) float64 {
	if lower > upper {
		return 0
	}
	total := float64(uint(upper-lower)) + 1
	r := 0.0
	if d, ok := width(history, secret, lower, upper); ok {
		r = float64(d) + 1
	}
	p := 1 - r/total
	return math.Max(0, math.Min(1, p))
}

// MinAdditionalTries returns ceil(log2(r)) for r remaining candidates, and 0
// when r <= 1 (secret pinned down, or history self-contradictory).
func MinAdditionalTries(history []int, secret, lower, upper int) int {
	d, ok := width(history, secret, lower, upper)
	if !ok {
		return 0
	}
	// ceil(log2(d+1)) == bit length of d; exact in integers, 64 for the full range.
	return bits.Len(d)
}

// Analyze bundles both metrics for one history. Remaining and RangeSize
// saturate at math.MaxInt for windows wider than an int can count.
func Analyze(history []int, secret, lower, upper int) Estimate {
	d, ok := width(history, secret, lower, upper)
	rangeSize := 0
	if lower <= upper {
		rangeSize = count(uint(upper-lower), true)
	}
	return Estimate{
		WinProbability:     WinProbability(history, secret, lower, upper),
		MinAdditionalTries: MinAdditionalTries(history, secret, lower, upper),
		Remaining:          count(d, ok),
		RangeSize:          rangeSize,
		Outcome:            classify(d, ok),
	}
}

func classify(d uint, ok bool) Outcome {
	switch {
	case !ok:
		return OutcomeContradictory
	case d == 0:
		return OutcomeDetermined
	default:
		return OutcomeInProgress
	}
}
