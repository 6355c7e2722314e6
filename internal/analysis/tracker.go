// internal/analysis/tracker.go
//
// Search-space narrowing for a number-guessing game.
// Responsibilities:
//   - Replay a guess history against the secret and return the candidates that
//     are still consistent with every "too low" / "too high" answer.
//
// Notes:
//   - Nothing is cached: the set is derived from scratch on every call.
//   - Any lower <= upper is accepted, up to the full int range; sizes are
//     computed as a uint distance so wide windows never wrap.
//   - Inputs are trusted. Guesses and secret outside [lower, upper] are the
//     caller's problem; the result is then simply whatever the replay yields.

package analysis

import "math"

// ConsistentSet returns, in ascending order, every integer in [lower, upper]
// not excluded by the feedback the history received.
//
// A guess below the secret drops every candidate <= guess, a guess above it
// drops every candidate >= guess. A guess equal to the secret prunes nothing.
func ConsistentSet(history []int, secret, lower, upper int) []int {
	lo, hi := bounds(history, secret, lower, upper)
	if lo > hi {
		return []int{}
	}
	out := make([]int, 0, min(uint(hi-lo), 1<<16)+1)
	for x := lo; ; x++ {
		out = append(out, x)
		if x == hi {
			break
		}
	}
	return out
}

// remaining is |ConsistentSet| without materializing the set, saturated at
// math.MaxInt.
func remaining(history []int, secret, lower, upper int) int {
	d, ok := width(history, secret, lower, upper)
	return count(d, ok)
}

// width returns size-1 of the consistent window, and false when the window is
// empty. size-1 fits in a uint even for [math.MinInt, math.MaxInt].
func width(history []int, secret, lower, upper int) (uint, bool) {
	lo, hi := bounds(history, secret, lower, upper)
	if lo > hi {
		return 0, false
	}
	return uint(hi - lo), true
}

func count(d uint, ok bool) int {
	switch {
	case !ok:
		return 0
	case d >= math.MaxInt:
		return math.MaxInt
	default:
		return int(d) + 1
	}
}

// bounds folds every constraint into a single inclusive window. Each "too low"
// raises the floor, each "too high" lowers the ceiling, so the fold is order
// independent. g+1 and g-1 cannot overflow: a guess below the secret is never
// math.MaxInt, one above it never math.MinInt.
func bounds(history []int, secret, lower, upper int) (lo, hi int) {
	lo, hi = lower, upper
	for _, g := range history {
		switch {
		case g < secret:
			if g+1 > lo {
				lo = g + 1
			}
		case g > secret:
			if g-1 < hi {
				hi = g - 1
			}
		}
	}
	return lo, hi
}
