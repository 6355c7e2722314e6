// internal/game/engine.go
//
// Core game engine for a single number-guessing session.
// Responsibilities:
//   - Create new games with a uniformly drawn secret.
//   - Validate and apply guesses (range, duplicates, finished games).
//   - Answer each guess with too_low / too_high / correct.
//   - Track state transitions: playing → won/lost.
//   - Hand the guess history to the analysis package for post-game estimates.
//
// Notes:
//   - The secret comes from crypto/rand, like every other identifier here.
//   - Validation lives here so the analysis package can trust its inputs.
package game

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"slices"

	"github.com/robalobadob/numguess/internal/analysis"
)

// New constructs a game with a random secret in [s.Lower, s.Upper].
func New(s Settings) (*Game, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return newGame(s, RandomSecret(s.Lower, s.Upper)), nil
}

// NewWithSecret constructs a game around a fixed secret (tests, daily mode).
func NewWithSecret(s Settings, secret int) (*Game, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if !s.Contains(secret) {
		return nil, fmt.Errorf("secret %d: %w", secret, ErrOutOfRange)
	}
	return newGame(s, secret), nil
}

func newGame(s Settings, secret int) *Game {
	return &Game{
		ID:       randomID(),
		Secret:   secret,
		Settings: s,
		Guesses:  []int{},
	}
}

// ApplyGuess validates a guess and records it, mutating the game state.
// Returns: the feedback, the new state string ("playing"/"won"/"lost"), or an error.
//
// Validation rules:
//   - Game must not be finished.
//   - Guess must lie within the game's range.
//   - Guess must not repeat an earlier one.
//
// Rejected guesses do not consume an attempt.
//
// State transitions:
//   - Guess equals the secret → Finished = true, Won = true.
//   - Else if the number of guesses reaches MaxAttempts → Finished = true (loss).
func (g *Game) ApplyGuess(guess int) (Feedback, string, error) {
	if g.Finished {
		return "", g.State(), ErrFinished
	}
	if !g.Settings.Contains(guess) {
		return "", g.State(), ErrOutOfRange
	}
	if slices.Contains(g.Guesses, guess) {
		return "", g.State(), ErrDuplicate
	}

	fb := Compare(guess, g.Secret)
	g.Guesses = append(g.Guesses, guess)

	if fb == FeedbackCorrect {
		g.Finished, g.Won = true, true
	} else if len(g.Guesses) >= g.Settings.MaxAttempts {
		g.Finished = true
	}
	return fb, g.State(), nil
}

// Compare gives the feedback for guess against secret.
func Compare(guess, secret int) Feedback {
	switch {
	case guess < secret:
		return FeedbackTooLow
	case guess > secret:
		return FeedbackTooHigh
	default:
		return FeedbackCorrect
	}
}

// State reports a coarse string representation of the current game state.
func (g *Game) State() string {
	if g.Finished {
		if g.Won {
			return StateWon
		}
		return StateLost
	}
	return StatePlaying
}

// AttemptsLeft is the number of guesses still allowed.
func (g *Game) AttemptsLeft() int {
	if g.Finished {
		return 0
	}
	return g.Settings.MaxAttempts - len(g.Guesses)
}

// RevealedSecret returns the secret once the game is over.
func (g *Game) RevealedSecret() (int, bool) {
	if !g.Finished {
		return 0, false
	}
	return g.Secret, true
}

// Analysis estimates how much the guesses so far narrowed the range.
// The winning guess, if any, is left out: it ended the game rather than
// producing feedback.
func (g *Game) Analysis() analysis.Estimate {
	history := g.Guesses
	if g.Won && len(history) > 0 {
		history = history[:len(history)-1]
	}
	return analysis.Analyze(history, g.Secret, g.Settings.Lower, g.Settings.Upper)
}

// RandomSecret draws uniformly from [lower, upper] using crypto/rand.
// Falls back to lower if the entropy source fails or the range is empty.
func RandomSecret(lower, upper int) int {
	if lower >= upper {
		return lower
	}
	// uint distance is exact for any lower < upper; +1 happens in big.Int.
	size := new(big.Int).SetUint64(uint64(uint(upper - lower)))
	size.Add(size, big.NewInt(1))
	n, err := rand.Int(rand.Reader, size)
	if err != nil {
		return lower
	}
	return lower + int(n.Uint64())
}

// randomID returns a compact 16‑hex‑char identifier.
// Collisions are extremely unlikely given crypto/rand entropy.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
