// internal/game/types.go
//
// Core type definitions for the number-guessing engine.
// Defines:
//   - Feedback: directional answer to a single guess.
//   - Settings: range and attempt budget for one game.
//   - Game: state for a single in-progress or finished game.

package game

import (
	"errors"
	"fmt"
	"math"
)

// Feedback tells the player where the secret lies relative to a guess.
//   - "too_low":  secret is greater than the guess.
//   - "too_high": secret is smaller than the guess.
//   - "correct":  guess matched the secret.
type Feedback string

const (
	FeedbackTooLow  Feedback = "too_low"
	FeedbackTooHigh Feedback = "too_high"
	FeedbackCorrect Feedback = "correct"
)

// Coarse game states reported to callers.
const (
	StatePlaying = "playing"
	StateWon     = "won"
	StateLost    = "lost"
)

var (
	ErrFinished        = errors.New("game finished")
	ErrOutOfRange      = errors.New("guess out of range")
	ErrDuplicate       = errors.New("already guessed")
	ErrInvalidRange    = errors.New("invalid range")
	ErrInvalidAttempts = errors.New("attempts must be at least 1")
)

// Settings fixes the inclusive range and the number of guesses allowed.
type Settings struct {
	Lower       int `json:"lower"`
	Upper       int `json:"upper"`
	MaxAttempts int `json:"attempts"`
}

// DefaultSettings mirrors the classic exercise: 1..100 in 7 tries.
func DefaultSettings() Settings {
	return Settings{Lower: 1, Upper: 100, MaxAttempts: 7}
}

// Validate checks lower <= upper, that the range size fits in an int, and a
// positive attempt budget.
func (s Settings) Validate() error {
	if s.Lower > s.Upper {
		return fmt.Errorf("lower bound exceeds upper bound: %w", ErrInvalidRange)
	}
	// upper-lower wraps negative past math.MaxInt; +1 overflows at exactly it.
	if d := s.Upper - s.Lower; d < 0 || d == math.MaxInt {
		return fmt.Errorf("range [%d, %d] too wide: %w", s.Lower, s.Upper, ErrInvalidRange)
	}
	if s.MaxAttempts < 1 {
		return ErrInvalidAttempts
	}
	return nil
}

// Contains reports whether n lies in [Lower, Upper].
func (s Settings) Contains(n int) bool {
	return n >= s.Lower && n <= s.Upper
}

// Game holds the state of a single guessing session.
type Game struct {
	ID       string   // Unique game identifier (random hex string).
	Secret   int      // Number to find; only revealed once Finished.
	Settings Settings // Range and attempt budget.
	Guesses  []int    // Accepted guesses, in order.
	Finished bool     // True once the game is over (won or lost).
	Won      bool     // True if the game was finished with a win.
	Daily    bool     // Daily challenge game; only playable through the daily routes.
}
