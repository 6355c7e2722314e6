package game

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/numguess/internal/analysis"
)

func newFixed(t *testing.T, lower, upper, attempts, secret int) *Game {
	t.Helper()
	g, err := NewWithSecret(Settings{Lower: lower, Upper: upper, MaxAttempts: attempts}, secret)
	require.NoError(t, err)
	return g
}

func TestSettingsValidate(t *testing.T) {
	require.NoError(t, DefaultSettings().Validate())
	require.NoError(t, Settings{Lower: 5, Upper: 5, MaxAttempts: 1}.Validate())
	assert.ErrorIs(t, Settings{Lower: 10, Upper: 1, MaxAttempts: 7}.Validate(), ErrInvalidRange)
	assert.ErrorIs(t, Settings{Lower: 1, Upper: 10, MaxAttempts: 0}.Validate(), ErrInvalidAttempts)

	// sizes that do not fit in an int
	assert.ErrorIs(t, Settings{Lower: 0, Upper: math.MaxInt, MaxAttempts: 7}.Validate(), ErrInvalidRange)
	assert.ErrorIs(t, Settings{Lower: math.MinInt, Upper: math.MaxInt, MaxAttempts: 7}.Validate(), ErrInvalidRange)
	assert.ErrorIs(t, Settings{Lower: -1, Upper: math.MaxInt - 1, MaxAttempts: 7}.Validate(), ErrInvalidRange)
	require.NoError(t, Settings{Lower: 1, Upper: math.MaxInt, MaxAttempts: 7}.Validate())
	require.NoError(t, Settings{Lower: math.MinInt, Upper: -2, MaxAttempts: 7}.Validate())
}

func TestRandomSecretWideRanges(t *testing.T) {
	for i := 0; i < 50; i++ {
		n := RandomSecret(math.MinInt, math.MaxInt)
		assert.True(t, n >= math.MinInt && n <= math.MaxInt)

		n = RandomSecret(1, math.MaxInt)
		assert.GreaterOrEqual(t, n, 1)
	}
	assert.Equal(t, 4, RandomSecret(4, 4))
	assert.Equal(t, 4, RandomSecret(4, 1))

	g, err := New(Settings{Lower: 1, Upper: math.MaxInt, MaxAttempts: 3})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, g.Secret, 1)
}

func TestNewDrawsSecretInRange(t *testing.T) {
	s := Settings{Lower: -3, Upper: 3, MaxAttempts: 2}
	for i := 0; i < 200; i++ {
		g, err := New(s)
		require.NoError(t, err)
		assert.True(t, s.Contains(g.Secret), "secret %d", g.Secret)
		assert.Len(t, g.ID, 16)
		assert.Empty(t, g.Guesses)
	}

	_, err := New(Settings{Lower: 2, Upper: 1, MaxAttempts: 1})
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestNewWithSecretRejectsOutOfRange(t *testing.T) {
	_, err := NewWithSecret(DefaultSettings(), 101)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestCompare(t *testing.T) {
	assert.Equal(t, FeedbackTooLow, Compare(3, 5))
	assert.Equal(t, FeedbackTooHigh, Compare(7, 5))
	assert.Equal(t, FeedbackCorrect, Compare(5, 5))
}

func TestApplyGuessValidation(t *testing.T) {
	g := newFixed(t, 1, 100, 7, 50)

	_, state, err := g.ApplyGuess(0)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, StatePlaying, state)

	_, _, err = g.ApplyGuess(101)
	assert.ErrorIs(t, err, ErrOutOfRange)

	fb, state, err := g.ApplyGuess(25)
	require.NoError(t, err)
	assert.Equal(t, FeedbackTooLow, fb)
	assert.Equal(t, StatePlaying, state)

	_, _, err = g.ApplyGuess(25)
	assert.ErrorIs(t, err, ErrDuplicate)

	// rejected guesses do not use up attempts
	assert.Equal(t, []int{25}, g.Guesses)
	assert.Equal(t, 6, g.AttemptsLeft())
}

func TestApplyGuessWin(t *testing.T) {
	g := newFixed(t, 1, 100, 7, 50)

	fb, _, err := g.ApplyGuess(75)
	require.NoError(t, err)
	assert.Equal(t, FeedbackTooHigh, fb)

	_, ok := g.RevealedSecret()
	assert.False(t, ok)

	fb, state, err := g.ApplyGuess(50)
	require.NoError(t, err)
	assert.Equal(t, FeedbackCorrect, fb)
	assert.Equal(t, StateWon, state)
	assert.True(t, g.Finished)
	assert.True(t, g.Won)
	assert.Equal(t, 0, g.AttemptsLeft())

	secret, ok := g.RevealedSecret()
	assert.True(t, ok)
	assert.Equal(t, 50, secret)

	_, _, err = g.ApplyGuess(10)
	assert.ErrorIs(t, err, ErrFinished)
}

func TestApplyGuessLossAfterBudget(t *testing.T) {
	g := newFixed(t, 1, 10, 4, 5)
	for i, guess := range []int{1, 2, 3} {
		_, state, err := g.ApplyGuess(guess)
		require.NoError(t, err)
		assert.Equal(t, StatePlaying, state, "guess #%d", i+1)
	}
	_, state, err := g.ApplyGuess(4)
	require.NoError(t, err)
	assert.Equal(t, StateLost, state)
	assert.True(t, g.Finished)
	assert.False(t, g.Won)
}

func TestAnalysisAfterLoss(t *testing.T) {
	g := newFixed(t, 1, 10, 4, 5)
	for _, guess := range []int{1, 2, 3, 4} {
		_, _, err := g.ApplyGuess(guess)
		require.NoError(t, err)
	}
	e := g.Analysis()
	assert.Equal(t, 6, e.Remaining)
	assert.Equal(t, 3, e.MinAdditionalTries)
	assert.InDelta(t, 0.4, e.WinProbability, 1e-9)
	assert.Equal(t, analysis.OutcomeInProgress, e.Outcome)
}

func TestAnalysisDropsWinningGuess(t *testing.T) {
	g := newFixed(t, 1, 100, 7, 50)
	for _, guess := range []int{25, 75, 50} {
		_, _, err := g.ApplyGuess(guess)
		require.NoError(t, err)
	}
	e := g.Analysis()
	assert.Equal(t, 49, e.Remaining)
	assert.Equal(t, 6, e.MinAdditionalTries)
	assert.InDelta(t, 0.51, e.WinProbability, 1e-9)
}

func TestAnalysisFreshGame(t *testing.T) {
	g := newFixed(t, 1, 10, 7, 5)
	e := g.Analysis()
	assert.Equal(t, 0.0, e.WinProbability)
	assert.Equal(t, 4, e.MinAdditionalTries)
	assert.Equal(t, 10, e.Remaining)
}
