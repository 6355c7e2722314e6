package store

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/numguess/internal/game"
)

func TestMemorySaveGet(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	g, err := game.NewWithSecret(game.DefaultSettings(), 42)
	require.NoError(t, err)
	require.NoError(t, st.Save(ctx, g))

	got, err := st.Get(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 42, got.Secret)

	// the copy is detached from the stored game
	got.Guesses = append(got.Guesses, 1)
	again, err := st.Get(ctx, g.ID)
	require.NoError(t, err)
	assert.Empty(t, again.Guesses)

	_, err = st.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryUpdate(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	g, err := game.NewWithSecret(game.Settings{Lower: 1, Upper: 1000, MaxAttempts: 1000}, 999)
	require.NoError(t, err)
	require.NoError(t, st.Save(ctx, g))

	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(guess int) {
			defer wg.Done()
			_ = st.Update(ctx, g.ID, func(g *game.Game) error {
				_, _, err := g.ApplyGuess(guess)
				return err
			})
		}(i)
	}
	wg.Wait()

	got, err := st.Get(ctx, g.ID)
	require.NoError(t, err)
	assert.Len(t, got.Guesses, 50)

	err = st.Update(ctx, "missing", func(*game.Game) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)
}
