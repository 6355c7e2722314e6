package daily

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/numguess/assets"
	"github.com/robalobadob/numguess/internal/db"
)

func TestDateKeyIsUTC(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	ts := time.Date(2024, 3, 2, 5, 0, 0, 0, loc)
	assert.Equal(t, "2024-03-01", DateKey(ts))
}

func TestSecretDeterministicAndInRange(t *testing.T) {
	day := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	a := Secret(day, "salt", 1, 100)
	b := Secret(day.Add(6*time.Hour), "salt", 1, 100)
	assert.Equal(t, a, b)

	seen := map[int]bool{}
	for i := 0; i < 60; i++ {
		n := Secret(day.AddDate(0, 0, i), "salt", 10, 20)
		assert.GreaterOrEqual(t, n, 10)
		assert.LessOrEqual(t, n, 20)
		seen[n] = true
	}
	assert.Greater(t, len(seen), 1)

	assert.Equal(t, 7, Secret(day, "salt", 7, 7))
	assert.Equal(t, 9, Secret(day, "salt", 9, 1))

	n := Secret(day, "salt", 1, math.MaxInt)
	assert.GreaterOrEqual(t, n, 1)
	assert.Equal(t, n, Secret(day, "salt", 1, math.MaxInt))
	assert.NotPanics(t, func() { Secret(day, "salt", math.MinInt, math.MaxInt) })
}

func TestStoreLeaderboard(t *testing.T) {
	ctx := context.Background()
	sqlDB, err := db.Open(filepath.Join(t.TempDir(), "daily.db"))
	require.NoError(t, err)
	defer sqlDB.Close()
	require.NoError(t, db.Migrate(sqlDB, assets.Migrations()))

	st := NewStore(sqlDB)
	date := "2024-03-01"

	played, err := st.AlreadyPlayed(ctx, "alice", date)
	require.NoError(t, err)
	assert.False(t, played)

	require.NoError(t, st.InsertResult(ctx, Result{UserID: "alice", Date: date, Secret: 42, Won: true, Guesses: 5, ElapsedMs: 900}))
	require.NoError(t, st.InsertResult(ctx, Result{UserID: "bob", Date: date, Secret: 42, Won: true, Guesses: 3, ElapsedMs: 5000}))
	require.NoError(t, st.InsertResult(ctx, Result{UserID: "carol", Date: date, Secret: 42, Won: true, Guesses: 3, ElapsedMs: 1000}))
	require.NoError(t, st.InsertResult(ctx, Result{UserID: "dave", Date: date, Secret: 42, Won: false, Guesses: 7, ElapsedMs: 100}))
	// duplicate for the same day is ignored
	require.NoError(t, st.InsertResult(ctx, Result{UserID: "alice", Date: date, Secret: 42, Won: true, Guesses: 1, ElapsedMs: 1}))

	played, err = st.AlreadyPlayed(ctx, "alice", date)
	require.NoError(t, err)
	assert.True(t, played)

	lb, err := st.Leaderboard(ctx, date, 0)
	require.NoError(t, err)
	require.Len(t, lb, 3)
	assert.Equal(t, "carol", lb[0].UserID)
	assert.Equal(t, "bob", lb[1].UserID)
	assert.Equal(t, "alice", lb[2].UserID)
	assert.Equal(t, 5, lb[2].Guesses)

	lb, err = st.Leaderboard(ctx, "2000-01-01", 5)
	require.NoError(t, err)
	assert.Empty(t, lb)
}
