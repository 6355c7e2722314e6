package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/numguess/internal/game"
)

// unsetEnv clears keys for the test; t.Setenv restores them afterwards.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestParseDefaults(t *testing.T) {
	unsetEnv(t, "PORT", "LOG_LEVEL", "APP_ENV", "JWT_EXPIRES_DAYS", "GAME_LOWER", "GAME_UPPER", "GAME_ATTEMPTS")

	c, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "5175", c.Port)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, 14, c.JWTExpiresDays)
	assert.False(t, c.Production())
	assert.Equal(t, game.DefaultSettings(), c.Game.Settings())
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("APP_ENV", "production")
	t.Setenv("GAME_LOWER", "10")
	t.Setenv("GAME_UPPER", "20")
	t.Setenv("GAME_ATTEMPTS", "3")

	c, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "8080", c.Port)
	assert.True(t, c.Production())
	assert.Equal(t, game.Settings{Lower: 10, Upper: 20, MaxAttempts: 3}, c.Game.Settings())
}

func TestParseRejectsInvertedRange(t *testing.T) {
	t.Setenv("GAME_LOWER", "50")
	t.Setenv("GAME_UPPER", "5")

	_, err := Parse()
	assert.ErrorIs(t, err, game.ErrInvalidRange)
}

func TestParseRejectsBadNumber(t *testing.T) {
	t.Setenv("GAME_ATTEMPTS", "seven")

	_, err := Parse()
	assert.Error(t, err)
}
