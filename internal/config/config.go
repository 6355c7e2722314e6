// internal/config/config.go
//
// Runtime configuration for the numguess server and console game.
// Values come from the process environment, optionally seeded from a .env file
// in development (godotenv), and are parsed into Config via struct tags.
//
// Environment variables:
//   PORT, LOG_LEVEL, DB_PATH, APP_ENV, CLIENT_ORIGIN
//   JWT_SECRET, JWT_EXPIRES_DAYS, COOKIE_NAME, ANON_COOKIE_NAME
//   DAILY_SALT
//   GAME_LOWER, GAME_UPPER, GAME_ATTEMPTS

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/robalobadob/numguess/internal/game"
)

// Config holds every tunable of the service.
type Config struct {
	Port         string `env:"PORT" envDefault:"5175"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	DBPath       string `env:"DB_PATH" envDefault:"./data/numguess.db"`
	AppEnv       string `env:"APP_ENV" envDefault:"development"`
	ClientOrigin string `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`

	JWTSecret      string `env:"JWT_SECRET" envDefault:"dev_secret_change_me"`
	JWTExpiresDays int    `env:"JWT_EXPIRES_DAYS" envDefault:"14"`
	CookieName     string `env:"COOKIE_NAME" envDefault:"numguess_token"`
	AnonCookieName string `env:"ANON_COOKIE_NAME" envDefault:"numguess_anon"`

	DailySalt string `env:"DAILY_SALT" envDefault:"local_dev_salt"`

	Game GameConfig `envPrefix:"GAME_"`
}

// GameConfig is the default range and budget for new games.
type GameConfig struct {
	Lower    int `env:"LOWER" envDefault:"1"`
	Upper    int `env:"UPPER" envDefault:"100"`
	Attempts int `env:"ATTEMPTS" envDefault:"7"`
}

// Settings converts the defaults into engine settings.
func (g GameConfig) Settings() game.Settings {
	return game.Settings{Lower: g.Lower, Upper: g.Upper, MaxAttempts: g.Attempts}
}

// Production reports whether cookies should be marked Secure.
func (c Config) Production() bool { return c.AppEnv == "production" }

// Load reads .env (if present) and the environment into a validated Config.
func Load() (Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse reads the current environment into a validated Config.
func Parse() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := c.Game.Settings().Validate(); err != nil {
		return Config{}, fmt.Errorf("game defaults: %w", err)
	}
	return c, nil
}
