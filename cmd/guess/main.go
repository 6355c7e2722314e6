// Command guess plays one number-guessing game in the terminal and, after a
// loss, reports how much the guesses narrowed the range.
package main

import (
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/numguess/internal/config"
	"github.com/robalobadob/numguess/internal/console"
	"github.com/robalobadob/numguess/internal/game"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	lower := flag.Int("lower", cfg.Game.Lower, "smallest possible number")
	upper := flag.Int("upper", cfg.Game.Upper, "largest possible number")
	attempts := flag.Int("attempts", cfg.Game.Attempts, "number of tries")
	pause := flag.Duration("pause", time.Second, "delay after each message")
	flag.Parse()

	g, err := game.New(game.Settings{Lower: *lower, Upper: *upper, MaxAttempts: *attempts})
	if err != nil {
		log.Fatal().Err(err).Msg("invalid game settings")
	}
	if err := console.New(os.Stdin, os.Stdout, *pause).Play(g); err != nil {
		log.Fatal().Err(err).Msg("game aborted")
	}
}
