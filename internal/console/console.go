// internal/console/console.go
//
// Terminal front end for a single game.
// Responsibilities:
//   - Prompt until a usable guess is entered (integer, in range, not repeated).
//   - Print "higher"/"lower" hints and the win/loss message.
//   - After a loss, print the post-game estimate from the analysis package.
//
// All validation is delegated to game.ApplyGuess; this file only maps its
// errors to messages.

package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/numguess/internal/analysis"
	"github.com/robalobadob/numguess/internal/game"
)

// Console plays one game over a reader/writer pair.
type Console struct {
	in    *bufio.Scanner
	out   io.Writer
	pause time.Duration // delay after each message, 0 in tests
}

// New wraps in/out. pause mimics the classic one-second beat between lines.
func New(in io.Reader, out io.Writer, pause time.Duration) *Console {
	return &Console{in: bufio.NewScanner(in), out: out, pause: pause}
}

// Play runs g to completion. It returns io.ErrUnexpectedEOF if input ends
// before the game does.
func (c *Console) Play(g *game.Game) error {
	s := g.Settings
	c.say("Welcome to the Number Guessing Game!\n")
	fmt.Fprintf(c.out, "Guess the number between %d and %d. You have %d tries.\n", s.Lower, s.Upper, s.MaxAttempts)

	for !g.Finished {
		fb, err := c.turn(g)
		if err != nil {
			return err
		}
		switch fb {
		case game.FeedbackTooLow:
			c.say("Try a higher number.\n")
		case game.FeedbackTooHigh:
			c.say("Try a lower number.\n")
		}
	}

	log.Debug().Str("gameId", g.ID).Str("state", g.State()).Ints("guesses", g.Guesses).Msg("game finished")

	if g.Won {
		fmt.Fprintf(c.out, "Congratulations! You guessed the number %d in %d tries.\n", g.Secret, len(g.Guesses))
		return nil
	}
	fmt.Fprintf(c.out, "Sorry, you've used all your tries. The number was %d. Try again!\n", g.Secret)
	c.report(g.Analysis())
	return nil
}

// turn prompts until one guess is accepted.
func (c *Console) turn(g *game.Game) (game.Feedback, error) {
	s := g.Settings
	for {
		fmt.Fprintf(c.out, "Enter your guess (%d-%d): ", s.Lower, s.Upper)
		if !c.in.Scan() {
			if err := c.in.Err(); err != nil {
				return "", err
			}
			return "", io.ErrUnexpectedEOF
		}
		n, err := strconv.Atoi(strings.TrimSpace(c.in.Text()))
		if err != nil {
			c.say("Invalid input. Please enter a valid integer.\n")
			continue
		}
		fb, _, err := g.ApplyGuess(n)
		switch {
		case err == nil:
			return fb, nil
		case errors.Is(err, game.ErrDuplicate):
			c.say(fmt.Sprintf("You already guessed %d. Try a different number.\n", n))
		case errors.Is(err, game.ErrOutOfRange):
			c.say(fmt.Sprintf("Please enter a number between %d and %d.\n", s.Lower, s.Upper))
		default:
			return "", err
		}
	}
}

func (c *Console) report(e analysis.Estimate) {
	fmt.Fprintf(c.out, "Based on your answers, your probability of winning was approximately %.2f%%.\n", e.WinProbability*100)
	fmt.Fprintf(c.out, "Based on your guesses so far, you could have found the secret number in about %d more optimally chosen %s.\n",
		e.MinAdditionalTries, Plural(e.MinAdditionalTries, "guess", "guesses"))
}

// Plural picks the singular form only for exactly one.
func Plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func (c *Console) say(msg string) {
	io.WriteString(c.out, msg)
	if c.pause > 0 {
		time.Sleep(c.pause)
	}
}
