// internal/store/history.go
//
// SQL-backed game history and user accounts.
// Responsibilities:
//   - One row per game: owner (user or anonymous cookie), range, guess count,
//     outcome and the post-game estimate.
//   - User rows with aggregate stats (games played, wins, streak).
//   - Moving anonymous games and daily results to an account after signup/login.
//
// The secret is only written once the game is finished.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robalobadob/numguess/internal/analysis"
	"github.com/robalobadob/numguess/internal/game"
)

// ErrUsernameTaken is returned by CreateUser for a case-insensitive clash.
var ErrUsernameTaken = errors.New("username taken")

// Owner identifies who is playing: a signed-in user or an anonymous cookie.
type Owner struct {
	UserID string
	AnonID string
}

// GameRow is a finished or in-progress game as listed by /games/mine.
type GameRow struct {
	ID                 string   `json:"id"`
	Lower              int      `json:"lower"`
	Upper              int      `json:"upper"`
	Status             string   `json:"status"`
	Guesses            int      `json:"guesses"`
	Secret             *int     `json:"secret,omitempty"`
	WinProbability     *float64 `json:"winProbability,omitempty"`
	MinAdditionalTries *int     `json:"minAdditionalTries,omitempty"`
	StartedAt          string   `json:"startedAt"`
	FinishedAt         string   `json:"finishedAt,omitempty"`
}

// User matches the users table shape.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	GamesPlayed  int       `json:"gamesPlayed"`
	Wins         int       `json:"wins"`
	Streak       int       `json:"streak"`
}

// History wraps the games and users tables.
type History struct{ db *sql.DB }

func NewHistory(db *sql.DB) *History { return &History{db: db} }

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func now() string { return time.Now().UTC().Format(time.RFC3339) }

// Start inserts the row for a new game.
func (h *History) Start(ctx context.Context, g *game.Game, o Owner) error {
	_, err := h.db.ExecContext(ctx, `
        INSERT INTO games (id, user_id, anonymous_id, lower_bound, upper_bound, max_attempts, started_at, status, guesses)
        VALUES (?,?,?,?,?,?,?,?,0)`,
		g.ID, nullable(o.UserID), nullable(o.AnonID),
		g.Settings.Lower, g.Settings.Upper, g.Settings.MaxAttempts, now(), game.StatePlaying,
	)
	return err
}

// RecordGuess stores the current guess count.
func (h *History) RecordGuess(ctx context.Context, g *game.Game) error {
	_, err := h.db.ExecContext(ctx, `UPDATE games SET guesses=? WHERE id=?`, len(g.Guesses), g.ID)
	return err
}

// Finish stores the outcome and estimate and, for signed-in players, bumps
// their stats in the same transaction.
func (h *History) Finish(ctx context.Context, g *game.Game, o Owner, e analysis.Estimate) error {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
        UPDATE games
        SET status=?, guesses=?, secret=?, win_probability=?, min_additional_tries=?, finished_at=?
        WHERE id=?`,
		g.State(), len(g.Guesses), g.Secret, e.WinProbability, e.MinAdditionalTries, now(), g.ID,
	)
	if err != nil {
		return err
	}
	// no row means Start never ran for this game; stats stay untouched
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return fmt.Errorf("finish game %s: %w", g.ID, ErrNotFound)
	}
	if o.UserID != "" {
		if err := bumpStats(ctx, tx, o.UserID, g.Won); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// bumpStats increments games played; updates wins and streak based on result.
func bumpStats(ctx context.Context, tx *sql.Tx, userID string, won bool) error {
	var gp, wins, streak int
	row := tx.QueryRowContext(ctx, `SELECT games_played, wins, streak FROM users WHERE id=?`, userID)
	if err := row.Scan(&gp, &wins, &streak); err != nil {
		return err
	}
	gp++
	if won {
		wins++
		streak++
	} else {
		streak = 0
	}
	_, err := tx.ExecContext(ctx, `UPDATE users SET games_played=?, wins=?, streak=? WHERE id=?`, gp, wins, streak, userID)
	return err
}

// Recent lists a user's latest games, newest first.
func (h *History) Recent(ctx context.Context, userID string, limit int) ([]GameRow, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := h.db.QueryContext(ctx, `
        SELECT id, lower_bound, upper_bound, status, guesses, secret, win_probability,
               min_additional_tries, started_at, COALESCE(finished_at,'')
        FROM games WHERE user_id=? ORDER BY started_at DESC, rowid DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []GameRow{}
	for rows.Next() {
		var r GameRow
		var secret, tries sql.NullInt64
		var prob sql.NullFloat64
		if err := rows.Scan(&r.ID, &r.Lower, &r.Upper, &r.Status, &r.Guesses, &secret, &prob,
			&tries, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, err
		}
		if secret.Valid {
			v := int(secret.Int64)
			r.Secret = &v
		}
		if prob.Valid {
			r.WinProbability = &prob.Float64
		}
		if tries.Valid {
			v := int(tries.Int64)
			r.MinAdditionalTries = &v
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ClaimAnon transfers anonymous games and daily results to a user account.
// A daily result for a date the user already has stays with the guest.
func (h *History) ClaimAnon(ctx context.Context, anonID, userID string) error {
	if anonID == "" || userID == "" {
		return nil
	}
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `UPDATE games SET user_id=?, anonymous_id=NULL WHERE anonymous_id=?`, userID, anonID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE OR IGNORE daily_results SET user_id=? WHERE user_id=?`, userID, anonID); err != nil {
		return err
	}
	return tx.Commit()
}

// CreateUser inserts a user with an already hashed password.
func (h *History) CreateUser(ctx context.Context, id, username, passwordHash string) (*User, error) {
	var exists int
	err := h.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE lower(username)=lower(?)`, username).Scan(&exists)
	switch {
	case err == nil:
		return nil, ErrUsernameTaken
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("check username: %w", err)
	}
	created := now()
	if _, err := h.db.ExecContext(ctx, `INSERT INTO users (id, username, password_hash, created_at) VALUES (?,?,?,?)`,
		id, username, passwordHash, created); err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return &User{ID: id, Username: username, PasswordHash: passwordHash, CreatedAt: mustParse(created)}, nil
}

// UserByUsername and UserByID load a user row or return ErrNotFound.
func (h *History) UserByUsername(ctx context.Context, username string) (*User, error) {
	row := h.db.QueryRowContext(ctx, `SELECT id, username, password_hash, created_at, games_played, wins, streak
	                                  FROM users WHERE lower(username)=lower(?)`, username)
	return scanUser(row)
}

func (h *History) UserByID(ctx context.Context, id string) (*User, error) {
	row := h.db.QueryRowContext(ctx, `SELECT id, username, password_hash, created_at, games_played, wins, streak
	                                  FROM users WHERE id=?`, id)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*User, error) {
	var u User
	var created string
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &created, &u.GamesPlayed, &u.Wins, &u.Streak); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	u.CreatedAt = mustParse(created)
	return &u, nil
}

// mustParse parses RFC3339 timestamps; on error returns zero time.
func mustParse(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}
