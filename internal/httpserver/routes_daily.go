// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start a daily game (creates or reuses session)
//   - POST /daily/guess       → submit a guess for today’s daily game
//   - GET  /daily/leaderboard → fetch top 20 winners for today (or ?date=YYYY-MM-DD)
//
// Each player can play once per day (enforced by DB + in-memory session).
// The day's secret is derived from date + salt, so everyone chases the same number.
// The game itself lives in the regular store; the result is persisted on finish.

package httpserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/numguess/internal/daily"
	"github.com/robalobadob/numguess/internal/game"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	salt     string
	now      func() time.Time
	sessions map[string]*dailySession // active sessions keyed by userID|date
	mu       sync.Mutex               // guards sessions
}

// dailySession holds transient in-memory state for an in-progress daily game.
type dailySession struct {
	GameID string
	UserID string
	Date   string
	Start  time.Time
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		salt:     s.cfg.DailySalt,
		now:      func() time.Time { return s.now() },
		sessions: make(map[string]*dailySession),
	}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/guess", dd.handleGuess)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// userID returns the authenticated user ID if logged in,
// otherwise ensures an anonymous ID via Server.ensureAnonID.
func (d *dailyServer) userID(w http.ResponseWriter, r *http.Request) string {
	if me := userFrom(r); me != nil {
		return me.ID
	}
	return d.srv.ensureAnonID(w, r)
}

// -----------------------------------------------------------------------------
// /daily/new

// newRes is returned by /daily/new.
type newRes struct {
	GameID   string `json:"gameId"`
	Date     string `json:"date"`
	Played   bool   `json:"played"`
	Lower    int    `json:"lower"`
	Upper    int    `json:"upper"`
	Attempts int    `json:"attempts"`
}

// handleNew creates or reuses a daily session for the current date.
//   - If the player already has a DB row for today → Played=true.
//   - Otherwise create/reuse an in-memory session and return GameID.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	uid := d.userID(w, r)
	now := d.now().UTC()
	date := daily.DateKey(now)
	settings := d.srv.cfg.Game.Settings()
	res := newRes{Date: date, Lower: settings.Lower, Upper: settings.Upper, Attempts: settings.MaxAttempts}

	if played, err := d.store.AlreadyPlayed(r.Context(), uid, date); err != nil {
		log.Warn().Err(err).Msg("daily already played")
	} else if played {
		res.Played = true
		writeJSON(w, http.StatusOK, res)
		return
	}

	key := uid + "|" + date
	d.mu.Lock()
	defer d.mu.Unlock()
	if sess, ok := d.sessions[key]; ok {
		res.GameID = sess.GameID
		writeJSON(w, http.StatusOK, res)
		return
	}

	g, err := game.NewWithSecret(settings, daily.Secret(now, d.salt, settings.Lower, settings.Upper))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	g.Daily = true
	if err := d.srv.store.Save(r.Context(), g); err != nil {
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	d.sessions[key] = &dailySession{GameID: g.ID, UserID: uid, Date: date, Start: d.now()}

	res.GameID = g.ID
	writeJSON(w, http.StatusOK, res)
}

// -----------------------------------------------------------------------------
// /daily/guess

// handleGuess applies a guess to today's daily session. When the game ends the
// result is stored and the session is dropped, which locks the day.
func (d *dailyServer) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Guess == nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	uid := d.userID(w, r)

	key, sess, ok := d.session(uid, req.GameID)
	if !ok {
		writeError(w, http.StatusNotFound, "no_session")
		return
	}

	res, g, ok := d.srv.applyGuess(w, r, req.GameID, *req.Guess, true)
	if !ok {
		return
	}
	if g.Finished {
		result := daily.Result{
			UserID:    uid,
			Date:      sess.Date,
			Secret:    g.Secret,
			Won:       g.Won,
			Guesses:   len(g.Guesses),
			ElapsedMs: int(d.now().Sub(sess.Start).Milliseconds()),
		}
		if err := d.store.InsertResult(r.Context(), result); err != nil {
			log.Warn().Err(err).Str("user", uid).Msg("insert daily result")
		}
		d.mu.Lock()
		delete(d.sessions, key)
		d.mu.Unlock()
	}
	writeJSON(w, http.StatusOK, res)
}

// session finds the player's session for gameID. It matches on the game rather
// than today's date, so a game started before midnight UTC can still be
// finished after it.
func (d *dailyServer) session(uid, gameID string) (string, *dailySession, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for key, sess := range d.sessions {
		if sess.UserID == uid && sess.GameID == gameID {
			return key, sess, true
		}
	}
	return "", nil, false
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(d.now())
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		writeError(w, http.StatusBadRequest, "bad_date")
		return
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		log.Error().Err(err).Msg("daily leaderboard")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"date": date, "rows": rows})
}
