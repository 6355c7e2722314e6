// internal/httpserver/server.go
//
// HTTP server wiring for the number-guessing backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health".
//   - Game endpoints (optional auth): POST /game/new, POST /game/guess,
//     GET /game/{id}/analysis.
//   - Daily Challenge endpoints (optional auth): mounted under /daily.
//   - Auth + profile/stat endpoints: /auth/*, /stats/me, /games/mine (auth.go).
//
// Notes:
//   - Live games sit in the in-memory store; the SQL history keeps one row per
//     game with its outcome and post-game estimate.
//   - The secret never leaves the server before the game is finished.

package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/numguess/internal/analysis"
	"github.com/robalobadob/numguess/internal/config"
	"github.com/robalobadob/numguess/internal/game"
	"github.com/robalobadob/numguess/internal/store"
)

// Server bundles router, in-memory game store, SQL history and config.
type Server struct {
	r       *chi.Mux
	store   store.Store
	history *store.History
	db      *sql.DB
	cfg     config.Config
	now     func() time.Time
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, db *sql.DB, cfg config.Config) *Server {
	s := &Server{r: chi.NewRouter(), store: st, history: store.NewHistory(db), db: db, cfg: cfg, now: time.Now}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(accessLog)                       // one zerolog line per request
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(corsFor(cfg.ClientOrigin))       // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"numguess-go","endpoints":["/health","POST /game/new","POST /game/guess","GET /game/{id}/analysis","/daily/*","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	// Game endpoints — OPTIONAL AUTH (guests can play)
	s.r.Group(func(r chi.Router) {
		r.Use(s.withOptionalAuth())
		r.Post("/game/new", s.handleNewGame)
		r.Post("/game/guess", s.handleGuess)
		r.Get("/game/{id}/analysis", s.handleAnalysis)
	})

	// Daily Challenge — OPTIONAL AUTH (guests can play; result persisted on finish)
	s.mountDaily(s.r.With(s.withOptionalAuth()))

	// Auth + profile/stats
	s.mountAuthRoutes()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ------------------------------ GAME ---------------------------------------

// newGameReq/Res payloads for POST /game/new. Zero fields fall back to the
// configured defaults.
type newGameReq struct {
	Lower    *int `json:"lower"`
	Upper    *int `json:"upper"`
	Attempts *int `json:"attempts"`
}
type newGameRes struct {
	GameID   string `json:"gameId"`
	Lower    int    `json:"lower"`
	Upper    int    `json:"upper"`
	Attempts int    `json:"attempts"`
}

func (req newGameReq) settings(def game.Settings) game.Settings {
	s := def
	if req.Lower != nil {
		s.Lower = *req.Lower
	}
	if req.Upper != nil {
		s.Upper = *req.Upper
	}
	if req.Attempts != nil {
		s.MaxAttempts = *req.Attempts
	}
	return s
}

// handleNewGame creates a new in-memory game and records an owner row
// (either user_id or anonymous_id) for history/stats.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_json")
			return
		}
	}

	g, err := game.New(req.settings(s.cfg.Game.Settings()))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	if err := s.history.Start(r.Context(), g, s.owner(w, r)); err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("insert game row")
	}

	writeJSON(w, http.StatusOK, newGameRes{
		GameID:   g.ID,
		Lower:    g.Settings.Lower,
		Upper:    g.Settings.Upper,
		Attempts: g.Settings.MaxAttempts,
	})
}

// guessReq/Res payloads for POST /game/guess.
type guessReq struct {
	GameID string `json:"gameId"`
	Guess  *int   `json:"guess"`
}
type guessRes struct {
	Feedback     game.Feedback      `json:"feedback"`
	State        string             `json:"state"` // "playing" | "won" | "lost"
	AttemptsLeft int                `json:"attemptsLeft"`
	Secret       *int               `json:"secret,omitempty"`
	Analysis     *analysis.Estimate `json:"analysis,omitempty"`
}

// handleGuess applies a guess to an in-memory game, persists progress,
// and (if finished) stores the estimate and updates user stats.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Guess == nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}

	res, g, ok := s.applyGuess(w, r, req.GameID, *req.Guess, false)
	if !ok {
		return
	}

	if err := s.history.RecordGuess(r.Context(), g); err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("update guesses")
	}
	if g.Finished {
		if err := s.history.Finish(r.Context(), g, s.owner(w, r), *res.Analysis); err != nil {
			log.Warn().Err(err).Str("gameId", g.ID).Msg("finish game")
		}
	}
	writeJSON(w, http.StatusOK, res)
}

// applyGuess runs one guess under the store lock and builds the response.
// Daily games are only visible when daily is set, and regular games only when
// it is not. On failure it writes the error response and returns ok=false.
func (s *Server) applyGuess(w http.ResponseWriter, r *http.Request, id string, guess int, daily bool) (guessRes, *game.Game, bool) {
	var res guessRes
	var snap game.Game
	err := s.store.Update(r.Context(), id, func(g *game.Game) error {
		if g.Daily != daily {
			return store.ErrNotFound
		}
		fb, state, err := g.ApplyGuess(guess)
		if err != nil {
			return err
		}
		res = guessRes{Feedback: fb, State: state, AttemptsLeft: g.AttemptsLeft()}
		snap = *g
		snap.Guesses = append([]int(nil), g.Guesses...)
		return nil
	})
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
		return res, nil, false
	case errors.Is(err, game.ErrFinished):
		writeError(w, http.StatusConflict, err.Error())
		return res, nil, false
	default:
		writeError(w, http.StatusBadRequest, err.Error())
		return res, nil, false
	}

	if snap.Finished {
		secret := snap.Secret
		est := snap.Analysis()
		res.Secret = &secret
		res.Analysis = &est
	}
	return res, &snap, true
}

// analysisRes is returned by GET /game/{id}/analysis.
type analysisRes struct {
	GameID   string            `json:"gameId"`
	State    string            `json:"state"`
	Guesses  []int             `json:"guesses"`
	Analysis analysis.Estimate `json:"analysis"`
}

// handleAnalysis reports the estimate for the guesses made so far. The
// estimate only reveals what the feedback already told the player.
func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	g, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	writeJSON(w, http.StatusOK, analysisRes{
		GameID:   g.ID,
		State:    g.State(),
		Guesses:  g.Guesses,
		Analysis: g.Analysis(),
	})
}

// owner resolves the signed-in user or the anonymous cookie for this request.
func (s *Server) owner(w http.ResponseWriter, r *http.Request) store.Owner {
	if me := userFrom(r); me != nil {
		return store.Owner{UserID: me.ID}
	}
	return store.Owner{AnonID: s.ensureAnonID(w, r)}
}

// ------------------------------- small util --------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
