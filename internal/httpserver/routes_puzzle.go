// internal/httpserver/routes_puzzle.go
//
// Boojumble puzzle endpoints. All routes run with optional auth: logged-in
// users keep progress against their account, guests against the anon cookie.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/alexrobincrabbe/boojum-server/internal/board"
	"github.com/alexrobincrabbe/boojum-server/internal/puzzle"
)

type startPuzzleReq struct {
	// Board is "daily" or a catalog board ID.
	Board string `json:"board"`
}

type swapReq struct {
	From int `json:"from"`
	To   int `json:"to"`
}

type dragReq struct {
	Type string  `json:"type"` // begin | move | release
	Cell int     `json:"cell"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

func (s *Server) mountPuzzle(r chi.Router) {
	r.Get("/boards/daily", s.handleDailyBoard)
	r.Post("/puzzle/start", s.handlePuzzleStart)
	r.Get("/puzzle/leaderboard", s.handleLeaderboard)
	r.Get("/puzzle/{id}", s.handlePuzzleState)
	r.Post("/puzzle/{id}/swap", s.handlePuzzleSwap)
	r.Post("/puzzle/{id}/drag", s.handlePuzzleDrag)
	r.Post("/puzzle/{id}/reset", s.handlePuzzleReset)
}

// handleDailyBoard reports which board today resolves to, without starting
// a session.
func (s *Server) handleDailyBoard(w http.ResponseWriter, r *http.Request) {
	b, date := s.boards.Daily(time.Now(), s.salt)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"boardId": b.ID,
		"date":    date,
		"size":    b.Size(),
	})
}

// handlePuzzleStart resolves the requested board, then returns the owner's
// session for it: restored progress when stored state is usable, otherwise
// a fresh scramble.
func (s *Server) handlePuzzleStart(w http.ResponseWriter, r *http.Request) {
	owner := s.ownerID(w, r)

	var body startPuzzleReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, `{"error":"invalid_json"}`, http.StatusBadRequest)
		return
	}

	var (
		b    board.Board
		date string
	)
	switch body.Board {
	case "", "daily":
		b, date = s.boards.Daily(time.Now(), s.salt)
	default:
		var ok bool
		if b, ok = s.boards.ByID(body.Board); !ok {
			http.Error(w, `{"error":"unknown board"}`, http.StatusNotFound)
			return
		}
	}

	sess, err := s.puzzles.Start(r.Context(), owner, b, date, s.scramble(b))
	if err != nil {
		log.Error().Err(err).Str("board", b.ID).Msg("start puzzle session")
		http.Error(w, `{"error":"could not start puzzle"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(sess.State())
}

// handlePuzzleState returns the current snapshot of a session.
func (s *Server) handlePuzzleState(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}
	_ = json.NewEncoder(w).Encode(sess.State())
}

// handlePuzzleSwap exchanges two cells directly (tap-tap clients).
func (s *Server) handlePuzzleSwap(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}
	var body swapReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, `{"error":"invalid_json"}`, http.StatusBadRequest)
		return
	}
	res, err := sess.Swap(r.Context(), s.store, body.From, body.To)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}
	_ = json.NewEncoder(w).Encode(res)
}

// handlePuzzleDrag drives the drag controller. Begin and move are
// fire-and-forget pointer updates; release resolves the drag into either
// a swap (with a fresh evaluation) or a snap-back.
func (s *Server) handlePuzzleDrag(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}
	var body dragReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, `{"error":"invalid_json"}`, http.StatusBadRequest)
		return
	}

	switch body.Type {
	case "begin":
		started := sess.DragBegin(body.Cell, body.X, body.Y)
		_ = json.NewEncoder(w).Encode(map[string]bool{"dragging": started})

	case "move":
		sess.DragMove(body.X, body.Y)
		_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})

	case "release":
		out, res, err := sess.DragRelease(r.Context(), s.store)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"outcome": out,
			"result":  res,
		})

	default:
		http.Error(w, `{"error":"unknown drag type"}`, http.StatusBadRequest)
	}
}

// handlePuzzleReset wipes stored progress and restarts from a new scramble.
func (s *Server) handlePuzzleReset(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}
	if err := sess.Reset(r.Context(), s.store, s.scramble(sess.Board)); err != nil {
		http.Error(w, `{"error":"could not reset"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(sess.State())
}

// handleLeaderboard lists the fastest solves for a date (default today).
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = board.DateKey(time.Now())
	}
	rows, err := s.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		log.Error().Err(err).Str("date", date).Msg("leaderboard query")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"date": date, "rows": rows})
}

// sessionFromRequest resolves {id} to the caller's session; writes the
// error response itself when the session is missing or owned by another.
func (s *Server) sessionFromRequest(w http.ResponseWriter, r *http.Request) (*puzzle.Session, bool) {
	owner := s.ownerID(w, r)
	id := chi.URLParam(r, "id")
	sess, err := s.puzzles.Get(id, owner)
	if err != nil {
		if errors.Is(err, puzzle.ErrNoSession) {
			http.Error(w, `{"error":"session not found"}`, http.StatusNotFound)
		} else {
			http.Error(w, `{"error":"session lookup failed"}`, http.StatusInternalServerError)
		}
		return nil, false
	}
	return sess, true
}
