// internal/puzzle/session.go
//
// Puzzle sessions for the Boojumble grid game.
//
// A session owns a live grid, the drag controller over its layout, and
// the monotonically growing found-words set. Sessions are held in memory
// for active play keyed by owner|board, and every completed swap persists
// the grid and any newly found words so the puzzle survives a reload.
//
// Restore rules follow the client contract: stored cells are used only
// when their count matches the board's expected N²; anything else falls
// back to the scrambled server layout.

package puzzle

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/alexrobincrabbe/boojum-server/internal/board"
	"github.com/alexrobincrabbe/boojum-server/internal/drag"
	"github.com/alexrobincrabbe/boojum-server/internal/grid"
	"github.com/alexrobincrabbe/boojum-server/internal/store"
)

var ErrNoSession = errors.New("puzzle: session not found")

// Layout constants for the drag controller's cell rectangles.
// Pointer coordinates from clients are expressed in the same space.
const (
	CellSize = 100.0
	CellGap  = 8.0
)

// Session is one owner's in-progress puzzle.
type Session struct {
	ID       string
	Owner    string
	Board    board.Board
	Date     string // set for daily sessions, empty for timeless

	mu      sync.Mutex
	grid    *grid.Grid
	dragger *drag.Session
	found   map[string]struct{}
	swaps   int
	started time.Time
	solved  bool
}

// State is a snapshot of a session for API responses.
type State struct {
	SessionID string      `json:"sessionId"`
	BoardID   string      `json:"boardId"`
	Date      string      `json:"date,omitempty"`
	Size      int         `json:"size"`
	Cells     []string    `json:"cells"`
	Marks     []grid.Mark `json:"marks"`
	Found     []string    `json:"found"`
	Swaps     int         `json:"swaps"`
	Solved    bool        `json:"solved"`
}

// SwapResult reports the outcome of one completed swap.
type SwapResult struct {
	Evaluation grid.Evaluation `json:"evaluation"`
	// Shimmer lists words completed for the first time by this swap;
	// the client plays their one-time animation.
	Shimmer []string `json:"shimmer"`
	State   State    `json:"state"`
}

// Manager creates, restores, and caches sessions.
type Manager struct {
	store store.Store
	newID func() string

	mu       sync.Mutex
	sessions map[string]*Session // by session ID
	byOwner  map[string]*Session // by owner|boardKey, for reuse
}

// NewManager wires the persistence layer into a session manager.
func NewManager(st store.Store, newID func() string) *Manager {
	return &Manager{
		store:    st,
		newID:    newID,
		sessions: make(map[string]*Session),
		byOwner:  make(map[string]*Session),
	}
}

// Start returns the owner's session for the board, restoring stored
// progress when present and valid, otherwise starting from scrambled.
// An already-active in-memory session is reused.
func (m *Manager) Start(ctx context.Context, owner string, b board.Board, date string, scrambled []string) (*Session, error) {
	key := owner + "|" + b.Key()

	m.mu.Lock()
	if s, ok := m.byOwner[key]; ok {
		m.mu.Unlock()
		return s, nil
	}
	m.mu.Unlock()

	cells := scrambled
	n := b.Size()
	if stored, err := m.store.LoadCells(ctx, owner, b.Key()); err != nil {
		log.Warn().Err(err).Str("boardKey", b.Key()).Msg("load stored cells")
	} else if len(stored) == n*n {
		cells = stored
	} else if stored != nil {
		log.Warn().Int("stored", len(stored)).Int("want", n*n).
			Str("boardKey", b.Key()).Msg("stored cell count mismatch, using scramble")
	}

	g, err := grid.New(cells)
	if err != nil {
		// Stored payload held garbage; default silently to the scramble.
		log.Warn().Err(err).Str("boardKey", b.Key()).Msg("stored cells invalid, using scramble")
		if g, err = grid.New(scrambled); err != nil {
			return nil, err
		}
	}

	found := make(map[string]struct{})
	if words, err := m.store.LoadWords(ctx, owner, b.Key()); err != nil {
		log.Warn().Err(err).Str("boardKey", b.Key()).Msg("load found words")
	} else {
		for _, w := range words {
			found[w] = struct{}{}
		}
	}

	s := &Session{
		ID:      m.newID(),
		Owner:   owner,
		Board:   b,
		Date:    date,
		grid:    g,
		dragger: drag.NewSession(drag.GridRects(n, CellSize, CellGap)),
		found:   found,
		started: time.Now(),
		solved:  grid.Evaluate(g, b.Solution).Solved,
	}

	m.mu.Lock()
	// Lost a race: keep the first session in.
	if prior, ok := m.byOwner[key]; ok {
		m.mu.Unlock()
		return prior, nil
	}
	m.sessions[s.ID] = s
	m.byOwner[key] = s
	m.mu.Unlock()
	return s, nil
}

// Get returns a session by ID for the given owner.
func (m *Manager) Get(id, owner string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok || s.Owner != owner {
		return nil, ErrNoSession
	}
	return s, nil
}

// State snapshots the session, including a fresh evaluation.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	ev := grid.Evaluate(s.grid, s.Board.Solution)
	return State{
		SessionID: s.ID,
		BoardID:   s.Board.ID,
		Date:      s.Date,
		Size:      s.grid.Size(),
		Cells:     s.grid.Cells(),
		Marks:     ev.Marks,
		Found:     s.foundLocked(),
		Swaps:     s.swaps,
		Solved:    ev.Solved,
	}
}

func (s *Session) foundLocked() []string {
	out := make([]string, 0, len(s.found))
	for w := range s.found {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// Swap exchanges two cells, re-evaluates the board, grows the found-words
// set, and persists. Persistence failures are logged, never surfaced.
func (s *Session) Swap(ctx context.Context, st store.Store, a, b int) (SwapResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.grid.Swap(a, b); err != nil {
		return SwapResult{}, err
	}
	s.swaps++
	return s.afterSwapLocked(ctx, st), nil
}

func (s *Session) afterSwapLocked(ctx context.Context, st store.Store) SwapResult {
	ev := grid.Evaluate(s.grid, s.Board.Solution)

	var shimmer []string
	for _, w := range ev.Found {
		if _, ok := s.found[w]; !ok {
			s.found[w] = struct{}{}
			shimmer = append(shimmer, w)
		}
	}

	if err := st.SaveCells(ctx, s.Owner, s.Board.Key(), s.grid.Cells()); err != nil {
		log.Warn().Err(err).Str("boardKey", s.Board.Key()).Msg("persist cells")
	}
	if err := st.AddWords(ctx, s.Owner, s.Board.Key(), shimmer); err != nil {
		log.Warn().Err(err).Str("boardKey", s.Board.Key()).Msg("persist found words")
	}

	if ev.Solved && !s.solved {
		s.solved = true
		r := store.Result{
			Owner:     s.Owner,
			BoardKey:  s.Board.Key(),
			Date:      s.Date,
			Swaps:     s.swaps,
			ElapsedMs: int(time.Since(s.started).Milliseconds()),
		}
		if r.Date == "" {
			r.Date = s.Board.ID
		}
		if err := st.InsertResult(ctx, r); err != nil {
			log.Warn().Err(err).Str("boardKey", s.Board.Key()).Msg("persist result")
		}
	}

	return SwapResult{Evaluation: ev, Shimmer: shimmer, State: s.stateLocked()}
}

// DragBegin starts a drag on the given cell; reports whether a drag began.
func (s *Session) DragBegin(cell int, x, y float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dragger.Begin(cell, x, y)
}

// DragMove tracks the pointer.
func (s *Session) DragMove(x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dragger.Move(x, y)
}

// DragRelease ends the drag session. A qualifying candidate produces a
// swap and a fresh evaluation; otherwise the grid is untouched and the
// result carries the pre-release state.
func (s *Session) DragRelease(ctx context.Context, st store.Store) (drag.Outcome, SwapResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out, ok := s.dragger.Release()
	if !ok {
		return drag.Outcome{}, SwapResult{State: s.stateLocked()}, nil
	}
	if out.Kind != drag.OutcomeSwap {
		return out, SwapResult{State: s.stateLocked()}, nil
	}
	if err := s.grid.Swap(out.From, out.To); err != nil {
		return out, SwapResult{}, err
	}
	s.swaps++
	return out, s.afterSwapLocked(ctx, st), nil
}

// Reset discards progress: stored state is removed, the found set is
// cleared, and the grid restarts from the provided scramble.
func (s *Session) Reset(ctx context.Context, st store.Store, scrambled []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, err := grid.New(scrambled)
	if err != nil {
		return err
	}
	if err := st.Reset(ctx, s.Owner, s.Board.Key()); err != nil {
		log.Warn().Err(err).Str("boardKey", s.Board.Key()).Msg("reset stored progress")
	}
	s.grid = g
	s.found = make(map[string]struct{})
	s.swaps = 0
	s.solved = false
	s.started = time.Now()
	s.dragger = drag.NewSession(drag.GridRects(g.Size(), CellSize, CellGap))
	return nil
}
