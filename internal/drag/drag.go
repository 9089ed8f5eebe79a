// internal/drag/drag.go
//
// Drag/swap controller for the Boojumble grid, modelled as an explicit
// state machine instead of ad hoc element reparenting:
//
//	idle → dragging → (swapping | snapping-back) → idle
//
// A session lives between Begin (pointer-down) and Release (pointer-up)
// and is destroyed unconditionally on Release regardless of outcome.
// Candidate selection uses an area-overlap heuristic: a sibling cell
// qualifies when the dragged rectangle covers at least half of its width
// AND half of its height; among qualifying cells the greatest overlap
// area wins, ties broken by iteration order.

package drag

// Rect is an axis-aligned rectangle in layout coordinates.
type Rect struct {
	X, Y, W, H float64
}

// Intersect returns the overlapping region of two rectangles.
// A zero-area Rect is returned when they do not overlap.
func (r Rect) Intersect(o Rect) Rect {
	x1 := max(r.X, o.X)
	y1 := max(r.Y, o.Y)
	x2 := min(r.X+r.W, o.X+o.W)
	y2 := min(r.Y+r.H, o.Y+o.H)
	if x2 <= x1 || y2 <= y1 {
		return Rect{}
	}
	return Rect{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}
}

// Area returns the rectangle's area.
func (r Rect) Area() float64 { return r.W * r.H }

// Phase is the controller state.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseDragging Phase = "dragging"
)

// OutcomeKind describes how a drag resolved on release.
type OutcomeKind string

const (
	OutcomeSwap     OutcomeKind = "swap"      // exchange dragged cell with candidate
	OutcomeSnapBack OutcomeKind = "snap-back" // no qualifying candidate; grid untouched
)

// Outcome is the terminal result of one drag session.
type Outcome struct {
	Kind OutcomeKind
	From int // dragged cell index
	To   int // candidate index, only meaningful for OutcomeSwap
}

// Session tracks one pointer interaction over a fixed cell layout.
// Not safe for concurrent use; callers serialize pointer events.
type Session struct {
	cells     []Rect
	phase     Phase
	index     int
	offsetX   float64 // pointer offset inside the grabbed cell
	offsetY   float64
	current   Rect // dragged rectangle, follows the pointer
	candidate int  // best overlap target, -1 when none
}

// NewSession creates an idle controller over the given cell rectangles.
// Iteration order of cells is the grid's row-major order and decides ties.
func NewSession(cells []Rect) *Session {
	return &Session{cells: cells, phase: PhaseIdle, index: -1, candidate: -1}
}

// Phase reports the current controller state.
func (s *Session) Phase() Phase { return s.phase }

// Begin starts a drag on the cell under the pointer. Malformed input,
// an out-of-range cell or a drag already in progress, silently aborts
// and leaves the controller idle.
func (s *Session) Begin(index int, pointerX, pointerY float64) bool {
	if s.phase != PhaseIdle || index < 0 || index >= len(s.cells) {
		s.reset()
		return false
	}
	cell := s.cells[index]
	s.phase = PhaseDragging
	s.index = index
	s.offsetX = pointerX - cell.X
	s.offsetY = pointerY - cell.Y
	s.current = cell
	s.candidate = -1
	return true
}

// Move tracks the pointer and recomputes the best-overlapping sibling.
// Ignored while idle.
func (s *Session) Move(pointerX, pointerY float64) {
	if s.phase != PhaseDragging {
		return
	}
	s.current.X = pointerX - s.offsetX
	s.current.Y = pointerY - s.offsetY

	best := -1
	var bestArea float64
	for i, cell := range s.cells {
		if i == s.index {
			continue
		}
		ov := s.current.Intersect(cell)
		if ov.W < cell.W/2 || ov.H < cell.H/2 {
			continue
		}
		// Strictly greater keeps the earliest qualifying cell on ties.
		if ov.Area() > bestArea {
			bestArea = ov.Area()
			best = i
		}
	}
	s.candidate = best
}

// Candidate returns the current swap target, if any.
func (s *Session) Candidate() (int, bool) {
	if s.phase != PhaseDragging || s.candidate < 0 {
		return 0, false
	}
	return s.candidate, true
}

// Release ends the session. The second return is false when no drag was
// in progress. The session always returns to idle.
func (s *Session) Release() (Outcome, bool) {
	if s.phase != PhaseDragging {
		s.reset()
		return Outcome{}, false
	}
	out := Outcome{Kind: OutcomeSnapBack, From: s.index, To: -1}
	if s.candidate >= 0 {
		out = Outcome{Kind: OutcomeSwap, From: s.index, To: s.candidate}
	}
	s.reset()
	return out, true
}

func (s *Session) reset() {
	s.phase = PhaseIdle
	s.index = -1
	s.candidate = -1
	s.current = Rect{}
}

// GridRects lays out n×n uniform cells for a session, row-major, with the
// given cell size and gap. Coordinates start at the origin.
func GridRects(n int, cell, gap float64) []Rect {
	out := make([]Rect, 0, n*n)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			out = append(out, Rect{
				X: float64(c) * (cell + gap),
				Y: float64(r) * (cell + gap),
				W: cell,
				H: cell,
			})
		}
	}
	return out
}
