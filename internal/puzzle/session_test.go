package puzzle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexrobincrabbe/boojum-server/internal/board"
	"github.com/alexrobincrabbe/boojum-server/internal/drag"
	"github.com/alexrobincrabbe/boojum-server/internal/grid"
	"github.com/alexrobincrabbe/boojum-server/internal/store"
)

func testBoard() board.Board {
	return board.Board{
		ID: "cat-dog-owl",
		Solution: grid.Solution{
			Rows: []string{"CAT", "DOG", "OWL"},
			Cols: []string{"CDO", "AOW", "TGL"},
		},
	}
}

func newManager(st store.Store) *Manager {
	n := 0
	return NewManager(st, func() string {
		n++
		return string(rune('a' + n))
	})
}

// scrambled is one fixed non-solved arrangement of the board's letters.
func scrambled() []string {
	return []string{"T", "A", "C", "G", "O", "D", "L", "W", "O"}
}

func TestStartUsesScrambleWhenNothingStored(t *testing.T) {
	st := store.NewMemoryStore()
	m := newManager(st)

	s, err := m.Start(context.Background(), "anna", testBoard(), "", scrambled())
	require.NoError(t, err)

	state := s.State()
	assert.Equal(t, scrambled(), state.Cells)
	assert.False(t, state.Solved)
	assert.Empty(t, state.Found)
	assert.Equal(t, 0, state.Swaps)
}

func TestStartReusesActiveSession(t *testing.T) {
	st := store.NewMemoryStore()
	m := newManager(st)

	a, err := m.Start(context.Background(), "anna", testBoard(), "", scrambled())
	require.NoError(t, err)
	b, err := m.Start(context.Background(), "anna", testBoard(), "", scrambled())
	require.NoError(t, err)
	assert.Same(t, a, b)

	other, err := m.Start(context.Background(), "ben", testBoard(), "", scrambled())
	require.NoError(t, err)
	assert.NotSame(t, a, other)
}

func TestSwapPersistsAndRestores(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	m := newManager(st)

	s, err := m.Start(ctx, "anna", testBoard(), "", scrambled())
	require.NoError(t, err)

	res, err := s.Swap(ctx, st, 0, 2) // "T A C" -> "C A T": row 0 solved
	require.NoError(t, err)
	assert.Contains(t, res.Shimmer, "cat")
	assert.Equal(t, 1, res.State.Swaps)

	// A fresh manager restores the stored grid and found set.
	m2 := newManager(st)
	s2, err := m2.Start(ctx, "anna", testBoard(), "", scrambled())
	require.NoError(t, err)

	state := s2.State()
	assert.Equal(t, res.State.Cells, state.Cells)
	assert.Contains(t, state.Found, "cat")
}

func TestStartIgnoresWrongLengthStoredCells(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	require.NoError(t, st.SaveCells(ctx, "anna", testBoard().Key(), []string{"A", "B", "C"}))

	m := newManager(st)
	s, err := m.Start(ctx, "anna", testBoard(), "", scrambled())
	require.NoError(t, err)
	assert.Equal(t, scrambled(), s.State().Cells)
}

func TestFoundWordsAreMonotonic(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	m := newManager(st)

	s, err := m.Start(ctx, "anna", testBoard(), "", scrambled())
	require.NoError(t, err)

	res, err := s.Swap(ctx, st, 0, 2) // complete CAT
	require.NoError(t, err)
	require.Contains(t, res.Shimmer, "cat")

	// Break the word again: it stays found and does not re-shimmer.
	res, err = s.Swap(ctx, st, 0, 2)
	require.NoError(t, err)
	assert.NotContains(t, res.Shimmer, "cat")
	assert.Contains(t, res.State.Found, "cat")

	// Re-complete: still found, still no shimmer.
	res, err = s.Swap(ctx, st, 0, 2)
	require.NoError(t, err)
	assert.Empty(t, res.Shimmer)
	assert.Contains(t, res.State.Found, "cat")
}

func TestDragReleaseSwapTriggersEvaluation(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	m := newManager(st)

	s, err := m.Start(ctx, "anna", testBoard(), "", scrambled())
	require.NoError(t, err)

	// Drag cell 0 onto cell 2 (same row, two cells right).
	require.True(t, s.DragBegin(0, CellSize/2, CellSize/2))
	s.DragMove(2*(CellSize+CellGap)+CellSize/2, CellSize/2)
	out, res, err := s.DragRelease(ctx, st)
	require.NoError(t, err)

	assert.Equal(t, drag.OutcomeSwap, out.Kind)
	assert.Equal(t, 0, out.From)
	assert.Equal(t, 2, out.To)
	assert.Contains(t, res.Shimmer, "cat")
	assert.Equal(t, "C", res.State.Cells[0])
}

func TestDragReleaseSnapBackLeavesGridUnchanged(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	m := newManager(st)

	s, err := m.Start(ctx, "anna", testBoard(), "", scrambled())
	require.NoError(t, err)
	before := s.State().Cells

	// Nudge well short of any qualifying overlap.
	require.True(t, s.DragBegin(0, CellSize/2, CellSize/2))
	s.DragMove(CellSize/2+10, CellSize/2+10)
	out, res, err := s.DragRelease(ctx, st)
	require.NoError(t, err)

	assert.Equal(t, drag.OutcomeSnapBack, out.Kind)
	assert.Equal(t, before, res.State.Cells)
	assert.Equal(t, 0, res.State.Swaps)
}

func TestReleaseWithoutDragIsHarmless(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	m := newManager(st)

	s, err := m.Start(ctx, "anna", testBoard(), "", scrambled())
	require.NoError(t, err)

	out, res, err := s.DragRelease(ctx, st)
	require.NoError(t, err)
	assert.Equal(t, drag.Outcome{}, out)
	assert.Equal(t, scrambled(), res.State.Cells)
}

func TestSolveRecordsResultOnce(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	m := newManager(st)

	// One swap away from solved: rows "CAT","DOG","OWL" with cells 0 and
	// 1 exchanged.
	start := []string{"A", "C", "T", "D", "O", "G", "O", "W", "L"}
	s, err := m.Start(ctx, "anna", testBoard(), "2026-08-23", start)
	require.NoError(t, err)

	res, err := s.Swap(ctx, st, 0, 1)
	require.NoError(t, err)
	require.True(t, res.State.Solved)

	rows, err := st.Leaderboard(ctx, "2026-08-23", 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "anna", rows[0].Owner)
	assert.Equal(t, 1, rows[0].Swaps)

	// Unsolving and re-solving does not add another result.
	_, err = s.Swap(ctx, st, 0, 1)
	require.NoError(t, err)
	_, err = s.Swap(ctx, st, 0, 1)
	require.NoError(t, err)

	rows, err = st.Leaderboard(ctx, "2026-08-23", 10)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestResetClearsProgress(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	m := newManager(st)

	s, err := m.Start(ctx, "anna", testBoard(), "", scrambled())
	require.NoError(t, err)
	_, err = s.Swap(ctx, st, 0, 2)
	require.NoError(t, err)

	require.NoError(t, s.Reset(ctx, st, scrambled()))

	state := s.State()
	assert.Equal(t, scrambled(), state.Cells)
	assert.Empty(t, state.Found)
	assert.Equal(t, 0, state.Swaps)

	cells, err := st.LoadCells(ctx, "anna", testBoard().Key())
	require.NoError(t, err)
	assert.Nil(t, cells)
}

func TestManagerGetChecksOwner(t *testing.T) {
	st := store.NewMemoryStore()
	m := newManager(st)

	s, err := m.Start(context.Background(), "anna", testBoard(), "", scrambled())
	require.NoError(t, err)

	got, err := m.Get(s.ID, "anna")
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = m.Get(s.ID, "ben")
	assert.ErrorIs(t, err, ErrNoSession)
	_, err = m.Get("nope", "anna")
	assert.ErrorIs(t, err, ErrNoSession)
}
