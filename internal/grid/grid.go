// internal/grid/grid.go
//
// Mutable Boojumble grid: an N×N board of single-letter cells.
// The only mutation is Swap, so the multiset of letters on the board
// never changes after construction.
//
// Cells are stored row-major and normalized to uppercase. Sizes 3–5
// match the puzzle variants the platform serves.

package grid

import (
	"errors"
	"fmt"
	"strings"
)

const (
	MinSize = 3
	MaxSize = 5
)

var (
	ErrBadSize   = errors.New("grid: size must be 3, 4 or 5")
	ErrBadCell   = errors.New("grid: cell must be a single letter A-Z")
	ErrBadIndex  = errors.New("grid: cell index out of range")
	ErrCellCount = errors.New("grid: cell count is not a supported square")
)

// Grid is the puzzle board. Always holds exactly size*size populated cells.
type Grid struct {
	size  int
	cells []string
}

// New creates a grid from flattened row-major cells.
// The cell count must be N² for N in 3..5 and every cell a single letter;
// letters are normalized to uppercase.
func New(cells []string) (*Grid, error) {
	size, ok := sizeFor(len(cells))
	if !ok {
		return nil, fmt.Errorf("%w: %d cells", ErrCellCount, len(cells))
	}
	g := &Grid{size: size, cells: make([]string, len(cells))}
	for i, c := range cells {
		u := strings.ToUpper(strings.TrimSpace(c))
		if len(u) != 1 || u[0] < 'A' || u[0] > 'Z' {
			return nil, fmt.Errorf("%w: %q at index %d", ErrBadCell, c, i)
		}
		g.cells[i] = u
	}
	return g, nil
}

// sizeFor maps a flattened length to the board size it encodes.
func sizeFor(n int) (int, bool) {
	for s := MinSize; s <= MaxSize; s++ {
		if s*s == n {
			return s, true
		}
	}
	return 0, false
}

// Size returns N for an N×N grid.
func (g *Grid) Size() int { return g.size }

// Cells returns a copy of the flattened row-major cells.
func (g *Grid) Cells() []string {
	out := make([]string, len(g.cells))
	copy(out, g.cells)
	return out
}

// Cell returns the letter at (row, col).
func (g *Grid) Cell(row, col int) (string, error) {
	if row < 0 || row >= g.size || col < 0 || col >= g.size {
		return "", ErrBadIndex
	}
	return g.cells[row*g.size+col], nil
}

// Swap exchanges the cells at flattened indices a and b.
// Swapping a cell with itself is legal and leaves the grid unchanged.
func (g *Grid) Swap(a, b int) error {
	if a < 0 || a >= len(g.cells) || b < 0 || b >= len(g.cells) {
		return ErrBadIndex
	}
	g.cells[a], g.cells[b] = g.cells[b], g.cells[a]
	return nil
}

// RowWord concatenates the letters of row i.
func (g *Grid) RowWord(i int) string {
	start := i * g.size
	return strings.Join(g.cells[start:start+g.size], "")
}

// ColWord concatenates the letters of column i.
func (g *Grid) ColWord(i int) string {
	var b strings.Builder
	for r := 0; r < g.size; r++ {
		b.WriteString(g.cells[r*g.size+i])
	}
	return b.String()
}

// Words derives the N row words and N column words from current contents.
func (g *Grid) Words() (rows, cols []string) {
	rows = make([]string, g.size)
	cols = make([]string, g.size)
	for i := 0; i < g.size; i++ {
		rows[i] = g.RowWord(i)
		cols[i] = g.ColWord(i)
	}
	return rows, cols
}
