// internal/room/board.go
//
// Letter boards for live game rooms. Unlike the Boojumble puzzle these
// are free-form grids: players trace words through adjacent cells. A
// board may carry bonus markers: the Boojum (highest value, doubles a
// word's score) and the Snark (second highest, flat bonus). Each marker sits on at most
// one cell each, never both on the same cell.

package room

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
)

var (
	ErrBadBoardSize  = errors.New("room: board size must be 4 or 5")
	ErrBadLetter     = errors.New("room: cell must be a single letter A-Z")
	ErrDuplicateMark = errors.New("room: cell carries more than one bonus marker")
	ErrExtraMark     = errors.New("room: bonus marker appears on more than one cell")
)

// TileMark is a bonus marker on a board cell.
type TileMark string

const (
	TileNone   TileMark = ""
	TileBoojum TileMark = "boojum"
	TileSnark  TileMark = "snark"
)

// Board is the room's letter grid with optional bonus markers.
type Board struct {
	Size  int        `json:"size"`
	Cells []string   `json:"cells"` // row-major letters
	Marks []TileMark `json:"marks"` // same indexing as Cells
}

// Validate checks dimensions, letters, and bonus-marker placement.
func (b Board) Validate() error {
	if b.Size != 4 && b.Size != 5 {
		return fmt.Errorf("%w: %d", ErrBadBoardSize, b.Size)
	}
	if len(b.Cells) != b.Size*b.Size {
		return fmt.Errorf("room: %d cells for size %d", len(b.Cells), b.Size)
	}
	if len(b.Marks) != 0 && len(b.Marks) != len(b.Cells) {
		return fmt.Errorf("room: %d marks for %d cells", len(b.Marks), len(b.Cells))
	}
	for i, c := range b.Cells {
		if len(c) != 1 || c[0] < 'A' || c[0] > 'Z' {
			return fmt.Errorf("%w: %q at index %d", ErrBadLetter, c, i)
		}
	}
	seen := map[TileMark]bool{}
	for i, m := range b.Marks {
		switch m {
		case TileNone:
		case TileBoojum, TileSnark:
			if seen[m] {
				return fmt.Errorf("%w: %s at index %d", ErrExtraMark, m, i)
			}
			seen[m] = true
		default:
			return fmt.Errorf("%w: %q at index %d", ErrDuplicateMark, m, i)
		}
	}
	return nil
}

// letterPool weights letters roughly by English frequency so random
// boards stay playable.
const letterPool = "EEEEEEAAAAAIIIIOOOONNNRRRTTTLLSSUUDDGBCMPFHVWYKJXQZ"

// NewRandomBoard builds a size×size board with one Boojum and one Snark
// on distinct cells.
func NewRandomBoard(size int, rng *rand.Rand) Board {
	n := size * size
	b := Board{
		Size:  size,
		Cells: make([]string, n),
		Marks: make([]TileMark, n),
	}
	for i := range b.Cells {
		b.Cells[i] = string(letterPool[rng.Intn(len(letterPool))])
	}
	boojum := rng.Intn(n)
	snark := rng.Intn(n - 1)
	if snark >= boojum {
		snark++
	}
	b.Marks[boojum] = TileBoojum
	b.Marks[snark] = TileSnark
	return b
}

// neighborOffsets covers the 8 surrounding cells.
var neighborOffsets = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// FindPath reports a cell path spelling the word through adjacent cells
// without reusing any cell, or false when the word is not on the board.
func (b Board) FindPath(word string) ([]int, bool) {
	w := strings.ToUpper(word)
	if w == "" {
		return nil, false
	}
	used := make([]bool, len(b.Cells))
	path := make([]int, 0, len(w))
	for start := range b.Cells {
		if b.Cells[start] != string(w[0]) {
			continue
		}
		if p, ok := b.walk(w, 0, start, used, path); ok {
			return p, true
		}
	}
	return nil, false
}

func (b Board) walk(word string, depth, pos int, used []bool, path []int) ([]int, bool) {
	used[pos] = true
	path = append(path, pos)
	defer func() { used[pos] = false }()

	if depth == len(word)-1 {
		out := make([]int, len(path))
		copy(out, path)
		return out, true
	}

	row, col := pos/b.Size, pos%b.Size
	next := string(word[depth+1])
	for _, off := range neighborOffsets {
		r, c := row+off[0], col+off[1]
		if r < 0 || r >= b.Size || c < 0 || c >= b.Size {
			continue
		}
		np := r*b.Size + c
		if used[np] || b.Cells[np] != next {
			continue
		}
		if p, ok := b.walk(word, depth+1, np, used, path); ok {
			return p, true
		}
	}
	return nil, false
}

// Score values a word traced along path: 1 point at 3 letters, one more
// per extra letter, 11 at 8+. A Boojum on the path doubles the word; a
// Snark adds a flat 5.
func (b Board) Score(word string, path []int) int {
	n := len(word)
	if n < 3 {
		return 0
	}
	pts := n - 2
	if n >= 8 {
		pts = 11
	}
	boojum, snark := false, false
	for _, p := range path {
		if len(b.Marks) == 0 {
			break
		}
		switch b.Marks[p] {
		case TileBoojum:
			boojum = true
		case TileSnark:
			snark = true
		}
	}
	if boojum {
		pts *= 2
	}
	if snark {
		pts += 5
	}
	return pts
}
