// internal/grid/match.go
//
// Match evaluator for the Boojumble puzzle.
// After every completed swap the grid's row and column words are compared
// against the board's two solution arrays. The game uses a "swapped
// orientation" rule: a row word equal to the column solution at the same
// index counts as a correct placement, not merely a partial one.
//
// Per-cell classification priority: correct > present > unmarked.
// The solved condition is an inclusive-or: all rows in place OR all
// columns in place, so a puzzle can be finished via either axis.

package grid

import (
	"fmt"
	"strings"
)

// Mark classifies a single cell after evaluation.
//   - "correct": the cell belongs to a line matching its solution slot.
//   - "present": the cell's line is a solution word, but at the wrong index.
//   - "":        unmarked.
type Mark string

const (
	MarkCorrect Mark = "correct"
	MarkPresent Mark = "present"
	MarkNone    Mark = ""
)

// Solution is the server-provided answer for one board: N row words and
// N column words. Immutable for the board's lifetime.
type Solution struct {
	Rows []string `json:"rows"`
	Cols []string `json:"cols"`
}

// Validate checks that the solution fits an N×N grid: N words per axis,
// each exactly N uppercase letters, and the column words consistent with
// the row words (Cols[j][i] == Rows[i][j]).
func (s Solution) Validate() error {
	n := len(s.Rows)
	if n < MinSize || n > MaxSize {
		return fmt.Errorf("%w: %d rows", ErrBadSize, n)
	}
	if len(s.Cols) != n {
		return fmt.Errorf("grid: %d rows but %d cols", n, len(s.Cols))
	}
	for i, w := range append(append([]string{}, s.Rows...), s.Cols...) {
		if len(w) != n {
			return fmt.Errorf("grid: solution word %q has length %d, want %d", w, len(w), n)
		}
		for j := 0; j < len(w); j++ {
			if w[j] < 'A' || w[j] > 'Z' {
				return fmt.Errorf("%w: %q in solution word %d", ErrBadCell, string(w[j]), i)
			}
		}
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if s.Cols[j][i] != s.Rows[i][j] {
				return fmt.Errorf("grid: cols[%d] disagrees with rows[%d] at letter %d", j, i, j)
			}
		}
	}
	return nil
}

// Size returns the board size the solution describes.
func (s Solution) Size() int { return len(s.Rows) }

// Evaluation is the result of matching a grid against a solution.
// Evaluate is a pure function of the grid contents, so evaluating the
// same grid twice yields identical results.
type Evaluation struct {
	Marks  []Mark   `json:"marks"`  // per cell, row-major
	Found  []string `json:"found"`  // complete correct words, lowercase, in line order
	Solved bool     `json:"solved"`
}

// Evaluate derives the grid's row and column words and classifies every cell.
//
// A line (row i or column i) is correct when its word equals either
// solution array at index i (the swapped-orientation rule). A line whose
// word appears anywhere else in the solution marks its cells present,
// unless a crossing correct line already claimed them.
func Evaluate(g *Grid, sol Solution) Evaluation {
	n := g.Size()
	rows, cols := g.Words()
	ev := Evaluation{Marks: make([]Mark, n*n)}

	inSolution := make(map[string]struct{}, 2*n)
	for _, w := range sol.Rows {
		inSolution[w] = struct{}{}
	}
	for _, w := range sol.Cols {
		inSolution[w] = struct{}{}
	}

	seen := make(map[string]struct{})
	addFound := func(w string) {
		lw := strings.ToLower(w)
		if _, ok := seen[lw]; ok {
			return
		}
		seen[lw] = struct{}{}
		ev.Found = append(ev.Found, lw)
	}

	for i := 0; i < n; i++ {
		switch {
		case rows[i] == sol.Rows[i] || rows[i] == sol.Cols[i]:
			for c := 0; c < n; c++ {
				ev.Marks[i*n+c] = MarkCorrect
			}
			addFound(rows[i])
		default:
			if _, ok := inSolution[rows[i]]; ok {
				for c := 0; c < n; c++ {
					ev.Marks[i*n+c] = MarkPresent
				}
			}
		}
	}
	for i := 0; i < n; i++ {
		switch {
		case cols[i] == sol.Cols[i] || cols[i] == sol.Rows[i]:
			for r := 0; r < n; r++ {
				ev.Marks[r*n+i] = MarkCorrect
			}
			addFound(cols[i])
		default:
			if _, ok := inSolution[cols[i]]; ok {
				for r := 0; r < n; r++ {
					if ev.Marks[r*n+i] != MarkCorrect {
						ev.Marks[r*n+i] = MarkPresent
					}
				}
			}
		}
	}

	allRows, allCols := true, true
	for i := 0; i < n; i++ {
		if rows[i] != sol.Rows[i] {
			allRows = false
		}
		if cols[i] != sol.Cols[i] {
			allCols = false
		}
	}
	ev.Solved = allRows || allCols
	return ev
}
