// internal/board/board.go
//
// Board provisioning for the Boojumble puzzle.
//
// Responsibilities:
//   - Load the board catalog from an environment-provided JSON file or
//     fall back to the embedded default set.
//   - Validate boards on load (size, letters, row/column consistency).
//   - Produce scrambled initial layouts that preserve the letter multiset
//     and are never handed out already solved.
//   - Deterministic daily board selection from date + salt.
//
// Environment variables:
//   BOOJUM_BOARDS_FILE=/path/to/boards.json

package board

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/alexrobincrabbe/boojum-server/internal/grid"
)

//go:embed boards.json
var embeddedBoards []byte

// Board is one Boojumble puzzle: an ID plus its immutable solution.
type Board struct {
	ID string `json:"id"`
	grid.Solution
}

// Key identifies the persistence scope for progress on this board.
func (b Board) Key() string { return "minigames-" + b.ID }

// Validate checks the board ID and its solution.
func (b Board) Validate() error {
	if strings.TrimSpace(b.ID) == "" {
		return errors.New("board: missing id")
	}
	if err := b.Solution.Validate(); err != nil {
		return fmt.Errorf("board %s: %w", b.ID, err)
	}
	return nil
}

// Letters returns the solution's letters flattened row-major.
func (b Board) Letters() []string {
	n := b.Size()
	out := make([]string, 0, n*n)
	for _, w := range b.Rows {
		for i := 0; i < len(w); i++ {
			out = append(out, string(w[i]))
		}
	}
	return out
}

// Scramble permutes the board's letters into an initial layout.
// The result always carries the same letter multiset as the solution and
// is re-shuffled if a permutation lands on the solved arrangement.
func (b Board) Scramble(rng *rand.Rand) []string {
	letters := b.Letters()
	solved := strings.Join(letters, "")
	for attempt := 0; attempt < 100; attempt++ {
		rng.Shuffle(len(letters), func(i, j int) {
			letters[i], letters[j] = letters[j], letters[i]
		})
		if strings.Join(letters, "") != solved {
			return letters
		}
	}
	// All letters identical; nothing better exists.
	return letters
}

// Catalog holds the loaded boards, in file order.
type Catalog struct {
	boards []Board
	byID   map[string]Board
}

// Load reads the catalog from BOOJUM_BOARDS_FILE if set, otherwise the
// embedded default set. Every board is validated; IDs must be unique.
func Load() (*Catalog, error) {
	data := embeddedBoards
	if path := os.Getenv("BOOJUM_BOARDS_FILE"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("board: read %s: %w", path, err)
		}
		data = b
	}
	return parse(data)
}

func parse(data []byte) (*Catalog, error) {
	var boards []Board
	if err := json.Unmarshal(data, &boards); err != nil {
		return nil, fmt.Errorf("board: parse catalog: %w", err)
	}
	if len(boards) == 0 {
		return nil, errors.New("board: catalog is empty")
	}
	c := &Catalog{boards: boards, byID: make(map[string]Board, len(boards))}
	for _, b := range boards {
		if err := b.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byID[b.ID]; dup {
			return nil, fmt.Errorf("board: duplicate id %q", b.ID)
		}
		c.byID[b.ID] = b
	}
	return c, nil
}

// ByID returns a timeless board by identifier.
func (c *Catalog) ByID(id string) (Board, bool) {
	b, ok := c.byID[id]
	return b, ok
}

// Len reports the number of boards in the catalog.
func (c *Catalog) Len() int { return len(c.boards) }

// Daily returns the board for the given day, chosen deterministically
// from date + salt, along with its date key.
func (c *Catalog) Daily(t time.Time, salt string) (Board, string) {
	date := DateKey(t)
	idx := BoardIndex(t, salt, len(c.boards))
	return c.boards[idx], date
}
