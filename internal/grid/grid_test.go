package grid

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidatesCells(t *testing.T) {
	cases := []struct {
		name  string
		cells []string
		err   error
	}{
		{"nine letters ok", []string{"C", "A", "T", "D", "O", "G", "O", "W", "L"}, nil},
		{"lowercase normalized", []string{"c", "a", "t", "d", "o", "g", "o", "w", "l"}, nil},
		{"wrong count", []string{"A", "B", "C"}, ErrCellCount},
		{"empty cell", []string{"C", "A", "T", "D", "", "G", "O", "W", "L"}, ErrBadCell},
		{"multi-char cell", []string{"C", "A", "T", "D", "OO", "G", "O", "W", "L"}, ErrBadCell},
		{"digit", []string{"C", "A", "T", "D", "5", "G", "O", "W", "L"}, ErrBadCell},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g, err := New(tc.cells)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 3, g.Size())
			assert.Equal(t, "CAT", g.RowWord(0))
		})
	}
}

func TestSwapPreservesLetterMultiset(t *testing.T) {
	g, err := New([]string{"C", "A", "T", "D", "O", "G", "O", "W", "L"})
	require.NoError(t, err)

	before := g.Cells()
	sort.Strings(before)

	require.NoError(t, g.Swap(0, 8))
	require.NoError(t, g.Swap(3, 3)) // self-swap is legal
	require.NoError(t, g.Swap(2, 5))

	after := g.Cells()
	sort.Strings(after)
	assert.Equal(t, before, after)
}

func TestSwapRejectsOutOfRange(t *testing.T) {
	g, err := New([]string{"C", "A", "T", "D", "O", "G", "O", "W", "L"})
	require.NoError(t, err)

	assert.ErrorIs(t, g.Swap(-1, 0), ErrBadIndex)
	assert.ErrorIs(t, g.Swap(0, 9), ErrBadIndex)
	assert.Equal(t, "CAT", g.RowWord(0))
}

func TestWordsDerivation(t *testing.T) {
	g, err := New([]string{"C", "A", "T", "D", "O", "G", "O", "W", "L"})
	require.NoError(t, err)

	rows, cols := g.Words()
	assert.Equal(t, []string{"CAT", "DOG", "OWL"}, rows)
	assert.Equal(t, []string{"CDO", "AOW", "TGL"}, cols)

	c, err := g.Cell(1, 2)
	require.NoError(t, err)
	assert.Equal(t, "G", c)
	_, err = g.Cell(3, 0)
	assert.ErrorIs(t, err, ErrBadIndex)
}

func TestCellsReturnsCopy(t *testing.T) {
	g, err := New([]string{"C", "A", "T", "D", "O", "G", "O", "W", "L"})
	require.NoError(t, err)

	cells := g.Cells()
	cells[0] = "Z"
	assert.Equal(t, "CAT", g.RowWord(0))
}
