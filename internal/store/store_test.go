package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCellsRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	got, err := m.LoadCells(ctx, "anna", "minigames-cat-dog-owl")
	require.NoError(t, err)
	assert.Nil(t, got, "nothing stored yet")

	cells := []string{"C", "A", "T", "D", "O", "G", "O", "W", "L"}
	require.NoError(t, m.SaveCells(ctx, "anna", "minigames-cat-dog-owl", cells))

	got, err = m.LoadCells(ctx, "anna", "minigames-cat-dog-owl")
	require.NoError(t, err)
	assert.Equal(t, cells, got)

	// Stored copy is isolated from the caller's slice.
	cells[0] = "Z"
	got, err = m.LoadCells(ctx, "anna", "minigames-cat-dog-owl")
	require.NoError(t, err)
	assert.Equal(t, "C", got[0])

	// Other owners and boards see nothing.
	got, err = m.LoadCells(ctx, "ben", "minigames-cat-dog-owl")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryWordsAccumulate(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	require.NoError(t, m.AddWords(ctx, "anna", "k", []string{"cat", "dog"}))
	require.NoError(t, m.AddWords(ctx, "anna", "k", []string{"dog", "owl"}))

	words, err := m.LoadWords(ctx, "anna", "k")
	require.NoError(t, err)
	assert.Equal(t, []string{"cat", "dog", "owl"}, words)
}

func TestMemoryReset(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	require.NoError(t, m.SaveCells(ctx, "anna", "k", []string{"A"}))
	require.NoError(t, m.AddWords(ctx, "anna", "k", []string{"cat"}))
	require.NoError(t, m.Reset(ctx, "anna", "k"))

	cells, err := m.LoadCells(ctx, "anna", "k")
	require.NoError(t, err)
	assert.Nil(t, cells)
	words, err := m.LoadWords(ctx, "anna", "k")
	require.NoError(t, err)
	assert.Nil(t, words)
}

func TestMemorySettings(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	require.NoError(t, m.SetSetting(ctx, "anna", "profanityFilter", "on"))
	require.NoError(t, m.SetSetting(ctx, "anna", "profanityFilter", "off"))

	got, err := m.Settings(ctx, "anna")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"profanityFilter": "off"}, got)

	empty, err := m.Settings(ctx, "ben")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMemoryLeaderboard(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	require.NoError(t, m.InsertResult(ctx, Result{Owner: "slow", Date: "2026-08-23", Swaps: 9, ElapsedMs: 90000}))
	require.NoError(t, m.InsertResult(ctx, Result{Owner: "fast", Date: "2026-08-23", Swaps: 7, ElapsedMs: 30000}))
	require.NoError(t, m.InsertResult(ctx, Result{Owner: "other-day", Date: "2026-08-24", Swaps: 1, ElapsedMs: 1000}))

	// A second solve on the same date is ignored.
	require.NoError(t, m.InsertResult(ctx, Result{Owner: "fast", Date: "2026-08-23", Swaps: 1, ElapsedMs: 1}))

	rows, err := m.Leaderboard(ctx, "2026-08-23", 20)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "fast", rows[0].Owner)
	assert.Equal(t, 30000, rows[0].ElapsedMs)
	assert.Equal(t, "slow", rows[1].Owner)

	rows, err = m.Leaderboard(ctx, "2026-08-23", 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "fast", rows[0].Owner)
}
