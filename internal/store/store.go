// internal/store/store.go
//
// Persistence interfaces for the Boojum server plus the in-memory
// implementation used in tests and when durability is not required.
//
// The progress store holds the two records the browser kept per puzzle:
// one for the flattened grid cells, one for the found-words set. Both
// are scoped by owner and board key. Found words only ever
// accumulate; nothing removes them short of an explicit Reset.

package store

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("store: not found")

// ProgressStore persists puzzle state across sessions.
// Load methods return (nil, nil) when nothing is stored.
type ProgressStore interface {
	SaveCells(ctx context.Context, owner, boardKey string, cells []string) error
	LoadCells(ctx context.Context, owner, boardKey string) ([]string, error)

	// AddWords appends to the found-words set; duplicates are ignored.
	AddWords(ctx context.Context, owner, boardKey string, words []string) error
	LoadWords(ctx context.Context, owner, boardKey string) ([]string, error)

	// Reset removes both the stored cells and the found-words set.
	Reset(ctx context.Context, owner, boardKey string) error
}

// SettingsStore persists per-owner dashboard settings.
type SettingsStore interface {
	SetSetting(ctx context.Context, owner, key, value string) error
	Settings(ctx context.Context, owner string) (map[string]string, error)
}

// Result records one solved puzzle for leaderboards.
type Result struct {
	Owner     string `json:"owner"`
	BoardKey  string `json:"boardKey"`
	Date      string `json:"date"`
	Swaps     int    `json:"swaps"`
	ElapsedMs int    `json:"elapsedMs"`
}

// LBRow is one leaderboard entry.
type LBRow struct {
	Owner     string `json:"owner"`
	Swaps     int    `json:"swaps"`
	ElapsedMs int    `json:"elapsedMs"`
}

// ResultStore persists solved-puzzle results. A second result for the
// same owner and date is ignored.
type ResultStore interface {
	InsertResult(ctx context.Context, r Result) error
	Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error)
}

// Store is everything the HTTP layer needs from persistence.
type Store interface {
	ProgressStore
	SettingsStore
	ResultStore
}

// ----------------------------- in-memory -----------------------------------

type memory struct {
	mu       sync.RWMutex
	cells    map[string][]string            // owner|boardKey → flattened cells
	words    map[string]map[string]struct{} // owner|boardKey → found set
	settings map[string]map[string]string   // owner → key → value
	results  map[string]Result              // owner|date → result
	order    []string                       // insertion order of result keys
}

// NewMemoryStore constructs an in-memory Store.
func NewMemoryStore() Store {
	return &memory{
		cells:    make(map[string][]string),
		words:    make(map[string]map[string]struct{}),
		settings: make(map[string]map[string]string),
		results:  make(map[string]Result),
	}
}

func progressKey(owner, boardKey string) string { return owner + "|" + boardKey }

func (m *memory) SaveCells(ctx context.Context, owner, boardKey string, cells []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]string, len(cells))
	copy(cp, cells)
	m.cells[progressKey(owner, boardKey)] = cp
	return nil
}

func (m *memory) LoadCells(ctx context.Context, owner, boardKey string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stored, ok := m.cells[progressKey(owner, boardKey)]
	if !ok {
		return nil, nil
	}
	cp := make([]string, len(stored))
	copy(cp, stored)
	return cp, nil
}

func (m *memory) AddWords(ctx context.Context, owner, boardKey string, words []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := progressKey(owner, boardKey)
	set, ok := m.words[k]
	if !ok {
		set = make(map[string]struct{})
		m.words[k] = set
	}
	for _, w := range words {
		set[w] = struct{}{}
	}
	return nil
}

func (m *memory) LoadWords(ctx context.Context, owner, boardKey string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	set, ok := m.words[progressKey(owner, boardKey)]
	if !ok {
		return nil, nil
	}
	out := make([]string, 0, len(set))
	for w := range set {
		out = append(out, w)
	}
	sort.Strings(out)
	return out, nil
}

func (m *memory) Reset(ctx context.Context, owner, boardKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := progressKey(owner, boardKey)
	delete(m.cells, k)
	delete(m.words, k)
	return nil
}

func (m *memory) SetSetting(ctx context.Context, owner, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.settings[owner]
	if !ok {
		s = make(map[string]string)
		m.settings[owner] = s
	}
	s[key] = value
	return nil
}

func (m *memory) Settings(ctx context.Context, owner string) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.settings[owner]))
	for k, v := range m.settings[owner] {
		out[k] = v
	}
	return out, nil
}

func (m *memory) InsertResult(ctx context.Context, r Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := r.Owner + "|" + r.Date
	if _, ok := m.results[k]; ok {
		return nil
	}
	m.results[k] = r
	m.order = append(m.order, k)
	return nil
}

func (m *memory) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var rows []LBRow
	for _, k := range m.order {
		r := m.results[k]
		if r.Date != date {
			continue
		}
		rows = append(rows, LBRow{Owner: r.Owner, Swaps: r.Swaps, ElapsedMs: r.ElapsedMs})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].ElapsedMs != rows[j].ElapsedMs {
			return rows[i].ElapsedMs < rows[j].ElapsedMs
		}
		return rows[i].Swaps < rows[j].Swaps
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}
