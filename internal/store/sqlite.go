// internal/store/sqlite.go
//
// SQLite-backed Store. Grid cells are serialized as a JSON array in a
// single row per (owner, board); found words are individual rows with
// INSERT OR IGNORE so the set only grows. A stored payload that fails to
// parse is logged and treated as absent; the caller falls back to the
// scrambled server layout.

package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/rs/zerolog/log"
)

type sqliteStore struct {
	db *sql.DB
}

// NewSQLiteStore wraps an opened database handle. Schema management lives
// with the caller (migrations run at startup).
func NewSQLiteStore(db *sql.DB) Store {
	return &sqliteStore{db: db}
}

func (s *sqliteStore) SaveCells(ctx context.Context, owner, boardKey string, cells []string) error {
	payload, err := json.Marshal(cells)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO puzzle_progress (owner_id, board_key, cells, updated_at)
        VALUES (?, ?, ?, strftime('%Y-%m-%dT%H:%M:%SZ','now'))
        ON CONFLICT(owner_id, board_key)
        DO UPDATE SET cells=excluded.cells, updated_at=excluded.updated_at`,
		owner, boardKey, string(payload))
	return err
}

func (s *sqliteStore) LoadCells(ctx context.Context, owner, boardKey string) ([]string, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT cells FROM puzzle_progress WHERE owner_id=? AND board_key=?`,
		owner, boardKey).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var cells []string
	if err := json.Unmarshal([]byte(payload), &cells); err != nil {
		log.Warn().Err(err).Str("boardKey", boardKey).Msg("stored cells unreadable, falling back to scramble")
		return nil, nil
	}
	return cells, nil
}

func (s *sqliteStore) AddWords(ctx context.Context, owner, boardKey string, words []string) error {
	if len(words) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	for _, w := range words {
		if _, err := tx.ExecContext(ctx, `
            INSERT OR IGNORE INTO puzzle_words (owner_id, board_key, word)
            VALUES (?, ?, ?)`, owner, boardKey, w); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *sqliteStore) LoadWords(ctx context.Context, owner, boardKey string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT word FROM puzzle_words WHERE owner_id=? AND board_key=? ORDER BY word`,
		owner, boardKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (s *sqliteStore) Reset(ctx context.Context, owner, boardKey string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM puzzle_progress WHERE owner_id=? AND board_key=?`, owner, boardKey); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM puzzle_words WHERE owner_id=? AND board_key=?`, owner, boardKey); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *sqliteStore) SetSetting(ctx context.Context, owner, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO settings (owner_id, key, value)
        VALUES (?, ?, ?)
        ON CONFLICT(owner_id, key) DO UPDATE SET value=excluded.value`,
		owner, key, value)
	return err
}

func (s *sqliteStore) Settings(ctx context.Context, owner string) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value FROM settings WHERE owner_id=?`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, rows.Err()
}

func (s *sqliteStore) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT OR IGNORE INTO puzzle_results (owner_id, board_key, date, swaps, elapsed_ms)
        VALUES (?, ?, ?, ?, ?)`,
		r.Owner, r.BoardKey, r.Date, r.Swaps, r.ElapsedMs)
	return err
}

func (s *sqliteStore) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT owner_id, swaps, elapsed_ms
        FROM puzzle_results
        WHERE date=?
        ORDER BY elapsed_ms ASC, swaps ASC, created_at ASC
        LIMIT ?`, date, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]LBRow, 0, limit)
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.Owner, &r.Swaps, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
