package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/johns/time-spectrum/internal/classify"
	"github.com/johns/time-spectrum/internal/engine"
	"github.com/johns/time-spectrum/internal/spectrum"
)

const dateLayout = "2006-01-02"

// Store persists computed days in SQLite, one row per date.
// The engine never reads it directly: callers load a History snapshot,
// compute, then Save the new result.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Entry is a one-line summary of a stored day.
type Entry struct {
	Date             string
	TotalDurationMin int
	DeepFocusMin     int
	TodoStr          string
	UpdatedAt        time.Time
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: path, now: time.Now}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS results (
		date           TEXT PRIMARY KEY,
		payload        TEXT NOT NULL,
		total_min      INTEGER NOT NULL DEFAULT 0,
		deep_focus_min INTEGER NOT NULL DEFAULT 0,
		todo_str       TEXT NOT NULL DEFAULT '',
		updated_at     TEXT NOT NULL
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create results table: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Save inserts or replaces the result for r.Date.
func (s *Store) Save(ctx context.Context, r engine.ComputedResult) error {
	if _, err := time.Parse(dateLayout, r.Date); err != nil {
		return fmt.Errorf("invalid result date %q: %w", r.Date, err)
	}

	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO results (date, payload, total_min, deep_focus_min, todo_str, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			payload = excluded.payload,
			total_min = excluded.total_min,
			deep_focus_min = excluded.deep_focus_min,
			todo_str = excluded.todo_str,
			updated_at = excluded.updated_at`,
		r.Date, string(payload), r.TotalDurationMin,
		spectrum.Duration(r.Spectrum, classify.DeepFocus), r.Light.TodoStr,
		s.now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save result %s: %w", r.Date, err)
	}
	return nil
}

// Get returns the stored result for date. The bool is false when absent.
func (s *Store) Get(ctx context.Context, date string) (engine.ComputedResult, bool, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM results WHERE date = ?`, date).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return engine.ComputedResult{}, false, nil
	}
	if err != nil {
		return engine.ComputedResult{}, false, fmt.Errorf("get result %s: %w", date, err)
	}

	var r engine.ComputedResult
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		return engine.ComputedResult{}, false, fmt.Errorf("parse result %s: %w", date, err)
	}
	return r, true, nil
}

// Recent returns up to n results dated strictly before the given date,
// oldest first. An empty before means no upper bound.
func (s *Store) Recent(ctx context.Context, before string, n int) (engine.History, error) {
	if n <= 0 {
		return nil, nil
	}
	query := `SELECT date, payload FROM results ORDER BY date DESC LIMIT ?`
	args := []any{n}
	if before != "" {
		query = `SELECT date, payload FROM results WHERE date < ? ORDER BY date DESC LIMIT ?`
		args = []any{before, n}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var newestFirst engine.History
	for rows.Next() {
		var date, payload string
		if err := rows.Scan(&date, &payload); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		var r engine.ComputedResult
		if err := json.Unmarshal([]byte(payload), &r); err != nil {
			return nil, fmt.Errorf("parse result %s: %w", date, err)
		}
		newestFirst = append(newestFirst, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}

	h := make(engine.History, len(newestFirst))
	for i, r := range newestFirst {
		h[len(newestFirst)-1-i] = r
	}
	return h, nil
}

// List returns summaries of stored days, most recent first.
// A non-positive limit returns every row.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, total_min, deep_focus_min, todo_str, updated_at FROM results
		ORDER BY date DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var updated string
		if err := rows.Scan(&e.Date, &e.TotalDurationMin, &e.DeepFocusMin, &e.TodoStr, &updated); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Prune deletes all but the newest keep rows and reports how many were removed.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM results WHERE date NOT IN (
			SELECT date FROM results ORDER BY date DESC LIMIT ?
		)`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune history: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune history: %w", err)
	}
	return n, nil
}
