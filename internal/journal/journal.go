// Package journal persists one row per accepted press to sqlite so the
// installation keeps a queryable session history across restarts. Journal
// failures must never abort the print pipeline: callers log and move on.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/sweeney/fortune-button/internal/guard"
	"github.com/sweeney/fortune-button/internal/oracle"
	"github.com/sweeney/fortune-button/internal/printer"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	seq INTEGER PRIMARY KEY,
	id TEXT NOT NULL UNIQUE,
	pressed_at TEXT NOT NULL,
	category TEXT NOT NULL,
	entropy REAL NOT NULL,
	intensity REAL NOT NULL,
	loops INTEGER NOT NULL,
	fallback INTEGER NOT NULL DEFAULT 0,
	method TEXT NOT NULL DEFAULT '',
	success INTEGER NOT NULL DEFAULT 0,
	error TEXT NOT NULL DEFAULT ''
);
`

// Entry is one journaled session.
type Entry struct {
	Seq       uint64    `json:"seq"`
	ID        string    `json:"id"`
	PressedAt time.Time `json:"pressed_at"`
	Category  string    `json:"category"`
	Entropy   float64   `json:"entropy"`
	Intensity float64   `json:"intensity"`
	Loops     int       `json:"loops"`
	Fallback  bool      `json:"fallback"`
	Method    string    `json:"method,omitempty"`
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"`
}

// Journal is a sqlite-backed session log.
type Journal struct {
	db *sql.DB
}

// Open opens (creating if needed) the journal database at the given path.
func Open(ctx context.Context, path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Journal{db: db}, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

// Record inserts one session row.
func (j *Journal) Record(ctx context.Context, ev guard.PressEvent, rec oracle.ContentRecord, out printer.Outcome) error {
	errText := ""
	if out.Err != nil {
		errText = out.Err.Error()
	}
	_, err := j.db.ExecContext(ctx, `
INSERT INTO sessions(seq, id, pressed_at, category, entropy, intensity, loops, fallback, method, success, error)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, ev.Sequence, uuid.NewString(), ev.Timestamp.UTC().Format(time.RFC3339Nano),
		string(rec.Category), rec.Metrics.Entropy, rec.Metrics.Intensity, rec.Metrics.Loops,
		boolToInt(rec.FallbackUsed), out.Method, boolToInt(out.Success), errText)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// MaxSeq returns the highest recorded sequence number, or 0 when the journal
// is empty. Used to restore the session counter across restarts.
func (j *Journal) MaxSeq(ctx context.Context) (uint64, error) {
	var seq sql.NullInt64
	err := j.db.QueryRowContext(ctx, `SELECT MAX(seq) FROM sessions`).Scan(&seq)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("query max seq: %w", err)
	}
	if !seq.Valid || seq.Int64 < 0 {
		return 0, nil
	}
	return uint64(seq.Int64), nil
}

// Recent returns up to n sessions, newest first.
func (j *Journal) Recent(ctx context.Context, n int) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx, `
SELECT seq, id, pressed_at, category, entropy, intensity, loops, fallback, method, success, error
FROM sessions ORDER BY seq DESC LIMIT ?
`, n)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var pressedAt string
		var fallback, success int
		if err := rows.Scan(&e.Seq, &e.ID, &pressedAt, &e.Category, &e.Entropy,
			&e.Intensity, &e.Loops, &fallback, &e.Method, &success, &e.Error); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, pressedAt); err == nil {
			e.PressedAt = t
		}
		e.Fallback = fallback != 0
		e.Success = success != 0
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
