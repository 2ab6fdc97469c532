// Package archive conserve dans SQLite les notes et citations de chaque rendu.
package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickprogramme/drivein/pkg/model"
	_ "modernc.org/sqlite" // SQLite sans CGO
)

var ErrNotFound = errors.New("no archived run for this viewing")

type Archive struct {
	db *sql.DB
}

// Run est un rendu archivé : le film, le format et les notes collectées.
type Run struct {
	ID        string
	At        time.Time
	LogSource string
	Viewing   model.Viewing
	Format    model.Format
	Entries   int
	Quotes    []model.QuoteEntry
}

func Open(path string) (*Archive, error) {
	// WAL + busy timeout pour éviter "database is locked"
	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Archive{db: db}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS runs(
	  id          TEXT    PRIMARY KEY,
	  created_utc INTEGER NOT NULL,
	  log_source  TEXT    NOT NULL,
	  viewing_key TEXT    NOT NULL,
	  title       TEXT    NOT NULL,
	  year        TEXT,
	  director    TEXT,
	  picker      TEXT,
	  honcho      TEXT,
	  format      TEXT    NOT NULL CHECK (format IN ('advanced','simple')),
	  entries     INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS quotes(
	  id       INTEGER PRIMARY KEY,
	  run_id   TEXT    NOT NULL REFERENCES runs(id),
	  position INTEGER NOT NULL,
	  nickname TEXT    NOT NULL,
	  rating   TEXT    NOT NULL,
	  quote    TEXT    NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_key    ON runs(viewing_key, created_utc);
	CREATE INDEX IF NOT EXISTS idx_quotes_run  ON quotes(run_id, position);
	`)
	if err != nil {
		return fmt.Errorf("failed to create archive tables: %w", err)
	}
	return nil
}

func (a *Archive) Close() error {
	return a.db.Close()
}

func validateRun(r Run) error {
	if r.Viewing.Title == "" {
		return fmt.Errorf("title cannot be empty")
	}
	if r.Format != model.FormatAdvanced && r.Format != model.FormatSimple {
		return fmt.Errorf("invalid format: %q", r.Format)
	}
	for i, q := range r.Quotes {
		if q.Nickname == "" {
			return fmt.Errorf("quote %d has no nickname", i)
		}
	}
	return nil
}

// Record archive un rendu et ses citations dans une transaction ; retourne l'id du run.
func (a *Archive) Record(ctx context.Context, r Run) (string, error) {
	if err := validateRun(r); err != nil {
		return "", fmt.Errorf("invalid run: %w", err)
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.At.IsZero() {
		r.At = time.Now()
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs(id, created_utc, log_source, viewing_key, title, year, director, picker, honcho, format, entries) VALUES(?,?,?,?,?,?,?,?,?,?,?)`,
		r.ID, r.At.UTC().UnixMilli(), r.LogSource, r.Viewing.Key(), r.Viewing.Title, r.Viewing.Year,
		r.Viewing.Director, r.Viewing.Nickname, r.Viewing.Honcho, string(r.Format), r.Entries)
	if err != nil {
		_ = tx.Rollback()
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO quotes(run_id, position, nickname, rating, quote) VALUES(?,?,?,?,?)`)
	if err != nil {
		_ = tx.Rollback()
		return "", fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, q := range r.Quotes {
		if _, err := stmt.ExecContext(ctx, r.ID, i, q.Nickname, q.Rating, q.Quote); err != nil {
			_ = tx.Rollback()
			return "", fmt.Errorf("failed to insert quote: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}
	return r.ID, nil
}

// Latest retourne le dernier rendu archivé pour ce film, citations comprises.
func (a *Archive) Latest(ctx context.Context, v model.Viewing) (Run, error) {
	var (
		r      Run
		millis int64
		format string
	)
	row := a.db.QueryRowContext(ctx,
		`SELECT id, created_utc, log_source, title, year, director, picker, honcho, format, entries
		   FROM runs WHERE viewing_key = ? ORDER BY created_utc DESC, rowid DESC LIMIT 1`, v.Key())
	err := row.Scan(&r.ID, &millis, &r.LogSource, &r.Viewing.Title, &r.Viewing.Year, &r.Viewing.Director,
		&r.Viewing.Nickname, &r.Viewing.Honcho, &format, &r.Entries)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%s: %w", v.Label(), ErrNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("failed to query run: %w", err)
	}
	r.At = time.UnixMilli(millis).UTC()
	r.Format = model.Format(format)

	rows, err := a.db.QueryContext(ctx,
		`SELECT nickname, rating, quote FROM quotes WHERE run_id = ? ORDER BY position`, r.ID)
	if err != nil {
		return Run{}, fmt.Errorf("failed to query quotes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var q model.QuoteEntry
		if err := rows.Scan(&q.Nickname, &q.Rating, &q.Quote); err != nil {
			return Run{}, fmt.Errorf("failed to scan quote: %w", err)
		}
		r.Quotes = append(r.Quotes, q)
	}
	if err := rows.Err(); err != nil {
		return Run{}, fmt.Errorf("failed to read quotes: %w", err)
	}
	return r, nil
}

// CountRuns retourne le nombre de rendus archivés.
func (a *Archive) CountRuns(ctx context.Context) (int, error) {
	var n int
	if err := a.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count runs: %w", err)
	}
	return n, nil
}
