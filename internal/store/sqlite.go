// Package store keeps the results sheet: every ranked posting of every run,
// appended to a SQLite table.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/amishk599/jobsift/internal/model"
)

// Fixed-width UTC layout so stored timestamps sort as text.
const (
	timeLayout = "2006-01-02T15:04:05.000000000Z"
	dateLayout = time.DateOnly
)

var _ model.Uploader = (*SQLiteSheet)(nil)

// RunInfo describes one collection run recorded in the sheet.
type RunInfo struct {
	ID    string
	At    time.Time
	Count int
}

// SQLiteSheet appends ranked postings to the job_posts table.
type SQLiteSheet struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteSheet opens (or creates) a SQLite database at dbPath and ensures the
// job_posts table exists.
func NewSQLiteSheet(dbPath string) (*SQLiteSheet, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS job_posts (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id       TEXT    NOT NULL,
		inserted_at  TEXT    NOT NULL,
		capture_date TEXT    NOT NULL,
		title        TEXT    NOT NULL,
		company      TEXT    NOT NULL,
		city         TEXT    NOT NULL,
		state        TEXT    NOT NULL,
		summary      TEXT    NOT NULL,
		url          TEXT    NOT NULL,
		compensation TEXT    NOT NULL,
		score        INTEGER,
		rank         INTEGER NOT NULL
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating job_posts table: %w", err)
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS job_posts_run ON job_posts (run_id, rank)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating job_posts index: %w", err)
	}

	return &SQLiteSheet{db: db, now: time.Now}, nil
}

// Upload appends postings in their given order under runID. The whole run is
// written in one transaction.
func (s *SQLiteSheet) Upload(ctx context.Context, runID string, postings []model.PostingRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("uploading run %s: %w", runID, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO job_posts
		(run_id, inserted_at, capture_date, title, company, city, state, summary, url, compensation, score, rank)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("uploading run %s: %w", runID, err)
	}
	defer stmt.Close()

	insertedAt := s.now().UTC().Format(timeLayout)
	for i, p := range postings {
		var score sql.NullInt64
		if p.Score != nil {
			score = sql.NullInt64{Int64: int64(*p.Score), Valid: true}
		}
		_, err := stmt.ExecContext(ctx,
			runID, insertedAt, p.CaptureDate.Format(dateLayout),
			p.Title, p.Company, p.City, p.State, p.Summary, p.URL, p.CompensationText,
			score, i+1,
		)
		if err != nil {
			return fmt.Errorf("uploading run %s: row %d: %w", runID, i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("uploading run %s: commit: %w", runID, err)
	}
	return nil
}

// Runs lists the most recent runs, newest first.
func (s *SQLiteSheet) Runs(ctx context.Context, limit int) ([]RunInfo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT run_id, MIN(inserted_at) AS first_at, COUNT(*)
		FROM job_posts GROUP BY run_id ORDER BY first_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		var r RunInfo
		var at string
		if err := rows.Scan(&r.ID, &at, &r.Count); err != nil {
			return nil, fmt.Errorf("listing runs: %w", err)
		}
		if r.At, err = time.Parse(timeLayout, at); err != nil {
			return nil, fmt.Errorf("listing runs: run %s: %w", r.ID, err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Postings returns the rows of one run in rank order.
func (s *SQLiteSheet) Postings(ctx context.Context, runID string) ([]model.PostingRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT capture_date, title, company, city, state,
		summary, url, compensation, score
		FROM job_posts WHERE run_id = ? ORDER BY rank`, runID)
	if err != nil {
		return nil, fmt.Errorf("loading run %s: %w", runID, err)
	}
	defer rows.Close()

	var out []model.PostingRecord
	for rows.Next() {
		var p model.PostingRecord
		var captured string
		var score sql.NullInt64
		if err := rows.Scan(&captured, &p.Title, &p.Company, &p.City, &p.State,
			&p.Summary, &p.URL, &p.CompensationText, &score); err != nil {
			return nil, fmt.Errorf("loading run %s: %w", runID, err)
		}
		if p.CaptureDate, err = time.Parse(dateLayout, captured); err != nil {
			return nil, fmt.Errorf("loading run %s: capture date: %w", runID, err)
		}
		if score.Valid {
			v := int(score.Int64)
			p.Score = &v
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Close closes the underlying database connection.
func (s *SQLiteSheet) Close() error {
	return s.db.Close()
}
