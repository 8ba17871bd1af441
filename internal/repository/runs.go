package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const runsSchema = `
CREATE TABLE IF NOT EXISTS runs (
	id                 TEXT PRIMARY KEY,
	pdf_path           TEXT NOT NULL,
	output_path        TEXT NOT NULL,
	pages              INTEGER NOT NULL DEFAULT 0,
	product_pages      INTEGER NOT NULL DEFAULT 0,
	rows_emitted       INTEGER NOT NULL DEFAULT 0,
	rows_kept          INTEGER NOT NULL DEFAULT 0,
	duplicates_removed INTEGER NOT NULL DEFAULT 0,
	error              TEXT,
	started_at         TIMESTAMP NOT NULL,
	finished_at        TIMESTAMP
);`

// Run is one document's pass through the pipeline, as recorded in the ledger.
type Run struct {
	ID                uuid.UUID
	PDFPath           string
	OutputPath        string
	Pages             int
	ProductPages      int
	RowsEmitted       int
	RowsKept          int
	DuplicatesRemoved int
	Error             string
	StartedAt         time.Time
	FinishedAt        *time.Time
}

// RunSummary carries the counters recorded when a run finishes.
type RunSummary struct {
	Pages             int
	ProductPages      int
	RowsEmitted       int
	RowsKept          int
	DuplicatesRemoved int
	Error             string
}

// RunLedger records document runs in a local SQLite file. Ledger failures
// are reported to the caller but are never worth failing a run over.
type RunLedger struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenRunLedger opens (creating if needed) the ledger database.
func OpenRunLedger(ctx context.Context, path string, logger *slog.Logger) (*RunLedger, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create ledger directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	if _, err := db.ExecContext(ctx, runsSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init ledger schema: %w", err)
	}
	logger.Info("ledger.open.ok", "path", path)
	return &RunLedger{db: db, logger: logger}, nil
}

// BeginRun inserts a new run row and returns its ID.
func (l *RunLedger) BeginRun(ctx context.Context, pdfPath, outputPath string) (uuid.UUID, error) {
	id := uuid.New()
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO runs (id, pdf_path, output_path, started_at) VALUES (?, ?, ?, ?)`,
		id.String(), pdfPath, outputPath, time.Now().UTC(),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// FinishRun stores the final counters (or error text) for a run.
func (l *RunLedger) FinishRun(ctx context.Context, id uuid.UUID, sum RunSummary) error {
	_, err := l.db.ExecContext(ctx,
		`UPDATE runs SET pages = ?, product_pages = ?, rows_emitted = ?, rows_kept = ?,
			duplicates_removed = ?, error = ?, finished_at = ? WHERE id = ?`,
		sum.Pages, sum.ProductPages, sum.RowsEmitted, sum.RowsKept,
		sum.DuplicatesRemoved, nullable(sum.Error), time.Now().UTC(), id.String(),
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// GetRun loads a single run by ID.
func (l *RunLedger) GetRun(ctx context.Context, id uuid.UUID) (*Run, error) {
	row := l.db.QueryRowContext(ctx,
		`SELECT id, pdf_path, output_path, pages, product_pages, rows_emitted,
			rows_kept, duplicates_removed, error, started_at, finished_at
		 FROM runs WHERE id = ?`, id.String())

	var (
		r        Run
		idStr    string
		errText  sql.NullString
		finished sql.NullTime
	)
	err := row.Scan(&idStr, &r.PDFPath, &r.OutputPath, &r.Pages, &r.ProductPages,
		&r.RowsEmitted, &r.RowsKept, &r.DuplicatesRemoved, &errText, &r.StartedAt, &finished)
	if err != nil {
		return nil, fmt.Errorf("load run: %w", err)
	}
	r.ID, err = uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("parse run id: %w", err)
	}
	r.Error = errText.String
	if finished.Valid {
		r.FinishedAt = &finished.Time
	}
	return &r, nil
}

// Close releases the database handle.
func (l *RunLedger) Close() error {
	return l.db.Close()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
