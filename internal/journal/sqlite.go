package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mrchypark/pocketbase-go-skill/internal/filex"
	"github.com/mrchypark/pocketbase-go-skill/internal/journal/migrations"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// gooseUpContext is a seam for testing migration failures.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// SQLite is a Journal backed by a SQLite file.
type SQLite struct {
	db *sql.DB
}

// Open opens or creates the journal at path and migrates it.
func Open(ctx context.Context, path string) (*SQLite, error) {
	if _, err := filex.EnsureParentDir(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	// one connection keeps pragmas and transactions on the same handle
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate journal %s: %w", path, err)
	}

	return &SQLite{db: db}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	return gooseUpContext(ctx, db, ".")
}

// Record stores run and its items in one transaction.
func (s *SQLite) Record(ctx context.Context, run Run) error {
	err := withTx(ctx, s.db, func(ctx context.Context, tx dbtx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO runs (id, command, backend_url, started_at, finished_at, status, error)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			run.ID.String(), run.Command, run.BackendURL,
			run.StartedAt.UnixNano(), run.FinishedAt.UnixNano(),
			string(run.Status), run.Error)
		if err != nil {
			return fmt.Errorf("failed to insert run: %w", err)
		}

		for i, it := range run.Items {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO run_items (run_id, seq, collection, action, remote_id, detail, error)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				run.ID.String(), i, it.Collection, it.Action, it.RemoteID, it.Detail, it.Error)
			if err != nil {
				return fmt.Errorf("failed to insert run item %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("record run %s: %w", run.ID, err)
	}
	return nil
}

// Recent returns up to limit runs with their items, newest first.
func (s *SQLite) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, command, backend_url, started_at, finished_at, status, error
		FROM runs
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r                 Run
			id, status        string
			started, finished int64
		)
		if err := rows.Scan(&id, &r.Command, &r.BackendURL, &started, &finished, &status, &r.Error); err != nil {
			return nil, err
		}
		if r.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("run id %q: %w", id, err)
		}
		r.StartedAt = time.Unix(0, started).UTC()
		r.FinishedAt = time.Unix(0, finished).UTC()
		r.Status = Status(status)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for i := range runs {
		items, err := s.items(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Items = items
	}
	return runs, nil
}

func (s *SQLite) items(ctx context.Context, runID uuid.UUID) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT collection, action, remote_id, detail, error
		FROM run_items
		WHERE run_id = ?
		ORDER BY seq`, runID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to select run items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.Collection, &it.Action, &it.RemoteID, &it.Detail, &it.Error); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
