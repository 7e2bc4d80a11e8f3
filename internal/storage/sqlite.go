package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// index is the sqlite run catalogue. The trajectory data itself stays on
// the filesystem; the index only answers list/lookup queries.
type index struct {
	db *sql.DB
}

func openIndex(ctx context.Context, path string) (*index, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			model TEXT NOT NULL,
			stepper TEXT NOT NULL,
			t0 REAL NOT NULL,
			t_end REAL NOT NULL,
			steps INTEGER NOT NULL,
			seed INTEGER NOT NULL,
			trials INTEGER NOT NULL DEFAULT 0,
			created TEXT NOT NULL
		)
	`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &index{db: db}, nil
}

func (ix *index) close() error {
	return ix.db.Close()
}

func (ix *index) insert(ctx context.Context, m RunMetadata) error {
	_, err := ix.db.ExecContext(ctx, `
		INSERT INTO runs (id, model, stepper, t0, t_end, steps, seed, trials, created)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			model = excluded.model,
			stepper = excluded.stepper,
			t0 = excluded.t0,
			t_end = excluded.t_end,
			steps = excluded.steps,
			seed = excluded.seed,
			trials = excluded.trials,
			created = excluded.created
	`, m.ID, m.Model, m.Stepper, m.T0, m.TEnd, m.Steps, m.Seed, m.Trials, m.Created.Format(time.RFC3339Nano))
	return err
}

func (ix *index) get(ctx context.Context, id string) (RunMetadata, error) {
	row := ix.db.QueryRowContext(ctx, `
		SELECT id, model, stepper, t0, t_end, steps, seed, trials, created
		FROM runs WHERE id = ?
	`, id)
	m, err := scanRun(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return RunMetadata{}, fmt.Errorf("unknown run: %s", id)
	}
	return m, err
}

func (ix *index) list(ctx context.Context) ([]RunMetadata, error) {
	rows, err := ix.db.QueryContext(ctx, `
		SELECT id, model, stepper, t0, t_end, steps, seed, trials, created
		FROM runs ORDER BY created DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunMetadata
	for rows.Next() {
		m, err := scanRun(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (ix *index) delete(ctx context.Context, id string) error {
	_, err := ix.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	return err
}

func scanRun(scan func(...any) error) (RunMetadata, error) {
	var m RunMetadata
	var created string
	if err := scan(&m.ID, &m.Model, &m.Stepper, &m.T0, &m.TEnd, &m.Steps, &m.Seed, &m.Trials, &created); err != nil {
		return RunMetadata{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return RunMetadata{}, err
	}
	m.Created = t
	return m, nil
}
