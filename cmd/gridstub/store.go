package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/unarmedpuppy/command-grid/engine/core"
)

const schema = `
CREATE TABLE IF NOT EXISTS jobs (
	id         TEXT PRIMARY KEY,
	agent      TEXT NOT NULL,
	status     TEXT NOT NULL,
	prompt     TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL DEFAULT (datetime('now'))
);
CREATE TABLE IF NOT EXISTS tasks (
	id            TEXT PRIMARY KEY,
	type          TEXT NOT NULL,
	building_type TEXT NOT NULL DEFAULT '',
	status        TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS layout (
	id   INTEGER PRIMARY KEY CHECK (id = 1),
	blob BLOB NOT NULL
);
`

// Store is the stub's sqlite persistence.
type Store struct {
	db *sql.DB
}

func openStore(workspace string) (*Store, error) {
	dir := filepath.Join(workspace, ".commandgrid")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	dsn := fmt.Sprintf("file:%s?cache=shared", filepath.Join(dir, "gridstub.db"))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) CreateJob(ctx context.Context, j core.Job, prompt string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO jobs (id, agent, status, prompt) VALUES (?, ?, ?, ?)`,
		j.ID, string(j.Agent), string(j.Status), prompt)
	return err
}

func (s *Store) ListJobs(ctx context.Context) ([]core.Job, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, agent, status FROM jobs ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := []core.Job{}
	for rows.Next() {
		var j core.Job
		if err := rows.Scan(&j.ID, &j.Agent, &j.Status); err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// AdvanceJobs walks every non-terminal job one step through the lifecycle:
// pending -> running -> completed. Returns how many rows moved.
func (s *Store) AdvanceJobs(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE jobs SET status = CASE status
			WHEN 'pending' THEN 'running'
			WHEN 'running' THEN 'completed'
			ELSE status
		END
		WHERE status IN ('pending', 'running')`)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (s *Store) CreateTask(ctx context.Context, t core.Task) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO tasks (id, type, building_type, status) VALUES (?, ?, ?, ?)`,
		t.ID, t.Type, string(t.BuildingType), string(t.Status))
	return err
}

func (s *Store) ListTasks(ctx context.Context, status string) ([]core.Task, error) {
	q := `SELECT id, type, building_type, status FROM tasks ORDER BY id`
	args := []any{}
	if status != "" {
		q = `SELECT id, type, building_type, status FROM tasks WHERE status = ? ORDER BY id`
		args = append(args, status)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []core.Task{}
	for rows.Next() {
		var t core.Task
		if err := rows.Scan(&t.ID, &t.Type, &t.BuildingType, &t.Status); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Store) GetLayout(ctx context.Context) ([]byte, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx, `SELECT blob FROM layout WHERE id = 1`).Scan(&blob)
	if err != nil {
		return nil, err
	}
	return blob, nil
}

func (s *Store) PutLayout(ctx context.Context, blob []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO layout (id, blob) VALUES (1, ?)
		 ON CONFLICT (id) DO UPDATE SET blob = excluded.blob`, blob)
	return err
}
