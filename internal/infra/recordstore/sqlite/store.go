// Package sqlite implements the record store over an embedded SQLite file,
// for single-host deployments that want durability without a network share.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"jobcore/internal/recordstore/core"
	"jobcore/pkg/domain"
)

// Store persists each job record as a versioned JSON payload in a single
// table keyed by job id.
type Store struct {
	db   *sql.DB
	path string
}

var _ core.Store = (*Store)(nil)

// New opens (creating if needed) a sqlite-backed record store at path.
func New(path string) (*Store, error) {
	if path == "" {
		path = "jobcore.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS records (
		job_id TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create records table: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Driver() core.Driver { return core.DriverSQLite }

func (s *Store) Exists(ctx context.Context, jobID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM records WHERE job_id = ?`, jobID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query record: %w", err)
	}
	return true, nil
}

func (s *Store) Create(ctx context.Context, jobID, workspace string) error {
	job, err := domain.NewJob(jobID, workspace)
	if err != nil {
		return err
	}
	payload, err := core.EncodeRecord(job)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO records (job_id, payload) VALUES (?, ?) ON CONFLICT (job_id) DO NOTHING`,
		jobID, payload)
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrAlreadyExists
	}
	return nil
}

func (s *Store) Load(ctx context.Context, jobID string) (*domain.Job, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM records WHERE job_id = ?`, jobID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select record: %w", err)
	}
	return core.DecodeRecord(payload)
}

func (s *Store) Save(ctx context.Context, jobID string, job *domain.Job) error {
	payload, err := core.EncodeRecord(job)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO records (job_id, payload) VALUES (?, ?)
		 ON CONFLICT (job_id) DO UPDATE SET payload = excluded.payload`,
		jobID, payload); err != nil {
		return fmt.Errorf("upsert record: %w", err)
	}
	return nil
}

func (s *Store) ListActive(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT job_id FROM records`)
	if err != nil {
		return nil, fmt.Errorf("select job ids: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan job id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate job ids: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}

// Snapshot is a plain read: single-statement reads never block writers
// long enough to matter here.
func (s *Store) Snapshot(ctx context.Context, jobID, caller string) (*domain.Job, error) {
	return s.Load(ctx, jobID)
}

func (s *Store) Destroy(ctx context.Context, jobID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE job_id = ?`, jobID)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}
