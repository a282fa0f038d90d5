// Package postgres provides a Postgres-backed record store for departments
// that outgrow the shared-filesystem layout.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"jobcore/internal/recordstore/core"
	"jobcore/pkg/domain"
)

// Compile-time contract assertion ensuring the store satisfies core.Store.
var _ core.Store = (*Store)(nil)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/jobcore?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Store persists each job record as a versioned JSON payload in a single
// table keyed by job id.
type Store struct {
	db *sql.DB
}

// New opens a Postgres-backed record store using the provided DSN (falls
// back to defaultDSN) and ensures the records table exists.
func New(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS records (
		job_id TEXT PRIMARY KEY,
		payload JSONB NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("ensure records table: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Driver() core.Driver { return core.DriverPostgres }

func (s *Store) Exists(ctx context.Context, jobID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM records WHERE job_id = $1`, jobID).Scan(&one)
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
		`INSERT INTO records (job_id, payload) VALUES ($1, $2) ON CONFLICT (job_id) DO NOTHING`,
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
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM records WHERE job_id = $1`, jobID).Scan(&payload)
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
		`INSERT INTO records (job_id, payload) VALUES ($1, $2)
		 ON CONFLICT (job_id) DO UPDATE SET payload = EXCLUDED.payload`,
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

// Snapshot is a plain read: MVCC reads never block writers.
func (s *Store) Snapshot(ctx context.Context, jobID, caller string) (*domain.Job, error) {
	return s.Load(ctx, jobID)
}

func (s *Store) Destroy(ctx context.Context, jobID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE job_id = $1`, jobID)
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

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a
// restore function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}
