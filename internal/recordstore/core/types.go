// Package core defines the record store contract shared by all storage
// drivers: the Store interface, the error taxonomy surfaced to callers, and
// the versioned record encoding.
package core

import (
	"context"

	"jobcore/pkg/domain"
)

// Driver identifies a concrete record store implementation.
type Driver string

const (
	// DriverFS stores records as flat files on a (possibly network) filesystem.
	DriverFS Driver = "fs"
	// DriverMemory keeps records in process memory (tests / ephemeral).
	DriverMemory Driver = "memory"
	// DriverSQLite stores records in an embedded sqlite file.
	DriverSQLite Driver = "sqlite"
	// DriverPostgres stores records in a PostgreSQL server.
	DriverPostgres Driver = "postgres"
)

// Store maps job identifiers to serialized Job aggregates on shared storage.
//
// Save is a blind overwrite and is not atomic: an interrupted write can
// leave a truncated record behind. Callers must hold the job's advisory
// lock for the whole load-mutate-save cycle; the store has no way to verify
// that and trusts the caller.
type Store interface {
	Driver() Driver

	// Exists reports whether any backing entry for jobID is present.
	Exists(ctx context.Context, jobID string) (bool, error)

	// Create initializes an empty lock marker and an empty Job, then
	// persists it. It fails with ErrAlreadyExists when a record is live.
	Create(ctx context.Context, jobID, workspace string) error

	// Load deserializes the backing record. ErrNotFound when absent,
	// ErrCorrupt when the backing data is empty or unreadable.
	Load(ctx context.Context, jobID string) (*domain.Job, error)

	// Save overwrites the backing record with the in-memory Job.
	Save(ctx context.Context, jobID string, job *domain.Job) error

	// ListActive enumerates all job identifiers with a backing entry,
	// derived from the first six characters of backing names.
	ListActive(ctx context.Context) ([]string, error)

	// Snapshot performs a lock-free point-in-time read for reporting.
	// Implementations must not block concurrent writers; the filesystem
	// driver reads through a caller-scoped temporary copy so repeated
	// calls by one caller reuse the same slot and distinct callers never
	// collide.
	Snapshot(ctx context.Context, jobID, caller string) (*domain.Job, error)

	// Destroy deletes every backing entry for jobID (administrative close).
	Destroy(ctx context.Context, jobID string) error
}
