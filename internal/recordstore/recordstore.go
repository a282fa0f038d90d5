// Package recordstore re-exports the record store abstractions for stable
// imports and selects a concrete driver from the environment.
package recordstore

import (
	"jobcore/internal/recordstore/core"
)

type (
	// Driver identifies a record store backend driver.
	Driver = core.Driver
	// Store is the interface for record store backends.
	Store = core.Store
	// InUseError reports a lock held by another identity.
	InUseError = core.InUseError
	// SecurityError reports a save without lock ownership.
	SecurityError = core.SecurityError
)

const (
	// DriverFS is the shared-filesystem driver (default, production).
	DriverFS = core.DriverFS
	// DriverMemory is the in-memory test driver.
	DriverMemory = core.DriverMemory
	// DriverSQLite is the embedded sqlite driver.
	DriverSQLite = core.DriverSQLite
	// DriverPostgres is the PostgreSQL driver.
	DriverPostgres = core.DriverPostgres
)

// Errors surfaced by every driver.
var (
	ErrNotFound      = core.ErrNotFound
	ErrAlreadyExists = core.ErrAlreadyExists
	ErrCorrupt       = core.ErrCorrupt
)
