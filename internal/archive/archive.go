// Package archive re-exports the document archive abstractions for stable
// imports and selects a concrete driver from the environment.
package archive

import (
	"jobcore/internal/archive/core"
)

type (
	// Driver identifies an archive backend driver.
	Driver = core.Driver
	// PutOptions configures an archive write.
	PutOptions = core.PutOptions
	// Info describes an archived document.
	Info = core.Info
	// Store is the interface for archive backends.
	Store = core.Store
)

const (
	// DriverFilesystem is the local filesystem driver.
	DriverFilesystem = core.DriverFilesystem
	// DriverS3 is the S3-compatible driver.
	DriverS3 = core.DriverS3
	// DriverMemory is the in-memory test driver.
	DriverMemory = core.DriverMemory
)

// Errors surfaced by every driver.
var (
	ErrNotFound        = core.ErrNotFound
	ErrAlreadyArchived = core.ErrAlreadyArchived
)

// DocumentKey builds the canonical archive key for a routed document.
func DocumentKey(jobID, filename string) string {
	return core.DocumentKey(jobID, filename)
}
