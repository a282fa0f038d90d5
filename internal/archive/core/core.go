// Package core defines the abstractions for finished-document archive
// backends. Routed documents are archived once, keyed by job id and
// filename, and never rewritten.
package core

import (
	"context"
	"errors"
	"io"
	"time"
)

// Driver identifies a concrete archive backend implementation.
type Driver string

const (
	// DriverFilesystem archives onto a local or shared directory (default).
	DriverFilesystem Driver = "fs"
	// DriverS3 archives into an S3 or MinIO bucket.
	DriverS3 Driver = "s3"
	// DriverMemory keeps archived documents in process memory (tests).
	DriverMemory Driver = "memory"
)

// PutOptions carries optional document attributes for Put.
type PutOptions struct {
	ContentType string
	Metadata    map[string]string
}

// Info describes an archived document.
type Info struct {
	Key         string            `json:"key"`
	Size        int64             `json:"size_bytes"`
	ContentType string            `json:"content_type,omitempty"`
	ETag        string            `json:"etag,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	ArchivedAt  time.Time         `json:"archived_at"`
}

// Store is the archive backend contract. Put is create-only: archiving the
// same key twice is an error, because a routed document leaves the
// workspace exactly once.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (Info, error)
	Get(ctx context.Context, key string) (Info, io.ReadCloser, error)
	Head(ctx context.Context, key string) (Info, error)
	Delete(ctx context.Context, key string) (bool, error)
	List(ctx context.Context, prefix string) ([]Info, error)
	Driver() Driver
}

// Errors shared by every archive driver.
var (
	// ErrNotFound reports that no document is archived under the key.
	ErrNotFound = errors.New("archived document not found")
	// ErrAlreadyArchived reports a Put against an existing key.
	ErrAlreadyArchived = errors.New("document already archived")
)

// DocumentKey builds the canonical archive key for a routed document.
func DocumentKey(jobID, filename string) string {
	return jobID + "/" + filename
}
