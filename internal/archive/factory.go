package archive

import (
	"context"
	"fmt"
	"os"
	"strings"

	fsstore "jobcore/internal/infra/archive/fs"
	memorystore "jobcore/internal/infra/archive/memory"
	s3store "jobcore/internal/infra/archive/s3"
)

// Environment variables controlling driver selection. S3-specific variables
// are documented in the s3 driver package.
const (
	EnvDriver = "JOBCORE_ARCHIVE_DRIVER"
	EnvFSRoot = "JOBCORE_ARCHIVE_FS_ROOT"
)

// Open builds an archive Store from environment configuration. An unset or
// empty JOBCORE_ARCHIVE_DRIVER selects the filesystem driver.
func Open(ctx context.Context) (Store, error) {
	driver := strings.ToLower(strings.TrimSpace(os.Getenv(EnvDriver)))
	switch driver {
	case "", string(DriverFilesystem):
		return fsstore.New(os.Getenv(EnvFSRoot))
	case string(DriverS3):
		return s3store.OpenFromEnv(ctx)
	case string(DriverMemory):
		return memorystore.New(), nil
	default:
		return nil, fmt.Errorf("unsupported archive driver %q", driver)
	}
}

// NewMemory returns an in-memory archive for tests.
func NewMemory() Store { return memorystore.New() }

// NewMockS3ForTests exposes the s3 driver's in-memory mock for
// cross-package tests.
func NewMockS3ForTests() Store { return s3store.NewMockForTests() }
