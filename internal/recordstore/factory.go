package recordstore

import (
	"context"
	"fmt"
	"os"
	"strings"

	"jobcore/internal/infra/recordstore/fs"
	"jobcore/internal/infra/recordstore/memory"
	"jobcore/internal/infra/recordstore/postgres"
	"jobcore/internal/infra/recordstore/sqlite"
	"jobcore/internal/recordstore/core"
)

// Environment variables controlling driver selection.
const (
	EnvDriver      = "JOBCORE_STORE_DRIVER"
	EnvFSRoot      = "JOBCORE_FS_ROOT"
	EnvSQLitePath  = "JOBCORE_SQLITE_PATH"
	EnvPostgresDSN = "JOBCORE_POSTGRES_DSN"
)

// Open builds a Store from environment configuration. An unset or empty
// JOBCORE_STORE_DRIVER selects the filesystem driver.
func Open(ctx context.Context) (Store, error) {
	driver := strings.ToLower(strings.TrimSpace(os.Getenv(EnvDriver)))
	switch driver {
	case "", string(core.DriverFS):
		return fs.New(os.Getenv(EnvFSRoot))
	case string(core.DriverMemory):
		return memory.New(), nil
	case string(core.DriverSQLite):
		return sqlite.New(os.Getenv(EnvSQLitePath))
	case string(core.DriverPostgres):
		return postgres.New(ctx, os.Getenv(EnvPostgresDSN))
	default:
		return nil, fmt.Errorf("unsupported record store driver %q", driver)
	}
}
