package lock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"jobcore/internal/recordstore"
)

// MarkerPather resolves a job id to the path of its lock marker. The
// filesystem record store satisfies this.
type MarkerPather interface {
	LockPath(jobID string) string
}

// FileLocker stores lock ownership in per-job marker files on the same
// share as the records, so every workstation sees the same grants.
type FileLocker struct {
	paths MarkerPather
}

var _ Locker = (*FileLocker)(nil)

// NewFileLocker returns a Locker over the marker files resolved by paths.
func NewFileLocker(paths MarkerPather) *FileLocker {
	return &FileLocker{paths: paths}
}

func (l *FileLocker) Acquire(ctx context.Context, jobID, owner string) (Grant, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return 0, fmt.Errorf("empty lock owner")
	}
	holder, err := l.Holder(ctx, jobID)
	if err != nil {
		return 0, err
	}
	switch holder {
	case "":
		if err := os.WriteFile(l.paths.LockPath(jobID), []byte(owner), 0o644); err != nil {
			return 0, fmt.Errorf("write lock marker: %w", err)
		}
		return GrantAcquired, nil
	case owner:
		return GrantAlreadyHeld, nil
	default:
		return 0, recordstore.InUseError{Owner: holder}
	}
}

func (l *FileLocker) Holder(ctx context.Context, jobID string) (string, error) {
	data, err := os.ReadFile(l.paths.LockPath(jobID))
	if errors.Is(err, os.ErrNotExist) {
		return "", recordstore.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read lock marker: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Release truncates the marker rather than deleting it: the marker's
// presence is what marks the job as live in the jobs directory.
func (l *FileLocker) Release(ctx context.Context, jobID string) error {
	if err := os.WriteFile(l.paths.LockPath(jobID), nil, 0o644); err != nil {
		return fmt.Errorf("clear lock marker: %w", err)
	}
	return nil
}
