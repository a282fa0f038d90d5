package core

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced verbatim to the initiating caller. No operation
// in the store retries on failure; only the bootstrap's bounded reconnect
// policy (outside the store) ever does.
var (
	// ErrNotFound reports that no backing record exists for the job.
	ErrNotFound = errors.New("job record not found")
	// ErrAlreadyExists reports a create against a live job.
	ErrAlreadyExists = errors.New("job record already exists")
	// ErrCorrupt reports a backing record that is present but empty or
	// undecodable.
	ErrCorrupt = errors.New("job record corrupt")
)

// InUseError reports that the job's advisory lock is held by another
// identity. It carries that identity for user-facing messaging.
type InUseError struct {
	Owner string
}

func (e InUseError) Error() string {
	return fmt.Sprintf("job is locked by user %q", e.Owner)
}

// SecurityError reports a save attempted by a caller that does not hold the
// job's lock grant.
type SecurityError struct {
	JobID string
}

func (e SecurityError) Error() string {
	return fmt.Sprintf("save rights for job %s belong to another user", e.JobID)
}
