// Package lock implements the advisory locking protocol for job records.
// A lock is an owner name held in a per-job marker; an empty marker means
// the job is free. Locks gate write intent only: readers and the snapshot
// aggregator never consult them.
package lock

import (
	"context"
	"errors"
	"fmt"

	"jobcore/internal/recordstore"
	"jobcore/pkg/domain"
)

// Grant reports the outcome of a successful acquisition.
type Grant int

const (
	// GrantAcquired means the lock was free and is now held.
	GrantAcquired Grant = iota
	// GrantAlreadyHeld means the caller already held the lock. Reentrant
	// acquisition is a success, not a fault.
	GrantAlreadyHeld
)

// Locker mediates ownership of per-job advisory locks.
type Locker interface {
	// Acquire takes the job's lock for owner. If another identity holds it
	// the returned error is a recordstore.InUseError naming the holder.
	Acquire(ctx context.Context, jobID, owner string) (Grant, error)
	// Holder returns the current lock owner, empty if the job is free.
	Holder(ctx context.Context, jobID string) (string, error)
	// Release frees the lock regardless of the recorded owner.
	Release(ctx context.Context, jobID string) error
}

// Session is a held lock grant plus the save rights that come with it.
type Session struct {
	JobID  string
	Owner  string
	locker Locker
}

// Checkout opens a job for editing: it verifies the record exists, takes
// the lock for owner, and loads the record. The caller must Release the
// returned session when done.
func Checkout(ctx context.Context, store recordstore.Store, locker Locker, jobID, owner string) (*domain.Job, *Session, error) {
	present, err := store.Exists(ctx, jobID)
	if err != nil {
		return nil, nil, err
	}
	if !present {
		return nil, nil, recordstore.ErrNotFound
	}
	if _, err := locker.Acquire(ctx, jobID, owner); err != nil {
		return nil, nil, err
	}
	job, err := store.Load(ctx, jobID)
	if err != nil {
		_ = locker.Release(ctx, jobID)
		return nil, nil, err
	}
	return job, &Session{JobID: jobID, Owner: owner, locker: locker}, nil
}

// Verify confirms the session still owns its lock. A lost grant surfaces as
// a SecurityError so the caller can tell the user their edit was forfeited.
func (s *Session) Verify(ctx context.Context) error {
	holder, err := s.locker.Holder(ctx, s.JobID)
	if err != nil {
		return err
	}
	if holder != s.Owner {
		return recordstore.SecurityError{JobID: s.JobID}
	}
	return nil
}

// Save verifies the grant and writes the record. The verify and the write
// are separate steps, so a grant revoked in between still lands the write;
// the protocol accepts that window.
func (s *Session) Save(ctx context.Context, store recordstore.Store, job *domain.Job) error {
	if err := s.Verify(ctx); err != nil {
		return err
	}
	return store.Save(ctx, s.JobID, job)
}

// Release frees the session's lock.
func (s *Session) Release(ctx context.Context) error {
	return s.locker.Release(ctx, s.JobID)
}

// Describe renders an acquisition failure for user-facing surfaces.
func Describe(err error) string {
	var inUse recordstore.InUseError
	if errors.As(err, &inUse) {
		return fmt.Sprintf("checked out by %s", inUse.Owner)
	}
	return err.Error()
}
