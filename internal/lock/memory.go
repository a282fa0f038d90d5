package lock

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"jobcore/internal/recordstore"
)

// MemoryLocker keeps grants in process memory, for tests and for the
// memory record store driver.
type MemoryLocker struct {
	mu      sync.Mutex
	holders map[string]string
}

var _ Locker = (*MemoryLocker)(nil)

// NewMemoryLocker returns an empty in-process Locker.
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{holders: make(map[string]string)}
}

func (l *MemoryLocker) Acquire(ctx context.Context, jobID, owner string) (Grant, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return 0, fmt.Errorf("empty lock owner")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	switch holder := l.holders[jobID]; holder {
	case "":
		l.holders[jobID] = owner
		return GrantAcquired, nil
	case owner:
		return GrantAlreadyHeld, nil
	default:
		return 0, recordstore.InUseError{Owner: holder}
	}
}

func (l *MemoryLocker) Holder(ctx context.Context, jobID string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.holders[jobID], nil
}

func (l *MemoryLocker) Release(ctx context.Context, jobID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.holders, jobID)
	return nil
}
