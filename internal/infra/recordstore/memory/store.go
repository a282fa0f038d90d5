// Package memory implements an in-process record store used by tests and
// ephemeral deployments.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"jobcore/internal/recordstore/core"
	"jobcore/pkg/domain"
)

// Store keeps records in a mutex-guarded map. Jobs are deep-cloned on the
// way in and out so callers can never alias stored state.
type Store struct {
	mu   sync.RWMutex
	jobs map[string]*domain.Job
}

var _ core.Store = (*Store)(nil)

// New returns an empty in-memory record store.
func New() *Store {
	return &Store{jobs: make(map[string]*domain.Job)}
}

func (s *Store) Driver() core.Driver { return core.DriverMemory }

func (s *Store) Exists(ctx context.Context, jobID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.jobs[jobID]
	return ok, nil
}

func (s *Store) Create(ctx context.Context, jobID, workspace string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[jobID]; ok {
		return core.ErrAlreadyExists
	}
	job, err := domain.NewJob(jobID, workspace)
	if err != nil {
		return err
	}
	s.jobs[jobID] = job
	return nil
}

func (s *Store) Load(ctx context.Context, jobID string) (*domain.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return nil, core.ErrNotFound
	}
	return job.Clone(), nil
}

func (s *Store) Save(ctx context.Context, jobID string, job *domain.Job) error {
	if job == nil {
		return fmt.Errorf("nil job")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[jobID] = job.Clone()
	return nil
}

func (s *Store) ListActive(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.jobs))
	for id := range s.jobs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Snapshot is a plain read: in-process state needs no temp-copy step to
// stay non-blocking.
func (s *Store) Snapshot(ctx context.Context, jobID, caller string) (*domain.Job, error) {
	return s.Load(ctx, jobID)
}

func (s *Store) Destroy(ctx context.Context, jobID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[jobID]; !ok {
		return core.ErrNotFound
	}
	delete(s.jobs, jobID)
	return nil
}
