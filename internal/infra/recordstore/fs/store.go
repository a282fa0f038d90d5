// Package fs implements the record store over flat files on a shared
// (typically network) filesystem. This is the production driver: one lock
// marker and one serialized record per job under a jobs directory, plus a
// temp directory for the aggregator's caller-scoped snapshot copies.
package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"jobcore/internal/recordstore/core"
	"jobcore/pkg/domain"
)

const (
	jobsDir    = "jobs"
	tempDir    = "temp"
	recordExt  = ".job"
	lockExt    = ".lock"
	defaultDir = "./jobdata"
)

// Store implements core.Store using the local filesystem.
//
// Save writes the record in place without a rename step. An interrupted
// write can therefore leave a truncated record behind; that hazard is part
// of the store's documented contract and is surfaced as ErrCorrupt on the
// next load rather than repaired here.
type Store struct {
	root string
}

var _ core.Store = (*Store)(nil)

// New returns a filesystem-backed record store rooted at path, creating the
// jobs and temp directories if needed.
func New(root string) (*Store, error) {
	if root == "" {
		root = defaultDir
	}
	for _, dir := range []string{filepath.Join(root, jobsDir), filepath.Join(root, tempDir)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return &Store{root: root}, nil
}

func (s *Store) Driver() core.Driver { return core.DriverFS }

// Root returns the store's backing directory.
func (s *Store) Root() string { return s.root }

// LockPath returns the path of the job's advisory lock marker. The lock
// service operates on this marker; the store itself never inspects it
// beyond existence.
func (s *Store) LockPath(jobID string) string {
	return filepath.Join(s.root, jobsDir, jobID+lockExt)
}

func (s *Store) recordPath(jobID string) string {
	return filepath.Join(s.root, jobsDir, jobID+recordExt)
}

func checkJobID(jobID string) error {
	if !domain.ValidJobID(jobID) {
		return fmt.Errorf("invalid job id %q", jobID)
	}
	return nil
}

// sanitizeCaller keeps caller identities usable as filename suffixes and
// forbids traversal out of the temp directory.
func sanitizeCaller(caller string) (string, error) {
	caller = strings.TrimSpace(caller)
	if caller == "" {
		return "", fmt.Errorf("empty caller identity")
	}
	if strings.ContainsAny(caller, `/\`) || strings.Contains(caller, "..") {
		return "", fmt.Errorf("invalid caller identity %q", caller)
	}
	return caller, nil
}

func (s *Store) Exists(ctx context.Context, jobID string) (bool, error) {
	if err := checkJobID(jobID); err != nil {
		return false, err
	}
	names, err := os.ReadDir(filepath.Join(s.root, jobsDir))
	if err != nil {
		return false, fmt.Errorf("read jobs directory: %w", err)
	}
	for _, e := range names {
		if strings.HasPrefix(e.Name(), jobID) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) Create(ctx context.Context, jobID, workspace string) error {
	if err := checkJobID(jobID); err != nil {
		return err
	}
	present, err := s.Exists(ctx, jobID)
	if err != nil {
		return err
	}
	if present {
		return core.ErrAlreadyExists
	}
	// Empty lock marker first, then the empty record.
	f, err := os.Create(s.LockPath(jobID))
	if err != nil {
		return fmt.Errorf("create lock marker: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close lock marker: %w", err)
	}
	job, err := domain.NewJob(jobID, workspace)
	if err != nil {
		return err
	}
	return s.Save(ctx, jobID, job)
}

func (s *Store) Load(ctx context.Context, jobID string) (*domain.Job, error) {
	if err := checkJobID(jobID); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.recordPath(jobID))
	if errors.Is(err, os.ErrNotExist) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read record: %w", err)
	}
	return core.DecodeRecord(data)
}

func (s *Store) Save(ctx context.Context, jobID string, job *domain.Job) error {
	if err := checkJobID(jobID); err != nil {
		return err
	}
	data, err := core.EncodeRecord(job)
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.recordPath(jobID), data, 0o644); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	return nil
}

func (s *Store) ListActive(ctx context.Context) ([]string, error) {
	names, err := os.ReadDir(filepath.Join(s.root, jobsDir))
	if err != nil {
		return nil, fmt.Errorf("read jobs directory: %w", err)
	}
	seen := make(map[string]struct{})
	for _, e := range names {
		if len(e.Name()) < domain.JobIDLen {
			continue
		}
		id := e.Name()[:domain.JobIDLen]
		if domain.ValidJobID(id) {
			seen[id] = struct{}{}
		}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Snapshot copies the job's record into a caller-scoped temp slot, decodes
// the copy, and deletes it. The slot name carries the caller identity so
// repeated calls by one caller overwrite the same file and distinct callers
// never collide. No lock is taken; writers are never blocked.
func (s *Store) Snapshot(ctx context.Context, jobID, caller string) (*domain.Job, error) {
	if err := checkJobID(jobID); err != nil {
		return nil, err
	}
	user, err := sanitizeCaller(caller)
	if err != nil {
		return nil, err
	}
	tempPath := filepath.Join(s.root, tempDir, jobID+"."+user)
	if err := copyFile(s.recordPath(jobID), tempPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("copy record to temp slot: %w", err)
	}
	defer func() { _ = os.Remove(tempPath) }()
	data, err := os.ReadFile(tempPath)
	if err != nil {
		return nil, fmt.Errorf("read temp copy: %w", err)
	}
	return core.DecodeRecord(data)
}

func (s *Store) Destroy(ctx context.Context, jobID string) error {
	if err := checkJobID(jobID); err != nil {
		return err
	}
	names, err := os.ReadDir(filepath.Join(s.root, jobsDir))
	if err != nil {
		return fmt.Errorf("read jobs directory: %w", err)
	}
	removed := 0
	for _, e := range names {
		if !strings.HasPrefix(e.Name(), jobID) {
			continue
		}
		if err := os.Remove(filepath.Join(s.root, jobsDir, e.Name())); err != nil {
			return fmt.Errorf("remove %s: %w", e.Name(), err)
		}
		removed++
	}
	if removed == 0 {
		return core.ErrNotFound
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
