// Package admission admits batches of released projects into the store.
// Rows arrive already parsed from the release spreadsheet; admission
// validates them, creates the jobs that do not exist yet, and loads their
// projects one job at a time under the ordinary per-job lock.
package admission

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"jobcore/internal/lock"
	"jobcore/internal/recordstore"
	"jobcore/pkg/domain"
)

// Entry is one parsed release row.
type Entry struct {
	Key          string
	Instructions string
	DueDate      string
}

// Progress receives a callback after each job is admitted.
type Progress func(jobID string, done, total int)

// Options carries the optional collaborators for Assign.
type Options struct {
	// Workspaces resolves a job id to its workspace directory. Nil leaves
	// workspaces unset on newly created jobs.
	Workspaces func(jobID string) string
	// Progress is called after each admitted job. Nil silences it.
	Progress Progress
}

// Report summarizes a finished admission pass.
type Report struct {
	Jobs     []string
	Projects int
}

// InvalidDatesError reports release rows whose due dates do not parse.
// Nothing is admitted while any row is invalid.
type InvalidDatesError struct {
	Keys []string
}

func (e InvalidDatesError) Error() string {
	return fmt.Sprintf("invalid due dates on %d entries: %s", len(e.Keys), strings.Join(e.Keys, ", "))
}

// ErrNoUnassigned reports that every entry belonged to an already-active
// job, leaving nothing to admit.
var ErrNoUnassigned = errors.New("no entries for unassigned jobs")

// Assign admits entries for owner. Due dates are validated up front; rows
// for jobs that already exist are dropped; the rest are grouped by job and
// admitted one job at a time: create, checkout under the ordinary lock,
// add every project unassigned, save, release. A failure mid-batch leaves
// earlier jobs admitted.
func Assign(ctx context.Context, store recordstore.Store, locker lock.Locker, owner string, entries []Entry, opts Options) (Report, error) {
	if len(entries) == 0 {
		return Report{}, fmt.Errorf("empty admission batch")
	}

	var invalid []string
	for _, e := range entries {
		if !domain.ValidJobID(domain.JobIDOf(e.Key)) {
			return Report{}, fmt.Errorf("entry key %q does not start with a job id", e.Key)
		}
		if _, err := domain.ParseDate(e.DueDate); err != nil {
			invalid = append(invalid, e.Key)
		}
	}
	if len(invalid) > 0 {
		sort.Strings(invalid)
		return Report{}, InvalidDatesError{Keys: invalid}
	}

	byJob := make(map[string][]Entry)
	for _, e := range entries {
		jobID := domain.JobIDOf(e.Key)
		byJob[jobID] = append(byJob[jobID], e)
	}
	jobIDs := make([]string, 0, len(byJob))
	for jobID := range byJob {
		active, err := store.Exists(ctx, jobID)
		if err != nil {
			return Report{}, err
		}
		if active {
			delete(byJob, jobID)
			continue
		}
		jobIDs = append(jobIDs, jobID)
	}
	if len(jobIDs) == 0 {
		return Report{}, ErrNoUnassigned
	}
	sort.Strings(jobIDs)

	var report Report
	for i, jobID := range jobIDs {
		workspace := ""
		if opts.Workspaces != nil {
			workspace = opts.Workspaces(jobID)
		}
		if err := admitJob(ctx, store, locker, owner, jobID, workspace, byJob[jobID]); err != nil {
			return report, fmt.Errorf("admit job %s: %w", jobID, err)
		}
		report.Jobs = append(report.Jobs, jobID)
		report.Projects += len(byJob[jobID])
		if opts.Progress != nil {
			opts.Progress(jobID, i+1, len(jobIDs))
		}
	}
	return report, nil
}

func admitJob(ctx context.Context, store recordstore.Store, locker lock.Locker, owner, jobID, workspace string, entries []Entry) error {
	if err := store.Create(ctx, jobID, workspace); err != nil {
		return err
	}
	job, session, err := lock.Checkout(ctx, store, locker, jobID, owner)
	if err != nil {
		return err
	}
	defer func() { _ = session.Release(ctx) }()

	for _, e := range entries {
		// New projects carry a placeholder owner until someone picks them up.
		if err := job.AddProject(e.Key, e.Instructions, "Unassigned", e.DueDate, domain.StatusUnassigned); err != nil {
			return err
		}
	}
	return session.Save(ctx, store, job)
}
