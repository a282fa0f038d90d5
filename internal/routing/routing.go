// Package routing applies status transitions to project selections. A
// transition into the terminal status also routes the selection's finished
// drawing documents out of the job workspace into the issued prints folder.
package routing

import (
	"context"
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"jobcore/internal/archive"
	"jobcore/pkg/domain"
)

// documentExt is the extension of routable finished documents.
const documentExt = ".pdf"

// Resolver locates the issued prints destination for a job. Resolution
// failure aborts the whole transition before any status changes.
type Resolver interface {
	IssuedPrintsFolder(jobID string) (string, error)
}

// Notifier receives the routing outcome for user-facing confirmation.
// A nil Notifier is valid and silences it.
type Notifier interface {
	DocumentsRouted(jobID string, moved, missing []string)
}

// WorkspaceValidator is told when a job's workspace directory is missing
// or unreadable, so the caller can warn the user. Routing proceeds with
// every expected document reported missing.
type WorkspaceValidator interface {
	WorkspaceMissing(jobID, workspace string)
}

// DestinationError reports that the issued prints folder could not be
// resolved. No statuses were changed.
type DestinationError struct {
	JobID string
	Err   error
}

func (e DestinationError) Error() string {
	return fmt.Sprintf("cannot resolve issued prints folder for job %s: %v", e.JobID, e.Err)
}

func (e DestinationError) Unwrap() error { return e.Err }

// Deps carries the collaborators for Apply. Resolver is required for any
// terminal transition; the rest are optional.
type Deps struct {
	Resolver  Resolver
	Notifier  Notifier
	Validator WorkspaceValidator
	Archive   archive.Store
}

// RoutedReport describes the file-moving half of a terminal transition.
type RoutedReport struct {
	// Moved holds the filenames relocated to the issued prints folder.
	Moved []string
	// Missing holds the drawing numbers whose documents were not found.
	Missing []string
	// ArchiveFailed holds filenames that moved but could not be archived.
	ArchiveFailed []string
}

// Apply sets status on every selected project. When status is terminal the
// destination is resolved up front on every transition, drawing-number
// selections or not, and resolution failure aborts with no status change.
// After a successful resolve, any drawing documents in the selection are
// routed: the workspace tree is walked for matching documents, each match
// is moved, and unfound drawing numbers are reported in the result rather
// than treated as an error. The status half always runs after a successful
// resolve, whether or not any document was found.
func Apply(ctx context.Context, job *domain.Job, keys []string, status domain.Status, deps Deps) (RoutedReport, error) {
	if !status.Valid() {
		return RoutedReport{}, fmt.Errorf("invalid status %q", status)
	}
	for _, key := range keys {
		if _, ok := job.Projects.Get(key); !ok {
			return RoutedReport{}, fmt.Errorf("unknown project key %q", key)
		}
	}

	var report RoutedReport
	if status.Terminal() {
		if deps.Resolver == nil {
			return RoutedReport{}, DestinationError{JobID: job.JobID, Err: errors.New("no resolver configured")}
		}
		dest, err := deps.Resolver.IssuedPrintsFolder(job.JobID)
		if err != nil {
			return RoutedReport{}, DestinationError{JobID: job.JobID, Err: err}
		}
		if expected := domain.DrawingNums(keys); len(expected) > 0 {
			report = routeDocuments(ctx, job, expected, dest, deps)
			if deps.Notifier != nil {
				deps.Notifier.DocumentsRouted(job.JobID, report.Moved, report.Missing)
			}
		}
	}

	for _, key := range keys {
		p, _ := job.Projects.Get(key)
		p.Status = status
		job.Projects.Set(key, p)
	}
	return report, nil
}

// routeDocuments walks the workspace for documents whose leading filename
// token names an expected drawing number and moves each to dest. The walk
// stops once every expected document is found; documents never found are
// reported, not retried.
func routeDocuments(ctx context.Context, job *domain.Job, expected []string, dest string, deps Deps) RoutedReport {
	wanted := make(map[string]bool, len(expected))
	for _, num := range expected {
		wanted[num] = false
	}

	var report RoutedReport
	if _, err := os.Stat(job.Workspace); err != nil {
		if deps.Validator != nil {
			deps.Validator.WorkspaceMissing(job.JobID, job.Workspace)
		}
		report.Missing = append(report.Missing, expected...)
		sort.Strings(report.Missing)
		return report
	}

	found := 0
	_ = filepath.WalkDir(job.Workspace, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if !strings.EqualFold(filepath.Ext(name), documentExt) {
			return nil
		}
		num := strings.SplitN(name, "_", 2)[0]
		done, ok := wanted[num]
		if !ok || done {
			return nil
		}
		if err := moveFile(path, filepath.Join(dest, name)); err != nil {
			return nil
		}
		wanted[num] = true
		found++
		report.Moved = append(report.Moved, name)
		if deps.Archive != nil {
			if err := archiveDocument(ctx, deps.Archive, job.JobID, filepath.Join(dest, name)); err != nil {
				report.ArchiveFailed = append(report.ArchiveFailed, name)
			}
		}
		if found == len(wanted) {
			return iofs.SkipAll
		}
		return nil
	})

	for num, done := range wanted {
		if !done {
			report.Missing = append(report.Missing, num)
		}
	}
	sort.Strings(report.Missing)
	sort.Strings(report.Moved)
	return report
}

func archiveDocument(ctx context.Context, store archive.Store, jobID, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	_, err = store.Put(ctx, archive.DocumentKey(jobID, filepath.Base(path)), f, archive.PutOptions{
		ContentType: "application/pdf",
		Metadata:    map[string]string{"job": jobID},
	})
	return err
}

// moveFile renames when possible and falls back to copy and delete for
// cross-device moves, which are routine between a workspace share and the
// issued prints share.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
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
		_ = os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}
