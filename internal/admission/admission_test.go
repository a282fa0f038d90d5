package admission

import (
	"context"
	"errors"
	"testing"

	"jobcore/internal/infra/recordstore/memory"
	"jobcore/internal/lock"
	"jobcore/pkg/domain"
)

func TestAssignAdmitsGroupedJobs(t *testing.T) {
	store := memory.New()
	locker := lock.NewMemoryLocker()
	ctx := context.Background()

	entries := []Entry{
		{Key: "105000-100-001-002", Instructions: "weld per dwg", DueDate: "07/04/2026"},
		{Key: "105000-100-001-003", Instructions: "machine flange", DueDate: "07/05/2026"},
		{Key: "200000-100-001-002", Instructions: "paint", DueDate: "07/06/2026"},
	}

	var progressed []string
	report, err := Assign(ctx, store, locker, "brandon", entries, Options{
		Workspaces: func(jobID string) string { return `C:\jobs\` + jobID },
		Progress:   func(jobID string, done, total int) { progressed = append(progressed, jobID) },
	})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if len(report.Jobs) != 2 || report.Projects != 3 {
		t.Fatalf("unexpected report %+v", report)
	}
	if len(progressed) != 2 || progressed[0] != "105000" || progressed[1] != "200000" {
		t.Fatalf("unexpected progress %v", progressed)
	}

	job, err := store.Load(ctx, "105000")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if job.Workspace != `C:\jobs\105000` {
		t.Fatalf("unexpected workspace %q", job.Workspace)
	}
	if job.Projects.Len() != 2 {
		t.Fatalf("expected 2 projects, got %d", job.Projects.Len())
	}
	p, _ := job.Projects.Get("105000-100-001-002")
	if p.Status != domain.StatusUnassigned || p.Notes.WorkInstructions() != "weld per dwg" {
		t.Fatalf("unexpected project %+v", p)
	}
	if p.Owner != "Unassigned" {
		t.Fatalf("expected placeholder owner, got %q", p.Owner)
	}

	// Locks are released after admission.
	holder, err := locker.Holder(ctx, "105000")
	if err != nil || holder != "" {
		t.Fatalf("lock still held: holder=%q err=%v", holder, err)
	}
}

func TestAssignRejectsInvalidDatesUpFront(t *testing.T) {
	store := memory.New()
	locker := lock.NewMemoryLocker()
	ctx := context.Background()

	entries := []Entry{
		{Key: "105000-100-001-002", DueDate: "07/04/2026"},
		{Key: "105000-100-001-003", DueDate: "next tuesday"},
		{Key: "200000-100-001-002", DueDate: "2026-07-04"},
	}
	_, err := Assign(ctx, store, locker, "brandon", entries, Options{})
	var invalid InvalidDatesError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidDatesError, got %v", err)
	}
	if len(invalid.Keys) != 2 || invalid.Keys[0] != "105000-100-001-003" {
		t.Fatalf("unexpected keys %v", invalid.Keys)
	}
	// Nothing admitted while any row is bad.
	if ok, _ := store.Exists(ctx, "105000"); ok {
		t.Fatal("job admitted despite invalid batch")
	}
}

func TestAssignDropsActiveJobs(t *testing.T) {
	store := memory.New()
	locker := lock.NewMemoryLocker()
	ctx := context.Background()

	if err := store.Create(ctx, "105000", ""); err != nil {
		t.Fatalf("create: %v", err)
	}

	entries := []Entry{
		{Key: "105000-100-001-009", DueDate: "07/04/2026"},
		{Key: "200000-100-001-002", DueDate: "07/04/2026"},
	}
	report, err := Assign(ctx, store, locker, "brandon", entries, Options{})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if len(report.Jobs) != 1 || report.Jobs[0] != "200000" {
		t.Fatalf("unexpected report %+v", report)
	}

	// The active job's record is untouched.
	job, err := store.Load(ctx, "105000")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if job.Projects.Len() != 0 {
		t.Fatal("entries leaked into active job")
	}
}

func TestAssignAllActive(t *testing.T) {
	store := memory.New()
	locker := lock.NewMemoryLocker()
	ctx := context.Background()

	if err := store.Create(ctx, "105000", ""); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := Assign(ctx, store, locker, "brandon", []Entry{
		{Key: "105000-100-001-002", DueDate: "07/04/2026"},
	}, Options{})
	if !errors.Is(err, ErrNoUnassigned) {
		t.Fatalf("expected ErrNoUnassigned, got %v", err)
	}
}

func TestAssignRejectsMalformedKeys(t *testing.T) {
	store := memory.New()
	locker := lock.NewMemoryLocker()
	_, err := Assign(context.Background(), store, locker, "brandon", []Entry{
		{Key: "10-100", DueDate: "07/04/2026"},
	}, Options{})
	if err == nil {
		t.Fatal("expected malformed key error")
	}
}

func TestAssignEmptyBatch(t *testing.T) {
	store := memory.New()
	locker := lock.NewMemoryLocker()
	if _, err := Assign(context.Background(), store, locker, "brandon", nil, Options{}); err == nil {
		t.Fatal("expected empty batch error")
	}
}
