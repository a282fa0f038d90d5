package memory

import (
	"context"
	"errors"
	"testing"

	"jobcore/internal/recordstore/core"
)

func TestLifecycle(t *testing.T) {
	s := New()
	ctx := context.Background()

	if ok, _ := s.Exists(ctx, "105000"); ok {
		t.Fatal("expected empty store")
	}
	if err := s.Create(ctx, "105000", `C:\jobs\105000`); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Create(ctx, "105000", ""); !errors.Is(err, core.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	job, err := s.Load(ctx, "105000")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := job.AddProject("105000-100-001-002", "", "brandon", "07/04/2026", ""); err != nil {
		t.Fatalf("add project: %v", err)
	}
	if err := s.Save(ctx, "105000", job); err != nil {
		t.Fatalf("save: %v", err)
	}

	ids, err := s.ListActive(ctx)
	if err != nil || len(ids) != 1 || ids[0] != "105000" {
		t.Fatalf("list active: ids=%v err=%v", ids, err)
	}

	if err := s.Destroy(ctx, "105000"); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	if err := s.Destroy(ctx, "105000"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadReturnsDetachedCopy(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.Create(ctx, "105000", ""); err != nil {
		t.Fatalf("create: %v", err)
	}
	first, err := s.Load(ctx, "105000")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := first.AddProject("105000-100-001-002", "", "", "", ""); err != nil {
		t.Fatalf("add project: %v", err)
	}

	second, err := s.Load(ctx, "105000")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if second.Projects.Len() != 0 {
		t.Fatal("mutation leaked into stored state without a save")
	}
}

func TestSnapshotIsPlainRead(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.Create(ctx, "105000", ""); err != nil {
		t.Fatalf("create: %v", err)
	}
	job, err := s.Snapshot(ctx, "105000", "anyone")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if job.JobID != "105000" {
		t.Fatalf("unexpected job %+v", job)
	}
	if _, err := s.Snapshot(ctx, "999999", "anyone"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
