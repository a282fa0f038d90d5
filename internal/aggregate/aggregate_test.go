package aggregate

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"jobcore/internal/infra/recordstore/memory"
	"jobcore/internal/recordstore"
	"jobcore/pkg/domain"
)

func seedJob(t *testing.T, store recordstore.Store, jobID string, keys ...string) {
	t.Helper()
	ctx := context.Background()
	if err := store.Create(ctx, jobID, ""); err != nil {
		t.Fatalf("create %s: %v", jobID, err)
	}
	job, err := store.Load(ctx, jobID)
	if err != nil {
		t.Fatalf("load %s: %v", jobID, err)
	}
	for _, key := range keys {
		if err := job.AddProject(key, "", "brandon", "07/04/2026", ""); err != nil {
			t.Fatalf("add %s: %v", key, err)
		}
	}
	if err := store.Save(ctx, jobID, job); err != nil {
		t.Fatalf("save %s: %v", jobID, err)
	}
}

func TestMergeFlattensAcrossJobs(t *testing.T) {
	store := memory.New()
	seedJob(t, store, "100001", "100001-100-001-002", "100001-100-001-003")
	seedJob(t, store, "100002", "100002-200-001-002")

	merged, err := Merge(context.Background(), store, "brandon")
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if len(merged) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(merged))
	}
	entry, ok := merged["100002-200-001-002"]
	if !ok || entry.JobID != "100002" {
		t.Fatalf("unexpected entry %+v ok=%v", entry, ok)
	}
}

// snapshotFailStore simulates a record vanishing between the listing and
// the per-job snapshot.
type snapshotFailStore struct {
	*memory.Store
	failID string
}

func (s *snapshotFailStore) Snapshot(ctx context.Context, jobID, caller string) (*domain.Job, error) {
	if jobID == s.failID {
		return nil, fmt.Errorf("record vanished")
	}
	return s.Store.Snapshot(ctx, jobID, caller)
}

func TestMergeSkipsVanishedJobs(t *testing.T) {
	inner := memory.New()
	seedJob(t, inner, "100001", "100001-100-001-002")
	seedJob(t, inner, "100002", "100002-200-001-002")
	store := &snapshotFailStore{Store: inner, failID: "100001"}

	merged, err := Merge(context.Background(), store, "brandon")
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if len(merged) != 1 {
		t.Fatalf("expected vanished job omitted, got %v", merged.Keys())
	}
	if _, ok := merged["100002-200-001-002"]; !ok {
		t.Fatal("surviving job missing from merge")
	}
}

func TestGroupByJob(t *testing.T) {
	merged := Merged{
		"100001-100-001-003": {JobID: "100001"},
		"100001-100-001-002": {JobID: "100001"},
		"100002-200-001-002": {JobID: "100002"},
	}
	grouped := GroupByJob(merged)
	if len(grouped) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(grouped))
	}
	keys := grouped["100001"]
	if len(keys) != 2 || keys[0] != "100001-100-001-002" || keys[1] != "100001-100-001-003" {
		t.Fatalf("unexpected bucket %v", keys)
	}
}

func TestFilterAndSelect(t *testing.T) {
	merged := Merged{
		"100001-100-001-002": {JobID: "100001", Project: domain.Project{Owner: "brandon"}},
		"100001-REV-B":       {JobID: "100001", Project: domain.Project{Owner: "sam"}},
		"100002-200-001-002": {JobID: "100002", Project: domain.Project{Owner: "sam"}},
	}

	if got := Filter(merged, "rev"); len(got) != 1 || got[0] != "100001-REV-B" {
		t.Fatalf("unexpected filter result %v", got)
	}
	if got := Filter(merged, ""); len(got) != 3 {
		t.Fatalf("empty query should match all, got %v", got)
	}

	selected := Select(merged, []string{"100002-200-001-002", "missing", "100001-REV-B"})
	if len(selected) != 2 {
		t.Fatalf("expected 2 selected, got %d", len(selected))
	}
	if selected[0].JobID != "100002" || selected[1].Project.Owner != "sam" {
		t.Fatalf("unexpected selection %+v", selected)
	}
}

func TestGlanceBuckets(t *testing.T) {
	now, err := domain.ParseDate("01/05/2020")
	if err != nil {
		t.Fatalf("parse now: %v", err)
	}
	merged := Merged{
		"105000-overdue":   {JobID: "105000", Project: domain.Project{DueDate: "01/01/2020", Status: domain.StatusInProcess}},
		"105000-today":     {JobID: "105000", Project: domain.Project{DueDate: "01/05/2020", Status: domain.StatusUnassigned}},
		"105000-tomorrow":  {JobID: "105000", Project: domain.Project{DueDate: "01/06/2020", Status: domain.StatusOnHold}},
		"105000-twodays":   {JobID: "105000", Project: domain.Project{DueDate: "01/07/2020", Status: domain.StatusAtReview}},
		"105000-threedays": {JobID: "105000", Project: domain.Project{DueDate: "01/08/2020", Status: domain.StatusInProcess}},
		"105000-done":      {JobID: "105000", Project: domain.Project{DueDate: "01/01/2020", Status: domain.StatusCompleted}},
		"105000-garbled":   {JobID: "105000", Project: domain.Project{DueDate: "Jan 5", Status: domain.StatusInProcess}},
		"200000-overdue":   {JobID: "200000", Project: domain.Project{DueDate: "12/31/2019", Status: domain.StatusInProcess}},
	}

	rows := Glance(merged, now)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %v", rows)
	}
	first := rows[0]
	if first.JobID != "105000" {
		t.Fatalf("expected sorted rows, got %v", rows)
	}
	if first.Overdue != 1 || first.DueToday != 1 || first.Approaching != 2 {
		t.Fatalf("unexpected buckets %+v", first)
	}
	if rows[1].Overdue != 1 || rows[1].DueToday != 0 || rows[1].Approaching != 0 {
		t.Fatalf("unexpected buckets %+v", rows[1])
	}
}

func TestGlanceQuietJobStillListed(t *testing.T) {
	now, err := domain.ParseDate("01/05/2020")
	if err != nil {
		t.Fatalf("parse now: %v", err)
	}
	merged := Merged{
		"105000-100-001-002": {JobID: "105000", Project: domain.Project{DueDate: "01/01/2020", Status: domain.StatusCompleted}},
		"105000-100-001-003": {JobID: "105000", Project: domain.Project{DueDate: "Jan 5", Status: domain.StatusInProcess}},
	}

	rows := Glance(merged, now)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %v", rows)
	}
	row := rows[0]
	if row.JobID != "105000" {
		t.Fatalf("unexpected job %q", row.JobID)
	}
	if row.Overdue != 0 || row.DueToday != 0 || row.Approaching != 0 {
		t.Fatalf("expected zero counts, got %+v", row)
	}
}

func TestWriteReport(t *testing.T) {
	merged := Merged{
		"100001-100-001-002": {JobID: "100001", Project: domain.Project{Owner: "brandon", DueDate: "07/04/2026", Status: domain.StatusInProcess}},
		"100002-200-001-002": {JobID: "100002", Project: domain.Project{Owner: "sam", DueDate: "07/05/2026", Status: domain.StatusUnassigned}},
	}
	var buf strings.Builder
	if err := WriteReport(&buf, merged); err != nil {
		t.Fatalf("write report: %v", err)
	}
	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %q", out)
	}
	if lines[0] != "100001-100-001-002 . brandon . 07/04/2026 . In Process" {
		t.Fatalf("unexpected first line %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "####") {
		t.Fatalf("expected separator, got %q", lines[1])
	}
	if lines[2] != "100002-200-001-002 . sam . 07/05/2026 . Unassigned" {
		t.Fatalf("unexpected last line %q", lines[2])
	}
}
