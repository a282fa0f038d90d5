package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNotesSeedAndAppend(t *testing.T) {
	notes := NewNotes("these are work instructions")
	if got := notes.WorkInstructions(); got != "these are work instructions" {
		t.Fatalf("work instructions: %q", got)
	}
	entries := notes.Entries()
	if len(entries) != 1 || entries[0].Label != WorkInstructionsLabel {
		t.Fatalf("seed entry: %+v", entries)
	}
	stamp := time.Date(2019, 2, 13, 16, 45, 6, 0, time.UTC)
	notes.Add("new note", "Brandon", stamp)
	entries = notes.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[1].Label != "02/13/2019 @ 04:45:06 PM by Brandon" {
		t.Fatalf("generated label: %q", entries[1].Label)
	}
	if entries[1].Text != "new note" {
		t.Fatalf("note text: %q", entries[1].Text)
	}
}

func TestNotesJSONPreservesOrder(t *testing.T) {
	notes := NewNotes("wi")
	now := time.Date(2020, 1, 1, 8, 0, 0, 0, time.UTC)
	notes.Add("first", "a", now)
	notes.Add("second", "b", now.Add(time.Minute))
	b, err := json.Marshal(notes)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Notes
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got := back.Entries()
	want := notes.Entries()
	if len(got) != len(want) {
		t.Fatalf("entry count: %d != %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entry %d: %+v != %+v", i, got[i], want[i])
		}
	}
}

func TestNewJobValidatesID(t *testing.T) {
	if _, err := NewJob("12345", ""); err == nil {
		t.Fatalf("expected short id rejection")
	}
	if _, err := NewJob("12345a", ""); err == nil {
		t.Fatalf("expected non-numeric rejection")
	}
	job, err := NewJob("105000", "")
	if err != nil {
		t.Fatalf("NewJob: %v", err)
	}
	if job.Projects.Len() != 0 {
		t.Fatalf("new job should have no projects")
	}
}

func TestAddProjectDefaults(t *testing.T) {
	job, _ := NewJob("105000", "")
	job.AddProject("105000.177-43", "these are work instructions", "Brandon", "01/01/2020", "")
	p, ok := job.Projects.Get("105000.177-43")
	if !ok {
		t.Fatalf("project missing")
	}
	if p.Status != StatusUnassigned {
		t.Fatalf("default status: %q", p.Status)
	}
	if p.AliasNum != "105000.177-43" {
		t.Fatalf("alias: %q", p.AliasNum)
	}
}

func TestAddProjectRejectsLiveKey(t *testing.T) {
	job, _ := NewJob("105000", "")
	if err := job.AddProject("105000.1", "wi", "", "01/01/2020", ""); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if err := job.AddProject("105000.1", "other", "", "01/01/2020", ""); err == nil {
		t.Fatalf("expected duplicate key rejection")
	}
}

func TestRenameIsMove(t *testing.T) {
	job, _ := NewJob("105000", "")
	job.AddProject("105000.1", "wi", "", "01/01/2020", "")
	before, _ := job.Projects.Get("105000.1")
	if err := job.Projects.Rename("105000.1", "105000-01-02-03"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if _, ok := job.Projects.Get("105000.1"); ok {
		t.Fatalf("old key should be absent")
	}
	after, ok := job.Projects.Get("105000-01-02-03")
	if !ok {
		t.Fatalf("new key should resolve")
	}
	if after.AliasNum != before.AliasNum || after.Notes.WorkInstructions() != before.Notes.WorkInstructions() {
		t.Fatalf("value changed during rename")
	}
}

func TestRenameToSelfIsNoOp(t *testing.T) {
	job, _ := NewJob("105000", "")
	job.AddProject("105000.1", "wi", "", "01/01/2020", "")
	if err := job.Projects.Rename("105000.1", "105000.1"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if job.Projects.Len() != 1 {
		t.Fatalf("expected exactly one entry, got %d", job.Projects.Len())
	}
	if _, ok := job.Projects.Get("105000.1"); !ok {
		t.Fatalf("entry missing after self-rename")
	}
}

func TestRenameMissingKey(t *testing.T) {
	job, _ := NewJob("105000", "")
	if err := job.Projects.Rename("105000.9", "105000.10"); err == nil {
		t.Fatalf("expected error for missing key")
	}
}

func TestRenameRejectsLiveTarget(t *testing.T) {
	job, _ := NewJob("105000", "")
	job.AddProject("105000.1", "wi", "", "01/01/2020", "")
	job.AddProject("105000.2", "other wi", "", "02/01/2020", "")
	if err := job.Projects.Rename("105000.1", "105000.2"); err == nil {
		t.Fatalf("expected error renaming onto a live key")
	}
	if job.Projects.Len() != 2 {
		t.Fatalf("expected both entries intact, got %d", job.Projects.Len())
	}
	target, _ := job.Projects.Get("105000.2")
	if target.Notes.WorkInstructions() != "other wi" {
		t.Fatalf("target project clobbered: %+v", target)
	}
}

func TestDuplicateProjectKeyGeneration(t *testing.T) {
	job, _ := NewJob("105000", "")
	job.AddProject("A", "wi", "Brandon", "01/01/2020", StatusInProcess)
	job.AddProject("A (2)", "wi", "Brandon", "01/01/2020", "")
	key, err := job.DuplicateProject("A")
	if err != nil {
		t.Fatalf("duplicate: %v", err)
	}
	if key != "A (3)" {
		t.Fatalf("generated key: %q", key)
	}
}

func TestDuplicateProjectCarriesFields(t *testing.T) {
	job, _ := NewJob("105000", "")
	job.AddProject("105000.1", "wi", "Brandon", "01/01/2020", StatusOnHold)
	src, _ := job.Projects.Get("105000.1")
	src.AliasNum = "105000.alias"
	src.Notes.Add("history", "Brandon", time.Now())
	job.Projects.Set("105000.1", src)

	key, err := job.DuplicateProject("105000.1")
	if err != nil {
		t.Fatalf("duplicate: %v", err)
	}
	cp, _ := job.Projects.Get(key)
	if cp.AliasNum != "105000.alias" {
		t.Fatalf("alias not inherited: %q", cp.AliasNum)
	}
	if cp.Owner != "Brandon" || cp.DueDate != "01/01/2020" || cp.Status != StatusOnHold {
		t.Fatalf("fields not carried: %+v", cp)
	}
	if cp.Notes.Len() != 1 || cp.Notes.WorkInstructions() != "wi" {
		t.Fatalf("note history should reset to work instructions only: %+v", cp.Notes.Entries())
	}
	if orig, _ := job.Projects.Get("105000.1"); orig.Notes.Len() != 2 {
		t.Fatalf("source history mutated")
	}
}

func TestDeleteProject(t *testing.T) {
	job, _ := NewJob("105000", "")
	job.AddProject("105000.1", "wi", "", "01/01/2020", "")
	if !job.Projects.Delete("105000.1") {
		t.Fatalf("delete should report removal")
	}
	if job.Projects.Delete("105000.1") {
		t.Fatalf("second delete should report absence")
	}
}

func TestLatestDueDate(t *testing.T) {
	job, _ := NewJob("105000", "")
	if got := job.LatestDueDate(); got != DueDateNotFound {
		t.Fatalf("empty job: %q", got)
	}
	job.AddProject("105000.1", "wi", "", "01/01/2020", "")
	job.AddProject("105000.2", "wi", "", "03/15/2020", "")
	job.AddProject("105000.3", "wi", "", "02/01/2020", "")
	if got := job.LatestDueDate(); got != "03/15/2020" {
		t.Fatalf("latest: %q", got)
	}
	job.AddProject("105000.4", "wi", "", "garbled", "")
	if got := job.LatestDueDate(); got != DueDateNotFound {
		t.Fatalf("unparseable date should yield %q, got %q", DueDateNotFound, got)
	}
}

func TestJobJSONRoundTrip(t *testing.T) {
	job, _ := NewJob("105000", `C:\vault\105000`)
	job.AddProject("105000.177-43", "these are work instructions", "Brandon", "01/01/2020", "")
	job.AddProject("105000-01-02-03", "drawing work", "Casey", "02/01/2020", StatusInProcess)
	p, _ := job.Projects.Get("105000.177-43")
	p.Notes.Add("checked fit", "Brandon", time.Date(2020, 1, 2, 9, 30, 0, 0, time.UTC))
	job.Projects.Set("105000.177-43", p)

	b, err := json.Marshal(job)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Job
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.JobID != job.JobID || back.Workspace != job.Workspace {
		t.Fatalf("identity fields: %+v", back)
	}
	wantKeys := job.Projects.Keys()
	gotKeys := back.Projects.Keys()
	if len(gotKeys) != len(wantKeys) {
		t.Fatalf("key count: %d != %d", len(gotKeys), len(wantKeys))
	}
	for i := range wantKeys {
		if gotKeys[i] != wantKeys[i] {
			t.Fatalf("key order changed: %v vs %v", gotKeys, wantKeys)
		}
	}
	got, _ := back.Projects.Get("105000.177-43")
	if got.Owner != "Brandon" || got.DueDate != "01/01/2020" || got.Status != StatusUnassigned {
		t.Fatalf("project fields: %+v", got)
	}
	if got.Notes.Len() != 2 {
		t.Fatalf("note history lost: %+v", got.Notes.Entries())
	}
}

func TestKeyShapes(t *testing.T) {
	if !IsDrawingNum("105000-01-02-03") {
		t.Fatalf("drawing number not recognised")
	}
	if IsDrawingNum("105000.177-43") {
		t.Fatalf("alias misclassified as drawing number")
	}
	if got := JobIDOf("105000.177-43"); got != "105000" {
		t.Fatalf("job id of alias: %q", got)
	}
	if got := JobIDOf("105000-01-02-03"); got != "105000" {
		t.Fatalf("job id of drawing number: %q", got)
	}
}

func TestSelectedJobID(t *testing.T) {
	id, err := SelectedJobID([]string{"105000.1", "105000-01-02-03"})
	if err != nil || id != "105000" {
		t.Fatalf("single job selection: %q %v", id, err)
	}
	if _, err := SelectedJobID([]string{"105000.1", "105001.1"}); err == nil {
		t.Fatalf("expected ambiguity error")
	} else if _, ok := err.(AmbiguousSelectionError); !ok {
		t.Fatalf("wrong error type: %T", err)
	}
	if _, err := SelectedJobID(nil); err == nil {
		t.Fatalf("expected empty selection error")
	}
}

func TestDaysUntil(t *testing.T) {
	now := time.Date(2020, 1, 5, 14, 30, 0, 0, time.UTC)
	for _, tc := range []struct {
		due  string
		want int
	}{
		{"01/01/2020", -4},
		{"01/05/2020", 0},
		{"01/06/2020", 1},
		{"01/07/2020", 2},
		{"01/08/2020", 3},
	} {
		got, err := DaysUntil(tc.due, now)
		if err != nil {
			t.Fatalf("DaysUntil(%q): %v", tc.due, err)
		}
		if got != tc.want {
			t.Fatalf("DaysUntil(%q) = %d, want %d", tc.due, got, tc.want)
		}
	}
	if _, err := DaysUntil("13/45/2020", now); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestStatusOrderTerminal(t *testing.T) {
	if !StatusOrder[len(StatusOrder)-1].Terminal() {
		t.Fatalf("last status must be terminal")
	}
	for _, s := range StatusOrder[:len(StatusOrder)-1] {
		if s.Terminal() {
			t.Fatalf("%q must not be terminal", s)
		}
	}
	if Status("Bogus").Valid() {
		t.Fatalf("unknown status reported valid")
	}
}
