package domain

import (
	"encoding/json"
	"fmt"
)

// ProjectMap is an insertion-ordered mapping from project key to Project.
// Keys double as both index and renamable identity, so position never
// carries meaning; order is preserved only so listings and note histories
// stay stable across save/load cycles.
type ProjectMap struct {
	keys []string
	m    map[string]Project
}

// NewProjectMap returns an empty ordered project mapping.
func NewProjectMap() *ProjectMap {
	return &ProjectMap{m: make(map[string]Project)}
}

// Get retrieves the project stored under key.
func (pm *ProjectMap) Get(key string) (Project, bool) {
	p, ok := pm.m[key]
	return p, ok
}

// Set stores a project under key, appending the key when it is new and
// preserving its position when it already exists.
func (pm *ProjectMap) Set(key string, p Project) {
	if _, ok := pm.m[key]; !ok {
		pm.keys = append(pm.keys, key)
	}
	pm.m[key] = p
}

// Delete removes the entry stored under key.
func (pm *ProjectMap) Delete(key string) bool {
	if _, ok := pm.m[key]; !ok {
		return false
	}
	delete(pm.m, key)
	for i, k := range pm.keys {
		if k == key {
			pm.keys = append(pm.keys[:i], pm.keys[i+1:]...)
			break
		}
	}
	return true
}

// Rename moves the project stored under old to new: insert under the new
// key, delete the old key, value unchanged. Renaming a key to itself is a
// no-op that leaves exactly one entry. Renaming onto a different live key
// is rejected so its note history is never discarded.
func (pm *ProjectMap) Rename(old, new string) error {
	p, ok := pm.m[old]
	if !ok {
		return fmt.Errorf("no project stored under %q", old)
	}
	if old != new {
		if _, taken := pm.m[new]; taken {
			return fmt.Errorf("project %q already exists", new)
		}
	}
	pm.Set(new, p)
	if old != new {
		pm.Delete(old)
	}
	return nil
}

// Keys returns the keys in insertion order.
func (pm *ProjectMap) Keys() []string {
	return append([]string(nil), pm.keys...)
}

// Len returns the number of entries.
func (pm *ProjectMap) Len() int { return len(pm.keys) }

// Clone returns a deep copy of the mapping.
func (pm *ProjectMap) Clone() *ProjectMap {
	cp := NewProjectMap()
	for _, k := range pm.keys {
		cp.Set(k, pm.m[k].Clone())
	}
	return cp
}

type projectEntry struct {
	Key     string  `json:"key"`
	Project Project `json:"project"`
}

// MarshalJSON serialises the mapping as an ordered entry array.
func (pm *ProjectMap) MarshalJSON() ([]byte, error) {
	entries := make([]projectEntry, 0, len(pm.keys))
	for _, k := range pm.keys {
		entries = append(entries, projectEntry{Key: k, Project: pm.m[k]})
	}
	return json.Marshal(entries)
}

// UnmarshalJSON hydrates the mapping from an ordered entry array.
func (pm *ProjectMap) UnmarshalJSON(data []byte) error {
	var entries []projectEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	*pm = *NewProjectMap()
	for _, e := range entries {
		pm.Set(e.Key, e.Project)
	}
	return nil
}

// Job aggregates the projects billed under one 6-digit identifier.
//
// JobID is immutable once assigned and is never recomputed from content.
// Workspace optionally points at the job's file-storage root; it may be
// empty or inaccessible on a given machine.
type Job struct {
	JobID     string      `json:"job_id"`
	Workspace string      `json:"workspace"`
	Projects  *ProjectMap `json:"projects"`
}

// NewJob constructs an empty job for a validated identifier.
func NewJob(jobID, workspace string) (*Job, error) {
	if !ValidJobID(jobID) {
		return nil, fmt.Errorf("job id %q: must be a 6-digit integer", jobID)
	}
	return &Job{JobID: jobID, Workspace: workspace, Projects: NewProjectMap()}, nil
}

// AddProject stores a new project under key. Keys are unique within a
// job; reuse of a live key is rejected rather than overwriting its note
// history.
func (j *Job) AddProject(key, workInstructions, owner, dueDate string, status Status) error {
	if j.Projects == nil {
		j.Projects = NewProjectMap()
	}
	if _, exists := j.Projects.Get(key); exists {
		return fmt.Errorf("project %q already exists", key)
	}
	j.Projects.Set(key, NewProject(key, workInstructions, owner, dueDate, status))
	return nil
}

// DuplicateProject copies the project stored under key to a generated
// "<key> (n)" key, probing n = 2, 3, ... until an unused key is found. The
// copy carries the source's work instructions (with the rest of the note
// history reset), owner, due date, status, and alias number. It returns the
// new key.
func (j *Job) DuplicateProject(key string) (string, error) {
	src, ok := j.Projects.Get(key)
	if !ok {
		return "", fmt.Errorf("no project stored under %q", key)
	}
	n := 2
	var copyKey string
	for {
		copyKey = fmt.Sprintf("%s (%d)", key, n)
		if _, exists := j.Projects.Get(copyKey); !exists {
			break
		}
		n++
	}
	cp := NewProject(src.AliasNum, src.Notes.WorkInstructions(), src.Owner, src.DueDate, src.Status)
	j.Projects.Set(copyKey, cp)
	return copyKey, nil
}

// DueDateNotFound is returned by LatestDueDate when no project carries a
// parseable due date.
const DueDateNotFound = "not found"

// LatestDueDate returns the latest due date across the job's projects.
// A job with no projects, or any project whose due date fails to parse,
// yields DueDateNotFound.
func (j *Job) LatestDueDate() string {
	latest := ""
	for _, k := range j.Projects.Keys() {
		p, _ := j.Projects.Get(k)
		d, err := ParseDate(p.DueDate)
		if err != nil {
			return DueDateNotFound
		}
		if latest == "" {
			latest = p.DueDate
			continue
		}
		cur, _ := ParseDate(latest)
		if d.After(cur) {
			latest = p.DueDate
		}
	}
	if latest == "" {
		return DueDateNotFound
	}
	return latest
}

// DrawingNums returns the job's drawing-number-shaped project keys.
func (j *Job) DrawingNums() []string {
	return DrawingNums(j.Projects.Keys())
}

// Clone returns a deep copy of the job.
func (j *Job) Clone() *Job {
	cp := &Job{JobID: j.JobID, Workspace: j.Workspace, Projects: NewProjectMap()}
	if j.Projects != nil {
		cp.Projects = j.Projects.Clone()
	}
	return cp
}
