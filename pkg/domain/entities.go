// Package domain defines the core persistent entities and value types used
// by jobcore: jobs, projects, note histories, statuses, and the key shapes
// that bind projects to their owning job.
package domain

import (
	"fmt"
	"time"
)

// Status represents the workflow state of a project.
type Status string

// Project workflow statuses in their fixed order. The final status is
// terminal and triggers document routing on assignment.
const (
	// StatusUnassigned marks a project that has no owner yet.
	StatusUnassigned Status = "Unassigned"
	// StatusInProcess marks a project being actively worked.
	StatusInProcess Status = "In Process"
	// StatusOnHold marks a project whose work is suspended.
	StatusOnHold Status = "On Hold"
	// StatusAtReview marks a project awaiting checking.
	StatusAtReview Status = "At Review"
	// StatusCompleted is the terminal status.
	StatusCompleted Status = "Completed"
)

// StatusOrder lists all statuses in workflow order. Order is significant
// only in that the last entry is terminal.
var StatusOrder = []Status{
	StatusUnassigned,
	StatusInProcess,
	StatusOnHold,
	StatusAtReview,
	StatusCompleted,
}

// Terminal reports whether assigning the status completes a project.
func (s Status) Terminal() bool { return s == StatusCompleted }

// Valid reports whether the status is one of the fixed set.
func (s Status) Valid() bool {
	for _, known := range StatusOrder {
		if s == known {
			return true
		}
	}
	return false
}

// DateFormat is the calendar layout used for every stored date (MM/DD/YYYY).
// Dates are compared by parsing, never lexicographically.
const DateFormat = "01/02/2006"

// ParseDate parses a stored MM/DD/YYYY date string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// DaysUntil returns the whole days remaining from now until the due date.
// The time-of-day component of now is discarded so that a project due today
// yields zero.
func DaysUntil(due string, now time.Time) (int, error) {
	d, err := ParseDate(due)
	if err != nil {
		return 0, err
	}
	// Compare calendar days: both endpoints are pinned to UTC midnight so
	// the difference is always a whole number of days.
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	target := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return int(target.Sub(today).Hours() / 24), nil
}

// Project represents one released unit of work under a job.
//
// The key under which a Project is stored in its Job may be renamed over the
// project's life; AliasNum records the billing identifier independently of
// the storage key.
type Project struct {
	AliasNum string `json:"alias_num"`
	Owner    string `json:"owner"`
	DueDate  string `json:"due_date"`
	Status   Status `json:"status"`
	Notes    Notes  `json:"notes"`
}

// NewProject constructs a project whose note history starts with the given
// work instructions.
func NewProject(aliasNum, workInstructions, owner, dueDate string, status Status) Project {
	if status == "" {
		status = StatusUnassigned
	}
	return Project{
		AliasNum: aliasNum,
		Owner:    owner,
		DueDate:  dueDate,
		Status:   status,
		Notes:    NewNotes(workInstructions),
	}
}

// Clone returns a deep copy of the project.
func (p Project) Clone() Project {
	cp := p
	cp.Notes = p.Notes.Clone()
	return cp
}
