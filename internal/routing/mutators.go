package routing

import (
	"fmt"
	"time"

	"jobcore/pkg/domain"
)

func eachProject(job *domain.Job, keys []string, apply func(p domain.Project) domain.Project) error {
	for _, key := range keys {
		if _, ok := job.Projects.Get(key); !ok {
			return fmt.Errorf("unknown project key %q", key)
		}
	}
	for _, key := range keys {
		p, _ := job.Projects.Get(key)
		job.Projects.Set(key, apply(p))
	}
	return nil
}

// SetOwner assigns owner to every selected project.
func SetOwner(job *domain.Job, keys []string, owner string) error {
	return eachProject(job, keys, func(p domain.Project) domain.Project {
		p.Owner = owner
		return p
	})
}

// SetDueDate assigns a due date to every selected project. The date must
// parse; a garbled date would otherwise poison every view that sorts or
// buckets by days remaining.
func SetDueDate(job *domain.Job, keys []string, due string) error {
	if _, err := domain.ParseDate(due); err != nil {
		return fmt.Errorf("invalid due date %q: %w", due, err)
	}
	return eachProject(job, keys, func(p domain.Project) domain.Project {
		p.DueDate = due
		return p
	})
}

// SetAlias assigns an alias number to every selected project.
func SetAlias(job *domain.Job, keys []string, alias string) error {
	return eachProject(job, keys, func(p domain.Project) domain.Project {
		p.AliasNum = alias
		return p
	})
}

// AddNote appends a stamped note to every selected project.
func AddNote(job *domain.Job, keys []string, text, author string, now time.Time) error {
	return eachProject(job, keys, func(p domain.Project) domain.Project {
		p.Notes.Add(text, author, now)
		return p
	})
}
