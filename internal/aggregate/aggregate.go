// Package aggregate builds cross-job views from per-job snapshots without
// taking any locks. The result is self-consistent per job and approximate
// across jobs; callers must never write a merged view back through Save.
package aggregate

import (
	"context"
	"sort"
	"strings"

	"jobcore/internal/recordstore"
	"jobcore/pkg/domain"
)

// Entry is one project in a merged view, tagged with its job id.
type Entry struct {
	JobID   string
	Project domain.Project
}

// Merged maps project keys to their entries across every scanned job.
type Merged map[string]Entry

// Merge snapshots every active job for caller and flattens the project
// entries into one map. A job that vanishes or fails to decode mid-scan is
// skipped without comment; records are deleted and rewritten underneath
// the scan in normal operation and a partial view is the accepted result.
func Merge(ctx context.Context, store recordstore.Store, caller string) (Merged, error) {
	ids, err := store.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	merged := make(Merged)
	for _, jobID := range ids {
		job, err := store.Snapshot(ctx, jobID, caller)
		if err != nil {
			continue
		}
		for _, key := range job.Projects.Keys() {
			p, ok := job.Projects.Get(key)
			if !ok {
				continue
			}
			merged[key] = Entry{JobID: jobID, Project: p}
		}
	}
	return merged, nil
}

// Keys returns the merged view's project keys in sorted order.
func (m Merged) Keys() []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// GroupByJob buckets the merged view's keys by job id, each bucket sorted.
func GroupByJob(m Merged) map[string][]string {
	grouped := make(map[string][]string)
	for key, entry := range m {
		grouped[entry.JobID] = append(grouped[entry.JobID], key)
	}
	for _, keys := range grouped {
		sort.Strings(keys)
	}
	return grouped
}

// Filter returns the sorted keys whose text contains the query,
// case-insensitively. An empty query matches everything.
func Filter(m Merged, query string) []string {
	query = strings.ToLower(query)
	var keys []string
	for key := range m {
		if strings.Contains(strings.ToLower(key), query) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// Select returns the subset of the merged view named by keys, preserving
// their order and dropping keys not present.
func Select(m Merged, keys []string) []Entry {
	var out []Entry
	for _, key := range keys {
		if entry, ok := m[key]; ok {
			out = append(out, entry)
		}
	}
	return out
}
