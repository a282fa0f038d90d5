package domain

import (
	"fmt"
	"sort"
	"strings"
)

// JobIDLen is the fixed length of a job identifier.
const JobIDLen = 6

// ValidJobID reports whether s is a 6-digit job identifier.
func ValidJobID(s string) bool {
	if len(s) != JobIDLen {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// JobIDOf extracts the owning job identifier from a project key. The first
// six characters of every key shape encode the job; this prefix is the only
// structural link between a project and its job.
func JobIDOf(key string) string {
	if len(key) < JobIDLen {
		return key
	}
	return key[:JobIDLen]
}

// IsDrawingNum reports whether a project key has the fully qualified
// drawing-number shape (job-part-process-detail, three separators). Keys
// that are not drawing numbers are alias numbers.
func IsDrawingNum(key string) bool {
	return strings.Count(key, "-") == 3
}

// DrawingNums filters a key list down to drawing-number-shaped keys.
func DrawingNums(keys []string) []string {
	var out []string
	for _, k := range keys {
		if IsDrawingNum(k) {
			out = append(out, k)
		}
	}
	return out
}

// AmbiguousSelectionError reports a selection that spans more than one job
// where exactly one is required.
type AmbiguousSelectionError struct {
	JobIDs []string
}

func (e AmbiguousSelectionError) Error() string {
	return fmt.Sprintf("selection spans %d jobs; only one job may be modified at a time", len(e.JobIDs))
}

// SelectedJobID extracts the single job identifier encoded by a selection of
// project keys. It returns AmbiguousSelectionError when the selection spans
// more than one job, or an error when the selection is empty.
func SelectedJobID(keys []string) (string, error) {
	if len(keys) == 0 {
		return "", fmt.Errorf("empty selection")
	}
	seen := make(map[string]struct{})
	for _, k := range keys {
		seen[JobIDOf(k)] = struct{}{}
	}
	if len(seen) != 1 {
		ids := make([]string, 0, len(seen))
		for id := range seen {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		return "", AmbiguousSelectionError{JobIDs: ids}
	}
	return JobIDOf(keys[0]), nil
}
