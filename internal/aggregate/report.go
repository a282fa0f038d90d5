package aggregate

import (
	"fmt"
	"io"
	"sort"
)

const reportSeparator = "########################################"

// WriteReport renders the merged view as a plain-text listing, one block
// per job separated by a marker line, one project per line.
func WriteReport(w io.Writer, m Merged) error {
	grouped := GroupByJob(m)
	jobIDs := make([]string, 0, len(grouped))
	for jobID := range grouped {
		jobIDs = append(jobIDs, jobID)
	}
	sort.Strings(jobIDs)

	for i, jobID := range jobIDs {
		if i > 0 {
			if _, err := fmt.Fprintln(w, reportSeparator); err != nil {
				return err
			}
		}
		for _, key := range grouped[jobID] {
			entry := m[key]
			_, err := fmt.Fprintf(w, "%s . %s . %s . %s\n",
				key, entry.Project.Owner, entry.Project.DueDate, entry.Project.Status)
			if err != nil {
				return err
			}
		}
	}
	return nil
}
