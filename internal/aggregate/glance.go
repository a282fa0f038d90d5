package aggregate

import (
	"sort"
	"time"

	"jobcore/pkg/domain"
)

// approachingWindow is the number of days remaining under which a project
// counts as approaching: one or two days out.
const approachingWindow = 3

// GlanceRow summarizes one job's due-date pressure.
type GlanceRow struct {
	JobID       string
	Overdue     int
	DueToday    int
	Approaching int
}

// Glance emits one row per job and buckets every non-terminal project by
// days remaining relative to now. Completed projects never count and a
// project whose due date does not parse is left out of all buckets, but
// the job's row stays, zero counts and all.
func Glance(m Merged, now time.Time) []GlanceRow {
	rows := make(map[string]*GlanceRow)
	for _, entry := range m {
		row, ok := rows[entry.JobID]
		if !ok {
			row = &GlanceRow{JobID: entry.JobID}
			rows[entry.JobID] = row
		}
		if entry.Project.Status.Terminal() {
			continue
		}
		days, err := domain.DaysUntil(entry.Project.DueDate, now)
		if err != nil {
			continue
		}
		switch {
		case days < 0:
			row.Overdue++
		case days == 0:
			row.DueToday++
		case days < approachingWindow:
			row.Approaching++
		}
	}
	out := make([]GlanceRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].JobID < out[j].JobID })
	return out
}
