// Command jobglance prints the jobs-at-a-glance table for the configured
// record store, or the full active-project listing with -list.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/user"
	"text/tabwriter"
	"time"

	"jobcore/internal/aggregate"
	"jobcore/internal/bootstrap"
	"jobcore/internal/recordstore"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("jobglance", flag.ContinueOnError)
	fs.SetOutput(stderr)
	list := fs.Bool("list", false, "print the full active-project listing instead of the glance table")
	caller := fs.String("user", defaultCaller(), "identity used for snapshot scans")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	store, err := bootstrap.Connect(ctx, 0, 0, recordstore.Open)
	if err != nil {
		fmt.Fprintf(stderr, "jobglance: %v\n", err)
		return 1
	}

	merged, err := aggregate.Merge(ctx, store, *caller)
	if err != nil {
		fmt.Fprintf(stderr, "jobglance: %v\n", err)
		return 1
	}

	if *list {
		if err := aggregate.WriteReport(stdout, merged); err != nil {
			fmt.Fprintf(stderr, "jobglance: %v\n", err)
			return 1
		}
		return 0
	}

	rows := aggregate.Glance(merged, time.Now())
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "JOB\tOVERDUE\tDUE TODAY\tAPPROACHING")
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", row.JobID, row.Overdue, row.DueToday, row.Approaching)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(stderr, "jobglance: %v\n", err)
		return 1
	}
	return 0
}

func defaultCaller() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "jobglance"
}
