package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/mrchypark/pocketbase-go-skill/internal/journal"
	"github.com/mrchypark/pocketbase-go-skill/internal/reconcile"
)

var (
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
)

func printReport(w io.Writer, report *reconcile.Report) {
	failed := report.Failed()
	for _, it := range failed {
		errorColor.Fprintf(w, "  failed to %s %s: %v\n", it.Action, it.Collection, it.Err)
	}

	skipped := 0
	for _, it := range report.Items {
		if it.Action == reconcile.ActionSkip {
			skipped++
		}
	}

	c := successColor
	if len(failed) > 0 || skipped > 0 {
		c = warnColor
	}
	c.Fprintf(w, "Apply finished: %d created, %d updated, %d skipped, %d failed\n",
		report.Succeeded(reconcile.ActionCreate),
		report.Succeeded(reconcile.ActionUpdate),
		skipped,
		len(failed))
}

func statusColor(s journal.Status) *color.Color {
	switch s {
	case journal.StatusOK:
		return successColor
	case journal.StatusPartial:
		return warnColor
	default:
		return errorColor
	}
}

func printHistory(w io.Writer, runs []journal.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tSTARTED\tCOMMAND\tSTATUS\tSTEPS\tFAILED\tDURATION")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
			r.ID.String()[:8],
			r.StartedAt.Local().Format(time.DateTime),
			r.Command,
			statusColor(r.Status).Sprint(r.Status),
			len(r.Items),
			r.Failures(),
			r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond),
		)
	}
	tw.Flush()
}
