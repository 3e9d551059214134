package printer

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/slok/migrator/internal/model"
	"github.com/slok/migrator/internal/semver"
)

// TablePrinter prints migration information in a table format.
type TablePrinter struct {
	writer io.Writer
	now    func() time.Time
}

// NewTablePrinter creates a new table printer.
func NewTablePrinter(w io.Writer) *TablePrinter {
	return &TablePrinter{writer: w, now: time.Now}
}

// PrintStatuses prints task statuses in a table format.
func (t *TablePrinter) PrintStatuses(statuses []model.TaskStatus) error {
	if len(statuses) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	// Print header.
	fmt.Fprintln(tw, "TASK\tSTATE\tFAILED ATTEMPTS\tUPDATED\tREASON")

	// Print rows.
	now := t.now()
	for _, s := range statuses {
		updated, reason := "-", "-"
		switch {
		case s.Outcome.Success != nil:
			updated = Ago(s.Outcome.Success.CompletionDate, now)
		case s.Outcome.Failure != nil:
			updated = Ago(s.Outcome.Failure.LastFailDate, now)
			reason = s.Outcome.Failure.Reason.String()
		}

		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", s.TaskID, s.State(), s.FailedAttempts, updated, reason)
	}

	return nil
}

// PrintComparison prints the precedence of two versions.
func (t *TablePrinter) PrintComparison(a, b semver.Version) error {
	op := "=="
	switch semver.Compare(a, b) {
	case -1:
		op = "<"
	case 1:
		op = ">"
	}

	fmt.Fprintf(t.writer, "%s %s %s\n", a, op, b)
	return nil
}

// PrintMessage prints a simple text message.
func (t *TablePrinter) PrintMessage(msg string) error {
	fmt.Fprintln(t.writer, msg)
	return nil
}
