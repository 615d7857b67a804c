// Package printer writes colored terminal output for the sheetdash command.
package printer

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	sheetdash "github.com/ideamans/go-sheetdash"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
	bold   = color.New(color.Bold)
)

// Output is where Success, Info, Warning and the table printers write
var Output io.Writer = os.Stdout

// Success prints a success message in green with a checkmark prefix
func Success(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	if !strings.HasPrefix(msg, "✓") {
		msg = "✓ " + msg
	}
	green.Fprint(Output, msg)
}

// Info prints an informational message in the default color
func Info(format string, a ...any) {
	fmt.Fprintf(Output, format, a...)
}

// Warning prints a warning message in yellow
func Warning(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	if !strings.HasPrefix(msg, "⚠️") {
		msg = "⚠️  " + msg
	}
	yellow.Fprint(Output, msg)
}

// Step prints a step message with emphasis
func Step(format string, a ...any) {
	cyan.Fprintf(Output, "→ %s", fmt.Sprintf(format, a...))
}

// Error prints a titled error with suggestions to stderr and returns a
// plain error for Cobra, which is configured not to print it again
func Error(title string, explanation string, suggestions []string) error {
	red.Fprintf(os.Stderr, "%s\n\n", title)
	if explanation != "" {
		fmt.Fprintf(os.Stderr, "%s\n", explanation)
	}

	if len(suggestions) > 0 {
		fmt.Fprintf(os.Stderr, "\n")
		if len(suggestions) == 1 {
			fmt.Fprintf(os.Stderr, "%s\n", suggestions[0])
		} else {
			fmt.Fprintf(os.Stderr, "Either:\n")
			for i, suggestion := range suggestions {
				fmt.Fprintf(os.Stderr, "  %d. %s\n", i+1, suggestion)
			}
		}
	}

	return fmt.Errorf("%s", title)
}

// Diagnostic prints a degraded-result diagnostic as a warning
func Diagnostic(d *sheetdash.Diagnostic) {
	if d == nil {
		return
	}
	Warning("%s\n", d.Message)
}

// Records prints progress records as a task by period grid
func Records(records []sheetdash.ProgressRecord) {
	periods := sheetdash.Periods(records)
	tasks := sheetdash.TaskNames(records)

	values := make(map[string]map[string]sheetdash.ProgressRecord, len(tasks))
	for _, r := range records {
		if values[r.TaskName] == nil {
			values[r.TaskName] = make(map[string]sheetdash.ProgressRecord)
		}
		values[r.TaskName][r.Period] = r
	}

	w := tabwriter.NewWriter(Output, 0, 0, 2, ' ', 0)
	bold.Fprintf(w, "%s\t%s\n", sheetdash.DefaultTaskColumn, strings.Join(periods, "\t"))
	for _, task := range tasks {
		cells := make([]string, len(periods))
		for i, period := range periods {
			cells[i] = formatProgress(values[task][period])
		}
		fmt.Fprintf(w, "%s\t%s\n", task, strings.Join(cells, "\t"))
	}
	w.Flush()
}

// Summary prints per-period statistics
func Summary(summaries []sheetdash.PeriodSummary) {
	w := tabwriter.NewWriter(Output, 0, 0, 2, ' ', 0)
	bold.Fprintln(w, "Period\tTasks\tMissing\tMean\tMedian\tMin\tMax")
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t%d\t%d\t%.0f%%\t%.0f%%\t%.0f%%\t%.0f%%\n",
			s.Period, s.Count, s.Missing, s.Mean*100, s.Median*100, s.Min*100, s.Max*100)
	}
	w.Flush()
}

// Table prints a sheet verbatim
func Table(t *sheetdash.Table) {
	w := tabwriter.NewWriter(Output, 0, 0, 2, ' ', 0)
	bold.Fprintln(w, strings.Join(t.Columns(), "\t"))
	for _, row := range t.Rows() {
		cells := row.Cells()
		values := make([]string, len(cells))
		for i, c := range cells {
			values[i] = c.String()
		}
		fmt.Fprintln(w, strings.Join(values, "\t"))
	}
	w.Flush()
}

func formatProgress(r sheetdash.ProgressRecord) string {
	if !r.Valid {
		return "-"
	}
	return fmt.Sprintf("%.0f%%", r.Progress*100)
}
