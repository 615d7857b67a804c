package commands

import (
	"context"
	"encoding/json"
	"os"

	sheetdash "github.com/ideamans/go-sheetdash"
	"github.com/ideamans/go-sheetdash/internal/printer"
	"github.com/spf13/cobra"
)

var (
	progressSummary bool
	progressTasks   []string
	progressAll     bool
	progressJSON    bool
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Print per-task progress over time",
	Long: `Print the "Progress Over Time" sheet as one row per task and one column
per period. By default the first 15 tasks are shown, matching the chart's
default selection.

Examples:
  # Default selection
  sheetdash progress --source project.xlsx

  # Selected tasks as JSON
  sheetdash progress --task "Design" --task "Build" --json

  # Per-period statistics
  sheetdash progress --summary`,
	RunE: runProgress,
}

func init() {
	progressCmd.Flags().BoolVar(&progressSummary, "summary", false, "Print per-period statistics instead of records")
	progressCmd.Flags().StringArrayVarP(&progressTasks, "task", "t", nil, "Task to include (repeatable)")
	progressCmd.Flags().BoolVar(&progressAll, "all", false, "Include every task instead of the default selection")
	progressCmd.Flags().BoolVar(&progressJSON, "json", false, "Print JSON")
	rootCmd.AddCommand(progressCmd)
}

func runProgress(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := openClient(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer client.Close()

	result, err := client.GetProgressRecords(ctx)
	if err != nil {
		return sourceError(err)
	}
	printer.Diagnostic(result.Diagnostic)

	query := sheetdash.RecordQuery{Tasks: progressTasks}
	if len(query.Tasks) == 0 && !progressAll {
		query.Tasks = sheetdash.DefaultTasks(result.Records, cfg.MaxDefaultTasks)
	}
	records := sheetdash.ApplyRecordQuery(result.Records, query)

	if progressSummary {
		summaries := sheetdash.Summarize(records)
		if progressJSON {
			return writeJSON(summaries)
		}
		printer.Summary(summaries)
		return nil
	}

	if progressJSON {
		return writeJSON(records)
	}
	printer.Records(records)
	return nil
}

func writeJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
