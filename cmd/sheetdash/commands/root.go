package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	configPath   string
	sourceFlag   string
	ttlFlag      time.Duration
	progressFlag string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sheetdash",
	Short: "sheetdash - project progress from a spreadsheet",
	Long: `sheetdash reads a project workbook (a local .xlsx file or a Google Sheets
spreadsheet), reshapes its "Progress Over Time" sheet into per-task progress
records and exposes the weekly "End of Week N" snapshots.

The workbook is re-read only when it changes on disk or its cached copy
expires, so serving many requests stays cheap.

Sources:
  path/to/project.xlsx   local workbook
  gsheets:<id>           Google Sheets spreadsheet`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: sheetdash.yml if present)")
	rootCmd.PersistentFlags().StringVarP(&sourceFlag, "source", "s", "", "Workbook path or gsheets:<id> (overrides config)")
	rootCmd.PersistentFlags().DurationVar(&ttlFlag, "ttl", 0, "Maximum age of the cached workbook (overrides config)")
	rootCmd.PersistentFlags().StringVar(&progressFlag, "progress-sheet", "", "Name of the wide progress sheet (overrides config)")
}
