package commands

import (
	"context"

	sheetdash "github.com/ideamans/go-sheetdash"
	"github.com/ideamans/go-sheetdash/internal/printer"
	"github.com/spf13/cobra"
)

var (
	weekList bool
	weekJSON bool
)

var weekCmd = &cobra.Command{
	Use:   "week [number|sheet name]",
	Short: "Print a weekly snapshot sheet",
	Long: `Print one "End of Week N" sheet exactly as it appears in the workbook.

Examples:
  # Week 3
  sheetdash week 3

  # List the available weeks
  sheetdash week --list`,
	Args: func(cmd *cobra.Command, args []string) error {
		if weekList {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: runWeek,
}

func init() {
	weekCmd.Flags().BoolVarP(&weekList, "list", "l", false, "List weekly snapshot sheets")
	weekCmd.Flags().BoolVar(&weekJSON, "json", false, "Print JSON")
	rootCmd.AddCommand(weekCmd)
}

func runWeek(cmd *cobra.Command, args []string) error {
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

	if weekList {
		weeks, err := client.ListWeeks(ctx)
		if err != nil {
			return sourceError(err)
		}
		if weekJSON {
			return writeJSON(weeks)
		}
		if len(weeks) == 0 {
			printer.Warning("no weekly snapshot sheets found\n")
			return nil
		}
		for _, week := range weeks {
			printer.Info("%s\n", week)
		}
		return nil
	}

	table, err := client.GetWeekSnapshot(ctx, sheetdash.ResolveWeek(args[0]))
	if err != nil {
		return sourceError(err)
	}
	if weekJSON {
		return writeJSON(table)
	}
	printer.Table(table)
	return nil
}
