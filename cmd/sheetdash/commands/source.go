package commands

import (
	"context"
	"errors"
	"log"
	"os"

	sheetdash "github.com/ideamans/go-sheetdash"
	"github.com/ideamans/go-sheetdash/adapters/excel"
	"github.com/ideamans/go-sheetdash/adapters/googlesheets"
	"github.com/ideamans/go-sheetdash/internal/config"
	"github.com/ideamans/go-sheetdash/internal/printer"
)

// loadConfig reads the configuration and applies command-line overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, printer.Error("failed to load configuration", err.Error(), nil)
	}

	if sourceFlag != "" {
		cfg.Source = sourceFlag
	}
	if ttlFlag > 0 {
		cfg.TTL = ttlFlag
	}
	if progressFlag != "" {
		cfg.ProgressSheet = progressFlag
	}

	if err := cfg.Validate(); err != nil {
		if errors.Is(err, sheetdash.ErrMissingLocator) {
			return nil, printer.Error(
				"no data source configured",
				"sheetdash needs a workbook to read.",
				[]string{
					"Pass --source path/to/project.xlsx",
					"Set SHEETDASH_SOURCE in the environment or .env",
					"Add 'source:' to sheetdash.yml",
				},
			)
		}
		return nil, printer.Error("invalid configuration", err.Error(), nil)
	}
	return cfg, nil
}

// newAdapter picks the backend from the locator scheme
func newAdapter(ctx context.Context, cfg *config.Config) (sheetdash.Adapter, error) {
	if !sheetdash.IsGoogleSheetsLocator(cfg.Source) {
		return excel.New(&excel.Config{
			Password: cfg.Excel.Password,
			MaxRows:  cfg.Excel.MaxRows,
		})
	}

	gsConfig := googlesheets.Config{ReadRange: cfg.GoogleSheets.ReadRange}
	if cfg.GoogleSheets.Credentials != "" {
		return googlesheets.NewWithJSONKeyFile(ctx, gsConfig, cfg.GoogleSheets.Credentials)
	}
	return googlesheets.NewWithDefaultCredentials(ctx, gsConfig)
}

// openClient builds a client for the configured source
func openClient(ctx context.Context, cfg *config.Config, logger *log.Logger) (*sheetdash.Client, error) {
	adapter, err := newAdapter(ctx, cfg)
	if errors.Is(err, googlesheets.ErrNoCredentials) {
		return nil, printer.Error("no Google credentials", err.Error(), []string{
			"Set google_sheets.credentials in sheetdash.yml to a service account key file",
			"Set GOOGLE_APPLICATION_CREDENTIALS",
			"Run 'gcloud auth application-default login'",
		})
	}
	if err != nil {
		return nil, printer.Error("failed to open data source", err.Error(), nil)
	}

	client, err := sheetdash.New(adapter, cfg.Source, cfg.ClientConfig(logger))
	if err != nil {
		return nil, printer.Error("failed to open data source", err.Error(), nil)
	}
	return client, nil
}

// sourceError prints a source failure with hints matching its kind
func sourceError(err error) error {
	switch {
	case errors.Is(err, sheetdash.ErrSheetNotFound):
		return printer.Error("sheet not found", err.Error(),
			[]string{"Run 'sheetdash week --list' to see the available weekly sheets"})
	case errors.Is(err, sheetdash.ErrSourceUnavailable):
		return printer.Error("data source unavailable", err.Error(),
			[]string{"Check that the file exists and is readable, or that the spreadsheet is shared with your credentials"})
	case errors.Is(err, sheetdash.ErrMalformedWorkbook):
		return printer.Error("workbook could not be parsed", err.Error(),
			[]string{"Open the file in a spreadsheet application and save it as .xlsx"})
	default:
		return printer.Error("request failed", err.Error(), nil)
	}
}

func stderrLogger() *log.Logger {
	return log.New(os.Stderr, "", log.LstdFlags)
}
