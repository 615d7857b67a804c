package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sheetdash "github.com/ideamans/go-sheetdash"
	"github.com/ideamans/go-sheetdash/internal/httpapi"
	"github.com/ideamans/go-sheetdash/internal/printer"
	"github.com/spf13/cobra"
)

var (
	serveAddr    string
	serveRefresh time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve dashboard data over HTTP",
	Long: `Serve the progress records and weekly snapshots as JSON, refreshing the
workbook in the background.

Endpoints:
  GET /api/workbook           sheet names and current version
  GET /api/progress           records; filter with task, period, min, max, limit, offset
  GET /api/progress/summary   per-period statistics
  GET /api/weeks              weekly snapshot sheets
  GET /api/weeks/{week}       one weekly sheet, by number or name
  GET /healthz                liveness and last refresh`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config)")
	serveCmd.Flags().DurationVar(&serveRefresh, "refresh", 0, "Background refresh interval (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Addr = serveAddr
	}
	if serveRefresh > 0 {
		cfg.RefreshInterval = serveRefresh
	}

	logger := stderrLogger()
	client, err := openClient(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer client.Close()

	watcher := sheetdash.NewWatcher(client, cfg.RefreshInterval)
	watcher.Start(ctx)
	defer watcher.Stop()

	go func() {
		for snap := range watcher.Changes() {
			printer.Success("%s: %d sheets, %d progress records at %s\n",
				client.Locator(), snap.Workbook.Len(), len(snap.Progress.Records), snap.Version)
			printer.Diagnostic(snap.Progress.Diagnostic)
		}
	}()

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.New(client, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		printer.Step("listening on %s\n", cfg.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return printer.Error("server failed", err.Error(), nil)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	printer.Info("shutting down\n")
	return server.Shutdown(shutdownCtx)
}
