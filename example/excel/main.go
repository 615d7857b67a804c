package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	sheetdash "github.com/ideamans/go-sheetdash"
	"github.com/ideamans/go-sheetdash/adapters/excel"
	"github.com/ideamans/go-sheetdash/internal/testutil"
)

func main() {
	dir, err := os.MkdirTemp("", "sheetdash-example")
	if err != nil {
		log.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(dir)

	// Write a sample project workbook with four weekly snapshots
	path := filepath.Join(dir, "project.xlsx")
	if err := testutil.WriteWorkbook(path, testutil.ProjectSheets(4)); err != nil {
		log.Fatalf("Failed to write workbook: %v", err)
	}

	// Create Excel adapter (no authentication required)
	adapter, err := excel.New(nil)
	if err != nil {
		log.Fatalf("Failed to create Excel adapter: %v", err)
	}

	// Create client using recommended defaults for Excel
	clientConfig := excel.DefaultClientConfig()
	clientConfig.Logger = log.New(os.Stderr, "", log.LstdFlags)

	client, err := sheetdash.New(adapter, path, clientConfig)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	defer client.Close()

	ctx := context.Background()

	// 1. Reshape the progress sheet
	fmt.Println("Progress records:")
	result, err := client.GetProgressRecords(ctx)
	if err != nil {
		log.Fatalf("Failed to get progress: %v", err)
	}
	for _, r := range result.Records {
		fmt.Printf("  %s %s %.0f%%\n", r.TaskName, r.Period, r.Progress*100)
	}

	// 2. Per-period statistics
	fmt.Println("\nSummary:")
	for _, s := range sheetdash.Summarize(result.Records) {
		fmt.Printf("  %s: mean %.0f%%, median %.0f%%\n", s.Period, s.Mean*100, s.Median*100)
	}

	// 3. Weekly snapshots, including one that does not exist
	fmt.Println("\nWeekly snapshots:")
	for n := 1; n <= 5; n++ {
		table, err := client.GetWeekSnapshot(ctx, sheetdash.WeekSheetName(n))
		if err != nil {
			fmt.Printf("  week %d: %v\n", n, err)
			continue
		}
		fmt.Printf("  week %d: %d tasks, columns %v\n", n, table.Len(), table.Columns())
	}

	// 4. Watch for edits
	fmt.Println("\nWatching for changes...")
	watcher := sheetdash.NewWatcher(client, 200*time.Millisecond)
	watcher.Start(ctx)
	defer watcher.Stop()

	<-watcher.Changes() // initial snapshot

	sheets := testutil.ProjectSheets(4)
	sheets[0].Rows = append(sheets[0].Rows, []interface{}{"C", 0.4, 0.6})
	if err := testutil.WriteWorkbook(path, sheets); err != nil {
		log.Fatalf("Failed to update workbook: %v", err)
	}
	// Make sure the modification time moves even on coarse filesystems
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, future, future); err != nil {
		log.Fatalf("Failed to touch workbook: %v", err)
	}

	select {
	case snap := <-watcher.Changes():
		fmt.Printf("  workbook changed: %d tasks now\n", len(sheetdash.TaskNames(snap.Progress.Records)))
	case <-time.After(5 * time.Second):
		fmt.Println("  no change observed")
	}
}
