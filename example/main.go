package main

import (
	"context"
	"fmt"
	"log"
	"os"

	sheetdash "github.com/ideamans/go-sheetdash"
	"github.com/ideamans/go-sheetdash/adapters/googlesheets"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx := context.Background()

	// Initialize Google Sheets adapter with JSON key file
	adapter, err := googlesheets.NewWithJSONKeyFile(ctx, googlesheets.Config{}, "./service-account.json")
	if err != nil {
		return fmt.Errorf("failed to create adapter: %w", err)
	}

	// Create client using recommended defaults for Google Sheets
	clientConfig := googlesheets.DefaultClientConfig()
	clientConfig.Logger = log.New(os.Stderr, "", log.LstdFlags)

	client, err := sheetdash.New(adapter, "gsheets:your-spreadsheet-id", clientConfig)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	// Progress records, one per task and week
	result, err := client.GetProgressRecords(ctx)
	if err != nil {
		return fmt.Errorf("failed to get progress: %w", err)
	}
	if !result.OK() {
		fmt.Println(result.Diagnostic.Message)
	}
	for _, task := range sheetdash.DefaultTasks(result.Records, clientConfig.MaxDefaultTasks) {
		fmt.Printf("%s:", task)
		for _, r := range sheetdash.ApplyRecordQuery(result.Records, sheetdash.RecordQuery{Tasks: []string{task}}) {
			if r.Valid {
				fmt.Printf(" %s=%.0f%%", r.Period, r.Progress*100)
			} else {
				fmt.Printf(" %s=-", r.Period)
			}
		}
		fmt.Println()
	}

	// Weekly snapshots are loaded one sheet at a time
	weeks, err := client.ListWeeks(ctx)
	if err != nil {
		return fmt.Errorf("failed to list weeks: %w", err)
	}
	for _, week := range weeks {
		table, err := client.GetWeekSnapshot(ctx, week)
		if err != nil {
			fmt.Printf("%s: %v\n", week, err)
			continue
		}
		fmt.Printf("%s: %d tasks\n", week, table.Len())
	}

	return nil
}
