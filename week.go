package sheetdash

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// WeekSheetPrefix is the naming convention of weekly snapshot sheets
const WeekSheetPrefix = "End of Week "

// WeekSheetName returns the sheet name for week n
func WeekSheetName(n int) string {
	return fmt.Sprintf("%s%d", WeekSheetPrefix, n)
}

// WeekNumber extracts n from a sheet named "End of Week n"
func WeekNumber(sheet string) (int, bool) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(sheet), WeekSheetPrefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(rest))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// ResolveWeek accepts either a week number or a sheet name
func ResolveWeek(week string) string {
	week = strings.TrimSpace(week)
	if n, err := strconv.Atoi(week); err == nil {
		return WeekSheetName(n)
	}
	return week
}

// WeekSheets filters sheet names down to weekly snapshots in week order
func WeekSheets(names []string) []string {
	weeks := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := WeekNumber(name); ok {
			weeks = append(weeks, name)
		}
	}

	sort.SliceStable(weeks, func(i, j int) bool {
		a, _ := WeekNumber(weeks[i])
		b, _ := WeekNumber(weeks[j])
		return a < b
	})
	return weeks
}
