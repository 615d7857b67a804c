package sheetdash

import (
	"fmt"
)

// RecordQuery selects progress records; every non-empty criterion must match
type RecordQuery struct {
	Tasks       []string // match any of these task names
	Periods     []string // match any of these periods
	MinProgress *float64 // inclusive; missing progress never matches
	MaxProgress *float64 // inclusive; missing progress never matches
	Limit       int
	Offset      int
}

// Matches checks if a record satisfies every criterion of the query
func (q RecordQuery) Matches(r ProgressRecord) bool {
	if len(q.Tasks) > 0 && !contains(q.Tasks, r.TaskName) {
		return false
	}
	if len(q.Periods) > 0 && !contains(q.Periods, r.Period) {
		return false
	}
	if q.MinProgress != nil && (!r.Valid || r.Progress < *q.MinProgress) {
		return false
	}
	if q.MaxProgress != nil && (!r.Valid || r.Progress > *q.MaxProgress) {
		return false
	}
	return true
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// ApplyRecordQuery filters records preserving their order, then applies offset and limit
func ApplyRecordQuery(records []ProgressRecord, query RecordQuery) []ProgressRecord {
	results := make([]ProgressRecord, 0, len(records))

	for _, record := range records {
		if query.Matches(record) {
			results = append(results, record)
		}
	}

	if query.Offset >= len(results) {
		return []ProgressRecord{}
	}
	if query.Offset > 0 {
		results = results[query.Offset:]
	}

	if query.Limit > 0 && query.Limit < len(results) {
		results = results[:query.Limit]
	}

	return results
}

// ValidateRecordQuery validates query structure
func ValidateRecordQuery(query RecordQuery) error {
	if query.Limit < 0 {
		return fmt.Errorf("limit must be non-negative")
	}
	if query.Offset < 0 {
		return fmt.Errorf("offset must be non-negative")
	}
	if query.MinProgress != nil && query.MaxProgress != nil && *query.MinProgress > *query.MaxProgress {
		return fmt.Errorf("min progress %g exceeds max progress %g", *query.MinProgress, *query.MaxProgress)
	}
	return nil
}

// TaskNames returns the distinct task names in first-seen order
func TaskNames(records []ProgressRecord) []string {
	seen := make(map[string]bool)
	names := make([]string, 0)
	for _, r := range records {
		if !seen[r.TaskName] {
			seen[r.TaskName] = true
			names = append(names, r.TaskName)
		}
	}
	return names
}

// DefaultTasks returns the first max task names, the default chart selection
func DefaultTasks(records []ProgressRecord, max int) []string {
	names := TaskNames(records)
	if max > 0 && len(names) > max {
		names = names[:max]
	}
	return names
}

// Periods returns the distinct periods in first-seen order
func Periods(records []ProgressRecord) []string {
	seen := make(map[string]bool)
	periods := make([]string, 0)
	for _, r := range records {
		if !seen[r.Period] {
			seen[r.Period] = true
			periods = append(periods, r.Period)
		}
	}
	return periods
}
