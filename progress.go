package sheetdash

import (
	"encoding/json"
	"fmt"
	"math"
)

// ProgressRecord is one (task, period, progress) observation in long format
type ProgressRecord struct {
	TaskName string
	Period   string
	Progress float64 // expected within 0.0 to 1.0
	Valid    bool    // false marks a missing or non-numeric source cell
}

// MarshalJSON encodes a missing or non-finite progress value as null
func (r ProgressRecord) MarshalJSON() ([]byte, error) {
	var progress *float64
	if r.Valid && !math.IsNaN(r.Progress) && !math.IsInf(r.Progress, 0) {
		p := r.Progress
		progress = &p
	}
	return json.Marshal(struct {
		TaskName string   `json:"task"`
		Period   string   `json:"period"`
		Progress *float64 `json:"progress"`
	}{r.TaskName, r.Period, progress})
}

// Diagnostic is a recoverable problem reported alongside a degraded result
type Diagnostic struct {
	Err     error  `json:"-"`
	Message string `json:"message"`
}

func (d *Diagnostic) String() string {
	return d.Message
}

// ReshapeResult carries the long-format records, or no records and a
// diagnostic when the input could not be reshaped
type ReshapeResult struct {
	Records     []ProgressRecord `json:"records"`
	Diagnostic  *Diagnostic      `json:"diagnostic,omitempty"`
	DroppedRows int              `json:"dropped_rows"`
}

// OK reports whether the result carries no diagnostic
func (r ReshapeResult) OK() bool {
	return r.Diagnostic == nil
}

// degraded returns an empty result carrying a diagnostic
func degraded(err error, format string, args ...interface{}) ReshapeResult {
	return ReshapeResult{
		Records: []ProgressRecord{},
		Diagnostic: &Diagnostic{
			Err:     err,
			Message: fmt.Sprintf(format, args...),
		},
	}
}

// Reshape pivots a wide progress table into long format using the
// "Task Name" column as the identifier
func Reshape(t *Table) ReshapeResult {
	return ReshapeBy(t, DefaultTaskColumn)
}

// ReshapeBy pivots a wide table into one record per (row, period column).
// Records are emitted row-major in sheet column order. A missing identifier
// column degrades to an empty result with an ErrSchemaViolation diagnostic;
// rows without an identifier are dropped and counted.
func ReshapeBy(t *Table, taskColumn string) ReshapeResult {
	if t == nil {
		return degraded(ErrSchemaViolation, "No progress sheet to reshape.")
	}

	taskIdx, ok := t.index[taskColumn]
	if !ok {
		return degraded(ErrSchemaViolation,
			"The '%s' sheet must contain a '%s' column.", t.name, taskColumn)
	}

	periods := len(t.columns) - 1
	result := ReshapeResult{
		Records: make([]ProgressRecord, 0, len(t.rows)*periods),
	}

	for _, row := range t.rows {
		task := row[taskIdx]
		if task.IsMissing() {
			result.DroppedRows++
			continue
		}
		name := task.String()

		for j, col := range t.columns {
			if j == taskIdx {
				continue
			}
			progress, valid := row[j].Float64()
			result.Records = append(result.Records, ProgressRecord{
				TaskName: name,
				Period:   col,
				Progress: progress,
				Valid:    valid,
			})
		}
	}

	return result
}
