package sheetdash

import (
	"github.com/montanaflynn/stats"
)

// PeriodSummary aggregates the valid progress values of one period
type PeriodSummary struct {
	Period  string  `json:"period"`
	Count   int     `json:"count"`
	Missing int     `json:"missing"`
	Mean    float64 `json:"mean"`
	Median  float64 `json:"median"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// Summarize computes per-period statistics in period order.
// Periods with no valid values report zero statistics.
func Summarize(records []ProgressRecord) []PeriodSummary {
	values := make(map[string][]float64)
	missing := make(map[string]int)
	for _, r := range records {
		if r.Valid {
			values[r.Period] = append(values[r.Period], r.Progress)
		} else {
			missing[r.Period]++
		}
	}

	periods := Periods(records)
	summaries := make([]PeriodSummary, 0, len(periods))
	for _, period := range periods {
		data := stats.Float64Data(values[period])
		s := PeriodSummary{
			Period:  period,
			Count:   data.Len(),
			Missing: missing[period],
		}
		if data.Len() > 0 {
			s.Mean, _ = data.Mean()
			s.Median, _ = data.Median()
			s.Min, _ = data.Min()
			s.Max, _ = data.Max()
		}
		summaries = append(summaries, s)
	}
	return summaries
}
