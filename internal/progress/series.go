// Package progress maintains the date-ordered body-metric series.
package progress

import (
	"sort"

	"github.com/fittrack/backend/pkg/model"
)

// Upsert writes value for date into the series and returns a new slice; the
// input is never mutated. An existing entry for the same date is replaced in
// place, otherwise the point is appended and the series re-sorted ascending
// by calendar date. At most one point per date survives any call sequence.
func Upsert(series []model.ProgressPoint, date string, value float64) []model.ProgressPoint {
	out := append([]model.ProgressPoint(nil), series...)
	for i := range out {
		if out[i].Date == date {
			out[i].Value = value
			return out
		}
	}
	out = append(out, model.ProgressPoint{Date: date, Value: value})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// Latest returns the most recent value of the series, ok=false when empty.
// The series is kept date-sorted by Upsert, so the last element is the latest.
func Latest(series []model.ProgressPoint) (float64, bool) {
	if len(series) == 0 {
		return 0, false
	}
	return series[len(series)-1].Value, true
}

// First returns the earliest value of the series, ok=false when empty
func First(series []model.ProgressPoint) (float64, bool) {
	if len(series) == 0 {
		return 0, false
	}
	return series[0].Value, true
}
