package logbook

import (
	"math"
	"slices"
	"strings"
)

// Summary condenses a user's history with one exercise.
type Summary struct {
	MaxWeight float64 `json:"maxWeight"`
	MaxVolume float64 `json:"maxVolume"`
	// Estimated1RM is the Brzycki one-rep-max estimate from the most recent
	// set, rounded to the nearest whole unit.
	Estimated1RM float64 `json:"estimated1RM"`
}

// SeriesPoint is one day in an exercise's progress chart.
type SeriesPoint struct {
	Date         string  `json:"date"`
	BestMetric   float64 `json:"bestMetric"`
	Estimated1RM float64 `json:"estimated1RM"`
}

// ComputeStats summarizes stat records of a single exercise. The records may
// arrive in any order; they are sorted by date internally. The second return
// is false when there is no history.
func ComputeStats(records []Stat) (Summary, bool) {
	if len(records) == 0 {
		return Summary{}, false
	}

	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b Stat) int {
		return strings.Compare(a.Date, b.Date)
	})

	var summary Summary
	for _, record := range sorted {
		summary.MaxWeight = max(summary.MaxWeight, record.Weight)
		summary.MaxVolume = max(summary.MaxVolume, record.Volume)
	}
	last := sorted[len(sorted)-1]
	summary.Estimated1RM = estimate1RM(last)
	return summary, true
}

// ProgressSeries reduces stat records to one point per day, keeping the best
// set of each day by metric. Points are ordered by date.
func ProgressSeries(records []Stat) []SeriesPoint {
	bestByDate := make(map[string]Stat)
	for _, record := range records {
		best, ok := bestByDate[record.Date]
		if !ok || record.Metric > best.Metric {
			bestByDate[record.Date] = record
		}
	}

	points := make([]SeriesPoint, 0, len(bestByDate))
	for date, best := range bestByDate {
		points = append(points, SeriesPoint{
			Date:         date,
			BestMetric:   best.Metric,
			Estimated1RM: estimate1RM(best),
		})
	}
	slices.SortFunc(points, func(a, b SeriesPoint) int {
		return strings.Compare(a.Date, b.Date)
	})
	return points
}

// estimate1RM is the Brzycki formula: weight * 36 / (37 - reps). Reps are
// capped at 36 to keep the denominator positive; timed sets estimate zero.
func estimate1RM(record Stat) float64 {
	if record.Reps <= 0 || record.Weight <= 0 {
		return 0
	}
	reps := min(record.Reps, 36)
	return math.Round(record.Weight * 36 / float64(37-reps))
}
