// Package stats holds the numeric helpers shared by the CMA, benchmark and
// call-script engines.
package stats

import (
	"math"
	"sort"
)

// Median returns the median of values. For an even count it returns the mean
// of the two middle values rounded to the nearest integer. An empty input
// yields 0, which callers treat as "no data".
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 != 0 {
		return sorted[mid]
	}
	return math.Round((sorted[mid-1] + sorted[mid]) / 2)
}

// PercentDelta returns (actual - baseline) / baseline * 100, or 0 when the
// baseline is 0.
func PercentDelta(actual, baseline float64) float64 {
	if baseline == 0 {
		return 0
	}
	return (actual - baseline) / baseline * 100
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
