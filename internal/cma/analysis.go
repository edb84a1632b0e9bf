package cma

import (
	"fmt"
	"math"
	"sort"

	"leadintel/server/internal/format"
	"leadintel/server/internal/models"
	"leadintel/server/internal/stats"
)

// Position describes where the subject's ask sits relative to the comp median.
type Position string

const (
	AboveMedian Position = "above-median"
	BelowMedian Position = "below-median"
	AtMedian    Position = "at-median"
	NoData      Position = "no-data"
)

// Analysis is the priced view of a Selection.
type Analysis struct {
	Selection
	Ask            float64      `json:"ask"`
	Median         float64      `json:"median"`
	Min            float64      `json:"min"`
	Max            float64      `json:"max"`
	VarianceAmount float64      `json:"variance_amount"`
	VariancePct    float64      `json:"variance_pct"`
	Position       Position     `json:"position"`
	Narrative      string       `json:"narrative"`
	NearestBySize  *models.Comp `json:"nearest_by_size,omitempty"`
	NearestDelta   float64      `json:"nearest_delta"`
}

// Analyze computes the median and variance of subject's ask against sel.
// A median of 0 means there were no usable sales; variance is then left at 0.
func Analyze(subject models.SubjectProperty, sel Selection) Analysis {
	a := Analysis{Selection: sel, Ask: subject.Ask()}

	prices := make([]float64, 0, len(sel.Comps))
	for _, c := range sel.Comps {
		if c.SoldPrice > 0 {
			prices = append(prices, c.SoldPrice)
		}
	}
	a.Median = stats.Median(prices)
	a.Min, a.Max = bounds(prices)

	if nearest := NearestBySize(subject.Sqft, sel.Comps); nearest != nil {
		a.NearestBySize = nearest
		a.NearestDelta = nearest.SoldPrice - a.Ask
	}

	if a.Median == 0 || a.Ask == 0 {
		a.Position = NoData
		a.Narrative = "Not enough comparable sales to benchmark the asking price."
		return a
	}

	a.VarianceAmount = a.Ask - a.Median
	a.VariancePct = stats.Round(stats.PercentDelta(a.Ask, a.Median), 1)

	switch {
	case a.VarianceAmount > 0:
		a.Position = AboveMedian
		a.Narrative = fmt.Sprintf(
			"Listed %.1f%% above the local median of %s. Buyers had cheaper options nearby, which points to pricing friction.",
			a.VariancePct, format.Money(a.Median))
	case a.VarianceAmount < 0:
		a.Position = BelowMedian
		a.Narrative = fmt.Sprintf(
			"Listed %.1f%% below the local median of %s and still did not sell, which points to positioning or condition rather than price.",
			math.Abs(a.VariancePct), format.Money(a.Median))
	default:
		a.Position = AtMedian
		a.Narrative = fmt.Sprintf("Listed right at the local median of %s.", format.Money(a.Median))
	}
	return a
}

// NearestBySize returns the comp whose square footage is closest to sqft.
// The first comp wins ties. Comps without square footage are ignored, and
// nil is returned when sqft is unknown.
func NearestBySize(sqft int, comps []models.Comp) *models.Comp {
	if sqft <= 0 {
		return nil
	}

	best := -1
	bestDiff := 0
	for i, c := range comps {
		if c.Sqft <= 0 {
			continue
		}
		diff := c.Sqft - sqft
		if diff < 0 {
			diff = -diff
		}
		if best < 0 || diff < bestDiff {
			best, bestDiff = i, diff
		}
	}
	if best < 0 {
		return nil
	}
	nearest := comps[best]
	return &nearest
}

// SortBySoldDate returns a copy of comps ordered most recent first. Equal
// dates keep their input order.
func SortBySoldDate(comps []models.Comp) []models.Comp {
	sorted := make([]models.Comp, len(comps))
	copy(sorted, comps)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SoldDate.After(sorted[j].SoldDate)
	})
	return sorted
}

func bounds(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}
