// Package benchmark compares a listing agent's trailing performance with
// the zip-wide norm.
package benchmark

import (
	"sort"

	"leadintel/server/internal/models"
	"leadintel/server/internal/stats"
)

// Result holds the agent-vs-zip deltas. Positive DOMDelta means the agent
// sells slower than the zip; positive PriceReductionDelta means the agent
// cuts price more often.
type Result struct {
	DOMDelta            float64                        `json:"dom_delta"`
	PriceReductionDelta float64                        `json:"price_reduction_delta"`
	OverAskRatePct      float64                        `json:"over_ask_rate_pct"`
	Agent               models.AgentPerformanceRecord  `json:"agent"`
	Zip                 models.ZipAggregatePerformance `json:"zip"`
	SortedActivity      []models.SoldActivity          `json:"sorted_activity"`
}

// Compute benchmarks agent against zip. It returns nil when either record is
// missing, since partial deltas would be misleading.
//
// The over-ask rate is measured against the agent's own transactions in the
// zip over the last 12 months.
func Compute(agent *models.AgentPerformanceRecord, zip *models.ZipAggregatePerformance, activity []models.SoldActivity) *Result {
	if agent == nil || zip == nil {
		return nil
	}

	r := &Result{
		DOMDelta:            agent.AvgDOM - zip.AvgDOM,
		PriceReductionDelta: agent.PriceReductionPct - zip.PriceReductionPct,
		Agent:               *agent,
		Zip:                 *zip,
		SortedActivity:      SortActivity(activity),
	}
	r.Agent.Activity = nil
	if agent.ZipTransactions12mo > 0 {
		r.OverAskRatePct = stats.Round(float64(agent.OverAskCount)/float64(agent.ZipTransactions12mo)*100, 1)
	}
	return r
}

// SortActivity returns a copy of activity ordered by sold date, most recent
// first. Records sharing a date keep their input order.
func SortActivity(activity []models.SoldActivity) []models.SoldActivity {
	sorted := make([]models.SoldActivity, len(activity))
	copy(sorted, activity)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SoldDate.After(sorted[j].SoldDate)
	})
	return sorted
}

// Head returns at most the first n sorted activity records.
func (r *Result) Head(n int) []models.SoldActivity {
	if r == nil || n <= 0 {
		return nil
	}
	if n > len(r.SortedActivity) {
		n = len(r.SortedActivity)
	}
	return r.SortedActivity[:n]
}
