package benchmark

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadintel/server/internal/models"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name                   string
		agent                  *models.AgentPerformanceRecord
		zip                    *models.ZipAggregatePerformance
		expectNil              bool
		expectedDOMDelta       float64
		expectedPriceCutDelta  float64
		expectedOverAskRatePct float64
	}{
		{
			name:                  "Agent slower than zip",
			agent:                 &models.AgentPerformanceRecord{AvgDOM: 24, PriceReductionPct: 40},
			zip:                   &models.ZipAggregatePerformance{AvgDOM: 18, PriceReductionPct: 25},
			expectedDOMDelta:      6,
			expectedPriceCutDelta: 15,
		},
		{
			name:                  "Agent faster than zip",
			agent:                 &models.AgentPerformanceRecord{AvgDOM: 12, PriceReductionPct: 10},
			zip:                   &models.ZipAggregatePerformance{AvgDOM: 18, PriceReductionPct: 25},
			expectedDOMDelta:      -6,
			expectedPriceCutDelta: -15,
		},
		{
			name:                   "Over-ask rate",
			agent:                  &models.AgentPerformanceRecord{ZipTransactions12mo: 8, OverAskCount: 3},
			zip:                    &models.ZipAggregatePerformance{TransactionCount12mo: 120},
			expectedOverAskRatePct: 37.5,
		},
		{
			name:                   "Over-ask rate without transactions",
			agent:                  &models.AgentPerformanceRecord{OverAskCount: 3},
			zip:                    &models.ZipAggregatePerformance{},
			expectedOverAskRatePct: 0,
		},
		{
			name:      "Missing agent",
			zip:       &models.ZipAggregatePerformance{AvgDOM: 18},
			expectNil: true,
		},
		{
			name:      "Missing zip",
			agent:     &models.AgentPerformanceRecord{AvgDOM: 18},
			expectNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Compute(tt.agent, tt.zip, nil)

			if tt.expectNil {
				assert.Nil(t, result)
				return
			}
			require.NotNil(t, result)
			assert.Equal(t, tt.expectedDOMDelta, result.DOMDelta)
			assert.Equal(t, tt.expectedPriceCutDelta, result.PriceReductionDelta)
			assert.Equal(t, tt.expectedOverAskRatePct, result.OverAskRatePct)
		})
	}
}

func TestSortActivity(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC) }
	activity := []models.SoldActivity{
		{Address: "a", SoldDate: day(3)},
		{Address: "b", SoldDate: day(9)},
		{Address: "c", SoldDate: day(3)},
		{Address: "d", SoldDate: time.Time{}},
		{Address: "e", SoldDate: day(9)},
	}

	sorted := SortActivity(activity)

	var got []string
	for _, a := range sorted {
		got = append(got, a.Address)
	}
	assert.Equal(t, []string{"b", "e", "a", "c", "d"}, got)
	assert.Equal(t, "a", activity[0].Address, "input is not reordered")

	// Sorting twice yields the same sequence.
	assert.Equal(t, sorted, SortActivity(activity))
}

func TestResult_Head(t *testing.T) {
	activity := make([]models.SoldActivity, 12)
	for i := range activity {
		activity[i] = models.SoldActivity{SoldDate: time.Date(2024, 1, 12-i, 0, 0, 0, 0, time.UTC)}
	}
	result := Compute(&models.AgentPerformanceRecord{}, &models.ZipAggregatePerformance{}, activity)
	require.NotNil(t, result)

	assert.Len(t, result.SortedActivity, 12)
	assert.Len(t, result.Head(10), 10)
	assert.Len(t, result.Head(50), 12)
	assert.Nil(t, result.Head(0))

	var missing *Result
	assert.Nil(t, missing.Head(10))
}
