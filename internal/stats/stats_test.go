package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMedian(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{name: "Empty input", values: []float64{}, expected: 0},
		{name: "Nil input", values: nil, expected: 0},
		{name: "Single value", values: []float64{5}, expected: 5},
		{name: "Even count averages middle pair", values: []float64{4, 8}, expected: 6},
		{name: "Odd count takes middle", values: []float64{1, 2, 9}, expected: 2},
		{name: "Unsorted input", values: []float64{9, 1, 2}, expected: 2},
		{name: "Even mean is rounded", values: []float64{10, 11}, expected: 11},
		{name: "Even mean rounds down", values: []float64{100000, 100001, 3, 999999}, expected: 100001},
		{name: "Sale prices", values: []float64{1040000, 985000, 1100000, 1010000}, expected: 1025000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Median(tt.values))
		})
	}
}

func TestMedian_DoesNotMutateInput(t *testing.T) {
	values := []float64{3, 1, 2}
	Median(values)
	assert.Equal(t, []float64{3, 1, 2}, values)
}

func TestPercentDelta(t *testing.T) {
	tests := []struct {
		name     string
		actual   float64
		baseline float64
		expected float64
	}{
		{name: "Zero baseline", actual: 500000, baseline: 0, expected: 0},
		{name: "Zero baseline negative actual", actual: -3, baseline: 0, expected: 0},
		{name: "Above baseline", actual: 110, baseline: 100, expected: 10},
		{name: "Below baseline", actual: 90, baseline: 100, expected: -10},
		{name: "Equal", actual: 100, baseline: 100, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, PercentDelta(tt.actual, tt.baseline), 1e-9)
		})
	}
}

func TestRound(t *testing.T) {
	assert.Equal(t, 12.3, Round(12.345, 1))
	assert.Equal(t, 12.35, Round(12.345, 2))
	assert.Equal(t, float64(12), Round(12.4, 0))
}
