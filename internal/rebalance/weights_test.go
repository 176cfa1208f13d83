package rebalance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"Rebalancer/internal/model"
)

func TestTargetWeights(t *testing.T) {
	tests := []struct {
		name     string
		assets   []model.Asset
		expected map[string]float64
	}{
		{
			name:     "proportional to priority",
			assets:   []model.Asset{{Ticker: "AAA", Priority: 1}, {Ticker: "BBB", Priority: 3}},
			expected: map[string]float64{"AAA": 0.25, "BBB": 0.75},
		},
		{
			name:     "zero priority gets zero weight",
			assets:   []model.Asset{{Ticker: "AAA", Priority: 0}, {Ticker: "BBB", Priority: 5}},
			expected: map[string]float64{"AAA": 0, "BBB": 1},
		},
		{
			name:     "all zero splits equally",
			assets:   []model.Asset{{Ticker: "AAA"}, {Ticker: "BBB"}, {Ticker: "CCC"}, {Ticker: "DDD"}},
			expected: map[string]float64{"AAA": 0.25, "BBB": 0.25, "CCC": 0.25, "DDD": 0.25},
		},
		{
			name:     "empty",
			assets:   nil,
			expected: map[string]float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			weights := TargetWeights(tt.assets)
			assert.Len(t, weights, len(tt.expected))
			for ticker, w := range tt.expected {
				assert.InDelta(t, w, weights[ticker], 1e-12, ticker)
			}
		})
	}
}

func TestTargetWeights_SumToOne(t *testing.T) {
	assets := []model.Asset{
		{Ticker: "A", Priority: 7},
		{Ticker: "B", Priority: 3},
		{Ticker: "C", Priority: 11},
		{Ticker: "D", Priority: 1},
		{Ticker: "E", Priority: 13},
		{Ticker: "F", Priority: 0},
	}
	sum := 0.0
	for _, w := range TargetWeights(assets) {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}
