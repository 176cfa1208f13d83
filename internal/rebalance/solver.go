package rebalance

import (
	"math"

	"Rebalancer/internal/model"
)

const (
	// MaxSolverIterations caps the reference total fixed-point iteration.
	MaxSolverIterations = 10
	// ConvergenceTolerance is the currency delta below which the reference total is stable.
	ConvergenceTolerance = 0.01
)

// Solution is the converged (or last computed) reference total and the states measured against it.
type Solution struct {
	ReferenceTotal float64
	States         []model.AssetState
	Iterations     int
	Converged      bool
}

// TotalCurrentValue sums quantity × price over all assets. Missing prices count as 0.
func TotalCurrentValue(assets []model.Asset, prices map[string]float64) float64 {
	total := 0.0
	for _, a := range assets {
		total += currentValue(a, prices)
	}
	return total
}

// AssetStates measures every asset against the given reference total.
// The result keeps the input order.
func AssetStates(assets []model.Asset, prices, weights map[string]float64, referenceTotal float64) []model.AssetState {
	states := make([]model.AssetState, len(assets))
	for i, a := range assets {
		current := currentValue(a, prices)
		weight := weights[a.Ticker]
		target := weight * referenceTotal
		states[i] = model.AssetState{
			Ticker:       a.Ticker,
			Price:        priceOf(prices, a.Ticker),
			CurrentValue: current,
			TargetValue:  target,
			TargetWeight: weight,
			Difference:   target - current,
			Priority:     a.Priority,
		}
	}
	return states
}

// SolveReferenceTotal finds T such that T = current + cash + allowed sell proceeds measured against T.
// Sell proceeds depend on which assets are overweight, which depends on T, so the value is
// found by fixed-point iteration. If it does not settle within MaxSolverIterations the last
// value is used and Converged is false.
func SolveReferenceTotal(assets []model.Asset, prices, weights map[string]float64, availableCash float64, allowSell bool) Solution {
	base := TotalCurrentValue(assets, prices) + availableCash
	total := base

	sol := Solution{}
	for sol.Iterations < MaxSolverIterations {
		sol.Iterations++
		states := AssetStates(assets, prices, weights, total)
		next := base + AllowedSellProceeds(states, allowSell)
		delta := math.Abs(next - total)
		total = next
		if delta < ConvergenceTolerance {
			sol.Converged = true
			break
		}
	}

	sol.ReferenceTotal = total
	sol.States = AssetStates(assets, prices, weights, total)
	return sol
}

func currentValue(a model.Asset, prices map[string]float64) float64 {
	return float64(a.Quantity) * priceOf(prices, a.Ticker)
}

// priceOf treats missing, negative or non-finite prices as unavailable.
func priceOf(prices map[string]float64, ticker string) float64 {
	p, ok := prices[ticker]
	if !ok || p <= 0 || math.IsNaN(p) || math.IsInf(p, 0) {
		return 0
	}
	return p
}
