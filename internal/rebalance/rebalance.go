// Package rebalance computes trade plans that move a portfolio toward its
// priority-derived target allocation. Everything here is pure: no I/O, no
// shared state, and inputs are never modified.
package rebalance

import (
	"math"

	"Rebalancer/internal/model"
)

// Input is everything one rebalancing run needs.
type Input struct {
	Assets        []model.Asset
	Prices        map[string]float64 // missing or 0 means no price
	AvailableCash float64
	AllowSell     bool
}

// Plan runs the full rebalance: weights, reference total, budget, sells, then the buy auction.
// Trades are returned in asset order.
func Plan(in Input) *model.TradePlan {
	plan := &model.TradePlan{
		Trades:        make([]model.AssetTrade, 0, len(in.Assets)),
		AvailableCash: in.AvailableCash,
		Converged:     true,
	}
	if len(in.Assets) == 0 {
		return plan
	}

	weights := TargetWeights(in.Assets)
	plan.TotalCurrentValue = TotalCurrentValue(in.Assets, in.Prices)

	sol := SolveReferenceTotal(in.Assets, in.Prices, weights, in.AvailableCash, in.AllowSell)
	plan.ReferenceTotal = sol.ReferenceTotal
	plan.SolverIterations = sol.Iterations
	plan.Converged = sol.Converged

	plan.AllowedSellProceeds = AllowedSellProceeds(sol.States, in.AllowSell)
	plan.BuyBudget = BuyBudget(in.AvailableCash, plan.AllowedSellProceeds)

	var candidates []BuyCandidate
	var candidateIdx []int
	for i, s := range sol.States {
		trade := model.AssetTrade{
			Ticker:       s.Ticker,
			Price:        s.Price,
			CurrentValue: s.CurrentValue,
			TargetValue:  s.TargetValue,
			TargetWeight: s.TargetWeight,
			Difference:   s.Difference,
			Priority:     s.Priority,
		}
		switch {
		case s.Difference < 0:
			trade.TradeAmount, trade.TradeQuantity = SellTrade(s, in.AllowSell)
		case s.Difference > 0:
			candidates = append(candidates, BuyCandidate{
				Ticker:     s.Ticker,
				Priority:   s.Priority,
				Price:      s.Price,
				Difference: s.Difference,
			})
			candidateIdx = append(candidateIdx, i)
		}
		plan.Trades = append(plan.Trades, trade)
	}

	shares := AllocateBuys(candidates, plan.BuyBudget)
	for k, n := range shares {
		t := &plan.Trades[candidateIdx[k]]
		t.TradeQuantity = n
		t.TradeAmount = float64(n) * t.Price
	}

	for _, t := range plan.Trades {
		switch {
		case t.TradeAmount > 0:
			plan.TotalBuys += t.TradeAmount
		case t.TradeAmount < 0:
			plan.TotalSells += math.Abs(t.TradeAmount)
		}
	}
	return plan
}
