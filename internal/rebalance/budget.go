package rebalance

import (
	"math"

	"Rebalancer/internal/model"
)

// AllowedSellProceeds sums the overweight amounts that may be sold.
// It is zero when selling is not permitted.
func AllowedSellProceeds(states []model.AssetState, allowSell bool) float64 {
	if !allowSell {
		return 0
	}
	proceeds := 0.0
	for _, s := range states {
		if s.Difference < 0 {
			proceeds += math.Abs(s.Difference)
		}
	}
	return proceeds
}

// BuyBudget is the currency available for purchases.
func BuyBudget(availableCash, allowedSellProceeds float64) float64 {
	return availableCash + allowedSellProceeds
}

// CanSell reports whether an asset is overweight and selling is permitted.
func CanSell(state model.AssetState, allowSell bool) bool {
	return state.Difference < 0 && allowSell
}
