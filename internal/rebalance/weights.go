package rebalance

import "Rebalancer/internal/model"

// TargetWeights converts asset priorities into weights summing to 1.
// When every priority is zero the weight is split equally.
// An empty asset list yields an empty map.
func TargetWeights(assets []model.Asset) map[string]float64 {
	weights := make(map[string]float64, len(assets))
	if len(assets) == 0 {
		return weights
	}

	total := 0
	for _, a := range assets {
		total += a.Priority
	}

	for _, a := range assets {
		if total == 0 {
			weights[a.Ticker] = 1 / float64(len(assets))
			continue
		}
		weights[a.Ticker] = float64(a.Priority) / float64(total)
	}
	return weights
}
