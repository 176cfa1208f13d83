package collector

import (
	"context"
	"fmt"
)

// StaticFetcher serves fixed prices, for offline runs and tests.
type StaticFetcher struct {
	Prices map[string]float64
}

// NewStaticFetcher creates a fetcher over a copy of prices.
func NewStaticFetcher(prices map[string]float64) *StaticFetcher {
	cp := make(map[string]float64, len(prices))
	for k, v := range prices {
		cp[k] = v
	}
	return &StaticFetcher{Prices: cp}
}

func (f *StaticFetcher) Name() string { return "static" }

func (f *StaticFetcher) FetchCurrentPrice(ctx context.Context, symbol string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	p, ok := f.Prices[symbol]
	if !ok {
		return 0, fmt.Errorf("%s: %w", symbol, ErrNoPrice)
	}
	return p, nil
}
