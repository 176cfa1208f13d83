package collector

import (
	"context"
	"errors"
)

// ErrNoPrice is returned when a source answers but has no usable price.
var ErrNoPrice = errors.New("no price available")

// Fetcher looks up the latest price for a single ticker.
type Fetcher interface {
	FetchCurrentPrice(ctx context.Context, symbol string) (float64, error)
	Name() string
}
