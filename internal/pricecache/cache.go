// Package pricecache keeps the latest quote per ticker so repeated runs
// within the TTL do not refetch. It never stores trade plans.
package pricecache

import (
	"time"

	"Rebalancer/internal/model"
)

// Cache stores the most recent successful quote for each ticker.
type Cache interface {
	// Get returns the cached quote if it is younger than maxAge.
	Get(ticker string, maxAge time.Duration) (model.Quote, bool, error)
	Put(q model.Quote) error
	Close() error
}
