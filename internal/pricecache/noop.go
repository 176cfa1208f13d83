package pricecache

import (
	"time"

	"Rebalancer/internal/model"
)

// NoopCache is used when no SQLite path is configured.
type NoopCache struct{}

func NewNoopCache() *NoopCache { return &NoopCache{} }

func (n *NoopCache) Get(_ string, _ time.Duration) (model.Quote, bool, error) {
	return model.Quote{}, false, nil
}
func (n *NoopCache) Put(_ model.Quote) error { return nil }
func (n *NoopCache) Close() error            { return nil }
