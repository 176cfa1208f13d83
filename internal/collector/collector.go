package collector

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"Rebalancer/internal/model"
	"Rebalancer/internal/pricecache"
)

// Collector resolves prices for a set of tickers, consulting the cache first
// and fetching misses concurrently.
type Collector struct {
	Fetcher     Fetcher
	Cache       pricecache.Cache
	TTL         time.Duration
	Concurrency int

	log zerolog.Logger
	now func() time.Time
}

// NewCollector creates a new Collector. A nil cache disables caching.
func NewCollector(fetcher Fetcher, cache pricecache.Cache, ttl time.Duration, concurrency int, log zerolog.Logger) *Collector {
	if cache == nil {
		cache = pricecache.NewNoopCache()
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &Collector{
		Fetcher:     fetcher,
		Cache:       cache,
		TTL:         ttl,
		Concurrency: concurrency,
		log:         log.With().Str("component", "collector").Str("source", fetcher.Name()).Logger(),
		now:         time.Now,
	}
}

// Collect returns one quote per ticker in input order, plus the price map the
// rebalancer consumes. Failed lookups never abort collection: they appear as
// quotes with Err set and are absent from the map, which the rebalancer treats as price 0.
// Only a cancelled context returns an error.
func (c *Collector) Collect(ctx context.Context, tickers []string) ([]model.Quote, map[string]float64, error) {
	quotes := make([]model.Quote, len(tickers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.Concurrency)
	for i, ticker := range tickers {
		g.Go(func() error {
			quotes[i] = c.quote(gctx, ticker)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("collect prices: %w", err)
	}

	prices := make(map[string]float64, len(tickers))
	for _, q := range quotes {
		if q.OK() {
			prices[q.Ticker] = q.Price
		}
	}
	return quotes, prices, nil
}

func (c *Collector) quote(ctx context.Context, ticker string) model.Quote {
	if c.TTL > 0 {
		cached, ok, err := c.Cache.Get(ticker, c.TTL)
		if err != nil {
			c.log.Warn().Err(err).Str("ticker", ticker).Msg("quote cache lookup failed")
		} else if ok {
			c.log.Debug().Str("ticker", ticker).Float64("price", cached.Price).Msg("using cached quote")
			return cached
		}
	}

	q := model.Quote{Ticker: ticker, Source: c.Fetcher.Name(), FetchedAt: c.now()}
	price, err := c.Fetcher.FetchCurrentPrice(ctx, ticker)
	switch {
	case err != nil:
		q.Err = err
	case price <= 0 || math.IsNaN(price) || math.IsInf(price, 0):
		q.Err = fmt.Errorf("%s: invalid price %v: %w", ticker, price, ErrNoPrice)
	default:
		q.Price = price
	}

	if q.Err != nil {
		c.log.Warn().Err(q.Err).Str("ticker", ticker).Msg("price fetch failed, treating as unavailable")
		return q
	}

	c.log.Debug().Str("ticker", ticker).Float64("price", price).Msg("fetched quote")
	if err := c.Cache.Put(q); err != nil {
		c.log.Warn().Err(err).Str("ticker", ticker).Msg("quote cache store failed")
	}
	return q
}
