package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"Rebalancer/internal/model"
	"Rebalancer/internal/rebalance"
)

// PriceSource resolves prices for tickers. *collector.Collector implements it.
type PriceSource interface {
	Collect(ctx context.Context, tickers []string) ([]model.Quote, map[string]float64, error)
}

// Portfolio is the configured starting point of a run.
type Portfolio struct {
	Assets    []model.Asset
	Cash      float64
	AllowSell bool
}

// Options override portfolio settings for a single run.
type Options struct {
	Cash      *float64
	AllowSell *bool
}

// Result bundles a plan with the quotes it was computed from.
type Result struct {
	Plan        *model.TradePlan
	Quotes      []model.Quote
	GeneratedAt time.Time
}

// Service fetches prices and computes trade plans.
type Service struct {
	portfolio Portfolio
	prices    PriceSource
	log       zerolog.Logger
}

// NewService creates a Service. The asset list is copied.
func NewService(portfolio Portfolio, prices PriceSource, log zerolog.Logger) *Service {
	portfolio.Assets = append([]model.Asset(nil), portfolio.Assets...)
	return &Service{
		portfolio: portfolio,
		prices:    prices,
		log:       log.With().Str("component", "planner").Logger(),
	}
}

// Tickers returns the portfolio tickers in order.
func (s *Service) Tickers() []string {
	tickers := make([]string, len(s.portfolio.Assets))
	for i, a := range s.portfolio.Assets {
		tickers[i] = a.Ticker
	}
	return tickers
}

// Quotes fetches current quotes without planning.
func (s *Service) Quotes(ctx context.Context) ([]model.Quote, error) {
	quotes, _, err := s.prices.Collect(ctx, s.Tickers())
	return quotes, err
}

// Plan fetches prices and computes a trade plan.
func (s *Service) Plan(ctx context.Context, opts Options) (*Result, error) {
	if len(s.portfolio.Assets) == 0 {
		return nil, fmt.Errorf("portfolio has no assets")
	}

	cash := s.portfolio.Cash
	if opts.Cash != nil {
		cash = *opts.Cash
	}
	if cash < 0 {
		return nil, fmt.Errorf("available cash must not be negative, got %.2f", cash)
	}
	allowSell := s.portfolio.AllowSell
	if opts.AllowSell != nil {
		allowSell = *opts.AllowSell
	}

	start := time.Now()
	quotes, prices, err := s.prices.Collect(ctx, s.Tickers())
	if err != nil {
		return nil, fmt.Errorf("collect prices: %w", err)
	}

	plan := rebalance.Plan(rebalance.Input{
		Assets:        s.portfolio.Assets,
		Prices:        prices,
		AvailableCash: cash,
		AllowSell:     allowSell,
	})

	for _, w := range plan.Warnings() {
		s.log.Warn().Msg(w)
	}
	s.log.Info().
		Int("assets", len(plan.Trades)).
		Float64("reference_total", plan.ReferenceTotal).
		Float64("buy_budget", plan.BuyBudget).
		Float64("total_buys", plan.TotalBuys).
		Float64("total_sells", plan.TotalSells).
		Int("solver_iterations", plan.SolverIterations).
		Dur("elapsed", time.Since(start)).
		Msg("trade plan computed")

	return &Result{Plan: plan, Quotes: quotes, GeneratedAt: time.Now()}, nil
}
