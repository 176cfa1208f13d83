package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Rebalancer/internal/model"
	"Rebalancer/internal/planner"
)

type stubPlanner struct {
	err   error
	calls int
}

func (p *stubPlanner) Plan(_ context.Context, _ planner.Options) (*planner.Result, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return &planner.Result{
		Plan: &model.TradePlan{
			Trades:    []model.AssetTrade{{Ticker: "VTI", TradeAmount: 500, TradeQuantity: 2, Price: 250, Difference: 600}},
			BuyBudget: 600,
			TotalBuys: 500,
			Converged: true,
		},
		GeneratedAt: time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC),
	}, nil
}

func (p *stubPlanner) Quotes(_ context.Context) ([]model.Quote, error) {
	if p.err != nil {
		return nil, p.err
	}
	return []model.Quote{{Ticker: "VTI", Price: 250}}, nil
}

type recordingSender struct {
	messages []string
}

func (r *recordingSender) SendWithRetry(_ context.Context, text string, _ int) error {
	r.messages = append(r.messages, text)
	return nil
}

func TestRunNow_SendsPlan(t *testing.T) {
	p, n := &stubPlanner{}, &recordingSender{}
	s := NewScheduler(context.Background(), p, n, zerolog.Nop())

	s.RunNow()
	require.Len(t, n.messages, 1)
	assert.Contains(t, n.messages[0], "BUY VTI ×2")
}

func TestRunNow_ReportsFailure(t *testing.T) {
	p, n := &stubPlanner{err: errors.New("boom")}, &recordingSender{}
	s := NewScheduler(context.Background(), p, n, zerolog.Nop())

	s.RunNow()
	require.Len(t, n.messages, 1)
	assert.Contains(t, n.messages[0], "boom")
}

func TestRunNow_NoNotifier(t *testing.T) {
	p := &stubPlanner{}
	s := NewScheduler(context.Background(), p, nil, zerolog.Nop())
	s.RunNow()
	assert.Equal(t, 1, p.calls)
}

func TestRegister(t *testing.T) {
	s := NewScheduler(context.Background(), &stubPlanner{}, nil, zerolog.Nop())
	assert.NoError(t, s.Register("0 30 9 * * 1-5"))
	assert.Len(t, s.Cron.Entries(), 1)
	assert.Error(t, s.Register("not a cron spec"))
}

// signalPlanner reports each Plan call on a channel.
type signalPlanner struct {
	stubPlanner
	ran chan struct{}
}

func (p *signalPlanner) Plan(ctx context.Context, opts planner.Options) (*planner.Result, error) {
	select {
	case p.ran <- struct{}{}:
	default:
	}
	return &planner.Result{Plan: &model.TradePlan{Converged: true}}, nil
}

func TestScheduler_StartStop(t *testing.T) {
	p := &signalPlanner{ran: make(chan struct{}, 1)}
	s := NewScheduler(context.Background(), p, nil, zerolog.Nop())
	require.NoError(t, s.Register("* * * * * *"))

	s.Start()
	defer s.Stop()

	select {
	case <-p.ran:
	case <-time.After(3 * time.Second):
		t.Fatal("scheduled plan task did not run")
	}
}

func TestHandleCommand(t *testing.T) {
	s := NewScheduler(context.Background(), &stubPlanner{}, nil, zerolog.Nop())
	ctx := context.Background()

	assert.Contains(t, s.HandleCommand(ctx, "/plan"), "Rebalance plan")
	assert.Contains(t, s.HandleCommand(ctx, "/plan@rebalance_bot"), "Rebalance plan")
	assert.Contains(t, s.HandleCommand(ctx, "/prices"), "VTI: 250.00")
	assert.Contains(t, s.HandleCommand(ctx, "/unknown"), "Commands:")
	assert.Contains(t, s.HandleCommand(ctx, ""), "Commands:")

	failing := NewScheduler(ctx, &stubPlanner{err: errors.New("offline")}, nil, zerolog.Nop())
	assert.Contains(t, failing.HandleCommand(ctx, "/plan"), "offline")
	assert.Contains(t, failing.HandleCommand(ctx, "/prices"), "offline")
}
