package rebalance

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Rebalancer/internal/model"
)

func TestPlan_SingleAssetTakesAllCash(t *testing.T) {
	plan := Plan(Input{
		Assets:        []model.Asset{{Ticker: "AAA", Priority: 1, Quantity: 0}},
		Prices:        map[string]float64{"AAA": 10},
		AvailableCash: 100,
	})

	require.Len(t, plan.Trades, 1)
	assert.Equal(t, 100.0, plan.Trades[0].TradeAmount)
	assert.Equal(t, int64(10), plan.Trades[0].TradeQuantity)
	assert.Equal(t, model.ActionBuy, plan.Trades[0].Action())
	assert.Equal(t, 100.0, plan.BuyBudget)
	assert.Equal(t, 100.0, plan.TotalBuys)
	assert.Zero(t, plan.TotalSells)
	assert.True(t, plan.Converged)
}

func TestPlan_OverweightLockedWithoutSell(t *testing.T) {
	plan := Plan(Input{
		Assets: []model.Asset{
			{Ticker: "AAA", Priority: 1, Quantity: 10},
			{Ticker: "BBB", Priority: 1, Quantity: 0},
		},
		Prices:        map[string]float64{"AAA": 10, "BBB": 10},
		AvailableCash: 50,
		AllowSell:     false,
	})

	require.Len(t, plan.Trades, 2)
	aaa, bbb := plan.Trades[0], plan.Trades[1]

	assert.Less(t, aaa.Difference, 0.0)
	assert.Zero(t, aaa.TradeAmount)
	assert.True(t, aaa.Locked())

	assert.Equal(t, 50.0, plan.BuyBudget)
	assert.Equal(t, 50.0, bbb.TradeAmount)
	assert.Equal(t, int64(5), bbb.TradeQuantity)
	assert.Zero(t, plan.AllowedSellProceeds)
}

func TestPlan_OverweightSoldWhenAllowed(t *testing.T) {
	plan := Plan(Input{
		Assets: []model.Asset{
			{Ticker: "AAA", Priority: 1, Quantity: 10},
			{Ticker: "BBB", Priority: 1, Quantity: 0},
		},
		Prices:        map[string]float64{"AAA": 10, "BBB": 10},
		AvailableCash: 50,
		AllowSell:     true,
	})

	require.Len(t, plan.Trades, 2)
	aaa, bbb := plan.Trades[0], plan.Trades[1]

	excess := aaa.CurrentValue - aaa.TargetValue
	require.Greater(t, excess, 0.0)
	assert.InDelta(t, -excess, aaa.TradeAmount, 1e-9)
	assert.Equal(t, int64(-1), aaa.TradeQuantity)

	assert.InDelta(t, 50+excess, plan.BuyBudget, 1e-9)
	assert.Equal(t, int64(6), bbb.TradeQuantity)
	assert.Equal(t, 60.0, bbb.TradeAmount)
	assert.Greater(t, bbb.TradeAmount, 50.0, "sell proceeds should fund extra shares")
	assert.InDelta(t, excess, plan.TotalSells, 1e-9)
}

func TestPlan_ZeroPriceNeverTraded(t *testing.T) {
	for _, allowSell := range []bool{false, true} {
		plan := Plan(Input{
			Assets: []model.Asset{
				{Ticker: "AAA", Priority: 3, Quantity: 7},
				{Ticker: "BBB", Priority: 1, Quantity: 50},
			},
			Prices:        map[string]float64{"AAA": 0, "BBB": 10},
			AvailableCash: 1000,
			AllowSell:     allowSell,
		})

		require.Len(t, plan.Trades, 2)
		aaa := plan.Trades[0]
		assert.Zero(t, aaa.TradeAmount)
		assert.Zero(t, aaa.TradeQuantity)
		assert.Zero(t, aaa.CurrentValue)
		assert.NotEmpty(t, plan.Warnings())
	}
}

func TestPlan_MissingPriceTreatedAsZero(t *testing.T) {
	plan := Plan(Input{
		Assets:        []model.Asset{{Ticker: "AAA", Priority: 1, Quantity: 5}, {Ticker: "BBB", Priority: 1}},
		Prices:        map[string]float64{"BBB": 20},
		AvailableCash: 100,
	})

	assert.Zero(t, plan.Trades[0].TradeAmount)
	assert.Zero(t, plan.TotalCurrentValue)
	assert.Equal(t, int64(2), plan.Trades[1].TradeQuantity)
}

func TestPlan_EmptyAssets(t *testing.T) {
	plan := Plan(Input{AvailableCash: 100})
	assert.Empty(t, plan.Trades)
	assert.Zero(t, plan.TotalBuys)
	assert.True(t, plan.Converged)
}

func TestPlan_DoesNotMutateInputs(t *testing.T) {
	assets := []model.Asset{{Ticker: "AAA", Priority: 1, Quantity: 3}, {Ticker: "BBB", Priority: 2, Quantity: 1}}
	prices := map[string]float64{"AAA": 12.5, "BBB": 40}

	Plan(Input{Assets: assets, Prices: prices, AvailableCash: 300, AllowSell: true})

	assert.Equal(t, []model.Asset{{Ticker: "AAA", Priority: 1, Quantity: 3}, {Ticker: "BBB", Priority: 2, Quantity: 1}}, assets)
	assert.Equal(t, map[string]float64{"AAA": 12.5, "BBB": 40}, prices)
}

func TestPlan_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	tickers := []string{"AAA", "BBB", "CCC", "DDD", "EEE", "FFF"}

	for trial := 0; trial < 200; trial++ {
		n := 1 + rng.Intn(len(tickers))
		in := Input{
			Prices:        map[string]float64{},
			AvailableCash: float64(rng.Intn(5000)),
			AllowSell:     rng.Intn(2) == 0,
		}
		for i := 0; i < n; i++ {
			in.Assets = append(in.Assets, model.Asset{
				Ticker:   tickers[i],
				Priority: rng.Intn(5),
				Quantity: int64(rng.Intn(100)),
			})
			if rng.Intn(10) > 0 {
				in.Prices[tickers[i]] = 1 + math.Round(rng.Float64()*20000)/100
			}
		}

		plan := Plan(in)
		require.Len(t, plan.Trades, n)

		weightSum, buys, sells := 0.0, 0.0, 0.0
		for i, tr := range plan.Trades {
			assert.Equal(t, in.Assets[i].Ticker, tr.Ticker, "trades keep asset order")
			weightSum += tr.TargetWeight

			if tr.TradeAmount > 0 {
				assert.GreaterOrEqual(t, tr.TradeQuantity, int64(0))
				buys += tr.TradeAmount
			}
			if tr.TradeAmount < 0 {
				assert.LessOrEqual(t, tr.TradeQuantity, int64(0))
				sells += math.Abs(tr.TradeAmount)
			}
			if !in.AllowSell {
				assert.GreaterOrEqual(t, tr.TradeAmount, 0.0)
			}
			if tr.Price == 0 {
				assert.Zero(t, tr.TradeAmount)
			}
		}

		assert.InDelta(t, 1.0, weightSum, 1e-9)
		assert.Equal(t, buys, plan.TotalBuys)
		assert.Equal(t, sells, plan.TotalSells)
		assert.LessOrEqual(t, plan.TotalBuys, plan.BuyBudget)

		again := Plan(in)
		assert.Equal(t, plan, again, "plan must be deterministic")
	}
}

func TestPlan_CentCashNeverOverspends(t *testing.T) {
	rng := rand.New(rand.NewSource(376))
	tickers := []string{"AAA", "BBB", "CCC", "DDD"}

	for trial := 0; trial < 3000; trial++ {
		in := Input{
			Prices:        map[string]float64{},
			AvailableCash: float64(rng.Intn(100000)) / 100,
		}
		for _, ticker := range tickers {
			in.Assets = append(in.Assets, model.Asset{
				Ticker:   ticker,
				Priority: rng.Intn(5),
				Quantity: int64(rng.Intn(20)),
			})
			in.Prices[ticker] = float64(1+rng.Intn(20000)) / 100
		}

		plan := Plan(in)
		require.LessOrEqual(t, plan.TotalBuys, plan.BuyBudget, "trial %d: %+v", trial, in)
		assert.Empty(t, plan.Warnings(), "trial %d", trial)
	}
}
