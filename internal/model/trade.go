package model

import "fmt"

// TradeAction is the direction of a single asset trade.
type TradeAction string

const (
	ActionBuy  TradeAction = "BUY"
	ActionSell TradeAction = "SELL"
	ActionHold TradeAction = "HOLD"
)

// AssetTrade is the rebalancing outcome for one asset.
type AssetTrade struct {
	Ticker        string  `json:"ticker"`
	TradeAmount   float64 `json:"trade_amount"`   // positive = buy, negative = sell
	TradeQuantity int64   `json:"trade_quantity"` // same sign as TradeAmount
	Price         float64 `json:"price"`
	CurrentValue  float64 `json:"current_value"`
	TargetValue   float64 `json:"target_value"`
	TargetWeight  float64 `json:"target_weight"`
	Difference    float64 `json:"difference"`
	Priority      int     `json:"priority"`
}

// Action classifies the trade by the sign of its amount.
func (t AssetTrade) Action() TradeAction {
	switch {
	case t.TradeAmount > 0:
		return ActionBuy
	case t.TradeAmount < 0:
		return ActionSell
	default:
		return ActionHold
	}
}

// Locked reports whether the asset is overweight but was not sold.
func (t AssetTrade) Locked() bool {
	return t.Difference < 0 && t.TradeAmount == 0
}

// TradePlan is the full result of one rebalancing run.
type TradePlan struct {
	Trades              []AssetTrade `json:"trades"`
	TotalCurrentValue   float64      `json:"total_current_value"`
	ReferenceTotal      float64      `json:"reference_total"`
	AvailableCash       float64      `json:"available_cash"`
	AllowedSellProceeds float64      `json:"allowed_sell_proceeds"`
	BuyBudget           float64      `json:"buy_budget"`
	TotalBuys           float64      `json:"total_buys"`
	TotalSells          float64      `json:"total_sells"`
	SolverIterations    int          `json:"solver_iterations"`
	Converged           bool         `json:"converged"`
}

// UnspentBudget is the part of the buy budget left after whole-share purchases.
func (p *TradePlan) UnspentBudget() float64 {
	return p.BuyBudget - p.TotalBuys
}

// budgetTolerance is half a cent. Smaller overruns are float noise, not overspending.
const budgetTolerance = 0.005

// Warnings lists conditions the presentation layer should surface to the user.
func (p *TradePlan) Warnings() []string {
	var warnings []string
	if !p.Converged {
		warnings = append(warnings, fmt.Sprintf("reference total did not converge after %d iterations", p.SolverIterations))
	}
	if p.TotalBuys-p.BuyBudget > budgetTolerance {
		warnings = append(warnings, fmt.Sprintf("total buys %.2f exceed buy budget %.2f", p.TotalBuys, p.BuyBudget))
	}
	for _, t := range p.Trades {
		if t.Price <= 0 {
			warnings = append(warnings, fmt.Sprintf("%s: no price available, asset excluded from trading", t.Ticker))
		}
	}
	return warnings
}
