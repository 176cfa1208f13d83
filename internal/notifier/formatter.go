package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"Rebalancer/internal/model"
	"Rebalancer/internal/report"
)

// FormatPlan formats a trade plan into a Telegram HTML message.
func FormatPlan(plan *model.TradePlan, generatedAt time.Time) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>Rebalance plan</b> | %s\n\n", generatedAt.Format("2006-01-02 15:04")))

	var trades, holds []string
	for _, t := range plan.Trades {
		ticker := html.EscapeString(t.Ticker)
		switch t.Action() {
		case model.ActionBuy:
			trades = append(trades, fmt.Sprintf("🟢 BUY %s ×%d ≈ %s", ticker, t.TradeQuantity, report.Currency(t.TradeAmount)))
		case model.ActionSell:
			trades = append(trades, fmt.Sprintf("🔴 SELL %s ×%d ≈ %s", ticker, -t.TradeQuantity, report.Currency(-t.TradeAmount)))
		default:
			label := "hold"
			if t.Locked() {
				label = "locked"
			} else if t.Price <= 0 {
				label = "no price"
			}
			holds = append(holds, fmt.Sprintf("%s (%s)", ticker, label))
		}
	}

	if len(trades) == 0 {
		b.WriteString("No trades needed.\n")
	} else {
		b.WriteString("💰 <b>Trades:</b>\n")
		for _, line := range trades {
			b.WriteString("  " + line + "\n")
		}
	}
	if len(holds) > 0 {
		b.WriteString(fmt.Sprintf("⏸ %s\n", strings.Join(holds, ", ")))
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Buy budget: %s (cash %s + sells %s)\n",
		report.Currency(plan.BuyBudget), report.Currency(plan.AvailableCash), report.Currency(plan.AllowedSellProceeds)))
	b.WriteString(fmt.Sprintf("Total buys: %s | Total sells: %s\n", report.Currency(plan.TotalBuys), report.Currency(plan.TotalSells)))
	b.WriteString(fmt.Sprintf("Reference total: %s\n", report.Currency(plan.ReferenceTotal)))

	for _, w := range plan.Warnings() {
		b.WriteString(fmt.Sprintf("\n⚠️ %s", html.EscapeString(w)))
	}

	return b.String()
}

// FormatQuotes formats the latest quotes for display.
func FormatQuotes(quotes []model.Quote) string {
	var b strings.Builder
	b.WriteString("💹 <b>Prices</b>\n\n")
	for _, q := range quotes {
		ticker := html.EscapeString(q.Ticker)
		if !q.OK() {
			b.WriteString(fmt.Sprintf("%s: unavailable\n", ticker))
			continue
		}
		suffix := ""
		if q.Cached {
			suffix = " (cached)"
		}
		b.WriteString(fmt.Sprintf("%s: %s%s\n", ticker, report.Currency(q.Price), suffix))
	}
	return b.String()
}

// FormatHelp lists the supported commands.
func FormatHelp() string {
	return "Commands:\n• /plan - compute the current rebalance plan\n• /prices - show latest prices\n• /help - this message"
}
