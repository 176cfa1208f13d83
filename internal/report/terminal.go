package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"Rebalancer/internal/model"
)

var tableHeaders = []string{"Ticker", "Prio", "Price", "Current", "Weight", "Target", "Diff", "Action", "Qty", "Amount"}

const (
	colAction = 7
	colAmount = 9
)

// RenderTerminal writes the plan as a table followed by a summary and any warnings.
// Colors are only emitted when w is a terminal.
func RenderTerminal(w io.Writer, plan *model.TradePlan, quotes []model.Quote, generatedAt time.Time) error {
	r := lipgloss.NewRenderer(w)
	var (
		title  = r.NewStyle().Bold(true)
		dim    = r.NewStyle().Foreground(lipgloss.Color("244"))
		buy    = r.NewStyle().Foreground(lipgloss.Color("42"))
		sell   = r.NewStyle().Foreground(lipgloss.Color("203"))
		locked = r.NewStyle().Foreground(lipgloss.Color("214"))
		warn   = r.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
		cell   = r.NewStyle().Padding(0, 1)
		header = cell.Bold(true)
	)

	bySource := make(map[string]model.Quote, len(quotes))
	for _, q := range quotes {
		bySource[q.Ticker] = q
	}

	rows := make([][]string, 0, len(plan.Trades))
	for _, t := range plan.Trades {
		rows = append(rows, []string{
			t.Ticker,
			strconv.Itoa(t.Priority),
			priceCell(t, bySource[t.Ticker]),
			Currency(t.CurrentValue),
			Percent(t.TargetWeight),
			Currency(t.TargetValue),
			SignedCurrency(t.Difference),
			actionLabel(t),
			strconv.FormatInt(t.TradeQuantity, 10),
			SignedCurrency(t.TradeAmount),
		})
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dim).
		Headers(tableHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			s := cell
			if col >= 1 && col != colAction {
				s = s.Align(lipgloss.Right)
			}
			if row < 0 || row >= len(plan.Trades) || (col != colAction && col != colAmount) {
				return s
			}
			switch t := plan.Trades[row]; {
			case t.Action() == model.ActionBuy:
				return s.Inherit(buy)
			case t.Action() == model.ActionSell:
				return s.Inherit(sell)
			case t.Locked():
				return s.Inherit(locked)
			}
			return s
		})

	var b strings.Builder
	b.WriteString(title.Render(fmt.Sprintf("Rebalance plan | %s", generatedAt.Format("2006-01-02 15:04"))))
	b.WriteString("\n")
	b.WriteString(tbl.String())
	b.WriteString("\n\n")

	summary := [][2]string{
		{"Current value", Currency(plan.TotalCurrentValue)},
		{"Available cash", Currency(plan.AvailableCash)},
		{"Allowed sell proceeds", Currency(plan.AllowedSellProceeds)},
		{"Reference total", Currency(plan.ReferenceTotal)},
		{"Buy budget", Currency(plan.BuyBudget)},
		{"Total buys", Currency(plan.TotalBuys)},
		{"Total sells", Currency(plan.TotalSells)},
		{"Unspent budget", Currency(plan.UnspentBudget())},
		{"Solver", solverLabel(plan)},
	}
	for _, kv := range summary {
		b.WriteString(fmt.Sprintf("%-22s %s\n", kv[0]+":", kv[1]))
	}

	if warnings := plan.Warnings(); len(warnings) > 0 {
		b.WriteString("\n")
		for _, msg := range warnings {
			b.WriteString(warn.Render("! "+msg) + "\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func priceCell(t model.AssetTrade, q model.Quote) string {
	if t.Price <= 0 {
		return "n/a"
	}
	s := Currency(t.Price)
	if q.Cached {
		s += "*"
	}
	return s
}

func actionLabel(t model.AssetTrade) string {
	if t.Locked() {
		return "LOCKED"
	}
	return string(t.Action())
}

func solverLabel(plan *model.TradePlan) string {
	if plan.Converged {
		return fmt.Sprintf("converged in %d iteration(s)", plan.SolverIterations)
	}
	return fmt.Sprintf("stopped after %d iterations without converging", plan.SolverIterations)
}
