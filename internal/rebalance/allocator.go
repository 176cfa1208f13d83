package rebalance

import (
	"container/heap"
	"math"

	"Rebalancer/internal/model"
)

// MaxBuyRounds caps the whole-share buy auction. Each round buys exactly one share.
const MaxBuyRounds = 10000

// BuyCandidate is an underweight asset competing for the buy budget.
type BuyCandidate struct {
	Ticker     string
	Priority   int
	Price      float64
	Difference float64
}

// SellTrade returns the sell amount and share count for an asset.
// Overweight assets are sold down to target when selling is allowed; everything
// else returns zero. The share count is floored and is zero when no price is known.
func SellTrade(state model.AssetState, allowSell bool) (amount float64, quantity int64) {
	if !CanSell(state, allowSell) {
		return 0, 0
	}
	amount = -math.Abs(state.Difference)
	if state.Price > 0 {
		quantity = -int64(math.Floor(math.Abs(amount) / state.Price))
	}
	return amount, quantity
}

// AllocateBuys spends budget across candidates one whole share at a time and
// returns the number of shares bought per candidate, in candidate order.
//
// Each round, a candidate qualifies when one more share fits both its remaining
// gap and the budget left after everything bought so far. The qualifying
// candidate with the highest score = (priority / Σ qualifying priority) / price wins one share; equal scores
// go to the earlier candidate. When the qualifying priorities sum to zero each
// candidate gets an equal share, so the cheapest wins.
//
// The normalization is common to every candidate in a round, so the ranking
// reduces to priority/price and never changes. Budgets and gaps only shrink,
// so a candidate that stops qualifying never qualifies again. That lets a heap
// replace the per-round rescan while selecting in the same order.
func AllocateBuys(candidates []BuyCandidate, budget float64) []int64 {
	shares := make([]int64, len(candidates))
	if budget <= 0 || len(candidates) == 0 {
		return shares
	}

	weighted := &scoreQueue{}
	unweighted := &scoreQueue{}
	for i, c := range candidates {
		if c.Price <= 0 || c.Difference <= 0 {
			continue
		}
		if c.Priority > 0 {
			weighted.items = append(weighted.items, scoreItem{index: i, score: float64(c.Priority) / c.Price})
		} else {
			unweighted.items = append(unweighted.items, scoreItem{index: i, score: 1 / c.Price})
		}
	}
	heap.Init(weighted)
	heap.Init(unweighted)

	qualifies := func(i int) bool {
		c := candidates[i]
		gap := c.Difference - float64(shares[i])*c.Price
		return gap >= c.Price && spentWith(candidates, shares, i) <= budget
	}

	for round := 0; round < MaxBuyRounds; round++ {
		// A positive-priority candidate always outscores a zero-priority one.
		i, ok := weighted.best(qualifies)
		if !ok {
			i, ok = unweighted.best(qualifies)
		}
		if !ok {
			break
		}
		shares[i]++
	}
	return shares
}

// spentWith totals the cost of shares plus one more share of candidate extra.
// It sums in candidate order, the same way the plan totals its buys, so a
// share that fits here never pushes the reported total over the budget.
func spentWith(candidates []BuyCandidate, shares []int64, extra int) float64 {
	var total float64
	for i, c := range candidates {
		n := shares[i]
		if i == extra {
			n++
		}
		if n > 0 {
			total += float64(n) * c.Price
		}
	}
	return total
}

type scoreItem struct {
	index int
	score float64
}

// scoreQueue orders candidates by descending score, then ascending candidate index.
type scoreQueue struct {
	items []scoreItem
}

func (q *scoreQueue) Len() int { return len(q.items) }

func (q *scoreQueue) Less(i, j int) bool {
	if q.items[i].score != q.items[j].score {
		return q.items[i].score > q.items[j].score
	}
	return q.items[i].index < q.items[j].index
}

func (q *scoreQueue) Swap(i, j int) { q.items[i], q.items[j] = q.items[j], q.items[i] }

func (q *scoreQueue) Push(x any) { q.items = append(q.items, x.(scoreItem)) }

func (q *scoreQueue) Pop() any {
	old := q.items
	n := len(old)
	item := old[n-1]
	q.items = old[:n-1]
	return item
}

// best drops candidates that no longer qualify and returns the top one without removing it.
func (q *scoreQueue) best(qualifies func(int) bool) (int, bool) {
	for q.Len() > 0 {
		top := q.items[0].index
		if qualifies(top) {
			return top, true
		}
		heap.Pop(q)
	}
	return 0, false
}
