package model

import "time"

// Quote is a single price lookup result. A failed lookup carries Price 0 and Err.
type Quote struct {
	Ticker    string
	Price     float64
	Source    string
	FetchedAt time.Time
	Cached    bool
	Err       error
}

// OK reports whether the quote carries a usable price.
func (q Quote) OK() bool {
	return q.Err == nil && q.Price > 0
}
