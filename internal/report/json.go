package report

import (
	"encoding/json"
	"io"
	"time"

	"Rebalancer/internal/model"
)

type jsonQuote struct {
	Ticker    string    `json:"ticker"`
	Price     float64   `json:"price"`
	Source    string    `json:"source,omitempty"`
	FetchedAt time.Time `json:"fetched_at,omitempty"`
	Cached    bool      `json:"cached"`
	Error     string    `json:"error,omitempty"`
}

type jsonReport struct {
	GeneratedAt time.Time        `json:"generated_at"`
	Plan        *model.TradePlan `json:"plan"`
	Quotes      []jsonQuote      `json:"quotes"`
	Warnings    []string         `json:"warnings"`
}

// JSON writes the plan, its quotes and warnings as indented JSON.
func JSON(w io.Writer, plan *model.TradePlan, quotes []model.Quote, generatedAt time.Time) error {
	out := jsonReport{
		GeneratedAt: generatedAt,
		Plan:        plan,
		Quotes:      make([]jsonQuote, len(quotes)),
		Warnings:    plan.Warnings(),
	}
	if out.Warnings == nil {
		out.Warnings = []string{}
	}
	for i, q := range quotes {
		out.Quotes[i] = jsonQuote{
			Ticker:    q.Ticker,
			Price:     q.Price,
			Source:    q.Source,
			FetchedAt: q.FetchedAt,
			Cached:    q.Cached,
		}
		if q.Err != nil {
			out.Quotes[i].Error = q.Err.Error()
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
