package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// QuoteAPIFetcher implements Fetcher against a REST quote endpoint
// answering GET {base}/api/v1/quote?symbol=X with {"price": n}.
type QuoteAPIFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewQuoteAPIFetcher creates a new fetcher with optional proxy support.
func NewQuoteAPIFetcher(baseURL, apiKey, proxyURL string, timeout time.Duration) *QuoteAPIFetcher {
	return &QuoteAPIFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL, timeout),
	}
}

func (f *QuoteAPIFetcher) Name() string { return "quote_api" }

func (f *QuoteAPIFetcher) FetchCurrentPrice(ctx context.Context, symbol string) (float64, error) {
	endpoint := fmt.Sprintf("%s/api/v1/quote?symbol=%s", f.BaseURL, url.QueryEscape(symbol))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch quote: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("fetch quote: status %d, body: %s", resp.StatusCode, string(body))
	}
	var result struct {
		Price *float64 `json:"price"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("decode quote: %w", err)
	}
	if result.Price == nil {
		return 0, fmt.Errorf("%s: %w", symbol, ErrNoPrice)
	}
	return *result.Price, nil
}

func newHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
