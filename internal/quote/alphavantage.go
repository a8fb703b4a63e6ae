// Package quote fetches latest prices from an Alpha Vantage compatible
// GLOBAL_QUOTE endpoint.
package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://www.alphavantage.co/query"
	DefaultTimeout = 10 * time.Second
)

var (
	ErrNoAPIKey      = errors.New("quote api key is not configured")
	ErrNoPrice       = errors.New("quote response has no price")
	ErrUpstreamLimit = errors.New("quote provider refused the request")
)

// Client implements engine.QuoteProvider over HTTP.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// globalQuote is the subset of the GLOBAL_QUOTE payload we read. The
// provider reports throttling and bad symbols with a 200 status and a
// Note / Information / Error Message field instead of a quote.
type globalQuote struct {
	Quote struct {
		Symbol string `json:"01. symbol"`
		Price  string `json:"05. price"`
	} `json:"Global Quote"`
	Note         string `json:"Note"`
	Information  string `json:"Information"`
	ErrorMessage string `json:"Error Message"`
}

// FetchQuote returns the raw price string for symbol.
func (c *Client) FetchQuote(ctx context.Context, symbol string) (string, error) {
	if !c.Configured() {
		return "", ErrNoAPIKey
	}

	q := url.Values{}
	q.Set("function", "GLOBAL_QUOTE")
	q.Set("symbol", symbol)
	q.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch quote %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read quote %s: %w", symbol, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch quote %s: status %d: %s", symbol, resp.StatusCode, truncate(body, 200))
	}

	var payload globalQuote
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("decode quote %s: %w", symbol, err)
	}
	if msg := firstNonEmpty(payload.Note, payload.Information, payload.ErrorMessage); msg != "" {
		return "", fmt.Errorf("%s: %w: %s", symbol, ErrUpstreamLimit, msg)
	}
	if payload.Quote.Price == "" {
		return "", fmt.Errorf("%s: %w", symbol, ErrNoPrice)
	}
	return payload.Quote.Price, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
