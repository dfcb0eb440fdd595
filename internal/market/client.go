// Package market fetches quotes, company officers, and ticker lookups from
// a Yahoo-style finance API. Responses are cached briefly so the agent can
// re-ask about the same symbol without hammering the source.
package market

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/maypok86/otter"
	"github.com/tidwall/gjson"
)

// ErrNoData means the source answered but had nothing for the request.
var ErrNoData = errors.New("no data")

const (
	DefaultBaseURL = "https://query1.finance.yahoo.com"

	defaultCacheSize = 2048
	defaultCacheTTL  = time.Minute
	defaultTimeout   = 10 * time.Second
	maxResponseBody  = 4 << 20

	userAgent = "stock-agent/1.0"
)

type Config struct {
	BaseURL    string
	CacheSize  int
	CacheTTL   time.Duration
	HTTPClient *http.Client
}

// Client is safe for concurrent use.
type Client struct {
	http  *http.Client
	base  string
	cache *otter.Cache[string, string]
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = defaultCacheSize
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: defaultTimeout}
	}

	cache, err := otter.MustBuilder[string, string](cfg.CacheSize).
		WithTTL(cfg.CacheTTL).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build response cache: %w", err)
	}

	return &Client{
		http:  cfg.HTTPClient,
		base:  strings.TrimRight(cfg.BaseURL, "/"),
		cache: &cache,
	}, nil
}

// Quote returns the current price and currency for symbol.
func (c *Client) Quote(ctx context.Context, symbol string) (float64, string, error) {
	sym, err := NormalizeSymbol(symbol)
	if err != nil {
		return 0, "", err
	}

	body, err := c.fetch(ctx, "/v7/finance/quote?symbols="+url.QueryEscape(sym))
	if err != nil {
		return 0, "", err
	}

	result := gjson.Get(body, "quoteResponse.result.0")
	if !result.Exists() {
		return 0, "", ErrNoData
	}
	price := result.Get("currentPrice")
	if !price.Exists() {
		price = result.Get("regularMarketPrice")
	}
	if !price.Exists() {
		return 0, "", ErrNoData
	}
	currency := result.Get("currency").String()
	if currency == "" {
		currency = "USD"
	}
	return price.Float(), currency, nil
}

// CEO returns the name of the officer whose title marks them as chief
// executive of the company behind symbol.
func (c *Client) CEO(ctx context.Context, symbol string) (string, error) {
	sym, err := NormalizeSymbol(symbol)
	if err != nil {
		return "", err
	}

	body, err := c.fetch(ctx, "/v10/finance/quoteSummary/"+url.PathEscape(sym)+"?modules=assetProfile")
	if err != nil {
		return "", err
	}

	officers := gjson.Get(body, "quoteSummary.result.0.assetProfile.companyOfficers")
	if !officers.Exists() {
		return "", ErrNoData
	}
	var name string
	officers.ForEach(func(_, officer gjson.Result) bool {
		title := strings.ToLower(officer.Get("title").String())
		if strings.Contains(title, "ceo") || strings.Contains(title, "chief executive") {
			name = officer.Get("name").String()
			return false
		}
		return true
	})
	if name == "" {
		return "", ErrNoData
	}
	return name, nil
}

// ResolveTicker searches for companyName and returns the best symbol match,
// preferring listed equities over funds and indices.
func (c *Client) ResolveTicker(ctx context.Context, companyName string) (string, error) {
	name := strings.TrimSpace(companyName)
	if name == "" {
		return "", fmt.Errorf("empty company name")
	}

	body, err := c.fetch(ctx, "/v1/finance/search?q="+url.QueryEscape(name)+"&quotesCount=5")
	if err != nil {
		return "", err
	}

	quotes := gjson.Get(body, "quotes")
	var symbol string
	quotes.ForEach(func(_, q gjson.Result) bool {
		if q.Get("quoteType").String() == "EQUITY" {
			symbol = q.Get("symbol").String()
			return false
		}
		return true
	})
	if symbol == "" {
		symbol = quotes.Get("0.symbol").String()
	}
	if symbol == "" {
		return "", ErrNoData
	}
	return symbol, nil
}

// fetch returns the response body for path, serving from cache when fresh.
// Only successful bodies are cached.
func (c *Client) fetch(ctx context.Context, path string) (string, error) {
	if body, ok := c.cache.Get(path); ok {
		return body, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrNoData
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("market request %s: status %d", path, resp.StatusCode)
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return "", err
	}
	body := string(b)
	c.cache.Set(path, body)
	return body, nil
}
