// Package eodhd downloads daily closes from EOD Historical Data.
package eodhd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/etnz/wallet"
	"github.com/etnz/wallet/date"
	"github.com/etnz/wallet/httpcache"
	"github.com/shopspring/decimal"
)

// DefaultBaseURL is the API endpoint.
const DefaultBaseURL = "https://eodhd.com/api"

// Client accesses the EODHD API.
type Client struct {
	APIKey  string
	BaseURL string
	Daily   *http.Client // prices
	Monthly *http.Client // exchange and ticker lists, they rarely change
}

// New returns a client on the public API, caching responses in cacheDir.
func New(apiKey, cacheDir string) *Client {
	return &Client{
		APIKey:  apiKey,
		BaseURL: DefaultBaseURL,
		Daily:   httpcache.New(cacheDir, "eodhd", date.Daily),
		Monthly: httpcache.New(cacheDir, "eodhd", date.Monthly),
	}
}

func (c *Client) addr(path string, q url.Values) string {
	if q == nil {
		q = url.Values{}
	}
	q.Set("api_token", c.APIKey)
	q.Set("fmt", "json")
	return fmt.Sprintf("%s/%s?%s", c.BaseURL, path, q.Encode())
}

// ExchangeCodes returns a map of MIC to EODHD's own exchange code.
func (c *Client) ExchangeCodes(ctx context.Context) (map[string]string, error) {
	// [{"Name": "Frankfurt Exchange", "Code": "F", "OperatingMIC": "XFRA", ...}]
	var content []struct {
		Code         string
		OperatingMIC string // could be a comma separated list of MICs
	}
	if err := httpcache.GetJSON(ctx, c.Monthly, c.addr("exchanges-list/", nil), &content); err != nil {
		return nil, err
	}
	result := make(map[string]string)
	for _, info := range content {
		for _, mic := range strings.Split(info.OperatingMIC, ",") {
			result[strings.TrimSpace(mic)] = info.Code
		}
	}
	return result, nil
}

// TickerInfo holds information about a specific ticker on an exchange.
type TickerInfo struct {
	Code     string `json:"Code"`
	Name     string `json:"Name"`
	Exchange string `json:"Exchange"`
	Currency string `json:"Currency"`
	Isin     string `json:"Isin"`
}

// Tickers returns the tickers of an exchange code, or the delisted ones.
func (c *Client) Tickers(ctx context.Context, exchange string, delisted bool) ([]TickerInfo, error) {
	q := url.Values{}
	if delisted {
		q.Set("delisted", "1")
	}
	var content []TickerInfo
	if err := httpcache.GetJSON(ctx, c.Monthly, c.addr("exchange-symbol-list/"+exchange, q), &content); err != nil {
		return nil, fmt.Errorf("failed to fetch tickers for exchange %s: %w", exchange, err)
	}
	return content, nil
}

// Ticker resolves the EODHD ticker of an asset: BASEQUOTE.FOREX for currency pairs,
// CODE.EXCHANGE for an MSSI.
func (c *Client) Ticker(ctx context.Context, id wallet.ID) (string, error) {
	if base, quote, err := id.CurrencyPair(); err == nil {
		return base + quote + ".FOREX", nil
	}
	isin, mic, err := id.MSSI()
	if err != nil {
		return "", fmt.Errorf("%s is not traded: %w", id, wallet.ErrNotFound)
	}
	codes, err := c.ExchangeCodes(ctx)
	if err != nil {
		return "", err
	}
	exchange, ok := codes[mic]
	if !ok {
		return "", fmt.Errorf("no eodhd exchange for %s: %w", mic, wallet.ErrNotFound)
	}
	for _, delisted := range []bool{false, true} {
		tickers, err := c.Tickers(ctx, exchange, delisted)
		if err != nil {
			return "", err
		}
		for _, t := range tickers {
			if t.Isin == isin {
				// t holds the physical exchange, the API wants the exchange code.
				return t.Code + "." + exchange, nil
			}
		}
	}
	return "", fmt.Errorf("%s is not traded in eodhd's exchange %s: %w", isin, exchange, wallet.ErrNotFound)
}

// bar is a day of the eod endpoint.
type bar struct {
	Date  date.Date       `json:"date"`
	Open  decimal.Decimal `json:"open"`
	Close decimal.Decimal `json:"close"`
}

// Closes returns the closes of ticker within [from, to].
//
// Forex closes are unreliable, the open of the next day is used instead.
func (c *Client) Closes(ctx context.Context, ticker string, from, to date.Date) (*date.History[float64], error) {
	forex := strings.HasSuffix(ticker, ".FOREX")
	if forex {
		from, to = from.Add(1), to.Add(1)
	}
	q := url.Values{}
	q.Set("from", from.String())
	q.Set("to", to.String())
	var bars []bar
	if err := httpcache.GetJSON(ctx, c.Daily, c.addr("eod/"+ticker, q), &bars); err != nil {
		return nil, fmt.Errorf("cannot fetch %q: %w", ticker, err)
	}

	h := new(date.History[float64])
	for _, b := range bars {
		if forex {
			h.Append(b.Date.Add(-1), b.Open.InexactFloat64())
			continue
		}
		h.Append(b.Date, b.Close.InexactFloat64())
	}
	log.Printf("eodhd-closes ticker=%q from=%s to=%s closes=%d", ticker, from, to, h.Len())
	return h, nil
}

// Provider serves closes from EODHD to the valuation, it implements wallet.PriceProvider.
type Provider struct {
	Client *Client

	mu      sync.Mutex
	tickers map[wallet.ID]string
}

func (p *Provider) ticker(ctx context.Context, id wallet.ID) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if t, ok := p.tickers[id]; ok {
		return t, nil
	}
	t, err := p.Client.Ticker(ctx, id)
	if err != nil {
		return "", err
	}
	if p.tickers == nil {
		p.tickers = make(map[wallet.ID]string)
	}
	p.tickers[id] = t
	return t, nil
}

// PriceRange implements wallet.PriceProvider.
func (p *Provider) PriceRange(ctx context.Context, id wallet.ID, from, to date.Date) (*date.History[float64], error) {
	t, err := p.ticker(ctx, id)
	if err != nil {
		return nil, err
	}
	return p.Client.Closes(ctx, t, from, to)
}

// Price implements wallet.PriceProvider.
func (p *Provider) Price(ctx context.Context, id wallet.ID, on date.Date) (float64, error) {
	h, err := p.PriceRange(ctx, id, on, on)
	if err != nil {
		return 0, err
	}
	v, ok := h.Get(on)
	if !ok {
		return 0, fmt.Errorf("price of %s on %s: %w", id, on, wallet.ErrNotFound)
	}
	return v, nil
}
