// Package yahoo downloads daily closes from the Yahoo Finance chart API.
package yahoo

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/wallet"
	"github.com/etnz/wallet/date"
	"github.com/etnz/wallet/httpcache"
)

// DefaultBaseURL is the chart API endpoint.
const DefaultBaseURL = "https://query1.finance.yahoo.com"

// Client fetches daily closes.
type Client struct {
	HTTP    *http.Client
	BaseURL string
}

// New returns a client on the public API, with a daily disk cache in cacheDir.
func New(cacheDir string) *Client {
	return &Client{HTTP: httpcache.New(cacheDir, "yahoo", date.Daily), BaseURL: DefaultBaseURL}
}

// Daily returns the closes of symbol within [from, to].
//
// Days without a close (null in the payload) take the previous close. Leading ones
// are skipped.
func (c *Client) Daily(ctx context.Context, symbol string, from, to date.Date) (*date.History[float64], error) {
	q := url.Values{}
	q.Set("period1", fmt.Sprint(from.Time().Unix()))
	q.Set("period2", fmt.Sprint(to.Add(1).Time().Unix()))
	q.Set("interval", "1d")
	q.Set("events", "history")
	addr := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.BaseURL, url.PathEscape(symbol), q.Encode())

	var jobj any
	if err := httpcache.GetJSON(ctx, c.HTTP, addr, &jobj); err != nil {
		return nil, fmt.Errorf("cannot fetch %q: %w", symbol, err)
	}
	h, err := decodeChart(jobj)
	if err != nil {
		return nil, fmt.Errorf("cannot decode chart of %q: %w", symbol, err)
	}
	log.Printf("yahoo-daily symbol=%q from=%s to=%s closes=%d", symbol, from, to, h.Len())
	return h.Between(date.Range{From: from, To: to}), nil
}

// decodeChart reads the timestamps and closes of a chart payload:
//
//	{"chart":{"result":[{"meta":{"gmtoffset":3600},"timestamp":[...],"indicators":{"quote":[{"close":[...]}]}}],"error":null}}
func decodeChart(jobj any) (*date.History[float64], error) {
	if desc, err := jsonpath.Get("$.chart.error.description", jobj); err == nil {
		if s, ok := desc.(string); ok && s != "" {
			return nil, errors.New(s)
		}
	}
	jtimes, err := jsonpath.Get("$.chart.result[0].timestamp", jobj)
	if err != nil {
		return nil, fmt.Errorf("missing timestamps: %w", err)
	}
	jcloses, err := jsonpath.Get("$.chart.result[0].indicators.quote[0].close", jobj)
	if err != nil {
		return nil, fmt.Errorf("missing closes: %w", err)
	}
	var offset float64
	if joff, err := jsonpath.Get("$.chart.result[0].meta.gmtoffset", jobj); err == nil {
		offset, _ = joff.(float64)
	}

	times, ok := jtimes.([]any)
	if !ok {
		return nil, fmt.Errorf("timestamps are not a list: %T", jtimes)
	}
	closes, ok := jcloses.([]any)
	if !ok || len(closes) != len(times) {
		return nil, fmt.Errorf("closes do not match timestamps")
	}

	h := new(date.History[float64])
	var last float64
	hasLast := false
	for i, jt := range times {
		ts, ok := jt.(float64)
		if !ok {
			return nil, fmt.Errorf("timestamp %d is not a number: %v", i, jt)
		}
		// the exchange local day of the session.
		on := date.FromTime(time.Unix(int64(ts+offset), 0).UTC())
		switch v := closes[i].(type) {
		case float64:
			last, hasLast = v, true
			h.Append(on, v)
		case nil:
			if hasLast {
				h.Append(on, last)
			}
		default:
			return nil, fmt.Errorf("close %d is not a number: %v", i, v)
		}
	}
	return h, nil
}

// Provider serves closes from Yahoo to the valuation, it implements wallet.PriceProvider.
type Provider struct {
	Client  *Client
	Symbols map[wallet.ID]string // Yahoo symbol of each asset
}

func (p *Provider) symbol(id wallet.ID) (string, error) {
	s, ok := p.Symbols[id]
	if !ok {
		return "", fmt.Errorf("no yahoo symbol for %s: %w", id, wallet.ErrNotFound)
	}
	return s, nil
}

// PriceRange implements wallet.PriceProvider.
func (p *Provider) PriceRange(ctx context.Context, id wallet.ID, from, to date.Date) (*date.History[float64], error) {
	s, err := p.symbol(id)
	if err != nil {
		return nil, err
	}
	return p.Client.Daily(ctx, s, from, to)
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
