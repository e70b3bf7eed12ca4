package wallet

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/etnz/wallet/date"
)

// Definition describes an asset known to the market data.
type Definition struct {
	Ticker   string `json:"ticker" yaml:"ticker"`
	ID       ID     `json:"id" yaml:"id"`
	Currency string `json:"currency" yaml:"currency"`
}

// MarketData holds asset definitions and their daily closes in memory.
type MarketData struct {
	defs    map[ID]Definition
	tickers map[string]ID
	prices  map[ID]*date.History[float64]
}

// NewMarketData returns a new empty market data collection.
func NewMarketData() *MarketData {
	return &MarketData{
		defs:    make(map[ID]Definition),
		tickers: make(map[string]ID),
		prices:  make(map[ID]*date.History[float64]),
	}
}

// Add declares an asset. It replaces any previous definition of the same ID.
func (m *MarketData) Add(def Definition) {
	if old, ok := m.defs[def.ID]; ok {
		delete(m.tickers, old.Ticker)
	}
	m.defs[def.ID] = def
	m.tickers[def.Ticker] = def.ID
	if _, ok := m.prices[def.ID]; !ok {
		m.prices[def.ID] = new(date.History[float64])
	}
}

// Has returns true if the ticker is declared.
func (m *MarketData) Has(ticker string) bool {
	_, ok := m.tickers[ticker]
	return ok
}

// Resolve returns the ID of a ticker.
func (m *MarketData) Resolve(ticker string) (ID, bool) {
	id, ok := m.tickers[ticker]
	return id, ok
}

// Definition returns the definition of id.
func (m *MarketData) Definition(id ID) (Definition, bool) {
	def, ok := m.defs[id]
	return def, ok
}

// Definitions returns all definitions sorted by ticker.
func (m *MarketData) Definitions() []Definition {
	defs := make([]Definition, 0, len(m.defs))
	for _, def := range m.defs {
		defs = append(defs, def)
	}
	slices.SortFunc(defs, func(a, b Definition) int { return strings.Compare(a.Ticker, b.Ticker) })
	return defs
}

// Append sets the close of id on day on. id must be declared.
func (m *MarketData) Append(id ID, on date.Date, price float64) error {
	h, ok := m.prices[id]
	if !ok {
		return fmt.Errorf("cannot append price to unknown asset %q", id)
	}
	h.Append(on, price)
	return nil
}

// Merge appends every value of h to the closes of id.
func (m *MarketData) Merge(id ID, h *date.History[float64]) (int, error) {
	n := 0
	for on, p := range h.Values() {
		if err := m.Append(id, on, p); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// read a single value for a given (id, day).
func (m *MarketData) read(id ID, day date.Date) (float64, bool) {
	h, ok := m.prices[id]
	if !ok {
		return 0, false
	}
	return h.Get(day)
}

// Price implements PriceProvider.
func (m *MarketData) Price(_ context.Context, id ID, on date.Date) (float64, error) {
	p, ok := m.read(id, on)
	if !ok {
		return 0, fmt.Errorf("price of %s on %s: %w", id, on, ErrNotFound)
	}
	return p, nil
}

// PriceRange implements PriceProvider.
func (m *MarketData) PriceRange(_ context.Context, id ID, from, to date.Date) (*date.History[float64], error) {
	h, ok := m.prices[id]
	if !ok {
		return nil, fmt.Errorf("prices of %s: %w", id, ErrNotFound)
	}
	return h.Between(date.Range{From: from, To: to}), nil
}

// TradingDates implements CalendarSource: the days any asset is quoted.
func (m *MarketData) TradingDates(_ context.Context, from, to date.Date) ([]date.Date, error) {
	r := date.Range{From: from, To: to}
	series := make([][]date.Date, 0, len(m.prices))
	for _, h := range m.prices {
		series = append(series, h.Between(r).Days())
	}
	return date.Union(series...), nil
}
