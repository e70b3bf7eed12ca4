package wallet

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/etnz/wallet/date"
	"github.com/google/go-cmp/cmp"
)

func testMarket(t *testing.T) *MarketData {
	t.Helper()
	m := NewMarketData()
	m.Add(Definition{Ticker: "AAPL", ID: AAPL, Currency: "EUR"})
	m.Add(Definition{Ticker: "GOOG", ID: GOOG, Currency: "EUR"})
	for i, on := range days("2024-01-01", 5) {
		if err := m.Append(AAPL, on, 100+float64(i)); err != nil {
			t.Fatal(err)
		}
	}
	for i, on := range days("2024-01-03", 3) {
		if err := m.Append(GOOG, on, 50+float64(i)); err != nil {
			t.Fatal(err)
		}
	}
	return m
}

func TestMarketData(t *testing.T) {
	ctx := context.Background()
	m := testMarket(t)

	if p, err := m.Price(ctx, AAPL, d("2024-01-02")); err != nil || p != 101 {
		t.Errorf("Price() = %v, %v, want 101", p, err)
	}
	if _, err := m.Price(ctx, GOOG, d("2024-01-01")); !errors.Is(err, ErrNotFound) {
		t.Errorf("Price() on a missing day error = %v, want ErrNotFound", err)
	}
	if _, err := m.PriceRange(ctx, "PRIVATEX", date.Date{}, date.Date{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("PriceRange() on an unknown id error = %v, want ErrNotFound", err)
	}
	if err := m.Append("PRIVATEX", d("2024-01-01"), 1); err == nil {
		t.Errorf("Append() on an unknown id should fail")
	}

	h, err := m.PriceRange(ctx, AAPL, d("2024-01-02"), d("2024-01-03"))
	if err != nil {
		t.Fatalf("PriceRange() unexpected error: %v", err)
	}
	if diff := cmp.Diff(days("2024-01-02", 2), h.Days()); diff != "" {
		t.Errorf("PriceRange() days mismatch (-want +got):\n%s", diff)
	}

	got, err := m.TradingDates(ctx, d("2024-01-04"), date.Date{})
	if err != nil {
		t.Fatalf("TradingDates() unexpected error: %v", err)
	}
	if diff := cmp.Diff(days("2024-01-04", 2), got); diff != "" {
		t.Errorf("TradingDates() mismatch (-want +got):\n%s", diff)
	}

	if id, ok := m.Resolve("GOOG"); !ok || id != GOOG {
		t.Errorf("Resolve(GOOG) = %q, %v", id, ok)
	}
	if defs := m.Definitions(); len(defs) != 2 || defs[0].Ticker != "AAPL" {
		t.Errorf("Definitions() = %v, want AAPL first", defs)
	}
}

func TestLedger(t *testing.T) {
	l := NewLedger()
	l.Add(AAPL, buy("2024-01-03", 1, 10))
	l.Add(AAPL, buy("2024-01-01", 2, 10))
	l.Add(AAPL, sell("2024-01-03", 1, 12))
	l.Add(GOOG, buy("2024-01-02", 1, 50))

	got, err := l.Orders(context.Background(), AAPL)
	if err != nil {
		t.Fatalf("Orders() unexpected error: %v", err)
	}
	want := []Order{buy("2024-01-01", 2, 10), buy("2024-01-03", 1, 10), sell("2024-01-03", 1, 12)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Orders() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]ID{AAPL, GOOG}, l.IDs()); diff != "" {
		t.Errorf("IDs() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadWallet(t *testing.T) {
	ctx := context.Background()
	m := testMarket(t)
	l := NewLedger()
	l.Add(AAPL, buy("2024-01-01", 10, 100))
	l.Add(AAPL, sell("2024-01-02", 10, 101))
	l.Add(GOOG, buy("2024-01-03", 2, 50))
	defs := append(m.Definitions(), Definition{Ticker: "NOPE", ID: "PRIVATEN", Currency: "EUR"})

	w, err := LoadWallet(ctx, "EUR", defs, date.Range{}, d("2024-01-04"), m, l)
	if err != nil {
		t.Fatalf("LoadWallet() unexpected error: %v", err)
	}
	if len(w.Assets) != 2 {
		t.Fatalf("LoadWallet() loaded %d assets, want 2 (NOPE has no orders)", len(w.Assets))
	}
	// AAPL is closed on 01-02, prices are loaded until the day after.
	if diff := cmp.Diff(days("2024-01-01", 3), w.Asset("AAPL").Prices.Days()); diff != "" {
		t.Errorf("AAPL prices mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(days("2024-01-03", 2), w.Asset("GOOG").Prices.Days()); diff != "" {
		t.Errorf("GOOG prices mismatch (-want +got):\n%s", diff)
	}

	v, err := ComputeValuation(w, NewCalendar(w.Assets, w.Window, d("2024-01-04")))
	if err != nil {
		t.Fatalf("ComputeValuation() unexpected error: %v", err)
	}
	diffSeries(t, "values", []float64{1000, 0, 100, 102}, v.Values)
}

func TestLoadWallet_Currency(t *testing.T) {
	ctx := context.Background()
	m := NewMarketData()
	m.Add(Definition{Ticker: "AAPL", ID: AAPL, Currency: "USD"})
	m.Add(Definition{Ticker: "EURUSD", ID: EURUSD, Currency: "USD"})
	for i, on := range days("2024-01-01", 3) {
		if err := m.Append(AAPL, on, 100+10*float64(i)); err != nil {
			t.Fatal(err)
		}
	}
	// 2024-01-02 has no rate, the one of 2024-01-01 is used.
	m.Append(EURUSD, d("2024-01-01"), 2)
	m.Append(EURUSD, d("2024-01-03"), 4)
	l := NewLedger()
	l.Add(AAPL, buy("2024-01-01", 1, 100))

	w, err := LoadWallet(ctx, "EUR", m.Definitions(), date.Range{}, d("2024-01-03"), m, l)
	if err != nil {
		t.Fatalf("LoadWallet() unexpected error: %v", err)
	}
	if len(w.Assets) != 1 {
		t.Fatalf("LoadWallet() loaded %d assets, want 1 (pairs are not held)", len(w.Assets))
	}
	a := w.Asset("AAPL")
	if a.Currency != "EUR" || a.Orders[0].Price != 50 {
		t.Errorf("converted asset = %v %v, want EUR 50", a.Currency, a.Orders[0].Price)
	}
	diffSeries(t, "prices", []float64{50, 55, 30}, []float64{
		must(a.Prices.Get(d("2024-01-01"))),
		must(a.Prices.Get(d("2024-01-02"))),
		must(a.Prices.Get(d("2024-01-03"))),
	})

	if _, err := LoadWallet(ctx, "GBP", m.Definitions(), date.Range{}, d("2024-01-03"), m, l); !errors.Is(err, ErrConfiguration) {
		t.Errorf("LoadWallet(GBP) error = %v, want ErrConfiguration", err)
	}
}

func TestLoadWallet_CurrencyEarlierRate(t *testing.T) {
	ctx := context.Background()
	m := NewMarketData()
	m.Add(Definition{Ticker: "AAPL", ID: AAPL, Currency: "USD"})
	m.Add(Definition{Ticker: "EURUSD", ID: EURUSD, Currency: "USD"})
	m.Append(AAPL, d("2024-01-02"), 100)
	m.Append(AAPL, d("2024-01-03"), 110)
	// the last rate is the one of the previous Friday.
	m.Append(EURUSD, d("2023-12-29"), 2)
	l := NewLedger()
	l.Add(AAPL, buy("2024-01-01", 1, 100))

	w, err := LoadWallet(ctx, "EUR", m.Definitions(), date.Range{}, d("2024-01-03"), m, l)
	if err != nil {
		t.Fatalf("LoadWallet() unexpected error: %v", err)
	}
	a := w.Asset("AAPL")
	if a.Orders[0].Price != 50 {
		t.Errorf("order price = %v, want 50", a.Orders[0].Price)
	}
	diffSeries(t, "prices", []float64{50, 55}, []float64{
		must(a.Prices.Get(d("2024-01-02"))),
		must(a.Prices.Get(d("2024-01-03"))),
	})

	// without any rate before the first order, the conversion fails.
	l.Add(AAPL, buy("2023-12-01", 1, 100))
	if _, err := LoadWallet(ctx, "EUR", m.Definitions(), date.Range{}, d("2024-01-03"), m, l); !errors.Is(err, ErrDataGap) {
		t.Errorf("LoadWallet() error = %v, want ErrDataGap", err)
	}
}

func must(v float64, ok bool) float64 {
	if !ok {
		return math.NaN()
	}
	return v
}
