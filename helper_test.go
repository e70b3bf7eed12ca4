package wallet

import (
	"testing"

	"github.com/etnz/wallet/date"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var (
	AAPL, _   = NewMSSI("US0378331005", "XNAS")
	GOOG, _   = NewMSSI("US38259P5089", "XNAS")
	USDEUR, _ = NewCurrencyPair("USD", "EUR")
	EURUSD, _ = NewCurrencyPair("EUR", "USD")
)

// approx compares float series up to rounding noise.
var approx = cmpopts.EquateApprox(0, 1e-9)

// d is a short hand for date.MustParse in tests.
func d(s string) date.Date { return date.MustParse(s) }

// days returns n consecutive days starting on first.
func days(first string, n int) []date.Date {
	out := make([]date.Date, n)
	on := d(first)
	for i := range out {
		out[i] = on.Add(i)
	}
	return out
}

// quoted returns an asset quoted with prices on consecutive days starting on first.
func quoted(id ID, ticker, first string, prices []float64, orders ...Order) *Asset {
	a := NewAsset(id, ticker, "EUR", orders...)
	for i, on := range days(first, len(prices)) {
		a.Prices.Append(on, prices[i])
	}
	return a
}

func buy(on string, q, p float64) Order  { return Order{Date: d(on), Quantity: q, Price: p} }
func sell(on string, q, p float64) Order { return Order{Date: d(on), Quantity: -q, Price: p} }

// valuate computes the valuation of assets over every quoted day.
func valuate(t *testing.T, assets ...*Asset) *Valuation {
	t.Helper()
	w := &Wallet{Currency: "EUR", Assets: assets}
	v, err := ComputeValuation(w, NewCalendar(assets, date.Range{}, d("2099-12-31")))
	if err != nil {
		t.Fatalf("ComputeValuation() unexpected error: %v", err)
	}
	return v
}

// series builds a valuation directly from values and cumulative investments.
func series(first string, values, investments []float64) *Valuation {
	v := &Valuation{Dates: days(first, len(values)), Values: values, Investments: investments}
	v.buildIndex()
	return v
}

func diffSeries(t *testing.T, name string, want, got []float64) {
	t.Helper()
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("%s mismatch (-want +got):\n%s", name, diff)
	}
}

// EUR is a helper for test to create euro money from const
func EUR(v float64) Money { return M(v, "EUR") }
