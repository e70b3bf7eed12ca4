package wallet

import (
	"errors"
	"testing"
)

func TestConvertAsset(t *testing.T) {
	a := NewAsset(AAPL, "AAPL", "USD", buy("2024-01-02", 1, 110), buy("2024-01-04", 1, 120))
	a.Prices.Append(d("2024-01-02"), 110)
	a.Prices.Append(d("2024-01-03"), 121)
	a.Prices.Append(d("2024-01-04"), 120)

	eurusd := NewAsset(EURUSD, "EURUSD", "USD")
	eurusd.Prices.Append(d("2024-01-02"), 1.1)
	eurusd.Prices.Append(d("2024-01-03"), 1.21)

	usdeur := NewAsset(USDEUR, "USDEUR", "EUR")
	usdeur.Prices.Append(d("2024-01-02"), 1/1.1)
	usdeur.Prices.Append(d("2024-01-03"), 1/1.21)

	for _, pair := range []*Asset{eurusd, usdeur} {
		t.Run(pair.Ticker, func(t *testing.T) {
			got, err := ConvertAsset(a, pair, "EUR")
			if err != nil {
				t.Fatalf("ConvertAsset() unexpected error: %v", err)
			}
			if got.Currency != "EUR" {
				t.Errorf("currency = %q, want EUR", got.Currency)
			}
			var prices []float64
			for _, p := range got.Prices.Values() {
				prices = append(prices, p)
			}
			// 2024-01-04 uses the last known rate.
			diffSeries(t, "prices", []float64{100, 100, 120 / 1.21}, prices)
			diffSeries(t, "order prices", []float64{100, 120 / 1.21}, []float64{got.Orders[0].Price, got.Orders[1].Price})
			if a.Orders[0].Price != 110 {
				t.Errorf("ConvertAsset() modified the source asset")
			}
		})
	}
}

func TestConvertAsset_Errors(t *testing.T) {
	a := NewAsset(AAPL, "AAPL", "USD", buy("2024-01-02", 1, 110))
	a.Prices.Append(d("2024-01-02"), 110)

	gbp, _ := NewCurrencyPair("EUR", "GBP")
	tests := []struct {
		name string
		pair *Asset
		want error
	}{
		{name: "not a pair", pair: NewAsset(GOOG, "GOOG", "USD"), want: ErrConfiguration},
		{name: "wrong pair", pair: NewAsset(gbp, "EURGBP", "GBP"), want: ErrConfiguration},
		{name: "no rate", pair: NewAsset(EURUSD, "EURUSD", "USD"), want: ErrDataGap},
		{name: "order before the first rate", pair: quoted(EURUSD, "EURUSD", "2024-01-03", []float64{1.1}), want: ErrDataGap},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ConvertAsset(a, tc.pair, "EUR"); !errors.Is(err, tc.want) {
				t.Errorf("ConvertAsset() error = %v, want %v", err, tc.want)
			}
		})
	}

	// the order has a rate, the close of the day before has none.
	early := NewAsset(AAPL, "AAPL", "USD", buy("2024-01-02", 1, 110))
	early.Prices.Append(d("2024-01-01"), 100)
	early.Prices.Append(d("2024-01-02"), 110)
	if _, err := ConvertAsset(early, quoted(EURUSD, "EURUSD", "2024-01-02", []float64{1.1}), "EUR"); !errors.Is(err, ErrDataGap) {
		t.Errorf("ConvertAsset() of a close before the first rate error = %v, want ErrDataGap", err)
	}

	same, err := ConvertAsset(a, nil, "USD")
	if err != nil || same != a {
		t.Errorf("ConvertAsset() in the same currency = %v, %v, want the asset itself", same, err)
	}
}
