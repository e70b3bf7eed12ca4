package wallet

import (
	"fmt"

	"github.com/etnz/wallet/date"
)

// ConvertAsset returns a copy of a with closes and order prices expressed in
// walletCurrency, using the closes of the currency pair asset pair.
//
// pair is either walletCurrency+asset currency (EURUSD for a USD asset in a EUR
// wallet, prices are divided) or the reverse (prices are multiplied). The rate of a
// day is the last known pair close on or before it. An order or a close before the
// first rate is ErrDataGap.
func ConvertAsset(a *Asset, pair *Asset, walletCurrency string) (*Asset, error) {
	if a.Currency == walletCurrency || a.Currency == "" {
		return a, nil
	}
	base, quote, err := pair.ID.CurrencyPair()
	if err != nil {
		return nil, errorf(ErrConfiguration, date.Date{}, a.Name(), "%s is not a currency pair: %v", pair.ID, err)
	}
	var convert func(price, rate float64) float64
	switch {
	case base == walletCurrency && quote == a.Currency:
		convert = func(price, rate float64) float64 { return price / rate }
	case base == a.Currency && quote == walletCurrency:
		convert = func(price, rate float64) float64 { return price * rate }
	default:
		return nil, errorf(ErrConfiguration, date.Date{}, a.Name(), "pair %s does not convert %s into %s", pair.ID, a.Currency, walletCurrency)
	}

	rate := func(on date.Date) (float64, error) {
		r, ok := pair.Prices.ValueAsOf(on)
		if !ok {
			return 0, errorf(ErrDataGap, on, pair.Name(), "no exchange rate on or before that day")
		}
		if r == 0 {
			return 0, errorf(ErrDivisionByZero, on, pair.Name(), "zero exchange rate")
		}
		return r, nil
	}

	out := &Asset{ID: a.ID, Ticker: a.Ticker, Currency: walletCurrency}
	for _, o := range a.Orders {
		r, err := rate(o.Date)
		if err != nil {
			return nil, err
		}
		o.Price = convert(o.Price, r)
		out.Orders = append(out.Orders, o)
	}
	for on, p := range a.Prices.Values() {
		r, err := rate(on)
		if err != nil {
			return nil, fmt.Errorf("cannot convert %s: %w", a.Name(), err)
		}
		out.Prices.Append(on, convert(p, r))
	}
	return out, nil
}
