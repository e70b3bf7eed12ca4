package wallet

import (
	"errors"

	"github.com/etnz/wallet/date"
)

// Summary is an at-a-glance overview of a wallet over its valuation.
type Summary struct {
	Currency    string
	From, To    date.Date
	StartValue  Money
	EndValue    Money
	Invested    Money // cumulative net investment on the last day
	Gain        Money // EndValue - Invested
	ShareChange Percent
	UnitValue   Money   // value of one unit on the last day, starting at 1 unit per init
	TWR         Percent // only valid when HasTWR
	AnnualTWR   Percent // TWR scaled to a year, only valid when HasTWR
	HasTWR      bool
	Assets      []AssetLine
}

// AssetLine is the position of one asset at the end of the valuation.
type AssetLine struct {
	Ticker   string
	Quantity float64
	Price    float64
	Value    Money
}

// NewSummary computes the summary of w over v.
//
// The time-weighted return is reported as unavailable when a sub-period starts
// from a zero value.
func NewSummary(w *Wallet, v *Valuation) (*Summary, error) {
	if err := v.check(); err != nil {
		return nil, err
	}
	last := v.Len() - 1
	s := &Summary{
		Currency:   w.Currency,
		From:       v.Dates[0],
		To:         v.Dates[last],
		StartValue: M(v.Values[0], w.Currency),
		EndValue:   M(v.Values[last], w.Currency),
		Invested:   M(v.Investments[last], w.Currency),
	}
	s.Gain = s.EndValue.Sub(s.Invested)

	sv, err := ShareValue(v, 1)
	if err != nil {
		return nil, err
	}
	s.ShareChange = Pct(sv[last] - 1)

	units, err := ShareUnits(v, 1)
	if err != nil {
		return nil, err
	}
	s.UnitValue = M(units.Values[last], w.Currency)

	t, err := TWRR(v, 1)
	switch {
	case errors.Is(err, ErrDivisionByZero):
	case err != nil:
		return nil, err
	default:
		s.TWR, s.HasTWR = Pct(t.Return()), true
		s.AnnualTWR = Pct(t.Annualized(date.Range{From: s.From, To: s.To}.Days() - 1))
	}

	for _, a := range w.Assets {
		q := quantityOn(a, s.To)
		if q == 0 {
			continue
		}
		p, err := Price(a, s.To)
		if err != nil {
			return nil, err
		}
		s.Assets = append(s.Assets, AssetLine{Ticker: a.Name(), Quantity: q, Price: p, Value: M(p*q, w.Currency)})
	}
	return s, nil
}

// quantityOn returns the share count of a after the orders dated on or before day.
func quantityOn(a *Asset, day date.Date) float64 {
	var q float64
	for _, o := range a.Orders {
		if o.Date.After(day) {
			break
		}
		q += o.Quantity
	}
	return snap(q)
}
