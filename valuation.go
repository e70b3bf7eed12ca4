package wallet

import (
	"slices"

	"github.com/etnz/wallet/date"
)

// Valuation is the daily value of a wallet and its cumulative net investment.
//
// Dates, Values and Investments always have the same length.
type Valuation struct {
	Dates       []date.Date
	Values      []float64 // total market value of holdings on each day
	Investments []float64 // cumulative cash invested by orders, sells count negative
	index       map[date.Date]int
}

// ComputeValuation sweeps the calendar once, in ascending order, and values every
// asset that is either quoted on the day, held, or has an order due that day.
//
// Any error aborts the whole computation, no partial series is returned.
func ComputeValuation(w *Wallet, cal *Calendar) (*Valuation, error) {
	if cal == nil || cal.Len() == 0 {
		return nil, errorf(ErrConfiguration, date.Date{}, "", "evaluation dates undefined")
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}

	days := cal.Days()
	v := &Valuation{
		Dates:       days,
		Values:      make([]float64, len(days)),
		Investments: make([]float64, len(days)),
	}
	h := NewHoldings(cal)
	var investment float64
	for i, on := range days {
		var total float64
		for _, a := range w.Assets {
			if !a.Prices.Covers(on) && h.Count(a) == 0 && !h.Due(on, a) {
				continue
			}
			cash, err := h.Apply(on, a)
			if err != nil {
				return nil, err
			}
			investment += cash
			n := h.Count(a)
			if n == 0 {
				// liquidated, or not bought yet.
				continue
			}
			p, err := Price(a, on)
			if err != nil {
				return nil, err
			}
			total += p * n
		}
		v.Values[i] = total
		v.Investments[i] = investment
	}
	v.buildIndex()
	return v, nil
}

func (v *Valuation) buildIndex() {
	v.index = make(map[date.Date]int, len(v.Dates))
	for i, d := range v.Dates {
		v.index[d] = i
	}
}

// Len returns the number of days in the valuation.
func (v *Valuation) Len() int { return len(v.Dates) }

// Index returns the position of day d.
func (v *Valuation) Index(d date.Date) (int, bool) {
	if v.index == nil {
		v.buildIndex()
	}
	i, ok := v.index[d]
	return i, ok
}

// Between returns the sub-series of days in [from, to]. Investments stay cumulative
// from the first order, so the first day carries them as day-zero principal, as a
// valuation computed over the same window does.
func (v *Valuation) Between(from, to date.Date) (*Valuation, error) {
	if err := v.check(); err != nil {
		return nil, err
	}
	r := date.Range{From: from, To: to}.Ordered()
	i, _ := slices.BinarySearchFunc(v.Dates, r.From, date.Date.Compare)
	j, found := slices.BinarySearchFunc(v.Dates, r.To, date.Date.Compare)
	if found {
		j++
	}
	if r.From.IsZero() {
		i = 0
	}
	if r.To.IsZero() {
		j = len(v.Dates)
	}
	if i >= j {
		return nil, errorf(ErrConfiguration, date.Date{}, "", "no evaluation date in %s", r)
	}
	sub := &Valuation{
		Dates:       slices.Clone(v.Dates[i:j]),
		Values:      slices.Clone(v.Values[i:j]),
		Investments: slices.Clone(v.Investments[i:j]),
	}
	sub.buildIndex()
	return sub, nil
}

// Sample keeps only the last day of every period. Investments stay cumulative, so
// the cash flows of the result aggregate the whole period.
func (v *Valuation) Sample(p date.Period) *Valuation {
	keep := date.LastOfPeriods(v.Dates, p)
	s := &Valuation{
		Dates:       make([]date.Date, 0, len(keep)),
		Values:      make([]float64, 0, len(keep)),
		Investments: make([]float64, 0, len(keep)),
	}
	for _, i := range keep {
		s.Dates = append(s.Dates, v.Dates[i])
		s.Values = append(s.Values, v.Values[i])
		s.Investments = append(s.Investments, v.Investments[i])
	}
	s.buildIndex()
	return s
}

// check reports a valuation that has not been computed.
func (v *Valuation) check() error {
	if v == nil || len(v.Dates) == 0 {
		return errorf(ErrConfiguration, date.Date{}, "", "valuation not computed")
	}
	if len(v.Values) != len(v.Dates) || len(v.Investments) != len(v.Dates) {
		return errorf(ErrConfiguration, date.Date{}, "", "valuation series have different lengths")
	}
	return nil
}
