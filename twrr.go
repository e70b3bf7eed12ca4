package wallet

import "math"

// hpEpsilon is the sub-period return below which the return is floating point noise.
const hpEpsilon = 1e-10

// TWRRSeries holds the sub-period returns and their chain-linked accumulation.
type TWRRSeries struct {
	Returns   []float64 // HP_i
	Cumulated []float64 // base * prod(1+HP_k), k <= i
}

// TWRR computes the time-weighted rate of return of v.
//
//	HP_i = (V_i - (V_i-1 + CF_i)) / (V_i-1 + CF_i)
//	TWR  = (1+HP_0) x (1+HP_1) x ... x (1+HP_n) - 1
//
// The value before the first day is 0, so that day's return compares the first
// valuation with the day-zero principal. A zero denominator is an error.
func TWRR(v *Valuation, base float64) (*TWRRSeries, error) {
	if err := v.check(); err != nil {
		return nil, err
	}
	n := v.Len()
	t := &TWRRSeries{Returns: make([]float64, n), Cumulated: make([]float64, n)}
	previous, cumulated := 0.0, base
	for i := 0; i < n; i++ {
		start := previous + v.CashFlow(i)
		if start == 0 {
			return nil, errorf(ErrDivisionByZero, v.Dates[i], "", "sub-period starts with a zero value")
		}
		hp := (v.Values[i] - start) / start
		if math.Abs(hp) < hpEpsilon {
			hp = 0
		}
		cumulated *= 1 + hp
		t.Returns[i], t.Cumulated[i] = hp, cumulated
		previous = v.Values[i]
	}
	return t, nil
}

// Return returns the chain-linked time-weighted return over the whole series.
func (t *TWRRSeries) Return() float64 {
	r := 1.0
	for _, hp := range t.Returns {
		r *= 1 + hp
	}
	return r - 1
}

// Annualized returns the TWR scaled to a 365 days year, days being the number of
// days between the first and the last day of the series.
func (t *TWRRSeries) Annualized(days int) float64 {
	if days <= 0 {
		return 0
	}
	return math.Pow(1+t.Return(), 365/float64(days)) - 1
}
