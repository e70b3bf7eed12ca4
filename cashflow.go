package wallet

// CashFlow returns the net cash moved in (positive) or out (negative) of the wallet on
// day i.
//
// Day 0 carries the whole cumulative investment: every order settled on or before
// the first evaluated day is principal contributed at day zero.
func (v *Valuation) CashFlow(i int) float64 {
	if i == 0 {
		return v.Investments[0]
	}
	return v.Investments[i] - v.Investments[i-1]
}

// CashFlows returns CashFlow(i) for every day.
func (v *Valuation) CashFlows() []float64 {
	out := make([]float64, len(v.Investments))
	for i := range out {
		out[i] = v.CashFlow(i)
	}
	return out
}
