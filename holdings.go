package wallet

import (
	"github.com/etnz/wallet/date"
)

// Holdings tracks the running share count of each asset during one calendar sweep.
//
// Orders are settled on the trading day returned by Calendar.Settle: orders dated
// before the calendar are applied on its first day, orders on non-trading days on
// the next trading day, orders after the calendar are ignored.
type Holdings struct {
	cal    *Calendar
	counts map[*Asset]float64
	due    map[*Asset]map[date.Date][]Order
}

// NewHoldings returns empty holdings for a sweep over cal.
func NewHoldings(cal *Calendar) *Holdings {
	return &Holdings{
		cal:    cal,
		counts: make(map[*Asset]float64),
		due:    make(map[*Asset]map[date.Date][]Order),
	}
}

// Count returns the current share count of a.
func (h *Holdings) Count(a *Asset) float64 { return h.counts[a] }

// schedule returns the orders of a indexed by settlement day, computed once per asset.
func (h *Holdings) schedule(a *Asset) map[date.Date][]Order {
	if s, ok := h.due[a]; ok {
		return s
	}
	s := make(map[date.Date][]Order)
	for _, o := range a.Orders {
		if on, ok := h.cal.Settle(o.Date); ok {
			s[on] = append(s[on], o)
		}
	}
	h.due[a] = s
	return s
}

// Due reports whether a has orders to apply on day on.
func (h *Holdings) Due(on date.Date, a *Asset) bool {
	return len(h.schedule(a)[on]) > 0
}

// Apply applies every order of a due on day on to the running count and returns
// their aggregate cash value, 0 if there is none.
func (h *Holdings) Apply(on date.Date, a *Asset) (float64, error) {
	orders := h.schedule(a)[on]
	if len(orders) == 0 {
		return 0, nil
	}
	count := h.counts[a]
	var cash float64
	for _, o := range orders {
		count += o.Quantity
		cash += o.Amount()
	}
	count = snap(count)
	if count < 0 {
		return 0, errorf(ErrInvariant, on, a.Name(), "share count is negative (%v)", count)
	}
	h.counts[a] = count
	return cash, nil
}
