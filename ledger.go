package wallet

import (
	"context"
	"slices"
)

// Ledger holds the orders of every asset.
type Ledger struct {
	orders map[ID][]Order
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{orders: make(map[ID][]Order)}
}

// Add records an order on id. Orders are kept sorted by date, orders on the same
// day keep their insertion order.
func (l *Ledger) Add(id ID, o Order) {
	orders := l.orders[id]
	i := len(orders)
	for i > 0 && orders[i-1].Date.After(o.Date) {
		i--
	}
	l.orders[id] = slices.Insert(orders, i, o)
}

// IDs returns the ids that have orders, sorted.
func (l *Ledger) IDs() []ID {
	ids := make([]ID, 0, len(l.orders))
	for id := range l.orders {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Orders implements OrderLedger.
func (l *Ledger) Orders(_ context.Context, id ID) ([]Order, error) {
	return slices.Clone(l.orders[id]), nil
}
