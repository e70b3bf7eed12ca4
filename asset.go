package wallet

import (
	"fmt"
	"slices"

	"github.com/etnz/wallet/date"
)

// Order is a single buy (positive quantity) or sell (negative quantity) execution.
type Order struct {
	Date     date.Date `json:"date"`
	Quantity float64   `json:"quantity"`
	Price    float64   `json:"price"`
}

// Amount returns the cash value of the order, negative for a sell.
func (o Order) Amount() float64 { return o.Price * o.Quantity }

// Asset is one holdable instrument with its orders and its daily close prices.
//
// Assets are built by loaders and are read only for the engine.
type Asset struct {
	ID       ID
	Ticker   string
	Currency string
	Orders   []Order               // ascending dates
	Prices   date.History[float64] // daily closes
}

// NewAsset returns an asset with orders sorted by date. Orders on the same date keep
// their relative order.
func NewAsset(id ID, ticker, currency string, orders ...Order) *Asset {
	orders = slices.Clone(orders)
	slices.SortStableFunc(orders, func(a, b Order) int { return a.Date.Compare(b.Date) })
	return &Asset{ID: id, Ticker: ticker, Currency: currency, Orders: orders}
}

// Name returns the ticker, or the ID when no ticker was given.
func (a *Asset) Name() string {
	if a.Ticker != "" {
		return a.Ticker
	}
	return a.ID.String()
}

// FirstOrder returns the date of the first order.
func (a *Asset) FirstOrder() (date.Date, bool) {
	if len(a.Orders) == 0 {
		return date.Date{}, false
	}
	return a.Orders[0].Date, true
}

// Quantity returns the share count after all orders.
func (a *Asset) Quantity() float64 {
	var q float64
	for _, o := range a.Orders {
		q += o.Quantity
	}
	return snap(q)
}

// LastDetention returns the last day the asset needs a price for: the day after
// the last order when the position is closed, today otherwise.
func (a *Asset) LastDetention(today date.Date) date.Date {
	if len(a.Orders) == 0 || a.Quantity() != 0 {
		return today
	}
	return date.Min(a.Orders[len(a.Orders)-1].Date.Add(1), today)
}

// Validate checks that orders are sorted and the share count is never negative
// after the orders of a day, whatever their order within the day.
func (a *Asset) Validate() error {
	var count float64
	for i, o := range a.Orders {
		if i > 0 && o.Date.Before(a.Orders[i-1].Date) {
			return errorf(ErrConfiguration, o.Date, a.Name(), "orders are not sorted by date")
		}
		count += o.Quantity
		if i+1 < len(a.Orders) && a.Orders[i+1].Date.Equal(o.Date) {
			continue
		}
		count = snap(count)
		if count < 0 {
			return errorf(ErrInvariant, o.Date, a.Name(), "share count is negative (%v)", count)
		}
	}
	return nil
}

// Wallet is the modeled portfolio: a set of assets valued over an evaluation window.
type Wallet struct {
	Currency string
	Assets   []*Asset
	Window   date.Range // zero bounds mean unbounded
}

// Asset returns the asset with that ticker or nil.
func (w *Wallet) Asset(ticker string) *Asset {
	for _, a := range w.Assets {
		if a.Ticker == ticker {
			return a
		}
	}
	return nil
}

// FirstOrder returns the earliest order date across all assets.
func (w *Wallet) FirstOrder() (date.Date, bool) {
	var first date.Date
	found := false
	for _, a := range w.Assets {
		if d, ok := a.FirstOrder(); ok && (!found || d.Before(first)) {
			first, found = d, true
		}
	}
	return first, found
}

// Validate checks every asset and rejects FX pseudo-assets, they must be used to
// convert prices before the valuation.
func (w *Wallet) Validate() error {
	seen := make(map[string]bool)
	for _, a := range w.Assets {
		if a.ID != "" && a.ID.Kind() == KindCurrencyPair {
			return errorf(ErrConfiguration, date.Date{}, a.Name(), "currency pair %s cannot be held, convert prices upstream", a.ID)
		}
		if seen[a.Name()] {
			return errorf(ErrConfiguration, date.Date{}, a.Name(), "duplicated asset")
		}
		seen[a.Name()] = true
		if err := a.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// quantityEpsilon absorbs float noise in share counts, a count within it is zero.
const quantityEpsilon = 1e-9

func snap(q float64) float64 {
	if q < quantityEpsilon && q > -quantityEpsilon {
		return 0
	}
	return q
}

func (o Order) String() string {
	return fmt.Sprintf("%s %+g@%g", o.Date, o.Quantity, o.Price)
}
