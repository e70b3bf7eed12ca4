package wallet

import (
	"context"
	"errors"

	"github.com/etnz/wallet/date"
)

// ErrNotFound is returned by providers when they have no data for an asset or a day.
var ErrNotFound = errors.New("not found")

// PriceProvider serves daily closes.
type PriceProvider interface {
	// Price returns the close of id on day on, ErrNotFound if there is none.
	Price(ctx context.Context, id ID, on date.Date) (float64, error)
	// PriceRange returns every close of id within [from, to].
	PriceRange(ctx context.Context, id ID, from, to date.Date) (*date.History[float64], error)
}

// OrderLedger serves the orders of an asset, in date order.
type OrderLedger interface {
	Orders(ctx context.Context, id ID) ([]Order, error)
}

// CalendarSource serves the trading days within [from, to].
type CalendarSource interface {
	TradingDates(ctx context.Context, from, to date.Date) ([]date.Date, error)
}
