package wallet

import (
	"context"
	"fmt"
	"slices"

	"github.com/etnz/wallet/date"
)

// Calendar is the sorted list of trading days of an evaluation window, with a
// precomputed day to position index.
type Calendar struct {
	window date.Range
	days   []date.Date
	index  map[date.Date]int
}

// NewCalendar returns the union of every asset quoted day within window.
//
// window is ordered, then clipped to [earliest order date, today]. Zero bounds in
// window are open and take the bound.
func NewCalendar(assets []*Asset, window date.Range, today date.Date) *Calendar {
	window = evaluationWindow(assets, window, today)
	series := make([][]date.Date, 0, len(assets))
	for _, a := range assets {
		series = append(series, a.Prices.Days())
	}
	var days []date.Date
	for _, d := range date.Union(series...) {
		if window.Contains(d) {
			days = append(days, d)
		}
	}
	return newCalendar(window, days)
}

// NewCalendarFrom is like NewCalendar but reads trading days from src.
func NewCalendarFrom(ctx context.Context, src CalendarSource, assets []*Asset, window date.Range, today date.Date) (*Calendar, error) {
	window = evaluationWindow(assets, window, today)
	if window.IsEmpty() {
		return newCalendar(window, nil), nil
	}
	days, err := src.TradingDates(ctx, window.From, window.To)
	if err != nil {
		return nil, fmt.Errorf("cannot read trading dates %s: %w", window, err)
	}
	days = slices.Clone(days)
	slices.SortFunc(days, date.Date.Compare)
	days = slices.Compact(days)
	days = slices.DeleteFunc(days, func(d date.Date) bool { return !window.Contains(d) })
	return newCalendar(window, days), nil
}

func evaluationWindow(assets []*Asset, window date.Range, today date.Date) date.Range {
	w := Wallet{Assets: assets}
	first, _ := w.FirstOrder()
	return window.Clamp(date.Range{From: first, To: today})
}

func newCalendar(window date.Range, days []date.Date) *Calendar {
	c := &Calendar{window: window, days: days, index: make(map[date.Date]int, len(days))}
	for i, d := range days {
		c.index[d] = i
	}
	return c
}

// Window returns the clamped evaluation window.
func (c *Calendar) Window() date.Range { return c.window }

// Len returns the number of trading days.
func (c *Calendar) Len() int { return len(c.days) }

// Days returns a copy of the trading days.
func (c *Calendar) Days() []date.Date { return slices.Clone(c.days) }

// Index returns the position of day d in the calendar.
func (c *Calendar) Index(d date.Date) (int, bool) {
	i, ok := c.index[d]
	return i, ok
}

// Settle returns the trading day an order dated d is applied on: d itself or the next
// trading day. Days before the calendar settle on its first day. It returns false
// when d is after the last trading day.
func (c *Calendar) Settle(d date.Date) (date.Date, bool) {
	if i, ok := c.index[d]; ok {
		return c.days[i], true
	}
	i, _ := slices.BinarySearchFunc(c.days, d, date.Date.Compare)
	if i == len(c.days) {
		return date.Date{}, false
	}
	return c.days[i], true
}

// Price returns the close of a on day on, or its last known close before.
func Price(a *Asset, on date.Date) (float64, error) {
	if first, ok := a.FirstOrder(); ok && on.Before(first) {
		return 0, errorf(ErrDataGap, on, a.Name(), "price requested before first order on %s", first)
	}
	p, ok := a.Prices.ValueAsOf(on)
	if !ok {
		return 0, errorf(ErrDataGap, on, a.Name(), "no quote on or before that day")
	}
	return p, nil
}
