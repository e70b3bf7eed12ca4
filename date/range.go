package date

import (
	"fmt"
	"time"
)

// Range represents a range of dates, boundaries included.
//
// A zero From or To means the range is open on that side.
type Range struct{ From, To Date }

// NewRange return a well known period
func NewRange(d Date, period Period) Range {
	return Range{From: d.StartOf(period), To: d.EndOf(period)}
}

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(date Date) bool {
	if !r.From.IsZero() && date.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && date.After(r.To) {
		return false
	}
	return true
}

// Ordered returns the range with From and To swapped if they were reversed.
func (r Range) Ordered() Range {
	if !r.From.IsZero() && !r.To.IsZero() && r.From.After(r.To) {
		r.From, r.To = r.To, r.From
	}
	return r
}

// Clamp orders r then clips it to bounds. Open sides of r take the bound.
// The bounds themselves are reordered if needed.
func (r Range) Clamp(bounds Range) Range {
	r, bounds = r.Ordered(), bounds.Ordered()
	if r.From.IsZero() || (!bounds.From.IsZero() && r.From.Before(bounds.From)) {
		r.From = bounds.From
	}
	if r.To.IsZero() || (!bounds.To.IsZero() && r.To.After(bounds.To)) {
		r.To = bounds.To
	}
	return r
}

// IsEmpty reports whether no date can be contained in r.
func (r Range) IsEmpty() bool {
	return !r.From.IsZero() && !r.To.IsZero() && r.From.After(r.To)
}

// Days returns the number of days in the range, both bounds included.
func (r Range) Days() int {
	return int(r.To.time().Sub(r.From.time())/Day) + 1
}

func (r Range) String() string {
	return fmt.Sprintf("%s..%s", r.From, r.To)
}

// StartOf returns the date of begining of a given period
func (d Date) StartOf(period Period) Date {
	switch period {
	case Daily:
		return d
	case Weekly:
		offset := int(d.Weekday() - time.Monday)
		for offset < 0 {
			offset += 7
		}
		return d.Add(-offset)
	case Monthly:
		return New(d.Year(), d.Month(), 1)
	case Quarterly:
		quarter := (d.Month() - 1) / 3
		return New(d.Year(), time.Month(quarter*3+1), 1)
	case Yearly:
		return New(d.Year(), time.January, 1)
	default:
		panic("unknown period")
	}
}

// EndOf returns the date of end of a given period
func (d Date) EndOf(period Period) Date {
	switch period {
	case Daily:
		return d
	case Weekly:
		offset := int(7 - d.Weekday())
		for offset >= 7 {
			offset -= 7
		}
		return d.Add(offset)
	case Monthly:
		return New(d.Year(), d.Month()+1, 0)
	case Quarterly:
		quarter := (d.Month() - 1) / 3        // in [0..3]
		endMonth := time.Month(quarter*3 + 3) // in [1..12] hence the +3
		return New(d.Year(), endMonth+1, 0)   // last is next month on the day 0
	case Yearly:
		return New(d.Year()+1, time.January, 0)
	default:
		panic("unknown period")
	}
}
