package wallet

import (
	"fmt"
	"strings"

	"github.com/etnz/wallet/date"
)

// Method selects how a performance index is computed.
type Method int

const (
	// MethodShareValue rebases a single share (the wallet seen as a one share fund).
	MethodShareValue Method = iota
	// MethodShareUnits issues and redeems units at the previous unit value.
	MethodShareUnits
	// MethodTWRR accumulates time-weighted returns.
	MethodTWRR
	// MethodSeededUnits issues units like MethodShareUnits, but the fund starts with
	// one unit per init of day-zero principal.
	MethodSeededUnits
)

func (m Method) String() string {
	switch m {
	case MethodShareValue:
		return "share"
	case MethodShareUnits:
		return "units"
	case MethodTWRR:
		return "twrr"
	case MethodSeededUnits:
		return "seeded"
	default:
		return fmt.Sprintf("method(%d)", int(m))
	}
}

// ParseMethod reads a method name as printed by Method.String.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "share", "share-value", "a":
		return MethodShareValue, nil
	case "units", "share-units", "b":
		return MethodShareUnits, nil
	case "twrr", "twr":
		return MethodTWRR, nil
	case "seeded", "seeded-units", "c":
		return MethodSeededUnits, nil
	default:
		return 0, fmt.Errorf("unknown performance method %q", s)
	}
}

// UnmarshalText lets a Method be read from configuration files.
func (m *Method) UnmarshalText(text []byte) error {
	v, err := ParseMethod(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

func (m Method) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// Index is a performance index computed with one Method.
type Index struct {
	Method  Method
	Dates   []date.Date
	Values  []float64 // share value, unit value or cumulated TWRR
	Units   []float64 // unit count, MethodShareUnits and MethodSeededUnits only
	Returns []float64 // sub-period returns, MethodTWRR only
}

// ComputeIndex computes the index of v with method m. init is the initial share
// value, the initial unit count or the TWRR base, depending on m.
func ComputeIndex(v *Valuation, m Method, init float64) (*Index, error) {
	if err := v.check(); err != nil {
		return nil, err
	}
	idx := &Index{Method: m, Dates: v.Dates}
	switch m {
	case MethodShareValue:
		values, err := ShareValue(v, init)
		if err != nil {
			return nil, err
		}
		idx.Values = values
	case MethodShareUnits:
		u, err := ShareUnits(v, init)
		if err != nil {
			return nil, err
		}
		idx.Values, idx.Units = u.Values, u.Units
	case MethodSeededUnits:
		u, err := SeededUnits(v, init)
		if err != nil {
			return nil, err
		}
		idx.Values, idx.Units = u.Values, u.Units
	case MethodTWRR:
		t, err := TWRR(v, init)
		if err != nil {
			return nil, err
		}
		idx.Values, idx.Returns = t.Cumulated, t.Returns
	default:
		return nil, errorf(ErrConfiguration, date.Date{}, "", "unknown method %v", m)
	}
	return idx, nil
}

// Change returns the relative change of the index between its first and last value.
func (idx *Index) Change() float64 {
	if len(idx.Values) == 0 || idx.Values[0] == 0 {
		return 0
	}
	return idx.Values[len(idx.Values)-1]/idx.Values[0] - 1
}

// ShareValue considers the wallet as a fund holding a single share initially worth
// init and returns the value of that share on every day.
//
// Deposits and withdrawals do not move the share, only market movements do. A fully
// divested wallet has a share worth 0, and a reinvestment rebases the share at init.
func ShareValue(v *Valuation, init float64) ([]float64, error) {
	if err := v.check(); err != nil {
		return nil, err
	}
	sv := make([]float64, v.Len())
	sv[0] = init
	for i := 1; i < v.Len(); i++ {
		cf := v.CashFlow(i)
		switch {
		case v.Values[i] == 0:
			sv[i] = 0
		case v.Values[i-1] == 0:
			if cf == 0 {
				return nil, errorf(ErrDivisionByZero, v.Dates[i], "", "reinvestment without cash flow")
			}
			sv[i] = v.Values[i] / cf * init
		default:
			sv[i] = (v.Values[i] - cf) / v.Values[i-1] * sv[i-1]
		}
	}
	return sv, nil
}

// UnitSeries is the value and count of units of a wallet seen as a fund.
type UnitSeries struct {
	Values []float64
	Units  []float64
}

// ShareUnits considers the wallet as a fund starting with init units. A cash flow
// issues or redeems units at the previous unit value, so that it never moves the
// unit value.
//
// A wallet emptied to 0 units has a unit value of 0. The next cash flow restarts the
// fund with init units.
func ShareUnits(v *Valuation, init float64) (*UnitSeries, error) {
	if err := v.check(); err != nil {
		return nil, err
	}
	if init <= 0 {
		return nil, errorf(ErrConfiguration, date.Date{}, "", "initial unit count must be positive, got %v", init)
	}
	return issueUnits(v, func(int) (float64, error) { return init, nil })
}

// SeededUnits is ShareUnits with a fund that starts with one unit per init of
// day-zero principal, so that a unit is bought at init whatever the principal. A
// restart after a full divestment is seeded the same way from its cash flow.
//
// A start without cash flow is ErrDivisionByZero.
func SeededUnits(v *Valuation, init float64) (*UnitSeries, error) {
	if err := v.check(); err != nil {
		return nil, err
	}
	if init <= 0 {
		return nil, errorf(ErrConfiguration, date.Date{}, "", "initial unit value must be positive, got %v", init)
	}
	return issueUnits(v, func(i int) (float64, error) {
		cf := v.CashFlow(i)
		if cf == 0 {
			return 0, errorf(ErrDivisionByZero, v.Dates[i], "", "fund started without cash flow")
		}
		return cf / init, nil
	})
}

// issueUnits runs the unit issuance of ShareUnits. seed returns the unit count of
// the fund starting on day i: the first day and every restart after 0 units.
func issueUnits(v *Valuation, seed func(i int) (float64, error)) (*UnitSeries, error) {
	n := v.Len()
	u := &UnitSeries{Values: make([]float64, n), Units: make([]float64, n)}
	start := func(i int) error {
		count, err := seed(i)
		if err != nil {
			return err
		}
		u.Units[i] = count
		if count != 0 {
			u.Values[i] = v.Values[i] / count
		}
		return nil
	}
	if err := start(0); err != nil {
		return nil, err
	}
	for i := 1; i < n; i++ {
		prevUnits, prevValue := u.Units[i-1], u.Values[i-1]
		value := v.Values[i]
		switch {
		case v.CashFlow(i) == 0:
			u.Units[i] = prevUnits
			if prevUnits != 0 {
				u.Values[i] = value / prevUnits
			}
		case value == 0:
			// units and value stay at 0
		case prevUnits == 0 || prevValue == 0:
			if err := start(i); err != nil {
				return nil, err
			}
		default:
			u.Units[i] = value / prevValue
			u.Values[i] = prevValue
		}
	}
	return u, nil
}
