package wallet

import (
	"errors"
	"fmt"

	"github.com/etnz/wallet/date"
)

// Error kinds. Use errors.Is to test an error returned by the engine against them.
var (
	// ErrConfiguration reports an undefined evaluation window or a computation
	// invoked before its prerequisite.
	ErrConfiguration = errors.New("configuration error")
	// ErrDataGap reports a price requested on a day with no quote and no earlier quote.
	ErrDataGap = errors.New("data gap")
	// ErrDivisionByZero reports a zero denominator in an index computation.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrInvariant reports a running share count going negative.
	ErrInvariant = errors.New("invariant violation")
)

// Error is the error returned by the engine. It carries the offending date and asset
// when they are known.
type Error struct {
	Kind  error
	On    date.Date
	Asset string
	Msg   string
}

func (e *Error) Error() string {
	switch {
	case e.Asset != "" && !e.On.IsZero():
		return fmt.Sprintf("%v: %s on %s: %s", e.Kind, e.Asset, e.On, e.Msg)
	case !e.On.IsZero():
		return fmt.Sprintf("%v: on %s: %s", e.Kind, e.On, e.Msg)
	case e.Asset != "":
		return fmt.Sprintf("%v: %s: %s", e.Kind, e.Asset, e.Msg)
	default:
		return fmt.Sprintf("%v: %s", e.Kind, e.Msg)
	}
}

func (e *Error) Unwrap() error { return e.Kind }

func errorf(kind error, on date.Date, asset string, format string, args ...any) error {
	return &Error{Kind: kind, On: on, Asset: asset, Msg: fmt.Sprintf(format, args...)}
}
