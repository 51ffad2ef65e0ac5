package stocklots

import (
	"errors"
	"fmt"

	"github.com/etnz/stocklots/date"
)

// Errors returned by the calendar, indicator, ledger and allocation
// operations. They are always wrapped with context; test them with errors.Is.
var (
	// ErrNoSuchDate is returned when no usable record exists for a date.
	ErrNoSuchDate = errors.New("no such date")
	// ErrStaleData is returned when the most recent record of a symbol is too old.
	ErrStaleData = errors.New("stale data")
	// ErrInsufficientData is returned when there are not enough records for a computation.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrInsufficientRange is returned when the available records cannot cover a date range.
	ErrInsufficientRange = errors.New("insufficient range")
	// ErrPricingUnavailable is returned when a lot cannot be priced.
	ErrPricingUnavailable = errors.New("pricing unavailable")
	// ErrInsufficientShares is returned when a sell would result in a naked short.
	ErrInsufficientShares = errors.New("insufficient shares")
	// ErrNoPosition is returned when selling a symbol that was never held.
	ErrNoPosition = errors.New("no position")
	// ErrInvalidArgument is returned for inverted ranges and non-positive amounts.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnavailable is returned when the market data provider fails.
	ErrUnavailable = errors.New("market data unavailable")
)

// InsufficientSharesError details a rejected sell.
type InsufficientSharesError struct {
	Symbol     string
	Shares     Quantity  // shares of the lot that drove the position negative
	Cumulative Quantity  // position just before that lot
	Date       date.Date // date of that lot
}

func (e *InsufficientSharesError) Error() string {
	return fmt.Sprintf("cannot sell %s shares of %s: only %s held on %s", e.Shares.Neg(), e.Symbol, e.Cumulative, e.Date)
}

// Is makes the error match ErrInsufficientShares.
func (e *InsufficientSharesError) Is(target error) bool { return target == ErrInsufficientShares }
