package stocklots

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency of every amount handled by stocklots.
const Currency = money.USD

// Money represents a monetary value in Currency.
type Money struct {
	value decimal.Decimal // as major unit value
}

// M creates a Money.
func M[T float32 | float64 | int | int32 | int64 | decimal.Decimal](value T) Money {
	return Money{value: newDecimal(value)}
}

// String returns the formatted value, e.g. "$1,234.50".
func (m Money) String() string {
	// to get a never nil currency I need to call the Money constructor
	cur := money.New(0, Currency).Currency()
	dec := m.value.Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.IntPart())
}

func (m Money) Equal(n Money) bool              { return m.value.Equal(n.value) }
func (m Money) IsZero() bool                    { return m.value.IsZero() }
func (m Money) IsPositive() bool                { return m.value.IsPositive() }
func (m Money) IsNegative() bool                { return m.value.IsNegative() }
func (m Money) LessThan(amount Money) bool      { return m.value.LessThan(amount.value) }
func (m Money) GreaterThan(n Money) bool        { return m.value.GreaterThan(n.value) }
func (m Money) Add(n Money) Money               { return Money{value: m.value.Add(n.value)} }
func (m Money) Sub(n Money) Money               { return Money{value: m.value.Sub(n.value)} }
func (m Money) Neg() Money                      { return Money{value: m.value.Neg()} }
func (m Money) Mul(n Quantity) Money            { return Money{value: m.value.Mul(n.value)} }
func (m Money) MulFloat(f float64) Money        { return Money{value: m.value.Mul(decimal.NewFromFloat(f))} }
func (m Money) DivPrice(price Money) Quantity   { return Quantity{value: m.value.Div(price.value)} }
func (m Money) Round() Money                    { return Money{value: m.value.Round(2)} }
func (m Money) GreaterThanOrEqual(n Money) bool { return m.value.GreaterThanOrEqual(n.value) }

// Float64 returns the closest float64 value, for charts and indicators.
func (m Money) Float64() float64 { return m.value.InexactFloat64() }

// MarshalJSON implements the json.Marshaler interface.
func (m Money) MarshalJSON() ([]byte, error) { return m.value.MarshalJSON() }

// UnmarshalJSON implements the json.Unmarshaler interface.
func (m *Money) UnmarshalJSON(data []byte) error { return m.value.UnmarshalJSON(data) }

// Decimal returns the exact amount.
func (m Money) Decimal() decimal.Decimal { return m.value }
