package decimal

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencyCode is the prefix used when a formatted amount carries a symbol.
const CurrencyCode = "BDT"

// Money represents a taka amount with arbitrary precision.
type Money struct {
	decimal.Decimal
}

var twelve = decimal.NewFromInt(12)

// NewMoneyFromInt creates a new Money instance from whole taka
func NewMoneyFromInt(value int64) Money {
	return Money{decimal.NewFromInt(value)}
}

// NewMoneyFromDecimal creates a new Money instance from a decimal.Decimal
func NewMoneyFromDecimal(d decimal.Decimal) Money {
	return Money{d}
}

// NewMoneyFromString creates a new Money instance from a string.
// Thousands separators are accepted so "5,00,000" parses as 500000.
func NewMoneyFromString(value string) (Money, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(value), ",", ""))
	if err != nil {
		return Money{}, err
	}
	return Money{d}, nil
}

// Round rounds to poisha (two decimal places).
func (m Money) Round() Money {
	return Money{m.Decimal.Round(2)}
}

// Ceil rounds up to the next whole taka. Every due amount is computed this way.
func (m Money) Ceil() Money {
	return Money{m.Decimal.Ceil()}
}

// Monthly converts an annual amount to monthly
func (m Money) Monthly() Money {
	return Money{m.Decimal.Div(twelve)}
}

// TaxAt returns the tax owed on this amount at rate (a fraction).
func (m Money) TaxAt(rate decimal.Decimal) Money {
	return Money{m.Decimal.Mul(rate)}
}

// Add adds another Money amount
func (m Money) Add(other Money) Money {
	return Money{m.Decimal.Add(other.Decimal)}
}

// Sub subtracts another Money amount
func (m Money) Sub(other Money) Money {
	return Money{m.Decimal.Sub(other.Decimal)}
}

// Mul multiplies by a decimal factor
func (m Money) Mul(factor decimal.Decimal) Money {
	return Money{m.Decimal.Mul(factor)}
}

// Div divides by a decimal factor
func (m Money) Div(factor decimal.Decimal) Money {
	return Money{m.Decimal.Div(factor)}
}

// GreaterThan checks if this amount is greater than another
func (m Money) GreaterThan(other Money) bool {
	return m.Decimal.GreaterThan(other.Decimal)
}

// LessThan checks if this amount is less than another
func (m Money) LessThan(other Money) bool {
	return m.Decimal.LessThan(other.Decimal)
}

// LessThanOrEqual checks if this amount is less than or equal to another
func (m Money) LessThanOrEqual(other Money) bool {
	return m.Decimal.LessThanOrEqual(other.Decimal)
}

// Equal checks if this amount equals another
func (m Money) Equal(other Money) bool {
	return m.Decimal.Equal(other.Decimal)
}

// IsZero checks if the amount is zero
func (m Money) IsZero() bool {
	return m.Decimal.IsZero()
}

// IsPositive checks if the amount is positive
func (m Money) IsPositive() bool {
	return m.Decimal.IsPositive()
}

// IsNegative checks if the amount is negative
func (m Money) IsNegative() bool {
	return m.Decimal.IsNegative()
}

// Min returns the minimum of two Money amounts
func Min(a, b Money) Money {
	if a.LessThan(b) {
		return a
	}
	return b
}

// Max returns the maximum of two Money amounts
func Max(a, b Money) Money {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// Zero returns a zero Money amount
func Zero() Money {
	return Money{decimal.Zero}
}

// String returns the amount with two decimal places
func (m Money) String() string {
	return m.Decimal.StringFixed(2)
}

// Format rounds up to whole taka and groups digits the en-IN way
// (12,34,567), optionally prefixed with the currency code.
func (m Money) Format(includeSymbol bool) string {
	formatted := GroupIndian(m.Decimal.Ceil().StringFixed(0))
	if includeSymbol {
		return CurrencyCode + " " + formatted
	}
	return formatted
}

// FormatDecimal is Format for a bare decimal.
func FormatDecimal(d decimal.Decimal, includeSymbol bool) string {
	return Money{d}.Format(includeSymbol)
}

// GroupIndian inserts lakh/crore separators into a plain integer string:
// the last three digits form one group and every two digits before that
// form the next.
func GroupIndian(digits string) string {
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}
	if len(digits) <= 3 {
		return sign + digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return sign + strings.Join(groups, ",") + "," + tail
}
