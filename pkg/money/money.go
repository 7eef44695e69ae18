package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// scale is the number of decimal places in the major currency unit; every
// derived value is rounded half-to-even at this scale before being converted
// back to subunits.
const scale = 2

var subunitsPerMajor = decimal.NewFromInt(100)

// Money is an immutable amount expressed in integer currency subunits
// (grosze, cents) tagged with its ISO currency code.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// New builds a Money value, enforcing the non-negative amount and non-blank
// currency invariants.
func New(amount int64, currency string) (Money, error) {
	if amount < 0 {
		return Money{}, fmt.Errorf("money amount cannot be negative, got %d", amount)
	}
	if strings.TrimSpace(currency) == "" {
		return Money{}, fmt.Errorf("money currency cannot be blank")
	}
	return Money{Amount: amount, Currency: currency}, nil
}

// Zero returns a zero amount in the given currency.
func Zero(currency string) Money {
	return Money{Amount: 0, Currency: currency}
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.Amount == 0
}

// Major returns the amount converted to the major currency unit, rounded
// half-to-even at two decimal places.
func (m Money) Major() decimal.Decimal {
	return decimal.NewFromInt(m.Amount).Div(subunitsPerMajor).RoundBank(scale)
}

// FromMajor converts a major-unit decimal back to subunits using banker's
// rounding. This is the single place where a computed decimal becomes an
// integer amount.
func FromMajor(major decimal.Decimal, currency string) Money {
	amount := major.Mul(subunitsPerMajor).RoundBank(0).IntPart()
	return Money{Amount: amount, Currency: currency}
}
