package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Line carries the pricing inputs of a single cart line. ListPrice is nil
// when the product has no strike-through price.
type Line struct {
	Quantity  int
	Price     Money
	ListPrice *Money
}

// Calculator derives monetary aggregates in a single fixed currency. Every
// derived value follows the same pipeline: convert subunits to the major
// unit, compute, round half-to-even at two decimal places, convert back.
// Summations add the already-rounded line values and round the sum again, so
// rounding is applied exactly once per derived value.
type Calculator struct {
	currency string
}

// NewCalculator pins the calculator to one ISO currency code.
func NewCalculator(currency string) (*Calculator, error) {
	code := strings.TrimSpace(currency)
	if code == "" {
		return nil, fmt.Errorf("calculator currency cannot be blank")
	}
	return &Calculator{currency: code}, nil
}

// Currency returns the pinned currency code.
func (c *Calculator) Currency() string {
	return c.currency
}

// CheckLine verifies the line is priced in the pinned currency. Derived
// values always carry the pinned code, so a mismatched input would
// otherwise be silently restamped.
func (c *Calculator) CheckLine(line Line) error {
	if line.Price.Currency != c.currency {
		return fmt.Errorf("line priced in %s, calculator pinned to %s", line.Price.Currency, c.currency)
	}
	if line.ListPrice != nil && line.ListPrice.Currency != c.currency {
		return fmt.Errorf("line list price in %s, calculator pinned to %s", line.ListPrice.Currency, c.currency)
	}
	return nil
}

// LineTotal computes quantity x price for one line.
func (c *Calculator) LineTotal(line Line) Money {
	total := line.Price.Major().Mul(decimal.NewFromInt(int64(line.Quantity))).RoundBank(scale)
	return FromMajor(total, c.currency)
}

// LineSavings computes quantity x (listPrice - price), or zero when the line
// has no list price or the list price does not exceed the price.
func (c *Calculator) LineSavings(line Line) Money {
	if line.ListPrice == nil {
		return Zero(c.currency)
	}
	perUnit := line.ListPrice.Major().Sub(line.Price.Major())
	if perUnit.Sign() <= 0 {
		return Zero(c.currency)
	}
	savings := perUnit.Mul(decimal.NewFromInt(int64(line.Quantity))).RoundBank(scale)
	return FromMajor(savings, c.currency)
}

// Subtotal sums the rounded line totals and rounds the sum once more.
func (c *Calculator) Subtotal(lines []Line) Money {
	sum := decimal.Zero
	for _, line := range lines {
		sum = sum.Add(c.LineTotal(line).Major())
	}
	return FromMajor(sum.RoundBank(scale), c.currency)
}

// TotalSavings sums the rounded per-line savings and rounds the sum.
func (c *Calculator) TotalSavings(lines []Line) Money {
	sum := decimal.Zero
	for _, line := range lines {
		sum = sum.Add(c.LineSavings(line).Major())
	}
	return FromMajor(sum.RoundBank(scale), c.currency)
}

// GrandTotal computes subtotal + delivery.
func (c *Calculator) GrandTotal(subtotal, delivery Money) Money {
	total := subtotal.Major().Add(delivery.Major()).RoundBank(scale)
	return FromMajor(total, c.currency)
}
