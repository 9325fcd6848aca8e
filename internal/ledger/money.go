package ledger

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Cents is a signed monetary amount in integer minor units. All monetary
// sums in the calculators stay in Cents; floats only appear in ratios and
// percentages, which are never added back into money.
type Cents int64

// ParseCents parses a decimal currency string ("2847", "-28500.00", "10.1")
// into minor units without a float round-trip. Sub-cent precision rounds
// half away from zero.
func ParseCents(s string) (Cents, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return Cents(d.Shift(2).Round(0).IntPart()), nil
}

// Abs returns the magnitude of the amount.
func (c Cents) Abs() Cents {
	if c < 0 {
		return -c
	}
	return c
}

// Display renders the amount for humans, e.g. "-$1,234.56". Snapshots are
// single-currency; USD formatting is assumed throughout.
func (c Cents) Display() string {
	return money.New(int64(c), money.USD).Display()
}

// Dollars returns the amount in major units as a decimal for presentation
// payloads that carry both representations.
func (c Cents) Dollars() float64 {
	f, _ := decimal.New(int64(c), -2).Float64()
	return f
}
