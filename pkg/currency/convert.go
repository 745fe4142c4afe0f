package currency

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrConversion indicates rate data is unavailable for a required
// currency pair. It is distinct from generic failures so callers can
// choose between aborting a write and skipping a record during bulk
// migration.
var ErrConversion = errors.New("missing exchange rate")

// StoredScale is the number of fraction digits monetary amounts carry
// at storage boundaries.
const StoredScale = 2

// Convert converts amount from one currency to another using the given
// rate table. Identity conversions return the amount unchanged without
// a rate lookup. The result keeps full precision; round with RoundStored
// at the point of persistence, not during intermediate computation.
func Convert(amount decimal.Decimal, from, to Code, rates RateTable) (decimal.Decimal, error) {
	if from == to {
		return amount, nil
	}
	fromRate, toRate := rates[from], rates[to]
	if fromRate == 0 || toRate == 0 {
		return decimal.Zero, fmt.Errorf("%w for %s/%s", ErrConversion, from, to)
	}
	factor := decimal.NewFromFloat(toRate).Div(decimal.NewFromFloat(fromRate))
	return amount.Mul(factor), nil
}

// RoundStored rounds an amount half-up to the storage scale. Applied
// once, at the persistence boundary, so rounding error does not
// compound across multi-step conversions.
func RoundStored(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(StoredScale)
}
