package domain

import (
	"github.com/shopspring/decimal"
)

// MaxDecimalPlaces is the monetary precision the ledger accepts.
const MaxDecimalPlaces = 2

// DecimalPlaces returns the number of digits after the decimal point in the
// canonical form of d. Trailing zeros count: "10.120" has three places.
func DecimalPlaces(d decimal.Decimal) int {
	if d.Exponent() >= 0 {
		return 0
	}
	return int(-d.Exponent())
}
