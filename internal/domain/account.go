package domain

import (
	"github.com/shopspring/decimal"
)

// Account is a named holder of a non-negative balance. The ID is assigned
// by the store and never changes after creation.
type Account struct {
	ID        int64           `json:"id"`
	Balance   decimal.Decimal `json:"balance"`
	FirstName string          `json:"firstName"`
	LastName  string          `json:"lastName"`
}
