package domain

import (
	"github.com/shopspring/decimal"
)

// Request shapes accepted by the transfer engine. Pointer fields distinguish
// an absent field from a zero value, so server-assigned fields supplied by a
// client can be rejected rather than silently ignored.

type CreateAccountRequest struct {
	ID        *int64           `json:"id"`
	Balance   *decimal.Decimal `json:"balance"`
	FirstName *string          `json:"firstName"`
	LastName  *string          `json:"lastName"`
}

type TransferRequest struct {
	ID            *int64           `json:"id"`
	FromAccountID *int64           `json:"fromAccountId"`
	ToAccountID   *int64           `json:"toAccountId"`
	Amount        *decimal.Decimal `json:"amount"`
	Timestamp     *string          `json:"timestamp"`
}
