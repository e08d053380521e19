package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the immutable audit record of a completed transfer.
// Records are append-only: never updated or deleted once written.
type Transaction struct {
	ID            int64           `json:"id"`
	FromAccountID int64           `json:"fromAccountId"`
	ToAccountID   int64           `json:"toAccountId"`
	Amount        decimal.Decimal `json:"amount"`
	Timestamp     time.Time       `json:"timestamp"`
}

// TransferResult carries the transaction record together with the updated
// account states produced by one atomic transfer.
type TransferResult struct {
	Transaction *Transaction
	From        *Account
	To          *Account
}
