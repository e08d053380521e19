package repository

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"banking_ledger/internal/domain"
)

// Store is the sole owner of account and transaction state and of id
// assignment. Transfer is the only sanctioned way to mutate balances; read
// methods return snapshots that never expose a half-applied transfer.
type Store interface {
	CreateAccount(ctx context.Context, balance decimal.Decimal, firstName, lastName string) (*domain.Account, error)
	GetAccount(ctx context.Context, id int64) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]*domain.Account, error)

	// Transfer atomically debits fromID, credits toID and appends the
	// transaction record timestamped at commit. On any error no state
	// changes.
	Transfer(ctx context.Context, fromID, toID int64, amount decimal.Decimal) (*domain.TransferResult, error)

	ListTransactions(ctx context.Context) ([]*domain.Transaction, error)
	// ListTransactionsForAccount returns transactions where the account is
	// source or destination. Unknown accounts yield ErrNotFound.
	ListTransactionsForAccount(ctx context.Context, id int64) ([]*domain.Transaction, error)
}

var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrSameAccount       = errors.New("cannot transfer to the same account")
	ErrInvalidInput      = errors.New("invalid input")
)
