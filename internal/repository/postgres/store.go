package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"banking_ledger/internal/domain"
	"banking_ledger/internal/repository"
)

var _ repository.Store = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	balance NUMERIC(19,2) NOT NULL CHECK (balance >= 0),
	first_name TEXT NOT NULL,
	last_name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS transactions (
	id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	from_account_id BIGINT NOT NULL REFERENCES accounts(id),
	to_account_id BIGINT NOT NULL REFERENCES accounts(id),
	amount NUMERIC(19,2) NOT NULL CHECK (amount > 0),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// Store is the Postgres-backed ledger. Transfers rely on row locks taken in
// ascending id order inside a single database transaction, giving the same
// atomicity and deadlock-freedom guarantees as the in-memory store.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, pool *pgxpool.Pool) (*Store, error) {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) CreateAccount(ctx context.Context, balance decimal.Decimal, firstName, lastName string) (*domain.Account, error) {
	if balance.IsNegative() {
		return nil, fmt.Errorf("%w: balance must be zero or positive", repository.ErrInvalidInput)
	}
	if domain.DecimalPlaces(balance) > domain.MaxDecimalPlaces {
		return nil, fmt.Errorf("%w: balance must have at most two decimal places", repository.ErrInvalidInput)
	}
	if strings.TrimSpace(firstName) == "" || strings.TrimSpace(lastName) == "" {
		return nil, fmt.Errorf("%w: first and last name are required", repository.ErrInvalidInput)
	}

	account := &domain.Account{
		Balance:   balance,
		FirstName: firstName,
		LastName:  lastName,
	}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO accounts (balance, first_name, last_name)
		VALUES ($1, $2, $3)
		RETURNING id`, balance, firstName, lastName).Scan(&account.ID)
	if err != nil {
		return nil, fmt.Errorf("insert account: %w", err)
	}

	return account, nil
}

func (s *Store) GetAccount(ctx context.Context, id int64) (*domain.Account, error) {
	var account domain.Account
	err := s.pool.QueryRow(ctx, `
		SELECT id, balance, first_name, last_name
		FROM accounts WHERE id = $1`, id).
		Scan(&account.ID, &account.Balance, &account.FirstName, &account.LastName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: account %d", repository.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("select account: %w", err)
	}
	return &account, nil
}

func (s *Store) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, balance, first_name, last_name
		FROM accounts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select accounts: %w", err)
	}
	defer rows.Close()

	result := make([]*domain.Account, 0)
	for rows.Next() {
		var account domain.Account
		if err := rows.Scan(&account.ID, &account.Balance, &account.FirstName, &account.LastName); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		result = append(result, &account)
	}
	return result, rows.Err()
}

func (s *Store) Transfer(ctx context.Context, fromID, toID int64, amount decimal.Decimal) (*domain.TransferResult, error) {
	if amount.Sign() <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", repository.ErrInvalidInput)
	}
	if domain.DecimalPlaces(amount) > domain.MaxDecimalPlaces {
		return nil, fmt.Errorf("%w: amount must have at most two decimal places", repository.ErrInvalidInput)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transfer: %w", err)
	}
	defer tx.Rollback(ctx)

	// Row locks are taken in ascending id order regardless of transfer
	// direction, mirroring the in-memory store's lock discipline.
	firstID, secondID := fromID, toID
	if toID < fromID {
		firstID, secondID = toID, fromID
	}

	ids := []int64{firstID, secondID}
	if firstID == secondID {
		ids = ids[:1]
	}
	accounts := make(map[int64]*domain.Account, 2)
	for _, id := range ids {
		var account domain.Account
		err := tx.QueryRow(ctx, `
			SELECT id, balance, first_name, last_name
			FROM accounts WHERE id = $1 FOR UPDATE`, id).
			Scan(&account.ID, &account.Balance, &account.FirstName, &account.LastName)
		if errors.Is(err, pgx.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("lock account %d: %w", id, err)
		}
		accounts[id] = &account
	}

	from, fromExists := accounts[fromID]
	to, toExists := accounts[toID]
	if !fromExists {
		return nil, fmt.Errorf("%w: source account %d", repository.ErrNotFound, fromID)
	}
	if !toExists {
		return nil, fmt.Errorf("%w: destination account %d", repository.ErrNotFound, toID)
	}
	if fromID == toID {
		return nil, repository.ErrSameAccount
	}
	if from.Balance.LessThan(amount) {
		return nil, fmt.Errorf("%w: account %d", repository.ErrInsufficientFunds, fromID)
	}

	if _, err := tx.Exec(ctx, `UPDATE accounts SET balance = balance - $1 WHERE id = $2`, amount, fromID); err != nil {
		return nil, fmt.Errorf("debit account %d: %w", fromID, err)
	}
	if _, err := tx.Exec(ctx, `UPDATE accounts SET balance = balance + $1 WHERE id = $2`, amount, toID); err != nil {
		return nil, fmt.Errorf("credit account %d: %w", toID, err)
	}

	record := &domain.Transaction{
		FromAccountID: fromID,
		ToAccountID:   toID,
		Amount:        amount,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO transactions (from_account_id, to_account_id, amount)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`, fromID, toID, amount).
		Scan(&record.ID, &record.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("insert transaction: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transfer: %w", err)
	}

	from.Balance = from.Balance.Sub(amount)
	to.Balance = to.Balance.Add(amount)
	record.Timestamp = record.Timestamp.UTC()

	return &domain.TransferResult{
		Transaction: record,
		From:        from,
		To:          to,
	}, nil
}

func (s *Store) ListTransactions(ctx context.Context) ([]*domain.Transaction, error) {
	return s.queryTransactions(ctx, `
		SELECT id, from_account_id, to_account_id, amount, created_at
		FROM transactions ORDER BY id`)
}

func (s *Store) ListTransactionsForAccount(ctx context.Context, id int64) ([]*domain.Transaction, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check account %d: %w", id, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: account %d", repository.ErrNotFound, id)
	}

	return s.queryTransactions(ctx, `
		SELECT id, from_account_id, to_account_id, amount, created_at
		FROM transactions
		WHERE from_account_id = $1 OR to_account_id = $1
		ORDER BY id`, id)
}

func (s *Store) queryTransactions(ctx context.Context, query string, args ...any) ([]*domain.Transaction, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select transactions: %w", err)
	}
	defer rows.Close()

	result := make([]*domain.Transaction, 0)
	for rows.Next() {
		var record domain.Transaction
		if err := rows.Scan(&record.ID, &record.FromAccountID, &record.ToAccountID, &record.Amount, &record.Timestamp); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		record.Timestamp = record.Timestamp.UTC()
		result = append(result, &record)
	}
	return result, rows.Err()
}
