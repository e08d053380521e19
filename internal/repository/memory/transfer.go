package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"banking_ledger/internal/domain"
	"banking_ledger/internal/repository"
)

func (s *Store) Transfer(ctx context.Context, fromID, toID int64, amount decimal.Decimal) (*domain.TransferResult, error) {
	if amount.Sign() <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", repository.ErrInvalidInput)
	}
	if domain.DecimalPlaces(amount) > domain.MaxDecimalPlaces {
		return nil, fmt.Errorf("%w: amount must have at most two decimal places", repository.ErrInvalidInput)
	}

	s.mu.RLock()
	from, fromExists := s.accounts[fromID]
	to, toExists := s.accounts[toID]
	s.mu.RUnlock()

	if !fromExists {
		return nil, fmt.Errorf("%w: source account %d", repository.ErrNotFound, fromID)
	}
	if !toExists {
		return nil, fmt.Errorf("%w: destination account %d", repository.ErrNotFound, toID)
	}
	if fromID == toID {
		return nil, repository.ErrSameAccount
	}

	// Lock the pair in ascending id order so two transfers moving funds in
	// opposite directions between the same accounts cannot deadlock.
	first, second := from, to
	if toID < fromID {
		first, second = to, from
	}
	first.mu.Lock()
	defer first.mu.Unlock()
	second.mu.Lock()
	defer second.mu.Unlock()

	if from.data.Balance.LessThan(amount) {
		return nil, fmt.Errorf("%w: account %d", repository.ErrInsufficientFunds, fromID)
	}

	// Commit under the write lock: both balance writes and the record
	// append become visible to readers as one step.
	s.mu.Lock()
	defer s.mu.Unlock()

	from.data.Balance = from.data.Balance.Sub(amount)
	to.data.Balance = to.data.Balance.Add(amount)

	s.nextTransactionID++
	tx := &domain.Transaction{
		ID:            s.nextTransactionID,
		FromAccountID: fromID,
		ToAccountID:   toID,
		Amount:        amount,
		Timestamp:     time.Now().UTC(),
	}
	s.transactions = append(s.transactions, tx)

	fromCp, toCp, txCp := from.data, to.data, *tx
	return &domain.TransferResult{
		Transaction: &txCp,
		From:        &fromCp,
		To:          &toCp,
	}, nil
}
