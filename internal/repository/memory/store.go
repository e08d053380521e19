package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"banking_ledger/internal/domain"
	"banking_ledger/internal/repository"
)

// account pairs the stored record with the mutex that serializes balance
// mutations on it.
type account struct {
	mu   sync.Mutex
	data domain.Account
}

// Store keeps the ledger in memory. The RWMutex guards the maps, the id
// counters and the transaction log; per-account mutexes order transfers on
// shared accounts while transfers on disjoint pairs proceed in parallel.
// Readers only ever take the read lock, and a transfer commits its two
// balance writes and the transaction append under the write lock, so no
// reader observes a half-applied transfer.
type Store struct {
	mu                sync.RWMutex
	accounts          map[int64]*account
	transactions      []*domain.Transaction
	nextAccountID     int64
	nextTransactionID int64
}

func NewStore() *Store {
	return &Store{
		accounts: make(map[int64]*account),
	}
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

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextAccountID++
	id := s.nextAccountID
	if _, exists := s.accounts[id]; exists {
		panic(fmt.Sprintf("memory store: account id %d already assigned", id))
	}
	s.accounts[id] = &account{data: domain.Account{
		ID:        id,
		Balance:   balance,
		FirstName: firstName,
		LastName:  lastName,
	}}

	cp := s.accounts[id].data
	return &cp, nil
}

func (s *Store) GetAccount(ctx context.Context, id int64) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, exists := s.accounts[id]
	if !exists {
		return nil, fmt.Errorf("%w: account %d", repository.ErrNotFound, id)
	}
	cp := a.data
	return &cp, nil
}

func (s *Store) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		cp := a.data
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result, nil
}

func (s *Store) ListTransactions(ctx context.Context) ([]*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Transaction, 0, len(s.transactions))
	for _, tx := range s.transactions {
		cp := *tx
		result = append(result, &cp)
	}

	return result, nil
}

func (s *Store) ListTransactionsForAccount(ctx context.Context, id int64) ([]*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, exists := s.accounts[id]; !exists {
		return nil, fmt.Errorf("%w: account %d", repository.ErrNotFound, id)
	}

	result := make([]*domain.Transaction, 0)
	for _, tx := range s.transactions {
		if tx.FromAccountID == id || tx.ToAccountID == id {
			cp := *tx
			result = append(result, &cp)
		}
	}

	return result, nil
}
