package processor

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"banking_ledger/internal/domain"
	"banking_ledger/internal/repository"
	"banking_ledger/internal/repository/memory"
	"banking_ledger/pkg/validator"
)

func decimalPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func strPtr(s string) *string { return &s }

func int64Ptr(i int64) *int64 { return &i }

func newProcessor() *TransferProcessor {
	return NewTransferProcessor(memory.NewStore(), nil, nil)
}

func mustCreate(t *testing.T, p *TransferProcessor, balance, firstName, lastName string) *domain.Account {
	t.Helper()
	account, err := p.CreateAccount(context.Background(), domain.CreateAccountRequest{
		Balance:   decimalPtr(balance),
		FirstName: strPtr(firstName),
		LastName:  strPtr(lastName),
	})
	if err != nil {
		t.Fatalf("unexpected error on CreateAccount: %v", err)
	}
	return account
}

func TestProcessor_CreateAccount_ReadAfterWrite(t *testing.T) {
	p := newProcessor()
	created := mustCreate(t, p, "1000.00", "John", "Doe")

	got, err := p.GetAccount(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("unexpected error on GetAccount: %v", err)
	}
	if got.ID != created.ID || got.FirstName != created.FirstName || got.LastName != created.LastName {
		t.Errorf("expected account %+v, got %+v", created, got)
	}
	if !got.Balance.Equal(created.Balance) {
		t.Errorf("expected balance %s, got %s", created.Balance, got.Balance)
	}
}

func TestProcessor_CreateAccount_ValidationAggregation(t *testing.T) {
	p := newProcessor()
	_, err := p.CreateAccount(context.Background(), domain.CreateAccountRequest{})

	var vErr *validator.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(vErr.Fields) != 3 {
		t.Errorf("expected 3 violations, got %v", vErr.Fields)
	}
}

func TestProcessor_CreateAccount_DecimalPrecision(t *testing.T) {
	p := newProcessor()

	_, err := p.CreateAccount(context.Background(), domain.CreateAccountRequest{
		Balance:   decimalPtr("10.123"),
		FirstName: strPtr("John"),
		LastName:  strPtr("Doe"),
	})
	var vErr *validator.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := vErr.Fields["balance"]; !ok {
		t.Errorf("expected balance violation, got %v", vErr.Fields)
	}

	mustCreate(t, p, "10.12", "John", "Doe")
}

func TestProcessor_Transfer_EndToEnd(t *testing.T) {
	p := newProcessor()
	a := mustCreate(t, p, "1000.00", "John", "Doe")
	b := mustCreate(t, p, "500.00", "Jane", "Smith")
	if a.ID != 1 || b.ID != 2 {
		t.Fatalf("expected account ids 1 and 2, got %d and %d", a.ID, b.ID)
	}

	tx, err := p.Transfer(context.Background(), domain.TransferRequest{
		FromAccountID: int64Ptr(a.ID),
		ToAccountID:   int64Ptr(b.ID),
		Amount:        decimalPtr("50.00"),
	})
	if err != nil {
		t.Fatalf("unexpected error on Transfer: %v", err)
	}
	if tx.ID != 1 || tx.FromAccountID != 1 || tx.ToAccountID != 2 {
		t.Errorf("unexpected transaction %+v", tx)
	}
	if !tx.Amount.Equal(decimal.RequireFromString("50.00")) {
		t.Errorf("expected amount 50.00, got %s", tx.Amount)
	}

	aAfter, _ := p.GetAccount(context.Background(), a.ID)
	bAfter, _ := p.GetAccount(context.Background(), b.ID)
	if !aAfter.Balance.Equal(decimal.RequireFromString("950.00")) {
		t.Errorf("expected source balance 950.00, got %s", aAfter.Balance)
	}
	if !bAfter.Balance.Equal(decimal.RequireFromString("550.00")) {
		t.Errorf("expected destination balance 550.00, got %s", bAfter.Balance)
	}

	for _, id := range []int64{a.ID, b.ID} {
		history, err := p.ListTransactionsForAccount(context.Background(), id)
		if err != nil {
			t.Fatalf("unexpected error on ListTransactionsForAccount: %v", err)
		}
		if len(history) != 1 || history[0].ID != tx.ID {
			t.Errorf("expected exactly the transfer transaction for account %d, got %+v", id, history)
		}
	}
}

func TestProcessor_Transfer_SameAccount(t *testing.T) {
	p := newProcessor()
	a := mustCreate(t, p, "100.00", "John", "Doe")

	_, err := p.Transfer(context.Background(), domain.TransferRequest{
		FromAccountID: int64Ptr(a.ID),
		ToAccountID:   int64Ptr(a.ID),
		Amount:        decimalPtr("10.00"),
	})

	var vErr *validator.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := vErr.Fields["general"]; !ok {
		t.Errorf("expected general violation, got %v", vErr.Fields)
	}

	got, _ := p.GetAccount(context.Background(), a.ID)
	if !got.Balance.Equal(decimal.RequireFromString("100.00")) {
		t.Errorf("balance changed on rejected transfer: %s", got.Balance)
	}
}

func TestProcessor_Transfer_UnknownSource(t *testing.T) {
	p := newProcessor()
	a := mustCreate(t, p, "100.00", "John", "Doe")

	_, err := p.Transfer(context.Background(), domain.TransferRequest{
		FromAccountID: int64Ptr(999),
		ToAccountID:   int64Ptr(a.ID),
		Amount:        decimalPtr("10.00"),
	})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	transactions, _ := p.ListTransactions(context.Background())
	if len(transactions) != 0 {
		t.Errorf("expected no transactions, got %d", len(transactions))
	}
}

func TestProcessor_Transfer_InsufficientFunds(t *testing.T) {
	p := newProcessor()
	a := mustCreate(t, p, "30.00", "John", "Doe")
	b := mustCreate(t, p, "5.00", "Jane", "Smith")

	_, err := p.Transfer(context.Background(), domain.TransferRequest{
		FromAccountID: int64Ptr(a.ID),
		ToAccountID:   int64Ptr(b.ID),
		Amount:        decimalPtr("30.01"),
	})
	if !errors.Is(err, repository.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	aAfter, _ := p.GetAccount(context.Background(), a.ID)
	bAfter, _ := p.GetAccount(context.Background(), b.ID)
	if !aAfter.Balance.Equal(decimal.RequireFromString("30.00")) || !bAfter.Balance.Equal(decimal.RequireFromString("5.00")) {
		t.Errorf("balances changed on failed transfer: %s, %s", aAfter.Balance, bAfter.Balance)
	}
}

func TestProcessor_Transfer_ValidationAggregation(t *testing.T) {
	p := newProcessor()
	_, err := p.Transfer(context.Background(), domain.TransferRequest{
		Amount: decimalPtr("10.123"),
	})

	var vErr *validator.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, field := range []string{"fromAccountId", "toAccountId", "amount"} {
		if _, ok := vErr.Fields[field]; !ok {
			t.Errorf("expected violation for %q, got %v", field, vErr.Fields)
		}
	}
}

func TestProcessor_ListTransactionsForAccount_Unknown(t *testing.T) {
	p := newProcessor()
	_, err := p.ListTransactionsForAccount(context.Background(), 42)
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
