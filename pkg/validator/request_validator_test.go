package validator

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"banking_ledger/internal/domain"
)

func decimalPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func strPtr(s string) *string { return &s }

func int64Ptr(i int64) *int64 { return &i }

func fields(t *testing.T, err error) map[string]string {
	t.Helper()
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	return vErr.Fields
}

func TestValidateCreateAccount_Valid(t *testing.T) {
	v := NewRequestValidator()
	err := v.ValidateCreateAccount(domain.CreateAccountRequest{
		Balance:   decimalPtr("10.12"),
		FirstName: strPtr("John"),
		LastName:  strPtr("Doe"),
	})
	if err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}
}

func TestValidateCreateAccount_AggregatesAllViolations(t *testing.T) {
	v := NewRequestValidator()
	err := v.ValidateCreateAccount(domain.CreateAccountRequest{
		ID:      int64Ptr(7),
		Balance: decimalPtr("-1.00"),
	})

	got := fields(t, err)
	for _, field := range []string{"id", "balance", "firstName", "lastName"} {
		if _, ok := got[field]; !ok {
			t.Errorf("expected violation for %q, got %v", field, got)
		}
	}
}

func TestValidateCreateAccount_DecimalPlaces(t *testing.T) {
	v := NewRequestValidator()
	err := v.ValidateCreateAccount(domain.CreateAccountRequest{
		Balance:   decimalPtr("10.123"),
		FirstName: strPtr("John"),
		LastName:  strPtr("Doe"),
	})

	got := fields(t, err)
	if _, ok := got["balance"]; !ok || len(got) != 1 {
		t.Errorf("expected only a balance violation, got %v", got)
	}
}

func TestValidateCreateAccount_BlankNames(t *testing.T) {
	v := NewRequestValidator()
	err := v.ValidateCreateAccount(domain.CreateAccountRequest{
		Balance:   decimalPtr("10"),
		FirstName: strPtr("   "),
		LastName:  strPtr("Doe"),
	})

	got := fields(t, err)
	if _, ok := got["firstName"]; !ok {
		t.Errorf("expected firstName violation, got %v", got)
	}
}

func TestValidateTransfer_Valid(t *testing.T) {
	v := NewRequestValidator()
	err := v.ValidateTransfer(domain.TransferRequest{
		FromAccountID: int64Ptr(1),
		ToAccountID:   int64Ptr(2),
		Amount:        decimalPtr("50.00"),
	})
	if err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}
}

func TestValidateTransfer_MissingEverything(t *testing.T) {
	v := NewRequestValidator()
	err := v.ValidateTransfer(domain.TransferRequest{})

	got := fields(t, err)
	for _, field := range []string{"fromAccountId", "toAccountId", "amount"} {
		if _, ok := got[field]; !ok {
			t.Errorf("expected violation for %q, got %v", field, got)
		}
	}
}

func TestValidateTransfer_ServerAssignedFields(t *testing.T) {
	v := NewRequestValidator()
	err := v.ValidateTransfer(domain.TransferRequest{
		ID:            int64Ptr(1),
		FromAccountID: int64Ptr(1),
		ToAccountID:   int64Ptr(2),
		Amount:        decimalPtr("50.00"),
		Timestamp:     strPtr("2025-05-19T20:30:00.123Z"),
	})

	got := fields(t, err)
	if _, ok := got["id"]; !ok {
		t.Errorf("expected id violation, got %v", got)
	}
	if _, ok := got["timestamp"]; !ok {
		t.Errorf("expected timestamp violation, got %v", got)
	}
}

func TestValidateTransfer_NonPositiveAmount(t *testing.T) {
	v := NewRequestValidator()
	for _, amount := range []string{"0", "-5.00"} {
		err := v.ValidateTransfer(domain.TransferRequest{
			FromAccountID: int64Ptr(1),
			ToAccountID:   int64Ptr(2),
			Amount:        decimalPtr(amount),
		})
		got := fields(t, err)
		if _, ok := got["amount"]; !ok {
			t.Errorf("expected amount violation for %s, got %v", amount, got)
		}
	}
}
