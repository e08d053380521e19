package validator

import (
	"sort"
	"strings"

	"banking_ledger/internal/domain"
)

// ValidationError carries every violated constraint as a field-to-message
// map, so callers see all problems at once instead of only the first found.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError builds a single-field validation failure.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

type RequestValidator struct{}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{}
}

func (v *RequestValidator) ValidateCreateAccount(req domain.CreateAccountRequest) error {
	errs := make(map[string]string)

	if req.Balance == nil {
		errs["balance"] = "balance is required"
	} else {
		if req.Balance.IsNegative() {
			errs["balance"] = "balance must be zero or positive"
		}
		if domain.DecimalPlaces(*req.Balance) > domain.MaxDecimalPlaces {
			errs["balance"] = "balance must have at most two decimal places"
		}
	}
	if req.FirstName == nil || strings.TrimSpace(*req.FirstName) == "" {
		errs["firstName"] = "first name is required"
	}
	if req.LastName == nil || strings.TrimSpace(*req.LastName) == "" {
		errs["lastName"] = "last name is required"
	}
	if req.ID != nil {
		errs["id"] = "id is assigned by the service and must not be provided"
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

func (v *RequestValidator) ValidateTransfer(req domain.TransferRequest) error {
	errs := make(map[string]string)

	if req.FromAccountID == nil {
		errs["fromAccountId"] = "from account id is required"
	}
	if req.ToAccountID == nil {
		errs["toAccountId"] = "to account id is required"
	}
	if req.Amount == nil {
		errs["amount"] = "amount is required"
	} else {
		if req.Amount.Sign() <= 0 {
			errs["amount"] = "amount must be positive"
		}
		if domain.DecimalPlaces(*req.Amount) > domain.MaxDecimalPlaces {
			errs["amount"] = "amount must have at most two decimal places"
		}
	}
	if req.ID != nil {
		errs["id"] = "id is assigned by the service and must not be provided"
	}
	if req.Timestamp != nil {
		errs["timestamp"] = "timestamp is assigned by the service and must not be provided"
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
