package processor

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"banking_ledger/internal/domain"
	"banking_ledger/internal/repository"
	"banking_ledger/pkg/metrics"
	"banking_ledger/pkg/validator"
)

// TransferProcessor validates creation and transfer requests, delegates the
// atomic state changes to the store, and exposes the read-only projections.
type TransferProcessor struct {
	store     repository.Store
	validator *validator.RequestValidator
	metrics   *metrics.Collector
	logger    *slog.Logger
}

func NewTransferProcessor(store repository.Store, collector *metrics.Collector, logger *slog.Logger) *TransferProcessor {
	if logger == nil {
		logger = slog.Default()
	}
	if collector == nil {
		collector = metrics.NewCollector(logger)
	}
	return &TransferProcessor{
		store:     store,
		validator: validator.NewRequestValidator(),
		metrics:   collector,
		logger:    logger,
	}
}

func (p *TransferProcessor) CreateAccount(ctx context.Context, req domain.CreateAccountRequest) (*domain.Account, error) {
	if err := p.validator.ValidateCreateAccount(req); err != nil {
		return nil, err
	}

	account, err := p.store.CreateAccount(ctx, *req.Balance, *req.FirstName, *req.LastName)
	if err != nil {
		return nil, err
	}

	p.metrics.RecordAccountCreated()
	p.metrics.SetAccountBalance(account.ID, account.Balance)
	p.logger.InfoContext(ctx, "account created",
		slog.Int64("account_id", account.ID),
		slog.String("balance", account.Balance.String()))
	return account, nil
}

func (p *TransferProcessor) Transfer(ctx context.Context, req domain.TransferRequest) (*domain.Transaction, error) {
	if err := p.validator.ValidateTransfer(req); err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := p.store.Transfer(ctx, *req.FromAccountID, *req.ToAccountID, *req.Amount)
	p.metrics.RecordTransfer(time.Since(start), err == nil)

	if err != nil {
		if errors.Is(err, repository.ErrSameAccount) {
			err = validator.NewValidationError("general", "cannot transfer to the same account")
		}
		p.logger.WarnContext(ctx, "transfer rejected",
			slog.Int64("from_account", *req.FromAccountID),
			slog.Int64("to_account", *req.ToAccountID),
			slog.String("error", err.Error()))
		return nil, err
	}

	p.metrics.SetAccountBalance(result.From.ID, result.From.Balance)
	p.metrics.SetAccountBalance(result.To.ID, result.To.Balance)
	p.logger.InfoContext(ctx, "transfer completed",
		slog.Int64("transaction_id", result.Transaction.ID),
		slog.Int64("from_account", result.From.ID),
		slog.Int64("to_account", result.To.ID),
		slog.String("amount", result.Transaction.Amount.String()))
	return result.Transaction, nil
}

func (p *TransferProcessor) GetAccount(ctx context.Context, id int64) (*domain.Account, error) {
	return p.store.GetAccount(ctx, id)
}

func (p *TransferProcessor) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	return p.store.ListAccounts(ctx)
}

func (p *TransferProcessor) ListTransactions(ctx context.Context) ([]*domain.Transaction, error) {
	return p.store.ListTransactions(ctx)
}

func (p *TransferProcessor) ListTransactionsForAccount(ctx context.Context, id int64) ([]*domain.Transaction, error) {
	return p.store.ListTransactionsForAccount(ctx, id)
}
