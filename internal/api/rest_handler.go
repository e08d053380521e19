package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"banking_ledger/internal/domain"
	"banking_ledger/internal/processor"
	"banking_ledger/internal/repository"
	"banking_ledger/pkg/validator"
)

// timestampLayout renders transaction timestamps as ISO-8601 with
// millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

type APIHandler struct {
	processor      *processor.TransferProcessor
	logger         *slog.Logger
	requestTimeout time.Duration
}

func NewAPIHandler(proc *processor.TransferProcessor, logger *slog.Logger) *APIHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &APIHandler{
		processor:      proc,
		logger:         logger,
		requestTimeout: 30 * time.Second,
	}
}

type AccountResponse struct {
	ID        int64       `json:"id"`
	Balance   json.Number `json:"balance"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
}

type TransactionResponse struct {
	ID            int64       `json:"id"`
	FromAccountID int64       `json:"fromAccountId"`
	ToAccountID   int64       `json:"toAccountId"`
	Amount        json.Number `json:"amount"`
	Timestamp     string      `json:"timestamp"`
}

type ErrorResponse struct {
	Status  int               `json:"status"`
	Error   string            `json:"error"`
	Details map[string]string `json:"details"`
}

func toAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		ID:        a.ID,
		Balance:   json.Number(a.Balance.String()),
		FirstName: a.FirstName,
		LastName:  a.LastName,
	}
}

func toTransactionResponse(tx *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:            tx.ID,
		FromAccountID: tx.FromAccountID,
		ToAccountID:   tx.ToAccountID,
		Amount:        json.Number(tx.Amount.String()),
		Timestamp:     tx.Timestamp.Format(timestampLayout),
	}
}

func (h *APIHandler) CreateAccountHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	var req domain.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	account, err := h.processor.CreateAccount(ctx, req)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.sendJSON(w, toAccountResponse(account), http.StatusCreated)
}

func (h *APIHandler) ListAccountsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	accounts, err := h.processor.ListAccounts(ctx)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	result := make([]AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		result = append(result, toAccountResponse(a))
	}
	h.sendJSON(w, result, http.StatusOK)
}

func (h *APIHandler) GetAccountHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	id, ok := h.accountID(w, r)
	if !ok {
		return
	}

	account, err := h.processor.GetAccount(ctx, id)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.sendJSON(w, toAccountResponse(account), http.StatusOK)
}

func (h *APIHandler) TransferHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	var req domain.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	tx, err := h.processor.Transfer(ctx, req)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.sendJSON(w, toTransactionResponse(tx), http.StatusOK)
}

func (h *APIHandler) ListTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	transactions, err := h.processor.ListTransactions(ctx)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.sendJSON(w, toTransactionResponses(transactions), http.StatusOK)
}

func (h *APIHandler) AccountTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	id, ok := h.accountID(w, r)
	if !ok {
		return
	}

	transactions, err := h.processor.ListTransactionsForAccount(ctx, id)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.sendJSON(w, toTransactionResponses(transactions), http.StatusOK)
}

func (h *APIHandler) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
	}
	h.sendJSON(w, response, http.StatusOK)
}

func toTransactionResponses(transactions []*domain.Transaction) []TransactionResponse {
	result := make([]TransactionResponse, 0, len(transactions))
	for _, tx := range transactions {
		result = append(result, toTransactionResponse(tx))
	}
	return result
}

func (h *APIHandler) accountID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("accountId"), 10, 64)
	if err != nil {
		h.sendError(w, http.StatusBadRequest, map[string]string{"accountId": "account id must be a positive integer"})
		return 0, false
	}
	return id, true
}

// writeDomainError maps engine outcomes to status codes: validation failures
// and insufficient funds to 400, missing accounts to 404.
func (h *APIHandler) writeDomainError(w http.ResponseWriter, err error) {
	var vErr *validator.ValidationError
	switch {
	case errors.As(err, &vErr):
		h.sendError(w, http.StatusBadRequest, vErr.Fields)
	case errors.Is(err, repository.ErrNotFound):
		h.sendError(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, repository.ErrInsufficientFunds):
		h.sendError(w, http.StatusBadRequest, map[string]string{"general": err.Error()})
	case errors.Is(err, repository.ErrInvalidInput):
		h.sendError(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		h.logger.Error("request failed", slog.String("error", err.Error()))
		h.sendError(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func (h *APIHandler) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", slog.String("error", err.Error()))
	}
}

func (h *APIHandler) sendError(w http.ResponseWriter, statusCode int, details map[string]string) {
	errorResponse := ErrorResponse{
		Status:  statusCode,
		Error:   http.StatusText(statusCode),
		Details: details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(errorResponse)

	h.logger.Warn("API error response",
		slog.Int("status", statusCode),
		slog.Any("details", details))
}

func (h *APIHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/accounts", h.CreateAccountHandler)
	mux.HandleFunc("GET /api/accounts", h.ListAccountsHandler)
	mux.HandleFunc("GET /api/accounts/{accountId}", h.GetAccountHandler)
	mux.HandleFunc("GET /api/accounts/{accountId}/transactions", h.AccountTransactionsHandler)
	mux.HandleFunc("POST /api/transactions", h.TransferHandler)
	mux.HandleFunc("GET /api/transactions", h.ListTransactionsHandler)
	mux.HandleFunc("GET /api/health", h.HealthCheckHandler)
}
