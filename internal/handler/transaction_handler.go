package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"credit-ledger/internal/errors"
	"credit-ledger/internal/service"
)

type TransactionHandler struct {
	transactionService *service.TransactionService
}

func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

type PostTransactionRequest struct {
	AccountID       json.Number `json:"account_id"`
	OperationTypeID json.Number `json:"operation_type_id"`
	Amount          string      `json:"amount"`
}

type TransactionResponse struct {
	TransactionID   int64     `json:"transaction_id"`
	AccountID       int64     `json:"account_id"`
	OperationTypeID int64     `json:"operation_type_id"`
	Amount          string    `json:"amount"`
	EventDate       time.Time `json:"event_date"`
}

func (h *TransactionHandler) PostTransaction(w http.ResponseWriter, r *http.Request) {
	var req PostTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewAppError(errors.InvalidInput, "invalid request body").WithDetails(err.Error()))
		return
	}

	accountID, err := req.AccountID.Int64()
	if err != nil || accountID <= 0 {
		writeError(w, errors.ErrInvalidAccountID)
		return
	}

	operationTypeID, err := req.OperationTypeID.Int64()
	if err != nil || operationTypeID <= 0 {
		writeError(w, errors.NewAppError(errors.InvalidInput, "operation type ID must be a positive integer"))
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, errors.NewAppError(errors.InvalidAmount, "invalid amount format").WithDetails(err.Error()))
		return
	}
	if !amount.IsPositive() {
		writeError(w, errors.ErrInvalidAmount)
		return
	}

	transaction, err := h.transactionService.PostTransaction(&service.PostTransactionRequest{
		AccountID:       accountID,
		OperationTypeID: operationTypeID,
		Amount:          amount,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response := TransactionResponse{
		TransactionID:   transaction.ID,
		AccountID:       transaction.AccountID,
		OperationTypeID: transaction.OperationTypeID,
		Amount:          transaction.Amount.String(),
		EventDate:       transaction.EventDate,
	}

	writeJSON(w, http.StatusCreated, response)
}
