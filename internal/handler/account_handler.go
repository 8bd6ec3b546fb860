package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"credit-ledger/internal/domain"
	"credit-ledger/internal/errors"
	"credit-ledger/internal/service"
)

type AccountHandler struct {
	accountService *service.AccountService
}

func NewAccountHandler(accountService *service.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
	}
}

type CreateAccountRequest struct {
	DocumentNumber string `json:"document_number"`
}

type AccountResponse struct {
	AccountID            int64  `json:"account_id"`
	DocumentNumber       string `json:"document_number"`
	AvailableCreditLimit string `json:"available_credit_limit"`
}

func newAccountResponse(account *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:            account.ID,
		DocumentNumber:       account.DocumentNumber,
		AvailableCreditLimit: account.AvailableCreditLimit.String(),
	}
}

func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewAppError(errors.InvalidInput, "invalid request body").WithDetails(err.Error()))
		return
	}

	if strings.TrimSpace(req.DocumentNumber) == "" {
		writeError(w, errors.ErrInvalidDocumentNumber)
		return
	}

	account, err := h.accountService.CreateAccount(req.DocumentNumber)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, newAccountResponse(account))
}

func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	accountID := vars["account_id"]

	account, err := h.accountService.GetAccount(accountID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newAccountResponse(account))
}
