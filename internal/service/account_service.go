package service

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"credit-ledger/internal/domain"
	"credit-ledger/internal/errors"
)

type AccountService struct {
	store              domain.Store
	defaultCreditLimit decimal.Decimal
	logger             *slog.Logger
}

func NewAccountService(store domain.Store, defaultCreditLimit decimal.Decimal, logger *slog.Logger) *AccountService {
	return &AccountService{
		store:              store,
		defaultCreditLimit: defaultCreditLimit,
		logger:             logger,
	}
}

// CreateAccount registers a new account under the given document number.
// The pre-check gives a clean conflict error; the unique index on
// document_number remains the final arbiter under concurrent creates.
func (s *AccountService) CreateAccount(documentNumber string) (*domain.Account, error) {
	documentNumber = strings.TrimSpace(documentNumber)
	if documentNumber == "" {
		return nil, errors.ErrInvalidDocumentNumber
	}

	s.logger.Info("Creating account", "document_number", documentNumber)

	existing, err := s.store.Accounts().GetAccountByDocumentNumber(documentNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		s.logger.Warn("Account with document number already exists", "document_number", documentNumber)
		return nil, errors.ErrDuplicateDocument
	}

	account := &domain.Account{
		DocumentNumber:       documentNumber,
		AvailableCreditLimit: s.defaultCreditLimit,
	}

	if err := s.store.Accounts().CreateAccount(account); err != nil {
		return nil, err
	}

	s.logger.Info("Account created successfully", "account_id", account.ID)
	return account, nil
}

func (s *AccountService) GetAccount(accountID string) (*domain.Account, error) {
	id, err := strconv.ParseInt(accountID, 10, 64)
	if err != nil || id <= 0 {
		return nil, errors.ErrInvalidAccountID
	}

	return s.store.Accounts().GetAccount(id)
}
