package service

import (
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"credit-ledger/internal/domain"
	"credit-ledger/internal/errors"
	"credit-ledger/internal/events"
)

// TransactionService is the posting engine: it turns a positive caller
// amount into a signed ledger entry and keeps the account's available
// credit limit strictly positive.
type TransactionService struct {
	store     domain.Store
	publisher events.Publisher
	logger    *slog.Logger
}

func NewTransactionService(store domain.Store, publisher events.Publisher, logger *slog.Logger) *TransactionService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &TransactionService{
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

type PostTransactionRequest struct {
	AccountID       int64
	OperationTypeID int64
	Amount          decimal.Decimal
}

// PostTransaction records a transaction against an account. The whole
// sequence runs inside one storage transaction with the account row locked,
// so two concurrent postings against the same account cannot both read a
// stale limit. On any failure neither the account nor the ledger changes.
func (s *TransactionService) PostTransaction(req *PostTransactionRequest) (*domain.Transaction, error) {
	s.logger.Info("Posting transaction",
		"account_id", req.AccountID,
		"operation_type_id", req.OperationTypeID,
		"amount", req.Amount)

	// The handlers validate input first; re-check here so the engine holds
	// its invariants for any caller.
	if req.AccountID <= 0 {
		return nil, errors.ErrInvalidAccountID
	}
	if req.Amount.IsZero() {
		return nil, errors.ErrInvalidAmount
	}

	var transaction *domain.Transaction

	err := s.store.WithTransaction(func(store domain.Store) error {
		account, err := store.Accounts().GetAccountForUpdate(req.AccountID)
		if err != nil {
			return err
		}

		if _, err := store.OperationTypes().GetOperationType(req.OperationTypeID); err != nil {
			return err
		}

		// The sign comes from the fixed catalog, not the stored row.
		signedAmount, err := domain.SignedAmount(req.OperationTypeID, req.Amount)
		if err != nil {
			return err
		}

		newLimit := account.AvailableCreditLimit.Add(signedAmount)
		if newLimit.LessThanOrEqual(decimal.Zero) {
			s.logger.Warn("Posting rejected: credit limit would be exceeded",
				"account_id", account.ID,
				"available_credit_limit", account.AvailableCreditLimit,
				"amount", signedAmount)
			return errors.ErrTransactionInvalid
		}

		if err := store.Accounts().UpdateCreditLimit(account.ID, newLimit); err != nil {
			return err
		}

		transaction = &domain.Transaction{
			AccountID:       account.ID,
			OperationTypeID: req.OperationTypeID,
			Amount:          signedAmount,
			EventDate:       time.Now().UTC(),
		}
		return store.Transactions().CreateTransaction(transaction)
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("Transaction posted successfully",
		"transaction_id", transaction.ID,
		"account_id", transaction.AccountID,
		"amount", transaction.Amount)

	s.publisher.TransactionPosted(transaction)

	return transaction, nil
}
