package repository

import (
	"log/slog"

	"github.com/lib/pq"

	"credit-ledger/internal/domain"
	"credit-ledger/internal/errors"
)

type transactionRepository struct {
	db     SQLExecutor
	logger *slog.Logger
}

func NewTransactionRepository(db SQLExecutor, logger *slog.Logger) domain.TransactionRepository {
	return &transactionRepository{
		db:     db,
		logger: logger,
	}
}

// CreateTransaction appends a ledger row. Rows are immutable once written;
// no update path exists.
func (r *transactionRepository) CreateTransaction(tx *domain.Transaction) error {
	query := `
		INSERT INTO transactions (account_id, operation_type_id, amount, event_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.QueryRow(
		query,
		tx.AccountID,
		tx.OperationTypeID,
		tx.Amount.String(),
		tx.EventDate,
	).Scan(&tx.ID)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23503" { // foreign_key_violation
				r.logger.Warn("Transaction references missing row",
					"account_id", tx.AccountID,
					"operation_type_id", tx.OperationTypeID,
					"constraint", pqErr.Constraint)
				return errors.ErrAccountNotFound
			}
		}
		r.logger.Error("Failed to create transaction",
			"account_id", tx.AccountID,
			"operation_type_id", tx.OperationTypeID,
			"amount", tx.Amount,
			"error", err)
		return errors.NewAppError(errors.InternalError, "failed to create transaction").WithDetails(err.Error())
	}

	r.logger.Info("Transaction created successfully", "transaction_id", tx.ID)
	return nil
}
