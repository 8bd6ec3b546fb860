package repository

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"credit-ledger/internal/domain"
	"credit-ledger/internal/errors"
)

type accountRepository struct {
	db     SQLExecutor
	logger *slog.Logger
}

func NewAccountRepository(db SQLExecutor, logger *slog.Logger) domain.AccountRepository {
	return &accountRepository{
		db:     db,
		logger: logger,
	}
}

func (r *accountRepository) CreateAccount(account *domain.Account) error {
	query := `
		INSERT INTO accounts (document_number, available_credit_limit, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	now := time.Now().UTC()
	err := r.db.QueryRow(
		query,
		account.DocumentNumber,
		account.AvailableCreditLimit.String(),
		now,
		now,
	).Scan(&account.ID)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" { // unique_violation
				r.logger.Warn("Duplicate document number on account creation", "document_number", account.DocumentNumber)
				return errors.ErrDuplicateDocument
			}
		}
		r.logger.Error("Failed to create account", "document_number", account.DocumentNumber, "error", err)
		return errors.NewAppError(errors.InternalError, "failed to create account").WithDetails(err.Error())
	}

	account.CreatedAt = now
	account.UpdatedAt = now
	r.logger.Info("Account created successfully", "account_id", account.ID)
	return nil
}

func (r *accountRepository) GetAccount(id int64) (*domain.Account, error) {
	query := `
		SELECT id, document_number, available_credit_limit, created_at, updated_at
		FROM accounts WHERE id = $1
	`

	return r.scanAccount(query, id)
}

func (r *accountRepository) GetAccountForUpdate(id int64) (*domain.Account, error) {
	query := `
		SELECT id, document_number, available_credit_limit, created_at, updated_at
		FROM accounts WHERE id = $1 FOR UPDATE
	`

	return r.scanAccount(query, id)
}

func (r *accountRepository) GetAccountByDocumentNumber(documentNumber string) (*domain.Account, error) {
	query := `
		SELECT id, document_number, available_credit_limit, created_at, updated_at
		FROM accounts WHERE document_number = $1
	`

	account, err := r.scanAccount(query, documentNumber)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok && appErr.Code == errors.AccountNotFound {
			return nil, nil
		}
		return nil, err
	}
	return account, nil
}

func (r *accountRepository) scanAccount(query string, arg interface{}) (*domain.Account, error) {
	var account domain.Account
	var limitStr string

	err := r.db.QueryRow(query, arg).Scan(
		&account.ID,
		&account.DocumentNumber,
		&limitStr,
		&account.CreatedAt,
		&account.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.ErrAccountNotFound
		}
		r.logger.Error("Failed to get account", "arg", arg, "error", err)
		return nil, errors.NewAppError(errors.InternalError, "failed to get account").WithDetails(err.Error())
	}

	limit, err := decimal.NewFromString(limitStr)
	if err != nil {
		r.logger.Error("Failed to parse credit limit", "account_id", account.ID, "limit_str", limitStr, "error", err)
		return nil, errors.NewAppError(errors.InternalError, "failed to parse credit limit").WithDetails(err.Error())
	}

	account.AvailableCreditLimit = limit
	return &account, nil
}

func (r *accountRepository) UpdateCreditLimit(id int64, newLimit decimal.Decimal) error {
	query := `
		UPDATE accounts
		SET available_credit_limit = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := r.db.Exec(query, newLimit.String(), time.Now().UTC(), id)
	if err != nil {
		r.logger.Error("Failed to update credit limit", "account_id", id, "error", err)
		return errors.NewAppError(errors.InternalError, "failed to update credit limit").WithDetails(err.Error())
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewAppError(errors.InternalError, "failed to get rows affected").WithDetails(err.Error())
	}

	if rowsAffected == 0 {
		r.logger.Warn("No account found to update", "account_id", id)
		return errors.ErrAccountNotFound
	}

	r.logger.Info("Credit limit updated", "account_id", id, "new_limit", newLimit)
	return nil
}
