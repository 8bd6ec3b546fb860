package repository

import (
	"database/sql"
	"log/slog"

	"credit-ledger/internal/domain"
	"credit-ledger/internal/errors"
)

// Store implements domain.Store on top of PostgreSQL.
type Store struct {
	executor SQLExecutor
	logger   *slog.Logger
}

// NewStore creates a new Store instance
func NewStore(db *sql.DB, logger *slog.Logger) *Store {
	return &Store{
		executor: db,
		logger:   logger,
	}
}

var _ domain.Store = (*Store)(nil)

// Accounts returns an AccountRepository using the current executor
func (s *Store) Accounts() domain.AccountRepository {
	return NewAccountRepository(s.executor, s.logger)
}

// OperationTypes returns an OperationTypeRepository using the current executor
func (s *Store) OperationTypes() domain.OperationTypeRepository {
	return NewOperationTypeRepository(s.executor, s.logger)
}

// Transactions returns a TransactionRepository using the current executor
func (s *Store) Transactions() domain.TransactionRepository {
	return NewTransactionRepository(s.executor, s.logger)
}

// WithTransaction executes a function within a database transaction
func (s *Store) WithTransaction(fn func(domain.Store) error) error {
	// Only sql.DB can begin transactions
	db, ok := s.executor.(*sql.DB)
	if !ok {
		return errors.ErrCannotBeginTransaction
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}

	txStore := &Store{
		executor: &TxWrapper{Tx: tx},
		logger:   s.logger,
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(txStore); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}
