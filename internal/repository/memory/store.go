// Package memory provides an in-memory domain.Store used by the service and
// handler tests. Rollback is emulated by snapshotting state before the
// transaction function runs and restoring it on error.
package memory

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"credit-ledger/internal/domain"
	"credit-ledger/internal/errors"
)

type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex

	accounts       map[int64]domain.Account
	operationTypes map[int64]domain.OperationType
	transactions   []domain.Transaction

	nextAccountID     int64
	nextTransactionID int64
}

// NewStore returns an empty store seeded with the fixed operation type
// catalog.
func NewStore() *Store {
	return &Store{
		accounts: make(map[int64]domain.Account),
		operationTypes: map[int64]domain.OperationType{
			domain.OperationPurchase:            {ID: domain.OperationPurchase, Description: "Normal Purchase"},
			domain.OperationInstallmentPurchase: {ID: domain.OperationInstallmentPurchase, Description: "Purchase with installments"},
			domain.OperationWithdrawal:          {ID: domain.OperationWithdrawal, Description: "Withdrawal"},
			domain.OperationPayment:             {ID: domain.OperationPayment, Description: "Credit Voucher"},
		},
		nextAccountID:     1,
		nextTransactionID: 1,
	}
}

var _ domain.Store = (*Store)(nil)

func (s *Store) Accounts() domain.AccountRepository { return (*accountRepo)(s) }

func (s *Store) OperationTypes() domain.OperationTypeRepository { return (*operationTypeRepo)(s) }

func (s *Store) Transactions() domain.TransactionRepository { return (*transactionRepo)(s) }

func (s *Store) WithTransaction(fn func(domain.Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snapshot := s.snapshot()
	if err := fn(s); err != nil {
		s.restore(snapshot)
		return err
	}
	return nil
}

type state struct {
	accounts          map[int64]domain.Account
	transactions      []domain.Transaction
	nextAccountID     int64
	nextTransactionID int64
}

func (s *Store) snapshot() state {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts := make(map[int64]domain.Account, len(s.accounts))
	for id, account := range s.accounts {
		accounts[id] = account
	}
	return state{
		accounts:          accounts,
		transactions:      append([]domain.Transaction(nil), s.transactions...),
		nextAccountID:     s.nextAccountID,
		nextTransactionID: s.nextTransactionID,
	}
}

func (s *Store) restore(st state) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts = st.accounts
	s.transactions = st.transactions
	s.nextAccountID = st.nextAccountID
	s.nextTransactionID = st.nextTransactionID
}

// AllTransactions returns a copy of the ledger, for assertions.
func (s *Store) AllTransactions() []domain.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Transaction(nil), s.transactions...)
}

// AddOperationType injects a catalog row, for tests that need a row without
// a sign rule.
func (s *Store) AddOperationType(operationType domain.OperationType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.operationTypes[operationType.ID] = operationType
}

type accountRepo Store

func (r *accountRepo) CreateAccount(account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.accounts {
		if existing.DocumentNumber == account.DocumentNumber {
			return errors.ErrDuplicateDocument
		}
	}

	account.ID = r.nextAccountID
	r.nextAccountID++
	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now
	r.accounts[account.ID] = *account
	return nil
}

func (r *accountRepo) GetAccount(id int64) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[id]
	if !ok {
		return nil, errors.ErrAccountNotFound
	}
	return &account, nil
}

func (r *accountRepo) GetAccountForUpdate(id int64) (*domain.Account, error) {
	return r.GetAccount(id)
}

func (r *accountRepo) GetAccountByDocumentNumber(documentNumber string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, account := range r.accounts {
		if account.DocumentNumber == documentNumber {
			found := account
			return &found, nil
		}
	}
	return nil, nil
}

func (r *accountRepo) UpdateCreditLimit(id int64, newLimit decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[id]
	if !ok {
		return errors.ErrAccountNotFound
	}
	account.AvailableCreditLimit = newLimit
	account.UpdatedAt = time.Now().UTC()
	r.accounts[id] = account
	return nil
}

type operationTypeRepo Store

func (r *operationTypeRepo) GetOperationType(id int64) (*domain.OperationType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	operationType, ok := r.operationTypes[id]
	if !ok {
		return nil, errors.ErrOperationTypeNotFound
	}
	return &operationType, nil
}

type transactionRepo Store

func (r *transactionRepo) CreateTransaction(tx *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx.ID = r.nextTransactionID
	r.nextTransactionID++
	r.transactions = append(r.transactions, *tx)
	return nil
}
