package service

import (
	"strconv"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credit-ledger/internal/domain"
	"credit-ledger/internal/errors"
	"credit-ledger/internal/repository/memory"
)

func newPostingFixture(t *testing.T, initialLimit string) (*memory.Store, *TransactionService, *domain.Account) {
	t.Helper()

	store := memory.NewStore()
	accounts := NewAccountService(store, decimal.RequireFromString(initialLimit), testLogger())
	account, err := accounts.CreateAccount("12345678900")
	require.NoError(t, err)

	return store, NewTransactionService(store, nil, testLogger()), account
}

func getLimit(t *testing.T, store *memory.Store, accountID int64) decimal.Decimal {
	t.Helper()
	account, err := store.Accounts().GetAccount(accountID)
	require.NoError(t, err)
	return account.AvailableCreditLimit
}

func TestPostTransactionDebitIsStoredNegative(t *testing.T) {
	store, svc, account := newPostingFixture(t, "500.00")

	tx, err := svc.PostTransaction(&PostTransactionRequest{
		AccountID:       account.ID,
		OperationTypeID: domain.OperationPurchase,
		Amount:          decimal.RequireFromString("100.00"),
	})
	require.NoError(t, err)

	assert.NotZero(t, tx.ID)
	assert.Equal(t, account.ID, tx.AccountID)
	assert.True(t, tx.Amount.Equal(decimal.RequireFromString("-100.00")))
	assert.False(t, tx.EventDate.IsZero())
	assert.True(t, getLimit(t, store, account.ID).Equal(decimal.RequireFromString("400.00")))
}

func TestPostTransactionPaymentIsStoredPositive(t *testing.T) {
	store, svc, account := newPostingFixture(t, "400.00")

	tx, err := svc.PostTransaction(&PostTransactionRequest{
		AccountID:       account.ID,
		OperationTypeID: domain.OperationPayment,
		Amount:          decimal.RequireFromString("199.99"),
	})
	require.NoError(t, err)

	assert.True(t, tx.Amount.Equal(decimal.RequireFromString("199.99")))
	assert.True(t, getLimit(t, store, account.ID).Equal(decimal.RequireFromString("599.99")))
}

func TestPostTransactionPaymentOnZeroLimitAccount(t *testing.T) {
	// A fresh account with the default limit of zero can only accept a
	// payment as its first posting.
	store, svc, account := newPostingFixture(t, "0")

	_, err := svc.PostTransaction(&PostTransactionRequest{
		AccountID:       account.ID,
		OperationTypeID: domain.OperationWithdrawal,
		Amount:          decimal.RequireFromString("1.00"),
	})
	require.Error(t, err)

	tx, err := svc.PostTransaction(&PostTransactionRequest{
		AccountID:       account.ID,
		OperationTypeID: domain.OperationPayment,
		Amount:          decimal.RequireFromString("50.00"),
	})
	require.NoError(t, err)
	assert.True(t, tx.Amount.Equal(decimal.RequireFromString("50.00")))
	assert.True(t, getLimit(t, store, account.ID).Equal(decimal.RequireFromString("50.00")))
}

func TestPostTransactionRejectedWhenLimitWouldBeExceeded(t *testing.T) {
	store, svc, account := newPostingFixture(t, "500.00")

	_, err := svc.PostTransaction(&PostTransactionRequest{
		AccountID:       account.ID,
		OperationTypeID: domain.OperationPurchase,
		Amount:          decimal.RequireFromString("100.00"),
	})
	require.NoError(t, err)

	// 400.00 - 450.00 = -50.00, rejected
	_, err = svc.PostTransaction(&PostTransactionRequest{
		AccountID:       account.ID,
		OperationTypeID: domain.OperationWithdrawal,
		Amount:          decimal.RequireFromString("450.00"),
	})
	require.Error(t, err)

	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.TransactionInvalid, appErr.Code)

	// Nothing changed: limit intact, exactly the one earlier ledger row
	assert.True(t, getLimit(t, store, account.ID).Equal(decimal.RequireFromString("400.00")))
	assert.Len(t, store.AllTransactions(), 1)
}

func TestPostTransactionRejectedWhenLimitWouldHitZero(t *testing.T) {
	// The invariant is strict: a posting that lands exactly on zero fails.
	store, svc, account := newPostingFixture(t, "100.00")

	_, err := svc.PostTransaction(&PostTransactionRequest{
		AccountID:       account.ID,
		OperationTypeID: domain.OperationPurchase,
		Amount:          decimal.RequireFromString("100.00"),
	})
	require.Error(t, err)

	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.TransactionInvalid, appErr.Code)
	assert.True(t, getLimit(t, store, account.ID).Equal(decimal.RequireFromString("100.00")))
	assert.Empty(t, store.AllTransactions())
}

func TestPostTransactionNormalizesNegativeInput(t *testing.T) {
	store, svc, account := newPostingFixture(t, "500.00")

	tx, err := svc.PostTransaction(&PostTransactionRequest{
		AccountID:       account.ID,
		OperationTypeID: domain.OperationPurchase,
		Amount:          decimal.RequireFromString("-100.00"),
	})
	require.NoError(t, err)

	assert.True(t, tx.Amount.Equal(decimal.RequireFromString("-100.00")))
	assert.True(t, getLimit(t, store, account.ID).Equal(decimal.RequireFromString("400.00")))
}

func TestPostTransactionAccountNotFound(t *testing.T) {
	store := memory.NewStore()
	svc := NewTransactionService(store, nil, testLogger())

	_, err := svc.PostTransaction(&PostTransactionRequest{
		AccountID:       999,
		OperationTypeID: domain.OperationPurchase,
		Amount:          decimal.RequireFromString("10.00"),
	})
	require.Error(t, err)

	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.AccountNotFound, appErr.Code)
	assert.Empty(t, store.AllTransactions())
}

func TestPostTransactionOperationTypeNotFound(t *testing.T) {
	store, svc, account := newPostingFixture(t, "500.00")

	_, err := svc.PostTransaction(&PostTransactionRequest{
		AccountID:       account.ID,
		OperationTypeID: 7,
		Amount:          decimal.RequireFromString("10.00"),
	})
	require.Error(t, err)

	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.OperationTypeNotFound, appErr.Code)
	assert.True(t, getLimit(t, store, account.ID).Equal(decimal.RequireFromString("500.00")))
	assert.Empty(t, store.AllTransactions())
}

func TestPostTransactionCatalogRowWithoutSignRule(t *testing.T) {
	// A stored operation_types row outside the fixed catalog must not be
	// trusted for the sign; the posting is rejected instead.
	store, svc, account := newPostingFixture(t, "500.00")
	store.AddOperationType(domain.OperationType{ID: 9, Description: "Chargeback"})

	_, err := svc.PostTransaction(&PostTransactionRequest{
		AccountID:       account.ID,
		OperationTypeID: 9,
		Amount:          decimal.RequireFromString("10.00"),
	})
	require.Error(t, err)

	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.InvalidOperationType, appErr.Code)
	assert.True(t, getLimit(t, store, account.ID).Equal(decimal.RequireFromString("500.00")))
	assert.Empty(t, store.AllTransactions())
}

func TestPostTransactionZeroAmountRejected(t *testing.T) {
	_, svc, account := newPostingFixture(t, "500.00")

	_, err := svc.PostTransaction(&PostTransactionRequest{
		AccountID:       account.ID,
		OperationTypeID: domain.OperationPayment,
		Amount:          decimal.Zero,
	})
	require.Error(t, err)

	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.InvalidAmount, appErr.Code)
}

func TestPostTransactionEventIsPublished(t *testing.T) {
	store := memory.NewStore()
	accounts := NewAccountService(store, decimal.RequireFromString("500.00"), testLogger())
	account, err := accounts.CreateAccount("12345678900")
	require.NoError(t, err)

	publisher := &capturingPublisher{}
	svc := NewTransactionService(store, publisher, testLogger())

	tx, err := svc.PostTransaction(&PostTransactionRequest{
		AccountID:       account.ID,
		OperationTypeID: domain.OperationPurchase,
		Amount:          decimal.RequireFromString("100.00"),
	})
	require.NoError(t, err)

	require.Len(t, publisher.posted, 1)
	assert.Equal(t, tx.ID, publisher.posted[0].ID)
}

func TestPostTransactionNoEventOnFailure(t *testing.T) {
	store, _, account := newPostingFixture(t, "50.00")

	publisher := &capturingPublisher{}
	svc := NewTransactionService(store, publisher, testLogger())

	_, err := svc.PostTransaction(&PostTransactionRequest{
		AccountID:       account.ID,
		OperationTypeID: domain.OperationPurchase,
		Amount:          decimal.RequireFromString("50.00"),
	})
	require.Error(t, err)
	assert.Empty(t, publisher.posted)
}

func TestConcurrentPostingsAgainstSameAccount(t *testing.T) {
	store, svc, account := newPostingFixture(t, "100.00")

	// Ten concurrent debits of 30.00 against a limit of 100.00: only three
	// can succeed before a fourth would drive the limit to 10 - 30 <= 0.
	var wg sync.WaitGroup
	results := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.PostTransaction(&PostTransactionRequest{
				AccountID:       account.ID,
				OperationTypeID: domain.OperationPurchase,
				Amount:          decimal.RequireFromString("30.00"),
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		}
	}

	assert.Equal(t, 3, succeeded)
	assert.True(t, getLimit(t, store, account.ID).Equal(decimal.RequireFromString("10.00")))
	assert.Len(t, store.AllTransactions(), 3)
}

type capturingPublisher struct {
	posted []*domain.Transaction
}

func (p *capturingPublisher) TransactionPosted(tx *domain.Transaction) {
	p.posted = append(p.posted, tx)
}

func TestPostTransactionEventDateProgresses(t *testing.T) {
	_, svc, account := newPostingFixture(t, "1000.00")

	var last *domain.Transaction
	for i := 0; i < 3; i++ {
		tx, err := svc.PostTransaction(&PostTransactionRequest{
			AccountID:       account.ID,
			OperationTypeID: domain.OperationPayment,
			Amount:          decimal.NewFromInt(int64(i) + 1),
		})
		require.NoError(t, err)
		if last != nil {
			assert.False(t, tx.EventDate.Before(last.EventDate),
				"event dates must not go backwards (tx %s)", strconv.FormatInt(tx.ID, 10))
		}
		last = tx
	}
}
