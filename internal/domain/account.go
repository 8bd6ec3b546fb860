package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Account struct {
	ID                   int64           `json:"account_id"`
	DocumentNumber       string          `json:"document_number"`
	AvailableCreditLimit decimal.Decimal `json:"available_credit_limit"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

type AccountRepository interface {
	CreateAccount(account *Account) error
	GetAccount(id int64) (*Account, error)
	// GetAccountForUpdate locks the account row for the duration of the
	// surrounding storage transaction. Outside a transaction it behaves
	// like GetAccount.
	GetAccountForUpdate(id int64) (*Account, error)
	// GetAccountByDocumentNumber returns (nil, nil) when no account with
	// that document number exists.
	GetAccountByDocumentNumber(documentNumber string) (*Account, error)
	UpdateCreditLimit(id int64, newLimit decimal.Decimal) error
}
