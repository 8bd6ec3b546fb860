package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is an append-only ledger entry. Amount carries the adjusted
// signed value, not the raw caller input.
type Transaction struct {
	ID              int64           `json:"transaction_id"`
	AccountID       int64           `json:"account_id"`
	OperationTypeID int64           `json:"operation_type_id"`
	Amount          decimal.Decimal `json:"amount"`
	EventDate       time.Time       `json:"event_date"`
}

type TransactionRepository interface {
	CreateTransaction(tx *Transaction) error
}
