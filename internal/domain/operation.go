package domain

import (
	"github.com/shopspring/decimal"

	"credit-ledger/internal/errors"
)

// Operation type identifiers form a fixed catalog. The sign of a posting is
// derived from the identifier alone, never from the stored operation_types
// row, so bad seed data cannot flip a debit into a credit.
const (
	OperationPurchase            int64 = 1
	OperationInstallmentPurchase int64 = 2
	OperationWithdrawal          int64 = 3
	OperationPayment             int64 = 4
)

type OperationType struct {
	ID          int64  `json:"operation_type_id"`
	Description string `json:"description"`
}

type OperationTypeRepository interface {
	GetOperationType(id int64) (*OperationType, error)
}

// SignedAmount converts a raw amount into the signed value stored in the
// ledger: purchases and withdrawals are recorded as negative, payments as
// positive. The absolute value is taken first, so a pre-negated input still
// produces a correctly signed result.
func SignedAmount(operationTypeID int64, amount decimal.Decimal) (decimal.Decimal, error) {
	switch operationTypeID {
	case OperationPayment:
		return amount.Abs(), nil
	case OperationPurchase, OperationInstallmentPurchase, OperationWithdrawal:
		return amount.Abs().Neg(), nil
	default:
		return decimal.Zero, errors.NewAppErrorf(errors.InvalidOperationType,
			"no sign rule for operation type %d", operationTypeID)
	}
}
