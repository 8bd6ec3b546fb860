package errors

import (
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	InvalidInput          ErrorCode = "invalid_input"
	InvalidAmount         ErrorCode = "invalid_amount"
	InvalidOperationType  ErrorCode = "invalid_operation_type"
	AccountNotFound       ErrorCode = "account_not_found"
	OperationTypeNotFound ErrorCode = "operation_type_not_found"
	DuplicateDocument     ErrorCode = "duplicate_document"
	TransactionInvalid    ErrorCode = "transaction_invalid"
	InternalError         ErrorCode = "internal_error"
)

type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

func (e AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAppError(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func NewAppErrorf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// HTTPStatus maps the error code to the transport status used by the
// handlers: validation 400, missing entity 404, creation conflict 409,
// credit-limit violation 422.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case InvalidInput, InvalidAmount, InvalidOperationType:
		return http.StatusBadRequest
	case AccountNotFound, OperationTypeNotFound:
		return http.StatusNotFound
	case DuplicateDocument:
		return http.StatusConflict
	case TransactionInvalid:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Predefined errors for common cases
var (
	ErrAccountNotFound       = NewAppError(AccountNotFound, "account not found")
	ErrOperationTypeNotFound = NewAppError(OperationTypeNotFound, "operation type not found")
	ErrDuplicateDocument     = NewAppError(DuplicateDocument, "an account with this document number already exists")
	ErrTransactionInvalid    = NewAppError(TransactionInvalid, "transaction would exceed the available credit limit")
	ErrInvalidAmount         = NewAppError(InvalidAmount, "amount must be a positive decimal")
	ErrInvalidAccountID      = NewAppError(InvalidInput, "account ID must be a positive integer")
	ErrInvalidDocumentNumber = NewAppError(InvalidInput, "document number is required")

	ErrCannotBeginTransaction = NewAppError(InternalError, "cannot begin transaction from within a transaction")
)
