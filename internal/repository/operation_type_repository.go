package repository

import (
	"database/sql"
	"log/slog"

	"credit-ledger/internal/domain"
	"credit-ledger/internal/errors"
)

// operation_types is seed data, read-only at runtime. There is no write path.
type operationTypeRepository struct {
	db     SQLExecutor
	logger *slog.Logger
}

func NewOperationTypeRepository(db SQLExecutor, logger *slog.Logger) domain.OperationTypeRepository {
	return &operationTypeRepository{
		db:     db,
		logger: logger,
	}
}

func (r *operationTypeRepository) GetOperationType(id int64) (*domain.OperationType, error) {
	query := `SELECT id, description FROM operation_types WHERE id = $1`

	var operationType domain.OperationType
	err := r.db.QueryRow(query, id).Scan(&operationType.ID, &operationType.Description)
	if err != nil {
		if err == sql.ErrNoRows {
			r.logger.Warn("Operation type not found", "operation_type_id", id)
			return nil, errors.ErrOperationTypeNotFound
		}
		r.logger.Error("Failed to get operation type", "operation_type_id", id, "error", err)
		return nil, errors.NewAppError(errors.InternalError, "failed to get operation type").WithDetails(err.Error())
	}

	return &operationType, nil
}
