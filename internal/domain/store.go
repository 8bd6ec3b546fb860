package domain

// Store groups the repositories behind a single unit of work.
type Store interface {
	Accounts() AccountRepository
	OperationTypes() OperationTypeRepository
	Transactions() TransactionRepository

	// WithTransaction runs fn against a Store whose repositories share one
	// storage transaction. The transaction commits when fn returns nil and
	// rolls back on any error, leaving no partial state behind.
	WithTransaction(fn func(Store) error) error
}
