package repositories

import "context"

// UnitOfWork runs a function inside one store transaction.
type UnitOfWork interface {
	// WithTx begins a transaction, runs fn with a context carrying it, commits
	// when fn returns nil and rolls back on any error or panic. Repository calls
	// made with the context passed to fn join the transaction. A WithTx call on
	// a context that already carries a transaction joins it instead of nesting.
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}
