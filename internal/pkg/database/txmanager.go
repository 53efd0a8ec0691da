package database

import "context"

// TxManager runs a function inside a single database transaction. Services
// depend on this interface rather than the concrete pool so the transactional
// boundary can be faked in unit tests.
type TxManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
