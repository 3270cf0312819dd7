package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

// Tx is an opaque transaction handle passed through repository methods.
// Concrete repositories type-switch it to their driver's transaction type;
// NoTX selects the plain connection pool.
type Tx any

// NoTX is passed where an operation should not join a transaction.
var NoTX Tx = nil

// TransactionManager opens a transaction, invokes fn, and commits on nil
// error or rolls back otherwise.
type TransactionManager interface {
	WithTx(ctx context.Context, opts pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
