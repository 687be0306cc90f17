package domain

import "context"

// Transactor runs a function inside a single database transaction. The
// opaque tx handle is passed through to the repositories' *Tx methods.
// Loan creation and repayment each run under one transaction so that the
// read-compute-write sequence over a loan is a single atomic unit.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(tx interface{}) error) error
}
