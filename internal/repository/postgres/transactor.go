package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so repository
// methods can share one implementation inside and outside transactions.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var errInvalidTx = errors.New("invalid transaction type")

// asTx asserts the opaque transaction handle passed through the domain
// interfaces back to a pgx.Tx.
func asTx(tx interface{}) (pgx.Tx, error) {
	pgxTx, ok := tx.(pgx.Tx)
	if !ok {
		return nil, errInvalidTx
	}
	return pgxTx, nil
}

// Transactor implements domain.Transactor on a pgx connection pool
type Transactor struct {
	pool *pgxpool.Pool
}

// NewTransactor creates a new Transactor
func NewTransactor(pool *pgxpool.Pool) *Transactor {
	return &Transactor{pool: pool}
}

// WithinTransaction runs fn inside a single database transaction. The
// transaction is rolled back if fn returns an error or panics, and
// committed otherwise.
func (t *Transactor) WithinTransaction(ctx context.Context, fn func(tx interface{}) error) error {
	tx, err := t.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
