package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kredio/kredio-backend/internal/domain"
)

// DebitCardTransactionRepository implements domain.DebitCardTransactionRepository
// using PostgreSQL
type DebitCardTransactionRepository struct {
	pool *pgxpool.Pool
}

// NewDebitCardTransactionRepository creates a new DebitCardTransactionRepository
func NewDebitCardTransactionRepository(pool *pgxpool.Pool) *DebitCardTransactionRepository {
	return &DebitCardTransactionRepository{pool: pool}
}

const debitCardTransactionColumns = `id, debit_card_id, amount, currency_code, created_at`

func scanDebitCardTransaction(row pgx.Row) (*domain.DebitCardTransaction, error) {
	var transaction domain.DebitCardTransaction
	err := row.Scan(
		&transaction.ID,
		&transaction.DebitCardID,
		&transaction.Amount,
		&transaction.CurrencyCode,
		&transaction.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrDebitCardTransactionNotFound
		}
		return nil, err
	}
	return &transaction, nil
}

// Create records a new transaction
func (r *DebitCardTransactionRepository) Create(transaction *domain.DebitCardTransaction) (*domain.DebitCardTransaction, error) {
	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO debit_card_transactions (debit_card_id, amount, currency_code)
		VALUES ($1, $2, $3)
		RETURNING `+debitCardTransactionColumns,
		transaction.DebitCardID,
		transaction.Amount,
		transaction.CurrencyCode,
	)
	return scanDebitCardTransaction(row)
}

// GetByID retrieves a transaction by its ID
func (r *DebitCardTransactionRepository) GetByID(id int32) (*domain.DebitCardTransaction, error) {
	row := r.pool.QueryRow(context.Background(), `
		SELECT `+debitCardTransactionColumns+`
		FROM debit_card_transactions
		WHERE id = $1`,
		id,
	)
	return scanDebitCardTransaction(row)
}

// GetByDebitCardID retrieves a card's transactions, newest first
func (r *DebitCardTransactionRepository) GetByDebitCardID(debitCardID int32) ([]*domain.DebitCardTransaction, error) {
	rows, err := r.pool.Query(context.Background(), `
		SELECT `+debitCardTransactionColumns+`
		FROM debit_card_transactions
		WHERE debit_card_id = $1
		ORDER BY created_at DESC, id DESC`,
		debitCardID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := []*domain.DebitCardTransaction{}
	for rows.Next() {
		transaction, err := scanDebitCardTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, transaction)
	}
	return transactions, rows.Err()
}
