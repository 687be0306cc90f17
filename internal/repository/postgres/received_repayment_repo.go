package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kredio/kredio-backend/internal/domain"
)

// ReceivedRepaymentRepository implements domain.ReceivedRepaymentRepository
// using PostgreSQL. Rows are append-only.
type ReceivedRepaymentRepository struct {
	pool *pgxpool.Pool
}

// NewReceivedRepaymentRepository creates a new ReceivedRepaymentRepository
func NewReceivedRepaymentRepository(pool *pgxpool.Pool) *ReceivedRepaymentRepository {
	return &ReceivedRepaymentRepository{pool: pool}
}

const receivedRepaymentColumns = `id, loan_id, amount, currency_code, received_at, created_at`

func scanReceivedRepayment(row pgx.Row) (*domain.ReceivedRepayment, error) {
	var repayment domain.ReceivedRepayment
	err := row.Scan(
		&repayment.ID,
		&repayment.LoanID,
		&repayment.Amount,
		&repayment.CurrencyCode,
		&repayment.ReceivedAt,
		&repayment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &repayment, nil
}

// CreateTx records a received repayment within a transaction
func (r *ReceivedRepaymentRepository) CreateTx(tx interface{}, repayment *domain.ReceivedRepayment) (*domain.ReceivedRepayment, error) {
	pgxTx, err := asTx(tx)
	if err != nil {
		return nil, err
	}

	row := pgxTx.QueryRow(context.Background(), `
		INSERT INTO received_repayments (loan_id, amount, currency_code, received_at)
		VALUES ($1, $2, $3, $4)
		RETURNING `+receivedRepaymentColumns,
		repayment.LoanID,
		repayment.Amount,
		repayment.CurrencyCode,
		repayment.ReceivedAt,
	)
	return scanReceivedRepayment(row)
}

// GetByLoanID retrieves a loan's repayment receipts, newest first
func (r *ReceivedRepaymentRepository) GetByLoanID(loanID int32) ([]*domain.ReceivedRepayment, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT `+receivedRepaymentColumns+`
		FROM received_repayments
		WHERE loan_id = $1
		ORDER BY received_at DESC, id DESC`,
		loanID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	repayments := []*domain.ReceivedRepayment{}
	for rows.Next() {
		repayment, err := scanReceivedRepayment(rows)
		if err != nil {
			return nil, err
		}
		repayments = append(repayments, repayment)
	}
	return repayments, rows.Err()
}
