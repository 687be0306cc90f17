package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kredio/kredio-backend/internal/domain"
)

// ScheduledRepaymentRepository implements domain.ScheduledRepaymentRepository
// using PostgreSQL
type ScheduledRepaymentRepository struct {
	pool *pgxpool.Pool
}

// NewScheduledRepaymentRepository creates a new ScheduledRepaymentRepository
func NewScheduledRepaymentRepository(pool *pgxpool.Pool) *ScheduledRepaymentRepository {
	return &ScheduledRepaymentRepository{pool: pool}
}

const scheduledRepaymentColumns = `id, loan_id, amount, outstanding_amount, currency_code, due_date, status, created_at, updated_at`

func scanScheduledRepayment(row pgx.Row) (*domain.ScheduledRepayment, error) {
	var repayment domain.ScheduledRepayment
	err := row.Scan(
		&repayment.ID,
		&repayment.LoanID,
		&repayment.Amount,
		&repayment.OutstandingAmount,
		&repayment.CurrencyCode,
		&repayment.DueDate,
		&repayment.Status,
		&repayment.CreatedAt,
		&repayment.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrScheduledRepaymentNotFound
		}
		return nil, err
	}
	return &repayment, nil
}

// CreateBatchTx inserts a loan's full schedule within a transaction
func (r *ScheduledRepaymentRepository) CreateBatchTx(tx interface{}, repayments []*domain.ScheduledRepayment) error {
	pgxTx, err := asTx(tx)
	if err != nil {
		return err
	}

	ctx := context.Background()
	batch := &pgx.Batch{}
	for _, repayment := range repayments {
		batch.Queue(`
			INSERT INTO scheduled_repayments (loan_id, amount, outstanding_amount, currency_code, due_date, status)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			repayment.LoanID,
			repayment.Amount,
			repayment.OutstandingAmount,
			repayment.CurrencyCode,
			repayment.DueDate,
			repayment.Status,
		)
	}

	results := pgxTx.SendBatch(ctx, batch)
	defer results.Close()

	for range repayments {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return results.Close()
}

// GetByLoanID retrieves a loan's installments ordered by due date ascending,
// optionally filtered by status
func (r *ScheduledRepaymentRepository) GetByLoanID(loanID int32, status domain.ScheduledRepaymentStatus) ([]*domain.ScheduledRepayment, error) {
	return r.getByLoanID(context.Background(), r.pool, loanID, status)
}

// GetByLoanIDTx is GetByLoanID within a transaction
func (r *ScheduledRepaymentRepository) GetByLoanIDTx(tx interface{}, loanID int32, status domain.ScheduledRepaymentStatus) ([]*domain.ScheduledRepayment, error) {
	pgxTx, err := asTx(tx)
	if err != nil {
		return nil, err
	}
	return r.getByLoanID(context.Background(), pgxTx, loanID, status)
}

func (r *ScheduledRepaymentRepository) getByLoanID(ctx context.Context, q querier, loanID int32, status domain.ScheduledRepaymentStatus) ([]*domain.ScheduledRepayment, error) {
	// An empty status matches everything
	rows, err := q.Query(ctx, `
		SELECT `+scheduledRepaymentColumns+`
		FROM scheduled_repayments
		WHERE loan_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY due_date ASC, id ASC`,
		loanID, string(status),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	repayments := []*domain.ScheduledRepayment{}
	for rows.Next() {
		repayment, err := scanScheduledRepayment(rows)
		if err != nil {
			return nil, err
		}
		repayments = append(repayments, repayment)
	}
	return repayments, rows.Err()
}

// UpdateAllocationTx writes an installment's new outstanding balance and
// status within a transaction
func (r *ScheduledRepaymentRepository) UpdateAllocationTx(tx interface{}, id int32, outstanding int64, status domain.ScheduledRepaymentStatus) error {
	pgxTx, err := asTx(tx)
	if err != nil {
		return err
	}

	tag, err := pgxTx.Exec(context.Background(), `
		UPDATE scheduled_repayments
		SET outstanding_amount = $2, status = $3, updated_at = now()
		WHERE id = $1`,
		id, outstanding, status,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrScheduledRepaymentNotFound
	}
	return nil
}
