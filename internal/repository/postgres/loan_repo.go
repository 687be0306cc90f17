package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kredio/kredio-backend/internal/domain"
)

// LoanRepository implements domain.LoanRepository using PostgreSQL
type LoanRepository struct {
	pool *pgxpool.Pool
}

// NewLoanRepository creates a new LoanRepository
func NewLoanRepository(pool *pgxpool.Pool) *LoanRepository {
	return &LoanRepository{pool: pool}
}

const loanColumns = `id, user_id, amount, outstanding_amount, currency_code, terms, processed_at, status, created_at, updated_at`

func scanLoan(row pgx.Row) (*domain.Loan, error) {
	var loan domain.Loan
	err := row.Scan(
		&loan.ID,
		&loan.UserID,
		&loan.Amount,
		&loan.OutstandingAmount,
		&loan.CurrencyCode,
		&loan.Terms,
		&loan.ProcessedAt,
		&loan.Status,
		&loan.CreatedAt,
		&loan.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrLoanNotFound
		}
		return nil, err
	}
	return &loan, nil
}

// Create creates a new loan
func (r *LoanRepository) Create(loan *domain.Loan) (*domain.Loan, error) {
	return r.create(context.Background(), r.pool, loan)
}

// CreateTx creates a new loan within a transaction
func (r *LoanRepository) CreateTx(tx interface{}, loan *domain.Loan) (*domain.Loan, error) {
	pgxTx, err := asTx(tx)
	if err != nil {
		return nil, err
	}
	return r.create(context.Background(), pgxTx, loan)
}

func (r *LoanRepository) create(ctx context.Context, q querier, loan *domain.Loan) (*domain.Loan, error) {
	row := q.QueryRow(ctx, `
		INSERT INTO loans (user_id, amount, outstanding_amount, currency_code, terms, processed_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+loanColumns,
		loan.UserID,
		loan.Amount,
		loan.OutstandingAmount,
		loan.CurrencyCode,
		loan.Terms,
		loan.ProcessedAt,
		loan.Status,
	)
	return scanLoan(row)
}

// GetByID retrieves a loan owned by the user. Other users' loans answer
// not-found.
func (r *LoanRepository) GetByID(userID uuid.UUID, id int32) (*domain.Loan, error) {
	return r.getByID(context.Background(), r.pool, userID, id)
}

// GetByIDTx retrieves a loan within a transaction
func (r *LoanRepository) GetByIDTx(tx interface{}, userID uuid.UUID, id int32) (*domain.Loan, error) {
	pgxTx, err := asTx(tx)
	if err != nil {
		return nil, err
	}
	return r.getByID(context.Background(), pgxTx, userID, id)
}

func (r *LoanRepository) getByID(ctx context.Context, q querier, userID uuid.UUID, id int32) (*domain.Loan, error) {
	row := q.QueryRow(ctx, `
		SELECT `+loanColumns+`
		FROM loans
		WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	return scanLoan(row)
}

// GetAllByUser retrieves all of the user's loans, newest first
func (r *LoanRepository) GetAllByUser(userID uuid.UUID) ([]*domain.Loan, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT `+loanColumns+`
		FROM loans
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	loans := []*domain.Loan{}
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}
	return loans, rows.Err()
}

// UpdateOutstandingTx updates the loan's outstanding balance and status
// within a transaction
func (r *LoanRepository) UpdateOutstandingTx(tx interface{}, id int32, outstanding int64, status domain.LoanStatus) (*domain.Loan, error) {
	pgxTx, err := asTx(tx)
	if err != nil {
		return nil, err
	}

	row := pgxTx.QueryRow(context.Background(), `
		UPDATE loans
		SET outstanding_amount = $2, status = $3, updated_at = now()
		WHERE id = $1
		RETURNING `+loanColumns,
		id, outstanding, status,
	)
	return scanLoan(row)
}
