package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrLoanNotFound        = errors.New("loan not found")
	ErrLoanAmountInvalid   = errors.New("loan amount must be positive")
	ErrLoanTermsInvalid    = errors.New("number of terms must be at least 1")
	ErrLoanCurrencyInvalid = errors.New("unsupported currency code")
)

// LoanStatus is the lifecycle status of a loan
type LoanStatus string

const (
	LoanStatusDue    LoanStatus = "due"
	LoanStatusRepaid LoanStatus = "repaid"
)

// Loan is the aggregate a borrower repays against. Amount and
// OutstandingAmount are integers in the currency's minor unit.
// OutstandingAmount only ever decreases; it can go below zero when a
// repayment exceeds the outstanding balance (over-payment is not rejected).
type Loan struct {
	ID                int32        `json:"id"`
	UserID            uuid.UUID    `json:"userId"`
	Amount            int64        `json:"amount"`
	OutstandingAmount int64        `json:"outstandingAmount"`
	CurrencyCode      CurrencyCode `json:"currencyCode"`
	Terms             int32        `json:"terms"`
	ProcessedAt       time.Time    `json:"processedAt"`
	Status            LoanStatus   `json:"status"`
	CreatedAt         time.Time    `json:"createdAt"`
	UpdatedAt         time.Time    `json:"updatedAt"`
}

func (l *Loan) Validate() error {
	if l.Amount <= 0 {
		return ErrLoanAmountInvalid
	}
	if l.Terms < 1 {
		return ErrLoanTermsInvalid
	}
	if !l.CurrencyCode.Valid() {
		return ErrLoanCurrencyInvalid
	}
	return nil
}

// StatusForOutstanding returns the loan status implied by an outstanding
// amount: repaid only at exactly zero. A negative outstanding (over-paid
// loan) stays due; see DESIGN.md.
func StatusForOutstanding(outstanding int64) LoanStatus {
	if outstanding == 0 {
		return LoanStatusRepaid
	}
	return LoanStatusDue
}

type LoanRepository interface {
	Create(loan *Loan) (*Loan, error)
	CreateTx(tx interface{}, loan *Loan) (*Loan, error)
	GetByID(userID uuid.UUID, id int32) (*Loan, error)
	GetByIDTx(tx interface{}, userID uuid.UUID, id int32) (*Loan, error)
	GetAllByUser(userID uuid.UUID) ([]*Loan, error)
	UpdateOutstandingTx(tx interface{}, id int32, outstanding int64, status LoanStatus) (*Loan, error)
}
