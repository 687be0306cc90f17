package domain

import (
	"errors"
	"time"
)

var ErrScheduledRepaymentNotFound = errors.New("scheduled repayment not found")

// ScheduledRepaymentStatus is the fulfilment status of one installment
type ScheduledRepaymentStatus string

const (
	ScheduledRepaymentStatusDue     ScheduledRepaymentStatus = "due"
	ScheduledRepaymentStatusPartial ScheduledRepaymentStatus = "partial"
	ScheduledRepaymentStatusRepaid  ScheduledRepaymentStatus = "repaid"
)

// ScheduledRepayment is a single installment of a loan's schedule.
// Amount is fixed at creation; OutstandingAmount is mutated only by
// repayment allocation and never increases.
type ScheduledRepayment struct {
	ID                int32                    `json:"id"`
	LoanID            int32                    `json:"loanId"`
	Amount            int64                    `json:"amount"`
	OutstandingAmount int64                    `json:"outstandingAmount"`
	CurrencyCode      CurrencyCode             `json:"currencyCode"`
	DueDate           time.Time                `json:"dueDate"`
	Status            ScheduledRepaymentStatus `json:"status"`
	CreatedAt         time.Time                `json:"createdAt"`
	UpdatedAt         time.Time                `json:"updatedAt"`
}

type ScheduledRepaymentRepository interface {
	CreateBatchTx(tx interface{}, repayments []*ScheduledRepayment) error
	// GetByLoanID returns the loan's installments ordered by due date
	// ascending. A non-empty status filters the result.
	GetByLoanID(loanID int32, status ScheduledRepaymentStatus) ([]*ScheduledRepayment, error)
	GetByLoanIDTx(tx interface{}, loanID int32, status ScheduledRepaymentStatus) ([]*ScheduledRepayment, error)
	UpdateAllocationTx(tx interface{}, id int32, outstanding int64, status ScheduledRepaymentStatus) error
}
