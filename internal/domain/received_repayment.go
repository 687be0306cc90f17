package domain

import (
	"errors"
	"time"
)

var ErrRepaymentAmountInvalid = errors.New("repayment amount must not be negative")

// ReceivedRepayment is the immutable receipt of one incoming payment.
// It records what was received, not how it was allocated; rows are
// append-only and never updated or deleted.
type ReceivedRepayment struct {
	ID           int32        `json:"id"`
	LoanID       int32        `json:"loanId"`
	Amount       int64        `json:"amount"`
	CurrencyCode CurrencyCode `json:"currencyCode"`
	ReceivedAt   time.Time    `json:"receivedAt"`
	CreatedAt    time.Time    `json:"createdAt"`
}

type ReceivedRepaymentRepository interface {
	CreateTx(tx interface{}, repayment *ReceivedRepayment) (*ReceivedRepayment, error)
	GetByLoanID(loanID int32) ([]*ReceivedRepayment, error)
}
