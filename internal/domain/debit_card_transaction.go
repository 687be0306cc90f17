package domain

import (
	"errors"
	"time"
)

var (
	ErrDebitCardTransactionNotFound       = errors.New("debit card transaction not found")
	ErrDebitCardTransactionAmountInvalid  = errors.New("transaction amount must be positive")
	ErrDebitCardTransactionCardIDRequired = errors.New("debit card ID is required")
)

// DebitCardTransaction is a single charge against a debit card.
// Amount is an integer in the currency's minor unit.
type DebitCardTransaction struct {
	ID           int32        `json:"id"`
	DebitCardID  int32        `json:"debitCardId"`
	Amount       int64        `json:"amount"`
	CurrencyCode CurrencyCode `json:"currencyCode"`
	CreatedAt    time.Time    `json:"createdAt"`
}

func (t *DebitCardTransaction) Validate() error {
	if t.DebitCardID <= 0 {
		return ErrDebitCardTransactionCardIDRequired
	}
	if t.Amount <= 0 {
		return ErrDebitCardTransactionAmountInvalid
	}
	if !t.CurrencyCode.Valid() {
		return ErrLoanCurrencyInvalid
	}
	return nil
}

type DebitCardTransactionRepository interface {
	Create(transaction *DebitCardTransaction) (*DebitCardTransaction, error)
	GetByID(id int32) (*DebitCardTransaction, error)
	GetByDebitCardID(debitCardID int32) ([]*DebitCardTransaction, error)
}
