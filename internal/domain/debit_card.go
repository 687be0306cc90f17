package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrDebitCardNotFound        = errors.New("debit card not found")
	ErrDebitCardTypeRequired    = errors.New("debit card type is required")
	ErrDebitCardHasTransactions = errors.New("debit card has transactions and cannot be deleted")
)

// DebitCard is a customer's card. A card with DisabledAt unset is active;
// deactivating sets the timestamp. Deletion is soft (DeletedAt) and is
// refused while the card has transactions.
type DebitCard struct {
	ID             int32      `json:"id"`
	UserID         uuid.UUID  `json:"userId"`
	Number         int64      `json:"number"`
	Type           string     `json:"type"`
	ExpirationDate time.Time  `json:"expirationDate"`
	DisabledAt     *time.Time `json:"disabledAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
	DeletedAt      *time.Time `json:"deletedAt,omitempty"`
}

// IsActive reports whether the card can be charged
func (d *DebitCard) IsActive() bool {
	return d.DisabledAt == nil
}

type DebitCardRepository interface {
	Create(card *DebitCard) (*DebitCard, error)
	GetByID(userID uuid.UUID, id int32) (*DebitCard, error)
	GetAllByUser(userID uuid.UUID) ([]*DebitCard, error)
	SetDisabled(userID uuid.UUID, id int32, disabledAt *time.Time) (*DebitCard, error)
	SoftDelete(userID uuid.UUID, id int32) error
	HasTransactions(id int32) (bool, error)
}
