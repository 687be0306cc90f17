package service

import (
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kredio/kredio-backend/internal/domain"
	"github.com/kredio/kredio-backend/internal/websocket"
)

// debitCardValidityYears is how long a newly issued card is valid
const debitCardValidityYears = 4

// DebitCardService handles debit card business logic
type DebitCardService struct {
	cardRepo       domain.DebitCardRepository
	eventPublisher websocket.EventPublisher
}

// NewDebitCardService creates a new DebitCardService
func NewDebitCardService(cardRepo domain.DebitCardRepository) *DebitCardService {
	return &DebitCardService{cardRepo: cardRepo}
}

// SetEventPublisher sets the publisher for real-time updates
func (s *DebitCardService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *DebitCardService) publishEvent(userID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(userID, event)
	}
}

// CreateCard issues a new active card of the given type. The card number
// is generated server side; expiration is a fixed number of years out.
func (s *DebitCardService) CreateCard(userID uuid.UUID, cardType string) (*domain.DebitCard, error) {
	cardType = strings.TrimSpace(cardType)
	if cardType == "" {
		return nil, domain.ErrDebitCardTypeRequired
	}

	card := &domain.DebitCard{
		UserID:         userID,
		Number:         generateCardNumber(),
		Type:           cardType,
		ExpirationDate: time.Now().UTC().AddDate(debitCardValidityYears, 0, 0),
	}

	created, err := s.cardRepo.Create(card)
	if err != nil {
		return nil, err
	}

	s.publishEvent(userID, websocket.DebitCardCreated(created))

	return created, nil
}

// GetCards retrieves all of the user's cards
func (s *DebitCardService) GetCards(userID uuid.UUID) ([]*domain.DebitCard, error) {
	return s.cardRepo.GetAllByUser(userID)
}

// GetCardByID retrieves one card owned by the user
func (s *DebitCardService) GetCardByID(userID uuid.UUID, id int32) (*domain.DebitCard, error) {
	return s.cardRepo.GetByID(userID, id)
}

// SetCardActive activates or deactivates a card
func (s *DebitCardService) SetCardActive(userID uuid.UUID, id int32, active bool) (*domain.DebitCard, error) {
	var disabledAt *time.Time
	if !active {
		now := time.Now().UTC()
		disabledAt = &now
	}

	updated, err := s.cardRepo.SetDisabled(userID, id, disabledAt)
	if err != nil {
		return nil, err
	}

	s.publishEvent(userID, websocket.DebitCardUpdated(updated))

	return updated, nil
}

// DeleteCard soft-deletes a card. Cards with transactions are kept for the
// audit trail and cannot be deleted.
func (s *DebitCardService) DeleteCard(userID uuid.UUID, id int32) error {
	card, err := s.cardRepo.GetByID(userID, id)
	if err != nil {
		return err
	}

	hasTransactions, err := s.cardRepo.HasTransactions(card.ID)
	if err != nil {
		return err
	}
	if hasTransactions {
		return domain.ErrDebitCardHasTransactions
	}

	if err := s.cardRepo.SoftDelete(userID, id); err != nil {
		return err
	}

	s.publishEvent(userID, websocket.DebitCardDeleted(card))

	return nil
}

// generateCardNumber returns a random 16-digit card number
func generateCardNumber() int64 {
	// 16 digits: 1000000000000000 .. 9999999999999999
	return 1000000000000000 + rand.Int63n(9000000000000000)
}
