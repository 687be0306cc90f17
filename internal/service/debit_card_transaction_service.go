package service

import (
	"github.com/google/uuid"
	"github.com/kredio/kredio-backend/internal/domain"
	"github.com/kredio/kredio-backend/internal/websocket"
)

// DebitCardTransactionService handles debit card transaction business logic
type DebitCardTransactionService struct {
	transactionRepo domain.DebitCardTransactionRepository
	cardRepo        domain.DebitCardRepository
	eventPublisher  websocket.EventPublisher
}

// NewDebitCardTransactionService creates a new DebitCardTransactionService
func NewDebitCardTransactionService(transactionRepo domain.DebitCardTransactionRepository, cardRepo domain.DebitCardRepository) *DebitCardTransactionService {
	return &DebitCardTransactionService{
		transactionRepo: transactionRepo,
		cardRepo:        cardRepo,
	}
}

// SetEventPublisher sets the publisher for real-time updates
func (s *DebitCardTransactionService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateTransaction records a charge against one of the user's cards.
// Cards belonging to other users answer not-found, never forbidden, so
// the API does not leak which card IDs exist.
func (s *DebitCardTransactionService) CreateTransaction(userID uuid.UUID, debitCardID int32, amount int64, currencyCode domain.CurrencyCode) (*domain.DebitCardTransaction, error) {
	transaction := &domain.DebitCardTransaction{
		DebitCardID:  debitCardID,
		Amount:       amount,
		CurrencyCode: currencyCode,
	}
	if err := transaction.Validate(); err != nil {
		return nil, err
	}

	// Verify card ownership
	if _, err := s.cardRepo.GetByID(userID, debitCardID); err != nil {
		return nil, err
	}

	created, err := s.transactionRepo.Create(transaction)
	if err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		s.eventPublisher.Publish(userID, websocket.DebitCardTransactionCreated(created))
	}

	return created, nil
}

// GetTransactions lists a card's transactions, validating card ownership
func (s *DebitCardTransactionService) GetTransactions(userID uuid.UUID, debitCardID int32) ([]*domain.DebitCardTransaction, error) {
	if _, err := s.cardRepo.GetByID(userID, debitCardID); err != nil {
		return nil, err
	}
	return s.transactionRepo.GetByDebitCardID(debitCardID)
}

// GetTransactionByID retrieves one transaction, validating that the card
// it belongs to is owned by the user
func (s *DebitCardTransactionService) GetTransactionByID(userID uuid.UUID, id int32) (*domain.DebitCardTransaction, error) {
	transaction, err := s.transactionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if _, err := s.cardRepo.GetByID(userID, transaction.DebitCardID); err != nil {
		return nil, domain.ErrDebitCardTransactionNotFound
	}

	return transaction, nil
}
