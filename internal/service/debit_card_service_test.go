package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/kredio/kredio-backend/internal/domain"
	"github.com/kredio/kredio-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCreateCard(t *testing.T) {
	cardRepo := testutil.NewMockDebitCardRepository()
	svc := NewDebitCardService(cardRepo)
	userID := uuid.New()

	card, err := svc.CreateCard(userID, "visa")
	assert.NoError(t, err)
	assert.Equal(t, userID, card.UserID)
	assert.Equal(t, "visa", card.Type)
	assert.True(t, card.IsActive())

	// 16-digit number
	assert.GreaterOrEqual(t, card.Number, int64(1000000000000000))
	assert.LessOrEqual(t, card.Number, int64(9999999999999999))
}

func TestCreateCard_TrimsType(t *testing.T) {
	cardRepo := testutil.NewMockDebitCardRepository()
	svc := NewDebitCardService(cardRepo)

	card, err := svc.CreateCard(uuid.New(), "  mastercard  ")
	assert.NoError(t, err)
	assert.Equal(t, "mastercard", card.Type)
}

func TestCreateCard_TypeRequired(t *testing.T) {
	cardRepo := testutil.NewMockDebitCardRepository()
	svc := NewDebitCardService(cardRepo)

	_, err := svc.CreateCard(uuid.New(), "   ")
	assert.ErrorIs(t, err, domain.ErrDebitCardTypeRequired)
	assert.Empty(t, cardRepo.Cards)
}

func TestGetCards_ScopedToUser(t *testing.T) {
	cardRepo := testutil.NewMockDebitCardRepository()
	svc := NewDebitCardService(cardRepo)
	alice := uuid.New()
	bob := uuid.New()

	_, err := svc.CreateCard(alice, "visa")
	assert.NoError(t, err)
	_, err = svc.CreateCard(bob, "visa")
	assert.NoError(t, err)

	cards, err := svc.GetCards(alice)
	assert.NoError(t, err)
	assert.Len(t, cards, 1)
	assert.Equal(t, alice, cards[0].UserID)
}

func TestGetCardByID_WrongUserAnswersNotFound(t *testing.T) {
	cardRepo := testutil.NewMockDebitCardRepository()
	svc := NewDebitCardService(cardRepo)

	card, err := svc.CreateCard(uuid.New(), "visa")
	assert.NoError(t, err)

	_, err = svc.GetCardByID(uuid.New(), card.ID)
	assert.ErrorIs(t, err, domain.ErrDebitCardNotFound)
}

func TestSetCardActive(t *testing.T) {
	cardRepo := testutil.NewMockDebitCardRepository()
	svc := NewDebitCardService(cardRepo)
	userID := uuid.New()

	card, err := svc.CreateCard(userID, "visa")
	assert.NoError(t, err)

	disabled, err := svc.SetCardActive(userID, card.ID, false)
	assert.NoError(t, err)
	assert.NotNil(t, disabled.DisabledAt)
	assert.False(t, disabled.IsActive())

	enabled, err := svc.SetCardActive(userID, card.ID, true)
	assert.NoError(t, err)
	assert.Nil(t, enabled.DisabledAt)
	assert.True(t, enabled.IsActive())
}

func TestDeleteCard(t *testing.T) {
	cardRepo := testutil.NewMockDebitCardRepository()
	svc := NewDebitCardService(cardRepo)
	userID := uuid.New()

	card, err := svc.CreateCard(userID, "visa")
	assert.NoError(t, err)

	err = svc.DeleteCard(userID, card.ID)
	assert.NoError(t, err)

	_, err = svc.GetCardByID(userID, card.ID)
	assert.ErrorIs(t, err, domain.ErrDebitCardNotFound)
}

func TestDeleteCard_RefusedWhenCardHasTransactions(t *testing.T) {
	cardRepo := testutil.NewMockDebitCardRepository()
	svc := NewDebitCardService(cardRepo)
	userID := uuid.New()

	card, err := svc.CreateCard(userID, "visa")
	assert.NoError(t, err)
	cardRepo.Transactions[card.ID] = true

	err = svc.DeleteCard(userID, card.ID)
	assert.ErrorIs(t, err, domain.ErrDebitCardHasTransactions)

	// Still retrievable
	_, err = svc.GetCardByID(userID, card.ID)
	assert.NoError(t, err)
}
