package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/kredio/kredio-backend/internal/domain"
	"github.com/kredio/kredio-backend/internal/middleware"
	"github.com/kredio/kredio-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// DebitCardHandler handles debit card HTTP requests
type DebitCardHandler struct {
	cardService *service.DebitCardService
}

// NewDebitCardHandler creates a new DebitCardHandler
func NewDebitCardHandler(cardService *service.DebitCardService) *DebitCardHandler {
	return &DebitCardHandler{cardService: cardService}
}

// CreateDebitCardRequest represents the create card request body
type CreateDebitCardRequest struct {
	Type string `json:"type"`
}

// UpdateDebitCardRequest represents the activate/deactivate request body
type UpdateDebitCardRequest struct {
	IsActive bool `json:"isActive"`
}

// DebitCardResponse represents a card in API responses
type DebitCardResponse struct {
	ID             int32   `json:"id"`
	Number         int64   `json:"number"`
	Type           string  `json:"type"`
	ExpirationDate string  `json:"expirationDate"`
	IsActive       bool    `json:"isActive"`
	DisabledAt     *string `json:"disabledAt,omitempty"`
	CreatedAt      string  `json:"createdAt"`
	UpdatedAt      string  `json:"updatedAt"`
}

func debitCardToResponse(card *domain.DebitCard) DebitCardResponse {
	resp := DebitCardResponse{
		ID:             card.ID,
		Number:         card.Number,
		Type:           card.Type,
		ExpirationDate: card.ExpirationDate.Format("2006-01-02"),
		IsActive:       card.IsActive(),
		CreatedAt:      card.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      card.UpdatedAt.Format(time.RFC3339),
	}
	if card.DisabledAt != nil {
		disabledAt := card.DisabledAt.Format(time.RFC3339)
		resp.DisabledAt = &disabledAt
	}
	return resp
}

func (h *DebitCardHandler) requireUser(c echo.Context) (uuid.UUID, error) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return uuid.Nil, NewUnauthorizedError(c, "Authentication required")
	}
	return userID, nil
}

func cardIDParam(c echo.Context) (int32, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil || id <= 0 {
		return 0, NewValidationError(c, "Invalid debit card ID", nil)
	}
	return int32(id), nil
}

// CreateDebitCard handles POST /api/v1/debit-cards
func (h *DebitCardHandler) CreateDebitCard(c echo.Context) error {
	userID, err := h.requireUser(c)
	if err != nil {
		return err
	}

	var req CreateDebitCardRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	card, err := h.cardService.CreateCard(userID, req.Type)
	if err != nil {
		if errors.Is(err, domain.ErrDebitCardTypeRequired) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "type", Message: "Card type is required"},
			})
		}
		log.Error().Err(err).Msg("Failed to create debit card")
		return NewInternalError(c, "Failed to create debit card")
	}

	return c.JSON(http.StatusCreated, debitCardToResponse(card))
}

// GetDebitCards handles GET /api/v1/debit-cards
func (h *DebitCardHandler) GetDebitCards(c echo.Context) error {
	userID, err := h.requireUser(c)
	if err != nil {
		return err
	}

	cards, err := h.cardService.GetCards(userID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list debit cards")
		return NewInternalError(c, "Failed to list debit cards")
	}

	responses := make([]DebitCardResponse, len(cards))
	for i, card := range cards {
		responses[i] = debitCardToResponse(card)
	}
	return c.JSON(http.StatusOK, responses)
}

// GetDebitCard handles GET /api/v1/debit-cards/:id
func (h *DebitCardHandler) GetDebitCard(c echo.Context) error {
	userID, err := h.requireUser(c)
	if err != nil {
		return err
	}

	id, err := cardIDParam(c)
	if err != nil {
		return err
	}

	card, err := h.cardService.GetCardByID(userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrDebitCardNotFound) {
			return NewNotFoundError(c, "Debit card not found")
		}
		log.Error().Err(err).Int32("card_id", id).Msg("Failed to get debit card")
		return NewInternalError(c, "Failed to get debit card")
	}

	return c.JSON(http.StatusOK, debitCardToResponse(card))
}

// UpdateDebitCard handles PUT /api/v1/debit-cards/:id
func (h *DebitCardHandler) UpdateDebitCard(c echo.Context) error {
	userID, err := h.requireUser(c)
	if err != nil {
		return err
	}

	id, err := cardIDParam(c)
	if err != nil {
		return err
	}

	var req UpdateDebitCardRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	card, err := h.cardService.SetCardActive(userID, id, req.IsActive)
	if err != nil {
		if errors.Is(err, domain.ErrDebitCardNotFound) {
			return NewNotFoundError(c, "Debit card not found")
		}
		log.Error().Err(err).Int32("card_id", id).Msg("Failed to update debit card")
		return NewInternalError(c, "Failed to update debit card")
	}

	return c.JSON(http.StatusOK, debitCardToResponse(card))
}

// DeleteDebitCard handles DELETE /api/v1/debit-cards/:id
func (h *DebitCardHandler) DeleteDebitCard(c echo.Context) error {
	userID, err := h.requireUser(c)
	if err != nil {
		return err
	}

	id, err := cardIDParam(c)
	if err != nil {
		return err
	}

	if err := h.cardService.DeleteCard(userID, id); err != nil {
		if errors.Is(err, domain.ErrDebitCardNotFound) {
			return NewNotFoundError(c, "Debit card not found")
		}
		if errors.Is(err, domain.ErrDebitCardHasTransactions) {
			return NewConflictError(c, "Card has transactions and cannot be deleted")
		}
		log.Error().Err(err).Int32("card_id", id).Msg("Failed to delete debit card")
		return NewInternalError(c, "Failed to delete debit card")
	}

	return c.NoContent(http.StatusNoContent)
}
