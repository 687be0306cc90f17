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

// DebitCardTransactionHandler handles debit card transaction HTTP requests
type DebitCardTransactionHandler struct {
	transactionService *service.DebitCardTransactionService
}

// NewDebitCardTransactionHandler creates a new DebitCardTransactionHandler
func NewDebitCardTransactionHandler(transactionService *service.DebitCardTransactionService) *DebitCardTransactionHandler {
	return &DebitCardTransactionHandler{transactionService: transactionService}
}

// CreateDebitCardTransactionRequest represents the create transaction request body
type CreateDebitCardTransactionRequest struct {
	DebitCardID  int32  `json:"debitCardId"`
	Amount       int64  `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

// DebitCardTransactionResponse represents a transaction in API responses
type DebitCardTransactionResponse struct {
	ID            int32  `json:"id"`
	DebitCardID   int32  `json:"debitCardId"`
	Amount        int64  `json:"amount"`
	DisplayAmount string `json:"displayAmount"`
	CurrencyCode  string `json:"currencyCode"`
	CreatedAt     string `json:"createdAt"`
}

func debitCardTransactionToResponse(transaction *domain.DebitCardTransaction) DebitCardTransactionResponse {
	return DebitCardTransactionResponse{
		ID:            transaction.ID,
		DebitCardID:   transaction.DebitCardID,
		Amount:        transaction.Amount,
		DisplayAmount: transaction.CurrencyCode.DisplayAmount(transaction.Amount).String(),
		CurrencyCode:  string(transaction.CurrencyCode),
		CreatedAt:     transaction.CreatedAt.Format(time.RFC3339),
	}
}

func (h *DebitCardTransactionHandler) requireUser(c echo.Context) (uuid.UUID, error) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return uuid.Nil, NewUnauthorizedError(c, "Authentication required")
	}
	return userID, nil
}

// CreateDebitCardTransaction handles POST /api/v1/debit-card-transactions
func (h *DebitCardTransactionHandler) CreateDebitCardTransaction(c echo.Context) error {
	userID, err := h.requireUser(c)
	if err != nil {
		return err
	}

	var req CreateDebitCardTransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	transaction, err := h.transactionService.CreateTransaction(userID, req.DebitCardID, req.Amount, domain.CurrencyCode(req.CurrencyCode))
	if err != nil {
		if errors.Is(err, domain.ErrDebitCardTransactionCardIDRequired) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "debitCardId", Message: "Debit card ID is required"},
			})
		}
		if errors.Is(err, domain.ErrDebitCardTransactionAmountInvalid) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "amount", Message: "Amount must be positive"},
			})
		}
		if errors.Is(err, domain.ErrLoanCurrencyInvalid) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "currencyCode", Message: "Unsupported currency code"},
			})
		}
		if errors.Is(err, domain.ErrDebitCardNotFound) {
			return NewNotFoundError(c, "Debit card not found")
		}
		log.Error().Err(err).Msg("Failed to create transaction")
		return NewInternalError(c, "Failed to create transaction")
	}

	return c.JSON(http.StatusCreated, debitCardTransactionToResponse(transaction))
}

// GetDebitCardTransactions handles GET /api/v1/debit-card-transactions
func (h *DebitCardTransactionHandler) GetDebitCardTransactions(c echo.Context) error {
	userID, err := h.requireUser(c)
	if err != nil {
		return err
	}

	debitCardID, err := strconv.ParseInt(c.QueryParam("debitCardId"), 10, 32)
	if err != nil || debitCardID <= 0 {
		return NewValidationError(c, "Invalid or missing debitCardId query parameter", nil)
	}

	transactions, err := h.transactionService.GetTransactions(userID, int32(debitCardID))
	if err != nil {
		if errors.Is(err, domain.ErrDebitCardNotFound) {
			return NewNotFoundError(c, "Debit card not found")
		}
		log.Error().Err(err).Msg("Failed to list transactions")
		return NewInternalError(c, "Failed to list transactions")
	}

	responses := make([]DebitCardTransactionResponse, len(transactions))
	for i, transaction := range transactions {
		responses[i] = debitCardTransactionToResponse(transaction)
	}
	return c.JSON(http.StatusOK, responses)
}

// GetDebitCardTransaction handles GET /api/v1/debit-card-transactions/:id
func (h *DebitCardTransactionHandler) GetDebitCardTransaction(c echo.Context) error {
	userID, err := h.requireUser(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil || id <= 0 {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	transaction, err := h.transactionService.GetTransactionByID(userID, int32(id))
	if err != nil {
		if errors.Is(err, domain.ErrDebitCardTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Msg("Failed to get transaction")
		return NewInternalError(c, "Failed to get transaction")
	}

	return c.JSON(http.StatusOK, debitCardTransactionToResponse(transaction))
}
