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

// LoanHandler handles loan-related HTTP requests
type LoanHandler struct {
	loanService *service.LoanService
}

// NewLoanHandler creates a new LoanHandler
func NewLoanHandler(loanService *service.LoanService) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

// CreateLoanRequest represents the create loan request body
type CreateLoanRequest struct {
	Amount       int64  `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
	Terms        int32  `json:"terms"`
	ProcessedAt  string `json:"processedAt"`
}

// RepayLoanRequest represents the repayment request body
type RepayLoanRequest struct {
	Amount       int64  `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
	ReceivedAt   string `json:"receivedAt,omitempty"`
}

// LoanResponse represents a loan in API responses. Amounts are integers in
// the currency's minor unit; display values are formatted per currency.
type LoanResponse struct {
	ID                 int32  `json:"id"`
	Amount             int64  `json:"amount"`
	OutstandingAmount  int64  `json:"outstandingAmount"`
	DisplayAmount      string `json:"displayAmount"`
	DisplayOutstanding string `json:"displayOutstanding"`
	CurrencyCode       string `json:"currencyCode"`
	Terms              int32  `json:"terms"`
	ProcessedAt        string `json:"processedAt"`
	Status             string `json:"status"`
	CreatedAt          string `json:"createdAt"`
	UpdatedAt          string `json:"updatedAt"`
}

// ScheduledRepaymentResponse represents one installment in API responses
type ScheduledRepaymentResponse struct {
	ID                int32  `json:"id"`
	LoanID            int32  `json:"loanId"`
	Amount            int64  `json:"amount"`
	OutstandingAmount int64  `json:"outstandingAmount"`
	DisplayAmount     string `json:"displayAmount"`
	CurrencyCode      string `json:"currencyCode"`
	DueDate           string `json:"dueDate"`
	Status            string `json:"status"`
}

// ReceivedRepaymentResponse represents a repayment receipt in API responses
type ReceivedRepaymentResponse struct {
	ID            int32  `json:"id"`
	LoanID        int32  `json:"loanId"`
	Amount        int64  `json:"amount"`
	DisplayAmount string `json:"displayAmount"`
	CurrencyCode  string `json:"currencyCode"`
	ReceivedAt    string `json:"receivedAt"`
	CreatedAt     string `json:"createdAt"`
}

// PortfolioSummaryResponse represents per-currency totals
type PortfolioSummaryResponse struct {
	CurrencyCode            string `json:"currencyCode"`
	LoanCount               int32  `json:"loanCount"`
	TotalAmount             int64  `json:"totalAmount"`
	TotalOutstanding        int64  `json:"totalOutstanding"`
	DisplayTotalAmount      string `json:"displayTotalAmount"`
	DisplayTotalOutstanding string `json:"displayTotalOutstanding"`
}

func loanToResponse(loan *domain.Loan) LoanResponse {
	return LoanResponse{
		ID:                 loan.ID,
		Amount:             loan.Amount,
		OutstandingAmount:  loan.OutstandingAmount,
		DisplayAmount:      loan.CurrencyCode.DisplayAmount(loan.Amount).String(),
		DisplayOutstanding: loan.CurrencyCode.DisplayAmount(loan.OutstandingAmount).String(),
		CurrencyCode:       string(loan.CurrencyCode),
		Terms:              loan.Terms,
		ProcessedAt:        loan.ProcessedAt.Format(time.RFC3339),
		Status:             string(loan.Status),
		CreatedAt:          loan.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          loan.UpdatedAt.Format(time.RFC3339),
	}
}

func scheduledRepaymentToResponse(repayment *domain.ScheduledRepayment) ScheduledRepaymentResponse {
	return ScheduledRepaymentResponse{
		ID:                repayment.ID,
		LoanID:            repayment.LoanID,
		Amount:            repayment.Amount,
		OutstandingAmount: repayment.OutstandingAmount,
		DisplayAmount:     repayment.CurrencyCode.DisplayAmount(repayment.Amount).String(),
		CurrencyCode:      string(repayment.CurrencyCode),
		DueDate:           repayment.DueDate.Format("2006-01-02"),
		Status:            string(repayment.Status),
	}
}

func receivedRepaymentToResponse(repayment *domain.ReceivedRepayment) ReceivedRepaymentResponse {
	return ReceivedRepaymentResponse{
		ID:            repayment.ID,
		LoanID:        repayment.LoanID,
		Amount:        repayment.Amount,
		DisplayAmount: repayment.CurrencyCode.DisplayAmount(repayment.Amount).String(),
		CurrencyCode:  string(repayment.CurrencyCode),
		ReceivedAt:    repayment.ReceivedAt.Format(time.RFC3339),
		CreatedAt:     repayment.CreatedAt.Format(time.RFC3339),
	}
}

func (h *LoanHandler) requireUser(c echo.Context) (uuid.UUID, error) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return uuid.Nil, NewUnauthorizedError(c, "Authentication required")
	}
	return userID, nil
}

func loanIDParam(c echo.Context) (int32, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil || id <= 0 {
		return 0, NewValidationError(c, "Invalid loan ID", nil)
	}
	return int32(id), nil
}

// CreateLoan handles POST /api/v1/loans
func (h *LoanHandler) CreateLoan(c echo.Context) error {
	userID, err := h.requireUser(c)
	if err != nil {
		return err
	}

	var req CreateLoanRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	processedAt := time.Now().UTC()
	if req.ProcessedAt != "" {
		processedAt, err = time.Parse("2006-01-02", req.ProcessedAt)
		if err != nil {
			processedAt, err = time.Parse(time.RFC3339, req.ProcessedAt)
			if err != nil {
				return NewValidationError(c, "Invalid processed date", []ValidationError{
					{Field: "processedAt", Message: "Must be in YYYY-MM-DD or RFC 3339 format"},
				})
			}
		}
	}

	loan, err := h.loanService.CreateLoan(c.Request().Context(), userID, service.CreateLoanInput{
		Amount:       req.Amount,
		CurrencyCode: domain.CurrencyCode(req.CurrencyCode),
		Terms:        req.Terms,
		ProcessedAt:  processedAt,
	})
	if err != nil {
		if errors.Is(err, domain.ErrLoanAmountInvalid) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "amount", Message: "Amount must be positive"},
			})
		}
		if errors.Is(err, domain.ErrLoanTermsInvalid) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "terms", Message: "Terms must be at least 1"},
			})
		}
		if errors.Is(err, domain.ErrLoanCurrencyInvalid) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "currencyCode", Message: "Unsupported currency code"},
			})
		}
		log.Error().Err(err).Msg("Failed to create loan")
		return NewInternalError(c, "Failed to create loan")
	}

	return c.JSON(http.StatusCreated, loanToResponse(loan))
}

// GetLoans handles GET /api/v1/loans
func (h *LoanHandler) GetLoans(c echo.Context) error {
	userID, err := h.requireUser(c)
	if err != nil {
		return err
	}

	loans, err := h.loanService.GetLoans(userID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list loans")
		return NewInternalError(c, "Failed to list loans")
	}

	responses := make([]LoanResponse, len(loans))
	for i, loan := range loans {
		responses[i] = loanToResponse(loan)
	}
	return c.JSON(http.StatusOK, responses)
}

// GetLoanSummary handles GET /api/v1/loans/summary
func (h *LoanHandler) GetLoanSummary(c echo.Context) error {
	userID, err := h.requireUser(c)
	if err != nil {
		return err
	}

	summaries, err := h.loanService.GetPortfolioSummary(userID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to build loan summary")
		return NewInternalError(c, "Failed to build loan summary")
	}

	responses := make([]PortfolioSummaryResponse, len(summaries))
	for i, summary := range summaries {
		responses[i] = PortfolioSummaryResponse{
			CurrencyCode:            string(summary.CurrencyCode),
			LoanCount:               summary.LoanCount,
			TotalAmount:             summary.TotalAmount,
			TotalOutstanding:        summary.TotalOutstanding,
			DisplayTotalAmount:      summary.CurrencyCode.DisplayAmount(summary.TotalAmount).String(),
			DisplayTotalOutstanding: summary.CurrencyCode.DisplayAmount(summary.TotalOutstanding).String(),
		}
	}
	return c.JSON(http.StatusOK, responses)
}

// GetLoan handles GET /api/v1/loans/:id
func (h *LoanHandler) GetLoan(c echo.Context) error {
	userID, err := h.requireUser(c)
	if err != nil {
		return err
	}

	id, err := loanIDParam(c)
	if err != nil {
		return err
	}

	loan, err := h.loanService.GetLoanByID(userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrLoanNotFound) {
			return NewNotFoundError(c, "Loan not found")
		}
		log.Error().Err(err).Int32("loan_id", id).Msg("Failed to get loan")
		return NewInternalError(c, "Failed to get loan")
	}

	return c.JSON(http.StatusOK, loanToResponse(loan))
}

// GetSchedule handles GET /api/v1/loans/:id/schedule
func (h *LoanHandler) GetSchedule(c echo.Context) error {
	userID, err := h.requireUser(c)
	if err != nil {
		return err
	}

	id, err := loanIDParam(c)
	if err != nil {
		return err
	}

	installments, err := h.loanService.GetSchedule(userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrLoanNotFound) {
			return NewNotFoundError(c, "Loan not found")
		}
		log.Error().Err(err).Int32("loan_id", id).Msg("Failed to get schedule")
		return NewInternalError(c, "Failed to get schedule")
	}

	responses := make([]ScheduledRepaymentResponse, len(installments))
	for i, installment := range installments {
		responses[i] = scheduledRepaymentToResponse(installment)
	}
	return c.JSON(http.StatusOK, responses)
}

// RepayLoan handles POST /api/v1/loans/:id/repayments
func (h *LoanHandler) RepayLoan(c echo.Context) error {
	userID, err := h.requireUser(c)
	if err != nil {
		return err
	}

	id, err := loanIDParam(c)
	if err != nil {
		return err
	}

	var req RepayLoanRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	receivedAt := time.Now().UTC()
	if req.ReceivedAt != "" {
		receivedAt, err = time.Parse(time.RFC3339, req.ReceivedAt)
		if err != nil {
			return NewValidationError(c, "Invalid received date", []ValidationError{
				{Field: "receivedAt", Message: "Must be in RFC 3339 format"},
			})
		}
	}

	receipt, err := h.loanService.RepayLoan(c.Request().Context(), userID, id, req.Amount, domain.CurrencyCode(req.CurrencyCode), receivedAt)
	if err != nil {
		if errors.Is(err, domain.ErrLoanNotFound) {
			return NewNotFoundError(c, "Loan not found")
		}
		if errors.Is(err, domain.ErrRepaymentAmountInvalid) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "amount", Message: "Amount must not be negative"},
			})
		}
		log.Error().Err(err).Int32("loan_id", id).Msg("Failed to record repayment")
		return NewInternalError(c, "Failed to record repayment")
	}

	return c.JSON(http.StatusCreated, receivedRepaymentToResponse(receipt))
}

// GetRepayments handles GET /api/v1/loans/:id/repayments
func (h *LoanHandler) GetRepayments(c echo.Context) error {
	userID, err := h.requireUser(c)
	if err != nil {
		return err
	}

	id, err := loanIDParam(c)
	if err != nil {
		return err
	}

	receipts, err := h.loanService.GetReceipts(userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrLoanNotFound) {
			return NewNotFoundError(c, "Loan not found")
		}
		log.Error().Err(err).Int32("loan_id", id).Msg("Failed to list repayments")
		return NewInternalError(c, "Failed to list repayments")
	}

	responses := make([]ReceivedRepaymentResponse, len(receipts))
	for i, receipt := range receipts {
		responses[i] = receivedRepaymentToResponse(receipt)
	}
	return c.JSON(http.StatusOK, responses)
}
