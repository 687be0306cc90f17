package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/google/uuid"
	"github.com/kredio/kredio-backend/internal/domain"
	"github.com/kredio/kredio-backend/internal/middleware"
	"github.com/kredio/kredio-backend/internal/service"
	"github.com/kredio/kredio-backend/internal/testutil"
	"github.com/labstack/echo/v4"
)

// setupAuthContext injects authenticated user state the way the auth
// middleware does
func setupAuthContext(c echo.Context, auth0ID string, userID uuid.UUID) {
	claims := &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Subject: auth0ID,
		},
		CustomClaims: &middleware.CustomClaims{Email: "test@example.com"},
	}
	ctx := context.WithValue(c.Request().Context(), middleware.ClaimsKey, claims)
	ctx = context.WithValue(ctx, middleware.Auth0IDKey, auth0ID)
	ctx = context.WithValue(ctx, middleware.UserIDKey, userID)
	c.SetRequest(c.Request().WithContext(ctx))
}

func int32ToString(v int32) string {
	return strconv.FormatInt(int64(v), 10)
}

func createLoanForHandlerTest(t *testing.T, loanService *service.LoanService, userID uuid.UUID, amount int64, terms int32) *domain.Loan {
	t.Helper()
	loan, err := loanService.CreateLoan(context.Background(), userID, service.CreateLoanInput{
		Amount:       amount,
		CurrencyCode: domain.CurrencyVND,
		Terms:        terms,
		ProcessedAt:  time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateLoan failed: %v", err)
	}
	return loan
}

func newLoanHandlerFixture() (*LoanHandler, *service.LoanService) {
	loanRepo := testutil.NewMockLoanRepository()
	scheduleRepo := testutil.NewMockScheduledRepaymentRepository()
	receiptRepo := testutil.NewMockReceivedRepaymentRepository()
	loanService := service.NewLoanService(testutil.NewMockTransactor(), loanRepo, scheduleRepo, receiptRepo)
	return NewLoanHandler(loanService), loanService
}

func TestCreateLoanHandler_Success(t *testing.T) {
	e := echo.New()
	handler, _ := newLoanHandlerFixture()

	reqBody := `{
		"amount": 900,
		"currencyCode": "VND",
		"terms": 3,
		"processedAt": "2024-03-20"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/loans", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContext(c, "auth0|test", uuid.New())

	err := handler.CreateLoan(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", rec.Code)
	}

	var response LoanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.Amount != 900 {
		t.Errorf("Expected amount 900, got %d", response.Amount)
	}
	if response.OutstandingAmount != 900 {
		t.Errorf("Expected outstanding 900, got %d", response.OutstandingAmount)
	}
	if response.Status != "due" {
		t.Errorf("Expected status 'due', got %s", response.Status)
	}
	// VND has no minor unit
	if response.DisplayAmount != "900" {
		t.Errorf("Expected display amount '900', got %s", response.DisplayAmount)
	}
}

func TestCreateLoanHandler_ValidationError(t *testing.T) {
	e := echo.New()
	handler, _ := newLoanHandlerFixture()

	reqBody := `{"amount": 0, "currencyCode": "VND", "terms": 3}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/loans", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContext(c, "auth0|test", uuid.New())

	if err := handler.CreateLoan(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}

	var problem ProblemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if problem.Type != ErrorTypeValidation {
		t.Errorf("Expected validation error type, got %s", problem.Type)
	}
}

func TestCreateLoanHandler_Unauthenticated(t *testing.T) {
	e := echo.New()
	handler, _ := newLoanHandlerFixture()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/loans", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.CreateLoan(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestGetScheduleHandler(t *testing.T) {
	e := echo.New()
	handler, loanService := newLoanHandlerFixture()
	userID := uuid.New()

	loan := createLoanForHandlerTest(t, loanService, userID, 900, 3)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/loans/1/schedule", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(int32ToString(loan.ID))

	setupAuthContext(c, "auth0|test", userID)

	if err := handler.GetSchedule(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response []ScheduledRepaymentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if len(response) != 3 {
		t.Fatalf("Expected 3 installments, got %d", len(response))
	}
	for i, installment := range response {
		if installment.Status != "due" {
			t.Errorf("Installment %d status = %s, want due", i, installment.Status)
		}
	}
	if response[0].Amount != 300 || response[2].Amount != 299 {
		t.Errorf("Unexpected installment amounts: %d, %d", response[0].Amount, response[2].Amount)
	}
}

func TestGetScheduleHandler_NotFound(t *testing.T) {
	e := echo.New()
	handler, _ := newLoanHandlerFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/loans/99/schedule", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("99")

	setupAuthContext(c, "auth0|test", uuid.New())

	if err := handler.GetSchedule(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestRepayLoanHandler(t *testing.T) {
	e := echo.New()
	handler, loanService := newLoanHandlerFixture()
	userID := uuid.New()

	loan := createLoanForHandlerTest(t, loanService, userID, 900, 3)

	reqBody := `{"amount": 300, "currencyCode": "VND"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/loans/1/repayments", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(int32ToString(loan.ID))

	setupAuthContext(c, "auth0|test", userID)

	if err := handler.RepayLoan(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", rec.Code)
	}

	var response ReceivedRepaymentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Amount != 300 {
		t.Errorf("Expected receipt amount 300, got %d", response.Amount)
	}
}

func TestRepayLoanHandler_NegativeAmount(t *testing.T) {
	e := echo.New()
	handler, loanService := newLoanHandlerFixture()
	userID := uuid.New()

	loan := createLoanForHandlerTest(t, loanService, userID, 900, 3)

	reqBody := `{"amount": -5, "currencyCode": "VND"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/loans/1/repayments", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(int32ToString(loan.ID))

	setupAuthContext(c, "auth0|test", userID)

	if err := handler.RepayLoan(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetLoanSummaryHandler(t *testing.T) {
	e := echo.New()
	handler, loanService := newLoanHandlerFixture()
	userID := uuid.New()

	createLoanForHandlerTest(t, loanService, userID, 900, 3)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/loans/summary", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContext(c, "auth0|test", userID)

	if err := handler.GetLoanSummary(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response []PortfolioSummaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(response) != 1 {
		t.Fatalf("Expected 1 currency summary, got %d", len(response))
	}
	if response[0].CurrencyCode != "VND" || response[0].TotalOutstanding != 900 {
		t.Errorf("Unexpected summary: %+v", response[0])
	}
}
