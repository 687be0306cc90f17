package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/kredio/kredio-backend/internal/domain"
	"github.com/kredio/kredio-backend/internal/service"
	"github.com/kredio/kredio-backend/internal/testutil"
	"github.com/labstack/echo/v4"
)

func newTransactionHandlerFixture(t *testing.T) (*DebitCardTransactionHandler, *service.DebitCardTransactionService, *domain.DebitCard, uuid.UUID) {
	t.Helper()
	cardRepo := testutil.NewMockDebitCardRepository()
	transactionRepo := testutil.NewMockDebitCardTransactionRepository()
	cardService := service.NewDebitCardService(cardRepo)
	transactionService := service.NewDebitCardTransactionService(transactionRepo, cardRepo)

	userID := uuid.New()
	card, err := cardService.CreateCard(userID, "visa")
	if err != nil {
		t.Fatalf("CreateCard failed: %v", err)
	}
	return NewDebitCardTransactionHandler(transactionService), transactionService, card, userID
}

func TestCreateDebitCardTransactionHandler(t *testing.T) {
	e := echo.New()
	handler, _, card, userID := newTransactionHandlerFixture(t)

	reqBody := `{"debitCardId": ` + int32ToString(card.ID) + `, "amount": 2500, "currencyCode": "SGD"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/debit-card-transactions", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContext(c, "auth0|test", userID)

	if err := handler.CreateDebitCardTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", rec.Code)
	}

	var response DebitCardTransactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Amount != 2500 {
		t.Errorf("Expected amount 2500, got %d", response.Amount)
	}
	// SGD has two minor unit digits
	if response.DisplayAmount != "25" {
		t.Errorf("Expected display amount '25', got %s", response.DisplayAmount)
	}
}

func TestCreateDebitCardTransactionHandler_ForeignCard(t *testing.T) {
	e := echo.New()
	handler, _, card, _ := newTransactionHandlerFixture(t)

	reqBody := `{"debitCardId": ` + int32ToString(card.ID) + `, "amount": 100, "currencyCode": "VND"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/debit-card-transactions", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContext(c, "auth0|other", uuid.New())

	if err := handler.CreateDebitCardTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestGetDebitCardTransactionsHandler(t *testing.T) {
	e := echo.New()
	handler, transactionService, card, userID := newTransactionHandlerFixture(t)

	for _, amount := range []int64{100, 200} {
		if _, err := transactionService.CreateTransaction(userID, card.ID, amount, domain.CurrencyVND); err != nil {
			t.Fatalf("CreateTransaction failed: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/debit-card-transactions?debitCardId="+int32ToString(card.ID), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContext(c, "auth0|test", userID)

	if err := handler.GetDebitCardTransactions(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response []DebitCardTransactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(response) != 2 {
		t.Errorf("Expected 2 transactions, got %d", len(response))
	}
}

func TestGetDebitCardTransactionsHandler_MissingQueryParam(t *testing.T) {
	e := echo.New()
	handler, _, _, userID := newTransactionHandlerFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/debit-card-transactions", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContext(c, "auth0|test", userID)

	if err := handler.GetDebitCardTransactions(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}
