package handler

import (
	"github.com/kredio/kredio-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter, loanHandler *LoanHandler, debitCardHandler *DebitCardHandler, transactionHandler *DebitCardTransactionHandler) {
	// API version 1
	api := e.Group("/api/v1")
	api.Use(authMiddleware.Authenticate())
	if rateLimiter != nil {
		api.Use(middleware.RateLimitMiddleware(rateLimiter))
	}

	// Loan routes
	loans := api.Group("/loans")
	loans.POST("", loanHandler.CreateLoan)
	loans.GET("", loanHandler.GetLoans)
	loans.GET("/summary", loanHandler.GetLoanSummary)
	loans.GET("/:id", loanHandler.GetLoan)
	loans.GET("/:id/schedule", loanHandler.GetSchedule)
	loans.POST("/:id/repayments", loanHandler.RepayLoan)
	loans.GET("/:id/repayments", loanHandler.GetRepayments)

	// Debit card routes
	cards := api.Group("/debit-cards")
	cards.POST("", debitCardHandler.CreateDebitCard)
	cards.GET("", debitCardHandler.GetDebitCards)
	cards.GET("/:id", debitCardHandler.GetDebitCard)
	cards.PUT("/:id", debitCardHandler.UpdateDebitCard)
	cards.DELETE("/:id", debitCardHandler.DeleteDebitCard)

	// Debit card transaction routes
	transactions := api.Group("/debit-card-transactions")
	transactions.POST("", transactionHandler.CreateDebitCardTransaction)
	transactions.GET("", transactionHandler.GetDebitCardTransactions)
	transactions.GET("/:id", transactionHandler.GetDebitCardTransaction)
}
