package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kredio/kredio-backend/internal/domain"
	"github.com/kredio/kredio-backend/internal/util"
	"github.com/kredio/kredio-backend/internal/websocket"
)

// LoanService handles loan origination and repayment
type LoanService struct {
	transactor     domain.Transactor
	loanRepo       domain.LoanRepository
	scheduleRepo   domain.ScheduledRepaymentRepository
	receiptRepo    domain.ReceivedRepaymentRepository
	eventPublisher websocket.EventPublisher
}

// NewLoanService creates a new LoanService
func NewLoanService(transactor domain.Transactor, loanRepo domain.LoanRepository, scheduleRepo domain.ScheduledRepaymentRepository, receiptRepo domain.ReceivedRepaymentRepository) *LoanService {
	return &LoanService{
		transactor:   transactor,
		loanRepo:     loanRepo,
		scheduleRepo: scheduleRepo,
		receiptRepo:  receiptRepo,
	}
}

// SetEventPublisher sets the publisher for real-time updates
func (s *LoanService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *LoanService) publishEvent(userID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(userID, event)
	}
}

// CreateLoanInput contains input for creating a loan
type CreateLoanInput struct {
	Amount       int64
	CurrencyCode domain.CurrencyCode
	Terms        int32
	ProcessedAt  time.Time
}

// CreateLoan creates a loan and materializes its repayment schedule in a
// single transaction. Schedule creation is all-or-nothing: a validation
// failure creates neither the loan nor any installment.
func (s *LoanService) CreateLoan(ctx context.Context, userID uuid.UUID, input CreateLoanInput) (*domain.Loan, error) {
	loan := &domain.Loan{
		UserID:            userID,
		Amount:            input.Amount,
		OutstandingAmount: input.Amount,
		CurrencyCode:      input.CurrencyCode,
		Terms:             input.Terms,
		ProcessedAt:       input.ProcessedAt,
		Status:            domain.LoanStatusDue,
	}
	if err := loan.Validate(); err != nil {
		return nil, err
	}

	schedule, err := BuildSchedule(input.Amount, input.Terms, input.CurrencyCode, input.ProcessedAt)
	if err != nil {
		return nil, err
	}

	var created *domain.Loan
	err = s.transactor.WithinTransaction(ctx, func(tx interface{}) error {
		var txErr error
		created, txErr = s.loanRepo.CreateTx(tx, loan)
		if txErr != nil {
			return txErr
		}
		for _, installment := range schedule {
			installment.LoanID = created.ID
		}
		return s.scheduleRepo.CreateBatchTx(tx, schedule)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(userID, websocket.LoanCreated(created))

	return created, nil
}

// RepayLoan applies an incoming payment to a loan: the loan's outstanding
// amount is reduced by the raw payment amount, a receipt is appended, and
// the payment is distributed across the loan's due installments oldest
// first. The whole sequence runs in one transaction; the loan is re-read
// inside it so the outstanding amount is current.
//
// Over-payment is not rejected: the outstanding amount goes negative and
// the loan stays due. Currency mismatches are the boundary's concern.
func (s *LoanService) RepayLoan(ctx context.Context, userID uuid.UUID, loanID int32, amount int64, currencyCode domain.CurrencyCode, receivedAt time.Time) (*domain.ReceivedRepayment, error) {
	if amount < 0 {
		return nil, domain.ErrRepaymentAmountInvalid
	}

	var receipt *domain.ReceivedRepayment
	var updated *domain.Loan
	err := s.transactor.WithinTransaction(ctx, func(tx interface{}) error {
		loan, txErr := s.loanRepo.GetByIDTx(tx, userID, loanID)
		if txErr != nil {
			return txErr
		}

		newOutstanding := loan.OutstandingAmount - amount
		updated, txErr = s.loanRepo.UpdateOutstandingTx(tx, loan.ID, newOutstanding, domain.StatusForOutstanding(newOutstanding))
		if txErr != nil {
			return txErr
		}

		receipt, txErr = s.receiptRepo.CreateTx(tx, &domain.ReceivedRepayment{
			LoanID:       loan.ID,
			Amount:       amount,
			CurrencyCode: currencyCode,
			ReceivedAt:   receivedAt,
		})
		if txErr != nil {
			return txErr
		}

		dueInstallments, txErr := s.scheduleRepo.GetByLoanIDTx(tx, loan.ID, domain.ScheduledRepaymentStatusDue)
		if txErr != nil {
			return txErr
		}

		for _, update := range AllocatePayment(dueInstallments, amount) {
			if txErr = s.scheduleRepo.UpdateAllocationTx(tx, update.RepaymentID, update.OutstandingAmount, update.Status); txErr != nil {
				return txErr
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(userID, websocket.RepaymentReceived(receipt))
	if updated != nil && updated.Status == domain.LoanStatusRepaid {
		s.publishEvent(userID, websocket.LoanRepaid(updated))
	}

	return receipt, nil
}

// GetLoans retrieves all loans owned by the user
func (s *LoanService) GetLoans(userID uuid.UUID) ([]*domain.Loan, error) {
	return s.loanRepo.GetAllByUser(userID)
}

// GetLoanByID retrieves one loan owned by the user
func (s *LoanService) GetLoanByID(userID uuid.UUID, id int32) (*domain.Loan, error) {
	return s.loanRepo.GetByID(userID, id)
}

// GetSchedule retrieves a loan's installments ordered by due date
func (s *LoanService) GetSchedule(userID uuid.UUID, loanID int32) ([]*domain.ScheduledRepayment, error) {
	if _, err := s.loanRepo.GetByID(userID, loanID); err != nil {
		return nil, err
	}
	return s.scheduleRepo.GetByLoanID(loanID, "")
}

// GetReceipts retrieves a loan's received repayments
func (s *LoanService) GetReceipts(userID uuid.UUID, loanID int32) ([]*domain.ReceivedRepayment, error) {
	if _, err := s.loanRepo.GetByID(userID, loanID); err != nil {
		return nil, err
	}
	return s.receiptRepo.GetByLoanID(loanID)
}

// CurrencySummary aggregates a user's loans in one currency
type CurrencySummary struct {
	CurrencyCode     domain.CurrencyCode
	LoanCount        int32
	TotalAmount      int64
	TotalOutstanding int64
}

// GetPortfolioSummary aggregates the user's loans per currency. Amounts
// stay in minor units; the handler renders display values.
func (s *LoanService) GetPortfolioSummary(userID uuid.UUID) ([]*CurrencySummary, error) {
	loans, err := s.loanRepo.GetAllByUser(userID)
	if err != nil {
		return nil, err
	}

	byCurrency := make(map[domain.CurrencyCode]*CurrencySummary)
	order := make([]domain.CurrencyCode, 0, 2)
	for _, loan := range loans {
		summary, ok := byCurrency[loan.CurrencyCode]
		if !ok {
			summary = &CurrencySummary{CurrencyCode: loan.CurrencyCode}
			byCurrency[loan.CurrencyCode] = summary
			order = append(order, loan.CurrencyCode)
		}
		summary.LoanCount++
		summary.TotalAmount += loan.Amount
		summary.TotalOutstanding += loan.OutstandingAmount
	}

	result := make([]*CurrencySummary, 0, len(order))
	for _, code := range order {
		result = append(result, byCurrency[code])
	}
	return result, nil
}

// BuildSchedule produces the fixed repayment schedule for a loan: one
// installment per term, due at one-month intervals after processedAt with
// day-of-month clamping, amounts summing from floor division of the
// principal.
//
// The final term is computed as amount - (terms-1)*base - 1. The trailing
// -1 leaves the schedule total exactly one minor unit short of the
// principal; this reproduces the long-standing behavior of the production
// ledger and is kept until a product decision says otherwise (see
// DESIGN.md).
func BuildSchedule(amount int64, terms int32, currencyCode domain.CurrencyCode, processedAt time.Time) ([]*domain.ScheduledRepayment, error) {
	if amount <= 0 {
		return nil, domain.ErrLoanAmountInvalid
	}
	if terms < 1 {
		return nil, domain.ErrLoanTermsInvalid
	}

	base := amount / int64(terms)

	schedule := make([]*domain.ScheduledRepayment, 0, terms)
	for i := int32(0); i < terms; i++ {
		installmentAmount := base
		if i == terms-1 {
			installmentAmount = amount - int64(terms-1)*base - 1
		}
		schedule = append(schedule, &domain.ScheduledRepayment{
			Amount:            installmentAmount,
			OutstandingAmount: installmentAmount,
			CurrencyCode:      currencyCode,
			DueDate:           util.AddMonths(processedAt, int(i)+1),
			Status:            domain.ScheduledRepaymentStatusDue,
		})
	}

	return schedule, nil
}

// AllocationUpdate is one installment mutation produced by AllocatePayment
type AllocationUpdate struct {
	RepaymentID       int32
	OutstandingAmount int64
	Status            domain.ScheduledRepaymentStatus
}

// AllocatePayment distributes a payment across installments oldest first
// and returns the resulting updates without touching any state. The input
// must hold only installments currently in status due, sorted by due date
// ascending; partial installments from earlier payments are deliberately
// excluded from allocation.
//
// Each installment the payment covers in full becomes repaid; the first
// installment it cannot cover absorbs the remainder, becomes partial, and
// ends the walk. The sum applied never exceeds the payment amount.
func AllocatePayment(dueInstallments []*domain.ScheduledRepayment, amount int64) []AllocationUpdate {
	updates := make([]AllocationUpdate, 0, len(dueInstallments))

	remaining := amount
	for _, installment := range dueInstallments {
		if remaining >= installment.OutstandingAmount {
			remaining -= installment.OutstandingAmount
			updates = append(updates, AllocationUpdate{
				RepaymentID:       installment.ID,
				OutstandingAmount: 0,
				Status:            domain.ScheduledRepaymentStatusRepaid,
			})
			continue
		}
		if remaining > 0 {
			updates = append(updates, AllocationUpdate{
				RepaymentID:       installment.ID,
				OutstandingAmount: installment.OutstandingAmount - remaining,
				Status:            domain.ScheduledRepaymentStatusPartial,
			})
		}
		break
	}

	return updates
}
