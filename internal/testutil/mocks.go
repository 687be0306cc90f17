package testutil

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/kredio/kredio-backend/internal/domain"
)

// MockTransactor runs the transactional function directly, with a nil
// transaction handle the mock repositories ignore
type MockTransactor struct {
	// BeginErr, when set, is returned instead of running the function
	BeginErr error
}

// NewMockTransactor creates a new MockTransactor
func NewMockTransactor() *MockTransactor {
	return &MockTransactor{}
}

// WithinTransaction implements domain.Transactor
func (m *MockTransactor) WithinTransaction(ctx context.Context, fn func(tx interface{}) error) error {
	if m.BeginErr != nil {
		return m.BeginErr
	}
	return fn(nil)
}

// MockLoanRepository is a mock implementation of domain.LoanRepository
type MockLoanRepository struct {
	Loans  map[int32]*domain.Loan
	NextID int32
}

// NewMockLoanRepository creates a new MockLoanRepository
func NewMockLoanRepository() *MockLoanRepository {
	return &MockLoanRepository{
		Loans:  make(map[int32]*domain.Loan),
		NextID: 1,
	}
}

// Create creates a new loan
func (m *MockLoanRepository) Create(loan *domain.Loan) (*domain.Loan, error) {
	loan.ID = m.NextID
	m.NextID++
	loan.CreatedAt = time.Now()
	loan.UpdatedAt = loan.CreatedAt
	m.Loans[loan.ID] = loan
	return loan, nil
}

// CreateTx creates a new loan within a transaction
func (m *MockLoanRepository) CreateTx(tx interface{}, loan *domain.Loan) (*domain.Loan, error) {
	return m.Create(loan)
}

// GetByID retrieves a loan by ID scoped to the user
func (m *MockLoanRepository) GetByID(userID uuid.UUID, id int32) (*domain.Loan, error) {
	loan, ok := m.Loans[id]
	if !ok || loan.UserID != userID {
		return nil, domain.ErrLoanNotFound
	}
	return loan, nil
}

// GetByIDTx retrieves a loan by ID within a transaction
func (m *MockLoanRepository) GetByIDTx(tx interface{}, userID uuid.UUID, id int32) (*domain.Loan, error) {
	return m.GetByID(userID, id)
}

// GetAllByUser retrieves all loans for a user ordered by ID
func (m *MockLoanRepository) GetAllByUser(userID uuid.UUID) ([]*domain.Loan, error) {
	var result []*domain.Loan
	for _, loan := range m.Loans {
		if loan.UserID == userID {
			result = append(result, loan)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// UpdateOutstandingTx updates a loan's outstanding amount and status
func (m *MockLoanRepository) UpdateOutstandingTx(tx interface{}, id int32, outstanding int64, status domain.LoanStatus) (*domain.Loan, error) {
	loan, ok := m.Loans[id]
	if !ok {
		return nil, domain.ErrLoanNotFound
	}
	loan.OutstandingAmount = outstanding
	loan.Status = status
	loan.UpdatedAt = time.Now()
	return loan, nil
}

// MockScheduledRepaymentRepository is a mock implementation of domain.ScheduledRepaymentRepository
type MockScheduledRepaymentRepository struct {
	ByLoanID map[int32][]*domain.ScheduledRepayment
	NextID   int32
}

// NewMockScheduledRepaymentRepository creates a new MockScheduledRepaymentRepository
func NewMockScheduledRepaymentRepository() *MockScheduledRepaymentRepository {
	return &MockScheduledRepaymentRepository{
		ByLoanID: make(map[int32][]*domain.ScheduledRepayment),
		NextID:   1,
	}
}

// CreateBatchTx creates a loan's installments within a transaction
func (m *MockScheduledRepaymentRepository) CreateBatchTx(tx interface{}, repayments []*domain.ScheduledRepayment) error {
	for _, r := range repayments {
		r.ID = m.NextID
		m.NextID++
		m.ByLoanID[r.LoanID] = append(m.ByLoanID[r.LoanID], r)
	}
	return nil
}

// GetByLoanID retrieves installments ordered by due date, optionally filtered by status
func (m *MockScheduledRepaymentRepository) GetByLoanID(loanID int32, status domain.ScheduledRepaymentStatus) ([]*domain.ScheduledRepayment, error) {
	var result []*domain.ScheduledRepayment
	for _, r := range m.ByLoanID[loanID] {
		if status == "" || r.Status == status {
			result = append(result, r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DueDate.Before(result[j].DueDate) })
	return result, nil
}

// GetByLoanIDTx retrieves installments within a transaction
func (m *MockScheduledRepaymentRepository) GetByLoanIDTx(tx interface{}, loanID int32, status domain.ScheduledRepaymentStatus) ([]*domain.ScheduledRepayment, error) {
	return m.GetByLoanID(loanID, status)
}

// UpdateAllocationTx updates one installment's outstanding amount and status
func (m *MockScheduledRepaymentRepository) UpdateAllocationTx(tx interface{}, id int32, outstanding int64, status domain.ScheduledRepaymentStatus) error {
	for _, repayments := range m.ByLoanID {
		for _, r := range repayments {
			if r.ID == id {
				r.OutstandingAmount = outstanding
				r.Status = status
				r.UpdatedAt = time.Now()
				return nil
			}
		}
	}
	return domain.ErrScheduledRepaymentNotFound
}

// MockReceivedRepaymentRepository is a mock implementation of domain.ReceivedRepaymentRepository
type MockReceivedRepaymentRepository struct {
	ByLoanID map[int32][]*domain.ReceivedRepayment
	NextID   int32
}

// NewMockReceivedRepaymentRepository creates a new MockReceivedRepaymentRepository
func NewMockReceivedRepaymentRepository() *MockReceivedRepaymentRepository {
	return &MockReceivedRepaymentRepository{
		ByLoanID: make(map[int32][]*domain.ReceivedRepayment),
		NextID:   1,
	}
}

// CreateTx appends a receipt within a transaction
func (m *MockReceivedRepaymentRepository) CreateTx(tx interface{}, repayment *domain.ReceivedRepayment) (*domain.ReceivedRepayment, error) {
	repayment.ID = m.NextID
	m.NextID++
	repayment.CreatedAt = time.Now()
	m.ByLoanID[repayment.LoanID] = append(m.ByLoanID[repayment.LoanID], repayment)
	return repayment, nil
}

// GetByLoanID retrieves a loan's receipts newest first
func (m *MockReceivedRepaymentRepository) GetByLoanID(loanID int32) ([]*domain.ReceivedRepayment, error) {
	receipts := append([]*domain.ReceivedRepayment(nil), m.ByLoanID[loanID]...)
	sort.Slice(receipts, func(i, j int) bool { return receipts[i].ReceivedAt.After(receipts[j].ReceivedAt) })
	return receipts, nil
}

// MockDebitCardRepository is a mock implementation of domain.DebitCardRepository
type MockDebitCardRepository struct {
	Cards        map[int32]*domain.DebitCard
	Transactions map[int32]bool // card ID -> has transactions
	NextID       int32
}

// NewMockDebitCardRepository creates a new MockDebitCardRepository
func NewMockDebitCardRepository() *MockDebitCardRepository {
	return &MockDebitCardRepository{
		Cards:        make(map[int32]*domain.DebitCard),
		Transactions: make(map[int32]bool),
		NextID:       1,
	}
}

// Create creates a new debit card
func (m *MockDebitCardRepository) Create(card *domain.DebitCard) (*domain.DebitCard, error) {
	card.ID = m.NextID
	m.NextID++
	card.CreatedAt = time.Now()
	card.UpdatedAt = card.CreatedAt
	m.Cards[card.ID] = card
	return card, nil
}

// GetByID retrieves a card by ID scoped to the user
func (m *MockDebitCardRepository) GetByID(userID uuid.UUID, id int32) (*domain.DebitCard, error) {
	card, ok := m.Cards[id]
	if !ok || card.UserID != userID || card.DeletedAt != nil {
		return nil, domain.ErrDebitCardNotFound
	}
	return card, nil
}

// GetAllByUser retrieves all non-deleted cards for a user
func (m *MockDebitCardRepository) GetAllByUser(userID uuid.UUID) ([]*domain.DebitCard, error) {
	var result []*domain.DebitCard
	for _, card := range m.Cards {
		if card.UserID == userID && card.DeletedAt == nil {
			result = append(result, card)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// SetDisabled sets or clears a card's disabled timestamp
func (m *MockDebitCardRepository) SetDisabled(userID uuid.UUID, id int32, disabledAt *time.Time) (*domain.DebitCard, error) {
	card, err := m.GetByID(userID, id)
	if err != nil {
		return nil, err
	}
	card.DisabledAt = disabledAt
	card.UpdatedAt = time.Now()
	return card, nil
}

// SoftDelete marks a card as deleted
func (m *MockDebitCardRepository) SoftDelete(userID uuid.UUID, id int32) error {
	card, err := m.GetByID(userID, id)
	if err != nil {
		return err
	}
	now := time.Now()
	card.DeletedAt = &now
	return nil
}

// HasTransactions reports whether a card has transactions
func (m *MockDebitCardRepository) HasTransactions(id int32) (bool, error) {
	return m.Transactions[id], nil
}

// MockDebitCardTransactionRepository is a mock implementation of domain.DebitCardTransactionRepository
type MockDebitCardTransactionRepository struct {
	ByID   map[int32]*domain.DebitCardTransaction
	NextID int32
}

// NewMockDebitCardTransactionRepository creates a new MockDebitCardTransactionRepository
func NewMockDebitCardTransactionRepository() *MockDebitCardTransactionRepository {
	return &MockDebitCardTransactionRepository{
		ByID:   make(map[int32]*domain.DebitCardTransaction),
		NextID: 1,
	}
}

// Create creates a new transaction
func (m *MockDebitCardTransactionRepository) Create(transaction *domain.DebitCardTransaction) (*domain.DebitCardTransaction, error) {
	transaction.ID = m.NextID
	m.NextID++
	transaction.CreatedAt = time.Now()
	m.ByID[transaction.ID] = transaction
	return transaction, nil
}

// GetByID retrieves a transaction by ID
func (m *MockDebitCardTransactionRepository) GetByID(id int32) (*domain.DebitCardTransaction, error) {
	transaction, ok := m.ByID[id]
	if !ok {
		return nil, domain.ErrDebitCardTransactionNotFound
	}
	return transaction, nil
}

// GetByDebitCardID retrieves a card's transactions
func (m *MockDebitCardTransactionRepository) GetByDebitCardID(debitCardID int32) ([]*domain.DebitCardTransaction, error) {
	var result []*domain.DebitCardTransaction
	for _, transaction := range m.ByID {
		if transaction.DebitCardID == debitCardID {
			result = append(result, transaction)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	Users map[string]*domain.User
	ByID  map[uuid.UUID]*domain.User
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users: make(map[string]*domain.User),
		ByID:  make(map[uuid.UUID]*domain.User),
	}
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByAuth0ID retrieves a user by Auth0 ID
func (m *MockUserRepository) GetByAuth0ID(auth0ID string) (*domain.User, error) {
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// CreateOrGetByAuth0ID creates or retrieves a user by Auth0 ID
func (m *MockUserRepository) CreateOrGetByAuth0ID(auth0ID, email string, name *string) (*domain.User, error) {
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	user := &domain.User{
		ID:      uuid.New(),
		Auth0ID: auth0ID,
		Email:   email,
		Name:    name,
	}
	m.Users[auth0ID] = user
	m.ByID[user.ID] = user
	return user, nil
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.Users[user.Auth0ID] = user
	m.ByID[user.ID] = user
}
