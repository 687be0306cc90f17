package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents the type of event (created, updated, deleted)
type EventType string

const (
	EventTypeCreated  EventType = "created"
	EventTypeUpdated  EventType = "updated"
	EventTypeDeleted  EventType = "deleted"
	EventTypeRepaid   EventType = "repaid"
	EventTypeReceived EventType = "received"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeLoan                 EntityType = "loan"
	EntityTypeRepayment            EntityType = "repayment"
	EntityTypeDebitCard            EntityType = "debit_card"
	EntityTypeDebitCardTransaction EntityType = "debit_card_transaction"
)

// Event represents a WebSocket event message sent to clients
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "loan.created"
	Entity    EntityType  `json:"entity"`    // Entity type e.g. "loan"
	Payload   interface{} `json:"payload"`   // Full entity data
	Timestamp time.Time   `json:"timestamp"` // Event timestamp
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// LoanCreated creates a loan.created event
func LoanCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeLoan, payload)
}

// LoanRepaid creates a loan.repaid event, published when a repayment
// brings the loan's outstanding amount to exactly zero
func LoanRepaid(payload interface{}) Event {
	return NewEvent(EventTypeRepaid, EntityTypeLoan, payload)
}

// RepaymentReceived creates a repayment.received event
func RepaymentReceived(payload interface{}) Event {
	return NewEvent(EventTypeReceived, EntityTypeRepayment, payload)
}

// DebitCardCreated creates a debit_card.created event
func DebitCardCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeDebitCard, payload)
}

// DebitCardUpdated creates a debit_card.updated event
func DebitCardUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeDebitCard, payload)
}

// DebitCardDeleted creates a debit_card.deleted event
func DebitCardDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeDebitCard, payload)
}

// DebitCardTransactionCreated creates a debit_card_transaction.created event
func DebitCardTransactionCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeDebitCardTransaction, payload)
}
