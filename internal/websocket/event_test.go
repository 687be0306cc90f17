package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	payload := map[string]interface{}{
		"id":     1,
		"amount": float64(900),
	}

	before := time.Now()
	evt := NewEvent(EventTypeCreated, EntityTypeLoan, payload)
	after := time.Now()

	assert.Equal(t, "loan.created", evt.Type)
	assert.Equal(t, EntityTypeLoan, evt.Entity)
	assert.Equal(t, payload, evt.Payload)
	assert.True(t, !evt.Timestamp.Before(before) && !evt.Timestamp.After(after))
}

func TestEvent_ToJSON(t *testing.T) {
	payload := map[string]interface{}{
		"id": float64(42),
	}

	evt := NewEvent(EventTypeRepaid, EntityTypeLoan, payload)

	data, err := evt.ToJSON()
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	var decoded map[string]interface{}
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)

	assert.Equal(t, "loan.repaid", decoded["type"])
	assert.Equal(t, "loan", decoded["entity"])
	assert.NotNil(t, decoded["payload"])
	assert.NotNil(t, decoded["timestamp"])
}

func TestLoanEvent_Helpers(t *testing.T) {
	payload := map[string]interface{}{
		"id":           float64(1),
		"amount":       float64(900),
		"currencyCode": "VND",
	}

	t.Run("LoanCreated", func(t *testing.T) {
		evt := LoanCreated(payload)
		assert.Equal(t, "loan.created", evt.Type)
		assert.Equal(t, EntityTypeLoan, evt.Entity)
		assert.Equal(t, payload, evt.Payload)
	})

	t.Run("LoanRepaid", func(t *testing.T) {
		evt := LoanRepaid(payload)
		assert.Equal(t, "loan.repaid", evt.Type)
		assert.Equal(t, EntityTypeLoan, evt.Entity)
	})

	t.Run("RepaymentReceived", func(t *testing.T) {
		evt := RepaymentReceived(payload)
		assert.Equal(t, "repayment.received", evt.Type)
		assert.Equal(t, EntityTypeRepayment, evt.Entity)
	})
}

func TestDebitCardEvent_Helpers(t *testing.T) {
	payload := map[string]interface{}{
		"id":   float64(7),
		"type": "visa",
	}

	t.Run("DebitCardCreated", func(t *testing.T) {
		evt := DebitCardCreated(payload)
		assert.Equal(t, "debit_card.created", evt.Type)
		assert.Equal(t, EntityTypeDebitCard, evt.Entity)
	})

	t.Run("DebitCardUpdated", func(t *testing.T) {
		evt := DebitCardUpdated(payload)
		assert.Equal(t, "debit_card.updated", evt.Type)
	})

	t.Run("DebitCardDeleted", func(t *testing.T) {
		evt := DebitCardDeleted(payload)
		assert.Equal(t, "debit_card.deleted", evt.Type)
	})

	t.Run("DebitCardTransactionCreated", func(t *testing.T) {
		evt := DebitCardTransactionCreated(payload)
		assert.Equal(t, "debit_card_transaction.created", evt.Type)
		assert.Equal(t, EntityTypeDebitCardTransaction, evt.Entity)
	})
}
