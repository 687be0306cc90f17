package websocket

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// mockClient is a test double for Client that captures sent messages
type mockClient struct {
	id       string
	userID   uuid.UUID
	messages [][]byte
	mu       sync.Mutex
	closed   bool
}

func newMockClient(id string, userID uuid.UUID) *mockClient {
	return &mockClient{
		id:       id,
		userID:   userID,
		messages: make([][]byte, 0),
	}
}

func (m *mockClient) ID() string {
	return m.id
}

func (m *mockClient) UserID() uuid.UUID {
	return m.userID
}

func (m *mockClient) Send(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClientClosed
	}
	m.messages = append(m.messages, data)
	return nil
}

func (m *mockClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockClient) GetMessages() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([][]byte, len(m.messages))
	copy(copied, m.messages)
	return copied
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()

	alice := uuid.New()
	bob := uuid.New()

	client1 := newMockClient("client-1", alice)
	client2 := newMockClient("client-2", alice)
	client3 := newMockClient("client-3", bob)

	hub.Register(client1)
	hub.Register(client2)
	hub.Register(client3)

	assert.Equal(t, 2, hub.ClientCount(alice))
	assert.Equal(t, 1, hub.ClientCount(bob))
	assert.Equal(t, 0, hub.ClientCount(uuid.New()))
	assert.Equal(t, 3, hub.TotalClientCount())

	hub.Unregister(client1)
	assert.Equal(t, 1, hub.ClientCount(alice))

	hub.Unregister(client2)
	hub.Unregister(client3)
	assert.Equal(t, 0, hub.ClientCount(alice))
	assert.Equal(t, 0, hub.ClientCount(bob))
}

func TestHub_Broadcast_UserIsolation(t *testing.T) {
	hub := NewHub()

	alice := uuid.New()
	bob := uuid.New()

	client1a := newMockClient("client-1a", alice)
	client1b := newMockClient("client-1b", alice)
	client2 := newMockClient("client-2", bob)

	hub.Register(client1a)
	hub.Register(client1b)
	hub.Register(client2)

	evt := LoanCreated(map[string]interface{}{"id": float64(42)})
	hub.Broadcast(alice, evt)

	// Give goroutines time to process
	time.Sleep(10 * time.Millisecond)

	assert.Len(t, client1a.GetMessages(), 1, "client1a should receive 1 message")
	assert.Len(t, client1b.GetMessages(), 1, "client1b should receive 1 message")
	assert.Len(t, client2.GetMessages(), 0, "client2 should not receive another user's event")
}

func TestHub_Broadcast_NoClients(t *testing.T) {
	hub := NewHub()

	// Broadcasting with no registered clients must not panic
	hub.Broadcast(uuid.New(), RepaymentReceived(map[string]interface{}{"id": float64(1)}))
}

func TestHub_ConcurrentAccess(t *testing.T) {
	hub := NewHub()

	users := make([]uuid.UUID, 5)
	for i := range users {
		users[i] = uuid.New()
	}

	var wg sync.WaitGroup
	clientCount := 50

	clients := make([]*mockClient, clientCount)
	for i := 0; i < clientCount; i++ {
		clients[i] = newMockClient("client-"+string(rune('a'+i)), users[i%5])
	}

	for i := 0; i < clientCount; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			hub.Register(clients[idx])
		}(i)
	}

	wg.Wait()
	assert.Equal(t, clientCount, hub.TotalClientCount())

	// Concurrently broadcast and unregister
	for i := 0; i < clientCount; i++ {
		wg.Add(2)
		go func(idx int) {
			defer wg.Done()
			evt := LoanRepaid(map[string]interface{}{"id": float64(idx)})
			hub.Broadcast(users[idx%5], evt)
		}(i)
		go func(idx int) {
			defer wg.Done()
			hub.Unregister(clients[idx])
		}(i)
	}

	wg.Wait()
	assert.Equal(t, 0, hub.TotalClientCount())
}
