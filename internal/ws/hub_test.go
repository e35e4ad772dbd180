package ws

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestClient(userID uint) *Client {
	return &Client{UserID: userID, Role: "MEMBER", Send: make(chan []byte, 4)}
}

func TestBroadcastDeliversToEveryConnection(t *testing.T) {
	h := NewHub()
	a := newTestClient(1)
	b := newTestClient(1)
	other := newTestClient(2)
	h.Register(a)
	h.Register(b)
	h.Register(other)

	h.BroadcastToUser(1, map[string]string{"title": "Oi"})

	require.Len(t, a.Send, 1)
	require.Len(t, b.Send, 1)
	require.Len(t, other.Send, 0)
	require.Equal(t, 3, h.ClientCount())
}

func TestCloseUnregistersAndIsIdempotent(t *testing.T) {
	h := NewHub()
	c := newTestClient(1)
	h.Register(c)
	c.Close()
	c.Close()
	require.Equal(t, 0, h.ClientCount())
}

func TestBroadcastToClosedClientDoesNotPanic(t *testing.T) {
	h := NewHub()
	c := newTestClient(1)
	h.Register(c)
	c.Close()

	require.NotPanics(t, func() {
		h.BroadcastToUser(1, map[string]string{"title": "tarde demais"})
	})
}

// Closing connections while broadcasts are in flight must never hit the
// closed channel. Run with the race detector to cover the locking too.
func TestConcurrentBroadcastAndClose(t *testing.T) {
	h := NewHub()
	clients := make([]*Client, 20)
	for i := range clients {
		clients[i] = newTestClient(1)
		h.Register(clients[i])
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			h.BroadcastToUser(1, map[string]int{"seq": i})
		}
	}()
	go func() {
		defer wg.Done()
		for _, c := range clients {
			c.Close()
		}
	}()
	wg.Wait()
	require.Equal(t, 0, h.ClientCount())
}
