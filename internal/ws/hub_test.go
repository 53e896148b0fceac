package ws

import (
	"encoding/json"
	"testing"
)

func newTestClient(hub *Hub, userID int64, buffer int) *Client {
	return &Client{
		UserID: userID,
		Send:   make(chan []byte, buffer),
		hub:    hub,
	}
}

func TestHubNotifyUserFanout(t *testing.T) {
	hub := NewHub()
	a := newTestClient(hub, 7, sendBuffer)
	b := newTestClient(hub, 7, sendBuffer)
	other := newTestClient(hub, 8, sendBuffer)
	hub.Register(a)
	hub.Register(b)
	hub.Register(other)

	hub.NotifyUser(7, "wallet_update", map[string]int64{"coins": 10})

	for i, c := range []*Client{a, b} {
		select {
		case raw := <-c.Send:
			var msg Message
			if err := json.Unmarshal(raw, &msg); err != nil {
				t.Fatalf("client %d: invalid frame: %v", i, err)
			}
			if msg.Type != "wallet_update" {
				t.Errorf("client %d: type = %q, want wallet_update", i, msg.Type)
			}
		default:
			t.Fatalf("client %d: expected a message", i)
		}
	}

	select {
	case raw := <-other.Send:
		t.Fatalf("user 8 received user 7's notification: %s", raw)
	default:
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub()
	c := newTestClient(hub, 3, 1)
	hub.Register(c)

	hub.NotifyUser(3, "wallet_update", nil)
	hub.NotifyUser(3, "wallet_update", nil)

	if got := hub.ConnectionCount(3); got != 0 {
		t.Errorf("ConnectionCount = %d, want 0 after drop", got)
	}

	// the buffered frame is still readable, then the channel must be closed
	// so the write pump terminates
	<-c.Send
	if _, ok := <-c.Send; ok {
		t.Error("send channel still open after drop")
	}
}

func TestHubUnregisterIdempotent(t *testing.T) {
	hub := NewHub()
	c := newTestClient(hub, 1, 1)
	hub.Register(c)

	hub.Unregister(c)
	hub.Unregister(c)

	if got := hub.ConnectionCount(1); got != 0 {
		t.Errorf("ConnectionCount = %d, want 0", got)
	}
}

func TestHubNotifyUnknownUser(t *testing.T) {
	hub := NewHub()
	hub.NotifyUser(42, "wallet_update", nil)
}
