package server

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"
)

// These tests cover hub fanout and slow-client eviction without network I/O.
// Clients carry a nil websocket.Conn; the hub guards against nil on close.

// newTestHub returns a hub with small buffers for deterministic tests.
func newTestHub(t *testing.T, sendBuf int, broadcastBuf int) *Hub {
	t.Helper()
	return NewHub(slog.Default(), HubConfig{
		SendBuf:      sendBuf,
		BroadcastBuf: broadcastBuf,
	})
}

func newTestClient(hub *Hub, name string, buf int) *Client {
	return &Client{
		hub:        hub,
		send:       make(chan []byte, buf),
		remoteAddr: name,
		logger:     slog.Default(),
	}
}

func join(t *testing.T, hub *Hub, c *Client) {
	t.Helper()
	if err := hub.join(c, nil); err != nil {
		t.Fatalf("join %s: %v", c.remoteAddr, err)
	}
}

func TestHub_BroadcastDeliveredToAllClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := newTestHub(t, 4, 8)

	done := make(chan struct{})
	go func() {
		defer close(done)
		hub.Run(ctx)
	}()

	c1 := newTestClient(hub, "c1", 4)
	c2 := newTestClient(hub, "c2", 4)
	join(t, hub, c1)
	join(t, hub, c2)

	msg := []byte(`{"type":"state","data":{"volume":50}}`)

	// Bypass BroadcastBytes, which may drop under scheduling pressure.
	hub.broadcast <- msg

	for _, c := range []*Client{c1, c2} {
		select {
		case got := <-c.send:
			if string(got) != string(msg) {
				t.Fatalf("%s got %q, want %q", c.remoteAddr, string(got), string(msg))
			}
		case <-time.After(500 * time.Millisecond):
			t.Fatalf("timeout waiting for %s to receive broadcast", c.remoteAddr)
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatalf("timeout waiting for hub to stop")
	}

	if n := hub.Clients(); n != 0 {
		t.Fatalf("clients after shutdown = %d, want 0", n)
	}
}

func TestHub_SlowClientDisconnectedOnFullSendBuffer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := newTestHub(t, 1, 8)
	go hub.Run(ctx)

	slow := newTestClient(hub, "slow", 1)
	fast := newTestClient(hub, "fast", 8)
	join(t, hub, slow)
	join(t, hub, fast)

	// Pre-fill slow client buffer to simulate it being stuck.
	slow.send <- []byte(`"already queued"`)

	msg := []byte(`{"type":"state","data":{"powered":false}}`)
	hub.broadcast <- msg

	select {
	case got := <-fast.send:
		if string(got) != string(msg) {
			t.Fatalf("fast client got %q, want %q", string(got), string(msg))
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("timeout waiting for fast client to receive broadcast")
	}

	// Drain the pre-filled message, then expect the channel closed.
	select {
	case <-slow.send:
	default:
	}

	waitUntil(t, 750*time.Millisecond, func() bool {
		select {
		case _, ok := <-slow.send:
			return !ok
		default:
			return false
		}
	}, "expected slow send channel to be closed")

	if n := hub.Clients(); n != 1 {
		t.Fatalf("clients = %d, want 1", n)
	}
}

func waitUntil(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timeout: %s", msg)
}

func TestHub_JoinQueuesInitialFrameFirst(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := newTestHub(t, 4, 8)
	go hub.Run(ctx)

	c := newTestClient(hub, "c", 4)
	if err := hub.join(c, func() ([]byte, error) { return []byte(`"init"`), nil }); err != nil {
		t.Fatalf("join: %v", err)
	}
	if n := hub.Clients(); n != 1 {
		t.Fatalf("clients = %d, want 1", n)
	}

	hub.broadcast <- []byte(`"state"`)

	for _, want := range []string{`"init"`, `"state"`} {
		select {
		case got := <-c.send:
			if string(got) != want {
				t.Fatalf("got %q, want %q", string(got), want)
			}
		case <-time.After(500 * time.Millisecond):
			t.Fatalf("timeout waiting for %s", want)
		}
	}
}

func TestHub_JoinFailureDoesNotRegister(t *testing.T) {
	hub := newTestHub(t, 4, 8)
	c := newTestClient(hub, "c", 4)

	err := hub.join(c, func() ([]byte, error) { return nil, errors.New("marshal") })
	if err == nil {
		t.Fatal("expected join error")
	}
	if n := hub.Clients(); n != 0 {
		t.Fatalf("clients = %d, want 0", n)
	}
	if len(c.send) != 0 {
		t.Fatalf("send queue = %d, want empty", len(c.send))
	}
}

func TestHub_LeaveAfterShutdownDoesNotBlock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := newTestHub(t, 4, 8)

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		hub.Run(ctx)
	}()
	cancel()
	<-stopped

	// More leavers than the unregister queue holds
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < cap(hub.unregister)*2; i++ {
			hub.leave(newTestClient(hub, "late", 1))
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("leave blocked after hub shutdown")
	}
}
