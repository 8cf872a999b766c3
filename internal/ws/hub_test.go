package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go h.Run(ctx)
	return h
}

func fakeClient(h *Hub, userID uuid.UUID) *Client {
	return &Client{hub: h, userID: userID, send: make(chan []byte, 4)}
}

func receive(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case b, ok := <-c.send:
		require.True(t, ok, "send channel closed")
		var ev Event
		require.NoError(t, json.Unmarshal(b, &ev))
		return ev
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
		return Event{}
	}
}

func TestHub_NotifyReachesEveryConnectionOfUser(t *testing.T) {
	h := startHub(t)
	alice := uuid.New()
	bob := uuid.New()

	tab1 := fakeClient(h, alice)
	tab2 := fakeClient(h, alice)
	other := fakeClient(h, bob)
	h.Register(tab1)
	h.Register(tab2)
	h.Register(other)
	require.Eventually(t, func() bool { return h.ClientCount() == 3 }, time.Second, 5*time.Millisecond)

	n := NewNotifier(h, nil)
	n.NotifyUser(alice, "message:new", map[string]string{"content": "hi"})

	for _, c := range []*Client{tab1, tab2} {
		ev := receive(t, c)
		assert.Equal(t, "message:new", ev.Event)
		assert.Equal(t, map[string]any{"content": "hi"}, ev.Data)
		assert.NotEmpty(t, ev.Timestamp)
	}
	assert.Empty(t, other.send)
}

func TestHub_UnregisterClosesSendAndClearsPresence(t *testing.T) {
	h := startHub(t)
	alice := uuid.New()
	c := fakeClient(h, alice)

	h.Register(c)
	require.Eventually(t, func() bool { return h.IsOnline(alice) }, time.Second, 5*time.Millisecond)

	h.Unregister(c)
	require.Eventually(t, func() bool { return !h.IsOnline(alice) }, time.Second, 5*time.Millisecond)

	_, ok := <-c.send
	assert.False(t, ok)
	assert.Zero(t, h.ClientCount())
}

func TestNotifier_AppliesRenderer(t *testing.T) {
	h := startHub(t)
	alice := uuid.New()
	c := fakeClient(h, alice)
	h.Register(c)
	require.Eventually(t, func() bool { return h.IsOnline(alice) }, time.Second, 5*time.Millisecond)

	n := NewNotifier(h, func(event string, payload any) any {
		return map[string]any{"wrapped": event}
	})
	n.NotifyUser(alice, "message:deleted", 42)

	ev := receive(t, c)
	assert.Equal(t, map[string]any{"wrapped": "message:deleted"}, ev.Data)
}

func TestNotifier_NilHubIsNoop(t *testing.T) {
	var n *Notifier
	assert.NotPanics(t, func() { n.NotifyUser(uuid.New(), "x", nil) })
	assert.NotPanics(t, func() { NewNotifier(nil, nil).NotifyUser(uuid.New(), "x", nil) })
}
