package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	EventTypingStart = "typing:start"
	EventTypingStop  = "typing:stop"
)

// Event is the envelope of every frame pushed to clients.
type Event struct {
	Event     string `json:"event"`
	Data      any    `json:"data"`
	Timestamp string `json:"timestamp"`
}

func encodeEvent(event string, data any) ([]byte, error) {
	return json.Marshal(Event{
		Event:     event,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Notifier pushes usecase events through the hub. Payloads are rendered by
// render before encoding, so the wire shape matches the REST responses.
type Notifier struct {
	hub    *Hub
	render func(event string, payload any) any
}

func NewNotifier(hub *Hub, render func(event string, payload any) any) *Notifier {
	return &Notifier{hub: hub, render: render}
}

func (n *Notifier) NotifyUser(userID uuid.UUID, event string, payload any) {
	if n == nil || n.hub == nil {
		return
	}
	if n.render != nil {
		payload = n.render(event, payload)
	}
	b, err := encodeEvent(event, payload)
	if err != nil {
		n.hub.log.Warn("ws event encode failed", "event", event, "error", err)
		return
	}
	n.hub.SendToUser(userID, b)
}
