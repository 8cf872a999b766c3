package message

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

const EditWindow = 15 * time.Minute

var (
	ErrNotFound            = errors.New("message not found")
	ErrNotSender           = errors.New("not authorized to modify this message")
	ErrNotParticipant      = errors.New("not authorized to access this conversation")
	ErrEditWindowExpired   = errors.New("message edit window has expired (15 minutes)")
	ErrInvalidConversation = errors.New("invalid conversation id")
)

// Edit applies a content change by requester at now.
func (m Message) Edit(requester uuid.UUID, content string, now time.Time) (Message, error) {
	if m.SenderID != requester {
		return Message{}, ErrNotSender
	}
	if now.Sub(m.CreatedAt) > EditWindow {
		return Message{}, ErrEditWindowExpired
	}
	m.Content = content
	m.IsEdited = true
	editedAt := now
	m.EditedAt = &editedAt
	m.UpdatedAt = now
	return m, nil
}

type ReactionChange int

const (
	ReactionAdded ReactionChange = iota + 1
	ReactionRemoved
	ReactionReplaced
)

// ToggleReaction applies one user's reaction to the list. Each user holds at
// most one reaction per message.
func ToggleReaction(reactions []Reaction, userID uuid.UUID, emoji string, now time.Time) ([]Reaction, ReactionChange) {
	out := make([]Reaction, 0, len(reactions)+1)
	change := ReactionAdded
	for _, r := range reactions {
		if r.UserID != userID {
			out = append(out, r)
			continue
		}
		if change != ReactionAdded {
			continue
		}
		if r.Emoji == emoji {
			change = ReactionRemoved
			continue
		}
		change = ReactionReplaced
		out = append(out, Reaction{UserID: userID, Emoji: emoji, Date: now})
	}
	if change == ReactionAdded {
		out = append(out, Reaction{UserID: userID, Emoji: emoji, Date: now})
	}
	return out, change
}

func (m Message) IsReadBy(userID uuid.UUID) bool {
	for _, r := range m.ReadBy {
		if r.UserID == userID {
			return true
		}
	}
	return false
}
