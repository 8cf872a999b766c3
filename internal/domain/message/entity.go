package message

import (
	"time"

	"skillbridge/internal/domain/user"

	"github.com/google/uuid"
)

type Type string

const (
	TypeText          Type = "text"
	TypeSkillRequest  Type = "skill_request"
	TypeSkillResponse Type = "skill_response"
	TypeFile          Type = "file"
)

const MaxContentLength = 1000

func (t Type) Valid() bool {
	switch t {
	case TypeText, TypeSkillRequest, TypeSkillResponse, TypeFile:
		return true
	}
	return false
}

type Message struct {
	ID               uuid.UUID
	Conversation     string
	SenderID         uuid.UUID
	RecipientID      uuid.UUID
	Sender           *user.Summary
	Recipient        *user.Summary
	Content          string
	Type             Type
	RelatedSkillID   *uuid.UUID
	RelatedSkillName string
	ReadBy           []ReadReceipt
	IsEdited         bool
	EditedAt         *time.Time
	IsDeleted        bool
	DeletedAt        *time.Time
	Reactions        []Reaction
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type ReadReceipt struct {
	UserID uuid.UUID `json:"user"`
	ReadAt time.Time `json:"readAt"`
}

type Reaction struct {
	UserID uuid.UUID `json:"user"`
	Emoji  string    `json:"emoji"`
	Date   time.Time `json:"date"`
}

// ConversationSummary is one row of a user's inbox.
type ConversationSummary struct {
	ConversationID string
	Participant    user.Summary
	LastContent    string
	LastAt         time.Time
	LastIsOwn      bool
	UnreadCount    int
}
