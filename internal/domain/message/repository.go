package message

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, m Message) error
	GetByID(ctx context.Context, id uuid.UUID) (Message, error)
	UpdateContent(ctx context.Context, m Message) error
	SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error

	ListConversation(ctx context.Context, conversation string, limit, offset int) ([]Message, int, error)
	// MarkConversationRead adds a read receipt for every message addressed to
	// userID that it has not read yet, returning how many were marked.
	MarkConversationRead(ctx context.Context, conversation string, userID uuid.UUID, at time.Time) (int64, error)
	Conversations(ctx context.Context, userID uuid.UUID) ([]ConversationSummary, error)

	UpsertReaction(ctx context.Context, messageID uuid.UUID, r Reaction) error
	DeleteReaction(ctx context.Context, messageID, userID uuid.UUID) error
}
