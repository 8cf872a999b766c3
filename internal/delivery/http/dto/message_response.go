package dto

import (
	"time"

	"skillbridge/internal/domain/message"
	"skillbridge/internal/domain/user"
	msguc "skillbridge/internal/usecase/message"

	"github.com/google/uuid"
)

type MessageResponse struct {
	ID             uuid.UUID             `json:"id"`
	ConversationID string                `json:"conversationId"`
	Sender         any                   `json:"sender"`
	Recipient      any                   `json:"recipient"`
	Content        string                `json:"content"`
	MessageType    string                `json:"messageType"`
	RelatedSkill   any                   `json:"relatedSkill,omitempty"`
	ReadBy         []message.ReadReceipt `json:"readBy"`
	IsEdited       bool                  `json:"isEdited"`
	EditedAt       *time.Time            `json:"editedAt,omitempty"`
	Reactions      []message.Reaction    `json:"reactions"`
	CreatedAt      time.Time             `json:"createdAt"`
	UpdatedAt      time.Time             `json:"updatedAt"`
}

type relatedSkill struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title,omitempty"`
}

func NewMessageResponse(m message.Message) MessageResponse {
	res := MessageResponse{
		ID:             m.ID,
		ConversationID: m.Conversation,
		Sender:         summaryOrID(m.Sender, m.SenderID),
		Recipient:      summaryOrID(m.Recipient, m.RecipientID),
		Content:        m.Content,
		MessageType:    string(m.Type),
		ReadBy:         m.ReadBy,
		IsEdited:       m.IsEdited,
		EditedAt:       m.EditedAt,
		Reactions:      m.Reactions,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
	if m.RelatedSkillID != nil {
		res.RelatedSkill = relatedSkill{ID: *m.RelatedSkillID, Title: m.RelatedSkillName}
	}
	if res.ReadBy == nil {
		res.ReadBy = []message.ReadReceipt{}
	}
	if res.Reactions == nil {
		res.Reactions = []message.Reaction{}
	}
	return res
}

func NewMessageResponses(msgs []message.Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, NewMessageResponse(m))
	}
	return out
}

type LastMessageResponse struct {
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	IsOwn     bool      `json:"isOwn"`
}

type ConversationResponse struct {
	ConversationID string              `json:"conversationId"`
	Participant    user.Summary        `json:"participant"`
	LastMessage    LastMessageResponse `json:"lastMessage"`
	UnreadCount    int                 `json:"unreadCount"`
}

func NewConversationResponses(convs []message.ConversationSummary) []ConversationResponse {
	out := make([]ConversationResponse, 0, len(convs))
	for _, c := range convs {
		out = append(out, ConversationResponse{
			ConversationID: c.ConversationID,
			Participant:    c.Participant,
			LastMessage: LastMessageResponse{
				Content:   c.LastContent,
				Timestamp: c.LastAt,
				IsOwn:     c.LastIsOwn,
			},
			UnreadCount: c.UnreadCount,
		})
	}
	return out
}

// RenderMessageEvent shapes realtime payloads the same way the REST
// responses are shaped.
func RenderMessageEvent(_ string, payload any) any {
	switch p := payload.(type) {
	case message.Message:
		return NewMessageResponse(p)
	case msguc.ReactionResult:
		return map[string]any{"messageId": p.MessageID, "reactions": nonNilReactions(p.Reactions)}
	default:
		return payload
	}
}

func nonNilReactions(r []message.Reaction) []message.Reaction {
	if r == nil {
		return []message.Reaction{}
	}
	return r
}
