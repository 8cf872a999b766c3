package message

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"skillbridge/internal/domain/message"
	"skillbridge/internal/domain/user"
	"skillbridge/internal/pkg/logger"
	"skillbridge/internal/pkg/validate"

	"github.com/google/uuid"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// Realtime event names pushed to connected clients.
const (
	EventMessageNew     = "message:new"
	EventMessageUpdated = "message:updated"
	EventMessageDeleted = "message:deleted"
	EventReaction       = "message:reaction"
)

var (
	ErrRecipientNotFound = errors.New("recipient not found")
	ErrEmojiRequired     = errors.New("emoji is required")
)

// Notifier pushes an event to every live connection of a user.
type Notifier interface {
	NotifyUser(userID uuid.UUID, event string, payload any)
}

type SendInput struct {
	RecipientID    uuid.UUID `validate:"required"`
	Content        string    `validate:"required"`
	Type           string
	RelatedSkillID *uuid.UUID
}

func (SendInput) ValidationMessages() validate.Messages {
	return validate.Messages{
		"RecipientID": "Recipient and content are required",
		"Content":     "Recipient and content are required",
	}
}

type HistoryResult struct {
	Messages []message.Message
	Page     int
	Limit    int
	Total    int
	Marked   int64
}

type ReactionResult struct {
	MessageID uuid.UUID
	Change    message.ReactionChange
	Reactions []message.Reaction
}

type Service struct {
	messages message.Repository
	users    user.Repository
	notifier Notifier
	log      *logger.Logger
	now      func() time.Time
}

func NewService(messages message.Repository, users user.Repository, notifier Notifier, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{messages: messages, users: users, notifier: notifier, log: log, now: time.Now}
}

// WithClock replaces the time source used for edit windows and timestamps.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Send(ctx context.Context, sender uuid.UUID, in SendInput) (message.Message, error) {
	in.Content = strings.TrimSpace(in.Content)
	if err := validate.Struct(in); err != nil {
		return message.Message{}, err
	}
	content := in.Content
	if in.RecipientID == sender {
		return message.Message{}, validate.Errorf("Cannot send message to yourself")
	}
	if err := checkContent(content); err != nil {
		return message.Message{}, err
	}
	typ := message.TypeText
	if t := strings.TrimSpace(in.Type); t != "" {
		typ = message.Type(t)
	}
	if !typ.Valid() {
		return message.Message{}, validate.Errorf("Invalid message type")
	}

	recipient, err := s.users.GetUserByID(ctx, in.RecipientID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return message.Message{}, ErrRecipientNotFound
		}
		return message.Message{}, fmt.Errorf("load recipient: %w", err)
	}
	from, err := s.users.GetUserByID(ctx, sender)
	if err != nil {
		return message.Message{}, fmt.Errorf("load sender: %w", err)
	}

	now := s.now().UTC()
	m := message.Message{
		ID:             uuid.New(),
		Conversation:   message.ConversationKey(sender.String(), in.RecipientID.String()),
		SenderID:       sender,
		RecipientID:    in.RecipientID,
		Content:        content,
		Type:           typ,
		RelatedSkillID: in.RelatedSkillID,
		ReadBy:         []message.ReadReceipt{},
		Reactions:      []message.Reaction{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.messages.Create(ctx, m); err != nil {
		return message.Message{}, fmt.Errorf("create message: %w", err)
	}
	m.Sender = summaryOf(from)
	m.Recipient = summaryOf(recipient)

	s.notify(m.RecipientID, EventMessageNew, m)
	return m, nil
}

func (s *Service) Conversations(ctx context.Context, userID uuid.UUID) ([]message.ConversationSummary, error) {
	return s.messages.Conversations(ctx, userID)
}

// History returns one page of a conversation oldest-first and marks the
// requester's unread messages in it as read.
func (s *Service) History(ctx context.Context, requester uuid.UUID, conversation string, page, limit int) (HistoryResult, error) {
	if err := authorizeConversation(conversation, requester); err != nil {
		return HistoryResult{}, err
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	msgs, total, err := s.messages.ListConversation(ctx, conversation, limit, (page-1)*limit)
	if err != nil {
		return HistoryResult{}, fmt.Errorf("list conversation: %w", err)
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}

	marked, err := s.messages.MarkConversationRead(ctx, conversation, requester, s.now().UTC())
	if err != nil {
		return HistoryResult{}, fmt.Errorf("mark read: %w", err)
	}
	return HistoryResult{Messages: msgs, Page: page, Limit: limit, Total: total, Marked: marked}, nil
}

func (s *Service) Edit(ctx context.Context, requester, id uuid.UUID, content string) (message.Message, error) {
	content = strings.TrimSpace(content)
	if err := validate.Var(content, "required", "Content is required"); err != nil {
		return message.Message{}, err
	}
	if err := checkContent(content); err != nil {
		return message.Message{}, err
	}

	m, err := s.live(ctx, id)
	if err != nil {
		return message.Message{}, err
	}
	edited, err := m.Edit(requester, content, s.now().UTC())
	if err != nil {
		return message.Message{}, err
	}
	if err := s.messages.UpdateContent(ctx, edited); err != nil {
		return message.Message{}, fmt.Errorf("update message: %w", err)
	}

	s.notify(edited.RecipientID, EventMessageUpdated, edited)
	return edited, nil
}

func (s *Service) Delete(ctx context.Context, requester, id uuid.UUID) error {
	m, err := s.live(ctx, id)
	if err != nil {
		return err
	}
	if m.SenderID != requester {
		return message.ErrNotSender
	}
	if err := s.messages.SoftDelete(ctx, id, s.now().UTC()); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}

	s.notify(m.RecipientID, EventMessageDeleted, map[string]any{"id": m.ID, "conversation": m.Conversation})
	return nil
}

// React toggles requester's reaction: add, remove on the same emoji, replace otherwise.
func (s *Service) React(ctx context.Context, requester, id uuid.UUID, emoji string) (ReactionResult, error) {
	emoji = strings.TrimSpace(emoji)
	if emoji == "" {
		return ReactionResult{}, ErrEmojiRequired
	}

	m, err := s.live(ctx, id)
	if err != nil {
		return ReactionResult{}, err
	}
	if !message.IsParticipant(m.Conversation, requester.String()) {
		return ReactionResult{}, message.ErrNotParticipant
	}

	reactions, change := message.ToggleReaction(m.Reactions, requester, emoji, s.now().UTC())
	switch change {
	case message.ReactionRemoved:
		err = s.messages.DeleteReaction(ctx, id, requester)
	default:
		err = s.messages.UpsertReaction(ctx, id, reactionOf(reactions, requester))
	}
	if err != nil {
		return ReactionResult{}, fmt.Errorf("save reaction: %w", err)
	}

	res := ReactionResult{MessageID: id, Change: change, Reactions: reactions}
	other := m.RecipientID
	if other == requester {
		other = m.SenderID
	}
	s.notify(other, EventReaction, res)
	return res, nil
}

func (s *Service) live(ctx context.Context, id uuid.UUID) (message.Message, error) {
	m, err := s.messages.GetByID(ctx, id)
	if err != nil {
		return message.Message{}, err
	}
	if m.IsDeleted {
		return message.Message{}, message.ErrNotFound
	}
	return m, nil
}

func (s *Service) notify(userID uuid.UUID, event string, payload any) {
	if s.notifier == nil {
		return
	}
	s.notifier.NotifyUser(userID, event, payload)
}

func authorizeConversation(conversation string, requester uuid.UUID) error {
	if _, _, ok := message.Participants(conversation); !ok {
		return message.ErrInvalidConversation
	}
	if !message.IsParticipant(conversation, requester.String()) {
		return message.ErrNotParticipant
	}
	return nil
}

func checkContent(content string) error {
	return validate.Var(content, "max="+strconv.Itoa(message.MaxContentLength),
		fmt.Sprintf("Message cannot exceed %d characters", message.MaxContentLength))
}

func reactionOf(reactions []message.Reaction, userID uuid.UUID) message.Reaction {
	for _, r := range reactions {
		if r.UserID == userID {
			return r
		}
	}
	return message.Reaction{}
}

func summaryOf(u user.User) *user.Summary {
	return &user.Summary{
		ID:             u.ID,
		Username:       u.Username,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		ProfilePicture: u.ProfilePicture,
	}
}
