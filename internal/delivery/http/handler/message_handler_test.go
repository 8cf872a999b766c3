package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"skillbridge/internal/domain/message"
	"skillbridge/internal/domain/skill"
	"skillbridge/internal/domain/user"
	"skillbridge/internal/usecase"
	ucmessage "skillbridge/internal/usecase/message"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMessageUsecase struct {
	usecase.MessageUsecase

	send          func(sender uuid.UUID, in ucmessage.SendInput) (message.Message, error)
	conversations func(userID uuid.UUID) ([]message.ConversationSummary, error)
	history       func(requester uuid.UUID, conversation string, page, limit int) (ucmessage.HistoryResult, error)
	edit          func(requester, id uuid.UUID, content string) (message.Message, error)
	react         func(requester, id uuid.UUID, emoji string) (ucmessage.ReactionResult, error)
}

func (f *fakeMessageUsecase) Send(_ context.Context, sender uuid.UUID, in ucmessage.SendInput) (message.Message, error) {
	return f.send(sender, in)
}

func (f *fakeMessageUsecase) Conversations(_ context.Context, userID uuid.UUID) ([]message.ConversationSummary, error) {
	return f.conversations(userID)
}

func (f *fakeMessageUsecase) History(_ context.Context, requester uuid.UUID, conversation string, page, limit int) (ucmessage.HistoryResult, error) {
	return f.history(requester, conversation, page, limit)
}

func (f *fakeMessageUsecase) Edit(_ context.Context, requester, id uuid.UUID, content string) (message.Message, error) {
	return f.edit(requester, id, content)
}

func (f *fakeMessageUsecase) React(_ context.Context, requester, id uuid.UUID, emoji string) (ucmessage.ReactionResult, error) {
	return f.react(requester, id, emoji)
}

func messageApp(uc *fakeMessageUsecase) *fiber.App {
	return newTestApp(func(app *fiber.App, authMw fiber.Handler) {
		NewMessageHandler(uc).RegisterRoutes(app.Group("/api/messages", authMw))
	})
}

func TestMessageHandler_RequiresAuth(t *testing.T) {
	resp, env := do(t, messageApp(&fakeMessageUsecase{}), httptest.NewRequest(http.MethodGet, "/api/messages/conversations", nil))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "No authorization header provided", env.Message)
}

func TestMessageHandler_ConversationsRouteWinsOverHistory(t *testing.T) {
	me, other := uuid.New(), uuid.New()
	uc := &fakeMessageUsecase{
		conversations: func(userID uuid.UUID) ([]message.ConversationSummary, error) {
			assert.Equal(t, me, userID)
			return []message.ConversationSummary{{
				ConversationID: message.ConversationKey(me.String(), other.String()),
				Participant:    user.Summary{ID: other, Username: "bima"},
				LastContent:    "see you",
				LastAt:         time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC),
				UnreadCount:    2,
			}}, nil
		},
		history: func(uuid.UUID, string, int, int) (ucmessage.HistoryResult, error) {
			t.Error("history must not handle /conversations")
			return ucmessage.HistoryResult{}, nil
		},
	}

	resp, env := do(t, messageApp(uc), authed(t, httptest.NewRequest(http.MethodGet, "/api/messages/conversations", nil), me))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var data []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data, 1)
	assert.EqualValues(t, 2, data[0]["unreadCount"])
}

func TestMessageHandler_HistoryPagination(t *testing.T) {
	me, other := uuid.New(), uuid.New()
	conv := message.ConversationKey(me.String(), other.String())
	uc := &fakeMessageUsecase{history: func(requester uuid.UUID, conversation string, page, limit int) (ucmessage.HistoryResult, error) {
		assert.Equal(t, me, requester)
		assert.Equal(t, conv, conversation)
		assert.Equal(t, 2, page)
		assert.Equal(t, 1, limit)
		return ucmessage.HistoryResult{
			Messages: []message.Message{{ID: uuid.New(), Conversation: conv, SenderID: other, RecipientID: me, Content: "hi"}},
			Page:     2,
			Limit:    1,
			Total:    3,
		}, nil
	}}

	resp, env := do(t, messageApp(uc), authed(t, httptest.NewRequest(http.MethodGet, "/api/messages/"+conv+"?page=2&limit=1", nil), me))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var data struct {
		Messages   []map[string]any `json:"messages"`
		Pagination map[string]int   `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Messages, 1)
	assert.Equal(t, "hi", data.Messages[0]["content"])
	assert.Equal(t, map[string]int{"page": 2, "limit": 1, "total": 3, "pages": 3}, data.Pagination)
}

func TestMessageHandler_HistoryOutsider(t *testing.T) {
	uc := &fakeMessageUsecase{history: func(uuid.UUID, string, int, int) (ucmessage.HistoryResult, error) {
		return ucmessage.HistoryResult{}, message.ErrNotParticipant
	}}
	req := authed(t, httptest.NewRequest(http.MethodGet, "/api/messages/"+uuid.NewString()+"_"+uuid.NewString(), nil), uuid.New())
	resp, env := do(t, messageApp(uc), req)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Not authorized to access this conversation", env.Message)
}

func TestMessageHandler_SendErrors(t *testing.T) {
	t.Run("malformed related skill", func(t *testing.T) {
		req := authed(t, jsonRequest(http.MethodPost, "/api/messages/", map[string]string{
			"recipient": uuid.NewString(), "content": "hi", "relatedSkill": "nope",
		}), uuid.New())
		resp, env := do(t, messageApp(&fakeMessageUsecase{}), req)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Invalid skill id", env.Message)
	})

	cases := []struct {
		err     error
		status  int
		message string
	}{
		{skill.ErrNotFound, http.StatusNotFound, "Skill not found"},
		{ucmessage.ErrRecipientNotFound, http.StatusNotFound, "Recipient not found"},
	}
	for _, tc := range cases {
		t.Run(tc.message, func(t *testing.T) {
			related := uuid.New()
			uc := &fakeMessageUsecase{send: func(_ uuid.UUID, in ucmessage.SendInput) (message.Message, error) {
				if assert.NotNil(t, in.RelatedSkillID) {
					assert.Equal(t, related, *in.RelatedSkillID)
				}
				return message.Message{}, tc.err
			}}
			req := authed(t, jsonRequest(http.MethodPost, "/api/messages/", map[string]string{
				"recipient": uuid.NewString(), "content": "hi", "relatedSkill": related.String(),
			}), uuid.New())
			resp, env := do(t, messageApp(uc), req)
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.message, env.Message)
		})
	}
}

func TestMessageHandler_EditErrors(t *testing.T) {
	cases := []struct {
		err     error
		status  int
		message string
	}{
		{message.ErrEditWindowExpired, http.StatusBadRequest, "Message edit window has expired (15 minutes)"},
		{message.ErrNotSender, http.StatusForbidden, "Not authorized to edit this message"},
		{message.ErrNotFound, http.StatusNotFound, "Message not found"},
	}
	for _, tc := range cases {
		t.Run(tc.message, func(t *testing.T) {
			uc := &fakeMessageUsecase{edit: func(_, _ uuid.UUID, content string) (message.Message, error) {
				assert.Equal(t, "fixed", content)
				return message.Message{}, tc.err
			}}
			req := authed(t, jsonRequest(http.MethodPut, "/api/messages/"+uuid.NewString(), map[string]string{"content": "fixed"}), uuid.New())
			resp, env := do(t, messageApp(uc), req)
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.message, env.Message)
		})
	}
}

func TestMessageHandler_InvalidMessageID(t *testing.T) {
	req := authed(t, jsonRequest(http.MethodPut, "/api/messages/123", map[string]string{"content": "x"}), uuid.New())
	resp, env := do(t, messageApp(&fakeMessageUsecase{}), req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid message id", env.Message)
}

func TestMessageHandler_React(t *testing.T) {
	id, me := uuid.New(), uuid.New()

	t.Run("participant", func(t *testing.T) {
		uc := &fakeMessageUsecase{react: func(requester, got uuid.UUID, emoji string) (ucmessage.ReactionResult, error) {
			assert.Equal(t, me, requester)
			assert.Equal(t, "👍", emoji)
			return ucmessage.ReactionResult{
				MessageID: got,
				Reactions: []message.Reaction{{UserID: me, Emoji: emoji}},
			}, nil
		}}
		req := authed(t, jsonRequest(http.MethodPost, "/api/messages/"+id.String()+"/react", map[string]string{"emoji": "👍"}), me)
		resp, env := do(t, messageApp(uc), req)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var data struct {
			MessageID uuid.UUID        `json:"messageId"`
			Reactions []map[string]any `json:"reactions"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Equal(t, id, data.MessageID)
		assert.Len(t, data.Reactions, 1)
	})

	t.Run("outsider", func(t *testing.T) {
		uc := &fakeMessageUsecase{react: func(uuid.UUID, uuid.UUID, string) (ucmessage.ReactionResult, error) {
			return ucmessage.ReactionResult{}, message.ErrNotParticipant
		}}
		req := authed(t, jsonRequest(http.MethodPost, "/api/messages/"+id.String()+"/react", map[string]string{"emoji": "👍"}), me)
		resp, env := do(t, messageApp(uc), req)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, "Not authorized to react to this message", env.Message)
	})
}
