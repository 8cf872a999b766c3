package message

import (
	"context"
	"sync"
	"testing"
	"time"

	"skillbridge/internal/domain/message"
	"skillbridge/internal/domain/user"
	"skillbridge/internal/pkg/validate"
	"skillbridge/internal/usecase/usecasetest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pushed struct {
	userID uuid.UUID
	event  string
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []pushed
}

func (n *recordingNotifier) NotifyUser(userID uuid.UUID, event string, _ any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, pushed{userID: userID, event: event})
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

type fixture struct {
	svc      *Service
	messages *usecasetest.Messages
	notifier *recordingNotifier
	clock    *clock
	alice    user.User
	bob      user.User
	carol    user.User
}

func newFixture() *fixture {
	mk := func(name string) user.User {
		return user.User{ID: uuid.New(), Username: name, FirstName: name, IsActive: true}
	}
	f := &fixture{
		messages: usecasetest.NewMessages(),
		notifier: &recordingNotifier{},
		clock:    &clock{t: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)},
		alice:    mk("alice"),
		bob:      mk("bob"),
		carol:    mk("carol"),
	}
	users := usecasetest.NewUsers(f.alice, f.bob, f.carol)
	f.svc = NewService(f.messages, users, f.notifier, nil).WithClock(f.clock.now)
	return f
}

func (f *fixture) send(t *testing.T, from, to uuid.UUID, content string) message.Message {
	t.Helper()
	m, err := f.svc.Send(context.Background(), from, SendInput{RecipientID: to, Content: content})
	require.NoError(t, err)
	return m
}

func TestSend(t *testing.T) {
	f := newFixture()
	m := f.send(t, f.alice.ID, f.bob.ID, "  hello  ")

	assert.Equal(t, "hello", m.Content)
	assert.Equal(t, message.TypeText, m.Type)
	assert.Equal(t, message.ConversationKey(f.bob.ID.String(), f.alice.ID.String()), m.Conversation)
	assert.Equal(t, "alice", m.Sender.Username)
	assert.Equal(t, "bob", m.Recipient.Username)

	require.Len(t, f.notifier.events, 1)
	assert.Equal(t, pushed{userID: f.bob.ID, event: EventMessageNew}, f.notifier.events[0])
}

func TestSend_Validation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Send(ctx, f.alice.ID, SendInput{RecipientID: f.bob.ID, Content: "   "})
	assert.ErrorIs(t, err, validate.ErrInvalid)

	_, err = f.svc.Send(ctx, f.alice.ID, SendInput{RecipientID: f.alice.ID, Content: "me"})
	assert.ErrorIs(t, err, validate.ErrInvalid)

	long := make([]byte, message.MaxContentLength+1)
	for i := range long {
		long[i] = 'x'
	}
	_, err = f.svc.Send(ctx, f.alice.ID, SendInput{RecipientID: f.bob.ID, Content: string(long)})
	assert.ErrorIs(t, err, validate.ErrInvalid)

	_, err = f.svc.Send(ctx, f.alice.ID, SendInput{RecipientID: f.bob.ID, Content: "hi", Type: "video"})
	assert.ErrorIs(t, err, validate.ErrInvalid)

	_, err = f.svc.Send(ctx, f.alice.ID, SendInput{RecipientID: uuid.New(), Content: "hi"})
	assert.ErrorIs(t, err, ErrRecipientNotFound)
}

func TestEdit_Window(t *testing.T) {
	f := newFixture()
	m := f.send(t, f.alice.ID, f.bob.ID, "draft")
	ctx := context.Background()

	f.clock.t = f.clock.t.Add(message.EditWindow)
	edited, err := f.svc.Edit(ctx, f.alice.ID, m.ID, "final")
	require.NoError(t, err)
	assert.True(t, edited.IsEdited)
	assert.Equal(t, "final", f.messages.Get(m.ID).Content)

	_, err = f.svc.Edit(ctx, f.bob.ID, m.ID, "hijack")
	assert.ErrorIs(t, err, message.ErrNotSender)

	f.clock.t = f.clock.t.Add(time.Second)
	_, err = f.svc.Edit(ctx, f.alice.ID, m.ID, "too late")
	assert.ErrorIs(t, err, message.ErrEditWindowExpired)
}

func TestDelete(t *testing.T) {
	f := newFixture()
	m := f.send(t, f.alice.ID, f.bob.ID, "oops")
	ctx := context.Background()

	assert.ErrorIs(t, f.svc.Delete(ctx, f.bob.ID, m.ID), message.ErrNotSender)
	require.NoError(t, f.svc.Delete(ctx, f.alice.ID, m.ID))
	assert.True(t, f.messages.Get(m.ID).IsDeleted)

	_, err := f.svc.Edit(ctx, f.alice.ID, m.ID, "edit after delete")
	assert.ErrorIs(t, err, message.ErrNotFound)
	assert.ErrorIs(t, f.svc.Delete(ctx, f.alice.ID, m.ID), message.ErrNotFound)
}

func TestReact_Toggle(t *testing.T) {
	f := newFixture()
	m := f.send(t, f.alice.ID, f.bob.ID, "react to me")
	ctx := context.Background()

	res, err := f.svc.React(ctx, f.bob.ID, m.ID, "👍")
	require.NoError(t, err)
	assert.Equal(t, message.ReactionAdded, res.Change)
	assert.Len(t, f.messages.Get(m.ID).Reactions, 1)

	res, err = f.svc.React(ctx, f.bob.ID, m.ID, "🎉")
	require.NoError(t, err)
	assert.Equal(t, message.ReactionReplaced, res.Change)
	stored := f.messages.Get(m.ID).Reactions
	require.Len(t, stored, 1)
	assert.Equal(t, "🎉", stored[0].Emoji)

	res, err = f.svc.React(ctx, f.bob.ID, m.ID, "🎉")
	require.NoError(t, err)
	assert.Equal(t, message.ReactionRemoved, res.Change)
	assert.Empty(t, f.messages.Get(m.ID).Reactions)

	_, err = f.svc.React(ctx, f.carol.ID, m.ID, "👀")
	assert.ErrorIs(t, err, message.ErrNotParticipant)

	_, err = f.svc.React(ctx, f.bob.ID, m.ID, " ")
	assert.ErrorIs(t, err, ErrEmojiRequired)
}

func TestHistory(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	first := f.send(t, f.alice.ID, f.bob.ID, "one")
	f.clock.t = f.clock.t.Add(time.Minute)
	f.send(t, f.bob.ID, f.alice.ID, "two")
	f.clock.t = f.clock.t.Add(time.Minute)
	f.send(t, f.alice.ID, f.bob.ID, "three")

	_, err := f.svc.History(ctx, f.carol.ID, first.Conversation, 1, 0)
	assert.ErrorIs(t, err, message.ErrNotParticipant)

	_, err = f.svc.History(ctx, f.alice.ID, "garbage", 1, 0)
	assert.ErrorIs(t, err, message.ErrInvalidConversation)

	res, err := f.svc.History(ctx, f.bob.ID, first.Conversation, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	require.Len(t, res.Messages, 2)
	assert.Equal(t, "two", res.Messages[0].Content)
	assert.Equal(t, "three", res.Messages[1].Content)
	assert.Equal(t, int64(2), res.Marked)

	again, err := f.svc.History(ctx, f.bob.ID, first.Conversation, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(0), again.Marked)
}

func TestConversations_UnreadCount(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	m := f.send(t, f.alice.ID, f.bob.ID, "one")
	f.clock.t = f.clock.t.Add(time.Minute)
	f.send(t, f.alice.ID, f.bob.ID, "two")
	f.clock.t = f.clock.t.Add(time.Minute)
	f.send(t, f.carol.ID, f.bob.ID, "hey")

	convs, err := f.svc.Conversations(ctx, f.bob.ID)
	require.NoError(t, err)
	require.Len(t, convs, 2)
	assert.Equal(t, f.carol.ID, convs[0].Participant.ID)
	assert.Equal(t, 2, convs[1].UnreadCount)
	assert.Equal(t, "two", convs[1].LastContent)
	assert.False(t, convs[1].LastIsOwn)

	_, err = f.svc.History(ctx, f.bob.ID, m.Conversation, 1, 0)
	require.NoError(t, err)
	convs, err = f.svc.Conversations(ctx, f.bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, convs[1].UnreadCount)

	mine, err := f.svc.Conversations(ctx, f.alice.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.True(t, mine[0].LastIsOwn)
	assert.Equal(t, 0, mine[0].UnreadCount)
}
