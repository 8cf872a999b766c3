package message

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationKey_Commutative(t *testing.T) {
	for i := 0; i < 50; i++ {
		a, b := uuid.NewString(), uuid.NewString()
		assert.Equal(t, ConversationKey(a, b), ConversationKey(b, a))
	}
}

func TestConversationKey_SortedJoin(t *testing.T) {
	assert.Equal(t, "aaa_bbb", ConversationKey("bbb", "aaa"))
	assert.Equal(t, "aaa_bbb", ConversationKey("aaa", "bbb"))
}

func TestParticipants(t *testing.T) {
	a, b := uuid.NewString(), uuid.NewString()
	key := ConversationKey(a, b)

	x, y, ok := Participants(key)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{a, b}, []string{x, y})

	for _, bad := range []string{"", "abc", "_abc", "abc_", "a_b_c"} {
		_, _, ok := Participants(bad)
		assert.False(t, ok, bad)
	}
}

func TestIsParticipant(t *testing.T) {
	a, b, c := uuid.NewString(), uuid.NewString(), uuid.NewString()
	key := ConversationKey(a, b)

	assert.True(t, IsParticipant(key, a))
	assert.True(t, IsParticipant(key, b))
	assert.False(t, IsParticipant(key, c))
	assert.False(t, IsParticipant(key, ""))
}

func TestEdit_WithinWindow(t *testing.T) {
	sender := uuid.New()
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m := Message{SenderID: sender, Content: "helo", CreatedAt: created}

	now := created.Add(EditWindow)
	got, err := m.Edit(sender, "hello", now)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Content)
	assert.True(t, got.IsEdited)
	require.NotNil(t, got.EditedAt)
	assert.Equal(t, now, *got.EditedAt)
	assert.Equal(t, "helo", m.Content)
}

func TestEdit_WindowExpired(t *testing.T) {
	sender := uuid.New()
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m := Message{SenderID: sender, Content: "helo", CreatedAt: created}

	_, err := m.Edit(sender, "hello", created.Add(EditWindow+time.Second))
	assert.ErrorIs(t, err, ErrEditWindowExpired)
}

func TestEdit_NotSender(t *testing.T) {
	created := time.Now()
	m := Message{SenderID: uuid.New(), CreatedAt: created}

	_, err := m.Edit(uuid.New(), "x", created)
	assert.ErrorIs(t, err, ErrNotSender)
}

func TestToggleReaction(t *testing.T) {
	u1, u2 := uuid.New(), uuid.New()
	t0 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Minute)

	list, change := ToggleReaction(nil, u1, "👍", t0)
	assert.Equal(t, ReactionAdded, change)
	require.Len(t, list, 1)

	list, change = ToggleReaction(list, u2, "🎉", t0)
	assert.Equal(t, ReactionAdded, change)
	require.Len(t, list, 2)

	list, change = ToggleReaction(list, u1, "❤️", t1)
	assert.Equal(t, ReactionReplaced, change)
	require.Len(t, list, 2)
	for _, r := range list {
		if r.UserID == u1 {
			assert.Equal(t, "❤️", r.Emoji)
			assert.Equal(t, t1, r.Date)
		}
	}

	list, change = ToggleReaction(list, u1, "❤️", t1)
	assert.Equal(t, ReactionRemoved, change)
	require.Len(t, list, 1)
	assert.Equal(t, u2, list[0].UserID)
}

func TestToggleReaction_OneEntryPerUser(t *testing.T) {
	u := uuid.New()
	var list []Reaction
	for _, e := range []string{"a", "b", "b", "c", "a", "a"} {
		list, _ = ToggleReaction(list, u, e, time.Now())
		seen := 0
		for _, r := range list {
			if r.UserID == u {
				seen++
			}
		}
		assert.LessOrEqual(t, seen, 1)
	}
}

func TestTypeValid(t *testing.T) {
	assert.True(t, TypeSkillRequest.Valid())
	assert.False(t, Type("video").Valid())
}
