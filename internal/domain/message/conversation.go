package message

import (
	"sort"
	"strings"
)

// KeySeparator joins the two participant ids of a conversation key. UUID
// strings never contain it.
const KeySeparator = "_"

// ConversationKey maps an unordered pair of user ids to one key, so both
// directions of a chat share a thread.
func ConversationKey(a, b string) string {
	ids := []string{a, b}
	sort.Strings(ids)
	return strings.Join(ids, KeySeparator)
}

// Participants splits a key produced by ConversationKey.
func Participants(key string) (string, string, bool) {
	a, b, ok := strings.Cut(key, KeySeparator)
	if !ok || a == "" || b == "" || strings.Contains(b, KeySeparator) {
		return "", "", false
	}
	return a, b, true
}

func IsParticipant(key, userID string) bool {
	a, b, ok := Participants(key)
	if !ok || userID == "" {
		return false
	}
	return a == userID || b == userID
}
