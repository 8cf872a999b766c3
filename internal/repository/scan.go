package repository

import (
	"encoding/json"
	"fmt"
	"strings"

	"skillbridge/internal/database"
	"skillbridge/internal/domain/user"
)

// Foreign key names as Postgres derives them for the inline REFERENCES in
// V1__init_schema.sql.
const (
	fkMessageRelatedSkill = "messages_related_skill_id_fkey"
	fkReviewSkill         = "reviews_skill_id_fkey"
	fkHelpfulVoteReview   = "review_helpful_votes_review_id_fkey"
	fkReportReview        = "review_reports_review_id_fkey"
	fkInterestSkill       = "skill_interests_skill_id_fkey"
)

// summaryColumns selects the user.Summary columns of the users table aliased as alias.
func summaryColumns(alias string) string {
	cols := []string{"id", "username", "first_name", "last_name", "profile_picture"}
	for i, c := range cols {
		cols[i] = alias + "." + c
	}
	return strings.Join(cols, ", ")
}

func summaryDest(s *user.Summary) []any {
	return []any{&s.ID, &s.Username, &s.FirstName, &s.LastName, &s.ProfilePicture}
}

func normalizePage(limit, offset, def, max int) (int, int) {
	if limit <= 0 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func marshalJSON(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}
	return b, nil
}

func unmarshalJSON(b []byte, out any) error {
	if len(b) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("unmarshal json: %w", err)
	}
	return nil
}

// args collects positional query arguments and hands out their placeholders.
type args []any

func (a *args) add(v any) string {
	*a = append(*a, v)
	return fmt.Sprintf("$%d", len(*a))
}

func scanCount(row database.Row) (int, error) {
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
