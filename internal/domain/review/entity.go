package review

import (
	"errors"
	"time"

	"skillbridge/internal/domain/user"

	"github.com/google/uuid"
)

type SessionType string

const (
	SessionTeaching SessionType = "Teaching"
	SessionLearning SessionType = "Learning"
	SessionExchange SessionType = "Exchange"
)

func (s SessionType) Valid() bool {
	switch s {
	case SessionTeaching, SessionLearning, SessionExchange:
		return true
	}
	return false
}

const (
	MinRating        = 1
	MaxRating        = 5
	MaxCommentLength = 500
)

var (
	ErrNotFound        = errors.New("review not found")
	ErrDuplicate       = errors.New("you have already reviewed this skill exchange")
	ErrSelfReview      = errors.New("cannot review yourself")
	ErrAlreadyReported = errors.New("you have already reported this review")
)

type Review struct {
	ID           uuid.UUID
	ReviewerID   uuid.UUID
	RevieweeID   uuid.UUID
	SkillID      uuid.UUID
	Reviewer     *user.Summary
	Reviewee     *user.Summary
	SkillTitle   string
	Rating       int
	Comment      string
	SessionType  SessionType
	SessionDate  time.Time
	HelpfulCount int
	ReportCount  int
	IsVisible    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}
