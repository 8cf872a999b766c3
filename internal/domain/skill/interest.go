package skill

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type InterestStatus string

const (
	StatusPending   InterestStatus = "Pending"
	StatusAccepted  InterestStatus = "Accepted"
	StatusDeclined  InterestStatus = "Declined"
	StatusCompleted InterestStatus = "Completed"
)

var (
	ErrSelfInterest      = errors.New("cannot express interest in your own skill")
	ErrDuplicateInterest = errors.New("you have already expressed interest in this skill")
	ErrInvalidStatus     = errors.New("invalid interest status")
	ErrInvalidTransition = errors.New("invalid interest status transition")
)

var transitions = map[InterestStatus][]InterestStatus{
	StatusPending:  {StatusAccepted, StatusDeclined},
	StatusAccepted: {StatusCompleted},
}

func ParseInterestStatus(s string) (InterestStatus, error) {
	st := InterestStatus(strings.TrimSpace(s))
	switch st {
	case StatusPending, StatusAccepted, StatusDeclined, StatusCompleted:
		return st, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

func (s InterestStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

func (s InterestStatus) CanTransitionTo(next InterestStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// NewInterest validates that requester may express interest in l and returns
// the Pending entry to append.
func NewInterest(l Listing, requester uuid.UUID, message string, now time.Time) (Interest, error) {
	if l.IsOwnedBy(requester) {
		return Interest{}, ErrSelfInterest
	}
	if _, ok := l.InterestByUser(requester); ok {
		return Interest{}, ErrDuplicateInterest
	}
	return Interest{
		ID:        uuid.New(),
		SkillID:   l.ID,
		UserID:    requester,
		Message:   strings.TrimSpace(message),
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Transition moves in to next. Ownership is checked by the caller.
func (in Interest) Transition(next InterestStatus, now time.Time) (Interest, error) {
	if !in.Status.CanTransitionTo(next) {
		return Interest{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, in.Status, next)
	}
	in.Status = next
	in.UpdatedAt = now
	return in, nil
}
