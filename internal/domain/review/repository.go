package review

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create fails with ErrDuplicate when the (reviewer, reviewee, skill) triple exists.
	Create(ctx context.Context, r Review) error
	GetByID(ctx context.Context, id uuid.UUID) (Review, error)
	Exists(ctx context.Context, reviewerID, revieweeID, skillID uuid.UUID) (bool, error)
	Update(ctx context.Context, r Review) error
	Delete(ctx context.Context, id uuid.UUID) error
	SetVisibility(ctx context.Context, id uuid.UUID, visible bool) error

	VisibleRatings(ctx context.Context, revieweeID uuid.UUID) ([]int, error)
	ListForUser(ctx context.Context, revieweeID uuid.UUID, limit, offset int) ([]Review, int, error)
	ListForSkill(ctx context.Context, skillID uuid.UUID) ([]Review, error)

	// ToggleHelpful flips userID's helpful vote and returns the new state and count.
	ToggleHelpful(ctx context.Context, reviewID, userID uuid.UUID) (bool, int, error)
	// AddReport fails with ErrAlreadyReported on a second report by the same user.
	AddReport(ctx context.Context, reviewID, userID uuid.UUID, reason string) error
}
