package skill

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound         = errors.New("skill not found")
	ErrInterestNotFound = errors.New("interest not found")
)

const (
	SortNewest  = "newest"
	SortOldest  = "oldest"
	SortPopular = "popular"
	SortTitle   = "title"
)

type ListFilter struct {
	Category  string
	Level     string
	SkillType string
	Search    string
	Sort      string
	Limit     int
	Offset    int
}

type Repository interface {
	Create(ctx context.Context, l Listing) error
	GetByID(ctx context.Context, id uuid.UUID) (Listing, error)
	Update(ctx context.Context, l Listing) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	IncrementViews(ctx context.Context, id uuid.UUID) (int64, error)

	List(ctx context.Context, f ListFilter) ([]Listing, int, error)
	ListByProvider(ctx context.Context, providerID uuid.UUID, skillType string) ([]Listing, error)

	// AddInterest fails with ErrDuplicateInterest when (skill, user) already exists.
	AddInterest(ctx context.Context, in Interest) error
	UpdateInterestStatus(ctx context.Context, in Interest) error
}
