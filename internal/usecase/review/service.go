package review

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"skillbridge/internal/database"
	"skillbridge/internal/domain/review"
	"skillbridge/internal/domain/skill"
	"skillbridge/internal/domain/user"
	"skillbridge/internal/pkg/validate"

	"github.com/google/uuid"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	MaxReasonLength = 500
)

var (
	ErrNotReviewer  = errors.New("not authorized to modify this review")
	ErrNotModerator = errors.New("moderator role required")
)

type CreateInput struct {
	RevieweeID  uuid.UUID `validate:"required"`
	SkillID     uuid.UUID `validate:"required"`
	Rating      int       `validate:"required"`
	Comment     string    `validate:"required"`
	SessionType string    `validate:"required"`
	SessionDate time.Time `validate:"required"`
}

func (CreateInput) ValidationMessages() validate.Messages {
	msgs := validate.Messages{}
	for _, f := range []string{"RevieweeID", "SkillID", "Rating", "Comment", "SessionType", "SessionDate"} {
		msgs[f] = "All fields are required"
	}
	return msgs
}

type UpdateInput struct {
	Rating  *int
	Comment *string
}

type ListResult struct {
	Reviews []review.Review
	Page    int
	Limit   int
	Total   int
}

type HelpfulResult struct {
	IsHelpful    bool
	HelpfulCount int
}

type Service struct {
	reviews review.Repository
	users   user.Repository
	skills  skill.Repository
	tx      database.TxManager
	now     func() time.Time
}

func NewService(reviews review.Repository, users user.Repository, skills skill.Repository, tx database.TxManager) *Service {
	return &Service{reviews: reviews, users: users, skills: skills, tx: tx, now: time.Now}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Create(ctx context.Context, reviewer uuid.UUID, in CreateInput) (review.Review, error) {
	in.Comment = strings.TrimSpace(in.Comment)
	in.SessionType = strings.TrimSpace(in.SessionType)
	if err := validate.Struct(in); err != nil {
		return review.Review{}, err
	}
	comment := in.Comment
	sessionType := review.SessionType(in.SessionType)
	if err := checkRatingAndComment(in.Rating, comment); err != nil {
		return review.Review{}, err
	}
	if !sessionType.Valid() {
		return review.Review{}, validate.Errorf("Session type must be Teaching, Learning or Exchange")
	}
	if in.RevieweeID == reviewer {
		return review.Review{}, review.ErrSelfReview
	}

	l, err := s.skills.GetByID(ctx, in.SkillID)
	if err != nil {
		return review.Review{}, err
	}
	if l.ProviderID != in.RevieweeID {
		return review.Review{}, validate.Errorf("Skill does not belong to the specified user")
	}
	exists, err := s.reviews.Exists(ctx, reviewer, in.RevieweeID, in.SkillID)
	if err != nil {
		return review.Review{}, fmt.Errorf("check duplicate review: %w", err)
	}
	if exists {
		return review.Review{}, review.ErrDuplicate
	}

	now := s.now().UTC()
	rv := review.Review{
		ID:          uuid.New(),
		ReviewerID:  reviewer,
		RevieweeID:  in.RevieweeID,
		SkillID:     in.SkillID,
		SkillTitle:  l.Title,
		Rating:      in.Rating,
		Comment:     comment,
		SessionType: sessionType,
		SessionDate: in.SessionDate.UTC(),
		IsVisible:   true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.reviews.Create(ctx, rv); err != nil {
			return err
		}
		return s.recompute(ctx, rv.RevieweeID)
	})
	if err != nil {
		return review.Review{}, err
	}
	return rv, nil
}

func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID, page, limit int) (ListResult, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	reviews, total, err := s.reviews.ListForUser(ctx, userID, limit, (page-1)*limit)
	if err != nil {
		return ListResult{}, fmt.Errorf("list reviews: %w", err)
	}
	return ListResult{Reviews: reviews, Page: page, Limit: limit, Total: total}, nil
}

func (s *Service) ListForSkill(ctx context.Context, skillID uuid.UUID) ([]review.Review, error) {
	return s.reviews.ListForSkill(ctx, skillID)
}

func (s *Service) Update(ctx context.Context, requester, id uuid.UUID, in UpdateInput) (review.Review, error) {
	var out review.Review
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		rv, err := s.reviews.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if rv.ReviewerID != requester {
			return ErrNotReviewer
		}
		if in.Rating != nil {
			rv.Rating = *in.Rating
		}
		if in.Comment != nil {
			rv.Comment = strings.TrimSpace(*in.Comment)
		}
		if err := checkRatingAndComment(rv.Rating, rv.Comment); err != nil {
			return err
		}
		rv.UpdatedAt = s.now().UTC()

		if err := s.reviews.Update(ctx, rv); err != nil {
			return err
		}
		if err := s.recompute(ctx, rv.RevieweeID); err != nil {
			return err
		}
		out = rv
		return nil
	})
	return out, err
}

func (s *Service) Delete(ctx context.Context, requester, id uuid.UUID) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		rv, err := s.reviews.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if rv.ReviewerID != requester {
			return ErrNotReviewer
		}
		if err := s.reviews.Delete(ctx, id); err != nil {
			return err
		}
		return s.recompute(ctx, rv.RevieweeID)
	})
}

func (s *Service) ToggleHelpful(ctx context.Context, userID, id uuid.UUID) (HelpfulResult, error) {
	helpful, count, err := s.reviews.ToggleHelpful(ctx, id, userID)
	if err != nil {
		return HelpfulResult{}, err
	}
	return HelpfulResult{IsHelpful: helpful, HelpfulCount: count}, nil
}

func (s *Service) Report(ctx context.Context, userID, id uuid.UUID, reason string) error {
	reason = strings.TrimSpace(reason)
	if err := validate.Var(reason, "max="+strconv.Itoa(MaxReasonLength),
		fmt.Sprintf("Reason cannot exceed %d characters", MaxReasonLength)); err != nil {
		return err
	}
	return s.reviews.AddReport(ctx, id, userID, reason)
}

// SetVisibility lets a moderator hide or restore a review; the reviewee's
// rating follows.
func (s *Service) SetVisibility(ctx context.Context, moderator, id uuid.UUID, visible bool) (review.Review, error) {
	mod, err := s.users.GetUserByID(ctx, moderator)
	if err != nil {
		return review.Review{}, err
	}
	if !mod.IsModerator() {
		return review.Review{}, ErrNotModerator
	}

	var out review.Review
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		rv, err := s.reviews.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.reviews.SetVisibility(ctx, id, visible); err != nil {
			return err
		}
		if err := s.recompute(ctx, rv.RevieweeID); err != nil {
			return err
		}
		rv.IsVisible = visible
		out = rv
		return nil
	})
	return out, err
}

// recompute rewrites the reviewee's rating from the visible reviews. It must
// run inside a transaction: the row lock serializes concurrent recomputes.
func (s *Service) recompute(ctx context.Context, revieweeID uuid.UUID) error {
	if err := s.users.LockForRatingUpdate(ctx, revieweeID); err != nil {
		return fmt.Errorf("lock reviewee: %w", err)
	}
	ratings, err := s.reviews.VisibleRatings(ctx, revieweeID)
	if err != nil {
		return fmt.Errorf("load ratings: %w", err)
	}
	if err := s.users.UpdateRating(ctx, revieweeID, review.Summarize(ratings)); err != nil {
		return fmt.Errorf("store rating: %w", err)
	}
	return nil
}

type reviewContent struct {
	Rating  int    `validate:"min=1,max=5"`
	Comment string `validate:"required,max=500"`
}

func (reviewContent) ValidationMessages() validate.Messages {
	return validate.Messages{
		"Rating":           "Rating must be between 1 and 5",
		"Comment.required": "Comment is required",
		"Comment.max":      fmt.Sprintf("Comment cannot exceed %d characters", review.MaxCommentLength),
	}
}

func checkRatingAndComment(rating int, comment string) error {
	return validate.Struct(reviewContent{Rating: rating, Comment: comment})
}
