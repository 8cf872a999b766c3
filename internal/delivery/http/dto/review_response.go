package dto

import (
	"time"

	"skillbridge/internal/domain/review"

	"github.com/google/uuid"
)

type ReviewResponse struct {
	ID           uuid.UUID `json:"id"`
	Reviewer     any       `json:"reviewer"`
	Reviewee     any       `json:"reviewee"`
	Skill        any       `json:"skill"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	SessionType  string    `json:"sessionType"`
	SessionDate  time.Time `json:"sessionDate"`
	HelpfulCount int       `json:"helpfulCount"`
	IsVisible    bool      `json:"isVisible"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func NewReviewResponse(r review.Review) ReviewResponse {
	var sk any = r.SkillID
	if r.SkillTitle != "" {
		sk = relatedSkill{ID: r.SkillID, Title: r.SkillTitle}
	}
	return ReviewResponse{
		ID:           r.ID,
		Reviewer:     summaryOrID(r.Reviewer, r.ReviewerID),
		Reviewee:     summaryOrID(r.Reviewee, r.RevieweeID),
		Skill:        sk,
		Rating:       r.Rating,
		Comment:      r.Comment,
		SessionType:  string(r.SessionType),
		SessionDate:  r.SessionDate,
		HelpfulCount: r.HelpfulCount,
		IsVisible:    r.IsVisible,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func NewReviewResponses(reviews []review.Review) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, NewReviewResponse(r))
	}
	return out
}
