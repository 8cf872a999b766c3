// Package usecase declares the application services the HTTP layer depends on.
// Implementations live in the sub-packages.
package usecase

import (
	"context"

	"skillbridge/internal/domain/message"
	"skillbridge/internal/domain/review"
	"skillbridge/internal/domain/skill"
	"skillbridge/internal/domain/user"
	ucauth "skillbridge/internal/usecase/auth"
	ucmessage "skillbridge/internal/usecase/message"
	ucreview "skillbridge/internal/usecase/review"
	ucskill "skillbridge/internal/usecase/skill"
	ucupload "skillbridge/internal/usecase/upload"
	ucuser "skillbridge/internal/usecase/user"

	"github.com/google/uuid"
)

type AuthUsecase interface {
	Register(ctx context.Context, in ucauth.RegisterInput) (ucauth.Session, error)
	Login(ctx context.Context, in ucauth.LoginInput) (ucauth.Session, error)
	Refresh(ctx context.Context, refreshToken string) (ucauth.Session, error)
	Me(ctx context.Context, id uuid.UUID) (user.User, error)
}

type UserUsecase interface {
	List(ctx context.Context, p ucuser.ListParams) (ucuser.ListResult, error)
	Suggestions(ctx context.Context, q string) ([]user.Summary, error)
	Profile(ctx context.Context, id uuid.UUID) (ucuser.Profile, error)
	Stats(ctx context.Context, id uuid.UUID) (user.Stats, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, in ucuser.UpdateProfileInput) (user.User, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type SkillUsecase interface {
	List(ctx context.Context, p ucskill.ListParams) (ucskill.ListResult, error)
	Get(ctx context.Context, id uuid.UUID) (skill.Listing, error)
	ListByProvider(ctx context.Context, providerID uuid.UUID, skillType string) ([]skill.Listing, error)
	Create(ctx context.Context, providerID uuid.UUID, in ucskill.CreateInput) (skill.Listing, error)
	Update(ctx context.Context, requester, id uuid.UUID, in ucskill.UpdateInput) (skill.Listing, error)
	Delete(ctx context.Context, requester, id uuid.UUID) error
	ExpressInterest(ctx context.Context, requester, skillID uuid.UUID, message string) (skill.Interest, error)
	UpdateInterestStatus(ctx context.Context, requester, skillID, interestID uuid.UUID, status string) (skill.Interest, error)
}

type MessageUsecase interface {
	Send(ctx context.Context, sender uuid.UUID, in ucmessage.SendInput) (message.Message, error)
	Conversations(ctx context.Context, userID uuid.UUID) ([]message.ConversationSummary, error)
	History(ctx context.Context, requester uuid.UUID, conversation string, page, limit int) (ucmessage.HistoryResult, error)
	Edit(ctx context.Context, requester, id uuid.UUID, content string) (message.Message, error)
	Delete(ctx context.Context, requester, id uuid.UUID) error
	React(ctx context.Context, requester, id uuid.UUID, emoji string) (ucmessage.ReactionResult, error)
}

type ReviewUsecase interface {
	Create(ctx context.Context, reviewer uuid.UUID, in ucreview.CreateInput) (review.Review, error)
	ListForUser(ctx context.Context, userID uuid.UUID, page, limit int) (ucreview.ListResult, error)
	ListForSkill(ctx context.Context, skillID uuid.UUID) ([]review.Review, error)
	Update(ctx context.Context, requester, id uuid.UUID, in ucreview.UpdateInput) (review.Review, error)
	Delete(ctx context.Context, requester, id uuid.UUID) error
	ToggleHelpful(ctx context.Context, userID, id uuid.UUID) (ucreview.HelpfulResult, error)
	Report(ctx context.Context, userID, id uuid.UUID, reason string) error
	SetVisibility(ctx context.Context, moderator, id uuid.UUID, visible bool) (review.Review, error)
}

type UploadUsecase interface {
	UploadImage(ctx context.Context, userID uuid.UUID, f *ucupload.File) (ucupload.Result, error)
	UploadDocument(ctx context.Context, userID uuid.UUID, f *ucupload.File) (ucupload.Result, error)
	UploadMultiple(ctx context.Context, userID uuid.UUID, files []*ucupload.File) (ucupload.MultiResult, error)
	Delete(ctx context.Context, userID uuid.UUID, key string) (bool, error)
}

var (
	_ AuthUsecase    = (*ucauth.Service)(nil)
	_ UserUsecase    = (*ucuser.Service)(nil)
	_ SkillUsecase   = (*ucskill.Service)(nil)
	_ MessageUsecase = (*ucmessage.Service)(nil)
	_ ReviewUsecase  = (*ucreview.Service)(nil)
	_ UploadUsecase  = (*ucupload.Service)(nil)
)
