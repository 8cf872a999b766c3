package user

import (
	"context"
	"fmt"
	"strings"

	"skillbridge/internal/domain/review"
	"skillbridge/internal/domain/skill"
	"skillbridge/internal/domain/user"
	"skillbridge/internal/pkg/validate"

	"github.com/google/uuid"
)

const (
	DefaultPageSize    = 12
	MaxPageSize        = 100
	SuggestionLimit    = 5
	SuggestionMinChars = 2
	ProfileReviewLimit = 10
)

type ListParams struct {
	Search   string
	Skills   string
	Location string
	Page     int
	Limit    int
}

type ListResult struct {
	Users []user.User
	Page  int
	Limit int
	Total int
}

// Profile is the public view of a user with their active listings and latest reviews.
type Profile struct {
	User    user.User
	Skills  []skill.Listing
	Reviews []review.Review
}

type UpdateProfileInput struct {
	FirstName         *string
	LastName          *string
	Bio               *string
	Location          *string
	ProfilePicture    *string
	Skills            *[]user.DeclaredSkill
	LearningInterests *[]string
}

type Service struct {
	users   user.Repository
	skills  skill.Repository
	reviews review.Repository
}

func NewService(users user.Repository, skills skill.Repository, reviews review.Repository) *Service {
	return &Service{users: users, skills: skills, reviews: reviews}
}

func (s *Service) List(ctx context.Context, p ListParams) (ListResult, error) {
	page, limit := Page(p.Page, p.Limit, DefaultPageSize)
	users, total, err := s.users.Search(ctx, user.SearchFilter{
		Search:   p.Search,
		Skills:   p.Skills,
		Location: p.Location,
		Limit:    limit,
		Offset:   (page - 1) * limit,
	})
	if err != nil {
		return ListResult{}, fmt.Errorf("search users: %w", err)
	}
	for i := range users {
		users[i] = publicProfile(users[i])
	}
	return ListResult{Users: users, Page: page, Limit: limit, Total: total}, nil
}

func (s *Service) Suggestions(ctx context.Context, q string) ([]user.Summary, error) {
	q = strings.TrimSpace(q)
	if len([]rune(q)) < SuggestionMinChars {
		return []user.Summary{}, nil
	}
	return s.users.Suggest(ctx, q, SuggestionLimit)
}

func (s *Service) Profile(ctx context.Context, id uuid.UUID) (Profile, error) {
	u, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return Profile{}, err
	}
	listings, err := s.skills.ListByProvider(ctx, id, "")
	if err != nil {
		return Profile{}, fmt.Errorf("list skills: %w", err)
	}
	reviews, _, err := s.reviews.ListForUser(ctx, id, ProfileReviewLimit, 0)
	if err != nil {
		return Profile{}, fmt.Errorf("list reviews: %w", err)
	}
	return Profile{User: publicProfile(u), Skills: listings, Reviews: reviews}, nil
}

func (s *Service) Stats(ctx context.Context, id uuid.UUID) (user.Stats, error) {
	return s.users.Stats(ctx, id)
}

func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, in UpdateProfileInput) (user.User, error) {
	u, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return user.User{}, err
	}

	if in.FirstName != nil {
		u.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		u.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Bio != nil {
		u.Bio = strings.TrimSpace(*in.Bio)
	}
	if in.Location != nil {
		u.Location = strings.TrimSpace(*in.Location)
	}
	if in.ProfilePicture != nil {
		u.ProfilePicture = strings.TrimSpace(*in.ProfilePicture)
	}
	if in.Skills != nil {
		u.Skills = *in.Skills
	}
	if in.LearningInterests != nil {
		u.LearningInterests = cleanStrings(*in.LearningInterests)
	}

	if err := validate.Struct(newProfileCheck(u)); err != nil {
		return user.User{}, err
	}

	if err := s.users.UpdateUser(ctx, u); err != nil {
		return user.User{}, fmt.Errorf("update user: %w", err)
	}
	u.PasswordHash = ""
	return u, nil
}

// Deactivate hides the account; listings, messages and reviews stay as they are.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.users.Deactivate(ctx, id)
}

// Page normalizes 1-based page and limit query values.
func Page(page, limit, def int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = def
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

func publicProfile(u user.User) user.User {
	u.PasswordHash = ""
	u.Email = ""
	return u
}

func cleanStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

type profileCheck struct {
	FirstName string               `validate:"required,max=50"`
	LastName  string               `validate:"required,max=50"`
	Bio       string               `validate:"max=500"`
	Location  string               `validate:"max=100"`
	Skills    []declaredSkillCheck `validate:"dive"`
}

type declaredSkillCheck struct {
	Name     string `validate:"required"`
	Level    string `validate:"skill_level"`
	Category string `validate:"required"`
}

func newProfileCheck(u user.User) profileCheck {
	p := profileCheck{FirstName: u.FirstName, LastName: u.LastName, Bio: u.Bio, Location: u.Location}
	for _, ds := range u.Skills {
		p.Skills = append(p.Skills, declaredSkillCheck{
			Name:     strings.TrimSpace(ds.Name),
			Level:    ds.Level,
			Category: strings.TrimSpace(ds.Category),
		})
	}
	return p
}

func (profileCheck) ValidationMessages() validate.Messages {
	return validate.Messages{
		"FirstName.required": "First name is required",
		"FirstName.max":      "First name cannot exceed 50 characters",
		"LastName.required":  "Last name is required",
		"LastName.max":       "Last name cannot exceed 50 characters",
		"Bio":                "Bio cannot exceed 500 characters",
		"Location":           "Location cannot exceed 100 characters",
		"Skills.Name":        "Skill name is required",
		"Skills.Level":       "Invalid skill level",
		"Skills.Category":    "Skill category is required",
	}
}
