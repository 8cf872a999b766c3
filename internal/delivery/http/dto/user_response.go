package dto

import (
	"time"

	"skillbridge/internal/domain/user"

	"github.com/google/uuid"
)

type UserResponse struct {
	ID                uuid.UUID            `json:"id"`
	Username          string               `json:"username"`
	Email             string               `json:"email,omitempty"`
	FirstName         string               `json:"firstName"`
	LastName          string               `json:"lastName"`
	Bio               string               `json:"bio"`
	ProfilePicture    string               `json:"profilePicture"`
	Location          string               `json:"location"`
	Skills            []user.DeclaredSkill `json:"skills"`
	LearningInterests []string             `json:"learningInterests"`
	Rating            user.Rating          `json:"rating"`
	Role              string               `json:"role"`
	IsActive          bool                 `json:"isActive"`
	LastLogin         *time.Time           `json:"lastLogin,omitempty"`
	JoinedDate        time.Time            `json:"joinedDate"`
}

// NewUserResponse renders u; private adds the email and last login.
func NewUserResponse(u user.User, private bool) UserResponse {
	res := UserResponse{
		ID:                u.ID,
		Username:          u.Username,
		FirstName:         u.FirstName,
		LastName:          u.LastName,
		Bio:               u.Bio,
		ProfilePicture:    u.ProfilePicture,
		Location:          u.Location,
		Skills:            u.Skills,
		LearningInterests: u.LearningInterests,
		Rating:            u.Rating,
		Role:              u.Role,
		IsActive:          u.IsActive,
		JoinedDate:        u.JoinedAt,
	}
	if res.Skills == nil {
		res.Skills = []user.DeclaredSkill{}
	}
	if res.LearningInterests == nil {
		res.LearningInterests = []string{}
	}
	if private {
		res.Email = u.Email
		if !u.LastLogin.IsZero() {
			last := u.LastLogin
			res.LastLogin = &last
		}
	}
	return res
}

func NewUserResponses(users []user.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u, false))
	}
	return out
}

type AuthResponse struct {
	Token        string       `json:"token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

type ProfileResponse struct {
	User    UserResponse     `json:"user"`
	Skills  []SkillResponse  `json:"skills"`
	Reviews []ReviewResponse `json:"reviews"`
}
