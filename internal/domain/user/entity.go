package user

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser      = "user"
	RoleModerator = "moderator"
)

type User struct {
	ID                uuid.UUID
	Username          string
	Email             string
	PasswordHash      string
	FirstName         string
	LastName          string
	Bio               string
	ProfilePicture    string
	Location          string
	Skills            []DeclaredSkill
	LearningInterests []string
	Rating            Rating
	Role              string
	IsActive          bool
	LastLogin         time.Time
	JoinedAt          time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// DeclaredSkill is a skill a user lists on their own profile.
type DeclaredSkill struct {
	Name        string `json:"name"`
	Level       string `json:"level"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
}

type Rating struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

func (u User) IsModerator() bool {
	return u.Role == RoleModerator
}

// Summary is the compact view embedded in listings, messages and reviews.
type Summary struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	ProfilePicture string    `json:"profilePicture"`
	Rating         *Rating   `json:"rating,omitempty"`
}

type Stats struct {
	SkillsOffered   int     `json:"skillsOffered"`
	SkillsSeeking   int     `json:"skillsSeeking"`
	ReviewsReceived int     `json:"reviewsReceived"`
	ReviewsGiven    int     `json:"reviewsGiven"`
	AverageRating   float64 `json:"averageRating"`
	TotalRatings    int     `json:"totalRatings"`
}

type SearchFilter struct {
	Search   string
	Skills   string
	Location string
	Limit    int
	Offset   int
}
