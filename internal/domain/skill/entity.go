package skill

import (
	"time"

	"skillbridge/internal/domain/user"

	"github.com/google/uuid"
)

var Categories = []string{
	"Technology", "Design", "Business", "Marketing", "Writing", "Music", "Art",
	"Fitness", "Cooking", "Languages", "Crafts", "Photography", "Other",
}

var Levels = []string{"Beginner", "Intermediate", "Advanced", "Expert"}

const (
	TypeOffering = "Offering"
	TypeSeeking  = "Seeking"
)

var Types = []string{TypeOffering, TypeSeeking}

var Durations = []string{"30 minutes", "1 hour", "2 hours", "3+ hours", "Flexible"}

var Formats = []string{"Online", "In-person", "Both"}

var ExchangePreferences = []string{"Skill for Skill", "Skill for Learning", "Both"}

var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

const (
	DefaultDuration           = "Flexible"
	DefaultFormat             = "Online"
	DefaultExchangePreference = "Both"
)

type Listing struct {
	ID                 uuid.UUID
	ProviderID         uuid.UUID
	Provider           *user.Summary
	Title              string   `validate:"required,max=100"`
	Description        string   `validate:"required,max=1000"`
	Category           string   `validate:"skill_category"`
	Subcategory        string   `validate:"max=50"`
	Level              string   `validate:"skill_level"`
	SkillType          string   `validate:"skill_type"`
	Tags               []string `validate:"dive,max=30"`
	Duration           string   `validate:"skill_duration"`
	Availability       Availability
	Format             string `validate:"skill_format"`
	Location           string
	ExchangePreference string `validate:"skill_exchange"`
	Prerequisites      string `validate:"max=300"`
	Materials          []string
	IsActive           bool
	Views              int64
	Interests          []Interest
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type Availability struct {
	Days      []string   `json:"days" validate:"dive,skill_weekday"`
	TimeSlots []TimeSlot `json:"timeSlots"`
	Timezone  string     `json:"timezone,omitempty"`
}

type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type Interest struct {
	ID        uuid.UUID
	SkillID   uuid.UUID
	UserID    uuid.UUID
	User      *user.Summary
	Message   string
	Status    InterestStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (l Listing) IsOwnedBy(userID uuid.UUID) bool {
	return l.ProviderID == userID
}

func (l Listing) InterestByUser(userID uuid.UUID) (Interest, bool) {
	for _, in := range l.Interests {
		if in.UserID == userID {
			return in, true
		}
	}
	return Interest{}, false
}

func (l Listing) InterestByID(id uuid.UUID) (Interest, bool) {
	for _, in := range l.Interests {
		if in.ID == id {
			return in, true
		}
	}
	return Interest{}, false
}

func Contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
