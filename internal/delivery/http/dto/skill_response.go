package dto

import (
	"time"

	"skillbridge/internal/domain/skill"
	"skillbridge/internal/domain/user"

	"github.com/google/uuid"
)

type SkillResponse struct {
	ID                 uuid.UUID          `json:"id"`
	Provider           any                `json:"provider"`
	Title              string             `json:"title"`
	Description        string             `json:"description"`
	Category           string             `json:"category"`
	Subcategory        string             `json:"subcategory,omitempty"`
	Level              string             `json:"level"`
	SkillType          string             `json:"skillType"`
	Tags               []string           `json:"tags"`
	Duration           string             `json:"duration"`
	Availability       skill.Availability `json:"availability"`
	Format             string             `json:"format"`
	Location           string             `json:"location,omitempty"`
	ExchangePreference string             `json:"exchangePreference"`
	Prerequisites      string             `json:"prerequisites,omitempty"`
	Materials          []string           `json:"materials"`
	IsActive           bool               `json:"isActive"`
	Views              int64              `json:"views"`
	InterestedUsers    []InterestResponse `json:"interestedUsers"`
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`
}

type InterestResponse struct {
	ID      uuid.UUID `json:"id"`
	User    any       `json:"user"`
	Message string    `json:"message,omitempty"`
	Date    time.Time `json:"date"`
	Status  string    `json:"status"`
}

func NewSkillResponse(l skill.Listing) SkillResponse {
	res := SkillResponse{
		ID:                 l.ID,
		Provider:           summaryOrID(l.Provider, l.ProviderID),
		Title:              l.Title,
		Description:        l.Description,
		Category:           l.Category,
		Subcategory:        l.Subcategory,
		Level:              l.Level,
		SkillType:          l.SkillType,
		Tags:               nonNil(l.Tags),
		Duration:           l.Duration,
		Availability:       l.Availability,
		Format:             l.Format,
		Location:           l.Location,
		ExchangePreference: l.ExchangePreference,
		Prerequisites:      l.Prerequisites,
		Materials:          nonNil(l.Materials),
		IsActive:           l.IsActive,
		Views:              l.Views,
		InterestedUsers:    make([]InterestResponse, 0, len(l.Interests)),
		CreatedAt:          l.CreatedAt,
		UpdatedAt:          l.UpdatedAt,
	}
	if res.Availability.Days == nil {
		res.Availability.Days = []string{}
	}
	if res.Availability.TimeSlots == nil {
		res.Availability.TimeSlots = []skill.TimeSlot{}
	}
	for _, in := range l.Interests {
		res.InterestedUsers = append(res.InterestedUsers, NewInterestResponse(in))
	}
	return res
}

func NewSkillResponses(listings []skill.Listing) []SkillResponse {
	out := make([]SkillResponse, 0, len(listings))
	for _, l := range listings {
		out = append(out, NewSkillResponse(l))
	}
	return out
}

func NewInterestResponse(in skill.Interest) InterestResponse {
	return InterestResponse{
		ID:      in.ID,
		User:    summaryOrID(in.User, in.UserID),
		Message: in.Message,
		Date:    in.CreatedAt,
		Status:  string(in.Status),
	}
}

// summaryOrID embeds the populated summary, or just the id when the
// relation was not loaded.
func summaryOrID(s *user.Summary, id uuid.UUID) any {
	if s != nil {
		return s
	}
	return id
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
