package skill

import "skillbridge/internal/pkg/validate"

func init() {
	validate.RegisterEnum("skill_category", Categories...)
	validate.RegisterEnum("skill_level", Levels...)
	validate.RegisterEnum("skill_type", Types...)
	validate.RegisterEnum("skill_duration", Durations...)
	validate.RegisterEnum("skill_format", Formats...)
	validate.RegisterEnum("skill_exchange", ExchangePreferences...)
	validate.RegisterEnum("skill_weekday", Weekdays...)
}

func (Listing) ValidationMessages() validate.Messages {
	return validate.Messages{
		"Title.required":       "Title is required",
		"Title.max":            "Title cannot exceed 100 characters",
		"Description.required": "Description is required",
		"Description.max":      "Description cannot exceed 1000 characters",
		"Category":             "Invalid category",
		"Subcategory":          "Subcategory cannot exceed 50 characters",
		"Level":                "Invalid level",
		"SkillType":            "Skill type must be Offering or Seeking",
		"Tags":                 "Tags cannot exceed 30 characters",
		"Duration":             "Invalid duration",
		"Format":               "Invalid format",
		"ExchangePreference":   "Invalid exchange preference",
		"Prerequisites":        "Prerequisites cannot exceed 300 characters",
		"Availability.Days":    "Invalid availability day",
	}
}
