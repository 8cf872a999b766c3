package seeder

import (
	"context"
	"time"

	"skillbridge/internal/database"

	"github.com/google/uuid"
)

type demoSkill struct {
	Provider    string
	Title       string
	Description string
	Category    string
	Level       string
	SkillType   string
	Tags        []string
}

var demoSkills = []demoSkill{
	{Provider: "alice", Title: "Go for backend services", Description: "Pair programming sessions on HTTP services, testing and Postgres in Go.", Category: "Technology", Level: "Advanced", SkillType: "Offering", Tags: []string{"go", "backend"}},
	{Provider: "alice", Title: "Watercolor basics", Description: "Looking for someone to teach washes, layering and color mixing.", Category: "Art", Level: "Beginner", SkillType: "Seeking", Tags: []string{"painting"}},
	{Provider: "bima", Title: "Digital illustration", Description: "Procreate workflow from sketch to final piece.", Category: "Design", Level: "Expert", SkillType: "Offering", Tags: []string{"procreate", "illustration"}},
	{Provider: "chen", Title: "Conversational Mandarin", Description: "Weekly practice calls for beginners who know pinyin.", Category: "Languages", Level: "Intermediate", SkillType: "Offering", Tags: []string{"mandarin", "speaking"}},
	{Provider: "chen", Title: "Everyday Sichuan cooking", Description: "Home-style dishes with pantry staples.", Category: "Cooking", Level: "Beginner", SkillType: "Offering", Tags: []string{"sichuan"}},
}

// DemoSkillsSeeder creates listings for the demo accounts. It is skipped for
// providers that already own a listing with the same title.
type DemoSkillsSeeder struct{}

func (DemoSkillsSeeder) Name() string { return "demo_skills" }

func (DemoSkillsSeeder) Seed(ctx context.Context, ex database.Executor) error {
	if err := requireColumns(ctx, ex, "skills", "id", "provider_id", "title", "description", "category", "level", "skill_type", "tags"); err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, s := range demoSkills {
		_, err := ex.Exec(
			ctx,
			`INSERT INTO skills (id, provider_id, title, description, category, level, skill_type, tags, created_at, updated_at)
			 SELECT $1::uuid, u.id, $3::text, $4::text, $5::text, $6::text, $7::text, $8::text[], $9::timestamptz, $9::timestamptz
			   FROM users u
			  WHERE u.username = $2
			    AND NOT EXISTS (SELECT 1 FROM skills s WHERE s.provider_id = u.id AND s.title = $3)`,
			uuid.New(), s.Provider, s.Title, s.Description, s.Category, s.Level, s.SkillType, s.Tags, now,
		)
		if err != nil {
			return err
		}
	}
	return nil
}
