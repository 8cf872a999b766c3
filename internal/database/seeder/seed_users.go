package seeder

import (
	"context"
	"fmt"
	"time"

	"skillbridge/internal/database"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DemoPassword is the login password of every seeded account.
const DemoPassword = "password123"

type demoUser struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Bio       string
	Location  string
	Role      string
}

var demoUsers = []demoUser{
	{Username: "alice", Email: "alice@example.com", FirstName: "Alice", LastName: "Walker", Bio: "Backend developer who wants to learn watercolor.", Location: "Jakarta", Role: "user"},
	{Username: "bima", Email: "bima@example.com", FirstName: "Bima", LastName: "Pratama", Bio: "Illustrator, happy to trade lessons for Go help.", Location: "Bandung", Role: "user"},
	{Username: "chen", Email: "chen@example.com", FirstName: "Chen", LastName: "Li", Bio: "Home cook and Mandarin tutor.", Location: "Surabaya", Role: "user"},
	{Username: "moderator", Email: "moderator@example.com", FirstName: "Mod", LastName: "Erator", Bio: "Keeps reviews tidy.", Location: "Remote", Role: "moderator"},
}

type DemoUsersSeeder struct{}

func (DemoUsersSeeder) Name() string { return "demo_users" }

func (DemoUsersSeeder) Seed(ctx context.Context, ex database.Executor) error {
	if err := requireColumns(ctx, ex, "users", "id", "username", "email", "password_hash", "role"); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	for _, u := range demoUsers {
		_, err := ex.Exec(
			ctx,
			`INSERT INTO users (id, username, email, password_hash, first_name, last_name, bio, location, role,
				last_login, joined_at, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10, $10, $10)
			 ON CONFLICT DO NOTHING`,
			uuid.New(), u.Username, u.Email, string(hash), u.FirstName, u.LastName, u.Bio, u.Location, u.Role, now,
		)
		if err != nil {
			return err
		}
	}
	return nil
}
