package repository

import (
	"context"
	"fmt"
	"strings"

	"skillbridge/internal/database"
	"skillbridge/internal/database/postgres"
	"skillbridge/internal/domain/user"

	"github.com/google/uuid"
)

const userColumns = `id, username, email, password_hash, first_name, last_name, bio, profile_picture,
	location, skills, learning_interests, rating_average::float8, rating_count, role, is_active,
	last_login, joined_at, created_at, updated_at`

type PostgresUserRepository struct {
	db database.DB
}

var _ user.Repository = (*PostgresUserRepository)(nil)

func NewPostgresUserRepository(db database.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) CreateUser(ctx context.Context, u user.User) error {
	skills, err := marshalJSON(nonNilSkills(u.Skills))
	if err != nil {
		return err
	}
	role := u.Role
	if role == "" {
		role = user.RoleUser
	}

	_, err = database.Conn(ctx, r.db).Exec(ctx,
		`INSERT INTO users (id, username, email, password_hash, first_name, last_name, bio,
			profile_picture, location, skills, learning_interests, role, is_active,
			last_login, joined_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, TRUE, $13, $13, $13, $13)`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Bio,
		u.ProfilePicture, u.Location, skills, nonNilStrings(u.LearningInterests), role, u.CreatedAt,
	)
	if err != nil {
		return mapUserWriteError(err)
	}
	return nil
}

func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	row := database.Conn(ctx, r.db).QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *PostgresUserRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	row := database.Conn(ctx, r.db).QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`,
		strings.ToLower(strings.TrimSpace(email)),
	)
	return scanUser(row)
}

func (r *PostgresUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := database.Conn(ctx, r.db).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`,
		strings.ToLower(strings.TrimSpace(email)),
	).Scan(&exists)
	return exists, err
}

func (r *PostgresUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := database.Conn(ctx, r.db).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`,
		strings.TrimSpace(username),
	).Scan(&exists)
	return exists, err
}

func (r *PostgresUserRepository) UpdateUser(ctx context.Context, u user.User) error {
	skills, err := marshalJSON(nonNilSkills(u.Skills))
	if err != nil {
		return err
	}
	n, err := database.Conn(ctx, r.db).Exec(ctx,
		`UPDATE users
		 SET first_name = $2, last_name = $3, bio = $4, profile_picture = $5, location = $6,
		     skills = $7, learning_interests = $8, updated_at = now()
		 WHERE id = $1`,
		u.ID, u.FirstName, u.LastName, u.Bio, u.ProfilePicture, u.Location,
		skills, nonNilStrings(u.LearningInterests),
	)
	if err != nil {
		return mapUserWriteError(err)
	}
	if n == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *PostgresUserRepository) TouchLastLogin(ctx context.Context, id uuid.UUID) error {
	_, err := database.Conn(ctx, r.db).Exec(ctx, `UPDATE users SET last_login = now() WHERE id = $1`, id)
	return err
}

func (r *PostgresUserRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	n, err := database.Conn(ctx, r.db).Exec(ctx,
		`UPDATE users SET is_active = FALSE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *PostgresUserRepository) Search(ctx context.Context, f user.SearchFilter) ([]user.User, int, error) {
	limit, offset := normalizePage(f.Limit, f.Offset, 12, 100)

	var a args
	where := []string{"is_active = TRUE"}
	if s := strings.TrimSpace(f.Search); s != "" {
		p := a.add("%" + s + "%")
		where = append(where, fmt.Sprintf(
			"(first_name ILIKE %[1]s OR last_name ILIKE %[1]s OR username ILIKE %[1]s OR bio ILIKE %[1]s)", p))
	}
	if s := strings.TrimSpace(f.Skills); s != "" {
		p := a.add("%" + s + "%")
		where = append(where, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM jsonb_array_elements(skills) sk WHERE sk->>'name' ILIKE %s)", p))
	}
	if s := strings.TrimSpace(f.Location); s != "" {
		p := a.add("%" + s + "%")
		where = append(where, "location ILIKE "+p)
	}
	cond := strings.Join(where, " AND ")

	conn := database.Conn(ctx, r.db)
	total, err := scanCount(conn.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE `+cond, a...))
	if err != nil {
		return nil, 0, err
	}

	limitP := a.add(limit)
	offsetP := a.add(offset)
	rows, err := conn.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE `+cond+
			` ORDER BY rating_average DESC, created_at DESC LIMIT `+limitP+` OFFSET `+offsetP,
		a...,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]user.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *PostgresUserRepository) Suggest(ctx context.Context, q string, limit int) ([]user.Summary, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := database.Conn(ctx, r.db).Query(ctx,
		`SELECT `+summaryColumns("u")+`
		 FROM users u
		 WHERE u.is_active = TRUE
		   AND (u.username ILIKE $1 OR u.first_name ILIKE $1 OR u.last_name ILIKE $1)
		 ORDER BY u.rating_average DESC, u.username ASC
		 LIMIT $2`,
		"%"+strings.TrimSpace(q)+"%", limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]user.Summary, 0)
	for rows.Next() {
		var s user.Summary
		if err := rows.Scan(summaryDest(&s)...); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresUserRepository) Stats(ctx context.Context, id uuid.UUID) (user.Stats, error) {
	var st user.Stats
	err := database.Conn(ctx, r.db).QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM skills WHERE provider_id = u.id AND skill_type = 'Offering' AND is_active),
			(SELECT COUNT(*) FROM skills WHERE provider_id = u.id AND skill_type = 'Seeking' AND is_active),
			(SELECT COUNT(*) FROM reviews WHERE reviewee_id = u.id AND is_visible),
			(SELECT COUNT(*) FROM reviews WHERE reviewer_id = u.id AND is_visible),
			u.rating_average::float8,
			u.rating_count
		 FROM users u
		 WHERE u.id = $1`,
		id,
	).Scan(&st.SkillsOffered, &st.SkillsSeeking, &st.ReviewsReceived, &st.ReviewsGiven,
		&st.AverageRating, &st.TotalRatings)
	if err != nil {
		if postgres.IsNoRows(err) {
			return user.Stats{}, user.ErrNotFound
		}
		return user.Stats{}, err
	}
	return st, nil
}

func (r *PostgresUserRepository) LockForRatingUpdate(ctx context.Context, id uuid.UUID) error {
	var locked uuid.UUID
	err := database.Conn(ctx, r.db).QueryRow(ctx,
		`SELECT id FROM users WHERE id = $1 FOR NO KEY UPDATE`, id).Scan(&locked)
	if err != nil {
		if postgres.IsNoRows(err) {
			return user.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *PostgresUserRepository) UpdateRating(ctx context.Context, id uuid.UUID, rt user.Rating) error {
	n, err := database.Conn(ctx, r.db).Exec(ctx,
		`UPDATE users SET rating_average = $2, rating_count = $3, updated_at = now() WHERE id = $1`,
		id, rt.Average, rt.Count,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return user.ErrNotFound
	}
	return nil
}

func scanUser(row database.Row) (user.User, error) {
	var (
		u         user.User
		skillsRaw []byte
	)
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Bio,
		&u.ProfilePicture, &u.Location, &skillsRaw, &u.LearningInterests,
		&u.Rating.Average, &u.Rating.Count, &u.Role, &u.IsActive,
		&u.LastLogin, &u.JoinedAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if postgres.IsNoRows(err) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	if err := unmarshalJSON(skillsRaw, &u.Skills); err != nil {
		return user.User{}, err
	}
	return u, nil
}

func mapUserWriteError(err error) error {
	switch {
	case postgres.IsUniqueViolation(err, "users_username_key"):
		return user.ErrUsernameAlreadyExists
	case postgres.IsUniqueViolation(err, "users_email_key"):
		return user.ErrEmailAlreadyExists
	}
	return err
}

func nonNilSkills(in []user.DeclaredSkill) []user.DeclaredSkill {
	if in == nil {
		return []user.DeclaredSkill{}
	}
	return in
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
