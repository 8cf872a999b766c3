package repository

import (
	"context"
	"strings"

	"skillbridge/internal/database"
	"skillbridge/internal/database/postgres"
	"skillbridge/internal/domain/skill"
	"skillbridge/internal/domain/user"

	"github.com/google/uuid"
)

const listingColumns = `s.id, s.provider_id, s.title, s.description, s.category, s.subcategory, s.level,
	s.skill_type, s.tags, s.duration, s.availability, s.format, s.location, s.exchange_preference,
	s.prerequisites, s.materials, s.is_active, s.views, s.created_at, s.updated_at,
	p.username, p.first_name, p.last_name, p.profile_picture, p.rating_average::float8, p.rating_count`

var listingSorts = map[string]string{
	skill.SortNewest:  "s.created_at DESC",
	skill.SortOldest:  "s.created_at ASC",
	skill.SortPopular: "s.views DESC, s.created_at DESC",
	skill.SortTitle:   "s.title ASC, s.created_at DESC",
}

type PostgresSkillRepository struct {
	db database.DB
}

var _ skill.Repository = (*PostgresSkillRepository)(nil)

func NewPostgresSkillRepository(db database.DB) *PostgresSkillRepository {
	return &PostgresSkillRepository{db: db}
}

func (r *PostgresSkillRepository) Create(ctx context.Context, l skill.Listing) error {
	availability, err := marshalJSON(l.Availability)
	if err != nil {
		return err
	}
	_, err = database.Conn(ctx, r.db).Exec(ctx,
		`INSERT INTO skills (id, provider_id, title, description, category, subcategory, level,
			skill_type, tags, duration, availability, format, location, exchange_preference,
			prerequisites, materials, is_active, views, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, TRUE, 0, $17, $17)`,
		l.ID, l.ProviderID, l.Title, l.Description, l.Category, l.Subcategory, l.Level,
		l.SkillType, nonNilStrings(l.Tags), l.Duration, availability, l.Format, l.Location,
		l.ExchangePreference, l.Prerequisites, nonNilStrings(l.Materials), l.CreatedAt,
	)
	if err != nil {
		if postgres.IsForeignKeyViolation(err, "") {
			return user.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *PostgresSkillRepository) GetByID(ctx context.Context, id uuid.UUID) (skill.Listing, error) {
	conn := database.Conn(ctx, r.db)
	l, err := scanListing(conn.QueryRow(ctx,
		`SELECT `+listingColumns+`
		 FROM skills s
		 JOIN users p ON p.id = s.provider_id
		 WHERE s.id = $1`,
		id,
	))
	if err != nil {
		return skill.Listing{}, err
	}

	l.Interests, err = r.interests(ctx, conn, id)
	if err != nil {
		return skill.Listing{}, err
	}
	return l, nil
}

func (r *PostgresSkillRepository) interests(ctx context.Context, conn database.Executor, skillID uuid.UUID) ([]skill.Interest, error) {
	rows, err := conn.Query(ctx,
		`SELECT i.id, i.skill_id, i.user_id, i.message, i.status, i.created_at, i.updated_at,
			`+summaryColumns("u")+`
		 FROM skill_interests i
		 JOIN users u ON u.id = i.user_id
		 WHERE i.skill_id = $1
		 ORDER BY i.created_at ASC`,
		skillID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]skill.Interest, 0)
	for rows.Next() {
		var (
			in skill.Interest
			u  user.Summary
		)
		dest := append([]any{&in.ID, &in.SkillID, &in.UserID, &in.Message, &in.Status, &in.CreatedAt, &in.UpdatedAt},
			summaryDest(&u)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		in.User = &u
		out = append(out, in)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresSkillRepository) Update(ctx context.Context, l skill.Listing) error {
	availability, err := marshalJSON(l.Availability)
	if err != nil {
		return err
	}
	n, err := database.Conn(ctx, r.db).Exec(ctx,
		`UPDATE skills
		 SET title = $2, description = $3, category = $4, subcategory = $5, level = $6,
		     skill_type = $7, tags = $8, duration = $9, availability = $10, format = $11,
		     location = $12, exchange_preference = $13, prerequisites = $14, materials = $15,
		     updated_at = now()
		 WHERE id = $1 AND is_active`,
		l.ID, l.Title, l.Description, l.Category, l.Subcategory, l.Level, l.SkillType,
		nonNilStrings(l.Tags), l.Duration, availability, l.Format, l.Location,
		l.ExchangePreference, l.Prerequisites, nonNilStrings(l.Materials),
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return skill.ErrNotFound
	}
	return nil
}

func (r *PostgresSkillRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	n, err := database.Conn(ctx, r.db).Exec(ctx,
		`UPDATE skills SET is_active = FALSE, updated_at = now() WHERE id = $1 AND is_active`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return skill.ErrNotFound
	}
	return nil
}

func (r *PostgresSkillRepository) IncrementViews(ctx context.Context, id uuid.UUID) (int64, error) {
	var views int64
	err := database.Conn(ctx, r.db).QueryRow(ctx,
		`UPDATE skills SET views = views + 1 WHERE id = $1 AND is_active RETURNING views`, id,
	).Scan(&views)
	if err != nil {
		if postgres.IsNoRows(err) {
			return 0, skill.ErrNotFound
		}
		return 0, err
	}
	return views, nil
}

func (r *PostgresSkillRepository) List(ctx context.Context, f skill.ListFilter) ([]skill.Listing, int, error) {
	limit, offset := normalizePage(f.Limit, f.Offset, 12, 100)

	var a args
	where := []string{"s.is_active", "p.is_active"}
	if v := filterValue(f.Category); v != "" {
		where = append(where, "s.category = "+a.add(v))
	}
	if v := filterValue(f.Level); v != "" {
		where = append(where, "s.level = "+a.add(v))
	}
	if v := filterValue(f.SkillType); v != "" {
		where = append(where, "s.skill_type = "+a.add(v))
	}
	if v := strings.TrimSpace(f.Search); v != "" {
		q := a.add(v)
		tag := a.add(strings.ToLower(v))
		where = append(where, "(s.search_vector @@ plainto_tsquery('english', "+q+") OR "+tag+" = ANY (s.tags))")
	}
	cond := strings.Join(where, " AND ")

	order, ok := listingSorts[f.Sort]
	if !ok {
		order = listingSorts[skill.SortNewest]
	}

	conn := database.Conn(ctx, r.db)
	total, err := scanCount(conn.QueryRow(ctx,
		`SELECT COUNT(*) FROM skills s JOIN users p ON p.id = s.provider_id WHERE `+cond, a...))
	if err != nil {
		return nil, 0, err
	}

	limitP := a.add(limit)
	offsetP := a.add(offset)
	rows, err := conn.Query(ctx,
		`SELECT `+listingColumns+`
		 FROM skills s
		 JOIN users p ON p.id = s.provider_id
		 WHERE `+cond+`
		 ORDER BY `+order+`
		 LIMIT `+limitP+` OFFSET `+offsetP,
		a...,
	)
	if err != nil {
		return nil, 0, err
	}
	out, err := collectListings(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *PostgresSkillRepository) ListByProvider(ctx context.Context, providerID uuid.UUID, skillType string) ([]skill.Listing, error) {
	var a args
	where := []string{"s.is_active", "s.provider_id = " + a.add(providerID)}
	if v := filterValue(skillType); v != "" {
		where = append(where, "s.skill_type = "+a.add(v))
	}

	rows, err := database.Conn(ctx, r.db).Query(ctx,
		`SELECT `+listingColumns+`
		 FROM skills s
		 JOIN users p ON p.id = s.provider_id
		 WHERE `+strings.Join(where, " AND ")+`
		 ORDER BY s.created_at DESC`,
		a...,
	)
	if err != nil {
		return nil, err
	}
	return collectListings(rows)
}

func (r *PostgresSkillRepository) AddInterest(ctx context.Context, in skill.Interest) error {
	_, err := database.Conn(ctx, r.db).Exec(ctx,
		`INSERT INTO skill_interests (id, skill_id, user_id, message, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $6)`,
		in.ID, in.SkillID, in.UserID, in.Message, string(in.Status), in.CreatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err, "skill_interests_skill_user_key") {
			return skill.ErrDuplicateInterest
		}
		if postgres.IsForeignKeyViolation(err, fkInterestSkill) {
			return skill.ErrNotFound
		}
		if postgres.IsForeignKeyViolation(err, "") {
			return user.ErrNotFound
		}
		return err
	}
	return nil
}

// UpdateInterestStatus writes in.Status only if the stored status still
// allows the transition, so two concurrent owners cannot both apply one.
func (r *PostgresSkillRepository) UpdateInterestStatus(ctx context.Context, in skill.Interest) error {
	from := make([]string, 0, len(interestStatuses))
	for _, st := range interestStatuses {
		if st.CanTransitionTo(in.Status) {
			from = append(from, string(st))
		}
	}

	n, err := database.Conn(ctx, r.db).Exec(ctx,
		`UPDATE skill_interests
		 SET status = $3, updated_at = $4
		 WHERE id = $1 AND skill_id = $2 AND status = ANY ($5)`,
		in.ID, in.SkillID, string(in.Status), in.UpdatedAt, from,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		var exists bool
		err := database.Conn(ctx, r.db).QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM skill_interests WHERE id = $1 AND skill_id = $2)`,
			in.ID, in.SkillID,
		).Scan(&exists)
		if err != nil {
			return err
		}
		if !exists {
			return skill.ErrInterestNotFound
		}
		return skill.ErrInvalidTransition
	}
	return nil
}

var interestStatuses = []skill.InterestStatus{
	skill.StatusPending, skill.StatusAccepted, skill.StatusDeclined, skill.StatusCompleted,
}

func filterValue(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, "all") {
		return ""
	}
	return v
}

func collectListings(rows database.Rows) ([]skill.Listing, error) {
	defer rows.Close()

	out := make([]skill.Listing, 0)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanListing(row database.Row) (skill.Listing, error) {
	var (
		l               skill.Listing
		p               user.Summary
		rating          user.Rating
		availabilityRaw []byte
	)
	err := row.Scan(
		&l.ID, &l.ProviderID, &l.Title, &l.Description, &l.Category, &l.Subcategory, &l.Level,
		&l.SkillType, &l.Tags, &l.Duration, &availabilityRaw, &l.Format, &l.Location,
		&l.ExchangePreference, &l.Prerequisites, &l.Materials, &l.IsActive, &l.Views,
		&l.CreatedAt, &l.UpdatedAt,
		&p.Username, &p.FirstName, &p.LastName, &p.ProfilePicture, &rating.Average, &rating.Count,
	)
	if err != nil {
		if postgres.IsNoRows(err) {
			return skill.Listing{}, skill.ErrNotFound
		}
		return skill.Listing{}, err
	}
	if err := unmarshalJSON(availabilityRaw, &l.Availability); err != nil {
		return skill.Listing{}, err
	}
	p.ID = l.ProviderID
	p.Rating = &rating
	l.Provider = &p
	return l, nil
}
