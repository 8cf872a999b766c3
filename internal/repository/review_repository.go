package repository

import (
	"context"
	"strings"

	"skillbridge/internal/database"
	"skillbridge/internal/database/postgres"
	"skillbridge/internal/domain/review"
	"skillbridge/internal/domain/skill"
	"skillbridge/internal/domain/user"

	"github.com/google/uuid"
)

type PostgresReviewRepository struct {
	db database.DB
}

var _ review.Repository = (*PostgresReviewRepository)(nil)

func NewPostgresReviewRepository(db database.DB) *PostgresReviewRepository {
	return &PostgresReviewRepository{db: db}
}

func reviewSelect() string {
	return `SELECT r.id, r.reviewer_id, r.reviewee_id, r.skill_id, r.rating, r.comment, r.session_type,
			r.session_date, r.is_visible, r.created_at, r.updated_at,
			COALESCE(s.title, ''),
			(SELECT COUNT(*) FROM review_helpful_votes hv WHERE hv.review_id = r.id),
			(SELECT COUNT(*) FROM review_reports rp WHERE rp.review_id = r.id),
			` + summaryColumns("a") + `,
			` + summaryColumns("b") + `
		 FROM reviews r
		 JOIN users a ON a.id = r.reviewer_id
		 JOIN users b ON b.id = r.reviewee_id
		 LEFT JOIN skills s ON s.id = r.skill_id`
}

func (r *PostgresReviewRepository) Create(ctx context.Context, rv review.Review) error {
	_, err := database.Conn(ctx, r.db).Exec(ctx,
		`INSERT INTO reviews (id, reviewer_id, reviewee_id, skill_id, rating, comment, session_type,
			session_date, is_visible, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE, $9, $9)`,
		rv.ID, rv.ReviewerID, rv.RevieweeID, rv.SkillID, rv.Rating, rv.Comment,
		string(rv.SessionType), rv.SessionDate, rv.CreatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err, "reviews_reviewer_reviewee_skill_key") {
			return review.ErrDuplicate
		}
		if postgres.IsForeignKeyViolation(err, fkReviewSkill) {
			return skill.ErrNotFound
		}
		if postgres.IsForeignKeyViolation(err, "") {
			return user.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *PostgresReviewRepository) GetByID(ctx context.Context, id uuid.UUID) (review.Review, error) {
	return scanReview(database.Conn(ctx, r.db).QueryRow(ctx, reviewSelect()+` WHERE r.id = $1`, id))
}

func (r *PostgresReviewRepository) Exists(ctx context.Context, reviewerID, revieweeID, skillID uuid.UUID) (bool, error) {
	var exists bool
	err := database.Conn(ctx, r.db).QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM reviews WHERE reviewer_id = $1 AND reviewee_id = $2 AND skill_id = $3
		)`,
		reviewerID, revieweeID, skillID,
	).Scan(&exists)
	return exists, err
}

func (r *PostgresReviewRepository) Update(ctx context.Context, rv review.Review) error {
	n, err := database.Conn(ctx, r.db).Exec(ctx,
		`UPDATE reviews SET rating = $2, comment = $3, updated_at = now() WHERE id = $1`,
		rv.ID, rv.Rating, rv.Comment,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return review.ErrNotFound
	}
	return nil
}

func (r *PostgresReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := database.Conn(ctx, r.db).Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return review.ErrNotFound
	}
	return nil
}

func (r *PostgresReviewRepository) SetVisibility(ctx context.Context, id uuid.UUID, visible bool) error {
	n, err := database.Conn(ctx, r.db).Exec(ctx,
		`UPDATE reviews SET is_visible = $2, updated_at = now() WHERE id = $1`, id, visible)
	if err != nil {
		return err
	}
	if n == 0 {
		return review.ErrNotFound
	}
	return nil
}

func (r *PostgresReviewRepository) VisibleRatings(ctx context.Context, revieweeID uuid.UUID) ([]int, error) {
	rows, err := database.Conn(ctx, r.db).Query(ctx,
		`SELECT rating FROM reviews WHERE reviewee_id = $1 AND is_visible`, revieweeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]int, 0)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresReviewRepository) ListForUser(ctx context.Context, revieweeID uuid.UUID, limit, offset int) ([]review.Review, int, error) {
	limit, offset = normalizePage(limit, offset, 10, 100)
	conn := database.Conn(ctx, r.db)

	total, err := scanCount(conn.QueryRow(ctx,
		`SELECT COUNT(*) FROM reviews WHERE reviewee_id = $1 AND is_visible`, revieweeID))
	if err != nil {
		return nil, 0, err
	}

	rows, err := conn.Query(ctx,
		reviewSelect()+`
		 WHERE r.reviewee_id = $1 AND r.is_visible
		 ORDER BY r.created_at DESC
		 LIMIT $2 OFFSET $3`,
		revieweeID, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	out, err := collectReviews(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *PostgresReviewRepository) ListForSkill(ctx context.Context, skillID uuid.UUID) ([]review.Review, error) {
	rows, err := database.Conn(ctx, r.db).Query(ctx,
		reviewSelect()+`
		 WHERE r.skill_id = $1 AND r.is_visible
		 ORDER BY r.created_at DESC`,
		skillID,
	)
	if err != nil {
		return nil, err
	}
	return collectReviews(rows)
}

func (r *PostgresReviewRepository) ToggleHelpful(ctx context.Context, reviewID, userID uuid.UUID) (bool, int, error) {
	conn := database.Conn(ctx, r.db)

	removed, err := conn.Exec(ctx,
		`DELETE FROM review_helpful_votes WHERE review_id = $1 AND user_id = $2`, reviewID, userID)
	if err != nil {
		return false, 0, err
	}
	helpful := removed == 0
	if helpful {
		_, err := conn.Exec(ctx,
			`INSERT INTO review_helpful_votes (review_id, user_id) VALUES ($1, $2)
			 ON CONFLICT (review_id, user_id) DO NOTHING`,
			reviewID, userID,
		)
		if err != nil {
			if postgres.IsForeignKeyViolation(err, fkHelpfulVoteReview) {
				return false, 0, review.ErrNotFound
			}
			if postgres.IsForeignKeyViolation(err, "") {
				return false, 0, user.ErrNotFound
			}
			return false, 0, err
		}
	}

	count, err := scanCount(conn.QueryRow(ctx,
		`SELECT COUNT(*) FROM review_helpful_votes WHERE review_id = $1`, reviewID))
	if err != nil {
		return false, 0, err
	}
	return helpful, count, nil
}

func (r *PostgresReviewRepository) AddReport(ctx context.Context, reviewID, userID uuid.UUID, reason string) error {
	_, err := database.Conn(ctx, r.db).Exec(ctx,
		`INSERT INTO review_reports (review_id, user_id, reason) VALUES ($1, $2, $3)`,
		reviewID, userID, strings.TrimSpace(reason),
	)
	if err != nil {
		if postgres.IsUniqueViolation(err, "") {
			return review.ErrAlreadyReported
		}
		if postgres.IsForeignKeyViolation(err, fkReportReview) {
			return review.ErrNotFound
		}
		if postgres.IsForeignKeyViolation(err, "") {
			return user.ErrNotFound
		}
		return err
	}
	return nil
}

func collectReviews(rows database.Rows) ([]review.Review, error) {
	defer rows.Close()

	out := make([]review.Review, 0)
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanReview(row database.Row) (review.Review, error) {
	var (
		rv          review.Review
		sessionType string
		reviewer    user.Summary
		reviewee    user.Summary
	)
	dest := []any{
		&rv.ID, &rv.ReviewerID, &rv.RevieweeID, &rv.SkillID, &rv.Rating, &rv.Comment, &sessionType,
		&rv.SessionDate, &rv.IsVisible, &rv.CreatedAt, &rv.UpdatedAt,
		&rv.SkillTitle, &rv.HelpfulCount, &rv.ReportCount,
	}
	dest = append(dest, summaryDest(&reviewer)...)
	dest = append(dest, summaryDest(&reviewee)...)
	if err := row.Scan(dest...); err != nil {
		if postgres.IsNoRows(err) {
			return review.Review{}, review.ErrNotFound
		}
		return review.Review{}, err
	}
	rv.SessionType = review.SessionType(sessionType)
	rv.Reviewer = &reviewer
	rv.Reviewee = &reviewee
	return rv, nil
}
