package postgres

import (
	"context"
	"errors"
	"karya-backend/internal/domain"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type reviewRepo struct {
	db *pgxpool.Pool
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db *pgxpool.Pool) domain.ReviewRepository {
	return &reviewRepo{db: db}
}

func (r *reviewRepo) Create(ctx context.Context, rv *domain.Review) error {
	query := `
		INSERT INTO reviews (project_id, payment_id, reviewer_id, reviewed_user_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	rv.CreatedAt = time.Now()

	err := r.db.QueryRow(ctx, query,
		rv.ProjectID,
		rv.PaymentID,
		rv.ReviewerID,
		rv.ReviewedUserID,
		rv.Rating,
		rv.Comment,
		rv.CreatedAt,
	).Scan(&rv.ID)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return domain.ErrDuplicateReview
	}
	return err
}

const reviewSelect = `
	SELECT
		r.id, r.project_id, r.payment_id, r.reviewer_id, r.reviewed_user_id,
		r.rating, r.comment, r.created_at,
		u.first_name || ' ' || u.last_name AS reviewer_name,
		u.role AS reviewer_role,
		p.title AS project_title
	FROM reviews r
	LEFT JOIN users u ON r.reviewer_id = u.id
	LEFT JOIN projects p ON r.project_id = p.id`

func (r *reviewRepo) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	query := reviewSelect + ` WHERE r.id = $1`

	var rv domain.Review
	err := r.db.QueryRow(ctx, query, id).Scan(
		&rv.ID, &rv.ProjectID, &rv.PaymentID, &rv.ReviewerID, &rv.ReviewedUserID,
		&rv.Rating, &rv.Comment, &rv.CreatedAt,
		&rv.ReviewerName, &rv.ReviewerRole, &rv.ProjectTitle,
	)
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *reviewRepo) Exists(ctx context.Context, projectID int64, reviewerID, reviewedUserID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM reviews WHERE project_id = $1 AND reviewer_id = $2 AND reviewed_user_id = $3)`
	var exists bool
	err := r.db.QueryRow(ctx, query, projectID, reviewerID, reviewedUserID).Scan(&exists)
	return exists, err
}

func (r *reviewRepo) ListByReviewedUser(ctx context.Context, userID string) ([]domain.Review, error) {
	query := reviewSelect + `
	WHERE r.reviewed_user_id = $1
	ORDER BY r.created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return scanReviews(rows)
}

func (r *reviewRepo) AverageRating(ctx context.Context, userID string) (float64, int64, error) {
	query := `SELECT COALESCE(AVG(rating), 0), COUNT(*) FROM reviews WHERE reviewed_user_id = $1`
	var avg float64
	var count int64
	err := r.db.QueryRow(ctx, query, userID).Scan(&avg, &count)
	return avg, count, err
}

func (r *reviewRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanReviews(rows pgx.Rows) ([]domain.Review, error) {
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(
			&rv.ID, &rv.ProjectID, &rv.PaymentID, &rv.ReviewerID, &rv.ReviewedUserID,
			&rv.Rating, &rv.Comment, &rv.CreatedAt,
			&rv.ReviewerName, &rv.ReviewerRole, &rv.ProjectTitle,
		); err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}
