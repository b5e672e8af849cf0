package postgres

import (
	"context"
	"encoding/json"
	"karya-backend/internal/domain"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/oauth2"
)

type userRepo struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) domain.UserRepository {
	return &userRepo{db: db}
}

const userColumns = `
	id, first_name, last_name, email, role, skills, education, interests,
	experience, linkedin, github, profile_picture, is_profile_complete,
	COALESCE(badge, ''), khalti_id, google_tokens, created_at, updated_at`

func (r *userRepo) scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	var u domain.User
	var tokens []byte
	err := row.Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Role,
		&u.Skills, &u.Education, &u.Interests, &u.Experience,
		&u.Linkedin, &u.Github, &u.ProfilePicture, &u.IsProfileComplete,
		&u.Badge, &u.KhaltiID, &tokens, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(tokens) > 0 {
		var tok oauth2.Token
		// A malformed credential bundle degrades to "no credential" instead
		// of failing the whole read.
		if err := json.Unmarshal(tokens, &tok); err == nil {
			u.GoogleTokens = &tok
		}
	}
	return &u, nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *userRepo) UpdateBadge(ctx context.Context, id string, badge string) error {
	query := `UPDATE users SET badge = NULLIF($2, ''), updated_at = $3 WHERE id = $1`
	result, err := r.db.Exec(ctx, query, id, badge, time.Now())
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepo) UpdateCalendarTokens(ctx context.Context, id string, tokens *oauth2.Token) error {
	raw, err := json.Marshal(tokens)
	if err != nil {
		return err
	}
	query := `UPDATE users SET google_tokens = $2, updated_at = $3 WHERE id = $1`
	result, err := r.db.Exec(ctx, query, id, raw, time.Now())
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepo) UpdateKhaltiID(ctx context.Context, id string, khaltiID string) error {
	query := `UPDATE users SET khalti_id = $2, updated_at = $3 WHERE id = $1`
	result, err := r.db.Exec(ctx, query, id, khaltiID, time.Now())
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
