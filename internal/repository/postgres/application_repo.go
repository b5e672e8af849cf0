package postgres

import (
	"context"
	"karya-backend/internal/domain"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type applicationRepo struct {
	db *pgxpool.Pool
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *pgxpool.Pool) domain.ApplicationRepository {
	return &applicationRepo{db: db}
}

// Create inserts a new application
func (r *applicationRepo) Create(ctx context.Context, app *domain.Application) error {
	query := `
		INSERT INTO applications (user_id, job_id, cover_letter, resume, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	now := time.Now()
	app.CreatedAt = now
	app.UpdatedAt = now
	if app.Status == "" {
		app.Status = domain.ApplicationStatusPending
	}

	return r.db.QueryRow(ctx, query,
		app.UserID,
		app.JobID,
		app.CoverLetter,
		app.Resume,
		app.Status,
		app.CreatedAt,
		app.UpdatedAt,
	).Scan(&app.ID)
}

const applicationSelect = `
	SELECT
		a.id, a.user_id, a.job_id, a.cover_letter, a.resume, a.status,
		a.created_at, a.updated_at,
		u.first_name || ' ' || u.last_name AS applicant_name,
		u.email AS applicant_email,
		j.title AS job_title,
		j.company AS company,
		j.hirer_id AS hirer_id
	FROM applications a
	LEFT JOIN users u ON a.user_id = u.id
	LEFT JOIN jobs j ON a.job_id = j.id`

// GetByID retrieves an application with joined applicant and job data
func (r *applicationRepo) GetByID(ctx context.Context, id int64) (*domain.Application, error) {
	query := applicationSelect + ` WHERE a.id = $1`

	var app domain.Application
	err := r.db.QueryRow(ctx, query, id).Scan(
		&app.ID, &app.UserID, &app.JobID, &app.CoverLetter, &app.Resume, &app.Status,
		&app.CreatedAt, &app.UpdatedAt,
		&app.ApplicantName, &app.ApplicantEmail, &app.JobTitle, &app.Company, &app.HirerID,
	)
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// ListByHirer retrieves all applications to the hirer's jobs
func (r *applicationRepo) ListByHirer(ctx context.Context, hirerID string) ([]domain.Application, error) {
	query := applicationSelect + `
	WHERE j.hirer_id = $1
	ORDER BY a.created_at DESC`

	rows, err := r.db.Query(ctx, query, hirerID)
	if err != nil {
		return nil, err
	}
	return scanApplications(rows)
}

func (r *applicationRepo) ListByHirerAndStatus(ctx context.Context, hirerID string, status domain.ApplicationStatus) ([]domain.Application, error) {
	query := applicationSelect + `
	WHERE j.hirer_id = $1 AND a.status = $2
	ORDER BY a.created_at DESC`

	rows, err := r.db.Query(ctx, query, hirerID, status)
	if err != nil {
		return nil, err
	}
	return scanApplications(rows)
}

func (r *applicationRepo) ListByApplicant(ctx context.Context, userID string) ([]domain.Application, error) {
	query := applicationSelect + `
	WHERE a.user_id = $1
	ORDER BY a.created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return scanApplications(rows)
}

// CheckExists checks if an application already exists for the job/user combination
func (r *applicationRepo) CheckExists(ctx context.Context, jobID int64, userID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM applications WHERE job_id = $1 AND user_id = $2)`
	var exists bool
	err := r.db.QueryRow(ctx, query, jobID, userID).Scan(&exists)
	return exists, err
}

// UpdateStatusFrom updates the status only when the row is still in the
// expected state, serializing concurrent transitions per application.
func (r *applicationRepo) UpdateStatusFrom(ctx context.Context, id int64, from, to domain.ApplicationStatus) (bool, error) {
	query := `UPDATE applications SET status = $3, updated_at = $4 WHERE id = $1 AND status = $2`
	result, err := r.db.Exec(ctx, query, id, from, to, time.Now())
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

func scanApplications(rows pgx.Rows) ([]domain.Application, error) {
	defer rows.Close()

	var applications []domain.Application
	for rows.Next() {
		var app domain.Application
		if err := rows.Scan(
			&app.ID, &app.UserID, &app.JobID, &app.CoverLetter, &app.Resume, &app.Status,
			&app.CreatedAt, &app.UpdatedAt,
			&app.ApplicantName, &app.ApplicantEmail, &app.JobTitle, &app.Company, &app.HirerID,
		); err != nil {
			return nil, err
		}
		applications = append(applications, app)
	}
	return applications, rows.Err()
}
