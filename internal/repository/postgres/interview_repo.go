package postgres

import (
	"context"
	"karya-backend/internal/domain"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type interviewRepo struct {
	db *pgxpool.Pool
}

// NewInterviewRepository creates a new interview repository
func NewInterviewRepository(db *pgxpool.Pool) domain.InterviewRepository {
	return &interviewRepo{db: db}
}

func (r *interviewRepo) Create(ctx context.Context, iv *domain.Interview) error {
	query := `
		INSERT INTO interviews (application_id, scheduled_time, meet_link, google_event_id, status, created_by, project_created, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	now := time.Now()
	iv.CreatedAt = now
	iv.UpdatedAt = now
	if iv.Status == "" {
		iv.Status = domain.InterviewStatusScheduled
	}

	return r.db.QueryRow(ctx, query,
		iv.ApplicationID,
		iv.ScheduledTime,
		iv.MeetLink,
		iv.GoogleEventID,
		iv.Status,
		iv.CreatedBy,
		iv.ProjectCreated,
		iv.CreatedAt,
		iv.UpdatedAt,
	).Scan(&iv.ID)
}

const interviewSelect = `
	SELECT
		i.id, i.application_id, i.scheduled_time, i.meet_link, i.google_event_id,
		i.status, i.created_by, i.project_created, i.created_at, i.updated_at,
		a.user_id AS applicant_id,
		u.first_name || ' ' || u.last_name AS applicant_name,
		u.email AS applicant_email,
		j.title AS job_title,
		j.company AS company
	FROM interviews i
	LEFT JOIN applications a ON i.application_id = a.id
	LEFT JOIN users u ON a.user_id = u.id
	LEFT JOIN jobs j ON a.job_id = j.id`

func (r *interviewRepo) GetByID(ctx context.Context, id int64) (*domain.Interview, error) {
	query := interviewSelect + ` WHERE i.id = $1`

	var iv domain.Interview
	err := r.db.QueryRow(ctx, query, id).Scan(
		&iv.ID, &iv.ApplicationID, &iv.ScheduledTime, &iv.MeetLink, &iv.GoogleEventID,
		&iv.Status, &iv.CreatedBy, &iv.ProjectCreated, &iv.CreatedAt, &iv.UpdatedAt,
		&iv.ApplicantID, &iv.ApplicantName, &iv.ApplicantEmail, &iv.JobTitle, &iv.Company,
	)
	if err != nil {
		return nil, err
	}
	return &iv, nil
}

func (r *interviewRepo) ListForUser(ctx context.Context, userID string) ([]domain.Interview, error) {
	query := interviewSelect + `
	WHERE a.user_id = $1 OR i.created_by = $1
	ORDER BY i.scheduled_time DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return scanInterviews(rows)
}

func (r *interviewRepo) GetCompletedByApplication(ctx context.Context, applicationID int64) (*domain.Interview, error) {
	query := interviewSelect + `
	WHERE i.application_id = $1 AND i.status = $2
	ORDER BY i.updated_at DESC
	LIMIT 1`

	var iv domain.Interview
	err := r.db.QueryRow(ctx, query, applicationID, domain.InterviewStatusCompleted).Scan(
		&iv.ID, &iv.ApplicationID, &iv.ScheduledTime, &iv.MeetLink, &iv.GoogleEventID,
		&iv.Status, &iv.CreatedBy, &iv.ProjectCreated, &iv.CreatedAt, &iv.UpdatedAt,
		&iv.ApplicantID, &iv.ApplicantName, &iv.ApplicantEmail, &iv.JobTitle, &iv.Company,
	)
	if err != nil {
		return nil, err
	}
	return &iv, nil
}

func (r *interviewRepo) HasActive(ctx context.Context, applicationID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM interviews WHERE application_id = $1 AND status = $2)`
	var exists bool
	err := r.db.QueryRow(ctx, query, applicationID, domain.InterviewStatusScheduled).Scan(&exists)
	return exists, err
}

func (r *interviewRepo) UpdateScheduledTime(ctx context.Context, id int64, t time.Time) error {
	query := `UPDATE interviews SET scheduled_time = $2, updated_at = $3 WHERE id = $1`
	result, err := r.db.Exec(ctx, query, id, t, time.Now())
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *interviewRepo) UpdateStatusFrom(ctx context.Context, id int64, from, to domain.InterviewStatus) (bool, error) {
	query := `UPDATE interviews SET status = $3, updated_at = $4 WHERE id = $1 AND status = $2`
	result, err := r.db.Exec(ctx, query, id, from, to, time.Now())
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

// MarkProjectCreated flips the duplicate-project guard exactly once.
func (r *interviewRepo) MarkProjectCreated(ctx context.Context, id int64) (bool, error) {
	query := `UPDATE interviews SET project_created = TRUE, updated_at = $2 WHERE id = $1 AND project_created = FALSE`
	result, err := r.db.Exec(ctx, query, id, time.Now())
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

// FindStaleScheduled feeds the reconciliation sweep. The status filter makes
// re-running against already-swept interviews a no-op.
func (r *interviewRepo) FindStaleScheduled(ctx context.Context, before time.Time) ([]domain.Interview, error) {
	query := interviewSelect + `
	WHERE i.status = $1 AND i.scheduled_time < $2
	ORDER BY i.scheduled_time ASC`

	rows, err := r.db.Query(ctx, query, domain.InterviewStatusScheduled, before)
	if err != nil {
		return nil, err
	}
	return scanInterviews(rows)
}

func scanInterviews(rows pgx.Rows) ([]domain.Interview, error) {
	defer rows.Close()

	var interviews []domain.Interview
	for rows.Next() {
		var iv domain.Interview
		if err := rows.Scan(
			&iv.ID, &iv.ApplicationID, &iv.ScheduledTime, &iv.MeetLink, &iv.GoogleEventID,
			&iv.Status, &iv.CreatedBy, &iv.ProjectCreated, &iv.CreatedAt, &iv.UpdatedAt,
			&iv.ApplicantID, &iv.ApplicantName, &iv.ApplicantEmail, &iv.JobTitle, &iv.Company,
		); err != nil {
			return nil, err
		}
		interviews = append(interviews, iv)
	}
	return interviews, rows.Err()
}
