package postgres

import (
	"context"
	"karya-backend/internal/domain"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type jobRepo struct {
	db *pgxpool.Pool
}

// NewJobRepository creates a new job repository
func NewJobRepository(db *pgxpool.Pool) domain.JobRepository {
	return &jobRepo{db: db}
}

// Create inserts a new job posting
func (r *jobRepo) Create(ctx context.Context, job *domain.Job) error {
	query := `
		INSERT INTO jobs (title, company, workplace_type, location, job_type, category, sub_category, description, hirer_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`

	now := time.Now()
	job.CreatedAt = now
	job.UpdatedAt = now

	return r.db.QueryRow(ctx, query,
		job.Title,
		job.Company,
		job.WorkplaceType,
		job.Location,
		job.JobType,
		job.Category,
		job.SubCategory,
		job.Description,
		job.HirerID,
		job.CreatedAt,
		job.UpdatedAt,
	).Scan(&job.ID)
}

func (r *jobRepo) GetByID(ctx context.Context, id int64) (*domain.Job, error) {
	query := `
		SELECT
			j.id, j.title, j.company, j.workplace_type, j.location, j.job_type,
			j.category, j.sub_category, j.description, j.hirer_id, j.created_at, j.updated_at,
			u.first_name || ' ' || u.last_name AS hirer_name
		FROM jobs j
		LEFT JOIN users u ON j.hirer_id = u.id
		WHERE j.id = $1`

	var job domain.Job
	err := r.db.QueryRow(ctx, query, id).Scan(
		&job.ID, &job.Title, &job.Company, &job.WorkplaceType, &job.Location, &job.JobType,
		&job.Category, &job.SubCategory, &job.Description, &job.HirerID, &job.CreatedAt, &job.UpdatedAt,
		&job.HirerName,
	)
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *jobRepo) Fetch(ctx context.Context, limit, offset int) ([]domain.Job, int64, error) {
	query := `
		SELECT id, title, company, workplace_type, location, job_type,
			category, sub_category, description, hirer_id, created_at, updated_at
		FROM jobs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	jobs, err := scanJobs(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM jobs`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

func (r *jobRepo) FetchByHirer(ctx context.Context, hirerID string) ([]domain.Job, error) {
	query := `
		SELECT id, title, company, workplace_type, location, job_type,
			category, sub_category, description, hirer_id, created_at, updated_at
		FROM jobs
		WHERE hirer_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, hirerID)
	if err != nil {
		return nil, err
	}
	return scanJobs(rows)
}

func (r *jobRepo) Update(ctx context.Context, job *domain.Job) error {
	query := `
		UPDATE jobs
		SET title = $2, company = $3, workplace_type = $4, location = $5,
			job_type = $6, category = $7, sub_category = $8, description = $9, updated_at = $10
		WHERE id = $1`

	result, err := r.db.Exec(ctx, query,
		job.ID, job.Title, job.Company, job.WorkplaceType, job.Location,
		job.JobType, job.Category, job.SubCategory, job.Description, time.Now(),
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *jobRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *jobRepo) Save(ctx context.Context, jobID int64, userID string) error {
	query := `
		INSERT INTO saved_jobs (job_id, user_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (job_id, user_id) DO NOTHING`
	_, err := r.db.Exec(ctx, query, jobID, userID, time.Now())
	return err
}

func (r *jobRepo) Unsave(ctx context.Context, jobID int64, userID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM saved_jobs WHERE job_id = $1 AND user_id = $2`, jobID, userID)
	return err
}

func (r *jobRepo) FetchSavedByUser(ctx context.Context, userID string) ([]domain.Job, error) {
	query := `
		SELECT j.id, j.title, j.company, j.workplace_type, j.location, j.job_type,
			j.category, j.sub_category, j.description, j.hirer_id, j.created_at, j.updated_at
		FROM jobs j
		JOIN saved_jobs s ON s.job_id = j.id
		WHERE s.user_id = $1
		ORDER BY s.created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return scanJobs(rows)
}

func scanJobs(rows pgx.Rows) ([]domain.Job, error) {
	defer rows.Close()

	var jobs []domain.Job
	for rows.Next() {
		var job domain.Job
		if err := rows.Scan(
			&job.ID, &job.Title, &job.Company, &job.WorkplaceType, &job.Location, &job.JobType,
			&job.Category, &job.SubCategory, &job.Description, &job.HirerID, &job.CreatedAt, &job.UpdatedAt,
		); err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}
