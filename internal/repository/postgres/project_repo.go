package postgres

import (
	"context"
	"karya-backend/internal/domain"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type projectRepo struct {
	db *pgxpool.Pool
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *pgxpool.Pool) domain.ProjectRepository {
	return &projectRepo{db: db}
}

func (r *projectRepo) Create(ctx context.Context, p *domain.Project) error {
	query := `
		INSERT INTO projects (title, description, hirer_id, freelancer_id, application_id, status, duration, deadline, payment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`

	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Status == "" {
		p.Status = domain.ProjectStatusOngoing
	}

	return r.db.QueryRow(ctx, query,
		p.Title,
		p.Description,
		p.HirerID,
		p.FreelancerID,
		p.ApplicationID,
		p.Status,
		p.Duration,
		p.Deadline,
		p.Payment,
		p.CreatedAt,
		p.UpdatedAt,
	).Scan(&p.ID)
}

const projectSelect = `
	SELECT
		p.id, p.title, p.description, p.hirer_id, p.freelancer_id, p.application_id,
		p.status, p.duration, p.deadline, p.payment, p.created_at, p.updated_at,
		h.first_name || ' ' || h.last_name AS hirer_name,
		f.first_name || ' ' || f.last_name AS freelancer_name,
		j.title AS job_title
	FROM projects p
	LEFT JOIN users h ON p.hirer_id = h.id
	LEFT JOIN users f ON p.freelancer_id = f.id
	LEFT JOIN applications a ON p.application_id = a.id
	LEFT JOIN jobs j ON a.job_id = j.id`

func (r *projectRepo) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	query := projectSelect + ` WHERE p.id = $1`

	var p domain.Project
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Title, &p.Description, &p.HirerID, &p.FreelancerID, &p.ApplicationID,
		&p.Status, &p.Duration, &p.Deadline, &p.Payment, &p.CreatedAt, &p.UpdatedAt,
		&p.HirerName, &p.FreelancerName, &p.JobTitle,
	)
	if err != nil {
		return nil, err
	}
	tasks, err := r.tasksByProject(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Tasks = tasks
	return &p, nil
}

func (r *projectRepo) ListByHirer(ctx context.Context, hirerID string) ([]domain.Project, error) {
	return r.list(ctx, projectSelect+` WHERE p.hirer_id = $1 ORDER BY p.created_at DESC`, hirerID)
}

func (r *projectRepo) ListByFreelancer(ctx context.Context, freelancerID string) ([]domain.Project, error) {
	return r.list(ctx, projectSelect+` WHERE p.freelancer_id = $1 ORDER BY p.created_at DESC`, freelancerID)
}

func (r *projectRepo) CountByHirer(ctx context.Context, hirerID string) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM projects WHERE hirer_id = $1`, hirerID).Scan(&count)
	return count, err
}

func (r *projectRepo) CountByFreelancer(ctx context.Context, freelancerID string) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM projects WHERE freelancer_id = $1`, freelancerID).Scan(&count)
	return count, err
}

func (r *projectRepo) ListCompletedByFreelancer(ctx context.Context, freelancerID string) ([]domain.Project, error) {
	projects, err := r.list(ctx,
		projectSelect+` WHERE p.freelancer_id = $1 AND p.status = $2 ORDER BY p.created_at DESC`,
		freelancerID, domain.ProjectStatusCompleted)
	if err != nil {
		return nil, err
	}
	// Timeliness scoring needs the task lists.
	for i := range projects {
		tasks, err := r.tasksByProject(ctx, projects[i].ID)
		if err != nil {
			return nil, err
		}
		projects[i].Tasks = tasks
	}
	return projects, nil
}

// MarkCompleted transitions Ongoing -> Completed exactly once.
func (r *projectRepo) MarkCompleted(ctx context.Context, id int64) (bool, error) {
	query := `UPDATE projects SET status = $2, updated_at = $3 WHERE id = $1 AND status = $4`
	result, err := r.db.Exec(ctx, query, id, domain.ProjectStatusCompleted, time.Now(), domain.ProjectStatusOngoing)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

func (r *projectRepo) AddTask(ctx context.Context, t *domain.Task) error {
	query := `
		INSERT INTO tasks (project_id, title, description, status, deadline, files, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	t.CreatedAt = time.Now()
	if t.Status == "" {
		t.Status = domain.TaskStatusToDo
	}

	return r.db.QueryRow(ctx, query,
		t.ProjectID,
		t.Title,
		t.Description,
		t.Status,
		t.Deadline,
		t.Files,
		t.CreatedAt,
	).Scan(&t.ID)
}

func (r *projectRepo) GetTask(ctx context.Context, projectID, taskID int64) (*domain.Task, error) {
	query := `
		SELECT id, project_id, title, description, status, deadline, files, created_at
		FROM tasks
		WHERE id = $1 AND project_id = $2`

	var t domain.Task
	err := r.db.QueryRow(ctx, query, taskID, projectID).Scan(
		&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.Status, &t.Deadline, &t.Files, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *projectRepo) UpdateTaskStatus(ctx context.Context, projectID, taskID int64, status domain.TaskStatus) error {
	query := `UPDATE tasks SET status = $3 WHERE id = $1 AND project_id = $2`
	result, err := r.db.Exec(ctx, query, taskID, projectID, status)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *projectRepo) CompletionStats(ctx context.Context) (*domain.CompletionStats, error) {
	query := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE status = $1)
		FROM projects`

	var stats domain.CompletionStats
	err := r.db.QueryRow(ctx, query, domain.ProjectStatusCompleted).Scan(&stats.TotalProjects, &stats.Completed)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *projectRepo) list(ctx context.Context, query string, args ...any) ([]domain.Project, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanProjects(rows)
}

func (r *projectRepo) tasksByProject(ctx context.Context, projectID int64) ([]domain.Task, error) {
	query := `
		SELECT id, project_id, title, description, status, deadline, files, created_at
		FROM tasks
		WHERE project_id = $1
		ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.Status, &t.Deadline, &t.Files, &t.CreatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func scanProjects(rows pgx.Rows) ([]domain.Project, error) {
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Description, &p.HirerID, &p.FreelancerID, &p.ApplicationID,
			&p.Status, &p.Duration, &p.Deadline, &p.Payment, &p.CreatedAt, &p.UpdatedAt,
			&p.HirerName, &p.FreelancerName, &p.JobTitle,
		); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}
