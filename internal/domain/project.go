package domain

import (
	"context"
	"time"
)

type ProjectStatus string

const (
	ProjectStatusOngoing   ProjectStatus = "Ongoing"
	ProjectStatusCompleted ProjectStatus = "Completed"
)

type TaskStatus string

const (
	TaskStatusToDo       TaskStatus = "To-Do"
	TaskStatusInProgress TaskStatus = "In-Progress"
	TaskStatusDone       TaskStatus = "Done"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusToDo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

// Task is owned by its project; Files holds stored path/URI references only.
type Task struct {
	ID          int64      `json:"id"`
	ProjectID   int64      `json:"project_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Files       []string   `json:"files,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Project is created from exactly one completed interview whose application
// reached Hired. Payment is the agreed amount in NPR.
type Project struct {
	ID            int64         `json:"id"`
	Title         string        `json:"title"`
	Description   *string       `json:"description,omitempty"`
	HirerID       string        `json:"hirer_id"`
	FreelancerID  string        `json:"freelancer_id"`
	ApplicationID int64         `json:"application_id"`
	Tasks         []Task        `json:"tasks"`
	Status        ProjectStatus `json:"status"`
	Duration      *int          `json:"duration,omitempty"` // days
	Deadline      *time.Time    `json:"deadline,omitempty"`
	Payment       int64         `json:"payment"` // agreed amount, NPR major units
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`

	// Joined data for list responses
	HirerName      *string `json:"hirer_name,omitempty"`
	FreelancerName *string `json:"freelancer_name,omitempty"`
	JobTitle       *string `json:"job_title,omitempty"`
}

type CreateProjectInput struct {
	InterviewID int64      `json:"interview_id" validate:"required"`
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	Duration    *int       `json:"duration"`
	Deadline    *time.Time `json:"deadline"`
	Payment     int64      `json:"payment" validate:"required,gt=0"`
}

type TaskInput struct {
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline"`
	Files       []string   `json:"files"`
}

type CompletionStats struct {
	TotalProjects int64 `json:"total_projects"`
	Completed     int64 `json:"completed"`
}

type ProjectRepository interface {
	Create(ctx context.Context, p *Project) error
	GetByID(ctx context.Context, id int64) (*Project, error)
	ListByHirer(ctx context.Context, hirerID string) ([]Project, error)
	ListByFreelancer(ctx context.Context, freelancerID string) ([]Project, error)
	CountByHirer(ctx context.Context, hirerID string) (int64, error)
	CountByFreelancer(ctx context.Context, freelancerID string) (int64, error)
	// ListCompletedByFreelancer loads completed projects including their
	// tasks, for the freelancer timeliness signal.
	ListCompletedByFreelancer(ctx context.Context, freelancerID string) ([]Project, error)
	// MarkCompleted transitions Ongoing -> Completed; false if not Ongoing.
	MarkCompleted(ctx context.Context, id int64) (bool, error)
	AddTask(ctx context.Context, t *Task) error
	GetTask(ctx context.Context, projectID, taskID int64) (*Task, error)
	UpdateTaskStatus(ctx context.Context, projectID, taskID int64, status TaskStatus) error
	CompletionStats(ctx context.Context) (*CompletionStats, error)
}

type ProjectUsecase interface {
	Create(ctx context.Context, hirerID string, in CreateProjectInput) (*Project, error)
	Get(ctx context.Context, userID string, id int64) (*Project, error)
	ListForHirer(ctx context.Context, hirerID string) ([]Project, error)
	ListForFreelancer(ctx context.Context, freelancerID string) ([]Project, error)
	MarkComplete(ctx context.Context, hirerID string, projectID int64) error
	AddTask(ctx context.Context, hirerID string, projectID int64, in TaskInput) (*Task, error)
	UpdateTaskStatus(ctx context.Context, userID string, projectID, taskID int64, status TaskStatus) (*Task, error)
	CompletionStats(ctx context.Context) (*CompletionStats, error)
}
