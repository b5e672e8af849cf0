package domain

import (
	"context"
	"errors"
	"time"
)

// Common domain errors
var ErrNotFound = errors.New("resource not found")

type Job struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Company       string    `json:"company"`
	WorkplaceType string    `json:"workplace_type"` // Onsite, Remote, Hybrid
	Location      string    `json:"location"`
	JobType       string    `json:"job_type"` // Full-time, Part-time, Freelance
	Category      string    `json:"category"`
	SubCategory   string    `json:"sub_category"`
	Description   string    `json:"description"`
	HirerID       string    `json:"hirer_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Joined data for list responses
	HirerName *string `json:"hirer_name,omitempty"`
}

type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	GetByID(ctx context.Context, id int64) (*Job, error)
	Fetch(ctx context.Context, limit, offset int) ([]Job, int64, error)
	FetchByHirer(ctx context.Context, hirerID string) ([]Job, error)
	Update(ctx context.Context, job *Job) error
	Delete(ctx context.Context, id int64) error
	Save(ctx context.Context, jobID int64, userID string) error
	Unsave(ctx context.Context, jobID int64, userID string) error
	FetchSavedByUser(ctx context.Context, userID string) ([]Job, error)
}

type JobUsecase interface {
	CreateJob(ctx context.Context, hirerID string, job *Job) error
	GetJobDetails(ctx context.Context, id int64) (*Job, error)
	ListJobs(ctx context.Context, page, pageSize int) ([]Job, int64, error)
	ListJobsByHirer(ctx context.Context, hirerID string) ([]Job, error)
	UpdateJob(ctx context.Context, userID, role string, job *Job) error
	DeleteJob(ctx context.Context, userID, role string, id int64) error
	SaveJob(ctx context.Context, userID string, jobID int64) error
	UnsaveJob(ctx context.Context, userID string, jobID int64) error
	ListSavedJobs(ctx context.Context, userID string) ([]Job, error)
}
