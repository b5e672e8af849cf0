package usecase

import (
	"context"

	"karya-backend/internal/domain"
	"karya-backend/pkg/apperror"
)

type jobUsecase struct {
	jobRepo domain.JobRepository
}

// NewJobUsecase creates a new job usecase
func NewJobUsecase(jobRepo domain.JobRepository) domain.JobUsecase {
	return &jobUsecase{jobRepo: jobRepo}
}

func (uc *jobUsecase) CreateJob(ctx context.Context, hirerID string, job *domain.Job) error {
	job.HirerID = hirerID
	if err := uc.jobRepo.Create(ctx, job); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (uc *jobUsecase) GetJobDetails(ctx context.Context, id int64) (*domain.Job, error) {
	job, err := uc.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NotFound("Job not found")
	}
	return job, nil
}

func (uc *jobUsecase) ListJobs(ctx context.Context, page, pageSize int) ([]domain.Job, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize
	return uc.jobRepo.Fetch(ctx, pageSize, offset)
}

func (uc *jobUsecase) ListJobsByHirer(ctx context.Context, hirerID string) ([]domain.Job, error) {
	return uc.jobRepo.FetchByHirer(ctx, hirerID)
}

// UpdateJob lets the posting hirer (or an admin) modify a job.
func (uc *jobUsecase) UpdateJob(ctx context.Context, userID, role string, job *domain.Job) error {
	existing, err := uc.jobRepo.GetByID(ctx, job.ID)
	if err != nil {
		return apperror.NotFound("Job not found")
	}
	if existing.HirerID != userID && role != domain.RoleAdmin {
		return apperror.Forbidden("You can only update your own job postings")
	}
	job.HirerID = existing.HirerID
	if err := uc.jobRepo.Update(ctx, job); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (uc *jobUsecase) DeleteJob(ctx context.Context, userID, role string, id int64) error {
	existing, err := uc.jobRepo.GetByID(ctx, id)
	if err != nil {
		return apperror.NotFound("Job not found")
	}
	if existing.HirerID != userID && role != domain.RoleAdmin {
		return apperror.Forbidden("You can only delete your own job postings")
	}
	if err := uc.jobRepo.Delete(ctx, id); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (uc *jobUsecase) SaveJob(ctx context.Context, userID string, jobID int64) error {
	if _, err := uc.jobRepo.GetByID(ctx, jobID); err != nil {
		return apperror.NotFound("Job not found")
	}
	if err := uc.jobRepo.Save(ctx, jobID, userID); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (uc *jobUsecase) UnsaveJob(ctx context.Context, userID string, jobID int64) error {
	if err := uc.jobRepo.Unsave(ctx, jobID, userID); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (uc *jobUsecase) ListSavedJobs(ctx context.Context, userID string) ([]domain.Job, error) {
	return uc.jobRepo.FetchSavedByUser(ctx, userID)
}
