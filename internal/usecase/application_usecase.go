package usecase

import (
	"context"
	"fmt"

	"karya-backend/internal/domain"
	"karya-backend/pkg/apperror"
)

type applicationUsecase struct {
	applicationRepo domain.ApplicationRepository
	jobRepo         domain.JobRepository
	interviewRepo   domain.InterviewRepository
	userRepo        domain.UserRepository
	notifier        domain.Notifier
}

// NewApplicationUsecase creates a new application usecase
func NewApplicationUsecase(
	applicationRepo domain.ApplicationRepository,
	jobRepo domain.JobRepository,
	interviewRepo domain.InterviewRepository,
	userRepo domain.UserRepository,
	notifier domain.Notifier,
) domain.ApplicationUsecase {
	return &applicationUsecase{
		applicationRepo: applicationRepo,
		jobRepo:         jobRepo,
		interviewRepo:   interviewRepo,
		userRepo:        userRepo,
		notifier:        notifier,
	}
}

// Apply submits a freelancer's application for a job and notifies the hirer.
func (uc *applicationUsecase) Apply(ctx context.Context, userID string, in domain.ApplyInput) (*domain.Application, error) {
	// 1. Validate the job exists
	job, err := uc.jobRepo.GetByID(ctx, in.JobID)
	if err != nil {
		return nil, apperror.NotFound("Job not found")
	}

	// 2. A hirer cannot apply to their own posting
	if job.HirerID == userID {
		return nil, apperror.Forbidden("You cannot apply to your own job posting")
	}

	// 3. Check for duplicate application
	exists, err := uc.applicationRepo.CheckExists(ctx, in.JobID, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if exists {
		return nil, apperror.BadRequest("You have already applied to this job")
	}

	// 4. Create the application in its initial state
	var resume *string
	if in.ResumeURL != "" {
		resume = &in.ResumeURL
	}
	app := &domain.Application{
		UserID:      userID,
		JobID:       in.JobID,
		CoverLetter: in.CoverLetter,
		Resume:      resume,
		Status:      domain.ApplicationStatusPending,
	}
	if err := uc.applicationRepo.Create(ctx, app); err != nil {
		return nil, apperror.Internal(err)
	}

	// 5. Notify the hirer
	applicant, err := uc.userRepo.GetByID(ctx, userID)
	applicantName := "A freelancer"
	if err == nil {
		applicantName = applicant.FullName()
	}
	uc.notifier.Notify(ctx, domain.Notification{
		RecipientID:   job.HirerID,
		Message:       fmt.Sprintf("%s applied to your job \"%s\"", applicantName, job.Title),
		ApplicationID: &app.ID,
	}, "application:created", nil)

	return app, nil
}

func (uc *applicationUsecase) ListForFreelancer(ctx context.Context, userID string) ([]domain.Application, error) {
	return uc.applicationRepo.ListByApplicant(ctx, userID)
}

func (uc *applicationUsecase) ListForHirer(ctx context.Context, hirerID string) ([]domain.Application, error) {
	return uc.applicationRepo.ListByHirer(ctx, hirerID)
}

// ListPendingDecision returns the hirer's applications awaiting a hire or
// reject decision, each paired with its completed interview.
func (uc *applicationUsecase) ListPendingDecision(ctx context.Context, hirerID string) ([]domain.ApplicationWithInterview, error) {
	return uc.listWithInterview(ctx, hirerID, domain.ApplicationStatusMeetingCompleted)
}

func (uc *applicationUsecase) ListHired(ctx context.Context, hirerID string) ([]domain.ApplicationWithInterview, error) {
	return uc.listWithInterview(ctx, hirerID, domain.ApplicationStatusHired)
}

func (uc *applicationUsecase) listWithInterview(ctx context.Context, hirerID string, status domain.ApplicationStatus) ([]domain.ApplicationWithInterview, error) {
	apps, err := uc.applicationRepo.ListByHirerAndStatus(ctx, hirerID, status)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	result := make([]domain.ApplicationWithInterview, 0, len(apps))
	for _, app := range apps {
		item := domain.ApplicationWithInterview{Application: app}
		if iv, err := uc.interviewRepo.GetCompletedByApplication(ctx, app.ID); err == nil {
			item.Interview = iv
		}
		result = append(result, item)
	}
	return result, nil
}

// Reject moves an application to its terminal Rejected state from any
// non-terminal state and notifies the applicant.
func (uc *applicationUsecase) Reject(ctx context.Context, hirerID string, applicationID int64) error {
	app, err := uc.loadOwned(ctx, hirerID, applicationID)
	if err != nil {
		return err
	}

	if !app.Status.CanTransition(domain.ApplicationStatusRejected) {
		return apperror.InvalidState(fmt.Sprintf("Application in state %q cannot be rejected", app.Status))
	}

	ok, err := uc.applicationRepo.UpdateStatusFrom(ctx, applicationID, app.Status, domain.ApplicationStatusRejected)
	if err != nil {
		return apperror.Internal(err)
	}
	if !ok {
		return apperror.Conflict("Application changed state; reload and try again")
	}

	uc.notifyApplicant(ctx, app, "application:rejected",
		fmt.Sprintf("Your application for \"%s\" was not successful", derefOr(app.JobTitle, "the position")),
		"Application Update",
	)
	return nil
}

// ConfirmHire moves a MeetingCompleted application to Hired.
func (uc *applicationUsecase) ConfirmHire(ctx context.Context, hirerID string, applicationID int64) error {
	app, err := uc.loadOwned(ctx, hirerID, applicationID)
	if err != nil {
		return err
	}

	if app.Status != domain.ApplicationStatusMeetingCompleted {
		return apperror.InvalidState("Only applications with a completed interview can be hired")
	}

	ok, err := uc.applicationRepo.UpdateStatusFrom(ctx, applicationID, domain.ApplicationStatusMeetingCompleted, domain.ApplicationStatusHired)
	if err != nil {
		return apperror.Internal(err)
	}
	if !ok {
		return apperror.Conflict("Application changed state; reload and try again")
	}

	uc.notifyApplicant(ctx, app, "application:hired",
		fmt.Sprintf("Congratulations! You were hired for \"%s\"", derefOr(app.JobTitle, "the position")),
		"You're Hired",
	)
	return nil
}

// loadOwned fetches the application and verifies the caller is the hirer of
// its job.
func (uc *applicationUsecase) loadOwned(ctx context.Context, hirerID string, applicationID int64) (*domain.Application, error) {
	app, err := uc.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, apperror.NotFound("Application not found")
	}
	if app.HirerID == nil || *app.HirerID != hirerID {
		return nil, apperror.Forbidden("You do not own this application's job")
	}
	return app, nil
}

func (uc *applicationUsecase) notifyApplicant(ctx context.Context, app *domain.Application, event, message, subject string) {
	var email *domain.EmailMessage
	if app.ApplicantEmail != nil {
		email = &domain.EmailMessage{
			To:      *app.ApplicantEmail,
			Subject: subject,
			Body:    message,
		}
	}
	uc.notifier.Notify(ctx, domain.Notification{
		RecipientID:   app.UserID,
		Message:       message,
		ApplicationID: &app.ID,
	}, event, email)
}

func derefOr(s *string, fallback string) string {
	if s != nil && *s != "" {
		return *s
	}
	return fallback
}
