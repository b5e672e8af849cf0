package usecase

import (
	"context"
	"fmt"

	"karya-backend/internal/domain"
	"karya-backend/pkg/apperror"
)

type projectUsecase struct {
	projectRepo     domain.ProjectRepository
	interviewRepo   domain.InterviewRepository
	applicationRepo domain.ApplicationRepository
	userRepo        domain.UserRepository
	notifier        domain.Notifier
}

func NewProjectUsecase(
	projectRepo domain.ProjectRepository,
	interviewRepo domain.InterviewRepository,
	applicationRepo domain.ApplicationRepository,
	userRepo domain.UserRepository,
	notifier domain.Notifier,
) domain.ProjectUsecase {
	return &projectUsecase{
		projectRepo:     projectRepo,
		interviewRepo:   interviewRepo,
		applicationRepo: applicationRepo,
		userRepo:        userRepo,
		notifier:        notifier,
	}
}

// Create starts a project from a completed interview whose application was
// hired. The interview's project_created flag is flipped atomically so two
// concurrent creates cannot both succeed.
func (uc *projectUsecase) Create(ctx context.Context, hirerID string, in domain.CreateProjectInput) (*domain.Project, error) {
	// 1. Validate the interview and its owner
	iv, err := uc.interviewRepo.GetByID(ctx, in.InterviewID)
	if err != nil {
		return nil, apperror.NotFound("Interview not found")
	}
	if iv.CreatedBy != hirerID {
		return nil, apperror.Forbidden("Only the hirer who ran the interview can create its project")
	}
	if iv.Status != domain.InterviewStatusCompleted {
		return nil, apperror.InvalidState("A project can only be created from a completed interview")
	}

	// 2. The application must have reached Hired
	app, err := uc.applicationRepo.GetByID(ctx, iv.ApplicationID)
	if err != nil {
		return nil, apperror.NotFound("Application not found")
	}
	if app.Status != domain.ApplicationStatusHired {
		return nil, apperror.InvalidState("Confirm the hire before creating a project")
	}

	// 3. Claim the one-project-per-interview guard
	ok, err := uc.interviewRepo.MarkProjectCreated(ctx, iv.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if !ok {
		return nil, apperror.InvalidState("A project was already created from this interview")
	}

	// 4. Create the project
	var description *string
	if in.Description != "" {
		description = &in.Description
	}
	project := &domain.Project{
		Title:         in.Title,
		Description:   description,
		HirerID:       hirerID,
		FreelancerID:  app.UserID,
		ApplicationID: app.ID,
		Status:        domain.ProjectStatusOngoing,
		Duration:      in.Duration,
		Deadline:      in.Deadline,
		Payment:       in.Payment,
	}
	if err := uc.projectRepo.Create(ctx, project); err != nil {
		return nil, apperror.Internal(err)
	}

	// 5. Notify the freelancer
	message := fmt.Sprintf("A project \"%s\" was created for you", project.Title)
	var email *domain.EmailMessage
	if app.ApplicantEmail != nil {
		email = &domain.EmailMessage{To: *app.ApplicantEmail, Subject: "New Project", Body: message}
	}
	uc.notifier.Notify(ctx, domain.Notification{
		RecipientID: app.UserID,
		Message:     message,
		ProjectID:   &project.ID,
	}, "project:created", email)

	return project, nil
}

func (uc *projectUsecase) Get(ctx context.Context, userID string, id int64) (*domain.Project, error) {
	project, err := uc.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NotFound("Project not found")
	}
	if project.HirerID != userID && project.FreelancerID != userID {
		return nil, apperror.Forbidden("You are not a participant of this project")
	}
	return project, nil
}

func (uc *projectUsecase) ListForHirer(ctx context.Context, hirerID string) ([]domain.Project, error) {
	return uc.projectRepo.ListByHirer(ctx, hirerID)
}

func (uc *projectUsecase) ListForFreelancer(ctx context.Context, freelancerID string) ([]domain.Project, error) {
	return uc.projectRepo.ListByFreelancer(ctx, freelancerID)
}

// MarkComplete finalizes an ongoing project without a payment, e.g. when it
// was settled outside the platform.
func (uc *projectUsecase) MarkComplete(ctx context.Context, hirerID string, projectID int64) error {
	project, err := uc.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return apperror.NotFound("Project not found")
	}
	if project.HirerID != hirerID {
		return apperror.Forbidden("Only the project's hirer can complete it")
	}

	ok, err := uc.projectRepo.MarkCompleted(ctx, projectID)
	if err != nil {
		return apperror.Internal(err)
	}
	if !ok {
		return apperror.InvalidState("Project is not ongoing")
	}

	message := fmt.Sprintf("The project \"%s\" was marked completed", project.Title)
	var email *domain.EmailMessage
	if freelancer, err := uc.userRepo.GetByID(ctx, project.FreelancerID); err == nil {
		email = &domain.EmailMessage{To: freelancer.Email, Subject: "Project Completed", Body: message}
	}
	uc.notifier.Notify(ctx, domain.Notification{
		RecipientID: project.FreelancerID,
		Message:     message,
		ProjectID:   &project.ID,
	}, "project:completed", email)
	return nil
}

func (uc *projectUsecase) AddTask(ctx context.Context, hirerID string, projectID int64, in domain.TaskInput) (*domain.Task, error) {
	project, err := uc.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, apperror.NotFound("Project not found")
	}
	if project.HirerID != hirerID {
		return nil, apperror.Forbidden("Only the project's hirer can add tasks")
	}
	if project.Status != domain.ProjectStatusOngoing {
		return nil, apperror.InvalidState("Tasks can only be added to an ongoing project")
	}

	var description *string
	if in.Description != "" {
		description = &in.Description
	}
	task := &domain.Task{
		ProjectID:   projectID,
		Title:       in.Title,
		Description: description,
		Status:      domain.TaskStatusToDo,
		Deadline:    in.Deadline,
		Files:       in.Files,
	}
	if err := uc.projectRepo.AddTask(ctx, task); err != nil {
		return nil, apperror.Internal(err)
	}

	uc.notifier.Notify(ctx, domain.Notification{
		RecipientID: project.FreelancerID,
		Message:     fmt.Sprintf("A new task \"%s\" was added to \"%s\"", task.Title, project.Title),
		ProjectID:   &project.ID,
	}, "task:created", nil)

	return task, nil
}

// UpdateTaskStatus sets a task to any valid status. Task states carry no
// ordering; moving Done back to In-Progress is allowed.
func (uc *projectUsecase) UpdateTaskStatus(ctx context.Context, userID string, projectID, taskID int64, status domain.TaskStatus) (*domain.Task, error) {
	if !status.Valid() {
		return nil, apperror.BadRequest("Invalid task status")
	}

	project, err := uc.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, apperror.NotFound("Project not found")
	}
	if project.HirerID != userID && project.FreelancerID != userID {
		return nil, apperror.Forbidden("You are not a participant of this project")
	}
	if project.Status != domain.ProjectStatusOngoing {
		return nil, apperror.InvalidState("Tasks of a completed project are read-only")
	}

	task, err := uc.projectRepo.GetTask(ctx, projectID, taskID)
	if err != nil {
		return nil, apperror.NotFound("Task not found")
	}
	if err := uc.projectRepo.UpdateTaskStatus(ctx, projectID, taskID, status); err != nil {
		return nil, apperror.Internal(err)
	}
	task.Status = status

	// Tell the other party about the move
	recipient := project.HirerID
	if userID == project.HirerID {
		recipient = project.FreelancerID
	}
	uc.notifier.Notify(ctx, domain.Notification{
		RecipientID: recipient,
		Message:     fmt.Sprintf("Task \"%s\" moved to %s", task.Title, status),
		ProjectID:   &project.ID,
	}, "task:updated", nil)

	return task, nil
}

func (uc *projectUsecase) CompletionStats(ctx context.Context) (*domain.CompletionStats, error) {
	stats, err := uc.projectRepo.CompletionStats(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return stats, nil
}
