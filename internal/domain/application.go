package domain

import (
	"context"
	"time"
)

// ApplicationStatus is the authoritative lifecycle state of a job application.
type ApplicationStatus string

const (
	ApplicationStatusPending          ApplicationStatus = "Pending"
	ApplicationStatusMeetingScheduled ApplicationStatus = "MeetingScheduled"
	ApplicationStatusMeetingCompleted ApplicationStatus = "MeetingCompleted"
	ApplicationStatusHired            ApplicationStatus = "Hired"
	ApplicationStatusRejected         ApplicationStatus = "Rejected"
)

// applicationTransitions is the single transition table for the lifecycle.
// Rejected is reachable from every non-terminal state; cancelling an
// interview moves the application back to Pending.
var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationStatusPending:          {ApplicationStatusMeetingScheduled, ApplicationStatusRejected},
	ApplicationStatusMeetingScheduled: {ApplicationStatusMeetingCompleted, ApplicationStatusPending, ApplicationStatusRejected},
	ApplicationStatusMeetingCompleted: {ApplicationStatusHired, ApplicationStatusPending, ApplicationStatusRejected},
	ApplicationStatusHired:            {},
	ApplicationStatusRejected:         {},
}

func (s ApplicationStatus) Valid() bool {
	_, ok := applicationTransitions[s]
	return ok
}

// Terminal reports whether the status can never be left again.
func (s ApplicationStatus) Terminal() bool {
	return s == ApplicationStatusHired || s == ApplicationStatusRejected
}

// CanTransition reports whether the move s -> to is permitted by the
// transition table.
func (s ApplicationStatus) CanTransition(to ApplicationStatus) bool {
	for _, next := range applicationTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Application links one freelancer to one job posting.
type Application struct {
	ID          int64             `json:"id"`
	UserID      string            `json:"user_id"` // applicant
	JobID       int64             `json:"job_id"`
	CoverLetter string            `json:"cover_letter"`
	Resume      *string           `json:"resume,omitempty"` // stored path/URI reference only
	Status      ApplicationStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`

	// Joined data for list responses
	ApplicantName  *string `json:"applicant_name,omitempty"`
	ApplicantEmail *string `json:"applicant_email,omitempty"`
	JobTitle       *string `json:"job_title,omitempty"`
	Company        *string `json:"company,omitempty"`
	HirerID        *string `json:"hirer_id,omitempty"`
}

// ApplicationWithInterview pairs an application with its completed interview
// for the hirer's pending-decision and hired views.
type ApplicationWithInterview struct {
	Application
	Interview *Interview `json:"interview,omitempty"`
}

type ApplyInput struct {
	JobID       int64  `json:"job_id" validate:"required"`
	CoverLetter string `json:"cover_letter" validate:"required"`
	ResumeURL   string `json:"resume_url"`
}

type ApplicationRepository interface {
	Create(ctx context.Context, app *Application) error
	GetByID(ctx context.Context, id int64) (*Application, error)
	ListByHirer(ctx context.Context, hirerID string) ([]Application, error)
	ListByHirerAndStatus(ctx context.Context, hirerID string, status ApplicationStatus) ([]Application, error)
	ListByApplicant(ctx context.Context, userID string) ([]Application, error)
	CheckExists(ctx context.Context, jobID int64, userID string) (bool, error)
	// UpdateStatusFrom performs the optimistic check-then-write: the row is
	// only updated if it is still in the expected state. Returns false when
	// the guard no longer holds.
	UpdateStatusFrom(ctx context.Context, id int64, from, to ApplicationStatus) (bool, error)
}

type ApplicationUsecase interface {
	// Freelancer operations
	Apply(ctx context.Context, userID string, in ApplyInput) (*Application, error)
	ListForFreelancer(ctx context.Context, userID string) ([]Application, error)

	// Hirer operations
	ListForHirer(ctx context.Context, hirerID string) ([]Application, error)
	ListPendingDecision(ctx context.Context, hirerID string) ([]ApplicationWithInterview, error)
	ListHired(ctx context.Context, hirerID string) ([]ApplicationWithInterview, error)
	Reject(ctx context.Context, hirerID string, applicationID int64) error
	ConfirmHire(ctx context.Context, hirerID string, applicationID int64) error
}
