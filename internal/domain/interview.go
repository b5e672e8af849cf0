package domain

import (
	"context"
	"time"
)

type InterviewStatus string

const (
	InterviewStatusScheduled InterviewStatus = "Scheduled"
	InterviewStatusCompleted InterviewStatus = "Completed"
	InterviewStatusFailed    InterviewStatus = "Failed"
	InterviewStatusCancelled InterviewStatus = "Cancelled"
)

// Interview is the meeting scheduled for exactly one application. The store
// does not enforce uniqueness of active interviews per application; the
// lifecycle engine checks it before creating a new one.
type Interview struct {
	ID             int64           `json:"id"`
	ApplicationID  int64           `json:"application_id"`
	ScheduledTime  time.Time       `json:"scheduled_time"`
	MeetLink       string          `json:"meet_link"`
	GoogleEventID  string          `json:"google_event_id"`
	Status         InterviewStatus `json:"status"`
	CreatedBy      string          `json:"created_by"` // the hirer who scheduled it
	ProjectCreated bool            `json:"project_created"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	// Joined data for list responses and notifications
	ApplicantID    *string `json:"applicant_id,omitempty"`
	ApplicantName  *string `json:"applicant_name,omitempty"`
	ApplicantEmail *string `json:"applicant_email,omitempty"`
	JobTitle       *string `json:"job_title,omitempty"`
	Company        *string `json:"company,omitempty"`
}

type ScheduleInterviewInput struct {
	ApplicationID int64     `json:"application_id" validate:"required"`
	ScheduledTime time.Time `json:"scheduled_time" validate:"required"`
}

type InterviewRepository interface {
	Create(ctx context.Context, iv *Interview) error
	GetByID(ctx context.Context, id int64) (*Interview, error)
	// ListForUser returns interviews where the user is either the applicant
	// or the hirer who created them, most recent scheduled time first.
	ListForUser(ctx context.Context, userID string) ([]Interview, error)
	GetCompletedByApplication(ctx context.Context, applicationID int64) (*Interview, error)
	HasActive(ctx context.Context, applicationID int64) (bool, error)
	UpdateScheduledTime(ctx context.Context, id int64, t time.Time) error
	UpdateStatusFrom(ctx context.Context, id int64, from, to InterviewStatus) (bool, error)
	// MarkProjectCreated flips the duplicate-project guard; false means it
	// was already set.
	MarkProjectCreated(ctx context.Context, id int64) (bool, error)
	// FindStaleScheduled returns Scheduled interviews whose scheduled time is
	// strictly before the cutoff, for the reconciliation sweep.
	FindStaleScheduled(ctx context.Context, before time.Time) ([]Interview, error)
}

type InterviewUsecase interface {
	Schedule(ctx context.Context, hirerID string, in ScheduleInterviewInput) (*Interview, error)
	ListForUser(ctx context.Context, userID string) ([]Interview, error)
	Reschedule(ctx context.Context, userID string, interviewID int64, newTime time.Time) (*Interview, error)
	Cancel(ctx context.Context, userID string, interviewID int64, reason string) error
	// SetOutcome marks the interview Completed or Failed and moves the
	// application to MeetingCompleted or Rejected accordingly.
	SetOutcome(ctx context.Context, userID string, interviewID int64, outcome InterviewStatus) error
}
