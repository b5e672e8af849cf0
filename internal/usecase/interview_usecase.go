package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"karya-backend/internal/domain"
	"karya-backend/pkg/apperror"
)

type interviewUsecase struct {
	interviewRepo   domain.InterviewRepository
	applicationRepo domain.ApplicationRepository
	userRepo        domain.UserRepository
	calendar        domain.CalendarScheduler
	notifier        domain.Notifier
	meetingDuration time.Duration
	providerTimeout time.Duration
}

func NewInterviewUsecase(
	interviewRepo domain.InterviewRepository,
	applicationRepo domain.ApplicationRepository,
	userRepo domain.UserRepository,
	calendar domain.CalendarScheduler,
	notifier domain.Notifier,
	meetingDuration time.Duration,
	providerTimeout time.Duration,
) domain.InterviewUsecase {
	return &interviewUsecase{
		interviewRepo:   interviewRepo,
		applicationRepo: applicationRepo,
		userRepo:        userRepo,
		calendar:        calendar,
		notifier:        notifier,
		meetingDuration: meetingDuration,
		providerTimeout: providerTimeout,
	}
}

// Schedule books a calendar meeting for a pending application and moves it
// to MeetingScheduled. The application's state is claimed before the
// calendar call so a concurrent schedule cannot create two events.
func (uc *interviewUsecase) Schedule(ctx context.Context, hirerID string, in domain.ScheduleInterviewInput) (*domain.Interview, error) {
	// 1. The meeting must be in the future
	if !in.ScheduledTime.After(time.Now()) {
		return nil, apperror.BadRequest("Scheduled time must be in the future")
	}

	// 2. Load the application and verify ownership
	app, err := uc.applicationRepo.GetByID(ctx, in.ApplicationID)
	if err != nil {
		return nil, apperror.NotFound("Application not found")
	}
	if app.HirerID == nil || *app.HirerID != hirerID {
		return nil, apperror.Forbidden("You do not own this application's job")
	}

	// 3. Only pending applications can move to an interview
	if app.Status != domain.ApplicationStatusPending {
		return nil, apperror.InvalidState("An interview can only be scheduled for a pending application")
	}
	if app.ApplicantEmail == nil {
		return nil, apperror.Internal(fmt.Errorf("application %d has no applicant email", app.ID))
	}

	// 4. One active interview per application
	active, err := uc.interviewRepo.HasActive(ctx, in.ApplicationID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if active {
		return nil, apperror.InvalidState("This application already has an active interview")
	}

	// 5. The hirer needs a connected calendar account
	hirer, err := uc.userRepo.GetByID(ctx, hirerID)
	if err != nil {
		return nil, apperror.NotFound("Hirer account not found")
	}
	if hirer.GoogleTokens == nil {
		return nil, apperror.Credential("Connect your calendar account before scheduling interviews")
	}

	// 6. Claim the application state before touching the provider
	ok, err := uc.applicationRepo.UpdateStatusFrom(ctx, app.ID, domain.ApplicationStatusPending, domain.ApplicationStatusMeetingScheduled)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if !ok {
		return nil, apperror.Conflict("Application changed state; reload and try again")
	}

	// 7. Create the calendar event with Meet conferencing
	callCtx, cancel := context.WithTimeout(ctx, uc.providerTimeout)
	defer cancel()
	meeting, err := uc.calendar.ScheduleMeeting(callCtx, hirer.GoogleTokens, domain.MeetingRequest{
		Subject:     fmt.Sprintf("Interview: %s", derefOr(app.JobTitle, "Karya position")),
		Description: fmt.Sprintf("Interview with %s for %s", derefOr(app.ApplicantName, "the applicant"), derefOr(app.JobTitle, "the position")),
		Organizer:   hirer.Email,
		Attendee:    *app.ApplicantEmail,
		StartTime:   in.ScheduledTime,
		Duration:    uc.meetingDuration,
	})
	if err != nil {
		// Release the claim so the hirer can retry
		if _, rbErr := uc.applicationRepo.UpdateStatusFrom(ctx, app.ID, domain.ApplicationStatusMeetingScheduled, domain.ApplicationStatusPending); rbErr != nil {
			slog.Error("Failed to release application after calendar error", "application_id", app.ID, "error", rbErr)
		}
		return nil, err
	}

	// 8. Persist a refreshed provider credential when one was issued
	if meeting.RefreshedCredential != nil {
		if err := uc.userRepo.UpdateCalendarTokens(ctx, hirerID, meeting.RefreshedCredential); err != nil {
			slog.Warn("Failed to persist refreshed calendar credential", "user_id", hirerID, "error", err)
		}
	}

	// 9. Record the interview
	iv := &domain.Interview{
		ApplicationID: app.ID,
		ScheduledTime: in.ScheduledTime,
		MeetLink:      meeting.MeetLink,
		GoogleEventID: meeting.EventID,
		Status:        domain.InterviewStatusScheduled,
		CreatedBy:     hirerID,
	}
	if err := uc.interviewRepo.Create(ctx, iv); err != nil {
		return nil, apperror.Internal(err)
	}

	// 10. Notify the applicant
	message := fmt.Sprintf("An interview for \"%s\" was scheduled on %s",
		derefOr(app.JobTitle, "your application"),
		in.ScheduledTime.Format("Jan 2, 2006 at 3:04 PM"),
	)
	uc.notifier.Notify(ctx, domain.Notification{
		RecipientID:   app.UserID,
		Message:       message,
		ApplicationID: &app.ID,
	}, "interview:scheduled", &domain.EmailMessage{
		To:      *app.ApplicantEmail,
		Subject: "Interview Scheduled",
		Body:    fmt.Sprintf("%s.\n\nJoin with this link: %s", message, meeting.MeetLink),
	})

	return iv, nil
}

func (uc *interviewUsecase) ListForUser(ctx context.Context, userID string) ([]domain.Interview, error) {
	return uc.interviewRepo.ListForUser(ctx, userID)
}

// Reschedule moves a scheduled interview to a new future time. Only the
// hirer who scheduled it may do so; the applicant is notified.
func (uc *interviewUsecase) Reschedule(ctx context.Context, userID string, interviewID int64, newTime time.Time) (*domain.Interview, error) {
	if !newTime.After(time.Now()) {
		return nil, apperror.BadRequest("Scheduled time must be in the future")
	}

	iv, err := uc.loadForCreator(ctx, userID, interviewID)
	if err != nil {
		return nil, err
	}
	if iv.Status != domain.InterviewStatusScheduled {
		return nil, apperror.InvalidState("Only a scheduled interview can be rescheduled")
	}

	if err := uc.interviewRepo.UpdateScheduledTime(ctx, interviewID, newTime); err != nil {
		return nil, apperror.Internal(err)
	}
	iv.ScheduledTime = newTime

	uc.notifyApplicant(ctx, iv, "interview:rescheduled",
		fmt.Sprintf("The interview for \"%s\" was moved to %s",
			derefOr(iv.JobTitle, "your application"),
			newTime.Format("Jan 2, 2006 at 3:04 PM"),
		), "Interview Rescheduled")

	return iv, nil
}

// Cancel ends a scheduled interview and returns the application to Pending.
// The interview belongs to the hirer who created it.
func (uc *interviewUsecase) Cancel(ctx context.Context, userID string, interviewID int64, reason string) error {
	if reason == "" {
		return apperror.BadRequest("A cancellation reason is required")
	}

	iv, err := uc.loadForCreator(ctx, userID, interviewID)
	if err != nil {
		return err
	}

	ok, err := uc.interviewRepo.UpdateStatusFrom(ctx, interviewID, domain.InterviewStatusScheduled, domain.InterviewStatusCancelled)
	if err != nil {
		return apperror.Internal(err)
	}
	if !ok {
		return apperror.InvalidState("Only a scheduled interview can be cancelled")
	}

	// The application goes back to the pool. A lost race here means the
	// sweeper or another actor already moved it on.
	moved, err := uc.applicationRepo.UpdateStatusFrom(ctx, iv.ApplicationID, domain.ApplicationStatusMeetingScheduled, domain.ApplicationStatusPending)
	if err != nil || !moved {
		slog.Warn("Application did not return to pending after interview cancellation",
			"application_id", iv.ApplicationID, "interview_id", interviewID, "error", err)
	}

	uc.notifyApplicant(ctx, iv, "interview:cancelled",
		fmt.Sprintf("The interview for \"%s\" was cancelled: %s", derefOr(iv.JobTitle, "your application"), reason),
		"Interview Cancelled")
	return nil
}

// SetOutcome records the hirer's verdict on a held interview. Completed
// advances the application to MeetingCompleted; Failed rejects it.
func (uc *interviewUsecase) SetOutcome(ctx context.Context, userID string, interviewID int64, outcome domain.InterviewStatus) error {
	if outcome != domain.InterviewStatusCompleted && outcome != domain.InterviewStatusFailed {
		return apperror.BadRequest("Outcome must be Completed or Failed")
	}

	iv, err := uc.interviewRepo.GetByID(ctx, interviewID)
	if err != nil {
		return apperror.NotFound("Interview not found")
	}
	if iv.CreatedBy != userID {
		return apperror.Forbidden("Only the hirer who scheduled the interview can record its outcome")
	}

	ok, err := uc.interviewRepo.UpdateStatusFrom(ctx, interviewID, domain.InterviewStatusScheduled, outcome)
	if err != nil {
		return apperror.Internal(err)
	}
	if !ok {
		return apperror.InvalidState("Interview is no longer awaiting an outcome")
	}

	appTarget := domain.ApplicationStatusMeetingCompleted
	event := "interview:completed"
	message := fmt.Sprintf("Your interview for \"%s\" was marked completed", derefOr(iv.JobTitle, "your application"))
	if outcome == domain.InterviewStatusFailed {
		appTarget = domain.ApplicationStatusRejected
		event = "interview:failed"
		message = fmt.Sprintf("Your application for \"%s\" was not successful after the interview", derefOr(iv.JobTitle, "the position"))
	}

	moved, err := uc.applicationRepo.UpdateStatusFrom(ctx, iv.ApplicationID, domain.ApplicationStatusMeetingScheduled, appTarget)
	if err != nil || !moved {
		slog.Warn("Application did not follow interview outcome",
			"application_id", iv.ApplicationID, "interview_id", interviewID, "outcome", outcome, "error", err)
	}

	if iv.ApplicantID != nil {
		var email *domain.EmailMessage
		if iv.ApplicantEmail != nil {
			email = &domain.EmailMessage{To: *iv.ApplicantEmail, Subject: "Interview Update", Body: message}
		}
		uc.notifier.Notify(ctx, domain.Notification{
			RecipientID:   *iv.ApplicantID,
			Message:       message,
			ApplicationID: &iv.ApplicationID,
		}, event, email)
	}
	uc.notifier.Notify(ctx, domain.Notification{
		RecipientID:   iv.CreatedBy,
		Message:       fmt.Sprintf("The interview for \"%s\" was marked %s", derefOr(iv.JobTitle, "an application"), outcome),
		ApplicationID: &iv.ApplicationID,
	}, event, nil)
	return nil
}

func (uc *interviewUsecase) loadForCreator(ctx context.Context, userID string, interviewID int64) (*domain.Interview, error) {
	iv, err := uc.interviewRepo.GetByID(ctx, interviewID)
	if err != nil {
		return nil, apperror.NotFound("Interview not found")
	}
	if iv.CreatedBy != userID {
		return nil, apperror.Forbidden("Only the hirer who scheduled the interview can change it")
	}
	return iv, nil
}

// notifyApplicant pushes an interview update to the applicant.
func (uc *interviewUsecase) notifyApplicant(ctx context.Context, iv *domain.Interview, event, message, subject string) {
	if iv.ApplicantID == nil {
		return
	}
	var email *domain.EmailMessage
	if iv.ApplicantEmail != nil {
		email = &domain.EmailMessage{To: *iv.ApplicantEmail, Subject: subject, Body: message}
	}
	uc.notifier.Notify(ctx, domain.Notification{
		RecipientID:   *iv.ApplicantID,
		Message:       message,
		ApplicationID: &iv.ApplicationID,
	}, event, email)
}
