package sweeper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"karya-backend/internal/domain"

	"github.com/robfig/cron/v3"
)

// Sweeper reconciles interviews whose meeting time has passed but whose
// outcome was never recorded: the interview is assumed held and moves to
// Completed, and its application follows to MeetingCompleted. Every write
// is conditional, so a user action landing mid-sweep wins.
type Sweeper struct {
	interviewRepo   domain.InterviewRepository
	applicationRepo domain.ApplicationRepository
	notifier        domain.Notifier
	interval        time.Duration
	meetingDuration time.Duration
	cron            *cron.Cron
}

func New(
	interviewRepo domain.InterviewRepository,
	applicationRepo domain.ApplicationRepository,
	notifier domain.Notifier,
	interval time.Duration,
	meetingDuration time.Duration,
) *Sweeper {
	return &Sweeper{
		interviewRepo:   interviewRepo,
		applicationRepo: applicationRepo,
		notifier:        notifier,
		interval:        interval,
		meetingDuration: meetingDuration,
	}
}

// Start schedules the periodic sweep. It returns immediately; jobs run on
// the cron's own goroutine.
func (s *Sweeper) Start() error {
	s.cron = cron.New()
	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		s.Sweep(ctx)
	}); err != nil {
		return err
	}
	s.cron.Start()
	slog.Info("Interview sweeper started", "interval", s.interval)
	return nil
}

// Stop waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

// Sweep advances every stale scheduled interview. One failing interview
// never stops the rest of the batch.
func (s *Sweeper) Sweep(ctx context.Context) {
	cutoff := time.Now().Add(-s.meetingDuration)
	stale, err := s.interviewRepo.FindStaleScheduled(ctx, cutoff)
	if err != nil {
		slog.Error("Interview sweep query failed", "error", err)
		return
	}
	if len(stale) == 0 {
		return
	}

	advanced := 0
	for i := range stale {
		if s.advance(ctx, &stale[i]) {
			advanced++
		}
	}
	slog.Info("Interview sweep finished", "stale", len(stale), "advanced", advanced)
}

func (s *Sweeper) advance(ctx context.Context, iv *domain.Interview) bool {
	ok, err := s.interviewRepo.UpdateStatusFrom(ctx, iv.ID, domain.InterviewStatusScheduled, domain.InterviewStatusCompleted)
	if err != nil {
		slog.Error("Failed to advance stale interview", "interview_id", iv.ID, "error", err)
		return false
	}
	if !ok {
		// Someone recorded an outcome between the query and the write.
		return false
	}

	moved, err := s.applicationRepo.UpdateStatusFrom(ctx, iv.ApplicationID, domain.ApplicationStatusMeetingScheduled, domain.ApplicationStatusMeetingCompleted)
	if err != nil {
		slog.Error("Failed to advance application after stale interview", "application_id", iv.ApplicationID, "error", err)
	} else if !moved {
		slog.Warn("Application left MeetingScheduled before sweep", "application_id", iv.ApplicationID, "interview_id", iv.ID)
	}

	message := fmt.Sprintf("The interview for \"%s\" was marked completed", derefOr(iv.JobTitle, "an application"))
	if iv.ApplicantID != nil {
		s.notifier.Notify(ctx, domain.Notification{
			RecipientID:   *iv.ApplicantID,
			Message:       message,
			ApplicationID: &iv.ApplicationID,
		}, "interview:completed", nil)
	}
	s.notifier.Notify(ctx, domain.Notification{
		RecipientID:   iv.CreatedBy,
		Message:       message + "; record the outcome or confirm the hire",
		ApplicationID: &iv.ApplicationID,
	}, "interview:completed", nil)
	return true
}

func derefOr(s *string, fallback string) string {
	if s != nil && *s != "" {
		return *s
	}
	return fallback
}
