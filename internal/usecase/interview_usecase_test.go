package usecase_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"karya-backend/internal/domain"
	"karya-backend/internal/usecase"
	"karya-backend/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/oauth2"
)

func newInterviewFixture() (*MockInterviewRepo, *MockApplicationRepo, *MockUserRepo, *MockCalendar, *MockNotifier, domain.InterviewUsecase) {
	ivRepo := new(MockInterviewRepo)
	appRepo := new(MockApplicationRepo)
	userRepo := new(MockUserRepo)
	calendar := new(MockCalendar)
	notifier := new(MockNotifier)
	uc := usecase.NewInterviewUsecase(ivRepo, appRepo, userRepo, calendar, notifier, time.Hour, 15*time.Second)
	return ivRepo, appRepo, userRepo, calendar, notifier, uc
}

func pendingApplication() *domain.Application {
	return &domain.Application{
		ID:             5,
		UserID:         "user1",
		Status:         domain.ApplicationStatusPending,
		HirerID:        strptr("hirer1"),
		ApplicantEmail: strptr("sita@example.com"),
		ApplicantName:  strptr("Sita"),
		JobTitle:       strptr("Logo design"),
	}
}

func TestScheduleInterview(t *testing.T) {
	ctx := context.Background()
	future := time.Now().Add(24 * time.Hour)

	t.Run("Should require a future time", func(t *testing.T) {
		_, _, _, _, _, uc := newInterviewFixture()
		_, err := uc.Schedule(ctx, "hirer1", domain.ScheduleInterviewInput{
			ApplicationID: 5, ScheduledTime: time.Now().Add(-time.Hour),
		})
		assertCode(t, err, http.StatusBadRequest)
	})

	t.Run("Should refuse a scheduler who does not own the job", func(t *testing.T) {
		ivRepo, appRepo, _, _, _, uc := newInterviewFixture()
		appRepo.On("GetByID", ctx, int64(5)).Return(pendingApplication(), nil)

		_, err := uc.Schedule(ctx, "user1", domain.ScheduleInterviewInput{ApplicationID: 5, ScheduledTime: future})
		assertCode(t, err, http.StatusForbidden)
		ivRepo.AssertNotCalled(t, "HasActive", mock.Anything, mock.Anything)
		appRepo.AssertNotCalled(t, "UpdateStatusFrom", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should require a pending application", func(t *testing.T) {
		_, appRepo, _, _, _, uc := newInterviewFixture()
		app := pendingApplication()
		app.Status = domain.ApplicationStatusMeetingScheduled
		appRepo.On("GetByID", ctx, int64(5)).Return(app, nil)

		_, err := uc.Schedule(ctx, "hirer1", domain.ScheduleInterviewInput{ApplicationID: 5, ScheduledTime: future})
		assertCode(t, err, http.StatusUnprocessableEntity)
	})

	t.Run("Should refuse a second active interview", func(t *testing.T) {
		ivRepo, appRepo, _, _, _, uc := newInterviewFixture()
		appRepo.On("GetByID", ctx, int64(5)).Return(pendingApplication(), nil)
		ivRepo.On("HasActive", ctx, int64(5)).Return(true, nil)

		_, err := uc.Schedule(ctx, "hirer1", domain.ScheduleInterviewInput{ApplicationID: 5, ScheduledTime: future})
		assertCode(t, err, http.StatusUnprocessableEntity)
	})

	t.Run("Should require a connected calendar account", func(t *testing.T) {
		ivRepo, appRepo, userRepo, _, _, uc := newInterviewFixture()
		appRepo.On("GetByID", ctx, int64(5)).Return(pendingApplication(), nil)
		ivRepo.On("HasActive", ctx, int64(5)).Return(false, nil)
		userRepo.On("GetByID", ctx, "hirer1").Return(&domain.User{ID: "hirer1", Email: "hirer@example.com"}, nil)

		_, err := uc.Schedule(ctx, "hirer1", domain.ScheduleInterviewInput{ApplicationID: 5, ScheduledTime: future})
		assertCode(t, err, http.StatusUnauthorized)
	})

	t.Run("Should release the claim when the calendar call fails", func(t *testing.T) {
		ivRepo, appRepo, userRepo, calendar, _, uc := newInterviewFixture()
		appRepo.On("GetByID", ctx, int64(5)).Return(pendingApplication(), nil)
		ivRepo.On("HasActive", ctx, int64(5)).Return(false, nil)
		userRepo.On("GetByID", ctx, "hirer1").Return(&domain.User{
			ID: "hirer1", Email: "hirer@example.com",
			GoogleTokens: &oauth2.Token{RefreshToken: "rt"},
		}, nil)
		appRepo.On("UpdateStatusFrom", ctx, int64(5), domain.ApplicationStatusPending, domain.ApplicationStatusMeetingScheduled).Return(true, nil)
		calendar.On("ScheduleMeeting", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, apperror.ExternalProvider("Calendar service unavailable", nil))
		appRepo.On("UpdateStatusFrom", ctx, int64(5), domain.ApplicationStatusMeetingScheduled, domain.ApplicationStatusPending).Return(true, nil)

		_, err := uc.Schedule(ctx, "hirer1", domain.ScheduleInterviewInput{ApplicationID: 5, ScheduledTime: future})
		assertCode(t, err, http.StatusBadGateway)
		appRepo.AssertCalled(t, "UpdateStatusFrom", ctx, int64(5), domain.ApplicationStatusMeetingScheduled, domain.ApplicationStatusPending)
		ivRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Should schedule, persist the interview and notify the applicant", func(t *testing.T) {
		ivRepo, appRepo, userRepo, calendar, notifier, uc := newInterviewFixture()
		appRepo.On("GetByID", ctx, int64(5)).Return(pendingApplication(), nil)
		ivRepo.On("HasActive", ctx, int64(5)).Return(false, nil)
		userRepo.On("GetByID", ctx, "hirer1").Return(&domain.User{
			ID: "hirer1", Email: "hirer@example.com",
			GoogleTokens: &oauth2.Token{RefreshToken: "rt"},
		}, nil)
		appRepo.On("UpdateStatusFrom", ctx, int64(5), domain.ApplicationStatusPending, domain.ApplicationStatusMeetingScheduled).Return(true, nil)
		calendar.On("ScheduleMeeting", mock.Anything, mock.Anything, mock.MatchedBy(func(req domain.MeetingRequest) bool {
			return req.Attendee == "sita@example.com" && req.Organizer == "hirer@example.com"
		})).Return(&domain.MeetingResult{MeetLink: "https://meet.example/abc", EventID: "evt1"}, nil)
		ivRepo.On("Create", ctx, mock.AnythingOfType("*domain.Interview")).Return(nil)
		notifier.On("Notify", ctx, mock.Anything, "interview:scheduled", mock.Anything).Return()

		iv, err := uc.Schedule(ctx, "hirer1", domain.ScheduleInterviewInput{ApplicationID: 5, ScheduledTime: future})
		assert.NoError(t, err)
		assert.Equal(t, "https://meet.example/abc", iv.MeetLink)
		assert.Equal(t, domain.InterviewStatusScheduled, iv.Status)
		userRepo.AssertNotCalled(t, "UpdateCalendarTokens", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should persist a refreshed calendar credential", func(t *testing.T) {
		ivRepo, appRepo, userRepo, calendar, notifier, uc := newInterviewFixture()
		refreshed := &oauth2.Token{AccessToken: "new", RefreshToken: "rt"}
		appRepo.On("GetByID", ctx, int64(5)).Return(pendingApplication(), nil)
		ivRepo.On("HasActive", ctx, int64(5)).Return(false, nil)
		userRepo.On("GetByID", ctx, "hirer1").Return(&domain.User{
			ID: "hirer1", Email: "hirer@example.com",
			GoogleTokens: &oauth2.Token{RefreshToken: "rt"},
		}, nil)
		appRepo.On("UpdateStatusFrom", ctx, int64(5), domain.ApplicationStatusPending, domain.ApplicationStatusMeetingScheduled).Return(true, nil)
		calendar.On("ScheduleMeeting", mock.Anything, mock.Anything, mock.Anything).
			Return(&domain.MeetingResult{MeetLink: "https://meet.example/abc", EventID: "evt1", RefreshedCredential: refreshed}, nil)
		userRepo.On("UpdateCalendarTokens", ctx, "hirer1", refreshed).Return(nil)
		ivRepo.On("Create", ctx, mock.AnythingOfType("*domain.Interview")).Return(nil)
		notifier.On("Notify", ctx, mock.Anything, "interview:scheduled", mock.Anything).Return()

		_, err := uc.Schedule(ctx, "hirer1", domain.ScheduleInterviewInput{ApplicationID: 5, ScheduledTime: future})
		assert.NoError(t, err)
		userRepo.AssertCalled(t, "UpdateCalendarTokens", ctx, "hirer1", refreshed)
	})
}

func TestCancelInterview(t *testing.T) {
	ctx := context.Background()

	t.Run("Should require a reason", func(t *testing.T) {
		_, _, _, _, _, uc := newInterviewFixture()
		err := uc.Cancel(ctx, "hirer1", 9, "")
		assertCode(t, err, http.StatusBadRequest)
	})

	t.Run("Should refuse anyone but the scheduling hirer", func(t *testing.T) {
		ivRepo, appRepo, _, _, notifier, uc := newInterviewFixture()
		ivRepo.On("GetByID", ctx, int64(9)).Return(&domain.Interview{
			ID: 9, ApplicationID: 5, Status: domain.InterviewStatusScheduled,
			CreatedBy: "hirer1", ApplicantID: strptr("user1"),
		}, nil)

		// The applicant is a participant but does not own the interview.
		err := uc.Cancel(ctx, "user1", 9, "changed plans")
		assertCode(t, err, http.StatusForbidden)
		ivRepo.AssertNotCalled(t, "UpdateStatusFrom", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		appRepo.AssertNotCalled(t, "UpdateStatusFrom", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should cancel and return the application to pending", func(t *testing.T) {
		ivRepo, appRepo, _, _, notifier, uc := newInterviewFixture()
		ivRepo.On("GetByID", ctx, int64(9)).Return(&domain.Interview{
			ID: 9, ApplicationID: 5, Status: domain.InterviewStatusScheduled,
			CreatedBy: "hirer1", ApplicantID: strptr("user1"), ApplicantEmail: strptr("sita@example.com"),
		}, nil)
		ivRepo.On("UpdateStatusFrom", ctx, int64(9), domain.InterviewStatusScheduled, domain.InterviewStatusCancelled).Return(true, nil)
		appRepo.On("UpdateStatusFrom", ctx, int64(5), domain.ApplicationStatusMeetingScheduled, domain.ApplicationStatusPending).Return(true, nil)
		notifier.On("Notify", ctx, mock.MatchedBy(func(n domain.Notification) bool {
			return n.RecipientID == "user1"
		}), "interview:cancelled", mock.Anything).Return()

		err := uc.Cancel(ctx, "hirer1", 9, "changed plans")
		assert.NoError(t, err)
		appRepo.AssertCalled(t, "UpdateStatusFrom", ctx, int64(5), domain.ApplicationStatusMeetingScheduled, domain.ApplicationStatusPending)
	})

	t.Run("Should fail on an interview that is no longer scheduled", func(t *testing.T) {
		ivRepo, _, _, _, _, uc := newInterviewFixture()
		ivRepo.On("GetByID", ctx, int64(9)).Return(&domain.Interview{
			ID: 9, ApplicationID: 5, Status: domain.InterviewStatusCompleted, CreatedBy: "hirer1",
		}, nil)
		ivRepo.On("UpdateStatusFrom", ctx, int64(9), domain.InterviewStatusScheduled, domain.InterviewStatusCancelled).Return(false, nil)

		err := uc.Cancel(ctx, "hirer1", 9, "changed plans")
		assertCode(t, err, http.StatusUnprocessableEntity)
	})
}

func TestRescheduleInterview(t *testing.T) {
	ctx := context.Background()
	future := time.Now().Add(48 * time.Hour)

	t.Run("Should refuse anyone but the scheduling hirer", func(t *testing.T) {
		ivRepo, _, _, _, _, uc := newInterviewFixture()
		ivRepo.On("GetByID", ctx, int64(9)).Return(&domain.Interview{
			ID: 9, ApplicationID: 5, Status: domain.InterviewStatusScheduled,
			CreatedBy: "hirer1", ApplicantID: strptr("user1"),
		}, nil)

		_, err := uc.Reschedule(ctx, "user1", 9, future)
		assertCode(t, err, http.StatusForbidden)
		ivRepo.AssertNotCalled(t, "UpdateScheduledTime", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should move the meeting and notify the applicant", func(t *testing.T) {
		ivRepo, _, _, _, notifier, uc := newInterviewFixture()
		ivRepo.On("GetByID", ctx, int64(9)).Return(&domain.Interview{
			ID: 9, ApplicationID: 5, Status: domain.InterviewStatusScheduled,
			CreatedBy: "hirer1", ApplicantID: strptr("user1"), ApplicantEmail: strptr("sita@example.com"),
		}, nil)
		ivRepo.On("UpdateScheduledTime", ctx, int64(9), future).Return(nil)
		notifier.On("Notify", ctx, mock.MatchedBy(func(n domain.Notification) bool {
			return n.RecipientID == "user1"
		}), "interview:rescheduled", mock.Anything).Return()

		iv, err := uc.Reschedule(ctx, "hirer1", 9, future)
		assert.NoError(t, err)
		assert.Equal(t, future, iv.ScheduledTime)
		notifier.AssertExpectations(t)
	})
}

func TestSetOutcome(t *testing.T) {
	ctx := context.Background()

	t.Run("Should only accept Completed or Failed", func(t *testing.T) {
		_, _, _, _, _, uc := newInterviewFixture()
		err := uc.SetOutcome(ctx, "hirer1", 9, domain.InterviewStatusCancelled)
		assertCode(t, err, http.StatusBadRequest)
	})

	t.Run("Should only allow the scheduling hirer", func(t *testing.T) {
		ivRepo, _, _, _, _, uc := newInterviewFixture()
		ivRepo.On("GetByID", ctx, int64(9)).Return(&domain.Interview{ID: 9, CreatedBy: "hirer1"}, nil)

		err := uc.SetOutcome(ctx, "user1", 9, domain.InterviewStatusCompleted)
		assertCode(t, err, http.StatusForbidden)
	})

	t.Run("Completed outcome should advance the application and notify both sides", func(t *testing.T) {
		ivRepo, appRepo, _, _, notifier, uc := newInterviewFixture()
		ivRepo.On("GetByID", ctx, int64(9)).Return(&domain.Interview{
			ID: 9, ApplicationID: 5, CreatedBy: "hirer1",
			ApplicantID: strptr("user1"), ApplicantEmail: strptr("sita@example.com"),
		}, nil)
		ivRepo.On("UpdateStatusFrom", ctx, int64(9), domain.InterviewStatusScheduled, domain.InterviewStatusCompleted).Return(true, nil)
		appRepo.On("UpdateStatusFrom", ctx, int64(5), domain.ApplicationStatusMeetingScheduled, domain.ApplicationStatusMeetingCompleted).Return(true, nil)
		notifier.On("Notify", ctx, mock.MatchedBy(func(n domain.Notification) bool {
			return n.RecipientID == "user1"
		}), "interview:completed", mock.Anything).Return()
		notifier.On("Notify", ctx, mock.MatchedBy(func(n domain.Notification) bool {
			return n.RecipientID == "hirer1"
		}), "interview:completed", mock.Anything).Return()

		err := uc.SetOutcome(ctx, "hirer1", 9, domain.InterviewStatusCompleted)
		assert.NoError(t, err)
		notifier.AssertExpectations(t)
	})

	t.Run("Failed outcome should reject the application", func(t *testing.T) {
		ivRepo, appRepo, _, _, notifier, uc := newInterviewFixture()
		ivRepo.On("GetByID", ctx, int64(9)).Return(&domain.Interview{
			ID: 9, ApplicationID: 5, CreatedBy: "hirer1", ApplicantID: strptr("user1"),
		}, nil)
		ivRepo.On("UpdateStatusFrom", ctx, int64(9), domain.InterviewStatusScheduled, domain.InterviewStatusFailed).Return(true, nil)
		appRepo.On("UpdateStatusFrom", ctx, int64(5), domain.ApplicationStatusMeetingScheduled, domain.ApplicationStatusRejected).Return(true, nil)
		notifier.On("Notify", ctx, mock.Anything, "interview:failed", mock.Anything).Return()

		err := uc.SetOutcome(ctx, "hirer1", 9, domain.InterviewStatusFailed)
		assert.NoError(t, err)
	})
}
