package sweeper_test

import (
	"context"
	"testing"
	"time"

	"karya-backend/internal/domain"
	"karya-backend/internal/sweeper"

	"github.com/stretchr/testify/mock"
)

type MockInterviewRepo struct {
	mock.Mock
}

func (m *MockInterviewRepo) Create(ctx context.Context, iv *domain.Interview) error {
	return m.Called(ctx, iv).Error(0)
}

func (m *MockInterviewRepo) GetByID(ctx context.Context, id int64) (*domain.Interview, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Interview), args.Error(1)
}

func (m *MockInterviewRepo) ListForUser(ctx context.Context, userID string) ([]domain.Interview, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Interview), args.Error(1)
}

func (m *MockInterviewRepo) GetCompletedByApplication(ctx context.Context, applicationID int64) (*domain.Interview, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Interview), args.Error(1)
}

func (m *MockInterviewRepo) HasActive(ctx context.Context, applicationID int64) (bool, error) {
	args := m.Called(ctx, applicationID)
	return args.Bool(0), args.Error(1)
}

func (m *MockInterviewRepo) UpdateScheduledTime(ctx context.Context, id int64, t time.Time) error {
	return m.Called(ctx, id, t).Error(0)
}

func (m *MockInterviewRepo) UpdateStatusFrom(ctx context.Context, id int64, from, to domain.InterviewStatus) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockInterviewRepo) MarkProjectCreated(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockInterviewRepo) FindStaleScheduled(ctx context.Context, before time.Time) ([]domain.Interview, error) {
	args := m.Called(ctx, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Interview), args.Error(1)
}

type MockApplicationRepo struct {
	mock.Mock
}

func (m *MockApplicationRepo) Create(ctx context.Context, app *domain.Application) error {
	return m.Called(ctx, app).Error(0)
}

func (m *MockApplicationRepo) GetByID(ctx context.Context, id int64) (*domain.Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockApplicationRepo) ListByHirer(ctx context.Context, hirerID string) ([]domain.Application, error) {
	args := m.Called(ctx, hirerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Application), args.Error(1)
}

func (m *MockApplicationRepo) ListByHirerAndStatus(ctx context.Context, hirerID string, status domain.ApplicationStatus) ([]domain.Application, error) {
	args := m.Called(ctx, hirerID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Application), args.Error(1)
}

func (m *MockApplicationRepo) ListByApplicant(ctx context.Context, userID string) ([]domain.Application, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Application), args.Error(1)
}

func (m *MockApplicationRepo) CheckExists(ctx context.Context, jobID int64, userID string) (bool, error) {
	args := m.Called(ctx, jobID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockApplicationRepo) UpdateStatusFrom(ctx context.Context, id int64, from, to domain.ApplicationStatus) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, n domain.Notification, event string, email *domain.EmailMessage) {
	m.Called(ctx, n, event, email)
}

func strptr(s string) *string { return &s }

func TestSweep(t *testing.T) {
	ctx := context.Background()

	t.Run("Stale interviews are assumed held and advanced", func(t *testing.T) {
		ivRepo := new(MockInterviewRepo)
		appRepo := new(MockApplicationRepo)
		notifier := new(MockNotifier)
		s := sweeper.New(ivRepo, appRepo, notifier, 15*time.Minute, time.Hour)

		ivRepo.On("FindStaleScheduled", ctx, mock.AnythingOfType("time.Time")).Return([]domain.Interview{
			{ID: 9, ApplicationID: 5, CreatedBy: "hirer1", ApplicantID: strptr("user1"), JobTitle: strptr("Logo design")},
		}, nil)
		ivRepo.On("UpdateStatusFrom", ctx, int64(9), domain.InterviewStatusScheduled, domain.InterviewStatusCompleted).Return(true, nil)
		appRepo.On("UpdateStatusFrom", ctx, int64(5), domain.ApplicationStatusMeetingScheduled, domain.ApplicationStatusMeetingCompleted).Return(true, nil)
		notifier.On("Notify", ctx, mock.Anything, "interview:completed", mock.Anything).Return()

		s.Sweep(ctx)

		// Both the applicant and the hirer hear about the advance.
		notifier.AssertNumberOfCalls(t, "Notify", 2)
		notifier.AssertCalled(t, "Notify", ctx, mock.MatchedBy(func(n domain.Notification) bool {
			return n.RecipientID == "hirer1"
		}), "interview:completed", mock.Anything)
	})

	t.Run("A user action landing mid-sweep wins", func(t *testing.T) {
		ivRepo := new(MockInterviewRepo)
		appRepo := new(MockApplicationRepo)
		notifier := new(MockNotifier)
		s := sweeper.New(ivRepo, appRepo, notifier, 15*time.Minute, time.Hour)

		ivRepo.On("FindStaleScheduled", ctx, mock.AnythingOfType("time.Time")).Return([]domain.Interview{
			{ID: 9, ApplicationID: 5, CreatedBy: "hirer1"},
		}, nil)
		ivRepo.On("UpdateStatusFrom", ctx, int64(9), domain.InterviewStatusScheduled, domain.InterviewStatusCompleted).Return(false, nil)

		s.Sweep(ctx)

		appRepo.AssertNotCalled(t, "UpdateStatusFrom", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("The cutoff trails now by the meeting duration", func(t *testing.T) {
		ivRepo := new(MockInterviewRepo)
		appRepo := new(MockApplicationRepo)
		notifier := new(MockNotifier)
		s := sweeper.New(ivRepo, appRepo, notifier, 15*time.Minute, time.Hour)

		ivRepo.On("FindStaleScheduled", ctx, mock.MatchedBy(func(cutoff time.Time) bool {
			lag := time.Since(cutoff)
			return lag >= time.Hour && lag < time.Hour+time.Minute
		})).Return([]domain.Interview{}, nil)

		s.Sweep(ctx)
		ivRepo.AssertExpectations(t)
	})
}
