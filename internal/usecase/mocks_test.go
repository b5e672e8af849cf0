package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"karya-backend/internal/domain"
	"karya-backend/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/oauth2"
)

// Mock Repositories

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

type MockJobRepo struct {
	mock.Mock
}

func (m *MockJobRepo) Create(ctx context.Context, job *domain.Job) error {
	return m.Called(ctx, job).Error(0)
}

func (m *MockJobRepo) GetByID(ctx context.Context, id int64) (*domain.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}

func (m *MockJobRepo) Fetch(ctx context.Context, limit, offset int) ([]domain.Job, int64, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Job), args.Get(1).(int64), args.Error(2)
}

func (m *MockJobRepo) FetchByHirer(ctx context.Context, hirerID string) ([]domain.Job, error) {
	args := m.Called(ctx, hirerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Job), args.Error(1)
}

func (m *MockJobRepo) Update(ctx context.Context, job *domain.Job) error {
	return m.Called(ctx, job).Error(0)
}

func (m *MockJobRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockJobRepo) Save(ctx context.Context, jobID int64, userID string) error {
	return m.Called(ctx, jobID, userID).Error(0)
}

func (m *MockJobRepo) Unsave(ctx context.Context, jobID int64, userID string) error {
	return m.Called(ctx, jobID, userID).Error(0)
}

func (m *MockJobRepo) FetchSavedByUser(ctx context.Context, userID string) ([]domain.Job, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Job), args.Error(1)
}

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) UpdateBadge(ctx context.Context, id string, badge string) error {
	return m.Called(ctx, id, badge).Error(0)
}

func (m *MockUserRepo) UpdateCalendarTokens(ctx context.Context, id string, tokens *oauth2.Token) error {
	return m.Called(ctx, id, tokens).Error(0)
}

func (m *MockUserRepo) UpdateKhaltiID(ctx context.Context, id string, khaltiID string) error {
	return m.Called(ctx, id, khaltiID).Error(0)
}

type MockProjectRepo struct {
	mock.Mock
}

func (m *MockProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProjectRepo) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectRepo) ListByHirer(ctx context.Context, hirerID string) ([]domain.Project, error) {
	args := m.Called(ctx, hirerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Project), args.Error(1)
}

func (m *MockProjectRepo) ListByFreelancer(ctx context.Context, freelancerID string) ([]domain.Project, error) {
	args := m.Called(ctx, freelancerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Project), args.Error(1)
}

func (m *MockProjectRepo) CountByHirer(ctx context.Context, hirerID string) (int64, error) {
	args := m.Called(ctx, hirerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProjectRepo) CountByFreelancer(ctx context.Context, freelancerID string) (int64, error) {
	args := m.Called(ctx, freelancerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProjectRepo) ListCompletedByFreelancer(ctx context.Context, freelancerID string) ([]domain.Project, error) {
	args := m.Called(ctx, freelancerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Project), args.Error(1)
}

func (m *MockProjectRepo) MarkCompleted(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockProjectRepo) AddTask(ctx context.Context, t *domain.Task) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockProjectRepo) GetTask(ctx context.Context, projectID, taskID int64) (*domain.Task, error) {
	args := m.Called(ctx, projectID, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockProjectRepo) UpdateTaskStatus(ctx context.Context, projectID, taskID int64, status domain.TaskStatus) error {
	return m.Called(ctx, projectID, taskID, status).Error(0)
}

func (m *MockProjectRepo) CompletionStats(ctx context.Context) (*domain.CompletionStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CompletionStats), args.Error(1)
}

type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPaymentRepo) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepo) SetTransactionID(ctx context.Context, id int64, transactionID string) error {
	return m.Called(ctx, id, transactionID).Error(0)
}

func (m *MockPaymentRepo) UpdateStatusFrom(ctx context.Context, id int64, from, to domain.PaymentStatus) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentRepo) ListByHirer(ctx context.Context, hirerID string) ([]domain.Payment, error) {
	args := m.Called(ctx, hirerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockPaymentRepo) ListByFreelancer(ctx context.Context, freelancerID string) ([]domain.Payment, error) {
	args := m.Called(ctx, freelancerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockPaymentRepo) ExistsCompletedForProject(ctx context.Context, projectID int64) (bool, error) {
	args := m.Called(ctx, projectID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentRepo) ListCompletedTimelinessByHirer(ctx context.Context, hirerID string) ([]domain.PaymentTimeliness, error) {
	args := m.Called(ctx, hirerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentTimeliness), args.Error(1)
}

type MockReviewRepo struct {
	mock.Mock
}

func (m *MockReviewRepo) Create(ctx context.Context, r *domain.Review) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockReviewRepo) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *MockReviewRepo) Exists(ctx context.Context, projectID int64, reviewerID, reviewedUserID string) (bool, error) {
	args := m.Called(ctx, projectID, reviewerID, reviewedUserID)
	return args.Bool(0), args.Error(1)
}

func (m *MockReviewRepo) ListByReviewedUser(ctx context.Context, userID string) ([]domain.Review, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *MockReviewRepo) AverageRating(ctx context.Context, userID string) (float64, int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(float64), args.Get(1).(int64), args.Error(2)
}

func (m *MockReviewRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// Mock Providers

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, n domain.Notification, event string, email *domain.EmailMessage) {
	m.Called(ctx, n, event, email)
}

type MockCalendar struct {
	mock.Mock
}

func (m *MockCalendar) ScheduleMeeting(ctx context.Context, credential *oauth2.Token, req domain.MeetingRequest) (*domain.MeetingResult, error) {
	args := m.Called(ctx, credential, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MeetingResult), args.Error(1)
}

type MockCardGateway struct {
	mock.Mock
}

func (m *MockCardGateway) CreateIntent(ctx context.Context, amountMinor int64, currency string, metadata map[string]string) (string, string, error) {
	args := m.Called(ctx, amountMinor, currency, metadata)
	return args.String(0), args.String(1), args.Error(2)
}

type MockWalletGateway struct {
	mock.Mock
}

func (m *MockWalletGateway) Initiate(ctx context.Context, req domain.WalletInitiateRequest) (*domain.WalletInitiateResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WalletInitiateResult), args.Error(1)
}

func (m *MockWalletGateway) Lookup(ctx context.Context, pidx string) (*domain.WalletLookupResult, error) {
	args := m.Called(ctx, pidx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WalletLookupResult), args.Error(1)
}

type MockBadge struct {
	mock.Mock
}

func (m *MockBadge) Recalculate(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func strptr(s string) *string { return &s }

// assertCode checks that err is an AppError carrying the expected HTTP code.
func assertCode(t *testing.T, err error, code int) {
	t.Helper()
	var appErr *apperror.AppError
	if assert.True(t, errors.As(err, &appErr), "expected an AppError, got %v", err) {
		assert.Equal(t, code, appErr.Code)
	}
}
