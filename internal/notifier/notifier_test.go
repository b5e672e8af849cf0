package notifier_test

import (
	"context"
	"testing"

	"karya-backend/internal/domain"
	"karya-backend/internal/notifier"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *MockNotificationRepo) ListForRecipient(ctx context.Context, userID string, readLimit int) ([]domain.Notification, error) {
	args := m.Called(ctx, userID, readLimit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *MockNotificationRepo) MarkRead(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(userID string, event string, payload any) {
	m.Called(userID, event, payload)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(to, subject, body string) error {
	return m.Called(to, subject, body).Error(0)
}

func TestDispatch(t *testing.T) {
	ctx := context.Background()
	n := domain.Notification{RecipientID: "user1", Message: "hello"}

	t.Run("Persists, pushes and mails", func(t *testing.T) {
		repo := new(MockNotificationRepo)
		pub := new(MockPublisher)
		mailer := new(MockMailer)
		d := notifier.NewDispatcher(repo, pub, mailer)

		repo.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil)
		pub.On("Publish", "user1", "application:created", mock.Anything).Return()
		mailer.On("Send", "sita@example.com", "Hi", "hello").Return(nil)

		d.Notify(ctx, n, "application:created", &domain.EmailMessage{To: "sita@example.com", Subject: "Hi", Body: "hello"})

		repo.AssertExpectations(t)
		pub.AssertExpectations(t)
		mailer.AssertExpectations(t)
	})

	t.Run("A persistence failure stops the fan-out", func(t *testing.T) {
		repo := new(MockNotificationRepo)
		pub := new(MockPublisher)
		mailer := new(MockMailer)
		d := notifier.NewDispatcher(repo, pub, mailer)

		repo.On("Create", ctx, mock.Anything).Return(assert.AnError)

		d.Notify(ctx, n, "application:created", &domain.EmailMessage{To: "sita@example.com"})

		pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
		mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("A mail failure is swallowed", func(t *testing.T) {
		repo := new(MockNotificationRepo)
		pub := new(MockPublisher)
		mailer := new(MockMailer)
		d := notifier.NewDispatcher(repo, pub, mailer)

		repo.On("Create", ctx, mock.Anything).Return(nil)
		pub.On("Publish", "user1", "application:created", mock.Anything).Return()
		mailer.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

		// Must not panic or propagate anything.
		d.Notify(ctx, n, "application:created", &domain.EmailMessage{To: "sita@example.com"})
	})

	t.Run("Nil channels are skipped", func(t *testing.T) {
		repo := new(MockNotificationRepo)
		d := notifier.NewDispatcher(repo, nil, nil)
		repo.On("Create", ctx, mock.Anything).Return(nil)

		d.Notify(ctx, n, "application:created", nil)
		repo.AssertExpectations(t)
	})
}
