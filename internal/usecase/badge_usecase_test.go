package usecase_test

import (
	"context"
	"testing"
	"time"

	"karya-backend/internal/domain"
	"karya-backend/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestRecalculateBadge(t *testing.T) {
	ctx := context.Background()

	t.Run("Freelancer with strong signals should reach gold", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		projectRepo := new(MockProjectRepo)
		paymentRepo := new(MockPaymentRepo)
		reviewRepo := new(MockReviewRepo)
		uc := usecase.NewBadgeUsecase(userRepo, projectRepo, paymentRepo, reviewRepo)

		deadline := time.Now().Add(24 * time.Hour)
		taskDeadline := time.Now().Add(12 * time.Hour)
		userRepo.On("GetByID", ctx, "user1").Return(&domain.User{
			ID: "user1", Role: domain.RoleFreelancer, IsProfileComplete: true,
		}, nil)
		projectRepo.On("CountByFreelancer", ctx, "user1").Return(int64(12), nil)
		projectRepo.On("ListCompletedByFreelancer", ctx, "user1").Return([]domain.Project{
			{ID: 1, Deadline: &deadline, Tasks: []domain.Task{
				{Status: domain.TaskStatusDone, Deadline: &taskDeadline, CreatedAt: taskDeadline.Add(-time.Hour)},
				{Status: domain.TaskStatusInProgress}, // no deadline, never late
			}},
		}, nil)
		reviewRepo.On("AverageRating", ctx, "user1").Return(4.8, int64(6), nil)
		userRepo.On("UpdateBadge", ctx, "user1", domain.BadgeGold).Return(nil)

		badge, err := uc.Recalculate(ctx, "user1")
		assert.NoError(t, err)
		assert.Equal(t, domain.BadgeGold, badge)
		userRepo.AssertCalled(t, "UpdateBadge", ctx, "user1", domain.BadgeGold)
	})

	t.Run("Work without deadlines counts as on time", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		projectRepo := new(MockProjectRepo)
		paymentRepo := new(MockPaymentRepo)
		reviewRepo := new(MockReviewRepo)
		uc := usecase.NewBadgeUsecase(userRepo, projectRepo, paymentRepo, reviewRepo)

		userRepo.On("GetByID", ctx, "user1").Return(&domain.User{
			ID: "user1", Role: domain.RoleFreelancer, IsProfileComplete: true,
		}, nil)
		projectRepo.On("CountByFreelancer", ctx, "user1").Return(int64(1), nil)
		projectRepo.On("ListCompletedByFreelancer", ctx, "user1").Return([]domain.Project{
			{ID: 1}, // no deadline anywhere
		}, nil)
		reviewRepo.On("AverageRating", ctx, "user1").Return(0.0, int64(0), nil)
		// profile 20 + projects 10 + on-time 1/1 = 20 -> 50, silver
		userRepo.On("UpdateBadge", ctx, "user1", domain.BadgeSilver).Return(nil)

		badge, err := uc.Recalculate(ctx, "user1")
		assert.NoError(t, err)
		assert.Equal(t, domain.BadgeSilver, badge)
	})

	t.Run("An unfinished deadlined task makes its project late", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		projectRepo := new(MockProjectRepo)
		paymentRepo := new(MockPaymentRepo)
		reviewRepo := new(MockReviewRepo)
		uc := usecase.NewBadgeUsecase(userRepo, projectRepo, paymentRepo, reviewRepo)

		deadline := time.Now().Add(24 * time.Hour)
		taskDeadline := time.Now().Add(12 * time.Hour)
		userRepo.On("GetByID", ctx, "user1").Return(&domain.User{
			ID: "user1", Role: domain.RoleFreelancer, IsProfileComplete: true,
		}, nil)
		projectRepo.On("CountByFreelancer", ctx, "user1").Return(int64(1), nil)
		projectRepo.On("ListCompletedByFreelancer", ctx, "user1").Return([]domain.Project{
			{ID: 1, Deadline: &deadline, Tasks: []domain.Task{
				{Status: domain.TaskStatusInProgress, Deadline: &taskDeadline, CreatedAt: taskDeadline.Add(-time.Hour)},
			}},
		}, nil)
		reviewRepo.On("AverageRating", ctx, "user1").Return(0.0, int64(0), nil)
		// profile 20 + projects 10 + on-time 0/1 = 0 -> 30, bronze
		userRepo.On("UpdateBadge", ctx, "user1", domain.BadgeBronze).Return(nil)

		badge, err := uc.Recalculate(ctx, "user1")
		assert.NoError(t, err)
		assert.Equal(t, domain.BadgeBronze, badge)
	})

	t.Run("Hirer timeliness comes from payment dates versus deadlines", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		projectRepo := new(MockProjectRepo)
		paymentRepo := new(MockPaymentRepo)
		reviewRepo := new(MockReviewRepo)
		uc := usecase.NewBadgeUsecase(userRepo, projectRepo, paymentRepo, reviewRepo)

		deadline := time.Now()
		userRepo.On("GetByID", ctx, "hirer1").Return(&domain.User{
			ID: "hirer1", Role: domain.RoleHirer, IsProfileComplete: true,
		}, nil)
		projectRepo.On("CountByHirer", ctx, "hirer1").Return(int64(2), nil)
		paymentRepo.On("ListCompletedTimelinessByHirer", ctx, "hirer1").Return([]domain.PaymentTimeliness{
			{PaymentCreatedAt: deadline.Add(-time.Hour), ProjectDeadline: &deadline},
			{PaymentCreatedAt: deadline.Add(time.Hour), ProjectDeadline: &deadline},
			// no deadline recorded, counts as on time
			{PaymentCreatedAt: deadline},
		}, nil)
		reviewRepo.On("AverageRating", ctx, "hirer1").Return(0.0, int64(0), nil)
		// profile 20 + projects 10 + on-time 2/3 = 10 -> 40, bronze
		userRepo.On("UpdateBadge", ctx, "hirer1", domain.BadgeBronze).Return(nil)

		badge, err := uc.Recalculate(ctx, "hirer1")
		assert.NoError(t, err)
		assert.Equal(t, domain.BadgeBronze, badge)
	})

	t.Run("A failing signal degrades to zero instead of failing the run", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		projectRepo := new(MockProjectRepo)
		paymentRepo := new(MockPaymentRepo)
		reviewRepo := new(MockReviewRepo)
		uc := usecase.NewBadgeUsecase(userRepo, projectRepo, paymentRepo, reviewRepo)

		userRepo.On("GetByID", ctx, "user1").Return(&domain.User{
			ID: "user1", Role: domain.RoleFreelancer, IsProfileComplete: true, Badge: domain.BadgeBronze,
		}, nil)
		projectRepo.On("CountByFreelancer", ctx, "user1").Return(int64(0), assert.AnError)
		projectRepo.On("ListCompletedByFreelancer", ctx, "user1").Return(nil, assert.AnError)
		reviewRepo.On("AverageRating", ctx, "user1").Return(0.0, int64(0), assert.AnError)

		badge, err := uc.Recalculate(ctx, "user1")
		assert.NoError(t, err)
		assert.Equal(t, domain.BadgeBronze, badge)
		// The tier did not change, so nothing is persisted.
		userRepo.AssertNotCalled(t, "UpdateBadge", mock.Anything, mock.Anything, mock.Anything)
	})
}
