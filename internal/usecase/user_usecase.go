package usecase

import (
	"context"
	"log/slog"

	"karya-backend/internal/domain"
	"karya-backend/pkg/apperror"

	"golang.org/x/oauth2"
)

type userUsecase struct {
	userRepo   domain.UserRepository
	reviewRepo domain.ReviewRepository
	badge      domain.BadgeUsecase
}

func NewUserUsecase(
	userRepo domain.UserRepository,
	reviewRepo domain.ReviewRepository,
	badge domain.BadgeUsecase,
) domain.UserUsecase {
	return &userUsecase{
		userRepo:   userRepo,
		reviewRepo: reviewRepo,
		badge:      badge,
	}
}

// GetProfile returns the user with a freshly recalculated badge and the
// reviews written about them.
func (uc *userUsecase) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.NotFound("User not found")
	}

	// Badges are recomputed on read rather than incrementally maintained.
	if badge, err := uc.badge.Recalculate(ctx, userID); err != nil {
		slog.Warn("Badge recalculation failed on profile fetch", "user_id", userID, "error", err)
	} else {
		user.Badge = badge
	}

	reviews, err := uc.reviewRepo.ListByReviewedUser(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	return &domain.UserProfile{
		User:    user,
		Reviews: reviews,
	}, nil
}

func (uc *userUsecase) SaveCalendarCredential(ctx context.Context, userID string, tokens *oauth2.Token) error {
	if tokens == nil || tokens.RefreshToken == "" {
		return apperror.BadRequest("A refresh token is required to connect the calendar account")
	}
	if err := uc.userRepo.UpdateCalendarTokens(ctx, userID, tokens); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (uc *userUsecase) SaveKhaltiID(ctx context.Context, userID string, khaltiID string) error {
	if khaltiID == "" {
		return apperror.BadRequest("Wallet id is required")
	}
	if err := uc.userRepo.UpdateKhaltiID(ctx, userID, khaltiID); err != nil {
		return apperror.Internal(err)
	}
	return nil
}
