package usecase

import (
	"context"

	"karya-backend/internal/domain"
	"karya-backend/pkg/apperror"
)

// readHistoryLimit caps how many already-read notifications the feed keeps
// alongside the full unread set.
const readHistoryLimit = 10

type notificationUsecase struct {
	notificationRepo domain.NotificationRepository
}

func NewNotificationUsecase(notificationRepo domain.NotificationRepository) domain.NotificationUsecase {
	return &notificationUsecase{notificationRepo: notificationRepo}
}

func (uc *notificationUsecase) ListForUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	return uc.notificationRepo.ListForRecipient(ctx, userID, readHistoryLimit)
}

func (uc *notificationUsecase) MarkRead(ctx context.Context, id int64) error {
	if err := uc.notificationRepo.MarkRead(ctx, id); err != nil {
		return apperror.NotFound("Notification not found")
	}
	return nil
}
