package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"karya-backend/internal/domain"
	"karya-backend/pkg/apperror"
)

type reviewUsecase struct {
	reviewRepo  domain.ReviewRepository
	projectRepo domain.ProjectRepository
	paymentRepo domain.PaymentRepository
	badge       domain.BadgeUsecase
	notifier    domain.Notifier
}

func NewReviewUsecase(
	reviewRepo domain.ReviewRepository,
	projectRepo domain.ProjectRepository,
	paymentRepo domain.PaymentRepository,
	badge domain.BadgeUsecase,
	notifier domain.Notifier,
) domain.ReviewUsecase {
	return &reviewUsecase{
		reviewRepo:  reviewRepo,
		projectRepo: projectRepo,
		paymentRepo: paymentRepo,
		badge:       badge,
		notifier:    notifier,
	}
}

// Create records one cross-party review on a completed, paid project and
// refreshes the reviewed user's badge.
func (uc *reviewUsecase) Create(ctx context.Context, reviewerID string, in domain.ReviewInput) (*domain.Review, error) {
	// 1. Reviews always go to the other party
	if reviewerID == in.ReviewedUserID {
		return nil, apperror.BadRequest("You cannot review yourself")
	}

	// 2. The project must exist and be completed
	project, err := uc.projectRepo.GetByID(ctx, in.ProjectID)
	if err != nil {
		return nil, apperror.NotFound("Project not found")
	}
	if project.Status != domain.ProjectStatusCompleted {
		return nil, apperror.InvalidState("Reviews open once the project is completed")
	}

	// 3. Reviewer and reviewed must be the project's two parties
	if reviewerID != project.HirerID && reviewerID != project.FreelancerID {
		return nil, apperror.Forbidden("You are not a participant of this project")
	}
	expectedReviewed := project.FreelancerID
	if reviewerID == project.FreelancerID {
		expectedReviewed = project.HirerID
	}
	if in.ReviewedUserID != expectedReviewed {
		return nil, apperror.BadRequest("Reviews must be about the other party of the project")
	}

	// 4. The referenced payment must be the completed one for this project
	payment, err := uc.paymentRepo.GetByID(ctx, in.PaymentID)
	if err != nil {
		return nil, apperror.NotFound("Payment not found")
	}
	if payment.ProjectID != project.ID {
		return nil, apperror.BadRequest("Payment does not belong to this project")
	}
	if payment.Status != domain.PaymentStatusCompleted {
		return nil, apperror.InvalidState("Reviews open once the payment is completed")
	}

	// 5. One review per direction per project
	exists, err := uc.reviewRepo.Exists(ctx, project.ID, reviewerID, in.ReviewedUserID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if exists {
		return nil, apperror.Conflict("You have already reviewed this project")
	}

	var comment *string
	if in.Comment != "" {
		comment = &in.Comment
	}
	review := &domain.Review{
		ProjectID:      project.ID,
		PaymentID:      payment.ID,
		ReviewerID:     reviewerID,
		ReviewedUserID: in.ReviewedUserID,
		Rating:         in.Rating,
		Comment:        comment,
	}
	if err := uc.reviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, domain.ErrDuplicateReview) {
			return nil, apperror.Conflict("You have already reviewed this project")
		}
		return nil, apperror.Internal(err)
	}

	// 6. The rating signal changed; refresh the badge
	uc.recalcBadge(ctx, in.ReviewedUserID)

	uc.notifier.Notify(ctx, domain.Notification{
		RecipientID: in.ReviewedUserID,
		Message:     fmt.Sprintf("You received a %d-star review on \"%s\"", in.Rating, project.Title),
		ProjectID:   &project.ID,
	}, "review:created", nil)

	return review, nil
}

func (uc *reviewUsecase) Get(ctx context.Context, id int64) (*domain.Review, error) {
	review, err := uc.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NotFound("Review not found")
	}
	return review, nil
}

func (uc *reviewUsecase) ListForUser(ctx context.Context, userID string) ([]domain.Review, error) {
	return uc.reviewRepo.ListByReviewedUser(ctx, userID)
}

// Delete removes a review; the author or an admin may do it. The reviewed
// user's badge is refreshed since their rating signal changed.
func (uc *reviewUsecase) Delete(ctx context.Context, userID, role string, id int64) error {
	review, err := uc.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return apperror.NotFound("Review not found")
	}
	if review.ReviewerID != userID && role != domain.RoleAdmin {
		return apperror.Forbidden("You can only delete your own reviews")
	}

	if err := uc.reviewRepo.Delete(ctx, id); err != nil {
		return apperror.Internal(err)
	}

	uc.recalcBadge(ctx, review.ReviewedUserID)
	return nil
}

func (uc *reviewUsecase) recalcBadge(ctx context.Context, userID string) {
	if _, err := uc.badge.Recalculate(ctx, userID); err != nil {
		slog.Warn("Badge recalculation failed after review change", "user_id", userID, "error", err)
	}
}
