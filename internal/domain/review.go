package domain

import (
	"context"
	"errors"
	"time"
)

// ErrDuplicateReview marks a second review for the same (project, reviewer,
// reviewed user) triple.
var ErrDuplicateReview = errors.New("review already exists for this project and user pair")

// Review is one rating from one party of a completed, paid project to the
// other. At most one review per (project, reviewer, reviewed user) triple.
type Review struct {
	ID             int64     `json:"id"`
	ProjectID      int64     `json:"project_id"`
	PaymentID      int64     `json:"payment_id"`
	ReviewerID     string    `json:"reviewer_id"`
	ReviewedUserID string    `json:"reviewed_user_id"`
	Rating         int       `json:"rating"`
	Comment        *string   `json:"comment,omitempty"`
	CreatedAt      time.Time `json:"created_at"`

	// Joined data for list responses
	ReviewerName *string `json:"reviewer_name,omitempty"`
	ReviewerRole *string `json:"reviewer_role,omitempty"`
	ProjectTitle *string `json:"project_title,omitempty"`
}

type ReviewInput struct {
	ProjectID      int64  `json:"project_id" validate:"required"`
	PaymentID      int64  `json:"payment_id" validate:"required"`
	ReviewedUserID string `json:"reviewed_user_id" validate:"required"`
	Rating         int    `json:"rating" validate:"required,min=1,max=5"`
	Comment        string `json:"comment"`
}

type ReviewRepository interface {
	Create(ctx context.Context, r *Review) error
	GetByID(ctx context.Context, id int64) (*Review, error)
	Exists(ctx context.Context, projectID int64, reviewerID, reviewedUserID string) (bool, error)
	ListByReviewedUser(ctx context.Context, userID string) ([]Review, error)
	// AverageRating returns the mean rating and review count for a user.
	AverageRating(ctx context.Context, userID string) (float64, int64, error)
	Delete(ctx context.Context, id int64) error
}

type ReviewUsecase interface {
	Create(ctx context.Context, reviewerID string, in ReviewInput) (*Review, error)
	Get(ctx context.Context, id int64) (*Review, error)
	ListForUser(ctx context.Context, userID string) ([]Review, error)
	Delete(ctx context.Context, userID, role string, id int64) error
}
