package domain

import (
	"context"
	"time"
)

type PaymentMethod string

const (
	PaymentMethodStripe PaymentMethod = "stripe"
	PaymentMethodKhalti PaymentMethod = "khalti"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Payment is one attempt to transfer the agreed amount for a project.
// A project may accumulate several attempts; only a completed one
// finalizes it. Amount is in NPR major units; minor-unit conversion is
// exact integer arithmetic (see MinorUnits).
type Payment struct {
	ID                 int64         `json:"id"`
	HirerID            string        `json:"hirer_id"`
	FreelancerID       string        `json:"freelancer_id"`
	ProjectID          int64         `json:"project_id"`
	Amount             int64         `json:"amount"`
	Currency           string        `json:"currency"`
	Method             PaymentMethod `json:"payment_method"`
	TransactionID      string        `json:"transaction_id"`
	FreelancerKhaltiID *string       `json:"freelancer_khalti_id,omitempty"`
	Status             PaymentStatus `json:"status"`
	CreatedAt          time.Time     `json:"created_at"`

	// Joined data for list responses
	CounterpartyName *string `json:"counterparty_name,omitempty"`
	ProjectTitle     *string `json:"project_title,omitempty"`
}

// MinorUnits converts an NPR major-unit amount to paisa. Integer only:
// float accumulation is never acceptable for money.
func MinorUnits(amountMajor int64) int64 {
	return amountMajor * 100
}

// MajorUnits converts paisa back to NPR.
func MajorUnits(amountMinor int64) int64 {
	return amountMinor / 100
}

// PaymentTimeliness is the read model for the hirer badge signal: when the
// payment landed versus the project's deadline.
type PaymentTimeliness struct {
	PaymentCreatedAt time.Time
	ProjectDeadline  *time.Time
}

type CardIntentInput struct {
	ProjectID int64 `json:"project_id" validate:"required"`
	Amount    int64 `json:"amount" validate:"required,gt=0"`
}

type CardIntentResult struct {
	ClientSecret string `json:"client_secret"`
	PaymentID    int64  `json:"payment_id"`
}

type WalletPaymentInput struct {
	ProjectID int64 `json:"project_id" validate:"required"`
	Amount    int64 `json:"amount" validate:"required,gt=0"`
}

type WalletPaymentResult struct {
	PaymentID   int64  `json:"payment_id"`
	Pidx        string `json:"pidx"`
	PaymentURL  string `json:"payment_url"`
	AmountPaisa int64  `json:"amount"`
}

// WalletCallbackInput carries the provider-initiated callback parameters.
// These are unauthenticated input; the usecase revalidates them against the
// provider with a signed lookup call before trusting any status.
type WalletCallbackInput struct {
	Pidx          string
	TransactionID string
	PaymentID     int64
	ProjectID     int64
}

type WalletCallbackResult struct {
	Completed   bool
	RedirectURL string
}

type PaymentRepository interface {
	Create(ctx context.Context, p *Payment) error
	GetByID(ctx context.Context, id int64) (*Payment, error)
	SetTransactionID(ctx context.Context, id int64, transactionID string) error
	// UpdateStatusFrom transitions pending -> completed/failed exactly once;
	// false when the payment already left the expected state.
	UpdateStatusFrom(ctx context.Context, id int64, from, to PaymentStatus) (bool, error)
	ListByHirer(ctx context.Context, hirerID string) ([]Payment, error)
	ListByFreelancer(ctx context.Context, freelancerID string) ([]Payment, error)
	ExistsCompletedForProject(ctx context.Context, projectID int64) (bool, error)
	// ListCompletedTimelinessByHirer feeds the hirer on-time badge signal.
	ListCompletedTimelinessByHirer(ctx context.Context, hirerID string) ([]PaymentTimeliness, error)
}

type PaymentUsecase interface {
	CreateCardIntent(ctx context.Context, hirerID string, in CardIntentInput) (*CardIntentResult, error)
	// ConfirmCardPayment marks the stored payment completed after the
	// client-side confirmation and finalizes the project.
	ConfirmCardPayment(ctx context.Context, hirerID string, paymentID, projectID int64) error
	InitiateWallet(ctx context.Context, hirerID string, in WalletPaymentInput) (*WalletPaymentResult, error)
	HandleWalletCallback(ctx context.Context, in WalletCallbackInput) (*WalletCallbackResult, error)
	ListSent(ctx context.Context, hirerID string) ([]Payment, error)
	ListReceived(ctx context.Context, freelancerID string) ([]Payment, error)
}
