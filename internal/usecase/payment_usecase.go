package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"karya-backend/internal/domain"
	"karya-backend/pkg/apperror"
)

type paymentUsecase struct {
	paymentRepo     domain.PaymentRepository
	projectRepo     domain.ProjectRepository
	userRepo        domain.UserRepository
	cardGateway     domain.CardGateway
	walletGateway   domain.WalletGateway
	notifier        domain.Notifier
	publicBaseURL   string
	frontendURL     string
	providerTimeout time.Duration
}

func NewPaymentUsecase(
	paymentRepo domain.PaymentRepository,
	projectRepo domain.ProjectRepository,
	userRepo domain.UserRepository,
	cardGateway domain.CardGateway,
	walletGateway domain.WalletGateway,
	notifier domain.Notifier,
	publicBaseURL string,
	frontendURL string,
	providerTimeout time.Duration,
) domain.PaymentUsecase {
	return &paymentUsecase{
		paymentRepo:     paymentRepo,
		projectRepo:     projectRepo,
		userRepo:        userRepo,
		cardGateway:     cardGateway,
		walletGateway:   walletGateway,
		notifier:        notifier,
		publicBaseURL:   publicBaseURL,
		frontendURL:     frontendURL,
		providerTimeout: providerTimeout,
	}
}

// CreateCardIntent records a pending payment and opens a card intent with
// the provider. No payment row is created for invalid amounts.
func (uc *paymentUsecase) CreateCardIntent(ctx context.Context, hirerID string, in domain.CardIntentInput) (*domain.CardIntentResult, error) {
	project, err := uc.loadPayableProject(ctx, hirerID, in.ProjectID, in.Amount)
	if err != nil {
		return nil, err
	}

	payment := &domain.Payment{
		HirerID:      hirerID,
		FreelancerID: project.FreelancerID,
		ProjectID:    project.ID,
		Amount:       in.Amount,
		Currency:     "npr",
		Method:       domain.PaymentMethodStripe,
		Status:       domain.PaymentStatusPending,
	}
	if err := uc.paymentRepo.Create(ctx, payment); err != nil {
		return nil, apperror.Internal(err)
	}

	callCtx, cancel := context.WithTimeout(ctx, uc.providerTimeout)
	defer cancel()
	clientSecret, transactionID, err := uc.cardGateway.CreateIntent(callCtx, domain.MinorUnits(in.Amount), "npr", map[string]string{
		"payment_id": fmt.Sprintf("%d", payment.ID),
		"project_id": fmt.Sprintf("%d", project.ID),
	})
	if err != nil {
		uc.markFailed(ctx, payment.ID)
		return nil, err
	}

	if err := uc.paymentRepo.SetTransactionID(ctx, payment.ID, transactionID); err != nil {
		slog.Warn("Failed to store card transaction id", "payment_id", payment.ID, "error", err)
	}

	return &domain.CardIntentResult{
		ClientSecret: clientSecret,
		PaymentID:    payment.ID,
	}, nil
}

// ConfirmCardPayment completes the stored payment after the client-side card
// confirmation and finalizes the project.
func (uc *paymentUsecase) ConfirmCardPayment(ctx context.Context, hirerID string, paymentID, projectID int64) error {
	payment, err := uc.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return apperror.NotFound("Payment not found")
	}
	if payment.HirerID != hirerID {
		return apperror.Forbidden("You do not own this payment")
	}
	if payment.ProjectID != projectID {
		return apperror.BadRequest("Payment does not belong to this project")
	}

	ok, err := uc.paymentRepo.UpdateStatusFrom(ctx, paymentID, domain.PaymentStatusPending, domain.PaymentStatusCompleted)
	if err != nil {
		return apperror.Internal(err)
	}
	if !ok {
		return apperror.Conflict("Payment was already processed")
	}

	uc.finalizeProject(ctx, payment)
	return nil
}

// InitiateWallet records a pending payment and starts the provider's
// redirect flow. The freelancer must have a connected wallet.
func (uc *paymentUsecase) InitiateWallet(ctx context.Context, hirerID string, in domain.WalletPaymentInput) (*domain.WalletPaymentResult, error) {
	project, err := uc.loadPayableProject(ctx, hirerID, in.ProjectID, in.Amount)
	if err != nil {
		return nil, err
	}

	freelancer, err := uc.userRepo.GetByID(ctx, project.FreelancerID)
	if err != nil {
		return nil, apperror.NotFound("Freelancer account not found")
	}
	if freelancer.KhaltiID == nil || *freelancer.KhaltiID == "" {
		return nil, apperror.BadRequest("The freelancer has not connected a wallet account")
	}

	hirer, err := uc.userRepo.GetByID(ctx, hirerID)
	if err != nil {
		return nil, apperror.NotFound("Hirer account not found")
	}

	payment := &domain.Payment{
		HirerID:            hirerID,
		FreelancerID:       project.FreelancerID,
		ProjectID:          project.ID,
		Amount:             in.Amount,
		Currency:           "npr",
		Method:             domain.PaymentMethodKhalti,
		FreelancerKhaltiID: freelancer.KhaltiID,
		Status:             domain.PaymentStatusPending,
	}
	if err := uc.paymentRepo.Create(ctx, payment); err != nil {
		return nil, apperror.Internal(err)
	}

	amountPaisa := domain.MinorUnits(in.Amount)
	callCtx, cancel := context.WithTimeout(ctx, uc.providerTimeout)
	defer cancel()
	initiated, err := uc.walletGateway.Initiate(callCtx, domain.WalletInitiateRequest{
		AmountMinor: amountPaisa,
		OrderID:     fmt.Sprintf("karya-%d", payment.ID),
		OrderName:   project.Title,
		ReturnURL: fmt.Sprintf("%s/v1/payments/khalti/callback?payment_id=%d&project_id=%d",
			uc.publicBaseURL, payment.ID, project.ID),
		WebsiteURL:    uc.frontendURL,
		CustomerName:  hirer.FullName(),
		CustomerEmail: hirer.Email,
	})
	if err != nil {
		uc.markFailed(ctx, payment.ID)
		return nil, err
	}

	// The pidx identifies the transaction until the lookup returns the
	// provider's final transaction id.
	if err := uc.paymentRepo.SetTransactionID(ctx, payment.ID, initiated.Pidx); err != nil {
		slog.Warn("Failed to store wallet pidx", "payment_id", payment.ID, "error", err)
	}

	return &domain.WalletPaymentResult{
		PaymentID:   payment.ID,
		Pidx:        initiated.Pidx,
		PaymentURL:  initiated.PaymentURL,
		AmountPaisa: amountPaisa,
	}, nil
}

// HandleWalletCallback processes the provider redirect. Callback parameters
// are unauthenticated, so completion is decided solely by the signed lookup
// call against the provider.
func (uc *paymentUsecase) HandleWalletCallback(ctx context.Context, in domain.WalletCallbackInput) (*domain.WalletCallbackResult, error) {
	failure := &domain.WalletCallbackResult{RedirectURL: uc.frontendURL + "/payment/failure"}
	success := &domain.WalletCallbackResult{Completed: true, RedirectURL: uc.frontendURL + "/payment/success"}

	payment, err := uc.paymentRepo.GetByID(ctx, in.PaymentID)
	if err != nil {
		return nil, apperror.NotFound("Payment not found")
	}
	if payment.ProjectID != in.ProjectID {
		return nil, apperror.BadRequest("Payment does not belong to this project")
	}

	callCtx, cancel := context.WithTimeout(ctx, uc.providerTimeout)
	defer cancel()
	lookup, err := uc.walletGateway.Lookup(callCtx, in.Pidx)
	if err != nil {
		return nil, err
	}

	switch lookup.Status {
	case domain.WalletLookupCompleted:
		ok, err := uc.paymentRepo.UpdateStatusFrom(ctx, payment.ID, domain.PaymentStatusPending, domain.PaymentStatusCompleted)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		if !ok {
			// Replayed callback; the first one already finalized everything.
			return success, nil
		}
		if lookup.TransactionID != "" {
			if err := uc.paymentRepo.SetTransactionID(ctx, payment.ID, lookup.TransactionID); err != nil {
				slog.Warn("Failed to store wallet transaction id", "payment_id", payment.ID, "error", err)
			}
		}
		uc.finalizeProject(ctx, payment)
		return success, nil

	case domain.WalletLookupPending:
		// The provider has not settled yet; leave the payment pending.
		return failure, nil

	default:
		// Expired, cancelled or refunded on the provider side.
		uc.markFailed(ctx, payment.ID)
		return failure, nil
	}
}

func (uc *paymentUsecase) ListSent(ctx context.Context, hirerID string) ([]domain.Payment, error) {
	return uc.paymentRepo.ListByHirer(ctx, hirerID)
}

func (uc *paymentUsecase) ListReceived(ctx context.Context, freelancerID string) ([]domain.Payment, error) {
	return uc.paymentRepo.ListByFreelancer(ctx, freelancerID)
}

// loadPayableProject runs the shared guards for opening a new payment
// attempt against a project.
func (uc *paymentUsecase) loadPayableProject(ctx context.Context, hirerID string, projectID, amount int64) (*domain.Project, error) {
	if amount <= 0 {
		return nil, apperror.BadRequest("Amount must be greater than zero")
	}

	project, err := uc.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, apperror.NotFound("Project not found")
	}
	if project.HirerID != hirerID {
		return nil, apperror.Forbidden("Only the project's hirer can pay for it")
	}

	paid, err := uc.paymentRepo.ExistsCompletedForProject(ctx, projectID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if paid {
		return nil, apperror.InvalidState("This project has already been paid")
	}
	return project, nil
}

// finalizeProject completes the project behind a completed payment and
// notifies the freelancer. Failures here are logged; the payment itself is
// already committed.
func (uc *paymentUsecase) finalizeProject(ctx context.Context, payment *domain.Payment) {
	ok, err := uc.projectRepo.MarkCompleted(ctx, payment.ProjectID)
	if err != nil {
		slog.Error("Failed to complete project after payment", "project_id", payment.ProjectID, "payment_id", payment.ID, "error", err)
	} else if !ok {
		slog.Warn("Project already completed before payment finalization", "project_id", payment.ProjectID, "payment_id", payment.ID)
	}

	message := fmt.Sprintf("You received a payment of Rs %d", payment.Amount)
	var email *domain.EmailMessage
	if freelancer, err := uc.userRepo.GetByID(ctx, payment.FreelancerID); err == nil {
		email = &domain.EmailMessage{To: freelancer.Email, Subject: "Payment Received", Body: message}
	}
	uc.notifier.Notify(ctx, domain.Notification{
		RecipientID: payment.FreelancerID,
		Message:     message,
		ProjectID:   &payment.ProjectID,
	}, "payment:completed", email)
}

func (uc *paymentUsecase) markFailed(ctx context.Context, paymentID int64) {
	if _, err := uc.paymentRepo.UpdateStatusFrom(ctx, paymentID, domain.PaymentStatusPending, domain.PaymentStatusFailed); err != nil {
		slog.Warn("Failed to mark payment failed", "payment_id", paymentID, "error", err)
	}
}
