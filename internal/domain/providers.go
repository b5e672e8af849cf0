package domain

import (
	"context"
	"time"

	"golang.org/x/oauth2"
)

// MeetingRequest describes one calendar event with conferencing for the
// hirer and the applicant.
type MeetingRequest struct {
	Subject     string
	Description string
	Organizer   string    // hirer email
	Attendee    string    // applicant email
	StartTime   time.Time
	Duration    time.Duration
}

// MeetingResult is the created event. RefreshedCredential is non-nil when
// the provider issued a new token during the call; the caller is
// responsible for persisting it onto the hirer's record.
type MeetingResult struct {
	MeetLink            string
	EventID             string
	RefreshedCredential *oauth2.Token
}

// CalendarScheduler wraps the external OAuth-based calendar service.
type CalendarScheduler interface {
	ScheduleMeeting(ctx context.Context, credential *oauth2.Token, req MeetingRequest) (*MeetingResult, error)
}

// CardGateway is the intent-based card provider. Amounts are minor units.
type CardGateway interface {
	CreateIntent(ctx context.Context, amountMinor int64, currency string, metadata map[string]string) (clientSecret, transactionID string, err error)
}

type WalletInitiateRequest struct {
	AmountMinor   int64
	OrderID       string
	OrderName     string
	ReturnURL     string
	WebsiteURL    string
	CustomerName  string
	CustomerEmail string
}

type WalletInitiateResult struct {
	Pidx       string
	PaymentURL string
}

// Wallet transaction states as reported by the provider lookup.
const (
	WalletLookupCompleted = "Completed"
	WalletLookupPending   = "Pending"
)

type WalletLookupResult struct {
	Status        string
	TransactionID string
}

// WalletGateway is the redirect-based wallet provider. Callback data is
// unauthenticated; Lookup is the signed server-side verification that must
// be trusted instead.
type WalletGateway interface {
	Initiate(ctx context.Context, req WalletInitiateRequest) (*WalletInitiateResult, error)
	Lookup(ctx context.Context, pidx string) (*WalletLookupResult, error)
}

// Mailer delivers outbound email, best effort.
type Mailer interface {
	Send(to, subject, body string) error
}

// RealtimePublisher pushes an event to the recipient's live channel, best
// effort. The channel key is the recipient's user id.
type RealtimePublisher interface {
	Publish(userID string, event string, payload any)
}
