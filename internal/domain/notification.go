package domain

import (
	"context"
	"time"
)

// Notification is informational only, never authoritative state.
type Notification struct {
	ID            int64     `json:"id"`
	RecipientID   string    `json:"recipient_id"`
	Message       string    `json:"message"`
	IsRead        bool      `json:"is_read"`
	ApplicationID *int64    `json:"application_id,omitempty"`
	ProjectID     *int64    `json:"project_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// EmailMessage is an outbound mail rendered by the dispatcher.
type EmailMessage struct {
	To      string
	Subject string
	Body    string
}

// Notifier is the dispatcher capability injected into the lifecycle engine.
// It persists the notification, then best-effort pushes it to the
// recipient's live channel and sends the optional email. Push and email
// failures are logged and swallowed; they never fail the state transition
// that triggered them.
type Notifier interface {
	Notify(ctx context.Context, n Notification, event string, email *EmailMessage)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	// ListForRecipient returns all unread notifications plus up to readLimit
	// of the most recent read ones, newest first.
	ListForRecipient(ctx context.Context, userID string, readLimit int) ([]Notification, error)
	MarkRead(ctx context.Context, id int64) error
}

type NotificationUsecase interface {
	ListForUser(ctx context.Context, userID string) ([]Notification, error)
	MarkRead(ctx context.Context, id int64) error
}
