package notifier

import (
	"context"
	"log/slog"

	"karya-backend/internal/domain"
)

// Dispatcher fans one lifecycle event out to its channels: the in-app
// notification is persisted first and is the durable record; the realtime
// push and the email are best effort and their failures never surface to
// the triggering request.
type Dispatcher struct {
	notificationRepo domain.NotificationRepository
	realtime         domain.RealtimePublisher
	mailer           domain.Mailer
}

func NewDispatcher(notificationRepo domain.NotificationRepository, realtime domain.RealtimePublisher, mailer domain.Mailer) *Dispatcher {
	return &Dispatcher{
		notificationRepo: notificationRepo,
		realtime:         realtime,
		mailer:           mailer,
	}
}

func (d *Dispatcher) Notify(ctx context.Context, n domain.Notification, event string, email *domain.EmailMessage) {
	// 1. Persist the in-app notification
	if err := d.notificationRepo.Create(ctx, &n); err != nil {
		slog.Error("Failed to persist notification",
			"recipient_id", n.RecipientID,
			"event", event,
			"error", err,
		)
		return
	}

	// 2. Push to any live sockets
	if d.realtime != nil {
		d.realtime.Publish(n.RecipientID, event, n)
	}

	// 3. Email, when the event carries one
	if email != nil && d.mailer != nil {
		if err := d.mailer.Send(email.To, email.Subject, email.Body); err != nil {
			slog.Warn("Failed to send notification email",
				"recipient_id", n.RecipientID,
				"event", event,
				"error", err,
			)
		}
	}
}
