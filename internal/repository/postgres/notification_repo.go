package postgres

import (
	"context"
	"karya-backend/internal/domain"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type notificationRepo struct {
	db *pgxpool.Pool
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *pgxpool.Pool) domain.NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	query := `
		INSERT INTO notifications (recipient_id, message, is_read, application_id, project_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	n.CreatedAt = time.Now()

	return r.db.QueryRow(ctx, query,
		n.RecipientID,
		n.Message,
		n.IsRead,
		n.ApplicationID,
		n.ProjectID,
		n.CreatedAt,
	).Scan(&n.ID)
}

// ListForRecipient returns every unread notification plus the readLimit most
// recent read ones, newest first.
func (r *notificationRepo) ListForRecipient(ctx context.Context, userID string, readLimit int) ([]domain.Notification, error) {
	query := `
		(SELECT id, recipient_id, message, is_read, application_id, project_id, created_at
			FROM notifications
			WHERE recipient_id = $1 AND is_read = FALSE
			ORDER BY created_at DESC)
		UNION ALL
		(SELECT id, recipient_id, message, is_read, application_id, project_id, created_at
			FROM notifications
			WHERE recipient_id = $1 AND is_read = TRUE
			ORDER BY created_at DESC
			LIMIT $2)`

	rows, err := r.db.Query(ctx, query, userID, readLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.Message, &n.IsRead, &n.ApplicationID, &n.ProjectID, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *notificationRepo) MarkRead(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
