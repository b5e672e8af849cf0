package postgres

import (
	"context"
	"karya-backend/internal/domain"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type paymentRepo struct {
	db *pgxpool.Pool
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *pgxpool.Pool) domain.PaymentRepository {
	return &paymentRepo{db: db}
}

func (r *paymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	query := `
		INSERT INTO payments (hirer_id, freelancer_id, project_id, amount, currency, payment_method, transaction_id, freelancer_khalti_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	p.CreatedAt = time.Now()
	if p.Currency == "" {
		p.Currency = "NPR"
	}
	if p.Status == "" {
		p.Status = domain.PaymentStatusPending
	}

	return r.db.QueryRow(ctx, query,
		p.HirerID,
		p.FreelancerID,
		p.ProjectID,
		p.Amount,
		p.Currency,
		p.Method,
		p.TransactionID,
		p.FreelancerKhaltiID,
		p.Status,
		p.CreatedAt,
	).Scan(&p.ID)
}

func (r *paymentRepo) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	query := `
		SELECT id, hirer_id, freelancer_id, project_id, amount, currency, payment_method,
			transaction_id, freelancer_khalti_id, status, created_at
		FROM payments
		WHERE id = $1`

	var p domain.Payment
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.HirerID, &p.FreelancerID, &p.ProjectID, &p.Amount, &p.Currency, &p.Method,
		&p.TransactionID, &p.FreelancerKhaltiID, &p.Status, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepo) SetTransactionID(ctx context.Context, id int64, transactionID string) error {
	result, err := r.db.Exec(ctx, `UPDATE payments SET transaction_id = $2 WHERE id = $1`, id, transactionID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStatusFrom moves a payment out of the expected state exactly once,
// making duplicate callback deliveries no-ops.
func (r *paymentRepo) UpdateStatusFrom(ctx context.Context, id int64, from, to domain.PaymentStatus) (bool, error) {
	query := `UPDATE payments SET status = $3 WHERE id = $1 AND status = $2`
	result, err := r.db.Exec(ctx, query, id, from, to)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

func (r *paymentRepo) ListByHirer(ctx context.Context, hirerID string) ([]domain.Payment, error) {
	query := `
		SELECT p.id, p.hirer_id, p.freelancer_id, p.project_id, p.amount, p.currency, p.payment_method,
			p.transaction_id, p.freelancer_khalti_id, p.status, p.created_at,
			u.first_name || ' ' || u.last_name AS counterparty_name,
			pr.title AS project_title
		FROM payments p
		LEFT JOIN users u ON p.freelancer_id = u.id
		LEFT JOIN projects pr ON p.project_id = pr.id
		WHERE p.hirer_id = $1
		ORDER BY p.created_at DESC`

	rows, err := r.db.Query(ctx, query, hirerID)
	if err != nil {
		return nil, err
	}
	return scanPayments(rows)
}

func (r *paymentRepo) ListByFreelancer(ctx context.Context, freelancerID string) ([]domain.Payment, error) {
	query := `
		SELECT p.id, p.hirer_id, p.freelancer_id, p.project_id, p.amount, p.currency, p.payment_method,
			p.transaction_id, p.freelancer_khalti_id, p.status, p.created_at,
			u.first_name || ' ' || u.last_name AS counterparty_name,
			pr.title AS project_title
		FROM payments p
		LEFT JOIN users u ON p.hirer_id = u.id
		LEFT JOIN projects pr ON p.project_id = pr.id
		WHERE p.freelancer_id = $1
		ORDER BY p.created_at DESC`

	rows, err := r.db.Query(ctx, query, freelancerID)
	if err != nil {
		return nil, err
	}
	return scanPayments(rows)
}

func (r *paymentRepo) ExistsCompletedForProject(ctx context.Context, projectID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM payments WHERE project_id = $1 AND status = $2)`
	var exists bool
	err := r.db.QueryRow(ctx, query, projectID, domain.PaymentStatusCompleted).Scan(&exists)
	return exists, err
}

func (r *paymentRepo) ListCompletedTimelinessByHirer(ctx context.Context, hirerID string) ([]domain.PaymentTimeliness, error) {
	query := `
		SELECT p.created_at, pr.deadline
		FROM payments p
		LEFT JOIN projects pr ON p.project_id = pr.id
		WHERE p.hirer_id = $1 AND p.status = $2`

	rows, err := r.db.Query(ctx, query, hirerID, domain.PaymentStatusCompleted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.PaymentTimeliness
	for rows.Next() {
		var t domain.PaymentTimeliness
		if err := rows.Scan(&t.PaymentCreatedAt, &t.ProjectDeadline); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func scanPayments(rows pgx.Rows) ([]domain.Payment, error) {
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(
			&p.ID, &p.HirerID, &p.FreelancerID, &p.ProjectID, &p.Amount, &p.Currency, &p.Method,
			&p.TransactionID, &p.FreelancerKhaltiID, &p.Status, &p.CreatedAt,
			&p.CounterpartyName, &p.ProjectTitle,
		); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
