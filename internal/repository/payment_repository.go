package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fitcore/gym-service/internal/domain"
)

// PaymentFilter captures payment search parameters.
type PaymentFilter struct {
	StudentID *string
	PlanID    *string
	Method    *domain.PaymentMethod
	PaidFrom  *time.Time
	PaidTo    *time.Time
	Limit     int
	Offset    int
}

// PaymentRepository encapsulates payment persistence.
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	GetByID(ctx context.Context, id string) (*domain.Payment, error)
	ListWithFilter(ctx context.Context, filter PaymentFilter) ([]domain.Payment, error)
}

type paymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository instantiates repository.
func NewPaymentRepository(pool *pgxpool.Pool) PaymentRepository {
	return &paymentRepository{pool: pool}
}

func (r *paymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	const query = `
        INSERT INTO payments (receipt_key, student_id, plan_id, amount_cents, method, paid_at, notes)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		payment.ReceiptKey,
		payment.StudentID,
		payment.PlanID,
		payment.AmountCents,
		payment.Method,
		payment.PaidAt,
		payment.Notes,
	).Scan(&payment.ID, &payment.CreatedAt)
}

func (r *paymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	const query = `
        SELECT id, receipt_key, student_id, plan_id, amount_cents, method, paid_at, notes, created_at
        FROM payments WHERE id=$1`

	var payment domain.Payment
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&payment.ID,
		&payment.ReceiptKey,
		&payment.StudentID,
		&payment.PlanID,
		&payment.AmountCents,
		&payment.Method,
		&payment.PaidAt,
		&payment.Notes,
		&payment.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) ListWithFilter(ctx context.Context, filter PaymentFilter) ([]domain.Payment, error) {
	query := `
        SELECT id, receipt_key, student_id, plan_id, amount_cents, method, paid_at, notes, created_at
        FROM payments`
	args := []any{}
	clauses := []string{}

	if filter.StudentID != nil {
		args = append(args, *filter.StudentID)
		clauses = append(clauses, fmt.Sprintf("student_id=$%d", len(args)))
	}
	if filter.PlanID != nil {
		args = append(args, *filter.PlanID)
		clauses = append(clauses, fmt.Sprintf("plan_id=$%d", len(args)))
	}
	if filter.Method != nil {
		args = append(args, *filter.Method)
		clauses = append(clauses, fmt.Sprintf("method=$%d", len(args)))
	}
	if filter.PaidFrom != nil {
		args = append(args, *filter.PaidFrom)
		clauses = append(clauses, fmt.Sprintf("paid_at>=$%d", len(args)))
	}
	if filter.PaidTo != nil {
		args = append(args, *filter.PaidTo)
		clauses = append(clauses, fmt.Sprintf("paid_at<=$%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	query += " ORDER BY paid_at DESC"
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Payment
	for rows.Next() {
		var payment domain.Payment
		if err := rows.Scan(
			&payment.ID,
			&payment.ReceiptKey,
			&payment.StudentID,
			&payment.PlanID,
			&payment.AmountCents,
			&payment.Method,
			&payment.PaidAt,
			&payment.Notes,
			&payment.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, payment)
	}
	return result, rows.Err()
}
