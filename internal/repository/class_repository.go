package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fitcore/gym-service/internal/domain"
)

// ClassFilter captures scheduled class search parameters.
type ClassFilter struct {
	InstructorID *string
	StartsFrom   *time.Time
	StartsTo     *time.Time
	Limit        int
	Offset       int
}

// ClassRepository encapsulates scheduled class persistence.
type ClassRepository interface {
	Create(ctx context.Context, class *domain.GymClass) error
	Update(ctx context.Context, class *domain.GymClass) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.GymClass, error)
	ListWithFilter(ctx context.Context, filter ClassFilter) ([]domain.GymClass, error)
}

type classRepository struct {
	pool *pgxpool.Pool
}

// NewClassRepository instantiates repository.
func NewClassRepository(pool *pgxpool.Pool) ClassRepository {
	return &classRepository{pool: pool}
}

func (r *classRepository) Create(ctx context.Context, class *domain.GymClass) error {
	const query = `
        INSERT INTO gym_classes (title, description, instructor_id, starts_at, duration_min, capacity)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		class.Title,
		class.Description,
		class.InstructorID,
		class.StartsAt,
		class.DurationMin,
		class.Capacity,
	).Scan(&class.ID, &class.CreatedAt, &class.UpdatedAt)
}

func (r *classRepository) Update(ctx context.Context, class *domain.GymClass) error {
	const query = `
        UPDATE gym_classes
        SET title=$1, description=$2, instructor_id=$3, starts_at=$4, duration_min=$5, capacity=$6, updated_at=NOW()
        WHERE id=$7`

	cmd, err := r.pool.Exec(ctx, query,
		class.Title,
		class.Description,
		class.InstructorID,
		class.StartsAt,
		class.DurationMin,
		class.Capacity,
		class.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *classRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM gym_classes WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *classRepository) GetByID(ctx context.Context, id string) (*domain.GymClass, error) {
	const query = `
        SELECT id, title, description, instructor_id, starts_at, duration_min, capacity, created_at, updated_at
        FROM gym_classes WHERE id=$1`

	var class domain.GymClass
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&class.ID,
		&class.Title,
		&class.Description,
		&class.InstructorID,
		&class.StartsAt,
		&class.DurationMin,
		&class.Capacity,
		&class.CreatedAt,
		&class.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &class, nil
}

func (r *classRepository) ListWithFilter(ctx context.Context, filter ClassFilter) ([]domain.GymClass, error) {
	query := `
        SELECT id, title, description, instructor_id, starts_at, duration_min, capacity, created_at, updated_at
        FROM gym_classes`
	args := []any{}
	clauses := []string{}

	if filter.InstructorID != nil {
		args = append(args, *filter.InstructorID)
		clauses = append(clauses, fmt.Sprintf("instructor_id=$%d", len(args)))
	}
	if filter.StartsFrom != nil {
		args = append(args, *filter.StartsFrom)
		clauses = append(clauses, fmt.Sprintf("starts_at>=$%d", len(args)))
	}
	if filter.StartsTo != nil {
		args = append(args, *filter.StartsTo)
		clauses = append(clauses, fmt.Sprintf("starts_at<=$%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	query += " ORDER BY starts_at ASC"
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

	var result []domain.GymClass
	for rows.Next() {
		var class domain.GymClass
		if err := rows.Scan(
			&class.ID,
			&class.Title,
			&class.Description,
			&class.InstructorID,
			&class.StartsAt,
			&class.DurationMin,
			&class.Capacity,
			&class.CreatedAt,
			&class.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, class)
	}
	return result, rows.Err()
}
