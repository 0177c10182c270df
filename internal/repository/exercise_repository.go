package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fitcore/gym-service/internal/domain"
)

// ExerciseRepository handles persistence for the exercise catalog.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) error
	Update(ctx context.Context, exercise *domain.Exercise) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Exercise, error)
	List(ctx context.Context, muscleGroup *string, limit, offset int) ([]domain.Exercise, error)
}

type exerciseRepository struct {
	pool *pgxpool.Pool
}

// NewExerciseRepository instantiates the repository.
func NewExerciseRepository(pool *pgxpool.Pool) ExerciseRepository {
	return &exerciseRepository{pool: pool}
}

func (r *exerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) error {
	const query = `
        INSERT INTO exercises (name, muscle_group, equipment)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		exercise.Name,
		exercise.MuscleGroup,
		exercise.Equipment,
	).Scan(&exercise.ID, &exercise.CreatedAt, &exercise.UpdatedAt)
}

func (r *exerciseRepository) Update(ctx context.Context, exercise *domain.Exercise) error {
	const query = `
        UPDATE exercises SET name=$1, muscle_group=$2, equipment=$3, updated_at=NOW()
        WHERE id=$4`

	cmd, err := r.pool.Exec(ctx, query,
		exercise.Name,
		exercise.MuscleGroup,
		exercise.Equipment,
		exercise.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *exerciseRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM exercises WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *exerciseRepository) GetByID(ctx context.Context, id string) (*domain.Exercise, error) {
	const query = `
        SELECT id, name, muscle_group, equipment, created_at, updated_at
        FROM exercises WHERE id=$1`

	var exercise domain.Exercise
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&exercise.ID,
		&exercise.Name,
		&exercise.MuscleGroup,
		&exercise.Equipment,
		&exercise.CreatedAt,
		&exercise.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &exercise, nil
}

func (r *exerciseRepository) List(ctx context.Context, muscleGroup *string, limit, offset int) ([]domain.Exercise, error) {
	query := `
        SELECT id, name, muscle_group, equipment, created_at, updated_at
        FROM exercises`
	args := []any{}
	clauses := []string{}

	if muscleGroup != nil {
		args = append(args, *muscleGroup)
		clauses = append(clauses, fmt.Sprintf("muscle_group=$%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	query += " ORDER BY name ASC"
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Exercise
	for rows.Next() {
		var exercise domain.Exercise
		if err := rows.Scan(
			&exercise.ID,
			&exercise.Name,
			&exercise.MuscleGroup,
			&exercise.Equipment,
			&exercise.CreatedAt,
			&exercise.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, exercise)
	}
	return result, rows.Err()
}
