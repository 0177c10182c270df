package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fitcore/gym-service/internal/domain"
)

// WorkoutRepository handles workout templates and their ordered items.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) error
	Update(ctx context.Context, workout *domain.Workout) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Workout, error)
	ListByStudent(ctx context.Context, studentID string) ([]domain.Workout, error)
	ReplaceItems(ctx context.Context, workoutID string, items []domain.WorkoutItem) error
}

type workoutRepository struct {
	pool *pgxpool.Pool
}

// NewWorkoutRepository instantiates the repository.
func NewWorkoutRepository(pool *pgxpool.Pool) WorkoutRepository {
	return &workoutRepository{pool: pool}
}

func (r *workoutRepository) Create(ctx context.Context, workout *domain.Workout) error {
	const query = `
        INSERT INTO workouts (name, student_id, notes)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		workout.Name,
		workout.StudentID,
		workout.Notes,
	).Scan(&workout.ID, &workout.CreatedAt, &workout.UpdatedAt)
}

func (r *workoutRepository) Update(ctx context.Context, workout *domain.Workout) error {
	const query = `
        UPDATE workouts SET name=$1, student_id=$2, notes=$3, updated_at=NOW()
        WHERE id=$4`

	cmd, err := r.pool.Exec(ctx, query,
		workout.Name,
		workout.StudentID,
		workout.Notes,
		workout.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *workoutRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM workouts WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *workoutRepository) GetByID(ctx context.Context, id string) (*domain.Workout, error) {
	const query = `
        SELECT id, name, student_id, notes, created_at, updated_at
        FROM workouts WHERE id=$1`

	var workout domain.Workout
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&workout.ID,
		&workout.Name,
		&workout.StudentID,
		&workout.Notes,
		&workout.CreatedAt,
		&workout.UpdatedAt,
	); err != nil {
		return nil, err
	}

	items, err := r.loadItems(ctx, workout.ID)
	if err != nil {
		return nil, err
	}
	workout.Items = items
	return &workout, nil
}

func (r *workoutRepository) ListByStudent(ctx context.Context, studentID string) ([]domain.Workout, error) {
	const query = `
        SELECT id, name, student_id, notes, created_at, updated_at
        FROM workouts WHERE student_id=$1
        ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Workout
	for rows.Next() {
		var workout domain.Workout
		if err := rows.Scan(
			&workout.ID,
			&workout.Name,
			&workout.StudentID,
			&workout.Notes,
			&workout.CreatedAt,
			&workout.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, workout)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		items, err := r.loadItems(ctx, result[i].ID)
		if err != nil {
			return nil, err
		}
		result[i].Items = items
	}
	return result, nil
}

// ReplaceItems swaps a workout's item list atomically.
func (r *workoutRepository) ReplaceItems(ctx context.Context, workoutID string, items []domain.WorkoutItem) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM workout_items WHERE workout_id=$1`, workoutID); err != nil {
		return err
	}

	const insert = `
        INSERT INTO workout_items (workout_id, exercise_id, position, sets, reps, rest_sec)
        VALUES ($1,$2,$3,$4,$5,$6)`
	for i := range items {
		if _, err := tx.Exec(ctx, insert,
			workoutID,
			items[i].ExerciseID,
			items[i].Position,
			items[i].Sets,
			items[i].Reps,
			items[i].RestSec,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *workoutRepository) loadItems(ctx context.Context, workoutID string) ([]domain.WorkoutItem, error) {
	const query = `
        SELECT id, workout_id, exercise_id, position, sets, reps, rest_sec
        FROM workout_items WHERE workout_id=$1
        ORDER BY position ASC`

	rows, err := r.pool.Query(ctx, query, workoutID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.WorkoutItem
	for rows.Next() {
		var item domain.WorkoutItem
		if err := rows.Scan(
			&item.ID,
			&item.WorkoutID,
			&item.ExerciseID,
			&item.Position,
			&item.Sets,
			&item.Reps,
			&item.RestSec,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
