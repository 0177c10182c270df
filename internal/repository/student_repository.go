package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fitcore/gym-service/internal/domain"
)

// StudentFilter defines query params for student listing.
type StudentFilter struct {
	Status *domain.StudentStatus
	PlanID *string
	Search *string
	Limit  int
	Offset int
}

// StudentRepository defines persistence access for students.
type StudentRepository interface {
	Create(ctx context.Context, student *domain.Student) error
	Update(ctx context.Context, student *domain.Student) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Student, error)
	GetByEmail(ctx context.Context, email string) (*domain.Student, error)
	List(ctx context.Context, filter StudentFilter) ([]domain.Student, error)
}

type studentRepository struct {
	pool *pgxpool.Pool
}

// NewStudentRepository returns a Postgres-backed implementation.
func NewStudentRepository(pool *pgxpool.Pool) StudentRepository {
	return &studentRepository{pool: pool}
}

func (r *studentRepository) Create(ctx context.Context, student *domain.Student) error {
	const query = `
        INSERT INTO students (full_name, email, phone, birth_date, password_hash, plan_id, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		student.FullName,
		student.Email,
		student.Phone,
		student.BirthDate,
		student.PasswordHash,
		student.PlanID,
		student.Status,
	).Scan(&student.ID, &student.CreatedAt, &student.UpdatedAt)
}

func (r *studentRepository) Update(ctx context.Context, student *domain.Student) error {
	const query = `
        UPDATE students
        SET full_name=$1, email=$2, phone=$3, birth_date=$4, password_hash=$5, plan_id=$6, status=$7, updated_at=NOW()
        WHERE id=$8`

	cmd, err := r.pool.Exec(ctx, query,
		student.FullName,
		student.Email,
		student.Phone,
		student.BirthDate,
		student.PasswordHash,
		student.PlanID,
		student.Status,
		student.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *studentRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM students WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *studentRepository) GetByID(ctx context.Context, id string) (*domain.Student, error) {
	const query = studentSelect + ` WHERE id=$1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *studentRepository) GetByEmail(ctx context.Context, email string) (*domain.Student, error) {
	const query = studentSelect + ` WHERE email=$1`
	return r.scanOne(r.pool.QueryRow(ctx, query, email))
}

func (r *studentRepository) List(ctx context.Context, filter StudentFilter) ([]domain.Student, error) {
	query := studentSelect
	args := []any{}
	clauses := []string{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.PlanID != nil {
		args = append(args, *filter.PlanID)
		clauses = append(clauses, fmt.Sprintf("plan_id=$%d", len(args)))
	}
	if filter.Search != nil {
		args = append(args, "%"+*filter.Search+"%")
		clauses = append(clauses, fmt.Sprintf("(full_name ILIKE $%d OR email ILIKE $%d)", len(args), len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	query += " ORDER BY full_name ASC"
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

	var result []domain.Student
	for rows.Next() {
		var student domain.Student
		if err := scanStudent(rows, &student); err != nil {
			return nil, err
		}
		result = append(result, student)
	}
	return result, rows.Err()
}

const studentSelect = `
        SELECT id, full_name, email, phone, birth_date, password_hash, plan_id, status, created_at, updated_at
        FROM students`

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *studentRepository) scanOne(row pgx.Row) (*domain.Student, error) {
	var student domain.Student
	if err := scanStudent(row, &student); err != nil {
		return nil, err
	}
	return &student, nil
}

func scanStudent(row rowScanner, student *domain.Student) error {
	return row.Scan(
		&student.ID,
		&student.FullName,
		&student.Email,
		&student.Phone,
		&student.BirthDate,
		&student.PasswordHash,
		&student.PlanID,
		&student.Status,
		&student.CreatedAt,
		&student.UpdatedAt,
	)
}
