package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fitcore/gym-service/internal/auth"
	"github.com/fitcore/gym-service/internal/config"
	"github.com/fitcore/gym-service/internal/domain"
	"github.com/fitcore/gym-service/internal/events"
	"github.com/fitcore/gym-service/internal/persistence"
	"github.com/fitcore/gym-service/internal/repository"
	apperrors "github.com/fitcore/gym-service/pkg/util"
)

// MemberService manages students, staff users and plan assignment.
type MemberService struct {
	students   repository.StudentRepository
	staff      repository.StaffRepository
	plans      repository.PlanRepository
	cache      *persistence.Redis
	dispatcher events.Dispatcher
	bcryptCost int
}

// MemberDependencies bundles repositories for the member service.
type MemberDependencies struct {
	StudentRepo repository.StudentRepository
	StaffRepo   repository.StaffRepository
	PlanRepo    repository.PlanRepository
	Cache       *persistence.Redis
	Dispatcher  events.Dispatcher
}

// StudentCreateInput describes student registration payload.
type StudentCreateInput struct {
	FullName  string
	Email     string
	Phone     *string
	BirthDate *time.Time
	Password  string
	PlanID    *string
}

// StudentUpdateInput carries optional student mutations.
type StudentUpdateInput struct {
	FullName *string
	Email    *string
	Phone    *string
	Status   *domain.StudentStatus
}

// NewMemberService constructs the service.
func NewMemberService(cfg config.Config, deps MemberDependencies) *MemberService {
	return &MemberService{
		students:   deps.StudentRepo,
		staff:      deps.StaffRepo,
		plans:      deps.PlanRepo,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// RegisterStudent creates a new student account and emits a welcome event.
func (s *MemberService) RegisterStudent(ctx context.Context, input StudentCreateInput) (*domain.Student, error) {
	if _, err := s.students.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewConflict("email already registered", map[string]any{"email": input.Email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	if input.PlanID != nil {
		if _, err := s.plans.GetByID(ctx, *input.PlanID); err != nil {
			return nil, apperrors.MapError(err)
		}
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	student := &domain.Student{
		FullName:     input.FullName,
		Email:        input.Email,
		Phone:        input.Phone,
		BirthDate:    input.BirthDate,
		PasswordHash: hash,
		PlanID:       input.PlanID,
		Status:       domain.StudentStatusActive,
	}
	if err := s.students.Create(ctx, student); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventStudentRegistered,
		SubjectID: student.ID,
		Actor:     events.Actor{Type: domain.SubjectTypeStaff},
		Timestamp: time.Now(),
		Payload: events.StudentRegisteredPayload{
			FullName: student.FullName,
			Email:    student.Email,
		},
	})
	return student, nil
}

// GetStudent fetches one student.
func (s *MemberService) GetStudent(ctx context.Context, id string) (*domain.Student, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return student, nil
}

// ListStudents returns students matching the filter.
func (s *MemberService) ListStudents(ctx context.Context, filter repository.StudentFilter) ([]domain.Student, error) {
	return s.students.List(ctx, filter)
}

// UpdateStudent applies the provided mutations.
func (s *MemberService) UpdateStudent(ctx context.Context, id string, input StudentUpdateInput) (*domain.Student, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	if input.FullName != nil {
		student.FullName = *input.FullName
	}
	if input.Email != nil {
		student.Email = *input.Email
	}
	if input.Phone != nil {
		student.Phone = input.Phone
	}
	if input.Status != nil {
		student.Status = *input.Status
	}

	if err := s.students.Update(ctx, student); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.cache.InvalidateProfile(ctx, "student:"+student.ID)
	return student, nil
}

// DeleteStudent removes a student.
func (s *MemberService) DeleteStudent(ctx context.Context, id string) error {
	if err := s.students.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	s.cache.InvalidateProfile(ctx, "student:"+id)
	return nil
}

// AssignPlan sets a student's membership plan and emits plan_assigned.
func (s *MemberService) AssignPlan(ctx context.Context, studentID, planID string) (*domain.Student, error) {
	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !plan.Active {
		return nil, apperrors.NewConflict("plan inactive", map[string]any{"plan_id": planID})
	}

	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	student.PlanID = &plan.ID
	if err := s.students.Update(ctx, student); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.cache.InvalidateProfile(ctx, "student:"+student.ID)

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventPlanAssigned,
		SubjectID: student.ID,
		Actor:     events.Actor{Type: domain.SubjectTypeStaff},
		Timestamp: time.Now(),
		Payload: events.PlanAssignedPayload{
			PlanID:   plan.ID,
			PlanName: plan.Name,
		},
	})
	return student, nil
}

// CreateStaffUser creates a dashboard operator. Admin only, enforced at
// the route level.
func (s *MemberService) CreateStaffUser(ctx context.Context, name, email, password string, role domain.StaffRole) (*domain.StaffUser, error) {
	if role != domain.StaffRoleAdministrator && role != domain.StaffRoleAttendant {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": role})
	}
	if _, err := s.staff.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", map[string]any{"email": email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	staff := &domain.StaffUser{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
	}
	if err := s.staff.Create(ctx, staff); err != nil {
		return nil, err
	}
	return staff, nil
}

// ListStaffUsers returns staff matching the filter.
func (s *MemberService) ListStaffUsers(ctx context.Context, filter repository.StaffFilter) ([]domain.StaffUser, error) {
	return s.staff.List(ctx, filter)
}

// UpdateStaffUser applies mutations to a staff user.
func (s *MemberService) UpdateStaffUser(ctx context.Context, id string, name, email *string, role *domain.StaffRole, active *bool) (*domain.StaffUser, error) {
	staff, err := s.staff.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if name != nil {
		staff.Name = *name
	}
	if email != nil {
		staff.Email = *email
	}
	if role != nil {
		staff.Role = *role
	}
	if active != nil {
		staff.Active = *active
	}
	if err := s.staff.Update(ctx, staff); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.cache.InvalidateProfile(ctx, "staff:"+staff.ID)
	return staff, nil
}

func (s *MemberService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
