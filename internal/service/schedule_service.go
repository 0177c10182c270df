package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fitcore/gym-service/internal/domain"
	"github.com/fitcore/gym-service/internal/events"
	"github.com/fitcore/gym-service/internal/repository"
	apperrors "github.com/fitcore/gym-service/pkg/util"
)

// ScheduleService manages scheduled gym classes. Conflict detection is
// deliberately out of scope; instructors may overlap.
type ScheduleService struct {
	classes    repository.ClassRepository
	staff      repository.StaffRepository
	dispatcher events.Dispatcher
}

// ScheduleDependencies bundles repositories for the schedule service.
type ScheduleDependencies struct {
	ClassRepo  repository.ClassRepository
	StaffRepo  repository.StaffRepository
	Dispatcher events.Dispatcher
}

// ClassInput describes a class to schedule or update.
type ClassInput struct {
	Title        string
	Description  string
	InstructorID *string
	StartsAt     time.Time
	DurationMin  int
	Capacity     int
}

// NewScheduleService constructs the service.
func NewScheduleService(deps ScheduleDependencies) *ScheduleService {
	return &ScheduleService{
		classes:    deps.ClassRepo,
		staff:      deps.StaffRepo,
		dispatcher: deps.Dispatcher,
	}
}

// ScheduleClass creates a class and emits class_scheduled.
func (s *ScheduleService) ScheduleClass(ctx context.Context, actorStaffID string, input ClassInput) (*domain.GymClass, error) {
	if input.Title == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}
	if input.Capacity <= 0 {
		return nil, apperrors.NewValidationError("capacity must be positive", nil)
	}
	if input.InstructorID != nil {
		if _, err := s.staff.GetByID(ctx, *input.InstructorID); err != nil {
			return nil, apperrors.MapError(err)
		}
	}

	class := &domain.GymClass{
		Title:        input.Title,
		Description:  input.Description,
		InstructorID: input.InstructorID,
		StartsAt:     input.StartsAt,
		DurationMin:  input.DurationMin,
		Capacity:     input.Capacity,
	}
	if err := s.classes.Create(ctx, class); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventClassScheduled,
			SubjectID: class.ID,
			Actor:     events.Actor{Type: domain.SubjectTypeStaff, StaffID: &actorStaffID},
			Timestamp: time.Now(),
			Payload: events.ClassScheduledPayload{
				Title:    class.Title,
				StartsAt: class.StartsAt,
				Capacity: class.Capacity,
			},
		})
	}
	return class, nil
}

// GetClass fetches one class.
func (s *ScheduleService) GetClass(ctx context.Context, id string) (*domain.GymClass, error) {
	class, err := s.classes.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return class, nil
}

// ListClasses returns classes matching the filter.
func (s *ScheduleService) ListClasses(ctx context.Context, filter repository.ClassFilter) ([]domain.GymClass, error) {
	return s.classes.ListWithFilter(ctx, filter)
}

// UpdateClass applies mutations to a scheduled class.
func (s *ScheduleService) UpdateClass(ctx context.Context, id string, input ClassInput) (*domain.GymClass, error) {
	class, err := s.classes.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if input.Title != "" {
		class.Title = input.Title
	}
	class.Description = input.Description
	if input.InstructorID != nil {
		if _, err := s.staff.GetByID(ctx, *input.InstructorID); err != nil {
			return nil, apperrors.MapError(err)
		}
		class.InstructorID = input.InstructorID
	}
	if !input.StartsAt.IsZero() {
		class.StartsAt = input.StartsAt
	}
	if input.DurationMin > 0 {
		class.DurationMin = input.DurationMin
	}
	if input.Capacity > 0 {
		class.Capacity = input.Capacity
	}
	if err := s.classes.Update(ctx, class); err != nil {
		return nil, apperrors.MapError(err)
	}
	return class, nil
}

// CancelClass removes a scheduled class.
func (s *ScheduleService) CancelClass(ctx context.Context, id string) error {
	if err := s.classes.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}
