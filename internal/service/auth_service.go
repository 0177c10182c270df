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

// AuthSubject identifies the caller when changing password.
type AuthSubject struct {
	Type domain.SubjectType
	ID   string
}

// LoginResult carries the outcome of a successful login: a token plus a
// sanitized profile of exactly one principal kind.
type LoginResult struct {
	Kind      domain.SubjectType
	Staff     *domain.StaffUser
	Student   *domain.Student
	Token     string
	ExpiresAt time.Time
}

// AuthService coordinates login, verification and password flows. It is
// the only component holding the token manager, and therefore the only
// minter of session tokens.
type AuthService struct {
	students   repository.StudentRepository
	staff      repository.StaffRepository
	resets     repository.PasswordResetRepository
	cache      *persistence.Redis
	dispatcher events.Dispatcher
	tokenMgr   *auth.TokenManager
	bcryptCost int
	resetTTL   time.Duration
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	StudentRepo       repository.StudentRepository
	StaffRepo         repository.StaffRepository
	PasswordResetRepo repository.PasswordResetRepository
	Cache             *persistence.Redis
	Dispatcher        events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		students:   deps.StudentRepo,
		staff:      deps.StaffRepo,
		resets:     deps.PasswordResetRepo,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL()),
		bcryptCost: cfg.Auth.BcryptCost,
		resetTTL:   time.Duration(cfg.Auth.PasswordResetTTLMinutes) * time.Minute,
	}
}

// Login authenticates either principal kind with one identifier/secret
// pair. The staff table is checked first, then students. Every failure
// mode returns the identical invalid-credentials error so the response
// does not reveal whether the identifier or the secret was wrong.
func (s *AuthService) Login(ctx context.Context, identifier, secret string) (*LoginResult, error) {
	staff, err := s.staff.GetByEmail(ctx, identifier)
	if err == nil {
		if !staff.Active {
			auth.CompareDummy(secret)
			return nil, apperrors.NewInvalidCredentials()
		}
		if auth.ComparePassword(staff.PasswordHash, secret) != nil {
			return nil, apperrors.NewInvalidCredentials()
		}
		token, exp, err := s.tokenMgr.GenerateToken(staff.ID, domain.SubjectTypeStaff, &staff.Role)
		if err != nil {
			return nil, err
		}
		return &LoginResult{Kind: domain.SubjectTypeStaff, Staff: staff, Token: token, ExpiresAt: exp}, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	student, err := s.students.GetByEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			auth.CompareDummy(secret)
			return nil, apperrors.NewInvalidCredentials()
		}
		return nil, err
	}
	if student.Status != domain.StudentStatusActive {
		auth.CompareDummy(secret)
		return nil, apperrors.NewInvalidCredentials()
	}
	if auth.ComparePassword(student.PasswordHash, secret) != nil {
		return nil, apperrors.NewInvalidCredentials()
	}
	token, exp, err := s.tokenMgr.GenerateToken(student.ID, domain.SubjectTypeStudent, nil)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Kind: domain.SubjectTypeStudent, Student: student, Token: token, ExpiresAt: exp}, nil
}

// RequestPasswordReset persists a reset token for either principal kind
// and hands it to the notification pipeline.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (*repository.PasswordResetToken, error) {
	subjectType := domain.SubjectTypeStaff
	subjectID := ""

	if staff, err := s.staff.GetByEmail(ctx, email); err == nil {
		subjectID = staff.ID
	} else if errors.Is(err, pgx.ErrNoRows) {
		student, studentErr := s.students.GetByEmail(ctx, email)
		if studentErr != nil {
			return nil, studentErr
		}
		subjectType = domain.SubjectTypeStudent
		subjectID = student.ID
	} else {
		return nil, err
	}

	token := &repository.PasswordResetToken{
		SubjectType: subjectType,
		SubjectID:   subjectID,
		Token:       uuid.NewString(),
		ExpiresAt:   time.Now().Add(s.resetTTL),
	}
	if err := s.resets.Create(ctx, token); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventPasswordReset,
			SubjectID: subjectID,
			Actor:     events.Actor{Type: subjectType},
			Timestamp: time.Now(),
			Payload: events.PasswordResetPayload{
				Email:     email,
				Token:     token.Token,
				ExpiresAt: token.ExpiresAt,
			},
		})
	}
	return token, nil
}

// ConfirmPasswordReset validates the reset token and updates the password.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, tokenStr, newPassword string) error {
	token, err := s.resets.GetByToken(ctx, tokenStr)
	if err != nil {
		return err
	}
	if token.UsedAt != nil || time.Now().After(token.ExpiresAt) {
		return apperrors.NewValidationError("token expired or used", nil)
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}

	switch token.SubjectType {
	case domain.SubjectTypeStudent:
		student, err := s.students.GetByID(ctx, token.SubjectID)
		if err != nil {
			return err
		}
		student.PasswordHash = hash
		if err := s.students.Update(ctx, student); err != nil {
			return err
		}
		s.cache.InvalidateProfile(ctx, "student:"+student.ID)
	case domain.SubjectTypeStaff:
		staff, err := s.staff.GetByID(ctx, token.SubjectID)
		if err != nil {
			return err
		}
		staff.PasswordHash = hash
		if err := s.staff.Update(ctx, staff); err != nil {
			return err
		}
		s.cache.InvalidateProfile(ctx, "staff:"+staff.ID)
	default:
		return errors.New("unknown subject type")
	}

	return s.resets.MarkUsed(ctx, token.ID)
}

// ChangePassword verifies current password before updating to new hash.
func (s *AuthService) ChangePassword(ctx context.Context, subject AuthSubject, currentPassword, newPassword string) error {
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}

	switch subject.Type {
	case domain.SubjectTypeStudent:
		student, err := s.students.GetByID(ctx, subject.ID)
		if err != nil {
			return err
		}
		if auth.ComparePassword(student.PasswordHash, currentPassword) != nil {
			return apperrors.NewInvalidCredentials()
		}
		student.PasswordHash = hash
		if err := s.students.Update(ctx, student); err != nil {
			return err
		}
		s.cache.InvalidateProfile(ctx, "student:"+student.ID)
		return nil
	case domain.SubjectTypeStaff:
		staff, err := s.staff.GetByID(ctx, subject.ID)
		if err != nil {
			return err
		}
		if auth.ComparePassword(staff.PasswordHash, currentPassword) != nil {
			return apperrors.NewInvalidCredentials()
		}
		staff.PasswordHash = hash
		if err := s.staff.Update(ctx, staff); err != nil {
			return err
		}
		s.cache.InvalidateProfile(ctx, "staff:"+staff.ID)
		return nil
	default:
		return errors.New("unknown subject")
	}
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
