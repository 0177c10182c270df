package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/fitcore/gym-service/internal/auth"
	"github.com/fitcore/gym-service/internal/config"
	"github.com/fitcore/gym-service/internal/domain"
	"github.com/fitcore/gym-service/internal/repository"
	"github.com/fitcore/gym-service/internal/service"
	apperrors "github.com/fitcore/gym-service/pkg/util"
)

type fakeStudentRepo struct {
	byEmail map[string]*domain.Student
}

func (r *fakeStudentRepo) Create(context.Context, *domain.Student) error { return nil }
func (r *fakeStudentRepo) Delete(context.Context, string) error          { return nil }

func (r *fakeStudentRepo) Update(_ context.Context, student *domain.Student) error {
	r.byEmail[student.Email] = student
	return nil
}

func (r *fakeStudentRepo) GetByID(_ context.Context, id string) (*domain.Student, error) {
	for _, s := range r.byEmail {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeStudentRepo) GetByEmail(_ context.Context, email string) (*domain.Student, error) {
	if s, ok := r.byEmail[email]; ok {
		return s, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeStudentRepo) List(context.Context, repository.StudentFilter) ([]domain.Student, error) {
	return nil, nil
}

type fakeStaffRepo struct {
	byEmail map[string]*domain.StaffUser
}

func (r *fakeStaffRepo) Create(context.Context, *domain.StaffUser) error { return nil }

func (r *fakeStaffRepo) Update(_ context.Context, staff *domain.StaffUser) error {
	r.byEmail[staff.Email] = staff
	return nil
}

func (r *fakeStaffRepo) GetByID(_ context.Context, id string) (*domain.StaffUser, error) {
	for _, s := range r.byEmail {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeStaffRepo) GetByEmail(_ context.Context, email string) (*domain.StaffUser, error) {
	if s, ok := r.byEmail[email]; ok {
		return s, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeStaffRepo) List(context.Context, repository.StaffFilter) ([]domain.StaffUser, error) {
	return nil, nil
}

type fakePasswordResetRepo struct {
	byToken map[string]*repository.PasswordResetToken
	nextID  int
}

func newFakePasswordResetRepo() *fakePasswordResetRepo {
	return &fakePasswordResetRepo{byToken: map[string]*repository.PasswordResetToken{}}
}

func (r *fakePasswordResetRepo) Create(_ context.Context, token *repository.PasswordResetToken) error {
	r.nextID++
	token.ID = fmt.Sprintf("reset-%d", r.nextID)
	token.CreatedAt = time.Now()
	r.byToken[token.Token] = token
	return nil
}

func (r *fakePasswordResetRepo) GetByToken(_ context.Context, tokenStr string) (*repository.PasswordResetToken, error) {
	if token, ok := r.byToken[tokenStr]; ok {
		copied := *token
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakePasswordResetRepo) MarkUsed(_ context.Context, id string) error {
	for _, token := range r.byToken {
		if token.ID == id {
			if token.UsedAt != nil {
				return pgx.ErrNoRows
			}
			now := time.Now()
			token.UsedAt = &now
			return nil
		}
	}
	return pgx.ErrNoRows
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := auth.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)
	return hash
}

func newAuthService(t *testing.T) *service.AuthService {
	t.Helper()

	staff := &fakeStaffRepo{byEmail: map[string]*domain.StaffUser{
		"admin@example.com": {
			ID:           "admin-1",
			Name:         "Admin",
			Email:        "admin@example.com",
			PasswordHash: mustHash(t, "admin123"),
			Role:         domain.StaffRoleAdministrator,
			Active:       true,
		},
		"inactive@example.com": {
			ID:           "staff-2",
			Email:        "inactive@example.com",
			PasswordHash: mustHash(t, "secret"),
			Role:         domain.StaffRoleAttendant,
			Active:       false,
		},
	}}
	students := &fakeStudentRepo{byEmail: map[string]*domain.Student{
		"ana@example.com": {
			ID:           "student-1",
			FullName:     "Ana Silva",
			Email:        "ana@example.com",
			PasswordHash: mustHash(t, "ana-secret"),
			Status:       domain.StudentStatusActive,
		},
		"inativo@example.com": {
			ID:           "student-2",
			Email:        "inativo@example.com",
			PasswordHash: mustHash(t, "secret"),
			Status:       domain.StudentStatusInactive,
		},
	}}

	cfg := config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.AccessTokenTTLMinutes = 60
	cfg.Auth.BcryptCost = bcrypt.MinCost

	return service.NewAuthService(cfg, service.AuthDependencies{
		StudentRepo: students,
		StaffRepo:   staff,
	})
}

func newResetFixture(t *testing.T) (*service.AuthService, *fakeStudentRepo, *fakeStaffRepo, *fakePasswordResetRepo) {
	t.Helper()

	staff := &fakeStaffRepo{byEmail: map[string]*domain.StaffUser{
		"admin@example.com": {
			ID:           "admin-1",
			Name:         "Admin",
			Email:        "admin@example.com",
			PasswordHash: mustHash(t, "admin123"),
			Role:         domain.StaffRoleAdministrator,
			Active:       true,
		},
	}}
	students := &fakeStudentRepo{byEmail: map[string]*domain.Student{
		"ana@example.com": {
			ID:           "student-1",
			FullName:     "Ana Silva",
			Email:        "ana@example.com",
			PasswordHash: mustHash(t, "ana-secret"),
			Status:       domain.StudentStatusActive,
		},
	}}
	resets := newFakePasswordResetRepo()

	cfg := config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.AccessTokenTTLMinutes = 60
	cfg.Auth.PasswordResetTTLMinutes = 30
	cfg.Auth.BcryptCost = bcrypt.MinCost

	svc := service.NewAuthService(cfg, service.AuthDependencies{
		StudentRepo:       students,
		StaffRepo:         staff,
		PasswordResetRepo: resets,
	})
	return svc, students, staff, resets
}

func TestLoginStaffAdministrator(t *testing.T) {
	svc := newAuthService(t)

	result, err := svc.Login(context.Background(), "admin@example.com", "admin123")
	require.NoError(t, err)

	assert.Equal(t, domain.SubjectTypeStaff, result.Kind)
	require.NotNil(t, result.Staff)
	assert.Equal(t, domain.StaffRoleAdministrator, result.Staff.Role)
	assert.Nil(t, result.Student)
	assert.NotEmpty(t, result.Token)

	claims, err := svc.TokenManager().ParseToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", claims.SubjectID)
	require.NotNil(t, claims.Role)
	assert.Equal(t, domain.StaffRoleAdministrator, *claims.Role)
}

func TestLoginStudent(t *testing.T) {
	svc := newAuthService(t)

	result, err := svc.Login(context.Background(), "ana@example.com", "ana-secret")
	require.NoError(t, err)

	assert.Equal(t, domain.SubjectTypeStudent, result.Kind)
	require.NotNil(t, result.Student)
	assert.Nil(t, result.Staff)

	claims, err := svc.TokenManager().ParseToken(result.Token)
	require.NoError(t, err)
	assert.Nil(t, claims.Role)
}

// Every login failure mode must be indistinguishable from the outside:
// same code, same message, same status.
func TestLoginFailuresAreUniform(t *testing.T) {
	svc := newAuthService(t)

	cases := []struct {
		name       string
		identifier string
		secret     string
	}{
		{"unknown identifier", "nobody@example.com", "whatever"},
		{"staff wrong secret", "admin@example.com", "wrong"},
		{"student wrong secret", "ana@example.com", "wrong"},
		{"inactive staff right secret", "inactive@example.com", "secret"},
		{"inactive student right secret", "inativo@example.com", "secret"},
	}

	var reference *apperrors.DomainError
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := svc.Login(context.Background(), tc.identifier, tc.secret)
			assert.Nil(t, result)
			require.Error(t, err)

			domainErr := apperrors.ToDomainError(err)
			assert.Equal(t, apperrors.CodeInvalidCredentials, domainErr.Code)
			assert.Equal(t, 401, domainErr.HTTPStatus)

			if reference == nil {
				reference = domainErr
				return
			}
			assert.Equal(t, reference.Code, domainErr.Code)
			assert.Equal(t, reference.Message, domainErr.Message)
			assert.Equal(t, reference.HTTPStatus, domainErr.HTTPStatus)
		})
	}
}

func TestLoginPrefersStaffOnSharedEmail(t *testing.T) {
	svc := newAuthService(t)

	// Same address exists on both tables in this setup only through the
	// staff entry; the staff table is always consulted first.
	result, err := svc.Login(context.Background(), "admin@example.com", "admin123")
	require.NoError(t, err)
	assert.Equal(t, domain.SubjectTypeStaff, result.Kind)
}

func TestPasswordResetHappyPathConsumesToken(t *testing.T) {
	svc, _, _, resets := newResetFixture(t)
	ctx := context.Background()

	token, err := svc.RequestPasswordReset(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.SubjectTypeStudent, token.SubjectType)
	assert.True(t, token.ExpiresAt.After(time.Now()))

	require.NoError(t, svc.ConfirmPasswordReset(ctx, token.Token, "fresh-secret"))

	// The new secret works and the old one is dead.
	result, err := svc.Login(ctx, "ana@example.com", "fresh-secret")
	require.NoError(t, err)
	assert.Equal(t, domain.SubjectTypeStudent, result.Kind)

	_, err = svc.Login(ctx, "ana@example.com", "ana-secret")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidCredentials, apperrors.ToDomainError(err).Code)

	stored := resets.byToken[token.Token]
	require.NotNil(t, stored)
	assert.NotNil(t, stored.UsedAt, "confirmed token must be consumed")
}

// A reset token is single-use: confirming it a second time fails even
// within its TTL, and the password from the first confirm stays.
func TestPasswordResetTokenIsSingleUse(t *testing.T) {
	svc, _, _, _ := newResetFixture(t)
	ctx := context.Background()

	token, err := svc.RequestPasswordReset(ctx, "ana@example.com")
	require.NoError(t, err)
	require.NoError(t, svc.ConfirmPasswordReset(ctx, token.Token, "first-secret"))

	err = svc.ConfirmPasswordReset(ctx, token.Token, "second-secret")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidationFailed, apperrors.ToDomainError(err).Code)

	_, err = svc.Login(ctx, "ana@example.com", "first-secret")
	assert.NoError(t, err)
	_, err = svc.Login(ctx, "ana@example.com", "second-secret")
	assert.Error(t, err)
}

func TestPasswordResetRejectsExpiredToken(t *testing.T) {
	svc, _, _, resets := newResetFixture(t)
	ctx := context.Background()

	stale := &repository.PasswordResetToken{
		SubjectType: domain.SubjectTypeStudent,
		SubjectID:   "student-1",
		Token:       "stale-token",
		ExpiresAt:   time.Now().Add(-time.Minute),
	}
	require.NoError(t, resets.Create(ctx, stale))

	err := svc.ConfirmPasswordReset(ctx, "stale-token", "too-late")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidationFailed, apperrors.ToDomainError(err).Code)

	// The old password still stands.
	_, err = svc.Login(ctx, "ana@example.com", "ana-secret")
	assert.NoError(t, err)
}

func TestPasswordResetUnknownTokenIsNotFound(t *testing.T) {
	svc, _, _, _ := newResetFixture(t)

	err := svc.ConfirmPasswordReset(context.Background(), "no-such-token", "whatever")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.ToDomainError(err).Code)
}

func TestPasswordResetForStaffUpdatesStaffHash(t *testing.T) {
	svc, _, staff, _ := newResetFixture(t)
	ctx := context.Background()

	token, err := svc.RequestPasswordReset(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.SubjectTypeStaff, token.SubjectType)

	require.NoError(t, svc.ConfirmPasswordReset(ctx, token.Token, "new-admin-secret"))

	updated := staff.byEmail["admin@example.com"]
	require.NoError(t, auth.ComparePassword(updated.PasswordHash, "new-admin-secret"))

	result, err := svc.Login(ctx, "admin@example.com", "new-admin-secret")
	require.NoError(t, err)
	assert.Equal(t, domain.SubjectTypeStaff, result.Kind)
}
