package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/fitcore/gym-service/internal/api/http"
	"github.com/fitcore/gym-service/internal/auth"
	"github.com/fitcore/gym-service/internal/domain"
	"github.com/fitcore/gym-service/internal/observability"
	"github.com/fitcore/gym-service/internal/repository"
)

type stubStudentRepo struct {
	students map[string]*domain.Student
}

func (r *stubStudentRepo) Create(context.Context, *domain.Student) error { return nil }
func (r *stubStudentRepo) Update(context.Context, *domain.Student) error { return nil }
func (r *stubStudentRepo) Delete(context.Context, string) error          { return nil }

func (r *stubStudentRepo) GetByID(_ context.Context, id string) (*domain.Student, error) {
	if s, ok := r.students[id]; ok {
		return s, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *stubStudentRepo) GetByEmail(_ context.Context, email string) (*domain.Student, error) {
	for _, s := range r.students {
		if s.Email == email {
			return s, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *stubStudentRepo) List(context.Context, repository.StudentFilter) ([]domain.Student, error) {
	return nil, nil
}

type stubStaffRepo struct {
	staff map[string]*domain.StaffUser
}

func (r *stubStaffRepo) Create(context.Context, *domain.StaffUser) error { return nil }
func (r *stubStaffRepo) Update(context.Context, *domain.StaffUser) error { return nil }

func (r *stubStaffRepo) GetByID(_ context.Context, id string) (*domain.StaffUser, error) {
	if s, ok := r.staff[id]; ok {
		return s, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *stubStaffRepo) GetByEmail(_ context.Context, email string) (*domain.StaffUser, error) {
	for _, s := range r.staff {
		if s.Email == email {
			return s, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *stubStaffRepo) List(context.Context, repository.StaffFilter) ([]domain.StaffUser, error) {
	return nil, nil
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newTestApp(t *testing.T) (*fiber.App, *auth.TokenManager, *auth.AuthMiddleware) {
	t.Helper()

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	students := &stubStudentRepo{students: map[string]*domain.Student{
		"student-1": {ID: "student-1", FullName: "Ana Silva", Email: "ana@example.com", Status: domain.StudentStatusActive},
	}}
	staff := &stubStaffRepo{staff: map[string]*domain.StaffUser{
		"admin-1":     {ID: "admin-1", Name: "Admin", Email: "admin@example.com", Role: domain.StaffRoleAdministrator, Active: true},
		"attendant-1": {ID: "attendant-1", Name: "Carlos", Email: "carlos@example.com", Role: domain.StaffRoleAttendant, Active: true},
	}}

	middleware := auth.NewAuthMiddleware(tokens, students, staff, nil)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)

	ok := func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"data": "ok"})
	}
	app.Get("/staff-only", middleware.Handle, auth.RequireStaffRole(), ok)
	app.Get("/admin-only", middleware.Handle, auth.RequireStaffRole(domain.StaffRoleAdministrator), ok)
	app.Get("/portal", middleware.Handle, auth.RequireStudent(), ok)
	app.Get("/verify", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"valid": middleware.VerifyToken(c)})
	})

	return app, tokens, middleware
}

func doRequest(t *testing.T, app *fiber.App, path, token string) (*http.Response, errorBody) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)

	var body errorBody
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp, body
}

func TestMissingTokenRejected(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp, body := doRequest(t, app, "/staff-only", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", body.Error.Code)
}

func TestMalformedHeaderRejectedAsMissing(t *testing.T) {
	app, _, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/staff-only", nil)
	req.Header.Set("Authorization", "Token abc")
	resp, err := app.Test(req)
	require.NoError(t, err)

	var body errorBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", body.Error.Code)
}

func TestInvalidTokenRejected(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp, body := doRequest(t, app, "/staff-only", "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_OR_EXPIRED_TOKEN", body.Error.Code)
}

func TestExpiredTokenRejectedOnProtectedRoute(t *testing.T) {
	app, _, _ := newTestApp(t)

	expired := auth.NewTokenManager("test-secret", -time.Minute)
	token, _, err := expired.GenerateToken("admin-1", domain.SubjectTypeStaff, nil)
	require.NoError(t, err)

	resp, body := doRequest(t, app, "/staff-only", token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_OR_EXPIRED_TOKEN", body.Error.Code)
}

func TestTokenForDeletedPrincipalRejected(t *testing.T) {
	app, tokens, _ := newTestApp(t)

	token, _, err := tokens.GenerateToken("ghost", domain.SubjectTypeStudent, nil)
	require.NoError(t, err)

	resp, body := doRequest(t, app, "/portal", token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_OR_EXPIRED_TOKEN", body.Error.Code)
}

func TestStaffTokenPassesStaffRoute(t *testing.T) {
	app, tokens, _ := newTestApp(t)

	role := domain.StaffRoleAttendant
	token, _, err := tokens.GenerateToken("attendant-1", domain.SubjectTypeStaff, &role)
	require.NoError(t, err)

	resp, _ := doRequest(t, app, "/staff-only", token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// A valid student token on a staff route is an authorization failure,
// not an authentication one: 403, never 401.
func TestStudentTokenForbiddenOnStaffRoute(t *testing.T) {
	app, tokens, _ := newTestApp(t)

	token, _, err := tokens.GenerateToken("student-1", domain.SubjectTypeStudent, nil)
	require.NoError(t, err)

	resp, body := doRequest(t, app, "/staff-only", token)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", body.Error.Code)
}

func TestAttendantForbiddenOnAdminRoute(t *testing.T) {
	app, tokens, _ := newTestApp(t)

	role := domain.StaffRoleAttendant
	token, _, err := tokens.GenerateToken("attendant-1", domain.SubjectTypeStaff, &role)
	require.NoError(t, err)

	resp, body := doRequest(t, app, "/admin-only", token)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", body.Error.Code)
}

func TestAdminPassesAdminRoute(t *testing.T) {
	app, tokens, _ := newTestApp(t)

	role := domain.StaffRoleAdministrator
	token, _, err := tokens.GenerateToken("admin-1", domain.SubjectTypeStaff, &role)
	require.NoError(t, err)

	resp, _ := doRequest(t, app, "/admin-only", token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestStudentPassesPortalRoute(t *testing.T) {
	app, tokens, _ := newTestApp(t)

	token, _, err := tokens.GenerateToken("student-1", domain.SubjectTypeStudent, nil)
	require.NoError(t, err)

	resp, _ := doRequest(t, app, "/portal", token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// VerifyToken always answers 200 with a verdict, even for garbage or
// absent tokens.
func TestVerifyTokenNeverFails(t *testing.T) {
	app, tokens, _ := newTestApp(t)

	cases := []struct {
		name  string
		token string
		valid bool
	}{
		{"no token", "", false},
		{"garbage", "garbage", false},
		{"valid", "", true},
	}

	validToken, _, err := tokens.GenerateToken("student-1", domain.SubjectTypeStudent, nil)
	require.NoError(t, err)
	cases[2].token = validToken

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/verify", nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode)

			var body struct {
				Valid bool `json:"valid"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tc.valid, body.Valid)
		})
	}
}

func TestVerifyTokenExpiredReportsInvalid(t *testing.T) {
	app, _, _ := newTestApp(t)

	expired := auth.NewTokenManager("test-secret", -time.Minute)
	token, _, err := expired.GenerateToken("student-1", domain.SubjectTypeStudent, nil)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/verify", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Valid bool `json:"valid"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Valid)
}
