package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/fitcore/gym-service/internal/api/dto"
	"github.com/fitcore/gym-service/internal/auth"
	"github.com/fitcore/gym-service/internal/domain"
	"github.com/fitcore/gym-service/internal/service"
	apperrors "github.com/fitcore/gym-service/pkg/util"
)

// AuthHandler exposes the login and token endpoints.
type AuthHandler struct {
	authService *service.AuthService
	middleware  *auth.AuthMiddleware
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, middleware *auth.AuthMiddleware) *AuthHandler {
	return &AuthHandler{authService: authService, middleware: middleware}
}

// Login handles POST /login for both principal kinds.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Identifier == "" || req.Secret == "" {
		return apperrors.NewValidationError("identifier and secret required", nil)
	}

	result, err := h.authService.Login(c.Context(), req.Identifier, req.Secret)
	if err != nil {
		return err
	}

	resp := dto.LoginResponse{
		Kind: string(result.Kind),
		Auth: dto.AuthResponse{Token: result.Token, ExpiresAt: result.ExpiresAt},
	}
	switch result.Kind {
	case domain.SubjectTypeStaff:
		resp.Staff = &dto.StaffProfile{
			ID:    result.Staff.ID,
			Name:  result.Staff.Name,
			Email: result.Staff.Email,
			Role:  result.Staff.Role,
		}
	case domain.SubjectTypeStudent:
		resp.Student = &dto.StudentProfile{
			ID:       result.Student.ID,
			FullName: result.Student.FullName,
			Email:    result.Student.Email,
			PlanID:   result.Student.PlanID,
		}
	}

	return c.JSON(fiber.Map{"data": resp})
}

// VerifyToken handles GET /auth/verify-token. It reports validity and
// never fails: expired or malformed tokens answer {"valid": false} with
// HTTP 200.
func (h *AuthHandler) VerifyToken(c *fiber.Ctx) error {
	return c.JSON(dto.VerifyTokenResponse{Valid: h.middleware.VerifyToken(c)})
}

// RequestPasswordReset handles POST /auth/password/reset/request.
func (h *AuthHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" {
		return apperrors.NewValidationError("email required", nil)
	}

	token, err := h.authService.RequestPasswordReset(c.Context(), req.Email)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.Status(http.StatusAccepted).JSON(fiber.Map{
		"data": fiber.Map{
			"reset_token": token.Token,
			"expires_at":  token.ExpiresAt,
		},
	})
}

// ConfirmPasswordReset handles POST /auth/password/reset/confirm.
func (h *AuthHandler) ConfirmPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Token == "" || req.NewPassword == "" {
		return apperrors.NewValidationError("token and new password required", nil)
	}

	if err := h.authService.ConfirmPasswordReset(c.Context(), req.Token, req.NewPassword); err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "password_reset"}})
}

// ChangePassword handles POST /auth/password/change.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewMissingToken()
	}

	var req dto.PasswordChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return apperrors.NewValidationError("current and new password required", nil)
	}

	subject := service.AuthSubject{Type: principal.SubjectType}
	switch principal.SubjectType {
	case domain.SubjectTypeStudent:
		subject.ID = principal.Student.ID
	case domain.SubjectTypeStaff:
		subject.ID = principal.Staff.ID
	default:
		return apperrors.NewInvalidToken()
	}

	if err := h.authService.ChangePassword(c.Context(), subject, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "password_changed"}})
}
