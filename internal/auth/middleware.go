package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/fitcore/gym-service/internal/domain"
	"github.com/fitcore/gym-service/internal/persistence"
	"github.com/fitcore/gym-service/internal/repository"
	apperrors "github.com/fitcore/gym-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	SubjectType domain.SubjectType
	Student     *domain.Student
	Staff       *domain.StaffUser
	Role        *domain.StaffRole
}

// AuthMiddleware validates bearer tokens and loads principals. Profile
// lookups go through the redis cache first; the repository is the source
// of truth on a miss.
type AuthMiddleware struct {
	tokens   *TokenManager
	students repository.StudentRepository
	staff    repository.StaffRepository
	cache    *persistence.Redis
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, students repository.StudentRepository, staff repository.StaffRepository, cache *persistence.Redis) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, students: students, staff: staff, cache: cache}
}

// Handle enforces authentication for protected routes. Failure is
// terminal for the request; there are no retry semantics.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	claims, err := m.claimsFromRequest(c)
	if err != nil {
		return err
	}

	principal := &Principal{SubjectType: claims.Subject, Role: claims.Role}

	switch claims.Subject {
	case domain.SubjectTypeStudent:
		var student domain.Student
		if m.cache.GetProfile(c.Context(), "student:"+claims.SubjectID, &student) {
			principal.Student = &student
		} else {
			loaded, err := m.students.GetByID(c.Context(), claims.SubjectID)
			if err != nil {
				if err == pgx.ErrNoRows {
					return apperrors.NewInvalidToken()
				}
				return apperrors.MapError(err)
			}
			m.cache.SetProfile(c.Context(), "student:"+claims.SubjectID, loaded)
			principal.Student = loaded
		}
	case domain.SubjectTypeStaff:
		var staff domain.StaffUser
		if m.cache.GetProfile(c.Context(), "staff:"+claims.SubjectID, &staff) {
			principal.Staff = &staff
		} else {
			loaded, err := m.staff.GetByID(c.Context(), claims.SubjectID)
			if err != nil {
				if err == pgx.ErrNoRows {
					return apperrors.NewInvalidToken()
				}
				return apperrors.MapError(err)
			}
			m.cache.SetProfile(c.Context(), "staff:"+claims.SubjectID, loaded)
			principal.Staff = loaded
		}
	default:
		return apperrors.NewInvalidToken()
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

// VerifyToken reports whether the bearer token on the request is
// authentic and unexpired. It never fails: absent, malformed and expired
// tokens all report false.
func (m *AuthMiddleware) VerifyToken(c *fiber.Ctx) bool {
	_, err := m.claimsFromRequest(c)
	return err == nil
}

func (m *AuthMiddleware) claimsFromRequest(c *fiber.Ctx) (*Claims, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, apperrors.NewMissingToken()
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, apperrors.NewMissingToken()
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return nil, apperrors.NewInvalidToken()
	}
	return claims, nil
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
