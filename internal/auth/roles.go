package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/repair-shop-service/internal/domain"
)

// RequireRole gates a route group on the guard: the caller must hold the
// given role and, when requireProfile is set, a completed profile.
func RequireRole(role domain.Role, requireProfile bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, _ := PrincipalFromContext(c)
		if err := CheckAccess(principal, role, requireProfile); err != nil {
			return err
		}
		return c.Next()
	}
}

// RequireAuthenticated ensures the caller is authenticated, regardless of role.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, _ := PrincipalFromContext(c)
		if err := CheckAccess(principal, "", false); err != nil {
			return err
		}
		return c.Next()
	}
}
