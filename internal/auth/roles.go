package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/compliance-service/internal/domain"
	apperrors "github.com/spec-kit/compliance-service/pkg/util"
)

// RequireRole ensures the principal has one of the allowed roles.
// With no roles listed, any authenticated user passes.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.User == nil {
			return apperrors.NewUnauthorized("authentication required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.User.Role]; !exists {
			return apperrors.NewForbidden("insufficient role", map[string]any{
				"required_roles": allowed,
				"actual_role":    principal.User.Role,
			})
		}
		return c.Next()
	}
}

// RequireManagerial shortcuts the manager-and-above check used by most
// management surfaces.
func RequireManagerial() fiber.Handler {
	return RequireRole(domain.RoleManager, domain.RoleOwner, domain.RoleAdmin)
}
