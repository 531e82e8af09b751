package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/skillforge/lms-api/internal/utils"
)

// RequireRole guards a route group behind role membership. It expects
// JWTProtected to have populated the user_role local beforehand.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("user_role").(string)
		if !ok || role == "" {
			return utils.SendError(c, fiber.StatusForbidden, "role information missing")
		}
		if _, ok := allowed[role]; !ok {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}
		return c.Next()
	}
}
