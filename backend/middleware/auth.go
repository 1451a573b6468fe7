package middleware

import (
	"studyhub/backend/config"
	"studyhub/backend/utils"

	"github.com/gofiber/fiber/v2"
)

// UserIDKey is the fiber locals key holding the authenticated user id.
const UserIDKey = "user_id"

// AuthMiddleware validates the JWT and stores the user id in locals so
// handlers receive an already-authenticated id.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := utils.ExtractUserIDFromToken(c, cfg)
		if err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}
		c.Locals(UserIDKey, userID)
		return c.Next()
	}
}

// AuthenticatedUserID returns the user id placed in locals by AuthMiddleware.
func AuthenticatedUserID(c *fiber.Ctx) uint {
	if id, ok := c.Locals(UserIDKey).(uint); ok {
		return id
	}
	return 0
}
