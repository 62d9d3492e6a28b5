package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/user/papertrade/backend/internal/auth"
)

// UserIDKey is the Locals key under which the authenticated user id is stored.
const UserIDKey = "userID"

// Protected verifies the Authorization bearer token against the given
// resolvers, in order. The first resolver that recognizes the token wins.
// Requests without a resolvable token are rejected before any handler runs,
// so no state mutation can precede authentication.
func Protected(resolvers ...auth.Resolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				token := parts[1]
				for _, r := range resolvers {
					if userID, ok := r.Resolve(token); ok {
						c.Locals(UserIDKey, userID)
						return c.Next()
					}
				}
			}
		}

		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"error": fiber.Map{
				"code":    fiber.StatusUnauthorized,
				"message": "Unauthorized: Invalid or missing token",
			},
		})
	}
}
