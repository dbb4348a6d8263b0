package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

const AdminKeyHeader = "X-Admin-Key"

// AdminKey gates moderation endpoints behind a shared key. When no key is
// configured the endpoints are disabled entirely.
func AdminKey(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if key == "" {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "admin endpoints are disabled",
			})
		}

		provided := c.Get(AdminKeyHeader)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid admin key",
			})
		}

		return c.Next()
	}
}
