package middleware

import "github.com/gofiber/fiber/v2"

const allowedHeaders = "Origin, Content-Type, Accept, Authorization, " + AdminKeyHeader

// CORS opens the API surface to browser clients. The redirect route does
// not care, but dashboards consuming /api/v1 do.
func CORS() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("Access-Control-Allow-Origin", "*")
		c.Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Set("Access-Control-Allow-Headers", allowedHeaders)
		c.Set("Access-Control-Max-Age", "86400")

		if c.Method() == fiber.MethodOptions {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.Next()
	}
}
