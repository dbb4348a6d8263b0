package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	RequestIDHeader    = "X-Request-ID"
	requestIDLocalsKey = "request_id"
)

// RequestID tags every request with an ID, honoring one supplied by the
// edge proxy, and echoes it back in the response header.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(RequestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals(requestIDLocalsKey, rid)
		c.Set(RequestIDHeader, rid)
		return c.Next()
	}
}

// RequestIDFromCtx returns the ID set by RequestID, or "" outside it.
func RequestIDFromCtx(c *fiber.Ctx) string {
	rid, _ := c.Locals(requestIDLocalsKey).(string)
	return rid
}
