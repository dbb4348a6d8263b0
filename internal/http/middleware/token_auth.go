package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/keremkk/kisalink/internal/app/model"
	"github.com/keremkk/kisalink/internal/app/service"
	"go.uber.org/zap"
)

const tokenLocalsKey = "api_token"

// TokenAuth authenticates the Bearer credential, stashes the token in the
// request locals and writes one usage-ledger row with the final status
// after the handler runs.
func TokenAuth(tokens service.TokenService, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth := c.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Authorization header required",
			})
		}

		ctx := c.UserContext()
		if ctx == nil {
			ctx = context.Background()
		}

		token, err := tokens.Authenticate(ctx, strings.TrimPrefix(auth, "Bearer "))
		if err != nil {
			switch {
			case errors.Is(err, service.ErrRateLimited):
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"success": false,
					"error":   "Rate limit exceeded",
				})
			case errors.Is(err, service.ErrTokenExpired):
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"success": false,
					"error":   "Token has expired",
				})
			case errors.Is(err, service.ErrTokenInvalid):
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"success": false,
					"error":   "Invalid or inactive token",
				})
			default:
				logger.Error("token authentication failed", zap.Error(err))
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"success": false,
					"error":   "Token validation failed",
				})
			}
		}

		c.Locals(tokenLocalsKey, token)

		handlerErr := c.Next()

		// Ledger rows drive the hourly rate limit, so every call is
		// logged regardless of outcome.
		tokens.LogUsage(context.Background(), token, c.Path(), c.Method(), c.Response().StatusCode())

		return handlerErr
	}
}

// TokenFromCtx returns the authenticated token set by TokenAuth.
func TokenFromCtx(c *fiber.Ctx) *model.APIToken {
	token, _ := c.Locals(tokenLocalsKey).(*model.APIToken)
	return token
}
