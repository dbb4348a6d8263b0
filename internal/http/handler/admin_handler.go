package handler

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/keremkk/kisalink/internal/app/model"
	"github.com/keremkk/kisalink/internal/app/repository"
	"github.com/keremkk/kisalink/internal/infra/discord"
	"go.uber.org/zap"
)

// AdminDeps groups dependencies required by the moderation handlers.
type AdminDeps struct {
	Logger   *zap.Logger
	Users    repository.UserRepository
	Clicks   repository.ClickEventRepository
	Notifier *discord.Client
}

// AdminHandler implements the user moderation surface. Routes are expected
// to sit behind the AdminKey middleware.
type AdminHandler struct {
	logger   *zap.Logger
	users    repository.UserRepository
	clicks   repository.ClickEventRepository
	notifier *discord.Client
}

// NewAdminHandler creates an admin handler with the provided dependencies.
func NewAdminHandler(deps AdminDeps) *AdminHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminHandler{
		logger:   logger,
		users:    deps.Users,
		clicks:   deps.Clicks,
		notifier: deps.Notifier,
	}
}

// Register wires moderation routes onto the provided router.
func (h *AdminHandler) Register(router fiber.Router) {
	users := router.Group("/users")
	{
		users.Get("/", h.ListUsers)
		users.Post("/:id/approve", h.ApproveUser)
		users.Post("/:id/ban", h.BanUser)
	}
	router.Get("/links/:code/clicks", h.LinkClicks)
}

// ListUsers handles GET /admin/users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	users, err := h.users.List(requestCtx(c), limit, offset)
	if err != nil {
		h.logger.Error("failed to list users", zap.Error(err))
		return internalError(c)
	}
	return c.JSON(fiber.Map{"users": users, "count": len(users)})
}

type moderationRequest struct {
	Value *bool `json:"value"`
}

// ApproveUser handles POST /admin/users/:id/approve. Body value defaults
// to true; sending {"value": false} revokes the approval.
func (h *AdminHandler) ApproveUser(c *fiber.Ctx) error {
	approved := parseModerationValue(c)

	user, err := h.users.SetApproved(requestCtx(c), c.Params("id"), approved)
	if err != nil {
		return h.userError(c, err)
	}
	return c.JSON(fiber.Map{"user": user})
}

// BanUser handles POST /admin/users/:id/ban. Body value defaults to true;
// sending {"value": false} lifts the ban.
func (h *AdminHandler) BanUser(c *fiber.Ctx) error {
	banned := parseModerationValue(c)

	user, err := h.users.SetBanned(requestCtx(c), c.Params("id"), banned)
	if err != nil {
		return h.userError(c, err)
	}

	if h.notifier != nil && h.notifier.Enabled() {
		go h.notifyBan(user, banned)
	}

	return c.JSON(fiber.Map{"user": user})
}

// LinkClicks handles GET /admin/links/:code/clicks, returning the most
// recent click events recorded for a short code.
func (h *AdminHandler) LinkClicks(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)

	events, err := h.clicks.ListByCode(requestCtx(c), c.Params("code"), limit)
	if err != nil {
		h.logger.Error("failed to list click events", zap.Error(err))
		return internalError(c)
	}
	return c.JSON(fiber.Map{"clicks": events, "count": len(events)})
}

func parseModerationValue(c *fiber.Ctx) bool {
	var req moderationRequest
	if err := c.BodyParser(&req); err == nil && req.Value != nil {
		return *req.Value
	}
	return true
}

func (h *AdminHandler) userError(c *fiber.Ctx, err error) error {
	if errors.Is(err, repository.ErrUserNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "user not found",
		})
	}
	h.logger.Error("user moderation failed", zap.Error(err))
	return internalError(c)
}

func (h *AdminHandler) notifyBan(user *model.User, banned bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := h.notifier.Send(ctx, "", discord.UserBanEmbed(user.Email, user.DisplayName, banned)); err != nil {
		h.logger.Warn("failed to send ban notification",
			zap.String("user_id", user.ID),
			zap.Error(err))
	}
}
