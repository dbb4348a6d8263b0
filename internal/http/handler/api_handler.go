package handler

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/keremkk/kisalink/internal/app/model"
	"github.com/keremkk/kisalink/internal/app/repository"
	"github.com/keremkk/kisalink/internal/app/service"
	"github.com/keremkk/kisalink/internal/http/middleware"
	"github.com/keremkk/kisalink/internal/infra/discord"
	"go.uber.org/zap"
)

// APIDeps groups dependencies required by API handlers.
type APIDeps struct {
	Logger   *zap.Logger
	Links    service.LinkService
	Tokens   service.TokenService
	Notifier *discord.Client
	BaseURL  string
}

// APIHandler implements the token-gated programmatic API.
type APIHandler struct {
	logger   *zap.Logger
	links    service.LinkService
	tokens   service.TokenService
	notifier *discord.Client
	baseURL  string
}

// NewAPIHandler creates an API handler with the provided dependencies.
func NewAPIHandler(deps APIDeps) *APIHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &APIHandler{
		logger:   logger,
		links:    deps.Links,
		tokens:   deps.Tokens,
		notifier: deps.Notifier,
		baseURL:  deps.BaseURL,
	}
}

// Register wires API routes onto the provided router. The router is
// expected to already carry the TokenAuth middleware.
func (h *APIHandler) Register(router fiber.Router) {
	v1 := router.Group("/v1")
	{
		links := v1.Group("/links")
		{
			links.Post("/", h.CreateLink)
			links.Get("/", h.ListLinks)
			links.Get("/:id", h.GetLink)
			links.Delete("/:id", h.DeleteLink)
		}
		v1.Get("/stats", h.Stats)
	}
}

// CreateLinkRequest represents the request body for creating a link.
type CreateLinkRequest struct {
	OriginalURL string `json:"originalUrl"`
	CustomURL   string `json:"customUrl,omitempty"`
}

// LinkResponse represents one link in API responses.
type LinkResponse struct {
	ID            string     `json:"id"`
	OriginalURL   string     `json:"originalUrl"`
	ShortCode     string     `json:"shortCode"`
	ShortURL      string     `json:"shortUrl"`
	IsCustom      bool       `json:"isCustom"`
	Clicks        int64      `json:"clicks"`
	CreatedAt     time.Time  `json:"createdAt"`
	LastClickedAt *time.Time `json:"lastClickedAt,omitempty"`
}

func (h *APIHandler) linkResponse(link *model.Link) LinkResponse {
	return LinkResponse{
		ID:            link.ID,
		OriginalURL:   link.OriginalURL,
		ShortCode:     link.ShortCode,
		ShortURL:      h.baseURL + "/" + link.ShortCode,
		IsCustom:      link.IsCustom,
		Clicks:        link.Clicks,
		CreatedAt:     link.CreatedAt,
		LastClickedAt: link.LastClickedAt,
	}
}

// CreateLink handles POST /api/v1/links.
func (h *APIHandler) CreateLink(c *fiber.Ctx) error {
	token := middleware.TokenFromCtx(c)
	if err := h.tokens.RequirePermission(token, model.ResourceLinks, model.ActionCreate); err != nil {
		return forbidden(c)
	}

	var req CreateLinkRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	ctx := requestCtx(c)
	link, err := h.links.Create(ctx, service.CreateLinkInput{
		OwnerID:       token.UserID,
		OwnerEmail:    token.UserEmail,
		OriginalURL:   req.OriginalURL,
		CustomCode:    req.CustomURL,
		CreatedViaAPI: true,
		APITokenID:    token.ID,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidURL):
			return badRequest(c, "Valid originalUrl is required")
		case errors.Is(err, service.ErrInvalidCustomCode), errors.Is(err, service.ErrReservedCode):
			return badRequest(c, "Invalid custom URL format")
		case errors.Is(err, service.ErrCodeTaken):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"success": false,
				"error":   "Custom URL already exists",
			})
		default:
			h.logger.Error("failed to create link", zap.Error(err))
			return internalError(c)
		}
	}

	if h.notifier != nil && h.notifier.Enabled() {
		go h.notifyNewLink(token.UserEmail, link)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    h.linkResponse(link),
	})
}

// ListLinks handles GET /api/v1/links.
func (h *APIHandler) ListLinks(c *fiber.Ctx) error {
	token := middleware.TokenFromCtx(c)
	if err := h.tokens.RequirePermission(token, model.ResourceLinks, model.ActionRead); err != nil {
		return forbidden(c)
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)

	links, total, err := h.links.List(requestCtx(c), token.UserID, page, limit)
	if err != nil {
		h.logger.Error("failed to list links", zap.Error(err))
		return internalError(c)
	}

	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > service.MaxPageSize {
		limit = service.MaxPageSize
	}

	data := make([]LinkResponse, len(links))
	for i := range links {
		data[i] = h.linkResponse(&links[i])
	}

	totalPages := total / int64(limit)
	if total%int64(limit) != 0 {
		totalPages++
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
		"pagination": fiber.Map{
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": totalPages,
		},
	})
}

// GetLink handles GET /api/v1/links/:id.
func (h *APIHandler) GetLink(c *fiber.Ctx) error {
	token := middleware.TokenFromCtx(c)
	if err := h.tokens.RequirePermission(token, model.ResourceLinks, model.ActionRead); err != nil {
		return forbidden(c)
	}

	link, err := h.links.Get(requestCtx(c), c.Params("id"), token.UserID)
	if err != nil {
		return h.linkError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    h.linkResponse(link),
	})
}

// DeleteLink handles DELETE /api/v1/links/:id. Hard delete; the click
// history on the record goes with it.
func (h *APIHandler) DeleteLink(c *fiber.Ctx) error {
	token := middleware.TokenFromCtx(c)
	if err := h.tokens.RequirePermission(token, model.ResourceLinks, model.ActionDelete); err != nil {
		return forbidden(c)
	}

	link, err := h.links.Delete(requestCtx(c), c.Params("id"), token.UserID)
	if err != nil {
		return h.linkError(c, err)
	}

	if h.notifier != nil && h.notifier.Enabled() {
		go h.notifyLinkDeleted(token.UserEmail, link)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Link deleted successfully",
	})
}

// Stats handles GET /api/v1/stats.
func (h *APIHandler) Stats(c *fiber.Ctx) error {
	token := middleware.TokenFromCtx(c)
	if err := h.tokens.RequirePermission(token, model.ResourceStats, model.ActionRead); err != nil {
		return forbidden(c)
	}

	stats, err := h.links.Stats(requestCtx(c), token.UserID)
	if err != nil {
		h.logger.Error("failed to compute stats", zap.Error(err))
		return internalError(c)
	}

	recent := make([]LinkResponse, len(stats.RecentLinks))
	for i := range stats.RecentLinks {
		recent[i] = h.linkResponse(&stats.RecentLinks[i])
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"totalLinks":     stats.TotalLinks,
			"totalClicks":    stats.TotalClicks,
			"recentLinks":    recent,
			"clicksOverTime": stats.ClicksOverTime,
		},
	})
}

func (h *APIHandler) linkError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, repository.ErrLinkNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Link not found",
		})
	case errors.Is(err, service.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"error":   "Access denied",
		})
	default:
		h.logger.Error("link operation failed", zap.Error(err))
		return internalError(c)
	}
}

func (h *APIHandler) notifyNewLink(userEmail string, link *model.Link) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	embed := discord.NewLinkEmbed(userEmail, link.OriginalURL, link.ShortCode, h.baseURL+"/"+link.ShortCode, link.IsCustom)
	if err := h.notifier.Send(ctx, "", embed); err != nil {
		h.logger.Warn("failed to send new-link notification",
			zap.String("code", link.ShortCode),
			zap.Error(err))
	}
}

func (h *APIHandler) notifyLinkDeleted(userEmail string, link *model.Link) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	embed := discord.LinkDeletedEmbed(userEmail, link.ShortCode, link.OriginalURL, link.Clicks)
	if err := h.notifier.Send(ctx, "", embed); err != nil {
		h.logger.Warn("failed to send link-deleted notification",
			zap.String("code", link.ShortCode),
			zap.Error(err))
	}
}

func requestCtx(c *fiber.Ctx) context.Context {
	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}
	return ctx
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"error":   msg,
	})
}

func forbidden(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
		"success": false,
		"error":   "Insufficient permissions",
	})
}

func internalError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"error":   "Internal server error",
	})
}
