package handler

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/keremkk/kisalink/internal/app/repository"
	"github.com/keremkk/kisalink/internal/app/service"
	"github.com/keremkk/kisalink/internal/http/view"
	infraprometheus "github.com/keremkk/kisalink/internal/infra/prometheus"
	"go.uber.org/zap"
)

// RedirectDeps groups dependencies required by the redirect handler.
type RedirectDeps struct {
	Logger     *zap.Logger
	Links      service.LinkService
	Classifier *service.Classifier
	Accountant *service.ClickAccountant
}

// RedirectHandler resolves short codes and issues the redirect. Click
// accounting runs off the critical path; the redirect target is decided
// before accounting starts and never waits on it.
type RedirectHandler struct {
	logger     *zap.Logger
	links      service.LinkService
	classifier *service.Classifier
	accountant *service.ClickAccountant
}

// NewRedirectHandler creates a redirect handler with the provided dependencies.
func NewRedirectHandler(deps RedirectDeps) *RedirectHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedirectHandler{
		logger:     logger,
		links:      deps.Links,
		classifier: deps.Classifier,
		accountant: deps.Accountant,
	}
}

// Register wires redirect routes onto the provided router.
func (h *RedirectHandler) Register(router fiber.Router) {
	router.Get("/", h.Health)
	router.Get("/health", h.Health)
	router.Get("/:code", h.Resolve)
}

// Health is a simple root endpoint so we know the service is running.
func (h *RedirectHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"service": "kisalink",
		"status":  "ok",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// Resolve handles GET /:code.
func (h *RedirectHandler) Resolve(c *fiber.Ctx) error {
	code := c.Params("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "missing link code",
		})
	}

	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}

	link, err := h.links.Resolve(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			infraprometheus.RedirectsTotal.WithLabelValues(infraprometheus.OutcomeNotFound).Inc()
			return h.renderNotFound(c)
		}
		h.logger.Error("failed to resolve link", zap.Error(err), zap.String("code", code))
		infraprometheus.RedirectsTotal.WithLabelValues(infraprometheus.OutcomeError).Inc()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	userAgent := c.Get(fiber.HeaderUserAgent)
	kind := h.classifier.Classify(userAgent)
	infraprometheus.ClicksTotal.WithLabelValues(kind.String()).Inc()

	if kind == service.VisitAutomated {
		h.logger.Debug("automated visit, skipping accounting",
			zap.String("code", code),
			zap.String("user_agent", userAgent))
	} else if h.accountant != nil {
		// Fire-and-forget: a slow or failed accounting write never
		// delays or cancels the redirect response.
		go h.accountant.Record(context.Background(), link, clientIP(c), userAgent)
	}

	infraprometheus.RedirectsTotal.WithLabelValues(infraprometheus.OutcomeRedirected).Inc()
	h.logger.Debug("redirecting short link", zap.String("code", code), zap.String("target", link.OriginalURL))
	return c.Redirect(link.OriginalURL, fiber.StatusFound)
}

func (h *RedirectHandler) renderNotFound(c *fiber.Ctx) error {
	html, err := view.RenderNotFoundPage(view.NotFoundPageData{
		Code: c.Params("code"),
	})
	if err != nil {
		h.logger.Error("failed to render not-found page", zap.Error(err))
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "short link not found",
		})
	}
	return c.Status(fiber.StatusNotFound).
		Type("html", "utf-8").
		SendString(html)
}

// clientIP prefers the forwarding headers set by the edge proxy.
func clientIP(c *fiber.Ctx) string {
	if xf := c.Get("X-Forwarded-For"); xf != "" {
		if ip := strings.TrimSpace(strings.Split(xf, ",")[0]); ip != "" {
			return ip
		}
	}
	if xr := strings.TrimSpace(c.Get("X-Real-IP")); xr != "" {
		return xr
	}
	return c.IP()
}
