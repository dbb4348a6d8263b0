package server

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/keremkk/kisalink/internal/app/repository"
	"github.com/keremkk/kisalink/internal/app/service"
	inthttp "github.com/keremkk/kisalink/internal/http/handler"
	"github.com/keremkk/kisalink/internal/http/middleware"
	"github.com/keremkk/kisalink/internal/infra/discord"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Dependencies bundles everything the HTTP server needs.
type Dependencies struct {
	Logger     *zap.Logger
	Redis      *redis.Client
	Links      service.LinkService
	Tokens     service.TokenService
	Users      repository.UserRepository
	Clicks     repository.ClickEventRepository
	Classifier *service.Classifier
	Accountant *service.ClickAccountant
	Notifier   *discord.Client
	BaseURL    string
	AdminKey   string
}

// Server wraps the Fiber application and its dependencies.
type Server struct {
	app  *fiber.App
	deps Dependencies
}

// New creates a new HTTP server instance with default routes.
func New(deps Dependencies) *Server {
	app := fiber.New()

	s := &Server{
		app:  app,
		deps: deps,
	}

	s.registerRoutes()
	return s
}

// Listen starts the Fiber server on the given address.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the Fiber server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) registerRoutes() {
	s.app.Use(middleware.RequestID())
	s.app.Use(middleware.Recovery(s.deps.Logger))
	s.app.Use(middleware.Logger(s.deps.Logger))
	s.app.Use(middleware.CORS())
	if s.deps.Redis != nil {
		s.app.Use(middleware.RateLimit(s.deps.Redis, middleware.DefaultRateLimitConfig(), s.deps.Logger))
	}

	api := s.app.Group("/api", middleware.TokenAuth(s.deps.Tokens, s.deps.Logger))
	apiHandler := inthttp.NewAPIHandler(inthttp.APIDeps{
		Logger:   s.deps.Logger,
		Links:    s.deps.Links,
		Tokens:   s.deps.Tokens,
		Notifier: s.deps.Notifier,
		BaseURL:  s.deps.BaseURL,
	})
	apiHandler.Register(api)

	admin := s.app.Group("/admin", middleware.AdminKey(s.deps.AdminKey))
	adminHandler := inthttp.NewAdminHandler(inthttp.AdminDeps{
		Logger:   s.deps.Logger,
		Users:    s.deps.Users,
		Clicks:   s.deps.Clicks,
		Notifier: s.deps.Notifier,
	})
	adminHandler.Register(admin)

	// Last: the catch-all short-code route.
	redirectHandler := inthttp.NewRedirectHandler(inthttp.RedirectDeps{
		Logger:     s.deps.Logger,
		Links:      s.deps.Links,
		Classifier: s.deps.Classifier,
		Accountant: s.deps.Accountant,
	})
	redirectHandler.Register(s.app)
}
