package server

import (
	"chatshare-be/internal/bootstrap"
	"chatshare-be/internal/config"
	"chatshare-be/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	fiberCfg := fiber.Config{
		BodyLimit: 10 * 1024 * 1024, // 10MB
	}
	serverutils.ApplyProxyConfig(&fiberCfg, cfg.App.TrustedProxies)
	app := fiber.New(fiberCfg)

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CorsAllowedOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization",
	}))

	app.Use(otelfiber.Middleware())

	app.Use(serverutils.ErrorHandlerMiddleware(container.Logger))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	if cfg.Storage.Backend == "local" {
		app.Static("/uploads", cfg.Storage.LocalDir)
	}

	registerRoutes(app, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	s.container.Logger.Info("SERVER", "Server is running", map[string]interface{}{
		"port": s.cfg.App.Port,
	})
	return s.app.Listen(":" + s.cfg.App.Port)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func registerRoutes(app *fiber.App, c *bootstrap.Container) {
	api := app.Group("/api")

	c.AuthController.RegisterRoutes(api)
	c.UserController.RegisterRoutes(api)

	// Collaboration and user routes use literal segments under /chat, so
	// they go before the chat routes with :id params.
	c.CollaborationController.RegisterRoutes(api)
	c.ChatController.RegisterRoutes(api)
	c.SpeechController.RegisterRoutes(api)

	c.PaymentController.RegisterRoutes(api)

	c.NotificationHandler.RegisterRoutes(api)
}
