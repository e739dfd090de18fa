package api

import (
	"finbox/internal/api/handlers"
	"finbox/pkg/auth"
	"finbox/pkg/config"
	"finbox/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	messageHandler *handlers.MessageHandler,
	exportHandler *handlers.ExportHandler,
	insightHandler *handlers.InsightHandler,
	jwtManager *auth.JWTManager,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		BodyLimit:    cfg.Server.BodyLimitMB * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(logger.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api/v1")

	// Auth routes (public)
	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", authHandler.Register)
	authRoutes.Post("/login", authHandler.Login)
	authRoutes.Post("/refresh", authHandler.RefreshToken)

	// Protected routes
	protected := api.Group("", middleware.AuthMiddleware(jwtManager, appLogger))

	messages := protected.Group("/messages")
	messages.Post("", messageHandler.IngestMessage)
	messages.Get("", messageHandler.ListMessages)
	messages.Get("/:id", messageHandler.GetMessage)
	messages.Post("/:id/process", messageHandler.ProcessMessage)
	messages.Delete("/:id", messageHandler.DeleteMessage)

	export := protected.Group("/export")
	export.Get("/csv", exportHandler.ExportCSV)
	export.Get("/xlsx", exportHandler.ExportXLSX)

	insights := protected.Group("/insights")
	insights.Get("", insightHandler.ListInsights)
	insights.Post("/generate", insightHandler.GenerateInsight)

	return app
}
