package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"finbox/internal/api"
	"finbox/internal/api/handlers"
	"finbox/internal/finance"
	"finbox/internal/repository"
	"finbox/internal/service"
	"finbox/pkg/auth"
	"finbox/pkg/config"
	"finbox/pkg/logger"
	"finbox/pkg/postgres"

	"go.uber.org/zap"
)

// @title FinBox API
// @version 1.0
// @description Message intelligence service: summarization, categorization and financial data extraction from inbound messages

// @contact.name API Support
// @contact.email support@finbox.dev

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting FinBox service")

	// Initialize database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db, appLogger)
	msgRepo := repository.NewMessageRepository(db, appLogger)
	finRepo := repository.NewFinancialRepository(db, appLogger)
	guidelineRepo := repository.NewGuidelineRepository(db, appLogger)
	insightRepo := repository.NewInsightRepository(db, appLogger)

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration, cfg.JWT.RefreshExp)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager, appLogger)

	llmService, err := service.NewLLMService(&cfg.GigaChat, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize LLM service", zap.Error(err))
	}
	defer llmService.Close()

	extractService := service.NewExtractService(appLogger)
	guidelineService := service.NewGuidelineService(guidelineRepo, cfg.Analysis.GuidelineLimit, appLogger)
	engine := finance.NewEngine(llmService, appLogger)

	messageService := service.NewMessageService(msgRepo, finRepo, guidelineService, llmService, extractService, engine, appLogger)
	insightService := service.NewInsightService(insightRepo, finRepo, llmService, appLogger)
	exportService := service.NewExportService(finRepo, appLogger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, appLogger)
	messageHandler := handlers.NewMessageHandler(messageService, appLogger)
	exportHandler := handlers.NewExportHandler(exportService, appLogger)
	insightHandler := handlers.NewInsightHandler(insightService, appLogger)

	// Setup router
	app := api.SetupRouter(cfg, authHandler, messageHandler, exportHandler, insightHandler, jwtManager, appLogger)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
