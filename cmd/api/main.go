package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"quiz-diagnosis/internal/app"
	"quiz-diagnosis/internal/config"
	"quiz-diagnosis/internal/handler"
	"quiz-diagnosis/internal/logger"
	"quiz-diagnosis/internal/middleware"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	services := app.NewServices(cfg)
	defer services.Close()
	appLogger.Info("Diagnosis pipeline initialized",
		zap.Bool("ai_enabled", cfg.AI.Enabled),
		zap.String("ai_provider", cfg.AI.Provider),
		zap.String("ai_model", cfg.AI.Model),
		zap.Int("ai_max_attempts", cfg.AI.MaxAttempts),
		zap.String("cache_backend", cfg.Cache.Backend),
	)

	diagnosisHandler := handler.NewDiagnosisHandler(services.Diagnoses, services.Narratives, services.Results, cfg.AI)
	leadHandler := handler.NewLeadHandler(services.Leads, services.Results)
	healthHandler := handler.NewHealthHandler(services.Cache)
	validation := middleware.NewValidationMiddleware()

	server := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	server.Use(recover.New())
	server.Use(middleware.RequestID())
	server.Use(middleware.RequestLogger())
	server.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept,X-Request-ID", MaxAge: 300}))

	server.Get("/health", healthHandler.Health)

	apiGroup := server.Group("/api")
	apiGroup.Get("/segments", diagnosisHandler.GetSegments)
	apiGroup.Get("/segments/:segment/questions", validation.ValidateSegment(), diagnosisHandler.GetQuestions)
	apiGroup.Post("/diagnose", diagnosisHandler.Diagnose)
	apiGroup.Post("/diagnosis", diagnosisHandler.Diagnosis)
	apiGroup.Get("/diagnosis/:id", diagnosisHandler.GetDiagnosis)
	apiGroup.Post("/leads", leadHandler.SubmitLead)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := server.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.ShutdownWithContext(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
