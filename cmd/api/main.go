package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"alfredoptarigan/resume-evaluator/internal/config"
	"alfredoptarigan/resume-evaluator/internal/handlers"
	"alfredoptarigan/resume-evaluator/internal/llm"
	"alfredoptarigan/resume-evaluator/internal/logger"
	"alfredoptarigan/resume-evaluator/internal/services"
)

func main() {
	cfg := config.Load()
	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)
	log.Info("Config loaded", map[string]interface{}{
		"env":      cfg.Server.Env,
		"provider": cfg.LLM.Provider,
		"model":    cfg.LLM.Model,
	})

	storageService := services.NewStorageService(cfg.Storage.UploadPath, cfg.Storage.MaxFileSize)
	if err := storageService.EnsureUploadDir(); err != nil {
		fatal(log, "Failed to create upload directory", err)
	}

	client, err := llm.NewFromConfig(context.Background(), cfg.LLM, log)
	if err != nil {
		fatal(log, "Failed to initialize LLM client", err)
	}

	extractor := services.NewTextExtractor()
	registry, err := services.NewToolRegistry(extractor, services.NewEntityEnhancer(), storageService.UploadPath())
	if err != nil {
		fatal(log, "Failed to build tool registry", err)
	}

	evaluatorService := services.NewEvaluatorService(
		services.NewStructuringAgent(client, extractor, registry, cfg.LLM.AgentTemperature, cfg.LLM.MaxOutputTokens, log),
		services.NewScorer(client, cfg.LLM.ChainTemperature, cfg.LLM.MaxOutputTokens, log),
		services.NewReviewer(client, cfg.LLM.ChainTemperature, cfg.LLM.MaxOutputTokens, log),
		services.NewQuestionGenerator(client, cfg.LLM.InterviewTemperature, cfg.LLM.MaxOutputTokens, log),
		services.NewAnswerGrader(client, cfg.LLM.InterviewTemperature, cfg.LLM.MaxOutputTokens, log),
		services.NewRoleMatcher(client, cfg.LLM.ChainTemperature, cfg.LLM.MaxOutputTokens, log),
		log,
	)
	log.Info("Services initialized", nil)

	app := fiber.New(fiber.Config{
		AppName:      "Resume Evaluator API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize) + 1<<20,
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	handlers.RegisterRoutes(app, handlers.Routes{
		Analysis:  handlers.NewAnalysisHandler(evaluatorService, storageService, log),
		Interview: handlers.NewInterviewHandler(evaluatorService, log),
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("Shutting down server", nil)
		if err := app.Shutdown(); err != nil {
			log.Error("Server forced to shutdown", map[string]interface{}{"error": err})
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info("Server starting", map[string]interface{}{"addr": addr})

	if err := app.Listen(addr); err != nil {
		fatal(log, "Failed to start server", err)
	}
}

func fatal(log logger.Logger, msg string, err error) {
	log.Error(msg, map[string]interface{}{"error": err})
	os.Exit(1)
}
