package main

import (
	"context"
	"log"

	"Remediation-server/config"
	"Remediation-server/controllers"
	"Remediation-server/logging"
	"Remediation-server/services"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(nil)
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	if err := cfg.EnsureUploadDir(); err != nil {
		logger.Fatal("Upload directory unavailable", zap.Error(err))
	}

	gemini, err := service.NewGeminiClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		logger.Fatal("Gemini client unavailable", zap.Error(err))
	}

	controller := &analyzecontroller.AnalyzeController{
		Service:   service.NewRemediationService(gemini, logger, cfg.HeaderRow),
		UploadDir: cfg.UploadDir,
		Logger:    logger,
	}
	r := analyzecontroller.NewRouter(cfg.AllowedOrigins, controller)

	logger.Info("Starting server",
		zap.String("port", cfg.Port),
		zap.String("model", gemini.Model()),
		zap.String("upload_dir", cfg.UploadDir),
		zap.Strings("origins", cfg.AllowedOrigins))
	if err := r.Run("0.0.0.0:" + cfg.Port); err != nil {
		logger.Fatal("Server stopped", zap.Error(err))
	}
}
