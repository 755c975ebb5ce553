package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/AloysioLvy/CardioRiskAnalyzer/internal/config"
	"github.com/AloysioLvy/CardioRiskAnalyzer/internal/controllers"
	"github.com/AloysioLvy/CardioRiskAnalyzer/internal/logger"
	"github.com/AloysioLvy/CardioRiskAnalyzer/internal/services"
)

func main() {
	// 1. Carregar as configs
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl, err := logger.NewLogger(cfg.LogLevel, cfg.LogFormat, "cardiorisk-server")
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zl.Sync()

	// 2. Model and reference data, loaded once
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	artifacts, err := services.LoadArtifacts(ctx, cfg, zl)
	cancel()
	if err != nil {
		zl.Fatal("failed to load artifacts", zap.Error(err))
	}

	// 3. Service and HTTP layer
	predictionSvc := services.NewPredictionService(artifacts, zl)
	e, err := controllers.NewServer(predictionSvc, zl)
	if err != nil {
		zl.Fatal("failed to build server", zap.Error(err))
	}

	// 4. Roda Servidor
	go func() {
		zl.Info("server starting", zap.String("addr", cfg.ServerAddr))
		if err := e.Start(cfg.ServerAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server stopped", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zl.Error("graceful shutdown failed", zap.Error(err))
	}
}
