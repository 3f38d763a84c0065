package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/openclimatefix/global-solar-forecast/internal/config"
	"github.com/openclimatefix/global-solar-forecast/internal/logger"
	"github.com/openclimatefix/global-solar-forecast/internal/scheduler"
	"github.com/openclimatefix/global-solar-forecast/internal/server"
	"github.com/openclimatefix/global-solar-forecast/internal/storage"
)

func main() {
	ctx := context.Background()

	// .env is optional; deployed environments configure through real env vars
	envErr := godotenv.Load()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logger.Init(cfg.LogLevel, cfg.LogFormat)
	if envErr != nil {
		logger.Debugf("No .env file loaded: %v", envErr)
	}

	logger.Infof("Starting Global Solar Forecast v%s on port %s", config.GetVersion(), cfg.Port)
	logger.Infof("Environment: %s", cfg.Environment)

	deploymentMode := storage.DeploymentMode(cfg.DeploymentMode)
	if deploymentMode == storage.DeploymentLocal {
		logger.Infof("Local deployment - dashboards saved to: %s", cfg.LocalDashboardsDir)
	} else {
		logger.Infof("GCS deployment - dashboards saved to bucket: %s", cfg.GCSBucket)
	}

	srv, err := server.NewServer(cfg, deploymentMode)
	if err != nil {
		logger.Fatal("Failed to create server", err)
	}
	defer srv.Close()

	// Regenerate the dashboard periodically, and once at boot so the
	// service does not sit on an empty landing page until the first tick
	sched := scheduler.New(cfg.RefreshInterval, srv.RunScheduledGeneration)
	if err := sched.Start(); err != nil {
		logger.Fatal("Failed to start scheduler", err)
	}
	defer sched.Stop()

	go func() {
		if err := srv.RunScheduledGeneration(ctx); err != nil {
			logger.Warn("Initial dashboard generation failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.SetupRoutes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Longer timeout for dashboard generation
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Infof("Server listening on :%s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", err)
	}

	logger.Info("Server stopped")
}
