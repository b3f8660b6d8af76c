package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"trialpower/adapters/stats/powerlib"
	"trialpower/app"
	"trialpower/internal"
	"trialpower/internal/config"
	"trialpower/internal/registry"
	"trialpower/ui"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.LogLevel))

	catalog, err := registry.Default()
	if err != nil {
		logger.Error("test registry failed its self-check: %v", err)
		os.Exit(1)
	}
	logger.Info("registered %d tests", catalog.Len())

	svc := app.NewAnalysisService(
		catalog,
		powerlib.NewLibrary(appConfig.Analysis.QuadratureNodes),
		app.Options{
			SweepPoints: appConfig.Analysis.SweepPoints,
			TargetPower: appConfig.Analysis.TargetPower,
			Logger:      logger,
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := ui.NewApp(ui.Config{Port: appConfig.Server.Port}, svc, logger)
	if err := server.Start(ctx); err != nil {
		logger.Error("server stopped: %v", err)
		os.Exit(1)
	}
}
