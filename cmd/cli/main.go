package main

import (
	"fmt"
	"os"

	"trialpower/adapters/stats/powerlib"
	"trialpower/app"
	"trialpower/internal"
	"trialpower/internal/config"
	"trialpower/internal/registry"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// env is what every command needs, built once from configuration
type env struct {
	svc         *app.AnalysisService
	concurrency int
	log         *internal.Logger
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := newRootCmd(newEnv(cfg)).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newEnv(cfg *config.Config) *env {
	logger := internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))
	svc := app.NewAnalysisService(
		registry.MustDefault(),
		powerlib.NewLibrary(cfg.Analysis.QuadratureNodes),
		app.Options{
			SweepPoints: cfg.Analysis.SweepPoints,
			TargetPower: cfg.Analysis.TargetPower,
			Logger:      logger,
		},
	)
	return &env{svc: svc, concurrency: cfg.Analysis.BatchConcurrency, log: logger}
}

func newRootCmd(e *env) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "trialpower",
		Short:         "Statistical power curves for clinical trial designs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newTestsCmd(e),
		newDescribeCmd(e),
		newRunCmd(e),
		newReportCmd(e),
		newExportCmd(e),
		newBatchCmd(e),
	)
	return rootCmd
}
