package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobsift/internal/scheduler"
	"github.com/amishk599/jobsift/internal/store"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the collection daemon",
	Long:  "Start the scheduler daemon; runs a collection immediately, then on every schedule.interval. Blocks until SIGINT/SIGTERM.",
	RunE:  runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath, logger)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("config loaded",
		"interval", cfg.Interval.String(),
		"job_titles", len(cfg.Search.JobTitles),
		"locations", len(cfg.Search.Locations),
		"salary_floor", cfg.Scoring.SalaryFloor,
		"sheet", cfg.Sheet.Path,
	)

	sheet, err := store.NewSQLiteSheet(cfg.Sheet.Path)
	if err != nil {
		logger.Error("failed to open results sheet", "error", err)
		os.Exit(1)
	}
	defer sheet.Close()

	httpClient := &http.Client{Timeout: cfg.Search.Timeout}
	n, err := setupNotifier(cfg, httpClient, logger)
	if err != nil {
		logger.Error("failed to set up notifier", "error", err)
		os.Exit(1)
	}

	p, err := buildPoller(cfg, sheet, n, httpClient, logger)
	if err != nil {
		logger.Error("failed to build poller", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := scheduler.NewScheduler(p, cfg.Interval, logger).Run(ctx); err != nil {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}

	logger.Info("goodbye")
	return nil
}
