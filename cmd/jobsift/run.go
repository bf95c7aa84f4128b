package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobsift/internal/store"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Collect once, upload and notify, exit",
	RunE:  runOnce,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runOnce(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath, logger)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

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

	if _, err := p.Poll(ctx); err != nil {
		logger.Error("collection run failed", "error", err)
		return err
	}
	return nil
}
