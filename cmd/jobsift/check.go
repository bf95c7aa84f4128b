package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobsift/internal/notifier"
	"github.com/amishk599/jobsift/internal/store"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Collect once, print the ranking, exit",
	Long:  "One-shot dry run: fetches every configured query and prints the ranked postings. Nothing is written to the sheet and no notification is sent.",
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath, logger)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("check mode: nothing will be uploaded or sent")

	httpClient := &http.Client{Timeout: cfg.Search.Timeout}
	p, err := buildPoller(cfg, store.NewNopUploader(), notifier.NewLogNotifier(logger, 0), httpClient, logger)
	if err != nil {
		logger.Error("failed to build poller", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := p.Poll(ctx)
	if err != nil {
		logger.Error("check failed", "error", err)
		return err
	}

	fmt.Println(notifier.Headline(summary))
	fmt.Println(renderTable(summary.Postings))
	return nil
}
