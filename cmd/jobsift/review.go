package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobsift/internal/review"
	"github.com/amishk599/jobsift/internal/store"
)

// runsShown caps how many past runs the picker lists.
const runsShown = 50

var reviewLive bool

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Browse ranked postings interactively (TUI)",
	Long:  "Shows a picker over past runs in the results sheet, then a list and detail view of the chosen run. With --live, runs a fresh collection first and browses its result.",
	RunE:  runReview,
}

func init() {
	reviewCmd.Flags().BoolVar(&reviewLive, "live", false, "run a collection now and browse its result")
	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, args []string) error {
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

	// Any log output while the TUI owns the terminal corrupts the display.
	silentLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	if reviewLive {
		httpClient := &http.Client{Timeout: cfg.Search.Timeout}
		n, err := setupNotifier(cfg, httpClient, silentLogger)
		if err != nil {
			return err
		}
		p, err := buildPoller(cfg, sheet, n, httpClient, silentLogger)
		if err != nil {
			return err
		}
		summary, err := review.RunLoader(ctx, "Collecting postings", p.Poll)
		if err != nil {
			return fmt.Errorf("live collection: %w", err)
		}
		wantQuit, err := review.RunReviewTUI("This run", summary.Postings, cfg.Scoring.HighRelevanceScore)
		if err != nil || wantQuit {
			return err
		}
	}

	for {
		runs, err := sheet.Runs(ctx, runsShown)
		if err != nil {
			return err
		}
		choice, err := review.RunPicker(runs)
		if err != nil {
			return fmt.Errorf("picker: %w", err)
		}
		if choice < 0 {
			return nil
		}

		run := runs[choice]
		postings, err := sheet.Postings(ctx, run.ID)
		if err != nil {
			return err
		}
		heading := "Run " + run.At.Local().Format("Jan 02 15:04")
		wantQuit, err := review.RunReviewTUI(heading, postings, cfg.Scoring.HighRelevanceScore)
		if err != nil {
			return fmt.Errorf("review: %w", err)
		}
		if wantQuit {
			return nil
		}
		// else: loop → back to picker
	}
}
