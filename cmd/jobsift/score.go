package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobsift/internal/model"
)

var scoreCmd = &cobra.Command{
	Use:   "score <file.html>...",
	Short: "Rank postings from saved result pages",
	Long:  "Offline: extracts postings from saved search result pages, runs the filter pipeline and prints the ranking. No network access.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath, logger)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ext, pipeline, err := buildPipeline(cfg, logger)
	if err != nil {
		return err
	}

	var records []model.PostingRecord
	for _, path := range args {
		markup, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read page: %w", err)
		}
		page, err := ext.Page(string(markup))
		if err != nil {
			return fmt.Errorf("extract %s: %w", path, err)
		}
		logger.Debug("extracted page", "file", path, "postings", len(page))
		records = append(records, page...)
	}

	ranked := pipeline.Run(records)
	fmt.Printf("%d postings extracted, %d ranked, %d above %d\n",
		len(records), len(ranked), pipeline.HighRelevance(ranked), cfg.Scoring.HighRelevanceScore)
	fmt.Println(renderTable(ranked))
	return nil
}
