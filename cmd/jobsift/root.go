package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobsift/internal/config"
	"github.com/amishk599/jobsift/internal/extract"
	"github.com/amishk599/jobsift/internal/filter"
	"github.com/amishk599/jobsift/internal/model"
	"github.com/amishk599/jobsift/internal/notifier"
	"github.com/amishk599/jobsift/internal/poller"
	"github.com/amishk599/jobsift/internal/ratelimit"
	"github.com/amishk599/jobsift/internal/retry"
	"github.com/amishk599/jobsift/internal/search"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "jobsift",
	Short: "Collect, score and rank job postings",
	Long:  "jobsift searches a job listings site on a schedule, keeps the postings that match your keywords and salary floor, ranks them, and reports the best.",
	// Default to `start` so that `jobsift` with no args runs the daemon.
	RunE:         runStart,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBSIFT_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// resolveConfigPath picks the config file.
// Priority: explicit path arg > JOBSIFT_CONFIG env var > "./config.yaml"
func resolveConfigPath(path string) string {
	if path != "" {
		return path
	}
	if env := os.Getenv("JOBSIFT_CONFIG"); env != "" {
		return env
	}
	return "config.yaml"
}

// loadConfig parses the config and warns about keywords that can never match.
func loadConfig(path string, logger *slog.Logger) (*config.Config, error) {
	cfg, err := config.Load(resolveConfigPath(path))
	if err != nil {
		return nil, err
	}
	for _, phrase := range cfg.Phrases() {
		logger.Warn("multi-word keyword never matches a single word; split it or drop it", "keyword", phrase)
	}
	return cfg, nil
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

func setupNotifier(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) (model.Notifier, error) {
	n := cfg.Notification
	switch n.Type {
	case "slack":
		logger.Info("using slack notifier")
		return notifier.NewSlackNotifier(n.WebhookURL, httpClient, n.TopN, logger), nil
	case "telegram":
		logger.Info("using telegram notifier")
		return notifier.NewTelegramNotifier(n.Telegram.Token, n.Telegram.ChatID, n.TopN, logger)
	case "email":
		logger.Info("using email notifier", "smtp_host", n.Email.SMTPHost)
		return notifier.NewEmailNotifier(notifier.EmailSettings{
			Host:     n.Email.SMTPHost,
			Port:     n.Email.SMTPPort,
			Username: n.Email.Username,
			Password: n.Email.Password,
			From:     n.Email.From,
			To:       n.Email.To,
			Greeting: n.Email.Greeting,
		}, n.TopN, logger), nil
	default:
		return notifier.NewLogNotifier(logger, n.TopN), nil
	}
}

// buildPipeline returns the extractor and filter pipeline shared by every command.
func buildPipeline(cfg *config.Config, logger *slog.Logger) (*extract.Extractor, *filter.Pipeline, error) {
	ext, err := extract.NewExtractor(cfg.Search.BaseURL(), logger)
	if err != nil {
		return nil, nil, fmt.Errorf("building extractor: %w", err)
	}
	return ext, filter.NewPipeline(cfg.Scoring, logger), nil
}

// buildPoller wires the fetch chain (HTTP → rate limit → retry) into a poller
// over every configured query.
func buildPoller(cfg *config.Config, uploader model.Uploader, n model.Notifier, httpClient *http.Client, logger *slog.Logger) (*poller.SearchPoller, error) {
	ext, pipeline, err := buildPipeline(cfg, logger)
	if err != nil {
		return nil, err
	}

	var fetcher model.PageFetcher = search.NewHTTPFetcher(httpClient)
	fetcher = ratelimit.NewRateLimitedFetcher(fetcher, ratelimit.NewHostRateLimiter(cfg.Search.RequestDelay))
	fetcher = retry.NewRetryFetcher(fetcher, cfg.Search.MaxRetries, cfg.Search.RetryDelay, logger)

	keys := search.QueryKeys(cfg.Search.JobTitles, cfg.Search.Locations, cfg.Search.MaxResultsPerQuery)
	logger.Debug("query plan",
		"titles", len(cfg.Search.JobTitles),
		"locations", len(cfg.Search.Locations),
		"pages", len(keys),
		"request_delay", cfg.Search.RequestDelay.String(),
	)

	return poller.NewSearchPoller(keys, search.NewURLBuilder(cfg.Search.Host), fetcher, ext, pipeline, uploader, n, logger), nil
}
