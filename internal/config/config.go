package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/amishk599/jobsift/internal/model"
	"github.com/amishk599/jobsift/internal/score"
)

// Config is the root configuration for jobsift.
type Config struct {
	Interval     time.Duration
	Search       SearchConfig
	Scoring      model.ScoringConfig
	Sheet        SheetConfig
	Notification NotificationConfig
}

// SearchConfig controls which result pages are fetched and how politely.
type SearchConfig struct {
	Host               string   // listings site host, e.g. "www.indeed.com"
	JobTitles          []string // plain words; escaped when building URLs
	Locations          []string
	MaxResultsPerQuery int           // page offsets run 0, 10, ... below this
	RequestDelay       time.Duration // minimum gap between requests to the host
	RetryDelay         time.Duration
	MaxRetries         int
	Timeout            time.Duration // per-request timeout
}

// BaseURL is the scheme and host that posting links are resolved against.
func (s SearchConfig) BaseURL() string {
	return "https://" + s.Host
}

// SheetConfig points at the SQLite results sheet.
type SheetConfig struct {
	Path string `yaml:"path"`
}

// NotificationConfig controls which notifier is used and its settings.
type NotificationConfig struct {
	Type       string         `yaml:"type"`        // "log", "slack", "telegram" or "email"
	WebhookURL string         `yaml:"webhook_url"` // required if type is "slack"
	Telegram   TelegramConfig `yaml:"telegram"`
	Email      EmailConfig    `yaml:"email"`
	TopN       int            `yaml:"top_n"` // postings listed in the message
}

// TelegramConfig holds bot credentials for the telegram notifier.
type TelegramConfig struct {
	Token  string `yaml:"token"`
	ChatID int64  `yaml:"chat_id"`
}

// EmailConfig holds SMTP settings for the email notifier.
type EmailConfig struct {
	SMTPHost string   `yaml:"smtp_host"`
	SMTPPort int      `yaml:"smtp_port"`
	Username string   `yaml:"username"`
	Password string   `yaml:"password"`
	From     string   `yaml:"from"`
	To       []string `yaml:"to"`
	Greeting string   `yaml:"greeting"`
}

const (
	defaultHost               = "www.indeed.com"
	defaultMaxResultsPerQuery = 20
	defaultSheetPath          = "jobs.db"
	defaultTopN               = 5
	defaultHighRelevance      = 6
	defaultSMTPPort           = 587
)

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	Schedule     rawScheduleConfig  `yaml:"schedule"`
	Search       rawSearchConfig    `yaml:"search"`
	Scoring      rawScoringConfig   `yaml:"scoring"`
	Sheet        SheetConfig        `yaml:"sheet"`
	Notification NotificationConfig `yaml:"notification"`
}

type rawScheduleConfig struct {
	Interval string `yaml:"interval"`
}

type rawSearchConfig struct {
	Host               string   `yaml:"host"`
	JobTitles          []string `yaml:"job_titles"`
	Locations          []string `yaml:"locations"`
	MaxResultsPerQuery int      `yaml:"max_results_per_query"`
	RequestDelay       string   `yaml:"request_delay"`
	RetryDelay         string   `yaml:"retry_delay"`
	MaxRetries         *int     `yaml:"max_retries"`
	Timeout            string   `yaml:"timeout"`
}

type rawScoringConfig struct {
	TitleKeyword       string   `yaml:"title_keyword"`
	RequiredKeywords   []string `yaml:"required_keywords"`
	PositiveKeywords   []string `yaml:"positive_keywords"`
	NegativeKeywords   []string `yaml:"negative_keywords"`
	StopWords          []string `yaml:"stop_words"`
	ExcludedTitles     []string `yaml:"excluded_titles"`
	ExcludedCompanies  []string `yaml:"excluded_companies"`
	SalaryFloor        *float64 `yaml:"salary_floor"`
	MinScore           int      `yaml:"min_score"`
	HighRelevanceScore *int     `yaml:"high_relevance_score"`
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
// A .env file next to the config is loaded first so ${VAR} references can
// pick up credentials; variables already set in the environment win.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	envPath := filepath.Join(filepath.Dir(path), ".env")
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envPath, err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	interval, err := parseDuration("schedule.interval", raw.Schedule.Interval, 24*time.Hour)
	if err != nil {
		return nil, err
	}
	requestDelay, err := parseDuration("search.request_delay", raw.Search.RequestDelay, 3*time.Second)
	if err != nil {
		return nil, err
	}
	retryDelay, err := parseDuration("search.retry_delay", raw.Search.RetryDelay, 15*time.Second)
	if err != nil {
		return nil, err
	}
	timeout, err := parseDuration("search.timeout", raw.Search.Timeout, 30*time.Second)
	if err != nil {
		return nil, err
	}

	maxRetries := 1 // retry once
	if raw.Search.MaxRetries != nil {
		maxRetries = *raw.Search.MaxRetries
	}

	host := raw.Search.Host
	if host == "" {
		host = defaultHost
	}
	maxResults := raw.Search.MaxResultsPerQuery
	if maxResults == 0 {
		maxResults = defaultMaxResultsPerQuery
	}

	stopWords := raw.Scoring.StopWords
	if stopWords == nil {
		stopWords = score.DefaultStopWords
	}
	highRelevance := defaultHighRelevance
	if raw.Scoring.HighRelevanceScore != nil {
		highRelevance = *raw.Scoring.HighRelevanceScore
	}

	sheet := raw.Sheet
	if sheet.Path == "" {
		sheet.Path = defaultSheetPath
	}

	notification := raw.Notification
	if notification.TopN == 0 {
		notification.TopN = defaultTopN
	}
	if notification.Email.SMTPPort == 0 {
		notification.Email.SMTPPort = defaultSMTPPort
	}

	cfg := &Config{
		Interval: interval,
		Search: SearchConfig{
			Host:               host,
			JobTitles:          raw.Search.JobTitles,
			Locations:          raw.Search.Locations,
			MaxResultsPerQuery: maxResults,
			RequestDelay:       requestDelay,
			RetryDelay:         retryDelay,
			MaxRetries:         maxRetries,
			Timeout:            timeout,
		},
		Sheet:        sheet,
		Notification: notification,
	}

	if raw.Scoring.SalaryFloor == nil {
		return nil, fmt.Errorf("scoring.salary_floor is required")
	}
	cfg.Scoring = model.ScoringConfig{
		TitleKeyword:       strings.TrimSpace(raw.Scoring.TitleKeyword),
		RequiredKeywords:   raw.Scoring.RequiredKeywords,
		PositiveKeywords:   raw.Scoring.PositiveKeywords,
		NegativeKeywords:   raw.Scoring.NegativeKeywords,
		StopWords:          stopWords,
		ExcludedTitles:     raw.Scoring.ExcludedTitles,
		ExcludedCompanies:  raw.Scoring.ExcludedCompanies,
		SalaryFloor:        *raw.Scoring.SalaryFloor,
		MinScore:           raw.Scoring.MinScore,
		HighRelevanceScore: highRelevance,
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parseDuration(field, value string, def time.Duration) (time.Duration, error) {
	if value == "" {
		return def, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", field, value, err)
	}
	return d, nil
}

// Phrases lists scoring keywords that contain more than one word. They can
// never match a single summary token, so callers should warn about them.
func (c *Config) Phrases() []string {
	var out []string
	out = append(out, score.Phrases(c.Scoring.RequiredKeywords)...)
	out = append(out, score.Phrases(c.Scoring.PositiveKeywords)...)
	out = append(out, score.Phrases(c.Scoring.NegativeKeywords)...)
	return out
}

func validate(cfg *Config) error {
	if cfg.Interval <= 0 {
		return fmt.Errorf("schedule.interval must be positive, got %v", cfg.Interval)
	}

	if len(cfg.Search.JobTitles) == 0 {
		return fmt.Errorf("search.job_titles must list at least one title")
	}
	if len(cfg.Search.Locations) == 0 {
		return fmt.Errorf("search.locations must list at least one location")
	}
	if strings.Contains(cfg.Search.Host, "/") {
		return fmt.Errorf("search.host must be a bare host name, got %q", cfg.Search.Host)
	}
	if cfg.Search.MaxResultsPerQuery < 0 {
		return fmt.Errorf("search.max_results_per_query must not be negative, got %d", cfg.Search.MaxResultsPerQuery)
	}
	if cfg.Search.MaxRetries < 0 {
		return fmt.Errorf("search.max_retries must not be negative, got %d", cfg.Search.MaxRetries)
	}

	sc := cfg.Scoring
	if sc.TitleKeyword == "" {
		return fmt.Errorf("scoring.title_keyword is required")
	}
	if len(score.Tokenize(sc.TitleKeyword)) != 1 {
		return fmt.Errorf("scoring.title_keyword must be a single word, got %q", sc.TitleKeyword)
	}
	if len(sc.RequiredKeywords) == 0 {
		return fmt.Errorf("scoring.required_keywords must list at least one keyword")
	}
	if len(sc.PositiveKeywords) == 0 {
		return fmt.Errorf("scoring.positive_keywords must list at least one keyword")
	}
	if sc.SalaryFloor < 0 {
		return fmt.Errorf("scoring.salary_floor must not be negative, got %v", sc.SalaryFloor)
	}

	n := cfg.Notification
	switch n.Type {
	case "", "log":
	case "slack":
		if n.WebhookURL == "" {
			return fmt.Errorf("notification.webhook_url is required when type is \"slack\"")
		}
		if !strings.HasPrefix(n.WebhookURL, "https://hooks.slack.com/") {
			return fmt.Errorf("notification.webhook_url must start with https://hooks.slack.com/")
		}
	case "telegram":
		if n.Telegram.Token == "" || n.Telegram.ChatID == 0 {
			return fmt.Errorf("notification.telegram.token and chat_id are required when type is \"telegram\"")
		}
	case "email":
		if n.Email.SMTPHost == "" || n.Email.From == "" || len(n.Email.To) == 0 {
			return fmt.Errorf("notification.email.smtp_host, from and to are required when type is \"email\"")
		}
	default:
		return fmt.Errorf("notification.type %q is not one of log, slack, telegram, email", n.Type)
	}

	return nil
}
