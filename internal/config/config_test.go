package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/amishk599/jobsift/internal/score"
)

const validConfig = `
schedule:
  interval: 12h
search:
  job_titles:
    - tax attorney
    - tax planning
  locations:
    - California
    - New York
  max_results_per_query: 30
scoring:
  title_keyword: tax
  required_keywords: [tax]
  positive_keywords: [tax, international, corporate]
  negative_keywords: [preparation, gift tax]
  excluded_titles: [Paralegal]
  excluded_companies: [H&R Block]
  salary_floor: 120000
notification:
  type: log
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Interval != 12*time.Hour {
		t.Errorf("Interval = %v, want 12h", cfg.Interval)
	}
	if cfg.Search.Host != "www.indeed.com" {
		t.Errorf("Host = %q, want default", cfg.Search.Host)
	}
	if cfg.Search.BaseURL() != "https://www.indeed.com" {
		t.Errorf("BaseURL = %q", cfg.Search.BaseURL())
	}
	if cfg.Search.MaxResultsPerQuery != 30 {
		t.Errorf("MaxResultsPerQuery = %d, want 30", cfg.Search.MaxResultsPerQuery)
	}
	if cfg.Search.RequestDelay != 3*time.Second || cfg.Search.RetryDelay != 15*time.Second {
		t.Errorf("delays = %v/%v, want 3s/15s", cfg.Search.RequestDelay, cfg.Search.RetryDelay)
	}
	if cfg.Search.MaxRetries != 1 {
		t.Errorf("MaxRetries = %d, want 1", cfg.Search.MaxRetries)
	}
	if cfg.Scoring.SalaryFloor != 120000 {
		t.Errorf("SalaryFloor = %v", cfg.Scoring.SalaryFloor)
	}
	if cfg.Scoring.HighRelevanceScore != 6 || cfg.Scoring.MinScore != 0 {
		t.Errorf("thresholds = %d/%d, want 6/0", cfg.Scoring.HighRelevanceScore, cfg.Scoring.MinScore)
	}
	if len(cfg.Scoring.StopWords) != len(score.DefaultStopWords) {
		t.Errorf("StopWords not defaulted: %d entries", len(cfg.Scoring.StopWords))
	}
	if len(cfg.Scoring.ExcludedCompanies) != 1 || cfg.Scoring.ExcludedCompanies[0] != "H&R Block" {
		t.Errorf("ExcludedCompanies = %v", cfg.Scoring.ExcludedCompanies)
	}
	if cfg.Sheet.Path != "jobs.db" {
		t.Errorf("Sheet.Path = %q, want jobs.db", cfg.Sheet.Path)
	}
	if cfg.Notification.TopN != 5 {
		t.Errorf("TopN = %d, want 5", cfg.Notification.TopN)
	}
	if got := cfg.Phrases(); len(got) != 1 || got[0] != "gift tax" {
		t.Errorf("Phrases = %v, want [gift tax]", got)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err == nil {
		t.Fatal("Load: expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "schedule: [broken"))
	if err == nil {
		t.Fatal("Load: expected error for invalid YAML")
	}
}

func TestLoad_DotEnvExpansion(t *testing.T) {
	dir := t.TempDir()
	content := strings.Replace(validConfig, "  type: log", "  type: slack\n  webhook_url: ${JOBSIFT_TEST_WEBHOOK}", 1)
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	env := "JOBSIFT_TEST_WEBHOOK=https://hooks.slack.com/services/T/B/X\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("JOBSIFT_TEST_WEBHOOK") })

	cfg, err := Load(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Notification.WebhookURL != "https://hooks.slack.com/services/T/B/X" {
		t.Errorf("WebhookURL = %q", cfg.Notification.WebhookURL)
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		old  string
		new  string
	}{
		{"zero interval", "interval: 12h", "interval: 0s"},
		{"bad duration", "interval: 12h", "interval: soon"},
		{"missing title keyword", "title_keyword: tax", "title_keyword: \"\""},
		{"multi-word title keyword", "title_keyword: tax", "title_keyword: tax law"},
		{"no required keywords", "required_keywords: [tax]", "required_keywords: []"},
		{"missing salary floor", "salary_floor: 120000", ""},
		{"negative salary floor", "salary_floor: 120000", "salary_floor: -1"},
		{"no locations", "locations:\n    - California\n    - New York", "locations: []"},
		{"slack without webhook", "type: log", "type: slack"},
		{"telegram without token", "type: log", "type: telegram"},
		{"email without recipients", "type: log", "type: email"},
		{"unknown notifier", "type: log", "type: pager"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := strings.Replace(validConfig, tt.old, tt.new, 1)
			if content == validConfig {
				t.Fatalf("replacement %q not applied", tt.old)
			}
			if _, err := Load(writeConfig(t, content)); err == nil {
				t.Fatal("Load: expected validation error")
			}
		})
	}
}
