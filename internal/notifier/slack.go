package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/amishk599/jobsift/internal/model"
)

// Ensure SlackNotifier implements model.Notifier.
var _ model.Notifier = (*SlackNotifier)(nil)

// SlackNotifier posts run summaries to a Slack channel via Incoming Webhooks.
type SlackNotifier struct {
	webhookURL string
	httpClient *http.Client
	topN       int
	logger     *slog.Logger
}

// NewSlackNotifier returns a notifier that posts one message per run.
func NewSlackNotifier(webhookURL string, httpClient *http.Client, topN int, logger *slog.Logger) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		httpClient: httpClient,
		topN:       topN,
		logger:     logger,
	}
}

// Notify sends the summary and top postings as a single Block Kit message.
// A 429 is retried once after the server's Retry-After.
func (s *SlackNotifier) Notify(summary model.RunSummary) error {
	body, err := json.Marshal(buildPayload(summary, s.topN))
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	status, retryAfter, err := s.post(body)
	if err != nil {
		return err
	}
	if status == http.StatusTooManyRequests {
		s.logger.Warn("slack rate limited, retrying", "retry_after", retryAfter)
		time.Sleep(retryAfter)
		if status, _, err = s.post(body); err != nil {
			return fmt.Errorf("retry: %w", err)
		}
	}
	if status != http.StatusOK {
		return fmt.Errorf("slack returned %d", status)
	}

	s.logger.Info("slack message sent", "run_id", summary.RunID, "postings", len(top(summary, s.topN)))
	return nil
}

func (s *SlackNotifier) post(body []byte) (int, time.Duration, error) {
	resp, err := s.httpClient.Post(s.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return 0, 0, fmt.Errorf("post to slack: %w", err)
	}
	defer resp.Body.Close()

	secs, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
	if secs <= 0 {
		secs = 1
	}
	return resp.StatusCode, time.Duration(secs) * time.Second, nil
}

// Block Kit payload types.

type slackPayload struct {
	Text   string       `json:"text"`
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type      string        `json:"type"`
	Text      *slackText    `json:"text,omitempty"`
	Fields    []slackText   `json:"fields,omitempty"`
	Accessory *slackElement `json:"accessory,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type slackElement struct {
	Type string    `json:"type"`
	Text slackText `json:"text"`
	URL  string    `json:"url"`
}

func buildPayload(s model.RunSummary, topN int) slackPayload {
	headline := Headline(s)
	blocks := []slackBlock{
		{
			Type: "header",
			Text: &slackText{Type: "plain_text", Text: Subject(s.Date)},
		},
		{
			Type: "section",
			Text: &slackText{Type: "mrkdwn", Text: headline},
		},
	}

	for i, p := range top(s, topN) {
		text := fmt.Sprintf("*%d. %s*\n%s", i+1, p.Title, p.Company)
		if loc := where(p); loc != "" {
			text += " · " + loc
		}
		blocks = append(blocks,
			slackBlock{Type: "divider"},
			slackBlock{
				Type: "section",
				Text: &slackText{Type: "mrkdwn", Text: text},
				Fields: []slackText{
					{Type: "mrkdwn", Text: "*Score:*\n" + strconv.Itoa(p.ScoreValue())},
					{Type: "mrkdwn", Text: "*Pay:*\n" + payText(p)},
				},
				Accessory: &slackElement{
					Type: "button",
					Text: slackText{Type: "plain_text", Text: "View"},
					URL:  p.URL,
				},
			},
		)
	}

	return slackPayload{Text: headline, Blocks: blocks}
}

func payText(p model.PostingRecord) string {
	if p.CompensationText == model.NoCompensation {
		return "Not listed"
	}
	return p.CompensationText
}
