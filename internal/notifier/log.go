package notifier

import (
	"log/slog"

	"github.com/amishk599/jobsift/internal/model"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes run summaries to the given logger as structured messages.
type LogNotifier struct {
	logger *slog.Logger
	topN   int
}

// NewLogNotifier returns a notifier that logs the summary and the topN
// postings via slog.
func NewLogNotifier(logger *slog.Logger, topN int) *LogNotifier {
	return &LogNotifier{logger: logger, topN: topN}
}

// Notify logs the run counts, then each top posting.
// Returns nil (stdout logging does not fail).
func (n *LogNotifier) Notify(s model.RunSummary) error {
	n.logger.Info(Subject(s.Date),
		"run_id", s.RunID,
		"found", s.Total,
		"high_relevance", s.HighRelevance,
	)
	for i, p := range top(s, n.topN) {
		n.logger.Info("ranked posting",
			"rank", i+1,
			"score", p.ScoreValue(),
			"title", p.Title,
			"company", p.Company,
			"location", where(p),
			"pay", p.CompensationText,
			"url", p.URL,
		)
	}
	return nil
}
