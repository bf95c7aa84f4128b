package notifier

import (
	"fmt"
	"time"

	"github.com/amishk599/jobsift/internal/model"
)

// Subject is the message title for a run on date, e.g. "Job postings on 03/14".
func Subject(date time.Time) string {
	return "Job postings on " + date.Format("01/02")
}

// Headline summarizes a run's counts in one sentence.
func Headline(s model.RunSummary) string {
	return fmt.Sprintf("The script was just run and %d jobs were found. %d jobs appear to have a pretty high relevance score",
		s.Total, s.HighRelevance)
}

// top returns at most n of the ranked postings.
func top(s model.RunSummary, n int) []model.PostingRecord {
	if n < 0 || n >= len(s.Postings) {
		return s.Postings
	}
	return s.Postings[:n]
}

// where renders a posting's location, or "" when it is unknown.
func where(p model.PostingRecord) string {
	if p.City == model.NoLocation {
		return ""
	}
	return p.City + ", " + p.State
}

// SendTestMessage sends a sample run summary to verify the integration works.
func SendTestMessage(n model.Notifier) error {
	score := 9
	sample := model.PostingRecord{
		CaptureDate:      time.Now(),
		Title:            "Test Notification: Integration Verified",
		Company:          "jobsift",
		City:             "Portland",
		State:            "OR",
		Summary:          "If you can read this, notifications are configured correctly.",
		URL:              "https://www.indeed.com/",
		CompensationText: model.NoCompensation,
		Score:            &score,
	}
	return n.Notify(model.RunSummary{
		RunID:         "test",
		Date:          time.Now(),
		Total:         1,
		HighRelevance: 1,
		Postings:      []model.PostingRecord{sample},
	})
}
