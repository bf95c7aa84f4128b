package model

import (
	"context"
	"time"
)

// Sentinels for fields that are intentionally absent on a listing.
const (
	NoCompensation = "Nothing_found"
	NoLocation     = "No information found"
)

// PostingRecord is one normalized job posting extracted from a results page.
type PostingRecord struct {
	CaptureDate      time.Time // date the record was extracted
	Title            string
	Company          string
	City             string // NoLocation when unparseable
	State            string // two-letter code, or NoLocation
	Summary          string
	URL              string // absolute link to the full posting
	CompensationText string // raw pay statement, or NoCompensation
	Score            *int   // nil until the filter pipeline scores the record
}

// ScoreValue returns the assigned score, or 0 for an unscored record.
func (r PostingRecord) ScoreValue() int {
	if r.Score == nil {
		return 0
	}
	return *r.Score
}

// QueryKey drives one fetch: a job-title query, a location query and a page offset.
type QueryKey struct {
	Title    string
	Location string
	Offset   int
}

// ScoringConfig governs inclusion, exclusion and scoring of postings.
type ScoringConfig struct {
	TitleKeyword       string   // key term rewarded by title placement, e.g. "tax"
	RequiredKeywords   []string // summary must contain at least one
	PositiveKeywords   []string
	NegativeKeywords   []string
	StopWords          []string
	ExcludedTitles     []string // exact title matches are dropped
	ExcludedCompanies  []string // exact company matches are dropped
	SalaryFloor        float64  // annualized
	MinScore           int      // records scoring below are dropped
	HighRelevanceScore int      // notification counts scores strictly above this
}

// RunSummary describes the outcome of one collection run for notifiers.
type RunSummary struct {
	RunID         string
	Date          time.Time
	Total         int
	HighRelevance int
	Postings      []PostingRecord // ranked, best first
}

// PageFetcher returns the raw markup of a search results page.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Uploader writes a run's ranked postings to the results sheet.
type Uploader interface {
	Upload(ctx context.Context, runID string, postings []PostingRecord) error
}

// Notifier sends a run summary.
type Notifier interface {
	Notify(summary RunSummary) error
}
