// Package filter deduplicates, filters, scores and ranks extracted postings.
package filter

import (
	"log/slog"
	"slices"

	"github.com/amishk599/jobsift/internal/model"
	"github.com/amishk599/jobsift/internal/salary"
	"github.com/amishk599/jobsift/internal/score"
)

// Pipeline applies the filter stages in order: dedup, required keywords,
// salary floor, title/company exclusions, scoring, then threshold and rank.
type Pipeline struct {
	cfg       model.ScoringConfig
	scorer    *score.Scorer
	required  score.Keywords
	titles    map[string]struct{}
	companies map[string]struct{}
	logger    *slog.Logger
}

// NewPipeline builds a pipeline for the given scoring configuration.
func NewPipeline(cfg model.ScoringConfig, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		scorer:    score.NewScorer(cfg.TitleKeyword, cfg.PositiveKeywords, cfg.NegativeKeywords, cfg.StopWords),
		required:  score.NewKeywords(cfg.RequiredKeywords),
		titles:    toSet(cfg.ExcludedTitles),
		companies: toSet(cfg.ExcludedCompanies),
		logger:    logger,
	}
}

// Run returns the surviving postings, scored and sorted best first. Ties keep
// their input order. The input slice and its records are left untouched.
func (p *Pipeline) Run(records []model.PostingRecord) []model.PostingRecord {
	unique := dedupe(records)
	matched := p.keep(unique, p.hasRequiredKeyword)
	paid := p.keep(matched, p.salarySufficient)
	allowed := p.keep(paid, p.notExcluded)
	scored := p.score(allowed)
	ranked := p.rank(scored)

	p.logger.Debug("filter pipeline",
		"input", len(records),
		"unique", len(unique),
		"keyword", len(matched),
		"salary", len(paid),
		"allowed", len(allowed),
		"ranked", len(ranked),
	)
	return ranked
}

// HighRelevance counts ranked postings scoring strictly above the configured
// high-relevance threshold.
func (p *Pipeline) HighRelevance(ranked []model.PostingRecord) int {
	n := 0
	for _, r := range ranked {
		if r.Score != nil && *r.Score > p.cfg.HighRelevanceScore {
			n++
		}
	}
	return n
}

type dedupKey struct {
	title, company, city, state, summary string
}

// dedupe drops repeats of the (title, company, city, state, summary) tuple,
// then repeats of the url, keeping the first occurrence each time.
func dedupe(records []model.PostingRecord) []model.PostingRecord {
	seenFields := make(map[dedupKey]struct{}, len(records))
	byFields := make([]model.PostingRecord, 0, len(records))
	for _, r := range records {
		k := dedupKey{r.Title, r.Company, r.City, r.State, r.Summary}
		if _, dup := seenFields[k]; dup {
			continue
		}
		seenFields[k] = struct{}{}
		byFields = append(byFields, r)
	}

	seenURL := make(map[string]struct{}, len(byFields))
	out := make([]model.PostingRecord, 0, len(byFields))
	for _, r := range byFields {
		if _, dup := seenURL[r.URL]; dup {
			continue
		}
		seenURL[r.URL] = struct{}{}
		out = append(out, r)
	}
	return out
}

func (p *Pipeline) keep(records []model.PostingRecord, pred func(model.PostingRecord) bool) []model.PostingRecord {
	out := make([]model.PostingRecord, 0, len(records))
	for _, r := range records {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

func (p *Pipeline) hasRequiredKeyword(r model.PostingRecord) bool {
	return p.required.MatchAny(r.Summary)
}

func (p *Pipeline) salarySufficient(r model.PostingRecord) bool {
	ok, err := salary.Sufficient(r.CompensationText, p.cfg.SalaryFloor)
	if err != nil {
		p.logger.Warn("could not parse salary",
			"compensation", r.CompensationText,
			"title", r.Title,
			"url", r.URL,
			"error", err,
		)
		return false
	}
	return ok
}

func (p *Pipeline) notExcluded(r model.PostingRecord) bool {
	if _, bad := p.titles[r.Title]; bad {
		return false
	}
	if _, bad := p.companies[r.Company]; bad {
		return false
	}
	return true
}

// score assigns a fresh score to copies of the records.
func (p *Pipeline) score(records []model.PostingRecord) []model.PostingRecord {
	out := make([]model.PostingRecord, len(records))
	for i, r := range records {
		s := p.scorer.Score(r.Title, r.Summary)
		r.Score = &s
		out[i] = r
	}
	return out
}

func (p *Pipeline) rank(records []model.PostingRecord) []model.PostingRecord {
	out := p.keep(records, func(r model.PostingRecord) bool {
		return *r.Score >= p.cfg.MinScore
	})
	slices.SortStableFunc(out, func(a, b model.PostingRecord) int {
		return *b.Score - *a.Score
	})
	return out
}

func toSet(items []string) map[string]struct{} {
	s := make(map[string]struct{}, len(items))
	for _, it := range items {
		s[it] = struct{}{}
	}
	return s
}
