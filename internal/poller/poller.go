// Package poller runs one collection pass over every configured query.
package poller

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/amishk599/jobsift/internal/extract"
	"github.com/amishk599/jobsift/internal/filter"
	"github.com/amishk599/jobsift/internal/model"
	"github.com/amishk599/jobsift/internal/search"
)

// SearchPoller owns the full collection pipeline for one run:
// fetch → extract → filter/score/rank → upload → notify.
type SearchPoller struct {
	keys      []model.QueryKey
	urls      *search.URLBuilder
	fetcher   model.PageFetcher
	extractor *extract.Extractor
	pipeline  *filter.Pipeline
	uploader  model.Uploader
	notifier  model.Notifier
	now       func() time.Time
	logger    *slog.Logger
}

// NewSearchPoller creates a poller wired with all its dependencies.
func NewSearchPoller(
	keys []model.QueryKey,
	urls *search.URLBuilder,
	fetcher model.PageFetcher,
	extractor *extract.Extractor,
	pipeline *filter.Pipeline,
	uploader model.Uploader,
	notifier model.Notifier,
	logger *slog.Logger,
) *SearchPoller {
	return &SearchPoller{
		keys:      keys,
		urls:      urls,
		fetcher:   fetcher,
		extractor: extractor,
		pipeline:  pipeline,
		uploader:  uploader,
		notifier:  notifier,
		now:       time.Now,
		logger:    logger,
	}
}

// Poll runs one collection cycle and returns its summary. A failed page is
// logged and skipped, and so is a failed upload. Only a cancelled context or
// a failed notification is returned as an error.
func (p *SearchPoller) Poll(ctx context.Context) (model.RunSummary, error) {
	runID := uuid.NewString()
	logger := p.logger.With("run_id", runID)

	records, err := p.collect(ctx, logger)
	if err != nil {
		return model.RunSummary{}, err
	}

	ranked := p.pipeline.Run(records)
	summary := model.RunSummary{
		RunID:         runID,
		Date:          p.now(),
		Total:         len(ranked),
		HighRelevance: p.pipeline.HighRelevance(ranked),
		Postings:      ranked,
	}

	if len(ranked) > 0 {
		if err := p.uploader.Upload(ctx, runID, ranked); err != nil {
			logger.Error("upload failed", "postings", len(ranked), "error", err)
		}
	}

	if err := p.notifier.Notify(summary); err != nil {
		return summary, fmt.Errorf("run %s: notifying: %w", runID, err)
	}

	logger.Info("collection run finished",
		"queries", len(p.keys),
		"extracted", len(records),
		"ranked", summary.Total,
		"high_relevance", summary.HighRelevance,
	)
	return summary, nil
}

// collect fetches and extracts every query key in order.
func (p *SearchPoller) collect(ctx context.Context, logger *slog.Logger) ([]model.PostingRecord, error) {
	var records []model.PostingRecord
	for _, key := range p.keys {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("collection cancelled: %w", err)
		}

		url := p.urls.URL(key)
		markup, err := p.fetcher.Fetch(ctx, url)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("collection cancelled: %w", ctx.Err())
			}
			logger.Warn("skipping results page", "url", url, "error", err)
			continue
		}

		page, err := p.extractor.Page(markup)
		if err != nil {
			logger.Warn("skipping unreadable results page", "url", url, "error", err)
			continue
		}
		logger.Debug("fetched results page",
			"title", key.Title,
			"location", key.Location,
			"offset", key.Offset,
			"postings", len(page),
		)
		records = append(records, page...)
	}
	return records, nil
}
