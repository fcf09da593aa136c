package feed

import (
	"context"
	"time"

	"github.com/feedwire/newsdesk/internal/logger"
	"github.com/feedwire/newsdesk/internal/models"
)

// Aggregator fans out one fetch+normalize per enabled source and
// merges whatever survives. Settle-all semantics: it waits for every
// source to either complete or fail, and a failed source contributes
// zero articles instead of aborting the round.
type Aggregator struct {
	fetcher    *Fetcher
	normalizer *Normalizer
}

// Options controls one aggregation round. Feeds is the enabled
// RSS/Atom descriptor list (typically Defaults()); CustomAPIURL is the
// optional extra JSON source.
type Options struct {
	Feeds        []Descriptor
	CustomAPIURL string
}

func NewAggregator(fetchTimeout time.Duration) *Aggregator {
	return &Aggregator{
		fetcher:    NewFetcher(fetchTimeout),
		normalizer: NewNormalizer(),
	}
}

type sourceOutcome struct {
	report   models.SourceReport
	articles []models.Article
}

// Aggregate fetches all enabled sources concurrently and returns the
// merged article set plus a per-source report. Merge order is whatever
// order the sources happened to settle in; the query engine's sort is
// what imposes a deterministic presentation order.
func (a *Aggregator) Aggregate(ctx context.Context, opts Options) ([]models.Article, []models.SourceReport) {
	log := logger.Get()
	start := time.Now()

	units := len(opts.Feeds)
	if opts.CustomAPIURL != "" {
		units++
	}
	if units == 0 {
		return nil, nil
	}

	results := make(chan sourceOutcome, units)

	for _, desc := range opts.Feeds {
		go func(d Descriptor) {
			results <- a.fetchFeed(ctx, d)
		}(desc)
	}
	if opts.CustomAPIURL != "" {
		go func(url string) {
			results <- a.fetchCustom(ctx, url)
		}(opts.CustomAPIURL)
	}

	var articles []models.Article
	reports := make([]models.SourceReport, 0, units)
	failed := 0

	for i := 0; i < units; i++ {
		outcome := <-results
		reports = append(reports, outcome.report)
		if outcome.report.Err != "" {
			failed++
			continue
		}
		articles = append(articles, outcome.articles...)
	}

	log.Info().
		Int("sources", units).
		Int("failed", failed).
		Int("articles", len(articles)).
		Dur("duration", time.Since(start)).
		Msg("Aggregation round complete")

	return articles, reports
}

func (a *Aggregator) fetchFeed(ctx context.Context, desc Descriptor) sourceOutcome {
	report := models.SourceReport{Name: desc.Label, URL: desc.URL}

	data, err := a.fetcher.Fetch(ctx, desc.URL)
	if err != nil {
		logger.Get().Warn().Err(err).Str("source", desc.Label).Msg("Feed fetch failed")
		report.Err = err.Error()
		return sourceOutcome{report: report}
	}

	articles, err := a.normalizer.NormalizeFeed(data, desc)
	if err != nil {
		logger.Get().Warn().Err(err).Str("source", desc.Label).Msg("Feed parse failed")
		report.Err = err.Error()
		return sourceOutcome{report: report}
	}

	report.Count = len(articles)
	return sourceOutcome{report: report, articles: articles}
}

func (a *Aggregator) fetchCustom(ctx context.Context, url string) sourceOutcome {
	report := models.SourceReport{Name: fallbackCustomSource, URL: url}

	data, err := a.fetcher.Fetch(ctx, url)
	if err != nil {
		logger.Get().Warn().Err(err).Str("url", url).Msg("Custom API fetch failed")
		report.Err = err.Error()
		return sourceOutcome{report: report}
	}

	articles, err := a.normalizer.NormalizeJSON(data)
	if err != nil {
		logger.Get().Warn().Err(err).Str("url", url).Msg("Custom API parse failed")
		report.Err = err.Error()
		return sourceOutcome{report: report}
	}

	report.Count = len(articles)
	return sourceOutcome{report: report, articles: articles}
}
