package buzz

import (
	"context"
	"log/slog"
	"time"
)

// DiscoverFunc produces raw candidate video ids from one discovery source.
// The output may contain structural noise; the Collector validates it.
type DiscoverFunc func(ctx context.Context) ([]string, error)

// Source is a named discovery source. The name only appears in logs.
type Source struct {
	Name     string
	Discover DiscoverFunc
}

// Result is the outcome of one pipeline run.
type Result struct {
	Records []Record
	Counts  StageCounts
}

// Pipeline runs the full discovery flow: collect candidate ids, fetch
// details, resolve subscriber counts, filter. It is strictly sequential and
// single pass; all state lives in the explicitly-owned cache, so a Pipeline
// value is good for exactly one run's worth of cache coherence.
type Pipeline struct {
	fetcher *Fetcher
	filter  *Filter
	cache   *SubscriberCache
	logger  *slog.Logger
}

// NewPipeline wires the pipeline stages together.
func NewPipeline(fetcher *Fetcher, filter *Filter, cache *SubscriberCache, logger *slog.Logger) *Pipeline {
	return &Pipeline{fetcher: fetcher, filter: filter, cache: cache, logger: logger}
}

// Run executes the pipeline over the given sources. A failing source is
// logged and skipped; the run aborts only on fatal errors or cancellation.
// An empty result at any stage is returned as-is, not as an error.
func (p *Pipeline) Run(ctx context.Context, sources []Source, now time.Time) (Result, error) {
	collector := NewCollector()
	for _, src := range sources {
		ids, err := src.Discover(ctx)
		if err != nil {
			if IsFatal(err) || ctx.Err() != nil {
				return Result{}, err
			}
			p.logger.Warn("discovery source failed, skipping",
				"source", src.Name, "error", err)
			continue
		}
		collector.Add(ids...)
		p.logger.Info("discovery source done",
			"source", src.Name, "candidates", len(ids), "distinct", collector.Len())
	}

	if collector.Len() == 0 {
		p.logger.Info("no candidates collected")
		return Result{}, nil
	}

	records, err := p.fetcher.FetchDetails(ctx, collector.IDs())
	if err != nil {
		return Result{}, err
	}
	p.logger.Info("details fetched", "requested", collector.Len(), "resolved", len(records))

	if len(records) == 0 {
		return Result{}, nil
	}

	if err := p.cache.Warm(ctx, ChannelIDs(records)); err != nil {
		if IsFatal(err) || ctx.Err() != nil {
			return Result{}, err
		}
		// Missed channels fall back to per-key lookups inside the filter.
		p.logger.Warn("subscriber pre-warm failed", "error", err)
	}

	qualifying, counts, err := p.filter.Run(ctx, records, now)
	if err != nil {
		return Result{}, err
	}

	return Result{Records: qualifying, Counts: counts}, nil
}
