package buzz

import (
	"context"
	"time"
)

// Thresholds are the buzz criteria a record must meet.
type Thresholds struct {
	// WindowDays is the trailing period a publish timestamp must fall in.
	WindowDays int
	// MaxSubscribers is the exclusive channel-size ceiling: a channel with
	// exactly this many subscribers does not qualify.
	MaxSubscribers int64
	// ViewMultiplier is the minimum views-to-subscribers ratio. A record
	// passes when views >= subscribers * ViewMultiplier, so equality counts.
	ViewMultiplier float64
}

// StageCounts reports how many records survived each filter stage. They are
// diagnostic output for the operator and are reproducible for a given input.
type StageCounts struct {
	Total        int
	Recent       int
	SmallChannel int
	Buzz         int
}

// Filter applies the buzz predicate to fetched records, resolving subscriber
// counts through the shared per-run cache.
type Filter struct {
	cache      *SubscriberCache
	thresholds Thresholds
}

// NewFilter creates a Filter backed by cache.
func NewFilter(cache *SubscriberCache, thresholds Thresholds) *Filter {
	return &Filter{cache: cache, thresholds: thresholds}
}

// Run evaluates records against the thresholds in a fixed stage order,
// short-circuiting on the first failing stage per record:
//
//  1. subscriber count resolvable (hidden/unavailable rejects outright)
//  2. published within the recency window (the exact cutoff instant passes)
//  3. subscribers strictly below the ceiling
//  4. views at least subscribers times the multiplier
//
// Qualifying records are returned in input order with SubscriberCount set.
func (f *Filter) Run(ctx context.Context, records []Record, now time.Time) ([]Record, StageCounts, error) {
	cutoff := now.AddDate(0, 0, -f.thresholds.WindowDays)
	counts := StageCounts{Total: len(records)}

	qualifying := make([]Record, 0, len(records))
	for _, r := range records {
		subs, err := f.cache.GetOrFetch(ctx, r.ChannelID)
		if err != nil {
			return nil, counts, err
		}
		if !subs.Known {
			continue
		}

		if r.PublishedAt.IsZero() || r.PublishedAt.Before(cutoff) {
			continue
		}
		counts.Recent++

		if subs.Count >= f.thresholds.MaxSubscribers {
			continue
		}
		counts.SmallChannel++

		if float64(r.ViewCount) < float64(subs.Count)*f.thresholds.ViewMultiplier {
			continue
		}
		counts.Buzz++

		r.SubscriberCount = subs.Count
		qualifying = append(qualifying, r)
	}

	return qualifying, counts, nil
}
