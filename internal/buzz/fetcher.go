package buzz

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/time/rate"
)

// DetailSource retrieves per-video metadata. FetchDetails is called with at
// most MaxBatchSize ids per invocation and may return fewer records than ids
// when individual videos are missing or broken.
type DetailSource interface {
	FetchDetails(ctx context.Context, ids []string) ([]Record, error)
	MaxBatchSize() int
}

// FatalError marks an error that must abort the whole run, such as an
// exhausted API quota. All other source errors drop the affected batch and
// let the run continue.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string { return e.Err.Error() }

func (e *FatalError) Unwrap() error { return e.Err }

// IsFatal reports whether err carries a FatalError anywhere in its chain.
func IsFatal(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe)
}

// Fetcher turns candidate ids into Records. It partitions ids into chunks the
// source can handle, spaces requests out with the injected limiter, and
// tolerates per-chunk failures: a broken id never aborts the batch.
type Fetcher struct {
	source  DetailSource
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewFetcher creates a Fetcher. limiter may be nil to disable request pacing.
func NewFetcher(source DetailSource, limiter *rate.Limiter, logger *slog.Logger) *Fetcher {
	return &Fetcher{source: source, limiter: limiter, logger: logger}
}

// FetchDetails resolves metadata for ids. The result may be shorter than the
// input: chunks that fail with a non-fatal error are logged and skipped.
// Fatal errors and context cancellation stop the whole batch.
func (f *Fetcher) FetchDetails(ctx context.Context, ids []string) ([]Record, error) {
	batchSize := f.source.MaxBatchSize()
	if batchSize < 1 {
		batchSize = 1
	}

	records := make([]Record, 0, len(ids))
	for start := 0; start < len(ids); start += batchSize {
		end := min(start+batchSize, len(ids))
		chunk := ids[start:end]

		if f.limiter != nil {
			if err := f.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		fetched, err := f.source.FetchDetails(ctx, chunk)
		if err != nil {
			if IsFatal(err) || ctx.Err() != nil {
				return nil, err
			}
			f.logger.Warn("detail lookup failed, skipping chunk",
				"ids", chunk, "error", err)
			continue
		}
		records = append(records, fetched...)
	}

	return records, nil
}

// ChannelIDs returns the distinct channel ids referenced by records, used to
// pre-warm the subscriber cache in one batched pass instead of one lookup
// per video.
func ChannelIDs(records []Record) []string {
	seen := make(map[string]struct{}, len(records))
	ids := make([]string, 0, len(records))
	for _, r := range records {
		if r.ChannelID == "" {
			continue
		}
		if _, ok := seen[r.ChannelID]; ok {
			continue
		}
		seen[r.ChannelID] = struct{}{}
		ids = append(ids, r.ChannelID)
	}
	return ids
}
