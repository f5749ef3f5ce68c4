package youtube

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/halfminthink-bit/youtube-search/internal/buzz"
)

// FetchDetails retrieves per-video metadata for up to maxIDsPerRequest ids
// in a single videos.list call. Videos the API no longer returns are simply
// absent from the result. Implements buzz.DetailSource.
func (c *Client) FetchDetails(ctx context.Context, ids []string) ([]buzz.Record, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > maxIDsPerRequest {
		return nil, fmt.Errorf("too many ids in one request: %d > %d", len(ids), maxIDsPerRequest)
	}

	call := c.service.Videos.
		List([]string{"snippet", "statistics", "contentDetails"}).
		Id(ids...).
		Context(ctx)

	var records []buzz.Record
	err := c.withRetry(ctx, func() error {
		resp, err := call.Do()
		if err != nil {
			return err
		}

		records = make([]buzz.Record, 0, len(resp.Items))
		for _, item := range resp.Items {
			if item.Snippet == nil || item.Statistics == nil {
				continue
			}
			rec := buzz.Record{
				VideoID:     item.Id,
				Title:       item.Snippet.Title,
				ChannelID:   item.Snippet.ChannelId,
				ChannelName: item.Snippet.ChannelTitle,
				ViewCount:   int64(item.Statistics.ViewCount),
				PublishedAt: parsePublishedAt(item.Snippet.PublishedAt),
			}
			if item.ContentDetails != nil {
				rec.DurationSeconds = parseISODuration(item.ContentDetails.Duration)
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch video details: %w", err)
	}

	return records, nil
}

// MaxBatchSize reports the Data API's id ceiling per videos.list call.
func (c *Client) MaxBatchSize() int { return maxIDsPerRequest }

// parsePublishedAt parses the API's RFC3339 publish timestamp. A missing or
// malformed value degrades to the zero time ("unknown") so one bad field
// never drops the whole record.
func parsePublishedAt(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return ts
}

var isoDurationPattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// parseISODuration converts contentDetails durations like "PT4M13S" to
// seconds. Unrecognized forms (live streams report "P0D") yield 0.
func parseISODuration(s string) int64 {
	m := isoDurationPattern.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	var secs int64
	for i, scale := range []int64{3600, 60, 1} {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.ParseInt(m[i+1], 10, 64)
		if err != nil {
			return 0
		}
		secs += n * scale
	}
	return secs
}
