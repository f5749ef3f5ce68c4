package innertube

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/halfminthink-bit/youtube-search/internal/buzz"
)

// FetchDetails resolves one video via the player endpoint. InnerTube has no
// batched detail call, so MaxBatchSize is 1 and the buzz fetcher paces the
// per-video requests. Implements buzz.DetailSource.
func (c *Client) FetchDetails(ctx context.Context, ids []string) ([]buzz.Record, error) {
	if len(ids) != 1 {
		return nil, fmt.Errorf("player endpoint takes exactly one id, got %d", len(ids))
	}
	videoID := ids[0]

	data, err := c.it.Player(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("player request for %s failed: %w", videoID, err)
	}

	details, ok := mapAt(data, "videoDetails")
	if !ok {
		return nil, fmt.Errorf("no videoDetails for %s", videoID)
	}

	rec := buzz.Record{
		VideoID:         videoID,
		Title:           stringAt(details, "title"),
		ChannelID:       stringAt(details, "channelId"),
		ChannelName:     stringAt(details, "author"),
		ViewCount:       intAt(details, "viewCount"),
		DurationSeconds: intAt(details, "lengthSeconds"),
		PublishedAt:     parsePublishDate(stringAt(data, "microformat", "playerMicroformatRenderer", "publishDate")),
	}
	return []buzz.Record{rec}, nil
}

// MaxBatchSize reports the player endpoint's one-video-per-call shape.
func (c *Client) MaxBatchSize() int { return 1 }

// parsePublishDate handles the microformat publish date, which shows up
// either as a full ISO-8601 timestamp or a bare date. Failures degrade to
// the zero time ("unknown").
func parsePublishDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts
		}
	}
	return time.Time{}
}

// intAt reads a numeric field InnerTube serializes as a decimal string.
func intAt(node any, keys ...string) int64 {
	n, err := strconv.ParseInt(stringAt(node, keys...), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
