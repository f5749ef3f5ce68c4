package youtube

import (
	"context"
	"fmt"
	"time"
)

// SearchVideos searches for videos matching query published after
// publishedAfter, following continuation tokens until maxResults ids are
// gathered or the last page is reached. It returns raw video ids for the
// collector; titles and channel data are picked up later by the detail
// fetch, which keeps the search and detail schemas from drifting apart.
// Each page costs 100 quota units.
func (c *Client) SearchVideos(ctx context.Context, query string, maxResults int64, publishedAfter time.Time) ([]string, error) {
	if query == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}
	if maxResults <= 0 {
		maxResults = maxIDsPerRequest
	}

	ids := make([]string, 0, maxResults)
	pageToken := ""

	for int64(len(ids)) < maxResults {
		pageSize := min(int64(maxIDsPerRequest), maxResults-int64(len(ids)))

		call := c.service.Search.List([]string{"snippet"}).
			Q(query).
			Type("video").
			Order("relevance").
			PublishedAfter(publishedAfter.UTC().Format(time.RFC3339)).
			MaxResults(pageSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		var nextToken string
		err := c.withRetry(ctx, func() error {
			resp, err := call.Do()
			if err != nil {
				return err
			}
			for _, item := range resp.Items {
				if item.Id != nil && item.Id.VideoId != "" {
					ids = append(ids, item.Id.VideoId)
				}
			}
			nextToken = resp.NextPageToken
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("search failed: %w", err)
		}

		if nextToken == "" {
			break
		}
		pageToken = nextToken
	}

	return ids, nil
}
