package youtube

import (
	"context"
	"fmt"

	"github.com/halfminthink-bit/youtube-search/internal/buzz"
)

// FetchSubscribers retrieves subscriber counts for channelIDs via
// channels.list, batching maxIDsPerRequest ids per call. Channels with a
// hidden subscriber count, and channels the API does not return, are marked
// unavailable. Costs 1 quota unit per 50 channels.
func (c *Client) FetchSubscribers(ctx context.Context, channelIDs []string) (map[string]buzz.Subscribers, error) {
	subs := make(map[string]buzz.Subscribers, len(channelIDs))

	for start := 0; start < len(channelIDs); start += maxIDsPerRequest {
		end := min(start+maxIDsPerRequest, len(channelIDs))
		batch := channelIDs[start:end]

		call := c.service.Channels.
			List([]string{"statistics"}).
			Id(batch...).
			Context(ctx)

		err := c.withRetry(ctx, func() error {
			resp, err := call.Do()
			if err != nil {
				return err
			}
			for _, item := range resp.Items {
				if item.Statistics == nil || item.Statistics.HiddenSubscriberCount {
					subs[item.Id] = buzz.Subscribers{}
					continue
				}
				subs[item.Id] = buzz.Subscribers{
					Count: int64(item.Statistics.SubscriberCount),
					Known: true,
				}
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch channel statistics: %w", err)
		}
	}

	return subs, nil
}
