// Package innertube talks to YouTube's internal InnerTube API. It needs no
// API key or quota, but everything here rides on undocumented response
// shapes and feed selectors that YouTube may change at any time; callers
// should treat this source as best-effort.
package innertube

import (
	"context"
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"
	innertubego "github.com/nezbut/innertube-go"

	"github.com/halfminthink-bit/youtube-search/internal/buzz"
)

// Undocumented browse selectors. Their continued validity is not guaranteed
// by any stable contract.
const (
	FeedTrending = "FEtrending"
	FeedHome     = "FEwhat_to_watch"
)

const (
	clientType    = "WEB"
	clientVersion = "2.20230728.00.00"

	// channelCacheSize bounds the raw browse-response cache; the
	// authoritative per-run memo is buzz.SubscriberCache.
	channelCacheSize = 1024
)

// Client wraps an InnerTube session.
type Client struct {
	it           *innertubego.InnerTube
	channelCache *lru.Cache[string, buzz.Subscribers]
	logger       *slog.Logger
}

// New creates an unauthenticated InnerTube client.
func New(logger *slog.Logger) (*Client, error) {
	it, err := innertubego.NewInnerTube(
		nil,           // config defaults
		clientType,    // client type
		clientVersion, // client version
		"",            // api key not needed for unauthenticated access
		"",            // access token
		"",            // refresh token
		nil,           // default http client
		false,         // debug
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create innertube client: %w", err)
	}

	channelCache, err := lru.New[string, buzz.Subscribers](channelCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create channel cache: %w", err)
	}

	return &Client{
		it:           it,
		channelCache: channelCache,
		logger:       logger,
	}, nil
}

// BrowseFeed fetches the given feed selector and harvests the embedded
// video ids. The result may contain duplicates; the collector dedupes.
func (c *Client) BrowseFeed(ctx context.Context, feedID string) ([]string, error) {
	browseID := feedID
	data, err := c.it.Browse(ctx, &browseID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to browse %s: %w", feedID, err)
	}

	ids := HarvestVideoIDs(data)
	c.logger.Info("browsed feed", "feed", feedID, "ids", len(ids))
	return ids, nil
}

// FetchSubscribers resolves subscriber counts by browsing each channel page
// and parsing the free-text count out of the header. A channel whose header
// cannot be fetched or parsed is marked unavailable rather than failing the
// batch.
func (c *Client) FetchSubscribers(ctx context.Context, channelIDs []string) (map[string]buzz.Subscribers, error) {
	subs := make(map[string]buzz.Subscribers, len(channelIDs))
	for _, id := range channelIDs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if cached, ok := c.channelCache.Get(id); ok {
			subs[id] = cached
			continue
		}

		resolved := c.fetchChannelSubscribers(ctx, id)
		c.channelCache.Add(id, resolved)
		subs[id] = resolved
	}
	return subs, nil
}

func (c *Client) fetchChannelSubscribers(ctx context.Context, channelID string) buzz.Subscribers {
	browseID := channelID
	data, err := c.it.Browse(ctx, &browseID, nil, nil)
	if err != nil {
		c.logger.Warn("channel browse failed", "channel_id", channelID, "error", err)
		return buzz.Subscribers{}
	}

	count, ok := subscribersFromChannelHeader(data)
	if !ok {
		c.logger.Warn("no subscriber count in channel header", "channel_id", channelID)
		return buzz.Subscribers{}
	}
	return buzz.Subscribers{Count: count, Known: true}
}
