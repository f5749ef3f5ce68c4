package buzz

import (
	"context"
	"sync"
)

// SubscriberFetchFunc retrieves subscriber counts for a batch of channel ids.
// Channels missing from the returned map are recorded as unavailable.
type SubscriberFetchFunc func(ctx context.Context, channelIDs []string) (map[string]Subscribers, error)

// SubscriberCache memoizes channel-id to subscriber-count lookups for the
// lifetime of one run. Unavailable results are cached too, so a channel is
// never queried twice. The cache has no eviction; it is bounded by the number
// of distinct channels seen in a run.
type SubscriberCache struct {
	mu      sync.Mutex
	entries map[string]Subscribers
	fetch   SubscriberFetchFunc
}

// NewSubscriberCache creates a cache that delegates misses to fetch.
func NewSubscriberCache(fetch SubscriberFetchFunc) *SubscriberCache {
	return &SubscriberCache{
		entries: make(map[string]Subscribers),
		fetch:   fetch,
	}
}

// GetOrFetch returns the cached subscriber count for channelID, fetching it
// on a miss. The stored answer is returned as-is on every subsequent call.
func (c *SubscriberCache) GetOrFetch(ctx context.Context, channelID string) (Subscribers, error) {
	c.mu.Lock()
	if subs, ok := c.entries[channelID]; ok {
		c.mu.Unlock()
		return subs, nil
	}
	c.mu.Unlock()

	fetched, err := c.fetch(ctx, []string{channelID})
	if err != nil {
		return Subscribers{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// A concurrent caller may have filled the entry while we fetched; keep
	// the first answer so every record of the channel resolves identically.
	if subs, ok := c.entries[channelID]; ok {
		return subs, nil
	}
	c.entries[channelID] = fetched[channelID]
	return c.entries[channelID], nil
}

// Warm fetches the subset of channelIDs not already cached and stores the
// answers. Already-cached entries are left untouched.
func (c *SubscriberCache) Warm(ctx context.Context, channelIDs []string) error {
	c.mu.Lock()
	missing := make([]string, 0, len(channelIDs))
	for _, id := range channelIDs {
		if _, ok := c.entries[id]; !ok {
			missing = append(missing, id)
		}
	}
	c.mu.Unlock()

	if len(missing) == 0 {
		return nil
	}

	fetched, err := c.fetch(ctx, missing)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range missing {
		if _, ok := c.entries[id]; !ok {
			c.entries[id] = fetched[id]
		}
	}
	return nil
}

// Len reports the number of cached channels.
func (c *SubscriberCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
