// Package youtube wraps the official YouTube Data API v3 for video search,
// detail and channel statistics lookups.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/halfminthink-bit/youtube-search/internal/buzz"
)

const (
	// maxIDsPerRequest is the Data API's item ceiling for id-list calls.
	maxIDsPerRequest = 50

	retryAttempts = 3
	retryBaseWait = time.Second
)

// Client wraps the YouTube API service with helper methods.
type Client struct {
	service *youtube.Service
	sleep   func(time.Duration) // overridden in tests
}

// NewClient creates a new YouTube API client. Authentication is supplied by
// the caller as client options, either option.WithAPIKey or
// option.WithHTTPClient with an OAuth2-backed client.
func NewClient(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube service: %w", err)
	}

	return &Client{
		service: service,
		sleep:   time.Sleep,
	}, nil
}

// withRetry runs call, retrying transient server errors with exponential
// backoff (1s, 2s, ...). Quota and permission failures come back wrapped in
// buzz.FatalError so the pipeline aborts instead of grinding through the
// rest of the batch.
func (c *Client) withRetry(ctx context.Context, call func() error) error {
	wait := retryBaseWait
	for attempt := 0; ; attempt++ {
		err := call()
		if err == nil {
			return nil
		}

		var gerr *googleapi.Error
		if errors.As(err, &gerr) {
			if gerr.Code == http.StatusForbidden {
				return &buzz.FatalError{Err: fmt.Errorf("quota or permission error: %w", err)}
			}
			if isTransient(gerr.Code) && attempt < retryAttempts-1 {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				c.sleep(wait)
				wait *= 2
				continue
			}
		}
		return err
	}
}

func isTransient(code int) bool {
	return code == http.StatusInternalServerError || code == http.StatusServiceUnavailable
}
