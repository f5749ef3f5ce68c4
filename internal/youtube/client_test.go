package youtube

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"google.golang.org/api/googleapi"

	"github.com/halfminthink-bit/youtube-search/internal/buzz"
)

func testClient() (*Client, *[]time.Duration) {
	var slept []time.Duration
	c := &Client{sleep: func(d time.Duration) { slept = append(slept, d) }}
	return c, &slept
}

func TestWithRetry(t *testing.T) {
	ctx := context.Background()

	t.Run("transient errors retried with doubling backoff", func(t *testing.T) {
		c, slept := testClient()
		attempts := 0
		err := c.withRetry(ctx, func() error {
			attempts++
			if attempts < 3 {
				return &googleapi.Error{Code: http.StatusServiceUnavailable}
			}
			return nil
		})
		if err != nil {
			t.Fatalf("expected success after retries, got %v", err)
		}
		if attempts != 3 {
			t.Errorf("attempts = %d, want 3", attempts)
		}
		if len(*slept) != 2 || (*slept)[0] != time.Second || (*slept)[1] != 2*time.Second {
			t.Errorf("backoff sequence = %v, want [1s 2s]", *slept)
		}
	})

	t.Run("retries exhausted", func(t *testing.T) {
		c, _ := testClient()
		attempts := 0
		err := c.withRetry(ctx, func() error {
			attempts++
			return &googleapi.Error{Code: http.StatusInternalServerError}
		})
		if err == nil {
			t.Fatal("expected error after exhausting retries")
		}
		if attempts != retryAttempts {
			t.Errorf("attempts = %d, want %d", attempts, retryAttempts)
		}
	})

	t.Run("quota error is fatal and not retried", func(t *testing.T) {
		c, slept := testClient()
		attempts := 0
		err := c.withRetry(ctx, func() error {
			attempts++
			return &googleapi.Error{Code: http.StatusForbidden, Message: "quotaExceeded"}
		})
		if !buzz.IsFatal(err) {
			t.Errorf("403 should be fatal, got %v", err)
		}
		if attempts != 1 || len(*slept) != 0 {
			t.Errorf("403 was retried: %d attempts, %d sleeps", attempts, len(*slept))
		}
	})

	t.Run("other errors propagate immediately", func(t *testing.T) {
		c, slept := testClient()
		attempts := 0
		err := c.withRetry(ctx, func() error {
			attempts++
			return fmt.Errorf("connection reset")
		})
		if err == nil || buzz.IsFatal(err) {
			t.Errorf("plain error mishandled: %v", err)
		}
		if attempts != 1 || len(*slept) != 0 {
			t.Errorf("plain error was retried")
		}
	})

	t.Run("404 not retried", func(t *testing.T) {
		c, _ := testClient()
		attempts := 0
		err := c.withRetry(ctx, func() error {
			attempts++
			return &googleapi.Error{Code: http.StatusNotFound}
		})
		if err == nil || attempts != 1 {
			t.Errorf("404 should propagate immediately: err=%v attempts=%d", err, attempts)
		}
	})
}
