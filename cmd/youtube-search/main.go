package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	"github.com/halfminthink-bit/youtube-search/internal/auth"
	"github.com/halfminthink-bit/youtube-search/internal/buzz"
	"github.com/halfminthink-bit/youtube-search/internal/config"
	"github.com/halfminthink-bit/youtube-search/internal/export"
	"github.com/halfminthink-bit/youtube-search/internal/innertube"
	"github.com/halfminthink-bit/youtube-search/internal/youtube"
)

func main() {
	log.SetOutput(os.Stderr)

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		if errors.Is(err, config.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	now := time.Now().UTC()

	sources, detailSource, subscriberFetch, err := buildSources(ctx, cfg, logger, now)
	if err != nil {
		return err
	}

	cache := buzz.NewSubscriberCache(subscriberFetch)
	limiter := rate.NewLimiter(rate.Every(cfg.RequestDelay()), 1)
	fetcher := buzz.NewFetcher(detailSource, limiter, logger)
	filter := buzz.NewFilter(cache, buzz.Thresholds{
		WindowDays:     cfg.WindowDays,
		MaxSubscribers: cfg.MaxSubscribers,
		ViewMultiplier: cfg.ViewMultiplier,
	})
	pipeline := buzz.NewPipeline(fetcher, filter, cache, logger)

	result, err := pipeline.Run(ctx, sources, now)
	if err != nil {
		return err
	}

	logger.Info("filter stages",
		"total", result.Counts.Total,
		"recent", result.Counts.Recent,
		"small_channel", result.Counts.SmallChannel,
		"buzz", result.Counts.Buzz,
	)

	if len(result.Records) == 0 {
		logger.Info("no qualifying videos; nothing to export")
		return nil
	}

	path, err := export.NewExporter(cfg.OutDir).Export(result.Records, cfg.Keyword)
	if err != nil {
		return err
	}
	logger.Info("done", "records", len(result.Records), "file", path)
	return nil
}

// buildSources constructs the discovery sources and the detail/subscriber
// backends for the configured data path.
func buildSources(ctx context.Context, cfg *config.Config, logger *slog.Logger, now time.Time) ([]buzz.Source, buzz.DetailSource, buzz.SubscriberFetchFunc, error) {
	switch cfg.Source {
	case config.SourceInnerTube:
		client, err := innertube.New(logger)
		if err != nil {
			return nil, nil, nil, err
		}
		sources := []buzz.Source{
			{Name: "trending", Discover: func(ctx context.Context) ([]string, error) {
				return client.BrowseFeed(ctx, innertube.FeedTrending)
			}},
			{Name: "home", Discover: func(ctx context.Context) ([]string, error) {
				return client.BrowseFeed(ctx, innertube.FeedHome)
			}},
		}
		return sources, client, client.FetchSubscribers, nil

	default:
		opts, err := clientOptions(ctx, cfg, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		client, err := youtube.NewClient(ctx, opts...)
		if err != nil {
			return nil, nil, nil, err
		}
		publishedAfter := now.AddDate(0, 0, -cfg.WindowDays)
		sources := []buzz.Source{
			{Name: "search", Discover: func(ctx context.Context) ([]string, error) {
				return client.SearchVideos(ctx, cfg.Keyword, cfg.MaxResults, publishedAfter)
			}},
		}
		return sources, client, client.FetchSubscribers, nil
	}
}

// clientOptions picks the credential strategy: a plain API key, or the OAuth
// browser grant with a persisted token.
func clientOptions(ctx context.Context, cfg *config.Config, logger *slog.Logger) ([]option.ClientOption, error) {
	if cfg.Auth == config.AuthKey {
		return []option.ClientOption{option.WithAPIKey(cfg.APIKey)}, nil
	}

	oauthCfg := auth.NewOAuth2Config(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.OAuthRedirectURL)
	storage := auth.NewFileTokenStorage(auth.DefaultTokenPath())
	httpClient, err := auth.Authenticate(ctx, oauthCfg, storage, cfg.OAuthPort, logger)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}
	return []option.ClientOption{option.WithHTTPClient(httpClient)}, nil
}
