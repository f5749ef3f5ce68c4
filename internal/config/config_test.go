package config

import (
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("YOUTUBE_API_KEY", "test-key")

		cfg, err := Load([]string{"--keyword", "cooking"})
		if err != nil {
			t.Fatal(err)
		}
		if cfg.MaxResults != 50 {
			t.Errorf("MaxResults = %d, want 50", cfg.MaxResults)
		}
		if cfg.WindowDays != 180 {
			t.Errorf("WindowDays = %d, want 180", cfg.WindowDays)
		}
		if cfg.MaxSubscribers != 5000 {
			t.Errorf("MaxSubscribers = %d, want 5000 for the api source", cfg.MaxSubscribers)
		}
		if cfg.ViewMultiplier != 3 {
			t.Errorf("ViewMultiplier = %v, want 3", cfg.ViewMultiplier)
		}
		if cfg.Source != SourceAPI || cfg.Auth != AuthKey {
			t.Errorf("source/auth defaults = %s/%s", cfg.Source, cfg.Auth)
		}
		if cfg.RequestDelay() != 300*time.Millisecond {
			t.Errorf("RequestDelay = %v, want 300ms", cfg.RequestDelay())
		}
	})

	t.Run("api source requires keyword", func(t *testing.T) {
		t.Setenv("YOUTUBE_API_KEY", "test-key")
		if _, err := Load(nil); err == nil {
			t.Error("expected error without --keyword")
		}
	})

	t.Run("api key required for key auth", func(t *testing.T) {
		t.Setenv("YOUTUBE_API_KEY", "")
		if _, err := Load([]string{"--keyword", "cooking"}); err == nil {
			t.Error("expected error without YOUTUBE_API_KEY")
		}
	})

	t.Run("innertube source needs no keyword or key", func(t *testing.T) {
		cfg, err := Load([]string{"--source", "innertube"})
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Source != SourceInnerTube {
			t.Errorf("Source = %s", cfg.Source)
		}
		if cfg.MaxSubscribers != 10000 {
			t.Errorf("MaxSubscribers = %d, want 10000 for the innertube source", cfg.MaxSubscribers)
		}
	})

	t.Run("explicit ceiling overrides per-source default", func(t *testing.T) {
		t.Setenv("YOUTUBE_API_KEY", "test-key")
		cfg, err := Load([]string{"--keyword", "cooking", "--max-subscribers", "777"})
		if err != nil {
			t.Fatal(err)
		}
		if cfg.MaxSubscribers != 777 {
			t.Errorf("MaxSubscribers = %d, want 777", cfg.MaxSubscribers)
		}
	})

	t.Run("threshold validation", func(t *testing.T) {
		t.Setenv("YOUTUBE_API_KEY", "test-key")
		if _, err := Load([]string{"--keyword", "x", "--window-days", "0"}); err == nil {
			t.Error("expected error for zero window")
		}
		if _, err := Load([]string{"--keyword", "x", "--view-multiplier", "-1"}); err == nil {
			t.Error("expected error for negative multiplier")
		}
	})
}
