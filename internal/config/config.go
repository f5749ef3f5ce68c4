// Package config assembles the run configuration: search options from the
// command line, credential material from the environment (or a .env file).
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

// Source selects where candidate videos come from.
const (
	SourceAPI       = "api"       // official Data API keyword search
	SourceInnerTube = "innertube" // unofficial feed browse, no keyword
)

// Auth selects the credential strategy for the official path.
const (
	AuthKey   = "key"
	AuthOAuth = "oauth"
)

// Options is the CLI surface. Every flag can also come from the
// environment.
type Options struct {
	Keyword        string  `long:"keyword" env:"SEARCH_KEYWORD" description:"Search keyword (required for --source=api)"`
	MaxResults     int64   `long:"max-results" env:"MAX_RESULTS" default:"50" description:"Maximum search results to collect"`
	WindowDays     int     `long:"window-days" env:"WINDOW_DAYS" default:"180" description:"Recency window in days"`
	MaxSubscribers int64   `long:"max-subscribers" env:"MAX_SUBSCRIBERS" description:"Channel subscriber ceiling, exclusive (default: 5000 for --source=api, 10000 for --source=innertube)"`
	ViewMultiplier float64 `long:"view-multiplier" env:"VIEW_MULTIPLIER" default:"3" description:"Minimum views-to-subscribers ratio"`
	Source         string  `long:"source" env:"SOURCE" default:"api" choice:"api" choice:"innertube" description:"Discovery source"`
	Auth           string  `long:"auth" env:"AUTH" default:"key" choice:"key" choice:"oauth" description:"Credential strategy for --source=api"`
	RequestDelayMS int     `long:"request-delay" env:"REQUEST_DELAY_MS" default:"300" description:"Delay between consecutive lookups in milliseconds"`
	OutDir         string  `long:"out-dir" env:"OUT_DIR" default:"." description:"Directory for the result CSV"`
	Debug          bool    `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

// RequestDelay returns the inter-request delay as a duration.
func (o *Options) RequestDelay() time.Duration {
	return time.Duration(o.RequestDelayMS) * time.Millisecond
}

// Secrets holds credential material. It never appears on the command line.
type Secrets struct {
	// APIKey is the YouTube Data API key, required for --auth=key.
	APIKey string `env:"YOUTUBE_API_KEY"`

	// GoogleClientID / GoogleClientSecret identify the OAuth2 client,
	// required for --auth=oauth.
	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`

	// OAuthRedirectURL is the OAuth callback URL.
	OAuthRedirectURL string `env:"OAUTH_REDIRECT_URL" envDefault:"http://localhost:8080/callback"`

	// OAuthPort is the port for the local OAuth callback server.
	OAuthPort int `env:"OAUTH_PORT" envDefault:"8080"`
}

// Config is the fully-loaded run configuration.
type Config struct {
	Options
	Secrets
}

// ErrHelp is returned when the user asked for --help; the help text has
// already been printed.
var ErrHelp = fmt.Errorf("help requested")

// Load parses args (excluding the program name) and the environment. A .env
// file is honored when present.
func Load(args []string) (*Config, error) {
	_ = godotenv.Load() // .env is optional

	cfg := &Config{}

	parser := flags.NewParser(&cfg.Options, flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			fmt.Println(flagsErr.Message)
			return nil, ErrHelp
		}
		return nil, err
	}

	if err := env.Parse(&cfg.Secrets); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	cfg.applyDefaults()
	return cfg, cfg.validate()
}

// applyDefaults fills in values that depend on other options. The subscriber
// ceiling differs per source: the keyword search targets tighter niches than
// the broad feed browse.
func (c *Config) applyDefaults() {
	if c.MaxSubscribers == 0 {
		if c.Source == SourceInnerTube {
			c.MaxSubscribers = 10000
		} else {
			c.MaxSubscribers = 5000
		}
	}
}

func (c *Config) validate() error {
	if c.Source == SourceAPI {
		if c.Keyword == "" {
			return fmt.Errorf("--keyword is required with --source=api")
		}
		switch c.Auth {
		case AuthKey:
			if c.APIKey == "" {
				return fmt.Errorf("YOUTUBE_API_KEY is not set (put YOUTUBE_API_KEY=... in .env or the environment)")
			}
		case AuthOAuth:
			if c.GoogleClientID == "" || c.GoogleClientSecret == "" {
				return fmt.Errorf("GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET are required with --auth=oauth")
			}
		}
	}
	if c.WindowDays <= 0 {
		return fmt.Errorf("--window-days must be positive")
	}
	if c.MaxSubscribers <= 0 {
		return fmt.Errorf("--max-subscribers must be positive")
	}
	if c.ViewMultiplier < 0 {
		return fmt.Errorf("--view-multiplier must not be negative")
	}
	return nil
}
