// Package auth supplies the credential strategies for the official Data API
// path: a one-time browser OAuth2 grant with silent reuse and refresh on
// later runs, or a plain API key handled by the caller.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/youtube/v3"
)

// NewOAuth2Config builds the OAuth2 configuration for the YouTube Data API.
// The read-only scope is enough: this tool never mutates anything.
func NewOAuth2Config(clientID, clientSecret, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     google.Endpoint,
		Scopes:       []string{youtube.YoutubeReadonlyScope},
	}
}

// Authenticate returns an HTTP client authorized for the Data API. A token
// already in storage is reused (and refreshed tokens are re-persisted);
// otherwise the user is sent through the browser grant once, with a local
// callback server catching the authorization code.
func Authenticate(ctx context.Context, cfg *oauth2.Config, storage TokenStorage, port int, logger *slog.Logger) (*http.Client, error) {
	token, err := storage.Load()
	if err == nil {
		logger.Info("loaded saved token")
		source := NewPersistingTokenSource(cfg.TokenSource(ctx, token), storage, logger)
		return oauth2.NewClient(ctx, source), nil
	}
	logger.Info("no saved token, starting browser grant", "error", err.Error())

	authURL := cfg.AuthCodeURL("state",
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"), // force a refresh token on re-auth
	)
	fmt.Fprintf(os.Stderr, "\nVisit this URL to authorize:\n%s\n\n", authURL)

	code, err := waitForCode(ctx, port, logger)
	if err != nil {
		return nil, err
	}

	token, err = cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code for token: %w", err)
	}

	if err := storage.Save(token); err != nil {
		// Not fatal: the token still works for this run.
		logger.Error("failed to save token", "error", err)
	}

	source := NewPersistingTokenSource(cfg.TokenSource(ctx, token), storage, logger)
	return oauth2.NewClient(ctx, source), nil
}

// waitForCode runs a local HTTP server on port until the OAuth callback
// delivers an authorization code, the server fails, or ctx is cancelled.
func waitForCode(ctx context.Context, port int, logger *slog.Logger) (string, error) {
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			errCh <- fmt.Errorf("no authorization code in callback")
			http.Error(w, "Authorization failed: no code", http.StatusBadRequest)
			return
		}
		codeCh <- code
		fmt.Fprintf(w, "Authorization successful! You can close this window.")
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("callback server failed: %w", err)
		}
	}()
	logger.Info("callback server started", "port", port)

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shut down callback server", "error", err)
		}
	}()

	select {
	case code := <-codeCh:
		logger.Info("received authorization code")
		return code, nil
	case err := <-errCh:
		return "", err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
