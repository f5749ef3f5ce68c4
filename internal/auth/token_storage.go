package auth

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/oauth2"
)

// TokenStorage persists OAuth2 tokens between runs.
type TokenStorage interface {
	Load() (*oauth2.Token, error)
	Save(token *oauth2.Token) error
}

// FileTokenStorage keeps the token in a JSON file.
type FileTokenStorage struct {
	path string
}

// NewFileTokenStorage creates a FileTokenStorage at path.
func NewFileTokenStorage(path string) *FileTokenStorage {
	return &FileTokenStorage{path: path}
}

// DefaultTokenPath returns ~/.config/youtube-search/token.json (or the
// platform equivalent).
func DefaultTokenPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "token.json"
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "youtube-search", "token.json")
}

// Load reads the token from the file.
func (f *FileTokenStorage) Load() (*oauth2.Token, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to unmarshal token: %w", err)
	}
	return &token, nil
}

// Save writes the token atomically: parent dir created as needed, content
// written to a temporary file, then renamed into place.
func (f *FileTokenStorage) Save(token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	tmpPath := f.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary token file: %w", err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		return fmt.Errorf("failed to rename token file: %w", err)
	}
	return nil
}

// MemoryTokenStorage keeps the token in memory only, for runs where nothing
// should touch the filesystem. The grant is repeated on the next process.
type MemoryTokenStorage struct {
	mu    sync.RWMutex
	token *oauth2.Token
}

// NewMemoryTokenStorage creates an empty MemoryTokenStorage.
func NewMemoryTokenStorage() *MemoryTokenStorage {
	return &MemoryTokenStorage{}
}

// Load returns the stored token, or an error if none has been saved.
func (m *MemoryTokenStorage) Load() (*oauth2.Token, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.token == nil {
		return nil, fmt.Errorf("no token stored in memory")
	}
	return m.token, nil
}

// Save stores the token in memory.
func (m *MemoryTokenStorage) Save(token *oauth2.Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

// PersistingTokenSource wraps an oauth2.TokenSource and re-saves the token
// whenever the underlying source refreshed it, so silent refreshes survive
// process restarts.
type PersistingTokenSource struct {
	base      oauth2.TokenSource
	storage   TokenStorage
	logger    *slog.Logger
	mu        sync.Mutex
	lastToken *oauth2.Token
}

// NewPersistingTokenSource creates a PersistingTokenSource.
func NewPersistingTokenSource(base oauth2.TokenSource, storage TokenStorage, logger *slog.Logger) *PersistingTokenSource {
	return &PersistingTokenSource{
		base:    base,
		storage: storage,
		logger:  logger,
	}
}

// Token returns a valid token, refreshing if necessary, and persists any
// refreshed token. A failed save is logged, not returned: the token itself
// is still good for the current run.
func (p *PersistingTokenSource) Token() (*oauth2.Token, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	token, err := p.base.Token()
	if err != nil {
		return nil, err
	}

	if p.lastToken == nil || p.lastToken.AccessToken != token.AccessToken {
		if err := p.storage.Save(token); err != nil {
			p.logger.Error("failed to persist refreshed token", "error", err)
		} else {
			p.logger.Info("persisted refreshed token")
		}
		p.lastToken = token
	}

	return token, nil
}

var _ TokenStorage = (*FileTokenStorage)(nil)
var _ TokenStorage = (*MemoryTokenStorage)(nil)
var _ oauth2.TokenSource = (*PersistingTokenSource)(nil)
