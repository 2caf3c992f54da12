// Package auth stores Instagram session credentials across a chain of
// backends: system keychain, encrypted file, environment variables.
package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"
)

var (
	ErrCredentialsNotFound = errors.New("credentials not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrStoreUnavailable    = errors.New("credential store unavailable")
)

// Account holds one Instagram account's session credentials
type Account struct {
	Username     string    `json:"username"`
	SessionID    string    `json:"session_id"`
	CSRFToken    string    `json:"csrf_token"`
	UserAgent    string    `json:"user_agent,omitempty"`
	LastModified time.Time `json:"last_modified"`
}

// CredentialStore is one backend for credential storage
type CredentialStore interface {
	// Store saves credentials for an account
	Store(account *Account) error

	// Retrieve gets credentials for a username
	Retrieve(username string) (*Account, error)

	// List returns all stored accounts
	List() ([]*Account, error)

	// Delete removes credentials for a username
	Delete(username string) error

	// Exists reports whether credentials exist for a username
	Exists(username string) bool
}

// Manager chains credential stores, writing to the first that accepts and
// reading from the first that answers
type Manager struct {
	stores []CredentialStore
}

// NewManager creates a Manager with the available backends
func NewManager() (*Manager, error) {
	var stores []CredentialStore

	if keyringStore, err := NewKeyringStore(); err == nil {
		stores = append(stores, keyringStore)
	}

	configDir, err := configDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config directory: %w", err)
	}

	encryptedStore, err := NewEncryptedFileStore(filepath.Join(configDir, "credentials.enc"))
	if err != nil {
		return nil, fmt.Errorf("failed to create encrypted store: %w", err)
	}
	stores = append(stores, encryptedStore)

	stores = append(stores, NewEnvironmentStore())

	return &Manager{stores: stores}, nil
}

// NewManagerWithStores creates a Manager over an explicit store chain
func NewManagerWithStores(stores ...CredentialStore) *Manager {
	return &Manager{stores: stores}
}

// Store saves credentials using the first store that accepts them
func (m *Manager) Store(account *Account) error {
	if account == nil || account.Username == "" {
		return errors.New("username is required")
	}
	if account.SessionID == "" {
		return errors.New("session ID is required")
	}
	if account.CSRFToken == "" {
		return errors.New("CSRF token is required")
	}

	account.LastModified = time.Now()

	var lastErr error
	for _, store := range m.stores {
		if err := store.Store(account); err == nil {
			return nil
		} else {
			lastErr = err
		}
	}

	if lastErr != nil {
		return fmt.Errorf("failed to store credentials: %w", lastErr)
	}
	return ErrStoreUnavailable
}

// Retrieve gets credentials from the first store that has them
func (m *Manager) Retrieve(username string) (*Account, error) {
	for _, store := range m.stores {
		if account, err := store.Retrieve(username); err == nil && account != nil {
			return account, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrCredentialsNotFound, username)
}

// RetrieveDefault gets credentials from the environment when present,
// otherwise the first stored account
func (m *Manager) RetrieveDefault() (*Account, error) {
	for _, store := range m.stores {
		if envStore, ok := store.(*EnvironmentStore); ok {
			if account, err := envStore.Retrieve(""); err == nil {
				return account, nil
			}
		}
	}

	accounts, err := m.List()
	if err == nil && len(accounts) > 0 {
		return accounts[0], nil
	}

	return nil, ErrCredentialsNotFound
}

// List returns the union of accounts across all stores, newest version of
// each, sorted by username
func (m *Manager) List() ([]*Account, error) {
	byUsername := make(map[string]*Account)

	for _, store := range m.stores {
		accounts, err := store.List()
		if err != nil {
			continue
		}
		for _, account := range accounts {
			existing, ok := byUsername[account.Username]
			if !ok || account.LastModified.After(existing.LastModified) {
				byUsername[account.Username] = account
			}
		}
	}

	result := make([]*Account, 0, len(byUsername))
	for _, account := range byUsername {
		result = append(result, account)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Username < result[j].Username
	})

	return result, nil
}

// Delete removes credentials for a username from every store
func (m *Manager) Delete(username string) error {
	var deleted bool
	var lastErr error

	for _, store := range m.stores {
		if err := store.Delete(username); err == nil {
			deleted = true
		} else {
			lastErr = err
		}
	}

	if deleted {
		return nil
	}
	if lastErr != nil {
		return fmt.Errorf("failed to delete credentials: %w", lastErr)
	}
	return fmt.Errorf("%w: %s", ErrCredentialsNotFound, username)
}

// configDir returns the per-user directory for credential files
func configDir() (string, error) {
	var dir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, "Library", "Application Support", "igfetch")
	case "windows":
		dir = filepath.Join(os.Getenv("APPDATA"), "igfetch")
	default:
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			dir = filepath.Join(xdgConfig, "igfetch")
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			dir = filepath.Join(home, ".config", "igfetch")
		}
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return dir, nil
}

// MaskSecret hides all but the edges of a secret for display
func MaskSecret(s string) string {
	if len(s) <= 8 {
		return "********"
	}
	return s[:4] + "..." + s[len(s)-4:]
}
