package auth

import (
	"os"
	"time"
)

// EnvironmentStore implements read-only CredentialStore on IGFETCH_*
// environment variables
type EnvironmentStore struct{}

// NewEnvironmentStore creates an environment-backed credential store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(account *Account) error {
	return ErrStoreUnavailable
}

// Retrieve builds an account from environment variables. The environment
// carries no username, so an empty one becomes "default".
func (e *EnvironmentStore) Retrieve(username string) (*Account, error) {
	sessionID := os.Getenv("IGFETCH_SESSION_ID")
	csrfToken := os.Getenv("IGFETCH_CSRF_TOKEN")

	if sessionID == "" || csrfToken == "" {
		return nil, ErrCredentialsNotFound
	}

	if username == "" {
		username = "default"
	}

	return &Account{
		Username:     username,
		SessionID:    sessionID,
		CSRFToken:    csrfToken,
		UserAgent:    os.Getenv("IGFETCH_USER_AGENT"),
		LastModified: time.Now(),
	}, nil
}

// List returns the environment account when one is configured
func (e *EnvironmentStore) List() ([]*Account, error) {
	account, err := e.Retrieve("")
	if err != nil {
		return []*Account{}, nil
	}
	return []*Account{account}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(username string) error {
	return ErrStoreUnavailable
}

// Exists reports whether the environment carries credentials
func (e *EnvironmentStore) Exists(username string) bool {
	return os.Getenv("IGFETCH_SESSION_ID") != "" && os.Getenv("IGFETCH_CSRF_TOKEN") != ""
}
