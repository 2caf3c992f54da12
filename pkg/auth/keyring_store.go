package auth

import (
	"encoding/json"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "igfetch"
	keyringPrefix  = "account_"
)

// KeyringStore implements CredentialStore on the system keychain
type KeyringStore struct{}

// NewKeyringStore creates a keyring-backed store, probing availability first
func NewKeyringStore() (*KeyringStore, error) {
	probe := "availability_probe"
	if err := keyring.Set(keyringService, probe, "ok"); err != nil {
		return nil, fmt.Errorf("keyring not available: %w", err)
	}
	_ = keyring.Delete(keyringService, probe)

	return &KeyringStore{}, nil
}

// Store saves an account to the keychain as JSON
func (k *KeyringStore) Store(account *Account) error {
	if account == nil || account.Username == "" {
		return ErrInvalidCredentials
	}

	data, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("failed to marshal account: %w", err)
	}

	if err := keyring.Set(keyringService, keyringPrefix+account.Username, string(data)); err != nil {
		return fmt.Errorf("failed to store in keyring: %w", err)
	}

	return nil
}

// Retrieve gets an account from the keychain
func (k *KeyringStore) Retrieve(username string) (*Account, error) {
	if username == "" {
		return nil, ErrInvalidCredentials
	}

	data, err := keyring.Get(keyringService, keyringPrefix+username)
	if err != nil {
		if err == keyring.ErrNotFound {
			return nil, ErrCredentialsNotFound
		}
		return nil, fmt.Errorf("failed to retrieve from keyring: %w", err)
	}

	var account Account
	if err := json.Unmarshal([]byte(data), &account); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account: %w", err)
	}

	return &account, nil
}

// List returns nothing; the keyring API cannot enumerate keys portably
func (k *KeyringStore) List() ([]*Account, error) {
	return []*Account{}, nil
}

// Delete removes an account from the keychain
func (k *KeyringStore) Delete(username string) error {
	if username == "" {
		return ErrInvalidCredentials
	}

	if err := keyring.Delete(keyringService, keyringPrefix+username); err != nil {
		if err == keyring.ErrNotFound {
			return ErrCredentialsNotFound
		}
		return fmt.Errorf("failed to delete from keyring: %w", err)
	}

	return nil
}

// Exists reports whether the keychain holds credentials for the username
func (k *KeyringStore) Exists(username string) bool {
	if username == "" {
		return false
	}
	_, err := keyring.Get(keyringService, keyringPrefix+username)
	return err == nil
}
