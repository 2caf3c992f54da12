package auth

import "sync"

// MockStore is an in-memory CredentialStore for tests
type MockStore struct {
	mu       sync.RWMutex
	accounts map[string]*Account

	// FailStore makes Store return ErrStoreUnavailable
	FailStore bool
}

// NewMockStore creates an empty in-memory store
func NewMockStore() *MockStore {
	return &MockStore{accounts: make(map[string]*Account)}
}

func (m *MockStore) Store(account *Account) error {
	if m.FailStore {
		return ErrStoreUnavailable
	}
	if account == nil || account.Username == "" {
		return ErrInvalidCredentials
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *account
	m.accounts[account.Username] = &copied
	return nil
}

func (m *MockStore) Retrieve(username string) (*Account, error) {
	if username == "" {
		return nil, ErrInvalidCredentials
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	account, ok := m.accounts[username]
	if !ok {
		return nil, ErrCredentialsNotFound
	}
	copied := *account
	return &copied, nil
}

func (m *MockStore) List() ([]*Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*Account, 0, len(m.accounts))
	for _, account := range m.accounts {
		copied := *account
		result = append(result, &copied)
	}
	return result, nil
}

func (m *MockStore) Delete(username string) error {
	if username == "" {
		return ErrInvalidCredentials
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[username]; !ok {
		return ErrCredentialsNotFound
	}
	delete(m.accounts, username)
	return nil
}

func (m *MockStore) Exists(username string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.accounts[username]
	return ok
}
