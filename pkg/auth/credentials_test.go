package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerStoreAndRetrieve(t *testing.T) {
	store := NewMockStore()
	manager := NewManagerWithStores(store)

	account := &Account{
		Username:  "someuser",
		SessionID: "session-value",
		CSRFToken: "csrf-value",
	}

	require.NoError(t, manager.Store(account))
	assert.False(t, account.LastModified.IsZero())

	got, err := manager.Retrieve("someuser")
	require.NoError(t, err)
	assert.Equal(t, "someuser", got.Username)
	assert.Equal(t, "session-value", got.SessionID)
	assert.Equal(t, "csrf-value", got.CSRFToken)
}

func TestManagerStoreValidation(t *testing.T) {
	manager := NewManagerWithStores(NewMockStore())

	assert.Error(t, manager.Store(&Account{SessionID: "s", CSRFToken: "c"}))
	assert.Error(t, manager.Store(&Account{Username: "u", CSRFToken: "c"}))
	assert.Error(t, manager.Store(&Account{Username: "u", SessionID: "s"}))
}

func TestManagerStoreFallsBack(t *testing.T) {
	failing := NewMockStore()
	failing.FailStore = true
	working := NewMockStore()

	manager := NewManagerWithStores(failing, working)

	account := &Account{Username: "someuser", SessionID: "s", CSRFToken: "c"}
	require.NoError(t, manager.Store(account))

	assert.False(t, failing.Exists("someuser"))
	assert.True(t, working.Exists("someuser"))
}

func TestManagerRetrieveNotFound(t *testing.T) {
	manager := NewManagerWithStores(NewMockStore())

	_, err := manager.Retrieve("nobody")
	assert.ErrorIs(t, err, ErrCredentialsNotFound)
}

func TestManagerListMergesAndSorts(t *testing.T) {
	older := time.Now().Add(-time.Hour)
	newer := time.Now()

	first := NewMockStore()
	require.NoError(t, first.Store(&Account{Username: "bravo", SessionID: "old", CSRFToken: "c", LastModified: older}))
	require.NoError(t, first.Store(&Account{Username: "alpha", SessionID: "s", CSRFToken: "c", LastModified: older}))

	second := NewMockStore()
	require.NoError(t, second.Store(&Account{Username: "bravo", SessionID: "new", CSRFToken: "c", LastModified: newer}))

	manager := NewManagerWithStores(first, second)

	accounts, err := manager.List()
	require.NoError(t, err)
	require.Len(t, accounts, 2)

	assert.Equal(t, "alpha", accounts[0].Username)
	assert.Equal(t, "bravo", accounts[1].Username)
	assert.Equal(t, "new", accounts[1].SessionID, "the newest version of a duplicated account wins")
}

func TestManagerDelete(t *testing.T) {
	store := NewMockStore()
	manager := NewManagerWithStores(store)

	require.NoError(t, store.Store(&Account{Username: "someuser", SessionID: "s", CSRFToken: "c"}))
	require.NoError(t, manager.Delete("someuser"))
	assert.False(t, store.Exists("someuser"))

	assert.Error(t, manager.Delete("someuser"))
}

func TestEnvironmentStore(t *testing.T) {
	t.Setenv("IGFETCH_SESSION_ID", "env-session")
	t.Setenv("IGFETCH_CSRF_TOKEN", "env-csrf")
	t.Setenv("IGFETCH_USER_AGENT", "env-agent")

	store := NewEnvironmentStore()

	account, err := store.Retrieve("")
	require.NoError(t, err)
	assert.Equal(t, "default", account.Username)
	assert.Equal(t, "env-session", account.SessionID)
	assert.Equal(t, "env-csrf", account.CSRFToken)
	assert.Equal(t, "env-agent", account.UserAgent)

	assert.True(t, store.Exists(""))
	assert.ErrorIs(t, store.Store(account), ErrStoreUnavailable)
	assert.ErrorIs(t, store.Delete("default"), ErrStoreUnavailable)
}

func TestEnvironmentStoreMissingValues(t *testing.T) {
	t.Setenv("IGFETCH_SESSION_ID", "")
	t.Setenv("IGFETCH_CSRF_TOKEN", "")

	store := NewEnvironmentStore()

	_, err := store.Retrieve("")
	assert.ErrorIs(t, err, ErrCredentialsNotFound)
	assert.False(t, store.Exists(""))
}

func TestManagerRetrieveDefaultPrefersEnvironment(t *testing.T) {
	t.Setenv("IGFETCH_SESSION_ID", "env-session")
	t.Setenv("IGFETCH_CSRF_TOKEN", "env-csrf")

	stored := NewMockStore()
	require.NoError(t, stored.Store(&Account{Username: "someuser", SessionID: "stored", CSRFToken: "c"}))

	manager := NewManagerWithStores(stored, NewEnvironmentStore())

	account, err := manager.RetrieveDefault()
	require.NoError(t, err)
	assert.Equal(t, "env-session", account.SessionID)
}

func TestEncryptedFileStoreRoundTrip(t *testing.T) {
	t.Setenv("IGFETCH_PASSPHRASE", "test-passphrase")

	dir := t.TempDir()
	store, err := NewEncryptedFileStore(dir + "/credentials.enc")
	require.NoError(t, err)

	account := &Account{
		Username:     "someuser",
		SessionID:    "secret-session",
		CSRFToken:    "secret-csrf",
		LastModified: time.Now(),
	}
	require.NoError(t, store.Store(account))

	got, err := store.Retrieve("someuser")
	require.NoError(t, err)
	assert.Equal(t, "secret-session", got.SessionID)

	accounts, err := store.List()
	require.NoError(t, err)
	assert.Len(t, accounts, 1)

	require.NoError(t, store.Delete("someuser"))
	_, err = store.Retrieve("someuser")
	assert.ErrorIs(t, err, ErrCredentialsNotFound)
}

func TestEncryptedFileStoreWrongPassphrase(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/credentials.enc"

	t.Setenv("IGFETCH_PASSPHRASE", "first")
	store, err := NewEncryptedFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Store(&Account{Username: "someuser", SessionID: "s", CSRFToken: "c"}))

	t.Setenv("IGFETCH_PASSPHRASE", "second")
	other, err := NewEncryptedFileStore(path)
	require.NoError(t, err)

	_, err = other.Retrieve("someuser")
	assert.Error(t, err)
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "********", MaskSecret("short"))
	assert.Equal(t, "********", MaskSecret(""))
	assert.Equal(t, "abcd...wxyz", MaskSecret("abcdefghijklmnopqrstuvwxyz"))
}
