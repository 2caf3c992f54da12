package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize   = 32
	keySize    = 32
	iterations = 100000
)

// EncryptedFileStore implements CredentialStore on an AES-GCM encrypted
// file, keyed by a passphrase from the environment or a generated file
type EncryptedFileStore struct {
	path       string
	passphrase string
	mu         sync.RWMutex
}

type credentialFile struct {
	Salt      string    `json:"salt"`
	Encrypted string    `json:"encrypted"`
	Version   int       `json:"version"`
	Modified  time.Time `json:"modified"`
}

// NewEncryptedFileStore creates an encrypted file store at path
func NewEncryptedFileStore(path string) (*EncryptedFileStore, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	store := &EncryptedFileStore{path: path}

	passphrase, err := store.loadPassphrase()
	if err != nil {
		return nil, fmt.Errorf("failed to get passphrase: %w", err)
	}
	store.passphrase = passphrase

	return store, nil
}

// Store saves an account into the encrypted file
func (e *EncryptedFileStore) Store(account *Account) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if account == nil || account.Username == "" {
		return ErrInvalidCredentials
	}

	accounts, salt, err := e.load()
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to load existing data: %w", err)
	}
	if accounts == nil {
		accounts = make(map[string]Account)
	}

	accounts[account.Username] = *account

	return e.save(accounts, salt)
}

// Retrieve gets an account from the encrypted file
func (e *EncryptedFileStore) Retrieve(username string) (*Account, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if username == "" {
		return nil, ErrInvalidCredentials
	}

	accounts, _, err := e.load()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrCredentialsNotFound
		}
		return nil, fmt.Errorf("failed to load data: %w", err)
	}

	account, ok := accounts[username]
	if !ok {
		return nil, ErrCredentialsNotFound
	}

	return &account, nil
}

// List returns all accounts in the encrypted file
func (e *EncryptedFileStore) List() ([]*Account, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	accounts, _, err := e.load()
	if err != nil {
		if os.IsNotExist(err) {
			return []*Account{}, nil
		}
		return nil, fmt.Errorf("failed to load data: %w", err)
	}

	result := make([]*Account, 0, len(accounts))
	for _, account := range accounts {
		acc := account
		result = append(result, &acc)
	}

	return result, nil
}

// Delete removes an account; the file itself is removed when emptied
func (e *EncryptedFileStore) Delete(username string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if username == "" {
		return ErrInvalidCredentials
	}

	accounts, salt, err := e.load()
	if err != nil {
		if os.IsNotExist(err) {
			return ErrCredentialsNotFound
		}
		return fmt.Errorf("failed to load data: %w", err)
	}

	if _, ok := accounts[username]; !ok {
		return ErrCredentialsNotFound
	}

	delete(accounts, username)

	if len(accounts) == 0 {
		return os.Remove(e.path)
	}

	return e.save(accounts, salt)
}

// Exists reports whether the file holds credentials for the username
func (e *EncryptedFileStore) Exists(username string) bool {
	account, err := e.Retrieve(username)
	return err == nil && account != nil
}

func (e *EncryptedFileStore) load() (map[string]Account, string, error) {
	content, err := os.ReadFile(e.path)
	if err != nil {
		return nil, "", err
	}

	var file credentialFile
	if err := json.Unmarshal(content, &file); err != nil {
		return nil, "", fmt.Errorf("failed to parse file: %w", err)
	}

	salt, err := base64.StdEncoding.DecodeString(file.Salt)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode salt: %w", err)
	}

	ciphertext, err := base64.StdEncoding.DecodeString(file.Encrypted)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode encrypted data: %w", err)
	}

	key := pbkdf2.Key([]byte(e.passphrase), salt, iterations, keySize, sha256.New)

	plaintext, err := decrypt(ciphertext, key)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decrypt data: %w", err)
	}

	var accounts map[string]Account
	if err := json.Unmarshal(plaintext, &accounts); err != nil {
		return nil, "", fmt.Errorf("failed to parse accounts: %w", err)
	}

	return accounts, file.Salt, nil
}

func (e *EncryptedFileStore) save(accounts map[string]Account, encodedSalt string) error {
	var salt []byte
	if encodedSalt == "" {
		salt = make([]byte, saltSize)
		if _, err := io.ReadFull(rand.Reader, salt); err != nil {
			return fmt.Errorf("failed to generate salt: %w", err)
		}
		encodedSalt = base64.StdEncoding.EncodeToString(salt)
	} else {
		var err error
		salt, err = base64.StdEncoding.DecodeString(encodedSalt)
		if err != nil {
			return fmt.Errorf("failed to decode salt: %w", err)
		}
	}

	key := pbkdf2.Key([]byte(e.passphrase), salt, iterations, keySize, sha256.New)

	plaintext, err := json.Marshal(accounts)
	if err != nil {
		return fmt.Errorf("failed to marshal accounts: %w", err)
	}

	ciphertext, err := encrypt(plaintext, key)
	if err != nil {
		return fmt.Errorf("failed to encrypt data: %w", err)
	}

	file := credentialFile{
		Salt:      encodedSalt,
		Encrypted: base64.StdEncoding.EncodeToString(ciphertext),
		Version:   1,
		Modified:  time.Now(),
	}

	content, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal file data: %w", err)
	}

	tempFile := e.path + ".tmp"
	if err := os.WriteFile(tempFile, content, 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return os.Rename(tempFile, e.path)
}

// loadPassphrase reads the passphrase from IGFETCH_PASSPHRASE or from a
// per-user file, generating one on first use
func (e *EncryptedFileStore) loadPassphrase() (string, error) {
	if pass := os.Getenv("IGFETCH_PASSPHRASE"); pass != "" {
		return pass, nil
	}

	dir, err := configDir()
	if err != nil {
		return "", err
	}

	passphraseFile := filepath.Join(dir, ".passphrase")

	if content, err := os.ReadFile(passphraseFile); err == nil && len(content) > 0 {
		return string(content), nil
	}

	passphrase := generatePassphrase()

	if err := os.WriteFile(passphraseFile, []byte(passphrase), 0600); err != nil {
		return "", fmt.Errorf("failed to save passphrase: %w", err)
	}

	return passphrase, nil
}

func generatePassphrase() string {
	b := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return base64.URLEncoding.EncodeToString(b)
}

func encrypt(plaintext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func decrypt(ciphertext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce, ciphertext := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, ciphertext, nil)
}
