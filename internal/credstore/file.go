package credstore

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// DefaultStorageDir is the default credential directory, relative to the
// user's home directory. This follows XDG conventions.
const DefaultStorageDir = ".config/cozeauth/credentials"

// FileStore stores credentials as JSON files.
//
// SECURITY: credential files are created with 0600 permissions and the
// directory with 0700; token values are never logged, only endpoints and
// client ids.
type FileStore struct {
	mu    sync.RWMutex
	dir   string
	cache map[string]*Credential
}

// NewFileStore creates a file store rooted at dir. An empty dir selects
// DefaultStorageDir under the user's home directory.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(homeDir, DefaultStorageDir)
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create credential directory: %w", err)
	}

	return &FileStore{
		dir:   dir,
		cache: make(map[string]*Credential),
	}, nil
}

// Save stores a credential under its Name.
func (s *FileStore) Save(cred *Credential) error {
	if cred.Name == "" {
		return errors.New("credential name must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credential: %w", err)
	}
	if err := os.WriteFile(s.path(cred.Name), data, 0600); err != nil {
		return fmt.Errorf("failed to write credential file: %w", err)
	}
	s.cache[cred.Name] = cred

	slog.Info("credential stored",
		"endpoint", cred.Endpoint,
		"client_id", cred.ClientID,
		"expiry", cred.Token.ExpiresAt(),
		"has_refresh_token", cred.Token.RefreshToken != "")
	return nil
}

// Load retrieves the credential stored under key.
func (s *FileStore) Load(key string) (*Credential, error) {
	s.mu.RLock()
	if cred, ok := s.cache[key]; ok {
		s.mu.RUnlock()
		return cred, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another goroutine may have populated the cache meanwhile.
	if cred, ok := s.cache[key]; ok {
		return cred, nil
	}

	cred, err := s.readFile(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.cache[key] = cred
	return cred, nil
}

// Delete removes the credential stored under key.
func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.cache, key)
	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete credential file: %w", err)
	}

	slog.Info("credential deleted", "key", key)
	return nil
}

// List returns all stored credentials.
func (s *FileStore) List() ([]*Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read credential directory: %w", err)
	}

	var creds []*Credential
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		cred, err := s.readFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			slog.Warn("skipping unreadable credential file", "file", entry.Name(), "error", err)
			continue
		}
		s.cache[cred.Name] = cred
		creds = append(creds, cred)
	}
	return creds, nil
}

// Clear removes all stored credentials.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache = make(map[string]*Credential)

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read credential directory: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".json" {
			if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
				return fmt.Errorf("failed to remove %s: %w", entry.Name(), err)
			}
		}
	}

	slog.Info("all credentials cleared")
	return nil
}

// path derives a filesystem-safe file name from a storage key.
func (s *FileStore) path(key string) string {
	hash := sha256.Sum256([]byte(key))
	return filepath.Join(s.dir, hex.EncodeToString(hash[:16])+".json")
}

func (s *FileStore) readFile(path string) (*Credential, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, fmt.Errorf("failed to unmarshal credential: %w", err)
	}
	return &cred, nil
}
