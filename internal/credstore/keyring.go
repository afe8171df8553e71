package credstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/zalando/go-keyring"
)

// keyringService is the service name credentials are filed under in the
// operating system keyring.
const keyringService = "cozeauth"

// KeyringStore stores credentials in the operating system keyring
// (Keychain, Secret Service, Credential Manager). Unlike FileStore it
// cannot enumerate stored credentials.
type KeyringStore struct {
	service string
}

// NewKeyringStore creates a keyring-backed store.
func NewKeyringStore() *KeyringStore {
	return &KeyringStore{service: keyringService}
}

// Save stores a credential under its Name.
func (s *KeyringStore) Save(cred *Credential) error {
	if cred.Name == "" {
		return errors.New("credential name must not be empty")
	}

	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("failed to marshal credential: %w", err)
	}
	if err := keyring.Set(s.service, cred.Name, string(data)); err != nil {
		return fmt.Errorf("failed to store credential in keyring: %w", err)
	}

	slog.Info("credential stored in keyring",
		"endpoint", cred.Endpoint,
		"client_id", cred.ClientID)
	return nil
}

// Load retrieves the credential stored under key.
func (s *KeyringStore) Load(key string) (*Credential, error) {
	data, err := keyring.Get(s.service, key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read credential from keyring: %w", err)
	}

	var cred Credential
	if err := json.Unmarshal([]byte(data), &cred); err != nil {
		return nil, fmt.Errorf("failed to unmarshal credential: %w", err)
	}
	return &cred, nil
}

// Delete removes the credential stored under key.
func (s *KeyringStore) Delete(key string) error {
	err := keyring.Delete(s.service, key)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete credential from keyring: %w", err)
	}
	return nil
}
