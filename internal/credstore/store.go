// Package credstore persists OAuth credentials for the CLI, either in
// plain files under the user config directory or in the operating system
// keyring.
package credstore

import (
	"errors"
	"time"

	"cozeauth/pkg/oauth"
)

// ErrNotFound is returned when no credential is stored under a key.
var ErrNotFound = errors.New("credential not found")

// Credential is a stored token plus the context it was issued in.
// Expired credentials are kept: the refresh token inside may still be
// usable, so validity decisions belong to the caller.
type Credential struct {
	// Name is the storage key the credential was saved under.
	Name string `json:"name"`

	// Token is the issued OAuth token.
	Token oauth.OAuthToken `json:"token"`

	// Endpoint is the API base URL the token authenticates against.
	Endpoint string `json:"endpoint"`

	// ClientID is the OAuth client the token was issued to.
	ClientID string `json:"client_id"`

	// CreatedAt is when the credential was stored.
	CreatedAt time.Time `json:"created_at"`
}

// Valid reports whether the access token is still usable at the given
// instant (the stored expiry is an absolute UNIX timestamp).
func (c *Credential) Valid(now time.Time) bool {
	return c.Token.AccessToken != "" && !c.Token.Expired(now)
}

// Store provides persistent storage for OAuth credentials.
// SECURITY: implementations must never log token values.
type Store interface {
	// Save stores a credential under its Name.
	Save(cred *Credential) error

	// Load retrieves the credential stored under key.
	// Returns ErrNotFound when nothing is stored.
	Load(key string) (*Credential, error)

	// Delete removes the credential stored under key. Deleting a missing
	// credential is not an error.
	Delete(key string) error
}
