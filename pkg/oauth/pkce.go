package oauth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// CodeChallengeMethod is the PKCE challenge derivation method.
type CodeChallengeMethod string

const (
	// CodeChallengePlain sends the verifier verbatim as the challenge.
	CodeChallengePlain CodeChallengeMethod = "plain"

	// CodeChallengeS256 sends the base64url-encoded SHA-256 digest of
	// the verifier.
	CodeChallengeS256 CodeChallengeMethod = "S256"
)

const (
	// verifierBytes is the number of random bytes for a generated code
	// verifier. 32 bytes gives 256 bits of entropy and a 43-character
	// base64url string, the RFC 7636 minimum.
	verifierBytes = 32

	// stateBytes is the number of random bytes for a generated state
	// parameter.
	stateBytes = 32
)

// S256Challenge returns the S256 code challenge for a verifier:
// base64url(sha256(verifier)), unpadded.
func S256Challenge(verifier string) string {
	hash := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(hash[:])
}

// GenerateCodeVerifier generates a random PKCE code verifier.
func GenerateCodeVerifier() (string, error) {
	buf := make([]byte, verifierBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate code verifier: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// GenerateState generates a random state parameter, used to link the
// authorization response back to the original request.
func GenerateState() (string, error) {
	buf := make([]byte, stateBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// PKCEOAuthApp drives the PKCE authorization-code flow for public clients.
type PKCEOAuthApp struct {
	*OAuthApp
}

// NewPKCEOAuthApp creates a PKCE flow driver.
func NewPKCEOAuthApp(clientID string, opts ...Option) (*PKCEOAuthApp, error) {
	base, err := newOAuthApp(clientID, opts...)
	if err != nil {
		return nil, err
	}
	return &PKCEOAuthApp{OAuthApp: base}, nil
}

// OAuthURL builds the authorization URL for the PKCE flow. With
// CodeChallengePlain the challenge is the verifier verbatim; with
// CodeChallengeS256 it is the S256 digest of the verifier.
func (a *PKCEOAuthApp) OAuthURL(redirectURI, state, codeVerifier string, method CodeChallengeMethod, opts ...URLOption) (string, error) {
	var challenge string
	switch method {
	case CodeChallengePlain:
		challenge = codeVerifier
	case CodeChallengeS256:
		challenge = S256Challenge(codeVerifier)
	default:
		return "", fmt.Errorf("unsupported code challenge method %q", method)
	}

	o := urlOptions{
		codeChallenge:       challenge,
		codeChallengeMethod: string(method),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return a.oauthURL(redirectURI, state, o), nil
}

// GetAccessToken exchanges an authorization code and its verifier for a
// token.
func (a *PKCEOAuthApp) GetAccessToken(ctx context.Context, redirectURI, code, codeVerifier string) (*OAuthToken, error) {
	body := map[string]any{
		"grant_type":    grantTypeAuthorizationCode,
		"code":          code,
		"client_id":     a.clientID,
		"redirect_uri":  redirectURI,
		"code_verifier": codeVerifier,
	}

	var token OAuthToken
	if err := a.requester.postJSON(ctx, a.tokenURL(), "", body, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// RefreshAccessToken obtains a new access token using a refresh token.
func (a *PKCEOAuthApp) RefreshAccessToken(ctx context.Context, refreshToken string) (*OAuthToken, error) {
	return a.refreshAccessToken(ctx, refreshToken, "")
}
