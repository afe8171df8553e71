package oauth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// assertionTTL is the validity window of the signed JWT assertion.
	// It is fixed: the ttl requested for the resulting access token does
	// not stretch (or shrink) the assertion's own exp claim.
	assertionTTL = time.Hour

	// jtiBytes is the number of random bytes in the assertion nonce.
	jtiBytes = 16
)

// JWTOAuthApp drives the JWT-bearer flow: a signed RS256 assertion
// authenticates the client in place of a shared secret.
type JWTOAuthApp struct {
	*OAuthApp

	privateKey  *rsa.PrivateKey
	publicKeyID string
	now         func() time.Time
}

// NewJWTOAuthApp creates a JWT-bearer flow driver. The private key must be
// a PEM-encoded RSA key; parsing failures are construction errors.
func NewJWTOAuthApp(clientID string, privateKeyPEM []byte, publicKeyID string, opts ...Option) (*JWTOAuthApp, error) {
	base, err := newOAuthApp(clientID, opts...)
	if err != nil {
		return nil, err
	}
	if publicKeyID == "" {
		return nil, errors.New("public key id must not be empty")
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	return &JWTOAuthApp{
		OAuthApp:    base,
		privateKey:  key,
		publicKeyID: publicKeyID,
		now:         time.Now,
	}, nil
}

// GetAccessToken exchanges a freshly signed assertion for an access token
// with the requested lifetime. ttl must be positive.
func (a *JWTOAuthApp) GetAccessToken(ctx context.Context, ttl time.Duration) (*OAuthToken, error) {
	if ttl <= 0 {
		return nil, errors.New("ttl must be positive")
	}

	assertion, err := a.signAssertion()
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"duration_seconds": int64(ttl.Seconds()),
		"grant_type":       grantTypeJWTBearer,
	}

	var token OAuthToken
	if err := a.requester.postJSON(ctx, a.tokenURL(), assertion, body, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// signAssertion builds and signs the JWT assertion. The jti nonce is fresh
// random hex per call so assertions cannot be replayed.
func (a *JWTOAuthApp) signAssertion() (string, error) {
	jti, err := randomHex(jtiBytes)
	if err != nil {
		return "", err
	}

	now := a.now()
	claims := jwt.MapClaims{
		"iss": a.clientID,
		"aud": a.apiEndpoint,
		"iat": now.Unix(),
		"exp": now.Add(assertionTTL).Unix(),
		"jti": jti,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = a.publicKeyID

	signed, err := token.SignedString(a.privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign assertion: %w", err)
	}
	return signed, nil
}

// randomHex returns a hex string of n cryptographically random bytes.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
