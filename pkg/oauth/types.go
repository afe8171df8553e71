package oauth

import (
	"net/url"
	"time"

	"golang.org/x/oauth2"
)

// Base URLs of the two production API hosts.
const (
	// ComBaseURL is the base URL of the international platform.
	ComBaseURL = "https://api.coze.com"

	// CNBaseURL is the base URL of the Chinese platform.
	CNBaseURL = "https://api.coze.cn"
)

const (
	// DefaultHTTPTimeout is the default timeout for token endpoint requests.
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultTokenTTL is the default lifetime requested for access tokens
	// obtained through the JWT-bearer flow.
	DefaultTokenTTL = 2 * time.Hour

	// DefaultPollInterval is the default device-flow polling interval,
	// used when the provider does not advertise one.
	DefaultPollInterval = 5 * time.Second
)

// OAuthToken represents an issued access token. Tokens are immutable:
// a refresh produces a new OAuthToken rather than mutating the old one.
type OAuthToken struct {
	// AccessToken is the bearer credential. Non-empty once issued.
	AccessToken string `json:"access_token"`

	// ExpiresIn is the absolute UNIX timestamp (seconds) at which the
	// access token expires. The wire name suggests a duration, but the
	// provider actually sends an epoch timestamp; the field is kept as
	// the wire delivers it rather than renamed or converted.
	ExpiresIn int64 `json:"expires_in"`

	// RefreshToken can be used to obtain new access tokens (optional).
	RefreshToken string `json:"refresh_token,omitempty"`

	// TokenType is typically "Bearer".
	TokenType string `json:"token_type,omitempty"`
}

// ExpiresAt returns the expiry as a time.Time.
func (t *OAuthToken) ExpiresAt() time.Time {
	return time.Unix(t.ExpiresIn, 0)
}

// Expired reports whether the token has expired at the given instant.
// A token is valid strictly while now < ExpiresIn.
func (t *OAuthToken) Expired(now time.Time) bool {
	return now.Unix() >= t.ExpiresIn
}

// ToOAuth2Token converts the token to an oauth2.Token for compatibility
// with golang.org/x/oauth2.
func (t *OAuthToken) ToOAuth2Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  t.AccessToken,
		TokenType:    t.TokenType,
		RefreshToken: t.RefreshToken,
		Expiry:       t.ExpiresAt(),
	}
}

// DeviceAuthCode represents a device-flow authorization code. Immutable
// once issued by device-flow initiation.
type DeviceAuthCode struct {
	// DeviceCode is the opaque code the device polls the token endpoint with.
	DeviceCode string `json:"device_code"`

	// UserCode is the short code the user enters on the verification page.
	UserCode string `json:"user_code"`

	// VerificationURI is the page where the user authorizes the device.
	VerificationURI string `json:"verification_uri"`

	// Interval is the minimum polling interval in seconds (>= 1, default 5).
	Interval int `json:"interval"`

	// ExpiresIn is the lifetime of the device code in seconds.
	ExpiresIn int64 `json:"expires_in"`
}

// VerificationURL returns the verification page with the user code
// pre-filled as a query parameter.
func (d *DeviceAuthCode) VerificationURL() string {
	return d.VerificationURI + "?user_code=" + url.QueryEscape(d.UserCode)
}

// PollInterval returns the advertised polling interval as a duration,
// falling back to DefaultPollInterval when none was advertised.
func (d *DeviceAuthCode) PollInterval() time.Duration {
	if d.Interval < 1 {
		return DefaultPollInterval
	}
	return time.Duration(d.Interval) * time.Second
}
