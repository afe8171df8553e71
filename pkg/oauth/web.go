package oauth

import (
	"context"
	"errors"
)

// WebOAuthApp drives the authorization-code flow for confidential clients.
// The client secret is sent as a bearer credential on token exchanges.
type WebOAuthApp struct {
	*OAuthApp

	clientSecret string
}

// NewWebOAuthApp creates a confidential authorization-code flow driver.
func NewWebOAuthApp(clientID, clientSecret string, opts ...Option) (*WebOAuthApp, error) {
	base, err := newOAuthApp(clientID, opts...)
	if err != nil {
		return nil, err
	}
	if clientSecret == "" {
		return nil, errors.New("client secret must not be empty")
	}
	return &WebOAuthApp{OAuthApp: base, clientSecret: clientSecret}, nil
}

// OAuthURL builds the authorization URL for the web flow.
func (a *WebOAuthApp) OAuthURL(redirectURI, state string, opts ...URLOption) string {
	var o urlOptions
	for _, opt := range opts {
		opt(&o)
	}
	return a.oauthURL(redirectURI, state, o)
}

// GetAccessToken exchanges an authorization code for a token.
func (a *WebOAuthApp) GetAccessToken(ctx context.Context, redirectURI, code string) (*OAuthToken, error) {
	body := map[string]any{
		"grant_type":   grantTypeAuthorizationCode,
		"code":         code,
		"client_id":    a.clientID,
		"redirect_uri": redirectURI,
	}

	var token OAuthToken
	if err := a.requester.postJSON(ctx, a.tokenURL(), a.clientSecret, body, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// RefreshAccessToken obtains a new access token using a refresh token.
func (a *WebOAuthApp) RefreshAccessToken(ctx context.Context, refreshToken string) (*OAuthToken, error) {
	return a.refreshAccessToken(ctx, refreshToken, a.clientSecret)
}
