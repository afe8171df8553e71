package oauth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// Fixed provider endpoint paths.
const (
	authorizePath          = "/api/permission/oauth2/authorize"
	workspaceAuthorizePath = "/api/permission/oauth2/workspace_id/%s/authorize"
	tokenPath              = "/api/permission/oauth2/token"
)

// OAuth grant types used by the flows in this package.
const (
	grantTypeRefreshToken      = "refresh_token"
	grantTypeAuthorizationCode = "authorization_code"
	grantTypeJWTBearer         = "urn:ietf:params:oauth:grant-type:jwt-bearer"
	grantTypeDeviceCode        = "urn:ietf:params:oauth:grant-type:device_code"
)

// OAuthApp is the base of the flow drivers. It builds authorization URLs
// and performs the shared refresh exchange. Instances are safe for
// concurrent use; all state is set at construction.
type OAuthApp struct {
	clientID    string
	baseURL     string
	apiEndpoint string // host component of baseURL, the JWT audience
	wwwBaseURL  string // explicit override; empty means derive
	requester   *requester
}

type appConfig struct {
	baseURL    string
	wwwBaseURL string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a flow driver.
type Option func(*appConfig)

// WithBaseURL sets the API base URL. Defaults to ComBaseURL.
func WithBaseURL(baseURL string) Option {
	return func(c *appConfig) {
		c.baseURL = baseURL
	}
}

// WithWWWBaseURL overrides the derived authorization-page base URL.
func WithWWWBaseURL(wwwBaseURL string) Option {
	return func(c *appConfig) {
		c.wwwBaseURL = wwwBaseURL
	}
}

// WithHTTPClient sets a custom HTTP client for token exchanges.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *appConfig) {
		c.httpClient = httpClient
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *appConfig) {
		c.logger = logger
	}
}

func newOAuthApp(clientID string, opts ...Option) (*OAuthApp, error) {
	if clientID == "" {
		return nil, errors.New("client id must not be empty")
	}

	cfg := appConfig{baseURL: ComBaseURL}
	for _, opt := range opts {
		opt(&cfg)
	}

	baseURL := strings.TrimSuffix(cfg.baseURL, "/")
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", cfg.baseURL)
	}

	return &OAuthApp{
		clientID:    clientID,
		baseURL:     baseURL,
		apiEndpoint: parsed.Host,
		wwwBaseURL:  strings.TrimSuffix(cfg.wwwBaseURL, "/"),
		requester:   newRequester(cfg.httpClient, cfg.logger),
	}, nil
}

// wwwBase returns the base URL of the user-facing authorization pages.
// The "api" -> "www" substitution applies ONLY to the two known production
// hosts; any other base URL is used unchanged. An explicit override wins.
func (a *OAuthApp) wwwBase() string {
	if a.wwwBaseURL != "" {
		return a.wwwBaseURL
	}
	if a.baseURL == ComBaseURL || a.baseURL == CNBaseURL {
		return strings.Replace(a.baseURL, "api", "www", 1)
	}
	return a.baseURL
}

func (a *OAuthApp) tokenURL() string {
	return a.baseURL + tokenPath
}

// urlOptions carries the optional authorization URL parameters.
type urlOptions struct {
	workspaceID         string
	codeChallenge       string
	codeChallengeMethod string
}

// URLOption configures an authorization URL or device-code request.
type URLOption func(*urlOptions)

// WithWorkspaceID scopes the authorization request to a workspace,
// switching to the workspace path variant.
func WithWorkspaceID(workspaceID string) URLOption {
	return func(o *urlOptions) {
		o.workspaceID = workspaceID
	}
}

// oauthURL builds the authorization URL. All parameter values are
// percent-encoded through url.Values.
func (a *OAuthApp) oauthURL(redirectURI, state string, o urlOptions) string {
	query := url.Values{}
	query.Set("response_type", "code")
	query.Set("client_id", a.clientID)
	query.Set("redirect_uri", redirectURI)
	query.Set("state", state)
	if o.codeChallenge != "" {
		query.Set("code_challenge", o.codeChallenge)
		query.Set("code_challenge_method", o.codeChallengeMethod)
	}

	endpoint := a.wwwBase() + authorizePath
	if o.workspaceID != "" {
		endpoint = a.wwwBase() + fmt.Sprintf(workspaceAuthorizePath, url.PathEscape(o.workspaceID))
	}
	return endpoint + "?" + query.Encode()
}

// refreshAccessToken performs the shared refresh exchange. When secret is
// non-empty it is sent as a bearer credential (confidential clients).
// Transport and HTTP failures propagate unchanged; there is no retry here.
func (a *OAuthApp) refreshAccessToken(ctx context.Context, refreshToken, secret string) (*OAuthToken, error) {
	body := map[string]any{
		"grant_type":    grantTypeRefreshToken,
		"client_id":     a.clientID,
		"refresh_token": refreshToken,
	}

	var token OAuthToken
	if err := a.requester.postJSON(ctx, a.tokenURL(), secret, body, &token); err != nil {
		return nil, err
	}
	return &token, nil
}
