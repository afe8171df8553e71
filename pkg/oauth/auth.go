package oauth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

// Auth produces the value of the Authorization header. Implementations own
// whatever state they need; Token may perform a blocking token exchange.
type Auth interface {
	// TokenType returns the HTTP auth scheme, e.g. "Bearer".
	TokenType() string

	// Token returns a currently valid credential string, computing or
	// refreshing it as needed.
	Token(ctx context.Context) (string, error)
}

// Authenticate sets "Authorization: <type> <token>" on the caller-owned
// header. It has no other side effects; any network call happens inside
// the strategy's Token method.
func Authenticate(ctx context.Context, a Auth, header http.Header) error {
	token, err := a.Token(ctx)
	if err != nil {
		return err
	}
	header.Set("Authorization", a.TokenType()+" "+token)
	return nil
}

// TokenSource adapts an Auth to an oauth2.TokenSource so the strategies
// plug into golang.org/x/oauth2 HTTP clients.
func TokenSource(ctx context.Context, a Auth) oauth2.TokenSource {
	return &tokenSource{ctx: ctx, auth: a}
}

type tokenSource struct {
	ctx  context.Context
	auth Auth
}

func (s *tokenSource) Token() (*oauth2.Token, error) {
	token, err := s.auth.Token(s.ctx)
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{AccessToken: token, TokenType: s.auth.TokenType()}, nil
}

// TokenAuth authenticates with a fixed, caller-supplied access token.
// No expiry, no refresh: the same token is returned forever.
type TokenAuth struct {
	token string
}

// NewTokenAuth creates a fixed-token strategy. The token must be non-empty.
func NewTokenAuth(token string) (*TokenAuth, error) {
	if token == "" {
		return nil, errors.New("token must not be empty")
	}
	return &TokenAuth{token: token}, nil
}

// TokenType returns "Bearer".
func (a *TokenAuth) TokenType() string {
	return "Bearer"
}

// Token returns the fixed token.
func (a *TokenAuth) Token(ctx context.Context) (string, error) {
	return a.token, nil
}

// JWTAuthConfig configures a JWTAuth strategy.
type JWTAuthConfig struct {
	// ClientID is the OAuth client id.
	ClientID string

	// PrivateKeyPEM is the PEM-encoded RSA private key.
	PrivateKeyPEM []byte

	// PublicKeyID is the key id of the registered public key.
	PublicKeyID string

	// TTL is the lifetime requested for issued access tokens.
	// Zero selects DefaultTokenTTL; negative values are rejected.
	TTL time.Duration

	// BaseURL is the API base URL. Empty selects ComBaseURL.
	BaseURL string

	// HTTPClient is the client used for token exchanges (optional).
	HTTPClient *http.Client

	// Logger is the logger for exchange diagnostics (optional).
	Logger *slog.Logger
}

// JWTAuth authenticates through the JWT-bearer flow with a lazily cached
// access token. The cache invalidation predicate is the token's absolute
// expiry timestamp: a refresh exchange runs exactly when no token is
// cached or now >= cached ExpiresIn. An expired cached token is not an
// error; it is silently replaced on the next Token call.
//
// Concurrent callers are safe: the cache is mutex-guarded and refreshes
// are deduplicated through singleflight, so a burst of requests with an
// expired cache issues a single exchange.
type JWTAuth struct {
	app *JWTOAuthApp
	ttl time.Duration

	mu     sync.RWMutex
	cached *OAuthToken
	group  singleflight.Group
	now    func() time.Time
}

// NewJWTAuth creates a JWT-bearer strategy. Key parsing failures and a
// negative TTL are construction errors.
func NewJWTAuth(cfg JWTAuthConfig) (*JWTAuth, error) {
	if cfg.TTL < 0 {
		return nil, errors.New("ttl must be positive")
	}

	var opts []Option
	if cfg.BaseURL != "" {
		opts = append(opts, WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, WithHTTPClient(cfg.HTTPClient))
	}
	if cfg.Logger != nil {
		opts = append(opts, WithLogger(cfg.Logger))
	}

	app, err := NewJWTOAuthApp(cfg.ClientID, cfg.PrivateKeyPEM, cfg.PublicKeyID, opts...)
	if err != nil {
		return nil, err
	}
	return NewJWTAuthFromApp(app, cfg.TTL)
}

// NewJWTAuthFromApp creates a JWT-bearer strategy around an existing flow
// driver. A zero ttl selects DefaultTokenTTL.
func NewJWTAuthFromApp(app *JWTOAuthApp, ttl time.Duration) (*JWTAuth, error) {
	if app == nil {
		return nil, errors.New("oauth app must not be nil")
	}
	if ttl < 0 {
		return nil, errors.New("ttl must be positive")
	}
	if ttl == 0 {
		ttl = DefaultTokenTTL
	}
	return &JWTAuth{app: app, ttl: ttl, now: time.Now}, nil
}

// TokenType returns "Bearer".
func (a *JWTAuth) TokenType() string {
	return "Bearer"
}

// Token returns the cached access token, running a JWT-bearer exchange
// first when the cache is empty or past its expiry.
func (a *JWTAuth) Token(ctx context.Context) (string, error) {
	a.mu.RLock()
	cached := a.cached
	a.mu.RUnlock()

	if cached != nil && !cached.Expired(a.now()) {
		return cached.AccessToken, nil
	}

	result, err, _ := a.group.Do("token", func() (any, error) {
		// Re-check under singleflight: another caller may have already
		// refreshed while this one was queued.
		a.mu.RLock()
		cached := a.cached
		a.mu.RUnlock()
		if cached != nil && !cached.Expired(a.now()) {
			return cached, nil
		}

		fresh, err := a.app.GetAccessToken(ctx, a.ttl)
		if err != nil {
			return nil, err
		}

		a.mu.Lock()
		a.cached = fresh
		a.mu.Unlock()
		return fresh, nil
	})
	if err != nil {
		return "", err
	}
	return result.(*OAuthToken).AccessToken, nil
}
