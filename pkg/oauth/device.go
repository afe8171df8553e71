package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"
)

const (
	deviceCodePath          = "/api/permission/oauth2/device/code"
	workspaceDeviceCodePath = "/api/permission/oauth2/workspace_id/%s/device/code"

	// slowDownIncrement is added to the polling interval each time the
	// provider answers slow_down.
	slowDownIncrement = 5 * time.Second
)

// DeviceOAuthApp drives the device-code flow: the user authorizes on a
// secondary device with a short code while this client polls the token
// endpoint for completion.
type DeviceOAuthApp struct {
	*OAuthApp

	// sleep waits between polls; replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewDeviceOAuthApp creates a device flow driver.
func NewDeviceOAuthApp(clientID string, opts ...Option) (*DeviceOAuthApp, error) {
	base, err := newOAuthApp(clientID, opts...)
	if err != nil {
		return nil, err
	}
	return &DeviceOAuthApp{OAuthApp: base, sleep: sleepContext}, nil
}

// GetDeviceCode initiates the device flow and returns the code the user
// must enter at the verification URL.
func (a *DeviceOAuthApp) GetDeviceCode(ctx context.Context, opts ...URLOption) (*DeviceAuthCode, error) {
	var o urlOptions
	for _, opt := range opts {
		opt(&o)
	}

	endpoint := a.baseURL + deviceCodePath
	if o.workspaceID != "" {
		endpoint = a.baseURL + fmt.Sprintf(workspaceDeviceCodePath, url.PathEscape(o.workspaceID))
	}

	body := map[string]any{"client_id": a.clientID}

	var code DeviceAuthCode
	if err := a.requester.postJSON(ctx, endpoint, "", body, &code); err != nil {
		return nil, err
	}
	return &code, nil
}

// GetAccessToken exchanges a device code for a token. With poll set, it
// keeps polling at the interval the provider advertised in the device
// code, backing off on slow_down, until the user completes or the flow
// fails (access denied, code expired, context cancelled).
func (a *DeviceOAuthApp) GetAccessToken(ctx context.Context, code *DeviceAuthCode, poll bool) (*OAuthToken, error) {
	if code == nil {
		return nil, errors.New("device code must not be nil")
	}
	interval := code.PollInterval()

	for {
		token, err := a.exchangeDeviceCode(ctx, code.DeviceCode)
		if err == nil {
			return token, nil
		}
		if !poll {
			return nil, err
		}

		var authErr *AuthError
		if !errors.As(err, &authErr) {
			return nil, err
		}

		switch authErr.Code {
		case AuthorizationPending:
			// keep the current interval
		case SlowDown:
			interval += slowDownIncrement
		default:
			return nil, err
		}

		if err := a.sleep(ctx, interval); err != nil {
			return nil, err
		}
	}
}

func (a *DeviceOAuthApp) exchangeDeviceCode(ctx context.Context, deviceCode string) (*OAuthToken, error) {
	body := map[string]any{
		"grant_type":  grantTypeDeviceCode,
		"client_id":   a.clientID,
		"device_code": deviceCode,
	}

	var token OAuthToken
	if err := a.requester.postJSON(ctx, a.tokenURL(), "", body, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// sleepContext sleeps for d or until the context is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
