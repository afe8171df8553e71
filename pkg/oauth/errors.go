package oauth

import "fmt"

// APIError is the generic error envelope returned by the platform.
// Transport and HTTP failures surface as APIError (or a wrapped network
// error) and are never retried or swallowed by this package.
type APIError struct {
	// HTTPStatus is the HTTP status code of the failed response.
	HTTPStatus int

	// Code is the platform error code. Zero when the response carried none.
	Code int

	// Msg is the platform error message.
	Msg string

	// LogID is the request log id from the response headers, useful when
	// reporting issues to the platform.
	LogID string
}

func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("code: %d, msg: %s, logid: %s", e.Code, e.Msg, e.LogID)
	}
	return fmt.Sprintf("msg: %s, logid: %s", e.Msg, e.LogID)
}

// AuthErrorCode is a typed OAuth error code from the token endpoint.
type AuthErrorCode string

const (
	// AuthorizationPending means the user has not yet completed the
	// device-flow authorization; the client should keep polling.
	AuthorizationPending AuthErrorCode = "authorization_pending"

	// SlowDown means the client is polling too fast and should increase
	// its polling interval.
	SlowDown AuthErrorCode = "slow_down"

	// AccessDenied means the user declined the authorization request.
	AccessDenied AuthErrorCode = "access_denied"

	// ExpiredToken means the device or authorization code has expired
	// before the user completed the flow.
	ExpiredToken AuthErrorCode = "expired_token"
)

// AuthError is a typed OAuth error from the token endpoint, carrying the
// protocol error code so callers (and the device-flow poller) can branch
// on it with errors.As.
type AuthError struct {
	// HTTPStatus is the HTTP status code of the failed response.
	HTTPStatus int

	// Code is the OAuth error code.
	Code AuthErrorCode

	// Message is the human-readable error description, if any.
	Message string

	// LogID is the request log id from the response headers.
	LogID string
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("authorization failed: %s: %s, logid: %s", e.Code, e.Message, e.LogID)
	}
	return fmt.Sprintf("authorization failed: %s, logid: %s", e.Code, e.LogID)
}
