package spotify

import (
	"errors"
	"fmt"
)

var (
	// Authentication state errors
	ErrNotAuthenticated   = errors.New("spotify: client is not authenticated")
	ErrInvalidState       = errors.New("spotify: state parameter does not match the one sent to the authorization server")
	ErrTokenExpired       = errors.New("spotify: access token expired and auto refresh is disabled")
	ErrRefreshUnavailable = errors.New("spotify: token refresh is not available for this flow")
	ErrUserAuthRequired   = errors.New("spotify: endpoint requires user authorization")

	// Request errors
	ErrNoRemainingPages = errors.New("spotify: no remaining pages")
	ErrMissingParameter = errors.New("spotify: missing required parameter")
)

// APIError is a structured error payload returned by the Spotify Web API
// for non-2xx responses, as documented at
// https://developer.spotify.com/documentation/web-api/concepts/api-calls#regular-error-object
type APIError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("spotify: API error: status %d: %s", e.Status, e.Message)
}

// Is matches any *APIError, or one with the same status code when the
// target carries a non-zero status. This allows both
// errors.Is(err, &APIError{}) and errors.Is(err, &APIError{Status: 404}).
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return t.Status == 0 || t.Status == e.Status
}

// apiErrorBody is the wire shape of the regular error object.
type apiErrorBody struct {
	Error APIError `json:"error"`
}

// AuthError wraps failures of the OAuth2 token endpoint (code exchange,
// client credentials grant, refresh). It keeps the exchange error distinct
// from errors of the request that triggered it, so callers can tell a failed
// refresh apart from a failed resource request.
type AuthError struct {
	// Op is the token operation that failed: "exchange", "client_credentials"
	// or "refresh".
	Op  string
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("spotify: %s failed: %v", e.Op, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// DecodeError reports a response body that could not be decoded into the
// expected model. Body holds the offending payload for debugging.
type DecodeError struct {
	Body []byte
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("spotify: failed to decode response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
