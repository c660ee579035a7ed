package spotify

import (
	"context"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
)

// DefaultBaseURL is the default Spotify Web API endpoint.
const DefaultBaseURL = "https://api.spotify.com/v1"

// Logger is an optional interface for debug logging. It is satisfied by
// [github.com/charmbracelet/log.Logger].
type Logger interface {
	Debugf(format string, args ...any)
	Warnf(format string, args ...any)
}

// Client is an authenticated Spotify Web API client. It is only obtainable
// through one of the authentication constructors ([Authenticator.Authenticate],
// [NewClientCredentials], [FromRefreshToken], [FromToken]), so every endpoint
// method is guaranteed a token to work with.
//
// A Client is safe for concurrent use: the expiry-check-refresh sequence is
// serialized so concurrent callers cannot trigger redundant refreshes or read
// a half-updated token.
type Client struct {
	cfg     Config
	conf    *oauth2.Config
	kind    flowKind
	baseURL string
	http    *http.Client
	logger  Logger

	mu    sync.Mutex
	token Token
}

func newClient(cfg Config, kind flowKind, tok Token) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		cfg:     cfg,
		conf:    cfg.oauthConfig(),
		kind:    kind,
		baseURL: baseURL,
		http:    httpClient,
		logger:  cfg.Logger,
		token:   tok,
	}
}

// Token returns a copy of the client's current token, for persisting it
// between runs.
func (c *Client) Token() Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// AutoRefresh reports whether the client refreshes expired tokens
// transparently before requests.
func (c *Client) AutoRefresh() bool {
	return c.cfg.AutoRefresh
}

// Refresh exchanges the refresh token for a new access token and replaces the
// client's token with the result.
//
// Only tokens issued by the authorization code flows carry a refresh token;
// calling Refresh on a client credentials client fails with
// [ErrRefreshUnavailable].
func (c *Client) Refresh(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshLocked(ctx)
}

func (c *Client) refreshLocked(ctx context.Context) error {
	if c.kind == flowClientCreds || !c.token.Refreshable() {
		return ErrRefreshUnavailable
	}

	src := c.conf.TokenSource(c.cfg.httpContext(ctx), &oauth2.Token{RefreshToken: c.token.RefreshToken})
	tok, err := src.Token()
	if err != nil {
		return &AuthError{Op: "refresh", Err: err}
	}

	c.token = tokenFromOAuth2(tok, c.token.RefreshToken)
	return nil
}

// bearer returns the access token to authorize a request with, refreshing
// first when the token is expired and auto refresh is enabled. With auto
// refresh disabled an expired token fails with [ErrTokenExpired] before any
// network I/O.
func (c *Client) bearer(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token.Expired() {
		if !c.cfg.AutoRefresh {
			c.debugf("access token expired, auto refresh disabled")
			return "", ErrTokenExpired
		}
		c.debugf("access token expired, refreshing")
		if err := c.refreshLocked(ctx); err != nil {
			c.warnf("token refresh failed: %v", err)
			return "", err
		}
		c.debugf("token refreshed, expires at %s", c.token.ExpiresAt)
	}

	return c.token.AccessToken, nil
}

// requireUser guards endpoints that act on the current user's data. Client
// credentials tokens involve no user authorization and cannot use them.
func (c *Client) requireUser() error {
	if c.kind == flowClientCreds {
		return ErrUserAuthRequired
	}
	return nil
}

func (c *Client) debugf(format string, args ...any) {
	if c.logger != nil {
		c.logger.Debugf(format, args...)
	}
}

func (c *Client) warnf(format string, args ...any) {
	if c.logger != nil {
		c.logger.Warnf(format, args...)
	}
}
