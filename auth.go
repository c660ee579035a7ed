package spotify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	// DefaultAuthURL is the Spotify accounts service authorization endpoint.
	DefaultAuthURL = "https://accounts.spotify.com/authorize"
	// DefaultTokenURL is the Spotify accounts service token endpoint.
	DefaultTokenURL = "https://accounts.spotify.com/api/token"
)

// flowKind identifies which OAuth2 flow produced a client's token. It gates
// refresh (client credentials tokens cannot be refreshed) and access to
// user-scoped endpoints.
type flowKind int

const (
	flowAuthCode flowKind = iota
	flowPKCE
	flowClientCreds
	// flowUnknown is used when a client is built directly from a refresh or
	// access token. Only user-authorized flows hand out those tokens, so an
	// unknown flow is treated as user-authorized.
	flowUnknown
)

// Token is an OAuth2 token issued by the Spotify accounts service. Tokens are
// replaced wholly on refresh, never mutated field by field.
type Token struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type,omitempty"`
	Scopes       []string  `json:"scopes,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired reports whether the access token is past its expiry instant.
// Tokens without a known expiry never report as expired.
func (t Token) Expired() bool {
	return !t.ExpiresAt.IsZero() && !time.Now().Before(t.ExpiresAt)
}

// Refreshable reports whether a refresh token is present.
func (t Token) Refreshable() bool {
	return t.RefreshToken != ""
}

// tokenFromOAuth2 converts an [oauth2.Token] into a [Token]. Spotify may omit
// the refresh token from a refresh response, in which case the previous one
// keeps working and is carried forward.
// https://developer.spotify.com/documentation/web-api/tutorials/refreshing-tokens
func tokenFromOAuth2(t *oauth2.Token, prevRefresh string) Token {
	tok := Token{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
		ExpiresAt:    t.Expiry,
	}
	if tok.RefreshToken == "" {
		tok.RefreshToken = prevRefresh
	}
	if scope, ok := t.Extra("scope").(string); ok && scope != "" {
		tok.Scopes = strings.Fields(scope)
	}
	return tok
}

// Config holds the caller-supplied configuration for building a client.
type Config struct {
	ClientID     string       // Required
	ClientSecret string       // Required except for the PKCE flow
	RedirectURI  string       // Required for the authorization code flows
	Scopes       []string     // Requested authorization scopes
	AutoRefresh  bool         // Refresh expired tokens transparently before requests
	HTTPClient   *http.Client // Optional, defaults to http.DefaultClient
	Logger       Logger       // Optional debug logger
	BaseURL      string       // Optional Web API base URL override, used in tests
	AuthURL      string       // Optional authorization endpoint override
	TokenURL     string       // Optional token endpoint override
}

func (c Config) endpoint() oauth2.Endpoint {
	ep := oauth2.Endpoint{AuthURL: DefaultAuthURL, TokenURL: DefaultTokenURL}
	if c.AuthURL != "" {
		ep.AuthURL = c.AuthURL
	}
	if c.TokenURL != "" {
		ep.TokenURL = c.TokenURL
	}
	return ep
}

func (c Config) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURL:  c.RedirectURI,
		Scopes:       c.Scopes,
		Endpoint:     c.endpoint(),
	}
}

// httpContext returns a context carrying the configured HTTP client so the
// oauth2 package uses it for token endpoint requests.
func (c Config) httpContext(ctx context.Context) context.Context {
	if c.HTTPClient != nil {
		return context.WithValue(ctx, oauth2.HTTPClient, c.HTTPClient)
	}
	return ctx
}

// Authenticator is an unauthenticated client for the authorization code
// flows. It holds the flow configuration and the CSRF state generated at
// construction, and exposes no endpoint operations: only the [*Client]
// returned by [Authenticator.Authenticate] can issue API requests.
type Authenticator struct {
	cfg      Config
	conf     *oauth2.Config
	state    string
	verifier string // PKCE code verifier, empty for the plain code flow
}

// NewAuthCodeFlow creates an unauthenticated client for the OAuth2
// authorization code flow and returns it along with the URL the user must be
// redirected to for authorization.
//
// Use this flow when the client secret can be stored safely, such as an app
// running on a server.
func NewAuthCodeFlow(cfg Config) (*Authenticator, string, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, "", fmt.Errorf("%w: client id and secret", ErrMissingParameter)
	}
	if cfg.RedirectURI == "" {
		return nil, "", fmt.Errorf("%w: redirect URI", ErrMissingParameter)
	}

	a := &Authenticator{
		cfg:   cfg,
		conf:  cfg.oauthConfig(),
		state: uuid.NewString(),
	}
	return a, a.conf.AuthCodeURL(a.state), nil
}

// NewPKCEFlow creates an unauthenticated client for the authorization code
// flow with the PKCE extension (RFC 7636, S256 challenge method) and returns
// it along with the authorization URL.
//
// Use this flow for public clients that cannot store a secret, such as
// desktop or mobile apps. The client secret is optional.
func NewPKCEFlow(cfg Config) (*Authenticator, string, error) {
	if cfg.ClientID == "" {
		return nil, "", fmt.Errorf("%w: client id", ErrMissingParameter)
	}
	if cfg.RedirectURI == "" {
		return nil, "", fmt.Errorf("%w: redirect URI", ErrMissingParameter)
	}

	a := &Authenticator{
		cfg:      cfg,
		conf:     cfg.oauthConfig(),
		state:    uuid.NewString(),
		verifier: oauth2.GenerateVerifier(),
	}
	url := a.conf.AuthCodeURL(a.state, oauth2.S256ChallengeOption(a.verifier))
	return a, url, nil
}

// State returns the CSRF state generated at construction. Compare it against
// the state parameter of the redirect before trusting the authorization code.
func (a *Authenticator) State() string {
	return a.state
}

// Authenticate exchanges the authorization code for a token and returns an
// authenticated client. The state extracted from the redirect is validated
// against the one generated at construction before any network call; a
// mismatch fails with [ErrInvalidState].
func (a *Authenticator) Authenticate(ctx context.Context, code, state string) (*Client, error) {
	code = strings.TrimSpace(code)
	state = strings.TrimSpace(state)

	if state != a.state {
		return nil, ErrInvalidState
	}

	var opts []oauth2.AuthCodeOption
	kind := flowAuthCode
	if a.verifier != "" {
		opts = append(opts, oauth2.VerifierOption(a.verifier))
		kind = flowPKCE
	}

	tok, err := a.conf.Exchange(a.cfg.httpContext(ctx), code, opts...)
	if err != nil {
		return nil, &AuthError{Op: "exchange", Err: err}
	}

	return newClient(a.cfg, kind, tokenFromOAuth2(tok, "")), nil
}

// NewClientCredentials authenticates with the OAuth2 client credentials
// grant and returns an authenticated client.
//
// This flow involves no user authorization: the client cannot access user
// data, and the issued token has no refresh token, so an expired token
// requires authenticating from scratch.
func NewClientCredentials(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: client id and secret", ErrMissingParameter)
	}

	creds := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.endpoint().TokenURL,
	}

	tok, err := creds.Token(cfg.httpContext(ctx))
	if err != nil {
		return nil, &AuthError{Op: "client_credentials", Err: err}
	}

	cfg.AutoRefresh = false
	return newClient(cfg, flowClientCreds, tokenFromOAuth2(tok, "")), nil
}

// FromRefreshToken builds an authenticated client from a refresh token held
// out of band, skipping the interactive redirect step. It performs one
// refresh exchange, so it fails if the refresh token is invalid.
func FromRefreshToken(ctx context.Context, cfg Config, refreshToken string) (*Client, error) {
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("%w: client id", ErrMissingParameter)
	}
	if refreshToken == "" {
		return nil, fmt.Errorf("%w: refresh token", ErrMissingParameter)
	}

	conf := cfg.oauthConfig()
	tok, err := conf.TokenSource(cfg.httpContext(ctx), &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return nil, &AuthError{Op: "refresh", Err: err}
	}

	return newClient(cfg, flowUnknown, tokenFromOAuth2(tok, refreshToken)), nil
}

// FromToken builds an authenticated client around an existing token without
// any network I/O. The token is trusted as-is; an invalid access token will
// surface as an API error on the first request. Auto refresh is only honored
// when the token carries a refresh token.
func FromToken(cfg Config, tok Token) (*Client, error) {
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("%w: client id", ErrMissingParameter)
	}
	if tok.AccessToken == "" {
		return nil, fmt.Errorf("%w: access token", ErrMissingParameter)
	}

	cfg.AutoRefresh = cfg.AutoRefresh && tok.Refreshable()
	return newClient(cfg, flowUnknown, tok), nil
}
