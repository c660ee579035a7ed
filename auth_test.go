package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

// roundTripperFunc lets tests fail loudly when a request is issued where
// none is expected.
type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// noNetworkClient fails the test if any HTTP request is made through it.
func noNetworkClient(t *testing.T) *http.Client {
	t.Helper()
	return &http.Client{
		Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			t.Errorf("unexpected HTTP request to %s", r.URL)
			return nil, errors.New("no network expected")
		}),
	}
}

// tokenResponse writes a token endpoint response.
func tokenResponse(w http.ResponseWriter, accessToken, refreshToken string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"access_token":  accessToken,
		"token_type":    "Bearer",
		"expires_in":    3600,
		"refresh_token": refreshToken,
		"scope":         "user-read-private playlist-read-private",
	})
}

func TestNewAuthCodeFlow(t *testing.T) {
	t.Run("Missing Credentials", func(t *testing.T) {
		_, _, err := NewAuthCodeFlow(Config{ClientID: "id", RedirectURI: "http://127.0.0.1/cb"})
		if !errors.Is(err, ErrMissingParameter) {
			t.Errorf("expected ErrMissingParameter, got %v", err)
		}

		_, _, err = NewAuthCodeFlow(Config{ClientID: "id", ClientSecret: "secret"})
		if !errors.Is(err, ErrMissingParameter) {
			t.Errorf("expected ErrMissingParameter for missing redirect URI, got %v", err)
		}
	})

	t.Run("Authorization URL", func(t *testing.T) {
		auth, authURL, err := NewAuthCodeFlow(Config{
			ClientID:     "test_client_id",
			ClientSecret: "test_client_secret",
			RedirectURI:  "http://127.0.0.1:8888/callback",
			Scopes:       []string{"user-read-private"},
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		parsed, err := url.Parse(authURL)
		if err != nil {
			t.Fatalf("failed to parse auth URL: %v", err)
		}

		if !strings.Contains(parsed.Host, "accounts.spotify.com") {
			t.Errorf("auth URL should target the accounts service, got %s", parsed.Host)
		}
		if got := parsed.Query().Get("client_id"); got != "test_client_id" {
			t.Errorf("expected client_id in auth URL, got %q", got)
		}
		if got := parsed.Query().Get("state"); got != auth.State() {
			t.Errorf("auth URL state %q does not match generated state %q", got, auth.State())
		}
		if got := parsed.Query().Get("scope"); got != "user-read-private" {
			t.Errorf("expected requested scope in auth URL, got %q", got)
		}
	})

	t.Run("Unique State Per Client", func(t *testing.T) {
		cfg := Config{ClientID: "id", ClientSecret: "secret", RedirectURI: "http://127.0.0.1/cb"}
		a1, _, _ := NewAuthCodeFlow(cfg)
		a2, _, _ := NewAuthCodeFlow(cfg)
		if a1.State() == a2.State() {
			t.Error("expected a fresh CSRF state per client")
		}
	})
}

func TestNewPKCEFlow(t *testing.T) {
	t.Run("No Secret Required", func(t *testing.T) {
		_, authURL, err := NewPKCEFlow(Config{
			ClientID:    "public_client",
			RedirectURI: "http://127.0.0.1:8888/callback",
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		parsed, _ := url.Parse(authURL)
		if parsed.Query().Get("code_challenge") == "" {
			t.Error("expected a PKCE code challenge in the auth URL")
		}
		if got := parsed.Query().Get("code_challenge_method"); got != "S256" {
			t.Errorf("expected S256 challenge method, got %q", got)
		}
	})

	t.Run("Missing Client ID", func(t *testing.T) {
		_, _, err := NewPKCEFlow(Config{RedirectURI: "http://127.0.0.1/cb"})
		if !errors.Is(err, ErrMissingParameter) {
			t.Errorf("expected ErrMissingParameter, got %v", err)
		}
	})
}

func TestAuthenticate(t *testing.T) {
	t.Run("State Mismatch Makes No Network Call", func(t *testing.T) {
		auth, _, err := NewAuthCodeFlow(Config{
			ClientID:     "id",
			ClientSecret: "secret",
			RedirectURI:  "http://127.0.0.1/cb",
			HTTPClient:   noNetworkClient(t),
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		_, err = auth.Authenticate(context.Background(), "code", "not-the-state")
		if !errors.Is(err, ErrInvalidState) {
			t.Fatalf("expected ErrInvalidState, got %v", err)
		}
	})

	t.Run("Code Exchange", func(t *testing.T) {
		var gotGrant, gotCode string
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.ParseForm()
			gotGrant = r.FormValue("grant_type")
			gotCode = r.FormValue("code")
			tokenResponse(w, "access-1", "refresh-1")
		}))
		defer ts.Close()

		auth, _, err := NewAuthCodeFlow(Config{
			ClientID:     "id",
			ClientSecret: "secret",
			RedirectURI:  "http://127.0.0.1/cb",
			TokenURL:     ts.URL,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		client, err := auth.Authenticate(context.Background(), " the-code ", " "+auth.State()+" ")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if gotGrant != "authorization_code" {
			t.Errorf("expected authorization_code grant, got %q", gotGrant)
		}
		if gotCode != "the-code" {
			t.Errorf("expected trimmed code, got %q", gotCode)
		}

		tok := client.Token()
		if tok.AccessToken != "access-1" || tok.RefreshToken != "refresh-1" {
			t.Errorf("unexpected token: %+v", tok)
		}
		if len(tok.Scopes) != 2 {
			t.Errorf("expected granted scopes to be recorded, got %v", tok.Scopes)
		}
		if tok.Expired() {
			t.Error("freshly issued token should not be expired")
		}
	})

	t.Run("PKCE Exchange Sends Verifier", func(t *testing.T) {
		var gotVerifier string
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.ParseForm()
			gotVerifier = r.FormValue("code_verifier")
			tokenResponse(w, "access-1", "refresh-1")
		}))
		defer ts.Close()

		auth, _, err := NewPKCEFlow(Config{
			ClientID:    "public_client",
			RedirectURI: "http://127.0.0.1/cb",
			TokenURL:    ts.URL,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if _, err := auth.Authenticate(context.Background(), "code", auth.State()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if gotVerifier == "" {
			t.Error("expected the PKCE code verifier in the token request")
		}
	})

	t.Run("Exchange Failure", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"invalid_grant"}`))
		}))
		defer ts.Close()

		auth, _, _ := NewAuthCodeFlow(Config{
			ClientID:     "id",
			ClientSecret: "secret",
			RedirectURI:  "http://127.0.0.1/cb",
			TokenURL:     ts.URL,
		})

		_, err := auth.Authenticate(context.Background(), "bad-code", auth.State())
		var authErr *AuthError
		if !errors.As(err, &authErr) {
			t.Fatalf("expected *AuthError, got %v", err)
		}
		if authErr.Op != "exchange" {
			t.Errorf("expected exchange op, got %q", authErr.Op)
		}
	})
}

func TestNewClientCredentials(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		if got := r.FormValue("grant_type"); got != "client_credentials" {
			t.Errorf("expected client_credentials grant, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "cc-token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}))
	defer ts.Close()

	client, err := NewClientCredentials(context.Background(), Config{
		ClientID:     "id",
		ClientSecret: "secret",
		TokenURL:     ts.URL,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	t.Run("Token Issued", func(t *testing.T) {
		if got := client.Token().AccessToken; got != "cc-token" {
			t.Errorf("expected cc-token, got %q", got)
		}
		if client.Token().Refreshable() {
			t.Error("client credentials tokens should not be refreshable")
		}
	})

	t.Run("Refresh Unavailable", func(t *testing.T) {
		if err := client.Refresh(context.Background()); !errors.Is(err, ErrRefreshUnavailable) {
			t.Errorf("expected ErrRefreshUnavailable, got %v", err)
		}
	})

	t.Run("User Endpoints Rejected", func(t *testing.T) {
		if _, err := client.CurrentUserProfile(context.Background()); !errors.Is(err, ErrUserAuthRequired) {
			t.Errorf("expected ErrUserAuthRequired, got %v", err)
		}
		if err := client.PausePlayback().Send(context.Background()); !errors.Is(err, ErrUserAuthRequired) {
			t.Errorf("expected ErrUserAuthRequired, got %v", err)
		}
	})
}

func TestFromRefreshToken(t *testing.T) {
	t.Run("Refresh Token Carried Forward", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.ParseForm()
			if got := r.FormValue("grant_type"); got != "refresh_token" {
				t.Errorf("expected refresh_token grant, got %q", got)
			}
			// Spotify often omits the refresh token from refresh responses.
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"access_token": "refreshed",
				"token_type":   "Bearer",
				"expires_in":   3600,
			})
		}))
		defer ts.Close()

		client, err := FromRefreshToken(context.Background(), Config{
			ClientID: "id",
			TokenURL: ts.URL,
		}, "held-refresh-token")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		tok := client.Token()
		if tok.AccessToken != "refreshed" {
			t.Errorf("expected refreshed access token, got %q", tok.AccessToken)
		}
		if tok.RefreshToken != "held-refresh-token" {
			t.Errorf("expected the original refresh token to be kept, got %q", tok.RefreshToken)
		}
	})

	t.Run("Missing Refresh Token", func(t *testing.T) {
		_, err := FromRefreshToken(context.Background(), Config{ClientID: "id"}, "")
		if !errors.Is(err, ErrMissingParameter) {
			t.Errorf("expected ErrMissingParameter, got %v", err)
		}
	})
}

func TestFromToken(t *testing.T) {
	t.Run("No Network", func(t *testing.T) {
		client, err := FromToken(Config{ClientID: "id", HTTPClient: noNetworkClient(t)}, Token{
			AccessToken: "existing",
			ExpiresAt:   time.Now().Add(time.Hour),
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if client.Token().AccessToken != "existing" {
			t.Error("expected the provided token to be used as-is")
		}
	})

	t.Run("Auto Refresh Requires Refresh Token", func(t *testing.T) {
		client, err := FromToken(Config{ClientID: "id", AutoRefresh: true}, Token{AccessToken: "existing"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if client.AutoRefresh() {
			t.Error("auto refresh should be disabled without a refresh token")
		}
	})

	t.Run("Missing Access Token", func(t *testing.T) {
		if _, err := FromToken(Config{ClientID: "id"}, Token{}); !errors.Is(err, ErrMissingParameter) {
			t.Errorf("expected ErrMissingParameter, got %v", err)
		}
	})
}

func TestTokenExpiry(t *testing.T) {
	if (Token{ExpiresAt: time.Now().Add(time.Minute)}).Expired() {
		t.Error("token expiring in a minute should not be expired")
	}
	if !(Token{ExpiresAt: time.Now().Add(-time.Minute)}).Expired() {
		t.Error("token expired a minute ago should be expired")
	}
	if (Token{}).Expired() {
		t.Error("token without expiry should never be expired")
	}
}
