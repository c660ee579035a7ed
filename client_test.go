package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// newTestServer serves both the token endpoint (under /token) and the Web
// API (everything else) so a single server can exercise refresh-then-retry
// sequences.
func newTestServer(t *testing.T, api http.HandlerFunc) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var refreshes atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		refreshes.Add(1)
		tokenResponse(w, "refreshed-token", "refresh-2")
	})
	mux.HandleFunc("/", api)

	return httptest.NewServer(mux), &refreshes
}

func expiredToken() Token {
	return Token{
		AccessToken:  "stale-token",
		RefreshToken: "refresh-1",
		ExpiresAt:    time.Now().Add(-time.Minute),
	}
}

// captureLogger records formatted log lines for assertions.
type captureLogger struct {
	debugs []string
	warns  []string
}

func (l *captureLogger) Debugf(format string, args ...any) {
	l.debugs = append(l.debugs, fmt.Sprintf(format, args...))
}

func (l *captureLogger) Warnf(format string, args ...any) {
	l.warns = append(l.warns, fmt.Sprintf(format, args...))
}

func TestAutoRefresh(t *testing.T) {
	t.Run("Expired Token Is Refreshed Before The Request", func(t *testing.T) {
		var gotBearer string
		ts, refreshes := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			gotBearer = r.Header.Get("Authorization")
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id":"wizzler","display_name":"Wizzler"}`))
		})
		defer ts.Close()

		client, err := FromToken(Config{
			ClientID:    "id",
			AutoRefresh: true,
			BaseURL:     ts.URL,
			TokenURL:    ts.URL + "/token",
		}, expiredToken())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		user, err := client.CurrentUserProfile(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if user.ID != "wizzler" {
			t.Errorf("unexpected profile: %+v", user)
		}

		if got := refreshes.Load(); got != 1 {
			t.Errorf("expected exactly one refresh, got %d", got)
		}
		if gotBearer != "Bearer refreshed-token" {
			t.Errorf("request should carry the refreshed token, got %q", gotBearer)
		}
		if client.Token().RefreshToken != "refresh-2" {
			t.Error("expected the token to be wholly replaced on refresh")
		}
	})

	t.Run("Refresh Failure Surfaces As The Refresh Error", func(t *testing.T) {
		apiCalled := false
		mux := http.NewServeMux()
		mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"invalid_grant"}`))
		})
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			apiCalled = true
		})
		ts := httptest.NewServer(mux)
		defer ts.Close()

		logger := &captureLogger{}
		client, _ := FromToken(Config{
			ClientID:    "id",
			AutoRefresh: true,
			BaseURL:     ts.URL,
			TokenURL:    ts.URL + "/token",
			Logger:      logger,
		}, expiredToken())

		_, err := client.CurrentUserProfile(context.Background())
		var authErr *AuthError
		if !errors.As(err, &authErr) {
			t.Fatalf("expected *AuthError, got %v", err)
		}
		if authErr.Op != "refresh" {
			t.Errorf("expected the refresh error, got op %q", authErr.Op)
		}
		if apiCalled {
			t.Error("the original request should not be sent after a failed refresh")
		}
		if len(logger.warns) != 1 || !strings.Contains(logger.warns[0], "refresh failed") {
			t.Errorf("expected a refresh failure warning, got %q", logger.warns)
		}
	})

	t.Run("Disabled Auto Refresh Fails Without Network IO", func(t *testing.T) {
		client, _ := FromToken(Config{
			ClientID:   "id",
			HTTPClient: noNetworkClient(t),
		}, expiredToken())

		_, err := client.CurrentUserProfile(context.Background())
		if !errors.Is(err, ErrTokenExpired) {
			t.Fatalf("expected ErrTokenExpired, got %v", err)
		}
	})

	t.Run("Concurrent Requests Refresh Once", func(t *testing.T) {
		ts, refreshes := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id":"wizzler"}`))
		})
		defer ts.Close()

		client, _ := FromToken(Config{
			ClientID:    "id",
			AutoRefresh: true,
			BaseURL:     ts.URL,
			TokenURL:    ts.URL + "/token",
		}, expiredToken())

		var wg sync.WaitGroup
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := client.CurrentUserProfile(context.Background()); err != nil {
					t.Errorf("expected no error, got %v", err)
				}
			}()
		}
		wg.Wait()

		if got := refreshes.Load(); got != 1 {
			t.Errorf("expected a single serialized refresh, got %d", got)
		}
	})
}

func TestExplicitRefresh(t *testing.T) {
	ts, refreshes := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})
	defer ts.Close()

	client, _ := FromToken(Config{
		ClientID: "id",
		BaseURL:  ts.URL,
		TokenURL: ts.URL + "/token",
	}, Token{AccessToken: "valid", RefreshToken: "refresh-1", ExpiresAt: time.Now().Add(time.Hour)})

	if err := client.Refresh(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if refreshes.Load() != 1 {
		t.Errorf("expected one refresh, got %d", refreshes.Load())
	}
	if client.Token().AccessToken != "refreshed-token" {
		t.Error("expected the refreshed access token to be installed")
	}
}

func TestAPIErrorResponses(t *testing.T) {
	t.Run("Structured Error Object", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"status": 404, "message": "Not found."},
			})
		}))
		defer ts.Close()

		client, _ := FromToken(Config{ClientID: "id", BaseURL: ts.URL}, Token{AccessToken: "tok"})

		_, err := client.Album("nope").Get(context.Background())
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected *APIError, got %v", err)
		}
		if apiErr.Status != 404 || apiErr.Message != "Not found." {
			t.Errorf("unexpected API error: %+v", apiErr)
		}
		if !errors.Is(err, &APIError{Status: 404}) {
			t.Error("expected errors.Is to match on status")
		}
	})

	t.Run("Unstructured Error Body", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte("upstream broke"))
		}))
		defer ts.Close()

		client, _ := FromToken(Config{ClientID: "id", BaseURL: ts.URL}, Token{AccessToken: "tok"})

		_, err := client.Album("x").Get(context.Background())
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected *APIError, got %v", err)
		}
		if apiErr.Status != http.StatusBadGateway || apiErr.Message != "upstream broke" {
			t.Errorf("unexpected API error: %+v", apiErr)
		}
	})

	t.Run("Malformed Success Body", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>not json</html>"))
		}))
		defer ts.Close()

		client, _ := FromToken(Config{ClientID: "id", BaseURL: ts.URL}, Token{AccessToken: "tok"})

		_, err := client.Album("x").Get(context.Background())
		var decodeErr *DecodeError
		if !errors.As(err, &decodeErr) {
			t.Fatalf("expected *DecodeError, got %v", err)
		}
		if !strings.Contains(string(decodeErr.Body), "not json") {
			t.Error("expected the offending body to be attached")
		}
	})
}
