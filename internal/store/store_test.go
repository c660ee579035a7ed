package store

import (
	"errors"
	"testing"
	"time"

	"github.com/verdeloop/spotify"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestTokenStore(t *testing.T) {
	t.Run("Load Without Save", func(t *testing.T) {
		s := newTestStore(t)

		if _, err := s.LoadToken(); !errors.Is(err, ErrNoToken) {
			t.Errorf("expected ErrNoToken, got %v", err)
		}
	})

	t.Run("Save And Load", func(t *testing.T) {
		s := newTestStore(t)

		expires := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
		token := spotify.Token{
			AccessToken:  "access",
			RefreshToken: "refresh",
			TokenType:    "Bearer",
			Scopes:       []string{"user-read-private", "playlist-read-private"},
			ExpiresAt:    expires,
		}

		if err := s.SaveToken(token); err != nil {
			t.Fatalf("failed to save token: %v", err)
		}

		loaded, err := s.LoadToken()
		if err != nil {
			t.Fatalf("failed to load token: %v", err)
		}

		if loaded.AccessToken != "access" || loaded.RefreshToken != "refresh" {
			t.Errorf("unexpected token: %+v", loaded)
		}
		if len(loaded.Scopes) != 2 || loaded.Scopes[0] != "user-read-private" {
			t.Errorf("unexpected scopes: %v", loaded.Scopes)
		}
		if !loaded.ExpiresAt.Equal(expires) {
			t.Errorf("expected expiry %v, got %v", expires, loaded.ExpiresAt)
		}
	})

	t.Run("Save Replaces The Previous Token", func(t *testing.T) {
		s := newTestStore(t)

		first := spotify.Token{AccessToken: "first", ExpiresAt: time.Now()}
		second := spotify.Token{AccessToken: "second", ExpiresAt: time.Now()}

		if err := s.SaveToken(first); err != nil {
			t.Fatalf("failed to save token: %v", err)
		}
		if err := s.SaveToken(second); err != nil {
			t.Fatalf("failed to save token: %v", err)
		}

		loaded, err := s.LoadToken()
		if err != nil {
			t.Fatalf("failed to load token: %v", err)
		}
		if loaded.AccessToken != "second" {
			t.Errorf("expected the replacement token, got %q", loaded.AccessToken)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		s := newTestStore(t)

		if err := s.SaveToken(spotify.Token{AccessToken: "a", ExpiresAt: time.Now()}); err != nil {
			t.Fatalf("failed to save token: %v", err)
		}
		if err := s.DeleteToken(); err != nil {
			t.Fatalf("failed to delete token: %v", err)
		}
		if _, err := s.LoadToken(); !errors.Is(err, ErrNoToken) {
			t.Errorf("expected ErrNoToken after delete, got %v", err)
		}

		// Deleting again is a no-op.
		if err := s.DeleteToken(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})
}

func TestExportHistory(t *testing.T) {
	s := newTestStore(t)

	id, err := s.RecordExport("p1", "Roadtrip", "json", "/tmp/p1.json")
	if err != nil {
		t.Fatalf("failed to record export: %v", err)
	}
	if id == "" {
		t.Error("expected a generated ID")
	}

	if _, err := s.RecordExport("p2", "Focus", "csv", "/tmp/p2.csv"); err != nil {
		t.Fatalf("failed to record export: %v", err)
	}

	records, err := s.ListExports()
	if err != nil {
		t.Fatalf("failed to list exports: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	for _, rec := range records {
		if rec.PlaylistID == "" || rec.Format == "" || rec.CreatedAt.IsZero() {
			t.Errorf("incomplete record: %+v", rec)
		}
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	s := newTestStore(t)

	if err := runMigrations(s.db); err != nil {
		t.Fatalf("re-running migrations should be a no-op: %v", err)
	}
}
