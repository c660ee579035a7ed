// package store persists tokens and export history in a SQLite database.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/verdeloop/spotify"
)

// ErrNoToken is returned by [Store.LoadToken] when no token has been saved.
var ErrNoToken = errors.New("store: no saved token")

// Store wraps a SQLite database holding the saved token and export history.
type Store struct {
	db *sql.DB
}

// Open opens the database at the specified path, creating it if necessary,
// and runs any pending migrations. The path can be ":memory:" for an
// in-memory database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Configure sets connection pool limits for the database.
func (s *Store) Configure(maxOpenConns, maxIdleConns int) {
	s.db.SetMaxOpenConns(maxOpenConns)
	s.db.SetMaxIdleConns(maxIdleConns)
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveToken stores the token, replacing any previously saved one.
func (s *Store) SaveToken(token spotify.Token) error {
	query := `
		INSERT INTO tokens (id, access_token, refresh_token, token_type, scopes, expires_at, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			token_type = excluded.token_type,
			scopes = excluded.scopes,
			expires_at = excluded.expires_at,
			updated_at = excluded.updated_at
	`

	_, err := s.db.Exec(query,
		token.AccessToken,
		token.RefreshToken,
		token.TokenType,
		strings.Join(token.Scopes, " "),
		token.ExpiresAt.UTC(),
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	return nil
}

// LoadToken retrieves the saved token, or [ErrNoToken] when none exists.
func (s *Store) LoadToken() (*spotify.Token, error) {
	query := `
		SELECT access_token, refresh_token, token_type, scopes, expires_at
		FROM tokens
		WHERE id = 1
	`

	var (
		token     spotify.Token
		scopes    string
		expiresAt time.Time
	)

	err := s.db.QueryRow(query).Scan(
		&token.AccessToken,
		&token.RefreshToken,
		&token.TokenType,
		&scopes,
		&expiresAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNoToken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query token: %w", err)
	}

	if scopes != "" {
		token.Scopes = strings.Fields(scopes)
	}
	token.ExpiresAt = expiresAt

	return &token, nil
}

// DeleteToken removes the saved token. Deleting when no token is saved is
// not an error.
func (s *Store) DeleteToken() error {
	if _, err := s.db.Exec("DELETE FROM tokens WHERE id = 1"); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}

// ExportRecord is one completed playlist export.
type ExportRecord struct {
	ID         string
	PlaylistID string
	Name       string
	Format     string
	Path       string
	CreatedAt  time.Time
}

// RecordExport inserts an export history entry and returns its generated ID.
func (s *Store) RecordExport(playlistID, name, format, path string) (string, error) {
	id := uuid.NewString()

	query := `
		INSERT INTO exports (id, playlist_id, name, format, path, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query, id, playlistID, name, format, path, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("failed to record export: %w", err)
	}

	return id, nil
}

// ListExports retrieves export history entries, most recent first.
func (s *Store) ListExports() ([]ExportRecord, error) {
	query := `
		SELECT id, playlist_id, name, format, path, created_at
		FROM exports
		ORDER BY created_at DESC
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query exports: %w", err)
	}
	defer rows.Close()

	var records []ExportRecord
	for rows.Next() {
		var rec ExportRecord
		if err := rows.Scan(&rec.ID, &rec.PlaylistID, &rec.Name, &rec.Format, &rec.Path, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan export: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}
