// Package session persists the authenticated session between runs.
// The session file lives next to the client config and holds the bearer
// token, the account email and a per-install device id.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	toml "github.com/pelletier/go-toml/v2"
)

// Session is the persisted authentication state.
type Session struct {
	Token    string `toml:"token"`
	Email    string `toml:"email"`
	DeviceID string `toml:"device_id"`
}

// Load reads the session file. A missing file yields an empty session with a
// freshly generated device id, not an error.
func Load(path string) (Session, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Session{DeviceID: uuid.NewString()}, nil
		}
		return Session{}, fmt.Errorf("read session: %w", err)
	}

	var s Session
	if err := toml.Unmarshal(bytes, &s); err != nil {
		return Session{}, fmt.Errorf("parse session: %w", err)
	}
	if strings.TrimSpace(s.DeviceID) == "" {
		s.DeviceID = uuid.NewString()
	}
	return s, nil
}

// Save writes the session file with owner-only permissions, creating
// directories as needed.
func Save(path string, s Session) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	bytes, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := os.WriteFile(path, bytes, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Clear removes the session file but keeps the device id by rewriting a
// logged-out session.
func Clear(path string, s Session) error {
	return Save(path, Session{DeviceID: s.DeviceID})
}

// Authenticated reports whether a usable token is present.
func (s Session) Authenticated() bool {
	return strings.TrimSpace(s.Token) != "" && !s.Expired()
}

// Expired checks the token's exp claim without verifying the signature; the
// server remains the authority, this only avoids doomed requests.
func (s Session) Expired() bool {
	if strings.TrimSpace(s.Token) == "" {
		return true
	}
	parser := jwt.NewParser()
	claims := jwt.RegisteredClaims{}
	if _, _, err := parser.ParseUnverified(s.Token, &claims); err != nil {
		// Opaque tokens are passed through; the server will reject them if stale.
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return time.Now().After(claims.ExpiresAt.Time)
}
