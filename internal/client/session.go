package client

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/judgeLC/VupPlaylist-sub000/internal/auth"
)

// StoredSession is the client-side copy of an issued session.
type StoredSession struct {
	Token     string    `json:"token"`
	SessionID string    `json:"sessionId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// TokenFile persists the admin session between runs, the way a browser
// client keeps it in localStorage.
type TokenFile struct {
	path   string
	logger *log.Logger
}

// NewTokenFile creates a token store at path.
func NewTokenFile(path string, logger *log.Logger) *TokenFile {
	return &TokenFile{path: path, logger: logger}
}

// Load returns the stored session if it passes validation.
//
// Anything failing the token shape (64 lowercase hex), the session-id shape
// (v4 UUID) or the stored expiry is discarded and treated as logged-out, so
// stored state never reaches the server unvalidated. The stored expiry only
// short-circuits the obviously-dead case; server-side verification stays
// authoritative.
func (t *TokenFile) Load() (*StoredSession, bool) {
	data, err := os.ReadFile(t.path)
	if err != nil {
		return nil, false
	}

	var session StoredSession
	if err := json.Unmarshal(data, &session); err != nil {
		t.logger.Warn("stored session unreadable, discarding", "error", err)
		t.Clear()
		return nil, false
	}

	if !auth.ValidTokenShape(session.Token) || !auth.ValidSessionIDShape(session.SessionID) {
		t.logger.Warn("stored session malformed, discarding")
		t.Clear()
		return nil, false
	}
	if !session.ExpiresAt.IsZero() && !time.Now().Before(session.ExpiresAt) {
		t.Clear()
		return nil, false
	}

	return &session, true
}

// Save persists the session.
func (t *TokenFile) Save(session StoredSession) error {
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(t.path), 0755); err != nil {
		return err
	}
	return os.WriteFile(t.path, data, 0600)
}

// Clear removes the stored session; a missing file is a no-op.
func (t *TokenFile) Clear() {
	_ = os.Remove(t.path)
}
