package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// SessionTTL is the hard session lifetime; Touch never extends it.
const SessionTTL = 24 * time.Hour

var tokenPattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

// Session represents one authenticated admin login.
//
// The token is an opaque 256-bit value rendered as 64 lowercase hex chars;
// the session id is a v4 UUID. Multiple sessions may coexist.
type Session struct {
	SessionID string    `json:"sessionId"`
	Token     string    `json:"token"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
	LastSeen  time.Time `json:"lastSeen"`
}

// NewSession issues a session expiring SessionTTL after now.
func NewSession(now time.Time) (*Session, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}
	return &Session{
		SessionID: uuid.New().String(),
		Token:     hex.EncodeToString(b),
		IssuedAt:  now,
		ExpiresAt: now.Add(SessionTTL),
		LastSeen:  now,
	}, nil
}

// Expired reports whether the session is past its hard expiry.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// ValidTokenShape reports whether token is syntactically a session token.
//
// Anything else must be treated as logged-out, never passed upstream.
func ValidTokenShape(token string) bool {
	return tokenPattern.MatchString(token)
}

// ValidSessionIDShape reports whether id is syntactically a v4 UUID.
func ValidSessionIDShape(id string) bool {
	u, err := uuid.Parse(id)
	if err != nil {
		return false
	}
	return u.Version() == 4
}
