package auth

import (
	"strings"
	"testing"
	"time"
)

func TestNewSession(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	session, err := NewSession(now)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}

	if !ValidTokenShape(session.Token) {
		t.Errorf("generated token has invalid shape: %s", session.Token)
	}
	if !ValidSessionIDShape(session.SessionID) {
		t.Errorf("generated session id is not a v4 UUID: %s", session.SessionID)
	}
	if session.ExpiresAt != now.Add(SessionTTL) {
		t.Errorf("unexpected expiry: %v", session.ExpiresAt)
	}
	if session.IssuedAt != now || session.LastSeen != now {
		t.Error("issuedAt and lastSeen should both be now")
	}

	other, err := NewSession(now)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	if other.Token == session.Token {
		t.Error("two sessions share a token")
	}
}

func TestSessionExpired(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	session, err := NewSession(now)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}

	if session.Expired(now) {
		t.Error("fresh session should not be expired")
	}
	if session.Expired(now.Add(SessionTTL - time.Second)) {
		t.Error("session should survive until the TTL elapses")
	}
	if !session.Expired(now.Add(SessionTTL)) {
		t.Error("session should expire exactly at the TTL boundary")
	}
	if !session.Expired(now.Add(48 * time.Hour)) {
		t.Error("session should be expired well past the TTL")
	}
}

func TestValidTokenShape(t *testing.T) {
	valid := strings.Repeat("ab", 32)

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"valid 64 hex chars", valid, true},
		{"empty", "", false},
		{"too short", valid[:63], false},
		{"too long", valid + "a", false},
		{"uppercase hex rejected", strings.ToUpper(valid), false},
		{"non-hex characters", strings.Repeat("zz", 32), false},
		{"embedded whitespace", valid[:32] + " " + valid[33:], false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidTokenShape(tt.token); got != tt.want {
				t.Errorf("ValidTokenShape(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

func TestValidSessionIDShape(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{"v4 uuid", "2a18e464-4d5f-4a1e-8f2d-9f6b3c7e5a1d", true},
		{"empty", "", false},
		{"not a uuid", "definitely-not-a-uuid", false},
		{"v1 uuid rejected", "a8098c1a-f86e-11da-bd1a-00112444be1e", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidSessionIDShape(tt.id); got != tt.want {
				t.Errorf("ValidSessionIDShape(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}

	t.Run("generated ids pass", func(t *testing.T) {
		session, err := NewSession(time.Now())
		if err != nil {
			t.Fatalf("NewSession failed: %v", err)
		}
		if !ValidSessionIDShape(session.SessionID) {
			t.Errorf("generated id rejected: %s", session.SessionID)
		}
	})
}
