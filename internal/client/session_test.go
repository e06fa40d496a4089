package client

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/judgeLC/VupPlaylist-sub000/internal/shared"
	tu "github.com/judgeLC/VupPlaylist-sub000/internal/testing"
)

func newTestTokenFile(t *testing.T) *TokenFile {
	t.Helper()
	return NewTokenFile(filepath.Join(t.TempDir(), "session.json"), shared.NewLogger(nil))
}

func validStoredSession() StoredSession {
	return StoredSession{
		Token:     strings.Repeat("ab", 32),
		SessionID: "2a18e464-4d5f-4a1e-8f2d-9f6b3c7e5a1d",
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestTokenFile(t *testing.T) {
	t.Run("missing file means logged out", func(t *testing.T) {
		tf := newTestTokenFile(t)
		if _, ok := tf.Load(); ok {
			t.Error("expected no session from a missing file")
		}
	})

	t.Run("round trip", func(t *testing.T) {
		tf := newTestTokenFile(t)
		want := validStoredSession()
		if err := tf.Save(want); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		got, ok := tf.Load()
		if !ok {
			t.Fatal("expected stored session to load")
		}
		if got.Token != want.Token || got.SessionID != want.SessionID {
			t.Errorf("session mismatch: %+v", got)
		}
	})

	t.Run("corrupt file is discarded", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.json")
		tu.MustWriteFile(t, path, "{broken")

		tf := NewTokenFile(path, shared.NewLogger(nil))
		if _, ok := tf.Load(); ok {
			t.Error("corrupt session should not load")
		}
		if _, ok := tf.Load(); ok {
			t.Error("corrupt session should have been cleared")
		}
	})

	t.Run("malformed token shape is discarded", func(t *testing.T) {
		tf := newTestTokenFile(t)
		session := validStoredSession()
		session.Token = "DEADBEEF"
		if err := tf.Save(session); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if _, ok := tf.Load(); ok {
			t.Error("malformed token should not load")
		}
	})

	t.Run("malformed session id is discarded", func(t *testing.T) {
		tf := newTestTokenFile(t)
		session := validStoredSession()
		session.SessionID = "not-a-uuid"
		if err := tf.Save(session); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if _, ok := tf.Load(); ok {
			t.Error("malformed session id should not load")
		}
	})

	t.Run("stale expiry is discarded", func(t *testing.T) {
		tf := newTestTokenFile(t)
		session := validStoredSession()
		session.ExpiresAt = time.Now().Add(-time.Minute)
		if err := tf.Save(session); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if _, ok := tf.Load(); ok {
			t.Error("expired stored session should not load")
		}
	})

	t.Run("clear is idempotent", func(t *testing.T) {
		tf := newTestTokenFile(t)
		if err := tf.Save(validStoredSession()); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		tf.Clear()
		tf.Clear()
		if _, ok := tf.Load(); ok {
			t.Error("cleared session should not load")
		}
	})
}
