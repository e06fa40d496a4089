package auth

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/judgeLC/VupPlaylist-sub000/internal/shared"
	tu "github.com/judgeLC/VupPlaylist-sub000/internal/testing"
)

func newTestCredentialStore(t *testing.T) *CredentialStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "credential.json")
	return NewCredentialStore(path, shared.NewLogger(nil))
}

func TestHashPassword(t *testing.T) {
	t.Run("deterministic for same input", func(t *testing.T) {
		a := HashPassword("Abcd1234!", "somesalt")
		b := HashPassword("Abcd1234!", "somesalt")
		if a != b {
			t.Error("same password and salt should hash identically")
		}
	})

	t.Run("salt changes the hash", func(t *testing.T) {
		a := HashPassword("Abcd1234!", "salt1")
		b := HashPassword("Abcd1234!", "salt2")
		if a == b {
			t.Error("different salts should produce different hashes")
		}
	})

	t.Run("renders 32 bytes as lowercase hex", func(t *testing.T) {
		h := HashPassword("password", "salt")
		if len(h) != 64 {
			t.Errorf("expected 64 hex chars, got %d", len(h))
		}
		for _, r := range h {
			if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f') {
				t.Fatalf("unexpected character %q in hash", r)
			}
		}
	})
}

func TestValidatePasswordStrength(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"all classes present", "Abcd123!", false},
		{"longer valid password", "Str0ng&Secure", false},
		{"too short", "Ab1!", true},
		{"no upper case", "abcd123!", true},
		{"no lower case", "ABCD123!", true},
		{"no digit", "Abcdefg!", true},
		{"no symbol", "Abcd1234", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePasswordStrength(tt.password)
			if tt.wantErr && !errors.Is(err, shared.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestCredentialStore(t *testing.T) {
	t.Run("missing file starts first-time setup", func(t *testing.T) {
		cs := newTestCredentialStore(t)

		if !cs.IsFirstTime() {
			t.Error("fresh store should be first-time")
		}
		if !cs.Verify("") {
			t.Error("first-time credential should verify the empty password")
		}
		if cs.Verify("anything-else") {
			t.Error("non-empty password should not verify against first-time credential")
		}
	})

	t.Run("corrupt file starts first-time setup", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "credential.json")
		tu.MustWriteFile(t, path, "{broken")

		cs := NewCredentialStore(path, shared.NewLogger(nil))
		if !cs.IsFirstTime() {
			t.Error("corrupt credential file should fall back to first-time setup")
		}
	})

	t.Run("SetPassword clears first-time and persists", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "credential.json")
		logger := shared.NewLogger(nil)

		cs := NewCredentialStore(path, logger)
		if err := cs.SetPassword("Abcd1234!"); err != nil {
			t.Fatalf("SetPassword failed: %v", err)
		}
		if cs.IsFirstTime() {
			t.Error("first-time flag should be cleared")
		}
		if !cs.Verify("Abcd1234!") {
			t.Error("new password should verify")
		}
		if cs.Verify("") {
			t.Error("empty password should no longer verify")
		}

		// reload from disk
		reloaded := NewCredentialStore(path, logger)
		if reloaded.IsFirstTime() {
			t.Error("first-time flag should survive reload")
		}
		if !reloaded.Verify("Abcd1234!") {
			t.Error("password should verify after reload")
		}
	})

	t.Run("SetPassword rejects weak passwords", func(t *testing.T) {
		cs := newTestCredentialStore(t)
		if err := cs.SetPassword("weak"); !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
		if !cs.IsFirstTime() {
			t.Error("failed SetPassword should not clear first-time flag")
		}
	})

	t.Run("SetPassword rotates the salt", func(t *testing.T) {
		cs := newTestCredentialStore(t)
		if err := cs.SetPassword("Abcd1234!"); err != nil {
			t.Fatalf("SetPassword failed: %v", err)
		}
		firstSalt := cs.cred.Salt
		if err := cs.SetPassword("Efgh5678?"); err != nil {
			t.Fatalf("SetPassword failed: %v", err)
		}
		if cs.cred.Salt == firstSalt {
			t.Error("salt should rotate on every password change")
		}
	})
}

func TestLockout(t *testing.T) {
	t.Run("locks after five consecutive failures", func(t *testing.T) {
		cs := newTestCredentialStore(t)
		now := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
		cs.now = func() time.Time { return now }

		for i := 0; i < 4; i++ {
			cs.RecordFailure()
			if locked, _ := cs.Locked(); locked {
				t.Fatalf("locked after only %d failures", i+1)
			}
		}

		cs.RecordFailure()
		locked, remaining := cs.Locked()
		if !locked {
			t.Fatal("expected lockout after 5 failures")
		}
		if remaining != lockoutWindow {
			t.Errorf("expected full lockout window, got %v", remaining)
		}
	})

	t.Run("window elapses", func(t *testing.T) {
		cs := newTestCredentialStore(t)
		now := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
		cs.now = func() time.Time { return now }

		for i := 0; i < 5; i++ {
			cs.RecordFailure()
		}

		now = now.Add(lockoutWindow + time.Second)
		if locked, _ := cs.Locked(); locked {
			t.Error("lockout should elapse after the window")
		}
	})

	t.Run("ResetFailures clears counter and lockout", func(t *testing.T) {
		cs := newTestCredentialStore(t)
		for i := 0; i < 5; i++ {
			cs.RecordFailure()
		}
		cs.ResetFailures()
		if locked, _ := cs.Locked(); locked {
			t.Error("reset should clear an active lockout")
		}
		if cs.cred.FailedAttempts != 0 {
			t.Errorf("expected zero failures, got %d", cs.cred.FailedAttempts)
		}
	})

	t.Run("lockout survives reload", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "credential.json")
		logger := shared.NewLogger(nil)

		cs := NewCredentialStore(path, logger)
		for i := 0; i < 5; i++ {
			cs.RecordFailure()
		}

		reloaded := NewCredentialStore(path, logger)
		if locked, _ := reloaded.Locked(); !locked {
			t.Error("lockout window should survive a restart")
		}
	})
}
