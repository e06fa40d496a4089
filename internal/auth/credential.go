// Package auth implements the administrator credential, session tokens and
// the login/lockout policy for the admin panel.
//
// There is exactly one credential process-wide, persisted to
// data/credential.json. The lockout bookkeeping (failure counter, lockout
// deadline) is persisted alongside it so a server restart does not reset an
// active lockout window.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
	"unicode"

	"github.com/charmbracelet/log"
	"github.com/judgeLC/VupPlaylist-sub000/internal/shared"
	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2Iterations = 120_000
	pbkdf2KeyLen     = 32

	// Lockout policy: after maxFailedAttempts consecutive failures every
	// further attempt is rejected until lockoutWindow elapses.
	maxFailedAttempts = 5
	lockoutWindow     = 15 * time.Minute
)

// Credential is the single persisted administrator credential.
type Credential struct {
	PasswordHash   string     `json:"passwordHash"`
	Salt           string     `json:"salt"`
	FailedAttempts int        `json:"failedAttempts"`
	LockedUntil    *time.Time `json:"lockedUntil"`
	IsFirstTime    bool       `json:"isFirstTime"`
}

// CredentialStore loads, validates and persists the administrator credential.
type CredentialStore struct {
	path   string
	logger *log.Logger
	cred   Credential
	now    func() time.Time
}

// NewCredentialStore loads the credential from path.
//
// A missing or corrupt file is first-time setup, never a fatal error: a fresh
// credential with an empty password and a random per-install salt is created.
func NewCredentialStore(path string, logger *log.Logger) *CredentialStore {
	cs := &CredentialStore{path: path, logger: logger, now: time.Now}

	data, err := os.ReadFile(path)
	if err == nil {
		var cred Credential
		if jsonErr := json.Unmarshal(data, &cred); jsonErr == nil && cred.Salt != "" {
			cs.cred = cred
			return cs
		}
		logger.Warn("credential file corrupt, reinstalling first-time defaults", "path", path)
	}

	cs.cred = firstTimeCredential()
	cs.persist()
	return cs
}

func firstTimeCredential() Credential {
	salt := newSalt()
	return Credential{
		PasswordHash: HashPassword("", salt),
		Salt:         salt,
		IsFirstTime:  true,
	}
}

func newSalt() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("crypto/rand unavailable: %v", err))
	}
	return hex.EncodeToString(b)
}

// HashPassword derives a PBKDF2-SHA256 hash of password under salt,
// rendered as lowercase hex. Deterministic and side-effect free.
func HashPassword(password, salt string) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), pbkdf2Iterations, pbkdf2KeyLen, sha256.New)
	return hex.EncodeToString(key)
}

// Verify reports whether password matches the stored credential.
//
// The comparison is constant-time over the derived hashes.
func (cs *CredentialStore) Verify(password string) bool {
	computed := HashPassword(password, cs.cred.Salt)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(cs.cred.PasswordHash)) == 1
}

// SetPassword validates strength, stores the new credential under a fresh
// salt, clears the first-time flag and resets the failure counter.
func (cs *CredentialStore) SetPassword(newPassword string) error {
	if err := ValidatePasswordStrength(newPassword); err != nil {
		return err
	}

	salt := newSalt()
	cs.cred.Salt = salt
	cs.cred.PasswordHash = HashPassword(newPassword, salt)
	cs.cred.IsFirstTime = false
	cs.cred.FailedAttempts = 0
	cs.cred.LockedUntil = nil
	cs.persist()
	return nil
}

// IsFirstTime reports whether a real password was ever set.
func (cs *CredentialStore) IsFirstTime() bool {
	return cs.cred.IsFirstTime
}

// Locked returns whether the account is inside a lockout window and, if so,
// how long until the window elapses.
func (cs *CredentialStore) Locked() (bool, time.Duration) {
	if cs.cred.LockedUntil == nil {
		return false, 0
	}
	remaining := cs.cred.LockedUntil.Sub(cs.now())
	if remaining <= 0 {
		return false, 0
	}
	return true, remaining
}

// RecordFailure increments the consecutive-failure counter, starting a
// lockout window once the policy threshold is reached.
func (cs *CredentialStore) RecordFailure() {
	cs.cred.FailedAttempts++
	if cs.cred.FailedAttempts >= maxFailedAttempts {
		until := cs.now().Add(lockoutWindow)
		cs.cred.LockedUntil = &until
	}
	cs.persist()
}

// ResetFailures clears the failure counter after a successful login.
func (cs *CredentialStore) ResetFailures() {
	if cs.cred.FailedAttempts == 0 && cs.cred.LockedUntil == nil {
		return
	}
	cs.cred.FailedAttempts = 0
	cs.cred.LockedUntil = nil
	cs.persist()
}

func (cs *CredentialStore) persist() {
	data, err := json.MarshalIndent(cs.cred, "", "  ")
	if err != nil {
		cs.logger.Error("failed to encode credential", "error", err)
		return
	}
	if err := os.MkdirAll(filepath.Dir(cs.path), 0755); err != nil {
		cs.logger.Error("failed to create credential directory", "error", err)
		return
	}
	tmp, err := os.CreateTemp(filepath.Dir(cs.path), "credential.tmp-*")
	if err != nil {
		cs.logger.Error("failed to create credential temp file", "error", err)
		return
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		cs.logger.Error("failed to write credential", "error", err)
		return
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		cs.logger.Error("failed to close credential temp file", "error", err)
		return
	}
	if err := os.Rename(tmp.Name(), cs.path); err != nil {
		os.Remove(tmp.Name())
		cs.logger.Error("failed to replace credential file", "error", err)
	}
}

// ValidatePasswordStrength enforces the password policy: at least 8
// characters with upper case, lower case, digit and symbol all present.
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", shared.ErrValidation)
	}

	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}

	if !upper || !lower || !digit || !symbol {
		return fmt.Errorf("%w: password needs upper case, lower case, a digit and a symbol", shared.ErrValidation)
	}
	return nil
}
