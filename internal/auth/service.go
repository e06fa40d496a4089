package auth

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/judgeLC/VupPlaylist-sub000/internal/shared"
)

// LockoutError reports a rejected attempt during an active lockout window.
type LockoutError struct {
	RetryAfter time.Duration
}

func (e *LockoutError) Error() string {
	return fmt.Sprintf("account temporarily locked, retry in %s", e.RetryAfter.Round(time.Second))
}

// Unwrap lets errors.Is match [shared.ErrLockedOut].
func (e *LockoutError) Unwrap() error {
	return shared.ErrLockedOut
}

// StatusResult is the response of the unauthenticated status probe.
type StatusResult struct {
	IsFirstTime    bool   `json:"isFirstTime"`
	Message        string `json:"message"`
	SecurityNotice string `json:"securityNotice,omitempty"`
}

// LoginResult is the outcome of a successful login or password-set.
//
// During first-time setup FirstTime is true and no session is issued; the
// caller must set a real password before it gets a token.
type LoginResult struct {
	FirstTime bool   `json:"firstTime,omitempty"`
	Token     string `json:"token,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
}

// Service implements the authentication protocol: status, login,
// set-password, verify and logout, plus the lockout policy.
type Service struct {
	creds    *CredentialStore
	sessions SessionStore
	logger   *log.Logger
	now      func() time.Time
}

// NewService creates an authentication service.
func NewService(creds *CredentialStore, sessions SessionStore, logger *log.Logger) *Service {
	return &Service{creds: creds, sessions: sessions, logger: logger, now: time.Now}
}

// Status reports whether this install still runs on the first-time default
// password. No authentication required.
func (s *Service) Status() StatusResult {
	if s.creds.IsFirstTime() {
		return StatusResult{
			IsFirstTime:    true,
			Message:        "首次使用，请设置管理密码",
			SecurityNotice: "管理密码尚未设置，设置完成前后台处于不受保护状态",
		}
	}
	return StatusResult{IsFirstTime: false, Message: "请输入管理密码"}
}

// Login verifies password and issues a session.
//
// During first-time setup any password is accepted and no session is issued:
// there is no credential to check yet, and the caller must complete
// SetPassword to obtain a token. Failed attempts are not counted in this
// mode, so a few typos can never lock an install out of its own setup.
//
// Once a password is set, the lockout window is checked before any password
// comparison so a locked account rejects correct and wrong passwords
// identically.
func (s *Service) Login(password string) (*LoginResult, error) {
	if s.creds.IsFirstTime() {
		return &LoginResult{FirstTime: true}, nil
	}

	if locked, retry := s.creds.Locked(); locked {
		return nil, &LockoutError{RetryAfter: retry}
	}

	if !s.creds.Verify(password) {
		s.creds.RecordFailure()
		return nil, shared.ErrInvalidCredentials
	}

	s.creds.ResetFailures()

	session, err := NewSession(s.now())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrServer, err)
	}
	s.sessions.Save(session)
	s.logger.Info("admin login", "session", session.SessionID)
	return &LoginResult{Token: session.Token, SessionID: session.SessionID}, nil
}

// SetPassword stores a new credential and issues a session.
//
// Valid only during first-time setup or for an authenticated caller; token
// may be empty in the first-time flow.
func (s *Service) SetPassword(newPassword, token string) (*LoginResult, error) {
	if !s.creds.IsFirstTime() {
		if _, ok := s.Verify(token); !ok {
			return nil, shared.ErrNotAuthenticated
		}
	}

	if err := s.creds.SetPassword(newPassword); err != nil {
		return nil, err
	}

	session, err := NewSession(s.now())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrServer, err)
	}
	s.sessions.Save(session)
	s.logger.Info("admin password set", "session", session.SessionID)
	return &LoginResult{Token: session.Token, SessionID: session.SessionID}, nil
}

// Verify looks up the session for token.
//
// Malformed, unknown and expired tokens all yield (nil, false); verification
// never panics on hostile input.
func (s *Service) Verify(token string) (*Session, bool) {
	if !ValidTokenShape(token) {
		return nil, false
	}
	session, ok := s.sessions.Get(token)
	if !ok {
		return nil, false
	}
	if session.Expired(s.now()) {
		s.sessions.Delete(token)
		return nil, false
	}
	return session, true
}

// Touch refreshes the session's activity timestamp. The hard 24h expiry is
// never extended.
func (s *Service) Touch(session *Session) {
	session.LastSeen = s.now()
	s.sessions.Save(session)
}

// Logout revokes the caller's session; revoking an unknown or already
// revoked token is a no-op.
func (s *Service) Logout(token string) {
	if !ValidTokenShape(token) {
		return
	}
	s.sessions.Delete(token)
}
