package client

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// FlowState enumerates the login flow states.
type FlowState int

const (
	StateIdle FlowState = iota
	StateChecking
	StateNeedsFirstTimeSetup
	StateLoginForm
	StateRedirecting // authenticated, hand over to the admin panel
)

// String renders the state for logs.
func (s FlowState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateChecking:
		return "checking"
	case StateNeedsFirstTimeSetup:
		return "needsFirstTimeSetup"
	case StateLoginForm:
		return "loginForm"
	case StateRedirecting:
		return "redirecting"
	default:
		return "unknown"
	}
}

// LoginFlow drives the admin login state machine:
//
//	Idle -> Checking -> {NeedsFirstTimeSetup, LoginForm, Redirecting}
//
// The two in-flight flags guard against re-entrant triggers: a status check
// arriving while one is already running (or while a password-set is mid
// flight) is skipped outright, never queued or duplicated. Callers invoke
// the flow from concurrently running command goroutines, so the flags are
// claimed with compare-and-swap and the state sits behind a mutex.
type LoginFlow struct {
	api    *APIClient
	tokens *TokenFile
	logger *log.Logger

	mu                sync.Mutex
	state             FlowState
	isCheckingAuth    atomic.Bool
	isSettingPassword atomic.Bool
}

// NewLoginFlow creates a login flow in the Idle state.
func NewLoginFlow(api *APIClient, tokens *TokenFile, logger *log.Logger) *LoginFlow {
	return &LoginFlow{api: api, tokens: tokens, logger: logger, state: StateIdle}
}

// State returns the current flow state.
func (f *LoginFlow) State() FlowState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *LoginFlow) setState(state FlowState) FlowState {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = state
	return state
}

// CheckAuth resolves the initial state: restores a stored session when the
// server still honors it, otherwise lands on the login form or first-time
// setup.
//
// If a check or password-set is already in flight the call is a no-op
// returning the current state.
func (f *LoginFlow) CheckAuth(ctx context.Context) (FlowState, error) {
	if f.isSettingPassword.Load() || !f.isCheckingAuth.CompareAndSwap(false, true) {
		f.logger.Debug("auth check skipped, another flow in flight")
		return f.State(), nil
	}
	defer f.isCheckingAuth.Store(false)

	f.setState(StateChecking)

	if stored, valid := f.tokens.Load(); valid {
		f.api.SetToken(stored.Token)
		serverValid, err := f.api.VerifyToken(ctx)
		if err == nil && serverValid {
			return f.setState(StateRedirecting), nil
		}
		// Dead or unverifiable session: fall through to a clean login.
		f.api.SetToken("")
		f.tokens.Clear()
	}

	status, err := f.api.AuthStatus(ctx)
	if err != nil {
		return f.setState(StateIdle), err
	}

	if status.IsFirstTime {
		return f.setState(StateNeedsFirstTimeSetup), nil
	}
	return f.setState(StateLoginForm), nil
}

// SubmitPassword attempts a login from the login form.
//
// A first-time acknowledgement moves to setup; a real login stores the
// session and redirects.
func (f *LoginFlow) SubmitPassword(ctx context.Context, password string) (FlowState, error) {
	result, err := f.api.Login(ctx, password)
	if err != nil {
		return f.State(), err
	}

	if result.FirstTime {
		return f.setState(StateNeedsFirstTimeSetup), nil
	}

	return f.adopt(result), nil
}

// SubmitNewPassword completes first-time setup (or a password change).
//
// Re-entrant calls while one is in flight are skipped; the flag also blocks
// CheckAuth from racing the setup flow.
func (f *LoginFlow) SubmitNewPassword(ctx context.Context, newPassword, currentPassword string) (FlowState, error) {
	if !f.isSettingPassword.CompareAndSwap(false, true) {
		f.logger.Debug("password set skipped, already in flight")
		return f.State(), nil
	}
	defer f.isSettingPassword.Store(false)

	result, err := f.api.SetPassword(ctx, newPassword, currentPassword)
	if err != nil {
		return f.State(), err
	}

	return f.adopt(result), nil
}

// Logout revokes the session server-side and clears local state.
func (f *LoginFlow) Logout(ctx context.Context) {
	if err := f.api.Logout(ctx); err != nil {
		f.logger.Warn("logout request failed", "error", err)
	}
	f.api.SetToken("")
	f.tokens.Clear()
	f.setState(StateLoginForm)
}

func (f *LoginFlow) adopt(result *LoginResult) FlowState {
	f.api.SetToken(result.Token)
	if err := f.tokens.Save(StoredSession{
		Token:     result.Token,
		SessionID: result.SessionID,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}); err != nil {
		f.logger.Warn("failed to persist session", "error", err)
	}
	return f.setState(StateRedirecting)
}
