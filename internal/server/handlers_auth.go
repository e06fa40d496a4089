package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/judgeLC/VupPlaylist-sub000/internal/auth"
	"github.com/judgeLC/VupPlaylist-sub000/internal/shared"
	"github.com/judgeLC/VupPlaylist-sub000/internal/store"
	"golang.org/x/time/rate"
)

type sessionKey struct{}

// API bundles the request handlers for every endpoint with their
// dependencies. Register wires them into a [Router].
type API struct {
	auth       *auth.Service
	store      *store.Store
	hub        *Hub
	logger     *log.Logger
	uploadsDir string
	loginRate  *rate.Limiter
}

// NewAPI creates the API handler set.
func NewAPI(authService *auth.Service, st *store.Store, hub *Hub, uploadsDir string, logger *log.Logger) *API {
	return &API{
		auth:       authService,
		store:      st,
		hub:        hub,
		logger:     logger,
		uploadsDir: uploadsDir,
		loginRate:  rate.NewLimiter(rate.Every(time.Second), 5),
	}
}

// Register wires every endpoint into the router.
func (a *API) Register(r Router) {
	r.Handle(http.MethodGet, "/api/auth/status", http.HandlerFunc(a.handleAuthStatus))
	r.Handle(http.MethodPost, "/api/auth/login", Throttle(a.loginRate)(http.HandlerFunc(a.handleLogin)))
	r.Handle(http.MethodPost, "/api/auth/set-password", http.HandlerFunc(a.handleSetPassword))
	r.Handle(http.MethodGet, "/api/auth/verify", http.HandlerFunc(a.handleVerify))
	r.Handle(http.MethodPost, "/api/auth/logout", a.requireAuth(a.handleLogout))

	r.Handle(http.MethodGet, "/api/songs", http.HandlerFunc(a.handleListSongs))
	r.Handle(http.MethodPost, "/api/songs", a.requireAuth(a.handleAddSong))
	r.Handle(http.MethodPut, "/api/songs/{id}", a.requireAuth(a.handleUpdateSong))
	r.Handle(http.MethodDelete, "/api/songs/{id}", a.requireAuth(a.handleDeleteSong))
	r.Handle(http.MethodPost, "/api/songs/batch", a.requireAuth(a.handleBatchSongs))

	r.Handle(http.MethodGet, "/api/profile", http.HandlerFunc(a.handleGetProfile))
	r.Handle(http.MethodPut, "/api/profile", a.requireAuth(a.handlePutProfile))

	r.Handle(http.MethodGet, "/api/settings", http.HandlerFunc(a.handleGetSettings))
	r.Handle(http.MethodPut, "/api/settings", a.requireAuth(a.handlePutSettings))

	r.Handle(http.MethodGet, "/api/genres", http.HandlerFunc(a.handleListGenres))
	r.Handle(http.MethodPut, "/api/genres", a.requireAuth(a.handlePutGenres))

	r.Handle(http.MethodGet, "/api/images", http.HandlerFunc(a.handleListImages))
	r.Handle(http.MethodPost, "/api/upload", a.requireAuth(a.handleUpload))

	r.Handle(http.MethodPost, "/api/update-data", a.requireAuth(a.handleUpdateData))

	r.Handler(a.hub)
}

// requireAuth wraps a handler with bearer-token verification.
//
// The verified session lands in the request context and its activity
// timestamp is refreshed.
func (a *API) requireAuth(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		session, valid := a.auth.Verify(token)
		if !valid {
			fail(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		a.auth.Touch(session)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, session)))
	})
}

func (a *API) handleAuthStatus(w http.ResponseWriter, r *http.Request) {
	ok(w, "", a.auth.Status())
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := a.auth.Login(body.Password)
	if err != nil {
		a.failAuth(w, err)
		return
	}

	if result.FirstTime {
		ok(w, "首次登录，请设置管理密码", result)
		return
	}
	ok(w, "登录成功", result)
}

func (a *API) handleSetPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		NewPassword     string `json:"newPassword"`
		CurrentPassword string `json:"currentPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := a.auth.SetPassword(body.NewPassword, bearerToken(r))
	if err != nil {
		a.failAuth(w, err)
		return
	}
	ok(w, "密码设置成功", result)
}

func (a *API) handleVerify(w http.ResponseWriter, r *http.Request) {
	_, valid := a.auth.Verify(bearerToken(r))
	ok(w, "", map[string]bool{"valid": valid})
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	a.auth.Logout(bearerToken(r))
	ok(w, "已退出登录", nil)
}

// failAuth maps auth-layer errors onto envelope responses.
//
// Credential failures stay generic on purpose: there is a single account, so
// the response must not reveal anything beyond "invalid".
func (a *API) failAuth(w http.ResponseWriter, err error) {
	var lockout *auth.LockoutError
	switch {
	case errors.As(err, &lockout):
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(lockout.RetryAfter.Seconds())+1))
		fail(w, http.StatusTooManyRequests, lockout.Error())
	case errors.Is(err, shared.ErrInvalidCredentials):
		fail(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, shared.ErrNotAuthenticated):
		fail(w, http.StatusUnauthorized, "not authenticated")
	case errors.Is(err, shared.ErrValidation):
		fail(w, http.StatusBadRequest, err.Error())
	default:
		a.logger.Error("auth handler failure", "error", err)
		fail(w, http.StatusInternalServerError, "internal server error")
	}
}
