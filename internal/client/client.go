// Package client implements the browser-side half of the protocol: the API
// client, client-side session storage, the login flow state machine and the
// reconciliation engine that keeps a display context consistent with the
// server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/judgeLC/VupPlaylist-sub000/internal/models"
	"github.com/judgeLC/VupPlaylist-sub000/internal/shared"
)

// RequestTimeout bounds every outbound API call.
const RequestTimeout = 10 * time.Second

// APIClient provides methods for calling the playlist server's JSON API.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// NewAPIClient creates a new API client for the given server.
func NewAPIClient(baseURL string, client *http.Client) *APIClient {
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}
	if client == nil {
		client = &http.Client{Timeout: RequestTimeout}
	}
	return &APIClient{baseURL: baseURL, httpClient: client}
}

// SetToken attaches a bearer token to subsequent requests; empty clears it.
func (a *APIClient) SetToken(token string) {
	a.token = token
}

// BaseURL returns the server address this client talks to.
func (a *APIClient) BaseURL() string {
	return a.baseURL
}

// envelope mirrors the server's uniform response shape.
type envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	Error     string          `json:"error"`
	Timestamp string          `json:"timestamp"`
}

// do issues one API request and decodes the envelope.
//
// Timeouts surface as [shared.ErrTimeout], other transport failures as
// [shared.ErrNetwork]; the two are never conflated.
func (a *APIClient) do(ctx context.Context, method, path string, body any) (*envelope, error) {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", shared.ErrServer, err)
	}

	if !env.Success {
		return &env, classifyStatusError(resp.StatusCode, env.Error)
	}
	return &env, nil
}

func classifyTransportError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %v", shared.ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", shared.ErrNetwork, err)
}

func classifyStatusError(status int, msg string) error {
	switch status {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", shared.ErrInvalidCredentials, msg)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", shared.ErrLockedOut, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", shared.ErrNotFound, msg)
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", shared.ErrValidation, msg)
	default:
		return fmt.Errorf("%w: %s", shared.ErrServer, msg)
	}
}

func decodeData[T any](env *envelope) (T, error) {
	var out T
	if env == nil || env.Data == nil {
		return out, nil
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return out, fmt.Errorf("%w: unexpected payload: %v", shared.ErrServer, err)
	}
	return out, nil
}

// AuthStatus probes whether the server is in first-time setup.
func (a *APIClient) AuthStatus(ctx context.Context) (*AuthStatus, error) {
	env, err := a.do(ctx, http.MethodGet, "/api/auth/status", nil)
	if err != nil {
		return nil, err
	}
	status, err := decodeData[AuthStatus](env)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// AuthStatus mirrors the server's status payload.
type AuthStatus struct {
	IsFirstTime    bool   `json:"isFirstTime"`
	Message        string `json:"message"`
	SecurityNotice string `json:"securityNotice"`
}

// LoginResult mirrors the server's login/set-password payload.
type LoginResult struct {
	FirstTime bool   `json:"firstTime"`
	Token     string `json:"token"`
	SessionID string `json:"sessionId"`
}

// Login attempts a password login.
func (a *APIClient) Login(ctx context.Context, password string) (*LoginResult, error) {
	env, err := a.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{"password": password})
	if err != nil {
		return nil, err
	}
	result, err := decodeData[LoginResult](env)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// SetPassword completes first-time setup or changes the password.
func (a *APIClient) SetPassword(ctx context.Context, newPassword, currentPassword string) (*LoginResult, error) {
	env, err := a.do(ctx, http.MethodPost, "/api/auth/set-password", map[string]string{
		"newPassword":     newPassword,
		"currentPassword": currentPassword,
	})
	if err != nil {
		return nil, err
	}
	result, err := decodeData[LoginResult](env)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// VerifyToken asks the server whether the attached token is still valid.
func (a *APIClient) VerifyToken(ctx context.Context) (bool, error) {
	env, err := a.do(ctx, http.MethodGet, "/api/auth/verify", nil)
	if err != nil {
		return false, err
	}
	result, err := decodeData[map[string]bool](env)
	if err != nil {
		return false, err
	}
	return result["valid"], nil
}

// Logout revokes the attached token.
func (a *APIClient) Logout(ctx context.Context) error {
	_, err := a.do(ctx, http.MethodPost, "/api/auth/logout", nil)
	return err
}

// Songs fetches the public song list.
func (a *APIClient) Songs(ctx context.Context) ([]models.Song, error) {
	env, err := a.do(ctx, http.MethodGet, "/api/songs", nil)
	if err != nil {
		return nil, err
	}
	return decodeData[[]models.Song](env)
}

// Genres fetches the genre list.
func (a *APIClient) Genres(ctx context.Context) ([]models.Genre, error) {
	env, err := a.do(ctx, http.MethodGet, "/api/genres", nil)
	if err != nil {
		return nil, err
	}
	return decodeData[[]models.Genre](env)
}

// Profile fetches the streamer profile.
func (a *APIClient) Profile(ctx context.Context) (*models.Profile, error) {
	env, err := a.do(ctx, http.MethodGet, "/api/profile", nil)
	if err != nil {
		return nil, err
	}
	profile, err := decodeData[models.Profile](env)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Settings fetches the site settings.
func (a *APIClient) Settings(ctx context.Context) (*models.Settings, error) {
	env, err := a.do(ctx, http.MethodGet, "/api/settings", nil)
	if err != nil {
		return nil, err
	}
	payload, err := decodeData[map[string]models.Settings](env)
	if err != nil {
		return nil, err
	}
	settings := payload["settings"]
	return &settings, nil
}

// Snapshot fetches all resources as one point-in-time copy.
func (a *APIClient) Snapshot(ctx context.Context) (*models.Snapshot, error) {
	songs, err := a.Songs(ctx)
	if err != nil {
		return nil, err
	}
	genres, err := a.Genres(ctx)
	if err != nil {
		return nil, err
	}
	profile, err := a.Profile(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := a.Settings(ctx)
	if err != nil {
		return nil, err
	}
	return &models.Snapshot{Songs: songs, Genres: genres, Profile: profile, Settings: settings}, nil
}

// AddSong creates a song (authenticated).
func (a *APIClient) AddSong(ctx context.Context, song models.Song) (*models.Song, error) {
	env, err := a.do(ctx, http.MethodPost, "/api/songs", song)
	if err != nil {
		return nil, err
	}
	added, err := decodeData[models.Song](env)
	if err != nil {
		return nil, err
	}
	return &added, nil
}

// UpdateSong replaces a song by id (authenticated).
func (a *APIClient) UpdateSong(ctx context.Context, id int64, song models.Song) (*models.Song, error) {
	env, err := a.do(ctx, http.MethodPut, fmt.Sprintf("/api/songs/%d", id), song)
	if err != nil {
		return nil, err
	}
	updated, err := decodeData[models.Song](env)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteSong removes a song by id (authenticated).
func (a *APIClient) DeleteSong(ctx context.Context, id int64) error {
	_, err := a.do(ctx, http.MethodDelete, fmt.Sprintf("/api/songs/%d", id), nil)
	return err
}

// PutSettings updates site settings (authenticated); nil fields are left unchanged.
func (a *APIClient) PutSettings(ctx context.Context, patch map[string]string) (*models.Settings, error) {
	env, err := a.do(ctx, http.MethodPut, "/api/settings", patch)
	if err != nil {
		return nil, err
	}
	settings, err := decodeData[models.Settings](env)
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// PutProfile replaces the profile (authenticated).
func (a *APIClient) PutProfile(ctx context.Context, profile models.Profile) error {
	_, err := a.do(ctx, http.MethodPut, "/api/profile", profile)
	return err
}
