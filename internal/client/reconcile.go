package client

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/judgeLC/VupPlaylist-sub000/internal/models"
	"github.com/judgeLC/VupPlaylist-sub000/internal/store"
)

// Source yields a full snapshot from one data origin.
type Source interface {
	Name() string
	Fetch(ctx context.Context) (*models.Snapshot, error)
}

// APISource fetches the live server snapshot. Highest precedence.
type APISource struct {
	API *APIClient
}

func (s *APISource) Name() string { return "api" }

func (s *APISource) Fetch(ctx context.Context) (*models.Snapshot, error) {
	return s.API.Snapshot(ctx)
}

// FileSource reads the embedded build-time snapshot (data.js).
type FileSource struct {
	Path string
}

func (s *FileSource) Name() string { return "snapshot" }

func (s *FileSource) Fetch(ctx context.Context) (*models.Snapshot, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, err
	}
	payload, err := store.ParseSnapshotJS(data)
	if err != nil {
		return nil, err
	}

	snap := &models.Snapshot{}
	if raw, ok := payload["songs"]; ok {
		_ = json.Unmarshal(raw, &snap.Songs)
	}
	if raw, ok := payload["genres"]; ok {
		_ = json.Unmarshal(raw, &snap.Genres)
	}
	if raw, ok := payload["profile"]; ok {
		_ = json.Unmarshal(raw, &snap.Profile)
	}
	if raw, ok := payload["settings"]; ok {
		_ = json.Unmarshal(raw, &snap.Settings)
	}
	return snap, nil
}

// CacheSource reads the local snapshot cache.
type CacheSource struct {
	Cache *Cache
}

func (s *CacheSource) Name() string { return "cache" }

func (s *CacheSource) Fetch(ctx context.Context) (*models.Snapshot, error) {
	return s.Cache.LoadSnapshot()
}

// DefaultSource yields the hard-coded defaults. Always non-empty, so it
// terminates the precedence chain.
type DefaultSource struct{}

func (s *DefaultSource) Name() string { return "defaults" }

func (s *DefaultSource) Fetch(ctx context.Context) (*models.Snapshot, error) {
	profile := models.DefaultProfile()
	settings := models.DefaultSettings()
	return &models.Snapshot{
		Songs:    []models.Song{},
		Genres:   models.DefaultGenres(),
		Profile:  &profile,
		Settings: &settings,
	}, nil
}

// MergeGenres combines a server genre list with a local one: the server list
// wins wholesale, followed by local entries whose id the server does not
// know. Merging is idempotent: merging the same local list again adds
// nothing new.
func MergeGenres(server, local []models.Genre) []models.Genre {
	known := make(map[string]bool, len(server))
	merged := make([]models.Genre, 0, len(server)+len(local))
	for _, g := range server {
		merged = append(merged, g)
		known[g.ID] = true
	}
	for _, g := range local {
		if !known[g.ID] {
			merged = append(merged, g)
			known[g.ID] = true
		}
	}
	return merged
}

// Reconciler keeps one display context's view of the data eventually
// consistent with the server, combining three channels: snapshot precedence
// on load, push notifications, and fallback polling.
type Reconciler struct {
	sources      []Source
	cache        *Cache
	logger       *log.Logger
	pollInterval time.Duration
	wake         chan struct{}

	mu         sync.Mutex
	view       *models.Snapshot
	generation uint64 // highest fetch started; stale completions are dropped
	applied    uint64
	onChange   func(*models.Snapshot)
}

// NewReconciler builds a reconciler over the given precedence-ordered
// sources. cache may be nil (no local persistence).
func NewReconciler(sources []Source, cache *Cache, pollInterval time.Duration, logger *log.Logger) *Reconciler {
	if pollInterval <= 0 {
		pollInterval = 30 * time.Second
	}
	return &Reconciler{
		sources:      sources,
		cache:        cache,
		logger:       logger,
		pollInterval: pollInterval,
		wake:         make(chan struct{}, 1),
	}
}

// OnChange registers the callback invoked with every newly applied view.
func (r *Reconciler) OnChange(fn func(*models.Snapshot)) {
	r.onChange = fn
}

// View returns the current merged view.
func (r *Reconciler) View() *models.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.view
}

// Load initializes the view by trying sources in precedence order and
// stopping at the first non-empty snapshot. A stale local cache can never
// shadow a fresher server snapshot because the API source is consulted
// first.
//
// When the winning snapshot came from the server and the local cache holds
// genres, the two genre lists are merged so locally-added entries survive.
func (r *Reconciler) Load(ctx context.Context) *models.Snapshot {
	for _, src := range r.sources {
		snap, err := src.Fetch(ctx)
		if err != nil {
			r.logger.Debug("source unavailable", "source", src.Name(), "error", err)
			continue
		}
		if snap.Empty() {
			r.logger.Debug("source empty", "source", src.Name())
			continue
		}

		if src.Name() == "api" {
			snap = r.mergeLocalGenres(snap)
		}

		r.logger.Info("view loaded", "source", src.Name(), "songs", len(snap.Songs))
		r.apply(snap)
		return snap
	}

	// Unreachable when DefaultSource terminates the chain.
	snap, _ := (&DefaultSource{}).Fetch(ctx)
	r.apply(snap)
	return snap
}

func (r *Reconciler) mergeLocalGenres(snap *models.Snapshot) *models.Snapshot {
	if r.cache == nil {
		return snap
	}
	cached, err := r.cache.LoadSnapshot()
	if err != nil || len(cached.Genres) == 0 {
		return snap
	}
	merged := *snap
	merged.Genres = MergeGenres(snap.Genres, cached.Genres)
	return &merged
}

// Refresh issues a fresh server fetch and applies the result.
//
// Every call fetches anew: in-flight results are never shared between
// distinct triggers, because a result already in flight may predate the
// cause of a later notification. A completion older than the newest started
// fetch is discarded instead of applied.
func (r *Reconciler) Refresh(ctx context.Context) {
	api := r.apiSource()
	if api == nil {
		return
	}

	r.mu.Lock()
	r.generation++
	gen := r.generation
	r.mu.Unlock()

	snap, err := api.Fetch(ctx)
	if err != nil {
		r.logger.Warn("refresh failed", "error", err)
		return
	}
	snap = r.mergeLocalGenres(snap)

	r.mu.Lock()
	stale := gen < r.generation || gen <= r.applied
	if !stale {
		r.applied = gen
	}
	r.mu.Unlock()
	if stale {
		r.logger.Debug("dropping stale refresh result", "generation", gen)
		return
	}
	r.apply(snap)
}

func (r *Reconciler) apiSource() Source {
	for _, src := range r.sources {
		if src.Name() == "api" {
			return src
		}
	}
	return nil
}

// HandleEvent reacts to one push notification. Unrecognized types are
// ignored; recognized ones always trigger a fresh re-pull from the source
// of truth and never re-broadcast or apply the payload directly.
func (r *Reconciler) HandleEvent(ctx context.Context, eventType string) {
	switch eventType {
	case "dataUpdated", "profileUpdated", "genreDataUpdated", "settingsUpdated", "themeUpdated", "faviconUpdated", "beianUpdated":
		r.Refresh(ctx)
	default:
		r.logger.Debug("ignoring unknown event type", "type", eventType)
	}
}

// Wake triggers an immediate poll, the window-focus analog.
func (r *Reconciler) Wake() {
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

// Run loads the initial view, subscribes to push events and polls until ctx
// is cancelled. Poll ticks and wake-ups funnel into the same reconcile
// operation; its generation guard makes overlapping invocations safe.
func (r *Reconciler) Run(ctx context.Context) {
	r.Load(ctx)

	go r.subscribe(ctx)

	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.pollSettings(ctx)
		case <-r.wake:
			r.pollSettings(ctx)
		}
	}
}

// pollSettings is the fallback for contexts that never receive a push:
// fetch settings, diff against the last-known value, and only re-pull the
// full view when something actually changed.
func (r *Reconciler) pollSettings(ctx context.Context) {
	api := r.apiSource()
	if api == nil {
		return
	}
	apiSrc, ok := api.(*APISource)
	if !ok {
		return
	}

	settings, err := apiSrc.API.Settings(ctx)
	if err != nil {
		r.logger.Debug("settings poll failed", "error", err)
		return
	}

	r.mu.Lock()
	current := r.view
	r.mu.Unlock()

	if current != nil && current.Settings != nil && *current.Settings == *settings {
		return
	}
	r.logger.Info("settings changed, refreshing view")
	r.Refresh(ctx)
}

// subscribe listens for push events over WebSocket, reconnecting with
// backoff. Without a subscription the poller still converges.
func (r *Reconciler) subscribe(ctx context.Context) {
	api, ok := r.apiSource().(*APISource)
	if !ok || api == nil {
		return
	}
	wsURL := websocketURL(api.API.BaseURL()) + "/api/events"

	backoff := time.Second
	for ctx.Err() == nil {
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
		if err != nil {
			r.logger.Debug("event subscription failed", "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second
		r.logger.Info("subscribed to push events")

		r.readEvents(ctx, conn)
		conn.Close()
	}
}

func (r *Reconciler) readEvents(ctx context.Context, conn *websocket.Conn) {
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		var evt struct {
			Type string `json:"type"`
		}
		if err := conn.ReadJSON(&evt); err != nil {
			return
		}
		r.HandleEvent(ctx, evt.Type)
	}
}

func (r *Reconciler) apply(snap *models.Snapshot) {
	r.mu.Lock()
	r.view = snap
	fn := r.onChange
	r.mu.Unlock()

	if r.cache != nil {
		if err := r.cache.SaveSnapshot(snap); err != nil {
			r.logger.Warn("failed to cache snapshot", "error", err)
		}
	}
	if fn != nil {
		fn(snap)
	}
}

func websocketURL(baseURL string) string {
	switch {
	case strings.HasPrefix(baseURL, "https://"):
		return "wss://" + strings.TrimPrefix(baseURL, "https://")
	case strings.HasPrefix(baseURL, "http://"):
		return "ws://" + strings.TrimPrefix(baseURL, "http://")
	default:
		return fmt.Sprintf("ws://%s", baseURL)
	}
}
