package auth

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/judgeLC/VupPlaylist-sub000/internal/shared"
)

const cleanupInterval = 10 * time.Minute

// SessionStore holds live sessions keyed by token.
//
// Implementations must treat deletion of an unknown token as a no-op.
type SessionStore interface {
	Save(s *Session)
	Get(token string) (*Session, bool)
	Delete(token string)
	Close() error
}

// NewSessionStore selects a store backing.
//
// "redis" (or a REDIS_HOST in the environment) selects the Redis store,
// falling back to memory when the connection fails so the admin panel keeps
// working on a broken cache tier.
func NewSessionStore(backend string, logger *log.Logger) SessionStore {
	host := shared.GetEnv(EnvRedisHost, "")
	if backend == "redis" || host != "" {
		store, err := NewRedisStore(
			shared.GetEnv(EnvRedisHost, "127.0.0.1"),
			shared.GetEnv(EnvRedisPort, "6379"),
			shared.GetEnv(EnvRedisUser, ""),
			shared.GetEnv(EnvRedisPassword, ""),
			logger,
		)
		if err != nil {
			logger.Warn("redis connection failed, falling back to in-memory sessions", "error", err)
			return NewMemoryStore()
		}
		logger.Info("using redis session store")
		return store
	}
	return NewMemoryStore()
}

// MemoryStore is the default in-process session store.
type MemoryStore struct {
	sessions sync.Map
	done     chan struct{}
	once     sync.Once
}

// NewMemoryStore creates a MemoryStore and starts its expiry sweep.
func NewMemoryStore() *MemoryStore {
	store := &MemoryStore{done: make(chan struct{})}
	go store.cleanupLoop()
	return store
}

// Save stores the session, replacing any session with the same token.
func (st *MemoryStore) Save(s *Session) {
	st.sessions.Store(s.Token, s)
}

// Get returns the live session for token. Expired sessions are removed on
// access and reported as absent.
func (st *MemoryStore) Get(token string) (*Session, bool) {
	val, ok := st.sessions.Load(token)
	if !ok {
		return nil, false
	}
	session := val.(*Session)
	if session.Expired(time.Now()) {
		st.sessions.Delete(token)
		return nil, false
	}
	return session, true
}

// Delete removes the session; removing an unknown token is a no-op.
func (st *MemoryStore) Delete(token string) {
	st.sessions.Delete(token)
}

// Close stops the expiry sweep.
func (st *MemoryStore) Close() error {
	st.once.Do(func() { close(st.done) })
	return nil
}

func (st *MemoryStore) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-st.done:
			return
		case <-ticker.C:
			now := time.Now()
			st.sessions.Range(func(key, value any) bool {
				if value.(*Session).Expired(now) {
					st.sessions.Delete(key)
				}
				return true
			})
		}
	}
}
