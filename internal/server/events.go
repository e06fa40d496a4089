package server

import (
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// Push notification types. A receiver must treat unknown types as a no-op
// and must re-pull from the API rather than trust any payload: most events
// are cues, not state.
const (
	EventDataUpdated     = "dataUpdated"
	EventProfileUpdated  = "profileUpdated"
	EventGenreUpdated    = "genreDataUpdated"
	EventSettingsUpdated = "settingsUpdated"
	EventThemeUpdated    = "themeUpdated"
	EventFaviconUpdated  = "faviconUpdated"
	EventBeianUpdated    = "beianUpdated"
)

// Event is a typed push notification broadcast to every subscribed context.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Hub fans events out to all connected display/admin contexts over
// WebSocket. It is the server-side stand-in for same-origin postMessage and
// BroadcastChannel between browser windows.
type Hub struct {
	upgrader websocket.Upgrader
	logger   *log.Logger

	mu    sync.Mutex
	conns map[*websocket.Conn]bool
}

// NewHub creates an empty Hub.
func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Single-admin site served same-origin; the API itself is public read.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
		conns:  make(map[*websocket.Conn]bool),
	}
}

// Routes implements [Handler].
func (h *Hub) Routes() []string {
	return []string{"GET /api/events"}
}

// ServeHTTP upgrades the connection and subscribes it to future events.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	h.mu.Lock()
	h.conns[conn] = true
	total := len(h.conns)
	h.mu.Unlock()
	h.logger.Debug("event subscriber connected", "total", total)

	// Subscribers only listen. Inbound frames are drained and discarded so
	// a receiver can never re-broadcast what it received (cycle break).
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.drop(conn)
				return
			}
		}
	}()
}

// Broadcast sends the event to every subscriber, dropping dead connections.
func (h *Hub) Broadcast(evt Event) {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		if err := conn.WriteJSON(evt); err != nil {
			h.drop(conn)
		}
	}

	h.logger.Debug("event broadcast", "type", evt.Type, "subscribers", len(conns))
}

// Close disconnects all subscribers.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		conn.Close()
	}
	h.conns = make(map[*websocket.Conn]bool)
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
	conn.Close()
}
