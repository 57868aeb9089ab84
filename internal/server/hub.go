package server

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/siddqamar/GMO-FactLens/internal/ports"
)

// event is one progress message pushed to dashboard clients.
type event struct {
	Kind    string `json:"kind"` // "step" or "note"
	Stage   string `json:"stage,omitempty"`
	Current int    `json:"current,omitempty"`
	Total   int    `json:"total,omitempty"`
	Detail  string `json:"detail,omitempty"`
	Message string `json:"message,omitempty"`
}

// Hub fans pipeline progress out to connected websocket clients. It
// implements ports.Progress; a hub with no clients just drops events.
type Hub struct {
	log      *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

var _ ports.Progress = (*Hub)(nil)

// NewHub builds an empty hub.
func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		log:      log.With("component", "ws-hub"),
		upgrader: websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024},
		clients:  map[*websocket.Conn]struct{}{},
	}
}

// Step broadcasts a per-item stage update.
func (h *Hub) Step(stage string, current, total int, detail string) {
	h.broadcast(event{Kind: "step", Stage: stage, Current: current, Total: total, Detail: detail})
}

// Note broadcasts a human-readable report line.
func (h *Hub) Note(message string) {
	h.broadcast(event{Kind: "note", Message: message})
}

func (h *Hub) broadcast(ev event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		if err := conn.WriteJSON(ev); err != nil {
			h.log.Debug("dropping websocket client", "error", err)
			_ = conn.Close()
			delete(h.clients, conn)
		}
	}
}

// ServeHTTP upgrades the connection and keeps it registered until the
// peer goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()

	// Drain reads so control frames are processed; exit on close.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.mu.Lock()
				delete(h.clients, conn)
				h.mu.Unlock()
				_ = conn.Close()
				return
			}
		}
	}()
}
