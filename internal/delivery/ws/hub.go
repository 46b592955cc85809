// Package ws broadcasts backend events to connected UI clients.
package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// writeWait bounds how long one stalled client may hold up a broadcast.
const writeWait = 5 * time.Second

// Hub fans frames out to every registered connection.
type Hub struct {
	log *zap.SugaredLogger

	mu    sync.Mutex
	conns map[*websocket.Conn]bool
}

func NewHub(log *zap.SugaredLogger) *Hub {
	return &Hub{
		log:   log,
		conns: make(map[*websocket.Conn]bool),
	}
}

func (h *Hub) Register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = true
	h.log.Debugw("ws client registered", "clients", len(h.conns))
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.conns[conn]; !ok {
		return
	}
	delete(h.conns, conn)
	_ = conn.Close()
	h.log.Debugw("ws client unregistered", "clients", len(h.conns))
}

// Broadcast writes the frame to all clients; write failures drop only the
// failing client's frame, the connection is reaped by its read loop. The
// exclusive lock serializes writers, which gorilla connections require.
func (h *Hub) Broadcast(msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.conns {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.log.Warnw("ws broadcast failed", "error", err)
		}
	}
}

var Upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(_ *http.Request) bool { return true },
}
