package ws

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/denis333rus/censornet/internal/domain/tab"
	"github.com/denis333rus/censornet/internal/infrastructure/logging"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in dev
	},
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Handler streams tab-state snapshots over WebSocket. Every mutation
// to any tab is pushed, so a client observes loading transitions,
// delayed completions, and enforcement effects as they land.
type Handler struct {
	tabs   *tab.Manager
	logger *logging.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(tabs *tab.Manager, logger *logging.Logger) *Handler {
	return &Handler{
		tabs:   tabs,
		logger: logger,
	}
}

// HandleConnection handles WebSocket upgrade and streaming
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	states, cancel := h.tabs.Subscribe()
	defer cancel()

	// Send welcome message plus the current state of every tab, so a
	// late subscriber starts from a consistent view.
	h.send(conn, gin.H{
		"type":    "system",
		"message": "Connected to Regulator Browser Service (Go)",
	})
	for _, state := range h.tabs.List() {
		if err := h.sendState(conn, state); err != nil {
			return
		}
	}

	// Reader goroutine: consumes pongs and detects client close.
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadLimit(1024)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(pongWait))
			return nil
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case state, ok := <-states:
			if !ok {
				return
			}
			if err := h.sendState(conn, state); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (h *Handler) sendState(conn *websocket.Conn, state tab.State) error {
	return h.send(conn, gin.H{
		"type":      "tab_state",
		"tab":       state,
		"timestamp": time.Now().Unix(),
	})
}

func (h *Handler) send(conn *websocket.Conn, data interface{}) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(data)
}
