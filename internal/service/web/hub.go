package web

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"claimscan/internal/shared/logger"
	"claimscan/scan/model"
)

// WebSocketMessage 定义了 WebSocket 消息的通用格式
type WebSocketMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// StatusSnapshot is what /api/status returns.
type StatusSnapshot struct {
	Counters   model.Counters     `json:"counters"`
	LastResult *model.ProbeResult `json:"last_result,omitempty"`
}

// Hub maintains the set of active clients and broadcasts messages to the
// clients. It also keeps the last known scan state so HTTP snapshots never
// touch the scanner's own goroutine.
type Hub struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	mu         sync.Mutex

	stateMu    sync.RWMutex
	counters   model.Counters
	lastResult *model.ProbeResult
}

func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan []byte, 64),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		clients:    make(map[*websocket.Conn]bool),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.clients[conn] = true
			h.mu.Unlock()
			logger.Info().Str("remote_addr", conn.RemoteAddr().String()).Msg("WebSocket client registered.")
		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
				logger.Info().Str("remote_addr", conn.RemoteAddr().String()).Msg("WebSocket client unregistered.")
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients {
				err := conn.WriteMessage(websocket.TextMessage, message)
				if err != nil {
					logger.Warn().Err(err).Str("remote_addr", conn.RemoteAddr().String()).Msg("Error writing to websocket client.")
					// Assume client is disconnected, let the read pump handle unregistering
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastProbeResult 广播单条探测结果。
func (h *Hub) BroadcastProbeResult(result model.ProbeResult) {
	h.stateMu.Lock()
	h.lastResult = &result
	h.counters.Add(result.Class)
	h.stateMu.Unlock()

	h.send(WebSocketMessage{Type: "probe_result", Data: result})
}

// BroadcastCounters 广播本次运行的累计计数。
func (h *Hub) BroadcastCounters(counters model.Counters) {
	h.stateMu.Lock()
	h.counters = counters
	h.stateMu.Unlock()

	h.send(WebSocketMessage{Type: "counters_update", Data: counters})
}

// Snapshot returns the hub's view of the scan for HTTP status requests.
func (h *Hub) Snapshot() StatusSnapshot {
	h.stateMu.RLock()
	defer h.stateMu.RUnlock()
	return StatusSnapshot{Counters: h.counters, LastResult: h.lastResult}
}

func (h *Hub) send(msg WebSocketMessage) {
	jsonMsg, err := json.Marshal(msg)
	if err != nil {
		logger.Error().Err(err).Msg("Hub: Failed to marshal message")
		return
	}

	select {
	case h.broadcast <- jsonMsg:
	default:
		// Do not log warning for full channel here to avoid log spam
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true }, // Allow all origins
}

// ServeWs handles websocket requests from the peer.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to upgrade websocket")
		return
	}
	hub.register <- conn

	// This is a read pump. It's needed to detect when a client closes the connection.
	go func() {
		defer func() {
			hub.unregister <- conn
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					logger.Warn().Err(err).Msg("Unexpected websocket close error")
				}
				break
			}
		}
	}()
}
