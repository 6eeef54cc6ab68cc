package ws

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/quiverhq/quiver/backend/internal/infrastructure/logging"
	"github.com/quiverhq/quiver/backend/internal/infrastructure/monitoring"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS policy is enforced at the router layer
	},
}

// Event is a single message pushed to clients.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type client struct {
	conn *websocket.Conn
	send chan Event
}

// Hub tracks connected clients and broadcasts events to all of them.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*client
	logger  *logging.Logger
	metrics *monitoring.Metrics
}

// NewHub creates an empty hub.
func NewHub(logger *logging.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*client),
		logger:  logger,
	}
}

// WithMetrics attaches a metrics collector.
func (h *Hub) WithMetrics(m *monitoring.Metrics) *Hub {
	h.metrics = m
	return h
}

// Publish broadcasts an event to every connected client. Clients whose send
// buffer is full are disconnected.
func (h *Hub) Publish(eventType string, payload interface{}) {
	evt := Event{Type: eventType, Payload: payload}

	h.mu.RLock()
	stale := make([]string, 0)
	for clientID, cl := range h.clients {
		select {
		case cl.send <- evt:
		default:
			stale = append(stale, clientID)
		}
	}
	h.mu.RUnlock()

	for _, clientID := range stale {
		h.drop(clientID)
	}
}

// HandleConnection upgrades the request and serves the client until it
// disconnects.
func (h *Hub) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.logger != nil {
			h.logger.Warn("websocket upgrade failed", zap.Error(err))
		}
		return
	}

	clientID := uuid.NewString()
	cl := &client{conn: conn, send: make(chan Event, 16)}

	h.mu.Lock()
	h.clients[clientID] = cl
	h.mu.Unlock()
	if h.metrics != nil {
		h.metrics.WSConnections.Inc()
	}

	go h.writePump(clientID, cl)
	h.readPump(clientID, cl)
}

// readPump drains inbound frames; clients only listen, so any read error
// means the connection is gone.
func (h *Hub) readPump(clientID string, cl *client) {
	defer h.drop(clientID)
	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(clientID string, cl *client) {
	for evt := range cl.send {
		if err := cl.conn.WriteJSON(evt); err != nil {
			h.drop(clientID)
			return
		}
	}
}

func (h *Hub) drop(clientID string) {
	h.mu.Lock()
	cl, ok := h.clients[clientID]
	if ok {
		delete(h.clients, clientID)
	}
	h.mu.Unlock()

	if !ok {
		return
	}
	close(cl.send)
	cl.conn.Close()
	if h.metrics != nil {
		h.metrics.WSConnections.Dec()
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
