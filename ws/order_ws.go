package ws

import (
	"net/http"
	"sync"

	"backend/services"
	"backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// OrderHub fans order events out to dashboard websocket clients, one
// subscriber set per tenant. It implements services.OrderFeed.
type OrderHub struct {
	clients    map[uint]map[*websocket.Conn]bool // tenantID -> connections
	broadcast  chan tenantEvent
	register   chan subscription
	unregister chan subscription
	mu         sync.Mutex
	log        *zap.Logger
}

type subscription struct {
	Conn     *websocket.Conn
	TenantID uint
}

type tenantEvent struct {
	TenantID uint
	Event    services.OrderEvent
}

func NewOrderHub(log *zap.Logger) *OrderHub {
	return &OrderHub{
		clients:    make(map[uint]map[*websocket.Conn]bool),
		broadcast:  make(chan tenantEvent, 16),
		register:   make(chan subscription),
		unregister: make(chan subscription),
		log:        log,
	}
}

func (h *OrderHub) Run() {
	for {
		select {
		case sub := <-h.register:
			h.mu.Lock()
			if h.clients[sub.TenantID] == nil {
				h.clients[sub.TenantID] = make(map[*websocket.Conn]bool)
			}
			h.clients[sub.TenantID][sub.Conn] = true
			h.mu.Unlock()

		case sub := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[sub.TenantID][sub.Conn]; ok {
				delete(h.clients[sub.TenantID], sub.Conn)
				sub.Conn.Close()
			}
			h.mu.Unlock()

		case ev := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients[ev.TenantID] {
				if err := conn.WriteJSON(ev.Event); err != nil {
					h.log.Warn("ws write failed", zap.Error(err))
					conn.Close()
					delete(h.clients[ev.TenantID], conn)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast never blocks the request path; events to a full channel drop.
func (h *OrderHub) Broadcast(tenantID uint, ev services.OrderEvent) {
	select {
	case h.broadcast <- tenantEvent{TenantID: tenantID, Event: ev}:
	default:
		h.log.Warn("order feed backlog, dropping event", zap.Uint("tenantId", tenantID))
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WS route: /ws/orders (JWT-protected; tenant from claims)
func (h *OrderHub) HandleWebSocket(c *gin.Context) {
	tenantID := utils.CurrentTenantID(c)
	if tenantID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "missing tenant"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}

	sub := subscription{Conn: conn, TenantID: tenantID}
	h.register <- sub

	go func() {
		defer func() { h.unregister <- sub }()
		for {
			// the feed is one-way; drain pings and drop the conn on error
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
