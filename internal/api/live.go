package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/ecosnap-app/ecosnap/internal/domain"
	"github.com/ecosnap-app/ecosnap/internal/infra/metrics"
)

// ─── Live Activity Feed (WebSocket) ─────────────────────────────────────────
// Clients subscribe at /api/activity/live and receive a JSON event for every
// accepted action submission. The feed is best-effort: a slow client is
// dropped rather than allowed to stall the broadcast loop.

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	sendBuffer = 256
)

// Hub fans accepted-action events out to connected WebSocket clients.
type Hub struct {
	clients    map[*client]bool
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	upgrader   websocket.Upgrader
	logger     *log.Logger
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates a live activity hub. Run must be started for the hub to
// accept clients.
func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte),
		register:   make(chan *client),
		unregister: make(chan *client),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: logger,
	}
}

// Run owns the client set until ctx is cancelled. All connected clients are
// closed on shutdown.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			metrics.LiveClients.Set(0)
			return

		case c := <-h.register:
			h.clients[c] = true
			metrics.LiveClients.Set(float64(len(h.clients)))
			h.logger.Debug("live feed client connected", "clients", len(h.clients))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				metrics.LiveClients.Set(float64(len(h.clients)))
				h.logger.Debug("live feed client disconnected", "clients", len(h.clients))
			}

		case message := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- message:
				default:
					// Slow consumer: drop it
					close(c.send)
					delete(h.clients, c)
					metrics.LiveClients.Set(float64(len(h.clients)))
				}
			}
		}
	}
}

// BroadcastAction publishes an accepted log entry to all clients.
func (h *Hub) BroadcastAction(entry domain.ActionEntry) {
	h.broadcastEvent("action_logged", entry)
}

// BroadcastBadge publishes a newly earned badge to all clients.
func (h *Hub) BroadcastBadge(rule domain.BadgeRule, earnedAt time.Time) {
	h.broadcastEvent("badge_earned", map[string]interface{}{
		"rule":      rule,
		"earned_at": earnedAt,
	})
}

func (h *Hub) broadcastEvent(eventType string, data interface{}) {
	payload, err := json.Marshal(map[string]interface{}{
		"type": eventType,
		"data": data,
	})
	if err != nil {
		h.logger.Error("marshal live event", "type", eventType, "error", err)
		return
	}
	h.broadcast <- payload
}

// HandleActivityWS upgrades the connection and attaches it to the hub.
func (h *Hub) HandleActivityWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
	h.register <- c

	go c.writePump()
	go c.readPump()
}

// readPump drains the connection; the feed is one-way, so inbound frames are
// only read to detect disconnects and answer pings.
func (c *client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
