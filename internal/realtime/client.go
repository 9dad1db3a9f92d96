package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/arabshield/portal/internal/modules/model"
	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxFrameBytes = 4 << 10
	sendBuffer    = 64
)

// ClientFrame is what a connected client sends to manage its subscriptions.
type ClientFrame struct {
	Action   string `json:"action"` // "subscribe" or "unsubscribe"
	Entity   string `json:"entity"`
	ScopeKey string `json:"scope_key"`
}

// ServerFrame is what the hub pushes down the socket.
type ServerFrame struct {
	Type     string `json:"type"` // "snapshot" or "error"
	Entity   string `json:"entity"`
	ScopeKey string `json:"scope_key,omitempty"`
	Loading  bool   `json:"loading"`
	Items    any    `json:"items,omitempty"`
	Message  string `json:"message,omitempty"`
}

// Client is one authenticated WebSocket connection. subscriptions maps
// entity name to the single scope key the client currently observes.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	principal *model.User
	log       *zap.Logger

	mu            sync.RWMutex
	subscriptions map[string]string
	closed        bool

	send chan []byte
}

// Serve attaches a freshly upgraded connection to the hub and blocks until
// the connection closes. principal must already be authenticated.
func (h *Hub) Serve(ctx context.Context, conn *websocket.Conn, principal *model.User) {
	c := &Client{
		hub:           h,
		conn:          conn,
		principal:     principal,
		log:           h.log,
		subscriptions: make(map[string]string),
		send:          make(chan []byte, sendBuffer),
	}
	h.register(c)

	go c.writePump()
	c.readPump(ctx)
}

func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.hub.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxFrameBytes)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug("websocket closed unexpectedly", zap.Error(err))
			}
			return
		}

		var frame ClientFrame
		if err := sonic.Unmarshal(raw, &frame); err != nil {
			c.sendError("", "malformed frame")
			continue
		}

		switch frame.Action {
		case "subscribe":
			if err := c.hub.subscribe(ctx, c, frame.Entity, frame.ScopeKey); err != nil {
				c.sendError(frame.Entity, err.Error())
			}
		case "unsubscribe":
			c.hub.unsubscribe(c, frame.Entity)
		default:
			c.sendError(frame.Entity, "unknown action")
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) setSubscription(entity, scopeKey string) {
	c.mu.Lock()
	c.subscriptions[entity] = scopeKey
	c.mu.Unlock()
}

func (c *Client) clearSubscription(entity string) {
	c.mu.Lock()
	delete(c.subscriptions, entity)
	c.mu.Unlock()
}

func (c *Client) subscribedTo(entity, scopeKey string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	scope, ok := c.subscriptions[entity]
	return ok && scope == scopeKey
}

func (c *Client) sendSnapshot(entity, scopeKey string, items any) {
	c.push(ServerFrame{
		Type:     "snapshot",
		Entity:   entity,
		ScopeKey: scopeKey,
		Loading:  false,
		Items:    items,
	})
}

func (c *Client) sendError(entity, message string) {
	c.push(ServerFrame{
		Type:    "error",
		Entity:  entity,
		Message: message,
	})
}

func (c *Client) push(frame ServerFrame) {
	payload, err := sonic.Marshal(frame)
	if err != nil {
		c.log.Error("marshal server frame", zap.Error(err))
		return
	}
	// The read lock excludes closeSend, so the channel cannot close while a
	// send is in flight. A client that disconnected mid-delivery just drops
	// the frame.
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return
	}
	select {
	case c.send <- payload:
	default:
		// Send buffer full: the client is not draining. Drop the frame;
		// the next change event produces a fresh snapshot anyway.
		c.log.Warn("client send buffer full, frame dropped",
			zap.String("entity", frame.Entity))
	}
}

// closeSend shuts the send channel down exactly once. Callers must not hold
// c.mu.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}
