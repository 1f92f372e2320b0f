package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	sendBuffer  = 256
	inboxBuffer = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message is one frame on the notification stream. Snapshot is only set on
// the frame sent right after connecting.
type Message struct {
	Kind     string          `json:"kind"`
	Event    t2048.Event     `json:"event,omitempty"`
	Snapshot *t2048.Snapshot `json:"snapshot,omitempty"`
}

// Client is one WebSocket connection.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// hubOp is either an encoded event to fan out or a client to add. Both
// travel on one channel so a join is ordered against the events around it.
type hubOp struct {
	data   []byte
	client *Client
}

// Hub fans engine events out to every connected client.
type Hub struct {
	clients    map[*Client]bool
	inbox      chan hubOp
	unregister chan *Client
	done       chan struct{}
	logger     *log.Logger
}

// NewHub creates a hub. Call Run to start delivering.
func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		inbox:      make(chan hubOp, inboxBuffer),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// SnapshotSource hands out the current game while holding off engine events,
// so nothing can happen between the snapshot and fn returning.
type SnapshotSource interface {
	WithSnapshot(fn func(t2048.Snapshot))
}

// Run is the hub's event loop. It returns when ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.unregisterClient(c)
			}
			close(h.done)
			return

		case client := <-h.unregister:
			h.unregisterClient(client)

		case op := <-h.inbox:
			if op.client != nil {
				h.clients[op.client] = true
				h.logger.Debug("websocket client registered", "clients", len(h.clients))
				continue
			}
			for client := range h.clients {
				select {
				case client.send <- op.data:
				default:
					// Client's send channel is full, drop it.
					h.unregisterClient(client)
				}
			}
		}
	}
}

// Broadcast queues ev for every client. It never blocks; when the queue is
// full the event is dropped.
func (h *Hub) Broadcast(ev t2048.Event) {
	data, err := encodeMessage(Message{Kind: ev.Kind(), Event: ev})
	if err != nil {
		h.logger.Error("cannot encode event", "kind", ev.Kind(), "error", err)
		return
	}
	select {
	case h.inbox <- hubOp{data: data}:
	default:
		h.logger.Warn("notification queue full, dropping event", "kind", ev.Kind())
	}
}

// join queues client for registration behind every event already broadcast.
// It reports false when the hub has stopped.
func (h *Hub) join(client *Client) bool {
	select {
	case h.inbox <- hubOp{client: client}:
		return true
	case <-h.done:
		return false
	}
}

func encodeMessage(m Message) ([]byte, error) {
	return json.Marshal(m)
}

func (h *Hub) unregisterClient(client *Client) {
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
		h.logger.Debug("websocket client unregistered", "clients", len(h.clients))
	}
}

// ServeWS upgrades the request and streams notifications, starting with a
// snapshot of the current game. The client joins while src holds events off,
// so the stream picks up exactly where the snapshot ends.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, src SnapshotSource) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
	joined := false
	src.WithSnapshot(func(snap t2048.Snapshot) {
		data, err := encodeMessage(Message{Kind: "snapshot", Snapshot: &snap})
		if err != nil {
			h.logger.Error("cannot encode snapshot", "error", err)
			return
		}
		client.send <- data
		joined = h.join(client)
	})
	if !joined {
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// readPump only watches for the peer going away.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("websocket error", "error", err)
			}
			return
		}
	}
}

// writePump sends one text frame per message.
func (c *Client) writePump() {
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
