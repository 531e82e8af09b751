package realtime

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
)

// ConnectionOptions wraps identity metadata extracted during the HTTP upgrade.
type ConnectionOptions struct {
	UserID        string
	Role          string
	CorrelationID string
	Context       context.Context
}

// Client is a single live websocket connection. Room membership is built up
// from join_session and join_batch events and dropped wholesale on disconnect.
type Client struct {
	conn    *websocket.Conn
	send    chan Envelope
	hub     *Hub
	options ConnectionOptions
	joined  map[string]struct{}
	closed  chan struct{}
	once    sync.Once
	baseCtx context.Context
}

type inboundMessage struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

type batchPayload struct {
	BatchID string `json:"batch_id"`
}

// ServeConnection runs the read loop for a websocket connection. It blocks
// until the connection drops.
func (h *Hub) ServeConnection(conn *websocket.Conn, opts ConnectionOptions) {
	baseCtx := opts.Context
	if baseCtx == nil {
		baseCtx = context.Background()
	}

	client := &Client{
		conn:    conn,
		send:    make(chan Envelope, clientSendBufferSize),
		hub:     h,
		options: opts,
		joined:  make(map[string]struct{}),
		closed:  make(chan struct{}),
		baseCtx: baseCtx,
	}

	h.register(client)

	go client.writer()
	client.reader()
}

func (c *Client) deliver(envelope Envelope) {
	select {
	case c.send <- envelope:
	default:
		c.hub.logger.Warn().Str("event", envelope.Event).Str("user_id", c.options.UserID).Msg("dropping event for slow client")
		c.hub.dropped(envelope.Event)
	}
}

func (c *Client) reader() {
	defer c.close()

	for {
		var msg inboundMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			c.hub.logger.Debug().Err(err).Msg("realtime read loop ended")
			return
		}

		switch msg.Event {
		case eventJoinSession:
			c.joinSession()
		case eventJoinBatch:
			if id := c.batchID(msg.Payload); id != "" {
				c.hub.join(c, BatchRoom(id))
			}
		case eventLeaveBatch:
			if id := c.batchID(msg.Payload); id != "" {
				c.hub.leave(c, BatchRoom(id))
			}
		case eventHeartbeat:
			c.hub.touchPresence(c.baseCtx, c.options.UserID)
		default:
			c.hub.logger.Debug().Str("event", msg.Event).Msg("ignoring unknown realtime event")
		}
	}
}

// joinSession places the connection into its identity-derived rooms. The
// identity comes from the authenticated upgrade, never from the payload.
func (c *Client) joinSession() {
	if c.options.UserID != "" {
		c.hub.join(c, UserRoom(c.options.UserID))
	}
	if c.options.Role != "" {
		c.hub.join(c, RoleRoom(c.options.Role))
	}
	c.hub.touchPresence(c.baseCtx, c.options.UserID)
}

func (c *Client) batchID(payload json.RawMessage) string {
	var body batchPayload
	if err := json.Unmarshal(payload, &body); err != nil {
		c.hub.logger.Debug().Err(err).Msg("invalid batch payload")
		return ""
	}
	return strings.TrimSpace(body.BatchID)
}

func (c *Client) writer() {
	defer c.close()

	for {
		select {
		case envelope, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.WriteJSON(envelope); err != nil {
				c.hub.logger.Debug().Err(err).Msg("realtime write loop terminated")
				return
			}
		case <-time.After(30 * time.Second):
			if err := c.conn.WriteMessage(websocket.PingMessage, []byte("keepalive")); err != nil {
				c.hub.logger.Debug().Err(err).Msg("realtime ping failed")
				return
			}
		case <-c.closed:
			return
		}
	}
}

func (c *Client) close() {
	c.once.Do(func() {
		close(c.closed)
		c.hub.unregister(c)
		_ = c.conn.Close()
	})
}
