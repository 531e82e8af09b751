package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/skillforge/lms-api/internal/observability"
)

// Server-to-client event names.
const (
	EventReceiveNotification = "receive_notification"
	EventNewActivity         = "dashboard:new_activity"
)

// Client-to-server event names.
const (
	eventJoinSession = "join_session"
	eventJoinBatch   = "join_batch"
	eventLeaveBatch  = "leave_batch"
	eventHeartbeat   = "heartbeat"
)

const clientSendBufferSize = 32

// Envelope is the wire frame pushed to websocket clients.
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// Hub owns the set of live websocket connections and their room memberships.
// It is constructed once at startup and injected into every component that
// broadcasts; emits are best-effort with no delivery acknowledgement.
type Hub struct {
	mu      sync.RWMutex
	rooms   map[string]map[*Client]struct{}
	clients map[*Client]struct{}

	redis          *redis.Client
	relayChannel   string
	presencePrefix string
	presenceTTL    time.Duration
	nats           *nats.Conn
	natsSubject    string

	logger zerolog.Logger
	nodeID string
}

// NewHub constructs the room registry. redisClient and natsConn may be nil;
// the hub then runs single-node with no relay or presence bookkeeping.
func NewHub(redisClient *redis.Client, channelBase string, presenceTTL time.Duration, natsConn *nats.Conn, logger zerolog.Logger) *Hub {
	relayChannel := ""
	presencePrefix := ""
	natsSubject := ""
	if channelBase != "" {
		relayChannel = channelBase + ":realtime"
		presencePrefix = channelBase + ":presence"
		natsSubject = strings.ReplaceAll(channelBase, ":", ".") + ".realtime"
	}

	if presenceTTL <= 0 {
		presenceTTL = 90 * time.Second
	}

	return &Hub{
		rooms:          make(map[string]map[*Client]struct{}),
		clients:        make(map[*Client]struct{}),
		redis:          redisClient,
		relayChannel:   relayChannel,
		presencePrefix: presencePrefix,
		presenceTTL:    presenceTTL,
		nats:           natsConn,
		natsSubject:    natsSubject,
		logger:         logger.With().Str("component", "realtime_hub").Logger(),
		nodeID:         uuid.NewString(),
	}
}

// Start launches the cross-node relay consumers. It returns immediately.
func (h *Hub) Start(ctx context.Context) {
	if h.redis != nil && h.relayChannel != "" {
		go h.consumeRedis(ctx)
	}
	if h.nats != nil && h.natsSubject != "" {
		go h.consumeNATS(ctx)
	}
}

// EmitToRoom pushes an event to every client joined to the named room, then
// relays it to peer nodes.
func (h *Hub) EmitToRoom(room, event string, payload interface{}) {
	raw, err := json.Marshal(payload)
	if err != nil {
		h.logger.Warn().Err(err).Str("event", event).Msg("failed to marshal realtime payload")
		return
	}

	h.broadcastRoom(room, Envelope{Event: event, Payload: raw})
	h.publishRelay(room, event, raw)
}

// EmitGlobal pushes an event to every connected client regardless of rooms.
func (h *Hub) EmitGlobal(event string, payload interface{}) {
	raw, err := json.Marshal(payload)
	if err != nil {
		h.logger.Warn().Err(err).Str("event", event).Msg("failed to marshal realtime payload")
		return
	}

	h.broadcastAll(Envelope{Event: event, Payload: raw})
	h.publishRelay("", event, raw)
}

// RoomSize reports how many clients are currently joined to a room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

func (h *Hub) broadcastRoom(room string, envelope Envelope) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[room] {
		client.deliver(envelope)
	}
}

func (h *Hub) broadcastAll(envelope Envelope) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		client.deliver(envelope)
	}
}

func (h *Hub) register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = struct{}{}
	observability.WebsocketConnections().Inc()
}

func (h *Hub) join(client *Client, room string) {
	if room == "" {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.rooms[room]; !exists {
		h.rooms[room] = make(map[*Client]struct{})
		observability.RealtimeRooms().Inc()
	}
	h.rooms[room][client] = struct{}{}
	client.joined[room] = struct{}{}
	h.logger.Debug().Str("room", room).Str("user_id", client.options.UserID).Msg("client joined room")
}

func (h *Hub) leave(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(client, room)
}

func (h *Hub) leaveLocked(client *Client, room string) {
	clients, ok := h.rooms[room]
	if !ok {
		return
	}
	delete(clients, client)
	delete(client.joined, room)
	if len(clients) == 0 {
		delete(h.rooms, room)
		observability.RealtimeRooms().Dec()
	}
}

func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for room := range client.joined {
		h.leaveLocked(client, room)
	}
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		observability.WebsocketConnections().Dec()
	}
	h.logger.Debug().Str("user_id", client.options.UserID).Msg("client disconnected")
}

// touchPresence refreshes the liveness key for a user. Presence is
// bookkeeping only and plays no part in message delivery.
func (h *Hub) touchPresence(ctx context.Context, userID string) {
	if h.redis == nil || h.presencePrefix == "" || userID == "" {
		return
	}

	key := fmt.Sprintf("%s:%s", h.presencePrefix, userID)
	if err := h.redis.Set(ctx, key, time.Now().UTC().Format(time.RFC3339), h.presenceTTL).Err(); err != nil {
		h.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to refresh presence key")
	}
}
