package realtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestRoomNaming(t *testing.T) {
	require.Equal(t, "user_u1", UserRoom("u1"))
	require.Equal(t, "batch_b1", BatchRoom(" b1 "))
	require.Equal(t, "role_admin", RoleRoom("Admin"))
}

func newTestClient(h *Hub, userID string) *Client {
	return &Client{
		send:    make(chan Envelope, clientSendBufferSize),
		hub:     h,
		options: ConnectionOptions{UserID: userID},
		joined:  make(map[string]struct{}),
		closed:  make(chan struct{}),
		baseCtx: context.Background(),
	}
}

func TestHubRoomMembership(t *testing.T) {
	hub := NewHub(nil, "lms", 0, nil, zerolog.Nop())
	client := newTestClient(hub, "u1")

	hub.register(client)
	hub.join(client, UserRoom("u1"))
	hub.join(client, BatchRoom("b1"))
	require.Equal(t, 1, hub.RoomSize("user_u1"))
	require.Equal(t, 1, hub.RoomSize("batch_b1"))

	hub.leave(client, BatchRoom("b1"))
	require.Zero(t, hub.RoomSize("batch_b1"))

	hub.unregister(client)
	require.Zero(t, hub.RoomSize("user_u1"), "disconnect drops all memberships")
}

func TestHubEmitToRoomReachesOnlyMembers(t *testing.T) {
	hub := NewHub(nil, "", 0, nil, zerolog.Nop())
	member := newTestClient(hub, "u1")
	outsider := newTestClient(hub, "u2")

	hub.register(member)
	hub.register(outsider)
	hub.join(member, BatchRoom("b1"))

	hub.EmitToRoom(BatchRoom("b1"), EventReceiveNotification, map[string]string{"title": "hi"})

	select {
	case envelope := <-member.send:
		require.Equal(t, EventReceiveNotification, envelope.Event)
	default:
		t.Fatal("expected member to receive the event")
	}

	select {
	case <-outsider.send:
		t.Fatal("outsider must not receive room events")
	default:
	}
}

func TestHubEmitGlobalReachesEveryConnection(t *testing.T) {
	hub := NewHub(nil, "", 0, nil, zerolog.Nop())
	first := newTestClient(hub, "u1")
	second := newTestClient(hub, "u2")

	hub.register(first)
	hub.register(second)

	hub.EmitGlobal(EventReceiveNotification, map[string]string{"title": "hi"})

	for _, client := range []*Client{first, second} {
		select {
		case envelope := <-client.send:
			require.Equal(t, EventReceiveNotification, envelope.Event)
		default:
			t.Fatal("expected every client to receive the global event")
		}
	}
}

func TestHubSlowClientDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub(nil, "", 0, nil, zerolog.Nop())
	client := newTestClient(hub, "u1")
	client.send = make(chan Envelope, 1)

	hub.register(client)
	hub.join(client, UserRoom("u1"))

	hub.EmitToRoom(UserRoom("u1"), EventReceiveNotification, "first")
	done := make(chan struct{})
	go func() {
		hub.EmitToRoom(UserRoom("u1"), EventReceiveNotification, "second")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("emit must not block on a full client buffer")
	}
}

func TestHubRelayRoundTripOverRedis(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer redisClient.Close()

	sender := NewHub(redisClient, "lms", 0, nil, zerolog.Nop())
	receiver := NewHub(redisClient, "lms", 0, nil, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	receiver.Start(ctx)
	time.Sleep(50 * time.Millisecond)

	client := newTestClient(receiver, "u1")
	receiver.register(client)
	receiver.join(client, BatchRoom("b1"))

	sender.EmitToRoom(BatchRoom("b1"), EventReceiveNotification, map[string]string{"title": "relayed"})

	select {
	case envelope := <-client.send:
		require.Equal(t, EventReceiveNotification, envelope.Event)
		var payload map[string]string
		require.NoError(t, json.Unmarshal(envelope.Payload, &payload))
		require.Equal(t, "relayed", payload["title"])
	case <-time.After(2 * time.Second):
		t.Fatal("expected the relayed event to reach the peer hub's client")
	}
}

func TestHubRelaySkipsOwnEvents(t *testing.T) {
	hub := NewHub(nil, "lms", 0, nil, zerolog.Nop())
	client := newTestClient(hub, "u1")
	hub.register(client)

	frame, err := json.Marshal(relayEvent{
		Source:  hub.nodeID,
		Event:   EventReceiveNotification,
		Payload: json.RawMessage(`{}`),
		SentAt:  time.Now(),
	})
	require.NoError(t, err)

	hub.handleRelay(frame)

	select {
	case <-client.send:
		t.Fatal("events relayed from this node must not be re-delivered")
	default:
	}
}

func TestHubPresenceKeyRefresh(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer redisClient.Close()

	hub := NewHub(redisClient, "lms", 90*time.Second, nil, zerolog.Nop())
	hub.touchPresence(context.Background(), "u1")

	require.True(t, server.Exists("lms:presence:u1"))
	ttl := server.TTL("lms:presence:u1")
	require.InDelta(t, (90 * time.Second).Seconds(), ttl.Seconds(), 1)
}
