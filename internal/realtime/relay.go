package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/skillforge/lms-api/internal/observability"
)

// relayEvent is the frame exchanged between nodes. Events originating from
// this node are skipped on receipt to avoid double delivery.
type relayEvent struct {
	Source  string          `json:"source"`
	Room    string          `json:"room,omitempty"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
	SentAt  time.Time       `json:"sent_at"`
}

func (h *Hub) publishRelay(room, event string, payload json.RawMessage) {
	if (h.redis == nil || h.relayChannel == "") && (h.nats == nil || h.natsSubject == "") {
		return
	}

	frame, err := json.Marshal(relayEvent{
		Source:  h.nodeID,
		Room:    room,
		Event:   event,
		Payload: payload,
		SentAt:  time.Now().UTC(),
	})
	if err != nil {
		h.logger.Warn().Err(err).Msg("failed to marshal relay event")
		return
	}

	if h.redis != nil && h.relayChannel != "" {
		if err := h.redis.Publish(context.Background(), h.relayChannel, frame).Err(); err != nil {
			h.logger.Warn().Err(err).Msg("failed to publish relay event to redis")
		}
	}

	if h.nats != nil && h.natsSubject != "" {
		if err := h.nats.Publish(h.natsSubject, frame); err != nil {
			h.logger.Warn().Err(err).Msg("failed to publish relay event to nats")
		}
	}
}

func (h *Hub) consumeRedis(ctx context.Context) {
	pubsub := h.redis.Subscribe(ctx, h.relayChannel)
	defer func() { _ = pubsub.Close() }()

	for {
		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			h.logger.Error().Err(err).Msg("realtime redis subscription closed")
			return
		}
		h.handleRelay([]byte(msg.Payload))
	}
}

func (h *Hub) consumeNATS(ctx context.Context) {
	sub, err := h.nats.QueueSubscribe(h.natsSubject, "lms-realtime", func(msg *nats.Msg) {
		h.handleRelay(msg.Data)
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to subscribe to nats realtime subject")
		return
	}

	go func() {
		<-ctx.Done()
		if err := sub.Drain(); err != nil {
			h.logger.Warn().Err(err).Msg("failed to drain realtime nats subscription")
		}
	}()
}

func (h *Hub) handleRelay(data []byte) {
	var event relayEvent
	if err := json.Unmarshal(data, &event); err != nil {
		h.logger.Warn().Err(err).Msg("invalid relay event payload")
		return
	}

	if event.Source == h.nodeID {
		return
	}

	envelope := Envelope{Event: event.Event, Payload: event.Payload}
	if event.Room == "" {
		h.broadcastAll(envelope)
		return
	}
	h.broadcastRoom(event.Room, envelope)
}

func (h *Hub) dropped(event string) {
	observability.RealtimeDropped().WithLabelValues(event).Inc()
}
