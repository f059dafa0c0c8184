package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"exhibae/pkg/logger"
)

const channelPrefix = "exhibae:changes:"

// Hub is the pub/sub change feed. Writers publish ChangeEvents on
// logical scopes; readers acquire a Stream per scope and must Close it
// when done so the underlying Redis subscription is released.
type Hub struct {
	client *redis.Client
	log    *logger.Logger

	mu      sync.Mutex
	streams map[string]int // open stream count per scope, for observability
}

func NewHub(client *redis.Client) *Hub {
	return &Hub{
		client:  client,
		log:     logger.GetDefault(),
		streams: make(map[string]int),
	}
}

// Publish sends a change event on a scope channel. Publishing is
// fire-and-forget from the writer's point of view: a failure is logged
// and never propagated into the transaction that produced the change.
func (h *Hub) Publish(ctx context.Context, scope string, event *ChangeEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.log.Error("failed to marshal change event", "scope", scope, "error", err)
		return
	}

	if err := h.client.Publish(ctx, channelPrefix+scope, payload).Err(); err != nil {
		h.log.Error("failed to publish change event",
			"scope", scope,
			"table", event.Table,
			"row_id", event.RowID,
			"error", err,
		)
	}
}

// Stream is one live subscription to a scope
type Stream struct {
	scope  string
	pubsub *redis.PubSub
	events chan *ChangeEvent
	hub    *Hub
	once   sync.Once
}

// Subscribe opens a stream on the given scope. The returned stream's
// Events channel is closed when the context is cancelled or Close is
// called.
func (h *Hub) Subscribe(ctx context.Context, scope string) (*Stream, error) {
	pubsub := h.client.Subscribe(ctx, channelPrefix+scope)

	// Confirm the subscription before handing the stream out
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to scope %s: %w", scope, err)
	}

	stream := &Stream{
		scope:  scope,
		pubsub: pubsub,
		events: make(chan *ChangeEvent, 64),
		hub:    h,
	}

	h.mu.Lock()
	h.streams[scope]++
	h.mu.Unlock()

	go stream.pump(ctx)

	return stream, nil
}

// Events returns the channel of incoming change events
func (s *Stream) Events() <-chan *ChangeEvent {
	return s.events
}

// Close releases the subscription. Safe to call more than once.
func (s *Stream) Close() error {
	var err error
	s.once.Do(func() {
		err = s.pubsub.Close()

		s.hub.mu.Lock()
		s.hub.streams[s.scope]--
		if s.hub.streams[s.scope] <= 0 {
			delete(s.hub.streams, s.scope)
		}
		s.hub.mu.Unlock()
	})
	return err
}

func (s *Stream) pump(ctx context.Context) {
	defer close(s.events)
	defer s.Close()

	ch := s.pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				s.hub.log.Warn("dropping malformed change event", "scope", s.scope, "error", err)
				continue
			}
			select {
			case s.events <- &event:
			default:
				// Slow consumer: drop rather than block the pump
				s.hub.log.Warn("dropping change event for slow consumer", "scope", s.scope, "row_id", event.RowID)
			}
		}
	}
}

// OpenStreams reports the number of scopes with at least one live stream
func (h *Hub) OpenStreams() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.streams)
}
