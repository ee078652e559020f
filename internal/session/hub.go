package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ziadkadry99/solution-finder/internal/wizard"
)

const hubChannel = "solfinder:views"

// Message is what websocket subscribers receive.
type Message struct {
	Type      string       `json:"type"`
	SessionID string       `json:"session_id"`
	View      *wizard.View `json:"view,omitempty"`
}

// Hub fans session views out to websocket subscribers. With a Redis client
// views are also relayed between server instances.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}

	rdb      *redis.Client
	instance string
	logger   *zap.Logger
}

// NewHub creates a hub. rdb may be nil for a single instance.
func NewHub(rdb *redis.Client, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		subs:     make(map[string]map[chan []byte]struct{}),
		rdb:      rdb,
		instance: uuid.NewString(),
		logger:   logger,
	}
}

// Subscribe returns a channel of encoded Messages for session id. cancel
// must be called to release it.
func (h *Hub) Subscribe(id string) (<-chan []byte, func()) {
	ch := make(chan []byte, 16)
	h.mu.Lock()
	if h.subs[id] == nil {
		h.subs[id] = make(map[chan []byte]struct{})
	}
	h.subs[id][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[id], ch)
			if len(h.subs[id]) == 0 {
				delete(h.subs, id)
			}
			h.mu.Unlock()
		})
	}
}

// Publish sends v to every subscriber of session id.
func (h *Hub) Publish(ctx context.Context, id string, v wizard.View) {
	data, err := json.Marshal(Message{Type: "view", SessionID: id, View: &v})
	if err != nil {
		h.logger.Error("encoding view", zap.String("session_id", id), zap.Error(err))
		return
	}
	h.deliver(id, data)

	if h.rdb != nil {
		payload, _ := json.Marshal(relay{Origin: h.instance, SessionID: id, Message: data})
		if err := h.rdb.Publish(ctx, hubChannel, payload).Err(); err != nil {
			h.logger.Warn("relaying view", zap.String("session_id", id), zap.Error(err))
		}
	}
}

// Closed tells subscribers of id that the session is gone.
func (h *Hub) Closed(id string) {
	data, _ := json.Marshal(Message{Type: "closed", SessionID: id})
	h.deliver(id, data)
}

func (h *Hub) deliver(id string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs[id] {
		select {
		case ch <- data:
		default:
			h.logger.Warn("subscriber buffer full, dropping view", zap.String("session_id", id))
		}
	}
}

type relay struct {
	Origin    string          `json:"origin"`
	SessionID string          `json:"session_id"`
	Message   json.RawMessage `json:"message"`
}

// Run relays views published by other instances until ctx is done. Without
// Redis it just waits.
func (h *Hub) Run(ctx context.Context) error {
	if h.rdb == nil {
		<-ctx.Done()
		return nil
	}
	pubsub := h.rdb.Subscribe(ctx, hubChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var r relay
			if err := json.Unmarshal([]byte(msg.Payload), &r); err != nil {
				h.logger.Warn("decoding relayed view", zap.Error(err))
				continue
			}
			if r.Origin == h.instance {
				continue
			}
			h.deliver(r.SessionID, r.Message)
		}
	}
}
