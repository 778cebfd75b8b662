package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"chatshare-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ClusterChannel carries frames between instances so a user connected to
// another node still receives them.
const ClusterChannel = "chatshare:notifications"

// Frame is the JSON message pushed to a browser.
type Frame struct {
	Type string                 `json:"type"`
	Data map[string]interface{} `json:"data"`
}

type clusterEnvelope struct {
	Origin       string          `json:"origin"`
	TargetUserID string          `json:"target_user_id"`
	Message      json.RawMessage `json:"message"`
}

type Hub struct {
	// UserID -> open connections, one per device.
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	// nil when running single-instance.
	rdb *redis.Client
	// instance id, so a node ignores its own cluster messages.
	origin string

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		origin:     uuid.NewString(),
		logger:     log,
	}
}

func (h *Hub) Run(ctx context.Context) {
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"user_id": client.UserID.String()})

		case client := <-h.unregister:
			h.remove(client)
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.clients[client.UserID]
	for i, c := range clients {
		if c == client {
			h.clients[client.UserID] = append(clients[:i], clients[i+1:]...)
			close(client.Send)
			break
		}
	}
	if len(h.clients[client.UserID]) == 0 {
		delete(h.clients, client.UserID)
		h.logger.Info("Hub", "Client unregistered", map[string]interface{}{"user_id": client.UserID.String()})
	}
}

// Connected reports how many local connections userID has.
func (h *Hub) Connected(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Send pushes a frame to every connection of userID, here and on other instances.
func (h *Hub) Send(ctx context.Context, userID uuid.UUID, frame Frame) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}

	h.deliverLocal(userID, data)

	if h.rdb == nil {
		return nil
	}
	envelope, err := json.Marshal(clusterEnvelope{
		Origin:       h.origin,
		TargetUserID: userID.String(),
		Message:      data,
	})
	if err != nil {
		return err
	}
	return h.rdb.Publish(ctx, ClusterChannel, envelope).Err()
}

func (h *Hub) deliverLocal(userID uuid.UUID, data []byte) {
	// Held across the sends so remove cannot close Send underneath us.
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients[userID] {
		select {
		case client.Send <- data:
		default:
			if !client.dropped.CompareAndSwap(false, true) {
				continue
			}
			// Slow consumer; its pumps exit once the hub closes Send.
			h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{"user_id": userID.String()})
			go func(c *Client) { h.unregister <- c }(client)
		}
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, ClusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var envelope clusterEnvelope
		if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
			h.logger.Warn("Hub", "Invalid cluster message", map[string]interface{}{"error": err.Error()})
			continue
		}
		if envelope.Origin == h.origin {
			continue
		}
		uid, err := uuid.Parse(envelope.TargetUserID)
		if err != nil {
			continue
		}
		h.deliverLocal(uid, envelope.Message)
	}
}
