package feed

import (
	"context"
	"encoding/json"
	"expvar"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/pawtrails/pawtrails-api/internal/domain/booking"
)

const feedChannel = "feed:bookings"

var (
	feedConnectionsGauge = expvar.NewInt("feed_connections")
	feedEventsSentTotal  = expvar.NewInt("feed_events_sent_total")
	feedEventsDropped    = expvar.NewInt("feed_events_dropped_total")
)

// Connection represents one admin dashboard WebSocket
type Connection struct {
	Conn *websocket.Conn
	Send chan []byte
}

// Hub fans booking events out to connected admin dashboards. With Redis
// configured, events go through Pub/Sub so every server instance delivers
// to its own connections; without it, delivery is local only.
type Hub struct {
	connections map[*Connection]bool
	redis       *redis.Client
	pubsub      *redis.PubSub
	mu          sync.RWMutex

	register   chan *Connection
	unregister chan *Connection

	ctx    context.Context
	cancel context.CancelFunc
}

// NewHub creates a feed hub. A nil Redis client keeps fanout local.
func NewHub(redisClient *redis.Client) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	h := &Hub{
		connections: make(map[*Connection]bool),
		redis:       redisClient,
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		ctx:         ctx,
		cancel:      cancel,
	}

	if redisClient != nil {
		h.pubsub = redisClient.Subscribe(ctx, feedChannel)
	}

	return h
}

// Run starts the hub (call in goroutine)
func (h *Hub) Run() {
	if h.pubsub != nil {
		go h.runRedisSubscriber()
	}

	for {
		select {
		case <-h.ctx.Done():
			return

		case conn := <-h.register:
			h.mu.Lock()
			h.connections[conn] = true
			h.mu.Unlock()
			feedConnectionsGauge.Add(1)
			log.Debug().Msg("Admin connected to booking feed")

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.connections[conn]; ok {
				delete(h.connections, conn)
				close(conn.Send)
				feedConnectionsGauge.Add(-1)
			}
			h.mu.Unlock()
			log.Debug().Msg("Admin disconnected from booking feed")
		}
	}
}

func (h *Hub) runRedisSubscriber() {
	ch := h.pubsub.Channel()

	for {
		select {
		case <-h.ctx.Done():
			return

		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.broadcastLocal([]byte(msg.Payload))
		}
	}
}

func (h *Hub) broadcastLocal(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for conn := range h.connections {
		select {
		case conn.Send <- data:
			feedEventsSentTotal.Add(1)
		default:
			// Buffer full, skip this message
			feedEventsDropped.Add(1)
			log.Warn().Msg("Feed send buffer full")
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// Publish sends an event to all dashboards across all server instances
func (h *Hub) Publish(event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal feed event")
		return
	}

	if h.redis != nil {
		if err := h.redis.Publish(h.ctx, feedChannel, data).Err(); err != nil {
			log.Error().Err(err).Str("channel", feedChannel).Msg("Redis publish failed")
			h.broadcastLocal(data)
		}
		return
	}
	h.broadcastLocal(data)
}

// PublishBookingCreated emits a booking_created feed event
func (h *Hub) PublishBookingCreated(b *booking.Booking) {
	h.Publish(newEvent(EventBookingCreated, b))
}

// PublishBookingCancelled emits a booking_cancelled feed event
func (h *Hub) PublishBookingCancelled(b *booking.Booking) {
	h.Publish(newEvent(EventBookingCancelled, b))
}

// ConnectionCount returns number of local connections
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// Shutdown gracefully shuts down the hub
func (h *Hub) Shutdown() {
	h.cancel()
	if h.pubsub != nil {
		h.pubsub.Close()
	}
}
