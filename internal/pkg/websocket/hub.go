package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/courseplanner/internal/app/models"
)

// MessageTypeCatalogEvent marks a pushed catalog change
const MessageTypeCatalogEvent = "catalog_event"

// Hub maintains the set of watchers per course and pushes catalog events to them
type Hub struct {
	// Registered clients organized by course key ("CMPT 276")
	clients map[string]map[*Client]bool

	// Events to push
	broadcast chan models.CatalogEvent

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Guards clients for ClientCount; Run is the only writer
	mu sync.RWMutex

	logger zerolog.Logger
}

// Message represents a message sent over WebSocket
type Message struct {
	// Type of message: "catalog_event"
	Type string `json:"type"`

	// Course the event belongs to
	Course string `json:"course"`

	Event models.CatalogEvent `json:"event"`

	// Timestamp when the message was sent
	Timestamp time.Time `json:"timestamp"`
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan models.CatalogEvent, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string]map[*Client]bool),
		logger:     logger.With().Str("component", "ws_hub").Logger(),
	}
}

// Run handles registrations and broadcasts until ctx is done
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case event := <-h.broadcast:
			h.broadcastEvent(event)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.course]; !ok {
		h.clients[client.course] = make(map[*Client]bool)
	}
	h.clients[client.course][client] = true

	h.logger.Info().
		Str("course", client.course).
		Str("addr", client.conn.RemoteAddr().String()).
		Msg("Watcher registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

// removeLocked drops a client and closes its send channel; h.mu must be held
func (h *Hub) removeLocked(client *Client) {
	clients, ok := h.clients[client.course]
	if !ok || !clients[client] {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.clients, client.course)
	}

	h.logger.Info().
		Str("course", client.course).
		Str("addr", client.conn.RemoteAddr().String()).
		Msg("Watcher unregistered")
}

func (h *Hub) broadcastEvent(event models.CatalogEvent) {
	course := event.CourseKey()

	data, err := json.Marshal(Message{
		Type:      MessageTypeCatalogEvent,
		Course:    course,
		Event:     event,
		Timestamp: time.Now(),
	})
	if err != nil {
		h.logger.Error().Err(err).Str("course", course).Msg("Failed to marshal catalog event")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.clients[course]
	for client := range clients {
		select {
		case client.send <- data:
		default:
			// slow watcher; drop it rather than stall everyone else
			h.removeLocked(client)
		}
	}

	h.logger.Debug().Str("course", course).Int("clientCount", len(clients)).Msg("Catalog event pushed")
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, clients := range h.clients {
		for client := range clients {
			h.removeLocked(client)
		}
	}
}

// Publish queues an event for the course's watchers
func (h *Hub) Publish(ctx context.Context, event models.CatalogEvent) error {
	select {
	case h.broadcast <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Deliver queues an event received from another process
func (h *Hub) Deliver(event models.CatalogEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := h.Publish(ctx, event); err != nil {
		h.logger.Warn().Err(err).Str("event", event.ID).Msg("Dropped forwarded catalog event")
	}
}

// ClientCount returns the number of watchers of a course
func (h *Hub) ClientCount(subject, catalogNumber string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[models.CourseKey(subject, catalogNumber)])
}
