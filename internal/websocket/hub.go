// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package websocket

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tomtom215/tablescout/internal/events"
	"github.com/tomtom215/tablescout/internal/logging"
)

// Message types sent to live-feed clients. Lifecycle events use their bus
// topic as the type.
const (
	MessageTypePing = "ping"
	MessageTypePong = "pong"
)

// Message is one live-feed frame.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub fans lifecycle events out to connected live-feed clients. Slow
// clients whose buffer is full are dropped.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
	logger     zerolog.Logger
}

// NewHub creates a Hub. Serve must run for clients to be registered.
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan Message, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		logger:     logging.WithComponent("live-feed"),
	}
}

// Serve runs the hub until ctx is cancelled, then closes every client.
// Lifecycle changes are handled before broadcasts so a message never goes
// to a client that has already left.
func (h *Hub) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			n := h.ClientCount()
			h.closeAllClients()
			h.logger.Info().Int("clients_closed", n).Msg("Live feed stopped")
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.Register:
			h.add(client)
			continue
		case client := <-h.Unregister:
			h.remove(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			continue
		case client := <-h.Register:
			h.add(client)
		case client := <-h.Unregister:
			h.remove(client)
		case message := <-h.broadcast:
			h.broadcastToClients(message)
		}
	}
}

// String names the service for the supervisor.
func (h *Hub) String() string { return "live-feed-hub" }

// HandleEvent forwards a lifecycle event to every client. It never blocks;
// when the broadcast queue is full the event is dropped.
func (h *Hub) HandleEvent(_ context.Context, e events.Event) error {
	h.Broadcast(Message{Type: e.Topic, Data: e})
	return nil
}

// Subscribe registers the hub on every lifecycle topic of b.
func (h *Hub) Subscribe(b *events.Bus) {
	for _, topic := range events.Topics {
		b.Subscribe("live."+topic, topic, h.HandleEvent)
	}
}

// Broadcast queues message for all clients.
func (h *Hub) Broadcast(message Message) {
	select {
	case h.broadcast <- message:
	default:
		h.logger.Warn().Str("type", message.Type).Msg("Live feed queue full, message dropped")
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) add(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Debug().Int("total_clients", n).Msg("Live feed client connected")
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Debug().Int("total_clients", n).Msg("Live feed client disconnected")
}

// sortedClients returns clients in ID order. Callers hold mu.
func (h *Hub) sortedClients() []*Client {
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	return clients
}

func (h *Hub) broadcastToClients(message Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.sortedClients() {
		select {
		case client.send <- message:
		default:
			close(client.send)
			delete(h.clients, client)
		}
	}
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, client := range h.sortedClients() {
		close(client.send)
		delete(h.clients, client)
	}
}
