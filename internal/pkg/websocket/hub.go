// Package websocket pushes meeting notifications to connected users.
package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/mentorhub/internal/pkg/email"
	"github.com/yigit/mentorhub/internal/pkg/notify"
)

// Hub maintains the set of active clients and routes events to them by user
type Hub struct {
	// Registered clients organized by user ID
	clients map[int64]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	deliver    chan delivery
	done       chan struct{}
	stopOnce   sync.Once

	mu     sync.RWMutex
	logger zerolog.Logger
}

// Event is the JSON document pushed to a client
type Event struct {
	Type          string             `json:"type"`
	Event         email.MeetingEvent `json:"event"`
	OrganizerName string             `json:"organizerName"`
	Date          string             `json:"date"`
	Time          string             `json:"time"`
	Description   string             `json:"description,omitempty"`
	HODIncluded   bool               `json:"hodIncluded,omitempty"`
	Timestamp     time.Time          `json:"timestamp"`
}

type delivery struct {
	userID int64
	data   []byte
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		deliver:    make(chan delivery, 256),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run handles registrations and deliveries until Stop is called
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)
		case client := <-h.unregister:
			h.unregisterClient(client)
		case d := <-h.deliver:
			h.deliverTo(d)
		case <-h.done:
			h.closeAll()
			return
		}
	}
}

// Stop ends Run and closes every client
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.userID]; !ok {
		h.clients[client.userID] = make(map[*Client]bool)
	}
	h.clients[client.userID][client] = true

	h.logger.Debug().Int64("userID", client.userID).Msg("Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

func (h *Hub) removeLocked(client *Client) {
	set, ok := h.clients[client.userID]
	if !ok || !set[client] {
		return
	}
	delete(set, client)
	close(client.send)
	if len(set) == 0 {
		delete(h.clients, client.userID)
	}
	h.logger.Debug().Int64("userID", client.userID).Msg("Client unregistered")
}

func (h *Hub) deliverTo(d delivery) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients[d.userID] {
		select {
		case client.send <- d.data:
		default:
			// Slow consumer
			h.removeLocked(client)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, set := range h.clients {
		for client := range set {
			h.removeLocked(client)
		}
	}
}

// Notify pushes the meeting event to every participant with an open
// connection. It never blocks; events are dropped when the hub is saturated.
func (h *Hub) Notify(participants []notify.Participant, info notify.MeetingInfo) {
	data, err := json.Marshal(Event{
		Type:          "meeting",
		Event:         info.Event,
		OrganizerName: info.OrganizerName,
		Date:          info.Date,
		Time:          info.Time,
		Description:   info.Description,
		HODIncluded:   info.HODIncluded,
		Timestamp:     time.Now(),
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to marshal meeting event")
		return
	}

	for _, p := range participants {
		if p.UserID == 0 || h.ClientsCount(p.UserID) == 0 {
			continue
		}
		select {
		case h.deliver <- delivery{userID: p.UserID, data: data}:
		case <-h.done:
			return
		default:
			h.logger.Warn().Int64("userID", p.UserID).Msg("Event queue full, dropping live notification")
		}
	}
}

// ClientsCount returns the number of open connections for a user
func (h *Hub) ClientsCount(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

var _ notify.Notifier = (*Hub)(nil)
