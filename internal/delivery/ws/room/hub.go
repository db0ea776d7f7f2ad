package ws_room

import (
	"log/slog"
	"sync"

	"github.com/RECTo0/PokerPlanning/internal/model"
)

const (
	EventRoomState      = "ROOM_STATE"
	EventRoster         = "ROSTER_UPDATE"
	EventWaiting        = "WAITING"
	EventSplitPending   = "SPLIT_PENDING"
	EventBoard          = "BOARD_SHOWN"
	EventCelebration    = "CELEBRATION"
	EventEffectsCleared = "EFFECTS_CLEARED"
	EventNotice         = "NOTICE"
	EventPlayerKicked   = "PLAYER_KICKED"
	EventError          = "ERROR"
)

type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

type roomEvent struct {
	roomID model.RoomID
	event  Event
}

// Hub tracks connected clients per room. Most traffic is per-client
// (each participant's session already observes the store), the room
// broadcast carries cross-client announcements such as kicks.
type Hub struct {
	logger     *slog.Logger
	clients    map[*Client]bool
	rooms      map[model.RoomID]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan roomEvent
	mu         sync.RWMutex
}

type HubOption func(*Hub)

func WithLogger(logger *slog.Logger) HubOption {
	return func(h *Hub) {
		h.logger = logger
	}
}

func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		logger:     slog.Default(),
		clients:    make(map[*Client]bool),
		rooms:      make(map[model.RoomID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan roomEvent),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.handleRegister(client)

		case client := <-h.unregister:
			h.handleUnregister(client)

		case re := <-h.broadcast:
			h.broadcastToRoom(re.roomID, re.event)
		}
	}
}

// handleRegister runs twice per connection: once before the session
// exists so early frames are deliverable, once more after the room id
// is known to join the room bucket.
func (h *Hub) handleRegister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
	if client.roomID == "" {
		return
	}
	if _, exists := h.rooms[client.roomID]; !exists {
		h.rooms[client.roomID] = make(map[*Client]bool)
	}
	h.rooms[client.roomID][client] = true

	h.logger.Info("client registered",
		"room", client.roomID,
		"player", client.playerID)
}

func (h *Hub) handleUnregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)

		if roomClients, exists := h.rooms[client.roomID]; exists {
			delete(roomClients, client)
			if len(roomClients) == 0 {
				delete(h.rooms, client.roomID)
			}
		}
	}

	h.logger.Info("client unregistered",
		"room", client.roomID,
		"player", client.playerID)
}

// Send delivers to one client, dropping on backpressure. The session
// re-derives everything from store snapshots, so a dropped frame is
// superseded by the next one.
func (h *Hub) Send(client *Client, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if !h.clients[client] {
		return
	}
	select {
	case client.send <- event:
	default:
	}
}

func (h *Hub) BroadcastToRoom(roomID model.RoomID, event Event) {
	h.broadcast <- roomEvent{roomID: roomID, event: event}
}

func (h *Hub) broadcastToRoom(roomID model.RoomID, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if roomClients, exists := h.rooms[roomID]; exists {
		for client := range roomClients {
			select {
			case client.send <- event:
			default:
			}
		}
	}
}
