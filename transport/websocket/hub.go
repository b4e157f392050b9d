package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/wricardo/box-puzzle/game/engine"
	"github.com/zyedidia/generic/mapset"
)

// Time allowed for the service to answer a client command.
const commandTimeout = 10 * time.Second

// Event names sent to clients
const (
	EventStateUpdate = "state_update"
	EventError       = "error"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins in development
		return true
	},
}

// Message is what the hub sends to clients
type Message struct {
	SessionID string            `json:"session_id"`
	GameState *engine.GameState `json:"game_state,omitempty"`
	Event     string            `json:"event,omitempty"`
	Data      interface{}       `json:"data,omitempty"`
}

// Command is an inbound client request. Action is one of move, nudge, slide
// or reset.
type Command struct {
	Action    string `json:"action"`
	Ref       string `json:"ref,omitempty"`
	Direction string `json:"direction,omitempty"`
}

// CommandHandler applies client commands to a session and returns the state
// to broadcast
type CommandHandler interface {
	HandleCommand(ctx context.Context, sessionID string, cmd Command) (*engine.GameState, error)
}

// Hub groups connected clients into one room per puzzle session. Every
// accepted command is fanned out to the whole room; failures go back to the
// sender only.
type Hub struct {
	mu      sync.RWMutex
	rooms   map[string]mapset.Set[*Client]
	handler CommandHandler

	joins  chan *Client
	leaves chan *Client
	events chan *Message
}

// NewHub creates a hub with no rooms. Call Run before serving connections.
func NewHub() *Hub {
	return &Hub{
		rooms:  make(map[string]mapset.Set[*Client]),
		joins:  make(chan *Client),
		leaves: make(chan *Client),
		events: make(chan *Message),
	}
}

// SetCommandHandler sets the handler for inbound client commands. Without a
// handler inbound messages are ignored.
func (h *Hub) SetCommandHandler(handler CommandHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handler = handler
}

// Run processes joins, leaves and queued events until the process exits
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.joins:
			h.join(c)
		case c := <-h.leaves:
			h.leave(c)
		case msg := <-h.events:
			h.fanOut(msg)
		}
	}
}

// ServeWS upgrades the request and attaches the connection to sessionID's room
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, sessionID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	c := newClient(h, conn, sessionID)
	h.joins <- c

	go c.writeLoop()
	go c.readLoop()
}

// BroadcastToSession sends a state update to every client in the room. It is
// delivered synchronously so callers see ordering with their own writes.
func (h *Hub) BroadcastToSession(sessionID string, state *engine.GameState) {
	h.fanOut(&Message{SessionID: sessionID, GameState: state, Event: EventStateUpdate})
}

// BroadcastEvent queues a custom event for the room; Run delivers it
func (h *Hub) BroadcastEvent(sessionID string, event string, data interface{}) {
	h.events <- &Message{SessionID: sessionID, Event: event, Data: data}
}

// ClientCount returns the number of clients watching a session
func (h *Hub) ClientCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	room, ok := h.rooms[sessionID]
	if !ok {
		return 0
	}
	return room.Size()
}

func (h *Hub) join(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[c.sessionID]
	if !ok {
		room = mapset.New[*Client]()
		h.rooms[c.sessionID] = room
	}
	room.Put(c)

	log.WithFields(log.Fields{"session": c.sessionID, "client": c.id, "clients": room.Size()}).Info("client joined")
}

func (h *Hub) leave(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(c)
}

// dropLocked closes c's queue at most once and removes empty rooms
func (h *Hub) dropLocked(c *Client) {
	room, ok := h.rooms[c.sessionID]
	if !ok || !room.Has(c) {
		return
	}
	room.Remove(c)
	close(c.send)
	if room.Size() == 0 {
		delete(h.rooms, c.sessionID)
	}

	log.WithFields(log.Fields{"session": c.sessionID, "client": c.id, "remaining": room.Size()}).Info("client left")
}

// enqueueLocked hands data to c, dropping the client when its queue is full
func (h *Hub) enqueueLocked(c *Client, data []byte) {
	select {
	case c.send <- data:
	default:
		log.WithField("client", c.id).Warn("send queue full, dropping client")
		h.dropLocked(c)
	}
}

func (h *Hub) fanOut(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.WithError(err).Error("failed to marshal broadcast message")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[msg.SessionID]
	if !ok {
		return
	}
	// collect first; dropping a client mutates the set
	var targets []*Client
	room.Each(func(c *Client) { targets = append(targets, c) })
	for _, c := range targets {
		h.enqueueLocked(c, data)
	}
}

// reply sends a message to a single client if it is still connected
func (h *Hub) reply(c *Client, msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.WithError(err).Error("failed to marshal reply")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if room, ok := h.rooms[c.sessionID]; ok && room.Has(c) {
		h.enqueueLocked(c, data)
	}
}

func (h *Hub) fail(c *Client, text string) {
	h.reply(c, &Message{SessionID: c.sessionID, Event: EventError, Data: text})
}

// dispatch runs one inbound frame through the handler
func (h *Hub) dispatch(c *Client, raw []byte) {
	h.mu.RLock()
	handler := h.handler
	h.mu.RUnlock()
	if handler == nil {
		return
	}

	var cmd Command
	if err := json.Unmarshal(raw, &cmd); err != nil {
		h.fail(c, "malformed command")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	entry := log.WithFields(log.Fields{
		"session": c.sessionID,
		"client":  c.id,
		"action":  cmd.Action,
		"ref":     cmd.Ref,
	})

	state, err := handler.HandleCommand(ctx, c.sessionID, cmd)
	if err != nil {
		entry.WithError(err).Debug("command failed")
		h.fail(c, err.Error())
		return
	}
	entry.Debug("command applied")

	if state != nil {
		h.BroadcastToSession(c.sessionID, state)
	}
}

func newClientID() string {
	return uuid.NewString()
}
