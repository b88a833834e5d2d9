package ws

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Server -> client message types. Pushed events use the service event names.
const (
	MsgView         MessageType = "view"
	MsgState        MessageType = "state"
	MsgStateChanged MessageType = "state_changed"
	MsgSubmitted    MessageType = "submitted"
	MsgSubmitFailed MessageType = "submit_failed"
	MsgError        MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans session events out to every connection open on that session.
// A respondent may have the survey open in more than one tab.
type Hub struct {
	sessions map[string]map[*Connection]bool // sessionID -> connections

	log *zap.Logger

	// Channels for coordination
	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
	done       chan struct{}
	stopped    chan struct{}
	closeOnce  sync.Once
}

// Connection represents a WebSocket connection
type Connection struct {
	SessionID  string
	SurveyType string
	Send       chan []byte
	Hub        *Hub
}

// BroadcastMessage is a message to broadcast. When To is set only that
// connection receives it.
type BroadcastMessage struct {
	SessionID string
	To        *Connection
	Message   *Message
}

// NewHub creates a new WebSocket hub and starts its loop
func NewHub(log *zap.Logger) *Hub {
	h := &Hub{
		sessions:   make(map[string]map[*Connection]bool),
		log:        log,
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
		done:       make(chan struct{}),
		stopped:    make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	defer close(h.stopped)
	for {
		select {
		case conn := <-h.register:
			if h.sessions[conn.SessionID] == nil {
				h.sessions[conn.SessionID] = make(map[*Connection]bool)
			}
			h.sessions[conn.SessionID][conn] = true
			h.log.Debug("session connected", zap.String("session", conn.SessionID))

		case conn := <-h.unregister:
			h.remove(conn)

		case msg := <-h.broadcast:
			data, err := json.Marshal(msg.Message)
			if err != nil {
				h.log.Warn("failed to encode broadcast", zap.Error(err))
				continue
			}
			for conn := range h.sessions[msg.SessionID] {
				if msg.To != nil && msg.To != conn {
					continue
				}
				select {
				case conn.Send <- data:
				default:
					// Slow reader; drop it rather than stall the hub
					h.remove(conn)
				}
			}

		case <-h.done:
			for _, conns := range h.sessions {
				for conn := range conns {
					close(conn.Send)
				}
			}
			h.sessions = map[string]map[*Connection]bool{}
			return
		}
	}
}

func (h *Hub) remove(conn *Connection) {
	conns, ok := h.sessions[conn.SessionID]
	if !ok || !conns[conn] {
		return
	}
	delete(conns, conn)
	close(conn.Send)
	if len(conns) == 0 {
		delete(h.sessions, conn.SessionID)
	}
	h.log.Debug("session disconnected", zap.String("session", conn.SessionID))
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	select {
	case h.register <- conn:
	case <-h.done:
		close(conn.Send)
	}
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// BroadcastToSession sends an event to every connection of a session
// (implements service.Broadcaster)
func (h *Hub) BroadcastToSession(sessionID string, msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Warn("failed to encode payload", zap.String("type", msgType), zap.Error(err))
		return
	}
	select {
	case h.broadcast <- &BroadcastMessage{
		SessionID: sessionID,
		Message:   &Message{Type: MessageType(msgType), Payload: data},
	}:
	case <-h.done:
	}
}

// SendTo queues a message for one connection. It is dropped if the
// connection has already gone.
func (h *Hub) SendTo(conn *Connection, msgType MessageType, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Warn("failed to encode payload", zap.String("type", string(msgType)), zap.Error(err))
		return
	}
	select {
	case h.broadcast <- &BroadcastMessage{
		SessionID: conn.SessionID,
		To:        conn,
		Message:   &Message{Type: msgType, Payload: data},
	}:
	case <-h.done:
	}
}

// Close stops the hub loop and closes every open connection's send queue
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
	<-h.stopped
}
