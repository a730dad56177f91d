package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Server-to-client message types
const (
	MsgNewQuestion         MessageType = "new_question"
	MsgQuestionAudio       MessageType = "question_audio"
	MsgQuestionTextOnly    MessageType = "question_text_only"
	MsgResponseEvaluated   MessageType = "response_evaluated"
	MsgTranscriptionResult MessageType = "transcription_result"
	MsgTranscriptionError  MessageType = "transcription_error"
	MsgInterviewCompleted  MessageType = "interview_completed"
	MsgError               MessageType = "error"
)

// Client-to-server message types
const (
	MsgSubmitResponse  MessageType = "submit_response"
	MsgTranscribeAudio MessageType = "transcribe_audio"
	MsgEndInterview    MessageType = "end_interview"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages WebSocket connections, one candidate per session
type Hub struct {
	conns map[string]*Connection // session id -> conn

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *sessionMessage
}

// Connection represents one candidate's WebSocket connection
type Connection struct {
	SessionID string
	Send      chan []byte
	Hub       *Hub
}

type sessionMessage struct {
	SessionID string
	Message   *Message
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		conns:      make(map[string]*Connection),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *sessionMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			// A reconnect replaces the previous connection
			if existing, ok := h.conns[conn.SessionID]; ok {
				close(existing.Send)
			}
			h.conns[conn.SessionID] = conn
			h.mu.Unlock()
			log.Printf("candidate connected to session %s", conn.SessionID)

		case conn := <-h.unregister:
			h.mu.Lock()
			if existing, ok := h.conns[conn.SessionID]; ok && existing == conn {
				delete(h.conns, conn.SessionID)
				close(conn.Send)
				log.Printf("candidate disconnected from session %s", conn.SessionID)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			if conn, ok := h.conns[msg.SessionID]; ok {
				data, _ := json.Marshal(msg.Message)
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
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

// SendToSession delivers an event to the session's candidate, if
// connected (implements service.Broadcaster)
func (h *Hub) SendToSession(sessionID string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &sessionMessage{
		SessionID: sessionID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}

// DisconnectSession drops the session's connection, if any (implements
// service.Broadcaster)
func (h *Hub) DisconnectSession(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conn, ok := h.conns[sessionID]; ok {
		delete(h.conns, sessionID)
		close(conn.Send)
	}
}
