package ws

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/anxmeshhh/PrepIQ/internal/model"
	"github.com/anxmeshhh/PrepIQ/internal/service"
	"github.com/anxmeshhh/PrepIQ/internal/speech"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Large enough for a base64 audio clip in a transcribe_audio frame
	maxMessageSize = 4 << 20
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for dev
	},
}

// Handler handles WebSocket connections
type Handler struct {
	hub          *Hub
	authSvc      *service.AuthService
	interviewSvc *service.InterviewService
	transcriber  speech.Transcriber
}

// NewHandler creates a new WebSocket handler. transcriber may be nil;
// audio frames then resolve to the placeholder transcript.
func NewHandler(hub *Hub, authSvc *service.AuthService, interviewSvc *service.InterviewService, transcriber speech.Transcriber) *Handler {
	return &Handler{
		hub:          hub,
		authSvc:      authSvc,
		interviewSvc: interviewSvc,
		transcriber:  transcriber,
	}
}

// SessionWS handles GET /v1/ws/interviews/{id}
func (h *Handler) SessionWS(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]
	token := r.URL.Query().Get("token")

	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := h.authSvc.ValidateSessionToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	if claims.SessionID != sessionID {
		http.Error(w, "token not valid for this session", http.StatusForbidden)
		return
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	conn := &Connection{
		SessionID: sessionID,
		Send:      make(chan []byte, 256),
		Hub:       h.hub,
	}

	h.hub.Register(conn)

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn)
}

// submitResponsePayload is the client's answer for the current question
type submitResponsePayload struct {
	Text     string              `json:"text"`
	Emotion  model.EmotionSample `json:"emotion"`
	Duration float64             `json:"duration"`
}

type transcribeAudioPayload struct {
	// Audio is base64-encoded PCM as captured by the client
	Audio string `json:"audio"`
}

func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection) {
	defer func() {
		h.hub.Unregister(conn)
		wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			h.hub.SendToSession(conn.SessionID, string(MsgError), map[string]string{"message": "malformed message"})
			continue
		}

		h.dispatch(conn.SessionID, &msg)
	}
}

func (h *Handler) dispatch(sessionID string, msg *Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	switch msg.Type {
	case MsgSubmitResponse:
		var payload submitResponsePayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			h.hub.SendToSession(sessionID, string(MsgError), map[string]string{"message": "malformed payload"})
			return
		}
		if _, err := h.interviewSvc.SubmitAnswer(ctx, sessionID, payload.Text, payload.Emotion, payload.Duration); err != nil {
			h.sendServiceError(sessionID, err)
		}

	case MsgTranscribeAudio:
		var payload transcribeAudioPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			h.hub.SendToSession(sessionID, string(MsgError), map[string]string{"message": "malformed payload"})
			return
		}
		h.transcribe(ctx, sessionID, payload.Audio)

	case MsgEndInterview:
		if _, err := h.interviewSvc.EndInterview(ctx, sessionID); err != nil {
			h.sendServiceError(sessionID, err)
		}

	default:
		h.hub.SendToSession(sessionID, string(MsgError), map[string]string{"message": "unknown message type"})
	}
}

// transcribe turns candidate audio into text. Recognition failures fall
// back to the low-confidence placeholder transcript so the turn can
// still be submitted.
func (h *Handler) transcribe(ctx context.Context, sessionID, audioB64 string) {
	audio, err := base64.StdEncoding.DecodeString(audioB64)
	if err != nil {
		h.hub.SendToSession(sessionID, string(MsgTranscriptionError), map[string]string{
			"error": "Transcription failed. Please try again.",
		})
		return
	}

	text, confidence := speech.PlaceholderTranscript, 0.1
	if h.transcriber != nil {
		if got, conf, err := h.transcriber.Transcribe(ctx, audio); err == nil {
			text, confidence = got, conf
		} else {
			log.Printf("session %s: transcription failed, using placeholder: %v", sessionID, err)
		}
	}

	h.hub.SendToSession(sessionID, string(MsgTranscriptionResult), map[string]interface{}{
		"text":       text,
		"confidence": confidence,
	})
}

func (h *Handler) sendServiceError(sessionID string, err error) {
	log.Printf("session %s: %v", sessionID, err)
	h.hub.SendToSession(sessionID, string(MsgError), map[string]string{"message": err.Error()})
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := wsConn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
