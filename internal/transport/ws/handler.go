package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"exhibitsurvey/internal/i18n"
	"exhibitsurvey/internal/model"
	"exhibitsurvey/internal/render"
	"exhibitsurvey/internal/service"
	"exhibitsurvey/internal/survey"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Kiosk clients are served from another origin
	},
}

// ClientMessage is what a client sends over the socket. Which fields are
// read depends on Type: interact, goto, next, back, submit or state.
type ClientMessage struct {
	Type   string        `json:"type"`
	Key    string        `json:"key,omitempty"`
	Action render.Action `json:"action,omitempty"`
	Value  string        `json:"value,omitempty"`
	Step   int           `json:"step,omitempty"`
	Lang   string        `json:"lang,omitempty"`
}

// ErrorPayload is the payload of an error message
type ErrorPayload struct {
	Error   string   `json:"error"`
	Message string   `json:"message,omitempty"`
	Missing []string `json:"missing,omitempty"`
}

type interactPayload struct {
	View  *render.View        `json:"view"`
	State *model.SessionState `json:"state"`
}

// Handler handles WebSocket connections
type Handler struct {
	hub      *Hub
	tokens   *service.TokenService
	sessions *service.SessionService
	log      *zap.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, tokens *service.TokenService, sessions *service.SessionService, log *zap.Logger) *Handler {
	return &Handler{
		hub:      hub,
		tokens:   tokens,
		sessions: sessions,
		log:      log,
	}
}

// SessionWS handles GET /v1/ws/sessions?token=
func (h *Handler) SessionWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := h.tokens.Validate(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}
	def, err := h.sessions.Survey(claims.SurveyType)
	if err != nil {
		http.Error(w, "unknown survey", http.StatusNotFound)
		return
	}
	locale := i18n.Negotiate(r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"), def.DefaultLocale)

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	conn := &Connection{
		SessionID:  claims.SessionID,
		SurveyType: claims.SurveyType,
		Send:       make(chan []byte, 256),
		Hub:        h.hub,
	}
	h.hub.Register(conn)

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn, claims, locale)
}

func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection, claims *model.SessionClaims, locale model.Locale) {
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
				h.log.Debug("websocket read error", zap.String("session", conn.SessionID), zap.Error(err))
			}
			break
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.reply(conn, MsgError, ErrorPayload{Error: "invalid message"})
			continue
		}
		if loc, ok := i18n.ParseLocale(msg.Lang); ok {
			locale = loc
		}
		h.dispatch(context.Background(), conn, claims, msg, locale)
	}
}

// dispatch runs one client command against the session and replies on conn.
// State changes also reach the session's other connections through the hub.
func (h *Handler) dispatch(ctx context.Context, conn *Connection, claims *model.SessionClaims, msg ClientMessage, locale model.Locale) {
	var (
		msgType MessageType
		payload interface{}
		err     error
	)
	switch msg.Type {
	case "interact":
		var view *render.View
		var state *model.SessionState
		view, state, err = h.sessions.Interact(ctx, claims, msg.Key, render.Interaction{Action: msg.Action, Value: msg.Value}, locale)
		msgType, payload = MsgView, interactPayload{View: view, State: state}
	case "goto":
		msgType = MsgView
		payload, err = h.sessions.View(ctx, claims, msg.Step, locale)
	case "next":
		msgType = MsgView
		payload, err = h.sessions.Move(ctx, claims, 1, locale)
	case "back":
		msgType = MsgView
		payload, err = h.sessions.Move(ctx, claims, -1, locale)
	case "submit":
		// Success reaches every connection as a submitted event
		if _, err := h.sessions.Submit(ctx, claims); err != nil {
			h.reply(conn, MsgError, errorPayload(err))
		}
		return
	case "state":
		msgType = MsgState
		payload, err = h.sessions.State(ctx, claims)
	default:
		h.reply(conn, MsgError, ErrorPayload{Error: "unknown message type " + msg.Type})
		return
	}

	if err != nil {
		h.reply(conn, MsgError, errorPayload(err))
		return
	}
	h.reply(conn, msgType, payload)
}

func (h *Handler) reply(conn *Connection, msgType MessageType, payload interface{}) {
	h.hub.SendTo(conn, msgType, payload)
}

func errorPayload(err error) ErrorPayload {
	var incomplete *survey.IncompleteError
	switch {
	case errors.As(err, &incomplete):
		return ErrorPayload{Error: survey.ErrIncomplete.Error(), Message: i18n.Toast(i18n.MsgIncomplete), Missing: incomplete.Missing}
	case errors.Is(err, survey.ErrSubmitInProgress):
		return ErrorPayload{Error: err.Error(), Message: i18n.Toast(i18n.MsgInProgress)}
	case errors.Is(err, survey.ErrAlreadySubmitted):
		return ErrorPayload{Error: err.Error(), Message: i18n.Toast(i18n.MsgDone)}
	case errors.Is(err, survey.ErrSubmitFailed):
		return ErrorPayload{Error: survey.ErrSubmitFailed.Error(), Message: i18n.Toast(i18n.MsgSubmitFailed)}
	case errors.Is(err, survey.ErrWrongVariant),
		errors.Is(err, survey.ErrOutOfRange),
		errors.Is(err, survey.ErrNotAnswerable),
		errors.Is(err, render.ErrWrongAction),
		errors.Is(err, render.ErrBadSelection),
		errors.Is(err, render.ErrNoInteraction):
		return ErrorPayload{Error: err.Error(), Message: i18n.Toast(i18n.MsgInvalid)}
	}
	return ErrorPayload{Error: err.Error()}
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
