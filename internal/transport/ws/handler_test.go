package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"exhibitsurvey/internal/cache"
	"exhibitsurvey/internal/model"
	"exhibitsurvey/internal/service"
	"exhibitsurvey/internal/survey"
)

type nopRepo struct{}

func (nopRepo) Append(context.Context, model.Row) error { return nil }

type wsEnv struct {
	url    string
	svc    *service.SessionService
	tokens *service.TokenService
}

func newWSEnv(t *testing.T) *wsEnv {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	def := &model.Survey{
		Type: "feedback",
		Questions: []model.Question{
			{Key: "name", Kind: model.KindText, Prompt: model.Localized{EN: "Name", ZH: "名字"}},
			{Key: "mood", Kind: model.KindMultiSelect, Prompt: model.Localized{EN: "Mood", ZH: "心情"}, Options: []model.Option{
				{ID: "A", Label: model.Localized{EN: "A", ZH: "甲"}},
			}},
		},
	}
	survey.Normalize(def)

	tokens := service.NewTokenService("test-secret", time.Hour)
	svc := service.NewSessionService([]*model.Survey{def}, cache.NewSnapshotCache(client, time.Hour, zap.NewNop()), nopRepo{}, tokens, time.Second, zap.NewNop())
	hub := NewHub(zap.NewNop())
	svc.SetBroadcaster(hub)

	srv := httptest.NewServer(http.HandlerFunc(NewHandler(hub, tokens, svc, zap.NewNop()).SessionWS))
	t.Cleanup(func() {
		srv.Close()
		hub.Close()
	})
	return &wsEnv{url: "ws" + strings.TrimPrefix(srv.URL, "http"), svc: svc, tokens: tokens}
}

func (e *wsEnv) dial(t *testing.T, token string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(e.url+"?token="+token+"&lang=en", nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

// readUntil skips pushed events until a message of type want arrives
func readUntil(t *testing.T, conn *websocket.Conn, want MessageType) Message {
	t.Helper()
	for i := 0; i < 10; i++ {
		if msg := readMessage(t, conn); msg.Type == want {
			return msg
		}
	}
	t.Fatalf("no %s message", want)
	return Message{}
}

func TestSessionWSRejectsBadToken(t *testing.T) {
	env := newWSEnv(t)

	_, resp, err := websocket.DefaultDialer.Dial(env.url, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(env.url+"?token=forged", nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSessionWSFlow(t *testing.T) {
	env := newWSEnv(t)
	start, err := env.svc.Start(context.Background(), "feedback", "")
	require.NoError(t, err)

	conn := env.dial(t, start.Token)
	observer := env.dial(t, start.Token)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "goto", Step: 1}))
	msg := readUntil(t, conn, MsgView)
	var view map[string]interface{}
	require.NoError(t, json.Unmarshal(msg.Payload, &view))
	assert.Equal(t, "mood", view["key"])

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "submit"}))
	msg = readUntil(t, conn, MsgError)
	var failure ErrorPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &failure))
	assert.Equal(t, []string{"name", "mood"}, failure.Missing)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "interact", Key: "name", Action: "input", Value: "Ray"}))
	readUntil(t, conn, MsgView)
	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "interact", Key: "mood", Action: "toggle", Value: "A"}))
	readUntil(t, conn, MsgView)

	// The other tab sees the changes pushed
	assert.Equal(t, MsgStateChanged, readMessage(t, observer).Type)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "submit"}))
	readUntil(t, observer, MsgSubmitted)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "bogus"}))
	msg = readUntil(t, conn, MsgError)
	assert.Contains(t, string(msg.Payload), "unknown message type")
}
