package orchestrator

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_Handle(t *testing.T) {
	orch, _ := newTestOrchestrator(t, 9100, 9100, Deps{})
	h := &Handler{orch: orch, logger: orch.logger}
	ctx := context.Background()

	// 純文字請求得到純文字 Port
	assert.Equal(t, "9100", string(h.Handle(ctx, []byte("CreateGame"))))
	// Pool 用盡時回覆 Unavailable
	assert.Equal(t, "Unavailable", string(h.Handle(ctx, []byte("CreateGame"))))

	assert.JSONEq(t, `{"action":"create_game","error":"unavailable"}`,
		string(h.Handle(ctx, []byte(`{"action":"create_game","payload":{"goal":5}}`))))

	reply := string(h.Handle(ctx, []byte(`{"action":"list_games"}`)))
	assert.Contains(t, reply, `"action":"list_games"`)
	assert.Contains(t, reply, `"port":9100`)
	assert.Contains(t, reply, `"goal":100`)

	assert.Contains(t, string(h.Handle(ctx, []byte(`garbage`))), `"action":"error"`)
	assert.Contains(t, string(h.Handle(ctx, []byte(`{"action":"join"}`))), `"action":"error"`)
}

func TestHandler_CreateGameEnvelope(t *testing.T) {
	orch, spawner := newTestOrchestrator(t, 9100, 9101, Deps{})
	h := &Handler{orch: orch, logger: orch.logger}

	reply := h.Handle(context.Background(), []byte(`{"action":"create_game","payload":{"goal":30}}`))
	assert.JSONEq(t,
		`{"action":"create_game","data":{"port":9100,"session_id":"`+spawner.last().ID()+`","goal":30}}`,
		string(reply))
}

func TestHandler_WebSocket(t *testing.T) {
	orch, _ := newTestOrchestrator(t, 9100, 9100, Deps{})
	srv := httptest.NewServer(NewHandler(orch, nil, nil))
	defer srv.Close()

	c, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer c.Close()

	roundTrip := func(msg string) string {
		t.Helper()
		require.NoError(t, c.WriteMessage(websocket.TextMessage, []byte(msg)))
		require.NoError(t, c.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, reply, err := c.ReadMessage()
		require.NoError(t, err)
		return string(reply)
	}

	// 格式錯誤不會關閉控制連線
	assert.Contains(t, roundTrip(`{{{`), `"action":"error"`)
	assert.Equal(t, "9100", roundTrip("CreateGame"))
	assert.Equal(t, "Unavailable", roundTrip("CreateGame"))
}
