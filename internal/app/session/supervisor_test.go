package session

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/JoeShih716/go-k8s-score-server/internal/core/domain"
	"github.com/JoeShih716/go-k8s-score-server/internal/protocol"
	mock_ports "github.com/JoeShih716/go-k8s-score-server/test/mocks/core/ports"
)

func decodeState(t *testing.T, msg []byte) protocol.GameStateMsg {
	t.Helper()
	var resp struct {
		Action protocol.Action       `json:"action"`
		Data   protocol.GameStateMsg `json:"data"`
	}
	require.NoError(t, json.Unmarshal(msg, &resp))
	require.Equal(t, protocol.ActionGameState, resp.Action)
	return resp.Data
}

func startTestSession(t *testing.T, ctx context.Context, cfg Config, deps Deps) *Supervisor {
	t.Helper()
	cfg.Host = "127.0.0.1"
	s, err := Start(ctx, cfg, deps)
	require.NoError(t, err)
	t.Cleanup(func() {
		s.Stop()
		<-s.Done()
	})
	return s
}

func dial(t *testing.T, s *Supervisor) *websocket.Conn {
	t.Helper()
	c, _, err := websocket.DefaultDialer.Dial("ws://"+s.Addr()+"/", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func send(t *testing.T, c *websocket.Conn, msg string) {
	t.Helper()
	require.NoError(t, c.WriteMessage(websocket.TextMessage, []byte(msg)))
}

func nextState(t *testing.T, c *websocket.Conn) protocol.GameStateMsg {
	t.Helper()
	require.NoError(t, c.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := c.ReadMessage()
	require.NoError(t, err)
	return decodeState(t, msg)
}

// waitState 讀取快照直到玩家列表符合預期
func waitState(t *testing.T, c *websocket.Conn, want []domain.Player) protocol.GameStateMsg {
	t.Helper()
	for {
		state := nextState(t, c)
		if assert.ObjectsAreEqual(want, state.Players) {
			return state
		}
	}
}

func TestSupervisor_TwoPlayerScenario(t *testing.T) {
	s := startTestSession(t, context.Background(), Config{Goal: 100}, Deps{})

	ann := dial(t, s)
	bo := dial(t, s)

	send(t, ann, `{"action":"join","payload":{"player_name":"Ann"}}`)
	waitState(t, ann, []domain.Player{{Name: "Ann"}})
	send(t, bo, `{"action":"join","payload":{"player_name":"Bo"}}`)

	both := []domain.Player{{Name: "Ann"}, {Name: "Bo"}}
	waitState(t, ann, both)
	waitState(t, bo, both)
	assert.Equal(t, 2, s.Players())

	send(t, ann, `{"action":"point","payload":{"player_name":"Ann","new_points":42}}`)
	scored := []domain.Player{{Name: "Ann", Points: 42}, {Name: "Bo", Points: 0}}
	for _, c := range []*websocket.Conn{ann, bo} {
		state := nextState(t, c)
		assert.Equal(t, scored, state.Players)
		assert.Equal(t, 100, state.Goal)
	}

	require.NoError(t, bo.Close())
	state := nextState(t, ann)
	assert.Equal(t, []domain.Player{{Name: "Ann", Points: 42}}, state.Players)
	assert.Equal(t, 100, state.Goal)
	assert.Equal(t, 2, s.PeakPlayers())
}

func TestSupervisor_DuplicateNameRejected(t *testing.T) {
	s := startTestSession(t, context.Background(), Config{Goal: 10}, Deps{})

	first := dial(t, s)
	second := dial(t, s)

	send(t, first, `{"action":"join","payload":{"player_name":"Ann"}}`)
	waitState(t, second, []domain.Player{{Name: "Ann"}})

	// 同名加入是 no-op，但仍會發佈一份快照
	send(t, second, `{"action":"join","payload":{"player_name":"Ann"}}`)
	state := nextState(t, second)
	assert.Equal(t, []domain.Player{{Name: "Ann"}}, state.Players)
	assert.Equal(t, 1, s.Players())
}

func TestSupervisor_IdleReap(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dir := mock_ports.NewMockSessionDirectory(ctrl)
	dir.EXPECT().Heartbeat(gomock.Any(), "sess-idle", 0).Return(nil).MinTimes(1)

	s, err := Start(context.Background(), Config{
		SessionID:    "sess-idle",
		Host:         "127.0.0.1",
		Goal:         10,
		ReapInterval: 20 * time.Millisecond,
		IdleTimeout:  60 * time.Millisecond,
	}, Deps{Directory: dir})
	require.NoError(t, err)

	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("idle session not reaped")
	}
	assert.Equal(t, domain.CloseReasonIdle, s.Reason())

	// Port 已釋放，可以再次綁定
	lis, err := net.Listen("tcp", s.Addr())
	require.NoError(t, err)
	_ = lis.Close()
}

func TestSupervisor_ActivePlayerPreventsReap(t *testing.T) {
	s := startTestSession(t, context.Background(), Config{
		Goal:         10,
		ReapInterval: 10 * time.Millisecond,
		IdleTimeout:  50 * time.Millisecond,
	}, Deps{})

	c := dial(t, s)
	send(t, c, `{"action":"join","payload":{"player_name":"Ann"}}`)
	waitState(t, c, []domain.Player{{Name: "Ann"}})

	time.Sleep(200 * time.Millisecond)
	select {
	case <-s.Done():
		t.Fatal("session with a player was reaped")
	default:
	}

	// 玩家離開後才開始計時
	require.NoError(t, c.Close())
	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("session not reaped after last player left")
	}
	assert.Equal(t, domain.CloseReasonIdle, s.Reason())
}

func TestSupervisor_StopClosesConnections(t *testing.T) {
	s, err := Start(context.Background(), Config{Host: "127.0.0.1", Goal: 10}, Deps{})
	require.NoError(t, err)

	c := dial(t, s)
	send(t, c, `{"action":"join","payload":{"player_name":"Ann"}}`)
	waitState(t, c, []domain.Player{{Name: "Ann"}})

	s.Stop()
	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("session did not stop")
	}
	assert.Equal(t, domain.CloseReasonStopped, s.Reason())

	require.NoError(t, c.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}
	_, _, err = websocket.DefaultDialer.Dial("ws://"+s.Addr()+"/", nil)
	assert.Error(t, err)
}

func TestSupervisor_ParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s, err := Start(ctx, Config{Host: "127.0.0.1", Goal: 10}, Deps{})
	require.NoError(t, err)

	cancel()
	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("session did not stop on parent cancel")
	}
	assert.Equal(t, domain.CloseReasonShutdown, s.Reason())
}

func TestSupervisor_BindFailure(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer lis.Close()
	port := lis.Addr().(*net.TCPAddr).Port

	s, err := Start(context.Background(), Config{Host: "127.0.0.1", Port: port, Goal: 10}, Deps{})
	assert.Error(t, err)
	assert.Nil(t, s)
	assert.Contains(t, err.Error(), strconv.Itoa(port))
}

func TestSupervisor_Endpoint(t *testing.T) {
	s := startTestSession(t, context.Background(), Config{AdvertiseHost: "game.example.com", Goal: 10}, Deps{})

	assert.Equal(t, "game.example.com:"+strconv.Itoa(s.Port()), s.Endpoint())
	assert.NotEmpty(t, s.ID())
	assert.Equal(t, 10, s.Goal())
}

// lockedBuffer 讓測試可以在 logger 寫入時安全讀取
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSupervisor_ProtocolErrorLoggedOnce(t *testing.T) {
	logs := &lockedBuffer{}
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := startTestSession(t, context.Background(), Config{Goal: 10}, Deps{Logger: logger})

	bad := dial(t, s)
	send(t, bad, `not json`)

	assert.Eventually(t, func() bool {
		return strings.Contains(logs.String(), "Connection closed with error")
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, strings.Count(logs.String(), "Connection closed with error"))
	assert.Contains(t, logs.String(), "protocol error")

	// 其他連線不受影響
	good := dial(t, s)
	send(t, good, `{"action":"join","payload":{"player_name":"Ann"}}`)
	waitState(t, good, []domain.Player{{Name: "Ann"}})
}
