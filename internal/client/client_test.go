package client

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/palemoky/take-eleven/internal/config"
	"github.com/palemoky/take-eleven/internal/protocol"
	"github.com/palemoky/take-eleven/internal/protocol/codec"
	"github.com/palemoky/take-eleven/internal/server"
)

var upgrader = websocket.Upgrader{}

func echoHandler(w http.ResponseWriter, r *http.Request) {
	c, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer c.Close()
	for {
		mt, message, err := c.ReadMessage()
		if err != nil {
			break
		}
		_ = c.WriteMessage(mt, message)
	}
}

func wsURL(ts *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + path
}

func TestClient_ConnectAndSend(t *testing.T) {
	for _, wire := range []codec.Wire{codec.JSON{}, codec.Proto{}} {
		t.Run(wire.Name(), func(t *testing.T) {
			s := httptest.NewServer(http.HandlerFunc(echoHandler))
			defer s.Close()

			client := NewClient(wsURL(s, ""), wire, "", nil)
			require.NoError(t, client.Connect())
			defer client.Close()
			assert.True(t, client.IsConnected())
			assert.NotEmpty(t, client.PlayerID)

			require.NoError(t, client.Push(2, []int{15, 16}))

			msg, err := client.ReceiveWithTimeout(time.Second)
			require.NoError(t, err)
			assert.Equal(t, protocol.MsgAction, msg.Type)

			payload, err := codec.ParsePayload[protocol.ActionPayload](msg)
			require.NoError(t, err)
			assert.Equal(t, client.PlayerID, payload.ID)
			require.Len(t, payload.Stacks, 1)
			assert.Equal(t, []int{15, 16}, payload.Stacks[0].Cards)
		})
	}
}

func TestClient_PongUpdatesLatency(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(echoHandler))
	defer s.Close()

	client := NewClient(wsURL(s, ""), nil, "p1", nil)
	updated := make(chan int64, 1)
	client.OnLatencyUpdate = func(ms int64) { updated <- ms }
	require.NoError(t, client.Connect())
	defer client.Close()

	// echo 服务器把 pong 原样发回
	pong := codec.MustNewMessage(protocol.MsgPong, protocol.PongPayload{
		ClientTimestamp: time.Now().UnixMilli() - 30,
	})
	require.NoError(t, client.SendMessage(pong))

	select {
	case ms := <-updated:
		assert.GreaterOrEqual(t, ms, int64(30))
		assert.Equal(t, ms, client.Latency())
	case <-time.After(time.Second):
		t.Fatal("latency not updated")
	}
}

func TestClient_SendAfterClose(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(echoHandler))
	defer s.Close()

	client := NewClient(wsURL(s, ""), nil, "", nil)
	require.NoError(t, client.Connect())
	client.Close()
	client.Close()

	assert.False(t, client.IsConnected())
	assert.ErrorIs(t, client.Ping(), ErrClosed)
	_, err := client.Receive()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestClient_ConnectFails(t *testing.T) {
	client := NewClient("ws://127.0.0.1:1/ws", nil, "", nil)
	assert.Error(t, client.Connect())
	assert.False(t, client.IsConnected())
}

func startGameServer(t *testing.T) string {
	t.Helper()
	cfg := config.Default()
	disabled := false
	cfg.Redis.Enabled = &disabled

	s, err := server.NewServer(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	ts := httptest.NewServer(s.Routes())
	t.Cleanup(ts.Close)
	return wsURL(ts, "/ws")
}

// until 把收到的消息都交给 gs，直到收到 msgType
func until(t *testing.T, c *Client, gs *GameState, msgType protocol.MessageType) *protocol.Message {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		msg, err := c.ReceiveWithTimeout(time.Until(deadline))
		require.NoError(t, err)
		if gs != nil {
			_, err := gs.Apply(msg)
			require.NoError(t, err)
		}
		if msg.Type == msgType {
			return msg
		}
	}
	t.Fatalf("did not receive %s", msgType)
	return nil
}

func connect(t *testing.T, url string) *Client {
	t.Helper()
	c := NewClient(url, codec.JSON{}, "", zaptest.NewLogger(t))
	require.NoError(t, c.Connect())
	t.Cleanup(c.Close)
	until(t, c, nil, protocol.MsgConnected)
	return c
}

func TestClient_PlaysAgainstServer(t *testing.T) {
	url := startGameServer(t)
	a, b := connect(t, url), connect(t, url)
	gsA, gsB := NewGameState(), NewGameState()

	require.NoError(t, a.Register("alice"))
	until(t, a, gsA, protocol.MsgRegistered)
	require.NoError(t, b.Register(""))
	until(t, b, gsB, protocol.MsgRegistered)
	assert.Equal(t, 0, gsA.MyNo)
	assert.Equal(t, 1, gsB.MyNo)

	require.NoError(t, a.Ready(true))
	require.NoError(t, b.Ready(true))
	until(t, a, gsA, protocol.MsgGameStart)
	assert.True(t, gsA.Started)
	assert.True(t, gsA.MyTurn())
	assert.Len(t, gsA.Piles, 1)

	require.NoError(t, a.Fetch())
	until(t, a, gsA, protocol.MsgFetched)
	assert.Len(t, gsA.Hand(), 10)

	require.NoError(t, a.Pass())
	until(t, a, gsA, protocol.MsgGameStatus)
	assert.False(t, gsA.MyTurn())
	assert.Equal(t, 1, gsA.Turn)
	require.NotNil(t, gsA.LastDiff)
	assert.Equal(t, -1, gsA.LastDiff.PileDecNo)

	// 不是 a 的回合
	require.NoError(t, a.Pick(0, nil))
	until(t, a, gsA, protocol.MsgError)
	assert.Equal(t, protocol.ErrCodeActNotYourTurn, gsA.LastError.Code)
}

func TestClient_ReconnectLogsBackIn(t *testing.T) {
	url := startGameServer(t)
	c := connect(t, url)
	c.reconnectWait = 10 * time.Millisecond

	reconnected := make(chan struct{}, 1)
	c.OnReconnect = func() { reconnected <- struct{}{} }

	require.NoError(t, c.Register("alice"))
	until(t, c, nil, protocol.MsgRegistered)
	firstConn := c.ConnectionID

	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()
	_ = conn.Close()

	select {
	case <-reconnected:
	case <-time.After(3 * time.Second):
		t.Fatal("did not reconnect")
	}
	assert.False(t, c.IsReconnecting())
	assert.True(t, c.IsConnected())

	c.mu.RLock()
	defer c.mu.RUnlock()
	assert.NotEqual(t, firstConn, c.ConnectionID)
}
