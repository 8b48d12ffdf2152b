// Package client 终端客户端使用的 WebSocket 连接
package client

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/palemoky/take-eleven/internal/protocol"
	"github.com/palemoky/take-eleven/internal/protocol/codec"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// 心跳检测间隔
	heartbeatInterval = 5 * time.Second
	// 最大重连次数
	maxReconnectAttempts = 5
	// 重连间隔
	reconnectInterval = 2 * time.Second
)

var (
	ErrClosed     = errors.New("connection closed")
	ErrBufferFull = errors.New("send buffer full")
	ErrTimeout    = errors.New("receive timeout")
)

// Client WebSocket 客户端
type Client struct {
	ServerURL string
	wire      codec.Wire
	log       *zap.Logger

	conn    *websocket.Conn
	send    chan []byte
	receive chan *protocol.Message
	done    chan struct{}

	// PlayerID 客户端生成的玩家 ID，重连后用它重新登录
	PlayerID     string
	ConnectionID string
	registered   atomic.Bool

	// 网络延迟（毫秒）
	latency atomic.Int64

	// 回调
	OnMessage       func(*protocol.Message) // 消息回调
	OnError         func(error)             // 错误回调
	OnClose         func()                  // 关闭回调
	OnReconnecting  func(attempt, max int)  // 正在重连回调
	OnReconnect     func()                  // 重连成功回调
	OnLatencyUpdate func(int64)             // 延迟更新回调

	mu             sync.RWMutex
	closed         bool
	reconnecting   atomic.Bool
	reconnectCount int
	reconnectWait  time.Duration
}

// NewClient 创建客户端，playerID 为空时生成一个新的
func NewClient(serverURL string, wire codec.Wire, playerID string, log *zap.Logger) *Client {
	if wire == nil {
		wire = codec.JSON{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	if playerID == "" {
		playerID = uuid.NewString()
	}
	return &Client{
		ServerURL:     serverURL,
		wire:          wire,
		log:           log,
		PlayerID:      playerID,
		send:          make(chan []byte, 256),
		receive:       make(chan *protocol.Message, 256),
		done:          make(chan struct{}),
		reconnectWait: reconnectInterval,
	}
}

func (c *Client) dial() (*websocket.Conn, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
	conn, _, err := dialer.Dial(c.ServerURL, nil)
	return conn, err
}

// Connect 连接服务器
func (c *Client) Connect() error {
	conn, err := c.dial()
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	// 启动读写协程
	go c.readPump(conn)
	go c.writePump(conn, c.send, c.done)

	return nil
}

// SendMessage 发送消息
func (c *Client) SendMessage(msg *protocol.Message) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClosed
	}

	data, err := c.wire.Encode(msg)
	if err != nil {
		return err
	}

	select {
	case c.send <- data:
		return nil
	default:
		return ErrBufferFull
	}
}

// Receive 接收消息 (阻塞)
func (c *Client) Receive() (*protocol.Message, error) {
	receive, done := c.channels()
	select {
	case msg := <-receive:
		return msg, nil
	case <-done:
		return nil, ErrClosed
	}
}

// ReceiveWithTimeout 带超时接收消息
func (c *Client) ReceiveWithTimeout(timeout time.Duration) (*protocol.Message, error) {
	receive, done := c.channels()
	select {
	case msg := <-receive:
		return msg, nil
	case <-time.After(timeout):
		return nil, ErrTimeout
	case <-done:
		return nil, ErrClosed
	}
}

func (c *Client) channels() (chan *protocol.Message, chan struct{}) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.receive, c.done
}

// Close 关闭连接
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.done)
		if c.conn != nil {
			_ = c.conn.Close()
		}
	}
}

// IsConnected 是否已连接
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.closed && c.conn != nil
}

// Latency 最近一次 ping 的往返延迟（毫秒）
func (c *Client) Latency() int64 {
	return c.latency.Load()
}

// IsReconnecting 是否正在重连
func (c *Client) IsReconnecting() bool {
	return c.reconnecting.Load()
}
