package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/palemoky/take-eleven/internal/protocol"
	"github.com/palemoky/take-eleven/internal/protocol/codec"
)

const (
	// 写入超时
	writeWait = 10 * time.Second

	// 读取超时（pong 等待时间）
	pongWait = 60 * time.Second

	// ping 发送间隔（必须小于 pongWait）
	pingPeriod = (pongWait * 9) / 10

	// 消息最大大小
	maxMessageSize = 4096

	// 超速次数超过这个值断开连接
	maxRateWarnings = 5
)

// Client 一条 WebSocket 连接，登录后代表一名玩家
type Client struct {
	ID string // 连接 ID
	IP string // 客户端 IP 地址

	server *Server
	conn   *websocket.Conn
	send   chan []byte

	mu       sync.RWMutex
	playerID string
	closed   bool
}

// NewClient 创建新客户端
func NewClient(s *Server, conn *websocket.Conn) *Client {
	return &Client{
		ID:     uuid.New().String(),
		server: s,
		conn:   conn,
		send:   make(chan []byte, 256),
	}
}

// ReadPump 从 WebSocket 读取消息
func (c *Client) ReadPump() {
	defer func() {
		c.handleDisconnect()
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	log := c.server.log.With(zap.String("conn", c.ID), zap.String("ip", c.IP))
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn("读取错误", zap.Error(err))
			}
			return
		}

		// 消息速率限制检查
		allowed, warning := c.server.messageLimiter.AllowMessage(c.ID)
		if !allowed {
			log.Warn("⚠️ 消息过于频繁")
			c.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeRateLimit, "消息发送过于频繁"))
			if c.server.messageLimiter.GetWarningCount(c.ID) > maxRateWarnings {
				log.Warn("🚫 多次超速，断开连接")
				return
			}
			continue
		}
		if warning {
			c.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeRateLimit, "请求过于频繁，请放慢速度"))
		}

		msg, err := c.server.wire.Decode(data)
		if err != nil {
			log.Debug("消息解析错误", zap.Error(err))
			c.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
			continue
		}

		c.server.handler.Handle(c, msg)
		codec.PutMessage(msg)
	}
}

// WritePump 向 WebSocket 写入消息
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	frameType := c.server.wire.FrameType()
	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// 通道已关闭
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(frameType, data); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendMessage 发送消息给客户端，缓冲区满时关闭连接
func (c *Client) SendMessage(msg *protocol.Message) {
	data, err := c.server.wire.Encode(msg)
	if err != nil {
		c.server.log.Error("消息编码错误", zap.String("type", string(msg.Type)), zap.Error(err))
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	select {
	case c.send <- data:
	default:
		c.server.log.Warn("客户端发送缓冲区已满", zap.String("conn", c.ID))
		c.closed = true
		close(c.send)
	}
}

// handleDisconnect 处理断开连接
func (c *Client) handleDisconnect() {
	c.server.handler.Disconnect(c)
	c.server.messageLimiter.RemoveClient(c.ID)
	c.server.unregisterClient(c)
	c.Close()
}

// Close 关闭客户端连接
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// GetID 连接 ID
func (c *Client) GetID() string { return c.ID }

// GetPlayerID 连接当前代表的玩家，未登录时为空
func (c *Client) GetPlayerID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerID
}

// SetPlayerID 设置连接代表的玩家
func (c *Client) SetPlayerID(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playerID = id
}
