package client

import (
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/palemoky/take-eleven/internal/protocol"
	"github.com/palemoky/take-eleven/internal/protocol/codec"
)

// readPump 从服务器读取消息
func (c *Client) readPump(conn *websocket.Conn) {
	defer c.handleReadExit()

	receive, _ := c.channels()

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				if c.OnError != nil {
					c.OnError(err)
				}
			}
			return
		}

		msg, err := c.wire.Decode(data)
		if err != nil {
			c.log.Debug("消息解析错误", zap.Error(err))
			continue
		}

		c.processMessage(msg, receive)
	}
}

func (c *Client) handleReadExit() {
	if r := recover(); r != nil {
		c.log.Error("[PANIC] readPump panic recovered", zap.Any("panic", r), zap.Stack("stack"))
	}

	// 重连过程中的连接由 tryReconnect 负责
	if c.reconnecting.Load() {
		return
	}

	c.mu.RLock()
	closed := c.closed
	c.mu.RUnlock()

	// 已经登记过的玩家尝试重连
	if !closed && c.registered.Load() {
		go c.tryReconnect()
		return
	}
	c.Close()
	if c.OnClose != nil {
		c.OnClose()
	}
}

func (c *Client) processMessage(msg *protocol.Message, receive chan *protocol.Message) {
	reconnected := c.handleInternalMessage(msg)

	// 回调处理
	if c.OnMessage != nil {
		c.OnMessage(msg)
	}

	// 同时发送到 channel
	select {
	case receive <- msg:
	default:
	}

	// 重连成功回调放在最后，确保消息已经发送到 channel
	if reconnected && c.OnReconnect != nil {
		c.OnReconnect()
	}
}

// handleInternalMessage 维护连接自身关心的状态，返回是否刚刚重连成功
func (c *Client) handleInternalMessage(msg *protocol.Message) bool {
	switch msg.Type {
	case protocol.MsgConnected:
		if payload, err := codec.ParsePayload[protocol.ConnectedPayload](msg); err == nil {
			c.mu.Lock()
			c.ConnectionID = payload.ConnectionID
			c.mu.Unlock()
		}
	case protocol.MsgRegistered:
		c.registered.Store(true)
	case protocol.MsgLoggedIn:
		c.registered.Store(true)
		if c.reconnecting.CompareAndSwap(true, false) {
			c.mu.Lock()
			c.reconnectCount = 0
			c.mu.Unlock()
			return true
		}
	case protocol.MsgLoggedOut:
		c.registered.Store(false)
	case protocol.MsgError:
		// 重连后重新登录失败：服务器已经注销了这个玩家
		if c.reconnecting.CompareAndSwap(true, false) {
			c.registered.Store(false)
		}
	case protocol.MsgPong:
		if payload, err := codec.ParsePayload[protocol.PongPayload](msg); err == nil {
			latency := time.Now().UnixMilli() - payload.ClientTimestamp
			c.latency.Store(latency)
			if c.OnLatencyUpdate != nil {
				c.OnLatencyUpdate(latency)
			}
		}
	}
	return false
}

// writePump 向服务器写入消息
func (c *Client) writePump(conn *websocket.Conn, send chan []byte, done chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("[PANIC] writePump panic recovered", zap.Any("panic", r), zap.Stack("stack"))
		}
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case message, ok := <-send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := conn.WriteMessage(c.wire.FrameType(), message); err != nil {
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-done:
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
