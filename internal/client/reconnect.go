package client

import (
	"time"

	"go.uber.org/zap"

	"github.com/palemoky/take-eleven/internal/protocol"
)

// StartHeartbeat 启动心跳检测
func (c *Client) StartHeartbeat() {
	_, done := c.channels()
	go func() {
		ticker := time.NewTicker(heartbeatInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if c.IsConnected() {
					_ = c.Ping()
				}
			case <-done:
				return
			}
		}
	}()
}

// tryReconnect 断线后重新连接并用原来的玩家 ID 登录
func (c *Client) tryReconnect() {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("[PANIC] tryReconnect panic recovered", zap.Any("panic", r))
			c.reconnecting.Store(false)
		}
	}()

	if !c.reconnecting.CompareAndSwap(false, true) {
		return
	}

	// 指数退避重连策略
	backoff := c.reconnectWait

	for attempt := 1; attempt <= maxReconnectAttempts; attempt++ {
		c.mu.Lock()
		c.reconnectCount = attempt
		c.mu.Unlock()

		// 通过回调通知 UI 正在重连
		if c.OnReconnecting != nil {
			c.OnReconnecting(attempt, maxReconnectAttempts)
		}
		c.log.Info("🔄 尝试重连", zap.Int("attempt", attempt), zap.Int("max", maxReconnectAttempts))

		time.Sleep(backoff)

		// 计算下一次退避时间 (最大 30 秒)
		backoff *= 2
		if backoff > 30*time.Second {
			backoff = 30 * time.Second
		}

		conn, err := c.dial()
		if err != nil {
			c.log.Debug("重连失败", zap.Error(err))
			continue
		}

		// 重置状态
		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			_ = conn.Close()
			c.reconnecting.Store(false)
			return
		}
		c.conn = conn
		c.send = make(chan []byte, 256)
		c.receive = make(chan *protocol.Message, 256)
		c.done = make(chan struct{})
		send, done := c.send, c.done
		c.mu.Unlock()

		go c.readPump(conn)
		go c.writePump(conn, send, done)

		// 服务器在 cleanup_delay 内还保留着这个玩家
		if err := c.Login(); err != nil {
			_ = conn.Close()
			continue
		}
		return
	}

	c.log.Warn("❌ 重连失败，已达最大尝试次数")
	c.reconnecting.Store(false)
	c.Close()
	if c.OnClose != nil {
		c.OnClose()
	}
}
