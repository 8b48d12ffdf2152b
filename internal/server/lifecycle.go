package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/palemoky/take-eleven/internal/protocol"
	"github.com/palemoky/take-eleven/internal/protocol/codec"
)

// monitorStats 定期监控服务器状态
func (s *Server) monitorStats(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			var m runtime.MemStats
			runtime.ReadMemStats(&m)

			s.log.Sugar().Infof("📊 [监控] 在线: %d | 牌局进行中: %v | Goroutines: %d | 活跃连接: %d/%d | 内存: %.2f MB",
				s.GetOnlineCount(),
				s.handler.RoundInProgress(),
				runtime.NumGoroutine(),
				len(s.semaphore),
				s.maxConnections,
				float64(m.Alloc)/1024/1024)
		case <-s.stopMonitor:
			return
		}
	}
}

// EnterMaintenanceMode 进入维护模式：拒绝新连接和新玩家，正在进行的一局可以打完
func (s *Server) EnterMaintenanceMode() {
	s.maintenanceMu.Lock()
	s.maintenanceMode = true
	s.maintenanceMu.Unlock()

	s.Broadcast(codec.MustNewMessage(protocol.MsgMaintenancePush, protocol.MaintenancePayload{
		Maintenance: true,
	}))
	s.log.Info("🔧 进入维护模式：停止新连接和注册")
}

// IsMaintenanceMode 检查是否在维护模式
func (s *Server) IsMaintenanceMode() bool {
	s.maintenanceMu.RLock()
	defer s.maintenanceMu.RUnlock()
	return s.maintenanceMode
}

// GracefulShutdown 等当前这一局结束（最多 timeout）后关闭服务器
func (s *Server) GracefulShutdown(timeout time.Duration) {
	s.EnterMaintenanceMode()
	s.waitRoundEnd(timeout)
	s.sendShutdownNotification()
	s.Shutdown()
}

// waitRoundEnd 等待牌局结束，返回是否在超时前结束
func (s *Server) waitRoundEnd(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	interval := s.config.Game.ShutdownCheckIntervalDuration()
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for time.Now().Before(deadline) {
		if !s.handler.RoundInProgress() {
			delay := s.config.Game.CleanupDelay
			s.log.Sugar().Infof("✅ 牌局已结束，将在 %ds 后关闭服务器！", delay)
			s.Broadcast(codec.NewErrorMessageWithText(protocol.ErrCodeServerMaintenance,
				fmt.Sprintf("🚧 服务器将在 %d 秒后停机维护！", delay)))
			return true
		}
		s.log.Info("⏳ 等待当前牌局结束...")
		<-ticker.C
	}

	if s.handler.RoundInProgress() {
		s.log.Warn("⚠️ 超时，牌局仍在进行，强制关闭")
		return false
	}
	return true
}

// sendShutdownNotification 关闭前通知外部 webhook（SHUTDOWN_NOTIFY_URL 未设置时跳过）
func (s *Server) sendShutdownNotification() {
	url := os.Getenv("SHUTDOWN_NOTIFY_URL")
	if url == "" {
		return
	}
	if err := notify(url, os.Getenv("SHUTDOWN_NOTIFY_SECRET"), "牛头服务器已优雅关闭，开始升级吧！"); err != nil {
		s.log.Warn("发送关闭通知失败", zap.Error(err))
		return
	}
	s.log.Info("🔔 已发送关闭通知")
}

// notify 以 JSON {"text": ...} POST 到 url
func notify(url, secret, text string) error {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set("X-Notify-Secret", secret)
	}

	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

// Shutdown 等待 cleanup_delay 后关闭所有连接和外部资源
func (s *Server) Shutdown() {
	time.Sleep(s.config.Game.CleanupDelayDuration())
	s.close()
}

func (s *Server) close() {
	s.stopOnce.Do(func() { close(s.stopMonitor) })
	s.rateLimiter.Stop()

	s.clientsMu.Lock()
	for _, client := range s.clients {
		client.Close()
	}
	s.clientsMu.Unlock()

	if s.redis != nil {
		_ = s.redis.Close()
	}

	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpServer.Shutdown(ctx)
	}

	s.log.Info("服务器已关闭")
}
