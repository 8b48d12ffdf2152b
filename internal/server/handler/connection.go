package handler

import (
	"time"

	"github.com/palemoky/take-eleven/internal/protocol"
	"github.com/palemoky/take-eleven/internal/protocol/codec"
	"github.com/palemoky/take-eleven/internal/types"
)

// handlePing 处理心跳消息
func (h *Handler) handlePing(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.PingPayload](msg)
	if err != nil {
		return
	}

	// 立即回复 pong
	client.SendMessage(codec.MustNewMessage(protocol.MsgPong, protocol.PongPayload{
		ClientTimestamp: payload.Timestamp,
		ServerTimestamp: time.Now().UnixMilli(),
	}))
}

// handleGetOnlineCount 获取在线人数（按需）
func (h *Handler) handleGetOnlineCount(client types.ClientInterface) {
	client.SendMessage(codec.MustNewMessage(protocol.MsgOnlineCount, protocol.OnlineCountPayload{
		Count: h.server.GetOnlineCount(),
	}))
}

// handleGetMaintenanceStatus 获取维护状态
func (h *Handler) handleGetMaintenanceStatus(client types.ClientInterface) {
	client.SendMessage(codec.MustNewMessage(protocol.MsgMaintenancePull, protocol.MaintenancePayload{
		Maintenance: h.server.IsMaintenanceMode(),
	}))
}

// Disconnect 连接断开时调用
// 断线的玩家如果在 cleanupDelay 内没有重新登录，且没有在进行的牌局，则自动退出
func (h *Handler) Disconnect(client types.ClientInterface) {
	playerID, ok := h.sessionManager.Unbind(client.GetID())
	if !ok {
		return
	}
	h.log.Sugar().Infof("📴 玩家 %s 断开连接，%v 后清理", playerID, h.cleanupDelay)
	h.scheduleExpire(playerID)
}

func (h *Handler) scheduleExpire(playerID string) {
	time.AfterFunc(h.cleanupDelay, func() { h.expire(playerID) })
}

// expire 清理长时间离线的玩家
func (h *Handler) expire(playerID string) {
	if !h.sessionManager.OfflineSince(playerID, h.cleanupDelay) {
		return
	}

	h.gameMu.Lock()
	defer h.gameMu.Unlock()

	// 牌局中的玩家保留，等待重新登录
	if h.game.Started() {
		return
	}
	started, err := h.game.Logout(playerID)
	if err != nil {
		return
	}
	h.sessionManager.DeleteSession(playerID)
	h.log.Sugar().Infof("🧹 离线玩家 %s 已自动退出", playerID)
	h.afterLobbyChange(started)
}
