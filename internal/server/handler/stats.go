package handler

import (
	"context"

	"go.uber.org/zap"

	"github.com/palemoky/take-eleven/internal/protocol"
	"github.com/palemoky/take-eleven/internal/protocol/codec"
	"github.com/palemoky/take-eleven/internal/types"
)

const (
	defaultListLimit = 10
	maxListLimit     = 50
)

// --- 排行榜与历史 ---

// handleGetLeaderboard 获取排行榜（累计牛头少者在前）
func (h *Handler) handleGetLeaderboard(client types.ClientInterface, msg *protocol.Message) {
	if h.leaderboard == nil {
		client.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeUnknown, "排行榜未启用"))
		return
	}

	payload, err := codec.ParsePayload[protocol.GetLeaderboardPayload](msg)
	if err != nil {
		// 默认获取前 10
		payload = &protocol.GetLeaderboardPayload{Limit: defaultListLimit}
	}

	// 限制请求数量
	if payload.Limit <= 0 || payload.Limit > maxListLimit {
		payload.Limit = defaultListLimit
	}
	if payload.Offset < 0 {
		payload.Offset = 0
	}

	ctx := context.Background()
	entries, err := h.leaderboard.GetLeaderboard(ctx, payload.Offset, payload.Limit)
	if err != nil {
		h.log.Error("获取排行榜失败", zap.Error(err))
		client.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeUnknown, "获取排行榜失败"))
		return
	}

	// 转换为协议格式
	protocolEntries := make([]protocol.LeaderboardEntry, 0, len(entries))
	for _, entry := range entries {
		protocolEntries = append(protocolEntries, protocol.LeaderboardEntry{
			Rank:     entry.Rank,
			PlayerID: entry.PlayerID,
			Nickname: entry.Nickname,
			Head:     entry.Head,
			Rounds:   entry.Rounds,
		})
	}

	result := protocol.LeaderboardResultPayload{Entries: protocolEntries}
	if playerID := client.GetPlayerID(); playerID != "" {
		rank, err := h.leaderboard.GetPlayerRank(ctx, playerID)
		if err != nil {
			h.log.Warn("获取玩家排名失败", zap.String("player", playerID), zap.Error(err))
		}
		result.MyRank = rank
	}
	client.SendMessage(codec.MustNewMessage(protocol.MsgLeaderboardResult, result))
}

// handleGetHistory 获取最近几局的结算
func (h *Handler) handleGetHistory(client types.ClientInterface, msg *protocol.Message) {
	if h.history == nil {
		client.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeUnknown, "历史记录未启用"))
		return
	}

	limit := defaultListLimit
	if payload, err := codec.ParsePayload[protocol.GetHistoryPayload](msg); err == nil && payload.Limit > 0 {
		limit = min(payload.Limit, maxListLimit)
	}

	rounds, err := h.history.GetHistory(context.Background(), limit)
	if err != nil {
		h.log.Error("获取历史失败", zap.Error(err))
		client.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeUnknown, "获取历史失败"))
		return
	}

	client.SendMessage(codec.MustNewMessage(protocol.MsgHistoryResult, protocol.HistoryResultPayload{
		Rounds: rounds,
	}))
}
