package handler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/palemoky/take-eleven/internal/game/card"
	gamesession "github.com/palemoky/take-eleven/internal/game/session"
	"github.com/palemoky/take-eleven/internal/protocol"
	"github.com/palemoky/take-eleven/internal/protocol/codec"
	"github.com/palemoky/take-eleven/internal/server/storage"
	"github.com/palemoky/take-eleven/internal/types"
)

// 保存对局结果的超时时间
const recordTimeout = 3 * time.Second

// handleAction 处理出牌（放牌或收牌）
func (h *Handler) handleAction(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.ActionPayload](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	req := gamesession.ActionRequest{
		Stacks:   make([]gamesession.Stack, len(payload.Stacks)),
		TargetNo: payload.TargetNo,
	}
	for i, s := range payload.Stacks {
		req.Stacks[i] = gamesession.Stack{PileNo: s.PileNo, Cards: card.FromInts(s.Cards)}
	}

	result, err := h.act(payload.ID, req)
	if err != nil {
		h.sendError(client, err)
		return
	}
	if result != nil {
		h.recordRound(result)
	}
}

// act 在锁内执行操作并广播，本局结束时返回结算
func (h *Handler) act(playerID string, req gamesession.ActionRequest) (*gamesession.RoundResult, error) {
	h.gameMu.Lock()
	defer h.gameMu.Unlock()

	outcome, err := h.game.Action(playerID, req)
	if err != nil {
		return nil, err
	}

	h.broadcast(protocol.MsgGameStatus, outcome.Status)
	if !outcome.Finished() {
		return nil, nil
	}

	result := outcome.Result
	h.broadcast(protocol.MsgGameEnd, result.Payload())
	h.log.Info("🏁 本局结束",
		zap.Int("round", result.Round),
		zap.Duration("duration", result.Duration()))

	// 牌局中断线的玩家在结算后开始计时清理
	for _, p := range result.Players {
		if _, ok := h.sessionManager.GetSession(p.ID); ok && !h.sessionManager.IsOnline(p.ID) {
			h.scheduleExpire(p.ID)
		}
	}
	return result, nil
}

// recordRound 保存历史和排行榜，未启用 Redis 时跳过
func (h *Handler) recordRound(result *gamesession.RoundResult) {
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	if h.history != nil {
		if err := h.history.SaveRound(ctx, result.Record()); err != nil {
			h.log.Error("保存对局记录失败", zap.Int("round", result.Round), zap.Error(err))
		}
	}

	if h.leaderboard != nil {
		scores := make([]storage.RoundScore, len(result.Players))
		for i, p := range result.Players {
			scores[i] = storage.RoundScore{PlayerID: p.ID, Nickname: p.Nickname, NewHead: p.NewHead}
		}
		if err := h.leaderboard.RecordRound(ctx, scores); err != nil {
			h.log.Error("更新排行榜失败", zap.Int("round", result.Round), zap.Error(err))
		}
	}
}
