package handler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/palemoky/take-eleven/internal/apperrors"
	gamesession "github.com/palemoky/take-eleven/internal/game/session"
	"github.com/palemoky/take-eleven/internal/protocol"
	"github.com/palemoky/take-eleven/internal/protocol/codec"
	"github.com/palemoky/take-eleven/internal/server/session"
	"github.com/palemoky/take-eleven/internal/server/storage"
	"github.com/palemoky/take-eleven/internal/types"
)

// HistoryStore 对局历史存储
type HistoryStore interface {
	SaveRound(ctx context.Context, record protocol.RoundRecord) error
	GetHistory(ctx context.Context, limit int) ([]protocol.RoundRecord, error)
}

// Leaderboard 排行榜
type Leaderboard interface {
	RecordRound(ctx context.Context, scores []storage.RoundScore) error
	GetLeaderboard(ctx context.Context, offset, limit int) ([]storage.LeaderboardEntry, error)
	GetPlayerRank(ctx context.Context, playerID string) (int64, error)
}

// HandlerDeps 处理器依赖，History 和 Leaderboard 未启用 Redis 时为空
type HandlerDeps struct {
	Server         types.ServerInterface
	Game           *gamesession.GameSession
	SessionManager *session.SessionManager
	History        HistoryStore
	Leaderboard    Leaderboard
	Logger         *zap.Logger
	CleanupDelay   time.Duration // 断线玩家自动退出前的等待时间
}

// Handler 消息处理器
type Handler struct {
	server         types.ServerInterface
	sessionManager *session.SessionManager
	history        HistoryStore
	leaderboard    Leaderboard
	log            *zap.Logger
	cleanupDelay   time.Duration
	handlers       map[protocol.MessageType]handlerFunc

	// game 不是并发安全的，所有访问都要持有 gameMu
	game   *gamesession.GameSession
	gameMu sync.Mutex
}

// handlerFunc 统一的处理器函数签名
type handlerFunc func(client types.ClientInterface, msg *protocol.Message)

// NewHandler 创建处理器
func NewHandler(deps HandlerDeps) *Handler {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	sm := deps.SessionManager
	if sm == nil {
		sm = session.NewSessionManager()
	}
	h := &Handler{
		server:         deps.Server,
		game:           deps.Game,
		sessionManager: sm,
		history:        deps.History,
		leaderboard:    deps.Leaderboard,
		log:            log,
		cleanupDelay:   deps.CleanupDelay,
	}
	h.initHandlers()
	return h
}

// initHandlers 初始化消息处理器映射
func (h *Handler) initHandlers() {
	h.handlers = map[protocol.MessageType]handlerFunc{
		// 连接操作
		protocol.MsgPing: h.handlePing,

		// 玩家操作
		protocol.MsgRegister: h.handleRegister,
		protocol.MsgLogin:    h.handleLogin,
		protocol.MsgReady:    h.handleReady,
		protocol.MsgLogout:   h.handleLogout,
		protocol.MsgFetch:    h.handleFetch,

		// 游戏操作
		protocol.MsgAction: h.handleAction,

		// 信息查询
		protocol.MsgGetLeaderboard:       h.handleGetLeaderboard,
		protocol.MsgGetHistory:           h.handleGetHistory,
		protocol.MsgGetOnlineCount:       func(c types.ClientInterface, _ *protocol.Message) { h.handleGetOnlineCount(c) },
		protocol.MsgGetMaintenanceStatus: func(c types.ClientInterface, _ *protocol.Message) { h.handleGetMaintenanceStatus(c) },
	}
}

// Handle 处理消息
func (h *Handler) Handle(client types.ClientInterface, msg *protocol.Message) {
	if handler, ok := h.handlers[msg.Type]; ok {
		handler(client, msg)
		return
	}

	h.log.Warn("⚠️ 未知消息类型",
		zap.String("type", string(msg.Type)),
		zap.String("conn", client.GetID()),
		zap.Int("payload_bytes", len(msg.Payload)))
	client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
}

// sendError 把错误转换为错误消息，游戏错误带上对应的错误码
func (h *Handler) sendError(client types.ClientInterface, err error) {
	var gameErr *apperrors.GameError
	if errors.As(err, &gameErr) {
		client.SendMessage(codec.NewErrorMessage(gameErr.Code))
		return
	}
	h.log.Error("处理请求失败", zap.String("conn", client.GetID()), zap.Error(err))
	client.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeUnknown, err.Error()))
}

// broadcast 广播给所有连接
func (h *Handler) broadcast(msgType protocol.MessageType, payload any) {
	h.server.Broadcast(codec.MustNewMessage(msgType, payload))
}

// RoundInProgress 是否有一局正在进行
func (h *Handler) RoundInProgress() bool {
	h.gameMu.Lock()
	defer h.gameMu.Unlock()
	return h.game.Started()
}
