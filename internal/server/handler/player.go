package handler

import (
	"go.uber.org/zap"

	gamesession "github.com/palemoky/take-eleven/internal/game/session"
	"github.com/palemoky/take-eleven/internal/protocol"
	"github.com/palemoky/take-eleven/internal/protocol/codec"
	"github.com/palemoky/take-eleven/internal/types"
)

// handleRegister 注册新玩家，昵称为空时随机生成
func (h *Handler) handleRegister(client types.ClientInterface, msg *protocol.Message) {
	if h.server.IsMaintenanceMode() {
		client.SendMessage(codec.NewErrorMessageWithText(
			protocol.ErrCodeServerMaintenance, "服务器维护中，暂停注册"))
		return
	}

	payload, err := codec.ParsePayload[protocol.RegisterPayload](msg)
	if err != nil || payload.ID == "" {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}
	if payload.Nickname == "" {
		payload.Nickname = GenerateNickname()
	}

	h.gameMu.Lock()
	defer h.gameMu.Unlock()

	no, err := h.game.Register(payload.ID, payload.Nickname)
	if err != nil {
		h.sendError(client, err)
		return
	}
	h.bind(client, payload.ID)

	client.SendMessage(codec.MustNewMessage(protocol.MsgRegistered, protocol.RegisteredPayload{
		State: protocol.StateRegisterSuccess,
		No:    no,
	}))
	h.log.Info("🙋 玩家注册", zap.String("player", payload.ID), zap.String("nickname", payload.Nickname), zap.Int("no", no))

	h.broadcast(protocol.MsgGameBasic, h.game.BasicStatus())
}

// handleLogin 已注册的玩家用新连接登录
func (h *Handler) handleLogin(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.IdentityPayload](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	h.gameMu.Lock()
	defer h.gameMu.Unlock()

	no, started, err := h.game.Login(payload.ID)
	if err != nil {
		h.sendError(client, err)
		return
	}
	h.bind(client, payload.ID)

	client.SendMessage(codec.MustNewMessage(protocol.MsgLoggedIn, protocol.LoggedInPayload{
		State:   protocol.StateLoginSuccess,
		No:      no,
		Started: started,
	}))
	h.log.Info("🔑 玩家登录", zap.String("player", payload.ID), zap.Bool("started", started))

	if started {
		h.broadcast(protocol.MsgGameStatus, h.game.DetailStatus(protocol.StateBroadcastGameStatus, nil))
	} else {
		h.broadcast(protocol.MsgGameBasic, h.game.BasicStatus())
	}
}

// handleReady 准备或取消准备，全部准备好后开局
func (h *Handler) handleReady(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.ReadyPayload](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	h.gameMu.Lock()
	defer h.gameMu.Unlock()

	started, err := h.game.SetReady(payload.ID, payload.State)
	if err != nil {
		h.sendError(client, err)
		return
	}
	h.afterLobbyChange(started)
}

// handleLogout 退出，剩下的玩家都已准备时直接开局
func (h *Handler) handleLogout(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.IdentityPayload](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	h.gameMu.Lock()
	defer h.gameMu.Unlock()

	started, err := h.game.Logout(payload.ID)
	if err != nil {
		h.sendError(client, err)
		return
	}
	h.sessionManager.DeleteSession(payload.ID)
	if client.GetPlayerID() == payload.ID {
		client.SetPlayerID("")
	}

	client.SendMessage(codec.MustNewMessage(protocol.MsgLoggedOut, protocol.LoggedOutPayload{
		State: protocol.StateLogoutSuccess,
	}))
	h.log.Info("👋 玩家退出", zap.String("player", payload.ID))

	h.afterLobbyChange(started)
}

// handleFetch 返回玩家的完整信息（含手牌）
func (h *Handler) handleFetch(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.IdentityPayload](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	h.gameMu.Lock()
	player, err := h.game.Fetch(payload.ID)
	h.gameMu.Unlock()
	if err != nil {
		h.sendError(client, err)
		return
	}

	client.SendMessage(codec.MustNewMessage(protocol.MsgFetched, protocol.FetchedPayload{
		State:  protocol.StateFetchSuccess,
		Player: gamesession.ToPlayerRecord(player),
	}))
}

// bind 记录连接代表的玩家
func (h *Handler) bind(client types.ClientInterface, playerID string) {
	h.sessionManager.Bind(client.GetID(), playerID)
	client.SetPlayerID(playerID)
}

// afterLobbyChange 大厅变化后的广播，调用方持有 gameMu
func (h *Handler) afterLobbyChange(started bool) {
	if started {
		h.log.Info("🎲 新一局开始",
			zap.Int("round", h.game.Round()),
			zap.Int("players", h.game.PlayerCount()))
		h.broadcast(protocol.MsgGameStart, h.game.DetailStatus(protocol.StateBroadcastGameStart, nil))
	}
	h.broadcast(protocol.MsgGameBasic, h.game.BasicStatus())
}
