// Package handler processes server messages.
package handler

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/take-eleven/internal/protocol"
	"github.com/palemoky/take-eleven/internal/protocol/codec"
	"github.com/palemoky/take-eleven/internal/sound"
	"github.com/palemoky/take-eleven/internal/ui/common"
	"github.com/palemoky/take-eleven/internal/ui/model"
)

// messageHandler 消息处理函数类型
type messageHandler func(m model.Model, msg *protocol.Message) tea.Cmd

// messageHandlers 状态已经由 GameState 更新，这里只处理界面
var messageHandlers = map[protocol.MessageType]messageHandler{
	protocol.MsgRegistered:      handleMsgRegistered,
	protocol.MsgLoggedIn:        handleMsgLoggedIn,
	protocol.MsgLoggedOut:       handleMsgLoggedOut,
	protocol.MsgGameStart:       handleMsgGameStart,
	protocol.MsgGameStatus:      handleMsgGameStatus,
	protocol.MsgGameEnd:         handleMsgGameEnd,
	protocol.MsgOnlineCount:     handleMsgOnlineCount,
	protocol.MsgError:           handleMsgError,
	protocol.MsgMaintenancePush: handleMsgMaintenance,
	protocol.MsgMaintenancePull: handleMsgMaintenance,
}

// HandleServerMessage 先更新牌桌状态，再分发给对应的处理函数
func HandleServerMessage(m model.Model, msg *protocol.Message) tea.Cmd {
	refetch, err := m.State().Apply(msg)
	if err != nil {
		m.AddEvent(common.ErrorStyle.Render(fmt.Sprintf("消息解析错误 (%s): %v", msg.Type, err)))
		return nil
	}
	if refetch {
		_ = m.Client().Fetch()
	}

	if handler, ok := messageHandlers[msg.Type]; ok {
		return handler(m, msg)
	}
	return nil
}

func handleMsgRegistered(m model.Model, _ *protocol.Message) tea.Cmd {
	m.AddEvent(common.InfoStyle.Render(fmt.Sprintf("🎉 注册成功，座位号 %d，输入 ready 准备", m.State().MyNo)))
	return nil
}

func handleMsgLoggedIn(m model.Model, _ *protocol.Message) tea.Cmd {
	m.AddEvent(common.InfoStyle.Render(fmt.Sprintf("🔑 已登录，座位号 %d", m.State().MyNo)))
	m.EnterLobby()
	return nil
}

func handleMsgLoggedOut(m model.Model, _ *protocol.Message) tea.Cmd {
	m.AddEvent("👋 已退出，输入 join <昵称> 重新加入")
	m.EnterLobby()
	return nil
}

func handleMsgGameStart(m model.Model, _ *protocol.Message) tea.Cmd {
	m.AddEvent(common.TitleStyle(fmt.Sprintf("🎲 第 %d 局开始", m.State().Round)))
	m.SetPhase(model.PhasePlaying)
	if m.State().MyTurn() {
		m.PlaySound(sound.MyTurn)
	}
	return nil
}

func handleMsgGameStatus(m model.Model, _ *protocol.Message) tea.Cmd {
	state := m.State()
	if line := DescribeDiff(state.Players, state.LastDiff); line != "" {
		m.AddEvent(line)
	}
	if name := diffSound(state.MyNo, state.LastDiff); name != "" {
		m.PlaySound(name)
	} else if state.MyTurn() {
		m.PlaySound(sound.MyTurn)
	}
	return nil
}

// diffSound 和自己有关的牛变化优先于轮到自己的提示
func diffSound(myNo int, diff *protocol.DiffInfo) string {
	if diff == nil || myNo < 0 {
		return ""
	}
	if diff.TargetNo != nil && *diff.TargetNo == myNo {
		return sound.LostBull
	}
	if diff.PlayerNo == myNo && diff.BullDiff > 0 {
		return sound.GotBull
	}
	return ""
}

func handleMsgGameEnd(m model.Model, msg *protocol.Message) tea.Cmd {
	payload, err := codec.ParsePayload[protocol.GameEndPayload](msg)
	if err != nil {
		return nil
	}
	parts := make([]string, len(payload.Players))
	for i, p := range payload.Players {
		parts[i] = fmt.Sprintf("%s +%d", p.Nickname, p.NewHead)
	}
	m.AddEvent(common.TitleStyle(fmt.Sprintf("🏁 第 %d 局结束: %s", payload.Round, strings.Join(parts, ", "))))
	m.SetPhase(model.PhaseGameOver)
	m.PlaySound(sound.RoundOver)
	return nil
}

func handleMsgOnlineCount(m model.Model, _ *protocol.Message) tea.Cmd {
	m.SetNotification(model.NotifyOnlineCount, fmt.Sprintf("🌐 在线 %d 人", m.State().OnlineCount), false)
	return nil
}

func handleMsgError(m model.Model, _ *protocol.Message) tea.Cmd {
	e := m.State().LastError
	notifyType := model.NotifyError
	if e.Code == protocol.ErrCodeRateLimit {
		notifyType = model.NotifyRateLimit
	}
	m.SetNotification(notifyType, "⚠️ "+e.Message, true)
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return model.ClearSystemNotificationMsg{}
	})
}

func handleMsgMaintenance(m model.Model, msg *protocol.Message) tea.Cmd {
	payload, err := codec.ParsePayload[protocol.MaintenancePayload](msg)
	if err != nil {
		return nil
	}
	m.SetMaintenanceMode(payload.Maintenance)
	if payload.Maintenance {
		m.SetNotification(model.NotifyMaintenance, "🔧 服务器维护中，当前这一局结束后停止服务", false)
	} else {
		m.ClearNotification(model.NotifyMaintenance)
	}
	return nil
}

// DescribeDiff 把一次操作转换为一行文字
func DescribeDiff(players []protocol.PlayerInfo, diff *protocol.DiffInfo) string {
	if diff == nil {
		return ""
	}
	name := func(no int) string {
		if no >= 0 && no < len(players) {
			return players[no].Nickname
		}
		return fmt.Sprintf("#%d", no)
	}

	var sb strings.Builder
	sb.WriteString(name(diff.PlayerNo))

	switch {
	case diff.PileDecNo >= 0:
		fmt.Fprintf(&sb, " 收走了第 %d 堆", diff.PileDecNo)
	case len(diff.PilesInc) == 0:
		sb.WriteString(" 过")
	default:
		incs := make([]string, len(diff.PilesInc))
		for i, inc := range diff.PilesInc {
			incs[i] = fmt.Sprintf("第 %d 堆 +%d", inc.No, inc.Num)
		}
		sb.WriteString(" 放牌: " + strings.Join(incs, ", "))
	}

	if diff.BullDiff > 0 {
		if diff.TargetNo != nil {
			fmt.Fprintf(&sb, "，从 %s 手里抢走 %d 个%s", name(*diff.TargetNo), diff.BullDiff, common.BullIcon)
		} else {
			fmt.Fprintf(&sb, "，拿到 %d 个%s", diff.BullDiff, common.BullIcon)
		}
	}
	return sb.String()
}
