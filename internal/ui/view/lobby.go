package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/palemoky/take-eleven/internal/protocol"
	"github.com/palemoky/take-eleven/internal/ui/common"
	"github.com/palemoky/take-eleven/internal/ui/model"
)

// LobbyView 大厅：玩家列表和准备状态
func LobbyView(m model.Model) string {
	width := m.Width()
	state := m.State()

	var sb strings.Builder

	title := common.TitleStyle(common.BullIcon + " 牛头大厅")
	sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, title))
	sb.WriteString("\n\n")

	players := RenderPlayerList(state.Players, state.MyNo, -1)
	sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, common.BoxStyle.Render(players)))
	sb.WriteString("\n\n")

	var hint string
	switch {
	case m.IsMaintenanceMode():
		hint = "服务器维护中，暂停加入"
	case !state.Registered:
		hint = "输入 join <昵称> 加入游戏，或只输入 join 随机取名"
	default:
		hint = "输入 ready 准备 / unready 取消，所有人准备好后自动开局"
	}
	sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, common.DimStyle.Render(hint)))
	sb.WriteString("\n")

	sb.WriteString(renderFooter(m))
	return sb.String()
}

// RenderPlayerList 玩家列表，turn 为 -1 时不标出当前玩家
func RenderPlayerList(players []protocol.PlayerInfo, myNo, turn int) string {
	if len(players) == 0 {
		return "还没有玩家"
	}

	var sb strings.Builder
	sb.WriteString("玩家列表:\n")
	for no, p := range players {
		marker := "  "
		if no == turn {
			marker = common.TurnIcon
		}
		ready := common.IdleIcon
		if p.Ready {
			ready = common.ReadyIcon
		}
		me := ""
		if no == myNo {
			me = " (你)"
		}
		fmt.Fprintf(&sb, "%s %d. %s %-12s 手牌 %2d  %s×%d  累计 %d%s\n",
			marker, no, ready, common.TruncateName(p.Nickname, 12),
			p.HandNum, common.BullIcon, p.Bull, p.Head, me)
	}
	return strings.TrimRight(sb.String(), "\n")
}
