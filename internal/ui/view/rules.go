package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/palemoky/take-eleven/internal/ui/common"
)

// RenderGameRules 规则和命令说明
func RenderGameRules() string {
	var sb strings.Builder

	sb.WriteString("【游戏目标】\n")
	sb.WriteString("  每局结束时手里剩下的牌按牛头计分，累计牛头越少越好。\n\n")

	sb.WriteString("【牛头分】\n")
	sb.WriteString("  3/33/63/93: 7 头；其余尾数为 3 的牌: 5 头；质数: 3 头；其他: 1 头。\n\n")

	sb.WriteString("【放牌】\n")
	sb.WriteString("  牌只能接在比它小、且相差不超过 10 的堆顶之后；堆顶大于 90 时可以绕回 1 开始接。\n")
	sb.WriteString("  手里有牛头时，一回合可以操作的牌堆数等于牛头数，每个牌堆可以连续放多张。\n\n")

	sb.WriteString("【收牌】\n")
	sb.WriteString("  把一整堆收进手里，桌上会补出新的牌堆。收走 3 张及以上的牌堆可以拿到一个牛头，\n")
	sb.WriteString("  公共池空了就要从别的玩家手里抢。收牌的回合不能再放牌。\n\n")

	sb.WriteString("【结束】\n")
	sb.WriteString("  有人出完手牌，或者桌上的牌堆都被收空时，本局结束。\n\n")

	sb.WriteString("【命令】\n")
	sb.WriteString("  join [昵称]         加入游戏\n")
	sb.WriteString("  ready / unready     准备 / 取消准备\n")
	sb.WriteString("  push <牌堆> <牌...> 放牌，例如 push 0 23 25\n")
	sb.WriteString("  pick <牌堆> [玩家]  收牌，需要抢牛头时指定玩家座位号\n")
	sb.WriteString("  pass                过\n")
	sb.WriteString("  hand                刷新手牌\n")
	sb.WriteString("  rank [页码]         排行榜\n")
	sb.WriteString("  history [局数]      最近的牌局\n")
	sb.WriteString("  logout / quit       退出游戏 / 关闭客户端\n")
	sb.WriteString("  PgUp / PgDn         翻看牌局记录\n")
	sb.WriteString("  ESC                 返回")

	return sb.String()
}

// RulesView 规则页面
func RulesView(width int) string {
	title := lipgloss.PlaceHorizontal(width, lipgloss.Center, common.TitleStyle(common.BullIcon+" 游戏规则"))
	body := lipgloss.PlaceHorizontal(width, lipgloss.Center, common.BoxStyle.Render(RenderGameRules()))
	return title + "\n\n" + body
}
