package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/palemoky/take-eleven/internal/game/card"
	"github.com/palemoky/take-eleven/internal/protocol"
	"github.com/palemoky/take-eleven/internal/ui/common"
	"github.com/palemoky/take-eleven/internal/ui/model"
)

// GameOverView 本局结算
func GameOverView(m model.Model) string {
	width := m.Width()
	end := m.State().LastEnd

	var sb strings.Builder
	if end == nil {
		sb.WriteString("还没有结束的牌局")
	} else {
		title := common.TitleStyle(fmt.Sprintf("🏁 第 %d 局结束", end.Round))
		sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, title))
		sb.WriteString("\n\n")
		sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			common.BoxStyle.Render(RenderResults(end.Players))))
		sb.WriteString("\n")

		var piles strings.Builder
		piles.WriteString("最后的牌堆:\n")
		for no, p := range end.Piles {
			fmt.Fprintf(&piles, "  %d. %s\n", no, RenderCards(card.FromInts(p)))
		}
		sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			common.BoxStyle.Render(strings.TrimRight(piles.String(), "\n"))))
		sb.WriteString("\n")
	}

	sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		common.DimStyle.Render("输入 ready 开始下一局，ESC 返回大厅")))
	sb.WriteString("\n")
	sb.WriteString(renderFooter(m))
	return sb.String()
}

// RenderResults 每个玩家本局新增和累计的牛头分
func RenderResults(players []protocol.PlayerResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-12s %6s %6s %4s  %s\n", "玩家", "本局", "累计", common.BullIcon, "剩余手牌")
	for _, p := range players {
		fmt.Fprintf(&sb, "%-12s %6s %6d %4d  %s\n",
			common.TruncateName(p.Nickname, 12), fmt.Sprintf("+%d", p.NewHead), p.Head, p.Bull,
			RenderCards(card.FromInts(p.Hand)))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// LeaderboardView 排行榜，累计牛头少的排在前面
func LeaderboardView(m model.Model) string {
	width := m.Width()
	entries := m.State().Leaderboard

	var sb strings.Builder
	sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, common.TitleStyle("🏆 排行榜")))
	sb.WriteString("\n\n")

	var body strings.Builder
	if len(entries) == 0 {
		body.WriteString("暂无数据")
	} else {
		fmt.Fprintf(&body, "%4s  %-12s %6s %6s\n", "排名", "玩家", "牛头", "局数")
		for _, e := range entries {
			fmt.Fprintf(&body, "%4d  %-12s %6d %6d\n", e.Rank, common.TruncateName(e.Nickname, 12), e.Head, e.Rounds)
		}
	}
	sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		common.BoxStyle.Render(strings.TrimRight(body.String(), "\n"))))
	sb.WriteString("\n")

	if rank := m.State().MyRank; rank > 0 {
		sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			common.InfoStyle.Render(fmt.Sprintf("你的排名: #%d", rank))))
		sb.WriteString("\n")
	}
	sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		common.DimStyle.Render("rank <页码> 翻页，ESC 返回")))
	sb.WriteString("\n")
	sb.WriteString(renderFooter(m))
	return sb.String()
}

// HistoryView 最近几局的结果，最新的在前
func HistoryView(m model.Model) string {
	width := m.Width()
	rounds := m.State().History

	var sb strings.Builder
	sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, common.TitleStyle("📜 最近的牌局")))
	sb.WriteString("\n\n")

	var body strings.Builder
	if len(rounds) == 0 {
		body.WriteString("暂无数据")
	}
	for i, r := range rounds {
		if i > 0 {
			body.WriteString("\n")
		}
		fmt.Fprintf(&body, "第 %d 局  %s  用时 %s\n", r.Round,
			time.Unix(r.EndedAt, 0).Format("01-02 15:04"), time.Duration(r.Duration)*time.Second)
		for _, p := range r.Players {
			fmt.Fprintf(&body, "  %-12s +%d (累计 %d)\n", common.TruncateName(p.Nickname, 12), p.NewHead, p.Head)
		}
	}
	sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		common.BoxStyle.Render(strings.TrimRight(body.String(), "\n"))))
	sb.WriteString("\n")

	sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, common.DimStyle.Render("ESC 返回")))
	sb.WriteString("\n")
	sb.WriteString(renderFooter(m))
	return sb.String()
}
