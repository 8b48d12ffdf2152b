package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/palemoky/take-eleven/internal/client"
	"github.com/palemoky/take-eleven/internal/game/bull"
	"github.com/palemoky/take-eleven/internal/game/card"
	"github.com/palemoky/take-eleven/internal/ui/common"
	"github.com/palemoky/take-eleven/internal/ui/model"
)

// GameView 牌桌：牌堆、玩家、手牌和提示
func GameView(m model.Model) string {
	width := m.Width()
	state := m.State()

	var sb strings.Builder

	header := common.TitleStyle(fmt.Sprintf("第 %d 局  |  公共池 %s×%d", state.Round, common.BullIcon, state.FreeBull))
	sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, header))
	sb.WriteString("\n\n")

	piles := common.BoxStyle.Render(RenderPiles(state))
	players := common.BoxStyle.Render(RenderPlayerList(state.Players, state.MyNo, state.Turn))
	sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.JoinHorizontal(lipgloss.Top, piles, " ", players)))
	sb.WriteString("\n")

	if state.Registered {
		sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, RenderHand(state)))
		sb.WriteString("\n")
	}

	sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, renderTurnPrompt(state)))
	sb.WriteString("\n")

	sb.WriteString(renderFooter(m))
	return sb.String()
}

// RenderPiles 每个牌堆的堆顶和张数
func RenderPiles(state *client.GameState) string {
	if len(state.Piles) == 0 {
		return "牌桌是空的"
	}

	var sb strings.Builder
	sb.WriteString("牌堆:\n")
	for no, p := range state.Piles {
		top := common.DimStyle.Render(" 空 ")
		if p.Top != nil {
			top = RenderCard(card.Card(*p.Top))
		}
		warn := ""
		if bull.Triggers(p.Num) {
			warn = " " + common.BullIcon
		}
		fmt.Fprintf(&sb, "  %d. %s  ×%d%s\n", no, top, p.Num, warn)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// RenderHand 自己的手牌，以及每张牌能放到哪些牌堆
func RenderHand(state *client.GameState) string {
	hand := state.Hand()

	var sb strings.Builder
	fmt.Fprintf(&sb, "你的手牌 (%d 张, %d 头):\n", len(hand), state.HandHeads())
	sb.WriteString(RenderCards(hand))

	if state.MyTurn() {
		targets := state.Targets()
		var hints []string
		for _, c := range hand {
			if piles, ok := targets[c]; ok {
				nos := make([]string, len(piles))
				for i, no := range piles {
					nos[i] = fmt.Sprint(no)
				}
				hints = append(hints, fmt.Sprintf("%d→%s", c, strings.Join(nos, "/")))
			}
		}
		if len(hints) > 0 {
			sb.WriteString("\n")
			sb.WriteString(common.DimStyle.Render("可放: " + strings.Join(hints, "  ")))
		}
	}
	return sb.String()
}

func renderTurnPrompt(state *client.GameState) string {
	if !state.Registered {
		return common.DimStyle.Render("你正在观战")
	}
	if state.MyTurn() {
		stacks := bull.MaxStacks(state.Me.Bull)
		return common.InfoStyle.Render(fmt.Sprintf(
			"%s 轮到你了: push <牌堆> <牌...> / pick <牌堆> [玩家] / pass  (本回合最多 %d 个牌堆)",
			common.TurnIcon, stacks))
	}
	if p, ok := state.CurrentPlayer(); ok {
		return fmt.Sprintf("等待 %s 出牌...", p.Nickname)
	}
	return ""
}
