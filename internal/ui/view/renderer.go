// Package view provides UI rendering functions.
package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/palemoky/take-eleven/internal/game/card"
	"github.com/palemoky/take-eleven/internal/game/rule"
	"github.com/palemoky/take-eleven/internal/ui/common"
	"github.com/palemoky/take-eleven/internal/ui/model"
)

// CreateViewRenderer creates a view renderer function that can be injected into OnlineModel.
func CreateViewRenderer() func(model.Model, model.GamePhase) string {
	return func(m model.Model, phase model.GamePhase) string {
		switch phase {
		case model.PhaseLobby:
			return LobbyView(m)
		case model.PhasePlaying:
			return GameView(m)
		case model.PhaseGameOver:
			return GameOverView(m)
		case model.PhaseLeaderboard:
			return LeaderboardView(m)
		case model.PhaseHistory:
			return HistoryView(m)
		case model.PhaseRules:
			return RulesView(m.Width())
		default:
			return "Unknown phase"
		}
	}
}

// RenderCard 单张牌，右上角标出牛头分
func RenderCard(c card.Card) string {
	return common.CardStyle(c).Render(fmt.Sprintf(" %3d ", int(c))) + common.DimStyle.Render(fmt.Sprintf("%d", rule.ScoreOf(c)))
}

// RenderCards 一排牌
func RenderCards(cards []card.Card) string {
	if len(cards) == 0 {
		return common.DimStyle.Render("(无)")
	}
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = RenderCard(c)
	}
	return strings.Join(parts, " ")
}

// renderFooter 通知、牌局记录和输入框
func renderFooter(m model.Model) string {
	width := m.Width()
	var sb strings.Builder

	if n := m.GetCurrentNotification(); n != nil {
		style := common.InfoStyle
		if n.Type == model.NotifyError || n.Type == model.NotifyRateLimit {
			style = common.ErrorStyle
		}
		sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(n.Message)))
		sb.WriteString("\n")
	}

	if len(m.Events()) > 0 {
		sb.WriteString(common.BoxStyle.Render(m.EventLog().View()))
		sb.WriteString("\n")
	}

	sb.WriteString(common.PromptStyle.Render(m.Input().View()))
	return sb.String()
}
