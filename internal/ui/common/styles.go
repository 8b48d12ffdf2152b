// Package common provides shared styles and utilities for the UI.
package common

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/palemoky/take-eleven/internal/game/card"
	"github.com/palemoky/take-eleven/internal/game/rule"
)

// Icon constants
const (
	BullIcon  = "🐮"
	TurnIcon  = "👉"
	ReadyIcon = "✅"
	IdleIcon  = "❌"
)

// Lipgloss Styles
var (
	DocStyle    = lipgloss.NewStyle().Margin(1, 2)
	TitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("228")).Bold(true).Render
	BoxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	PromptStyle = lipgloss.NewStyle().MarginTop(1)
	ErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	InfoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	DimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	// 按牛头分上色
	SevenHeadStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#8B0000")).Bold(true)
	FiveHeadStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#CD0000")).Background(lipgloss.Color("#FFFFFF")).Bold(true)
	ThreeHeadStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8860B")).Background(lipgloss.Color("#FFFFFF")).Bold(true)
	PlainStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("#FFFFFF")).Bold(true)
)

// CardStyle 牌面颜色取决于牛头分
func CardStyle(c card.Card) lipgloss.Style {
	switch rule.ScoreOf(c) {
	case rule.HeadsThirty:
		return SevenHeadStyle
	case rule.HeadsTen:
		return FiveHeadStyle
	case rule.HeadsPrime:
		return ThreeHeadStyle
	default:
		return PlainStyle
	}
}
