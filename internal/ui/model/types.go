// Package model holds the terminal client state shared by the handler, input and view packages.
package model

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/palemoky/take-eleven/internal/client"
	"github.com/palemoky/take-eleven/internal/protocol"
)

// GamePhase 当前显示的界面
type GamePhase int

const (
	PhaseConnecting GamePhase = iota
	PhaseLobby
	PhasePlaying
	PhaseGameOver
	PhaseLeaderboard
	PhaseHistory
	PhaseRules
)

// NotificationType 通知类型，数值越小显示优先级越高
type NotificationType int

const (
	NotifyError NotificationType = iota
	NotifyRateLimit
	NotifyReconnecting
	NotifyReconnectSuccess
	NotifyMaintenance
	NotifyOnlineCount
)

// SystemNotification 顶部提示条；Temporary 的通知由定时消息清除
type SystemNotification struct {
	Message   string
	Type      NotificationType
	Temporary bool
}

type (
	// ServerMessage 服务器推送的消息
	ServerMessage struct{ Msg *protocol.Message }

	ConnectedMsg       struct{}
	ConnectionErrorMsg struct{ Err error }

	ReconnectingMsg struct {
		Attempt  int
		MaxTries int
	}
	ReconnectSuccessMsg struct{}

	ClearReconnectMsg          struct{}
	ClearSystemNotificationMsg struct{}
)

// SoundPlayer plays a named sound effect.
type SoundPlayer interface {
	Play(name string)
}

// Model 由 OnlineModel 实现，handler/input/view 只依赖这个接口
type Model interface {
	Phase() GamePhase
	SetPhase(GamePhase)
	EnterLobby()

	Client() *client.Client
	State() *client.GameState

	Input() *textinput.Model
	EventLog() *viewport.Model
	AddEvent(line string)
	Events() []string

	SetNotification(notifyType NotificationType, message string, temporary bool)
	ClearNotification(notifyType NotificationType)
	GetCurrentNotification() *SystemNotification

	IsMaintenanceMode() bool
	SetMaintenanceMode(bool)

	PlaySound(name string)

	Width() int
	Height() int
}
