package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/palemoky/take-eleven/internal/client"
	"github.com/palemoky/take-eleven/internal/protocol"
	"github.com/palemoky/take-eleven/internal/ui/common"
)

const (
	maxEvents    = 200
	eventLogRows = 6
)

// OnlineModel is the main model of the terminal client.
type OnlineModel struct {
	client *client.Client
	state  *client.GameState
	phase  GamePhase
	error  string

	// Reconnect state
	reconnecting  bool
	reconnectChan chan tea.Msg

	// Maintenance mode
	maintenanceMode bool

	sound SoundPlayer

	// System notifications
	notifications map[NotificationType]*SystemNotification

	// UI components
	input    *textinput.Model
	eventLog *viewport.Model
	events   []string
	width    int
	height   int

	// View renderer (injected to break circular import)
	viewRenderer func(Model, GamePhase) string

	// Key handler (injected to break circular import)
	keyHandler func(Model, tea.KeyMsg) (bool, tea.Cmd)

	// Server message handler (injected to break circular import)
	serverMessageHandler func(Model, *protocol.Message) tea.Cmd
}

// NewOnlineModel creates a new OnlineModel.
func NewOnlineModel(c *client.Client) *OnlineModel {
	ti := textinput.New()
	ti.Placeholder = "join <昵称> 加入游戏，help 查看命令"
	ti.CharLimit = 64
	ti.Width = 40
	ti.Focus()

	vp := viewport.New(60, eventLogRows)

	reconnectChan := make(chan tea.Msg, 10)

	m := &OnlineModel{
		client:        c,
		state:         client.NewGameState(),
		phase:         PhaseConnecting,
		input:         &ti,
		eventLog:      &vp,
		reconnectChan: reconnectChan,
		notifications: make(map[NotificationType]*SystemNotification),
	}

	// Set up reconnect callbacks
	c.OnReconnecting = func(attempt, maxTries int) {
		select {
		case reconnectChan <- ReconnectingMsg{Attempt: attempt, MaxTries: maxTries}:
		default:
		}
	}

	c.OnReconnect = func() {
		select {
		case reconnectChan <- ReconnectSuccessMsg{}:
		default:
		}
	}

	return m
}

func (m *OnlineModel) Init() tea.Cmd {
	return tea.Batch(m.dial(), textinput.Blink, m.nextReconnectEvent())
}

// nextReconnectEvent 等待客户端的下一个重连事件
func (m *OnlineModel) nextReconnectEvent() tea.Cmd {
	return func() tea.Msg { return <-m.reconnectChan }
}

func (m *OnlineModel) dial() tea.Cmd {
	return func() tea.Msg {
		if err := m.client.Connect(); err != nil {
			return ConnectionErrorMsg{Err: err}
		}
		return ConnectedMsg{}
	}
}

// nextServerMessage 阻塞读取下一条服务器消息，连接断开时不再继续监听
func (m *OnlineModel) nextServerMessage() tea.Cmd {
	if !m.client.IsConnected() {
		return nil
	}
	return func() tea.Msg {
		msg, err := m.client.Receive()
		if err != nil {
			return ConnectionErrorMsg{Err: err}
		}
		return ServerMessage{Msg: msg}
	}
}

// --- Model interface implementation ---

func (m *OnlineModel) Phase() GamePhase           { return m.phase }
func (m *OnlineModel) SetPhase(phase GamePhase)   { m.phase = phase }
func (m *OnlineModel) Client() *client.Client     { return m.client }
func (m *OnlineModel) State() *client.GameState   { return m.state }
func (m *OnlineModel) Input() *textinput.Model    { return m.input }
func (m *OnlineModel) EventLog() *viewport.Model  { return m.eventLog }
func (m *OnlineModel) Events() []string           { return m.events }
func (m *OnlineModel) Width() int                 { return m.width }
func (m *OnlineModel) Height() int                { return m.height }
func (m *OnlineModel) IsMaintenanceMode() bool    { return m.maintenanceMode }
func (m *OnlineModel) SetMaintenanceMode(on bool) { m.maintenanceMode = on }

// AddEvent 追加一行牌局记录，只保留最近 maxEvents 行
func (m *OnlineModel) AddEvent(line string) {
	m.events = append(m.events, line)
	if len(m.events) > maxEvents {
		m.events = m.events[len(m.events)-maxEvents:]
	}
	m.eventLog.SetContent(strings.Join(m.events, "\n"))
	m.eventLog.GotoBottom()
}

func (m *OnlineModel) SetNotification(notifyType NotificationType, message string, temporary bool) {
	m.notifications[notifyType] = &SystemNotification{Message: message, Type: notifyType, Temporary: temporary}
}

func (m *OnlineModel) ClearNotification(notifyType NotificationType) {
	delete(m.notifications, notifyType)
}

// GetCurrentNotification 同时存在多条通知时按类型的先后取第一条
func (m *OnlineModel) GetCurrentNotification() *SystemNotification {
	for t := NotifyError; t <= NotifyOnlineCount; t++ {
		if n, ok := m.notifications[t]; ok {
			return n
		}
	}
	return nil
}

// EnterLobby 回到大厅；牌局进行中时回到牌桌
func (m *OnlineModel) EnterLobby() {
	m.error = ""
	if m.state.Started {
		m.phase = PhasePlaying
	} else {
		m.phase = PhaseLobby
	}
	m.input.Focus()
}

// Error returns the current error message.
func (m *OnlineModel) Error() string { return m.error }

// IsReconnecting returns whether the model is reconnecting.
func (m *OnlineModel) IsReconnecting() bool { return m.reconnecting }

func clearAfter(d time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}

// Update handles tea messages.
func (m *OnlineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.eventLog.Width = max(msg.Width-8, 20)
	case ConnectedMsg:
		cmd = m.onConnected()
	case ConnectionErrorMsg:
		m.error = fmt.Sprintf("无法连接到服务器: %v\n\n按 ESC 退出", msg.Err)
		m.phase = PhaseConnecting
	case ReconnectingMsg:
		m.reconnecting = true
		m.SetNotification(NotifyReconnecting, fmt.Sprintf("🔄 正在重连 (%d/%d)...", msg.Attempt, msg.MaxTries), false)
		cmd = m.nextReconnectEvent()
	case ReconnectSuccessMsg:
		cmd = m.onReconnected()
	case ClearReconnectMsg:
		m.ClearNotification(NotifyReconnectSuccess)
		_ = m.client.GetOnlineCount()
	case ClearSystemNotificationMsg:
		m.ClearNotification(NotifyError)
		m.ClearNotification(NotifyRateLimit)
	case ServerMessage:
		cmd = m.onServerMessage(msg.Msg)
	case tea.KeyMsg:
		if m.keyHandler != nil {
			handled, keyCmd := m.keyHandler(m, msg)
			if handled {
				return m, keyCmd
			}
			cmd = keyCmd
		}
	}

	input, inputCmd := m.input.Update(msg)
	*m.input = input
	return m, tea.Batch(cmd, inputCmd)
}

func (m *OnlineModel) onConnected() tea.Cmd {
	m.EnterLobby()
	m.client.StartHeartbeat()
	m.AddEvent(common.InfoStyle.Render("✅ 已连接服务器"))
	return m.nextServerMessage()
}

// onReconnected 重连后原来的消息监听已经随旧连接退出，需要重新监听
func (m *OnlineModel) onReconnected() tea.Cmd {
	m.reconnecting = false
	m.ClearNotification(NotifyReconnecting)
	m.ClearNotification(NotifyError)
	m.SetNotification(NotifyReconnectSuccess, "✅ 重连成功！", true)
	return tea.Batch(
		clearAfter(3*time.Second, ClearReconnectMsg{}),
		m.nextReconnectEvent(),
		m.nextServerMessage(),
	)
}

func (m *OnlineModel) onServerMessage(msg *protocol.Message) tea.Cmd {
	var cmd tea.Cmd
	if m.serverMessageHandler != nil {
		cmd = m.serverMessageHandler(m, msg)
	}
	return tea.Batch(cmd, m.nextServerMessage())
}

// View renders the model.
func (m *OnlineModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	switch {
	case m.phase == PhaseConnecting:
		return common.DocStyle.Render(m.connectingView())
	case m.viewRenderer == nil:
		return common.DocStyle.Render("View renderer not initialized")
	}
	return common.DocStyle.Render(m.viewRenderer(m, m.phase))
}

// SetSoundPlayer sets the sound effect player, nil mutes the client.
func (m *OnlineModel) SetSoundPlayer(p SoundPlayer) {
	m.sound = p
}

// PlaySound plays a sound effect if a player is set.
func (m *OnlineModel) PlaySound(name string) {
	if m.sound != nil {
		m.sound.Play(name)
	}
}

// SetViewRenderer sets the view rendering function.
func (m *OnlineModel) SetViewRenderer(fn func(Model, GamePhase) string) {
	m.viewRenderer = fn
}

// SetKeyHandler sets the keyboard event handler function.
func (m *OnlineModel) SetKeyHandler(fn func(Model, tea.KeyMsg) (bool, tea.Cmd)) {
	m.keyHandler = fn
}

// SetServerMessageHandler sets the server message handler function.
func (m *OnlineModel) SetServerMessageHandler(fn func(Model, *protocol.Message) tea.Cmd) {
	m.serverMessageHandler = fn
}

func (m *OnlineModel) connectingView() string {
	text := "正在连接服务器..."
	if m.error != "" {
		text = common.ErrorStyle.Render(m.error)
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, text)
}
