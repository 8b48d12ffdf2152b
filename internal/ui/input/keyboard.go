package input

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/take-eleven/internal/ui/model"
)

// notifyError 显示 3 秒的错误提示
func notifyError(m model.Model, text string) tea.Cmd {
	m.SetNotification(model.NotifyError, "⚠️ "+text, true)
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return model.ClearSystemNotificationMsg{}
	})
}

// HandleKeyPress handles keyboard input and returns whether it was handled.
func HandleKeyPress(m model.Model, msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return true, tea.Quit

	case tea.KeyEsc:
		switch m.Phase() {
		case model.PhaseConnecting:
			return true, tea.Quit
		case model.PhaseLeaderboard, model.PhaseHistory, model.PhaseRules, model.PhaseGameOver:
			m.EnterLobby()
			return true, nil
		}
		return true, nil

	case tea.KeyPgUp, tea.KeyPgDown:
		vp, cmd := m.EventLog().Update(msg)
		*m.EventLog() = vp
		return true, cmd

	case tea.KeyEnter:
		line := m.Input().Value()
		m.Input().Reset()
		cmd, err := ParseCommand(line)
		if err != nil {
			return true, notifyError(m, err.Error())
		}
		return true, Execute(m, cmd)
	}
	return false, nil
}

// Execute 把命令发给服务器，并切换到对应的界面
func Execute(m model.Model, cmd Command) tea.Cmd {
	c := m.Client()
	var err error

	switch cmd.Kind {
	case CmdJoin:
		err = c.Register(cmd.Nickname)
	case CmdLogin:
		err = c.Login()
	case CmdReady:
		err = c.Ready(true)
	case CmdUnready:
		err = c.Ready(false)
	case CmdPush:
		err = c.Push(cmd.PileNo, cmd.Cards)
	case CmdPick:
		err = c.Pick(cmd.PileNo, cmd.Target)
	case CmdPass:
		err = c.Pass()
	case CmdFetch:
		err = c.Fetch()
	case CmdLogout:
		err = c.Logout()
	case CmdRank:
		m.SetPhase(model.PhaseLeaderboard)
		err = c.GetLeaderboard(cmd.Offset, cmd.Limit)
	case CmdHistory:
		m.SetPhase(model.PhaseHistory)
		err = c.GetHistory(cmd.Limit)
	case CmdOnline:
		err = c.GetOnlineCount()
	case CmdHelp:
		m.SetPhase(model.PhaseRules)
	case CmdQuit:
		return tea.Quit
	}

	if err != nil {
		return notifyError(m, fmt.Sprintf("发送失败: %v", err))
	}
	return nil
}
