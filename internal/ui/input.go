package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// handleKey processes keyboard input per screen.
// Returns handled=true when the key must not reach the text inputs.
func (m *AppModel) handleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return true, tea.Quit
	}

	switch m.screen {
	case ScreenName:
		return m.handleNameKey(msg)
	case ScreenMenu:
		return m.handleMenuKey(msg)
	case ScreenLobbyList:
		return m.handleLobbyListKey(msg)
	case ScreenCreate:
		return m.handleCreateKey(msg)
	case ScreenJoining:
		return true, nil // 等待结果，屏蔽输入
	case ScreenRoom:
		return m.handleRoomKey(msg)
	}
	return false, nil
}

func (m *AppModel) handleNameKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return true, tea.Quit
	case tea.KeyEnter:
		name := strings.TrimSpace(m.input.Value())
		if name == "" {
			m.errText = "昵称不能为空"
			return true, nil
		}
		m.errText = ""
		return true, m.signInCmd(name)
	}
	return false, nil
}

func (m *AppModel) handleMenuKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case "1", "c":
		m.screen = ScreenCreate
		m.errText = ""
		m.input.Reset()
		m.input.Placeholder = "输入房间名"
		m.input.Focus()
		return true, nil
	case "2", "l":
		m.screen = ScreenLobbyList
		m.errText = ""
		m.lobbies = nil
		return true, m.listLobbiesCmd()
	case "3", "q":
		return true, tea.Quit
	case "esc":
		return true, tea.Quit
	}
	return true, nil
}

func (m *AppModel) handleLobbyListKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.screen = ScreenMenu
		return true, nil
	case tea.KeyUp:
		if len(m.lobbies) > 0 {
			m.selectedIdx--
			if m.selectedIdx < 0 {
				m.selectedIdx = len(m.lobbies) - 1
			}
		}
		return true, nil
	case tea.KeyDown:
		if len(m.lobbies) > 0 {
			m.selectedIdx++
			if m.selectedIdx >= len(m.lobbies) {
				m.selectedIdx = 0
			}
		}
		return true, nil
	case tea.KeyEnter:
		if len(m.lobbies) == 0 {
			return true, nil
		}
		m.screen = ScreenJoining
		return true, m.joinLobbyCmd(m.lobbies[m.selectedIdx].ID)
	}

	if msg.String() == "r" {
		return true, m.listLobbiesCmd()
	}
	return true, nil
}

func (m *AppModel) handleCreateKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.screen = ScreenMenu
		m.input.Reset()
		return true, nil
	case tea.KeyEnter:
		name := strings.TrimSpace(m.input.Value())
		if name == "" {
			m.errText = "房间名不能为空"
			return true, nil
		}
		m.errText = ""
		m.screen = ScreenJoining
		return true, m.createLobbyCmd(name)
	}
	return false, nil
}

func (m *AppModel) handleRoomKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	// 聊天模式：输入框接管按键
	if m.chatMode {
		switch msg.Type {
		case tea.KeyEsc:
			m.chatMode = false
			m.chatInput.Reset()
			m.chatInput.Blur()
			return true, nil
		case tea.KeyEnter:
			text := strings.TrimSpace(m.chatInput.Value())
			m.chatInput.Reset()
			m.chatMode = false
			m.chatInput.Blur()
			if text == "" {
				return true, nil
			}
			return true, m.sendChatCmd(text)
		}
		return false, nil
	}

	// 画布模式
	switch msg.Type {
	case tea.KeyEsc:
		return true, m.leaveCmd()
	case tea.KeyUp, tea.KeyDown, tea.KeyLeft, tea.KeyRight:
		m.canvas.move(msg.Type)
		return true, nil
	case tea.KeyEnter, tea.KeySpace:
		x, y := m.canvas.normalized()
		return true, m.sendClickCmd(x, y)
	}

	if msg.String() == "/" {
		m.chatMode = true
		m.chatInput.Focus()
		return true, nil
	}
	return true, nil
}
