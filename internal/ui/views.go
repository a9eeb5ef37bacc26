package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/palemoky/click-arena/internal/protocol"
)

// chatVisibleLines 房间内聊天面板显示的行数
const chatVisibleLines = 8

func (m *AppModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string
	switch m.screen {
	case ScreenName:
		content = m.nameView()
	case ScreenMenu:
		content = m.menuView()
	case ScreenLobbyList:
		content = m.lobbyListView()
	case ScreenCreate:
		content = m.createView()
	case ScreenJoining:
		content = m.joiningView()
	case ScreenRoom:
		content = m.roomView()
	}

	return DocStyle.Render(content)
}

func (m *AppModel) nameView() string {
	var sb strings.Builder
	sb.WriteString(TitleStyle("🎯 Click Arena"))
	sb.WriteString("\n\n请输入你的昵称：\n\n")
	sb.WriteString(m.input.View())
	sb.WriteString(PromptStyle.Render("\nEnter 确认 · Esc 退出"))
	if m.errText != "" {
		sb.WriteString("\n" + ErrorStyle.Render(m.errText))
	}
	return sb.String()
}

func (m *AppModel) menuView() string {
	var sb strings.Builder
	sb.WriteString(TitleStyle("🎯 Click Arena"))
	sb.WriteString(fmt.Sprintf("\n\n你好，%s！\n\n", m.prof.Name))
	sb.WriteString("1. 创建房间\n")
	sb.WriteString("2. 浏览房间列表\n")
	sb.WriteString("3. 退出\n")
	if m.errText != "" {
		sb.WriteString("\n" + ErrorStyle.Render(m.errText))
	}
	return sb.String()
}

func (m *AppModel) lobbyListView() string {
	var sb strings.Builder
	sb.WriteString(TitleStyle("房间列表"))
	sb.WriteString("\n\n")

	if len(m.lobbies) == 0 {
		sb.WriteString("暂无可加入的房间\n")
	}
	for i, lobby := range m.lobbies {
		line := fmt.Sprintf("%s  (%d/%d)", TruncateName(lobby.Name, 20), lobby.PlayerCount, lobby.MaxPlayers)
		if i == m.selectedIdx {
			line = SelectedStyle.Render("▸ " + line)
		} else {
			line = "  " + line
		}
		sb.WriteString(line + "\n")
	}

	sb.WriteString(PromptStyle.Render("\n↑/↓ 选择 · Enter 加入 · R 刷新 · Esc 返回"))
	if m.errText != "" {
		sb.WriteString("\n" + ErrorStyle.Render(m.errText))
	}
	return sb.String()
}

func (m *AppModel) createView() string {
	var sb strings.Builder
	sb.WriteString(TitleStyle("创建房间"))
	sb.WriteString("\n\n请输入房间名：\n\n")
	sb.WriteString(m.input.View())
	sb.WriteString(PromptStyle.Render("\nEnter 创建 · Esc 返回"))
	if m.errText != "" {
		sb.WriteString("\n" + ErrorStyle.Render(m.errText))
	}
	return sb.String()
}

func (m *AppModel) joiningView() string {
	return TitleStyle("连接中...") + "\n\n正在进入房间，请稍候"
}

func (m *AppModel) roomView() string {
	session := m.ctrl.Session()
	title := "房间"
	if session != nil {
		title = fmt.Sprintf("房间：%s", session.LobbyName)
	}

	left := lipgloss.JoinVertical(lipgloss.Left,
		renderCanvas(m.clicks, m.canvas, !m.chatMode),
		m.chatPanel(),
	)
	right := m.rosterPanel()
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)

	var sb strings.Builder
	sb.WriteString(TitleStyle(title))
	sb.WriteString("\n\n")
	sb.WriteString(body)

	if m.chatMode {
		sb.WriteString("\n" + m.chatInput.View())
	} else {
		sb.WriteString(PromptStyle.Render("\n方向键移动 · Enter 点击 · / 聊天 · Esc 离开房间"))
	}
	if m.notice != "" {
		sb.WriteString("\n" + NoticeStyle.Render(m.notice))
	}
	return sb.String()
}

// rosterPanel 玩家名单：房主带标识，离开的玩家置灰保留
func (m *AppModel) rosterPanel() string {
	players := make([]protocol.PlayerInfo, 0, len(m.players))
	for _, p := range m.players {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool { return players[i].Name < players[j].Name })

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("玩家 (%d)\n", len(players)))
	for _, p := range players {
		name := TruncateName(p.Name, 12)
		if p.ID == m.localPlayerID {
			name += " (我)"
		}
		line := markerStyle(p.Color).Render("● ") + name
		if p.IsHost {
			line += " " + HostIcon
		}
		if !p.Connected {
			line = DepartedStyle.Render("● " + name + " (已离开)")
		}
		sb.WriteString(line + "\n")
	}
	return BoxStyle.Render(sb.String())
}

// chatPanel 聊天记录（只显示最近几行）
func (m *AppModel) chatPanel() string {
	var sb strings.Builder
	start := 0
	if len(m.chat) > chatVisibleLines {
		start = len(m.chat) - chatVisibleLines
	}
	if len(m.chat) == 0 {
		sb.WriteString(SystemStyle.Render("（暂无消息）"))
	}
	for i := start; i < len(m.chat); i++ {
		entry := m.chat[i]
		if entry.System {
			sb.WriteString(SystemStyle.Render("· "+entry.Text) + "\n")
			continue
		}
		name := markerStyle(entry.Color).Render(TruncateName(entry.PlayerName, 12))
		sb.WriteString(fmt.Sprintf("%s: %s\n", name, entry.Text))
	}
	return BoxStyle.Width(canvasCols + 2).Render(strings.TrimRight(sb.String(), "\n"))
}
