package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/click-arena/internal/protocol"
	"github.com/palemoky/click-arena/internal/sound"
)

// handleCoreMsg processes async results and core state notifications.
func (m *AppModel) handleCoreMsg(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case SignedInMsg:
		m.prof.Name = msg.Account.Name
		_ = m.prof.Save()
		m.screen = ScreenMenu
		m.errText = ""
		m.input.Reset()
		return nil

	case JoinedMsg:
		if msg.Err != nil {
			m.errText = msg.Err.Error()
			m.screen = ScreenMenu
			return nil
		}
		m.enterRoom()
		return nil

	case LeftMsg:
		m.resetRoom()
		m.screen = ScreenMenu
		return nil

	case LobbyListMsg:
		if msg.Err != nil {
			m.errText = msg.Err.Error()
			m.screen = ScreenMenu
			return nil
		}
		m.lobbies = msg.Lobbies
		m.selectedIdx = 0
		m.errText = ""
		return nil

	case SendResultMsg:
		// 发送失败仅提示，不重试，也不回滚任何本地状态
		if msg.Err != nil {
			m.notice = "发送失败: " + msg.Err.Error()
			return clearNoticeCmd()
		}
		return nil

	case ErrorMsg:
		m.errText = msg.Err.Error()
		return nil

	case ClearNoticeMsg:
		m.notice = ""
		return nil

	// --- 核心状态通知，收到后继续监听 ---

	case RosterChangedMsg:
		m.players = msg.Players
		m.localPlayerID = msg.LocalPlayerID
		return m.listenCore()

	case ChatAppendedMsg:
		// 镜像始终全量拉取，避免增量追加在通知丢弃后出现漏行
		m.chat = m.ctrl.ChatLog()
		if !msg.Entry.System && msg.Entry.PlayerID != m.localPlayerID {
			m.sounds.Play(sound.CueChat)
		}
		if msg.Entry.System {
			m.sounds.Play(sound.CueJoin)
		}
		return m.listenCore()

	case ChatResyncMsg:
		m.chat = m.ctrl.ChatLog()
		return m.listenCore()

	case ChatReplacedMsg:
		m.chat = msg.Entries
		return m.listenCore()

	case ClickUpsertedMsg:
		m.clicks[msg.Marker.PlayerID] = msg.Marker
		return m.listenCore()

	case HostChangedMsg:
		m.hostID = msg.HostID
		return m.listenCore()

	case BecameHostMsg:
		// 与名单公告区分开的独立提示
		m.notice = "👑 你已成为房主"
		m.sounds.Play(sound.CueHost)
		return tea.Batch(m.listenCore(), clearNoticeCmd())

	case PhaseChangedMsg:
		m.phase = msg.Phase
		return m.listenCore()

	case PollErrorMsg:
		m.notice = fmt.Sprintf("网络波动，正在重试: %v", msg.Err)
		return tea.Batch(m.listenCore(), clearNoticeCmd())
	}

	return nil
}

// enterRoom switches to the room screen with a clean local view.
func (m *AppModel) enterRoom() {
	m.screen = ScreenRoom
	m.errText = ""
	m.notice = ""
	m.chatMode = false
	m.chatInput.Reset()
	m.chatInput.Blur()
	m.canvas = newCanvasState()
}

// resetRoom drops the room view mirror after leaving.
func (m *AppModel) resetRoom() {
	m.players = make(map[string]protocol.PlayerInfo)
	m.chat = nil
	m.clicks = make(map[string]protocol.ClickMarker)
	m.hostID = ""
	m.localPlayerID = ""
	m.input.Reset()
	m.input.Placeholder = "输入选项 (1-3)"
	m.input.Focus()
}
