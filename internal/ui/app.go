// Package ui implements the terminal interface: name entry, menu,
// lobby list and the lobby room with chat and the click canvas.
package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/click-arena/internal/client"
	"github.com/palemoky/click-arena/internal/profile"
	"github.com/palemoky/click-arena/internal/protocol"
	"github.com/palemoky/click-arena/internal/sound"
)

// notifyBuffer 核心通知通道容量
const notifyBuffer = 64

// requestTimeout 单次用户操作的网络超时
const requestTimeout = 15 * time.Second

// AppModel is the bubbletea root model.
type AppModel struct {
	ctrl    *client.Controller
	prof    *profile.Profile
	sounds  *sound.Manager
	soundOn bool

	screen Screen
	input  textinput.Model
	notify chan tea.Msg

	// 会话数据镜像（由核心通知驱动）
	players       map[string]protocol.PlayerInfo
	chat          []protocol.ChatEntry
	clicks        map[string]protocol.ClickMarker
	hostID        string
	localPlayerID string
	phase         client.Phase

	// 房间列表
	lobbies     []protocol.LobbyListItem
	selectedIdx int

	// 画布光标（格子坐标）
	canvas canvasState

	// 聊天输入
	chatMode  bool
	chatInput textinput.Model

	notice  string // 临时提示（错误、成为房主等）
	errText string

	width  int
	height int
}

// NewAppModel creates the root model.
func NewAppModel(ctrl *client.Controller, prof *profile.Profile, soundOn bool) *AppModel {
	input := textinput.New()
	input.Placeholder = "输入昵称"
	input.CharLimit = 20
	input.Width = 30
	input.Focus()
	if prof.Name != "" {
		input.SetValue(prof.Name)
	}

	chatInput := textinput.New()
	chatInput.Placeholder = "按 / 键聊天..."
	chatInput.CharLimit = 120
	chatInput.Width = 42

	m := &AppModel{
		ctrl:      ctrl,
		prof:      prof,
		sounds:    sound.NewManager(),
		soundOn:   soundOn,
		screen:    ScreenName,
		input:     input,
		chatInput: chatInput,
		notify:    make(chan tea.Msg, notifyBuffer),
		players:   make(map[string]protocol.PlayerInfo),
		clicks:    make(map[string]protocol.ClickMarker),
		canvas:    newCanvasState(),
	}
	bindCore(ctrl, m.notify)
	return m
}

func (m *AppModel) Init() tea.Cmd {
	if m.soundOn {
		go func() { _ = m.sounds.Init() }()
	}
	return tea.Batch(textinput.Blink, m.listenCore())
}

// listenCore waits for the next core notification.
func (m *AppModel) listenCore() tea.Cmd {
	return func() tea.Msg {
		return <-m.notify
	}
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		handled, cmd := m.handleKey(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		if handled {
			return m, tea.Batch(cmds...)
		}

	default:
		if cmd := m.handleCoreMsg(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	// 输入组件更新
	var cmd tea.Cmd
	if m.screen == ScreenRoom && m.chatMode {
		m.chatInput, cmd = m.chatInput.Update(msg)
	} else if m.screen == ScreenName || m.screen == ScreenCreate || m.screen == ScreenLobbyList {
		m.input, cmd = m.input.Update(msg)
	}
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// --- 异步操作 Cmds ---

func (m *AppModel) signInCmd(name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		account, err := m.ctrl.SignIn(ctx, name)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return SignedInMsg{Account: account}
	}
}

func (m *AppModel) createLobbyCmd(name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return JoinedMsg{Err: m.ctrl.CreateLobby(ctx, name)}
	}
}

func (m *AppModel) joinLobbyCmd(lobbyID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return JoinedMsg{Err: m.ctrl.JoinLobby(ctx, lobbyID)}
	}
}

func (m *AppModel) listLobbiesCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		lobbies, err := m.ctrl.ListLobbies(ctx)
		return LobbyListMsg{Lobbies: lobbies, Err: err}
	}
}

func (m *AppModel) leaveCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		m.ctrl.Leave(ctx)
		return LeftMsg{}
	}
}

func (m *AppModel) sendChatCmd(text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return SendResultMsg{Err: m.ctrl.SendChat(ctx, text)}
	}
}

func (m *AppModel) sendClickCmd(x, y float64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return SendResultMsg{Err: m.ctrl.SendClick(ctx, x, y)}
	}
}

func clearNoticeCmd() tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return ClearNoticeMsg{}
	})
}
