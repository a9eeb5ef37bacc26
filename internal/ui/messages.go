package ui

import (
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/click-arena/internal/client"
	"github.com/palemoky/click-arena/internal/protocol"
)

// Screen 当前界面
type Screen int

const (
	ScreenName Screen = iota // 输入昵称
	ScreenMenu
	ScreenLobbyList
	ScreenCreate // 输入房间名
	ScreenJoining
	ScreenRoom
)

// --- Tea Messages ---

// SignedInMsg 登录成功
type SignedInMsg struct {
	Account *protocol.AccountInfo
}

// JoinedMsg 创建/加入房间完成
type JoinedMsg struct {
	Err error
}

// LeftMsg 已离开房间
type LeftMsg struct{}

// LobbyListMsg 房间列表结果
type LobbyListMsg struct {
	Lobbies []protocol.LobbyListItem
	Err     error
}

// SendResultMsg 出站消息（聊天/点击）结果
type SendResultMsg struct {
	Err error
}

// ErrorMsg 需要提示用户的错误
type ErrorMsg struct {
	Err error
}

// ClearNoticeMsg 清除临时提示
type ClearNoticeMsg struct{}

// --- 核心状态变更通知（由 Reconciler/Controller 回调转发） ---

// RosterChangedMsg 玩家名单变更
type RosterChangedMsg struct {
	Players       map[string]protocol.PlayerInfo
	LocalPlayerID string
}

// ChatAppendedMsg 新增一条聊天。Entry 仅用于提示音判断，
// 界面镜像始终从控制器全量拉取，通知被丢弃也不会漏行。
type ChatAppendedMsg struct {
	Entry protocol.ChatEntry
}

// ChatResyncMsg 聊天通知溢出后的补偿信号，收到后全量拉取
type ChatResyncMsg struct{}

// ChatReplacedMsg 聊天记录整体替换（快照）
type ChatReplacedMsg struct {
	Entries []protocol.ChatEntry
}

// ClickUpsertedMsg 点击标记更新
type ClickUpsertedMsg struct {
	Marker protocol.ClickMarker
}

// HostChangedMsg 房主变更
type HostChangedMsg struct {
	HostID string
}

// BecameHostMsg 本地玩家成为房主
type BecameHostMsg struct{}

// PhaseChangedMsg 连接阶段变更
type PhaseChangedMsg struct {
	Phase client.Phase
}

// PollErrorMsg 轮询瞬时失败（提示后自愈）
type PollErrorMsg struct {
	Err error
}

// bindCore wires controller and reconciler callbacks into the notify
// channel. Callbacks fire with the controller's lock held, so they only
// hand the value off. A full channel drops whole-state notifications,
// the next one repaints anyway; chat appends instead trigger a resync
// signal so no line is lost.
func bindCore(ctrl *client.Controller, ch chan tea.Msg) {
	post := func(msg tea.Msg) {
		select {
		case ch <- msg:
		default:
		}
	}

	// 聊天通知溢出时不能静默丢弃：丢的是独立的一行，不像全量消息
	// 下一条会盖过来。改为投递一次阻塞式的补偿信号。
	var resyncPending atomic.Bool
	postChat := func(msg tea.Msg) {
		select {
		case ch <- msg:
		default:
			if resyncPending.CompareAndSwap(false, true) {
				go func() {
					ch <- ChatResyncMsg{}
					resyncPending.Store(false)
				}()
			}
		}
	}

	rec := ctrl.Reconciler()
	rec.OnRosterChanged = func(players map[string]protocol.PlayerInfo, localID string) {
		post(RosterChangedMsg{Players: players, LocalPlayerID: localID})
	}
	rec.OnChatAppended = func(entry protocol.ChatEntry) {
		postChat(ChatAppendedMsg{Entry: entry})
	}
	rec.OnChatReplaced = func(entries []protocol.ChatEntry) {
		post(ChatReplacedMsg{Entries: entries})
	}
	rec.OnClickUpserted = func(marker protocol.ClickMarker) {
		post(ClickUpsertedMsg{Marker: marker})
	}
	rec.OnHostChanged = func(hostID string) {
		post(HostChangedMsg{HostID: hostID})
	}
	rec.OnBecameHost = func() {
		post(BecameHostMsg{})
	}
	ctrl.OnPhaseChanged = func(phase client.Phase) {
		post(PhaseChangedMsg{Phase: phase})
	}
	ctrl.OnPollError = func(err error) {
		post(PollErrorMsg{Err: err})
	}
}
