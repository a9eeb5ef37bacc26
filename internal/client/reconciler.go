package client

import (
	"fmt"
	"time"

	"github.com/palemoky/click-arena/internal/protocol"
)

// DefaultChatLimit is the chat log bound used when none is configured.
const DefaultChatLimit = 100

// Reconciler owns the lobby mirror and applies inbound events to it.
// Every mutation is total: an event either fully applies or (for unknown
// kinds) is ignored, the mirror is never left half-updated.
//
// 回调均为可选；每次 Apply 只触发受影响切片的回调。
type Reconciler struct {
	state         *LobbyState
	chatLimit     int
	localPlayerID string

	// 回调
	OnRosterChanged func(players map[string]protocol.PlayerInfo, localPlayerID string)
	OnChatAppended  func(entry protocol.ChatEntry)
	OnChatReplaced  func(entries []protocol.ChatEntry)
	OnClickUpserted func(marker protocol.ClickMarker)
	OnHostChanged   func(newHostID string)
	OnBecameHost    func() // 本地玩家成为房主时额外触发
}

// NewReconciler creates a reconciler with the given chat log bound.
func NewReconciler(chatLimit int) *Reconciler {
	if chatLimit <= 0 {
		chatLimit = DefaultChatLimit
	}
	return &Reconciler{
		state:     NewLobbyState(),
		chatLimit: chatLimit,
	}
}

// State returns the lobby mirror. Callers must not mutate it directly.
func (r *Reconciler) State() *LobbyState { return r.state }

// SetLocalPlayer records which roster entry is the local player,
// used to surface the "you are now host" notification.
func (r *Reconciler) SetLocalPlayer(playerID string) {
	r.localPlayerID = playerID
}

// LocalPlayerID returns the local player's roster id.
func (r *Reconciler) LocalPlayerID() string { return r.localPlayerID }

// SeedLocalPlayer places the local player into the roster as a
// placeholder before the snapshot lands. 快照确认前保持未在线，
// 也不外发通知，紧随其后的快照落位会整体覆盖。
func (r *Reconciler) SeedLocalPlayer(p protocol.PlayerInfo) {
	r.localPlayerID = p.ID
	p.Connected = false
	r.state.Players[p.ID] = p
}

// SeedFromSnapshot replaces the whole mirror with the authoritative
// server snapshot. 全量覆盖而非合并：快照即该时刻的真实状态。
func (r *Reconciler) SeedFromSnapshot(snap *protocol.LobbySnapshot) {
	r.state.Reset()

	for id, p := range snap.Players {
		r.state.Players[id] = p
	}
	r.state.Chat = append(r.state.Chat, snap.ChatHistory...)
	r.trimChat()
	for id, m := range snap.Clicks {
		r.state.Clicks[id] = m
	}
	r.state.HostID = snap.HostID

	if r.OnRosterChanged != nil {
		r.OnRosterChanged(r.state.PlayersCopy(), r.localPlayerID)
	}
	if r.OnChatReplaced != nil {
		r.OnChatReplaced(r.state.ChatCopy())
	}
	for _, m := range snap.Clicks {
		if r.OnClickUpserted != nil {
			r.OnClickUpserted(m)
		}
	}
	if r.OnHostChanged != nil {
		r.OnHostChanged(snap.HostID)
	}
}

// Reset discards the whole mirror.
func (r *Reconciler) Reset() {
	r.state.Reset()
	r.localPlayerID = ""
}

// Apply dispatches one inbound event onto the mirror.
// Unknown kinds are ignored so new event types never break old clients.
func (r *Reconciler) Apply(ev protocol.Event) {
	switch ev.Kind {
	case protocol.EventChat:
		r.applyChat(ev.Chat)
	case protocol.EventClick:
		r.applyClick(ev.Click)
	case protocol.EventPlayerJoin:
		r.applyPlayerJoin(ev.Join)
	case protocol.EventPlayerLeave:
		r.applyPlayerLeave(ev.Leave)
	case protocol.EventHostChanged:
		r.applyHostChanged(ev.Host)
	default:
		// 未知事件类型，忽略
	}
}

// AppendSystemChat appends a locally generated system chat line,
// e.g. the "connected" notice after seeding.
func (r *Reconciler) AppendSystemChat(text string) {
	r.appendChat(protocol.ChatEntry{
		Text:      text,
		System:    true,
		Timestamp: time.Now().UnixMilli(),
	})
}

func (r *Reconciler) applyChat(p *protocol.ChatEventPayload) {
	r.appendChat(protocol.ChatEntry{
		PlayerID:   p.PlayerID,
		PlayerName: p.PlayerName,
		Color:      p.Color,
		Text:       p.Text,
		Timestamp:  p.Timestamp,
	})
}

func (r *Reconciler) applyClick(p *protocol.ClickEventPayload) {
	// 整体替换该玩家的标记（last-write-wins）
	marker := protocol.ClickMarker{
		PlayerID:   p.PlayerID,
		PlayerName: p.PlayerName,
		Color:      p.Color,
		X:          p.X,
		Y:          p.Y,
		Timestamp:  p.Timestamp,
	}
	r.state.Clicks[p.PlayerID] = marker
	if r.OnClickUpserted != nil {
		r.OnClickUpserted(marker)
	}
}

func (r *Reconciler) applyPlayerJoin(p *protocol.PlayerJoinPayload) {
	player := p.Player
	player.Connected = true
	r.state.Players[player.ID] = player

	if r.OnRosterChanged != nil {
		r.OnRosterChanged(r.state.PlayersCopy(), r.localPlayerID)
	}
	r.AppendSystemChat(fmt.Sprintf("%s 加入了房间", player.Name))
}

func (r *Reconciler) applyPlayerLeave(p *protocol.PlayerLeavePayload) {
	player, ok := r.state.Players[p.PlayerID]
	if !ok {
		// 未知玩家的离开事件，忽略
		return
	}
	if !player.Connected {
		// 已标记离开，保持幂等，不重复公告
		return
	}
	player.Connected = false
	r.state.Players[p.PlayerID] = player

	if r.OnRosterChanged != nil {
		r.OnRosterChanged(r.state.PlayersCopy(), r.localPlayerID)
	}
	r.AppendSystemChat(fmt.Sprintf("%s 离开了房间", player.Name))
}

func (r *Reconciler) applyHostChanged(p *protocol.HostChangedPayload) {
	becameHost := false
	for id, player := range r.state.Players {
		isHost := id == p.HostID
		if player.IsHost != isHost {
			player.IsHost = isHost
			r.state.Players[id] = player
			if isHost && id == r.localPlayerID {
				becameHost = true
			}
		}
	}
	r.state.HostID = p.HostID

	if r.OnRosterChanged != nil {
		r.OnRosterChanged(r.state.PlayersCopy(), r.localPlayerID)
	}
	if r.OnHostChanged != nil {
		r.OnHostChanged(p.HostID)
	}
	if becameHost && r.OnBecameHost != nil {
		r.OnBecameHost()
	}
}

func (r *Reconciler) appendChat(entry protocol.ChatEntry) {
	r.state.Chat = append(r.state.Chat, entry)
	r.trimChat()
	if r.OnChatAppended != nil {
		r.OnChatAppended(entry)
	}
}

// trimChat evicts oldest entries beyond the bound
func (r *Reconciler) trimChat() {
	if len(r.state.Chat) > r.chatLimit {
		r.state.Chat = r.state.Chat[len(r.state.Chat)-r.chatLimit:]
	}
}
