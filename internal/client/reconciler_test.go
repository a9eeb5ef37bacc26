package client

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/click-arena/internal/protocol"
)

func chatEvent(playerID, text string) protocol.Event {
	return protocol.Event{
		Kind: protocol.EventChat,
		Chat: &protocol.ChatEventPayload{PlayerID: playerID, PlayerName: playerID, Text: text},
	}
}

func clickEvent(playerID string, x, y float64) protocol.Event {
	return protocol.Event{
		Kind:  protocol.EventClick,
		Click: &protocol.ClickEventPayload{PlayerID: playerID, PlayerName: playerID, X: x, Y: y},
	}
}

func joinEvent(playerID string) protocol.Event {
	return protocol.Event{
		Kind: protocol.EventPlayerJoin,
		Join: &protocol.PlayerJoinPayload{
			Player: protocol.PlayerInfo{ID: playerID, Name: playerID},
		},
	}
}

func leaveEvent(playerID string) protocol.Event {
	return protocol.Event{
		Kind:  protocol.EventPlayerLeave,
		Leave: &protocol.PlayerLeavePayload{PlayerID: playerID, PlayerName: playerID},
	}
}

func hostEvent(hostID string) protocol.Event {
	return protocol.Event{
		Kind: protocol.EventHostChanged,
		Host: &protocol.HostChangedPayload{HostID: hostID},
	}
}

func seededReconciler(t *testing.T, players ...protocol.PlayerInfo) *Reconciler {
	t.Helper()
	r := NewReconciler(0)
	snap := &protocol.LobbySnapshot{Players: map[string]protocol.PlayerInfo{}}
	for _, p := range players {
		snap.Players[p.ID] = p
		if p.IsHost {
			snap.HostID = p.ID
		}
	}
	r.SeedFromSnapshot(snap)
	return r
}

func TestReconciler_PlayerJoin(t *testing.T) {
	t.Parallel()

	// 场景：p1 为房主的房间中 p2 加入
	r := seededReconciler(t, protocol.PlayerInfo{ID: "p1", Name: "p1", IsHost: true, Connected: true})
	r.Apply(joinEvent("p2"))

	require.Len(t, r.State().Players, 2)
	assert.True(t, r.State().Players["p2"].Connected)

	require.Len(t, r.State().Chat, 1)
	entry := r.State().Chat[0]
	assert.True(t, entry.System)
	assert.Contains(t, entry.Text, "加入")
}

func TestReconciler_PlayerLeaveKeepsEntry(t *testing.T) {
	t.Parallel()

	r := seededReconciler(t,
		protocol.PlayerInfo{ID: "p1", Name: "p1", Connected: true},
		protocol.PlayerInfo{ID: "p2", Name: "p2", Connected: true},
	)
	r.Apply(leaveEvent("p2"))

	// 离开的玩家保留在名单中，仅标记为离线
	require.Len(t, r.State().Players, 2)
	assert.False(t, r.State().Players["p2"].Connected)
	require.Len(t, r.State().Chat, 1)
	assert.Contains(t, r.State().Chat[0].Text, "离开")
}

func TestReconciler_PlayerLeaveIdempotent(t *testing.T) {
	t.Parallel()

	r := seededReconciler(t, protocol.PlayerInfo{ID: "p1", Name: "p1", Connected: true})
	r.Apply(leaveEvent("p1"))
	stateAfterFirst := r.State().PlayersCopy()
	chatLen := len(r.State().Chat)

	r.Apply(leaveEvent("p1"))
	assert.Equal(t, stateAfterFirst, r.State().PlayersCopy())
	assert.Len(t, r.State().Chat, chatLen, "重复离开事件不应再次公告")
}

func TestReconciler_UnknownPlayerLeaveIgnored(t *testing.T) {
	t.Parallel()

	r := seededReconciler(t, protocol.PlayerInfo{ID: "p1", Name: "p1", Connected: true})
	r.Apply(leaveEvent("ghost"))

	assert.Len(t, r.State().Players, 1)
	assert.Empty(t, r.State().Chat)
}

func TestReconciler_LeaveThenRejoin(t *testing.T) {
	t.Parallel()

	// 场景：p1 离开，（轮询失败）恢复后 p1 重新加入
	r := seededReconciler(t, protocol.PlayerInfo{ID: "p1", Name: "p1", Connected: true})
	r.Apply(leaveEvent("p1"))
	r.Apply(joinEvent("p1"))

	assert.True(t, r.State().Players["p1"].Connected)
	require.Len(t, r.State().Chat, 2)
	assert.Contains(t, r.State().Chat[0].Text, "离开")
	assert.Contains(t, r.State().Chat[1].Text, "加入")
}

func TestReconciler_ClickLastWriteWins(t *testing.T) {
	t.Parallel()

	r := seededReconciler(t, protocol.PlayerInfo{ID: "p1", Name: "p1", Connected: true})
	r.Apply(clickEvent("p1", 50, 50))
	r.Apply(clickEvent("p1", 10, 90))

	require.Len(t, r.State().Clicks, 1)
	marker := r.State().Clicks["p1"]
	assert.Equal(t, 10.0, marker.X)
	assert.Equal(t, 90.0, marker.Y)
}

func TestReconciler_ClickIdempotent(t *testing.T) {
	t.Parallel()

	r := seededReconciler(t, protocol.PlayerInfo{ID: "p1", Name: "p1", Connected: true})
	r.Apply(clickEvent("p1", 25, 75))
	first := r.State().ClicksCopy()

	r.Apply(clickEvent("p1", 25, 75))
	assert.Equal(t, first, r.State().ClicksCopy())
}

func TestReconciler_HostChanged(t *testing.T) {
	t.Parallel()

	r := seededReconciler(t,
		protocol.PlayerInfo{ID: "p1", Name: "p1", IsHost: true, Connected: true},
		protocol.PlayerInfo{ID: "p2", Name: "p2", Connected: true},
		protocol.PlayerInfo{ID: "p3", Name: "p3", Connected: true},
	)
	r.Apply(hostEvent("p2"))

	// 房主唯一性：任意 host_changed 之后有且只有一个房主
	hosts := 0
	for _, p := range r.State().Players {
		if p.IsHost {
			hosts++
			assert.Equal(t, "p2", p.ID)
		}
	}
	assert.Equal(t, 1, hosts)
	assert.Equal(t, "p2", r.State().HostID)
}

func TestReconciler_HostChangedIdempotent(t *testing.T) {
	t.Parallel()

	r := seededReconciler(t,
		protocol.PlayerInfo{ID: "p1", Name: "p1", IsHost: true, Connected: true},
		protocol.PlayerInfo{ID: "p2", Name: "p2", Connected: true},
	)
	r.Apply(hostEvent("p2"))
	first := r.State().PlayersCopy()

	r.Apply(hostEvent("p2"))
	assert.Equal(t, first, r.State().PlayersCopy())
}

func TestReconciler_HostChangedUnknownPlayer(t *testing.T) {
	t.Parallel()

	// 新房主不在名单中时允许出现零个房主（已记录的边界情况）
	r := seededReconciler(t, protocol.PlayerInfo{ID: "p1", Name: "p1", IsHost: true, Connected: true})
	r.Apply(hostEvent("ghost"))

	for _, p := range r.State().Players {
		assert.False(t, p.IsHost)
	}
	assert.Equal(t, "ghost", r.State().HostID)
}

func TestReconciler_BecameHostNotification(t *testing.T) {
	t.Parallel()

	r := seededReconciler(t,
		protocol.PlayerInfo{ID: "p1", Name: "p1", IsHost: true, Connected: true},
		protocol.PlayerInfo{ID: "p2", Name: "p2", Connected: true},
	)
	r.SetLocalPlayer("p2")

	var became bool
	r.OnBecameHost = func() { became = true }

	r.Apply(hostEvent("p2"))
	assert.True(t, became)

	// 重复应用不再触发
	became = false
	r.Apply(hostEvent("p2"))
	assert.False(t, became)
}

func TestReconciler_SeedLocalPlayer(t *testing.T) {
	t.Parallel()

	r := NewReconciler(0)
	notified := false
	r.OnRosterChanged = func(map[string]protocol.PlayerInfo, string) { notified = true }

	r.SeedLocalPlayer(protocol.PlayerInfo{ID: "p1", Name: "alice", Connected: true})

	assert.Equal(t, "p1", r.LocalPlayerID())
	entry, ok := r.State().Players["p1"]
	require.True(t, ok)
	// 快照确认前占位玩家保持未在线，且不外发通知
	assert.False(t, entry.Connected)
	assert.False(t, notified)
}

func TestReconciler_BoundedChat(t *testing.T) {
	t.Parallel()

	const limit = 5
	r := NewReconciler(limit)
	for i := 0; i < limit+1; i++ {
		r.Apply(chatEvent("p1", fmt.Sprintf("msg-%d", i)))
	}

	require.Len(t, r.State().Chat, limit)
	// 最旧的被淘汰，最新的在末尾
	assert.Equal(t, "msg-1", r.State().Chat[0].Text)
	assert.Equal(t, fmt.Sprintf("msg-%d", limit), r.State().Chat[limit-1].Text)
}

func TestReconciler_UnknownEventIgnored(t *testing.T) {
	t.Parallel()

	r := seededReconciler(t, protocol.PlayerInfo{ID: "p1", Name: "p1", Connected: true})
	before := r.State().PlayersCopy()

	r.Apply(protocol.Event{Kind: protocol.EventUnknown})

	assert.Equal(t, before, r.State().PlayersCopy())
	assert.Empty(t, r.State().Chat)
}

func TestReconciler_SeedOverwritesEverything(t *testing.T) {
	t.Parallel()

	r := NewReconciler(0)
	r.Apply(joinEvent("old"))
	r.Apply(chatEvent("old", "stale"))
	r.Apply(clickEvent("old", 1, 1))

	snap := &protocol.LobbySnapshot{
		Players: map[string]protocol.PlayerInfo{
			"p1": {ID: "p1", Name: "p1", IsHost: true, Connected: true},
		},
		ChatHistory: []protocol.ChatEntry{{Text: "hello", PlayerID: "p1"}},
		Clicks: map[string]protocol.ClickMarker{
			"p1": {PlayerID: "p1", X: 30, Y: 40},
		},
		HostID: "p1",
	}
	r.SeedFromSnapshot(snap)

	// 快照前的任何数据都不残留
	require.Len(t, r.State().Players, 1)
	assert.NotContains(t, r.State().Players, "old")
	require.Len(t, r.State().Chat, 1)
	assert.Equal(t, "hello", r.State().Chat[0].Text)
	require.Len(t, r.State().Clicks, 1)
	assert.Equal(t, 30.0, r.State().Clicks["p1"].X)
	assert.Equal(t, "p1", r.State().HostID)
}

func TestReconciler_ResetClearsAtomically(t *testing.T) {
	t.Parallel()

	r := seededReconciler(t, protocol.PlayerInfo{ID: "p1", Name: "p1", Connected: true})
	r.Apply(chatEvent("p1", "hi"))
	r.Apply(clickEvent("p1", 10, 10))

	r.Reset()

	assert.Empty(t, r.State().Players)
	assert.Empty(t, r.State().Chat)
	assert.Empty(t, r.State().Clicks)
	assert.Empty(t, r.State().HostID)
}

func TestReconciler_CallbacksPerSlice(t *testing.T) {
	t.Parallel()

	r := NewReconciler(0)
	var rosterCalls, chatCalls, clickCalls int
	r.OnRosterChanged = func(map[string]protocol.PlayerInfo, string) { rosterCalls++ }
	r.OnChatAppended = func(protocol.ChatEntry) { chatCalls++ }
	r.OnClickUpserted = func(protocol.ClickMarker) { clickCalls++ }

	r.Apply(joinEvent("p1"))
	assert.Equal(t, 1, rosterCalls)
	assert.Equal(t, 1, chatCalls, "加入公告计入聊天")
	assert.Equal(t, 0, clickCalls)

	r.Apply(clickEvent("p1", 5, 5))
	assert.Equal(t, 1, rosterCalls)
	assert.Equal(t, 1, clickCalls)
}
