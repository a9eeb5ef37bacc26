// Package client manages client-side lobby state: the local mirror
// reconstructed from the polled event stream, the message cursor, the
// poll loop and the session lifecycle.
package client

import (
	"github.com/palemoky/click-arena/internal/protocol"
)

// LobbyState is the local mirror of the lobby: roster, chat log, click
// markers and host identity. All mutation goes through the Reconciler.
type LobbyState struct {
	Players map[string]protocol.PlayerInfo
	Chat    []protocol.ChatEntry
	Clicks  map[string]protocol.ClickMarker
	HostID  string
}

// NewLobbyState creates an empty lobby state
func NewLobbyState() *LobbyState {
	return &LobbyState{
		Players: make(map[string]protocol.PlayerInfo),
		Clicks:  make(map[string]protocol.ClickMarker),
	}
}

// Reset clears all lobby state. Players, chat and clicks are discarded
// together, never partially.
func (s *LobbyState) Reset() {
	s.Players = make(map[string]protocol.PlayerInfo)
	s.Chat = nil
	s.Clicks = make(map[string]protocol.ClickMarker)
	s.HostID = ""
}

// PlayersCopy returns a copy of the roster for handing to renderers,
// so they never observe a map mid-mutation.
func (s *LobbyState) PlayersCopy() map[string]protocol.PlayerInfo {
	out := make(map[string]protocol.PlayerInfo, len(s.Players))
	for id, p := range s.Players {
		out[id] = p
	}
	return out
}

// ChatCopy returns a copy of the chat log
func (s *LobbyState) ChatCopy() []protocol.ChatEntry {
	out := make([]protocol.ChatEntry, len(s.Chat))
	copy(out, s.Chat)
	return out
}

// ClicksCopy returns a copy of the click markers
func (s *LobbyState) ClicksCopy() map[string]protocol.ClickMarker {
	out := make(map[string]protocol.ClickMarker, len(s.Clicks))
	for id, m := range s.Clicks {
		out[id] = m
	}
	return out
}
