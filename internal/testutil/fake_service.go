//go:build !production

// Package testutil 提供测试用的内存版大厅服务与 mock。
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/palemoky/click-arena/internal/protocol"
)

// 玩家颜色按加入顺序轮流分配
var fakeColors = []string{"#FF5555", "#55AAFF", "#55CC55", "#FFAA00"}

// FakeLobbyService 是一个内存实现的大厅服务，通过 httptest 暴露
// 与真实服务相同的 HTTP 接口，供 transport 与端到端会话测试使用。
type FakeLobbyService struct {
	mu sync.Mutex

	Server *httptest.Server

	accounts map[string]protocol.AccountInfo
	lobbies  map[string]*fakeLobby

	// MaxPlayers 单房间人数上限
	MaxPlayers int

	failGetMessages bool
}

type fakeLobby struct {
	info    protocol.LobbyInfo
	players map[string]protocol.PlayerInfo
	hostID  string
	nextID  int64
	events  []protocol.InboundEvent
	chat    []protocol.ChatEntry
	clicks  map[string]protocol.ClickMarker
}

// NewFakeLobbyService 启动内存大厅服务
func NewFakeLobbyService() *FakeLobbyService {
	s := &FakeLobbyService{
		accounts:   make(map[string]protocol.AccountInfo),
		lobbies:    make(map[string]*fakeLobby),
		MaxPlayers: 4,
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// URL 返回服务地址
func (s *FakeLobbyService) URL() string { return s.Server.URL }

// Close 关闭服务
func (s *FakeLobbyService) Close() { s.Server.Close() }

// SetFailGetMessages 控制轮询请求是否返回 500，用于模拟瞬时故障
func (s *FakeLobbyService) SetFailGetMessages(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failGetMessages = fail
}

// PushEvent 直接向房间追加一条事件（绕过 HTTP，构造测试场景用）
func (s *FakeLobbyService) PushEvent(lobbyID string, eventType protocol.EventType, payload any) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	lobby := s.lobbies[lobbyID]
	raw, _ := json.Marshal(payload)
	lobby.nextID++
	lobby.events = append(lobby.events, protocol.InboundEvent{
		Type:      eventType,
		MessageID: lobby.nextID,
		Payload:   raw,
	})
	return lobby.nextID
}

func (s *FakeLobbyService) handle(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/")
	parts := strings.Split(path, "/")

	switch {
	case path == "signin" && r.Method == http.MethodPost:
		s.handleSignIn(w, r)
	case path == "lobbies" && r.Method == http.MethodPost:
		s.handleCreate(w, r)
	case path == "lobbies" && r.Method == http.MethodGet:
		s.handleList(w)
	case len(parts) == 3 && parts[0] == "lobbies":
		s.handleLobby(w, r, parts[1], parts[2])
	default:
		writeError(w, http.StatusNotFound, protocol.ErrCodeBadRequest, "未知接口")
	}
}

func (s *FakeLobbyService) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	if body.Name == "" {
		writeError(w, http.StatusBadRequest, protocol.ErrCodeBadRequest, "昵称不能为空")
		return
	}

	s.mu.Lock()
	account := protocol.AccountInfo{ID: uuid.NewString(), Name: body.Name}
	s.accounts[account.ID] = account
	s.mu.Unlock()

	writeJSON(w, account)
}

func (s *FakeLobbyService) handleCreate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name      string `json:"name"`
		AccountID string `json:"account_id"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[body.AccountID]
	if !ok {
		writeError(w, http.StatusBadRequest, protocol.ErrCodeBadRequest, "账号不存在")
		return
	}

	lobby := &fakeLobby{
		info:    protocol.LobbyInfo{ID: uuid.NewString(), Name: body.Name},
		players: make(map[string]protocol.PlayerInfo),
		clicks:  make(map[string]protocol.ClickMarker),
	}
	player := protocol.PlayerInfo{
		ID:        uuid.NewString(),
		Name:      account.Name,
		Color:     fakeColors[0],
		IsHost:    true,
		Connected: true,
	}
	lobby.players[player.ID] = player
	lobby.hostID = player.ID
	s.lobbies[lobby.info.ID] = lobby

	writeJSON(w, protocol.JoinResult{Lobby: lobby.info, Player: player})
}

func (s *FakeLobbyService) handleList(w http.ResponseWriter) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]protocol.LobbyListItem, 0, len(s.lobbies))
	for _, lobby := range s.lobbies {
		items = append(items, protocol.LobbyListItem{
			ID:          lobby.info.ID,
			Name:        lobby.info.Name,
			PlayerCount: len(lobby.players),
			MaxPlayers:  s.MaxPlayers,
		})
	}
	writeJSON(w, map[string]any{"lobbies": items})
}

func (s *FakeLobbyService) handleLobby(w http.ResponseWriter, r *http.Request, lobbyID, action string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lobby, ok := s.lobbies[lobbyID]
	if !ok {
		writeError(w, http.StatusNotFound, protocol.ErrCodeLobbyNotFound, "房间不存在")
		return
	}

	switch {
	case action == "join" && r.Method == http.MethodPost:
		s.joinLocked(w, r, lobby)
	case action == "state" && r.Method == http.MethodGet:
		s.stateLocked(w, lobby)
	case action == "messages" && r.Method == http.MethodGet:
		s.messagesLocked(w, r, lobby)
	case action == "messages" && r.Method == http.MethodPost:
		s.postMessageLocked(w, r, lobby)
	case action == "leave" && r.Method == http.MethodPost:
		s.leaveLocked(w, r, lobby)
	default:
		writeError(w, http.StatusNotFound, protocol.ErrCodeBadRequest, "未知接口")
	}
}

func (s *FakeLobbyService) joinLocked(w http.ResponseWriter, r *http.Request, lobby *fakeLobby) {
	var body struct {
		AccountID string `json:"account_id"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	account, ok := s.accounts[body.AccountID]
	if !ok {
		writeError(w, http.StatusBadRequest, protocol.ErrCodeBadRequest, "账号不存在")
		return
	}
	if len(lobby.players) >= s.MaxPlayers {
		writeError(w, http.StatusConflict, protocol.ErrCodeLobbyFull, "房间已满")
		return
	}

	player := protocol.PlayerInfo{
		ID:        uuid.NewString(),
		Name:      account.Name,
		Color:     fakeColors[len(lobby.players)%len(fakeColors)],
		Connected: true,
	}
	lobby.players[player.ID] = player
	s.appendEventLocked(lobby, protocol.EventPlayerJoin, protocol.PlayerJoinPayload{Player: player})

	writeJSON(w, protocol.JoinResult{Lobby: lobby.info, Player: player})
}

func (s *FakeLobbyService) stateLocked(w http.ResponseWriter, lobby *fakeLobby) {
	players := make(map[string]protocol.PlayerInfo, len(lobby.players))
	for id, p := range lobby.players {
		players[id] = p
	}
	var lastID int64
	if len(lobby.events) > 0 {
		lastID = lobby.events[len(lobby.events)-1].MessageID
	}
	writeJSON(w, protocol.LobbySnapshot{
		Players:       players,
		ChatHistory:   append([]protocol.ChatEntry(nil), lobby.chat...),
		Clicks:        lobby.clicks,
		HostID:        lobby.hostID,
		LastMessageID: lastID,
	})
}

func (s *FakeLobbyService) messagesLocked(w http.ResponseWriter, r *http.Request, lobby *fakeLobby) {
	if s.failGetMessages {
		writeError(w, http.StatusInternalServerError, 0, "服务暂不可用")
		return
	}

	var since int64 = -1
	if v := r.URL.Query().Get("since"); v != "" {
		since, _ = strconv.ParseInt(v, 10, 64)
	}

	out := make([]protocol.InboundEvent, 0)
	for _, ev := range lobby.events {
		if ev.MessageID > since {
			out = append(out, ev)
		}
	}
	writeJSON(w, map[string]any{"messages": out})
}

func (s *FakeLobbyService) postMessageLocked(w http.ResponseWriter, r *http.Request, lobby *fakeLobby) {
	var body struct {
		PlayerID string          `json:"player_id"`
		Type     string          `json:"type"`
		Payload  json.RawMessage `json:"payload"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	player, ok := lobby.players[body.PlayerID]
	if !ok {
		writeError(w, http.StatusForbidden, protocol.ErrCodeNotInLobby, "您不在房间中")
		return
	}

	now := time.Now().UnixMilli()
	switch protocol.EventType(body.Type) {
	case protocol.EventChat:
		var in protocol.SendChatPayload
		_ = json.Unmarshal(body.Payload, &in)
		s.appendEventLocked(lobby, protocol.EventChat, protocol.ChatEventPayload{
			PlayerID:   player.ID,
			PlayerName: player.Name,
			Color:      player.Color,
			Text:       in.Text,
			Timestamp:  now,
		})
		lobby.chat = append(lobby.chat, protocol.ChatEntry{
			PlayerID: player.ID, PlayerName: player.Name, Color: player.Color,
			Text: in.Text, Timestamp: now,
		})
	case protocol.EventClick:
		var in protocol.SendClickPayload
		_ = json.Unmarshal(body.Payload, &in)
		s.appendEventLocked(lobby, protocol.EventClick, protocol.ClickEventPayload{
			PlayerID:   player.ID,
			PlayerName: player.Name,
			Color:      player.Color,
			X:          in.X,
			Y:          in.Y,
			Timestamp:  now,
		})
		lobby.clicks[player.ID] = protocol.ClickMarker{
			PlayerID: player.ID, PlayerName: player.Name, Color: player.Color,
			X: in.X, Y: in.Y, Timestamp: now,
		}
	default:
		writeError(w, http.StatusBadRequest, protocol.ErrCodeBadRequest, "未知消息类型")
		return
	}

	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *FakeLobbyService) leaveLocked(w http.ResponseWriter, r *http.Request, lobby *fakeLobby) {
	var body struct {
		PlayerID string `json:"player_id"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	player, ok := lobby.players[body.PlayerID]
	if ok {
		player.Connected = false
		lobby.players[player.ID] = player
		s.appendEventLocked(lobby, protocol.EventPlayerLeave, protocol.PlayerLeavePayload{
			PlayerID:   player.ID,
			PlayerName: player.Name,
		})
		// 房主离开则移交给任意在线玩家
		if lobby.hostID == player.ID {
			for id, p := range lobby.players {
				if p.Connected {
					lobby.hostID = id
					s.appendEventLocked(lobby, protocol.EventHostChanged, protocol.HostChangedPayload{
						HostID:   id,
						HostName: p.Name,
					})
					break
				}
			}
		}
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *FakeLobbyService) appendEventLocked(lobby *fakeLobby, eventType protocol.EventType, payload any) {
	raw, _ := json.Marshal(payload)
	lobby.nextID++
	lobby.events = append(lobby.events, protocol.InboundEvent{
		Type:      eventType,
		MessageID: lobby.nextID,
		Payload:   raw,
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(protocol.ErrorBody{Code: code, Message: message})
}
