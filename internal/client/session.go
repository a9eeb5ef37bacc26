package client

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/palemoky/click-arena/internal/apperrors"
	"github.com/palemoky/click-arena/internal/logger"
	"github.com/palemoky/click-arena/internal/protocol"
)

// Phase 连接阶段
type Phase int

const (
	PhaseDisconnected Phase = iota
	PhaseConnecting
	PhaseConnected
)

// String returns the phase name for logging.
func (p Phase) String() string {
	switch p {
	case PhaseConnecting:
		return "connecting"
	case PhaseConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Session 当前房间会话
type Session struct {
	LobbyID   string
	LobbyName string
	PlayerID  string
	AccountID string
	IsHost    bool
}

// Service is the lobby service surface the controller depends on,
// implemented by transport.Client.
type Service interface {
	SignIn(ctx context.Context, displayName string) (*protocol.AccountInfo, error)
	CreateLobby(ctx context.Context, name, accountID string) (*protocol.JoinResult, error)
	JoinLobby(ctx context.Context, lobbyID, accountID string) (*protocol.JoinResult, error)
	ListLobbies(ctx context.Context) ([]protocol.LobbyListItem, error)
	GetLobbyState(ctx context.Context, lobbyID, playerID string) (*protocol.LobbySnapshot, error)
	GetMessages(ctx context.Context, lobbyID, playerID string, since *int64) ([]protocol.InboundEvent, error)
	SendMessage(ctx context.Context, lobbyID, playerID string, eventType protocol.EventType, payload any) error
	LeaveLobby(ctx context.Context, lobbyID, playerID string) error
}

// Controller owns the session lifecycle: the disconnected → connecting →
// connected machine, the poll loop and the reconciler. All state access
// is serialized by the controller's mutex, so the reconciler itself
// needs no locking. Callbacks (the controller's and the reconciler's)
// fire while that lock is held: they must hand off, e.g. into a channel,
// and never call back into the controller.
type Controller struct {
	svc Service

	mu      sync.Mutex
	phase   Phase
	session *Session
	account *protocol.AccountInfo
	rec     *Reconciler
	cursor  Cursor
	poller  *Poller

	// 回调
	OnPhaseChanged func(phase Phase)
	OnPollError    func(err error) // 轮询失败提示，不致命
}

// NewController creates a controller polling at the given interval.
func NewController(svc Service, chatLimit int, pollInterval time.Duration) *Controller {
	c := &Controller{
		svc:   svc,
		phase: PhaseDisconnected,
		rec:   NewReconciler(chatLimit),
	}
	c.poller = NewPoller(pollInterval, c.pollTick)
	return c
}

// Reconciler exposes the reconciler so the UI can register callbacks
// before any session starts.
func (c *Controller) Reconciler() *Reconciler { return c.rec }

// Phase returns the current connection phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Session returns a copy of the active session, or nil.
func (c *Controller) Session() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	s := *c.session
	return &s
}

// Account returns the signed-in account, or nil.
func (c *Controller) Account() *protocol.AccountInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.account == nil {
		return nil
	}
	a := *c.account
	return &a
}

// SignIn 登录。昵称为空时直接拒绝，不发起网络请求。
func (c *Controller) SignIn(ctx context.Context, displayName string) (*protocol.AccountInfo, error) {
	if strings.TrimSpace(displayName) == "" {
		return nil, apperrors.ErrEmptyName
	}
	account, err := c.svc.SignIn(ctx, strings.TrimSpace(displayName))
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.account = account
	c.mu.Unlock()

	logger.LogInfo("signed in as %s (%s)", account.Name, account.ID)
	return account, nil
}

// ListLobbies 获取房间列表
func (c *Controller) ListLobbies(ctx context.Context) ([]protocol.LobbyListItem, error) {
	return c.svc.ListLobbies(ctx)
}

// CreateLobby 创建房间并进入
func (c *Controller) CreateLobby(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return apperrors.ErrEmptyLobbyName
	}
	return c.connect(ctx, func(accountID string) (*protocol.JoinResult, error) {
		return c.svc.CreateLobby(ctx, strings.TrimSpace(name), accountID)
	})
}

// JoinLobby 加入已有房间
func (c *Controller) JoinLobby(ctx context.Context, lobbyID string) error {
	if strings.TrimSpace(lobbyID) == "" {
		return apperrors.ErrEmptyLobbyID
	}
	return c.connect(ctx, func(accountID string) (*protocol.JoinResult, error) {
		return c.svc.JoinLobby(ctx, strings.TrimSpace(lobbyID), accountID)
	})
}

// connect runs the shared join flow: join/create → connecting, snapshot
// fetch → connected + poll loop, snapshot failure → disconnected.
func (c *Controller) connect(ctx context.Context, join func(accountID string) (*protocol.JoinResult, error)) error {
	c.mu.Lock()
	if c.account == nil {
		c.mu.Unlock()
		return apperrors.ErrNotSignedIn
	}
	// 按阶段判断而非会话指针：首次加入的网络请求在途时会话仍为 nil
	if c.phase != PhaseDisconnected {
		c.mu.Unlock()
		return apperrors.ErrInSession
	}
	accountID := c.account.ID
	c.setPhaseLocked(PhaseConnecting)
	c.mu.Unlock()

	result, err := join(accountID)
	if err != nil {
		c.mu.Lock()
		c.setPhaseLocked(PhaseDisconnected)
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	c.session = &Session{
		LobbyID:   result.Lobby.ID,
		LobbyName: result.Lobby.Name,
		PlayerID:  result.Player.ID,
		AccountID: accountID,
		IsHost:    result.Player.IsHost,
	}
	c.rec.SeedLocalPlayer(result.Player)
	lobbyID, playerID := result.Lobby.ID, result.Player.ID
	c.mu.Unlock()

	snap, err := c.svc.GetLobbyState(ctx, lobbyID, playerID)
	if err != nil {
		// 快照失败即视为加入失败，回到断开状态，不启动轮询
		c.mu.Lock()
		c.session = nil
		c.rec.Reset()
		c.cursor.Reset()
		c.setPhaseLocked(PhaseDisconnected)
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	if c.session == nil || c.session.LobbyID != lobbyID {
		// 等待快照期间会话已被撤销，丢弃结果
		c.mu.Unlock()
		return apperrors.ErrNoSession
	}
	c.rec.SeedFromSnapshot(snap)
	c.session.IsHost = snap.HostID == c.session.PlayerID
	if snap.LastMessageID > 0 {
		c.cursor.Advance(snap.LastMessageID)
	}
	c.rec.AppendSystemChat("已连接到房间 " + c.session.LobbyName)
	c.setPhaseLocked(PhaseConnected)
	c.mu.Unlock()

	c.poller.Start()
	logger.LogInfo("joined lobby %s as player %s", lobbyID, playerID)
	return nil
}

// Leave 离开房间。先停轮询，再尽力通知服务端；
// 无论通知是否成功，本地状态都会被完整清理。
func (c *Controller) Leave(ctx context.Context) {
	c.poller.Stop()

	c.mu.Lock()
	session := c.session
	c.session = nil
	c.mu.Unlock()

	if session != nil {
		if err := c.svc.LeaveLobby(ctx, session.LobbyID, session.PlayerID); err != nil {
			logger.LogWarn("leave notification failed: %v", err)
		}
	}

	c.mu.Lock()
	c.rec.Reset()
	c.cursor.Reset()
	c.setPhaseLocked(PhaseDisconnected)
	c.mu.Unlock()
}

// SendChat 发送聊天消息。不做乐观更新，消息经轮询通道回流后上屏。
func (c *Controller) SendChat(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	lobbyID, playerID, err := c.requireSession()
	if err != nil {
		return err
	}
	return c.svc.SendMessage(ctx, lobbyID, playerID, protocol.EventChat, protocol.SendChatPayload{
		Text:      text,
		ClientTag: uuid.NewString(),
	})
}

// SendClick 发送画布点击，坐标为 0-100 归一化值
func (c *Controller) SendClick(ctx context.Context, x, y float64) error {
	lobbyID, playerID, err := c.requireSession()
	if err != nil {
		return err
	}
	return c.svc.SendMessage(ctx, lobbyID, playerID, protocol.EventClick, protocol.SendClickPayload{
		X:         x,
		Y:         y,
		ClientTag: uuid.NewString(),
	})
}

func (c *Controller) requireSession() (lobbyID, playerID string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil || c.phase != PhaseConnected {
		return "", "", apperrors.ErrNoSession
	}
	return c.session.LobbyID, c.session.PlayerID, nil
}

// pollTick runs one poll cycle: fetch messages after the watermark and
// apply them in response order. Failures are reported and swallowed so
// the loop self-heals on the next tick; the cursor is never reset, so
// the next successful poll re-requests everything since the last
// confirmed watermark.
func (c *Controller) pollTick(ctx context.Context) {
	c.mu.Lock()
	if c.session == nil || c.phase != PhaseConnected {
		// 无活跃会话时跳过，不算错误
		c.mu.Unlock()
		return
	}
	lobbyID, playerID := c.session.LobbyID, c.session.PlayerID
	var since *int64
	if id, ok := c.cursor.Current(); ok {
		v := id
		since = &v
	}
	c.mu.Unlock()

	events, err := c.svc.GetMessages(ctx, lobbyID, playerID, since)
	if err != nil {
		logger.LogWarn("poll failed: %v", err)
		if c.OnPollError != nil {
			c.OnPollError(err)
		}
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// 拉取期间会话可能已撤销或更换，结果作废
	if c.session == nil || c.session.LobbyID != lobbyID {
		return
	}

	for _, raw := range events {
		// 防御重复下发：批次起点水位线之下的消息已应用过
		if since != nil && raw.MessageID <= *since {
			continue
		}
		ev, err := protocol.DecodeEvent(raw)
		if err != nil {
			// 单条损坏不影响整批
			logger.LogError("%v", err)
			c.cursor.Advance(raw.MessageID)
			continue
		}
		c.rec.Apply(ev)
		// 房主变更同时同步会话自身的房主标记
		if ev.Kind == protocol.EventHostChanged {
			c.session.IsHost = ev.Host.HostID == c.session.PlayerID
		}
		c.cursor.Advance(raw.MessageID)
	}
}

// ChatLog returns a copy of the current chat log.
func (c *Controller) ChatLog() []protocol.ChatEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rec.State().ChatCopy()
}

// setPhaseLocked 更新阶段并触发回调，调用方必须持锁
func (c *Controller) setPhaseLocked(phase Phase) {
	if c.phase == phase {
		return
	}
	c.phase = phase
	if c.OnPhaseChanged != nil {
		c.OnPhaseChanged(phase)
	}
}
