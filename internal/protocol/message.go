package protocol

import "encoding/json"

// EventType 轮询通道下发的事件类型
type EventType string

// 服务端 → 客户端 事件类型
const (
	EventChat        EventType = "chat"         // 聊天消息
	EventClick       EventType = "click"        // 画布点击
	EventPlayerJoin  EventType = "player_join"  // 玩家加入
	EventPlayerLeave EventType = "player_leave" // 玩家离开
	EventHostChanged EventType = "host_changed" // 房主变更

	// EventUnknown 未识别的事件类型（向前兼容，忽略处理）
	EventUnknown EventType = ""
)

// InboundEvent 轮询响应中的单条事件，Payload 按 Type 解码
type InboundEvent struct {
	Type      EventType       `json:"type"`
	MessageID int64           `json:"message_id"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// --- 事件 Payloads ---

// ChatEventPayload 聊天事件
type ChatEventPayload struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Color      string `json:"color"`
	Text       string `json:"text"`
	Timestamp  int64  `json:"timestamp"` // Unix 毫秒
}

// ClickEventPayload 画布点击事件，坐标为 0-100 归一化值
type ClickEventPayload struct {
	PlayerID   string  `json:"player_id"`
	PlayerName string  `json:"player_name"`
	Color      string  `json:"color"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Timestamp  int64   `json:"timestamp"`
}

// PlayerJoinPayload 玩家加入事件
type PlayerJoinPayload struct {
	Player PlayerInfo `json:"player"`
}

// PlayerLeavePayload 玩家离开事件
type PlayerLeavePayload struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
}

// HostChangedPayload 房主变更事件
type HostChangedPayload struct {
	HostID   string `json:"host_id"`
	HostName string `json:"host_name"`
}

// --- 客户端 → 服务端 Payloads ---

// SendChatPayload 发送聊天
type SendChatPayload struct {
	Text      string `json:"text"`
	ClientTag string `json:"client_tag,omitempty"` // 客户端生成的去重标识
}

// SendClickPayload 发送点击
type SendClickPayload struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	ClientTag string  `json:"client_tag,omitempty"`
}

// ErrorBody 服务端错误响应体
type ErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// 服务端错误码
const (
	ErrCodeLobbyNotFound = 1001 // 房间不存在
	ErrCodeLobbyFull     = 1002 // 房间已满
	ErrCodeNotInLobby    = 1003 // 不在房间中
	ErrCodeBadRequest    = 1004 // 请求参数错误
)
