package protocol

// PlayerInfo 玩家信息
type PlayerInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	IsHost    bool   `json:"is_host"`
	Connected bool   `json:"connected"` // false 表示已离开但仍保留在名单中
}

// ChatEntry 聊天记录条目，System 为 true 时无发送者
type ChatEntry struct {
	PlayerID   string `json:"player_id,omitempty"`
	PlayerName string `json:"player_name,omitempty"`
	Color      string `json:"color,omitempty"`
	Text       string `json:"text"`
	System     bool   `json:"system,omitempty"`
	Timestamp  int64  `json:"timestamp"` // Unix 毫秒
}

// ClickMarker 每个玩家最近一次点击的标记
type ClickMarker struct {
	PlayerID   string  `json:"player_id"`
	PlayerName string  `json:"player_name"`
	Color      string  `json:"color"`
	X          float64 `json:"x"` // 0-100 归一化
	Y          float64 `json:"y"`
	Timestamp  int64   `json:"timestamp"`
}

// AccountInfo 登录返回的账号信息
type AccountInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// LobbyInfo 房间基本信息
type LobbyInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// LobbyListItem 房间列表条目
type LobbyListItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PlayerCount int    `json:"player_count"`
	MaxPlayers  int    `json:"max_players"`
}

// JoinResult 创建/加入房间的返回结果
type JoinResult struct {
	Lobby  LobbyInfo  `json:"lobby"`
	Player PlayerInfo `json:"player"`
}

// LobbySnapshot 加入房间后拉取的完整权威状态
type LobbySnapshot struct {
	Players       map[string]PlayerInfo  `json:"players"`
	ChatHistory   []ChatEntry            `json:"chat_history"`
	Clicks        map[string]ClickMarker `json:"clicks"`
	HostID        string                 `json:"host_id"`
	LastMessageID int64                  `json:"last_message_id"` // 0 表示尚无消息
}
