// Package transport 实现与大厅服务的 JSON-over-HTTP 通信。
// 客户端本身无状态，仅持有服务地址与 http.Client。
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/palemoky/click-arena/internal/apperrors"
	"github.com/palemoky/click-arena/internal/protocol"
)

const defaultTimeout = 10 * time.Second

// Client 大厅服务 HTTP 客户端
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient 创建客户端，timeout 为 0 时使用默认超时
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SignIn 登录并获取账号
func (c *Client) SignIn(ctx context.Context, displayName string) (*protocol.AccountInfo, error) {
	var account protocol.AccountInfo
	body := map[string]string{"name": displayName}
	if err := c.post(ctx, "/api/signin", body, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// CreateLobby 创建房间
func (c *Client) CreateLobby(ctx context.Context, name, accountID string) (*protocol.JoinResult, error) {
	var result protocol.JoinResult
	body := map[string]string{"name": name, "account_id": accountID}
	if err := c.post(ctx, "/api/lobbies", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// JoinLobby 加入房间
func (c *Client) JoinLobby(ctx context.Context, lobbyID, accountID string) (*protocol.JoinResult, error) {
	var result protocol.JoinResult
	body := map[string]string{"account_id": accountID}
	path := "/api/lobbies/" + url.PathEscape(lobbyID) + "/join"
	if err := c.post(ctx, path, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListLobbies 获取房间列表
func (c *Client) ListLobbies(ctx context.Context) ([]protocol.LobbyListItem, error) {
	var result struct {
		Lobbies []protocol.LobbyListItem `json:"lobbies"`
	}
	if err := c.get(ctx, "/api/lobbies", nil, &result); err != nil {
		return nil, err
	}
	return result.Lobbies, nil
}

// GetLobbyState 拉取完整权威状态快照
func (c *Client) GetLobbyState(ctx context.Context, lobbyID, playerID string) (*protocol.LobbySnapshot, error) {
	var snap protocol.LobbySnapshot
	path := "/api/lobbies/" + url.PathEscape(lobbyID) + "/state"
	query := url.Values{"player_id": {playerID}}
	if err := c.get(ctx, path, query, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// GetMessages 拉取增量消息。since 为 nil 时请求全部积压消息，
// 否则只请求 message_id 严格大于 since 的消息。
func (c *Client) GetMessages(ctx context.Context, lobbyID, playerID string, since *int64) ([]protocol.InboundEvent, error) {
	var result struct {
		Messages []protocol.InboundEvent `json:"messages"`
	}
	path := "/api/lobbies/" + url.PathEscape(lobbyID) + "/messages"
	query := url.Values{"player_id": {playerID}}
	if since != nil {
		query.Set("since", strconv.FormatInt(*since, 10))
	}
	if err := c.get(ctx, path, query, &result); err != nil {
		return nil, err
	}
	return result.Messages, nil
}

// SendMessage 发送一条出站消息（聊天、点击）。
// 尽力而为：失败由调用方提示用户，不做自动重试，
// 本地状态不做乐观更新，等待该消息经轮询通道回流。
func (c *Client) SendMessage(ctx context.Context, lobbyID, playerID string, eventType protocol.EventType, payload any) error {
	raw, err := protocol.EncodePayload(payload)
	if err != nil {
		return fmt.Errorf("编码 %s payload 失败: %w", eventType, err)
	}
	body := struct {
		PlayerID string          `json:"player_id"`
		Type     string          `json:"type"`
		Payload  json.RawMessage `json:"payload,omitempty"`
	}{PlayerID: playerID, Type: string(eventType), Payload: raw}

	path := "/api/lobbies/" + url.PathEscape(lobbyID) + "/messages"
	return c.post(ctx, path, body, nil)
}

// LeaveLobby 通知服务端离开房间（尽力而为）
func (c *Client) LeaveLobby(ctx context.Context, lobbyID, playerID string) error {
	body := map[string]string{"player_id": playerID}
	path := "/api/lobbies/" + url.PathEscape(lobbyID) + "/leave"
	return c.post(ctx, path, body, nil)
}

// --- HTTP 辅助方法 ---

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("解码响应失败: %w", err)
	}
	return nil
}

// decodeError 优先解析服务端错误体，解析失败时退化为状态码错误
func decodeError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var body protocol.ErrorBody
	if err := json.Unmarshal(data, &body); err == nil && body.Message != "" {
		return apperrors.FromBody(body)
	}
	return fmt.Errorf("服务端返回 %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
}
