package protocol

import (
	"encoding/json"
	"fmt"
)

// Event 解码后的入站事件。Kind 决定哪个 payload 字段非 nil，
// 未识别的类型保留为 EventUnknown，由调用方忽略。
type Event struct {
	Kind      EventType
	MessageID int64

	Chat  *ChatEventPayload
	Click *ClickEventPayload
	Join  *PlayerJoinPayload
	Leave *PlayerLeavePayload
	Host  *HostChangedPayload
}

// DecodeEvent 将原始事件解码为带类型的 Event。
// 未知类型不报错，返回 Kind 为 EventUnknown 的事件；
// 已知类型但 payload 损坏时返回错误，调用方应跳过该条而非中断整批。
func DecodeEvent(raw InboundEvent) (Event, error) {
	ev := Event{Kind: raw.Type, MessageID: raw.MessageID}

	switch raw.Type {
	case EventChat:
		ev.Chat = &ChatEventPayload{}
		return ev, decodePayload(raw, ev.Chat)
	case EventClick:
		ev.Click = &ClickEventPayload{}
		return ev, decodePayload(raw, ev.Click)
	case EventPlayerJoin:
		ev.Join = &PlayerJoinPayload{}
		return ev, decodePayload(raw, ev.Join)
	case EventPlayerLeave:
		ev.Leave = &PlayerLeavePayload{}
		return ev, decodePayload(raw, ev.Leave)
	case EventHostChanged:
		ev.Host = &HostChangedPayload{}
		return ev, decodePayload(raw, ev.Host)
	default:
		ev.Kind = EventUnknown
		return ev, nil
	}
}

func decodePayload(raw InboundEvent, out any) error {
	if len(raw.Payload) == 0 {
		return fmt.Errorf("事件 %s (id=%d) 缺少 payload", raw.Type, raw.MessageID)
	}
	if err := json.Unmarshal(raw.Payload, out); err != nil {
		return fmt.Errorf("解码事件 %s (id=%d) 失败: %w", raw.Type, raw.MessageID, err)
	}
	return nil
}

// EncodePayload 将出站 payload 编码为 JSON
func EncodePayload(payload any) (json.RawMessage, error) {
	if payload == nil {
		return nil, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return data, nil
}
