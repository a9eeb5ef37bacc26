package apperrors

import (
	"errors"

	"github.com/palemoky/click-arena/internal/protocol"
)

// ServiceError 服务端返回的业务错误
type ServiceError struct {
	Code    int
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// 预定义服务端错误
var (
	ErrLobbyNotFound = &ServiceError{Code: protocol.ErrCodeLobbyNotFound, Message: "房间不存在"}
	ErrLobbyFull     = &ServiceError{Code: protocol.ErrCodeLobbyFull, Message: "房间已满"}
	ErrNotInLobby    = &ServiceError{Code: protocol.ErrCodeNotInLobby, Message: "您不在房间中"}
)

// 客户端本地前置校验错误，不触发网络请求
var (
	ErrEmptyName      = errors.New("昵称不能为空")
	ErrEmptyLobbyName = errors.New("房间名不能为空")
	ErrEmptyLobbyID   = errors.New("房间 ID 不能为空")
	ErrNotSignedIn    = errors.New("尚未登录")
	ErrNoSession      = errors.New("当前不在任何房间中")
	ErrInSession      = errors.New("已在房间中，请先退出")
)

// FromBody 将服务端错误响应体转换为 ServiceError，
// 已知错误码复用预定义值，便于调用方用 errors.Is 判断。
func FromBody(body protocol.ErrorBody) *ServiceError {
	switch body.Code {
	case protocol.ErrCodeLobbyNotFound:
		return ErrLobbyNotFound
	case protocol.ErrCodeLobbyFull:
		return ErrLobbyFull
	case protocol.ErrCodeNotInLobby:
		return ErrNotInLobby
	default:
		return &ServiceError{Code: body.Code, Message: body.Message}
	}
}
