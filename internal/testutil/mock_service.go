//go:build !production

package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/palemoky/click-arena/internal/protocol"
)

// MockService 实现 client.Service 的 mock
type MockService struct {
	mock.Mock
}

func (m *MockService) SignIn(ctx context.Context, displayName string) (*protocol.AccountInfo, error) {
	args := m.Called(ctx, displayName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*protocol.AccountInfo), args.Error(1)
}

func (m *MockService) CreateLobby(ctx context.Context, name, accountID string) (*protocol.JoinResult, error) {
	args := m.Called(ctx, name, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*protocol.JoinResult), args.Error(1)
}

func (m *MockService) JoinLobby(ctx context.Context, lobbyID, accountID string) (*protocol.JoinResult, error) {
	args := m.Called(ctx, lobbyID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*protocol.JoinResult), args.Error(1)
}

func (m *MockService) ListLobbies(ctx context.Context) ([]protocol.LobbyListItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]protocol.LobbyListItem), args.Error(1)
}

func (m *MockService) GetLobbyState(ctx context.Context, lobbyID, playerID string) (*protocol.LobbySnapshot, error) {
	args := m.Called(ctx, lobbyID, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*protocol.LobbySnapshot), args.Error(1)
}

func (m *MockService) GetMessages(ctx context.Context, lobbyID, playerID string, since *int64) ([]protocol.InboundEvent, error) {
	args := m.Called(ctx, lobbyID, playerID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]protocol.InboundEvent), args.Error(1)
}

func (m *MockService) SendMessage(ctx context.Context, lobbyID, playerID string, eventType protocol.EventType, payload any) error {
	args := m.Called(ctx, lobbyID, playerID, eventType, payload)
	return args.Error(0)
}

func (m *MockService) LeaveLobby(ctx context.Context, lobbyID, playerID string) error {
	args := m.Called(ctx, lobbyID, playerID)
	return args.Error(0)
}
