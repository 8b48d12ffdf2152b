//go:build !production

package testutil

import (
	"github.com/stretchr/testify/mock"

	"github.com/palemoky/take-eleven/internal/protocol"
)

// MockClient 实现 types.ClientInterface 的 mock
type MockClient struct {
	mock.Mock
}

func (m *MockClient) GetID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockClient) GetPlayerID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockClient) SetPlayerID(id string) {
	m.Called(id)
}

func (m *MockClient) SendMessage(msg *protocol.Message) {
	m.Called(msg)
}

func (m *MockClient) Close() {
	m.Called()
}

// SimpleClient 简单的 mock 客户端，不使用 testify（用于不需要断言调用的测试）
type SimpleClient struct {
	ID       string
	PlayerID string
	Messages []*protocol.Message
}

func (m *SimpleClient) GetID() string                     { return m.ID }
func (m *SimpleClient) GetPlayerID() string               { return m.PlayerID }
func (m *SimpleClient) SetPlayerID(id string)             { m.PlayerID = id }
func (m *SimpleClient) SendMessage(msg *protocol.Message) { m.Messages = append(m.Messages, msg) }
func (m *SimpleClient) Close()                            {}

// Last 最后收到的消息，没有时为 nil
func (m *SimpleClient) Last() *protocol.Message {
	if len(m.Messages) == 0 {
		return nil
	}
	return m.Messages[len(m.Messages)-1]
}

// OfType 收到的指定类型的消息
func (m *SimpleClient) OfType(t protocol.MessageType) []*protocol.Message {
	var out []*protocol.Message
	for _, msg := range m.Messages {
		if msg.Type == t {
			out = append(out, msg)
		}
	}
	return out
}

// Reset 清空已收到的消息
func (m *SimpleClient) Reset() {
	m.Messages = nil
}
