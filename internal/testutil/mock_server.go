//go:build !production

package testutil

import (
	"github.com/stretchr/testify/mock"

	"github.com/palemoky/take-eleven/internal/protocol"
)

// MockServer 实现 types.ServerInterface 的 mock
type MockServer struct {
	mock.Mock
}

func (m *MockServer) IsMaintenanceMode() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockServer) GetOnlineCount() int {
	args := m.Called()
	return args.Int(0)
}

func (m *MockServer) Broadcast(msg *protocol.Message) {
	m.Called(msg)
}

// FanoutServer 把广播直接投递给登记的客户端
type FanoutServer struct {
	Clients     []*SimpleClient
	Maintenance bool
}

func (s *FanoutServer) IsMaintenanceMode() bool { return s.Maintenance }
func (s *FanoutServer) GetOnlineCount() int     { return len(s.Clients) }
func (s *FanoutServer) Broadcast(msg *protocol.Message) {
	for _, c := range s.Clients {
		c.SendMessage(msg)
	}
}
