package types

import (
	"github.com/palemoky/take-eleven/internal/protocol"
)

// ServerInterface 定义服务器接口（用于打破循环依赖）
type ServerInterface interface {
	IsMaintenanceMode() bool
	GetOnlineCount() int
	Broadcast(msg *protocol.Message)
}

// ClientInterface 定义连接接口
type ClientInterface interface {
	GetID() string
	GetPlayerID() string
	SetPlayerID(id string)
	SendMessage(msg *protocol.Message)
	Close()
}
