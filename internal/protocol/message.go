package protocol

import "encoding/json"

// Message 基础消息结构
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MessageType 消息类型
type MessageType string

// 客户端 → 服务端 消息类型
const (
	// 连接操作
	MsgPing MessageType = "ping" // 心跳 ping

	// 玩家操作
	MsgRegister MessageType = "register" // 注册
	MsgLogin    MessageType = "login"    // 登录
	MsgReady    MessageType = "ready"    // 准备 / 取消准备
	MsgLogout   MessageType = "logout"   // 退出
	MsgFetch    MessageType = "fetch"    // 获取自己的完整信息

	// 游戏操作
	MsgAction MessageType = "action" // 放牌或收牌

	// 统计
	MsgGetLeaderboard       MessageType = "get_leaderboard"        // 获取排行榜
	MsgGetHistory           MessageType = "get_history"            // 获取最近几局结果
	MsgGetOnlineCount       MessageType = "get_online_count"       // 获取在线人数
	MsgGetMaintenanceStatus MessageType = "get_maintenance_status" // 获取维护状态
)

// 服务端 → 客户端 消息类型
const (
	// 连接相关
	MsgConnected   MessageType = "connected"    // 连接成功
	MsgPong        MessageType = "pong"         // 心跳 pong
	MsgOnlineCount MessageType = "online_count" // 在线人数更新

	// 操作结果
	MsgRegistered MessageType = "registered" // 注册成功
	MsgLoggedIn   MessageType = "logged_in"  // 登录成功
	MsgLoggedOut  MessageType = "logged_out" // 退出成功
	MsgFetched    MessageType = "fetched"    // 玩家信息

	// 广播
	MsgGameStart  MessageType = "game_start"  // 游戏开始
	MsgGameBasic  MessageType = "game_basic"  // 大厅状态
	MsgGameStatus MessageType = "game_status" // 牌桌状态
	MsgGameEnd    MessageType = "game_end"    // 本局结束

	// 统计
	MsgLeaderboardResult MessageType = "leaderboard_result" // 排行榜结果
	MsgHistoryResult     MessageType = "history_result"     // 历史结果

	// 系统通知
	MsgMaintenancePush MessageType = "maintenance_push" // 主动推送
	MsgMaintenancePull MessageType = "maintenance_pull" // 被动拉取

	// 错误
	MsgError MessageType = "error" // 错误消息
)

// 状态码，随响应和广播一起下发
const (
	StateConnectSuccess  = 200
	StateRegisterSuccess = 201
	StateLoginSuccess    = 202
	StateLogoutSuccess   = 203
	StateFetchSuccess    = 204

	StateBroadcastGameStart  = 100
	StateBroadcastGameBasic  = 101
	StateBroadcastGameStatus = 102
	StateBroadcastGameEnd    = 103
)
