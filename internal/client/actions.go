package client

import (
	"time"

	"github.com/palemoky/take-eleven/internal/protocol"
	"github.com/palemoky/take-eleven/internal/protocol/codec"
)

// --- 便捷方法 ---

// Register 注册，nickname 为空时由服务器生成
func (c *Client) Register(nickname string) error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgRegister, protocol.RegisterPayload{
		ID:       c.PlayerID,
		Nickname: nickname,
	}))
}

// Login 用已注册的 ID 重新绑定到当前连接
func (c *Client) Login() error {
	return c.sendIdentity(protocol.MsgLogin)
}

// Logout 退出
func (c *Client) Logout() error {
	return c.sendIdentity(protocol.MsgLogout)
}

// Fetch 获取自己的手牌等完整信息
func (c *Client) Fetch() error {
	return c.sendIdentity(protocol.MsgFetch)
}

func (c *Client) sendIdentity(msgType protocol.MessageType) error {
	return c.SendMessage(codec.MustNewMessage(msgType, protocol.IdentityPayload{ID: c.PlayerID}))
}

// Ready 准备 / 取消准备
func (c *Client) Ready(ready bool) error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgReady, protocol.ReadyPayload{
		ID:    c.PlayerID,
		State: ready,
	}))
}

// Action 一个回合的操作，stacks 为空表示过
func (c *Client) Action(stacks []protocol.StackInfo, targetNo *int) error {
	if stacks == nil {
		stacks = []protocol.StackInfo{}
	}
	return c.SendMessage(codec.MustNewMessage(protocol.MsgAction, protocol.ActionPayload{
		ID:       c.PlayerID,
		Stacks:   stacks,
		TargetNo: targetNo,
	}))
}

// Push 把若干张牌放到一个牌堆上
func (c *Client) Push(pileNo int, cards []int) error {
	return c.Action([]protocol.StackInfo{{PileNo: pileNo, Cards: cards}}, nil)
}

// Pick 收走一个牌堆，需要抢牛头时指定 targetNo
func (c *Client) Pick(pileNo int, targetNo *int) error {
	return c.Action([]protocol.StackInfo{{PileNo: pileNo, Cards: []int{}}}, targetNo)
}

// Pass 过
func (c *Client) Pass() error {
	return c.Action(nil, nil)
}

// GetLeaderboard 获取排行榜
func (c *Client) GetLeaderboard(offset, limit int) error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgGetLeaderboard, protocol.GetLeaderboardPayload{
		Offset: offset,
		Limit:  limit,
	}))
}

// GetHistory 获取最近几局结果
func (c *Client) GetHistory(limit int) error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgGetHistory, protocol.GetHistoryPayload{
		Limit: limit,
	}))
}

// GetOnlineCount 获取在线人数
func (c *Client) GetOnlineCount() error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgGetOnlineCount, nil))
}

// Ping 发送心跳
func (c *Client) Ping() error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgPing, protocol.PingPayload{
		Timestamp: time.Now().UnixMilli(),
	}))
}
