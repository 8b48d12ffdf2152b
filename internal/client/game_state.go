package client

import (
	"github.com/palemoky/take-eleven/internal/game/card"
	"github.com/palemoky/take-eleven/internal/game/pile"
	"github.com/palemoky/take-eleven/internal/game/rule"
	"github.com/palemoky/take-eleven/internal/protocol"
	"github.com/palemoky/take-eleven/internal/protocol/codec"
)

// GameState 客户端看到的牌桌
type GameState struct {
	// 自己
	Registered bool
	MyNo       int
	Me         protocol.PlayerRecord // 最近一次 fetch 的结果

	// 牌桌
	Started  bool
	Round    int
	Turn     int
	FreeBull int
	Players  []protocol.PlayerInfo
	Piles    []protocol.PileInfo
	LastDiff *protocol.DiffInfo
	LastEnd  *protocol.GameEndPayload

	// 统计
	OnlineCount int
	Leaderboard []protocol.LeaderboardEntry
	MyRank      int64
	History     []protocol.RoundRecord
	LastError   *protocol.ErrorPayload
}

// NewGameState creates a new game state
func NewGameState() *GameState {
	return &GameState{MyNo: -1}
}

// Reset 退出后清空自己的信息，牌桌保持最近一次广播
func (gs *GameState) Reset() {
	gs.Registered = false
	gs.MyNo = -1
	gs.Me = protocol.PlayerRecord{}
}

// Apply 根据服务器消息更新状态，返回是否需要重新 fetch 自己的手牌
func (gs *GameState) Apply(msg *protocol.Message) (refetch bool, err error) {
	switch msg.Type {
	case protocol.MsgRegistered:
		p, err := codec.ParsePayload[protocol.RegisteredPayload](msg)
		if err != nil {
			return false, err
		}
		gs.Registered = true
		gs.MyNo = p.No
		return true, nil

	case protocol.MsgLoggedIn:
		p, err := codec.ParsePayload[protocol.LoggedInPayload](msg)
		if err != nil {
			return false, err
		}
		gs.Registered = true
		gs.MyNo = p.No
		gs.Started = p.Started
		return true, nil

	case protocol.MsgLoggedOut:
		gs.Reset()

	case protocol.MsgFetched:
		p, err := codec.ParsePayload[protocol.FetchedPayload](msg)
		if err != nil {
			return false, err
		}
		gs.Me = p.Player
		gs.MyNo = p.Player.No

	case protocol.MsgGameBasic:
		p, err := codec.ParsePayload[protocol.BasicStatusPayload](msg)
		if err != nil {
			return false, err
		}
		gs.Started = p.Started
		gs.Players = p.Players

	case protocol.MsgGameStart, protocol.MsgGameStatus:
		p, err := codec.ParsePayload[protocol.DetailStatusPayload](msg)
		if err != nil {
			return false, err
		}
		gs.applyDetail(p)
		if msg.Type == protocol.MsgGameStart {
			gs.LastEnd = nil
			return gs.Registered, nil
		}
		return gs.Registered && gs.touchesMe(p.Diff), nil

	case protocol.MsgGameEnd:
		p, err := codec.ParsePayload[protocol.GameEndPayload](msg)
		if err != nil {
			return false, err
		}
		gs.LastEnd = p
		gs.Started = false
		gs.FreeBull = p.FreeBull
		return gs.Registered, nil

	case protocol.MsgOnlineCount:
		p, err := codec.ParsePayload[protocol.OnlineCountPayload](msg)
		if err != nil {
			return false, err
		}
		gs.OnlineCount = p.Count

	case protocol.MsgLeaderboardResult:
		p, err := codec.ParsePayload[protocol.LeaderboardResultPayload](msg)
		if err != nil {
			return false, err
		}
		gs.Leaderboard = p.Entries
		gs.MyRank = p.MyRank

	case protocol.MsgHistoryResult:
		p, err := codec.ParsePayload[protocol.HistoryResultPayload](msg)
		if err != nil {
			return false, err
		}
		gs.History = p.Rounds

	case protocol.MsgError:
		p, err := codec.ParsePayload[protocol.ErrorPayload](msg)
		if err != nil {
			return false, err
		}
		gs.LastError = p
	}
	return false, nil
}

func (gs *GameState) applyDetail(p *protocol.DetailStatusPayload) {
	gs.Started = p.Started
	gs.Round = p.Round
	gs.Turn = p.Turn
	gs.FreeBull = p.FreeBull
	gs.Players = p.Players
	gs.Piles = p.Piles
	gs.LastDiff = p.Diff
}

// touchesMe 这次操作是否改变了自己的手牌或牛头
func (gs *GameState) touchesMe(diff *protocol.DiffInfo) bool {
	if diff == nil {
		return false
	}
	if diff.PlayerNo == gs.MyNo {
		return true
	}
	return diff.TargetNo != nil && *diff.TargetNo == gs.MyNo
}

// MyTurn 是否轮到自己
func (gs *GameState) MyTurn() bool {
	return gs.Started && gs.Registered && gs.Turn == gs.MyNo
}

// CurrentPlayer 当前出牌的玩家
func (gs *GameState) CurrentPlayer() (protocol.PlayerInfo, bool) {
	if !gs.Started || gs.Turn < 0 || gs.Turn >= len(gs.Players) {
		return protocol.PlayerInfo{}, false
	}
	return gs.Players[gs.Turn], true
}

// Hand 自己的手牌
func (gs *GameState) Hand() []card.Card {
	return card.FromInts(gs.Me.Hand)
}

// HandHeads 自己手牌的牛头分
func (gs *GameState) HandHeads() int {
	return rule.ScoreOfHand(gs.Hand())
}

// Targets 每张手牌可以放到哪些牌堆上
func (gs *GameState) Targets() map[card.Card][]int {
	out := make(map[card.Card][]int)
	for _, c := range gs.Hand() {
		for no, p := range gs.Piles {
			if p.Top != nil && pile.CanPushOnTop(card.Card(*p.Top), c) {
				out[c] = append(out[c], no)
			}
		}
	}
	return out
}
